package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"db-compare/core/database"
	"db-compare/core/differ"
	"db-compare/core/logger"
	"db-compare/core/metrics"
	"db-compare/core/output"
	"db-compare/core/reconcile"
	"db-compare/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Primary is the reference database.
	Primary database.Config `mapstructure:"primary"`
	// Secondary is the database checked against the primary.
	Secondary database.Config `mapstructure:"secondary"`
	// Compare holds window sizes, jobs and the differ.
	Compare reconcile.Config `mapstructure:"compare"`
	// Output holds where diffs are written.
	Output output.Config `mapstructure:"output"`
	// Storage holds configuration for uploading diff files (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Metrics holds the metrics textfile location.
	Metrics metrics.Config `mapstructure:"metrics"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from a .env file in path, an optional config
// file, and environment variables, in increasing order of precedence.
func LoadConfig(path, file string) (*Config, error) {
	v, err := NewViper(path, file)
	if err != nil {
		return nil, err
	}
	return Unmarshal(v)
}

// NewViper prepares a viper instance with defaults, the config file and the
// environment wired in. Callers may bind flags on it before Unmarshal.
func NewViper(path, file string) (*viper.Viper, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	// Map environment variables to nested keys (e.g. PRIMARY_DSN -> primary.dsn)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Unmarshal decodes v into a Config.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings no run could succeed with.
func (c *Config) Validate() error {
	var errs []error

	if c.Compare.Limit <= 0 {
		errs = append(errs, fmt.Errorf("compare.limit must be greater than zero, got %d", c.Compare.Limit))
	}
	if c.Compare.SampleSize < 0 {
		errs = append(errs, fmt.Errorf("compare.by_id_sample_size must not be negative, got %d", c.Compare.SampleSize))
	}
	if _, err := reconcile.ParseJobs(c.Compare.Jobs); err != nil {
		errs = append(errs, fmt.Errorf("compare.jobs: %w (known: %s)", err, strings.Join(reconcile.JobNames(), ", ")))
	}
	if _, err := differ.New(c.Compare.Differ, false); err != nil {
		errs = append(errs, fmt.Errorf("compare.differ: %w", err))
	}
	if c.Primary.DSN == "" && c.Primary.Host == "" {
		errs = append(errs, errors.New("primary database is not configured (set primary.dsn or --db1)"))
	}
	if c.Secondary.DSN == "" && c.Secondary.Host == "" {
		errs = append(errs, errors.New("secondary database is not configured (set secondary.dsn or --db2)"))
	}
	if c.Storage.Enabled && c.Output.Folder == "" {
		errs = append(errs, errors.New("storage upload needs output.folder"))
	}

	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
