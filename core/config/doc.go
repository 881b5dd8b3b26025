// Package config provides configuration management for db-compare.
//
// It utilizes Viper for loading configuration from a .env file, an optional
// YAML config file, environment variables, and command-line flags bound by
// the run command.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Primary, Secondary: the two database connections (DSN or discrete fields)
//   - Compare: window limit, sample cap, jobs, table whitelist, cutoff, differ
//   - Output: diff folder and console echo
//   - Storage: S3/MinIO upload of the finished diff file
//   - Metrics: textfile path
//   - Log: Logging level and format
//
// Environment variables use the upper-cased key with dots replaced by
// underscores, for example PRIMARY_DSN or COMPARE_LIMIT.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
