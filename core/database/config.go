package database

// Config holds configuration for one database connection.
type Config struct {
	// DSN is a full connection string. When set it takes precedence over the discrete fields.
	DSN string `mapstructure:"dsn" default:""`
	// Host is the database host.
	Host string `mapstructure:"host" default:""`
	// Port is the database port.
	Port int `mapstructure:"port" default:"5432"`
	// User is the database user.
	User string `mapstructure:"user" default:"postgres"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"postgres"`
	// Driver is the database driver (postgres, mysql).
	Driver string `mapstructure:"driver" default:"postgres"`
	// TLS enables encrypted connections without certificate verification.
	TLS bool `mapstructure:"tls" default:"true"`
	// TimeoutSeconds bounds connection setup and each startup ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PingAttempts is how many times the startup ping is tried.
	PingAttempts int `mapstructure:"ping_attempts" default:"3"`
}
