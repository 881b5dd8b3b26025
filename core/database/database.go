package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"db-compare/core/reconcile"

	"github.com/cenkalti/backoff/v5"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverPostgres selects the PostgreSQL dialect.
	DriverPostgres = "postgres"
	// DriverMySQL selects the MySQL dialect.
	DriverMySQL = "mysql"
)

// Connect opens source and verifies it answers a ping.
// Any failure is returned as a *reconcile.ConnectionError.
func Connect(ctx context.Context, source reconcile.Source, cfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, &reconcile.ConnectionError{Source: source, Err: err}
	}

	// Suppress GORM logging; failures surface through returned errors
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, &reconcile.ConnectionError{Source: source, Err: fmt.Errorf("failed to connect to database: %w", err)}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, &reconcile.ConnectionError{Source: source, Err: fmt.Errorf("failed to get sql.DB: %w", err)}
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Ping(ctx, db, cfg); err != nil {
		_ = sqlDB.Close()
		return nil, &reconcile.ConnectionError{Source: source, Err: err}
	}

	return db, nil
}

// Ping runs "select 10" until it succeeds or the configured attempts run out.
// Each attempt is bounded by the connection timeout.
func Ping(ctx context.Context, db *gorm.DB, cfg Config) error {
	timeout := cfg.timeout()
	attempts := cfg.PingAttempts
	if attempts <= 0 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	_, err := backoff.Retry(ctx, func() (int, error) {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var pong int
		if err := db.WithContext(pctx).Raw("select 10").Scan(&pong).Error; err != nil {
			return 0, fmt.Errorf("failed to ping database: %w", err)
		}
		if pong != 10 {
			return 0, backoff.Permanent(fmt.Errorf("unexpected ping reply %d", pong))
		}
		return pong, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(timeout*time.Duration(attempts+1)),
	)
	return err
}

// Dialector builds the GORM dialector for cfg.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverPostgres, "postgresql":
		dsn, err := PostgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(MySQLDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// PostgresDSN returns a postgres URL for cfg. An explicit DSN keeps its own
// sslmode and connect_timeout when present.
func PostgresDSN(cfg Config) (string, error) {
	sslmode := "disable"
	if cfg.TLS {
		sslmode = "require"
	}

	if cfg.DSN != "" {
		if !strings.Contains(cfg.DSN, "://") {
			// key=value form
			dsn := cfg.DSN
			if !strings.Contains(dsn, "sslmode=") {
				dsn += " sslmode=" + sslmode
			}
			if !strings.Contains(dsn, "connect_timeout=") {
				dsn += fmt.Sprintf(" connect_timeout=%d", cfg.timeoutSeconds())
			}
			return dsn, nil
		}

		u, err := url.Parse(cfg.DSN)
		if err != nil {
			return "", fmt.Errorf("invalid dsn: %w", err)
		}
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", sslmode)
		}
		if q.Get("connect_timeout") == "" {
			q.Set("connect_timeout", fmt.Sprint(cfg.timeoutSeconds()))
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	q := url.Values{}
	q.Set("sslmode", sslmode)
	q.Set("connect_timeout", fmt.Sprint(cfg.timeoutSeconds()))
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// MySQLDSN returns a go-sql-driver DSN for cfg. An explicit DSN is used verbatim.
func MySQLDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	timeout := cfg.timeout()
	mc := mysqldriver.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = timeout
	mc.ReadTimeout = timeout
	mc.WriteTimeout = timeout
	mc.Params = map[string]string{"charset": "utf8mb4"}
	if cfg.TLS {
		mc.TLSConfig = "skip-verify"
	}
	return mc.FormatDSN()
}

func (c Config) timeoutSeconds() int {
	if c.TimeoutSeconds <= 0 {
		return 30
	}
	return c.TimeoutSeconds
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.timeoutSeconds()) * time.Second
}
