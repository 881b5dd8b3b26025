package database

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"db-compare/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "app",
			TimeoutSeconds: 1,
			PingAttempts:   1,
		}

		db, err := Connect(context.Background(), reconcile.Primary, cfg)
		assert.Error(t, err)
		assert.Nil(t, db)

		var ce *reconcile.ConnectionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, reconcile.Primary, ce.Source)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		_, err := Connect(context.Background(), reconcile.Secondary, Config{Driver: "oracle"})
		var ce *reconcile.ConnectionError
		require.ErrorAs(t, err, &ce)
		assert.Contains(t, err.Error(), "oracle")
	})
}

func TestPostgresDSN(t *testing.T) {
	t.Run("From fields", func(t *testing.T) {
		dsn, err := PostgresDSN(Config{Host: "db", Port: 5432, User: "app", Password: "p@ss word", Name: "main", TLS: true, TimeoutSeconds: 5})
		require.NoError(t, err)

		u, err := url.Parse(dsn)
		require.NoError(t, err)
		assert.Equal(t, "db:5432", u.Host)
		assert.Equal(t, "/main", u.Path)
		pw, _ := u.User.Password()
		assert.Equal(t, "p@ss word", pw)
		assert.Equal(t, "require", u.Query().Get("sslmode"))
		assert.Equal(t, "5", u.Query().Get("connect_timeout"))
	})

	t.Run("URL keeps explicit sslmode", func(t *testing.T) {
		dsn, err := PostgresDSN(Config{DSN: "postgres://u:p@h/db?sslmode=verify-full", TLS: false})
		require.NoError(t, err)
		assert.Contains(t, dsn, "sslmode=verify-full")
		assert.Contains(t, dsn, "connect_timeout=30")
	})

	t.Run("URL without TLS", func(t *testing.T) {
		dsn, err := PostgresDSN(Config{DSN: "postgres://u:p@h/db", TLS: false})
		require.NoError(t, err)
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("Keyword form", func(t *testing.T) {
		dsn, err := PostgresDSN(Config{DSN: "host=h dbname=db", TLS: true, TimeoutSeconds: 3})
		require.NoError(t, err)
		assert.Equal(t, "host=h dbname=db sslmode=require connect_timeout=3", dsn)
	})
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(Config{Host: "db", Port: 3306, User: "root", Password: "secret", Name: "app", TLS: true, TimeoutSeconds: 7})
	assert.True(t, strings.HasPrefix(dsn, "root:secret@tcp(db:3306)/app?"))
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "tls=skip-verify")
	assert.Contains(t, dsn, "timeout=7s")

	assert.Equal(t, "u:p@/x", MySQLDSN(Config{DSN: "u:p@/x"}))
}

func TestPing(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("select 10").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(10))

		err := Ping(context.Background(), db, Config{TimeoutSeconds: 1, PingAttempts: 1})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retries then gives up", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("select 10").WillReturnError(errors.New("connection reset"))
		mock.ExpectQuery("select 10").WillReturnError(errors.New("connection reset"))

		err := Ping(context.Background(), db, Config{TimeoutSeconds: 1, PingAttempts: 2})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Recovers on second attempt", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("select 10").WillReturnError(errors.New("starting up"))
		mock.ExpectQuery("select 10").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(10))

		err := Ping(context.Background(), db, Config{TimeoutSeconds: 1, PingAttempts: 3})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
