package database

import (
	"errors"
	"strconv"

	"db-compare/core/reconcile"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryError wraps err as a *reconcile.QueryError carrying the driver's error code.
func queryError(source reconcile.Source, table string, err error) error {
	if err == nil {
		return nil
	}
	return &reconcile.QueryError{
		Source: source,
		Table:  table,
		Code:   errorCode(err),
		Err:    err,
	}
}

// errorCode extracts the SQLSTATE (PostgreSQL) or error number (MySQL) from err.
func errorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}
	return ""
}
