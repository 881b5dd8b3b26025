// Package database handles database connections, table discovery and the reads
// issued by comparison jobs.
//
// It wraps GORM with the PostgreSQL and MySQL drivers and exposes each
// connection as an Endpoint, which implements reconcile.Endpoint.
//
// # Connect
//
// Connect opens a source and pings it with "select 10", retrying with
// exponential backoff. Failures are reported as *reconcile.ConnectionError so
// the run can stop before any job starts.
//
// # Catalog
//
// TablesWithColumn, TablesWithColumns and AllTables read information_schema,
// excluding system schemas (PostgreSQL) or restricting to the current schema
// (MySQL). Results are filtered by the optional whitelist and sorted.
//
// # Executor
//
// Rows, ColumnValues, Count, MaxID, IDsUpdatedSince and Sequences each return a
// single concrete shape. Identifiers are passed as GORM clause columns so each
// dialect quotes them itself. Driver failures become *reconcile.QueryError with
// the SQLSTATE or MySQL error number attached.
//
// # Usage
//
//	db, err := database.Connect(ctx, reconcile.Primary, cfg.Primary)
//	if err != nil {
//	    return err
//	}
//	primary := database.NewEndpoint(db, reconcile.Primary, cfg.Compare.Tables)
//	tables, err := primary.TablesWithColumn(ctx, "updated_at")
package database
