package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"db-compare/core/reconcile"
	"db-compare/core/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Endpoint reads one database. It implements reconcile.Endpoint.
type Endpoint struct {
	db        *gorm.DB
	source    reconcile.Source
	whitelist map[string]struct{}
}

// NewEndpoint wraps db as source. A non-empty whitelist restricts table discovery.
func NewEndpoint(db *gorm.DB, source reconcile.Source, whitelist []string) *Endpoint {
	e := &Endpoint{db: db, source: source}
	if len(whitelist) > 0 {
		e.whitelist = make(map[string]struct{}, len(whitelist))
		for _, t := range whitelist {
			e.whitelist[t] = struct{}{}
		}
	}
	return e
}

// Source implements reconcile.Executor.
func (e *Endpoint) Source() reconcile.Source { return e.source }

// DB returns the underlying connection.
func (e *Endpoint) DB() *gorm.DB { return e.db }

// Rows returns full records for q.
func (e *Endpoint) Rows(ctx context.Context, q reconcile.QuerySpec) (reconcile.Rows, error) {
	var raw []map[string]any
	if err := e.build(ctx, q).Find(&raw).Error; err != nil {
		return nil, queryError(e.source, q.Table, err)
	}

	rows := make(reconcile.Rows, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, reconcile.Row(utils.NormalizeRow(r)))
	}
	return rows, nil
}

// ColumnValues returns "key : value" lines for the last projected column of q.
func (e *Endpoint) ColumnValues(ctx context.Context, q reconcile.QuerySpec) ([]string, error) {
	if len(q.Columns) < 2 {
		return nil, queryError(e.source, q.Table, fmt.Errorf("column values need a key and a value column"))
	}
	rows, err := e.Rows(ctx, q)
	if err != nil {
		return nil, err
	}

	column := q.Columns[len(q.Columns)-1]
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, fmt.Sprintf("%s : %s", utils.ToString(r[q.Key()]), utils.ToString(r[column])))
	}
	return out, nil
}

// Count returns the number of rows in table.
func (e *Endpoint) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := e.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, queryError(e.source, table, err)
	}
	return n, nil
}

// MaxID returns the greatest key in table, or 0 for an empty table.
func (e *Endpoint) MaxID(ctx context.Context, table string) (int64, error) {
	var v sql.NullInt64
	row := e.db.WithContext(ctx).
		Table(table).
		Select("MAX(?)", clause.Column{Name: reconcile.DefaultKeyColumn}).
		Row()
	if err := row.Scan(&v); err != nil {
		return 0, queryError(e.source, table, err)
	}
	if !v.Valid {
		return 0, nil
	}
	return v.Int64, nil
}

// IDsUpdatedSince returns keys whose column is at or after since.
func (e *Endpoint) IDsUpdatedSince(ctx context.Context, table, column string, since time.Time) ([]string, error) {
	var ids []string
	err := e.db.WithContext(ctx).
		Table(table).
		Where(clause.Gte{Column: clause.Column{Name: column}, Value: since}).
		Pluck(reconcile.DefaultKeyColumn, &ids).Error
	if err != nil {
		return nil, queryError(e.source, table, err)
	}
	return ids, nil
}

type sequenceRow struct {
	Name      string
	LastValue *int64
}

const postgresSequences = `SELECT sequencename AS name, last_value AS last_value
FROM pg_sequences
ORDER BY sequencename`

const mysqlSequences = `SELECT table_name AS name, auto_increment AS last_value
FROM information_schema.tables
WHERE table_schema = DATABASE() AND auto_increment IS NOT NULL
ORDER BY table_name`

// Sequences returns every sequence and its last value. On MySQL the
// AUTO_INCREMENT counter of each table stands in for a sequence.
func (e *Endpoint) Sequences(ctx context.Context) ([]reconcile.Sequence, error) {
	query := postgresSequences
	if e.dialect() == DriverMySQL {
		query = mysqlSequences
	}

	var raw []sequenceRow
	if err := e.db.WithContext(ctx).Raw(query).Scan(&raw).Error; err != nil {
		return nil, queryError(e.source, "", err)
	}

	out := make([]reconcile.Sequence, 0, len(raw))
	for _, r := range raw {
		out = append(out, reconcile.Sequence{Name: r.Name, LastValue: r.LastValue})
	}
	return out, nil
}

// build translates q into a GORM statement. Identifiers go through clause
// expressions so each dialect quotes them itself.
func (e *Endpoint) build(ctx context.Context, q reconcile.QuerySpec) *gorm.DB {
	key := clause.Column{Name: q.Key()}
	tx := e.db.WithContext(ctx).Table(q.Table)

	if len(q.Columns) > 0 {
		cols := make([]clause.Column, 0, len(q.Columns))
		for _, c := range q.Columns {
			cols = append(cols, clause.Column{Name: c})
		}
		tx = tx.Clauses(clause.Select{Columns: cols})
	}

	switch q.Bound.Kind {
	case reconcile.BoundIDRange:
		tx = tx.Where(clause.Gt{Column: key, Value: q.Bound.Lower}).
			Where(clause.Lte{Column: key, Value: q.Bound.Upper})
	case reconcile.BoundBefore:
		col := clause.Column{Name: q.OrderColumn}
		if q.Bound.BeforeID > 0 {
			tx = tx.Where(clause.Or(
				clause.Lt{Column: col, Value: q.Bound.Before},
				clause.And(
					clause.Eq{Column: col, Value: q.Bound.Before},
					clause.Lt{Column: key, Value: q.Bound.BeforeID},
				),
			))
		} else {
			tx = tx.Where(clause.Lt{Column: col, Value: q.Bound.Before})
		}
	}

	if q.OrderColumn != "" {
		tx = tx.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: q.OrderColumn}, Desc: true},
			{Column: key, Desc: true},
		}})
	} else {
		tx = tx.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: key}}})
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx
}
