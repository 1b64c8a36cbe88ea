package query

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Observer receives the duration of each executed query.
type Observer interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// Fetcher reads one page of joined rows of type R for a table.
type Fetcher[R any] struct {
	db       sqlx.QueryerContext
	table    Table
	observer Observer
}

// NewFetcher constructs a Fetcher. observer may be nil.
func NewFetcher[R any](db sqlx.QueryerContext, table Table, observer Observer) Fetcher[R] {
	return Fetcher[R]{db: db, table: table, observer: observer}
}

// Fetch returns the joined rows for the requested page and the number of
// distinct parents matching where. Pagination is applied to the unjoined
// parent table so join fan-out never changes which parents are paged in.
func (f Fetcher[R]) Fetch(ctx context.Context, spec Spec, where Clause, order OrderBy) ([]R, int, error) {
	pageSQL, pageArgs, err := f.pageQuery(spec, where, order)
	if err != nil {
		return nil, 0, fmt.Errorf("build %s page query: %w", f.table.Name, err)
	}

	start := time.Now()
	rows, err := Collect[R](ctx, f.db, pageSQL, pageArgs...)
	f.observe("page", start)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s page: %w", f.table.Name, err)
	}

	countSQL, countArgs, err := sq.Select("COUNT(*)").
		From(f.table.Name).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build %s count query: %w", f.table.Name, err)
	}

	start = time.Now()
	var total int
	err = sqlx.GetContext(ctx, f.db, &total, countSQL, countArgs...)
	f.observe("count", start)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", f.table.Name, err)
	}
	return rows, total, nil
}

func (f Fetcher[R]) pageQuery(spec Spec, where Clause, order OrderBy) (string, []interface{}, error) {
	t := f.table
	innerOrder := []string{order.SQL("")}
	outerOrder := []string{order.SQL(t.Alias)}
	if order.Column != "id" {
		innerOrder = append(innerOrder, "id ASC")
		outerOrder = append(outerOrder, t.Alias+".id ASC")
	}

	parents := sq.Select(t.Columns...).
		From(t.Name).
		Where(where).
		OrderBy(innerOrder...).
		Suffix("LIMIT ? OFFSET ?", spec.Limit(), spec.Offset())

	return sq.Select(t.qualifiedColumns()...).
		FromSelect(parents, t.Alias).
		LeftJoin(t.junctionJoin()).
		OrderBy(outerOrder...).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func (f Fetcher[R]) observe(kind string, start time.Time) {
	if f.observer == nil {
		return
	}
	f.observer.ObserveDBQuery(f.table.Name+"."+kind, time.Since(start))
}

// Collect runs a query and struct-scans every row in the order returned.
func Collect[R any](ctx context.Context, db sqlx.QueryerContext, query string, args ...interface{}) ([]R, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []R
	for rows.Next() {
		var row R
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
