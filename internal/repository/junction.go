package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-management-api/internal/query"
)

const junctionTable = "student_courses"

// linkRelated inserts (owner, related) pairs in one statement. Empty input is a no-op.
func linkRelated(ctx context.Context, tx sqlx.ExecerContext, table query.Table, ownerID int64, relatedIDs []int64) error {
	if len(relatedIDs) == 0 {
		return nil
	}
	stmt, args, err := table.InsertLinks(ownerID, relatedIDs)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("link %s %d: %w", table.Name, ownerID, err)
	}
	return nil
}

// unlinkRelated deletes the given pairs in one statement. Empty input is a no-op.
func unlinkRelated(ctx context.Context, tx sqlx.ExecerContext, table query.Table, ownerID int64, relatedIDs []int64) error {
	if len(relatedIDs) == 0 {
		return nil
	}
	stmt, args, err := table.DeleteLinks(ownerID, relatedIDs)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("unlink %s %d: %w", table.Name, ownerID, err)
	}
	return nil
}

// deleteWithLinks removes every junction row for id and then the parent row in
// one transaction. Returns sql.ErrNoRows when the parent did not exist.
func deleteWithLinks(ctx context.Context, db *sqlx.DB, table query.Table, id int64) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete %s: %w", table.Name, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table.Junction, table.JunctionKey), id); err != nil {
		return fmt.Errorf("delete %s links: %w", table.Name, err)
	}
	res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table.Name), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table.Name, err)
	}
	if err = requireAffected(res); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete %s: %w", table.Name, err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
