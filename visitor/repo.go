package visitor

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const counterName = "visitors"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repository struct {
	conn *sql.DB
	db   querier
}

func NewRepo(db *sql.DB) *repository {
	return &repository{db, db}
}

// WithTx runs fn against a repository bound to a single transaction,
// committing when fn returns nil.
func (r *repository) WithTx(ctx context.Context, fn func(*repository) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	err = fn(&repository{r.conn, tx})
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *repository) Increment(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
	INSERT INTO visitor_counter (name, value) VALUES ($1, 1)
	ON CONFLICT (name) DO UPDATE SET value = visitor_counter.value + 1
	RETURNING value`, counterName).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
	SELECT value FROM visitor_counter WHERE name = $1`, counterName).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// StartSession opens the session id at at unless it has a visit after
// expiredBefore. It reports whether a new session was opened.
func (r *repository) StartSession(ctx context.Context, id string, at, expiredBefore time.Time) (bool, error) {
	var got string
	err := r.db.QueryRowContext(ctx, `
	INSERT INTO visitor_session (id, last_visit) VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE SET last_visit = excluded.last_visit
	WHERE visitor_session.last_visit < $3
	RETURNING id`, id, at.UTC(), expiredBefore.UTC()).Scan(&got)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repository) TouchSession(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE visitor_session SET last_visit = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return err
	}
	return nil
}

func (r *repository) DeleteSessionsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM visitor_session WHERE last_visit < $1`, t.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
