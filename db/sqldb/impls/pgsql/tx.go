package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zeptools/tablet-core/db/sqldb"
)

type Tx struct {
	tx   pgx.Tx
	conn *pgxpool.Conn // released on Commit/Rollback
}

// Ensure pgsql.Tx implements sqldb.Tx
var _ sqldb.Tx = (*Tx)(nil)

func (t *Tx) Commit(ctx context.Context) error {
	err := t.tx.Commit(ctx)
	if t.conn != nil {
		t.conn.Release()
		t.conn = nil
	}
	return err
}

// Rollback after a successful Commit is a no-op, so it is safe to defer.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if t.conn != nil {
		t.conn.Release()
		t.conn = nil
	}
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{
		conn:    nil, // tx already owns the connection
		current: rows,
		batch:   nil,
	}, nil
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return &Row{row: t.tx.QueryRow(ctx, query, args...)}
}
