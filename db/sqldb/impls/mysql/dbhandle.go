package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/zeptools/tablet-core/db/sqldb"
)

type DBHandle struct {
	db *sql.DB
}

// Ensure mysql.DBHandle implements sqldb.DBHandle interface
var _ sqldb.DBHandle = (*DBHandle)(nil)

func (h *DBHandle) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	result, err := h.db.ExecContext(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return &Result{result: result}, nil
}

func (h *DBHandle) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (h *DBHandle) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	row := h.db.QueryRowContext(ctx, query, args...)
	return &Row{row: row}
}

// CopyFrom - params: table, columns, rows
func (h *DBHandle) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	// MySQL has no native COPY. Emulate with a single multi-row INSERT.
	if len(rows) == 0 {
		return 0, nil
	}
	rowPlaceholders := "(" + sqldb.JoinedPlaceholders('?', len(columns)) + ")"
	allPlaceholders := make([]string, len(rows))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("CopyFrom: row %d has %d values for %d columns", i, len(row), len(columns))
		}
		allPlaceholders[i] = rowPlaceholders
		args = append(args, row...)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		table,
		strings.Join(columns, ", "),
		strings.Join(allPlaceholders, ", "),
	)
	result, err := h.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Listen - param: channel
func (h *DBHandle) Listen(_ context.Context, _ string) (<-chan sqldb.Notification, error) {
	return nil, fmt.Errorf("method `Listen` not supported for MySQL")
}

func (h *DBHandle) InsertStmt(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "INSERT") {
		return nil, fmt.Errorf("InsertStmt must start with INSERT")
	}
	result, err := h.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Result{result: result}, nil
}

func (h *DBHandle) Prepare(ctx context.Context, query string) (sqldb.PreparedStmt, error) {
	stmt, err := h.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &PreparedStmt{stmt: stmt}, nil
}
