package sqldb

import "errors"

// ErrNoRows is the dialect-neutral no-row sentinel.
// Impls map sql.ErrNoRows / pgx.ErrNoRows to this at Row.Scan().
var ErrNoRows = errors.New("sqldb: no rows in result set")
