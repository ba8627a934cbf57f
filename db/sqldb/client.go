package sqldb

import (
	"context"
)

type Client interface {
	Init() error
	Close() error
	GetHandle() DBHandle
	DBHandle // Methods required for DBHandle are also required, so, promote it
	GetConf() *Conf
	GetDSN() string
	Ping(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)

	// PlaceholderPrefix - the dialect's positional placeholder prefix byte.
	// '?' for mysql (non-ordinal), '$' for pgsql (ordinal)
	PlaceholderPrefix() byte
	// Placeholders - a comma-joined placeholder list for IN (...) clauses.
	// start is the first ordinal index (default 1). Ignored for '?' dialects.
	Placeholders(length int, start ...int) string
}
