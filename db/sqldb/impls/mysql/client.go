package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql" // side-effect
	"github.com/zeptools/tablet-core/db/sqldb"
)

func init() {
	sqldb.RegisterFactory("mysql", func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf}, nil
	})
}

type Client struct {
	Conf *sqldb.Conf

	// db fields are implementation details, not exported
	db  *sql.DB
	dsn string

	handle *DBHandle
}

// Ensure mysql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func (c *Client) Init() error {
	var err error
	if c.Conf.DSN != "" {
		c.dsn = c.Conf.DSN
	} else {
		c.dsn = fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=%s&sql_mode=ANSI_QUOTES&multiStatements=true",
			c.Conf.User,
			c.Conf.PW,
			c.Conf.Host,
			c.Conf.Port,
			c.Conf.DB,
			c.Conf.TZ,
		)
	}
	if c.db, err = sql.Open("mysql", c.dsn); err != nil {
		return err
	}
	c.db.SetConnMaxLifetime(time.Minute * 3)
	c.db.SetMaxOpenConns(10)
	c.db.SetMaxIdleConns(10)
	if err = c.db.Ping(); err != nil {
		return err
	}
	c.handle = &DBHandle{db: c.db}
	log.Println("[INFO] mysql client initialized")
	return nil
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	log.Println("[INFO] closing mysql client")
	err := c.db.Close()
	if err != nil {
		return err
	}
	log.Println("[INFO] mysql client closed")
	return nil
}

func (c *Client) GetHandle() sqldb.DBHandle {
	return c.handle
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) GetDSN() string {
	return c.dsn
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) BeginTx(ctx context.Context) (sqldb.Tx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

func (c *Client) PlaceholderPrefix() byte {
	return '?'
}

func (c *Client) Placeholders(length int, start ...int) string {
	return sqldb.JoinedPlaceholders('?', length, start...)
}

func (c *Client) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	return c.handle.Exec(ctx, query, args...)
}

func (c *Client) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	return c.handle.QueryRows(ctx, query, args...)
}

func (c *Client) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return c.handle.QueryRow(ctx, query, args...)
}

func (c *Client) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return c.handle.CopyFrom(ctx, table, columns, rows)
}

func (c *Client) Listen(ctx context.Context, channel string) (<-chan sqldb.Notification, error) {
	return c.handle.Listen(ctx, channel)
}

func (c *Client) Prepare(ctx context.Context, query string) (sqldb.PreparedStmt, error) {
	return c.handle.Prepare(ctx, query)
}

func (c *Client) InsertStmt(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	return c.handle.InsertStmt(ctx, query, args...)
}
