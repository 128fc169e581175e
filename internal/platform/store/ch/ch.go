// Package ch provides a thin clickhouse client for columnar analytics writes
package ch

import (
	"context"
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL string

	// ClientName/ClientTag annotate the connection in system.query_log
	ClientName string
	ClientTag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH wraps a native clickhouse connection
type CH struct {
	conn driver.Conn
}

// openConn is a seam so tests can avoid a live server
var openConn = func(opts *clickhouse.Options) (driver.Conn, error) {
	return clickhouse.Open(opts)
}

// Open parses the DSN and dials clickhouse
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.ClientName != "" {
		opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	}
	conn, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows ([][]any) into table via a prepared batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if c == nil || c.conn == nil {
		return errors.New("ch: nil connection")
	}
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			return err
		}
	}
	return batch.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if c == nil || c.conn == nil {
		return nil, errors.New("ch: nil connection")
	}
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return nativeRows{rows: rows}, nil
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return errors.New("ch: nil connection")
	}
	return c.conn.Ping(ctx)
}

// Close closes the underlying connection
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// nativeRows adapts driver.Rows to ch.Rows
type nativeRows struct{ rows driver.Rows }

func (r nativeRows) Next() bool             { return r.rows.Next() }
func (r nativeRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r nativeRows) Err() error             { return r.rows.Err() }
func (r nativeRows) Close() error           { return r.rows.Close() }
func (r nativeRows) Columns() []string      { return r.rows.Columns() }
