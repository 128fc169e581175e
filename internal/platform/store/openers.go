package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	chx "reviewflow/internal/platform/store/ch"
	"reviewflow/internal/platform/store/pg"
)

// openPG opens pg and wraps it with our sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	// ping the pool directly with retry so boot survives a db that is
	// still coming up; the adapter is published only once healthy
	retries := cfg.PG.ConnectRetries
	if retries <= 0 {
		retries = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 150 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	attempts := 0
	ping := func() error {
		attempts++
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := p.Pool.Ping(toCtx); err != nil {
			if attempts >= retries {
				return backoff.Permanent(fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err))
			}
			return err
		}
		return nil
	}

	if err := backoff.Retry(ping, backoff.WithContext(bo, ctx)); err != nil {
		p.Close()
		return nil, err
	}

	a := newPGAdapter(p)
	s.PG = a
	return a, nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.Role,
		ClientTag:  cfg.AppName,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
