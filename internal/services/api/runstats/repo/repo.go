// Package repo provides clickhouse access for pipeline run stats
package repo

import (
	"context"
	"fmt"

	perr "reviewflow/internal/platform/errors"
	"reviewflow/internal/platform/store"
)

// Repo is the minimal analytics surface for run stats
type Repo interface {
	RecentRuns(ctx context.Context, limit int) ([]RunRow, error)
	StageBreakdown(ctx context.Context, runID string) ([]StageRow, error)
}

// RunRow summarizes one pipeline run
type RunRow struct {
	RunID      string
	Events     int64
	Errors     int64
	StartedAt  string
	FinishedAt string
}

// StageRow summarizes one stage within a run
type StageRow struct {
	Stage     string
	Handled   int64
	Failed    int64
	AvgMillis float64
}

type queries struct {
	ch    store.Clickhouse
	table string
}

// NewCH binds the repo to the clickhouse seam over the given outcome table
func NewCH(ch store.Clickhouse, table string) Repo {
	return &queries{ch: ch, table: table}
}

func (r *queries) RecentRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	sql := fmt.Sprintf(`
SELECT
    run_id,
    count() AS events,
    countIf(status = 'error') AS errors,
    toString(min(ts)) AS started_at,
    toString(max(ts)) AS finished_at
FROM %s
WHERE run_id != ''
GROUP BY run_id
ORDER BY max(ts) DESC
LIMIT ?
`, r.table)
	rows, err := r.ch.Query(ctx, sql, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "runstats: recent runs query")
	}
	defer rows.Close()
	var out []RunRow
	for rows.Next() {
		var rr RunRow
		if err := rows.Scan(&rr.RunID, &rr.Events, &rr.Errors, &rr.StartedAt, &rr.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) StageBreakdown(ctx context.Context, runID string) ([]StageRow, error) {
	sql := fmt.Sprintf(`
SELECT
    stage,
    count() AS handled,
    countIf(status = 'error') AS failed,
    avg(elapsed_ms) AS avg_ms
FROM %s
WHERE run_id = ?
GROUP BY stage
ORDER BY stage ASC
`, r.table)
	rows, err := r.ch.Query(ctx, sql, runID)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "runstats: stage breakdown query")
	}
	defer rows.Close()
	var out []StageRow
	for rows.Next() {
		var sr StageRow
		if err := rows.Scan(&sr.Stage, &sr.Handled, &sr.Failed, &sr.AvgMillis); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
