package repo

import (
	"context"
	"strings"
	"testing"

	"reviewflow/internal/modkit/repokit"
	"reviewflow/internal/platform/store"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.vals[i].(int64)
		case *bool:
			*p = r.vals[i].(bool)
		default:
			panic("unsupported scan dest")
		}
	}
	return nil
}

type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return fakeRow{vals: r.rows[r.i-1]}.Scan(dest...) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 {}
func (r *fakeRows) Columns() []string      { return nil }

type fakeQueryer struct {
	lastSQL  string
	lastArgs []any
	row      fakeRow
	rows     [][]any
}

func (f *fakeQueryer) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return nil, nil
}

func (f *fakeQueryer) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	return &fakeRows{rows: f.rows}, nil
}

func (f *fakeQueryer) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	f.lastSQL, f.lastArgs = sql, args
	return f.row
}

func TestIncrement_UsesAtomicUpsert(t *testing.T) {
	t.Parallel()

	q := &fakeQueryer{row: fakeRow{vals: []any{int64(3)}}}
	st := NewPG().Bind(q)

	n, err := st.Increment(context.Background(), "U1", 1)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if n != 3 {
		t.Fatalf("n: %d", n)
	}
	for _, frag := range []string{"ON CONFLICT (reviewer_id) DO UPDATE", "RETURNING violation_count"} {
		if !strings.Contains(q.lastSQL, frag) {
			t.Fatalf("sql missing %q:\n%s", frag, q.lastSQL)
		}
	}
	if len(q.lastArgs) != 2 || q.lastArgs[0] != "U1" || q.lastArgs[1] != int64(1) {
		t.Fatalf("args: %v", q.lastArgs)
	}
}

func TestBan_SetsFlagOnly(t *testing.T) {
	t.Parallel()

	q := &fakeQueryer{}
	if err := NewPG().Bind(q).Ban(context.Background(), "U1"); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if !strings.Contains(q.lastSQL, "SET banned = TRUE") {
		t.Fatalf("sql:\n%s", q.lastSQL)
	}
}

func TestGet_UnseenReviewerIsZero(t *testing.T) {
	t.Parallel()

	q := &fakeQueryer{} // no rows
	c, err := NewPG().Bind(q).Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("get unseen: %v", err)
	}
	if c.Violations != 0 || c.Banned {
		t.Fatalf("unseen: %+v", c)
	}
}

func TestGet_ScansRow(t *testing.T) {
	t.Parallel()

	q := &fakeQueryer{rows: [][]any{{int64(5), true}}}
	c, err := NewPG().Bind(q).Get(context.Background(), "U1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Violations != 5 || !c.Banned {
		t.Fatalf("counts: %+v", c)
	}
}

var _ repokit.Binder[Storage] = binder{}
