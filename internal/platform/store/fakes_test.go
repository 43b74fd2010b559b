package store

import (
	"context"
	"errors"
)

// fakeRows yields pre-baked rows of scalars
type fakeRows struct {
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.data) }
func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     {}
func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return errors.New("scan arity")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

type fakeTag struct{ n int64 }

func (t fakeTag) String() string      { return "UPDATE" }
func (t fakeTag) RowsAffected() int64 { return t.n }

type fakeQuerier struct {
	rows     [][]any
	affected int64
	err      error
	pingErr  error
	closed   bool
}

func (q *fakeQuerier) Exec(context.Context, string, ...any) (CommandTag, error) {
	return fakeTag{q.affected}, q.err
}

func (q *fakeQuerier) Query(context.Context, string, ...any) (Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return &fakeRows{data: q.rows}, nil
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	rs, _ := q.Query(ctx, sql, args...)
	if rs == nil || !rs.Next() {
		return errRow{errors.New("no rows")}
	}
	return rs
}

func (q *fakeQuerier) Tx(_ context.Context, fn func(RowQuerier) error) error { return fn(q) }
func (q *fakeQuerier) Ping(context.Context) error                           { return q.pingErr }
func (q *fakeQuerier) Close() error                                         { q.closed = true; return nil }

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
