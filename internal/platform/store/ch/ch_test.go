package ch

import (
	"context"
	"errors"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"

	"chromalyzer/internal/platform/testkit"
)

type fakeBatch struct {
	rows    [][]any
	sent    bool
	aborted bool
	failAt  int
}

func (b *fakeBatch) Append(v ...any) error {
	if b.failAt > 0 && len(b.rows)+1 == b.failAt {
		return errors.New("append failed")
	}
	b.rows = append(b.rows, v)
	return nil
}
func (b *fakeBatch) Send() error  { b.sent = true; return nil }
func (b *fakeBatch) Abort() error { b.aborted = true; return nil }

type fakeRows struct{ n int }

func (r *fakeRows) Next() bool             { r.n--; return r.n >= 0 }
func (r *fakeRows) Scan(dest ...any) error { return nil }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close() error           { return nil }
func (r *fakeRows) Columns() []string      { return []string{"one"} }

type fakeConn struct {
	pingErr  error
	batch    *fakeBatch
	prepared string
	execs    []string
	closed   bool
}

func (f *fakeConn) Ping(context.Context) error { return f.pingErr }
func (f *fakeConn) Query(context.Context, string, ...any) (Rows, error) {
	return &fakeRows{n: 1}, nil
}
func (f *fakeConn) Exec(_ context.Context, q string, _ ...any) error {
	f.execs = append(f.execs, q)
	return nil
}
func (f *fakeConn) Prepare(_ context.Context, q string) (batch, error) {
	f.prepared = q
	return f.batch, nil
}
func (f *fakeConn) Close() error { f.closed = true; return nil }

func TestOpen_EmptyURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestOpen_BadDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_PingFailureClosesConn(t *testing.T) {
	testkit.Serial(t)
	fc := &fakeConn{pingErr: errors.New("down")}
	testkit.Swap(t, &dial, func(*clickhouse.Options) (conn, error) { return fc, nil })

	if _, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/default"}); err == nil {
		t.Fatalf("expected ping error")
	}
	if !fc.closed {
		t.Fatalf("conn not closed after failed ping")
	}
}

func TestOpen_SetsClientInfo(t *testing.T) {
	testkit.Serial(t)
	var seen *clickhouse.Options
	testkit.Swap(t, &dial, func(o *clickhouse.Options) (conn, error) { seen = o; return &fakeConn{}, nil })

	c, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/default", ClientName: "chromalyzer-api", ClientTag: "v1"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()
	if len(seen.ClientInfo.Products) == 0 || seen.ClientInfo.Products[0].Version != "v1" {
		t.Fatalf("client info = %+v", seen.ClientInfo)
	}
}

func TestInsert_BatchesRows(t *testing.T) {
	fb := &fakeBatch{}
	fc := &fakeConn{batch: fb}
	c := &CH{c: fc}

	if err := c.Insert(context.Background(), "peak_ledger", [][]any{{1, "a"}, {2, "b"}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if fc.prepared != "INSERT INTO peak_ledger" || len(fb.rows) != 2 || !fb.sent {
		t.Fatalf("prepared=%q rows=%v sent=%v", fc.prepared, fb.rows, fb.sent)
	}
}

func TestInsert_AbortsOnAppendError(t *testing.T) {
	fb := &fakeBatch{failAt: 2}
	c := &CH{c: &fakeConn{batch: fb}}

	if err := c.Insert(context.Background(), "t", [][]any{{1}, {2}}); err == nil {
		t.Fatalf("expected append error")
	}
	if !fb.aborted || fb.sent {
		t.Fatalf("aborted=%v sent=%v", fb.aborted, fb.sent)
	}
}

func TestInsert_EmptyIsNoop(t *testing.T) {
	fc := &fakeConn{}
	if err := (&CH{c: fc}).Insert(context.Background(), "t", nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if fc.prepared != "" {
		t.Fatalf("empty insert should not prepare a batch")
	}
}

func TestQueryExecClose(t *testing.T) {
	fc := &fakeConn{}
	c := &CH{c: fc}

	rows, err := c.Query(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !rows.Next() || rows.Next() {
		t.Fatalf("expected a single row")
	}
	if err := c.Exec(context.Background(), "CREATE TABLE x"); err != nil || len(fc.execs) != 1 {
		t.Fatalf("exec err=%v execs=%v", err, fc.execs)
	}
	if err := c.Close(); err != nil || !fc.closed {
		t.Fatalf("close err=%v closed=%v", err, fc.closed)
	}
	if err := (*CH)(nil).Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func TestBuildClientInfo(t *testing.T) {
	tests := []struct {
		name, tag, want string
	}{
		{"chromalyzer-api", "v1.2.0", "v1.2.0"},
		{"chromalyzer", "", "dev"},
	}
	for _, tt := range tests {
		p := BuildClientInfo(tt.name, tt.tag).Products
		if len(p) != 3 || p[0].Name != tt.name || p[0].Version != tt.want || p[1].Name != "go" || p[2].Version == "" {
			t.Fatalf("BuildClientInfo(%q, %q) = %+v", tt.name, tt.tag, p)
		}
	}
}
