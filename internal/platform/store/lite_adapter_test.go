package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chromalyzer/internal/platform/store/sqlite"
)

func openLite(t *testing.T) *liteAdapter {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	a := newLiteAdapter(db)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestLiteAdapter_ExecQueryColumns(t *testing.T) {
	ctx := context.Background()
	a := openLite(t)

	if _, err := a.Exec(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	tag, err := a.Exec(ctx, `INSERT INTO t (name) VALUES (?), (?)`, "zoe", "ada")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if tag.RowsAffected() != 2 || tag.String() != "ROWS 2" {
		t.Fatalf("tag = %q / %d", tag.String(), tag.RowsAffected())
	}

	got, err := Many(ctx, a, func(r Row) (string, error) {
		var id int
		var name string
		err := r.Scan(&id, &name)
		return name, err
	}, `SELECT id, name FROM t ORDER BY id`)
	if err != nil {
		t.Fatalf("many: %v", err)
	}
	if len(got) != 2 || got[0] != "zoe" || got[1] != "ada" {
		t.Fatalf("rows = %v", got)
	}

	rs, err := a.Query(ctx, `SELECT id, name FROM t WHERE id = ?`, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 2 || cols[1] != "name" {
		t.Fatalf("columns = %v", cols)
	}
	rs.Close()

	if err := ExecOne(ctx, a, `UPDATE t SET name = ? WHERE id = ?`, "eve", 1); err != nil {
		t.Fatalf("exec one: %v", err)
	}
	if err := ExecOne(ctx, a, `UPDATE t SET name = ?`, "bob"); err == nil || !strings.Contains(err.Error(), "got 2") {
		t.Fatalf("exec one on two rows = %v", err)
	}
}

func TestLiteAdapter_TxCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	a := openLite(t)

	if _, err := a.Exec(ctx, `CREATE TABLE t (v INTEGER NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := a.Tx(ctx, func(q RowQuerier) error {
		_, err := q.Exec(ctx, `INSERT INTO t (v) VALUES (10)`)
		return err
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	boom := errors.New("boom")
	err := a.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `INSERT INTO t (v) VALUES (20)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("rollback err = %v", err)
	}

	n, err := Scalar[int](ctx, a, `SELECT count(*) FROM t`)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows after rollback = %d, want 1", n)
	}
	if err := a.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
