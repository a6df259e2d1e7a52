package store

import (
	"context"
	"errors"
	"testing"

	perr "chromalyzer/internal/platform/errors"
)

type peakRow struct {
	Index  int
	Height float64
}

func scanPeak(r Row) (peakRow, error) {
	var p peakRow
	err := r.Scan(&p.Index, &p.Height)
	return p, err
}

func seededLite(t *testing.T) TxRunner {
	t.Helper()
	ctx := context.Background()
	q, err := openSQLite(ctx, Config{SQLite: SQLiteConfig{Enabled: true, Path: ":memory:"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if c, ok := q.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	})
	for _, s := range []string{
		`create table peaks (idx integer primary key, height real not null)`,
		`insert into peaks values (3, 9.0), (7, 9.0), (12, 4.5)`,
	} {
		if _, err := q.Exec(ctx, s); err != nil {
			t.Fatalf("seed %q: %v", s, err)
		}
	}
	return q
}

func TestScalar(t *testing.T) {
	q := seededLite(t)
	n, err := Scalar[int64](context.Background(), q, `select count(*) from peaks where height > ?`, 5.0)
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if _, err := Scalar[int64](context.Background(), q, `select count(*) from nowhere`); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestOne(t *testing.T) {
	q := seededLite(t)
	ctx := context.Background()

	p, err := One(ctx, q, scanPeak, `select idx, height from peaks where idx = ?`, 12)
	if err != nil || p != (peakRow{12, 4.5}) {
		t.Fatalf("p=%+v err=%v", p, err)
	}
	if _, err := One(ctx, q, scanPeak, `select idx, height from peaks where idx = ?`, 99); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("missing row err = %v", err)
	}
	if _, err := One(ctx, q, scanPeak, `select idx, height from peaks`); !errors.Is(err, errManyRows) {
		t.Fatalf("many rows err = %v", err)
	}
}

func TestMany(t *testing.T) {
	q := seededLite(t)
	ctx := context.Background()

	got, err := Many(ctx, q, scanPeak, `select idx, height from peaks order by height desc, idx`)
	if err != nil {
		t.Fatalf("many: %v", err)
	}
	want := []peakRow{{3, 9}, {7, 9}, {12, 4.5}}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	none, err := Many(ctx, q, scanPeak, `select idx, height from peaks where height < 0`)
	if err != nil || len(none) != 0 {
		t.Fatalf("empty = %+v err=%v", none, err)
	}

	bad := func(Row) (peakRow, error) { return peakRow{}, errors.New("boom") }
	if _, err := Many(ctx, q, bad, `select idx, height from peaks`); err == nil {
		t.Fatal("scan error not propagated")
	}
}
