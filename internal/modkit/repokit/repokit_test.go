package repokit

import (
	"context"
	"errors"
	"testing"

	"chromalyzer/internal/platform/store"
	"chromalyzer/internal/platform/testkit"
)

type fakeTx struct {
	store.RowQuerier
	began, failBegin bool
}

func (f *fakeTx) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	if f.failBegin {
		return errors.New("begin failed")
	}
	f.began = true
	return fn(f)
}

type recordStore struct{ q Queryer }

type recordBinder struct{}

func (recordBinder) Bind(q Queryer) recordStore { return recordStore{q: q} }

func TestMustBind(t *testing.T) {
	q := &fakeTx{}
	if got := MustBind[recordStore](recordBinder{}, q); got.q != q {
		t.Fatalf("bound queryer = %v", got.q)
	}
	testkit.MustPanic(t, func() { MustBind[recordStore](recordBinder{}, nil) })
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{}
	var inner Queryer
	if err := WithTx(ctx, tx, func(q Queryer) error { inner = q; return nil }); err != nil {
		t.Fatalf("with tx: %v", err)
	}
	if !tx.began || inner != tx {
		t.Fatalf("fn not run inside the transaction")
	}

	boom := errors.New("schema failed")
	if err := WithTx(ctx, &fakeTx{}, func(Queryer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("fn error = %v", err)
	}
	if err := WithTx(ctx, &fakeTx{failBegin: true}, func(Queryer) error { return nil }); err == nil {
		t.Fatal("begin error swallowed")
	}
}
