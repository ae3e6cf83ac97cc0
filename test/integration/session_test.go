package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/navcrm/navcrm/internal/platform/db"
)

// A connection whose underlying session is gone cannot begin a transaction.
// RunInTx must surface that as an error instead of running the callback
// outside a transaction.
func TestRunInTxDeadConnection(t *testing.T) {
	ctx := context.Background()

	conn, err := globalDB.Pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer conn.Release()

	if err := conn.Conn().Close(ctx); err != nil {
		t.Fatalf("close underlying conn: %v", err)
	}

	sessionCtx := context.WithValue(ctx, db.DBConnKey, conn)
	ran := false
	err = db.RunInTx(sessionCtx, func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error from failed transaction begin")
	}
	if errors.Is(err, db.ErrNoConn) {
		t.Fatalf("err = %v, want a begin failure, not ErrNoConn", err)
	}
	if ran {
		t.Error("callback ran despite failed transaction begin")
	}
}
