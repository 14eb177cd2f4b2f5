package dbmetrics

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubTx struct {
	DBExecutor
}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	db := &DB{}

	assert.Same(t, db, GetExecutor(context.Background(), db))
	assert.False(t, IsInTransaction(context.Background()))

	tx := &stubTx{}
	ctx := WithTx(context.Background(), tx)
	assert.Same(t, tx, GetExecutor(ctx, db))
	assert.True(t, IsInTransaction(ctx))
}

func TestQueryOperation(t *testing.T) {
	assert.Equal(t, "select", queryOperation("SELECT id FROM slots"))
	assert.Equal(t, "insert", queryOperation("  INSERT\nINTO reservations"))
	assert.Equal(t, "commit", queryOperation("COMMIT"))
}

func TestObserve_NilMetrics(t *testing.T) {
	db := &DB{}
	assert.NotPanics(t, func() {
		db.observe("SELECT 1", time.Now(), sql.ErrNoRows)
		db.observeTx("commit")
	})
}
