package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-SportsBooking/pkg/metrics"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetExecutor(t *testing.T) {
	db := Wrap(openTestDB(t), nil)
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))
}

func TestDB_ObservesQueries(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	db := Wrap(openTestDB(t), m)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO missing VALUES (1)")
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n))
	assert.Equal(t, 0, n)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("exec")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.DBQueryDuration))
}

func TestDB_RecordStats(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	db := Wrap(openTestDB(t), m)

	require.NoError(t, db.Raw().Ping())
	db.recordStats("sports")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBOpenConnections.WithLabelValues("sports")))
}

func TestTx_CommitAndRollback(t *testing.T) {
	db := Wrap(openTestDB(t), nil)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "INSERT INTO t (id) VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n))
	assert.Equal(t, 0, n)

	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "INSERT INTO t (id) VALUES (2)")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.ErrorIs(t, tx.Rollback(), sql.ErrTxDone)

	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM t").Scan(&n))
	assert.Equal(t, 1, n)
}
