package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-SportsBooking/pkg/dbmetrics"
)

func newTestManager(t *testing.T) (*TransactionManager, *dbmetrics.DB) {
	t.Helper()
	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	db := dbmetrics.Wrap(raw, nil)
	_, err = db.ExecContext(context.Background(), "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	return NewTransactionManager(db, WithSerializableLevel(sql.LevelDefault), WithoutReadOnly()), db
}

func count(t *testing.T, db dbmetrics.DBExecutor) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM t").Scan(&n))
	return n
}

func TestDoSerializable_Commit(t *testing.T) {
	m, db := newTestManager(t)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, "INSERT INTO t (id) VALUES (1)")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db))
}

func TestDo_RollbackOnError(t *testing.T) {
	m, db := newTestManager(t)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, "INSERT INTO t (id) VALUES (1)")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count(t, db))
}

func TestDo_RollbackOnPanic(t *testing.T) {
	m, db := newTestManager(t)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(ctx context.Context) error {
			_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, "INSERT INTO t (id) VALUES (1)")
			require.NoError(t, err)
			panic("unexpected")
		})
	})
	assert.Equal(t, 0, count(t, db))
}

func TestDo_NestedReusesOuterTx(t *testing.T) {
	m, db := newTestManager(t)

	err := m.Do(context.Background(), func(outer context.Context) error {
		outerTx, _ := dbmetrics.TxFromContext(outer)
		return m.DoReadOnly(outer, func(inner context.Context) error {
			innerTx, ok := dbmetrics.TxFromContext(inner)
			require.True(t, ok)
			assert.Same(t, outerTx, innerTx)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count(t, db))
}

func TestNoopManager(t *testing.T) {
	var m NoopManager
	called := 0
	fn := func(ctx context.Context) error {
		called++
		assert.False(t, dbmetrics.IsInTransaction(ctx))
		return nil
	}

	require.NoError(t, m.Do(context.Background(), fn))
	require.NoError(t, m.DoSerializable(context.Background(), fn))
	require.NoError(t, m.DoReadOnly(context.Background(), fn))
	assert.Equal(t, 3, called)
}
