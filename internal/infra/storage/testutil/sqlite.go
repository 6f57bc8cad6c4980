// Package testutil поднимает SQLite в памяти со схемой для тестов репозиториев.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage/schema"
	"github.com/m04kA/SMC-SportsBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportsBooking/pkg/psqlbuilder"
)

// NewSQLite открывает ":memory:" с одним соединением, иначе каждое соединение видит свою пустую базу
func NewSQLite(t testing.TB) *dbmetrics.DB {
	t.Helper()

	raw, err := sql.Open(psqlbuilder.SQLite.DriverName(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	if err := schema.Apply(context.Background(), raw, psqlbuilder.SQLite); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	return dbmetrics.Wrap(raw, nil)
}
