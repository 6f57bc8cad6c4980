// Package schema создает таблицы activities, members и reservations.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SportsBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportsBooking/pkg/psqlbuilder"
)

// ErrApply возвращается, если не удалось применить схему
var ErrApply = errors.New("schema: failed to apply")

//go:embed postgres.sql
var postgresDDL string

//go:embed sqlite.sql
var sqliteDDL string

// DDL возвращает скрипт схемы для диалекта
func DDL(dialect psqlbuilder.Dialect) string {
	if dialect == psqlbuilder.SQLite {
		return sqliteDDL
	}
	return postgresDDL
}

// Apply выполняет скрипт схемы по одному выражению
// Все выражения идемпотентны (IF NOT EXISTS)
func Apply(ctx context.Context, db dbmetrics.DBExecutor, dialect psqlbuilder.Dialect) error {
	for _, stmt := range Statements(DDL(dialect)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrApply, firstLine(stmt), err)
		}
	}
	return nil
}

// Statements разбивает скрипт на выражения по ';', пропуская пустые
func Statements(ddl string) []string {
	parts := strings.Split(ddl, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if stmt := strings.TrimSpace(p); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
