package psqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect SQL-диалект хранилища
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Builder построитель запросов для PostgreSQL ($1, $2, ...)
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// For возвращает построитель запросов под диалект
func For(d Dialect) squirrel.StatementBuilderType {
	if d == SQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return Builder
}

// SupportsRowLocks сообщает, поддерживает ли диалект SELECT ... FOR UPDATE
func (d Dialect) SupportsRowLocks() bool {
	return d == Postgres
}

// DriverName имя драйвера database/sql для диалекта
func (d Dialect) DriverName() string {
	return string(d)
}

// ParseDialect разбирает имя драйвера из конфигурации
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, SQLite:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("psqlbuilder: unsupported dialect %q", s)
	}
}
