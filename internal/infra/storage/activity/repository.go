package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SportsBooking/internal/domain"
	"github.com/m04kA/SMC-SportsBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportsBooking/pkg/psqlbuilder"
)

const table = "activities"

// Repository репозиторий для работы с занятиями
type Repository struct {
	db      DBExecutor
	dialect psqlbuilder.Dialect
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория занятий
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		dialect: dialect,
		builder: psqlbuilder.For(dialect),
	}
}

// Create создает новое занятие и возвращает его с присвоенным ID
func (r *Repository) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Insert(table).
		Columns("name", "capacity").
		Values(activity.Name, activity.Capacity).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *activity
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByID получает занятие по ID
// Внутри транзакции PostgreSQL строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select("id", "name", "capacity").
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) && r.dialect.SupportsRowLocks() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var activity domain.Activity
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&activity.ID,
		&activity.Name,
		&activity.Capacity,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan activity: %v", ErrScanRow, err)
	}

	return &activity, nil
}

// List возвращает все занятия, упорядоченные по ID
func (r *Repository) List(ctx context.Context) ([]*domain.Activity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("id", "name", "capacity").
		From(table).
		OrderBy("id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	activities := make([]*domain.Activity, 0)
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(&activity.ID, &activity.Name, &activity.Capacity); err != nil {
			return nil, fmt.Errorf("%w: List - scan activity: %v", ErrScanRow, err)
		}
		activities = append(activities, &activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return activities, nil
}

// Update обновляет имя и вместимость занятия
func (r *Repository) Update(ctx context.Context, activity *domain.Activity) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update(table).
		Set("name", activity.Name).
		Set("capacity", activity.Capacity).
		Where(squirrel.Eq{"id": activity.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrActivityNotFound
	}

	return nil
}

// Delete удаляет занятие
// Проверка зависимых броней выполняется сервисом, здесь только внешний ключ
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrActivityNotFound
	}

	return nil
}
