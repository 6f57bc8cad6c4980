package member

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

const table = "members"

var columns = []string{"id", "name", "email", "active"}

// Repository репозиторий для работы с участниками
type Repository struct {
	db      DBExecutor
	dialect psqlbuilder.Dialect
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория участников
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		dialect: dialect,
		builder: psqlbuilder.For(dialect),
	}
}

// Create создает нового участника и возвращает его с присвоенным ID
// Пустой email хранится как NULL
func (r *Repository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Insert(table).
		Columns("name", "email", "active").
		Values(member.Name, nullableEmail(member.Email), member.Active).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *member
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByID получает участника по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) && r.dialect.SupportsRowLocks() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	member, err := scanMember(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan member: %v", ErrScanRow, err)
	}

	return member, nil
}

// List возвращает всех участников, упорядоченных по ID
func (r *Repository) List(ctx context.Context) ([]*domain.Member, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(columns...).
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

	members := make([]*domain.Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan member: %v", ErrScanRow, err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return members, nil
}

// Update обновляет имя, email и активность участника
func (r *Repository) Update(ctx context.Context, member *domain.Member) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update(table).
		Set("name", member.Name).
		Set("email", nullableEmail(member.Email)).
		Set("active", member.Active).
		Where(squirrel.Eq{"id": member.ID}).
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
		return ErrMemberNotFound
	}

	return nil
}

// Delete удаляет участника
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
		return ErrMemberNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var member domain.Member
	var email sql.NullString

	if err := row.Scan(&member.ID, &member.Name, &email, &member.Active); err != nil {
		return nil, err
	}

	member.Email = email.String
	return &member, nil
}

func nullableEmail(email string) sql.NullString {
	return sql.NullString{String: email, Valid: email != ""}
}
