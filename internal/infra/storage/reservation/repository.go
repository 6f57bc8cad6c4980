package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-SportsBooking/internal/domain"
	"github.com/m04kA/SMC-SportsBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SportsBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SportsBooking/pkg/types"
)

const table = "reservations"

var columns = []string{"id", "member_id", "activity_id", "reservation_date"}

// Repository репозиторий для работы с бронями
// Дата брони хранится как DATE без времени суток
type Repository struct {
	db      DBExecutor
	dialect psqlbuilder.Dialect
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория броней
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		dialect: dialect,
		builder: psqlbuilder.For(dialect),
	}
}

// Create создает новую бронь и возвращает ее с присвоенным ID
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	date := types.NewDate(reservation.Date)

	query, args, err := r.builder.Insert(table).
		Columns("member_id", "activity_id", "reservation_date").
		Values(reservation.MemberID, reservation.ActivityID, date).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *reservation
	created.Date = date.Time()
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByID получает бронь по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.lockInTx(ctx, r.builder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return reservation, nil
}

// List возвращает все брони вместе с занятием и участником одним запросом
func (r *Repository) List(ctx context.Context) ([]*domain.ReservationDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(
		"r.id",
		"r.member_id",
		"r.activity_id",
		"r.reservation_date",
		"a.name",
		"a.capacity",
		"m.name",
		"m.email",
		"m.active",
	).
		From(table + " r").
		Join("activities a ON a.id = r.activity_id").
		Join("members m ON m.id = r.member_id").
		OrderBy("r.id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	details := make([]*domain.ReservationDetails, 0)
	for rows.Next() {
		var d domain.ReservationDetails
		var date types.Date
		var email sql.NullString

		err := rows.Scan(
			&d.ID,
			&d.MemberID,
			&d.ActivityID,
			&date,
			&d.Activity.Name,
			&d.Activity.Capacity,
			&d.Member.Name,
			&email,
			&d.Member.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan reservation: %v", ErrScanRow, err)
		}

		d.Date = date.Time()
		d.Activity.ID = d.ActivityID
		d.Member.ID = d.MemberID
		d.Member.Email = email.String
		details = append(details, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return details, nil
}

// ListByActivity возвращает брони занятия
// Внутри транзакции PostgreSQL найденные строки блокируются до записи
func (r *Repository) ListByActivity(ctx context.Context, activityID int64) ([]*domain.Reservation, error) {
	return r.listWhere(ctx, "ListByActivity", squirrel.Eq{"activity_id": activityID})
}

// ListByMember возвращает брони участника
func (r *Repository) ListByMember(ctx context.Context, memberID int64) ([]*domain.Reservation, error) {
	return r.listWhere(ctx, "ListByMember", squirrel.Eq{"member_id": memberID})
}

// Update переносит бронь на другие участника, занятие или дату
func (r *Repository) Update(ctx context.Context, reservation *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update(table).
		Set("member_id", reservation.MemberID).
		Set("activity_id", reservation.ActivityID).
		Set("reservation_date", types.NewDate(reservation.Date)).
		Where(squirrel.Eq{"id": reservation.ID}).
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
		return ErrReservationNotFound
	}

	return nil
}

// Delete удаляет бронь
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
		return ErrReservationNotFound
	}

	return nil
}

func (r *Repository) listWhere(ctx context.Context, method string, where squirrel.Eq) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.lockInTx(ctx, r.builder.Select(columns...).
		From(table).
		Where(where).
		OrderBy("id")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan reservation: %v", ErrScanRow, method, err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return reservations, nil
}

// lockInTx добавляет FOR UPDATE, если запрос идет внутри транзакции и диалект это поддерживает
func (r *Repository) lockInTx(ctx context.Context, b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if dbmetrics.IsInTransaction(ctx) && r.dialect.SupportsRowLocks() {
		return b.Suffix("FOR UPDATE")
	}
	return b
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var reservation domain.Reservation
	var date types.Date

	if err := row.Scan(&reservation.ID, &reservation.MemberID, &reservation.ActivityID, &date); err != nil {
		return nil, err
	}

	reservation.Date = date.Time()
	return &reservation, nil
}
