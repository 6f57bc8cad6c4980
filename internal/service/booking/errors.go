package booking

import (
	"errors"
	"fmt"
)

// Виды ошибок сервиса. Конкретные ошибки ниже оборачивают один из них,
// поэтому вызывающий код может сравнивать как с видом, так и с конкретной ошибкой.
var (
	// ErrInvalidInput пустое обязательное поле, неположительная вместимость, не выбран участник/занятие
	ErrInvalidInput = errors.New("invalid input data")

	// ErrPastDate дата брони раньше сегодняшней
	ErrPastDate = errors.New("reservation date is in the past")

	// ErrCapacityExceeded занятие заполнено
	ErrCapacityExceeded = errors.New("activity capacity exceeded")

	// ErrDuplicateBooking у участника уже есть бронь на это занятие в этот день
	ErrDuplicateBooking = errors.New("member already has a reservation for this activity on this date")

	// ErrNotFound сущность с указанным id не существует
	ErrNotFound = errors.New("not found")

	// ErrConflict операция заблокирована зависимыми бронями
	ErrConflict = errors.New("conflict")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

var (
	ErrActivityNotFound    = fmt.Errorf("activity %w", ErrNotFound)
	ErrMemberNotFound      = fmt.Errorf("member %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)

	ErrActivityHasReservations = fmt.Errorf("%w: activity has dependent reservations", ErrConflict)
	ErrMemberHasReservations   = fmt.Errorf("%w: member has dependent reservations", ErrConflict)

	// ErrCapacityBelowOccupancy только при включенном strict capacity edits
	ErrCapacityBelowOccupancy = fmt.Errorf("%w: capacity is below current occupancy", ErrConflict)
)

// Kind вид ошибки для адаптеров и метрик
type Kind string

const (
	KindNone             Kind = "ok"
	KindInvalidInput     Kind = "invalid_input"
	KindPastDate         Kind = "past_date"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindDuplicateBooking Kind = "duplicate_booking"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindInternal         Kind = "internal"
)

// KindOf определяет вид ошибки
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrPastDate):
		return KindPastDate
	case errors.Is(err, ErrCapacityExceeded):
		return KindCapacityExceeded
	case errors.Is(err, ErrDuplicateBooking):
		return KindDuplicateBooking
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}
