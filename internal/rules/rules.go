// Package rules содержит чистые предикаты допустимости брони.
// Функции не обращаются к хранилищу: занятость и признак дубликата считает вызывающий код.
package rules

import (
	"time"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
)

// IsValidReservationDate true, если календарный день date не раньше сегодняшнего
// "Сегодня" вычисляется в момент вызова
func IsValidReservationDate(date time.Time) bool {
	return IsValidReservationDateAt(date, time.Now())
}

// IsValidReservationDateAt то же, что IsValidReservationDate, но относительно now
func IsValidReservationDateAt(date, now time.Time) bool {
	return !domain.StartOfDay(date).Before(domain.StartOfDay(now))
}

// HasAvailableCapacity true, если occupiedCount < capacity
func HasAvailableCapacity(capacity, occupiedCount int) bool {
	return occupiedCount < capacity
}

// CanSaveReservation конъюнкция всех трех правил
func CanSaveReservation(capacity, occupiedCount int, date time.Time, isDuplicate bool) bool {
	return CanSaveReservationAt(capacity, occupiedCount, date, isDuplicate, time.Now())
}

// CanSaveReservationAt то же, что CanSaveReservation, но относительно now
// Дата проверяется первой как самая дешевая проверка
func CanSaveReservationAt(capacity, occupiedCount int, date time.Time, isDuplicate bool, now time.Time) bool {
	return IsValidReservationDateAt(date, now) &&
		HasAvailableCapacity(capacity, occupiedCount) &&
		!isDuplicate
}
