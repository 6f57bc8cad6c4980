package domain

import "time"

// StartOfDay полночь календарного дня t (компоненты берутся в часовом поясе t)
// Результат в UTC, чтобы даты из разных источников сравнивались по календарю
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayRange полуинтервал [начало дня, начало следующего дня)
func DayRange(t time.Time) (start, end time.Time) {
	start = StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// InDay проверяет, попадает ли момент t в календарный день day
func InDay(t, day time.Time) bool {
	start, end := DayRange(day)
	wall := wallClockUTC(t)
	return !wall.Before(start) && wall.Before(end)
}

// IsSameDay проверяет, что две даты относятся к одному календарному дню
func IsSameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

// wallClockUTC переносит показания часов t в UTC без пересчета
func wallClockUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}
