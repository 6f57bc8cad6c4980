package domain

import "time"

// Reservation бронь участника на занятие в календарный день
// Время суток в Date не учитывается
type Reservation struct {
	ID         int64
	MemberID   int64
	ActivityID int64
	Date       time.Time
}

// IsPersisted returns true if the reservation has already been stored
func (r *Reservation) IsPersisted() bool {
	return r.ID != 0
}

// ReservationDetails бронь вместе с занятием и участником, на которые она ссылается
type ReservationDetails struct {
	Reservation
	Activity Activity
	Member   Member
}
