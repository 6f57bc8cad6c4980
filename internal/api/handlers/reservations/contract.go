package reservations

import (
	"context"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
)

type ReservationService interface {
	ListReservations(ctx context.Context) ([]*domain.ReservationDetails, error)
	GetReservation(ctx context.Context, id int64) (*domain.ReservationDetails, error)
	SaveReservation(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	ValidateReservation(ctx context.Context, reservation *domain.Reservation) error
	DeleteReservation(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
