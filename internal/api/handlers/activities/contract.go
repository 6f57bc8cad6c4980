package activities

import (
	"context"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
)

type ActivityService interface {
	ListActivities(ctx context.Context) ([]*domain.Activity, error)
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
	GetOccupancy(ctx context.Context, activityID int64) (*domain.Occupancy, error)
	SaveActivity(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	ValidateActivity(ctx context.Context, activity *domain.Activity) error
	DeleteActivity(ctx context.Context, id int64) error
	ValidateDeleteActivity(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
