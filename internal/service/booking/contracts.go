package booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
)

// ActivityRepository интерфейс репозитория занятий
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	List(ctx context.Context) ([]*domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id int64) error
}

// MemberRepository интерфейс репозитория участников
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (*domain.Member, error)
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	List(ctx context.Context) ([]*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id int64) error
}

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context) ([]*domain.ReservationDetails, error)
	ListByActivity(ctx context.Context, activityID int64) ([]*domain.Reservation, error)
	ListByMember(ctx context.Context, memberID int64) ([]*domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// DecisionRecorder учитывает решения сервиса (метрики)
type DecisionRecorder interface {
	RecordDecision(operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopRecorder struct{}

func (noopRecorder) RecordDecision(string, string) {}
