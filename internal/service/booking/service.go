package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage"
	"github.com/m04kA/SMC-SportsBooking/pkg/keylock"
)

// Названия операций для логов и метрик
const (
	opSaveActivity      = "save_activity"
	opDeleteActivity    = "delete_activity"
	opSaveMember        = "save_member"
	opDeleteMember      = "delete_member"
	opSaveReservation   = "save_reservation"
	opDeleteReservation = "delete_reservation"
)

// Service сервис бронирования: проверяет правила перед каждой изменяющей операцией
// и сохраняет ссылочную целостность при удалении
type Service struct {
	activityRepo    ActivityRepository
	memberRepo      MemberRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	locker          *keylock.Locker
	timeProvider    TimeProvider
	recorder        DecisionRecorder
	logger          Logger

	strictCapacityEdits bool
}

// Option настройка сервиса
type Option func(*Service)

// WithTimeProvider подменяет источник текущего времени
func WithTimeProvider(p TimeProvider) Option {
	return func(s *Service) {
		s.timeProvider = p
	}
}

// WithDecisionRecorder подключает учет решений (Prometheus)
func WithDecisionRecorder(r DecisionRecorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithStrictCapacityEdits запрещает уменьшать вместимость ниже текущей занятости
func WithStrictCapacityEdits(strict bool) Option {
	return func(s *Service) {
		s.strictCapacityEdits = strict
	}
}

// NewService создает новый экземпляр сервиса бронирования
func NewService(
	activityRepo ActivityRepository,
	memberRepo MemberRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
	opts ...Option,
) *Service {
	s := &Service{
		activityRepo:    activityRepo,
		memberRepo:      memberRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		locker:          keylock.New(),
		timeProvider:    &RealTimeProvider{},
		recorder:        noopRecorder{},
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record учитывает решение операции и возвращает err без изменений
func (s *Service) record(operation string, err error) error {
	s.recorder.RecordDecision(operation, string(KindOf(err)))
	return err
}

// internalError оборачивает ошибку хранилища в ErrInternal
func internalError(method string, err error) error {
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

func activityKey(id int64) string {
	return fmt.Sprintf("activity:%d", id)
}

func memberKey(id int64) string {
	return fmt.Sprintf("member:%d", id)
}
