package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
)

// ListActivities возвращает все занятия
func (s *Service) ListActivities(ctx context.Context) ([]*domain.Activity, error) {
	activities, err := s.activityRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListActivities: repository error: %v", err)
		return nil, internalError("ListActivities", err)
	}
	return activities, nil
}

// GetActivity возвращает занятие по ID
func (s *Service) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("GetActivity: activity id=%d not found", id)
			return nil, ErrActivityNotFound
		}
		s.logger.Error("GetActivity: repository error for activity id=%d: %v", id, err)
		return nil, internalError("GetActivity", err)
	}
	return activity, nil
}

// GetOccupancy возвращает вместимость и текущую занятость занятия
func (s *Service) GetOccupancy(ctx context.Context, activityID int64) (*domain.Occupancy, error) {
	activity, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservationRepo.ListByActivity(ctx, activityID)
	if err != nil {
		s.logger.Error("GetOccupancy: repository error for activity id=%d: %v", activityID, err)
		return nil, internalError("GetOccupancy", err)
	}

	return &domain.Occupancy{
		ActivityID: activity.ID,
		Capacity:   activity.Capacity,
		Occupied:   countOccupied(reservations, 0),
	}, nil
}

// SaveActivity создает занятие (ID = 0) или обновляет имя и вместимость существующего
//
// По умолчанию уменьшение вместимости ниже текущей занятости разрешено:
// следующая бронь просто получит ErrCapacityExceeded. С WithStrictCapacityEdits
// такое изменение отклоняется с ErrCapacityBelowOccupancy.
func (s *Service) SaveActivity(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	if err := validateActivity(activity); err != nil {
		s.logger.Warn("SaveActivity: validation failed: %v", err)
		return nil, s.record(opSaveActivity, err)
	}

	s.logger.Info("SaveActivity: id=%d, name=%q, capacity=%d", activity.ID, activity.Name, activity.Capacity)

	if !activity.IsPersisted() {
		created, err := s.activityRepo.Create(ctx, &domain.Activity{
			Name:     strings.TrimSpace(activity.Name),
			Capacity: activity.Capacity,
		})
		if err != nil {
			s.logger.Error("SaveActivity: failed to create activity: %v", err)
			return nil, s.record(opSaveActivity, internalError("SaveActivity", err))
		}
		s.logger.Info("SaveActivity: created activity id=%d", created.ID)
		return created, s.record(opSaveActivity, nil)
	}

	unlock := s.locker.Lock(activityKey(activity.ID))
	defer unlock()

	var result *domain.Activity
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.checkActivityUpdate(txCtx, activity)
		if err != nil {
			return err
		}

		existing.Name = strings.TrimSpace(activity.Name)
		existing.Capacity = activity.Capacity

		if err := s.activityRepo.Update(txCtx, existing); err != nil {
			if isNotFound(err) {
				return ErrActivityNotFound
			}
			s.logger.Error("SaveActivity: failed to update activity id=%d: %v", activity.ID, err)
			return internalError("SaveActivity", err)
		}

		result = existing
		return nil
	})
	if err != nil {
		return nil, s.record(opSaveActivity, err)
	}

	s.logger.Info("SaveActivity: updated activity id=%d", result.ID)
	return result, s.record(opSaveActivity, nil)
}

// ValidateActivity проверяет, пройдет ли SaveActivity, ничего не изменяя
func (s *Service) ValidateActivity(ctx context.Context, activity *domain.Activity) error {
	if err := validateActivity(activity); err != nil {
		return err
	}
	if !activity.IsPersisted() {
		return nil
	}
	_, err := s.checkActivityUpdate(ctx, activity)
	return err
}

// DeleteActivity удаляет занятие, если на него нет броней
func (s *Service) DeleteActivity(ctx context.Context, id int64) error {
	s.logger.Info("DeleteActivity: deleting activity id=%d", id)

	unlock := s.locker.Lock(activityKey(id))
	defer unlock()

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkActivityDelete(txCtx, id); err != nil {
			return err
		}

		if err := s.activityRepo.Delete(txCtx, id); err != nil {
			if isNotFound(err) {
				return ErrActivityNotFound
			}
			s.logger.Error("DeleteActivity: failed to delete activity id=%d: %v", id, err)
			return internalError("DeleteActivity", err)
		}
		return nil
	})
	if err != nil {
		return s.record(opDeleteActivity, err)
	}

	s.logger.Info("DeleteActivity: successfully deleted activity id=%d", id)
	return s.record(opDeleteActivity, nil)
}

// ValidateDeleteActivity проверяет, пройдет ли DeleteActivity, ничего не изменяя
func (s *Service) ValidateDeleteActivity(ctx context.Context, id int64) error {
	return s.checkActivityDelete(ctx, id)
}

// checkActivityUpdate загружает существующее занятие и проверяет новую вместимость
func (s *Service) checkActivityUpdate(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	existing, err := s.GetActivity(ctx, activity.ID)
	if err != nil {
		return nil, err
	}

	if !s.strictCapacityEdits || activity.Capacity >= existing.Capacity {
		return existing, nil
	}

	reservations, err := s.reservationRepo.ListByActivity(ctx, activity.ID)
	if err != nil {
		s.logger.Error("SaveActivity: failed to list reservations for activity id=%d: %v", activity.ID, err)
		return nil, internalError("SaveActivity", err)
	}

	if occupied := countOccupied(reservations, 0); activity.Capacity < occupied {
		s.logger.Warn("SaveActivity: capacity %d is below occupancy %d for activity id=%d",
			activity.Capacity, occupied, activity.ID)
		return nil, fmt.Errorf("%w: %d reservations, capacity %d", ErrCapacityBelowOccupancy, occupied, activity.Capacity)
	}

	return existing, nil
}

// checkActivityDelete проверяет существование занятия и отсутствие зависимых броней
func (s *Service) checkActivityDelete(ctx context.Context, id int64) error {
	if _, err := s.GetActivity(ctx, id); err != nil {
		return err
	}

	reservations, err := s.reservationRepo.ListByActivity(ctx, id)
	if err != nil {
		s.logger.Error("DeleteActivity: failed to list reservations for activity id=%d: %v", id, err)
		return internalError("DeleteActivity", err)
	}

	if len(reservations) > 0 {
		s.logger.Warn("DeleteActivity: activity id=%d has %d dependent reservations", id, len(reservations))
		return ErrActivityHasReservations
	}

	return nil
}

func validateActivity(activity *domain.Activity) error {
	if activity == nil {
		return fmt.Errorf("%w: activity is required", ErrInvalidInput)
	}
	if activity.ID < 0 {
		return fmt.Errorf("%w: activity id must not be negative", ErrInvalidInput)
	}
	if strings.TrimSpace(activity.Name) == "" {
		return fmt.Errorf("%w: activity name is required", ErrInvalidInput)
	}
	if activity.Capacity < domain.MinActivityCapacity {
		return fmt.Errorf("%w: capacity must be at least %d", ErrInvalidInput, domain.MinActivityCapacity)
	}
	return nil
}
