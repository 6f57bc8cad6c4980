package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
	"github.com/m04kA/SMC-SportsBooking/internal/rules"
)

// ListReservations возвращает все брони вместе с занятием и участником
func (s *Service) ListReservations(ctx context.Context) ([]*domain.ReservationDetails, error) {
	reservations, err := s.reservationRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListReservations: repository error: %v", err)
		return nil, internalError("ListReservations", err)
	}
	return reservations, nil
}

// GetReservation возвращает бронь по ID вместе с занятием и участником
func (s *Service) GetReservation(ctx context.Context, id int64) (*domain.ReservationDetails, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	activity, err := s.GetActivity(ctx, reservation.ActivityID)
	if err != nil {
		return nil, err
	}

	member, err := s.GetMember(ctx, reservation.MemberID)
	if err != nil {
		return nil, err
	}

	return &domain.ReservationDetails{
		Reservation: *reservation,
		Activity:    *activity,
		Member:      *member,
	}, nil
}

// SaveReservation создает бронь (ID = 0) или обновляет существующую
// Проверки выполняются по порядку: дата, вместимость, дубликат.
// Проверка и запись идут под блокировкой занятия и участника в одной транзакции.
func (s *Service) SaveReservation(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	if err := validateReservation(reservation); err != nil {
		s.logger.Warn("SaveReservation: validation failed: %v", err)
		return nil, s.record(opSaveReservation, err)
	}

	s.logger.Info("SaveReservation: id=%d, member=%d, activity=%d, date=%s",
		reservation.ID, reservation.MemberID, reservation.ActivityID, reservation.Date.Format(domain.DateFormat))

	// "Сегодня" вычисляется один раз на операцию
	now := s.timeProvider.Now()

	unlock := s.locker.Lock(activityKey(reservation.ActivityID), memberKey(reservation.MemberID))
	defer unlock()

	var result *domain.Reservation
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkReservation(txCtx, reservation, now); err != nil {
			return err
		}

		toSave := &domain.Reservation{
			ID:         reservation.ID,
			MemberID:   reservation.MemberID,
			ActivityID: reservation.ActivityID,
			Date:       domain.StartOfDay(reservation.Date),
		}

		if !toSave.IsPersisted() {
			created, err := s.reservationRepo.Create(txCtx, toSave)
			if err != nil {
				s.logger.Error("SaveReservation: failed to create reservation: %v", err)
				return internalError("SaveReservation", err)
			}
			result = created
			return nil
		}

		if err := s.reservationRepo.Update(txCtx, toSave); err != nil {
			if isNotFound(err) {
				return ErrReservationNotFound
			}
			s.logger.Error("SaveReservation: failed to update reservation id=%d: %v", toSave.ID, err)
			return internalError("SaveReservation", err)
		}
		result = toSave
		return nil
	})
	if err != nil {
		return nil, s.record(opSaveReservation, err)
	}

	s.logger.Info("SaveReservation: saved reservation id=%d", result.ID)
	return result, s.record(opSaveReservation, nil)
}

// ValidateReservation проверяет, пройдет ли SaveReservation, ничего не изменяя
func (s *Service) ValidateReservation(ctx context.Context, reservation *domain.Reservation) error {
	if err := validateReservation(reservation); err != nil {
		return err
	}
	return s.checkReservation(ctx, reservation, s.timeProvider.Now())
}

// DeleteReservation удаляет бронь без дополнительных проверок
func (s *Service) DeleteReservation(ctx context.Context, id int64) error {
	s.logger.Info("DeleteReservation: deleting reservation id=%d", id)

	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			s.logger.Warn("DeleteReservation: reservation id=%d not found", id)
			return s.record(opDeleteReservation, ErrReservationNotFound)
		}
		s.logger.Error("DeleteReservation: failed to delete reservation id=%d: %v", id, err)
		return s.record(opDeleteReservation, internalError("DeleteReservation", err))
	}

	s.logger.Info("DeleteReservation: successfully deleted reservation id=%d", id)
	return s.record(opDeleteReservation, nil)
}

// checkReservation проверяет ссылки брони и три правила допустимости
func (s *Service) checkReservation(ctx context.Context, reservation *domain.Reservation, now time.Time) error {
	if reservation.IsPersisted() {
		if _, err := s.getReservation(ctx, reservation.ID); err != nil {
			return err
		}
	}

	activity, err := s.GetActivity(ctx, reservation.ActivityID)
	if err != nil {
		return err
	}

	if _, err := s.GetMember(ctx, reservation.MemberID); err != nil {
		return err
	}

	if !rules.IsValidReservationDateAt(reservation.Date, now) {
		s.logger.Warn("SaveReservation: date %s is before today %s",
			reservation.Date.Format(domain.DateFormat), now.Format(domain.DateFormat))
		return fmt.Errorf("%w: %s", ErrPastDate, reservation.Date.Format(domain.DateFormat))
	}

	existing, err := s.reservationRepo.ListByActivity(ctx, reservation.ActivityID)
	if err != nil {
		s.logger.Error("SaveReservation: failed to list reservations for activity id=%d: %v", reservation.ActivityID, err)
		return internalError("SaveReservation", err)
	}

	occupied := countOccupied(existing, reservation.ID)
	if !rules.HasAvailableCapacity(activity.Capacity, occupied) {
		s.logger.Warn("SaveReservation: activity id=%d is full, %d/%d spots taken",
			activity.ID, occupied, activity.Capacity)
		return fmt.Errorf("%w: %d/%d spots taken", ErrCapacityExceeded, occupied, activity.Capacity)
	}

	if hasDuplicate(existing, reservation) {
		s.logger.Warn("SaveReservation: member id=%d already booked activity id=%d on %s",
			reservation.MemberID, reservation.ActivityID, reservation.Date.Format(domain.DateFormat))
		return ErrDuplicateBooking
	}

	return nil
}

func (s *Service) getReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("GetReservation: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetReservation: repository error for reservation id=%d: %v", id, err)
		return nil, internalError("GetReservation", err)
	}
	return reservation, nil
}

// countOccupied считает брони занятия, не учитывая бронь excludeID
func countOccupied(reservations []*domain.Reservation, excludeID int64) int {
	count := 0
	for _, r := range reservations {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		count++
	}
	return count
}

// hasDuplicate ищет другую бронь того же участника на то же занятие в тот же день
func hasDuplicate(reservations []*domain.Reservation, candidate *domain.Reservation) bool {
	for _, r := range reservations {
		if candidate.ID != 0 && r.ID == candidate.ID {
			continue
		}
		if r.MemberID == candidate.MemberID &&
			r.ActivityID == candidate.ActivityID &&
			domain.InDay(r.Date, candidate.Date) {
			return true
		}
	}
	return false
}

func validateReservation(reservation *domain.Reservation) error {
	if reservation == nil {
		return fmt.Errorf("%w: reservation is required", ErrInvalidInput)
	}
	if reservation.ID < 0 {
		return fmt.Errorf("%w: reservation id must not be negative", ErrInvalidInput)
	}
	if reservation.MemberID <= 0 {
		return fmt.Errorf("%w: member is not selected", ErrInvalidInput)
	}
	if reservation.ActivityID <= 0 {
		return fmt.Errorf("%w: activity is not selected", ErrInvalidInput)
	}
	if reservation.Date.IsZero() {
		return fmt.Errorf("%w: reservation date is required", ErrInvalidInput)
	}
	return nil
}
