package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
)

// ListMembers возвращает всех участников
func (s *Service) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListMembers: repository error: %v", err)
		return nil, internalError("ListMembers", err)
	}
	return members, nil
}

// GetMember возвращает участника по ID
func (s *Service) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("GetMember: member id=%d not found", id)
			return nil, ErrMemberNotFound
		}
		s.logger.Error("GetMember: repository error for member id=%d: %v", id, err)
		return nil, internalError("GetMember", err)
	}
	return member, nil
}

// SaveMember создает участника (ID = 0) или обновляет имя, email и активность существующего
func (s *Service) SaveMember(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	if err := validateMember(member); err != nil {
		s.logger.Warn("SaveMember: validation failed: %v", err)
		return nil, s.record(opSaveMember, err)
	}

	s.logger.Info("SaveMember: id=%d, name=%q", member.ID, member.Name)

	if !member.IsPersisted() {
		created, err := s.memberRepo.Create(ctx, &domain.Member{
			Name:   strings.TrimSpace(member.Name),
			Email:  strings.TrimSpace(member.Email),
			Active: member.Active,
		})
		if err != nil {
			s.logger.Error("SaveMember: failed to create member: %v", err)
			return nil, s.record(opSaveMember, internalError("SaveMember", err))
		}
		s.logger.Info("SaveMember: created member id=%d", created.ID)
		return created, s.record(opSaveMember, nil)
	}

	var result *domain.Member
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.GetMember(txCtx, member.ID)
		if err != nil {
			return err
		}

		existing.Name = strings.TrimSpace(member.Name)
		existing.Email = strings.TrimSpace(member.Email)
		existing.Active = member.Active

		if err := s.memberRepo.Update(txCtx, existing); err != nil {
			if isNotFound(err) {
				return ErrMemberNotFound
			}
			s.logger.Error("SaveMember: failed to update member id=%d: %v", member.ID, err)
			return internalError("SaveMember", err)
		}

		result = existing
		return nil
	})
	if err != nil {
		return nil, s.record(opSaveMember, err)
	}

	s.logger.Info("SaveMember: updated member id=%d", result.ID)
	return result, s.record(opSaveMember, nil)
}

// ValidateMember проверяет, пройдет ли SaveMember, ничего не изменяя
func (s *Service) ValidateMember(ctx context.Context, member *domain.Member) error {
	if err := validateMember(member); err != nil {
		return err
	}
	if !member.IsPersisted() {
		return nil
	}
	_, err := s.GetMember(ctx, member.ID)
	return err
}

// DeleteMember удаляет участника, если у него нет броней
func (s *Service) DeleteMember(ctx context.Context, id int64) error {
	s.logger.Info("DeleteMember: deleting member id=%d", id)

	unlock := s.locker.Lock(memberKey(id))
	defer unlock()

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkMemberDelete(txCtx, id); err != nil {
			return err
		}

		if err := s.memberRepo.Delete(txCtx, id); err != nil {
			if isNotFound(err) {
				return ErrMemberNotFound
			}
			s.logger.Error("DeleteMember: failed to delete member id=%d: %v", id, err)
			return internalError("DeleteMember", err)
		}
		return nil
	})
	if err != nil {
		return s.record(opDeleteMember, err)
	}

	s.logger.Info("DeleteMember: successfully deleted member id=%d", id)
	return s.record(opDeleteMember, nil)
}

// ValidateDeleteMember проверяет, пройдет ли DeleteMember, ничего не изменяя
func (s *Service) ValidateDeleteMember(ctx context.Context, id int64) error {
	return s.checkMemberDelete(ctx, id)
}

func (s *Service) checkMemberDelete(ctx context.Context, id int64) error {
	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}

	reservations, err := s.reservationRepo.ListByMember(ctx, id)
	if err != nil {
		s.logger.Error("DeleteMember: failed to list reservations for member id=%d: %v", id, err)
		return internalError("DeleteMember", err)
	}

	if len(reservations) > 0 {
		s.logger.Warn("DeleteMember: member id=%d has %d dependent reservations", id, len(reservations))
		return ErrMemberHasReservations
	}

	return nil
}

// validateMember повторяет проверки адаптера: имя обязательно, email (если указан) корректен
func validateMember(member *domain.Member) error {
	if member == nil {
		return fmt.Errorf("%w: member is required", ErrInvalidInput)
	}
	if member.ID < 0 {
		return fmt.Errorf("%w: member id must not be negative", ErrInvalidInput)
	}
	if strings.TrimSpace(member.Name) == "" {
		return fmt.Errorf("%w: member name is required", ErrInvalidInput)
	}
	if member.HasEmail() && !domain.IsValidEmail(strings.TrimSpace(member.Email)) {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, member.Email)
	}
	return nil
}
