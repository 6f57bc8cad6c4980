// Package memory хранилище в памяти: тестовый дублер и драйвер "memory" для локального запуска.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage"
)

var (
	ErrActivityNotFound    = fmt.Errorf("memory: activity %w", storage.ErrNotFound)
	ErrMemberNotFound      = fmt.Errorf("memory: member %w", storage.ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("memory: reservation %w", storage.ErrNotFound)
)

// Store общее состояние трех репозиториев
// Наружу отдаются только копии, чтобы вызывающий код не менял хранимые записи
type Store struct {
	mu sync.RWMutex

	activities   map[int64]domain.Activity
	members      map[int64]domain.Member
	reservations map[int64]domain.Reservation

	nextActivityID    int64
	nextMemberID      int64
	nextReservationID int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		activities:   make(map[int64]domain.Activity),
		members:      make(map[int64]domain.Member),
		reservations: make(map[int64]domain.Reservation),
	}
}

// Activities репозиторий занятий поверх хранилища
func (s *Store) Activities() *ActivityRepository {
	return &ActivityRepository{store: s}
}

// Members репозиторий участников поверх хранилища
func (s *Store) Members() *MemberRepository {
	return &MemberRepository{store: s}
}

// Reservations репозиторий броней поверх хранилища
func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{store: s}
}

// ActivityRepository занятия в памяти
type ActivityRepository struct {
	store *Store
}

func (r *ActivityRepository) Create(_ context.Context, activity *domain.Activity) (*domain.Activity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextActivityID++
	created := *activity
	created.ID = r.store.nextActivityID
	r.store.activities[created.ID] = created

	return &created, nil
}

func (r *ActivityRepository) GetByID(_ context.Context, id int64) (*domain.Activity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	activity, ok := r.store.activities[id]
	if !ok {
		return nil, ErrActivityNotFound
	}
	return &activity, nil
}

func (r *ActivityRepository) List(_ context.Context) ([]*domain.Activity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Activity, 0, len(r.store.activities))
	for _, a := range r.store.activities {
		a := a
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *ActivityRepository) Update(_ context.Context, activity *domain.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.activities[activity.ID]; !ok {
		return ErrActivityNotFound
	}
	r.store.activities[activity.ID] = *activity
	return nil
}

func (r *ActivityRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.activities[id]; !ok {
		return ErrActivityNotFound
	}
	delete(r.store.activities, id)
	return nil
}

// MemberRepository участники в памяти
type MemberRepository struct {
	store *Store
}

func (r *MemberRepository) Create(_ context.Context, member *domain.Member) (*domain.Member, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextMemberID++
	created := *member
	created.ID = r.store.nextMemberID
	r.store.members[created.ID] = created

	return &created, nil
}

func (r *MemberRepository) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	member, ok := r.store.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return &member, nil
}

func (r *MemberRepository) List(_ context.Context) ([]*domain.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Member, 0, len(r.store.members))
	for _, m := range r.store.members {
		m := m
		result = append(result, &m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemberRepository) Update(_ context.Context, member *domain.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.members[member.ID]; !ok {
		return ErrMemberNotFound
	}
	r.store.members[member.ID] = *member
	return nil
}

func (r *MemberRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.members[id]; !ok {
		return ErrMemberNotFound
	}
	delete(r.store.members, id)
	return nil
}

// ReservationRepository брони в памяти
type ReservationRepository struct {
	store *Store
}

func (r *ReservationRepository) Create(_ context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextReservationID++
	created := *reservation
	created.ID = r.store.nextReservationID
	r.store.reservations[created.ID] = created

	return &created, nil
}

func (r *ReservationRepository) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reservation, ok := r.store.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return &reservation, nil
}

// List возвращает брони с подставленными занятием и участником
func (r *ReservationRepository) List(_ context.Context) ([]*domain.ReservationDetails, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.ReservationDetails, 0, len(r.store.reservations))
	for _, res := range r.store.reservations {
		result = append(result, &domain.ReservationDetails{
			Reservation: res,
			Activity:    r.store.activities[res.ActivityID],
			Member:      r.store.members[res.MemberID],
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *ReservationRepository) ListByActivity(_ context.Context, activityID int64) ([]*domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool { return res.ActivityID == activityID }), nil
}

func (r *ReservationRepository) ListByMember(_ context.Context, memberID int64) ([]*domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool { return res.MemberID == memberID }), nil
}

func (r *ReservationRepository) Update(_ context.Context, reservation *domain.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.reservations[reservation.ID]; !ok {
		return ErrReservationNotFound
	}
	r.store.reservations[reservation.ID] = *reservation
	return nil
}

func (r *ReservationRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.reservations[id]; !ok {
		return ErrReservationNotFound
	}
	delete(r.store.reservations, id)
	return nil
}

func (r *ReservationRepository) filter(match func(domain.Reservation) bool) []*domain.Reservation {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Reservation, 0)
	for _, res := range r.store.reservations {
		if match(res) {
			res := res
			result = append(result, &res)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
