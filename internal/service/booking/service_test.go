package booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SportsBooking/internal/service/booking"
	"github.com/m04kA/SMC-SportsBooking/pkg/logger"
	"github.com/m04kA/SMC-SportsBooking/pkg/metrics"
	"github.com/m04kA/SMC-SportsBooking/pkg/txmanager"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var (
	now       = time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)
	today     = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	tomorrow  = today.AddDate(0, 0, 1)
	yesterday = today.AddDate(0, 0, -1)
)

func newService(t *testing.T, opts ...booking.Option) (*booking.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	opts = append([]booking.Option{booking.WithTimeProvider(fixedTime{now: now})}, opts...)
	svc := booking.NewService(
		store.Activities(),
		store.Members(),
		store.Reservations(),
		txmanager.NoopManager{},
		logger.NewNop(),
		opts...,
	)
	return svc, store
}

func mustActivity(t *testing.T, svc *booking.Service, name string, capacity int) *domain.Activity {
	t.Helper()
	a, err := svc.SaveActivity(context.Background(), &domain.Activity{Name: name, Capacity: capacity})
	require.NoError(t, err)
	return a
}

func mustMember(t *testing.T, svc *booking.Service, name string) *domain.Member {
	t.Helper()
	m, err := svc.SaveMember(context.Background(), &domain.Member{Name: name, Active: true})
	require.NoError(t, err)
	return m
}

func TestSaveReservation_CapacityExceeded(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Spinning", 1)
	first := mustMember(t, svc, "Ana")
	second := mustMember(t, svc, "Luis")

	_, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: first.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)

	occupancy, err := svc.GetOccupancy(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, occupancy.Occupied)
	assert.True(t, occupancy.IsFull())

	_, err = svc.SaveReservation(ctx, &domain.Reservation{MemberID: second.ID, ActivityID: activity.ID, Date: today})
	assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
	assert.Equal(t, booking.KindCapacityExceeded, booking.KindOf(err))
}

func TestSaveReservation_DuplicateSameDayOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Yoga", 10)
	member := mustMember(t, svc, "Ana")

	_, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)

	// То же занятие в тот же день, но в другое время суток
	_, err = svc.SaveReservation(ctx, &domain.Reservation{
		MemberID: member.ID, ActivityID: activity.ID, Date: today.Add(18 * time.Hour),
	})
	assert.ErrorIs(t, err, booking.ErrDuplicateBooking)

	_, err = svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: tomorrow})
	assert.NoError(t, err)
}

func TestSaveReservation_PastDateWinsOverOtherRules(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Boxing", 1)
	member := mustMember(t, svc, "Ana")

	_, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: yesterday})
	assert.ErrorIs(t, err, booking.ErrPastDate)

	// Занятие заполнено и бронь дублирует существующую, но дата проверяется первой
	_, err = svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)
	_, err = svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: yesterday})
	assert.ErrorIs(t, err, booking.ErrPastDate)
	assert.Equal(t, booking.KindPastDate, booking.KindOf(err))
}

func TestSaveReservation_UpdateExcludesItself(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Pilates", 1)
	member := mustMember(t, svc, "Ana")

	created, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)

	updated, err := svc.SaveReservation(ctx, &domain.Reservation{
		ID: created.ID, MemberID: member.ID, ActivityID: activity.ID, Date: today,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	moved, err := svc.SaveReservation(ctx, &domain.Reservation{
		ID: created.ID, MemberID: member.ID, ActivityID: activity.ID, Date: tomorrow,
	})
	require.NoError(t, err)
	assert.Equal(t, tomorrow, moved.Date)

	details, err := svc.ListReservations(ctx)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Pilates", details[0].Activity.Name)
	assert.Equal(t, "Ana", details[0].Member.Name)
}

func TestSaveReservation_NormalizesDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Yoga", 5)
	member := mustMember(t, svc, "Ana")

	created, err := svc.SaveReservation(ctx, &domain.Reservation{
		MemberID: member.ID, ActivityID: activity.ID, Date: tomorrow.Add(17*time.Hour + 45*time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, tomorrow, created.Date)
}

func TestSaveReservation_InvalidInputAndReferences(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Yoga", 5)
	member := mustMember(t, svc, "Ana")

	cases := []struct {
		name        string
		reservation *domain.Reservation
		want        error
	}{
		{"nil", nil, booking.ErrInvalidInput},
		{"no member", &domain.Reservation{ActivityID: activity.ID, Date: today}, booking.ErrInvalidInput},
		{"no activity", &domain.Reservation{MemberID: member.ID, Date: today}, booking.ErrInvalidInput},
		{"no date", &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID}, booking.ErrInvalidInput},
		{"unknown activity", &domain.Reservation{MemberID: member.ID, ActivityID: 99, Date: today}, booking.ErrActivityNotFound},
		{"unknown member", &domain.Reservation{MemberID: 99, ActivityID: activity.ID, Date: today}, booking.ErrMemberNotFound},
		{"unknown reservation", &domain.Reservation{ID: 42, MemberID: member.ID, ActivityID: activity.ID, Date: today}, booking.ErrReservationNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SaveReservation(ctx, tc.reservation)
			assert.ErrorIs(t, err, tc.want)
			assert.Error(t, svc.ValidateReservation(ctx, tc.reservation))
		})
	}
}

func TestValidateReservation_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Yoga", 1)
	member := mustMember(t, svc, "Ana")
	r := &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today}

	require.NoError(t, svc.ValidateReservation(ctx, r))

	list, err := svc.ListReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.SaveReservation(ctx, r)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ValidateReservation(ctx, r), booking.ErrCapacityExceeded)
}

func TestDeleteReservation_SecondCallNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Yoga", 1)
	member := mustMember(t, svc, "Ana")

	created, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReservation(ctx, created.ID))
	err = svc.DeleteReservation(ctx, created.ID)
	assert.ErrorIs(t, err, booking.ErrReservationNotFound)
	assert.Equal(t, booking.KindNotFound, booking.KindOf(err))

	// Удаление освобождает место
	other := mustMember(t, svc, "Luis")
	_, err = svc.SaveReservation(ctx, &domain.Reservation{MemberID: other.ID, ActivityID: activity.ID, Date: today})
	assert.NoError(t, err)
}

func TestGetReservation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Yoga", 1)
	member := mustMember(t, svc, "Ana")

	created, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)

	got, err := svc.GetReservation(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Yoga", got.Activity.Name)
	assert.Equal(t, "Ana", got.Member.Name)

	_, err = svc.GetReservation(ctx, 777)
	assert.ErrorIs(t, err, booking.ErrReservationNotFound)
}

func TestDeleteActivity_RefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Yoga", 3)
	member := mustMember(t, svc, "Ana")

	r, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ValidateDeleteActivity(ctx, activity.ID), booking.ErrActivityHasReservations)
	err = svc.DeleteActivity(ctx, activity.ID)
	assert.ErrorIs(t, err, booking.ErrActivityHasReservations)
	assert.ErrorIs(t, err, booking.ErrConflict)

	_, err = svc.GetActivity(ctx, activity.ID)
	require.NoError(t, err, "refused delete must not mutate the store")

	require.NoError(t, svc.DeleteReservation(ctx, r.ID))
	require.NoError(t, svc.DeleteActivity(ctx, activity.ID))
	assert.ErrorIs(t, svc.DeleteActivity(ctx, activity.ID), booking.ErrActivityNotFound)
}

func TestDeleteMember_RefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	activity := mustActivity(t, svc, "Yoga", 3)
	member := mustMember(t, svc, "Ana")

	r, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)

	err = svc.DeleteMember(ctx, member.ID)
	assert.ErrorIs(t, err, booking.ErrMemberHasReservations)
	assert.Equal(t, booking.KindConflict, booking.KindOf(err))

	require.NoError(t, svc.DeleteReservation(ctx, r.ID))
	require.NoError(t, svc.ValidateDeleteMember(ctx, member.ID))
	require.NoError(t, svc.DeleteMember(ctx, member.ID))
	assert.ErrorIs(t, svc.DeleteMember(ctx, member.ID), booking.ErrMemberNotFound)
}

func TestSaveActivity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.SaveActivity(ctx, &domain.Activity{Name: "  Yoga  ", Capacity: 4})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Yoga", created.Name)

	updated, err := svc.SaveActivity(ctx, &domain.Activity{ID: created.ID, Name: "Hatha Yoga", Capacity: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Capacity)

	list, err := svc.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Hatha Yoga", list[0].Name)

	invalid := []*domain.Activity{
		nil,
		{Name: "", Capacity: 1},
		{Name: "   ", Capacity: 1},
		{Name: "Yoga", Capacity: 0},
		{Name: "Yoga", Capacity: -3},
		{ID: -1, Name: "Yoga", Capacity: 1},
	}
	for i, a := range invalid {
		_, err := svc.SaveActivity(ctx, a)
		assert.ErrorIs(t, err, booking.ErrInvalidInput, "case %d", i)
		assert.ErrorIs(t, svc.ValidateActivity(ctx, a), booking.ErrInvalidInput, "case %d", i)
	}

	_, err = svc.SaveActivity(ctx, &domain.Activity{ID: 404, Name: "Ghost", Capacity: 1})
	assert.ErrorIs(t, err, booking.ErrActivityNotFound)
}

func TestSaveActivity_CapacityBelowOccupancy(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, opts ...booking.Option) (*booking.Service, *domain.Activity) {
		svc, _ := newService(t, opts...)
		activity := mustActivity(t, svc, "Yoga", 3)
		for _, name := range []string{"Ana", "Luis"} {
			m := mustMember(t, svc, name)
			_, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: m.ID, ActivityID: activity.ID, Date: today})
			require.NoError(t, err)
		}
		return svc, activity
	}

	t.Run("accepted by default", func(t *testing.T) {
		svc, activity := setup(t)

		_, err := svc.SaveActivity(ctx, &domain.Activity{ID: activity.ID, Name: activity.Name, Capacity: 1})
		require.NoError(t, err)

		occupancy, err := svc.GetOccupancy(ctx, activity.ID)
		require.NoError(t, err)
		assert.True(t, occupancy.IsOverbooked())

		// Следующая бронь обнаруживает переполнение
		m := mustMember(t, svc, "Eva")
		_, err = svc.SaveReservation(ctx, &domain.Reservation{MemberID: m.ID, ActivityID: activity.ID, Date: today})
		assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
	})

	t.Run("rejected in strict mode", func(t *testing.T) {
		svc, activity := setup(t, booking.WithStrictCapacityEdits(true))

		_, err := svc.SaveActivity(ctx, &domain.Activity{ID: activity.ID, Name: activity.Name, Capacity: 1})
		assert.ErrorIs(t, err, booking.ErrCapacityBelowOccupancy)
		assert.Equal(t, booking.KindConflict, booking.KindOf(err))

		_, err = svc.SaveActivity(ctx, &domain.Activity{ID: activity.ID, Name: activity.Name, Capacity: 2})
		assert.NoError(t, err)
	})
}

func TestSaveMember(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.SaveMember(ctx, &domain.Member{Name: "Ana", Email: " ana@club.es ", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "ana@club.es", created.Email)

	updated, err := svc.SaveMember(ctx, &domain.Member{ID: created.ID, Name: "Ana", Active: false})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	got, err := svc.GetMember(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Email)

	_, err = svc.SaveMember(ctx, &domain.Member{Name: " "})
	assert.ErrorIs(t, err, booking.ErrInvalidInput)
	_, err = svc.SaveMember(ctx, &domain.Member{Name: "Ana", Email: "usuario.com"})
	assert.ErrorIs(t, err, booking.ErrInvalidInput)
	_, err = svc.SaveMember(ctx, &domain.Member{ID: 55, Name: "Ana"})
	assert.ErrorIs(t, err, booking.ErrMemberNotFound)
	assert.ErrorIs(t, svc.ValidateMember(ctx, &domain.Member{ID: 55, Name: "Ana"}), booking.ErrMemberNotFound)

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestSaveReservation_ConcurrentNoOverbooking(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	const capacity, attempts = 3, 25
	activity := mustActivity(t, svc, "Crossfit", capacity)

	members := make([]*domain.Member, attempts)
	for i := range members {
		members[i] = mustMember(t, svc, fmt.Sprintf("member-%d", i))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, full int
	)
	for _, m := range members {
		wg.Add(1)
		go func(memberID int64) {
			defer wg.Done()
			_, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: memberID, ActivityID: activity.ID, Date: today})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, booking.ErrCapacityExceeded):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(m.ID)
	}
	wg.Wait()

	assert.Equal(t, capacity, ok)
	assert.Equal(t, attempts-capacity, full)

	occupancy, err := svc.GetOccupancy(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, occupancy.Occupied)
}

func TestDecisionsAreRecorded(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())
	svc, _ := newService(t, booking.WithDecisionRecorder(m))

	activity := mustActivity(t, svc, "Yoga", 1)
	member := mustMember(t, svc, "Ana")

	_, err := svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: yesterday})
	require.Error(t, err)
	_, err = svc.SaveReservation(ctx, &domain.Reservation{MemberID: member.ID, ActivityID: activity.ID, Date: today})
	require.NoError(t, err)
	require.Error(t, svc.DeleteActivity(ctx, activity.ID))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("save_reservation", "past_date")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("save_reservation", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("delete_activity", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("save_activity", "ok")))
}

func TestKindOf(t *testing.T) {
	cases := map[error]booking.Kind{
		nil:                               booking.KindNone,
		booking.ErrInvalidInput:           booking.KindInvalidInput,
		booking.ErrPastDate:               booking.KindPastDate,
		booking.ErrCapacityExceeded:       booking.KindCapacityExceeded,
		booking.ErrDuplicateBooking:       booking.KindDuplicateBooking,
		booking.ErrActivityNotFound:       booking.KindNotFound,
		booking.ErrMemberHasReservations:  booking.KindConflict,
		booking.ErrCapacityBelowOccupancy: booking.KindConflict,
		booking.ErrInternal:               booking.KindInternal,
	}
	for err, want := range cases {
		assert.Equal(t, want, booking.KindOf(err), "%v", err)
	}
	assert.Equal(t, booking.KindInternal, booking.KindOf(errors.New("driver: bad connection")))
	assert.Equal(t, booking.KindPastDate, booking.KindOf(fmt.Errorf("%w: 2026-10-15", booking.ErrPastDate)))
}
