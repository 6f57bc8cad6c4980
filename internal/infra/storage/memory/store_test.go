package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SportsBooking/internal/domain"
	"github.com/m04kA/SMC-SportsBooking/internal/infra/storage"
)

func TestActivityRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Activities()

	first, err := repo.Create(ctx, &domain.Activity{Name: "Yoga", Capacity: 10})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.Activity{Name: "Spinning", Capacity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", again.Name, "stored record must not change through a returned pointer")

	require.NoError(t, repo.Update(ctx, &domain.Activity{ID: first.ID, Name: "Pilates", Capacity: 8}))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pilates", list[0].Name)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), storage.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Activity{ID: 99}), storage.ErrNotFound)
}

func TestMemberRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Members()

	m, err := repo.Create(ctx, &domain.Member{Name: "Ana", Email: "ana@club.es", Active: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)

	require.NoError(t, repo.Update(ctx, &domain.Member{ID: m.ID, Name: "Ana", Active: false}))
	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Empty(t, got.Email)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestReservationRepository_ListAndFilter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	yoga, _ := store.Activities().Create(ctx, &domain.Activity{Name: "Yoga", Capacity: 2})
	boxing, _ := store.Activities().Create(ctx, &domain.Activity{Name: "Boxing", Capacity: 2})
	ana, _ := store.Members().Create(ctx, &domain.Member{Name: "Ana"})
	luis, _ := store.Members().Create(ctx, &domain.Member{Name: "Luis"})

	repo := store.Reservations()
	_, err := repo.Create(ctx, &domain.Reservation{MemberID: ana.ID, ActivityID: yoga.ID, Date: day})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Reservation{MemberID: luis.ID, ActivityID: yoga.ID, Date: day})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Reservation{MemberID: ana.ID, ActivityID: boxing.ID, Date: day})
	require.NoError(t, err)

	byActivity, err := repo.ListByActivity(ctx, yoga.ID)
	require.NoError(t, err)
	assert.Len(t, byActivity, 2)

	byMember, err := repo.ListByMember(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, byMember, 2)

	details, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, "Yoga", details[0].Activity.Name)
	assert.Equal(t, "Ana", details[0].Member.Name)
	assert.Equal(t, "Boxing", details[2].Activity.Name)

	require.NoError(t, repo.Delete(ctx, details[0].ID))
	assert.ErrorIs(t, repo.Delete(ctx, details[0].ID), ErrReservationNotFound)
}
