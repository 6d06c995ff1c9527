package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linepay_backend/internal/dto"
	"linepay_backend/internal/models"
	"linepay_backend/internal/repositories"
	"linepay_backend/pkg/apperrors"
)

type fakeScheduleRepo struct {
	schedules map[int]*models.BillingSchedule
	nextID    int
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: map[int]*models.BillingSchedule{}, nextID: 1}
}

func (f *fakeScheduleRepo) FindAll() ([]models.BillingSchedule, error) {
	var out []models.BillingSchedule
	for _, s := range f.schedules {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByID(id int) (*models.BillingSchedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, repositories.ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeScheduleRepo) Create(schedule *models.BillingSchedule) error {
	schedule.ID = f.nextID
	f.nextID++
	copied := *schedule
	f.schedules[schedule.ID] = &copied
	return nil
}

func (f *fakeScheduleRepo) Update(schedule *models.BillingSchedule) error {
	copied := *schedule
	f.schedules[schedule.ID] = &copied
	return nil
}

func (f *fakeScheduleRepo) Delete(id int) error {
	if _, ok := f.schedules[id]; !ok {
		return repositories.ErrScheduleNotFound
	}
	delete(f.schedules, id)
	return nil
}

func (f *fakeScheduleRepo) FindDue(now time.Time, band time.Duration) ([]models.BillingSchedule, error) {
	return nil, nil
}

func TestScheduleService_Create_DateOrderEnforced(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo())

	billing := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(&dto.CreateScheduleRequest{
		BillingDate: billing,
		DisableDate: billing,
	})
	assert.ErrorIs(t, err, apperrors.ErrScheduleDateOrder)

	_, err = svc.Create(&dto.CreateScheduleRequest{
		BillingDate: billing,
		DisableDate: billing.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrScheduleDateOrder)

	schedule, err := svc.Create(&dto.CreateScheduleRequest{
		BillingDate: billing,
		DisableDate: billing.Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, schedule.IsActive)
	assert.NotZero(t, schedule.ID)
}

func TestScheduleService_Update_Partial(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewScheduleService(repo)

	billing := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	created, err := svc.Create(&dto.CreateScheduleRequest{
		BillingDate: billing,
		DisableDate: billing.Add(72 * time.Hour),
		Description: "April",
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(created.ID, &dto.UpdateScheduleRequest{
		IsActive: &inactive,
	})
	require.NoError(t, err)

	// Untouched fields keep their values.
	assert.Equal(t, billing, updated.BillingDate)
	assert.Equal(t, "April", updated.Description)
	assert.False(t, updated.IsActive)
}

func TestScheduleService_Update_RevalidatesMergedDates(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo())

	billing := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	created, err := svc.Create(&dto.CreateScheduleRequest{
		BillingDate: billing,
		DisableDate: billing.Add(72 * time.Hour),
	})
	require.NoError(t, err)

	// Moving only the billing date past the stored disable date must
	// fail.
	late := billing.Add(96 * time.Hour)
	_, err = svc.Update(created.ID, &dto.UpdateScheduleRequest{
		BillingDate: &late,
	})
	assert.ErrorIs(t, err, apperrors.ErrScheduleDateOrder)
}

func TestScheduleService_NotFound(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo())

	_, err := svc.Get(42)
	assert.ErrorIs(t, err, apperrors.ErrScheduleNotFound)

	err = svc.Delete(42)
	assert.ErrorIs(t, err, apperrors.ErrScheduleNotFound)
}
