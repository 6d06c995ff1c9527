package workers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linepay_backend/internal/models"
	"linepay_backend/internal/repositories"
)

type fakeScheduleRepo struct {
	schedules []models.BillingSchedule
	err       error
}

func (f *fakeScheduleRepo) FindAll() ([]models.BillingSchedule, error)      { return f.schedules, nil }
func (f *fakeScheduleRepo) FindByID(id int) (*models.BillingSchedule, error) {
	return nil, repositories.ErrScheduleNotFound
}
func (f *fakeScheduleRepo) Create(schedule *models.BillingSchedule) error { return nil }
func (f *fakeScheduleRepo) Update(schedule *models.BillingSchedule) error { return nil }
func (f *fakeScheduleRepo) Delete(id int) error                           { return nil }

func (f *fakeScheduleRepo) FindDue(now time.Time, band time.Duration) ([]models.BillingSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	windowStart := now.Add(-band)
	var due []models.BillingSchedule
	for _, s := range f.schedules {
		if !s.IsActive {
			continue
		}
		billingDue := s.BillingDate.After(windowStart) && !s.BillingDate.After(now)
		disableDue := s.DisableDate.After(windowStart) && !s.DisableDate.After(now)
		if billingDue || disableDue {
			due = append(due, s)
		}
	}
	return due, nil
}

type fakeConfigRepo struct {
	users []repositories.ConfiguredUser
}

func (f *fakeConfigRepo) FindByLineID(lineUserID string) (*models.PaymentConfig, error) {
	return nil, repositories.ErrConfigNotFound
}

func (f *fakeConfigRepo) FindAllConfigured() ([]repositories.ConfiguredUser, error) {
	return f.users, nil
}

type fakeTxnRepo struct {
	states []repositories.BillingState
}

func (f *fakeTxnRepo) Append(txn *models.Transaction) error { return nil }
func (f *fakeTxnRepo) LatestFor(lineUserID string) (*models.Transaction, error) {
	return nil, repositories.ErrNoTransactions
}
func (f *fakeTxnRepo) ListByUser(lineUserID string) ([]models.Transaction, error) { return nil, nil }
func (f *fakeTxnRepo) ListBillingStates() ([]repositories.BillingState, error) {
	return f.states, nil
}

type fakeNotifier struct {
	pushes map[string]string
	order  []string
	err    error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{pushes: map[string]string{}}
}

func (f *fakeNotifier) Push(ctx context.Context, userID, text string) error {
	if f.err != nil {
		return f.err
	}
	f.pushes[userID] = text
	f.order = append(f.order, userID)
	return nil
}

type fakeToggler struct {
	calls []string
	err   error
}

func (f *fakeToggler) SetStatus(ctx context.Context, username, status string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, username+"="+status)
	return nil
}

type fakeAlerts struct {
	subjects []string
}

func (f *fakeAlerts) SendAlert(subject, body string) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

func strPtr(s string) *string       { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func newWorker(
	schedules *fakeScheduleRepo,
	configs *fakeConfigRepo,
	txns *fakeTxnRepo,
	notifier *fakeNotifier,
	toggler *fakeToggler,
) *BillingWorker {
	return NewBillingWorker(
		schedules, configs, txns,
		notifier, toggler, &fakeAlerts{},
		time.Minute, time.Minute,
	)
}

func TestRunTick_BillingPhase_BroadcastsReminders(t *testing.T) {
	billingDate := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	disableDate := billingDate.Add(72 * time.Hour)

	schedules := &fakeScheduleRepo{schedules: []models.BillingSchedule{{
		ID:          1,
		BillingDate: billingDate,
		DisableDate: disableDate,
		IsActive:    true,
	}}}
	configs := &fakeConfigRepo{users: []repositories.ConfiguredUser{
		{LineUserID: "U1", RequiredAmount: 300, Username: "acct1"},
		{LineUserID: "U2", RequiredAmount: 450, Username: "acct2"},
	}}
	notifier := newFakeNotifier()
	toggler := &fakeToggler{}
	w := newWorker(schedules, configs, &fakeTxnRepo{}, notifier, toggler)

	err := w.RunTick(context.Background(), billingDate.Add(30*time.Second))
	require.NoError(t, err)

	require.Len(t, notifier.pushes, 2)
	assert.Contains(t, notifier.pushes["U1"], "300.00")
	assert.Contains(t, notifier.pushes["U2"], "450.00")
	assert.Contains(t, notifier.pushes["U1"], disableDate.Format(deadlineLayout))
	// Reminders only; nobody gets disabled at the billing boundary.
	assert.Empty(t, toggler.calls)
}

func TestRunTick_OutsideBand_NoAction(t *testing.T) {
	billingDate := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	schedules := &fakeScheduleRepo{schedules: []models.BillingSchedule{{
		ID:          1,
		BillingDate: billingDate,
		DisableDate: billingDate.Add(72 * time.Hour),
		IsActive:    true,
	}}}
	notifier := newFakeNotifier()
	w := newWorker(schedules, &fakeConfigRepo{}, &fakeTxnRepo{}, notifier, &fakeToggler{})

	// Two minutes past the boundary with a one-minute band.
	err := w.RunTick(context.Background(), billingDate.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, notifier.pushes)
}

func TestRunTick_DisablePhase_ExemptionRule(t *testing.T) {
	billingDate := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	disableDate := billingDate.Add(72 * time.Hour)

	schedules := &fakeScheduleRepo{schedules: []models.BillingSchedule{{
		ID:          1,
		BillingDate: billingDate,
		DisableDate: disableDate,
		IsActive:    true,
	}}}
	txns := &fakeTxnRepo{states: []repositories.BillingState{
		// Paid after the billing boundary with a sufficient amount.
		{LineUserID: "U1", Username: "acct1", LatestStatus: strPtr("on"), LatestTimestamp: timePtr(billingDate.Add(time.Hour))},
		// Paid-up last cycle only; timestamp predates the boundary.
		{LineUserID: "U2", Username: "acct2", LatestStatus: strPtr("on"), LatestTimestamp: timePtr(billingDate.Add(-time.Hour))},
		// Insufficient payment after the boundary.
		{LineUserID: "U3", Username: "acct3", LatestStatus: strPtr("off"), LatestTimestamp: timePtr(billingDate.Add(time.Hour))},
		// Never paid at all.
		{LineUserID: "U4", Username: "acct4"},
	}}
	notifier := newFakeNotifier()
	toggler := &fakeToggler{}
	w := newWorker(schedules, &fakeConfigRepo{}, txns, notifier, toggler)

	err := w.RunTick(context.Background(), disableDate.Add(30*time.Second))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"acct2=off", "acct3=off", "acct4=off"}, toggler.calls)
	assert.NotContains(t, notifier.pushes, "U1")
	for _, uid := range []string{"U2", "U3", "U4"} {
		assert.Equal(t, disabledNotice, notifier.pushes[uid])
	}
}

func TestRunTick_FirstErrorAbandonsTick(t *testing.T) {
	billingDate := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	disableDate := billingDate.Add(72 * time.Hour)

	schedules := &fakeScheduleRepo{schedules: []models.BillingSchedule{{
		ID:          1,
		BillingDate: billingDate,
		DisableDate: disableDate,
		IsActive:    true,
	}}}
	txns := &fakeTxnRepo{states: []repositories.BillingState{
		{LineUserID: "U1", Username: "acct1"},
		{LineUserID: "U2", Username: "acct2"},
	}}
	notifier := newFakeNotifier()
	toggler := &fakeToggler{err: errors.New("status api down")}
	w := newWorker(schedules, &fakeConfigRepo{}, txns, notifier, toggler)

	err := w.RunTick(context.Background(), disableDate.Add(30*time.Second))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "disable phase"))
	// Nothing after the failure point ran.
	assert.Empty(t, notifier.pushes)
}

func TestRunTick_InactiveScheduleIgnored(t *testing.T) {
	billingDate := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	schedules := &fakeScheduleRepo{schedules: []models.BillingSchedule{{
		ID:          1,
		BillingDate: billingDate,
		DisableDate: billingDate.Add(72 * time.Hour),
		IsActive:    false,
	}}}
	configs := &fakeConfigRepo{users: []repositories.ConfiguredUser{
		{LineUserID: "U1", RequiredAmount: 300, Username: "acct1"},
	}}
	notifier := newFakeNotifier()
	w := newWorker(schedules, configs, &fakeTxnRepo{}, notifier, &fakeToggler{})

	err := w.RunTick(context.Background(), billingDate.Add(30*time.Second))
	require.NoError(t, err)
	assert.Empty(t, notifier.pushes)
}
