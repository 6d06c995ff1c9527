package workers

import (
	"context"
	"fmt"
	"time"

	"linepay_backend/internal/logger"
	"linepay_backend/internal/repositories"
)

const (
	billingReminderFmt = "📢 ค่าบริการรายเดือน %.2f THB\nกรุณาชำระภายใน %s \nมิฉะนั้นระบบจะถูกปิดใช้งาน"
	disabledNotice     = "❌ ระบบของคุณถูกปิดใช้งานเนื่องจากยังไม่ชำระค่าบริการ"

	deadlineLayout = "02/01/2006 15:04"
)

// Notifier pushes a message to one user outside a reply context.
type Notifier interface {
	Push(ctx context.Context, userID, text string) error
}

// StatusToggler flips the downstream service flag for a managed
// account.
type StatusToggler interface {
	SetStatus(ctx context.Context, username, status string) error
}

// AlertSender surfaces abandoned ticks to operators.
type AlertSender interface {
	SendAlert(subject, body string) error
}

// BillingWorker drives the two clock-driven phases of a billing
// schedule: the reminder broadcast at the billing boundary and the
// access revocation sweep at the disable boundary. Ticks run
// serialized in a single goroutine so two sweeps never overlap.
type BillingWorker struct {
	schedules repositories.BillingScheduleRepository
	configs   repositories.PaymentConfigRepository
	txns      repositories.TransactionRepository
	notifier  Notifier
	toggler   StatusToggler
	alerts    AlertSender
	interval  time.Duration
	band      time.Duration
	now       func() time.Time
}

func NewBillingWorker(
	schedules repositories.BillingScheduleRepository,
	configs repositories.PaymentConfigRepository,
	txns repositories.TransactionRepository,
	notifier Notifier,
	toggler StatusToggler,
	alerts AlertSender,
	interval time.Duration,
	band time.Duration,
) *BillingWorker {
	return &BillingWorker{
		schedules: schedules,
		configs:   configs,
		txns:      txns,
		notifier:  notifier,
		toggler:   toggler,
		alerts:    alerts,
		interval:  interval,
		band:      band,
		now:       time.Now,
	}
}

// Start runs the tick loop until ctx is cancelled. A failed tick is
// abandoned and the boundary is not retried; the next tick starts
// clean.
func (w *BillingWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("billing worker started", "interval", w.interval.String(), "band", w.band.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("billing worker stopped")
			return
		case <-ticker.C:
			err := w.RunTick(ctx, w.now())
			logger.WorkerLog("billing", "tick", err)
			if err != nil {
				w.alertTickFailure(err)
			}
		}
	}
}

// RunTick evaluates every active schedule against now and fires the
// phases whose boundary falls inside (boundary, boundary+band]. The
// first error abandons the remainder of the tick.
func (w *BillingWorker) RunTick(ctx context.Context, now time.Time) error {
	due, err := w.schedules.FindDue(now, w.band)
	if err != nil {
		return fmt.Errorf("failed to load due schedules: %w", err)
	}

	for _, schedule := range due {
		if w.inBand(schedule.BillingDate, now) {
			if err := w.runBillingPhase(ctx, schedule.BillingDate, schedule.DisableDate); err != nil {
				return fmt.Errorf("billing phase for schedule %d: %w", schedule.ID, err)
			}
		}
		if w.inBand(schedule.DisableDate, now) {
			if err := w.runDisablePhase(ctx, schedule.BillingDate); err != nil {
				return fmt.Errorf("disable phase for schedule %d: %w", schedule.ID, err)
			}
		}
	}
	return nil
}

// inBand re-checks the window in Go. FindDue already filters in SQL;
// this keeps the two boundaries of one schedule from both firing when
// only one is due.
func (w *BillingWorker) inBand(boundary, now time.Time) bool {
	return !now.Before(boundary) && now.Before(boundary.Add(w.band))
}

// runBillingPhase broadcasts the payment reminder to every configured
// user with their own required amount and the shared deadline.
func (w *BillingWorker) runBillingPhase(ctx context.Context, billingDate, disableDate time.Time) error {
	users, err := w.configs.FindAllConfigured()
	if err != nil {
		return fmt.Errorf("failed to load configured users: %w", err)
	}

	deadline := disableDate.Format(deadlineLayout)
	for _, user := range users {
		text := fmt.Sprintf(billingReminderFmt, user.RequiredAmount, deadline)
		if err := w.notifier.Push(ctx, user.LineUserID, text); err != nil {
			return fmt.Errorf("failed to push reminder to %s: %w", user.LineUserID, err)
		}
	}

	logger.Info("billing reminders sent", "users", len(users), "billing_date", billingDate.Format(time.RFC3339))
	return nil
}

// runDisablePhase revokes access for every configured user who has not
// paid since the billing boundary. Exempt: latest ledger row is "on"
// AND its timestamp is at or after billingDate.
func (w *BillingWorker) runDisablePhase(ctx context.Context, billingDate time.Time) error {
	states, err := w.txns.ListBillingStates()
	if err != nil {
		return fmt.Errorf("failed to load billing states: %w", err)
	}

	disabled := 0
	for _, state := range states {
		if isExempt(state, billingDate) {
			continue
		}
		if err := w.toggler.SetStatus(ctx, state.Username, "off"); err != nil {
			return fmt.Errorf("failed to disable %s: %w", state.Username, err)
		}
		if err := w.notifier.Push(ctx, state.LineUserID, disabledNotice); err != nil {
			return fmt.Errorf("failed to notify %s: %w", state.LineUserID, err)
		}
		disabled++
	}

	logger.Info("disable sweep finished", "checked", len(states), "disabled", disabled)
	return nil
}

func isExempt(state repositories.BillingState, billingDate time.Time) bool {
	if state.LatestStatus == nil || state.LatestTimestamp == nil {
		return false
	}
	return *state.LatestStatus == "on" && !state.LatestTimestamp.Before(billingDate)
}

func (w *BillingWorker) alertTickFailure(cause error) {
	body := fmt.Sprintf(
		"A billing scheduler tick was abandoned.\n\nerror: %v\nat: %s\n\nThe boundary will not be retried automatically.",
		cause, w.now().Format(time.RFC3339),
	)
	if err := w.alerts.SendAlert("Billing tick abandoned", body); err != nil {
		logger.Error("failed to send tick failure alert", "error", err.Error())
	}
}
