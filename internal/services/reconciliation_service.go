package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"linepay_backend/internal/line"
	"linepay_backend/internal/logger"
	"linepay_backend/internal/models"
	"linepay_backend/internal/repositories"
	"linepay_backend/internal/slipok"
	"linepay_backend/internal/storage"
)

// EventKind distinguishes the two message kinds the engine handles.
type EventKind string

const (
	EventKindText  EventKind = "text"
	EventKindImage EventKind = "image"
)

// InboundEvent is one decoded webhook event, stripped of transport
// details.
type InboundEvent struct {
	UserID       string
	ReplyToken   string
	MessageID    string
	Kind         EventKind
	Text         string
	IsRedelivery bool
	Timestamp    time.Time
}

// Messenger is the slice of the LINE adapter the engine needs.
type Messenger interface {
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
	GetContent(ctx context.Context, messageID string) (io.ReadCloser, string, error)
	Reply(ctx context.Context, replyToken, text string) error
}

// Verifier wraps the slip-verification call.
type Verifier interface {
	Verify(ctx context.Context, imageURL string) (*slipok.Result, error)
}

// StatusToggler flips the downstream service flag for a managed
// account.
type StatusToggler interface {
	SetStatus(ctx context.Context, username, status string) error
}

// AlertSender surfaces accepted inconsistencies to operators.
type AlertSender interface {
	SendAlert(subject, body string) error
}

// ReconciliationService turns inbound message events into verified or
// rejected payment outcomes.
type ReconciliationService interface {
	// HandleEvents processes a webhook batch. Events run concurrently
	// and independently; a failure in one never aborts the others.
	HandleEvents(ctx context.Context, events []InboundEvent)
	// HandleEvent processes a single event to completion. All failures
	// are absorbed here; the returned error is for logging only.
	HandleEvent(ctx context.Context, event InboundEvent) error
}

type reconciliationService struct {
	users     repositories.UserRepository
	configs   repositories.PaymentConfigRepository
	txns      repositories.TransactionRepository
	images    repositories.SlipImageRepository
	messenger Messenger
	verifier  Verifier
	toggler   StatusToggler
	store     storage.Storage
	alerts    AlertSender
	now       func() time.Time
}

func NewReconciliationService(
	users repositories.UserRepository,
	configs repositories.PaymentConfigRepository,
	txns repositories.TransactionRepository,
	images repositories.SlipImageRepository,
	messenger Messenger,
	verifier Verifier,
	toggler StatusToggler,
	store storage.Storage,
	alerts AlertSender,
) ReconciliationService {
	return &reconciliationService{
		users:     users,
		configs:   configs,
		txns:      txns,
		images:    images,
		messenger: messenger,
		verifier:  verifier,
		toggler:   toggler,
		store:     store,
		alerts:    alerts,
		now:       time.Now,
	}
}

func (s *reconciliationService) HandleEvents(ctx context.Context, events []InboundEvent) {
	var g errgroup.Group
	for _, event := range events {
		event := event
		g.Go(func() error {
			return s.HandleEvent(ctx, event)
		})
	}
	if err := g.Wait(); err != nil {
		// Each event already logged its own failure with context;
		// this is only the batch-level trace.
		logger.CtxWarn(ctx, "webhook batch finished with failures", "first_error", err.Error())
	}
}

func (s *reconciliationService) HandleEvent(ctx context.Context, event InboundEvent) (err error) {
	ctx = logger.WithUserID(ctx, event.UserID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing event: %v", r)
			logger.CtxError(ctx, "event processing panicked", "panic", fmt.Sprint(r), "message_id", event.MessageID)
			s.replyBestEffort(ctx, event.ReplyToken, msgGenericError)
		}
	}()

	// Sole defense against platform-level redelivery: acknowledge and
	// mutate nothing.
	if event.IsRedelivery {
		logger.CtxInfo(ctx, "redelivered event acknowledged without processing", "message_id", event.MessageID)
		s.replyBestEffort(ctx, event.ReplyToken, msgAlreadyProcessed)
		return nil
	}

	switch event.Kind {
	case EventKindImage:
		return s.handleImage(ctx, event)
	case EventKindText:
		return s.handleText(ctx, event)
	default:
		logger.CtxDebug(ctx, "ignoring unsupported event kind", "kind", string(event.Kind))
		return nil
	}
}

// handleText refreshes the user snapshot. No reconciliation logic
// applies to text messages.
func (s *reconciliationService) handleText(ctx context.Context, event InboundEvent) error {
	if err := s.refreshProfile(ctx, event.UserID); err != nil {
		logger.CtxWithError(ctx, "failed to refresh user profile", err, "step", "profile")
		return err
	}

	if err := s.users.UpdateLastMessage(event.UserID, event.Text, event.Timestamp); err != nil {
		logger.CtxWithError(ctx, "failed to update last message", err, "step", "last_message")
		return err
	}
	return nil
}

// handleImage runs the full slip pipeline. Side effects after
// verification happen in a fixed order: ledger append (durability
// point), external status toggle, user reply. The ledger row is never
// rolled back once written.
func (s *reconciliationService) handleImage(ctx context.Context, event InboundEvent) error {
	if err := s.refreshProfile(ctx, event.UserID); err != nil {
		logger.CtxWithError(ctx, "failed to refresh user profile", err, "step", "profile")
		s.replyBestEffort(ctx, event.ReplyToken, msgGenericError)
		return err
	}

	config, err := s.configs.FindByLineID(event.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrConfigNotFound) {
			// Terminal outcome, not a retryable error: nothing to
			// reconcile against.
			logger.CtxInfo(ctx, "no payment config for user", "message_id", event.MessageID)
			s.replyBestEffort(ctx, event.ReplyToken, msgNoConfig)
			return nil
		}
		logger.CtxWithError(ctx, "failed to load payment config", err, "step", "config")
		s.replyBestEffort(ctx, event.ReplyToken, msgGenericError)
		return err
	}

	imageURL, err := s.storeSlip(ctx, event)
	if err != nil {
		logger.CtxWithError(ctx, "failed to store slip image", err, "step", "content")
		s.replyBestEffort(ctx, event.ReplyToken, msgGenericError)
		return err
	}

	result, err := s.verifier.Verify(ctx, imageURL)
	if err != nil {
		var reject *slipok.RejectError
		if errors.Is(err, slipok.ErrMissingAmount) || errors.As(err, &reject) {
			// Hard verification failure: the call answered but the
			// slip cannot be credited. No ledger row.
			logger.CtxWarn(ctx, "slip verification rejected", "step", "verify", "error", err.Error())
		} else {
			logger.CtxWithError(ctx, "slip verification call failed", err, "step", "verify")
		}
		s.replyBestEffort(ctx, event.ReplyToken, msgVerifyFailed)
		return err
	}

	// No partial credit: computed once from the snapshots at
	// verification time.
	status := models.TransactionStatusOff
	if result.Amount >= config.RequiredAmount {
		status = models.TransactionStatusOn
	}

	txn := &models.Transaction{
		LineUserID:     event.UserID,
		MessageID:      event.MessageID,
		TransRef:       result.TransRef,
		Amount:         result.Amount,
		RequiredAmount: config.RequiredAmount,
		SendingBank:    result.SendingBank,
		ReceivingBank:  result.ReceivingBank,
		TransTimestamp: result.TransTimestamp,
		Status:         status,
		RawPayload:     datatypes.JSON(result.Raw),
	}
	if err := s.txns.Append(txn); err != nil {
		logger.CtxWithError(ctx, "failed to append transaction", err, "step", "ledger")
		s.replyBestEffort(ctx, event.ReplyToken, msgGenericError)
		return err
	}

	// The ledger row above is authoritative from here on. A failed
	// toggle or reply leaves it in place and the divergence is
	// surfaced instead of rolled back.
	if err := s.toggler.SetStatus(ctx, config.Account.Username, string(status)); err != nil {
		logger.CtxWithError(ctx, "status toggle failed after ledger write", err,
			"step", "toggle", "username", config.Account.Username, "trans_ref", result.TransRef)
		s.alertDivergence(event.UserID, config.Account.Username, result.TransRef, err)
		s.replyBestEffort(ctx, event.ReplyToken, msgGenericError)
		return err
	}

	reply := msgPaymentAccepted(result.Amount)
	if status == models.TransactionStatusOff {
		reply = msgPaymentInsufficient(result.Amount, config.RequiredAmount)
	}
	if err := s.messenger.Reply(ctx, event.ReplyToken, reply); err != nil {
		logger.CtxWithError(ctx, "reply failed after ledger write", err, "step", "reply")
		return err
	}

	logger.CtxInfo(ctx, "slip reconciled",
		"amount", result.Amount,
		"required_amount", config.RequiredAmount,
		"status", string(status),
		"trans_ref", result.TransRef,
	)
	return nil
}

func (s *reconciliationService) refreshProfile(ctx context.Context, userID string) error {
	profile, err := s.messenger.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	return s.users.UpsertProfile(repositories.ProfileSnapshot{
		LineUserID:    profile.UserID,
		DisplayName:   profile.DisplayName,
		PictureURL:    profile.PictureURL,
		StatusMessage: profile.StatusMessage,
		Language:      profile.Language,
	})
}

// storeSlip fetches the image bytes, persists them and records the
// slip, returning the public URL for verification.
func (s *reconciliationService) storeSlip(ctx context.Context, event InboundEvent) (string, error) {
	content, contentType, err := s.messenger.GetContent(ctx, event.MessageID)
	if err != nil {
		return "", err
	}
	defer content.Close()

	path := fmt.Sprintf("slips/%s/%s%s", event.UserID, event.MessageID, extensionFor(contentType))
	if err := s.store.Save(ctx, path, content, contentType); err != nil {
		return "", err
	}

	imageURL := s.store.GetURL(path)
	if err := s.images.Save(&models.SlipImage{
		LineUserID: event.UserID,
		MessageID:  event.MessageID,
		ImageURL:   imageURL,
	}); err != nil {
		return "", err
	}
	return imageURL, nil
}

func (s *reconciliationService) replyBestEffort(ctx context.Context, replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := s.messenger.Reply(ctx, replyToken, text); err != nil {
		logger.CtxWithError(ctx, "failed to send reply", err, "step", "reply")
	}
}

func (s *reconciliationService) alertDivergence(userID, username, transRef string, cause error) {
	body := fmt.Sprintf(
		"Ledger row recorded but status toggle failed.\n\nline_user_id: %s\nusername: %s\ntrans_ref: %s\nerror: %v\nat: %s\n",
		userID, username, transRef, cause, s.now().Format(time.RFC3339),
	)
	if err := s.alerts.SendAlert("Ledger/status divergence", body); err != nil {
		logger.Error("failed to send divergence alert", "error", err.Error())
	}
}

func extensionFor(contentType string) string {
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	if strings.HasPrefix(contentType, "image/") {
		return ".jpg"
	}
	return ""
}
