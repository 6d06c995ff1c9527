package services

import (
	"errors"
	"time"

	"linepay_backend/internal/dto"
	"linepay_backend/internal/models"
	"linepay_backend/internal/repositories"
	"linepay_backend/pkg/apperrors"
)

// UserService serves the admin read surface. All status values are
// projected from the ledger at request time.
type UserService interface {
	ListUsers() ([]models.User, error)
	GetUser(lineUserID string) (*dto.UserDetail, error)
	SearchByName(name string) ([]models.User, error)
	GetStats() (*repositories.UserStats, error)
	PaymentList() ([]dto.PaymentListEntry, error)
	ListUserImages(lineUserID string) ([]models.SlipImage, error)
}

type userService struct {
	users  repositories.UserRepository
	txns   repositories.TransactionRepository
	images repositories.SlipImageRepository
	now    func() time.Time
}

func NewUserService(
	users repositories.UserRepository,
	txns repositories.TransactionRepository,
	images repositories.SlipImageRepository,
) UserService {
	return &userService{
		users:  users,
		txns:   txns,
		images: images,
		now:    time.Now,
	}
}

func (s *userService) ListUsers() ([]models.User, error) {
	return s.users.FindAll()
}

func (s *userService) GetUser(lineUserID string) (*dto.UserDetail, error) {
	user, err := s.users.FindByLineID(lineUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	txns, err := s.txns.ListByUser(lineUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// ListByUser sorts newest first, so the head row drives the
	// projection.
	var latest *models.Transaction
	if len(txns) > 0 {
		latest = &txns[0]
	}

	detail := &dto.UserDetail{
		LineUserID:           user.LineUserID,
		DisplayName:          user.DisplayName,
		PictureURL:           user.PictureURL,
		StatusMessage:        user.StatusMessage,
		Language:             user.Language,
		LastMessage:          user.LastMessage,
		LastMessageTimestamp: user.LastMessageTimestamp,
		Status:               string(Project(latest, s.now())),
		Transactions:         make([]dto.Transaction, 0, len(txns)),
	}
	for _, t := range txns {
		detail.Transactions = append(detail.Transactions, dto.Transaction{
			ID:             t.ID,
			TransRef:       t.TransRef,
			Amount:         t.Amount,
			RequiredAmount: t.RequiredAmount,
			SendingBank:    t.SendingBank,
			ReceivingBank:  t.ReceivingBank,
			TransTimestamp: t.TransTimestamp,
			Status:         string(t.Status),
		})
	}
	return detail, nil
}

func (s *userService) SearchByName(name string) ([]models.User, error) {
	return s.users.SearchByName(name)
}

func (s *userService) GetStats() (*repositories.UserStats, error) {
	return s.users.GetStats(s.now())
}

// PaymentList flattens every user with their configuration and latest
// ledger row, attaching the projected status per row.
func (s *userService) PaymentList() ([]dto.PaymentListEntry, error) {
	rows, err := s.users.ListWithPayment()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	entries := make([]dto.PaymentListEntry, 0, len(rows))
	for _, row := range rows {
		var latest *models.Transaction
		if row.LastStatus != nil && row.LastTransTimestamp != nil {
			latest = &models.Transaction{
				Status:         models.TransactionStatus(*row.LastStatus),
				TransTimestamp: *row.LastTransTimestamp,
			}
		}
		entries = append(entries, dto.PaymentListEntry{
			LineUserID:           row.LineUserID,
			DisplayName:          row.DisplayName,
			PictureURL:           row.PictureURL,
			LastMessage:          row.LastMessage,
			LastMessageTimestamp: row.LastMessageTimestamp,
			Username:             row.Username,
			AccountType:          row.AccountType,
			RequiredAmount:       row.RequiredAmount,
			LastPaymentDate:      row.LastTransTimestamp,
			LastPaymentAmount:    row.LastAmount,
			Status:               string(Project(latest, now)),
		})
	}
	return entries, nil
}

func (s *userService) ListUserImages(lineUserID string) ([]models.SlipImage, error) {
	if _, err := s.users.FindByLineID(lineUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return s.images.ListByUser(lineUserID)
}
