package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linepay_backend/internal/models"
	"linepay_backend/internal/repositories"
	"linepay_backend/pkg/apperrors"
)

type stubUserRepo struct {
	fakeUserRepo
	user *models.User
	rows []repositories.PaymentListRow
}

func (s *stubUserRepo) FindByLineID(lineUserID string) (*models.User, error) {
	if s.user == nil {
		return nil, repositories.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) ListWithPayment() ([]repositories.PaymentListRow, error) {
	return s.rows, nil
}

type stubTxnRepo struct {
	fakeTxnRepo
	txns []models.Transaction
}

func (s *stubTxnRepo) ListByUser(lineUserID string) ([]models.Transaction, error) {
	return s.txns, nil
}

func TestUserService_GetUser_ProjectsFromLatestRow(t *testing.T) {
	now := time.Now()
	users := &stubUserRepo{user: &models.User{LineUserID: "U1", DisplayName: "Somchai"}}
	txns := &stubTxnRepo{txns: []models.Transaction{
		{ID: 2, TransRef: "REF-2", Status: models.TransactionStatusOn, TransTimestamp: now},
		{ID: 1, TransRef: "REF-1", Status: models.TransactionStatusOff, TransTimestamp: now.Add(-time.Hour)},
	}}

	svc := NewUserService(users, txns, &fakeImageRepo{})
	detail, err := svc.GetUser("U1")
	require.NoError(t, err)

	assert.Equal(t, string(StatusActive), detail.Status)
	require.Len(t, detail.Transactions, 2)
	assert.Equal(t, "REF-2", detail.Transactions[0].TransRef)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	svc := NewUserService(&stubUserRepo{}, &stubTxnRepo{}, &fakeImageRepo{})

	_, err := svc.GetUser("missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_PaymentList_StatusPerRow(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	on := "on"
	off := "off"
	thisMonth := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	users := &stubUserRepo{rows: []repositories.PaymentListRow{
		{LineUserID: "U1", LastStatus: &on, LastTransTimestamp: &thisMonth},
		{LineUserID: "U2", LastStatus: &on, LastTransTimestamp: &lastMonth},
		{LineUserID: "U3", LastStatus: &off, LastTransTimestamp: &thisMonth},
		{LineUserID: "U4"},
	}}

	svc := NewUserService(users, &stubTxnRepo{}, &fakeImageRepo{}).(*userService)
	svc.now = func() time.Time { return now }

	entries, err := svc.PaymentList()
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, string(StatusActive), entries[0].Status)
	assert.Equal(t, string(StatusBilling), entries[1].Status)
	assert.Equal(t, string(StatusBilling), entries[2].Status)
	assert.Equal(t, string(StatusInactiveNonPaid), entries[3].Status)
}
