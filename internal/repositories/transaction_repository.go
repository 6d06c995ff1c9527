package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"linepay_backend/internal/models"
)

var ErrNoTransactions = errors.New("no transactions for user")

// BillingState is one configured user joined with their latest ledger
// row, as the disable phase of the scheduler consumes it. Latest* are
// nil for users who never paid.
type BillingState struct {
	LineUserID      string
	Username        string
	LatestStatus    *string
	LatestTimestamp *time.Time
}

// TransactionRepository owns the append-only ledger. Append is the
// only write; rows are never updated or deleted.
type TransactionRepository interface {
	Append(txn *models.Transaction) error
	// LatestFor returns the row with the greatest trans_timestamp for
	// the user, ties broken by insertion order.
	LatestFor(lineUserID string) (*models.Transaction, error)
	ListByUser(lineUserID string) ([]models.Transaction, error)
	ListBillingStates() ([]BillingState, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Append(txn *models.Transaction) error {
	return r.db.Create(txn).Error
}

func (r *transactionRepository) LatestFor(lineUserID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.Where("line_user_id = ?", lineUserID).
		Order("trans_timestamp DESC, id DESC").
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTransactions
		}
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) ListByUser(lineUserID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.Where("line_user_id = ?", lineUserID).
		Order("trans_timestamp DESC").
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) ListBillingStates() ([]BillingState, error) {
	var states []BillingState
	err := r.db.Raw(`
		SELECT
			pc.line_user_id,
			a.username,
			t.status AS latest_status,
			t.trans_timestamp AS latest_timestamp
		FROM line_user_payment_configs pc
		JOIN managed_accounts a ON pc.account_id = a.id
		LEFT JOIN line_user_transactions t
			ON pc.line_user_id = t.line_user_id
			AND t.trans_timestamp = (
				SELECT MAX(sub.trans_timestamp)
				FROM line_user_transactions sub
				WHERE sub.line_user_id = t.line_user_id
			)
	`).Scan(&states).Error
	return states, err
}
