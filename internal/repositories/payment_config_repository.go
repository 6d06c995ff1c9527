package repositories

import (
	"errors"

	"gorm.io/gorm"

	"linepay_backend/internal/models"
)

var ErrConfigNotFound = errors.New("payment config not found")

// ConfiguredUser is one billable user: the join of a payment config
// with the managed account it controls.
type ConfiguredUser struct {
	LineUserID     string
	RequiredAmount float64
	Username       string
}

type PaymentConfigRepository interface {
	FindByLineID(lineUserID string) (*models.PaymentConfig, error)
	FindAllConfigured() ([]ConfiguredUser, error)
}

type paymentConfigRepository struct {
	db *gorm.DB
}

func NewPaymentConfigRepository(db *gorm.DB) PaymentConfigRepository {
	return &paymentConfigRepository{db: db}
}

func (r *paymentConfigRepository) FindByLineID(lineUserID string) (*models.PaymentConfig, error) {
	var config models.PaymentConfig
	err := r.db.Preload("Account").First(&config, "line_user_id = ?", lineUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return &config, nil
}

func (r *paymentConfigRepository) FindAllConfigured() ([]ConfiguredUser, error) {
	var users []ConfiguredUser
	err := r.db.Raw(`
		SELECT
			pc.line_user_id,
			pc.required_amount,
			a.username
		FROM line_user_payment_configs pc
		JOIN managed_accounts a ON pc.account_id = a.id
	`).Scan(&users).Error
	return users, err
}
