package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"linepay_backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// ProfileSnapshot carries the profile fields fetched from the
// messaging platform for one inbound event.
type ProfileSnapshot struct {
	LineUserID    string
	DisplayName   string
	PictureURL    string
	StatusMessage string
	Language      string
}

// UserStats is the aggregate view served by the admin stats endpoint.
type UserStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveLast24h int64 `json:"active_last_24h"`
	ActiveLast7d  int64 `json:"active_last_7d"`
}

// PaymentListRow is one row of the admin payment overview: user,
// configuration and latest ledger entry flattened together.
type PaymentListRow struct {
	LineUserID           string     `json:"line_user_id"`
	DisplayName          string     `json:"display_name"`
	PictureURL           string     `json:"picture_url"`
	LastMessage          string     `json:"last_message"`
	LastMessageTimestamp *time.Time `json:"last_message_timestamp"`
	Username             *string    `json:"username"`
	AccountType          *string    `json:"type"`
	RequiredAmount       *float64   `json:"required_amount"`
	LastStatus           *string    `json:"last_transaction_status"`
	LastTransTimestamp   *time.Time `json:"last_payment_date"`
	LastAmount           *float64   `json:"last_payment_amount"`
}

type UserRepository interface {
	UpsertProfile(snapshot ProfileSnapshot) error
	UpdateLastMessage(lineUserID, message string, at time.Time) error
	FindByLineID(lineUserID string) (*models.User, error)
	FindAll() ([]models.User, error)
	SearchByName(name string) ([]models.User, error)
	GetStats(now time.Time) (*UserStats, error)
	ListWithPayment() ([]PaymentListRow, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// UpsertProfile creates the user on first contact and refreshes the
// profile fields afterwards. Empty incoming fields never overwrite
// stored values, matching COALESCE update semantics.
func (r *userRepository) UpsertProfile(snapshot ProfileSnapshot) error {
	var existing models.User
	err := r.db.First(&existing, "line_user_id = ?", snapshot.LineUserID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user := models.User{
			LineUserID:    snapshot.LineUserID,
			DisplayName:   snapshot.DisplayName,
			PictureURL:    snapshot.PictureURL,
			StatusMessage: snapshot.StatusMessage,
			Language:      snapshot.Language,
		}
		return r.db.Create(&user).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if snapshot.DisplayName != "" {
		updates["display_name"] = snapshot.DisplayName
	}
	if snapshot.PictureURL != "" {
		updates["picture_url"] = snapshot.PictureURL
	}
	if snapshot.StatusMessage != "" {
		updates["status_message"] = snapshot.StatusMessage
	}
	if snapshot.Language != "" {
		updates["language"] = snapshot.Language
	}
	if len(updates) == 0 {
		return nil
	}

	return r.db.Model(&models.User{}).
		Where("line_user_id = ?", snapshot.LineUserID).
		Updates(updates).Error
}

func (r *userRepository) UpdateLastMessage(lineUserID, message string, at time.Time) error {
	return r.db.Model(&models.User{}).
		Where("line_user_id = ?", lineUserID).
		Updates(map[string]interface{}{
			"last_message":           message,
			"last_message_timestamp": at,
		}).Error
}

func (r *userRepository) FindByLineID(lineUserID string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "line_user_id = ?", lineUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) SearchByName(name string) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("display_name ILIKE ?", "%"+name+"%").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) GetStats(now time.Time) (*UserStats, error) {
	var stats UserStats

	if err := r.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.User{}).
		Where("last_message_timestamp >= ?", now.Add(-24*time.Hour)).
		Count(&stats.ActiveLast24h).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.User{}).
		Where("last_message_timestamp >= ?", now.Add(-7*24*time.Hour)).
		Count(&stats.ActiveLast7d).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *userRepository) ListWithPayment() ([]PaymentListRow, error) {
	var rows []PaymentListRow
	err := r.db.Raw(`
		SELECT
			u.line_user_id,
			u.display_name,
			u.picture_url,
			u.last_message,
			u.last_message_timestamp,
			a.username,
			a.type AS account_type,
			pc.required_amount,
			t.status AS last_status,
			t.trans_timestamp AS last_trans_timestamp,
			t.amount AS last_amount
		FROM users u
		LEFT JOIN line_user_payment_configs pc
			ON u.line_user_id = pc.line_user_id
		LEFT JOIN managed_accounts a
			ON pc.account_id = a.id
		LEFT JOIN line_user_transactions t
			ON u.line_user_id = t.line_user_id
			AND t.trans_timestamp = (
				SELECT MAX(sub.trans_timestamp)
				FROM line_user_transactions sub
				WHERE sub.line_user_id = t.line_user_id
			)
	`).Scan(&rows).Error
	return rows, err
}
