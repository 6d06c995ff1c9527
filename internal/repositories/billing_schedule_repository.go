package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"linepay_backend/internal/models"
)

var ErrScheduleNotFound = errors.New("billing schedule not found")

type BillingScheduleRepository interface {
	FindAll() ([]models.BillingSchedule, error)
	FindByID(id int) (*models.BillingSchedule, error)
	Create(schedule *models.BillingSchedule) error
	Update(schedule *models.BillingSchedule) error
	Delete(id int) error
	// FindDue returns active schedules whose billing or disable
	// boundary lies within [boundary, boundary+band) of now.
	FindDue(now time.Time, band time.Duration) ([]models.BillingSchedule, error)
}

type billingScheduleRepository struct {
	db *gorm.DB
}

func NewBillingScheduleRepository(db *gorm.DB) BillingScheduleRepository {
	return &billingScheduleRepository{db: db}
}

func (r *billingScheduleRepository) FindAll() ([]models.BillingSchedule, error) {
	var schedules []models.BillingSchedule
	err := r.db.Order("billing_date DESC").Find(&schedules).Error
	return schedules, err
}

func (r *billingScheduleRepository) FindByID(id int) (*models.BillingSchedule, error) {
	var schedule models.BillingSchedule
	err := r.db.First(&schedule, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *billingScheduleRepository) Create(schedule *models.BillingSchedule) error {
	return r.db.Create(schedule).Error
}

func (r *billingScheduleRepository) Update(schedule *models.BillingSchedule) error {
	return r.db.Save(schedule).Error
}

func (r *billingScheduleRepository) Delete(id int) error {
	result := r.db.Delete(&models.BillingSchedule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *billingScheduleRepository) FindDue(now time.Time, band time.Duration) ([]models.BillingSchedule, error) {
	var schedules []models.BillingSchedule
	windowStart := now.Add(-band)
	err := r.db.Where(
		"is_active = ? AND ((billing_date > ? AND billing_date <= ?) OR (disable_date > ? AND disable_date <= ?))",
		true, windowStart, now, windowStart, now,
	).Find(&schedules).Error
	return schedules, err
}
