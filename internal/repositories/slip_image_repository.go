package repositories

import (
	"gorm.io/gorm"

	"linepay_backend/internal/models"
)

type SlipImageRepository interface {
	Save(image *models.SlipImage) error
	ListByUser(lineUserID string) ([]models.SlipImage, error)
}

type slipImageRepository struct {
	db *gorm.DB
}

func NewSlipImageRepository(db *gorm.DB) SlipImageRepository {
	return &slipImageRepository{db: db}
}

func (r *slipImageRepository) Save(image *models.SlipImage) error {
	return r.db.Create(image).Error
}

func (r *slipImageRepository) ListByUser(lineUserID string) ([]models.SlipImage, error) {
	var images []models.SlipImage
	err := r.db.Where("line_user_id = ?", lineUserID).
		Order("created_at DESC").
		Find(&images).Error
	return images, err
}
