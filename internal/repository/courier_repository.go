package repository

import (
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository is a GORM implementation of CourierRepository
type GormCourierRepository struct {
	db *gorm.DB
}

// NewCourierRepository creates a new CourierRepository
func NewCourierRepository(db *gorm.DB) CourierRepository {
	return &GormCourierRepository{db: db}
}

func (r *GormCourierRepository) Create(courier *models.Courier) error {
	return r.db.Omit(clause.Associations).Create(courier).Error
}

func (r *GormCourierRepository) FindByID(id uint64) (*models.Courier, error) {
	var courier models.Courier
	if err := r.db.Preload("Creator").First(&courier, id).Error; err != nil {
		return nil, err
	}
	return &courier, nil
}

func (r *GormCourierRepository) ExistsTrackingNumber(trackingNumber string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Courier{}).Where("tracking_number = ?", trackingNumber).Count(&count).Error
	return count > 0, err
}

// List searches sender, receiver and tracking number case-insensitively, newest first
func (r *GormCourierRepository) List(filter CourierFilter) ([]models.Courier, int64, error) {
	var couriers []models.Courier

	query := r.db.Model(&models.Courier{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(sender_name) LIKE ? OR LOWER(receiver_name) LIKE ? OR LOWER(tracking_number) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Creator").
		Scopes(database.NewestFirst("couriers"), database.Paginate(filter.Pagination)).
		Find(&couriers).Error
	if err != nil {
		return nil, 0, err
	}

	return couriers, total, nil
}

func (r *GormCourierRepository) Update(courier *models.Courier) error {
	return r.db.Omit(clause.Associations).Save(courier).Error
}

func (r *GormCourierRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Courier{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
