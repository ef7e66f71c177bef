package repositories

import (
	"context"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// BlacklistRepository handles blacklist window data access
type BlacklistRepository struct {
	db *gorm.DB
}

// NewBlacklistRepository creates a new blacklist repository
func NewBlacklistRepository(db *gorm.DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *BlacklistRepository) WithTx(tx *gorm.DB) *BlacklistRepository {
	return &BlacklistRepository{db: tx}
}

// Create creates a new blacklist window
func (r *BlacklistRepository) Create(ctx context.Context, blacklist *models.Blacklist) error {
	return r.db.WithContext(ctx).Create(blacklist).Error
}

// CreateBatch creates a set of materialized windows in one statement
func (r *BlacklistRepository) CreateBatch(ctx context.Context, blacklists []*models.Blacklist) error {
	if len(blacklists) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&blacklists).Error
}

// GetByID gets a blacklist window by ID
func (r *BlacklistRepository) GetByID(ctx context.Context, id uint) (*models.Blacklist, error) {
	var blacklist models.Blacklist
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		First(&blacklist, id).Error
	if err != nil {
		return nil, err
	}
	return &blacklist, nil
}

// List lists blacklist windows intersecting the optional date range,
// ordered by start date
func (r *BlacklistRepository) List(ctx context.Context, from, to *time.Time) ([]*models.Blacklist, error) {
	var blacklists []*models.Blacklist
	query := r.db.WithContext(ctx).Preload("CreatedBy")
	if from != nil {
		query = query.Where("end_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("start_date <= ?", *to)
	}
	err := query.Order("start_date ASC, blacklist_id ASC").Find(&blacklists).Error
	return blacklists, err
}

// FirstOverlapping returns the earliest window intersecting the candidate
// range, or gorm.ErrRecordNotFound. Boundary touching counts as overlap.
func (r *BlacklistRepository) FirstOverlapping(ctx context.Context, start, end time.Time) (*models.Blacklist, error) {
	var blacklist models.Blacklist
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		First(&blacklist).Error
	if err != nil {
		return nil, err
	}
	return &blacklist, nil
}

// Update updates a blacklist window
func (r *BlacklistRepository) Update(ctx context.Context, blacklist *models.Blacklist) error {
	return r.db.WithContext(ctx).Save(blacklist).Error
}

// Delete soft deletes a blacklist window
func (r *BlacklistRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Blacklist{}, id).Error
}
