package repositories

import (
	"context"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// FileRepository handles attachment metadata data access
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *FileRepository) WithTx(tx *gorm.DB) *FileRepository {
	return &FileRepository{db: tx}
}

// Create creates a new file metadata row
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// ListByEntity lists attachments owned by an entity
func (r *FileRepository) ListByEntity(ctx context.Context, relatedEntity string, relatedEntityID uint) ([]models.File, error) {
	var files []models.File
	err := r.db.WithContext(ctx).
		Where("related_entity = ? AND related_entity_id = ?", relatedEntity, relatedEntityID).
		Order("id ASC").
		Find(&files).Error
	return files, err
}

// DeleteByEntity removes every attachment owned by an entity (owner
// deletion cascade)
func (r *FileRepository) DeleteByEntity(ctx context.Context, relatedEntity string, relatedEntityID uint) error {
	return r.db.WithContext(ctx).
		Where("related_entity = ? AND related_entity_id = ?", relatedEntity, relatedEntityID).
		Delete(&models.File{}).Error
}
