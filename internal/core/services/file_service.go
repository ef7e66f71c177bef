package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxUploadBytes caps a single attachment
const MaxUploadBytes = 5 * 1024 * 1024

// FileUpload carries one uploaded attachment into the service layer
type FileUpload struct {
	FileName string
	Content  []byte
}

// FileService persists attachment blobs and their metadata. Blobs live in
// the storage backend under a generated key, so client file names never
// touch the filesystem.
type FileService struct {
	fileRepo *repositories.FileRepository
	store    storage.Store
	log      *logrus.Entry
}

// NewFileService creates a new file service
func NewFileService(fileRepo *repositories.FileRepository, store storage.Store) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		store:    store,
		log:      logrus.WithField("service", "file"),
	}
}

// Attach stores the uploads and records their metadata against the owning
// entity. Returns the created metadata rows.
func (s *FileService) Attach(ctx context.Context, relatedEntity string, relatedEntityID uint, uploads []FileUpload) ([]models.File, error) {
	files := make([]models.File, 0, len(uploads))
	for _, upload := range uploads {
		if upload.FileName == "" {
			return nil, fmt.Errorf("%w: attachment file name is required", domain.ErrValidation)
		}
		if len(upload.Content) == 0 {
			return nil, fmt.Errorf("%w: attachment %q is empty", domain.ErrValidation, upload.FileName)
		}
		if len(upload.Content) > MaxUploadBytes {
			return nil, fmt.Errorf("%w: attachment %q exceeds %d bytes", domain.ErrValidation, upload.FileName, MaxUploadBytes)
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.FileName), "."))
		key := uuid.NewString()
		if ext != "" {
			key = key + "." + ext
		}

		if err := s.store.Put(ctx, key, upload.Content); err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}

		file := models.File{
			FileName:        filepath.Base(upload.FileName),
			Extension:       ext,
			S3Key:           key,
			RelatedEntity:   relatedEntity,
			RelatedEntityID: relatedEntityID,
		}
		if err := s.fileRepo.Create(ctx, &file); err != nil {
			// metadata failed, drop the orphaned blob
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				s.log.WithError(delErr).WithField("key", key).Warn("failed to clean up orphaned blob")
			}
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// ListFor returns the attachments owned by an entity
func (s *FileService) ListFor(ctx context.Context, relatedEntity string, relatedEntityID uint) ([]models.File, error) {
	return s.fileRepo.ListByEntity(ctx, relatedEntity, relatedEntityID)
}

// Fetch returns one attachment's metadata and content, checking ownership
// against the expected entity.
func (s *FileService) Fetch(ctx context.Context, relatedEntity string, relatedEntityID uint, fileID uint) (*models.File, []byte, error) {
	files, err := s.fileRepo.ListByEntity(ctx, relatedEntity, relatedEntityID)
	if err != nil {
		return nil, nil, err
	}
	for i := range files {
		if files[i].ID == fileID {
			content, err := s.store.Get(ctx, files[i].S3Key)
			if err != nil {
				return nil, nil, err
			}
			return &files[i], content, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

// DeleteFor removes every attachment owned by an entity, blobs included.
// Blob deletion failures are logged, not surfaced: metadata removal is the
// source of truth.
func (s *FileService) DeleteFor(ctx context.Context, relatedEntity string, relatedEntityID uint) error {
	files, err := s.fileRepo.ListByEntity(ctx, relatedEntity, relatedEntityID)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := s.store.Delete(ctx, file.S3Key); err != nil {
			s.log.WithError(err).WithField("key", file.S3Key).Warn("failed to delete blob")
		}
	}
	return s.fileRepo.DeleteByEntity(ctx, relatedEntity, relatedEntityID)
}
