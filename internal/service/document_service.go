package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/storage"
	"go.uber.org/zap"
)

// Upload describes an incoming file
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
	ClientID    string
	ProjectID   string
}

// DocumentService keeps document metadata in the store and the bytes in file storage
type DocumentService struct {
	documentRepo  *repository.OwnedRepository[domain.Document, *domain.Document]
	storage       storage.Storage
	activity      *ActivityService
	maxUploadSize int64
	logger        *zap.Logger
}

func NewDocumentService(
	documentRepo *repository.OwnedRepository[domain.Document, *domain.Document],
	store storage.Storage,
	activity *ActivityService,
	maxUploadSize int64,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo:  documentRepo,
		storage:       store,
		activity:      activity,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentDTO, error) {
	docs, err := s.documentRepo.ListNewest(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return mapper.ToDocumentDTOs(docs), nil
}

func (s *DocumentService) GetByID(ctx context.Context, id string) (*domain.DocumentDTO, error) {
	doc, err := s.documentRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	dto := mapper.ToDocumentDTO(doc)
	return &dto, nil
}

// Upload stores the bytes first, then the metadata. A failed metadata write removes the bytes.
func (s *DocumentService) Upload(ctx context.Context, up *Upload) (*domain.DocumentDTO, error) {
	ownerID, ok := auth.OwnerID(ctx)
	if !ok {
		return nil, repository.ErrNoOwner
	}

	name := strings.TrimSpace(up.Filename)
	if name == "" {
		return nil, invalid("file", "This field is required")
	}
	if s.maxUploadSize > 0 && up.Size > s.maxUploadSize {
		return nil, ErrFileTooLarge
	}

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	storagePath, size, err := s.storage.Upload(ctx, ownerID, name, contentType, up.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	created, err := s.documentRepo.Create(ctx, &domain.Document{
		Name:        name,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		ClientID:    up.ClientID,
		ProjectID:   up.ProjectID,
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up stored file",
				zap.String("storage_path", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.activity.Log(ctx, domain.ActionDocumentUploaded, map[string]interface{}{
		"documentoId": created.ID,
		"nombre":      created.Name,
		"tamano":      created.Size,
	})

	dto := mapper.ToDocumentDTO(created)
	return &dto, nil
}

// Download opens the document's bytes; the caller closes the reader
func (s *DocumentService) Download(ctx context.Context, id string) (*domain.DocumentDTO, io.ReadCloser, error) {
	doc, err := s.documentRepo.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}

	reader, err := s.storage.Download(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	dto := mapper.ToDocumentDTO(doc)
	return &dto, reader, nil
}

func (s *DocumentService) Update(ctx context.Context, id string, req *domain.DocumentUpdateRequest) (*domain.DocumentDTO, error) {
	updated, err := s.documentRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldName:      strings.TrimSpace(req.Name),
		domain.FieldClientID:  req.ClientID,
		domain.FieldProjectID: req.ProjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	dto := mapper.ToDocumentDTO(updated)
	return &dto, nil
}

// Delete removes the metadata, then the bytes. Leftover bytes are only logged.
func (s *DocumentService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	deleted, err := s.documentRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.storage.Delete(ctx, deleted.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("document_id", deleted.ID),
			zap.String("storage_path", deleted.StoragePath),
			zap.Error(err),
		)
	}

	s.activity.Log(ctx, domain.ActionDocumentDeleted, map[string]interface{}{
		"documentoId": deleted.ID,
		"nombre":      deleted.Name,
	})
	return nil
}
