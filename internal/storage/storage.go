package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/julesapp/crm-api/internal/config"
	"go.uber.org/zap"
)

var (
	// ErrFileNotFound is returned when the stored bytes of a document are missing
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidPath is returned for storage paths that escape the owner's area
	ErrInvalidPath = errors.New("invalid storage path")
)

// Storage keeps the bytes of uploaded documents. Paths are prefixed with the owner id.
type Storage interface {
	Upload(ctx context.Context, ownerID, filename, contentType string, data io.Reader) (string, int64, error)
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storagePath string) error
}

// NewStorage creates a new storage instance based on configuration.
// "local" keeps files on disk; "azure" (or "cloud") uses Azure Blob Storage.
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// ObjectName builds owner/<uuid><ext> for a new upload
func ObjectName(ownerID, filename string) (string, error) {
	if ownerID == "" || strings.ContainsAny(ownerID, `/\`) || ownerID == "." || ownerID == ".." {
		return "", ErrInvalidPath
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(ownerID, uuid.NewString()+ext), nil
}

// cleanObjectName rejects absolute paths and parent references
func cleanObjectName(storagePath string) (string, error) {
	if storagePath == "" || strings.HasPrefix(storagePath, "/") || strings.Contains(storagePath, `\`) {
		return "", ErrInvalidPath
	}
	clean := path.Clean(storagePath)
	if clean != storagePath || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return clean, nil
}

// LocalStorage implements Storage on the local filesystem
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) fullPath(storagePath string) (string, error) {
	clean, err := cleanObjectName(storagePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

func (s *LocalStorage) Upload(ctx context.Context, ownerID, filename, contentType string, data io.Reader) (string, int64, error) {
	storagePath, err := ObjectName(ownerID, filename)
	if err != nil {
		return "", 0, err
	}
	fullPath, err := s.fullPath(storagePath)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return storagePath, size, nil
}

func (s *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	fullPath, err := s.fullPath(storagePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, storagePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete treats a missing file as already deleted
func (s *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	fullPath, err := s.fullPath(storagePath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
