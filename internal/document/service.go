package document

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/storage"
)

type RepositoryAPI interface {
	Create(ctx context.Context, d *Document) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, f Filter) ([]Document, error)
	GetForEmployee(ctx context.Context, id, employeeID uuid.UUID) (*Document, error)
}

type ServiceAPI interface {
	List(ctx context.Context, employeeID uuid.UUID, f Filter) (*Listing, error)
	Upload(ctx context.Context, employeeID uuid.UUID, uploader *coreuser.Principal, dto UploadDTO, body io.Reader) (*View, error)
	Open(ctx context.Context, employeeID, id uuid.UUID) (*Document, io.ReadCloser, error)
}

type Service struct {
	repo    RepositoryAPI
	store   storage.Storage
	maxSize int64
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, store storage.Storage, cfg internal.StorageConfig, logger *slog.Logger) *Service {
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = internal.DefaultMaxFileSize
	}
	return &Service{
		repo:    repo,
		store:   store,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (s *Service) List(ctx context.Context, employeeID uuid.UUID, f Filter) (*Listing, error) {
	items, err := s.repo.ListByEmployee(ctx, employeeID, f)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to list documents", err)
	}
	return &Listing{Documents: ToViews(items), Total: len(items)}, nil
}

// Upload checks the declared name and size, streams the body to storage and
// records the document. The stored object is removed if the record cannot
// be written.
func (s *Service) Upload(ctx context.Context, employeeID uuid.UUID, uploader *coreuser.Principal, dto UploadDTO, body io.Reader) (*View, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	ext, err := storage.Extension(dto.FileName)
	if err != nil {
		return nil, err
	}
	if dto.Size > s.maxSize {
		return nil, storage.ErrFileTooLarge
	}

	obj, err := s.store.Save(ctx, Dir, ext, body)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, storage.ErrFileTooLarge
		}
		s.logger.Error("failed to store document", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to store document", err)
	}

	d := &Document{
		EmployeeID:  employeeID,
		UploadedBy:  uploader.UserID,
		Title:       dto.Title,
		Category:    Category(dto.Category),
		FileName:    dto.FileName,
		FilePath:    obj.Key,
		FileSize:    obj.Size,
		ContentType: dto.ContentType,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", "error", delErr, "key", obj.Key)
		}
		s.logger.Error("failed to record document", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to upload document", err)
	}

	s.logger.Info("document uploaded", "document_id", d.ID, "employee_id", employeeID, "size", d.FileSize)
	d.UploaderName = uploader.Name
	v := d.ToView()
	return &v, nil
}

// Open returns the owner's document and its content. The caller closes the
// reader.
func (s *Service) Open(ctx context.Context, employeeID, id uuid.UUID) (*Document, io.ReadCloser, error) {
	d, err := s.repo.GetForEmployee(ctx, id, employeeID)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, nil, err
		}
		return nil, nil, internal.NewInternalError("failed to load document", err)
	}

	rc, err := s.store.Open(ctx, d.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Warn("document file missing", "document_id", id, "key", d.FilePath)
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, internal.NewInternalError("failed to open document", err)
	}
	return d, rc, nil
}
