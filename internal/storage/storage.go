// Package storage keeps uploaded files outside the database. Objects are
// addressed by slash-separated keys relative to the store root.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/staffsync/staffsync-backend/internal"
)

// AllowedExtensions is the upload allow-list.
var AllowedExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".png", ".jpg", ".jpeg"}

var (
	ErrFileTooLarge       = internal.NewValidationError("File size exceeds the upload limit", internal.ErrCodeFileTooLarge)
	ErrFileTypeNotAllowed = internal.NewValidationError(
		fmt.Sprintf("File type not allowed. Allowed types: %s", strings.Join(AllowedExtensions, ", ")),
		internal.ErrCodeFileTypeNotAllowed,
	)
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrInvalidKey     = errors.New("storage: invalid key")
)

// Object describes a stored file.
type Object struct {
	Key  string
	Size int64
}

type Storage interface {
	// Save streams r under dir with a generated name ending in ext. Uploads
	// larger than the store's limit fail with ErrFileTooLarge and leave
	// nothing behind.
	Save(ctx context.Context, dir, ext string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Extension returns the lower-cased extension of name when it is allowed.
func Extension(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrFileTypeNotAllowed
}
