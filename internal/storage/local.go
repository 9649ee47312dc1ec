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
)

// LocalStorage stores objects on the local filesystem below basePath.
type LocalStorage struct {
	basePath string
	maxSize  int64
}

func NewLocalStorage(basePath string, maxSize int64) (*LocalStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{
		basePath: abs,
		maxSize:  maxSize,
	}, nil
}

func (s *LocalStorage) Save(ctx context.Context, dir, ext string, r io.Reader) (Object, error) {
	key := path.Join(dir, uuid.NewString()+ext)
	full, err := s.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("create directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return Object{}, fmt.Errorf("create file: %w", err)
	}

	// One byte past the limit is enough to know the upload is too large.
	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()

	switch {
	case copyErr != nil:
		os.Remove(full)
		return Object{}, fmt.Errorf("write file: %w", copyErr)
	case closeErr != nil:
		os.Remove(full)
		return Object{}, fmt.Errorf("close file: %w", closeErr)
	case s.maxSize > 0 && n > s.maxSize:
		os.Remove(full)
		return Object{}, ErrFileTooLarge
	}
	return Object{Key: key, Size: n}, nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// resolve maps key to an absolute path, refusing keys that escape the root.
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	full := filepath.Join(s.basePath, filepath.FromSlash(path.Clean("/"+key)))
	if full == s.basePath || !strings.HasPrefix(full, s.basePath+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return full, nil
}
