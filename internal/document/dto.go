package document

import (
	"path/filepath"
	"strings"

	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
)

// UploadDTO carries the multipart form fields and file header of an upload.
type UploadDTO struct {
	Title       string
	Category    string
	FileName    string
	ContentType string
	Size        int64
}

func (d *UploadDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.ToLower(strings.TrimSpace(d.Category))
	d.FileName = filepath.Base(strings.TrimSpace(d.FileName))
}

func (d UploadDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MinLength(3).MaxLength(255)
	v.Field("category", d.Category).Required().OneOf(Categories...)
	v.Field("file", d.FileName).Required().MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type Filter struct {
	Category Category
	Search   string
}

type Listing struct {
	Documents []View `json:"documents"`
	Total     int    `json:"total"`
}
