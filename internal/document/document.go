package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	documentDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/document"
)

type Category string

const (
	CategoryContract Category = "contract"
	CategoryPolicy   Category = "policy"
	CategoryReport   Category = "report"
	CategoryOther    Category = "other"
)

var Categories = []string{string(CategoryContract), string(CategoryPolicy), string(CategoryReport), string(CategoryOther)}

// Dir is the storage directory documents are kept under.
const Dir = "documents"

var ErrDocumentNotFound = internal.NewNotFoundError("Document not found", internal.ErrCodeDocumentNotFound)

type Document struct {
	ID           uuid.UUID
	EmployeeID   uuid.UUID
	UploadedBy   uuid.UUID
	UploaderName string
	Title        string
	Category     Category
	FileName     string
	FilePath     string
	FileSize     int64
	ContentType  string
	UploadedAt   time.Time
}

type View struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Category   Category  `json:"category"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	FileURL    string    `json:"file_url"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DownloadPath is the API path that streams the document.
func DownloadPath(id uuid.UUID) string {
	return fmt.Sprintf("/api/v1/employee/documents/%s/download", id)
}

func (d *Document) ToView() View {
	uploader := d.UploaderName
	if uploader == "" {
		uploader = "Unknown"
	}
	return View{
		ID:         d.ID,
		Title:      d.Title,
		Category:   d.Category,
		FileName:   d.FileName,
		FileSize:   d.FileSize,
		FileURL:    DownloadPath(d.ID),
		UploadedBy: uploader,
		UploadedAt: d.UploadedAt,
	}
}

func ToViews(items []Document) []View {
	out := make([]View, len(items))
	for i := range items {
		out[i] = items[i].ToView()
	}
	return out
}

func ToDataModel(d *Document) *documentDatamodel.Document {
	return &documentDatamodel.Document{
		ID:          d.ID,
		EmployeeID:  d.EmployeeID,
		UploadedBy:  d.UploadedBy,
		Title:       d.Title,
		Category:    string(d.Category),
		FileName:    d.FileName,
		FilePath:    d.FilePath,
		FileSize:    d.FileSize,
		ContentType: d.ContentType,
		UploadedAt:  d.UploadedAt,
	}
}

func FromDataModel(m *documentDatamodel.Document) *Document {
	d := &Document{
		ID:          m.ID,
		EmployeeID:  m.EmployeeID,
		UploadedBy:  m.UploadedBy,
		Title:       m.Title,
		Category:    Category(m.Category),
		FileName:    m.FileName,
		FilePath:    m.FilePath,
		FileSize:    m.FileSize,
		ContentType: m.ContentType,
		UploadedAt:  m.UploadedAt,
	}
	if m.Uploader != nil {
		d.UploaderName = m.Uploader.Name
	}
	return d
}

func FromDataModelSlice(rows []documentDatamodel.Document) []Document {
	out := make([]Document, len(rows))
	for i := range rows {
		out[i] = *FromDataModel(&rows[i])
	}
	return out
}
