package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/staffsync/staffsync-backend/internal"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/storage"
)

func TestDocument(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Document Module Suite")
}

type mockRepository struct {
	docs      []*Document
	failWrite bool
}

func (m *mockRepository) Create(_ context.Context, d *Document) error {
	if m.failWrite {
		return errors.New("insert failed")
	}
	d.ID = uuid.New()
	d.UploadedAt = time.Now()
	cp := *d
	m.docs = append(m.docs, &cp)
	return nil
}

func (m *mockRepository) ListByEmployee(_ context.Context, employeeID uuid.UUID, f Filter) ([]Document, error) {
	var out []Document
	for _, d := range m.docs {
		if d.EmployeeID != employeeID {
			continue
		}
		if f.Category != "" && d.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(d.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockRepository) GetForEmployee(_ context.Context, id, employeeID uuid.UUID) (*Document, error) {
	for _, d := range m.docs {
		if d.ID == id && d.EmployeeID == employeeID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrDocumentNotFound
}

func uploadRequest(fields map[string]string, fileName string, content []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if fileName != "" {
		fw, _ := mw.CreateFormFile("file", fileName)
		_, _ = fw.Write(content)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/employee/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func withPrincipal(req *http.Request, p *coreuser.Principal) *http.Request {
	return req.WithContext(coreuser.NewContext(req.Context(), p))
}

var _ = ginkgo.Describe("DocumentService", func() {
	var (
		service    *Service
		repo       *mockRepository
		store      *storage.LocalStorage
		dir        string
		ctx        context.Context
		employeeID uuid.UUID
		uploader   *coreuser.Principal
	)

	ginkgo.BeforeEach(func() {
		var err error
		dir = ginkgo.GinkgoT().TempDir()
		store, err = storage.NewLocalStorage(dir, 64)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		repo = &mockRepository{}
		service = NewService(repo, store, internal.StorageConfig{MaxFileSize: 64}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
		employeeID = uuid.New()
		uploader = &coreuser.Principal{UserID: uuid.New(), EmployeeID: &employeeID, Name: "Dana Reyes", Role: coreuser.RoleEmployee}
	})

	ginkgo.It("stores the file and records its metadata", func() {
		content := []byte("%PDF-1.4 contract")
		v, err := service.Upload(ctx, employeeID, uploader, UploadDTO{
			Title: " Employment contract ", Category: "Contract", FileName: "contract.PDF",
			ContentType: "application/pdf", Size: int64(len(content)),
		}, bytes.NewReader(content))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(v.Title).To(gomega.Equal("Employment contract"))
		gomega.Expect(v.Category).To(gomega.Equal(CategoryContract))
		gomega.Expect(v.FileURL).To(gomega.Equal(DownloadPath(v.ID)))
		gomega.Expect(v.UploadedBy).To(gomega.Equal("Dana Reyes"))

		stored := repo.docs[0]
		gomega.Expect(stored.UploadedBy).To(gomega.Equal(uploader.UserID))
		gomega.Expect(stored.FilePath).To(gomega.HavePrefix(Dir + "/"))
		gomega.Expect(stored.FilePath).To(gomega.HaveSuffix(".pdf"))
		gomega.Expect(stored.FileSize).To(gomega.Equal(int64(len(content))))

		doc, rc, err := service.Open(ctx, employeeID, v.ID)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		gomega.Expect(data).To(gomega.Equal(content))
		gomega.Expect(doc.FileName).To(gomega.Equal("contract.PDF"))
	})

	ginkgo.It("rejects extensions outside the allow-list", func() {
		_, err := service.Upload(ctx, employeeID, uploader, UploadDTO{
			Title: "Script", Category: "other", FileName: "run.sh", Size: 3,
		}, strings.NewReader("abc"))
		gomega.Expect(errors.Is(err, storage.ErrFileTypeNotAllowed)).To(gomega.BeTrue())
		gomega.Expect(repo.docs).To(gomega.BeEmpty())
	})

	ginkgo.It("rejects files over the size limit even when the declared size is small", func() {
		_, err := service.Upload(ctx, employeeID, uploader, UploadDTO{
			Title: "Big report", Category: "report", FileName: "big.xlsx", Size: 1,
		}, bytes.NewReader(make([]byte, 65)))
		gomega.Expect(errors.Is(err, storage.ErrFileTooLarge)).To(gomega.BeTrue())
		gomega.Expect(repo.docs).To(gomega.BeEmpty())
	})

	ginkgo.It("validates title length and category", func() {
		_, err := service.Upload(ctx, employeeID, uploader, UploadDTO{
			Title: "ab", Category: "payslip", FileName: "a.pdf", Size: 1,
		}, strings.NewReader("a"))
		appErr, ok := internal.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
	})

	ginkgo.It("does not leave the stored file behind when the record fails", func() {
		repo.failWrite = true
		_, err := service.Upload(ctx, employeeID, uploader, UploadDTO{
			Title: "Policy", Category: "policy", FileName: "p.docx", Size: 4,
		}, strings.NewReader("data"))
		appErr, ok := internal.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeInternal))

		entries, err := os.ReadDir(filepath.Join(dir, Dir))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(entries).To(gomega.BeEmpty())
	})

	ginkgo.It("hides other employees' documents", func() {
		v, err := service.Upload(ctx, employeeID, uploader, UploadDTO{
			Title: "Private", Category: "other", FileName: "x.png", Size: 1,
		}, strings.NewReader("x"))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, _, err = service.Open(ctx, uuid.New(), v.ID)
		gomega.Expect(errors.Is(err, ErrDocumentNotFound)).To(gomega.BeTrue())
	})

	ginkgo.It("reports a missing file as not found", func() {
		v, err := service.Upload(ctx, employeeID, uploader, UploadDTO{
			Title: "Gone", Category: "other", FileName: "x.jpg", Size: 1,
		}, strings.NewReader("x"))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(store.Delete(ctx, repo.docs[0].FilePath)).To(gomega.Succeed())

		_, _, err = service.Open(ctx, employeeID, v.ID)
		gomega.Expect(errors.Is(err, ErrDocumentNotFound)).To(gomega.BeTrue())
	})
})

var _ = ginkgo.Describe("DocumentHandler", func() {
	var (
		handler    *Handler
		repo       *mockRepository
		principal  *coreuser.Principal
		employeeID uuid.UUID
	)

	ginkgo.BeforeEach(func() {
		store, err := storage.NewLocalStorage(ginkgo.GinkgoT().TempDir(), 1024)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		repo = &mockRepository{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		cfg := internal.StorageConfig{MaxFileSize: 1024}
		handler = NewHandler(NewService(repo, store, cfg, logger), cfg, logger)
		employeeID = uuid.New()
		principal = &coreuser.Principal{UserID: uuid.New(), EmployeeID: &employeeID, Role: coreuser.RoleEmployee}
	})

	ginkgo.It("uploads, lists and downloads a document", func() {
		rec := httptest.NewRecorder()
		req := uploadRequest(map[string]string{"title": "Handbook", "category": "policy"}, "handbook.pdf", []byte("pdf-bytes"))
		handler.Upload(rec, withPrincipal(req, principal))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))

		var created View
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(gomega.Succeed())
		gomega.Expect(created.FileName).To(gomega.Equal("handbook.pdf"))

		rec = httptest.NewRecorder()
		handler.List(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/employee/documents?category=policy&search=hand", nil), principal))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var listing Listing
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &listing)).To(gomega.Succeed())
		gomega.Expect(listing.Total).To(gomega.Equal(1))

		router := chi.NewRouter()
		router.Get("/employee/documents/{id}/download", handler.Download)
		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/employee/documents/"+created.ID.String()+"/download", nil)
		router.ServeHTTP(rec, withPrincipal(req, principal))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.Equal("pdf-bytes"))
		gomega.Expect(rec.Header().Get("Content-Disposition")).To(gomega.ContainSubstring(`filename=handbook.pdf`))
	})

	ginkgo.It("requires a file part", func() {
		rec := httptest.NewRecorder()
		req := uploadRequest(map[string]string{"title": "Handbook", "category": "policy"}, "", nil)
		handler.Upload(rec, withPrincipal(req, principal))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})

	ginkgo.It("rejects an unknown category filter", func() {
		rec := httptest.NewRecorder()
		handler.List(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/employee/documents?category=payslip", nil), principal))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})

	ginkgo.It("answers 404 when the caller has no employee record", func() {
		rec := httptest.NewRecorder()
		hr := &coreuser.Principal{UserID: uuid.New(), Role: coreuser.RoleHRAdministrator}
		handler.List(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/employee/documents", nil), hr))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
	})
})
