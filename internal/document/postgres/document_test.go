package postgres_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/staffsync/staffsync-backend/internal"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	"github.com/staffsync/staffsync-backend/internal/core/testdb"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/document"
	"github.com/staffsync/staffsync-backend/internal/document/postgres"
	"github.com/staffsync/staffsync-backend/internal/storage"
)

func TestDocumentRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Suite")
}

var _ = Describe("Documents", func() {
	var (
		router *chi.Mux
		owner  *employeeDatamodel.Employee
		other  *employeeDatamodel.Employee
	)

	BeforeEach(func() {
		db, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		root, err := os.MkdirTemp("", "staffsync-docs-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)

		cfg := internal.StorageConfig{BasePath: root, MaxFileSize: 64}
		store, err := storage.NewLocalStorage(cfg.BasePath, cfg.MaxFileSize)
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := document.NewService(postgres.NewRepository(db), store, cfg, logger)
		h := document.NewHandler(svc, cfg, logger)

		owner, err = testdb.CreateEmployee(db, testdb.UserOpts{Name: "Owner"})
		Expect(err).NotTo(HaveOccurred())
		other, err = testdb.CreateEmployee(db, testdb.UserOpts{Name: "Other"})
		Expect(err).NotTo(HaveOccurred())

		router = chi.NewRouter()
		router.Get("/employee/documents", h.List)
		router.Post("/employee/documents", h.Upload)
		router.Get("/employee/documents/{id}/download", h.Download)
	})

	as := func(req *http.Request, e *employeeDatamodel.Employee) *httptest.ResponseRecorder {
		id := e.ID
		p := &coreuser.Principal{UserID: e.UserID, EmployeeID: &id, Name: e.User.Name, Role: coreuser.RoleEmployee}
		req = req.WithContext(coreuser.NewContext(context.Background(), p))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	upload := func(e *employeeDatamodel.Employee, title, category, filename string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		Expect(mw.WriteField("title", title)).To(Succeed())
		Expect(mw.WriteField("category", category)).To(Succeed())
		fw, err := mw.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = fw.Write(content)
		Expect(err).NotTo(HaveOccurred())
		Expect(mw.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/employee/documents", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return as(req, e)
	}

	It("uploads, lists and downloads the owner's document", func() {
		rec := upload(owner, "Employment contract", "contract", "contract.pdf", []byte("%PDF-1.4 signed"))
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var v document.View
		Expect(json.Unmarshal(rec.Body.Bytes(), &v)).To(Succeed())
		Expect(v.FileName).To(Equal("contract.pdf"))
		Expect(v.FileSize).To(Equal(int64(15)))
		Expect(v.UploadedBy).To(Equal("Owner"))
		Expect(v.FileURL).To(Equal(document.DownloadPath(v.ID)))

		rec = as(httptest.NewRequest(http.MethodGet, "/employee/documents?category=contract&search=CONTRACT", nil), owner)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var listing document.Listing
		Expect(json.Unmarshal(rec.Body.Bytes(), &listing)).To(Succeed())
		Expect(listing.Total).To(Equal(1))

		rec = as(httptest.NewRequest(http.MethodGet, "/employee/documents?category=policy", nil), owner)
		Expect(json.Unmarshal(rec.Body.Bytes(), &listing)).To(Succeed())
		Expect(listing.Total).To(BeZero())

		rec = as(httptest.NewRequest(http.MethodGet, "/employee/documents/"+v.ID.String()+"/download", nil), owner)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("%PDF-1.4 signed"))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("contract.pdf"))

		rec = as(httptest.NewRequest(http.MethodGet, "/employee/documents/"+v.ID.String()+"/download", nil), other)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects disallowed file types", func() {
		rec := upload(owner, "Script", "other", "run.sh", []byte("echo hi"))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("FILE_TYPE_NOT_ALLOWED"))
	})

	It("rejects files over the size limit", func() {
		rec := upload(owner, "Big scan", "report", "scan.png", bytes.Repeat([]byte{1}, 65))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("FILE_TOO_LARGE"))
	})

	It("validates title and category", func() {
		rec := upload(owner, "ab", "memo", "a.pdf", []byte("x"))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("title"))
		Expect(rec.Body.String()).To(ContainSubstring("category"))
	})

	It("returns 404 for unknown documents", func() {
		rec := as(httptest.NewRequest(http.MethodGet, "/employee/documents/"+uuid.NewString()+"/download", nil), owner)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
