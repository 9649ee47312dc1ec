package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/staffsync/staffsync-backend/internal/transport/rest"
)

var _ = Describe("HealthHandler", func() {
	It("reports 503 when any component fails and skips nil checks", func() {
		h := rest.NewHealthHandler(map[string]rest.Check{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
			"unused":   nil,
		})

		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		var resp rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Status).To(Equal(rest.HealthUnhealthy))
		Expect(resp.Components).To(HaveLen(2))
		Expect(resp.Components["postgres"].Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components["redis"].Message).To(Equal("connection refused"))
	})
})
