package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bondmatch/internal/services"
	"bondmatch/internal/shared/testutil"
)

type mockDatasetStatus struct {
	mock.Mock
}

func (m *mockDatasetStatus) Loaded() bool {
	return m.Called().Bool(0)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name         string
		loaded       bool
		call         func(*HealthHandler) http.HandlerFunc
		wantStatus   int
		wantContains string
	}{
		{"health", false, func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck }, http.StatusOK, `"status":"ok"`},
		{"ready", true, func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck }, http.StatusOK, `"status":"ready"`},
		{"not ready", false, func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck }, http.StatusServiceUnavailable, `"not_ready"`},
		{"live", false, func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck }, http.StatusOK, `"status":"alive"`},
		{"version", false, func(h *HealthHandler) http.HandlerFunc { return h.Version }, http.StatusOK, `"api_version":"v1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			datasets := new(mockDatasetStatus)
			datasets.On("Loaded").Return(tt.loaded).Maybe()
			logger, _ := testutil.NewTestLogger(t)
			h := NewHealthHandler(services.NewHealthService(datasets, logger))

			rec := httptest.NewRecorder()
			tt.call(h)(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantContains)
		})
	}
}
