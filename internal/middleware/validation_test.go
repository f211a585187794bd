package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/shared/testutil"
)

type probe struct {
	Category string  `json:"category" validate:"nonblank"`
	Term     float64 `json:"term" validate:"gte=0"`
	Tax      string  `json:"tax" validate:"omitempty,oneof=是 否"`
}

func newValidation(t *testing.T) *ValidationMiddleware {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewValidationMiddleware(logger, apperrors.NewErrorHandler(logger, false))
}

func TestDecodeJSON(t *testing.T) {
	m := newValidation(t)

	tests := []struct {
		name       string
		body       string
		wantCode   string
		wantFields []string
	}{
		{"valid", `{"category":"一般","term":5,"tax":"否"}`, "", nil},
		{"blank category", `{"category":"  ","term":5}`, "VALIDATION_FAILED", []string{"category"}},
		{"negative term and bad tax", `{"category":"一般","term":-1,"tax":"maybe"}`, "VALIDATION_FAILED", []string{"term", "tax"}},
		{"unknown field", `{"category":"一般","sector":"x"}`, "INVALID_REQUEST", nil},
		{"malformed", `{"category":`, "INVALID_REQUEST", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p probe
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := m.DecodeJSON(req, &p)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, "一般", p.Category)
				return
			}

			var apiErr *apperrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			if tt.wantFields != nil {
				fields, ok := apiErr.Details.([]apperrors.ValidationError)
				require.True(t, ok)
				got := make([]string, 0, len(fields))
				for _, f := range fields {
					got = append(got, f.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, got)
			}
		})
	}
}

func TestValidateStructMessages(t *testing.T) {
	m := newValidation(t)
	err := m.ValidateStruct(probe{Category: "", Term: -2})

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	fields := apiErr.Details.([]apperrors.ValidationError)
	require.Len(t, fields, 2)
	assert.Equal(t, "category must not be blank", fields[0].Message)
	assert.Equal(t, "term must be greater than or equal to 0", fields[1].Message)
}

func TestValidateRequest(t *testing.T) {
	m := newValidation(t)
	var reached bool
	h := m.ValidateRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		length      int64
		wantStatus  int
		wantReached bool
	}{
		{"get passes", http.MethodGet, "", "", 0, http.StatusOK, true},
		{"valid json", http.MethodPost, "application/json", `{"category":"一般"}`, 0, http.StatusOK, true},
		{"invalid json", http.MethodPost, "application/json", `{"category"`, 0, http.StatusBadRequest, false},
		{"oversized", http.MethodPost, "application/json", `{}`, 2 << 20, http.StatusRequestEntityTooLarge, false},
		{"multipart untouched", http.MethodPost, "multipart/form-data; boundary=x", "not json", 0, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(tt.method, "/api/bonds/search", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if tt.length > 0 {
				req.ContentLength = tt.length
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantReached, reached)
		})
	}
}

func TestQueryParamValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(apperrors.NewErrorHandler(logger, false))

	t.Run("enum default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		got, ok := v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/", nil), "format", []string{"csv", "xlsx"}, "csv")
		assert.True(t, ok)
		assert.Equal(t, "csv", got)
	})

	t.Run("enum rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		_, ok := v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/?format=pdf", nil), "format", []string{"csv", "xlsx"}, "csv")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("require string trims", func(t *testing.T) {
		rec := httptest.NewRecorder()
		got, ok := v.RequireString(rec, httptest.NewRequest(http.MethodGet, "/?q=+%E6%B5%99%E6%B1%9F+", nil), "q")
		assert.True(t, ok)
		assert.Equal(t, "浙江", got)
	})

	t.Run("require string missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		_, ok := v.RequireString(rec, httptest.NewRequest(http.MethodGet, "/?q=%20", nil), "q")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, apperrors.TypeValidation, body["type"])
	})
}
