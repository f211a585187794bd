package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"bondmatch/internal/dataprocessing"
	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/exporter"
	"bondmatch/internal/infrastructure"
	"bondmatch/internal/middleware"
	api "bondmatch/pkg/contracts/api/v1"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

// BondHandler handles bond search and dataset requests with RFC 7807 errors
type BondHandler struct {
	service        BondServiceInterface
	uploads        UploadStore
	validator      *middleware.ValidationMiddleware
	queryParams    *middleware.QueryParamValidator
	errorHandler   *apperrors.ErrorHandler
	maxUploadBytes int64
	now            func() time.Time
}

// NewBondHandler creates a new bond handler
func NewBondHandler(service BondServiceInterface, uploads UploadStore, maxUploadBytes int64, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *BondHandler {
	return &BondHandler{
		service:        service,
		uploads:        uploads,
		validator:      middleware.NewValidationMiddleware(logger, errorHandler),
		queryParams:    middleware.NewQueryParamValidator(errorHandler),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// Routes returns the bond routes
func (h *BondHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.validator.ValidateRequest)

	r.Get("/levels", h.GetLevels)
	r.Get("/options", h.GetOptions)
	r.Get("/curve", h.GetCurve)

	r.Route("/regions", func(r chi.Router) {
		r.Get("/", h.GetRegions)
		r.Get("/resolve", h.ResolveRegion)
	})

	r.Route("/dataset", func(r chi.Router) {
		r.Get("/", h.GetDataset)
		r.Post("/", h.UploadDataset)
	})

	r.Route("/search", func(r chi.Router) {
		r.Post("/", h.Search)
		r.Post("/export", h.ExportSearch)
	})

	return r
}

// log returns the request-scoped logger for handler events.
func (h *BondHandler) log(ctx context.Context) *slog.Logger {
	return infrastructure.WithComponent(infrastructure.LoggerFromContext(ctx), "bond_handler")
}

func (h *BondHandler) success(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// GetLevels handles GET /api/bonds/levels
func (h *BondHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	h.success(w, r, h.service.Levels())
}

// GetRegions handles GET /api/bonds/regions
func (h *BondHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.Regions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, ""))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   regions,
		"count":  len(regions),
	})
}

// ResolveRegion handles GET /api/bonds/regions/resolve?q=
func (h *BondHandler) ResolveRegion(w http.ResponseWriter, r *http.Request) {
	query, ok := h.queryParams.RequireString(w, r, "q")
	if !ok {
		return
	}
	if err := h.validator.ValidateStruct(api.ResolveRequest{Query: query}); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resolved, err := h.service.ResolveRegion(r.Context(), query)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, query))
		return
	}
	h.success(w, r, resolved)
}

// GetOptions handles GET /api/bonds/options
func (h *BondHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, ""))
		return
	}
	h.success(w, r, opts)
}

// GetCurve handles GET /api/bonds/curve
func (h *BondHandler) GetCurve(w http.ResponseWriter, r *http.Request) {
	curve, err := h.service.Curve(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, ""))
		return
	}
	h.success(w, r, curve)
}

// GetDataset handles GET /api/bonds/dataset
func (h *BondHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, ""))
		return
	}
	h.success(w, r, summary)
}

// UploadDataset handles POST /api/bonds/dataset. The multipart field
// "file" is stored under the uploads directory and loaded. The current
// dataset is only replaced when the load succeeds; a rejected file is removed.
func (h *BondHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, h.uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("file", "file is required"))
		return
	}
	defer file.Close()

	if !dataprocessing.IsSupported(header.Filename) {
		h.errorHandler.HandleError(w, r, apperrors.ErrUnsupportedFileType)
		return
	}

	path, err := h.uploads.SaveUpload(file, header.Filename, h.maxUploadBytes)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.uploadError(err))
		return
	}

	h.log(r.Context()).InfoContext(r.Context(), "Dataset uploaded",
		slog.String("filename", header.Filename),
		slog.String("stored_as", path),
		slog.Int64("size", header.Size))

	summary, err := h.service.LoadDataset(r.Context(), path)
	if err != nil {
		if discardErr := h.uploads.DiscardUpload(path); discardErr != nil {
			h.log(r.Context()).WarnContext(r.Context(), "Rejected upload not removed",
				slog.String("path", path),
				slog.String("error", discardErr.Error()))
		}
		h.errorHandler.HandleError(w, r, toAPIError(err, ""))
		return
	}

	render.Status(r, http.StatusCreated)
	h.success(w, r, summary)
}

func (h *BondHandler) uploadError(err error) error {
	if mapped := toAPIError(err, ""); mapped != err {
		return mapped
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
		return apperrors.InvalidRequestWithError(err)
	}
	return apperrors.FileSystemError("upload", err)
}

// Search handles POST /api/bonds/search
func (h *BondHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSearch(w, r)
	if !ok {
		return
	}

	result, err := h.service.Search(r.Context(), req.Target(), req.Region)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, req.Region))
		return
	}
	h.success(w, r, result)
}

// ExportSearch handles POST /api/bonds/search/export?format=csv|xlsx
func (h *BondHandler) ExportSearch(w http.ResponseWriter, r *http.Request) {
	name, ok := h.queryParams.ValidateEnum(w, r, "format",
		[]string{string(exporter.FormatCSV), string(exporter.FormatXLSX)}, string(exporter.FormatCSV))
	if !ok {
		return
	}
	format, err := exporter.ParseFormat(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("format", err.Error()))
		return
	}

	req, ok := h.decodeSearch(w, r)
	if !ok {
		return
	}
	result, err := h.service.Search(r.Context(), req.Target(), req.Region)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, req.Region))
		return
	}

	var buf bytes.Buffer
	if err := exporter.Write(&buf, format, result); err != nil {
		h.log(r.Context()).ErrorContext(r.Context(), "Export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apperrors.NewInternalError("failed to export search result"))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(h.now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Match-Level", strconv.Itoa(result.Level))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log(r.Context()).WarnContext(r.Context(), "Export write interrupted", slog.String("error", err.Error()))
	}
}

func (h *BondHandler) decodeSearch(w http.ResponseWriter, r *http.Request) (api.SearchRequest, bool) {
	var req api.SearchRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return req, false
	}
	return req, true
}
