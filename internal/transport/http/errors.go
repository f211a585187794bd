package http

import (
	"errors"
	"net/http"

	"bondmatch/internal/dataprocessing"
	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/files"
	"bondmatch/internal/services"
	"bondmatch/internal/validation"
)

// toAPIError maps service and loader errors onto API errors. Errors it
// does not recognise are returned unchanged so the error handler can
// classify AppErrors and context failures itself.
func toAPIError(err error, regionQuery string) error {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return apperrors.ErrDatasetNotLoaded
	case errors.Is(err, services.ErrRegionNotResolved):
		return apperrors.RegionNotResolved(regionQuery)
	case errors.Is(err, services.ErrInvalidTarget):
		return apperrors.NewValidationError(err.Error())
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apperrors.ErrUnsupportedFileType
	case errors.Is(err, files.ErrFileTooLarge),
		errors.Is(err, validation.ErrFileTooLarge),
		errors.As(err, &maxBytesErr):
		return apperrors.ErrPayloadTooLarge
	case errors.Is(err, services.ErrEmptyDataset),
		errors.Is(err, dataprocessing.ErrMissingColumns),
		errors.Is(err, validation.ErrEmptyFile),
		errors.Is(err, validation.ErrNoSheets),
		errors.Is(err, validation.ErrLockFile):
		return apperrors.DatasetInvalid(err)
	}
	return err
}
