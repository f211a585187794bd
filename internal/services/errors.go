package services

import (
	"errors"

	"bondmatch/internal/dataprocessing"
)

// Bond service errors
var (
	// Dataset errors
	ErrDatasetNotLoaded  = errors.New("no bond dataset loaded")
	ErrUnsupportedFormat = dataprocessing.ErrUnsupportedFormat
	ErrEmptyDataset      = dataprocessing.ErrEmptyDataset

	// Search errors
	ErrRegionNotResolved = errors.New("region not resolved")
	ErrInvalidTarget     = errors.New("invalid search target")
)
