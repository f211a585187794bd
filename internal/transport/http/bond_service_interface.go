package http

import (
	"context"
	"io"

	"bondmatch/pkg/contracts/domain"
)

// BondServiceInterface defines the bond operations the handler depends on
type BondServiceInterface interface {
	LoadDataset(ctx context.Context, path string) (domain.DatasetSummary, error)
	Summary(ctx context.Context) (domain.DatasetSummary, error)
	Regions(ctx context.Context) ([]domain.RegionInfo, error)
	ResolveRegion(ctx context.Context, query string) (domain.ResolvedRegion, error)
	Search(ctx context.Context, target domain.TargetAttributes, regionQuery string) (domain.SearchResult, error)
	Options(ctx context.Context) (domain.SearchOptions, error)
	Curve(ctx context.Context) (domain.MarketCurve, error)
	Levels() []domain.ToleranceLevel
}

// UploadStore persists uploaded dataset files
type UploadStore interface {
	SaveUpload(r io.Reader, originalName string, maxBytes int64) (string, error)
	DiscardUpload(path string) error
}
