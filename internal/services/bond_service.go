package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"bondmatch/internal/dataprocessing"
	"bondmatch/internal/infrastructure"
	"bondmatch/internal/matching"
	"bondmatch/internal/validation"
	"bondmatch/pkg/contracts/domain"
)

// BondServiceOptions configures a BondService. Zero values fall back to
// the curated region sets, the default trading window and no-op telemetry.
type BondServiceOptions struct {
	Classifier        *matching.RegionClassifier
	RecentTradingDays int
	MaxUploadBytes    int64
	Metrics           *infrastructure.SearchMetrics
	Tracer            trace.Tracer
	Logger            *slog.Logger
}

// BondService loads bond datasets and runs similar-bond searches over the
// current one.
type BondService struct {
	mu      sync.RWMutex
	dataset *dataprocessing.Dataset
	report  *dataprocessing.LoadReport

	loader   *dataprocessing.Loader
	resolver *matching.RegionResolver
	search   *matching.FallbackSearch
	files    *validation.FileValidator
	validate *validator.Validate
	metrics  *infrastructure.SearchMetrics
	tracer   trace.Tracer
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

// NewBondService creates a bond service with no dataset loaded
func NewBondService(opts BondServiceOptions) *BondService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = matching.DefaultRegionClassifier()
	}
	days := opts.RecentTradingDays
	if days == 0 {
		days = dataprocessing.DefaultRecentTradingDays
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = infrastructure.NoopSearchMetrics()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.ServiceName)
	}

	logger.Info("BondService initialized",
		slog.Int("recent_trading_days", days),
		slog.Int64("max_upload_bytes", opts.MaxUploadBytes))

	return &BondService{
		loader:   dataprocessing.NewLoader(classifier, days, logger),
		resolver: matching.NewRegionResolver(classifier),
		search:   matching.NewFallbackSearch(matching.DefaultToleranceTable(), matching.NewBondMatcher()),
		files:    validation.NewFileValidator(logger),
		validate: validator.New(),
		metrics:  metrics,
		tracer:   tracer,
		maxBytes: opts.MaxUploadBytes,
		logger:   infrastructure.WithComponent(logger, "bond_service"),
		now:      time.Now,
	}
}

// LoadDataset validates and loads path, then replaces the current dataset.
// On failure the previous dataset stays in place.
func (s *BondService) LoadDataset(ctx context.Context, path string) (domain.DatasetSummary, error) {
	ctx, span := s.tracer.Start(ctx, "BondService.LoadDataset",
		trace.WithAttributes(attribute.String("dataset.file", path)))
	defer span.End()

	ds, report, err := s.load(ctx, path)
	if err != nil {
		s.metrics.RecordDatasetLoad(ctx, 0, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "Dataset load failed",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return domain.DatasetSummary{}, err
	}

	s.metrics.RecordDatasetLoad(ctx, ds.Len(), nil)

	s.mu.Lock()
	s.dataset = ds
	s.report = report
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("dataset.records", ds.Len()))
	s.logger.InfoContext(ctx, "Dataset swapped in",
		slog.String("file", path),
		slog.Int("records", ds.Len()),
		slog.Int("regions", len(ds.Regions())))
	return summarize(ds, report), nil
}

func (s *BondService) load(ctx context.Context, path string) (*dataprocessing.Dataset, *dataprocessing.LoadReport, error) {
	if err := s.files.ValidateDatasetFile(path, s.maxBytes); err != nil {
		return nil, nil, fmt.Errorf("validate dataset: %w", err)
	}
	ds, report, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return ds, report, nil
}

// Loaded reports whether a dataset is available for searching
func (s *BondService) Loaded() bool {
	return s.current() != nil
}

func (s *BondService) current() *dataprocessing.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Summary describes the loaded dataset
func (s *BondService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	s.mu.RLock()
	ds, report := s.dataset, s.report
	s.mu.RUnlock()
	if ds == nil {
		return domain.DatasetSummary{}, ErrDatasetNotLoaded
	}
	return summarize(ds, report), nil
}

// Regions lists the distinct regions of the dataset with their tiers
func (s *BondService) Regions(ctx context.Context) ([]domain.RegionInfo, error) {
	ds := s.current()
	if ds == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds.RegionInfos(), nil
}

// ResolveRegion maps a free-text region onto a dataset region
func (s *BondService) ResolveRegion(ctx context.Context, query string) (domain.ResolvedRegion, error) {
	ds := s.current()
	if ds == nil {
		return domain.ResolvedRegion{}, ErrDatasetNotLoaded
	}
	return s.resolve(ctx, ds, query)
}

func (s *BondService) resolve(ctx context.Context, ds *dataprocessing.Dataset, query string) (domain.ResolvedRegion, error) {
	known := ds.Regions()
	res, ok := s.resolver.Resolve(query, known)
	if !ok {
		s.metrics.RecordUnresolved(ctx)
		s.logger.WarnContext(ctx, "Region not resolved", slog.String("query", query))
		return domain.ResolvedRegion{}, fmt.Errorf("%w: %q", ErrRegionNotResolved, query)
	}

	resolved := domain.ResolvedRegion{
		Query:      query,
		Region:     res.Label,
		Tier:       res.Tier,
		Candidates: s.resolver.Candidates(query, known),
	}
	if len(resolved.Candidates) > 1 {
		s.logger.WarnContext(ctx, "Ambiguous region query",
			slog.String("query", query),
			slog.String("resolved", res.Label),
			slog.Any("candidates", resolved.Candidates))
	}
	return resolved, nil
}

// Search runs the tolerance fallback for target within the tier of the
// resolved region. Matches are returned longest remaining term first.
func (s *BondService) Search(ctx context.Context, target domain.TargetAttributes, regionQuery string) (domain.SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "BondService.Search",
		trace.WithAttributes(attribute.String("search.region_query", regionQuery)))
	defer span.End()

	ds := s.current()
	if ds == nil {
		return domain.SearchResult{}, ErrDatasetNotLoaded
	}
	if err := s.validate.StructCtx(ctx, target); err != nil {
		return domain.SearchResult{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	region, err := s.resolve(ctx, ds, regionQuery)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.SearchResult{}, err
	}

	start := s.now()
	tier := region.Tier
	outcome := s.search.Search(ds.Records, target, &tier)
	elapsed := s.now().Sub(start)

	matches := make([]domain.BondRecord, len(outcome.Matches))
	copy(matches, outcome.Matches)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RemainingTerm > matches[j].RemainingTerm
	})

	result := domain.SearchResult{
		Target:     target,
		Region:     region,
		Level:      outcome.Level,
		Exhausted:  outcome.Exhausted(),
		MatchCount: len(matches),
		Matches:    matches,
		SearchedAt: s.now(),
	}
	if tol, ok := s.search.Table().Get(outcome.Level); ok {
		result.Tolerance = &tol
		result.LevelName = tol.Name
	} else {
		result.LevelName = exhaustedLevelName
	}
	result.Note = levelNote(outcome.Level, result.Tolerance)

	s.metrics.RecordSearch(ctx, outcome.Level, len(matches), elapsed)
	span.SetAttributes(
		attribute.String("search.region", region.Region),
		attribute.String("search.tier", string(region.Tier)),
		attribute.Int("search.level", outcome.Level),
		attribute.Int("search.matches", len(matches)))

	s.logger.InfoContext(ctx, "Search completed",
		slog.String("region", region.Region),
		slog.String("tier", string(region.Tier)),
		slog.Int("level", outcome.Level),
		slog.Int("matches", len(matches)),
		slog.Duration("duration", elapsed))
	return result, nil
}

// Options lists the input choices offered by the loaded dataset
func (s *BondService) Options(ctx context.Context) (domain.SearchOptions, error) {
	ds := s.current()
	if ds == nil {
		return domain.SearchOptions{}, ErrDatasetNotLoaded
	}
	minYear, maxYear := ds.IssueYearRange()
	return domain.SearchOptions{
		Categories:   ds.Categories(),
		TaxStatuses:  ds.TaxStatuses(),
		Regions:      ds.RegionInfos(),
		MinIssueYear: minYear,
		MaxIssueYear: maxYear,
	}, nil
}

// Curve returns the yield curve of the latest trade date
func (s *BondService) Curve(ctx context.Context) (domain.MarketCurve, error) {
	ds := s.current()
	if ds == nil {
		return domain.MarketCurve{}, ErrDatasetNotLoaded
	}
	return dataprocessing.BuildCurve(ds), nil
}

// Levels returns the tolerance table, strictest first
func (s *BondService) Levels() []domain.ToleranceLevel {
	return s.search.Table().Levels()
}

const exhaustedLevelName = "无匹配"

func levelNote(level int, tol *domain.ToleranceLevel) string {
	if tol == nil {
		return "三档容差均无匹配，请检查区域、是否交税与发行年份是否过严"
	}
	switch {
	case level == 0:
		return fmt.Sprintf("最严格匹配：剩余年限±%.1f，票面±%.1f，专项一般一致", tol.TermTolerance, tol.CouponTolerance)
	case level == 1:
		return fmt.Sprintf("已放松一档：剩余年限±%.1f，票面±%.1f，不再要求专项一般一致", tol.TermTolerance, tol.CouponTolerance)
	default:
		return fmt.Sprintf("已放松至最大档：剩余年限±%.1f，票面±%.1f，不再要求专项一般一致", tol.TermTolerance, tol.CouponTolerance)
	}
}

func summarize(ds *dataprocessing.Dataset, report *dataprocessing.LoadReport) domain.DatasetSummary {
	summary := domain.DatasetSummary{
		SourceFile:      ds.SourceFile,
		LoadedAt:        ds.LoadedAt,
		Records:         ds.Len(),
		TradeDates:      ds.TradeDates(),
		LatestTradeDate: ds.LatestTradeDate(),
		Regions:         len(ds.Regions()),
	}
	if report != nil {
		summary.RowsRead = report.RowsRead
		summary.RowsOutOfWindow = report.RowsOutOfWindow
		summary.RowsIneligible = report.RowsIneligible
	}
	return summary
}
