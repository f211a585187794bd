package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/infrastructure"
	"bondmatch/internal/matching"
	"bondmatch/pkg/contracts/domain"
)

// DefaultRecentTradingDays is how many distinct trade dates are kept.
const DefaultRecentTradingDays = 5

var (
	// ErrMissingColumns is wrapped when the header lacks a matching column.
	ErrMissingColumns = errors.New("dataset is missing required columns")
	// ErrEmptyDataset is returned when no eligible row survives loading.
	ErrEmptyDataset = errors.New("dataset has no eligible records")
)

// LoadReport counts what happened to the rows of a dataset file.
type LoadReport struct {
	File            string        `json:"file"`
	RowsRead        int           `json:"rows_read"`
	RowsOutOfWindow int           `json:"rows_out_of_window"`
	RowsIneligible  int           `json:"rows_ineligible"`
	RowsKept        int           `json:"rows_kept"`
	TradeDates      []time.Time   `json:"trade_dates"`
	UnmappedColumns []string      `json:"unmapped_columns,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// Loader turns CSV and Excel files into datasets.
type Loader struct {
	classifier *matching.RegionClassifier
	recentDays int
	logger     *slog.Logger
}

// NewLoader creates a loader. recentDays <= 0 keeps every trade date.
func NewLoader(classifier *matching.RegionClassifier, recentDays int, logger *slog.Logger) *Loader {
	if classifier == nil {
		classifier = matching.DefaultRegionClassifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		classifier: classifier,
		recentDays: recentDays,
		logger:     infrastructure.WithComponent(logger, "dataset_loader"),
	}
}

// LoadFile reads path and returns the windowed, cleaned dataset.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Dataset, *LoadReport, error) {
	start := time.Now()
	rows, err := readRows(path)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return nil, nil, err
		}
		return nil, nil, apperrors.NewParsingError("failed to read dataset", err).WithContext("file", path)
	}

	ds, report, err := l.build(ctx, rows, path)
	if err != nil {
		return nil, report, err
	}
	report.Duration = time.Since(start)

	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("file", path),
		slog.Int("rows_read", report.RowsRead),
		slog.Int("rows_out_of_window", report.RowsOutOfWindow),
		slog.Int("rows_ineligible", report.RowsIneligible),
		slog.Int("rows_kept", report.RowsKept),
		slog.Int("trade_dates", len(report.TradeDates)),
		slog.Duration("duration", report.Duration))
	return ds, report, nil
}

// build maps, windows, coerces and filters the raw grid.
func (l *Loader) build(ctx context.Context, rows [][]string, source string) (*Dataset, *LoadReport, error) {
	report := &LoadReport{File: source}
	if len(rows) == 0 {
		return nil, report, apperrors.NewParsingError("dataset file is empty", ErrEmptyDataset).WithContext("file", source)
	}

	cols := mapHeader(rows[0])
	report.UnmappedColumns = unmapped(rows[0])
	if missing := cols.missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return nil, report, apperrors.NewParsingError(
			"dataset header is incomplete",
			fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(names, ", ")),
		).WithContext("file", source)
	}

	data := rows[1:]
	tradeDates := make([]time.Time, len(data))
	for i, row := range data {
		if isBlank(row) {
			continue
		}
		report.RowsRead++
		tradeDates[i], _ = parseDate(cols.cell(row, FieldTradeDate))
	}

	window := recentWindow(tradeDates, l.recentDays)
	report.TradeDates = window.dates

	records := make([]domain.BondRecord, 0, len(data))
	for i, row := range data {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, report, err
			}
		}
		if isBlank(row) {
			continue
		}
		if !window.contains(tradeDates[i]) {
			report.RowsOutOfWindow++
			continue
		}
		rec, ok := l.record(cols, row, tradeDates[i])
		if !ok {
			report.RowsIneligible++
			continue
		}
		records = append(records, rec)
	}
	report.RowsKept = len(records)

	if len(records) == 0 {
		return nil, report, ErrEmptyDataset
	}
	return NewDataset(records, source), report, nil
}

// record coerces one row. ok is false when a matching field is missing.
func (l *Loader) record(cols columnMap, row []string, tradeDate time.Time) (domain.BondRecord, bool) {
	rec := domain.BondRecord{
		Code:      cols.cell(row, FieldCode),
		Name:      cols.cell(row, FieldName),
		Category:  cols.cell(row, FieldCategory),
		Region:    cols.cell(row, FieldRegion),
		TaxStatus: cols.cell(row, FieldTaxStatus),
		TradeDate: tradeDate,
		Yield:     parseOptionalFloat(cols.cell(row, FieldYield)),
		Valuation: parseOptionalFloat(cols.cell(row, FieldValuation)),
		FaceValue: parseOptionalFloat(cols.cell(row, FieldFaceValue)),
		Balance:   parseOptionalFloat(cols.cell(row, FieldBalance)),
		Volume:    parseOptionalFloat(cols.cell(row, FieldVolume)),
	}

	var ok bool
	if rec.RemainingTerm, ok = parseFloat(cols.cell(row, FieldRemainingTerm)); !ok {
		return rec, false
	}
	if rec.Coupon, ok = parseFloat(cols.cell(row, FieldCoupon)); !ok {
		return rec, false
	}
	if rec.Category == "" || rec.Region == "" || rec.TaxStatus == "" {
		return rec, false
	}

	if issue, ok := parseDate(cols.cell(row, FieldIssueDate)); ok {
		rec.IssueDate = issue
		rec.IssueYear = issue.Year()
	} else if year, ok := parseYear(cols.cell(row, FieldIssueYear)); ok {
		rec.IssueYear = year
	} else {
		return rec, false
	}

	rec.RegionTier = l.classifier.Classify(rec.Region)
	return rec, true
}

// tradeWindow is the set of trade dates retained by the loader.
type tradeWindow struct {
	dates []time.Time
	set   map[time.Time]struct{}
}

func (w tradeWindow) contains(d time.Time) bool {
	if d.IsZero() {
		return false
	}
	_, ok := w.set[d]
	return ok
}

// recentWindow keeps the n most recent distinct dates. n <= 0 keeps all.
func recentWindow(dates []time.Time, n int) tradeWindow {
	seen := make(map[time.Time]struct{})
	var distinct []time.Time
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			distinct = append(distinct, d)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i].After(distinct[j]) })
	if n > 0 && len(distinct) > n {
		distinct = distinct[:n]
	}

	w := tradeWindow{dates: distinct, set: make(map[time.Time]struct{}, len(distinct))}
	for _, d := range distinct {
		w.set[d] = struct{}{}
	}
	return w
}

func unmapped(header []string) []string {
	var out []string
	for _, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, ok := headerAliases[key]; !ok {
			out = append(out, strings.TrimSpace(h))
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
