package dataprocessing

import (
	"sort"
	"time"

	"bondmatch/pkg/contracts/domain"
)

// Dataset is an immutable, search-ready set of bond records.
type Dataset struct {
	Records    []domain.BondRecord
	SourceFile string
	LoadedAt   time.Time

	tradeDates  []time.Time
	regions     []string
	categories  []string
	taxStatuses []string
	minYear     int
	maxYear     int
}

// NewDataset indexes records. The slice is owned by the dataset afterwards.
func NewDataset(records []domain.BondRecord, source string) *Dataset {
	ds := &Dataset{
		Records:    records,
		SourceFile: source,
		LoadedAt:   time.Now(),
	}

	dates := make(map[time.Time]struct{})
	regions := make(map[string]struct{})
	categories := make(map[string]struct{})
	taxes := make(map[string]struct{})
	for i, r := range records {
		if !r.TradeDate.IsZero() {
			dates[r.TradeDate] = struct{}{}
		}
		regions[r.Region] = struct{}{}
		categories[r.Category] = struct{}{}
		taxes[r.TaxStatus] = struct{}{}
		if i == 0 || r.IssueYear < ds.minYear {
			ds.minYear = r.IssueYear
		}
		if i == 0 || r.IssueYear > ds.maxYear {
			ds.maxYear = r.IssueYear
		}
	}

	for d := range dates {
		ds.tradeDates = append(ds.tradeDates, d)
	}
	sort.Slice(ds.tradeDates, func(i, j int) bool { return ds.tradeDates[i].After(ds.tradeDates[j]) })
	ds.regions = sortedSet(regions)
	ds.categories = sortedSet(categories)
	ds.taxStatuses = sortedSet(taxes)
	return ds
}

// Len is the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// Regions returns the distinct region labels in lexical order.
func (d *Dataset) Regions() []string { return append([]string(nil), d.regions...) }

// Categories returns the distinct instrument categories.
func (d *Dataset) Categories() []string { return append([]string(nil), d.categories...) }

// TaxStatuses returns the distinct tax-status values.
func (d *Dataset) TaxStatuses() []string { return append([]string(nil), d.taxStatuses...) }

// IssueYearRange returns the smallest and largest issue year.
func (d *Dataset) IssueYearRange() (int, int) { return d.minYear, d.maxYear }

// TradeDates returns the distinct trade dates, newest first.
func (d *Dataset) TradeDates() []time.Time { return append([]time.Time(nil), d.tradeDates...) }

// LatestTradeDate is the newest trade date, or the zero time for an empty dataset.
func (d *Dataset) LatestTradeDate() time.Time {
	if len(d.tradeDates) == 0 {
		return time.Time{}
	}
	return d.tradeDates[0]
}

// RecordsOn returns the records traded on day.
func (d *Dataset) RecordsOn(day time.Time) []domain.BondRecord {
	var out []domain.BondRecord
	for _, r := range d.Records {
		if r.TradeDate.Equal(day) {
			out = append(out, r)
		}
	}
	return out
}

// RegionInfos pairs each region label with the tier recorded on its rows.
func (d *Dataset) RegionInfos() []domain.RegionInfo {
	tiers := make(map[string]domain.RegionTier, len(d.regions))
	for _, r := range d.Records {
		if _, ok := tiers[r.Region]; !ok {
			tiers[r.Region] = r.RegionTier
		}
	}
	out := make([]domain.RegionInfo, 0, len(d.regions))
	for _, region := range d.regions {
		out = append(out, domain.RegionInfo{Region: region, Tier: tiers[region]})
	}
	return out
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
