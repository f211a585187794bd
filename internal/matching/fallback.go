package matching

import (
	"bondmatch/pkg/contracts/domain"
)

// SearchOutcome is the result of walking the tolerance table.
type SearchOutcome struct {
	Matches []domain.BondRecord
	// Level is the index that produced Matches, or LevelExhausted.
	Level int
}

// Exhausted reports whether every level came back empty.
func (o SearchOutcome) Exhausted() bool {
	return o.Level == LevelExhausted
}

// FallbackSearch escalates through the tolerance table until a level matches.
type FallbackSearch struct {
	table   *ToleranceTable
	matcher *BondMatcher
}

// NewFallbackSearch wires a search over table. A nil table uses the default.
func NewFallbackSearch(table *ToleranceTable, matcher *BondMatcher) *FallbackSearch {
	if table == nil {
		table = DefaultToleranceTable()
	}
	if matcher == nil {
		matcher = NewBondMatcher()
	}
	return &FallbackSearch{table: table, matcher: matcher}
}

// Table returns the tolerance table the search walks.
func (f *FallbackSearch) Table() *ToleranceTable {
	return f.table
}

// Search returns the matches of the strictest non-empty level. Region tier,
// tax status and issue year are applied identically at every level.
func (f *FallbackSearch) Search(records []domain.BondRecord, target domain.TargetAttributes, tier *domain.RegionTier) SearchOutcome {
	for level := 0; level < f.table.Len(); level++ {
		tol, _ := f.table.Get(level)
		matches := f.matcher.Filter(records, target, tier, tol)
		if len(matches) > 0 {
			return SearchOutcome{Matches: matches, Level: level}
		}
	}
	return SearchOutcome{Matches: []domain.BondRecord{}, Level: LevelExhausted}
}
