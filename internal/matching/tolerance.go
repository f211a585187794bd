package matching

import (
	"fmt"

	"bondmatch/pkg/contracts/domain"
)

// LevelExhausted is reported when no tolerance level produced a match.
const LevelExhausted = 3

// IssueYearTolerance is the fixed issue-year band applied at every level.
const IssueYearTolerance = 1

var defaultLevels = []domain.ToleranceLevel{
	{Index: 0, Name: "最严格档", TermTolerance: 0.3, CouponTolerance: 0.3, StrictCategory: true},
	{Index: 1, Name: "放松一档", TermTolerance: 0.5, CouponTolerance: 0.5, StrictCategory: false},
	{Index: 2, Name: "放松二档", TermTolerance: 0.7, CouponTolerance: 0.7, StrictCategory: false},
}

// ToleranceTable is the ordered relaxation ladder, strictest first.
type ToleranceTable struct {
	levels []domain.ToleranceLevel
}

// DefaultToleranceTable returns the three-level table used by searches.
func DefaultToleranceTable() *ToleranceTable {
	t, err := NewToleranceTable(defaultLevels)
	if err != nil {
		panic(err)
	}
	return t
}

// NewToleranceTable validates that bands only widen and category strictness
// only loosens from one level to the next.
func NewToleranceTable(levels []domain.ToleranceLevel) (*ToleranceTable, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("tolerance table: no levels")
	}
	out := make([]domain.ToleranceLevel, len(levels))
	copy(out, levels)
	for i := range out {
		out[i].Index = i
		if out[i].TermTolerance < 0 || out[i].CouponTolerance < 0 {
			return nil, fmt.Errorf("tolerance table: level %d has a negative band", i)
		}
		if i == 0 {
			continue
		}
		prev := out[i-1]
		if out[i].TermTolerance < prev.TermTolerance || out[i].CouponTolerance < prev.CouponTolerance {
			return nil, fmt.Errorf("tolerance table: level %d narrows the band of level %d", i, i-1)
		}
		if out[i].StrictCategory && !prev.StrictCategory {
			return nil, fmt.Errorf("tolerance table: level %d re-tightens category matching", i)
		}
	}
	return &ToleranceTable{levels: out}, nil
}

// Get returns the level at index.
func (t *ToleranceTable) Get(level int) (domain.ToleranceLevel, bool) {
	if level < 0 || level >= len(t.levels) {
		return domain.ToleranceLevel{}, false
	}
	return t.levels[level], true
}

// Len is the number of levels.
func (t *ToleranceTable) Len() int { return len(t.levels) }

// Levels returns a copy of all levels in order.
func (t *ToleranceTable) Levels() []domain.ToleranceLevel {
	out := make([]domain.ToleranceLevel, len(t.levels))
	copy(out, t.levels)
	return out
}
