package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bondmatch/pkg/contracts/domain"
)

func bond(code string, term, coupon float64, category string, tier domain.RegionTier, year int, tax string) domain.BondRecord {
	return domain.BondRecord{
		Code:          code,
		RemainingTerm: term,
		Coupon:        coupon,
		Category:      category,
		RegionTier:    tier,
		IssueYear:     year,
		TaxStatus:     tax,
	}
}

func codes(records []domain.BondRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Code)
	}
	return out
}

func tierPtr(t domain.RegionTier) *domain.RegionTier { return &t }

func TestToleranceTable_Default(t *testing.T) {
	table := DefaultToleranceTable()
	require.Equal(t, 3, table.Len())

	l0, ok := table.Get(0)
	require.True(t, ok)
	assert.Equal(t, "最严格档", l0.Name)
	assert.Equal(t, 0.3, l0.TermTolerance)
	assert.True(t, l0.StrictCategory)

	l2, ok := table.Get(2)
	require.True(t, ok)
	assert.Equal(t, 0.7, l2.CouponTolerance)
	assert.False(t, l2.StrictCategory)

	_, ok = table.Get(3)
	assert.False(t, ok)
	_, ok = table.Get(-1)
	assert.False(t, ok)
}

func TestToleranceTable_BandsNest(t *testing.T) {
	levels := DefaultToleranceTable().Levels()
	for i := 1; i < len(levels); i++ {
		assert.GreaterOrEqual(t, levels[i].TermTolerance, levels[i-1].TermTolerance)
		assert.GreaterOrEqual(t, levels[i].CouponTolerance, levels[i-1].CouponTolerance)
		if levels[i].StrictCategory {
			assert.True(t, levels[i-1].StrictCategory, "level %d re-tightens category", i)
		}
	}
}

func TestNewToleranceTable_Rejects(t *testing.T) {
	_, err := NewToleranceTable(nil)
	assert.Error(t, err)

	_, err = NewToleranceTable([]domain.ToleranceLevel{
		{TermTolerance: 0.5, CouponTolerance: 0.5},
		{TermTolerance: 0.3, CouponTolerance: 0.5},
	})
	assert.ErrorContains(t, err, "narrows")

	_, err = NewToleranceTable([]domain.ToleranceLevel{
		{TermTolerance: 0.3, CouponTolerance: 0.3, StrictCategory: false},
		{TermTolerance: 0.5, CouponTolerance: 0.5, StrictCategory: true},
	})
	assert.ErrorContains(t, err, "re-tightens")
}

func TestBondMatcher_Filter(t *testing.T) {
	target := domain.TargetAttributes{Term: 5.0, Coupon: 3.0, Category: "专项", IssueYear: 2021, TaxStatus: "否"}
	strict, _ := DefaultToleranceTable().Get(0)
	loose, _ := DefaultToleranceTable().Get(1)

	records := []domain.BondRecord{
		bond("ok", 5.2, 3.1, "专项", domain.TierMid, 2021, "否"),
		bond("edge-term", 5.3, 3.0, "专项", domain.TierMid, 2021, "否"),
		bond("term-out", 5.31, 3.0, "专项", domain.TierMid, 2021, "否"),
		bond("coupon-out", 5.0, 3.4, "专项", domain.TierMid, 2021, "否"),
		bond("category", 5.0, 3.0, "一般", domain.TierMid, 2021, "否"),
		bond("tier", 5.0, 3.0, "专项", domain.TierHigh, 2021, "否"),
		bond("year-edge", 5.0, 3.0, "专项", domain.TierMid, 2022, "否"),
		bond("year-out", 5.0, 3.0, "专项", domain.TierMid, 2023, "否"),
		bond("tax", 5.0, 3.0, "专项", domain.TierMid, 2021, "是"),
	}
	m := NewBondMatcher()

	t.Run("strict level", func(t *testing.T) {
		got := m.Filter(records, target, tierPtr(domain.TierMid), strict)
		assert.Equal(t, []string{"ok", "edge-term", "year-edge"}, codes(got))
	})

	t.Run("category relaxed", func(t *testing.T) {
		got := m.Filter(records, target, tierPtr(domain.TierMid), loose)
		assert.Equal(t, []string{"ok", "edge-term", "term-out", "coupon-out", "category", "year-edge"}, codes(got))
	})

	t.Run("absent tier skips region predicate", func(t *testing.T) {
		got := m.Filter(records, target, nil, strict)
		assert.Contains(t, codes(got), "tier")
	})

	t.Run("empty dataset", func(t *testing.T) {
		got := m.Filter(nil, target, nil, strict)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestBondMatcher_LevelsAreMonotone(t *testing.T) {
	target := domain.TargetAttributes{Term: 7.0, Coupon: 2.8, Category: "一般", IssueYear: 2020, TaxStatus: "否"}
	var records []domain.BondRecord
	for i := 0; i < 40; i++ {
		cat := "一般"
		if i%3 == 0 {
			cat = "专项"
		}
		records = append(records, bond(
			string(rune('a'+i%26))+string(rune('0'+i/26)),
			6.0+float64(i)*0.05,
			2.0+float64(i%17)*0.1,
			cat, domain.TierMid, 2019+i%3, "否",
		))
	}

	table := DefaultToleranceTable()
	m := NewBondMatcher()
	var prev map[string]bool
	for level := 0; level < table.Len(); level++ {
		tol, _ := table.Get(level)
		got := m.Filter(records, target, tierPtr(domain.TierMid), tol)
		cur := make(map[string]bool, len(got))
		for _, r := range got {
			cur[r.Code] = true
		}
		for code := range prev {
			assert.True(t, cur[code], "level %d dropped %s", level, code)
		}
		prev = cur
	}
}
