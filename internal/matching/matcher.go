package matching

import (
	"bondmatch/pkg/contracts/domain"
)

// boundEpsilon absorbs float error on inclusive bounds, e.g. 5.0+0.3 vs 5.3.
const boundEpsilon = 1e-9

// predicate reports whether a record passes one filter dimension.
type predicate func(rec *domain.BondRecord) bool

// BondMatcher applies a single tolerance level as an AND of predicates.
type BondMatcher struct{}

// NewBondMatcher returns a matcher. It holds no state.
func NewBondMatcher() *BondMatcher {
	return &BondMatcher{}
}

// Filter returns the records that satisfy every predicate at level, in
// dataset order. A nil tier disables the region predicate.
func (m *BondMatcher) Filter(records []domain.BondRecord, target domain.TargetAttributes, tier *domain.RegionTier, level domain.ToleranceLevel) []domain.BondRecord {
	preds := m.predicates(target, tier, level)

	out := make([]domain.BondRecord, 0)
	for i := range records {
		if matchesAll(&records[i], preds) {
			out = append(out, records[i])
		}
	}
	return out
}

func (m *BondMatcher) predicates(target domain.TargetAttributes, tier *domain.RegionTier, level domain.ToleranceLevel) []predicate {
	preds := []predicate{
		func(r *domain.BondRecord) bool {
			return within(r.RemainingTerm, target.Term, level.TermTolerance)
		},
		func(r *domain.BondRecord) bool {
			return within(r.Coupon, target.Coupon, level.CouponTolerance)
		},
	}
	if level.StrictCategory {
		preds = append(preds, func(r *domain.BondRecord) bool {
			return r.Category == target.Category
		})
	}
	if tier != nil {
		want := *tier
		preds = append(preds, func(r *domain.BondRecord) bool {
			return r.RegionTier == want
		})
	}
	preds = append(preds,
		func(r *domain.BondRecord) bool {
			return r.IssueYear >= target.IssueYear-IssueYearTolerance && r.IssueYear <= target.IssueYear+IssueYearTolerance
		},
		func(r *domain.BondRecord) bool {
			return r.TaxStatus == target.TaxStatus
		},
	)
	return preds
}

func matchesAll(r *domain.BondRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

func within(value, center, tolerance float64) bool {
	return value >= center-tolerance-boundEpsilon && value <= center+tolerance+boundEpsilon
}
