package domain

import (
	"time"
)

// RegionTier is the coarse credit-quality bucket of an issuing region
type RegionTier string

const (
	TierHigh RegionTier = "A"
	TierMid  RegionTier = "B"
	TierLow  RegionTier = "C"
)

// Valid reports whether t is one of the three known tiers
func (t RegionTier) Valid() bool {
	switch t {
	case TierHigh, TierMid, TierLow:
		return true
	}
	return false
}

// Label returns a human readable name for the tier
func (t RegionTier) Label() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMid:
		return "mid"
	case TierLow:
		return "low"
	}
	return "unknown"
}

// BondRecord is one row of the working dataset.
// Market fields are optional and never participate in matching.
type BondRecord struct {
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	RemainingTerm float64    `json:"remaining_term"`
	Coupon        float64    `json:"coupon"`
	Category      string     `json:"category"`
	Region        string     `json:"region"`
	RegionTier    RegionTier `json:"region_tier"`
	IssueDate     time.Time  `json:"issue_date"`
	IssueYear     int        `json:"issue_year"`
	TaxStatus     string     `json:"tax_status"`
	TradeDate     time.Time  `json:"trade_date"`

	Yield     *float64 `json:"yield,omitempty"`
	Valuation *float64 `json:"valuation,omitempty"`
	FaceValue *float64 `json:"face_value,omitempty"`
	Balance   *float64 `json:"balance,omitempty"`
	Volume    *float64 `json:"volume,omitempty"`
}

// TargetAttributes describes the hypothetical bond a search is looking for
type TargetAttributes struct {
	Term      float64 `json:"term" validate:"gte=0"`
	Coupon    float64 `json:"coupon" validate:"gte=0"`
	Category  string  `json:"category" validate:"required"`
	IssueYear int     `json:"issue_year" validate:"required,min=1900,max=2200"`
	TaxStatus string  `json:"tax_status" validate:"required"`
}

// ToleranceLevel is one step of the relaxation ladder
type ToleranceLevel struct {
	Index           int     `json:"index"`
	Name            string  `json:"name"`
	TermTolerance   float64 `json:"term_tolerance"`
	CouponTolerance float64 `json:"coupon_tolerance"`
	StrictCategory  bool    `json:"strict_category"`
}
