// Package api contains API contract definitions for the bond matching service.
// Version v1 represents the current stable API version.
package api

import (
	"strings"

	"bondmatch/pkg/contracts/domain"
)

// SearchRequest is the body of a similar-bond search
type SearchRequest struct {
	Term      float64 `json:"term" validate:"gte=0,lte=100"`
	Coupon    float64 `json:"coupon" validate:"gte=0,lte=100"`
	Category  string  `json:"category" validate:"required,nonblank,max=32"`
	IssueYear int     `json:"issue_year" validate:"required,min=1900,max=2200"`
	TaxStatus string  `json:"tax_status" validate:"required,nonblank,max=16"`
	Region    string  `json:"region" validate:"required,nonblank,max=64"`
}

// Target converts the request into matching attributes
func (r SearchRequest) Target() domain.TargetAttributes {
	return domain.TargetAttributes{
		Term:      r.Term,
		Coupon:    r.Coupon,
		Category:  strings.TrimSpace(r.Category),
		IssueYear: r.IssueYear,
		TaxStatus: strings.TrimSpace(r.TaxStatus),
	}
}

// ResolveRequest represents a region resolution query
type ResolveRequest struct {
	Query string `json:"q" query:"q" validate:"required,max=64"`
}
