package domain

import (
	"time"
)

// ResolvedRegion is the outcome of resolving a free-text region query
type ResolvedRegion struct {
	Query      string     `json:"query"`
	Region     string     `json:"region"`
	Tier       RegionTier `json:"tier"`
	Candidates []string   `json:"candidates,omitempty"`
}

// RegionInfo pairs a canonical region label with its tier
type RegionInfo struct {
	Region string     `json:"region"`
	Tier   RegionTier `json:"tier"`
}

// SearchResult is what a similar-bond search returns to callers
type SearchResult struct {
	Target     TargetAttributes `json:"target"`
	Region     ResolvedRegion   `json:"region"`
	Level      int              `json:"level"`
	LevelName  string           `json:"level_name"`
	Tolerance  *ToleranceLevel  `json:"tolerance,omitempty"`
	Exhausted  bool             `json:"exhausted"`
	Note       string           `json:"note"`
	MatchCount int              `json:"match_count"`
	Matches    []BondRecord     `json:"matches"`
	SearchedAt time.Time        `json:"searched_at"`
}

// CurvePoint is one bond on the market curve
type CurvePoint struct {
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Term      float64    `json:"term"`
	Yield     float64    `json:"yield"`
	Tier      RegionTier `json:"tier"`
	TaxStatus string     `json:"tax_status"`
}

// MarketCurve summarizes yield against remaining term for one trade date
type MarketCurve struct {
	TradeDate time.Time    `json:"trade_date"`
	Points    []CurvePoint `json:"points"`
	Slope     float64      `json:"slope"`
	Intercept float64      `json:"intercept"`
	Fitted    bool         `json:"fitted"`
}

// DatasetSummary describes the currently loaded dataset
type DatasetSummary struct {
	SourceFile      string      `json:"source_file"`
	LoadedAt        time.Time   `json:"loaded_at"`
	Records         int         `json:"records"`
	TradeDates      []time.Time `json:"trade_dates"`
	LatestTradeDate time.Time   `json:"latest_trade_date"`
	Regions         int         `json:"regions"`
	RowsRead        int         `json:"rows_read"`
	RowsOutOfWindow int         `json:"rows_out_of_window"`
	RowsIneligible  int         `json:"rows_ineligible"`
}

// SearchOptions lists the input choices the loaded dataset offers
type SearchOptions struct {
	Categories   []string     `json:"categories"`
	TaxStatuses  []string     `json:"tax_statuses"`
	Regions      []RegionInfo `json:"regions"`
	MinIssueYear int          `json:"min_issue_year"`
	MaxIssueYear int          `json:"max_issue_year"`
}
