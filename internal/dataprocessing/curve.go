package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bondmatch/pkg/contracts/domain"
)

// BuildCurve collects the yield/term points of the latest trade date and
// fits an ordinary least squares line of yield on term. Records without a
// yield are skipped. The line is only fitted with two or more distinct terms.
func BuildCurve(ds *Dataset) domain.MarketCurve {
	curve := domain.MarketCurve{Points: []domain.CurvePoint{}}
	if ds == nil || ds.Len() == 0 {
		return curve
	}

	curve.TradeDate = ds.LatestTradeDate()
	for _, r := range ds.RecordsOn(curve.TradeDate) {
		if r.Yield == nil {
			continue
		}
		curve.Points = append(curve.Points, domain.CurvePoint{
			Code:      r.Code,
			Name:      r.Name,
			Term:      r.RemainingTerm,
			Yield:     *r.Yield,
			Tier:      r.RegionTier,
			TaxStatus: r.TaxStatus,
		})
	}
	sort.SliceStable(curve.Points, func(i, j int) bool { return curve.Points[i].Term < curve.Points[j].Term })

	curve.Slope, curve.Intercept, curve.Fitted = fitLine(curve.Points)
	return curve
}

func fitLine(points []domain.CurvePoint) (slope, intercept float64, ok bool) {
	if len(points) < 2 {
		return 0, 0, false
	}
	terms := make([]float64, len(points))
	yields := make([]float64, len(points))
	for i, p := range points {
		terms[i], yields[i] = p.Term, p.Yield
	}
	if floats.Max(terms)-floats.Min(terms) < 1e-9 {
		return 0, 0, false
	}

	intercept, slope = stat.LinearRegression(terms, yields, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) {
		return 0, 0, false
	}
	return slope, intercept, true
}
