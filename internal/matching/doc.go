// Package matching implements tiered similar-bond search.
//
// The package contains four components:
//
// RegionClassifier: maps a region label onto a credit tier (A high, B mid, C low)
// after stripping administrative markers such as 省 and 市.
//
// RegionResolver: turns a free-text region query into one of the labels present
// in the dataset, trying an exact match before a substring match.
//
// ToleranceTable and BondMatcher: a fixed three-level ladder of term and coupon
// bands, applied as a filter over the dataset.
//
// FallbackSearch: walks the ladder from strictest to loosest and stops at the
// first level that returns anything.
//
// Example usage:
//
//	resolver := matching.NewRegionResolver(matching.DefaultRegionClassifier())
//	res, ok := resolver.Resolve("安徽", dataset.Regions())
//	if !ok {
//		return ErrRegionNotResolved
//	}
//	search := matching.NewFallbackSearch(nil, nil)
//	outcome := search.Search(dataset.Records, target, &res.Tier)
package matching
