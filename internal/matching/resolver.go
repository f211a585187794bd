package matching

import (
	"sort"
	"strings"

	"bondmatch/pkg/contracts/domain"
)

// ResolveStrategy picks one label from the normalized candidates, or reports no match.
type ResolveStrategy interface {
	Name() string
	Match(query string, known []RegionKey) (string, bool)
}

// RegionKey is a canonical label with its normalized form precomputed.
type RegionKey struct {
	Label      string
	Normalized string
}

// ExactStrategy matches when the normalized label equals the normalized query.
type ExactStrategy struct{}

func (ExactStrategy) Name() string { return "exact" }

func (ExactStrategy) Match(query string, known []RegionKey) (string, bool) {
	for _, k := range known {
		if k.Normalized == query {
			return k.Label, true
		}
	}
	return "", false
}

// SubstringStrategy matches when the normalized label contains the normalized query.
type SubstringStrategy struct{}

func (SubstringStrategy) Name() string { return "substring" }

func (SubstringStrategy) Match(query string, known []RegionKey) (string, bool) {
	for _, k := range known {
		if strings.Contains(k.Normalized, query) {
			return k.Label, true
		}
	}
	return "", false
}

// Resolution is a successful region lookup.
type Resolution struct {
	Label    string
	Tier     domain.RegionTier
	Strategy string
}

// RegionResolver maps a free-text query onto one of the dataset's region labels.
type RegionResolver struct {
	classifier *RegionClassifier
	strategies []ResolveStrategy
}

// NewRegionResolver composes exact then substring matching.
func NewRegionResolver(classifier *RegionClassifier) *RegionResolver {
	if classifier == nil {
		classifier = DefaultRegionClassifier()
	}
	return &RegionResolver{
		classifier: classifier,
		strategies: []ResolveStrategy{ExactStrategy{}, SubstringStrategy{}},
	}
}

// Resolve returns the canonical label and tier for query. Known labels are
// scanned in lexical order so ties resolve the same way on every call.
func (r *RegionResolver) Resolve(query string, known []string) (Resolution, bool) {
	q := Normalize(query)
	if q == "" || len(known) == 0 {
		return Resolution{}, false
	}

	keys := sortedKeys(known)
	for _, s := range r.strategies {
		if label, ok := s.Match(q, keys); ok {
			return Resolution{
				Label:    label,
				Tier:     r.classifier.Classify(label),
				Strategy: s.Name(),
			}, true
		}
	}
	return Resolution{}, false
}

// Candidates lists every known label whose normalized form contains the
// normalized query, in lexical order.
func (r *RegionResolver) Candidates(query string, known []string) []string {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	var out []string
	for _, k := range sortedKeys(known) {
		if strings.Contains(k.Normalized, q) {
			out = append(out, k.Label)
		}
	}
	return out
}

// Classifier exposes the classifier used to tier resolved labels.
func (r *RegionResolver) Classifier() *RegionClassifier {
	return r.classifier
}

func sortedKeys(known []string) []RegionKey {
	keys := make([]RegionKey, 0, len(known))
	seen := make(map[string]struct{}, len(known))
	for _, label := range known {
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		n := Normalize(label)
		if n == "" {
			continue
		}
		keys = append(keys, RegionKey{Label: label, Normalized: n})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Label < keys[j].Label })
	return keys
}
