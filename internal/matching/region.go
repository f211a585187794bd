package matching

import (
	"strings"

	"bondmatch/pkg/contracts/domain"
)

// DefaultHighTierRegions are the regions treated as strongest credit.
var DefaultHighTierRegions = []string{"广东", "浙江", "北京", "上海", "深圳", "江苏", "宁波", "厦门", "广州"}

// DefaultLowTierRegions are the regions treated as weakest credit.
var DefaultLowTierRegions = []string{"云南", "贵州", "内蒙古", "黑龙江", "吉林", "辽宁", "天津", "西藏", "海南", "广西壮族", "青海"}

// administrative suffixes removed before comparing region labels
var adminMarkers = strings.NewReplacer("自治区", "", "省", "", "市", "")

// Normalize strips administrative markers and surrounding whitespace from a region label.
func Normalize(label string) string {
	return strings.TrimSpace(adminMarkers.Replace(label))
}

// RegionClassifier assigns a tier to a region label. The sets are fixed at
// construction and never modified afterward, so a classifier is safe for
// concurrent use.
type RegionClassifier struct {
	high map[string]struct{}
	low  map[string]struct{}
}

// NewRegionClassifier builds a classifier from the high and low tier sets.
// When both are empty the curated default sets apply; otherwise the given
// sets replace the defaults as a whole, so an empty side has no members.
// Entries are normalized.
func NewRegionClassifier(high, low []string) *RegionClassifier {
	if len(high) == 0 && len(low) == 0 {
		high, low = DefaultHighTierRegions, DefaultLowTierRegions
	}
	return &RegionClassifier{
		high: toSet(high),
		low:  toSet(low),
	}
}

// DefaultRegionClassifier returns a classifier over the curated default sets.
func DefaultRegionClassifier() *RegionClassifier {
	return NewRegionClassifier(nil, nil)
}

// Classify returns the tier for label. Unknown labels, including the empty
// string, are Mid.
func (c *RegionClassifier) Classify(label string) domain.RegionTier {
	key := Normalize(label)
	if _, ok := c.high[key]; ok {
		return domain.TierHigh
	}
	if _, ok := c.low[key]; ok {
		return domain.TierLow
	}
	return domain.TierMid
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
