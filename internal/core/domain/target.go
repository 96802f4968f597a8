package domain

import "math"

// DefaultGrowthFactor is the year-over-year growth assumption applied to
// prior-period counts when deriving targets.
const DefaultGrowthFactor = 1.10

// TargetSet holds the growth targets derived from the prior-period dataset.
// While Available is false, consumers fall back to a local target computed
// from the current group's own total via the same growth rule.
type TargetSet struct {
	Available  bool
	PriorTotal int
	Grand      int
	ByRegion   map[string]int

	growth float64
}

// EmptyTargets returns the unavailable target set for the given growth
// factor. Fallback targets still use the factor.
func EmptyTargets(growth float64) TargetSet {
	return TargetSet{growth: growth}
}

// GrowthTarget applies the growth rule: ceil(count * growth). The tiny
// epsilon keeps exact products such as 90*1.1 from rounding up twice under
// binary floating point.
func GrowthTarget(count int, growth float64) int {
	if count <= 0 {
		return 0
	}
	return int(math.Ceil(float64(count)*growth - 1e-9))
}

// ComputeTargets derives the target set from the normalized prior-period
// rows. Only identifier-bearing rows are counted; no status breakdown is
// needed. The calculator shares nothing with the rollup tree and may run
// concurrently with the current-period aggregation.
func ComputeTargets(prior []Row, growth float64) TargetSet {
	grandCount := 0
	regionCounts := make(map[string]int)
	for _, row := range prior {
		if !row.Countable() {
			continue
		}
		grandCount++
		regionCounts[row.Region]++
	}

	byRegion := make(map[string]int, len(regionCounts))
	for region, count := range regionCounts {
		byRegion[region] = GrowthTarget(count, growth)
	}

	return TargetSet{
		Available:  true,
		PriorTotal: grandCount,
		Grand:      GrowthTarget(grandCount, growth),
		ByRegion:   byRegion,
		growth:     growth,
	}
}

// ForRegion returns the target for a current-period region. A region with no
// prior-period counterpart, or any lookup while the set is unavailable,
// falls back to the current total under the growth rule.
func (t TargetSet) ForRegion(key string, currentTotal int) int {
	if t.Available {
		if target, ok := t.ByRegion[key]; ok {
			return target
		}
	}
	return GrowthTarget(currentTotal, t.growth)
}

// GrandTarget returns the overall target, falling back to the current grand
// total when no prior dataset has been supplied.
func (t TargetSet) GrandTarget(currentTotal int) int {
	if t.Available {
		return t.Grand
	}
	return GrowthTarget(currentTotal, t.growth)
}
