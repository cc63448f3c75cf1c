package compare

import (
	"sort"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// Comparer aligns two drivers' lap sequences by lap number. Like the
// analyzer it is a pure function of its inputs.
type Comparer struct {
	targetLaps []model.DriverLap
	compLaps   []model.RawLapTime
	// optional wear data of the comparison driver for the wear overlay
	compWearLaps []model.DriverLap
}

type ComparerOption func(c *Comparer)

func WithTargetLaps(laps []model.DriverLap) ComparerOption {
	return func(c *Comparer) {
		c.targetLaps = laps
	}
}

func WithComparisonLaps(laps []model.RawLapTime) ComparerOption {
	return func(c *Comparer) {
		c.compLaps = laps
	}
}

func WithComparisonWearLaps(laps []model.DriverLap) ComparerOption {
	return func(c *Comparer) {
		c.compWearLaps = laps
	}
}

func NewComparer(opts ...ComparerOption) *Comparer {
	c := &Comparer{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute builds the full overlay: aligned lap/cumulative deltas, the status
// run-length segments of the target driver, and the wear comparison.
func (c *Comparer) Compute() *model.ComparisonData {
	return &model.ComparisonData{
		Laps:     c.lapDeltas(),
		Overlay:  statusOverlay(c.targetLaps),
		TireWear: c.tireWear(),
	}
}

// lapDeltas walks the union of lap numbers, maintaining one running
// cumulative per side. A side's cumulative only advances on laps where that
// side has data; it is never reset by a gap. Laps where neither side has a
// value are dropped.
func (c *Comparer) lapDeltas() []model.LapComparisonEntry {
	target := make(map[int]int, len(c.targetLaps))
	for i := range c.targetLaps {
		if c.targetLaps[i].Valid() {
			target[c.targetLaps[i].LapNo] = c.targetLaps[i].LapTimeMs
		}
	}
	comp := make(map[int]int, len(c.compLaps))
	for i := range c.compLaps {
		if c.compLaps[i].LapTimeMs > 0 {
			comp[c.compLaps[i].LapNo] = c.compLaps[i].LapTimeMs
		}
	}

	ret := make([]model.LapComparisonEntry, 0, len(target))
	targetCum, compCum := 0, 0
	for _, lapNo := range unionLapNumbers(mapKeys(target), mapKeys(comp)) {
		entry := model.LapComparisonEntry{LapNo: lapNo}
		tv, tok := target[lapNo]
		cv, cok := comp[lapNo]
		if !tok && !cok {
			continue
		}
		if tok {
			targetCum += tv
			t, tc := tv, targetCum
			entry.TargetMs, entry.TargetCumMs = &t, &tc
		}
		if cok {
			compCum += cv
			cp, cc := cv, compCum
			entry.CompMs, entry.CompCumMs = &cp, &cc
		}
		if tok && cok {
			delta := targetCum - compCum
			entry.DeltaMs = &delta
		}
		ret = append(ret, entry)
	}
	return ret
}

// tireWear aligns the average four-corner wear per lap of both drivers.
func (c *Comparer) tireWear() []model.TireWearComparisonEntry {
	target := wearByLap(c.targetLaps)
	comp := wearByLap(c.compWearLaps)
	if len(target) == 0 && len(comp) == 0 {
		return nil
	}

	ret := make([]model.TireWearComparisonEntry, 0, len(target))
	for _, lapNo := range unionLapNumbers(mapKeys(target), mapKeys(comp)) {
		entry := model.TireWearComparisonEntry{LapNo: lapNo}
		if v, ok := target[lapNo]; ok {
			w := v
			entry.TargetWear = &w
		}
		if v, ok := comp[lapNo]; ok {
			w := v
			entry.CompWear = &w
		}
		ret = append(ret, entry)
	}
	return ret
}

func wearByLap(laps []model.DriverLap) map[int]float64 {
	ret := make(map[int]float64, len(laps))
	for i := range laps {
		if w := laps[i].TyreWear; w != nil {
			ret[laps[i].LapNo] = (w[0] + w[1] + w[2] + w[3]) / 4
		}
	}
	return ret
}

func unionLapNumbers(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	ret := make([]int, 0, len(a)+len(b))
	for _, v := range append(a, b...) {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			ret = append(ret, v)
		}
	}
	sort.Ints(ret)
	return ret
}

func mapKeys[V any](m map[int]V) []int {
	ret := make([]int, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	return ret
}
