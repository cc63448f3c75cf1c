package analysis

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// computePace aggregates the valid laps in a single pass.
// Returns nil when no valid lap exists.
func (a *Analyzer) computePace() *model.PaceSummary {
	laps := a.validLaps()
	if len(laps) == 0 {
		return nil
	}

	ret := &model.PaceSummary{
		FastestLapMs: laps[0].LapTimeMs,
		FastestLapNo: laps[0].LapNo,
		SlowestLapMs: laps[0].LapTimeMs,
		ValidLaps:    len(laps),
	}
	sum := 0
	var bestS1, bestS2, bestS3 *int
	for i := range laps {
		l := &laps[i]
		sum += l.LapTimeMs
		if l.LapTimeMs < ret.FastestLapMs {
			ret.FastestLapMs = l.LapTimeMs
			ret.FastestLapNo = l.LapNo
		}
		if l.LapTimeMs > ret.SlowestLapMs {
			ret.SlowestLapMs = l.LapTimeMs
		}
		bestS1 = lowerSector(bestS1, l.Sector1Ms)
		bestS2 = lowerSector(bestS2, l.Sector2Ms)
		bestS3 = lowerSector(bestS3, l.Sector3Ms)
	}
	mean := float64(sum) / float64(len(laps))
	ret.AverageLapMs = int(math.Round(mean))
	ret.ConsistencyPct = consistencyPct(laps, mean)
	ret.BestSector1Ms = bestS1
	ret.BestSector2Ms = bestS2
	ret.BestSector3Ms = bestS3
	return ret
}

// lowerSector keeps the lower of the best-so-far and the candidate.
// A sector a lap never reported (<= 0) leaves the best untouched.
func lowerSector(best *int, candidate int) *int {
	if candidate <= 0 {
		return best
	}
	if best == nil || candidate < *best {
		return &candidate
	}
	return best
}

// consistencyPct is the population standard deviation of the valid lap times
// divided by their mean, as a percentage with two-decimal precision.
func consistencyPct(laps []model.DriverLap, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	sqSum := 0.0
	for i := range laps {
		d := float64(laps[i].LapTimeMs) - mean
		sqSum += d * d
	}
	stdDev := math.Sqrt(sqSum / float64(len(laps)))
	pct := stdDev / mean * 100
	return decimal.NewFromFloat(pct).Round(2).InexactFloat64()
}
