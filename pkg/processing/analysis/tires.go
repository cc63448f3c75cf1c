package analysis

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// computeTireWear extracts per-lap corner wear and, when stint segments are
// known, the wear consumed per stint. Wear is read from every lap carrying a
// payload, including invalid ones: the source reports wear even for the lap
// on which a car entered the pits.
func (a *Analyzer) computeTireWear() *model.TireWearSummary {
	samples := make([]model.LapWear, 0, len(a.laps))
	for i := range a.laps {
		if w := a.laps[i].TyreWear; w != nil {
			samples = append(samples, model.LapWear{
				LapNo: a.laps[i].LapNo,
				RL:    w[0], RR: w[1], FL: w[2], FR: w[3],
			})
		}
	}
	if len(samples) == 0 {
		return nil
	}

	ret := &model.TireWearSummary{Laps: samples}

	cornerSum := 0.0
	for i := range samples {
		cornerSum += samples[i].Average()
	}
	avgCorner := round2(cornerSum / float64(len(samples)))
	ret.AvgCornerWear = &avgCorner

	for _, seg := range a.stints {
		if sw := stintWear(seg, samples); sw != nil {
			ret.Stints = append(ret.Stints, *sw)
		}
	}
	if len(ret.Stints) > 0 {
		totalSum, rateSum := 0.0, 0.0
		for i := range ret.Stints {
			totalSum += ret.Stints[i].TotalWear
			rateSum += ret.Stints[i].PerLap
		}
		avgTotal := round2(totalSum / float64(len(ret.Stints)))
		avgRate := round2(rateSum / float64(len(ret.Stints)))
		ret.AvgTotalWear = &avgTotal
		ret.AvgPerLapRate = &avgRate
	}
	return ret
}

// stintWear is the first-to-last wear difference per corner within the stint's
// lap range, averaged across the four corners. Returns nil when the stint has
// no wear sample at all.
func stintWear(seg model.StintSegment, samples []model.LapWear) *model.StintWear {
	inRange := lo.Filter(samples, func(s model.LapWear, _ int) bool {
		return s.LapNo >= seg.StartLap && s.LapNo <= seg.EndLap
	})
	if len(inRange) == 0 {
		return nil
	}
	first, last := inRange[0], inRange[len(inRange)-1]
	diffSum := (last.RL - first.RL) + (last.RR - first.RR) +
		(last.FL - first.FL) + (last.FR - first.FR)
	total := diffSum / 4
	stintLaps := seg.EndLap - seg.StartLap + 1
	return &model.StintWear{
		StintNo:   seg.StintNo,
		StartLap:  seg.StartLap,
		EndLap:    seg.EndLap,
		Compound:  seg.Compound,
		TotalWear: round2(total),
		PerLap:    round2(total / float64(stintLaps)),
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
