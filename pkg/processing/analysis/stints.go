package analysis

import (
	"sort"

	"github.com/samber/lo"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// computeStints summarizes the stint structure of the race. When no stint
// segment list was supplied, segments are derived from contiguous compound
// runs in the lap data. Returns nil when no stint can be determined.
func (a *Analyzer) computeStints() *model.StintSummary {
	segments := a.stints
	if len(segments) == 0 {
		segments = deriveSegments(a.laps)
	}
	if len(segments) == 0 {
		return nil
	}

	lapSum := 0
	compounds := make([]string, 0, len(segments))
	for _, seg := range segments {
		lapSum += seg.EndLap - seg.StartLap + 1
		if seg.Compound != "" && !lo.Contains(compounds, seg.Compound) {
			compounds = append(compounds, seg.Compound)
		}
	}

	valid := a.validLaps()
	pace := make([]model.CompoundPace, 0, len(compounds))
	for _, compound := range compounds {
		sum, n := 0, 0
		for _, seg := range segments {
			if seg.Compound != compound {
				continue
			}
			for i := range valid {
				if valid[i].LapNo >= seg.StartLap && valid[i].LapNo <= seg.EndLap {
					sum += valid[i].LapTimeMs
					n++
				}
			}
		}
		if n > 0 {
			pace = append(pace, model.CompoundPace{
				Compound:     compound,
				Laps:         n,
				AverageLapMs: float64(sum) / float64(n),
			})
		}
	}
	sort.SliceStable(pace, func(i, j int) bool {
		return pace[i].AverageLapMs < pace[j].AverageLapMs
	})

	return &model.StintSummary{
		Stints:       len(segments),
		AvgStintLaps: float64(lapSum) / float64(len(segments)),
		Compounds:    compounds,
		CompoundPace: pace,
	}
}

// deriveSegments builds stint segments from contiguous compound runs.
// Laps without compound information yield no segments.
func deriveSegments(laps []model.DriverLap) []model.StintSegment {
	ret := make([]model.StintSegment, 0)
	var current *model.StintSegment
	for i := range laps {
		l := &laps[i]
		if l.TyreCompound == "" {
			continue
		}
		if current != nil && current.Compound == l.TyreCompound {
			current.EndLap = l.LapNo
			continue
		}
		if current != nil {
			ret = append(ret, *current)
		}
		current = &model.StintSegment{
			StintNo:  len(ret) + 1,
			StartLap: l.LapNo,
			EndLap:   l.LapNo,
			Compound: l.TyreCompound,
		}
	}
	if current != nil {
		ret = append(ret, *current)
	}
	return ret
}
