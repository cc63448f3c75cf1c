package analysis

import (
	"math"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// computePosition derives grid/finish metrics and the most recent usable
// gap to the leader.
func (a *Analyzer) computePosition() model.PositionMetrics {
	ret := model.PositionMetrics{
		GridPosition:    a.driverCtx.GridPosition,
		FinishPosition:  a.driverCtx.FinishPosition,
		PositionsGained: a.driverCtx.GridPosition - a.driverCtx.FinishPosition,
	}
	ret.GapToLeader = a.gapToLeader()
	return ret
}

// gapToLeader scans from the last lap backward for the most recent usable
// gap value, falling back to the driver-level race gap.
func (a *Analyzer) gapToLeader() *float64 {
	for i := len(a.laps) - 1; i >= 0; i-- {
		if usableGap(a.laps[i].GapToLeader) {
			gap := a.laps[i].GapToLeader
			return &gap
		}
	}
	if usableGap(a.driverCtx.RaceGap) {
		gap := a.driverCtx.RaceGap
		return &gap
	}
	return nil
}

func usableGap(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
