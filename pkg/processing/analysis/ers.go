package analysis

import "github.com/racelap/racelap-ingest-go/pkg/model"

// computeErs aggregates energy-recovery figures over the laps that carry ERS
// telemetry. Returns nil when no lap does.
func (a *Analyzer) computeErs() *model.ErsSummary {
	var (
		laps                       int
		remSum, depSum, harvSum    float64
		remLaps, depLaps, harvLaps int
		finalRemaining             *float64
	)
	for i := range a.laps {
		l := &a.laps[i]
		if l.ErsRemaining == nil && l.ErsDeployed == nil && l.ErsHarvested == nil {
			continue
		}
		laps++
		if l.ErsRemaining != nil {
			remSum += *l.ErsRemaining
			remLaps++
			finalRemaining = l.ErsRemaining
		}
		if l.ErsDeployed != nil {
			depSum += *l.ErsDeployed
			depLaps++
		}
		if l.ErsHarvested != nil {
			harvSum += *l.ErsHarvested
			harvLaps++
		}
	}
	if laps == 0 {
		return nil
	}
	ret := &model.ErsSummary{
		Laps:           laps,
		TotalDeployed:  depSum,
		TotalHarvested: harvSum,
		FinalRemaining: finalRemaining,
	}
	if remLaps > 0 {
		ret.AvgRemaining = remSum / float64(remLaps)
	}
	if depLaps > 0 {
		ret.AvgDeployed = depSum / float64(depLaps)
	}
	if harvLaps > 0 {
		ret.AvgHarvested = harvSum / float64(harvLaps)
	}
	return ret
}
