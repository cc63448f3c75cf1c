package analysis

import (
	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// Analyzer computes the derived per-driver summaries from a finalized lap
// sequence. It is a pure function of its inputs: no I/O, no shared state,
// safe to invoke concurrently and to recompute on every request.
type Analyzer struct {
	laps      []model.DriverLap
	stints    []model.StintSegment
	driverCtx model.DriverContext
	peers     []model.PeerLap
}

type AnalyzerOption func(a *Analyzer)

func WithLaps(laps []model.DriverLap) AnalyzerOption {
	return func(a *Analyzer) {
		a.laps = laps
	}
}

func WithStintSegments(stints []model.StintSegment) AnalyzerOption {
	return func(a *Analyzer) {
		a.stints = stints
	}
}

func WithDriverContext(ctx model.DriverContext) AnalyzerOption {
	return func(a *Analyzer) {
		a.driverCtx = ctx
	}
}

func WithPeers(peers []model.PeerLap) AnalyzerOption {
	return func(a *Analyzer) {
		a.peers = peers
	}
}

func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compute assembles the full bundle in bounded passes over the lap sequence.
func (a *Analyzer) Compute() *model.AnalysisBundle {
	return &model.AnalysisBundle{
		Pace:              a.computePace(),
		TireWear:          a.computeTireWear(),
		Ers:               a.computeErs(),
		Stints:            a.computeStints(),
		Events:            a.computeEvents(),
		Position:          a.computePosition(),
		SessionFastestLap: a.sessionFastestLap(),
	}
}

func (a *Analyzer) validLaps() []model.DriverLap {
	ret := make([]model.DriverLap, 0, len(a.laps))
	for i := range a.laps {
		if a.laps[i].Valid() {
			ret = append(ret, a.laps[i])
		}
	}
	return ret
}

func (a *Analyzer) sessionFastestLap() *model.SessionFastestLap {
	for i := range a.peers {
		if a.peers[i].FastestLap {
			return &model.SessionFastestLap{
				DriverID:   a.peers[i].DriverID,
				DriverName: a.peers[i].DriverName,
				LapTimeMs:  a.peers[i].BestLapTimeMs,
			}
		}
	}
	return nil
}
