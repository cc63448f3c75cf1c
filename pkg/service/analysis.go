package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/processing/analysis"
	"github.com/racelap/racelap-ingest-go/pkg/processing/compare"
	"github.com/racelap/racelap-ingest-go/pkg/repository/driver"
	"github.com/racelap/racelap-ingest-go/pkg/repository/lap"
	"github.com/racelap/racelap-ingest-go/pkg/repository/result"
	"github.com/racelap/racelap-ingest-go/pkg/repository/stint"
	"github.com/racelap/racelap-ingest-go/pkg/utils"
	"github.com/racelap/racelap-ingest-go/pkg/utils/cache"
	"github.com/racelap/racelap-ingest-go/pkg/utils/cache/loadercache"
)

type analysisKey struct {
	DriverID   int
	SessionUID mytypes.SessionUID
}

type compareKey struct {
	TargetID   int
	CompID     int
	SessionUID mytypes.SessionUID
}

// AnalysisService computes per-driver summaries and driver-vs-driver
// comparisons from persisted session data. The engines themselves are pure;
// the service only adds the database loading and a short-lived memoization
// of computed bundles.
type AnalysisService struct {
	pool        *pgxpool.Pool
	l           *log.Logger
	bundles     cache.Cache[analysisKey, model.AnalysisBundle]
	comparisons cache.Cache[compareKey, model.ComparisonData]
}

type AnalysisServiceOption func(s *AnalysisService)

func WithAnalysisPool(pool *pgxpool.Pool) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.pool = pool
	}
}

func WithAnalysisLogger(l *log.Logger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.l = l
	}
}

func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{l: log.Default().Named("service.analysis")}
	for _, opt := range opts {
		opt(s)
	}
	s.bundles = loadercache.New(
		loadercache.WithLoader(s.loadBundle),
		loadercache.WithExpiration[analysisKey, model.AnalysisBundle](5*time.Minute),
		loadercache.WithLogger[analysisKey, model.AnalysisBundle](s.l))
	s.comparisons = loadercache.New(
		loadercache.WithLoader(s.loadComparison),
		loadercache.WithExpiration[compareKey, model.ComparisonData](5*time.Minute),
		loadercache.WithLogger[compareKey, model.ComparisonData](s.l))
	return s
}

// DriverBundle returns the analysis bundle of one driver in one session,
// memoized for a short period.
func (s *AnalysisService) DriverBundle(
	ctx context.Context, driverID int, sessionUID mytypes.SessionUID,
) (*model.AnalysisBundle, error) {
	return s.bundles.Get(ctx, analysisKey{DriverID: driverID, SessionUID: sessionUID})
}

// Comparison returns the target-vs-comparison overlay of two drivers in one
// session.
func (s *AnalysisService) Comparison(
	ctx context.Context, targetID, compID int, sessionUID mytypes.SessionUID,
) (*model.ComparisonData, error) {
	return s.comparisons.Get(ctx,
		compareKey{TargetID: targetID, CompID: compID, SessionUID: sessionUID})
}

// Invalidate drops the memoized bundle of one driver, typically after a
// session flush wrote new laps.
func (s *AnalysisService) Invalidate(
	ctx context.Context, driverID int, sessionUID mytypes.SessionUID,
) {
	s.bundles.Invalidate(ctx, analysisKey{DriverID: driverID, SessionUID: sessionUID})
}

func (s *AnalysisService) loadBundle(key analysisKey) (*model.AnalysisBundle, error) {
	ctx := context.Background()
	laps, segments, driverCtx, peers, err := s.loadAnalyzerInputs(
		ctx, key.DriverID, key.SessionUID)
	if err != nil {
		return nil, err
	}
	opts := []analysis.AnalyzerOption{
		analysis.WithLaps(laps),
		analysis.WithStintSegments(segments),
		analysis.WithPeers(peers),
	}
	if driverCtx != nil {
		opts = append(opts, analysis.WithDriverContext(*driverCtx))
	}
	bundle := analysis.NewAnalyzer(opts...).Compute()
	s.l.Debug("computed analysis bundle",
		log.Int("driverId", key.DriverID),
		log.String("sessionUid", key.SessionUID.String()),
		log.String("inputsDigest", utils.HashInputs(laps, segments, peers)))
	return bundle, nil
}

func (s *AnalysisService) loadComparison(key compareKey) (*model.ComparisonData, error) {
	ctx := context.Background()
	targetDbLaps, err := lap.LoadByDriverAndSession(ctx, s.pool, key.TargetID, key.SessionUID)
	if err != nil {
		return nil, err
	}
	compDbLaps, err := lap.LoadByDriverAndSession(ctx, s.pool, key.CompID, key.SessionUID)
	if err != nil {
		return nil, err
	}
	compLaps := ToDriverLaps(compDbLaps)
	rawTimes := make([]model.RawLapTime, 0, len(compLaps))
	for i := range compLaps {
		rawTimes = append(rawTimes, model.RawLapTime{
			LapNo:     compLaps[i].LapNo,
			LapTimeMs: compLaps[i].LapTimeMs,
		})
	}
	return compare.NewComparer(
		compare.WithTargetLaps(ToDriverLaps(targetDbLaps)),
		compare.WithComparisonLaps(rawTimes),
		compare.WithComparisonWearLaps(compLaps),
	).Compute(), nil
}

//nolint:funlen // linear assembly of the analyzer inputs
func (s *AnalysisService) loadAnalyzerInputs(
	ctx context.Context, driverID int, sessionUID mytypes.SessionUID,
) (
	laps []model.DriverLap,
	segments []model.StintSegment,
	driverCtx *model.DriverContext,
	peers []model.PeerLap,
	err error,
) {
	dbLaps, err := lap.LoadByDriverAndSession(ctx, s.pool, driverID, sessionUID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	laps = ToDriverLaps(dbLaps)

	res, err := result.LoadByDriverAndSession(ctx, s.pool, driverID, sessionUID)
	if errors.Is(err, pgx.ErrNoRows) {
		// session without final classification, pace analysis still works
		s.l.Debug("no session result for driver",
			log.Int("driverId", driverID),
			log.String("sessionUid", sessionUID.String()))
		return laps, nil, nil, nil, nil
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	dbStints, err := stint.LoadByResult(ctx, s.pool, res.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	segments = toStintSegments(dbStints)

	peerResults, err := result.LoadByEvent(ctx, s.pool, res.EventID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	names, err := driver.LoadByExternalIDs(ctx, s.pool)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	nameByID := make(map[int]string, len(names))
	for _, d := range names {
		nameByID[d.ID] = d.Name
	}
	peers = toPeerLaps(peerResults, nameByID)

	driverCtx = &model.DriverContext{
		DriverID:       driverID,
		GridPosition:   res.GridPosition,
		FinishPosition: res.Position,
		RaceGap:        raceGap(res, peerResults),
	}
	return laps, segments, driverCtx, peers, nil
}

// ToDriverLaps converts persisted lap rows to engine input. Race-condition
// tags, wear and ERS payloads are not part of the lap history record and
// stay at their zero values here.
func ToDriverLaps(dbLaps []*model.DbLap) []model.DriverLap {
	ret := make([]model.DriverLap, 0, len(dbLaps))
	for _, l := range dbLaps {
		ret = append(ret, model.DriverLap{
			LapNo:     l.LapNo,
			LapTimeMs: l.LapTimeMs,
			Sector1Ms: l.Sector1Minutes*60000 + l.Sector1Ms,
			Sector2Ms: l.Sector2Minutes*60000 + l.Sector2Ms,
			Sector3Ms: l.Sector3Minutes*60000 + l.Sector3Ms,
		})
	}
	return ret
}

func toStintSegments(dbStints []*model.DbTyreStint) []model.StintSegment {
	ret := make([]model.StintSegment, 0, len(dbStints))
	startLap := 1
	for _, s := range dbStints {
		ret = append(ret, model.StintSegment{
			StintNo:  s.StintNo,
			StartLap: startLap,
			EndLap:   s.EndLap,
			Compound: model.CompoundName(s.VisualCompound),
		})
		startLap = s.EndLap + 1
	}
	return ret
}

func toPeerLaps(results []*model.DbSessionResult, names map[int]string) []model.PeerLap {
	fastestIdx := -1
	for i, r := range results {
		if r.BestLapTimeMs <= 0 {
			continue
		}
		if fastestIdx < 0 || r.BestLapTimeMs < results[fastestIdx].BestLapTimeMs {
			fastestIdx = i
		}
	}
	ret := make([]model.PeerLap, 0, len(results))
	for i, r := range results {
		ret = append(ret, model.PeerLap{
			DriverID:      r.DriverID,
			DriverName:    names[r.DriverID],
			FastestLap:    i == fastestIdx,
			BestLapTimeMs: r.BestLapTimeMs,
		})
	}
	return ret
}

// raceGap derives the gap to the winner from absolute race times when both
// are known.
func raceGap(res *model.DbSessionResult, peers []*model.DbSessionResult) float64 {
	if res.TotalRaceTime <= 0 {
		return 0
	}
	for _, p := range peers {
		if p.Position == 1 && p.TotalRaceTime > 0 {
			return res.TotalRaceTime - p.TotalRaceTime
		}
	}
	return 0
}
