//nolint:errcheck // ok for this test code
package service

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/processing/ingest"
	"github.com/racelap/racelap-ingest-go/testsupport/basedata"
	"github.com/racelap/racelap-ingest-go/testsupport/testdb"
)

// runs the full pipeline against a real database: roster setup, identity
// resolution, lap buffering, flush on final classification, analysis load.
func TestIngestRoundTrip(t *testing.T) {
	pool := testdb.InitTestDb()
	basedata.CreateSampleSeason(pool)
	alice := basedata.CreateSampleDriver(pool, "Alice", "Alice")
	ctx := context.Background()

	proc := ingest.NewProcessor(ingest.WithStore(InitIngestService(pool)))
	assert.NilError(t, proc.Start(ctx))

	proc.Process(ctx, basedata.SampleSessionPacket())
	proc.Process(ctx, basedata.SampleParticipantsPacket("Alice", "Unknown"))
	proc.Process(ctx, basedata.SampleHistoryPacket(0, 91000))
	proc.Process(ctx, basedata.SampleHistoryPacket(0, 91000, 90500))

	classification := &model.FinalClassificationData{
		PacketHeader: basedata.SampleHeader(),
		NumCars:      1,
		Classification: []model.FinalClassificationEntry{
			{
				Position: 1, NumLaps: 2, GridPosition: 3,
				BestLapTimeMs: 90500, NumTyreStints: 1,
				TyreStintsEndLaps: []uint8{2},
				TyreStintsActual:  []uint8{16},
				TyreStintsVisual:  []uint8{16},
			},
		},
	}
	proc.Process(ctx, classification)
	assert.NilError(t, proc.Stop(ctx))

	uid := mytypes.SessionUID(basedata.SampleSessionUID)
	svc := NewAnalysisService(WithAnalysisPool(pool))
	bundle, err := svc.DriverBundle(ctx, alice.ID, uid)
	assert.NilError(t, err)
	assert.Assert(t, bundle.Pace != nil)
	assert.Equal(t, 2, bundle.Pace.ValidLaps)
	assert.Equal(t, 90500, bundle.Pace.FastestLapMs)
	assert.Assert(t, bundle.Stints != nil)
	assert.Equal(t, 1, bundle.Stints.Stints)
	assert.Equal(t, "soft", bundle.Stints.Compounds[0])
	assert.Equal(t, 3-1, bundle.Position.PositionsGained)

	// memoized result is served from the cache and stays identical
	again, err := svc.DriverBundle(ctx, alice.ID, uid)
	assert.NilError(t, err)
	assert.Equal(t, bundle, again, "bundle pointer is cached")
}

func TestActiveSeasonAbsentIsNotAnError(t *testing.T) {
	pool := testdb.InitTestDb()

	season, err := InitIngestService(pool).ActiveSeason(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, season == nil)
}
