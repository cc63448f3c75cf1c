//nolint:funlen // end-to-end pipeline tests
package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

func participantsPacket(uid uint64, names ...string) *model.ParticipantsData {
	entries := make([]model.ParticipantEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, model.ParticipantEntry{Name: n})
	}
	return &model.ParticipantsData{
		PacketHeader: model.PacketHeader{SessionUID: uid},
		NumActive:    len(entries),
		Participants: entries,
	}
}

func historyPacket(uid uint64, carIdx int, timesMs ...uint32) *model.SessionHistoryData {
	laps := make([]model.LapHistoryEntry, 0, len(timesMs))
	for _, lt := range timesMs {
		laps = append(laps, historyEntry(lt))
	}
	return &model.SessionHistoryData{
		PacketHeader: model.PacketHeader{SessionUID: uid},
		CarIdx:       carIdx,
		NumLaps:      len(laps),
		LapHistory:   laps,
	}
}

func TestProcessorResolvesParticipants(t *testing.T) {
	store := newFakeStore()
	proc := NewProcessor(WithStore(store))
	ctx := context.Background()
	require.NoError(t, proc.Start(ctx))

	// "  " is an unused slot, "Mallory" is not on the roster
	proc.Process(ctx, participantsPacket(42, "Alice", "  ", "Mallory", "Bob"))

	mapping := proc.Mapping()
	assert.Equal(t, map[int]int{0: 10, 3: 11}, mapping)
	assert.Equal(t, uint64(42), proc.SessionUID())
	require.Len(t, store.participants, 2)
	assert.Equal(t, 0, store.participants[0].VehicleIdx)
	assert.Equal(t, 10, store.participants[0].DriverID)
}

func TestProcessorSkipsParticipantsWithoutSeason(t *testing.T) {
	store := newFakeStore()
	store.season = nil
	proc := NewProcessor(WithStore(store))
	ctx := context.Background()
	require.NoError(t, proc.Start(ctx))

	proc.Process(ctx, participantsPacket(42, "Alice"))

	assert.Empty(t, proc.Mapping())
	assert.Empty(t, store.participants)
}

func TestProcessorReplacesMappingOnResend(t *testing.T) {
	store := newFakeStore()
	proc := NewProcessor(WithStore(store))
	ctx := context.Background()
	require.NoError(t, proc.Start(ctx))

	proc.Process(ctx, participantsPacket(42, "Alice", "Bob"))
	// Bob drops out, slot 1 is now empty
	proc.Process(ctx, participantsPacket(42, "Alice", ""))

	assert.Equal(t, map[int]int{0: 10}, proc.Mapping())
}

func TestProcessorBuffersOnlyMappedSlots(t *testing.T) {
	store := newFakeStore()
	proc := NewProcessor(WithStore(store))
	ctx := context.Background()
	require.NoError(t, proc.Start(ctx))

	proc.Process(ctx, participantsPacket(42, "Alice"))
	proc.Process(ctx, historyPacket(42, 0, 91000))
	proc.Process(ctx, historyPacket(42, 7, 95000)) // unmapped slot

	require.NoError(t, proc.Flush(ctx))
	require.Len(t, store.laps, 1)
	assert.Equal(t, 10, store.laps[0].DriverID)
}

func TestProcessorNoHotPathWrites(t *testing.T) {
	store := newFakeStore()
	proc := NewProcessor(WithStore(store))
	ctx := context.Background()
	require.NoError(t, proc.Start(ctx))

	proc.Process(ctx, participantsPacket(42, "Alice"))
	for i := 0; i < 50; i++ {
		proc.Process(ctx, historyPacket(42, 0, 91000, 90500))
	}

	assert.Equal(t, 0, store.bulkCalls, "history packets must not write laps")
}

func TestProcessorFinalClassificationFlow(t *testing.T) {
	store := newFakeStore()
	var flushed []FlushSummary
	proc := NewProcessor(
		WithStore(store),
		WithFlushHook(func(summary FlushSummary) { flushed = append(flushed, summary) }),
	)
	ctx := context.Background()
	require.NoError(t, proc.Start(ctx))

	proc.Process(ctx, participantsPacket(42, "Alice", "Bob"))
	proc.Process(ctx, historyPacket(42, 0, 91000, 90500))
	proc.Process(ctx, historyPacket(42, 1, 92000))

	final := &model.FinalClassificationData{
		PacketHeader: model.PacketHeader{SessionUID: 42},
		NumCars:      2,
		Classification: []model.FinalClassificationEntry{
			{
				Position: 1, NumLaps: 2, GridPosition: 2,
				BestLapTimeMs: 90500, NumTyreStints: 2,
				TyreStintsEndLaps: []uint8{1, 2},
				TyreStintsActual:  []uint8{16, 18},
				TyreStintsVisual:  []uint8{16, 18},
			},
			{
				Position: 2, NumLaps: 1, GridPosition: 1,
				BestLapTimeMs: 92000, NumTyreStints: 1,
				TyreStintsEndLaps: []uint8{1},
				TyreStintsActual:  []uint8{17},
				TyreStintsVisual:  []uint8{17},
			},
		},
	}
	proc.Process(ctx, final)

	require.Len(t, store.results, 2)
	assert.Equal(t, 10, store.results[0].DriverID)
	assert.Equal(t, 1, store.results[0].Position)
	require.Len(t, store.stints, 3)
	assert.Equal(t, store.results[0].ID, store.stints[0].ResultID)
	assert.Equal(t, 16, store.stints[0].VisualCompound)

	// classification triggers the one-time bulk flush
	require.Len(t, store.laps, 3)
	require.Len(t, flushed, 1)
	assert.Equal(t, 3, flushed[0].LapCount)
	assert.Equal(t, 2, flushed[0].Drivers)
	assert.Equal(t, uint64(42), flushed[0].SessionUID)
}

func TestProcessorStopFlushesAndResets(t *testing.T) {
	store := newFakeStore()
	proc := NewProcessor(WithStore(store))
	ctx := context.Background()
	require.NoError(t, proc.Start(ctx))

	proc.Process(ctx, participantsPacket(42, "Alice"))
	proc.Process(ctx, historyPacket(42, 0, 91000))

	require.NoError(t, proc.Stop(ctx))
	assert.Len(t, store.laps, 1)
	assert.False(t, proc.IsRunning())
	assert.Empty(t, proc.Mapping())
}

func TestProcessorSessionPacketResolvesEvent(t *testing.T) {
	store := newFakeStore()
	store.event = nil
	proc := NewProcessor(WithStore(store))
	ctx := context.Background()
	require.NoError(t, proc.Start(ctx))

	proc.Process(ctx, &model.SessionData{
		PacketHeader: model.PacketHeader{SessionUID: 42},
		TrackName:    "testtrack",
	})

	require.NotNil(t, store.event)
	assert.Equal(t, "testtrack", store.event.TrackName)
}
