package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// fakeStore records writes in memory; used by the buffer and processor tests.
type fakeStore struct {
	season       *model.DbSeason
	event        *model.DbEvent
	drivers      map[string]*model.DbDriver
	participants []*model.DbParticipant
	results      []*model.DbSessionResult
	stints       []*model.DbTyreStint
	laps         []*model.DbLap
	bulkCalls    int
	failBulk     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		season: &model.DbSeason{ID: 1, Name: "testseason", Active: true},
		event:  &model.DbEvent{ID: 1, SeasonID: 1, TrackName: "testtrack"},
		drivers: map[string]*model.DbDriver{
			"Alice": {ID: 10, Name: "Alice", ExternalID: "Alice"},
			"Bob":   {ID: 11, Name: "Bob", ExternalID: "Bob"},
		},
	}
}

func (s *fakeStore) DriversByExternalID(ctx context.Context) (
	map[string]*model.DbDriver, error,
) {
	return s.drivers, nil
}

func (s *fakeStore) ActiveSeason(ctx context.Context) (*model.DbSeason, error) {
	return s.season, nil
}

func (s *fakeStore) CurrentEvent(ctx context.Context, seasonID int) (
	*model.DbEvent, error,
) {
	if s.event == nil {
		return nil, errors.New("no event")
	}
	return s.event, nil
}

func (s *fakeStore) FindOrCreateEventByTrack(
	ctx context.Context, seasonID int, trackName string,
) (*model.DbEvent, error) {
	if s.event == nil {
		s.event = &model.DbEvent{ID: 1, SeasonID: seasonID, TrackName: trackName}
	}
	return s.event, nil
}

func (s *fakeStore) CreateParticipant(
	ctx context.Context, participant *model.DbParticipant,
) error {
	s.participants = append(s.participants, participant)
	return nil
}

func (s *fakeStore) CreateSessionResult(
	ctx context.Context, result *model.DbSessionResult,
) (*model.DbSessionResult, error) {
	result.ID = len(s.results) + 1
	s.results = append(s.results, result)
	return result, nil
}

func (s *fakeStore) CreateTyreStint(ctx context.Context, stint *model.DbTyreStint) error {
	s.stints = append(s.stints, stint)
	return nil
}

func (s *fakeStore) BulkInsertLaps(ctx context.Context, laps []*model.DbLap) (int, error) {
	s.bulkCalls++
	if s.failBulk {
		return 0, errors.New("database gone")
	}
	s.laps = append(s.laps, laps...)
	return len(laps), nil
}

func historyEntry(lapTimeMs uint32) model.LapHistoryEntry {
	return model.LapHistoryEntry{
		LapTimeMs:        lapTimeMs,
		Sector1Ms:        30000,
		Sector2Ms:        30000,
		Sector3Ms:        30000,
		LapValidBitFlags: model.LapValid,
	}
}

func TestFlushEmptyBufferIsNoop(t *testing.T) {
	store := newFakeStore()
	buf := NewLapBuffer()

	count, err := buf.Flush(context.Background(), store)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, store.bulkCalls, "empty buffer must not hit the store")
}

func TestFlushDedupesResentFragments(t *testing.T) {
	store := newFakeStore()
	buf := NewLapBuffer()
	// the source re-sends the full history; the later fragment carries lap 1
	// again plus the newly completed lap 2
	buf.Append(10, Fragment{
		SessionUID: 42, FrameID: 100,
		Laps: []model.LapHistoryEntry{historyEntry(91000)},
	})
	buf.Append(10, Fragment{
		SessionUID: 42, FrameID: 200,
		Laps: []model.LapHistoryEntry{historyEntry(91000), historyEntry(90500)},
	})

	count, err := buf.Flush(context.Background(), store)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, store.laps, 2)
	assert.Equal(t, 1, store.laps[0].LapNo)
	assert.Equal(t, uint32(200), store.laps[0].FrameID, "latest fragment wins")
	assert.Equal(t, 2, store.laps[1].LapNo)
	assert.Equal(t, 90500, store.laps[1].LapTimeMs)
	assert.Equal(t, 1, store.bulkCalls, "one bulk write per flush")
}

func TestFlushDropsUncompletedLaps(t *testing.T) {
	store := newFakeStore()
	buf := NewLapBuffer()
	// lap 2 is in progress (time 0) when the fragment is sent
	buf.Append(10, Fragment{
		SessionUID: 42,
		Laps:       []model.LapHistoryEntry{historyEntry(91000), historyEntry(0)},
	})

	count, err := buf.Flush(context.Background(), store)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, store.laps, 1)
	assert.Equal(t, 1, store.laps[0].LapNo)
}

func TestFlushFailureKeepsBufferForRetry(t *testing.T) {
	store := newFakeStore()
	store.failBulk = true
	buf := NewLapBuffer()
	buf.Append(10, Fragment{
		SessionUID: 42,
		Laps:       []model.LapHistoryEntry{historyEntry(91000)},
	})

	_, err := buf.Flush(context.Background(), store)
	require.Error(t, err)
	assert.False(t, buf.Empty(), "failed flush must keep the data")

	store.failBulk = false
	count, err := buf.Flush(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, buf.Empty())
}

func TestFlushIsSingleBulkWriteAcrossDrivers(t *testing.T) {
	store := newFakeStore()
	buf := NewLapBuffer()
	buf.Append(10, Fragment{
		SessionUID: 42,
		Laps:       []model.LapHistoryEntry{historyEntry(91000)},
	})
	buf.Append(11, Fragment{
		SessionUID: 42,
		Laps:       []model.LapHistoryEntry{historyEntry(92000), historyEntry(91500)},
	})

	count, err := buf.Flush(context.Background(), store)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, store.bulkCalls)
}
