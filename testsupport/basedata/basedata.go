package basedata

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	driverrepos "github.com/racelap/racelap-ingest-go/pkg/repository/driver"
	eventrepos "github.com/racelap/racelap-ingest-go/pkg/repository/event"
	seasonrepos "github.com/racelap/racelap-ingest-go/pkg/repository/season"
)

const SampleSessionUID uint64 = 0xCAFE0001

func SampleHeader() model.PacketHeader {
	return model.PacketHeader{
		SessionUID:  SampleSessionUID,
		SessionTime: 120.5,
		FrameID:     4711,
	}
}

func SampleSessionPacket() *model.SessionData {
	return &model.SessionData{
		PacketHeader: SampleHeader(),
		TrackID:      4,
		TrackName:    "testtrack",
		SessionType:  10,
	}
}

func SampleParticipantsPacket(names ...string) *model.ParticipantsData {
	entries := make([]model.ParticipantEntry, 0, len(names))
	for i, n := range names {
		entries = append(entries, model.ParticipantEntry{
			Name:       n,
			RaceNumber: i + 10,
			TeamID:     i,
		})
	}
	return &model.ParticipantsData{
		PacketHeader: SampleHeader(),
		NumActive:    len(entries),
		Participants: entries,
	}
}

func SampleLapHistory(lapTimesMs ...uint32) []model.LapHistoryEntry {
	ret := make([]model.LapHistoryEntry, 0, len(lapTimesMs))
	for _, lt := range lapTimesMs {
		third := uint16(lt / 3) //nolint:gosec // test values fit
		ret = append(ret, model.LapHistoryEntry{
			LapTimeMs:        lt,
			Sector1Ms:        third,
			Sector2Ms:        third,
			Sector3Ms:        third,
			LapValidBitFlags: model.LapValid,
		})
	}
	return ret
}

func SampleHistoryPacket(carIdx int, lapTimesMs ...uint32) *model.SessionHistoryData {
	history := SampleLapHistory(lapTimesMs...)
	return &model.SessionHistoryData{
		PacketHeader: SampleHeader(),
		CarIdx:       carIdx,
		NumLaps:      len(history),
		LapHistory:   history,
	}
}

// database seed helpers

func CreateSampleSeason(pool *pgxpool.Pool) *model.DbSeason {
	var ret *model.DbSeason
	if err := pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		var err error
		ret, err = seasonrepos.Create(context.Background(), tx,
			&model.DbSeason{Name: "testseason", Active: true})
		return err
	}); err != nil {
		log.Fatalf("createSampleSeason: %v\n", err)
	}
	return ret
}

func CreateSampleDriver(pool *pgxpool.Pool, name, externalID string) *model.DbDriver {
	var ret *model.DbDriver
	if err := pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		var err error
		ret, err = driverrepos.Create(context.Background(), tx,
			&model.DbDriver{Name: name, ExternalID: externalID})
		return err
	}); err != nil {
		log.Fatalf("createSampleDriver: %v\n", err)
	}
	return ret
}

func CreateSampleEvent(pool *pgxpool.Pool, seasonID int) *model.DbEvent {
	var ret *model.DbEvent
	if err := pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		var err error
		ret, err = eventrepos.FindOrCreateByTrack(context.Background(), tx,
			seasonID, "testtrack")
		return err
	}); err != nil {
		log.Fatalf("createSampleEvent: %v\n", err)
	}
	return ret
}
