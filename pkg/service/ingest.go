package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository/driver"
	"github.com/racelap/racelap-ingest-go/pkg/repository/event"
	"github.com/racelap/racelap-ingest-go/pkg/repository/lap"
	"github.com/racelap/racelap-ingest-go/pkg/repository/participant"
	"github.com/racelap/racelap-ingest-go/pkg/repository/result"
	"github.com/racelap/racelap-ingest-go/pkg/repository/season"
	"github.com/racelap/racelap-ingest-go/pkg/repository/stint"
)

// IngestService is the persistence capability consumed by the ingest
// processor (it implements ingest.Store).
type IngestService struct {
	pool *pgxpool.Pool
}

func InitIngestService(pool *pgxpool.Pool) *IngestService {
	ingestService := IngestService{pool: pool}
	return &ingestService
}

func (s *IngestService) DriversByExternalID(ctx context.Context) (
	map[string]*model.DbDriver, error,
) {
	return driver.LoadByExternalIDs(ctx, s.pool)
}

// ActiveSeason returns nil (without error) when no season is configured.
func (s *IngestService) ActiveSeason(ctx context.Context) (*model.DbSeason, error) {
	ret, err := season.LoadActive(ctx, s.pool)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return ret, err
}

func (s *IngestService) CurrentEvent(ctx context.Context, seasonID int) (
	*model.DbEvent, error,
) {
	return event.LoadCurrent(ctx, s.pool, seasonID)
}

func (s *IngestService) FindOrCreateEventByTrack(
	ctx context.Context, seasonID int, trackName string,
) (*model.DbEvent, error) {
	var ret *model.DbEvent
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		ret, err = event.FindOrCreateByTrack(ctx, tx.Conn(), seasonID, trackName)
		return err
	})
	return ret, err
}

func (s *IngestService) CreateParticipant(
	ctx context.Context, entry *model.DbParticipant,
) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := participant.Create(ctx, tx.Conn(), entry)
		return err
	})
}

func (s *IngestService) CreateSessionResult(
	ctx context.Context, entry *model.DbSessionResult,
) (*model.DbSessionResult, error) {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := result.Create(ctx, tx.Conn(), entry)
		return err
	})
	return entry, err
}

func (s *IngestService) CreateTyreStint(
	ctx context.Context, entry *model.DbTyreStint,
) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := stint.Create(ctx, tx.Conn(), entry)
		return err
	})
}

// BulkInsertLaps writes the whole flush batch in one transaction.
func (s *IngestService) BulkInsertLaps(
	ctx context.Context, laps []*model.DbLap,
) (int, error) {
	count := 0
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		count, err = lap.BulkInsert(ctx, tx, laps)
		return err
	})
	return count, err
}
