package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository/driver"
	"github.com/racelap/racelap-ingest-go/pkg/repository/season"
)

// AdminService covers the small amount of setup data the pipeline needs:
// the active season and the driver roster used for identity resolution.
type AdminService struct {
	pool *pgxpool.Pool
}

func InitAdminService(pool *pgxpool.Pool) *AdminService {
	return &AdminService{pool: pool}
}

// CreateActiveSeason creates a season and makes it the only active one.
func (s *AdminService) CreateActiveSeason(ctx context.Context, name string) (
	*model.DbSeason, error,
) {
	var ret *model.DbSeason
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := season.DeactivateAll(ctx, tx); err != nil {
			return err
		}
		var err error
		ret, err = season.Create(ctx, tx, &model.DbSeason{Name: name, Active: true})
		return err
	})
	return ret, err
}

func (s *AdminService) AddDriver(ctx context.Context, name, externalID string) (
	*model.DbDriver, error,
) {
	var ret *model.DbDriver
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		ret, err = driver.Create(ctx, tx,
			&model.DbDriver{Name: name, ExternalID: externalID})
		return err
	})
	return ret, err
}

func (s *AdminService) ListDrivers(ctx context.Context) ([]*model.DbDriver, error) {
	return driver.LoadAll(ctx, s.pool)
}
