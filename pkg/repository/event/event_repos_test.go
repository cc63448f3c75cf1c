//nolint:errcheck // ok for this test code
package event_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"gotest.tools/v3/assert"

	"github.com/racelap/racelap-ingest-go/pkg/repository/event"
	"github.com/racelap/racelap-ingest-go/testsupport/basedata"
	"github.com/racelap/racelap-ingest-go/testsupport/testdb"
)

func TestFindOrCreateByTrack(t *testing.T) {
	pool := testdb.InitTestDb()
	season := basedata.CreateSampleSeason(pool)
	ctx := context.Background()

	var firstID int
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		created, err := event.FindOrCreateByTrack(ctx, tx, season.ID, "Spa")
		if err == nil {
			firstID = created.ID
		}
		return err
	})
	assert.NilError(t, err)
	assert.Assert(t, firstID > 0)

	// resolving the same track again must not create a second event
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		again, err := event.FindOrCreateByTrack(ctx, tx, season.ID, "Spa")
		if err == nil {
			assert.Equal(t, firstID, again.ID)
		}
		return err
	})
	assert.NilError(t, err)
}

func TestLoadCurrent(t *testing.T) {
	pool := testdb.InitTestDb()
	season := basedata.CreateSampleSeason(pool)
	ctx := context.Background()

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		_, err := event.FindOrCreateByTrack(ctx, tx, season.ID, "Spa")
		return err
	})
	assert.NilError(t, err)
	var latestID int
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		created, err := event.FindOrCreateByTrack(ctx, tx, season.ID, "Monza")
		if err == nil {
			latestID = created.ID
		}
		return err
	})
	assert.NilError(t, err)

	current, err := event.LoadCurrent(ctx, pool, season.ID)
	assert.NilError(t, err)
	assert.Equal(t, latestID, current.ID)
}
