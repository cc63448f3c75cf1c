//nolint:errcheck // ok for this test code
package season

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"gotest.tools/v3/assert"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/testsupport/testdb"
)

func TestLoadActive(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	_, err := LoadActive(ctx, pool)
	assert.Assert(t, errors.Is(err, pgx.ErrNoRows), "no season configured yet")

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		_, err := Create(ctx, tx, &model.DbSeason{Name: "2026", Active: true})
		return err
	})
	assert.NilError(t, err)

	active, err := LoadActive(ctx, pool)
	assert.NilError(t, err)
	assert.Equal(t, "2026", active.Name)
}

func TestDeactivateAll(t *testing.T) {
	pool := testdb.InitTestDb()
	ctx := context.Background()

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := Create(ctx, tx, &model.DbSeason{Name: "2025", Active: true}); err != nil {
			return err
		}
		_, err := Create(ctx, tx, &model.DbSeason{Name: "2026", Active: true})
		return err
	})
	assert.NilError(t, err)

	num, err := DeactivateAll(ctx, pool)
	assert.NilError(t, err)
	assert.Equal(t, 2, num)

	_, err = LoadActive(ctx, pool)
	assert.Assert(t, errors.Is(err, pgx.ErrNoRows))
}
