//nolint:errcheck // ok for this test code
package driver

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/testsupport/testdb"
)

func createEntry(t *testing.T, pool *pgxpool.Pool, name, extID string) *model.DbDriver {
	t.Helper()
	ret := &model.DbDriver{Name: name, ExternalID: extID}
	err := pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		_, err := Create(context.Background(), tx, ret)
		return err
	})
	assert.NilError(t, err)
	return ret
}

func TestCreate(t *testing.T) {
	pool := testdb.InitTestDb()
	created := createEntry(t, pool, "Alice", "alice-42")
	assert.Assert(t, created.ID > 0)

	// the external id is unique
	err := pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		_, err := Create(context.Background(), tx,
			&model.DbDriver{Name: "Other", ExternalID: "alice-42"})
		return err
	})
	assert.Assert(t, err != nil)
}

func TestLoadByExternalIDs(t *testing.T) {
	pool := testdb.InitTestDb()
	alice := createEntry(t, pool, "Alice", "alice-42")
	createEntry(t, pool, "Bob", "bob-11")

	byExtID, err := LoadByExternalIDs(context.Background(), pool)
	assert.NilError(t, err)
	assert.Equal(t, 2, len(byExtID))
	assert.Equal(t, alice.ID, byExtID["alice-42"].ID)
	assert.Equal(t, "Alice", byExtID["alice-42"].Name)
}

func TestLoadByID(t *testing.T) {
	pool := testdb.InitTestDb()
	created := createEntry(t, pool, "Alice", "alice-42")

	loaded, err := LoadByID(context.Background(), pool, created.ID)
	assert.NilError(t, err)
	assert.Equal(t, created.Name, loaded.Name)
	assert.Equal(t, created.ExternalID, loaded.ExternalID)
}

func TestDeleteByID(t *testing.T) {
	pool := testdb.InitTestDb()
	created := createEntry(t, pool, "Alice", "alice-42")

	num, err := DeleteByID(context.Background(), pool, created.ID)
	assert.NilError(t, err)
	assert.Equal(t, 1, num)
}
