//nolint:errcheck // ok for this test code
package participant

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/testsupport/basedata"
	"github.com/racelap/racelap-ingest-go/testsupport/testdb"
)

func createEntry(
	t *testing.T, pool *pgxpool.Pool, p *model.DbParticipant,
) *model.DbParticipant {
	t.Helper()
	err := pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		_, err := Create(context.Background(), tx, p)
		return err
	})
	assert.NilError(t, err)
	return p
}

func TestCreateAndLoadBySessionUID(t *testing.T) {
	pool := testdb.InitTestDb()
	season := basedata.CreateSampleSeason(pool)
	event := basedata.CreateSampleEvent(pool, season.ID)
	alice := basedata.CreateSampleDriver(pool, "Alice", "alice-42")
	bob := basedata.CreateSampleDriver(pool, "Bob", "bob-11")

	const sessionUID = mytypes.SessionUID(basedata.SampleSessionUID)
	createEntry(t, pool, &model.DbParticipant{
		DriverID: bob.ID, EventID: event.ID, SessionUID: sessionUID,
		VehicleIdx: 3, TeamID: 1, RaceNumber: 11,
	})
	created := createEntry(t, pool, &model.DbParticipant{
		DriverID: alice.ID, EventID: event.ID, SessionUID: sessionUID,
		VehicleIdx: 0, TeamID: 2, RaceNumber: 42,
	})
	assert.Assert(t, created.ID > 0)
	// same driver in another session must not show up below
	createEntry(t, pool, &model.DbParticipant{
		DriverID: alice.ID, EventID: event.ID, SessionUID: sessionUID + 1,
		VehicleIdx: 7,
	})

	loaded, err := LoadBySessionUID(context.Background(), pool, sessionUID)
	assert.NilError(t, err)
	assert.Equal(t, 2, len(loaded))
	// ordered by vehicle idx
	assert.Equal(t, alice.ID, loaded[0].DriverID)
	assert.Equal(t, 0, loaded[0].VehicleIdx)
	assert.Equal(t, 42, loaded[0].RaceNumber)
	assert.Equal(t, bob.ID, loaded[1].DriverID)
	assert.Equal(t, 3, loaded[1].VehicleIdx)
	assert.Equal(t, sessionUID, loaded[1].SessionUID)
}
