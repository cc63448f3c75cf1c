package testdb

import (
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	tcpg "github.com/racelap/racelap-ingest-go/testsupport/tcpostgres"
)

// InitTestDb returns a pool against an empty, migrated test database. With
// TESTDB_URL set an external database is used, otherwise a container is
// started (and reused across packages).
func InitTestDb() *pgxpool.Pool {
	var pool *pgxpool.Pool
	if url := os.Getenv("TESTDB_URL"); url != "" {
		pool = tcpg.SetupExternalTestDb()
	} else {
		pool = tcpg.SetupTestDb()
	}
	if pool == nil {
		log.Fatal("could not initialize test database")
	}
	tcpg.ClearAllTables(pool)
	return pool
}
