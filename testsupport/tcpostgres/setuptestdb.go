//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/racelap/racelap-ingest-go/pkg/db/migrate"
	database "github.com/racelap/racelap-ingest-go/pkg/db/postgres"
)

// create a pg connection pool for the racelap testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("racelap-ingest-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}

	return database.InitWithURL(dbURL)
}

// SetupExternalTestDb connects to the database from TESTDB_URL. Used on CI
// where a database service is already running.
func SetupExternalTestDb() *pgxpool.Pool {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearLapTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from lap")
}

func ClearTyreStintTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from tyre_stint")
}

func ClearSessionResultTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from session_result")
}

func ClearParticipantTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from udp_participant")
}

func ClearEventTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from event")
}

func ClearDriverTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from driver")
}

func ClearSeasonTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from season")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearTyreStintTable(pool)
	ClearSessionResultTable(pool)
	ClearLapTable(pool)
	ClearParticipantTable(pool)
	ClearEventTable(pool)
	ClearDriverTable(pool)
	ClearSeasonTable(pool)
}
