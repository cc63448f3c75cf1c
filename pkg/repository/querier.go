package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//nolint:lll // ok for interface
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// BulkQuerier additionally supports pgx bulk copy; satisfied by conns,
// pools and transactions alike.
type BulkQuerier interface {
	Querier
	CopyFrom(
		ctx context.Context,
		tableName pgx.Identifier,
		columnNames []string,
		rowSrc pgx.CopyFromSource,
	) (int64, error)
}

var (
	_ BulkQuerier = (*pgx.Conn)(nil)
	_ BulkQuerier = (*pgxpool.Pool)(nil)
	_ BulkQuerier = pgx.Tx(nil)
)
