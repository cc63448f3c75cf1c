package lap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository"
)

// BulkInsert writes all laps of a session flush in one copy operation.
func BulkInsert(ctx context.Context, conn repository.BulkQuerier, laps []*model.DbLap) (
	int, error,
) {
	rows := make([][]interface{}, 0, len(laps))
	for _, l := range laps {
		rows = append(rows, []interface{}{
			l.DriverID, l.LapNo, l.LapTimeMs,
			l.Sector1Ms, l.Sector1Minutes,
			l.Sector2Ms, l.Sector2Minutes,
			l.Sector3Ms, l.Sector3Minutes,
			l.ValidBitFlags, l.SessionUID, l.SessionTime, l.FrameID,
		})
	}
	count, err := conn.CopyFrom(ctx,
		pgx.Identifier{"lap"},
		[]string{
			"driver_id", "lap_no", "lap_time_ms",
			"sector1_ms", "sector1_minutes",
			"sector2_ms", "sector2_minutes",
			"sector3_ms", "sector3_minutes",
			"valid_bit_flags", "session_uid", "session_time", "frame_id",
		},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func LoadByDriver(ctx context.Context, conn repository.Querier, driverID int) (
	[]*model.DbLap, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where driver_id=$1 order by lap_no asc", selector), driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func LoadByDriverAndSession(
	ctx context.Context, conn repository.Querier, driverID int, sessionUID mytypes.SessionUID,
) ([]*model.DbLap, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where driver_id=$1 and session_uid=$2 order by lap_no asc",
			selector),
		driverID, sessionUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// deletes all laps of a session, returns number of rows deleted.
func DeleteBySessionUID(
	ctx context.Context, conn repository.Querier, sessionUID mytypes.SessionUID,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from lap where session_uid=$1", sessionUID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func collect(rows pgx.Rows) ([]*model.DbLap, error) {
	ret := make([]*model.DbLap, 0)
	for rows.Next() {
		var item model.DbLap
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// little helper
const selector = string(`
select id, driver_id, lap_no, lap_time_ms,
 sector1_ms, sector1_minutes, sector2_ms, sector2_minutes,
 sector3_ms, sector3_minutes,
 valid_bit_flags, session_uid, session_time, frame_id
from lap
`)

func scan(e *model.DbLap, row pgx.Row) error {
	return row.Scan(&e.ID, &e.DriverID, &e.LapNo, &e.LapTimeMs,
		&e.Sector1Ms, &e.Sector1Minutes, &e.Sector2Ms, &e.Sector2Minutes,
		&e.Sector3Ms, &e.Sector3Minutes,
		&e.ValidBitFlags, &e.SessionUID, &e.SessionTime, &e.FrameID)
}
