package result

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, r *model.DbSessionResult) (
	*model.DbSessionResult, error,
) {
	row := conn.QueryRow(ctx, `
	insert into session_result
	(driver_id, event_id, position, num_laps, grid_position, points,
	 num_pit_stops, result_status, best_lap_time_ms, total_race_time,
	 penalties_time, num_penalties, num_tyre_stints, session_uid)
	values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	returning id
	`, r.DriverID, r.EventID, r.Position, r.NumLaps, r.GridPosition, r.Points,
		r.NumPitStops, r.ResultStatus, r.BestLapTimeMs, r.TotalRaceTime,
		r.PenaltiesTime, r.NumPenalties, r.NumTyreStints, r.SessionUID)
	if err := row.Scan(&r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

func LoadByDriverAndSession(
	ctx context.Context, conn repository.Querier, driverID int, sessionUID mytypes.SessionUID,
) (*model.DbSessionResult, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where driver_id=$1 and session_uid=$2", selector),
		driverID, sessionUID)
	var item model.DbSessionResult
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadByEvent(ctx context.Context, conn repository.Querier, eventID int) (
	[]*model.DbSessionResult, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where event_id=$1 order by position asc", selector), eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.DbSessionResult, 0)
	for rows.Next() {
		var item model.DbSessionResult
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// little helper
const selector = string(`
select id, driver_id, event_id, position, num_laps, grid_position, points,
 num_pit_stops, result_status, best_lap_time_ms, total_race_time,
 penalties_time, num_penalties, num_tyre_stints, session_uid
from session_result
`)

func scan(e *model.DbSessionResult, row pgx.Row) error {
	return row.Scan(&e.ID, &e.DriverID, &e.EventID, &e.Position, &e.NumLaps,
		&e.GridPosition, &e.Points, &e.NumPitStops, &e.ResultStatus,
		&e.BestLapTimeMs, &e.TotalRaceTime, &e.PenaltiesTime, &e.NumPenalties,
		&e.NumTyreStints, &e.SessionUID)
}
