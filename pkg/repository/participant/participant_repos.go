package participant

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, p *model.DbParticipant) (
	*model.DbParticipant, error,
) {
	row := conn.QueryRow(ctx, `
	insert into udp_participant
	(driver_id, event_id, session_uid, vehicle_idx, ai_controlled,
	 numeric_id, network_id, team_id, race_number, platform)
	values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	returning id
	`, p.DriverID, p.EventID, p.SessionUID, p.VehicleIdx, p.AIControlled,
		p.NumericID, p.NetworkID, p.TeamID, p.RaceNumber, p.Platform)
	if err := row.Scan(&p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func LoadBySessionUID(
	ctx context.Context, conn repository.Querier, sessionUID mytypes.SessionUID,
) ([]*model.DbParticipant, error) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where session_uid=$1 order by vehicle_idx asc", selector),
		sessionUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.DbParticipant, 0)
	for rows.Next() {
		var item model.DbParticipant
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// little helper
const selector = string(`
select id, driver_id, event_id, session_uid, vehicle_idx, ai_controlled,
 numeric_id, network_id, team_id, race_number, platform
from udp_participant
`)

func scan(e *model.DbParticipant, row pgx.Row) error {
	return row.Scan(&e.ID, &e.DriverID, &e.EventID, &e.SessionUID, &e.VehicleIdx,
		&e.AIControlled, &e.NumericID, &e.NetworkID, &e.TeamID, &e.RaceNumber,
		&e.Platform)
}
