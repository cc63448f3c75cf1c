package stint

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, s *model.DbTyreStint) (
	*model.DbTyreStint, error,
) {
	row := conn.QueryRow(ctx, `
	insert into tyre_stint
	(result_id, stint_no, end_lap, actual_compound, visual_compound, session_uid)
	values ($1,$2,$3,$4,$5,$6)
	returning id
	`, s.ResultID, s.StintNo, s.EndLap, s.ActualCompound, s.VisualCompound,
		s.SessionUID)
	if err := row.Scan(&s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func LoadByResult(ctx context.Context, conn repository.Querier, resultID int) (
	[]*model.DbTyreStint, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where result_id=$1 order by stint_no asc", selector), resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.DbTyreStint, 0)
	for rows.Next() {
		var item model.DbTyreStint
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// little helper
const selector = string(`
select id, result_id, stint_no, end_lap, actual_compound, visual_compound,
 session_uid
from tyre_stint
`)

func scan(e *model.DbTyreStint, row pgx.Row) error {
	return row.Scan(&e.ID, &e.ResultID, &e.StintNo, &e.EndLap,
		&e.ActualCompound, &e.VisualCompound, &e.SessionUID)
}
