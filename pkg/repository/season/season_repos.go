package season

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, season *model.DbSeason) (
	*model.DbSeason, error,
) {
	row := conn.QueryRow(ctx, `
	insert into season (name, active) values ($1,$2)
	returning id
	`, season.Name, season.Active)
	if err := row.Scan(&season.ID); err != nil {
		return nil, err
	}
	return season, nil
}

// LoadActive returns the single active competitive season.
// pgx.ErrNoRows signals that none is configured.
func LoadActive(ctx context.Context, conn repository.Querier) (*model.DbSeason, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where active order by id desc limit 1", selector))
	var item model.DbSeason
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeactivateAll clears the active flag on all seasons, returns the number of
// seasons touched.
func DeactivateAll(ctx context.Context, conn repository.Querier) (int, error) {
	cmdTag, err := conn.Exec(ctx, "update season set active=false where active")
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (*model.DbSeason, error) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	var item model.DbSeason
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

// little helper
const selector = string(`select id, name, active from season`)

func scan(e *model.DbSeason, row pgx.Row) error {
	return row.Scan(&e.ID, &e.Name, &e.Active)
}
