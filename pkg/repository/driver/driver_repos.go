package driver

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, driver *model.DbDriver) (
	*model.DbDriver, error,
) {
	row := conn.QueryRow(ctx, `
	insert into driver (name, external_id) values ($1,$2)
	returning id
	`, driver.Name, driver.ExternalID)
	if err := row.Scan(&driver.ID); err != nil {
		return nil, err
	}
	return driver, nil
}

func LoadAll(ctx context.Context, conn repository.Querier) ([]*model.DbDriver, error) {
	rows, err := conn.Query(ctx, fmt.Sprintf("%s order by id asc", selector))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.DbDriver, 0)
	for rows.Next() {
		var item model.DbDriver
		if err := scan(&item, rows); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

// LoadByExternalIDs returns all known drivers keyed by their stable external
// identifier. This is the index the identity resolver matches slot names
// against.
func LoadByExternalIDs(ctx context.Context, conn repository.Querier) (
	map[string]*model.DbDriver, error,
) {
	all, err := LoadAll(ctx, conn)
	if err != nil {
		return nil, err
	}
	ret := make(map[string]*model.DbDriver, len(all))
	for _, d := range all {
		ret[d.ExternalID] = d
	}
	return ret, nil
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (*model.DbDriver, error) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	var item model.DbDriver
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from driver where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// little helper
const selector = string(`select id, name, external_id from driver`)

func scan(e *model.DbDriver, row pgx.Row) error {
	return row.Scan(&e.ID, &e.Name, &e.ExternalID)
}
