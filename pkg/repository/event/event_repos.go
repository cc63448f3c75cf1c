package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racelap/racelap-ingest-go/pkg/model"
	"github.com/racelap/racelap-ingest-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, event *model.DbEvent) (
	*model.DbEvent, error,
) {
	row := conn.QueryRow(ctx, `
	insert into event (season_id, track_name, name)
	values ($1,$2,$3)
	returning id,record_stamp
	`, event.SeasonID, event.TrackName, event.Name)
	if err := row.Scan(&event.ID, &event.RecordStamp); err != nil {
		return nil, err
	}
	return event, nil
}

// LoadCurrent returns the most recently created event of a season.
func LoadCurrent(ctx context.Context, conn repository.Querier, seasonID int) (
	*model.DbEvent, error,
) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where season_id=$1 order by record_stamp desc, id desc limit 1",
			selector),
		seasonID)
	var event model.DbEvent
	if err := scan(&event, row); err != nil {
		return nil, err
	}
	return &event, nil
}

// FindOrCreateByTrack resolves the season's event for a track, creating it on
// first sight of that track.
func FindOrCreateByTrack(
	ctx context.Context, conn repository.Querier, seasonID int, trackName string,
) (*model.DbEvent, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where season_id=$1 and track_name=$2", selector),
		seasonID, trackName)
	var event model.DbEvent
	err := scan(&event, row)
	if err == nil {
		return &event, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return Create(ctx, conn, &model.DbEvent{
		SeasonID:  seasonID,
		TrackName: trackName,
		Name:      trackName,
	})
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (*model.DbEvent, error) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	var event model.DbEvent
	if err := scan(&event, row); err != nil {
		return nil, err
	}
	return &event, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from event where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// little helper
const selector = string(`
select id, season_id, track_name, coalesce(name,''), record_stamp from event
`)

func scan(e *model.DbEvent, row pgx.Row) error {
	return row.Scan(&e.ID, &e.SeasonID, &e.TrackName, &e.Name, &e.RecordStamp)
}
