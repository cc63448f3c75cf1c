package ingest

import (
	"context"
	"strings"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// resolveParticipants rebuilds the slot→driver table from a participants
// packet (full replace). Slots with blank names or names not matching a known
// driver are left unmapped; that is expected for AI-controlled or unused
// slots. One participant record is persisted per mapped slot; a failing slot
// is logged and does not abort the rest.
func (p *Processor) resolveParticipants(ctx context.Context, data *model.ParticipantsData) {
	if p.sessionCtx.season == nil {
		p.l.Warn("no active season configured, skipping participants packet",
			log.Uint64("sessionUid", data.SessionUID))
		return
	}

	drivers, err := p.store.DriversByExternalID(ctx)
	if err != nil {
		p.l.Error("could not load known drivers", log.ErrorField(err))
		return
	}

	p.sessionCtx.sessionUID = data.SessionUID

	eventID := 0
	if p.sessionCtx.currentEvent != nil {
		eventID = p.sessionCtx.currentEvent.ID
	}

	slots := make(map[int]int)
	for idx, entry := range data.Participants {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		driver, ok := drivers[name]
		if !ok {
			continue
		}
		slots[idx] = driver.ID
		participant := &model.DbParticipant{
			DriverID:     driver.ID,
			EventID:      eventID,
			SessionUID:   mytypes.SessionUID(data.SessionUID),
			VehicleIdx:   idx,
			AIControlled: entry.AIControlled,
			NumericID:    entry.DriverID,
			NetworkID:    entry.NetworkID,
			TeamID:       entry.TeamID,
			RaceNumber:   entry.RaceNumber,
			Platform:     entry.Platform,
		}
		if err := p.store.CreateParticipant(ctx, participant); err != nil {
			p.l.Error("could not persist participant",
				log.Int("vehicleIdx", idx),
				log.String("driver", name),
				log.ErrorField(err))
		}
	}
	p.sessionCtx.replaceMapping(slots)
	p.l.Info("participants resolved",
		log.Uint64("sessionUid", data.SessionUID),
		log.Int("mapped", len(slots)),
		log.Int("slots", len(data.Participants)))
}
