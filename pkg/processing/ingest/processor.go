package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// Store is the persistence capability the pipeline consumes. It is
// implemented by the service layer; tests provide fakes.
type Store interface {
	DriversByExternalID(ctx context.Context) (map[string]*model.DbDriver, error)
	ActiveSeason(ctx context.Context) (*model.DbSeason, error)
	CurrentEvent(ctx context.Context, seasonID int) (*model.DbEvent, error)
	FindOrCreateEventByTrack(
		ctx context.Context, seasonID int, trackName string,
	) (*model.DbEvent, error)
	CreateParticipant(ctx context.Context, participant *model.DbParticipant) error
	CreateSessionResult(
		ctx context.Context, result *model.DbSessionResult,
	) (*model.DbSessionResult, error)
	CreateTyreStint(ctx context.Context, stint *model.DbTyreStint) error
	BulkInsertLaps(ctx context.Context, laps []*model.DbLap) (int, error)
}

// FlushSummary describes one completed session flush.
type FlushSummary struct {
	IngestID   string `json:"ingestId"`
	SessionUID uint64 `json:"sessionUid"`
	LapCount   int    `json:"lapCount"`
	Drivers    int    `json:"drivers"`
}

type FlushHook func(summary FlushSummary)

type handlerFunc func(ctx context.Context, packet model.Packet)

// Processor is the ingestion pipeline: identity resolution, live lap
// buffering and session flush. Packets are dispatched by kind; the dispatch
// loop is single threaded per session, the mutex only guards the getters and
// the stop/reset path.
type Processor struct {
	mu         sync.Mutex
	sessionCtx *SessionContext
	buffer     *LapBuffer
	store      Store
	handlers   map[model.PacketKind]handlerFunc
	flushHook  FlushHook
	ingestID   string
	running    bool
	l          *log.Logger
}

type ProcessorOption func(p *Processor)

func WithStore(store Store) ProcessorOption {
	return func(p *Processor) {
		p.store = store
	}
}

func WithFlushHook(hook FlushHook) ProcessorOption {
	return func(p *Processor) {
		p.flushHook = hook
	}
}

func WithLogger(l *log.Logger) ProcessorOption {
	return func(p *Processor) {
		p.l = l
	}
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		sessionCtx: newSessionContext(),
		buffer:     NewLapBuffer(),
		ingestID:   uuid.NewString(),
		l:          log.GetLogger("ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.handlers = map[model.PacketKind]handlerFunc{
		model.PacketKindSession:             p.handleSession,
		model.PacketKindParticipants:        p.handleParticipants,
		model.PacketKindSessionHistory:      p.handleSessionHistory,
		model.PacketKindFinalClassification: p.handleFinalClassification,
	}
	return p
}

// Start loads the active season and the season's current event. A missing
// season is not fatal here: packets will be skipped until one is configured.
func (p *Processor) Start(ctx context.Context) error {
	season, err := p.store.ActiveSeason(ctx)
	if err != nil {
		return fmt.Errorf("loading active season: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionCtx.season = season
	if season != nil {
		if event, err := p.store.CurrentEvent(ctx, season.ID); err == nil {
			p.sessionCtx.currentEvent = event
		} else {
			p.l.Warn("no current event for season",
				log.Int("seasonId", season.ID), log.ErrorField(err))
		}
	}
	p.running = true
	p.l.Info("ingest processor started", log.String("ingestId", p.ingestID))
	return nil
}

// Process dispatches one decoded packet. Unknown kinds are ignored.
func (p *Processor) Process(ctx context.Context, packet model.Packet) {
	handler, ok := p.handlers[packet.Kind()]
	if !ok {
		p.l.Debug("no handler for packet", log.String("kind", packet.Kind().String()))
		return
	}
	handler(ctx, packet)
}

// Stop flushes the buffer and clears the session state atomically. A flush
// failure is returned to the caller; the buffer stays populated for a retry.
func (p *Processor) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.flushLocked(ctx); err != nil {
		return err
	}
	p.sessionCtx.reset()
	p.running = false
	p.l.Info("ingest processor stopped", log.String("ingestId", p.ingestID))
	return nil
}

// Flush performs the one-time bulk persist of the buffered laps.
func (p *Processor) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked(ctx)
}

func (p *Processor) flushLocked(ctx context.Context) error {
	if p.buffer.Empty() {
		return nil
	}
	drivers := p.buffer.Drivers()
	count, err := p.buffer.Flush(ctx, p.store)
	if err != nil {
		return fmt.Errorf("flushing lap buffer: %w", err)
	}
	p.l.Info("session flushed",
		log.Uint64("sessionUid", p.sessionCtx.sessionUID),
		log.Int("laps", count),
		log.Int("drivers", drivers))
	if p.flushHook != nil {
		p.flushHook(FlushSummary{
			IngestID:   p.ingestID,
			SessionUID: p.sessionCtx.sessionUID,
			LapCount:   count,
			Drivers:    drivers,
		})
	}
	return nil
}

// handleSession resolves the current event from the track of the session
// packet. A missing season or unresolvable event is a configuration gap:
// logged, packet skipped.
func (p *Processor) handleSession(ctx context.Context, packet model.Packet) {
	data := packet.(*model.SessionData)
	if p.sessionCtx.season == nil {
		p.l.Warn("no active season configured, skipping session packet")
		return
	}
	if data.TrackName == "" {
		return
	}
	event, err := p.store.FindOrCreateEventByTrack(
		ctx, p.sessionCtx.season.ID, data.TrackName)
	if err != nil {
		p.l.Warn("could not resolve event for track",
			log.String("track", data.TrackName), log.ErrorField(err))
		return
	}
	p.sessionCtx.currentEvent = event
}

func (p *Processor) handleParticipants(ctx context.Context, packet model.Packet) {
	p.resolveParticipants(ctx, packet.(*model.ParticipantsData))
}

// handleSessionHistory buffers the packet's full per-lap array as one
// fragment under the mapped driver. Unmapped slots are dropped silently.
func (p *Processor) handleSessionHistory(_ context.Context, packet model.Packet) {
	data := packet.(*model.SessionHistoryData)
	driverID, ok := p.sessionCtx.driverForSlot(data.CarIdx)
	if !ok {
		return
	}
	laps := make([]model.LapHistoryEntry, len(data.LapHistory))
	copy(laps, data.LapHistory)
	p.buffer.Append(driverID, Fragment{
		SessionUID:  data.SessionUID,
		SessionTime: data.SessionTime,
		FrameID:     data.FrameID,
		Laps:        laps,
	})
}

// handleFinalClassification persists one result row plus its tyre stints per
// mapped slot, then flushes the buffer. Per-entity failures are logged with
// the failing index and do not abort the rest of the batch.
func (p *Processor) handleFinalClassification(ctx context.Context, packet model.Packet) {
	data := packet.(*model.FinalClassificationData)
	eventID := 0
	if p.sessionCtx.currentEvent != nil {
		eventID = p.sessionCtx.currentEvent.ID
	}
	for idx := range data.Classification {
		driverID, ok := p.sessionCtx.driverForSlot(idx)
		if !ok {
			continue
		}
		entry := &data.Classification[idx]
		result := &model.DbSessionResult{
			DriverID:      driverID,
			EventID:       eventID,
			Position:      entry.Position,
			NumLaps:       entry.NumLaps,
			GridPosition:  entry.GridPosition,
			Points:        entry.Points,
			NumPitStops:   entry.NumPitStops,
			ResultStatus:  entry.ResultStatus,
			BestLapTimeMs: int(entry.BestLapTimeMs),
			TotalRaceTime: entry.TotalRaceTime,
			PenaltiesTime: entry.PenaltiesTime,
			NumPenalties:  entry.NumPenalties,
			NumTyreStints: entry.NumTyreStints,
			SessionUID:    mytypes.SessionUID(data.SessionUID),
		}
		created, err := p.store.CreateSessionResult(ctx, result)
		if err != nil {
			p.l.Error("could not persist session result",
				log.Int("vehicleIdx", idx), log.ErrorField(err))
			continue
		}
		p.persistTyreStints(ctx, created.ID, idx, entry, data.SessionUID)
	}
	if err := p.Flush(ctx); err != nil {
		p.l.Error("flush after final classification failed", log.ErrorField(err))
	}
}

func (p *Processor) persistTyreStints(
	ctx context.Context,
	resultID, vehicleIdx int,
	entry *model.FinalClassificationEntry,
	sessionUID uint64,
) {
	for stint := 0; stint < entry.NumTyreStints && stint < len(entry.TyreStintsEndLaps); stint++ {
		record := &model.DbTyreStint{
			ResultID:   resultID,
			StintNo:    stint + 1,
			EndLap:     int(entry.TyreStintsEndLaps[stint]),
			SessionUID: mytypes.SessionUID(sessionUID),
		}
		if stint < len(entry.TyreStintsActual) {
			record.ActualCompound = int(entry.TyreStintsActual[stint])
		}
		if stint < len(entry.TyreStintsVisual) {
			record.VisualCompound = int(entry.TyreStintsVisual[stint])
		}
		if err := p.store.CreateTyreStint(ctx, record); err != nil {
			p.l.Error("could not persist tyre stint",
				log.Int("vehicleIdx", vehicleIdx),
				log.Int("stint", stint+1),
				log.ErrorField(err))
		}
	}
}

// simple getters/setters; no side effects beyond the in-memory state

func (p *Processor) SetSeason(season *model.DbSeason) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionCtx.season = season
}

func (p *Processor) SetCurrentEvent(event *model.DbEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionCtx.currentEvent = event
}

func (p *Processor) SessionUID() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionCtx.sessionUID
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Mapping returns a copy of the current slot→driver table.
func (p *Processor) Mapping() map[int]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	ret := make(map[int]int, len(p.sessionCtx.slots))
	for k, v := range p.sessionCtx.slots {
		ret[k] = v
	}
	return ret
}
