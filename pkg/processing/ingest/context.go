package ingest

import (
	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// SessionContext holds the process-wide mutable state scoped to the current
// session: the active season, the optional current event, the session UID
// captured from the telemetry source and the slot→driver mapping. It is owned
// by the Processor and reset atomically on stop/restart.
type SessionContext struct {
	season       *model.DbSeason
	currentEvent *model.DbEvent
	sessionUID   uint64
	// vehicle slot index → driver id, valid for the current session only
	slots map[int]int
}

func newSessionContext() *SessionContext {
	return &SessionContext{slots: make(map[int]int)}
}

// replaceMapping installs a freshly resolved slot table (full replace).
func (s *SessionContext) replaceMapping(slots map[int]int) {
	s.slots = slots
}

func (s *SessionContext) driverForSlot(slot int) (int, bool) {
	driverID, ok := s.slots[slot]
	return driverID, ok
}

func (s *SessionContext) reset() {
	s.sessionUID = 0
	s.currentEvent = nil
	s.slots = make(map[int]int)
}
