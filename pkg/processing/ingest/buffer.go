package ingest

import (
	"context"

	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// Fragment is one delivery's full per-lap array for one car, tagged with the
// packet's provenance. Fragments are owned by the buffer until flush and are
// never partially persisted.
type Fragment struct {
	SessionUID  uint64
	SessionTime float64
	FrameID     uint32
	Laps        []model.LapHistoryEntry
}

// LapBuffer accumulates lap-history fragments per driver during a live
// session. Nothing is written to the store on this path; the same per-car
// history is re-sent periodically and buffering it is cheap.
type LapBuffer struct {
	fragments map[int][]Fragment // key: driver id
}

func NewLapBuffer() *LapBuffer {
	return &LapBuffer{fragments: make(map[int][]Fragment)}
}

func (b *LapBuffer) Append(driverID int, frag Fragment) {
	b.fragments[driverID] = append(b.fragments[driverID], frag)
}

func (b *LapBuffer) Empty() bool { return len(b.fragments) == 0 }

// Drivers returns the number of drivers currently buffered.
func (b *LapBuffer) Drivers() int { return len(b.fragments) }

// Flush transforms the buffered fragments into lap records and submits them
// as one bulk write. Each fragment is a full resend, so records are deduped
// by (driver, lap number) with the latest fragment winning; entries with a
// lap time of zero (lap not yet completed) are dropped. An empty buffer is a
// no-op. On persistence failure the buffer is left populated so the same
// flush can be retried; on success it is cleared.
func (b *LapBuffer) Flush(ctx context.Context, store Store) (int, error) {
	if b.Empty() {
		return 0, nil
	}
	laps := make([]*model.DbLap, 0)
	for driverID, frags := range b.fragments {
		byLapNo := make(map[int]*model.DbLap)
		for _, frag := range frags {
			for i := range frag.Laps {
				entry := &frag.Laps[i]
				if entry.LapTimeMs == 0 {
					continue
				}
				lapNo := i + 1
				byLapNo[lapNo] = &model.DbLap{
					DriverID:       driverID,
					LapNo:          lapNo,
					LapTimeMs:      int(entry.LapTimeMs),
					Sector1Ms:      int(entry.Sector1Ms),
					Sector1Minutes: int(entry.Sector1Minutes),
					Sector2Ms:      int(entry.Sector2Ms),
					Sector2Minutes: int(entry.Sector2Minutes),
					Sector3Ms:      int(entry.Sector3Ms),
					Sector3Minutes: int(entry.Sector3Minutes),
					ValidBitFlags:  int(entry.LapValidBitFlags),
					SessionUID:     mytypes.SessionUID(frag.SessionUID),
					SessionTime:    frag.SessionTime,
					FrameID:        frag.FrameID,
				}
			}
		}
		for lapNo := 1; lapNo <= maxLapNo(byLapNo); lapNo++ {
			if lap, ok := byLapNo[lapNo]; ok {
				laps = append(laps, lap)
			}
		}
	}
	if len(laps) == 0 {
		b.clear()
		return 0, nil
	}
	count, err := store.BulkInsertLaps(ctx, laps)
	if err != nil {
		return 0, err
	}
	b.clear()
	return count, nil
}

func (b *LapBuffer) clear() {
	b.fragments = make(map[int][]Fragment)
}

func maxLapNo(byLapNo map[int]*model.DbLap) int {
	maxNo := 0
	for lapNo := range byLapNo {
		if lapNo > maxNo {
			maxNo = lapNo
		}
	}
	return maxNo
}
