package model

import "fmt"

// Typed telemetry packets as delivered by the decoder. The wire layout of the
// UDP protocol is handled upstream; this package only sees decoded values.

type PacketKind int

const (
	PacketKindSession PacketKind = iota
	PacketKindParticipants
	PacketKindSessionHistory
	PacketKindFinalClassification
)

func (k PacketKind) String() string {
	switch k {
	case PacketKindSession:
		return "session"
	case PacketKindParticipants:
		return "participants"
	case PacketKindSessionHistory:
		return "sessionHistory"
	case PacketKindFinalClassification:
		return "finalClassification"
	default:
		return "unknown"
	}
}

// PacketHeader carries the provenance fields common to all packets.
type PacketHeader struct {
	SessionUID   uint64  `json:"sessionUid"`
	SessionTime  float64 `json:"sessionTime"` // seconds since session start
	FrameID      uint32  `json:"frameId"`
	PlayerCarIdx int     `json:"playerCarIdx"`
}

// Packet is the common interface of all decoded telemetry packets.
type Packet interface {
	Kind() PacketKind
	Header() *PacketHeader
}

type ParticipantEntry struct {
	AIControlled bool   `json:"aiControlled"`
	DriverID     int    `json:"driverId"`
	NetworkID    int    `json:"networkId"`
	TeamID       int    `json:"teamId"`
	RaceNumber   int    `json:"raceNumber"`
	Platform     int    `json:"platform"`
	Name         string `json:"name"`
}

// ParticipantsData lists one entry per vehicle slot, ordered by slot index.
type ParticipantsData struct {
	PacketHeader `json:"header"`
	NumActive    int                `json:"numActive"`
	Participants []ParticipantEntry `json:"participants"`
}

func (p *ParticipantsData) Kind() PacketKind      { return PacketKindParticipants }
func (p *ParticipantsData) Header() *PacketHeader { return &p.PacketHeader }

// LapHistoryEntry is one per-lap row of a session history packet.
// Sector times are split into a millisecond part and a whole-minutes part.
type LapHistoryEntry struct {
	LapTimeMs        uint32 `json:"lapTimeMs"`
	Sector1Ms        uint16 `json:"sector1Ms"`
	Sector1Minutes   uint8  `json:"sector1Minutes"`
	Sector2Ms        uint16 `json:"sector2Ms"`
	Sector2Minutes   uint8  `json:"sector2Minutes"`
	Sector3Ms        uint16 `json:"sector3Ms"`
	Sector3Minutes   uint8  `json:"sector3Minutes"`
	LapValidBitFlags uint8  `json:"lapValidBitFlags"`
}

const (
	LapValid     uint8 = 0x01
	Sector1Valid uint8 = 0x02
	Sector2Valid uint8 = 0x04
	Sector3Valid uint8 = 0x08
)

type TyreStintHistoryEntry struct {
	EndLap             uint8 `json:"endLap"`
	TyreActualCompound uint8 `json:"tyreActualCompound"`
	TyreVisualCompound uint8 `json:"tyreVisualCompound"`
}

// CompoundName maps a visual compound code to its display name. Unknown
// codes keep their numeric form so they stay distinguishable downstream.
func CompoundName(visual int) string {
	switch visual {
	case 16:
		return "soft"
	case 17:
		return "medium"
	case 18:
		return "hard"
	case 7:
		return "inter"
	case 8:
		return "wet"
	default:
		return fmt.Sprintf("compound-%d", visual)
	}
}

// SessionHistoryData holds the full per-lap array the source currently has
// for one car. It is re-sent periodically as laps complete.
type SessionHistoryData struct {
	PacketHeader      `json:"header"`
	CarIdx            int                     `json:"carIdx"`
	NumLaps           int                     `json:"numLaps"`
	NumTyreStints     int                     `json:"numTyreStints"`
	BestLapTimeLapNum int                     `json:"bestLapTimeLapNum"`
	LapHistory        []LapHistoryEntry       `json:"lapHistoryData"`
	TyreStints        []TyreStintHistoryEntry `json:"tyreStintsHistoryData"`
}

func (p *SessionHistoryData) Kind() PacketKind      { return PacketKindSessionHistory }
func (p *SessionHistoryData) Header() *PacketHeader { return &p.PacketHeader }

type FinalClassificationEntry struct {
	Position          int     `json:"position"`
	NumLaps           int     `json:"numLaps"`
	GridPosition      int     `json:"gridPosition"`
	Points            int     `json:"points"`
	NumPitStops       int     `json:"numPitStops"`
	ResultStatus      int     `json:"resultStatus"`
	BestLapTimeMs     uint32  `json:"bestLapTimeMs"`
	TotalRaceTime     float64 `json:"totalRaceTime"` // seconds, without penalties
	PenaltiesTime     int     `json:"penaltiesTime"` // seconds
	NumPenalties      int     `json:"numPenalties"`
	NumTyreStints     int     `json:"numTyreStints"`
	TyreStintsActual  []uint8 `json:"tyreStintsActual"`
	TyreStintsVisual  []uint8 `json:"tyreStintsVisual"`
	TyreStintsEndLaps []uint8 `json:"tyreStintsEndLaps"`
}

// FinalClassificationData is delivered once, when the session ends.
type FinalClassificationData struct {
	PacketHeader   `json:"header"`
	NumCars        int                        `json:"numCars"`
	Classification []FinalClassificationEntry `json:"classificationData"`
}

func (p *FinalClassificationData) Kind() PacketKind      { return PacketKindFinalClassification }
func (p *FinalClassificationData) Header() *PacketHeader { return &p.PacketHeader }

// SessionData carries track and weather info; used to resolve the event.
type SessionData struct {
	PacketHeader `json:"header"`
	TrackID      int    `json:"trackId"`
	TrackName    string `json:"trackName"`
	SessionType  int    `json:"sessionType"`
	Weather      int    `json:"weather"`
}

func (p *SessionData) Kind() PacketKind      { return PacketKindSession }
func (p *SessionData) Header() *PacketHeader { return &p.PacketHeader }
