package model

import (
	"time"

	"github.com/racelap/racelap-ingest-go/pkg/db/mytypes"
)

// database rows

type DbDriver struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ExternalID string `json:"externalId"` // stable identifier used to match participant names
}

type DbSeason struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type DbEvent struct {
	ID          int       `json:"id"`
	SeasonID    int       `json:"seasonId"`
	TrackName   string    `json:"trackName"`
	Name        string    `json:"name"`
	RecordStamp time.Time `json:"recordStamp"`
}

// DbParticipant records the slot→driver resolution of one participants packet.
type DbParticipant struct {
	ID           int                `json:"id"`
	DriverID     int                `json:"driverId"`
	EventID      int                `json:"eventId"`
	SessionUID   mytypes.SessionUID `json:"sessionUid"`
	VehicleIdx   int                `json:"vehicleIdx"`
	AIControlled bool               `json:"aiControlled"`
	NumericID    int                `json:"numericId"`
	NetworkID    int                `json:"networkId"`
	TeamID       int                `json:"teamId"`
	RaceNumber   int                `json:"raceNumber"`
	Platform     int                `json:"platform"`
}

// DbLap is one persisted lap record. Sector times keep the source split of a
// millisecond part plus a whole-minutes part.
type DbLap struct {
	ID             int                `json:"id"`
	DriverID       int                `json:"driverId"`
	LapNo          int                `json:"lapNo"` // 1-based
	LapTimeMs      int                `json:"lapTimeMs"`
	Sector1Ms      int                `json:"sector1Ms"`
	Sector1Minutes int                `json:"sector1Minutes"`
	Sector2Ms      int                `json:"sector2Ms"`
	Sector2Minutes int                `json:"sector2Minutes"`
	Sector3Ms      int                `json:"sector3Ms"`
	Sector3Minutes int                `json:"sector3Minutes"`
	ValidBitFlags  int                `json:"validBitFlags"`
	SessionUID     mytypes.SessionUID `json:"sessionUid"`
	SessionTime    float64            `json:"sessionTime"`
	FrameID        uint32             `json:"frameId"`
}

type DbSessionResult struct {
	ID            int                `json:"id"`
	DriverID      int                `json:"driverId"`
	EventID       int                `json:"eventId"`
	Position      int                `json:"position"`
	NumLaps       int                `json:"numLaps"`
	GridPosition  int                `json:"gridPosition"`
	Points        int                `json:"points"`
	NumPitStops   int                `json:"numPitStops"`
	ResultStatus  int                `json:"resultStatus"`
	BestLapTimeMs int                `json:"bestLapTimeMs"`
	TotalRaceTime float64            `json:"totalRaceTime"`
	PenaltiesTime int                `json:"penaltiesTime"`
	NumPenalties  int                `json:"numPenalties"`
	NumTyreStints int                `json:"numTyreStints"`
	SessionUID    mytypes.SessionUID `json:"sessionUid"`
}

type DbTyreStint struct {
	ID             int                `json:"id"`
	ResultID       int                `json:"resultId"`
	StintNo        int                `json:"stintNo"` // 1-based
	EndLap         int                `json:"endLap"`
	ActualCompound int                `json:"actualCompound"`
	VisualCompound int                `json:"visualCompound"`
	SessionUID     mytypes.SessionUID `json:"sessionUid"`
}
