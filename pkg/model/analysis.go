package model

// Input and output types of the analytics engine. All summaries are derived
// views, recomputed on demand and never persisted. Figures that may be absent
// are pointers; there are no numeric "no data" sentinels.

// DriverLap is one finalized lap of one driver, enriched with the optional
// telemetry the source reported for that lap.
type DriverLap struct {
	LapNo            int         `json:"lapNo"` // 1-based
	LapTimeMs        int         `json:"lapTimeMs"`
	Sector1Ms        int         `json:"sector1Ms"`
	Sector2Ms        int         `json:"sector2Ms"`
	Sector3Ms        int         `json:"sector3Ms"`
	TyreCompound     string      `json:"tyreCompound,omitempty"`
	TyreWear         *[4]float64 `json:"tyreWear,omitempty"` // RL, RR, FL, FR
	SafetyCar        bool        `json:"safetyCar,omitempty"`
	VirtualSafetyCar bool        `json:"virtualSafetyCar,omitempty"`
	PitStop          bool        `json:"pitStop,omitempty"`
	FlagStatus       string      `json:"flagStatus,omitempty"`
	WetWeather       bool        `json:"wetWeather,omitempty"`
	GapToLeader      float64     `json:"gapToLeader,omitempty"` // seconds
	ErsRemaining     *float64    `json:"ersRemaining,omitempty"`
	ErsDeployed      *float64    `json:"ersDeployed,omitempty"`
	ErsHarvested     *float64    `json:"ersHarvested,omitempty"`
}

// Valid reports whether the lap counts for pace/stint/event statistics.
// Wear extraction deliberately also reads invalid laps.
func (l *DriverLap) Valid() bool { return l.LapTimeMs > 0 }

// StintSegment is a contiguous lap range on one compound.
type StintSegment struct {
	StintNo  int    `json:"stintNo"`
	StartLap int    `json:"startLap"`
	EndLap   int    `json:"endLap"`
	Compound string `json:"compound"`
}

// PeerLap is another driver's summary entry in the same session, used to
// locate the session's fastest lap.
type PeerLap struct {
	DriverID      int    `json:"driverId"`
	DriverName    string `json:"driverName"`
	FastestLap    bool   `json:"fastestLap"`
	BestLapTimeMs int    `json:"bestLapTimeMs"`
}

// DriverContext is the small per-driver context the engine needs besides laps.
type DriverContext struct {
	DriverID       int     `json:"driverId"`
	GridPosition   int     `json:"gridPosition"`
	FinishPosition int     `json:"finishPosition"`
	RaceGap        float64 `json:"raceGap"` // driver-level fallback for gap to leader
}

type PaceSummary struct {
	FastestLapMs   int     `json:"fastestLapMs"`
	FastestLapNo   int     `json:"fastestLapNo"`
	SlowestLapMs   int     `json:"slowestLapMs"`
	AverageLapMs   int     `json:"averageLapMs"`   // rounded to nearest ms
	ConsistencyPct float64 `json:"consistencyPct"` // pop stddev / mean, percent, 2 decimals
	BestSector1Ms  *int    `json:"bestSector1Ms,omitempty"`
	BestSector2Ms  *int    `json:"bestSector2Ms,omitempty"`
	BestSector3Ms  *int    `json:"bestSector3Ms,omitempty"`
	ValidLaps      int     `json:"validLaps"`
}

// LapWear is the four-corner wear sample of one lap.
type LapWear struct {
	LapNo int     `json:"lapNo"`
	RL    float64 `json:"rl"`
	RR    float64 `json:"rr"`
	FL    float64 `json:"fl"`
	FR    float64 `json:"fr"`
}

func (w LapWear) Average() float64 { return (w.RL + w.RR + w.FL + w.FR) / 4 }

// StintWear is the wear consumed over one stint, averaged across corners.
type StintWear struct {
	StintNo   int     `json:"stintNo"`
	StartLap  int     `json:"startLap"`
	EndLap    int     `json:"endLap"`
	Compound  string  `json:"compound"`
	TotalWear float64 `json:"totalWear"`
	PerLap    float64 `json:"perLap"`
}

type TireWearSummary struct {
	Laps          []LapWear   `json:"laps"`
	Stints        []StintWear `json:"stints,omitempty"`
	AvgTotalWear  *float64    `json:"avgTotalWear,omitempty"` // across stints
	AvgPerLapRate *float64    `json:"avgPerLapRate,omitempty"`
	AvgCornerWear *float64    `json:"avgCornerWear,omitempty"` // across all samples
}

type ErsSummary struct {
	Laps           int      `json:"laps"` // laps carrying ERS data
	AvgRemaining   float64  `json:"avgRemaining"`
	AvgDeployed    float64  `json:"avgDeployed"`
	AvgHarvested   float64  `json:"avgHarvested"`
	TotalDeployed  float64  `json:"totalDeployed"`
	TotalHarvested float64  `json:"totalHarvested"`
	FinalRemaining *float64 `json:"finalRemaining,omitempty"`
}

// CompoundPace is the mean valid-lap pace on one compound.
type CompoundPace struct {
	Compound     string  `json:"compound"`
	Laps         int     `json:"laps"`
	AverageLapMs float64 `json:"averageLapMs"`
}

type StintSummary struct {
	Stints       int            `json:"stints"`
	AvgStintLaps float64        `json:"avgStintLaps"`
	Compounds    []string       `json:"compounds"`    // distinct, order of first use
	CompoundPace []CompoundPace `json:"compoundPace"` // sorted fastest first
}

// RaceEvents counts race-condition laps among the valid laps.
type RaceEvents struct {
	PitStops          int `json:"pitStops"`
	SafetyCarLaps     int `json:"safetyCarLaps"`
	VirtualSafetyLaps int `json:"virtualSafetyLaps"`
	YellowFlagLaps    int `json:"yellowFlagLaps"`
}

type PositionMetrics struct {
	GridPosition    int      `json:"gridPosition"`
	FinishPosition  int      `json:"finishPosition"`
	PositionsGained int      `json:"positionsGained"` // positive = gained
	GapToLeader     *float64 `json:"gapToLeader,omitempty"`
}

// SessionFastestLap identifies the session-wide fastest lap holder.
type SessionFastestLap struct {
	DriverID   int    `json:"driverId"`
	DriverName string `json:"driverName"`
	LapTimeMs  int    `json:"lapTimeMs"`
}

// AnalysisBundle is the full derived view for one driver.
type AnalysisBundle struct {
	Pace              *PaceSummary       `json:"pace,omitempty"` // nil when no valid lap exists
	TireWear          *TireWearSummary   `json:"tireWear,omitempty"`
	Ers               *ErsSummary        `json:"ers,omitempty"`
	Stints            *StintSummary      `json:"stints,omitempty"`
	Events            RaceEvents         `json:"events"`
	Position          PositionMetrics    `json:"position"`
	SessionFastestLap *SessionFastestLap `json:"sessionFastestLap,omitempty"`
}
