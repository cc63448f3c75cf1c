package model

// Types produced by the comparison engine.

// RawLapTime is a bare lap-time entry of the comparison driver.
type RawLapTime struct {
	LapNo     int `json:"lapNo"`
	LapTimeMs int `json:"lapTimeMs"`
}

// LapComparisonEntry aligns one lap number across both drivers. A missing or
// non-positive lap time on either side leaves the pointer nil and does not
// advance that side's cumulative.
type LapComparisonEntry struct {
	LapNo       int  `json:"lapNo"`
	TargetMs    *int `json:"targetMs,omitempty"`
	CompMs      *int `json:"compMs,omitempty"`
	TargetCumMs *int `json:"targetCumMs,omitempty"`
	CompCumMs   *int `json:"compCumMs,omitempty"`
	DeltaMs     *int `json:"deltaMs,omitempty"` // positive = target behind comparison
}

// status tags used by the overlay
const (
	StatusSafetyCar        = "safetyCar"
	StatusVirtualSafetyCar = "virtualSafetyCar"
	StatusYellowFlag       = "yellowFlag"
	StatusWetWeather       = "wetWeather"
)

// StatusSegment is a contiguous run of laps sharing the exact same status set.
type StatusSegment struct {
	StartLap int      `json:"startLap"`
	EndLap   int      `json:"endLap"`
	Tags     []string `json:"tags"`
}

// StatusOverlay carries the segments plus the distinct tags seen anywhere.
type StatusOverlay struct {
	Segments []StatusSegment `json:"segments"`
	Legend   []string        `json:"legend"`
}

// TireWearComparisonEntry aligns the average four-corner wear of one lap
// across both drivers.
type TireWearComparisonEntry struct {
	LapNo      int      `json:"lapNo"`
	TargetWear *float64 `json:"targetWear,omitempty"`
	CompWear   *float64 `json:"compWear,omitempty"`
}

// ComparisonData is the full driver-vs-driver overlay.
type ComparisonData struct {
	Laps     []LapComparisonEntry      `json:"laps"`
	Overlay  StatusOverlay             `json:"overlay"`
	TireWear []TireWearComparisonEntry `json:"tireWear,omitempty"`
}
