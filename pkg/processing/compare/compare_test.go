//nolint:funlen // table tests
package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

func intPtr(v int) *int { return &v }

func targetLaps(timesMs ...int) []model.DriverLap {
	ret := make([]model.DriverLap, 0, len(timesMs))
	for i, t := range timesMs {
		ret = append(ret, model.DriverLap{LapNo: i + 1, LapTimeMs: t})
	}
	return ret
}

func compLaps(timesMs ...int) []model.RawLapTime {
	ret := make([]model.RawLapTime, 0, len(timesMs))
	for i, t := range timesMs {
		ret = append(ret, model.RawLapTime{LapNo: i + 1, LapTimeMs: t})
	}
	return ret
}

func TestLapDeltas(t *testing.T) {
	data := NewComparer(
		WithTargetLaps(targetLaps(91000, 90500)),
		WithComparisonLaps(compLaps(90000, 89500)),
	).Compute()

	want := []model.LapComparisonEntry{
		{
			LapNo:    1,
			TargetMs: intPtr(91000), CompMs: intPtr(90000),
			TargetCumMs: intPtr(91000), CompCumMs: intPtr(90000),
			DeltaMs: intPtr(1000),
		},
		{
			LapNo:    2,
			TargetMs: intPtr(90500), CompMs: intPtr(89500),
			TargetCumMs: intPtr(181500), CompCumMs: intPtr(179500),
			DeltaMs: intPtr(2000),
		},
	}
	if diff := cmp.Diff(want, data.Laps); diff != "" {
		t.Errorf("lap deltas mismatch (-want +got):\n%s", diff)
	}
}

func TestLapDeltasWithGaps(t *testing.T) {
	// comparison driver has no valid lap 2; its cumulative must not advance
	// and no delta is emitted for that lap
	data := NewComparer(
		WithTargetLaps(targetLaps(91000, 90500, 91200)),
		WithComparisonLaps(compLaps(90000, 0, 89800)),
	).Compute()

	want := []model.LapComparisonEntry{
		{
			LapNo:    1,
			TargetMs: intPtr(91000), CompMs: intPtr(90000),
			TargetCumMs: intPtr(91000), CompCumMs: intPtr(90000),
			DeltaMs: intPtr(1000),
		},
		{
			LapNo:       2,
			TargetMs:    intPtr(90500),
			TargetCumMs: intPtr(181500),
		},
		{
			LapNo:    3,
			TargetMs: intPtr(91200), CompMs: intPtr(89800),
			TargetCumMs: intPtr(272700), CompCumMs: intPtr(179800),
			DeltaMs: intPtr(92900),
		},
	}
	if diff := cmp.Diff(want, data.Laps); diff != "" {
		t.Errorf("lap deltas mismatch (-want +got):\n%s", diff)
	}
}

func TestLapDeltasDisjointLapCounts(t *testing.T) {
	data := NewComparer(
		WithTargetLaps(targetLaps(91000)),
		WithComparisonLaps(compLaps(90000, 89500)),
	).Compute()

	if len(data.Laps) != 2 {
		t.Fatalf("expected union of lap numbers, got %d entries", len(data.Laps))
	}
	if data.Laps[1].TargetMs != nil {
		t.Errorf("lap 2 has no target time, got %v", *data.Laps[1].TargetMs)
	}
	if data.Laps[1].DeltaMs != nil {
		t.Errorf("lap 2 must not carry a delta, got %v", *data.Laps[1].DeltaMs)
	}
}

func TestStatusOverlaySegments(t *testing.T) {
	laps := []model.DriverLap{
		{LapNo: 1, LapTimeMs: 91000, FlagStatus: "yellow"},
		{LapNo: 2, LapTimeMs: 90900, FlagStatus: "yellow"},
		{LapNo: 3, LapTimeMs: 90800, FlagStatus: "yellow"},
		{LapNo: 4, LapTimeMs: 90700},
		{LapNo: 5, LapTimeMs: 90600, FlagStatus: "yellow"},
		{LapNo: 6, LapTimeMs: 90500, FlagStatus: "yellow"},
	}
	data := NewComparer(WithTargetLaps(laps)).Compute()

	want := model.StatusOverlay{
		Segments: []model.StatusSegment{
			{StartLap: 1, EndLap: 3, Tags: []string{model.StatusYellowFlag}},
			{StartLap: 5, EndLap: 6, Tags: []string{model.StatusYellowFlag}},
		},
		Legend: []string{model.StatusYellowFlag},
	}
	if diff := cmp.Diff(want, data.Overlay); diff != "" {
		t.Errorf("overlay mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusOverlaySplitsOnChangedTagSet(t *testing.T) {
	laps := []model.DriverLap{
		{LapNo: 1, LapTimeMs: 91000, SafetyCar: true},
		{LapNo: 2, LapTimeMs: 90900, SafetyCar: true, WetWeather: true},
		{LapNo: 3, LapTimeMs: 90800, WetWeather: true},
	}
	data := NewComparer(WithTargetLaps(laps)).Compute()

	want := model.StatusOverlay{
		Segments: []model.StatusSegment{
			{StartLap: 1, EndLap: 1, Tags: []string{model.StatusSafetyCar}},
			{StartLap: 2, EndLap: 2, Tags: []string{
				model.StatusSafetyCar, model.StatusWetWeather,
			}},
			{StartLap: 3, EndLap: 3, Tags: []string{model.StatusWetWeather}},
		},
		Legend: []string{model.StatusSafetyCar, model.StatusWetWeather},
	}
	if diff := cmp.Diff(want, data.Overlay); diff != "" {
		t.Errorf("overlay mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusOverlaySplitsOnMissingLap(t *testing.T) {
	// lap 4 is absent from the input entirely, not just tag-free
	laps := []model.DriverLap{
		{LapNo: 3, LapTimeMs: 90800, FlagStatus: "yellow"},
		{LapNo: 5, LapTimeMs: 90600, FlagStatus: "yellow"},
		{LapNo: 6, LapTimeMs: 90500, FlagStatus: "yellow"},
	}
	data := NewComparer(WithTargetLaps(laps)).Compute()

	want := model.StatusOverlay{
		Segments: []model.StatusSegment{
			{StartLap: 3, EndLap: 3, Tags: []string{model.StatusYellowFlag}},
			{StartLap: 5, EndLap: 6, Tags: []string{model.StatusYellowFlag}},
		},
		Legend: []string{model.StatusYellowFlag},
	}
	if diff := cmp.Diff(want, data.Overlay); diff != "" {
		t.Errorf("overlay mismatch (-want +got):\n%s", diff)
	}
}

func TestTireWearComparison(t *testing.T) {
	target := []model.DriverLap{
		{LapNo: 1, LapTimeMs: 91000, TyreWear: &[4]float64{10, 10, 12, 12}},
	}
	comp := []model.DriverLap{
		{LapNo: 1, LapTimeMs: 90000, TyreWear: &[4]float64{8, 8, 10, 10}},
		{LapNo: 2, LapTimeMs: 89500, TyreWear: &[4]float64{11, 11, 13, 13}},
	}
	data := NewComparer(
		WithTargetLaps(target),
		WithComparisonWearLaps(comp),
	).Compute()

	if len(data.TireWear) != 2 {
		t.Fatalf("expected 2 wear entries, got %d", len(data.TireWear))
	}
	first := data.TireWear[0]
	if first.TargetWear == nil || *first.TargetWear != 11 {
		t.Errorf("target wear lap 1: want 11, got %v", first.TargetWear)
	}
	if first.CompWear == nil || *first.CompWear != 9 {
		t.Errorf("comp wear lap 1: want 9, got %v", first.CompWear)
	}
	second := data.TireWear[1]
	if second.TargetWear != nil {
		t.Errorf("target has no lap 2 wear, got %v", *second.TargetWear)
	}
}
