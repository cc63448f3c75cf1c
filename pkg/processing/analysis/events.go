package analysis

import (
	"strings"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// computeEvents counts race-condition laps among the valid laps only.
func (a *Analyzer) computeEvents() model.RaceEvents {
	ret := model.RaceEvents{}
	for i := range a.laps {
		l := &a.laps[i]
		if !l.Valid() {
			continue
		}
		if l.PitStop {
			ret.PitStops++
		}
		if l.SafetyCar {
			ret.SafetyCarLaps++
		}
		if l.VirtualSafetyCar {
			ret.VirtualSafetyLaps++
		}
		if isYellowFlag(l.FlagStatus) {
			ret.YellowFlagLaps++
		}
	}
	return ret
}

// isYellowFlag matches flag text containing a yellow marker; the explicit
// "none" sentinel never matches.
func isYellowFlag(flag string) bool {
	if flag == "" {
		return false
	}
	lower := strings.ToLower(flag)
	if lower == "none" {
		return false
	}
	return strings.Contains(lower, "yellow")
}
