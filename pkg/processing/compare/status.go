package compare

import (
	"slices"
	"strings"

	"github.com/racelap/racelap-ingest-go/pkg/model"
)

// statusOverlay merges consecutive laps whose exact status-tag set is
// identical into contiguous segments. A lap with an empty status set
// terminates the current segment without starting a new one. The legend is
// the set of distinct individual tags observed anywhere, even tags that only
// ever appear combined with others.
func statusOverlay(laps []model.DriverLap) model.StatusOverlay {
	segments := make([]model.StatusSegment, 0)
	legend := make([]string, 0, 4)
	var current *model.StatusSegment

	for i := range laps {
		tags := lapStatusTags(&laps[i])
		for _, tag := range tags {
			if !slices.Contains(legend, tag) {
				legend = append(legend, tag)
			}
		}
		if len(tags) == 0 {
			if current != nil {
				segments = append(segments, *current)
				current = nil
			}
			continue
		}
		if current != nil && laps[i].LapNo == current.EndLap+1 &&
			slices.Equal(current.Tags, tags) {
			current.EndLap = laps[i].LapNo
			continue
		}
		if current != nil {
			segments = append(segments, *current)
		}
		current = &model.StatusSegment{
			StartLap: laps[i].LapNo,
			EndLap:   laps[i].LapNo,
			Tags:     tags,
		}
	}
	if current != nil {
		segments = append(segments, *current)
	}
	slices.Sort(legend)
	return model.StatusOverlay{Segments: segments, Legend: legend}
}

// lapStatusTags returns the active tags of a lap in a fixed order so that
// identical sets compare equal.
func lapStatusTags(l *model.DriverLap) []string {
	tags := make([]string, 0, 4)
	if l.SafetyCar {
		tags = append(tags, model.StatusSafetyCar)
	}
	if l.VirtualSafetyCar {
		tags = append(tags, model.StatusVirtualSafetyCar)
	}
	if isYellowFlag(l.FlagStatus) {
		tags = append(tags, model.StatusYellowFlag)
	}
	if l.WetWeather {
		tags = append(tags, model.StatusWetWeather)
	}
	return tags
}

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
