package schedule

import (
	"sort"
	"strings"
)

// Catalogue is the day's time slots in ascending start-time order.
type Catalogue []TimeSlot

// NewCatalogue normalizes clock strings, sorts by start time and returns the
// records it refused (empty id, unparseable times, or start not before end).
func NewCatalogue(slots []TimeSlot) (Catalogue, []TimeSlot) {
	out := make(Catalogue, 0, len(slots))
	var rejected []TimeSlot
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			rejected = append(rejected, s)
			continue
		}
		if _, dup := seen[s.ID]; dup {
			rejected = append(rejected, s)
			continue
		}
		_, _, okStart := parseClock(s.StartTime)
		_, _, okEnd := parseClock(s.EndTime)
		if !okStart || !okEnd || CompareTimeStrings(s.StartTime, s.EndTime) >= 0 {
			rejected = append(rejected, s)
			continue
		}
		s.StartTime = NormalizeClock(s.StartTime)
		s.EndTime = NormalizeClock(s.EndTime)
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out, rejected
}

func (c Catalogue) Lookup(id string) (TimeSlot, bool) {
	for _, s := range c {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}

func (c Catalogue) filter(keep func(TimeSlot) bool) []TimeSlot {
	out := make([]TimeSlot, 0, len(c))
	for _, s := range c {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func findSlot(slots []TimeSlot, id string) (TimeSlot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}
