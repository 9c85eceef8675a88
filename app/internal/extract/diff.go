package extract

import "slotwatch/app/internal/models"

// DetectNew returns the slots in current whose (date, time) pair does not
// appear in previous, preserving the order of current. Pure function.
func DetectNew(current, previous []models.Slot) []models.Slot {
	seen := make(map[[2]string]struct{}, len(previous))
	for _, s := range previous {
		seen[[2]string{s.Date, s.Time}] = struct{}{}
	}

	var fresh []models.Slot
	for _, s := range current {
		if _, ok := seen[[2]string{s.Date, s.Time}]; !ok {
			fresh = append(fresh, s)
		}
	}
	return fresh
}
