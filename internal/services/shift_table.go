package services

import (
	"transport-report-service/internal/domain"
	"transport-report-service/internal/ports"
)

// Appended to durations above the flag threshold.
const DurationWarningSuffix = " ⚠️"

// BuildShiftTable enriches one shift roster with the passenger count of the
// matching occupancy group and flags routes longer than thresholdMinutes.
//
// Rows are matched on the raw shift label and the normalized driver name.
// Unmatched rows keep a nil passenger count. Should two groups share a key,
// the first one wins, the row is annotated and observer is notified.
// A non-positive threshold selects domain.DefaultDurationThresholdMinutes.
func BuildShiftTable(
	rows []domain.ShiftRosterRow,
	occupancy []domain.OccupancyGroup,
	thresholdMinutes int,
	observer ports.AnomalyObserver,
) []domain.EnrichedShiftRow {
	if len(rows) == 0 {
		return []domain.EnrichedShiftRow{}
	}

	if thresholdMinutes <= 0 {
		thresholdMinutes = domain.DefaultDurationThresholdMinutes
	}

	byKey := make(map[domain.GroupKey]domain.OccupancyGroup, len(occupancy))
	matches := make(map[domain.GroupKey]int, len(occupancy))
	for _, g := range occupancy {
		k := g.Key()
		if _, ok := byKey[k]; !ok {
			byKey[k] = g
		}
		matches[k]++
	}

	out := make([]domain.EnrichedShiftRow, 0, len(rows))
	for _, row := range rows {
		driver := NormalizeName(row.DriverName)

		duration := row.DurationText
		if ParseMinutes(duration) > thresholdMinutes {
			duration += DurationWarningSuffix
		}

		enriched := domain.EnrichedShiftRow{
			Driver:   row.DriverName,
			Shift:    row.ShiftLabel,
			Distance: row.Distance,
			Duration: duration,
		}

		key := domain.GroupKey{Shift: row.ShiftLabel, Driver: driver}
		if g, ok := byKey[key]; ok {
			count := g.PassengerCount
			enriched.PassengerCount = &count

			if n := matches[key]; n > 1 {
				v := domain.InvariantViolation{
					Shift:   row.ShiftLabel,
					Driver:  driver,
					Matches: n,
					Message: "occupancy key is not unique; first group used",
				}
				enriched.Anomaly = &v
				if observer != nil {
					observer.ObserveAnomaly(v)
				}
			}
		}

		out = append(out, enriched)
	}

	return out
}
