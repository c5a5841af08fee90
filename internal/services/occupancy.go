package services

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"transport-report-service/internal/domain"
)

// AggregateOccupancy counts distinct passengers per (shift, driver) and
// derives the fill rate of each group against the vehicle capacity.
//
// Drivers are compared by their normalized name, shift labels as given.
// Rows that are not passengers, or that lack a shift or driver, do not
// belong to any group. Groups are returned ordered by shift, then driver.
func AggregateOccupancy(rows []domain.PersonnelRow, capacity int) ([]domain.OccupancyGroup, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("aggregate occupancy: capacity must be positive, got %d: %w", capacity, domain.ErrInvalidConfiguration)
	}

	if len(rows) == 0 {
		return []domain.OccupancyGroup{}, nil
	}

	passengers := make(map[domain.GroupKey]map[string]struct{})
	for _, row := range rows {
		if !IsPassenger(row) || missing(row.ShiftLabel) || missing(row.DriverName) {
			continue
		}

		// A name with no ASCII decomposition still forms its own group under "".
		key := domain.GroupKey{Shift: row.ShiftLabel, Driver: NormalizeName(row.DriverName)}
		names, ok := passengers[key]
		if !ok {
			names = make(map[string]struct{})
			passengers[key] = names
		}
		names[row.PersonName] = struct{}{}
	}

	groups := make([]domain.OccupancyGroup, 0, len(passengers))
	for key, names := range passengers {
		groups = append(groups, domain.OccupancyGroup{
			ShiftLabel:     key.Shift,
			Driver:         key.Driver,
			PassengerCount: len(names),
			FillRatePct:    FillRate(len(names), capacity),
		})
	}

	slices.SortFunc(groups, func(a, b domain.OccupancyGroup) int {
		if c := strings.Compare(a.ShiftLabel, b.ShiftLabel); c != 0 {
			return c
		}
		return strings.Compare(a.Driver, b.Driver)
	})

	return groups, nil
}

// FillRate returns count/capacity as a percentage rounded to one decimal.
func FillRate(count, capacity int) float64 {
	return math.Round(float64(count)/float64(capacity)*1000) / 10
}
