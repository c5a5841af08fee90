package services

import "transport-report-service/internal/domain"

// Summarize computes the headline counts of a master roster.
//
// Drivers are counted by raw spelling, unlike AggregateOccupancy, so two
// spellings of the same driver count twice here.
func Summarize(rows []domain.PersonnelRow) domain.SiteSummary {
	vehicles := make(map[string]struct{})
	drivers := make(map[string]struct{})
	shifts := make(map[string]struct{})
	passengers := 0

	for _, row := range rows {
		if !missing(row.VehicleID) {
			vehicles[row.VehicleID] = struct{}{}
		}
		if !missing(row.DriverName) {
			drivers[row.DriverName] = struct{}{}
		}
		if !missing(row.ShiftLabel) {
			shifts[row.ShiftLabel] = struct{}{}
		}
		if IsPassenger(row) {
			passengers++
		}
	}

	return domain.SiteSummary{
		VehicleCount:   len(vehicles),
		DriverCount:    len(drivers),
		ShiftCount:     len(shifts),
		PassengerCount: passengers,
	}
}
