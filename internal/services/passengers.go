package services

import (
	"strings"
	"transport-report-service/internal/domain"
)

// Roster rows whose name contains one of these markers are stops or
// departure points, not passengers.
var administrativeMarkers = []string{"arret", "depart", "pt de depart"}

func missing(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsPassenger reports whether a master roster row stands for a real passenger.
func IsPassenger(row domain.PersonnelRow) bool {
	if missing(row.PersonName) {
		return false
	}

	name := strings.ToLower(row.PersonName)
	for _, marker := range administrativeMarkers {
		if strings.Contains(name, marker) {
			return false
		}
	}
	return true
}
