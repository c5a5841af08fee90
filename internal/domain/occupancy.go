package domain

// OccupancyGroup is the passenger count of one driver within one shift.
// Driver holds the normalized driver name; ShiftLabel is kept raw.
// FillRatePct is not clamped and exceeds 100 for overloaded vehicles.
type OccupancyGroup struct {
	ShiftLabel     string
	Driver         string
	PassengerCount int
	FillRatePct    float64
}

// Key returns the join key shared with shift roster rows.
func (g OccupancyGroup) Key() GroupKey {
	return GroupKey{Shift: g.ShiftLabel, Driver: g.Driver}
}

type GroupKey struct {
	Shift  string
	Driver string
}

// EnrichedShiftRow is a shift roster row with its matched passenger count.
// PassengerCount is nil when no occupancy group matched the row.
type EnrichedShiftRow struct {
	Driver         string
	Shift          string
	Distance       string
	Duration       string
	PassengerCount *int
	Anomaly        *InvariantViolation
}
