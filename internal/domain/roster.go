package domain

// Vehicle capacity shared by every site unless configured otherwise.
const DefaultCapacity = 20

// Routes longer than this are flagged in shift tables.
const DefaultDurationThresholdMinutes = 90

// Represents one record of a site's master roster.
// There is one row per passenger per vehicle trip; stop and departure
// markers share the same table and are filtered out by the services.
// A field is considered missing when it is empty after trimming.
type PersonnelRow struct {
	PersonName string
	VehicleID  string
	DriverName string
	ShiftLabel string
}

// Represents one record of a per-shift route table.
// Distance and DurationText are display strings taken from the sheet as-is.
type ShiftRosterRow struct {
	DriverName   string
	ShiftLabel   string
	Distance     string
	DurationText string
}
