package domain

// Headline counts of a site's master roster.
type SiteSummary struct {
	VehicleCount   int
	DriverCount    int
	ShiftCount     int
	PassengerCount int
}

// ShiftChart holds the bars of one fill-rate chart.
// Bars are ordered by fill rate, highest first.
type ShiftChart struct {
	Shift string
	Bars  []OccupancyGroup
}

// ShiftTable is the enriched route table of one configured shift.
type ShiftTable struct {
	Name   string
	MapURL string
	Rows   []EnrichedShiftRow
}

// Represents everything rendered for a single site.
// A SiteReport is recomputed on every request and never stored.
type SiteReport struct {
	SiteKey   string
	SiteName  string
	Capacity  int
	Summary   SiteSummary
	Occupancy []OccupancyGroup
	Charts    []ShiftChart
	Tables    []ShiftTable
	Legend    string
	Warnings  []string
}
