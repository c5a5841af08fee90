package dto

type SummaryResponse struct {
	Site           string `json:"site"`
	VehicleCount   int    `json:"vehicle_count"`
	DriverCount    int    `json:"driver_count"`
	ShiftCount     int    `json:"shift_count"`
	PassengerCount int    `json:"passenger_count"`
}

type OccupancyResponse struct {
	Shift          string  `json:"shift"`
	Driver         string  `json:"driver"`
	PassengerCount int     `json:"passenger_count"`
	FillRatePct    float64 `json:"fill_rate_pct"`
}

type ChartResponse struct {
	Shift string              `json:"shift"`
	YMin  float64             `json:"y_min"`
	YMax  float64             `json:"y_max"`
	Bars  []OccupancyResponse `json:"bars"`
}

type AnomalyResponse struct {
	Matches int    `json:"matches"`
	Message string `json:"message"`
}

type ShiftRowResponse struct {
	Driver         string           `json:"driver"`
	Shift          string           `json:"shift"`
	Distance       string           `json:"distance"`
	Duration       string           `json:"duration"`
	PassengerCount *int             `json:"passenger_count"`
	Anomaly        *AnomalyResponse `json:"anomaly,omitempty"`
}

type ShiftTableResponse struct {
	Name   string             `json:"name"`
	MapURL string             `json:"map_url,omitempty"`
	Rows   []ShiftRowResponse `json:"rows"`
}

type ReportResponse struct {
	Site      string               `json:"site"`
	Name      string               `json:"name"`
	Capacity  int                  `json:"capacity"`
	Summary   SummaryResponse      `json:"summary"`
	Occupancy []OccupancyResponse  `json:"occupancy"`
	Charts    []ChartResponse      `json:"charts"`
	Tables    []ShiftTableResponse `json:"tables"`
	Legend    string               `json:"legend"`
	Warnings  []string             `json:"warnings"`
}
