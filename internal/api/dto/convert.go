package dto

import "transport-report-service/internal/domain"

func NewSummaryResponse(site string, s domain.SiteSummary) SummaryResponse {
	return SummaryResponse{
		Site:           site,
		VehicleCount:   s.VehicleCount,
		DriverCount:    s.DriverCount,
		ShiftCount:     s.ShiftCount,
		PassengerCount: s.PassengerCount,
	}
}

func newOccupancy(groups []domain.OccupancyGroup) []OccupancyResponse {
	out := make([]OccupancyResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, OccupancyResponse{
			Shift:          g.ShiftLabel,
			Driver:         g.Driver,
			PassengerCount: g.PassengerCount,
			FillRatePct:    g.FillRatePct,
		})
	}
	return out
}

// NewReportResponse maps a computed site report onto its JSON shape.
func NewReportResponse(r *domain.SiteReport) ReportResponse {
	res := ReportResponse{
		Site:      r.SiteKey,
		Name:      r.SiteName,
		Capacity:  r.Capacity,
		Summary:   NewSummaryResponse(r.SiteKey, r.Summary),
		Occupancy: newOccupancy(r.Occupancy),
		Charts:    make([]ChartResponse, 0, len(r.Charts)),
		Tables:    make([]ShiftTableResponse, 0, len(r.Tables)),
		Legend:    r.Legend,
		Warnings:  r.Warnings,
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}

	// Charts share a fixed 0-100 scale so sites and shifts compare visually.
	for _, c := range r.Charts {
		res.Charts = append(res.Charts, ChartResponse{
			Shift: c.Shift,
			YMin:  0,
			YMax:  100,
			Bars:  newOccupancy(c.Bars),
		})
	}

	for _, t := range r.Tables {
		rows := make([]ShiftRowResponse, 0, len(t.Rows))
		for _, row := range t.Rows {
			sr := ShiftRowResponse{
				Driver:         row.Driver,
				Shift:          row.Shift,
				Distance:       row.Distance,
				Duration:       row.Duration,
				PassengerCount: row.PassengerCount,
			}
			if row.Anomaly != nil {
				sr.Anomaly = &AnomalyResponse{Matches: row.Anomaly.Matches, Message: row.Anomaly.Message}
			}
			rows = append(rows, sr)
		}
		res.Tables = append(res.Tables, ShiftTableResponse{Name: t.Name, MapURL: t.MapURL, Rows: rows})
	}

	return res
}
