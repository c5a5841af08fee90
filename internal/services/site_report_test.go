package services

import (
	"context"
	"errors"
	"testing"
	"transport-report-service/internal/adapters/sheets"
	"transport-report-service/internal/domain"
)

var (
	masterRef = domain.SheetRef{SheetID: "master", GID: "0"}
	shift1Ref = domain.SheetRef{SheetID: "master", GID: "11"}
	shift2Ref = domain.SheetRef{SheetID: "master", GID: "22"}
)

func testSite() domain.Site {
	return domain.Site{
		Key:    "casa-hub",
		Name:   "Casa Hub",
		Master: masterRef,
		Shifts: []domain.ShiftSource{
			{Name: "Shift 1", Sheet: shift1Ref, MapURL: "https://maps.example/1"},
			{Name: "Shift 2", Sheet: shift2Ref},
		},
	}
}

func masterTable() *domain.Table {
	return &domain.Table{
		Header: []string{" Nom&Prenom ", "MATRICULE", "Chauffeur", "Shift"},
		Rows: [][]string{
			{"Pt de depart", "111-A-1", "Jean Dupont", "S1"},
			{"Ali", "111-A-1", "Jean Dupont", "S1"},
			{"Sara", "111-A-1", "jean dupont", "S1"},
			{"Nadia", "222-B-2", "Omar", "S1"},
			{"Yassine", "222-B-2", "Omar", "S2"},
			{"", "", "", ""},
		},
	}
}

func shiftTable() *domain.Table {
	return &domain.Table{
		Header: []string{"Chauffeur", "Shift", "Distance", "Durée"},
		Rows: [][]string{
			{"Jean Dupont", "S1", "14 km", "2h"},
			{"Omar", "S1", "9 km", "50min"},
		},
	}
}

func TestBuildSiteReport(t *testing.T) {
	src := sheets.NewMockTableSource(map[domain.SheetRef]*domain.Table{
		masterRef: masterTable(),
		shift1Ref: shiftTable(),
		shift2Ref: {Header: []string{"chauffeur", "shift", "distance", "duree"}},
	})
	obs := &recordingObserver{}

	r, err := BuildSiteReport(context.Background(), testSite(), src, ReportOptions{Capacity: 20, Observer: obs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.SiteSummary{VehicleCount: 2, DriverCount: 3, ShiftCount: 2, PassengerCount: 4}
	if r.Summary != want {
		t.Fatalf("summary = %+v, want %+v", r.Summary, want)
	}
	if r.Legend != "⚠️ = durée supérieure à 1h30min" {
		t.Fatalf("legend = %q", r.Legend)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", r.Warnings)
	}

	if len(r.Occupancy) != 3 {
		t.Fatalf("expected 3 occupancy groups, got %+v", r.Occupancy)
	}

	if len(r.Charts) != 2 || r.Charts[0].Shift != "S1" || r.Charts[1].Shift != "S2" {
		t.Fatalf("charts = %+v, want S1 then S2", r.Charts)
	}
	bars := r.Charts[0].Bars
	if len(bars) != 2 || bars[0].Driver != "jean dupont" || bars[0].FillRatePct != 10.0 {
		t.Fatalf("S1 bars = %+v, want jean dupont first at 10%%", bars)
	}

	if len(r.Tables) != 2 {
		t.Fatalf("expected 2 shift tables, got %d", len(r.Tables))
	}
	s1 := r.Tables[0]
	if s1.Name != "Shift 1" || s1.MapURL != "https://maps.example/1" {
		t.Fatalf("table 0 = %q %q", s1.Name, s1.MapURL)
	}
	if s1.Rows[0].Duration != "2h ⚠️" || s1.Rows[0].PassengerCount == nil || *s1.Rows[0].PassengerCount != 2 {
		t.Fatalf("table 0 row 0 = %+v", s1.Rows[0])
	}
	if s1.Rows[1].PassengerCount == nil || *s1.Rows[1].PassengerCount != 1 {
		t.Fatalf("table 0 row 1 = %+v", s1.Rows[1])
	}
	if len(r.Tables[1].Rows) != 0 {
		t.Fatalf("table 1 rows = %+v, want none", r.Tables[1].Rows)
	}
	if len(obs.got) != 0 {
		t.Fatalf("unexpected anomalies: %+v", obs.got)
	}
}

func TestBuildSiteReportDegradesOnFetchFailure(t *testing.T) {
	src := sheets.NewMockTableSource(map[domain.SheetRef]*domain.Table{
		masterRef: masterTable(),
		shift1Ref: shiftTable(),
	})
	src.Failures[shift2Ref] = errors.New("503 from upstream")

	r, err := BuildSiteReport(context.Background(), testSite(), src, ReportOptions{Capacity: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", r.Warnings)
	}
	if got := r.Warnings[0]; got != "Casa Hub / Shift 2: chargement impossible: 503 from upstream" {
		t.Fatalf("warning = %q", got)
	}
	if len(r.Tables) != 2 || len(r.Tables[1].Rows) != 0 {
		t.Fatalf("tables = %+v, want empty second table", r.Tables)
	}
}

func TestBuildSiteReportMissingColumn(t *testing.T) {
	src := sheets.NewMockTableSource(map[domain.SheetRef]*domain.Table{
		masterRef: {Header: []string{"Nom&Prenom", "Matricule", "Chauffeur"}},
		shift1Ref: shiftTable(),
		shift2Ref: shiftTable(),
	})

	_, err := BuildSiteReport(context.Background(), testSite(), src, ReportOptions{Capacity: 20})

	var mf *domain.MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("err = %v, want MissingFieldError", err)
	}
	if mf.Field != "shift" || mf.Table != "Casa Hub" {
		t.Fatalf("missing field = %+v, want shift of Casa Hub", mf)
	}
}

func TestBuildSiteReportRejectsBadOptions(t *testing.T) {
	src := sheets.NewMockTableSource(nil)

	if _, err := BuildSiteReport(context.Background(), testSite(), src, ReportOptions{}); !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("capacity 0: err = %v, want ErrInvalidConfiguration", err)
	}

	site := testSite()
	site.Master = domain.SheetRef{}
	if _, err := BuildSiteReport(context.Background(), site, src, ReportOptions{Capacity: 20}); !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("no master: err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestBuildSiteReportCancelled(t *testing.T) {
	src := sheets.NewMockTableSource(map[domain.SheetRef]*domain.Table{masterRef: masterTable()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := BuildSiteReport(ctx, testSite(), src, ReportOptions{Capacity: 20}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestShiftChartsOrdering(t *testing.T) {
	groups := []domain.OccupancyGroup{
		{ShiftLabel: "S2", Driver: "b", FillRatePct: 10},
		{ShiftLabel: "S1", Driver: "b", FillRatePct: 20},
		{ShiftLabel: "S1", Driver: "a", FillRatePct: 20},
		{ShiftLabel: "S1", Driver: "c", FillRatePct: 50},
	}

	charts := ShiftCharts(groups)
	if len(charts) != 2 || charts[0].Shift != "S1" {
		t.Fatalf("charts = %+v", charts)
	}

	order := []string{}
	for _, b := range charts[0].Bars {
		order = append(order, b.Driver)
	}
	if len(order) != 3 || order[0] != "c" || order[1] != "a" || order[2] != "b" {
		t.Fatalf("bar order = %v, want [c a b]", order)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{90: "1h30min", 120: "2h", 45: "45min", 65: "1h05min"}
	for in, want := range tests {
		if got := formatMinutes(in); got != want {
			t.Errorf("formatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
