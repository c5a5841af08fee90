package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"transport-report-service/internal/adapters/tables"
	"transport-report-service/internal/domain"
	"transport-report-service/internal/platform/obs"
	"transport-report-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

type ReportOptions struct {
	Capacity         int
	ThresholdMinutes int
	FetchConcurrency int
	Observer         ports.AnomalyObserver
}

// BuildSiteReport loads every table configured for site and computes the
// summary, fill-rate charts and enriched shift tables.
//
// Tables that cannot be fetched render as empty and add a warning to the
// report. A table missing a required column fails the whole report.
func BuildSiteReport(
	ctx context.Context,
	site domain.Site,
	source ports.TableSource,
	opts ReportOptions,
) (_ *domain.SiteReport, err error) {
	defer obs.Time(ctx, "report.BuildSiteReport")(&err)

	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("build site report %q: capacity must be positive, got %d: %w", site.Key, opts.Capacity, domain.ErrInvalidConfiguration)
	}
	if site.Master.IsZero() {
		return nil, fmt.Errorf("build site report %q: master sheet is not configured: %w", site.Key, domain.ErrInvalidConfiguration)
	}

	threshold := opts.ThresholdMinutes
	if threshold <= 0 {
		threshold = domain.DefaultDurationThresholdMinutes
	}

	refs := make([]domain.SheetRef, 0, 1+len(site.Shifts))
	refs = append(refs, site.Master)
	for _, s := range site.Shifts {
		refs = append(refs, s.Sheet)
	}

	fetched, fetchErrs := fetchAll(ctx, source, refs, opts.FetchConcurrency)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build site report %q: %w", site.Key, err)
	}

	report := &domain.SiteReport{
		SiteKey:  site.Key,
		SiteName: site.Name,
		Capacity: opts.Capacity,
		Legend:   fmt.Sprintf("⚠️ = durée supérieure à %s", formatMinutes(threshold)),
		Warnings: []string{},
	}

	tableFor := func(name string, ref domain.SheetRef) *domain.Table {
		if e, ok := fetchErrs[ref]; ok {
			log.Printf("table fetch failed site=%s table=%q err=%v", site.Key, name, e)
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: chargement impossible: %v", name, e))
			return &domain.Table{}
		}
		return fetched[ref]
	}

	master, err := tables.PersonnelRows(site.Name, tableFor(site.Name, site.Master))
	if err != nil {
		return nil, fmt.Errorf("build site report %q: ingest master roster: %w", site.Key, err)
	}

	report.Summary = Summarize(master)

	report.Occupancy, err = AggregateOccupancy(master, opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("build site report %q: %w", site.Key, err)
	}
	report.Charts = ShiftCharts(report.Occupancy)

	var observer ports.AnomalyObserver
	if opts.Observer != nil {
		observer = siteObserver{site: site.Key, next: opts.Observer}
	}

	report.Tables = make([]domain.ShiftTable, 0, len(site.Shifts))
	for _, s := range site.Shifts {
		name := site.Name + " / " + s.Name
		rows, err := tables.ShiftRosterRows(name, tableFor(name, s.Sheet))
		if err != nil {
			return nil, fmt.Errorf("build site report %q: ingest shift %q: %w", site.Key, s.Name, err)
		}

		report.Tables = append(report.Tables, domain.ShiftTable{
			Name:   s.Name,
			MapURL: s.MapURL,
			Rows:   BuildShiftTable(rows, report.Occupancy, threshold, observer),
		})
	}

	return report, nil
}

// ShiftCharts splits occupancy groups into one chart per shift. Shifts are
// sorted by label; bars by fill rate descending, then driver.
func ShiftCharts(groups []domain.OccupancyGroup) []domain.ShiftChart {
	byShift := make(map[string][]domain.OccupancyGroup)
	for _, g := range groups {
		byShift[g.ShiftLabel] = append(byShift[g.ShiftLabel], g)
	}

	shifts := make([]string, 0, len(byShift))
	for s := range byShift {
		shifts = append(shifts, s)
	}
	slices.Sort(shifts)

	charts := make([]domain.ShiftChart, 0, len(shifts))
	for _, s := range shifts {
		bars := byShift[s]
		slices.SortFunc(bars, func(a, b domain.OccupancyGroup) int {
			if a.FillRatePct > b.FillRatePct {
				return -1
			}
			if a.FillRatePct < b.FillRatePct {
				return 1
			}
			return strings.Compare(a.Driver, b.Driver)
		})
		charts = append(charts, domain.ShiftChart{Shift: s, Bars: bars})
	}

	return charts
}

// fetchAll retrieves refs, preferring a single batched call when the source
// supports it. Duplicate refs are fetched once.
func fetchAll(
	ctx context.Context,
	source ports.TableSource,
	refs []domain.SheetRef,
	concurrency int,
) (map[domain.SheetRef]*domain.Table, map[domain.SheetRef]error) {
	uniq := make([]domain.SheetRef, 0, len(refs))
	seen := make(map[domain.SheetRef]struct{}, len(refs))
	for _, r := range refs {
		if r.IsZero() {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		uniq = append(uniq, r)
	}

	if bs, ok := source.(ports.BatchTableSource); ok {
		out, errs := bs.FetchTables(ctx, uniq)
		if out == nil {
			out = map[domain.SheetRef]*domain.Table{}
		}
		if errs == nil {
			errs = map[domain.SheetRef]error{}
		}
		return out, errs
	}

	if concurrency <= 0 {
		concurrency = 4
	}

	var mu sync.Mutex
	out := make(map[domain.SheetRef]*domain.Table, len(uniq))
	errs := make(map[domain.SheetRef]error)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, ref := range uniq {
		ref := ref
		g.Go(func() error {
			t, err := source.FetchTable(gctx, ref)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[ref] = err
				return nil
			}
			out[ref] = t
			return nil
		})
	}
	_ = g.Wait()

	return out, errs
}

// formatMinutes renders 90 as "1h30min", 120 as "2h" and 45 as "45min".
func formatMinutes(m int) string {
	h, rest := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dmin", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dmin", h, rest)
	}
}
