package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"transport-report-service/internal/adapters/cache"
	"transport-report-service/internal/adapters/sheets"
	"transport-report-service/internal/api/dto"
	"transport-report-service/internal/config"
	"transport-report-service/internal/domain"
	"transport-report-service/internal/services"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		asJSON   bool
		capacity int
	)

	cmd := &cobra.Command{
		Use:   "report [site]",
		Short: "Print the occupancy report of a site",
		Long:  "Loads the rosters of a configured site and prints headline counts, fill rates per driver and the per-shift route tables.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if capacity > 0 {
				cfg.Capacity = capacity
			}

			sites, err := config.LoadSites(cfg.SitesPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, s := range sites.All() {
					fmt.Fprintf(out, "%s\t%s\n", s.Key, s.Name)
				}
				return nil
			}

			site, err := sites.Get(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			report, err := run(ctx, cfg, site)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(dto.NewReportResponse(report))
			}
			return printReport(out, report)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "seats per vehicle (default VEHICLE_CAPACITY or 20)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, site domain.Site) (*domain.SiteReport, error) {
	sheetCache, closeCache, err := cache.Open(ctx, cache.Backend{
		Kind:        cfg.CacheBackend,
		DBPath:      cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
		TTL:         cfg.CacheTTL,
	})
	if err != nil {
		return nil, err
	}
	defer closeCache()

	source := sheets.NewGoogleSheetsSource(sheetCache, cfg.CacheTTL,
		sheets.WithBaseURL(cfg.SheetsBaseURL),
		sheets.WithConcurrency(cfg.FetchConcurrency),
	)

	return services.BuildSiteReport(ctx, site, source, services.ReportOptions{
		Capacity:         cfg.Capacity,
		ThresholdMinutes: cfg.DurationFlag,
		FetchConcurrency: cfg.FetchConcurrency,
		Observer:         services.LogObserver{},
	})
}

func printReport(w io.Writer, r *domain.SiteReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\n\n", r.SiteName)
	fmt.Fprintf(tw, "Véhicules\tChauffeurs\tEquipes\tPersonnes\n")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n\n", r.Summary.VehicleCount, r.Summary.DriverCount, r.Summary.ShiftCount, r.Summary.PassengerCount)

	for _, c := range r.Charts {
		fmt.Fprintf(tw, "%s: taux de remplissage (%%)\n", c.Shift)
		for _, b := range c.Bars {
			fmt.Fprintf(tw, "  %s\t%d\t%.1f%%\n", b.Driver, b.PassengerCount, b.FillRatePct)
		}
		fmt.Fprintln(tw)
	}

	for _, t := range r.Tables {
		fmt.Fprintf(tw, "%s\n", t.Name)
		fmt.Fprintf(tw, "Chauffeur\tShift\tDistance\tDurée\tNb personnes\n")
		for _, row := range t.Rows {
			count := ""
			if row.PassengerCount != nil {
				count = strconv.Itoa(*row.PassengerCount)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.Driver, row.Shift, row.Distance, row.Duration, count)
		}
		fmt.Fprintln(tw)
	}

	for _, warn := range r.Warnings {
		log.Printf("warning: %s", warn)
	}
	fmt.Fprintln(tw, r.Legend)

	return tw.Flush()
}
