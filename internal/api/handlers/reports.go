package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
	"transport-report-service/internal/api/dto"
	"transport-report-service/internal/domain"
	"transport-report-service/internal/ports"
	"transport-report-service/internal/services"

	"github.com/go-chi/chi/v5"
)

// ReportRecorder observes report builds, e.g. for metrics. Optional.
type ReportRecorder interface {
	ObserveReport(site string, d time.Duration, err error)
}

type ReportHandler struct {
	Sites    ports.SiteCatalog
	Source   ports.TableSource
	Options  services.ReportOptions
	Recorder ReportRecorder
	Timeout  time.Duration
}

// Report renders the full occupancy report of the site named in the path.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewReportResponse(report))
}

// Summary renders only the headline counts of the site.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewSummaryResponse(report.SiteKey, report.Summary))
}

func (h *ReportHandler) build(w http.ResponseWriter, r *http.Request) (*domain.SiteReport, bool) {
	key := chi.URLParam(r, "site")

	site, err := h.Sites.Get(key)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "unknown site")
		return nil, false
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	start := time.Now()
	report, err := services.BuildSiteReport(ctx, site, h.Source, h.Options)
	if h.Recorder != nil {
		h.Recorder.ObserveReport(site.Key, time.Since(start), err)
	}
	if err != nil {
		log.Printf("build site report failed site=%s err=%v", site.Key, err)
		writeError(w, r, statusFor(err), messageFor(err))
		return nil, false
	}

	return report, true
}

func statusFor(err error) int {
	var mf *domain.MissingFieldError
	switch {
	case errors.As(err, &mf):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	var mf *domain.MissingFieldError
	if errors.As(err, &mf) {
		return mf.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "source tables timed out"
	}
	return "internal server error"
}
