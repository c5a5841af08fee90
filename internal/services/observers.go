package services

import (
	"log"
	"transport-report-service/internal/domain"
	"transport-report-service/internal/ports"
)

// LogObserver writes join anomalies to the standard logger.
type LogObserver struct{}

func (LogObserver) ObserveAnomaly(v domain.InvariantViolation) {
	log.Printf("join anomaly site=%s shift=%q driver=%q matches=%d msg=%q", v.Site, v.Shift, v.Driver, v.Matches, v.Message)
}

type multiObserver []ports.AnomalyObserver

func (m multiObserver) ObserveAnomaly(v domain.InvariantViolation) {
	for _, o := range m {
		o.ObserveAnomaly(v)
	}
}

// Observers fans anomalies out to every non-nil observer.
func Observers(observers ...ports.AnomalyObserver) ports.AnomalyObserver {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// siteObserver stamps the site key on anomalies before forwarding them.
type siteObserver struct {
	site string
	next ports.AnomalyObserver
}

func (s siteObserver) ObserveAnomaly(v domain.InvariantViolation) {
	if v.Site == "" {
		v.Site = s.site
	}
	s.next.ObserveAnomaly(v)
}
