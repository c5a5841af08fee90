package publisher

import (
	"encoding/json"
	"log"
	"strings"
	"time"
	"transport-report-service/internal/domain"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "occupancy.anomaly"

type anomalyMessage struct {
	domain.InvariantViolation
	Timestamp time.Time `json:"timestamp"`
}

// NATSAnomalyPublisher forwards join anomalies to NATS so operators can
// follow them outside the dashboard.
type NATSAnomalyPublisher struct {
	nc *nats.Conn
}

func NewNATSAnomalyPublisher(url string) (*NATSAnomalyPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("transport-report-service"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats disconnected err=%v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats reconnected")
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NATSAnomalyPublisher{nc: nc}, nil
}

func (p *NATSAnomalyPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// ObserveAnomaly publishes v on occupancy.anomaly.<site>. Publish errors
// are logged; observers never fail the report.
func (p *NATSAnomalyPublisher) ObserveAnomaly(v domain.InvariantViolation) {
	b, err := json.Marshal(anomalyMessage{InvariantViolation: v, Timestamp: time.Now().UTC()})
	if err != nil {
		log.Printf("nats anomaly marshal failed: %v", err)
		return
	}

	subject := Subject(v.Site)
	if err := p.nc.Publish(subject, b); err != nil {
		log.Printf("nats publish failed subject=%s err=%v", subject, err)
	}
}

// Subject returns the NATS subject anomalies of site are published on.
func Subject(site string) string {
	return subjectPrefix + "." + subjectToken(site)
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
