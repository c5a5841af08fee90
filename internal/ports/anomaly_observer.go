package ports

import "transport-report-service/internal/domain"

// Receives join anomalies detected while building shift tables.
// Implementations must be safe for concurrent use.
type AnomalyObserver interface {
	ObserveAnomaly(v domain.InvariantViolation)
}
