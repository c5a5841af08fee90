package ports

import (
	"context"
	"transport-report-service/internal/domain"
)

// Contract for retrieving raw tables from a spreadsheet backend.
type TableSource interface {
	// Return the table exported by a single worksheet.
	FetchTable(ctx context.Context, ref domain.SheetRef) (*domain.Table, error)
}

// Optional extension of TableSource that supports batched lookups.
type BatchTableSource interface {
	TableSource
	// Return tables keyed by ref. Refs that could not be fetched are absent
	// from the map and reported in the per-ref error map.
	FetchTables(ctx context.Context, refs []domain.SheetRef) (map[domain.SheetRef]*domain.Table, map[domain.SheetRef]error)
}
