package sheets

import (
	"context"
	"fmt"
	"transport-report-service/internal/domain"
)

// MockTableSource serves tables from memory. Refs listed in Failures
// return that error instead.
type MockTableSource struct {
	Tables   map[domain.SheetRef]*domain.Table
	Failures map[domain.SheetRef]error
}

func NewMockTableSource(tables map[domain.SheetRef]*domain.Table) *MockTableSource {
	return &MockTableSource{Tables: tables, Failures: map[domain.SheetRef]error{}}
}

func (m *MockTableSource) FetchTable(ctx context.Context, ref domain.SheetRef) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Failures[ref]; ok {
		return nil, err
	}

	t, ok := m.Tables[ref]
	if !ok {
		return nil, fmt.Errorf("missing table sheet=%q gid=%q", ref.SheetID, ref.GID)
	}
	return t, nil
}
