package tui

import (
	"context"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// MockBatchService is a mock implementation of driving.BatchService.
// Run reports progress once per path and returns a report with one item
// per path.
type MockBatchService struct {
	Paths []string
	Fail  map[string]string
	Err   error

	// Block, when set, makes Run wait for ctx cancellation.
	Block bool
}

func (m *MockBatchService) Discover(_ context.Context, _, _ string) ([]domain.BillFile, error) {
	files := make([]domain.BillFile, len(m.Paths))
	for i, p := range m.Paths {
		files[i] = domain.BillFile{Path: p}
	}
	return files, m.Err
}

func (m *MockBatchService) Run(ctx context.Context, root string, opts domain.BatchOptions) (*domain.BatchReport, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	report := &domain.BatchReport{RunID: "run-1", Root: root}
	failed := 0
	for i, p := range m.Paths {
		item := domain.BatchItem{Path: p}
		if msg, ok := m.Fail[p]; ok {
			item.Error = msg
			failed++
		} else {
			item.Result = &domain.ExtractionResult{URI: p, Path: domain.PathSpecialized}
		}
		report.Items = append(report.Items, item)
		if opts.Progress != nil {
			opts.Progress(domain.BatchProgress{Done: i + 1, Total: len(m.Paths), Failed: failed, Last: p})
		}
	}
	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return report, nil
}
