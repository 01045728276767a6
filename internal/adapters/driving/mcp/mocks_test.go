package mcp

import (
	"context"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	result *domain.ExtractionResult
	err    error

	lastRaw   *domain.RawDocument
	lastPath  string
	lastHints domain.Hints
}

func (m *mockExtractionService) Extract(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	m.lastRaw = raw
	return m.result, m.err
}

func (m *mockExtractionService) ExtractFile(_ context.Context, path string, hints domain.Hints) (*domain.ExtractionResult, error) {
	m.lastPath = path
	m.lastHints = hints
	return m.result, m.err
}

// mockFixupService is a mock implementation of driving.FixupService.
type mockFixupService struct {
	rows []domain.Fixup
	err  error
}

func (m *mockFixupService) List() ([]domain.Fixup, error) {
	return m.rows, m.err
}
