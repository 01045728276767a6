package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockConverter implements driven.TextConverter for testing.
type mockConverter struct {
	name     string
	text     string
	err      error
	delay    time.Duration
	mu       sync.Mutex
	calls    int
	deadline bool
}

func (m *mockConverter) Name() string                 { return m.name }
func (m *mockConverter) SupportedMIMETypes() []string { return []string{domain.MIMETypePDF} }
func (m *mockConverter) Priority() int                { return 50 }

func (m *mockConverter) Convert(ctx context.Context, _ *domain.RawDocument) (string, error) {
	m.mu.Lock()
	m.calls++
	_, m.deadline = ctx.Deadline()
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.text, m.err
}

func (m *mockConverter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockRegistry implements driven.ConverterRegistry for testing.
type mockRegistry struct {
	converters []driven.TextConverter
}

func (m *mockRegistry) Register(c driven.TextConverter) { m.converters = append(m.converters, c) }

func (m *mockRegistry) Candidates(mimeType string) []driven.TextConverter {
	if mimeType != domain.MIMETypePDF && mimeType != domain.MIMETypePlainText {
		return nil
	}
	return m.converters
}

func (m *mockRegistry) SupportedMIMETypes() []string {
	return []string{domain.MIMETypePDF, domain.MIMETypePlainText}
}

// mockExtractor implements driven.BillExtractor for testing.
type mockExtractor struct {
	name   string
	record domain.BillRecord
	prov   map[domain.Field]string
	err    error
	text   string
}

func (m *mockExtractor) Name() string { return m.name }

func (m *mockExtractor) Extract(_ context.Context, text string) (*domain.Extraction, error) {
	m.text = text
	if m.err != nil {
		return nil, m.err
	}
	prov := make(map[domain.Field]string, len(m.prov))
	for k, v := range m.prov {
		prov[k] = v
	}
	return &domain.Extraction{Record: m.record, Provenance: prov}, nil
}

// mockRepair implements driven.PostProcessorPipeline for testing.
type mockRepair struct {
	calls int
}

func (m *mockRepair) Process(rec *domain.BillRecord, _ string) map[domain.Field]string {
	m.calls++
	if rec.ClientNumber == "" && rec.InstallationNumber != "" {
		rec.ClientNumber = rec.InstallationNumber
		return map[domain.Field]string{domain.FieldClientNumber: "client-from-installation"}
	}
	return nil
}

// mockInspector implements driven.DocumentInspector for testing.
type mockInspector struct {
	pages int
	err   error
}

func (m *mockInspector) Inspect(_ context.Context, _ *domain.RawDocument) (domain.DocumentInfo, error) {
	return domain.DocumentInfo{Pages: m.pages}, m.err
}

// mockValidator implements driven.RecordValidator for testing.
type mockValidator struct {
	err error
}

func (m *mockValidator) Validate(_ *domain.BillRecord) error { return m.err }

// mockLoader implements driven.DocumentLoader and driven.BillFinder for testing.
type mockLoader struct {
	docs  map[string]*domain.RawDocument
	files []domain.BillFile
	err   error
}

func (m *mockLoader) Load(_ context.Context, uri string) (*domain.RawDocument, error) {
	doc, ok := m.docs[uri]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *mockLoader) Find(_ context.Context, _ string) ([]domain.BillFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.BillFile, len(m.files))
	copy(out, m.files)
	return out, nil
}

var errBoom = errors.New("boom")

func pdfDoc(uri string) *domain.RawDocument {
	return &domain.RawDocument{URI: uri, MIMEType: domain.MIMETypePDF, Content: []byte("%PDF-1.4")}
}
