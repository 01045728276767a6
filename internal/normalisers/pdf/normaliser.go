// Package pdf converts PDF bills to text with poppler's pdftotext.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Name identifies this converter in results.
const Name = "pdftotext"

// DefaultBinary is the pdftotext executable looked up on PATH.
const DefaultBinary = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext cannot be found.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Ensure Normaliser implements the interface.
var _ driven.TextConverter = (*Normaliser)(nil)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPDFToolNotFound, name)
	}
	// #nosec G204 -- binary comes from configuration, args are fixed flags and a temp file.
	cmd := exec.CommandContext(ctx, path, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Normaliser converts PDFs by running pdftotext on a temporary copy.
type Normaliser struct {
	runner CommandRunner
	binary string
}

// Option configures the converter.
type Option func(*Normaliser)

// WithBinary sets the pdftotext executable name or path.
func WithBinary(path string) Option {
	return func(n *Normaliser) {
		if path != "" {
			n.binary = path
		}
	}
}

// New creates a pdftotext converter.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{runner: execRunner{}, binary: DefaultBinary}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewWithRunner creates a converter with a custom command runner.
func NewWithRunner(runner CommandRunner, opts ...Option) *Normaliser {
	n := New(opts...)
	n.runner = runner
	return n
}

// Name returns the converter identifier.
func (n *Normaliser) Name() string {
	return Name
}

// SupportedMIMETypes returns the MIME types this converter handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypePDF}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Tool-backed converter
}

// Convert writes the content to a temporary file and returns pdftotext's
// UTF-8 output.
func (n *Normaliser) Convert(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil || len(raw.Content) == 0 {
		return "", domain.ErrInvalidInput
	}

	tmp, err := os.CreateTemp("", "fatura-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", domain.ErrConversionFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: write temp file: %w", domain.ErrConversionFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close temp file: %w", domain.ErrConversionFailed, err)
	}

	out, err := n.runner.Run(ctx, n.binary, "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext failed: %w", domain.ErrConversionFailed, err)
	}
	return string(out), nil
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(DefaultBinary); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to read PDF bills.

Install poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  sudo apt install poppler-utils
  Fedora:         sudo dnf install poppler-utils

Without it, fatura falls back to its built-in PDF reader.`
}
