// Package filesystem finds, loads and watches bill files on local disk.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

// Type is the connector identifier.
const Type = "filesystem"

// Verify interface compliance.
var (
	_ driven.DocumentLoader = (*Connector)(nil)
	_ driven.BillFinder     = (*Connector)(nil)
)

// Connector reads bills from the local filesystem.
type Connector struct {
	maxBytes int64
	settle   time.Duration
	logger   *slog.Logger
}

// Option configures a Connector.
type Option func(*Connector)

// WithMaxBytes rejects files larger than n bytes. Zero disables the check.
func WithMaxBytes(n int64) Option {
	return func(c *Connector) {
		c.maxBytes = n
	}
}

// WithSettle sets how long a watched file must stay quiet before its
// change is reported.
func WithSettle(d time.Duration) Option {
	return func(c *Connector) {
		c.settle = d
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *Connector) {
		if l != nil {
			c.logger = l
		}
	}
}

// Defaults.
const (
	DefaultMaxBytes = 32 << 20
	DefaultSettle   = 500 * time.Millisecond
)

// New creates a filesystem connector.
func New(opts ...Option) *Connector {
	c := &Connector{maxBytes: DefaultMaxBytes, settle: DefaultSettle}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Connector) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logger.L()
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return Type
}

// Validate checks that root exists and is a directory.
func (c *Connector) Validate(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: directory does not exist: %s", domain.ErrNotFound, root)
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: path is not a directory: %s", domain.ErrInvalidInput, root)
	}
	return nil
}

// Load reads the file at uri. Bare paths and file:// URIs are accepted.
func (c *Connector) Load(ctx context.Context, uri string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(uri, "file://")

	mimeType := DetectMIMEType(path)
	if mimeType != domain.MIMETypePDF && mimeType != domain.MIMETypePlainText {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, path, mimeType)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if c.maxBytes > 0 && info.Size() > c.maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidInput, path, c.maxBytes)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  content,
		Hints:    InferHints(path),
	}, nil
}

// Find walks root recursively and returns every PDF, matched
// case-insensitively. Hidden files and directories are skipped.
func (c *Connector) Find(ctx context.Context, root string) ([]domain.BillFile, error) {
	if err := c.Validate(root); err != nil {
		return nil, err
	}

	var files []domain.BillFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isPDF(path) {
			return nil
		}

		files = append(files, domain.BillFile{Path: path, Hints: InferHints(path)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// DetectMIMEType returns the MIME type for a file based on its extension.
// Files without an extension are treated as plain text.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case "", ".txt":
		return domain.MIMETypePlainText
	case ".pdf":
		return domain.MIMETypePDF
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

// isHidden checks if any path component starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}
	return false
}
