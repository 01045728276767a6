package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestConnector_Type(t *testing.T) {
	assert.Equal(t, "filesystem", New().Type())
}

func TestConnector_Validate(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		assert.NoError(t, New().Validate(t.TempDir()))
	})

	t.Run("non-existent directory", func(t *testing.T) {
		err := New().Validate("/non/existent/path")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bill.pdf")
		writeFile(t, path, "%PDF")
		assert.ErrorIs(t, New().Validate(path), domain.ErrInvalidInput)
	})
}

func TestConnector_Load(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "Instalação_3001422762", "fatura-09-2024.pdf")
	writeFile(t, pdfPath, "%PDF-1.4")
	txtPath := filepath.Join(dir, "fatura.txt")
	writeFile(t, txtPath, "CEMIG")

	t.Run("pdf with path hints", func(t *testing.T) {
		doc, err := New().Load(context.Background(), pdfPath)
		require.NoError(t, err)
		assert.Equal(t, pdfPath, doc.URI)
		assert.Equal(t, domain.MIMETypePDF, doc.MIMEType)
		assert.Equal(t, []byte("%PDF-1.4"), doc.Content)
		assert.Equal(t, "3001422762", doc.Hints.Installation)
		assert.Equal(t, "Setembro", doc.Hints.Month)
		assert.Equal(t, 2024, doc.Hints.Year)
	})

	t.Run("file uri", func(t *testing.T) {
		doc, err := New().Load(context.Background(), "file://"+txtPath)
		require.NoError(t, err)
		assert.Equal(t, txtPath, doc.URI)
		assert.Equal(t, domain.MIMETypePlainText, doc.MIMEType)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New().Load(context.Background(), filepath.Join(dir, "none.pdf"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unsupported type", func(t *testing.T) {
		path := filepath.Join(dir, "photo.png")
		writeFile(t, path, "png")
		_, err := New().Load(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("directory", func(t *testing.T) {
		subdir := filepath.Join(dir, "folder.pdf")
		require.NoError(t, os.Mkdir(subdir, 0755))
		_, err := New().Load(context.Background(), subdir)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("file too large", func(t *testing.T) {
		_, err := New(WithMaxBytes(4)).Load(context.Background(), pdfPath)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New().Load(ctx, pdfPath)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConnector_Find(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b", "3001116735-03-2024.PDF"), "%PDF")
	writeFile(t, filepath.Join(dir, "a", "fatura.pdf"), "%PDF")
	writeFile(t, filepath.Join(dir, "a", "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, ".cache", "hidden.pdf"), "%PDF")
	writeFile(t, filepath.Join(dir, ".hidden.pdf"), "%PDF")

	files, err := New().Find(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, filepath.Join(dir, "a", "fatura.pdf"), files[0].Path)
	assert.True(t, files[0].Hints.IsEmpty())

	assert.Equal(t, filepath.Join(dir, "b", "3001116735-03-2024.PDF"), files[1].Path)
	assert.Equal(t, "3001116735", files[1].Hints.Installation)
	assert.Equal(t, "Março", files[1].Hints.Month)
	assert.Equal(t, 2024, files[1].Hints.Year)
}

func TestConnector_Find_Errors(t *testing.T) {
	_, err := New().Find(context.Background(), "/non/existent/path")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.pdf"), "%PDF")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().Find(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename     string
		expectedMIME string
	}{
		{"file", "text/plain"},
		{"bill.txt", "text/plain"},
		{"bill.pdf", "application/pdf"},
		{"BILL.PDF", "application/pdf"},
		{"image.png", "image/png"},
		{"file.zzzzunknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expectedMIME, DetectMIMEType(tt.filename))
		})
	}

	t.Run("strips charset from mime type", func(t *testing.T) {
		mimeType := DetectMIMEType("page.html")
		assert.NotContains(t, mimeType, ";")
	})
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"/path/.hidden/file.pdf", true},
		{"file.pdf", false},
		{"path/to/file.pdf", false},
		{".", false},
		{"..", false},
		{"path/../file", false},
		{"", false},
		{"file.hidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}
