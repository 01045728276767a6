package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

func TestInferHints(t *testing.T) {
	tests := []struct {
		name string
		path string
		want domain.Hints
	}{
		{
			name: "installation segment",
			path: filepath.Join("faturas", "Instalação_3001422762", "fatura.pdf"),
			want: domain.Hints{Installation: "3001422762"},
		},
		{
			name: "installation segment with space",
			path: filepath.Join("faturas", "Instalação_ 3001116735", "2024", "x.pdf"),
			want: domain.Hints{Installation: "3001116735"},
		},
		{
			name: "unaccented segment",
			path: filepath.Join("INSTALACAO_42", "a.pdf"),
			want: domain.Hints{Installation: "42"},
		},
		{
			name: "dated file name",
			path: filepath.Join("faturas", "3001116735-12-2023.pdf"),
			want: domain.Hints{Installation: "3001116735", Month: "Dezembro", Year: 2023},
		},
		{
			name: "segment wins over file name",
			path: filepath.Join("Instalação_1", "2-01-2024.pdf"),
			want: domain.Hints{Installation: "1", Month: "Janeiro", Year: 2024},
		},
		{
			name: "numeric parent directory",
			path: filepath.Join("faturas", "3001422762", "setembro.pdf"),
			want: domain.Hints{Installation: "3001422762"},
		},
		{
			name: "period suffix only",
			path: filepath.Join("faturas", "conta-09-2024.pdf"),
			want: domain.Hints{Month: "Setembro", Year: 2024},
		},
		{
			name: "month out of range",
			path: filepath.Join("faturas", "conta-13-2024.pdf"),
			want: domain.Hints{},
		},
		{
			name: "nothing to infer",
			path: filepath.Join("faturas", "misc", "fatura.pdf"),
			want: domain.Hints{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferHints(tt.path))
		})
	}
}
