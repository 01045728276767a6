package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"release build", "1.4.0", "fatura version 1.4.0\n"},
		{"dev build", "dev", "fatura version dev\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := version
			version = tt.version
			defer func() { version = original }()

			out, err := executeCommand(t, "version")

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestVersionCmd_NeedsNoServices(t *testing.T) {
	assert.Equal(t, "none", versionCmd.Annotations[annotationServices])
}
