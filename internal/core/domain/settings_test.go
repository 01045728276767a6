package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DefaultConversionTimeout, s.Extraction.ConversionTimeout)
	assert.Equal(t, DefaultBatchWorkers, s.Batch.Workers)
	assert.True(t, s.Repair.DefaultFixups)
	assert.Empty(t, s.Repair.Steps)
	assert.Equal(t, LogFormatText, s.LogFormat)
}

func TestLogFormat_IsValid(t *testing.T) {
	assert.True(t, LogFormatText.IsValid())
	assert.True(t, LogFormatJSON.IsValid())
	assert.False(t, LogFormat("xml").IsValid())
}
