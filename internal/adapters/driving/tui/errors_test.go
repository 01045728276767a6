package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingBatchService.Error(), ErrNotFinished.Error())
}

func TestErrMissingBatchService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingBatchService.Error(), "batch service")
}
