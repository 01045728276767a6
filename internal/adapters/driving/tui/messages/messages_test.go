package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

func TestBatchProgressed_CarriesProgress(t *testing.T) {
	msg := BatchProgressed{Progress: domain.BatchProgress{Done: 2, Total: 4, Last: "a.pdf"}}

	assert.Equal(t, 2, msg.Progress.Done)
	assert.InDelta(t, 0.5, msg.Progress.Percent(), 1e-9)
}

func TestBatchFinished_CarriesReportAndError(t *testing.T) {
	report := &domain.BatchReport{RunID: "run-1"}
	msg := BatchFinished{Report: report, Err: errors.New("cancelled")}

	assert.Equal(t, "run-1", msg.Report.RunID)
	assert.EqualError(t, msg.Err, "cancelled")
}
