// Package messages defines Bubbletea message types for the batch progress
// view.
package messages

import (
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// BatchProgressed carries a progress update from a running batch.
type BatchProgressed struct {
	Progress domain.BatchProgress
}

// BatchFinished carries the final report. Err is set when the run itself
// failed, for example because it was cancelled.
type BatchFinished struct {
	Report *domain.BatchReport
	Err    error
}

// Quit signals the application should exit.
type Quit struct{}
