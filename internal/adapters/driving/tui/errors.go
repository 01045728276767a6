package tui

import "errors"

// ErrMissingBatchService is returned when the batch service is not provided.
var ErrMissingBatchService = errors.New("tui: batch service is required")

// ErrNotFinished is returned by App.Report before the batch has finished.
var ErrNotFinished = errors.New("tui: batch has not finished")
