package domain

import "time"

// BatchOptions controls a folder batch run.
type BatchOptions struct {
	// Workers bounds the number of documents processed at once.
	Workers int

	// Rate caps documents started per second. Zero means unlimited.
	Rate float64

	// Installation keeps only files whose inferred installation matches.
	Installation string

	// ClientID is passed to every document as a hint.
	ClientID string

	// Progress, when set, is called after each document finishes.
	// It may be called from several goroutines.
	Progress func(BatchProgress)
}

// BatchProgress reports how far a batch run has got.
type BatchProgress struct {
	Done   int
	Total  int
	Failed int
	Last   string
}

// Percent returns completion in the range [0, 1].
func (p BatchProgress) Percent() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// BatchItem is the outcome for one file in a batch run.
type BatchItem struct {
	Path   string            `json:"path"`
	Result *ExtractionResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Failed returns true if the file could not be extracted.
func (i BatchItem) Failed() bool {
	return i.Error != ""
}

// BatchReport summarises a folder batch run.
type BatchReport struct {
	RunID      string      `json:"runId"`
	Root       string      `json:"root"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
	Items      []BatchItem `json:"items"`
}

// Succeeded counts items extracted without error.
func (r *BatchReport) Succeeded() int {
	n := 0
	for i := range r.Items {
		if !r.Items[i].Failed() {
			n++
		}
	}
	return n
}

// Failed counts items that could not be extracted.
func (r *BatchReport) Failed() int {
	return len(r.Items) - r.Succeeded()
}

// Duration returns how long the run took.
func (r *BatchReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
