// Package clock provides driven.Clock implementations.
package clock

import (
	"time"

	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.Clock = System{}
	_ driven.Clock = Fixed{}
)

// System reads the wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return f.T }
