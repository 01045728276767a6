package normalisers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ConverterRegistry = (*Registry)(nil)

// Registry keeps converters per MIME type, highest priority first.
type Registry struct {
	mu     sync.RWMutex
	byMIME map[string][]driven.TextConverter
}

// NewRegistry creates a registry holding the given converters.
func NewRegistry(converters ...driven.TextConverter) *Registry {
	r := &Registry{byMIME: make(map[string][]driven.TextConverter)}
	for _, c := range converters {
		r.Register(c)
	}
	return r
}

// Register adds a converter under each MIME type it supports. Converters
// with equal priority keep registration order.
func (r *Registry) Register(converter driven.TextConverter) {
	if converter == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mime := range converter.SupportedMIMETypes() {
		list := append(r.byMIME[mime], converter)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byMIME[mime] = list
	}
}

// Candidates returns the converters for mimeType, best first.
func (r *Registry) Candidates(mimeType string) []driven.TextConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byMIME[mimeType]
	out := make([]driven.TextConverter, len(list))
	copy(out, list)
	return out
}

// Best returns the highest-priority converter for mimeType.
func (r *Registry) Best(mimeType string) (driven.TextConverter, error) {
	candidates := r.Candidates(mimeType)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType)
	}
	return candidates[0], nil
}

// SupportedMIMETypes returns every registered MIME type, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		out = append(out, mime)
	}
	sort.Strings(out)
	return out
}
