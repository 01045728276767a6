package extractors

// Strategy is one named, independent way of finding a field's value.
// Find reports false when the strategy has nothing to say.
type Strategy[T any] struct {
	Name string
	Find func(d *Document) (T, bool)
}

// Cascade is an ordered list of strategies for one field. Stricter,
// label-anchored strategies come first.
type Cascade[T any] []Strategy[T]

// Run tries each strategy in order and returns the first match together
// with the name of the strategy that produced it. Later strategies are not
// attempted once one succeeds.
func (c Cascade[T]) Run(d *Document) (value T, strategy string, ok bool) {
	for _, s := range c {
		if v, found := s.Find(d); found {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// Names lists the strategies in the order they are tried.
func (c Cascade[T]) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}
