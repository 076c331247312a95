package alignment_report

import (
	"slices"
	"sort"
)

// Categories is the ordered set of distinct sample names of a table. Each
// name maps to a stable index (its position in sorted order) that is used for
// all downstream grouping, so the order never depends on file order.
type Categories struct {
	names []string
	index map[string]int
}

// NewCategories builds the category set from raw column values.
func NewCategories(values []string) Categories {
	index := make(map[string]int)
	var names []string
	for _, v := range values {
		if _, ok := index[v]; ok {
			continue
		}
		index[v] = 0
		names = append(names, v)
	}
	sort.Strings(names)
	for i, name := range names {
		index[name] = i
	}
	return Categories{names: names, index: index}
}

// Len is the number of distinct samples.
func (c Categories) Len() int { return len(c.names) }

// Names returns the samples in category order.
func (c Categories) Names() []string { return slices.Clone(c.names) }

// Name returns the sample with the given code.
func (c Categories) Name(code int) string { return c.names[code] }

// Code returns the stable index of a sample.
func (c Categories) Code(name string) (int, bool) {
	code, ok := c.index[name]
	return code, ok
}

// Equal reports whether both category sets hold the same samples.
func (c Categories) Equal(other Categories) bool {
	return slices.Equal(c.names, other.names)
}

// Difference returns the samples of c that are not in other, in order.
func (c Categories) Difference(other Categories) []string {
	var missing []string
	for _, name := range c.names {
		if _, ok := other.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
