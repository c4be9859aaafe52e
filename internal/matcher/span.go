package matcher

import "sort"

// Span is a half-open token range [Start, End) matched by the pattern
// registered under Key.
type Span struct {
	Key   string
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// FilterSpans drops overlapping spans, preferring longer spans and then
// earlier ones. The result is ordered by Start.
func FilterSpans(spans []Span) []Span {
	sorted := append([]Span(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Len() != sorted[j].Len() {
			return sorted[i].Len() > sorted[j].Len()
		}
		return sorted[i].Start < sorted[j].Start
	})

	taken := make(map[int]bool)
	var kept []Span
	for _, span := range sorted {
		free := true
		for i := span.Start; i < span.End; i++ {
			if taken[i] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for i := span.Start; i < span.End; i++ {
			taken[i] = true
		}
		kept = append(kept, span)
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Start < kept[j].Start
	})
	return kept
}
