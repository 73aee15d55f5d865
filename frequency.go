package blocktag

import (
	"slices"
	"strings"
)

// Entry is one row of a sorted frequency table.
type Entry[K comparable] struct {
	Key   K
	Count int
}

// FrequencyTable counts occurrences of keys and remembers the order in which
// keys were first seen.
type FrequencyTable[K comparable] struct {
	order  []K
	counts map[K]int
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable[K comparable]() *FrequencyTable[K] {
	return &FrequencyTable[K]{counts: map[K]int{}}
}

// Add increments the count of key by one.
func (f *FrequencyTable[K]) Add(key K) {
	if _, ok := f.counts[key]; !ok {
		f.order = append(f.order, key)
	}
	f.counts[key]++
}

// Count returns how often key was added.
func (f *FrequencyTable[K]) Count(key K) int { return f.counts[key] }

// Len returns the number of distinct keys.
func (f *FrequencyTable[K]) Len() int { return len(f.order) }

// Sorted returns all entries by descending count. Equal counts keep
// first-seen order.
func (f *FrequencyTable[K]) Sorted() []Entry[K] {
	out := make([]Entry[K], len(f.order))
	for i, k := range f.order {
		out[i] = Entry[K]{Key: k, Count: f.counts[k]}
	}
	slices.SortStableFunc(out, func(a, b Entry[K]) int {
		return b.Count - a.Count
	})
	return out
}

// CountTokens counts every whitespace-separated token of the normalized lines.
func CountTokens(normalized []string) *FrequencyTable[string] {
	t := NewFrequencyTable[string]()
	for _, line := range normalized {
		for _, tok := range strings.Fields(line) {
			t.Add(tok)
		}
	}
	return t
}

// CountBigrams counts adjacent token pairs within each normalized line.
func CountBigrams(normalized []string) *FrequencyTable[Bigram] {
	t := NewFrequencyTable[Bigram]()
	for _, line := range normalized {
		toks := strings.Fields(line)
		for i := 1; i < len(toks); i++ {
			t.Add(Bigram{First: toks[i-1], Second: toks[i]})
		}
	}
	return t
}
