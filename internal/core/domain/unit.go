package domain

import "sort"

// LegalUnit is one numbered article extracted from a legal text.
type LegalUnit struct {
	// LawNumber is the article number N from the "Điều N." marker. Always positive.
	LawNumber int

	// RawText is the article text as segmented, marker included.
	RawText string

	// NormalizedText is RawText after canonicalisation. Empty until normalised.
	NormalizedText string

	// WordCount is the whitespace-separated word count of RawText.
	WordCount int
}

// Text returns the normalised text when present, otherwise the raw text.
func (u LegalUnit) Text() string {
	if u.NormalizedText != "" {
		return u.NormalizedText
	}
	return u.RawText
}

// CorpusSnapshot maps law numbers to their currently stored text.
// It is a point-in-time read and is never updated in place.
type CorpusSnapshot map[int]string

// Keys returns the law numbers in ascending order.
func (s CorpusSnapshot) Keys() []int {
	keys := make([]int, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// StoredUnit is a unit as persisted in a collection.
type StoredUnit struct {
	ID        string
	LawNumber int
	Text      string
}

// UnitHit is a nearest-neighbour result from a unit store.
type UnitHit struct {
	StoredUnit

	// Score is the cosine similarity to the query vector (higher is closer).
	Score float64
}
