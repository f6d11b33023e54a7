// Package segmenter splits legal text into articles on "Điều N." markers.
package segmenter

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driven"
)

// Name is the registry name of the processor.
const Name = "segmenter"

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// markerPattern matches "Điều <digits>." with the ề precomposed or decomposed,
// as OCR output often carries combining marks.
var markerPattern = regexp.MustCompile(`Đi(?:\x{1EC1}|\x{00EA}\x{0300}|e\x{0302}\x{0300})u ([0-9]+)\.`)

// Processor creates one unit per article marker.
// It implements the PostProcessor interface.
type Processor struct{}

// New creates a new segmenter.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process segments text into units. Input units are ignored.
// Text before the first marker is discarded, as is the span of a marker
// whose number is zero or out of range. A repeated law number keeps the
// last occurrence. Units are returned in ascending law-number order.
func (p *Processor) Process(_ context.Context, text string, _ []domain.LegalUnit) ([]domain.LegalUnit, error) {
	units := Segment(text)
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: %d characters scanned", domain.ErrSegmentationEmpty, len(text))
	}
	return units, nil
}

type marker struct {
	start     int
	lawNumber int
}

// Segment splits text into units without treating an empty result as an error.
func Segment(text string) []domain.LegalUnit {
	markers := findMarkers(text)
	if len(markers) == 0 {
		return nil
	}

	byNumber := make(map[int]string, len(markers))
	for i, m := range markers {
		if m.lawNumber <= 0 {
			continue
		}
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		byNumber[m.lawNumber] = strings.TrimSpace(text[m.start:end])
	}
	if len(byNumber) == 0 {
		return nil
	}

	units := make([]domain.LegalUnit, 0, len(byNumber))
	for lawNumber, raw := range byNumber {
		units = append(units, domain.LegalUnit{
			LawNumber: lawNumber,
			RawText:   raw,
			WordCount: len(strings.Fields(raw)),
		})
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].LawNumber < units[j].LawNumber
	})
	return units
}

// findMarkers returns marker positions in text order. Every match ends the
// span before it; a number that is zero or does not fit in an int gets
// lawNumber 0 and its own span is dropped.
func findMarkers(text string) []marker {
	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)
	markers := make([]marker, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || n < 0 {
			n = 0
		}
		markers = append(markers, marker{start: m[0], lawNumber: n})
	}
	return markers
}
