package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngestReport_Count(t *testing.T) {
	report := &IngestReport{
		Decisions: []Decision{
			{LawNumber: 1, Action: ActionInsert},
			{LawNumber: 2, Action: ActionSkip},
			{LawNumber: 3, Action: ActionInsert},
			{LawNumber: 4, Action: ActionUpdate},
		},
	}

	assert.Equal(t, 2, report.Count(ActionInsert))
	assert.Equal(t, 1, report.Count(ActionUpdate))
	assert.Equal(t, 1, report.Count(ActionSkip))
}

func TestIngestReport_Failed(t *testing.T) {
	report := &IngestReport{
		Results: []UnitResult{
			{LawNumber: 1, Status: StatusApplied},
			{LawNumber: 2, Status: StatusFailed, Err: errors.New("boom")},
			{LawNumber: 3, Status: StatusNotAttempted},
			{LawNumber: 4, Status: StatusSkipped},
		},
	}

	failed := report.Failed()
	assert.Len(t, failed, 2)
	assert.Equal(t, 2, failed[0].LawNumber)
	assert.Equal(t, 3, failed[1].LawNumber)
}

func TestLegalUnit_Text(t *testing.T) {
	assert.Equal(t, "raw", LegalUnit{RawText: "raw"}.Text())
	assert.Equal(t, "norm", LegalUnit{RawText: "raw", NormalizedText: "norm"}.Text())
}

func TestCorpusSnapshot_Keys(t *testing.T) {
	snap := CorpusSnapshot{9: "c", 1: "a", 4: "b"}
	assert.Equal(t, []int{1, 4, 9}, snap.Keys())
	assert.Empty(t, CorpusSnapshot{}.Keys())
}

func TestSimilarityThreshold(t *testing.T) {
	assert.InDelta(t, 0.85, SimilarityThreshold, 1e-9)
}
