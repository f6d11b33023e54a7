package domain

// SimilarityThreshold is the score above which a stored article is considered
// unchanged. Scores at or below it trigger an update.
const SimilarityThreshold = 0.85

// Action is the reconciliation outcome for one article.
// There is no delete action: articles missing from a new submission stay stored.
type Action string

// Available actions.
const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// Decision pairs a law number with its reconciliation action.
type Decision struct {
	LawNumber int    `json:"law_number"`
	Action    Action `json:"action"`

	// Content is the normalised text to write. Empty for skips.
	Content string `json:"-"`

	// Similarity is the score against the stored text. Zero for inserts.
	Similarity float64 `json:"similarity"`
}

// UnitStatus reports what happened when a decision was applied.
type UnitStatus string

// Available unit statuses.
const (
	StatusApplied      UnitStatus = "applied"
	StatusSkipped      UnitStatus = "skipped"
	StatusFailed       UnitStatus = "failed"
	StatusNotAttempted UnitStatus = "not_attempted"
)

// UnitResult is the per-article report of an apply run.
// Callers retry only the units that are Failed or NotAttempted.
type UnitResult struct {
	LawNumber int        `json:"law_number"`
	Action    Action     `json:"action"`
	Status    UnitStatus `json:"status"`
	Err       error      `json:"-"`
}

// IngestReport summarises one document ingestion.
type IngestReport struct {
	JobID      string          `json:"job_id"`
	Document   string          `json:"document"`
	Collection string          `json:"collection"`
	Mode       AcquisitionMode `json:"mode"`

	// Units are the articles that survived the length filter.
	Units []LegalUnit `json:"-"`

	Decisions []Decision   `json:"decisions"`
	Results   []UnitResult `json:"results"`
}

// Count returns how many decisions carry the given action.
func (r *IngestReport) Count(action Action) int {
	n := 0
	for _, d := range r.Decisions {
		if d.Action == action {
			n++
		}
	}
	return n
}

// Failed returns the results that were not applied successfully.
func (r *IngestReport) Failed() []UnitResult {
	var out []UnitResult
	for _, res := range r.Results {
		if res.Status == StatusFailed || res.Status == StatusNotAttempted {
			out = append(out, res)
		}
	}
	return out
}
