package domain

import "time"

// JobRecord is the persisted summary of one ingestion run.
type JobRecord struct {
	ID         string          `json:"id"`
	Document   string          `json:"document"`
	Collection string          `json:"collection"`
	Mode       AcquisitionMode `json:"mode"`

	Units    int `json:"units"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewJobRecord summarises report. runErr is the error the run ended with, if any.
func NewJobRecord(report *IngestReport, startedAt, finishedAt time.Time, runErr error) JobRecord {
	rec := JobRecord{
		ID:         report.JobID,
		Document:   report.Document,
		Collection: report.Collection,
		Mode:       report.Mode,
		Units:      len(report.Units),
		Inserted:   report.Count(ActionInsert),
		Updated:    report.Count(ActionUpdate),
		Skipped:    report.Count(ActionSkip),
		Failed:     len(report.Failed()),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	return rec
}

// Succeeded reports whether the run finished without error.
func (r JobRecord) Succeeded() bool {
	return r.Error == ""
}

// Duration returns how long the run took.
func (r JobRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
