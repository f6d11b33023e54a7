package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phapdien/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file.pdf]", ingestCmd.Use)
	assert.Equal(t, "Ingest a legal PDF", ingestCmd.Short)
}

func TestIngestCmd_HasFlags(t *testing.T) {
	for _, name := range []string{"start-page", "end-page", "min-word", "mode", "collection", "json", "dry-run"} {
		assert.NotNil(t, ingestCmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "auto", ingestCmd.Flags().Lookup("mode").DefValue)
	assert.Equal(t, "c", ingestCmd.Flags().Lookup("collection").Shorthand)
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand("ingest")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()
	ingestService = nil

	_, err := executeCommand("ingest", "luat.pdf")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestIngestCmd_BuildsRequest(t *testing.T) {
	ingest, _, _, cleanup := setupTestServices()
	defer cleanup()
	path := writePDF(t, t.TempDir(), "luat-dat-dai.pdf")

	out, err := executeCommand("ingest", path, "--start-page", "3", "--end-page", "9",
		"--min-word", "100", "--mode", "scanned", "-c", "dat_dai")
	require.NoError(t, err)

	req := ingest.lastRequest()
	assert.Equal(t, "luat-dat-dai.pdf", req.Document.Name)
	assert.Equal(t, []byte("%PDF-1.4 test"), req.Document.Content)
	assert.Equal(t, &domain.PageWindow{Start: 3, End: 9}, req.Document.Window)
	assert.Equal(t, domain.ModeScanned, req.Document.Hint)
	assert.Equal(t, "dat_dai", req.Collection)
	assert.Equal(t, 100, req.MinWord)

	assert.Contains(t, out, "Document:   luat-dat-dai.pdf (digital)")
	assert.Contains(t, out, "Decisions:  1 insert, 0 update, 1 skip")
	assert.Contains(t, out, "applied")
	assert.Equal(t, 0, ingest.planned)
}

func TestIngestCmd_SingleBoundReadsWholeDocument(t *testing.T) {
	ingest, _, _, cleanup := setupTestServices()
	defer cleanup()
	path := writePDF(t, t.TempDir(), "a.pdf")

	_, err := executeCommand("ingest", path, "--start-page", "3")
	require.NoError(t, err)

	assert.Nil(t, ingest.lastRequest().Document.Window)
}

func TestIngestCmd_InvalidMode(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()
	path := writePDF(t, t.TempDir(), "a.pdf")

	_, err := executeCommand("ingest", path, "--mode", "hybrid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestCmd_NegativeMinWord(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()
	path := writePDF(t, t.TempDir(), "a.pdf")

	_, err := executeCommand("ingest", path, "--min-word", "-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestCmd_MissingFile(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ingest", "/nonexistent/luat.pdf")
	assert.ErrorContains(t, err, "reading /nonexistent/luat.pdf")
}

func TestIngestCmd_DryRun(t *testing.T) {
	ingest, _, _, cleanup := setupTestServices()
	defer cleanup()
	path := writePDF(t, t.TempDir(), "a.pdf")

	out, err := executeCommand("ingest", path, "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, 1, ingest.planned)
	assert.Contains(t, out, "Dry run: nothing was written.")
}

func TestIngestCmd_JSONOutput(t *testing.T) {
	ingest, _, _, cleanup := setupTestServices()
	defer cleanup()
	ingest.report.Results[0] = domain.UnitResult{
		LawNumber: 1, Action: domain.ActionInsert, Status: domain.StatusFailed, Err: errCLIMock,
	}
	path := writePDF(t, t.TempDir(), "a.pdf")

	out, err := executeCommand("ingest", path, "--json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &decoded))
	assert.Equal(t, "job-1", decoded["job_id"])
	assert.Len(t, decoded["decisions"], 2)
	assert.Equal(t, map[string]any{"1": "mock failure"}, decoded["errors"])
}

func TestIngestCmd_PartialFailurePrintsReport(t *testing.T) {
	ingest, _, _, cleanup := setupTestServices()
	defer cleanup()
	ingest.err = errCLIMock
	ingest.report.Results[0] = domain.UnitResult{
		LawNumber: 1, Action: domain.ActionInsert, Status: domain.StatusFailed, Err: errCLIMock,
	}
	path := writePDF(t, t.TempDir(), "a.pdf")

	out, err := executeCommand("ingest", path)

	assert.ErrorIs(t, err, errCLIMock)
	assert.Contains(t, err.Error(), "ingest failed")
	assert.Contains(t, out, "failed: mock failure")
	assert.Contains(t, out, "1 article(s) not applied")
}

func TestIngestCmd_NoDecisions(t *testing.T) {
	ingest, _, _, cleanup := setupTestServices()
	defer cleanup()
	ingest.report = &domain.IngestReport{Mode: domain.ModeScanned}
	path := writePDF(t, t.TempDir(), "a.pdf")

	out, err := executeCommand("ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No articles to reconcile.")
}

func TestIngestCmd_ErrorWithoutReport(t *testing.T) {
	ingest, _, _, cleanup := setupTestServices()
	defer cleanup()
	ingest.report = nil
	ingest.err = domain.ErrExtraction
	path := writePDF(t, t.TempDir(), "a.pdf")

	out, err := executeCommand("ingest", path)

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.NotContains(t, out, "Document:")
}
