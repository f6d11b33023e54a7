package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/phapdien/internal/core/domain"
	"github.com/custodia-labs/phapdien/internal/core/ports/driving"
)

const defaultNearestLimit = 5

// NearestInput is the input schema for the nearest_articles tool.
type NearestInput struct {
	Query      string `json:"query" jsonschema:"text to compare against stored articles"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to search (default from settings)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of articles to return (default 5)"`
}

// NearestOutput is the output schema for the nearest_articles tool.
type NearestOutput struct {
	Articles []ArticleOutput `json:"articles"`
	Count    int             `json:"count"`
}

// ArticleOutput is one stored article.
type ArticleOutput struct {
	LawNumber int     `json:"law_number"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path       string `json:"path" jsonschema:"absolute path of the PDF on this machine"`
	Collection string `json:"collection,omitempty" jsonschema:"target collection (default from settings)"`
	StartPage  int    `json:"start_page,omitempty" jsonschema:"first page to read, 1-indexed"`
	EndPage    int    `json:"end_page,omitempty" jsonschema:"last page to read, inclusive"`
	MinWord    int    `json:"min_word,omitempty" jsonschema:"minimum words per article (default from settings)"`
	Mode       string `json:"mode,omitempty" jsonschema:"auto, digital or scanned"`
	DryRun     bool   `json:"dry_run,omitempty" jsonschema:"plan decisions without writing"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	JobID      string         `json:"job_id"`
	Collection string         `json:"collection"`
	Mode       string         `json:"mode"`
	Inserted   int            `json:"inserted"`
	Updated    int            `json:"updated"`
	Skipped    int            `json:"skipped"`
	Failed     []FailedOutput `json:"failed,omitempty"`
}

// FailedOutput names an article that was not applied.
type FailedOutput struct {
	LawNumber int    `json:"law_number"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "nearest_articles",
		Description: "Find the stored legal articles closest to a piece of text",
	}, s.handleNearest)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_document",
			Description: "Split a Vietnamese legal PDF into articles and reconcile them with the store",
		}, s.handleIngest)
	}
}

func (s *Server) handleNearest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NearestInput,
) (*mcp.CallToolResult, NearestOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultNearestLimit
	}

	hits, err := s.ports.Units.Nearest(ctx, s.ports.collection(input.Collection), input.Query, limit)
	if err != nil {
		return nil, NearestOutput{}, err
	}

	output := NearestOutput{
		Articles: make([]ArticleOutput, len(hits)),
		Count:    len(hits),
	}
	for i, h := range hits {
		output.Articles[i] = ArticleOutput{LawNumber: h.LawNumber, Text: h.Text, Score: h.Score}
	}
	return nil, output, nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	req, err := ingestRequest(input)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	req.Collection = s.ports.collection(req.Collection)

	var report *domain.IngestReport
	if input.DryRun {
		report, err = s.ports.Ingest.Plan(ctx, req)
	} else {
		report, err = s.ports.Ingest.Ingest(ctx, req)
	}
	if report == nil {
		return nil, IngestOutput{}, err
	}

	output := IngestOutput{
		JobID:      report.JobID,
		Collection: report.Collection,
		Mode:       report.Mode.String(),
		Inserted:   report.Count(domain.ActionInsert),
		Updated:    report.Count(domain.ActionUpdate),
		Skipped:    report.Count(domain.ActionSkip),
	}
	for _, r := range report.Failed() {
		f := FailedOutput{LawNumber: r.LawNumber, Status: string(r.Status)}
		if r.Err != nil {
			f.Error = r.Err.Error()
		}
		output.Failed = append(output.Failed, f)
	}
	if err != nil {
		// A returned error would discard the report, so flag it on the result.
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		}, output, nil
	}
	return nil, output, nil
}

func ingestRequest(input IngestInput) (driving.IngestRequest, error) {
	if input.Path == "" {
		return driving.IngestRequest{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	mode := input.Mode
	if mode == "" {
		mode = "auto"
	}
	hint, err := domain.ParseAcquisitionMode(mode)
	if err != nil {
		return driving.IngestRequest{}, err
	}
	if input.MinWord < 0 {
		return driving.IngestRequest{}, fmt.Errorf("%w: min_word must not be negative", domain.ErrInvalidInput)
	}

	content, err := os.ReadFile(input.Path)
	if err != nil {
		return driving.IngestRequest{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	return driving.IngestRequest{
		Document: domain.SourceDocument{
			Name:    filepath.Base(input.Path),
			Content: content,
			Window:  domain.PageWindowFromBounds(input.StartPage, input.EndPage),
			Hint:    hint,
		},
		Collection: input.Collection,
		MinWord:    input.MinWord,
	}, nil
}
