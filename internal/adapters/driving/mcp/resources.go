package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for phapdien resources.
	uriScheme = "phapdien://"

	defaultJobsLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{collection}/articles",
		Name:        "collection-articles",
		Description: "Every stored article in a collection, keyed by law number",
		MIMEType:    "application/json",
	}, s.handleArticlesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{collection}/articles/{lawNumber}",
		Name:        "article-text",
		Description: "Stored text of one article",
		MIMEType:    "text/plain",
	}, s.handleArticleResource)

	if s.ports.Ingest != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "jobs",
			Name:        "jobs",
			Description: "Recent ingestion runs, most recent first",
			MIMEType:    "application/json",
		}, s.handleJobsResource)
	}
}

func (s *Server) handleArticlesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	collection, rest, ok := parseCollectionURI(req.Params.URI)
	if !ok || rest != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	snap, err := s.ports.Units.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return jsonResult(req.Params.URI, snap)
}

func (s *Server) handleArticleResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	collection, rest, ok := parseCollectionURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	lawNumber, err := strconv.Atoi(rest)
	if err != nil || lawNumber <= 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	snap, err := s.ports.Units.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	text, found := snap[lawNumber]
	if !found {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		}},
	}, nil
}

func (s *Server) handleJobsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	jobs, err := s.ports.Ingest.History(ctx, defaultJobsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jsonResult(req.Params.URI, jobs)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseCollectionURI splits phapdien://collections/{collection}/articles[/{rest}].
func parseCollectionURI(uri string) (collection, rest string, ok bool) {
	const prefix = uriScheme + "collections/"

	if !strings.HasPrefix(uri, prefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, prefix), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] != "articles" {
		return "", "", false
	}
	if len(parts) == 3 {
		if parts[2] == "" {
			return "", "", false
		}
		rest = parts[2]
	}
	return parts[0], rest, true
}
