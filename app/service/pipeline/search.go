package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"scoutbot/app/client/tavily"
	"scoutbot/app/config"
	"strings"
)

const (
	// SearchPrefix marks the transcript entry carrying the search digest.
	SearchPrefix = "Search results: "

	digestHeader   = "Here are some relevant findings:"
	truncationNote = "(Note: the query was shortened to 400 characters before searching.)"
)

// Searcher is the search capability behind the executor node. Two
// implementations exist: a direct client call and a langchain tool call,
// selected by the search.mode config key.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

type searchExecutor struct {
	cfg      *config.Config
	searcher Searcher
}

// run never fails the pipeline: missing credential and transport errors are
// absorbed into the transcript as an error digest.
func (e *searchExecutor) run(ctx context.Context, st *State) error {
	if e.cfg.Tavily.Token == "" {
		e.fail(st, "TAVILY_API_KEY is not set")
		return nil
	}

	query, truncated := capQueryLength(st.StructuredQuery)

	results, err := e.searcher.Search(ctx, query)
	if err != nil {
		e.fail(st, err.Error())
		return nil
	}

	if results == nil {
		results = []SearchResult{}
	}

	st.SearchResults = results
	st.appendMessage(RoleAssistant, SearchPrefix+renderDigest(results, truncated))
	st.Next = NodeFinalize

	return nil
}

func (e *searchExecutor) fail(st *State, detail string) {
	st.SearchResults = []SearchResult{}
	st.appendMessage(RoleAssistant, SearchPrefix+"Error: "+detail)
	st.Next = NodeFinalize
}

func renderDigest(results []SearchResult, truncated bool) string {
	var builder strings.Builder

	if len(results) == 0 {
		builder.WriteString("No results were found for this query.")
	} else {
		builder.WriteString(digestHeader)

		for _, result := range results {
			builder.WriteString(fmt.Sprintf("\n- %s: %s", result.Title, result.URL))
		}
	}

	if truncated {
		builder.WriteString("\n\n")
		builder.WriteString(truncationNote)
	}

	return builder.String()
}

type directSearcher struct {
	client *tavily.Client
}

func (s directSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	return convertResults(results), nil
}

type toolSearcher struct {
	tool *tavily.SearchTool
}

func (s toolSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	output, err := s.tool.Call(ctx, query)
	if err != nil {
		return nil, err
	}

	var results []tavily.Result
	if err = json.Unmarshal([]byte(output), &results); err != nil {
		return nil, fmt.Errorf("failed to parse tool output: %w", err)
	}

	return convertResults(results), nil
}

func convertResults(results []tavily.Result) []SearchResult {
	converted := make([]SearchResult, 0, len(results))

	for _, result := range results {
		converted = append(converted, SearchResult{
			Title:   result.Title,
			URL:     result.URL,
			Content: result.Content,
		})
	}

	return converted
}
