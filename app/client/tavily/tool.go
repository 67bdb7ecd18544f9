package tavily

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/tools"
)

var _ tools.Tool = (*SearchTool)(nil)

// SearchTool exposes the search client behind the langchain tool interface,
// so the pipeline can invoke search the same way a model-driven agent would.
type SearchTool struct {
	client *Client
}

func NewSearchTool(client *Client) *SearchTool {
	return &SearchTool{client: client}
}

func (t *SearchTool) Name() string {
	return "tavily_search"
}

func (t *SearchTool) Description() string {
	return "Searches the web using the Tavily API. " +
		"Input is a plain-text query of at most 400 characters, " +
		"output is a JSON array of results with title and url fields."
}

func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	results, err := t.client.Search(ctx, input)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal search results: %w", err)
	}

	return string(data), nil
}
