package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"scoutbot/app/config"
	"strings"
	"time"

	_ "embed"

	"github.com/sashabaranov/go-openai"
)

//go:embed refine_system_prompt.txt
var refineSystemPrompt string

const (
	// QueryPrefix marks the transcript entry carrying the refined query.
	// The transport adapter classifies pipeline output by this exact prefix.
	QueryPrefix = "Refined query: "

	maxQueryLength    = 400
	maxReasonDuration = 30 * time.Second
)

const (
	fewShotHuman     = "Please provide a research query."
	fewShotAssistant = "Certainly! I'd be happy to help you formulate a research query. " +
		"Could you please provide me with some information about the topic you'd like to research?"
)

type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type refiner struct {
	client completionAPI
	model  string
}

func newRefiner(cfg *config.Config) *refiner {
	clientConfig := openai.DefaultConfig(cfg.OpenAI.Token)

	clientConfig.BaseURL = cfg.OpenAI.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	return &refiner{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenAI.Model,
	}
}

func (r *refiner) run(ctx context.Context, st *State) error {
	input := st.lastHumanContent()

	ctx, cancel := context.WithTimeout(ctx, maxReasonDuration)
	defer cancel()

	aiResponse, err := r.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: r.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: refineSystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fewShotHuman,
				},
				{
					Role:    openai.ChatMessageRoleAssistant,
					Content: fewShotAssistant,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: input,
				},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return fmt.Errorf("no chat completion found")
	}

	query := strings.TrimSpace(aiResponse.Choices[0].Message.Content)
	query, _ = capQueryLength(query)

	if query == "" {
		return fmt.Errorf("model returned an empty query")
	}

	st.appendMessage(RoleAssistant, QueryPrefix+query)
	st.StructuredQuery = query
	st.Next = NodeSearch

	return nil
}

func capQueryLength(query string) (string, bool) {
	runes := []rune(query)
	if len(runes) <= maxQueryLength {
		return query, false
	}

	return string(runes[:maxQueryLength]), true
}
