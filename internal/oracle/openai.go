package oracle

import (
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/chainpilot-ai/chainpilot/internal/intent"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIOracle talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIOracle struct {
	client *openai.Client
	model  string
}

// NewOpenAIOracle builds a client for the given key. baseURL overrides the
// endpoint for OpenAI-compatible providers; empty means api.openai.com.
func NewOpenAIOracle(apiKey, baseURL, model string) *OpenAIOracle {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIOracle{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAIOracle) ParseIntent(ctx context.Context, userMessage, walletAddress string) (*intent.Record, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userTurn(userMessage, walletAddress)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: 500,
	})
	if err != nil {
		log.Printf("LLM intent parsing error: %v", err)
		return intent.Degraded(degradedMessage), nil
	}
	if len(resp.Choices) == 0 {
		log.Println("LLM returned no choices for intent request")
		return intent.Degraded(degradedMessage), nil
	}

	rec, err := decodeIntent(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("LLM intent decode error: %v", err)
		return intent.Degraded(degradedMessage), nil
	}
	return rec, nil
}

// ListModels enumerates the model IDs the endpoint offers.
func (o *OpenAIOracle) ListModels(ctx context.Context) ([]string, error) {
	list, err := o.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}
