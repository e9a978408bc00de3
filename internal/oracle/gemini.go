package oracle

import (
	"context"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/chainpilot-ai/chainpilot/internal/intent"
)

const defaultGeminiModel = "gemini-1.5-flash-latest"

// GeminiOracle runs the same intent contract against Google's Generative
// Language API.
type GeminiOracle struct {
	client *genai.Client
	model  string
}

func NewGeminiOracle(ctx context.Context, apiKey, model string) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiOracle{client: client, model: model}, nil
}

func (g *GeminiOracle) Close() {
	if g.client != nil {
		if err := g.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

func (g *GeminiOracle) ParseIntent(ctx context.Context, userMessage, walletAddress string) (*intent.Record, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemPrompt)},
	}

	maxTokens := int32(500)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens:  &maxTokens,
		ResponseMIMEType: "application/json",
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userTurn(userMessage, walletAddress)))
	if err != nil {
		log.Printf("Gemini intent request failed: %v", err)
		return intent.Degraded(degradedMessage), nil
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return intent.Degraded(degradedMessage), nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	if responseText.Len() == 0 {
		return intent.Degraded(degradedMessage), nil
	}

	rec, err := decodeIntent(responseText.String())
	if err != nil {
		log.Printf("Gemini intent decode error: %v", err)
		return intent.Degraded(degradedMessage), nil
	}
	return rec, nil
}

// ListModels returns the models that support content generation.
func (g *GeminiOracle) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	it := g.client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				names = append(names, m.Name)
				break
			}
		}
	}
	return names, nil
}
