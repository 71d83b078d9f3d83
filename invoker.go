package glean

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured explicitly.
const DefaultModel = "gemini-2.0-flash"

// Config carries everything the pipeline needs to reach the generation
// collaborator. Passed explicitly at construction so tests can inject a
// fake; there is no package-level client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ConfigFromEnv loads a .env file if one is present, then reads
// GEMINI_API_KEY and GLEAN_MODEL from the process environment. A missing
// API key is a fatal startup condition for any caller of the generation or
// storage capability.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY not set")
	}
	model := os.Getenv("GLEAN_MODEL")
	if model == "" {
		model = DefaultModel
	}
	return Config{APIKey: apiKey, Model: model}, nil
}

// NewClient builds a genai client from the configuration.
func NewClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// Invoker is the generation collaborator: it accepts a model identifier, a
// sequence of content parts, and an optional schema constraint, and returns
// the raw text payload. The abstraction exists so tests can substitute a
// scripted fake.
type Invoker interface {
	Generate(ctx context.Context, model string, parts []*genai.Part, constraint *genai.Schema) ([]byte, error)
	CountTokens(ctx context.Context, model string, parts []*genai.Part) (int32, error)
}

// genaiInvoker implements Invoker over the Gemini API.
type genaiInvoker struct {
	client *genai.Client
	log    *slog.Logger
}

func (g *genaiInvoker) Generate(ctx context.Context, model string, parts []*genai.Part, constraint *genai.Schema) ([]byte, error) {
	if g.client == nil {
		return nil, fmt.Errorf("generate: client not initialized")
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("generate: no content parts")
	}

	config := &genai.GenerateContentConfig{}
	if constraint != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = constraint
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	g.log.Debug("generating content", "model", model, "parts", len(parts), "constrained", constraint != nil)
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("generate content: no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("generate content: no parts in candidate")
	}
	text := candidate.Content.Parts[0].Text
	if text == "" {
		return nil, fmt.Errorf("generate content: empty text in response")
	}
	g.log.Debug("received response", "length", len(text))
	return []byte(text), nil
}

func (g *genaiInvoker) CountTokens(ctx context.Context, model string, parts []*genai.Part) (int32, error) {
	if g.client == nil {
		return 0, fmt.Errorf("count tokens: client not initialized")
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.Models.CountTokens(ctx, model, contents, nil)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return resp.TotalTokens, nil
}
