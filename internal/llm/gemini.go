package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiClient implements the Client interface over the Gemini API.
type geminiClient struct {
	models      *genai.Models
	model       string
	temperature float64
	maxTokens   int
}

// newGeminiClient creates a new Gemini API client.
func newGeminiClient(ctx context.Context, cfg Config) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	timeout := cfg.timeout()
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
			Timeout: &timeout,
		},
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &geminiClient{
		models:      client.Models,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends prompt as one user content and returns the response text.
func (c *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	var genCfg *genai.GenerateContentConfig
	if c.temperature > 0 || c.maxTokens > 0 {
		genCfg = &genai.GenerateContentConfig{}
		if c.temperature > 0 {
			genCfg.Temperature = genai.Ptr(float32(c.temperature))
		}
		if c.maxTokens > 0 {
			genCfg.MaxOutputTokens = int32(c.maxTokens) // #nosec G115 -- bounded by config
		}
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func (c *geminiClient) Provider() string { return ProviderGemini }

func (c *geminiClient) Model() string { return c.model }
