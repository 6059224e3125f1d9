package generator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/learnpath/backend/internal/config"
	"github.com/learnpath/backend/internal/models"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and produces question templates for a
// subject's difficulty tier.
type Generator struct {
	llm   LLMClient
	model string
}

// NewGenerator picks the mock client when MOCK_GENERATOR=true, the Anthropic
// API when ANTHROPIC_API_KEY is set, and otherwise returns nil: surveys are
// then drawn from the static bank only.
func NewGenerator(cfg config.Config) *Generator {
	switch {
	case cfg.MockGenerator:
		log.Println("Generator using mock data")
		return NewGeneratorWithClient(NewMockClient(), "mock")
	case cfg.AnthropicAPIKey != "":
		log.Println("Generator using Anthropic API:", cfg.AnthropicModel)
		return NewGeneratorWithClient(NewAPIClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), cfg.AnthropicModel)
	default:
		log.Println("Generator disabled, using static question bank")
		return nil
	}
}

func NewGeneratorWithClient(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateTemplates asks the LLM for count questions on the given topics at
// one difficulty tier. The batch is rejected as a whole if any question
// fails validation.
func (g *Generator) GenerateTemplates(ctx context.Context, subject string, topics []string, difficulty models.Difficulty, count int) ([]models.QuestionTemplate, *LLMResponse, error) {
	systemPrompt := SystemPrompt()
	userPrompt := BuildUserPrompt(subject, topics, difficulty, count)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate %s %s questions: %w", subject, difficulty, err)
	}

	batch, err := ParseResponse(resp.Content, difficulty, topics)
	if err != nil {
		return nil, resp, fmt.Errorf("parse %s %s response: %w", subject, difficulty, err)
	}

	return batch.Templates(), resp, nil
}

// ── APIClient: Anthropic SDK (production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(apiKey, model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			select {
			case <-time.After(sleepDuration):
			case <-ctx.Done():
				return nil, fmt.Errorf("anthropic API retry aborted: %w", ctx.Err())
			}
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient: local development ─────────────────────────

// MockClient answers with well-formed questions built from the fields of
// the user prompt, so the full parse path runs without network access.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	req := parsePromptRequest(userPrompt)
	return &LLMResponse{
		Content:      buildMockJSON(req),
		PromptTokens: len(systemPrompt+userPrompt) / 4,
		OutputTokens: 200 * req.count,
	}, nil
}

func buildMockJSON(req promptRequest) string {
	batch := GeneratedBatch{Questions: make([]GeneratedQuestion, 0, req.count)}
	topics := req.topics
	if len(topics) == 0 {
		topics = []string{"general"}
	}

	for i := 0; i < req.count; i++ {
		topic := topics[i%len(topics)]
		options := []string{
			fmt.Sprintf("[Mock] %s option A", topic),
			fmt.Sprintf("[Mock] %s option B", topic),
			fmt.Sprintf("[Mock] %s option C", topic),
			fmt.Sprintf("[Mock] %s option D", topic),
		}
		batch.Questions = append(batch.Questions, GeneratedQuestion{
			Text:          fmt.Sprintf("[Mock] %s question %d about %s in %s?", req.difficulty, i+1, topic, req.subject),
			Options:       options,
			CorrectAnswer: options[i%len(options)],
			Difficulty:    req.difficulty,
			Topic:         topic,
		})
	}

	return mustMarshal(batch)
}
