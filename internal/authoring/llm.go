package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/avioprep/avioprep/internal/question"
)

// LLMClient suggests plausible wrong answers for a question when the sibling
// pool runs dry.
type LLMClient interface {
	SuggestDistractors(ctx context.Context, q question.Question, n int) ([]string, error)
}

// NewLLMClient picks the Anthropic API when a key is configured, otherwise a
// mock that fabricates placeholder distractors for offline authoring runs.
func NewLLMClient() LLMClient {
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		log.Println("authoring: no ANTHROPIC_API_KEY, using mock distractor client")
		return &MockClient{}
	}
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	client := anthropic.NewClient(option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")))
	return &APIClient{client: &client, model: model}
}

const systemPrompt = `You write distractors for aviation exam multiple-choice questions.
Given a question and its correct answer, produce plausible but clearly incorrect
options at the same level of detail as the correct answer. Respond with a JSON
array of strings only.`

type APIClient struct {
	client *anthropic.Client
	model  string
}

func (c *APIClient) SuggestDistractors(ctx context.Context, q question.Question, n int) ([]string, error) {
	correct := ""
	if i := q.CorrectIndex(); i >= 0 {
		correct = q.Options[i]
	}
	userPrompt := fmt.Sprintf("Question: %s\nCorrect answer: %s\nExisting options: %s\nWrite %d new distractors.",
		q.Text, correct, strings.Join(q.Options, "; "), n)

	msg, err := c.callWithRetry(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, err
	}
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	return parseDistractorJSON(text, n)
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt)) * time.Second)
		}
		msg, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		log.Printf("authoring: anthropic attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// parseDistractorJSON tolerates prose around the JSON array.
func parseDistractorJSON(text string, n int) ([]string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}
	var out []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("parse distractors: %w", err)
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// MockClient fabricates placeholder distractors.
type MockClient struct{}

func (MockClient) SuggestDistractors(_ context.Context, q question.Question, n int) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("[draft] plausible alternative %d for %s", i+1, q.ID))
	}
	return out, nil
}
