package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// AIService drafts issues from free-form text using OpenAI GPT. It is
// optional: the server runs without it when no API key is configured.
type AIService struct {
	client *openai.Client
}

// GeneratedIssue is one issue draft extracted from text.
type GeneratedIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Tag         string `json:"tag"`
}

// NewAIService creates a new AIService.
func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateIssuesFromText analyzes text such as meeting notes or a bug report
// and extracts issue drafts.
func (s *AIService) GenerateIssuesFromText(ctx context.Context, text string) ([]GeneratedIssue, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are an issue-extraction assistant for a software project tracker. Extract concrete, actionable issues from the text below.

Text:
%s

Respond with a JSON array of the extracted issues, nothing else:
[
  {
    "title": "short issue title",
    "description": "detailed description of the issue",
    "priority": "LOW, MEDIUM or HIGH",
    "tag": "BUG, FEATURE or TASK"
  }
]`, text)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	// Models occasionally wrap the payload in a code fence.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var issues []GeneratedIssue
	if err := json.Unmarshal([]byte(content), &issues); err != nil {
		return nil, fmt.Errorf("failed to parse generated issues: %w", err)
	}

	return issues, nil
}
