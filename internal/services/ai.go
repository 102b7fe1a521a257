package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// SuggestedTask is a task proposal derived from a problem statement. It is
// never persisted directly; the leader decides what to create from it.
type SuggestedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestTasks decomposes a project's problem statement into concrete task
// suggestions using OpenAI GPT.
func (s *AIService) SuggestTasks(ctx context.Context, projectName, problemStatement string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a project planning assistant. Break the problem statement below into concrete, actionable tasks a project member could be assigned.

Current time: %s
Project: %s

Problem statement:
%s

Return a JSON array of tasks in exactly this shape:
[
  {
    "title": "short task title",
    "description": "what needs to be done and why",
    "due_date": "deadline in ISO8601 (e.g. 2025-10-28T23:59:59Z), or null when the statement gives none"
  }
]

Rules:
- Return an empty array [] if no tasks can be derived
- due_date must be an ISO8601 string or null
- Return only the JSON, no prose`, currentTime, projectName, problemStatement)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var tasks []SuggestedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}
