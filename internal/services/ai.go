package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/task-tracker-api/internal/constants"
)

// AIService drafts tasks from free text with an OpenAI chat model
type AIService struct {
	client *openai.Client
	model  string
}

// TaskDraft is a suggested task. Drafts are never persisted by the AI service.
type TaskDraft struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// SuggestTasksInput is the text to extract tasks from
type SuggestTasksInput struct {
	Text string `label:"text" validate:"required,max=5000"`
}

func NewAIService(apiKey string) *AIService {
	return NewAIServiceWithClient(openai.NewClient(apiKey), openai.GPT4o)
}

// NewAIServiceWithClient uses a preconfigured client, e.g. one pointed at a
// different base URL
func NewAIServiceWithClient(client *openai.Client, model string) *AIService {
	return &AIService{
		client: client,
		model:  model,
	}
}

// SuggestTasks asks the model for task drafts and keeps only those that could
// be created as tasks as-is
func (s *AIService) SuggestTasks(ctx context.Context, input SuggestTasksInput) ([]TaskDraft, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	drafts, err := s.generateDrafts(ctx, input.Text)
	if err != nil {
		return nil, err
	}

	valid := make([]TaskDraft, 0, len(drafts))
	for _, draft := range drafts {
		draft.Title = strings.TrimSpace(draft.Title)
		if draft.Title == "" || utf8.RuneCountInString(draft.Title) > constants.MaxTitleLength {
			continue
		}
		if draft.Description != nil {
			desc := strings.TrimSpace(*draft.Description)
			if desc == "" {
				draft.Description = nil
			} else if utf8.RuneCountInString(desc) > constants.MaxDescriptionLength {
				continue
			} else {
				draft.Description = &desc
			}
		}

		valid = append(valid, draft)
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
	}

	return valid, nil
}

func (s *AIService) generateDrafts(ctx context.Context, text string) ([]TaskDraft, error) {
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete tasks from the text below.

Text:
%s

Reply with a JSON array of tasks in this shape:
[
  {
    "title": "short task title (at most %d characters)",
    "description": "task details, or null"
  }
]

Rules:
- Reply with [] if the text contains no tasks
- Reply with JSON only, no explanations`, text, constants.MaxTitleLength)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
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

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return drafts, nil
}

// stripCodeFence removes a surrounding ```json fence some models add
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
