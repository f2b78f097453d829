package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/policy"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAITextRequired         = errors.New("text is required")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAITooManyTasks         = fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AIService drafts tasks from free text. Drafts are returned, never stored.
type AIService struct {
	client chatCompleter
	now    func() time.Time
}

// TaskDraft is a suggested task an admin can review before creating it.
type TaskDraft struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	DueDate       *time.Time          `json:"due_date"`
	TodoChecklist []models.TodoItem   `json:"todo_checklist"`
}

// NewAIService returns nil when apiKey is empty; a nil service reports
// ErrAIServiceNotConfigured.
func NewAIService(apiKey string) *AIService {
	if apiKey == "" {
		return nil
	}
	return &AIService{
		client: openai.NewClient(apiKey),
		now:    time.Now,
	}
}

// GenerateTaskDrafts analyzes text and extracts task drafts using OpenAI GPT
func (s *AIService) GenerateTaskDrafts(ctx context.Context, principal policy.Principal, text string) ([]TaskDraft, error) {
	if err := policy.Authorize(principal, policy.ActionGenerateTasks, policy.Target{}); err != nil {
		return nil, err
	}
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrAITextRequired
	}

	now := s.now()
	drafts, err := s.complete(ctx, text, now)
	if err != nil {
		return nil, err
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		return nil, ErrAITooManyTasks
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := now.Add(-24 * time.Hour)
	for _, draft := range drafts {
		draft.Title = strings.TrimSpace(draft.Title)
		if draft.Title == "" {
			continue
		}
		if !draft.Priority.Valid() {
			draft.Priority = models.TaskPriorityMedium
		}
		if draft.DueDate != nil && draft.DueDate.Before(cutoff) {
			draft.DueDate = nil
		}
		if draft.TodoChecklist == nil {
			draft.TodoChecklist = []models.TodoItem{}
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}

	return valid, nil
}

func (s *AIService) complete(ctx context.Context, text string, now time.Time) ([]TaskDraft, error) {
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of the extracted tasks in this shape:
[
  {
    "title": "short task title",
    "description": "task details",
    "priority": "Low, Medium or High",
    "due_date": "deadline in ISO8601, e.g. 2025-10-28T23:59:59Z, or null when none is given",
    "todo_checklist": [{"text": "sub-step", "completed": false}]
  }
]

Rules:
- Return an empty array [] when there are no tasks
- Convert relative deadlines ("tomorrow", "next week") to concrete timestamps
- due_date must be an ISO8601 string or null
- Return only JSON, no commentary`, now.Format(time.RFC3339), text)

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

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return drafts, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
