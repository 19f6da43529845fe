package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T, content string) *AIService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-test",
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    openai.ChatMessageRoleAssistant,
						Content: content,
					},
					FinishReason: openai.FinishReasonStop,
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewAIServiceWithClient(openai.NewClientWithConfig(cfg), "test-model")
}

func TestAIService_SuggestTasks_FiltersDrafts(t *testing.T) {
	content := "```json\n" + `[
		{"title": "  Book flights  ", "description": "Tokyo, next week"},
		{"title": "", "description": "no title"},
		{"title": "` + strings.Repeat("x", 201) + `", "description": null},
		{"title": "Pack", "description": "   "},
		{"title": "Long notes", "description": "` + strings.Repeat("d", 2001) + `"}
	]` + "\n```"

	svc := newFakeOpenAI(t, content)

	drafts, err := svc.SuggestTasks(context.Background(), SuggestTasksInput{Text: "Book flights to Tokyo and pack"})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	require.Equal(t, "Book flights", drafts[0].Title)
	require.NotNil(t, drafts[0].Description)
	require.Equal(t, "Tokyo, next week", *drafts[0].Description)

	require.Equal(t, "Pack", drafts[1].Title)
	require.Nil(t, drafts[1].Description)
}

func TestAIService_SuggestTasks_EmptyResult(t *testing.T) {
	svc := newFakeOpenAI(t, "[]")

	drafts, err := svc.SuggestTasks(context.Background(), SuggestTasksInput{Text: "nothing to do"})
	require.NoError(t, err)
	require.NotNil(t, drafts)
	require.Empty(t, drafts)
}

func TestAIService_SuggestTasks_UnparseableResponse(t *testing.T) {
	svc := newFakeOpenAI(t, "Sure! Here are your tasks.")

	_, err := svc.SuggestTasks(context.Background(), SuggestTasksInput{Text: "anything"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrValidation)
}

func TestAIService_SuggestTasks_NotConfigured(t *testing.T) {
	var svc *AIService

	_, err := svc.SuggestTasks(context.Background(), SuggestTasksInput{Text: "anything"})
	require.ErrorIs(t, err, ErrAIServiceNotConfigured)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestAIService_SuggestTasks_Validation(t *testing.T) {
	svc := NewAIServiceWithClient(openai.NewClient("unused"), "test-model")

	_, err := svc.SuggestTasks(context.Background(), SuggestTasksInput{Text: ""})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.SuggestTasks(context.Background(), SuggestTasksInput{Text: strings.Repeat("a", 5001)})
	require.ErrorIs(t, err, ErrValidation)
}
