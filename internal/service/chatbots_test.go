package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

func TestWikipediaService_Chat(t *testing.T) {
	up := &fakeUpstream{respond: reply(`{"message":"Go is a language"}`)}
	svc := NewWikipediaService(up)

	got, err := svc.Chat(context.Background(), model.WikipediaChatRequest{Message: "what is go"})
	require.NoError(t, err)
	assert.Equal(t, "Go is a language", got.Message)

	req := up.requests()[0]
	assert.Equal(t, config.BackendWikipedia, req.Backend)
	assert.Equal(t, "/chat-wikipedia", req.Path)
}

func TestChatbotService_Operations(t *testing.T) {
	up := &fakeUpstream{respond: func(req *client.Request) (int, string, error) {
		switch req.Path {
		case "/chat":
			return http.StatusOK, `{"reply":"use a map"}`, nil
		case "/health":
			return http.StatusOK, `{"status":"ok","service":"quiz"}`, nil
		default:
			return http.StatusOK, `{"message":"ok","question":"what is a slice?","question_id":"q1"}`, nil
		}
	}}
	svc := NewChatbotService(up)
	ctx := context.Background()

	chat, err := svc.Chat(ctx, model.ChatRequest{Message: "how do I dedupe?"})
	require.NoError(t, err)
	assert.Equal(t, "use a map", chat.Reply)

	health, err := svc.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)

	q, err := svc.Question(ctx)
	require.NoError(t, err)
	assert.Equal(t, "q1", q.QuestionID)

	_, err = svc.PublishQuestion(ctx)
	require.NoError(t, err)

	reqs := up.requests()
	require.Len(t, reqs, 4)
	assert.Equal(t, "/questions", reqs[2].Path)
	assert.Equal(t, http.MethodPost, reqs[3].Method)
	assert.Equal(t, "/question/publish", reqs[3].Path)
}
