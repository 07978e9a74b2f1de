package service

import (
	"context"
	"net/http"

	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

// WikipediaService talks to the Wikipedia chatbot.
type WikipediaService struct {
	caller
}

// NewWikipediaService returns a WikipediaService calling the Wikipedia chatbot backend through up.
func NewWikipediaService(up Upstream) *WikipediaService {
	return &WikipediaService{caller{up: up, backend: config.BackendWikipedia}}
}

func (s *WikipediaService) Chat(ctx context.Context, in model.WikipediaChatRequest) (model.WikipediaChatResponse, error) {
	return fetch[model.WikipediaChatResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/chat-wikipedia",
		JSON:   in,
	}, "error querying the Wikipedia service")
}

// ChatbotService talks to the programming chatbot.
type ChatbotService struct {
	caller
}

// NewChatbotService returns a ChatbotService calling the programming chatbot backend through up.
func NewChatbotService(up Upstream) *ChatbotService {
	return &ChatbotService{caller{up: up, backend: config.BackendChatbot}}
}

func (s *ChatbotService) Chat(ctx context.Context, in model.ChatRequest) (model.ChatResponse, error) {
	return fetch[model.ChatResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/chat",
		JSON:   in,
	}, "error talking to the programming chatbot")
}

func (s *ChatbotService) Health(ctx context.Context) (model.ChatbotHealth, error) {
	return fetch[model.ChatbotHealth](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/health",
	}, "error checking chatbot health")
}

func (s *ChatbotService) Question(ctx context.Context) (model.Question, error) {
	return fetch[model.Question](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/questions",
	}, "error fetching programming question")
}

func (s *ChatbotService) PublishQuestion(ctx context.Context) (model.Question, error) {
	return fetch[model.Question](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/question/publish",
	}, "error publishing programming question")
}
