package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

// ChatbotHandler serves /api/v1/wikipedia and /api/v1/chatbot.
type ChatbotHandler struct {
	wikipedia *service.WikipediaService
	chatbot   *service.ChatbotService
}

// NewChatbotHandler creates a ChatbotHandler serving both chatbot backends.
func NewChatbotHandler(w *service.WikipediaService, cb *service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{wikipedia: w, chatbot: cb}
}

func (h *ChatbotHandler) WikipediaChat(c echo.Context) error {
	var in model.WikipediaChatRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.wikipedia.Chat(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatbotHandler) Chat(c echo.Context) error {
	var in model.ChatRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.chatbot.Chat(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatbotHandler) Health(c echo.Context) error {
	out, err := h.chatbot.Health(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatbotHandler) Question(c echo.Context) error {
	out, err := h.chatbot.Question(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatbotHandler) PublishQuestion(c echo.Context) error {
	out, err := h.chatbot.PublishQuestion(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
