package model

type WikipediaChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=500"`
}

type WikipediaChatResponse struct {
	Message string `json:"message" validate:"required"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

type ChatResponse struct {
	Reply string `json:"reply" validate:"required"`
}

type ChatbotHealth struct {
	Status  string  `json:"status" validate:"required"`
	Service *string `json:"service,omitempty"`
}

// Question is a programming question produced by the chatbot.
type Question struct {
	Message    string `json:"message"`
	Question   string `json:"question"`
	QuestionID string `json:"question_id" validate:"required"`
}
