package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"pressa/internal/services"
)

// Заглушка клиента OpenAI
type stubCompleter struct {
	reply string
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Kind  string          `json:"kind"`
}

func doRequest(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-content", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, req)

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("невалидный JSON в ответе: %v (%s)", err, rr.Body.String())
	}
	return rr, env
}

func TestGenerateContentHandler_MissingTopic(t *testing.T) {
	handler := NewAIHandler(services.NewAIServiceWithClient(&stubCompleter{}, "gpt-3.5-turbo"))

	rr, env := doRequest(t, handler.GenerateContent, `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("без темы ожидался 400, получен %d", rr.Code)
	}
	if env.Error == "" {
		t.Error("в ответе должно быть поле error")
	}
}

func TestGenerateContentHandler_Success(t *testing.T) {
	stub := &stubCompleter{reply: `{"title": "Заголовок", "content": "Текст", "tags": ["go"]}`}
	handler := NewAIHandler(services.NewAIServiceWithClient(stub, "gpt-3.5-turbo"))

	rr, env := doRequest(t, handler.GenerateContent, `{"topic": "Go для начинающих"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d (%s)", rr.Code, rr.Body.String())
	}

	var data struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("невалидный data: %v", err)
	}
	if data.Title != "Заголовок" || len(data.Tags) != 1 {
		t.Errorf("данные не совпадают: %+v", data)
	}
}

func TestGenerateContentHandler_BadModelReply(t *testing.T) {
	stub := &stubCompleter{reply: "не JSON"}
	handler := NewAIHandler(services.NewAIServiceWithClient(stub, "gpt-3.5-turbo"))

	rr, env := doRequest(t, handler.GenerateContent, `{"topic": "тема"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("мусорный ответ модели: ожидался 500, получен %d", rr.Code)
	}
	if env.Kind != "bad_response" {
		t.Errorf("ожидался kind bad_response, получен %q", env.Kind)
	}
}

func TestGenerateContentHandler_NoAPIKey(t *testing.T) {
	handler := NewAIHandler(services.NewAIServiceWithClient(nil, "gpt-3.5-turbo"))

	rr, env := doRequest(t, handler.GenerateContent, `{"topic": "тема"}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("без ключа ожидался 503, получен %d", rr.Code)
	}
	if env.Kind != "config" {
		t.Errorf("ожидался kind config, получен %q", env.Kind)
	}
}

func TestGenerateIdeasHandler_DefaultCount(t *testing.T) {
	stub := &stubCompleter{reply: `["а", "б", "в", "г", "д"]`}
	handler := NewAIHandler(services.NewAIServiceWithClient(stub, "gpt-3.5-turbo"))

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-ideas", strings.NewReader(`{"topic": "Go"}`))
	rr := httptest.NewRecorder()
	handler.GenerateIdeas(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d (%s)", rr.Code, rr.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("невалидный JSON в ответе: %v", err)
	}
	var data struct {
		Ideas []string `json:"ideas"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("невалидный data: %v", err)
	}
	if len(data.Ideas) != 5 {
		t.Errorf("ожидалось 5 идей, получено %d", len(data.Ideas))
	}
}
