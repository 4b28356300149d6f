package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"

	"pressa/internal/apperrors"
	"pressa/internal/models"
)

// Заглушка клиента OpenAI
type stubCompleter struct {
	reply   string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func TestGenerateContent_Success(t *testing.T) {
	stub := &stubCompleter{reply: `{
		"title": "Заголовок",
		"content": "Текст статьи",
		"excerpt": "Кратко",
		"seoTitle": "SEO заголовок",
		"seoDescription": "SEO описание",
		"tags": ["go", "блог"]
	}`}
	service := NewAIServiceWithClient(stub, "gpt-3.5-turbo")

	out, err := service.GenerateContent(context.Background(), models.GenerateContentRequest{
		Topic: "Тестовая тема",
		Tone:  models.ToneCasual,
	})
	if err != nil {
		t.Fatalf("ошибка генерации: %v", err)
	}
	if out.Title != "Заголовок" {
		t.Errorf("неверный title: %q", out.Title)
	}
	if len(out.Tags) != 2 || out.Tags[0] != "go" {
		t.Errorf("теги не совпадают: %v", out.Tags)
	}
	if stub.lastReq.Temperature != 0.7 || stub.lastReq.MaxTokens != 2000 {
		t.Errorf("неверные параметры запроса: temp=%v max=%d", stub.lastReq.Temperature, stub.lastReq.MaxTokens)
	}
}

func TestGenerateContent_MarkdownFence(t *testing.T) {
	stub := &stubCompleter{reply: "Here is your article:\n```json\n{\"title\": \"T\", \"content\": \"C\"}\n```"}
	service := NewAIServiceWithClient(stub, "gpt-3.5-turbo")

	out, err := service.GenerateContent(context.Background(), models.GenerateContentRequest{Topic: "тема"})
	if err != nil {
		t.Fatalf("JSON внутри ограждения должен разбираться: %v", err)
	}
	if out.Title != "T" {
		t.Errorf("неверный title: %q", out.Title)
	}
}

func TestGenerateContent_Garbage(t *testing.T) {
	stub := &stubCompleter{reply: "извините, не могу помочь"}
	service := NewAIServiceWithClient(stub, "gpt-3.5-turbo")

	_, err := service.GenerateContent(context.Background(), models.GenerateContentRequest{Topic: "тема"})
	if err == nil {
		t.Fatal("ожидалась ошибка разбора")
	}
	if apperrors.KindOf(err) != apperrors.KindBadResponse {
		t.Errorf("ожидался kind bad_response, получен %v", apperrors.KindOf(err))
	}
}

func TestGenerateContent_ProviderError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("rate limit")}
	service := NewAIServiceWithClient(stub, "gpt-3.5-turbo")

	_, err := service.GenerateContent(context.Background(), models.GenerateContentRequest{Topic: "тема"})
	if err == nil {
		t.Fatal("ожидалась ошибка провайдера")
	}
	if apperrors.KindOf(err) != apperrors.KindProvider {
		t.Errorf("ожидался kind provider, получен %v", apperrors.KindOf(err))
	}
}

func TestAIService_NoKey(t *testing.T) {
	service := NewAIServiceWithClient(nil, "gpt-3.5-turbo")

	_, err := service.GenerateIdeas(context.Background(), "тема", 5)
	if err == nil {
		t.Fatal("без ключа операция должна падать")
	}
	if apperrors.KindOf(err) != apperrors.KindConfig {
		t.Errorf("ожидался kind config, получен %v", apperrors.KindOf(err))
	}
}

func TestGenerateIdeas_Array(t *testing.T) {
	stub := &stubCompleter{reply: `["идея 1", "идея 2", "идея 3"]`}
	service := NewAIServiceWithClient(stub, "gpt-3.5-turbo")

	ideas, err := service.GenerateIdeas(context.Background(), "Go", 3)
	if err != nil {
		t.Fatalf("ошибка генерации идей: %v", err)
	}
	if len(ideas) != 3 || ideas[2] != "идея 3" {
		t.Errorf("идеи не совпадают: %v", ideas)
	}
	if stub.lastReq.Temperature != 0.8 || stub.lastReq.MaxTokens != 500 {
		t.Errorf("неверные параметры запроса: temp=%v max=%d", stub.lastReq.Temperature, stub.lastReq.MaxTokens)
	}
}

func TestOptimizeSEO_Success(t *testing.T) {
	stub := &stubCompleter{reply: `{
		"optimizedTitle": "Лучший заголовок",
		"optimizedDescription": "Описание",
		"suggestions": ["добавить подзаголовки"],
		"keywordDensity": {"go": 0.02}
	}`}
	service := NewAIServiceWithClient(stub, "gpt-3.5-turbo")

	out, err := service.OptimizeSEO(context.Background(), models.OptimizeSEORequest{
		Content:        "текст",
		TargetKeywords: []string{"go"},
	})
	if err != nil {
		t.Fatalf("ошибка оптимизации: %v", err)
	}
	if out.KeywordDensity["go"] != 0.02 {
		t.Errorf("неверная плотность: %v", out.KeywordDensity)
	}
	if stub.lastReq.Temperature != 0.3 {
		t.Errorf("неверная температура: %v", stub.lastReq.Temperature)
	}
}

func TestExtractJSONSpan(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"объект в тексте", `вот ответ: {"a": 1} конец`, `{"a": 1}`},
		{"массив в тексте", `результат: ["x"] .`, `["x"]`},
		{"массив раньше объекта", `["x", {"a": 1}]`, `["x", {"a": 1}]`},
		{"нет скобок", "ничего нет", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSONSpan(tc.in); got != tc.want {
				t.Errorf("extractJSONSpan(%q) = %q, ожидалось %q", tc.in, got, tc.want)
			}
		})
	}
}
