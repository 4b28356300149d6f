package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"pressa/internal/apperrors"
	"pressa/internal/config"
	"pressa/internal/logger"
	"pressa/internal/models"
)

// chatCompleter — то, что нужно сервису от клиента OpenAI.
// *openai.Client подходит; в тестах подставляется заглушка.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client chatCompleter
	model  string
}

// NewAIService создаёт сервис. Без ключа клиент остаётся nil,
// и каждая операция сразу возвращает ошибку конфигурации —
// никаких сетевых вызовов.
func NewAIService(cfg *config.Config) *AIService {
	svc := &AIService{model: cfg.OpenAIModel}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return svc
	}
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	svc.client = openai.NewClientWithConfig(clientCfg)
	return svc
}

// NewAIServiceWithClient — для тестов.
func NewAIServiceWithClient(client chatCompleter, model string) *AIService {
	return &AIService{client: client, model: model}
}

var lengthInstructions = map[string]string{
	models.LengthShort:  "Write a concise article (300-500 words)",
	models.LengthMedium: "Write a comprehensive article (800-1200 words)",
	models.LengthLong:   "Write a detailed article (1500-2500 words)",
}

var toneInstructions = map[string]string{
	models.ToneProfessional:  "Use a professional and authoritative tone",
	models.ToneCasual:        "Use a casual and conversational tone",
	models.ToneFriendly:      "Use a warm and approachable tone",
	models.ToneAuthoritative: "Use an expert and confident tone",
}

// GenerateContent генерирует статью целиком: заголовок, текст, выдержку,
// SEO-поля и теги.
func (s *AIService) GenerateContent(ctx context.Context, req models.GenerateContentRequest) (*models.GeneratedContent, error) {
	log := logger.WithCtx(ctx)
	log.Info("Генерация статьи (service)",
		zap.String("topic", req.Topic),
		zap.String("tone", req.Tone),
		zap.String("length", req.Length),
		zap.Int("keywords", len(req.Keywords)),
	)

	lengthInstr, ok := lengthInstructions[req.Length]
	if !ok {
		lengthInstr = lengthInstructions[models.LengthMedium]
	}
	toneInstr, ok := toneInstructions[req.Tone]
	if !ok {
		toneInstr = toneInstructions[models.ToneProfessional]
	}

	prompt := fmt.Sprintf(`
Write a %s blog post about "%s".

Requirements:
- %s
- %s
- Include relevant keywords: %s
- Make it engaging and valuable for readers
- Include practical insights and actionable advice

Please provide the response in this exact JSON format:
{
  "title": "Compelling blog post title",
  "content": "Full blog post content with proper formatting",
  "excerpt": "Brief 2-3 sentence summary",
  "seoTitle": "SEO-optimized title (50-60 characters)",
  "seoDescription": "SEO meta description (150-160 characters)",
  "tags": ["tag1", "tag2", "tag3"]
}
`, req.Tone, req.Topic, lengthInstr, toneInstr, strings.Join(req.Keywords, ", "))

	raw, err := s.complete(ctx, completionParams{
		system:      "You are an expert content writer and SEO specialist. Always respond with valid JSON.",
		user:        prompt,
		temperature: 0.7,
		maxTokens:   2000,
	})
	if err != nil {
		log.Error("Ошибка генерации статьи", zap.Error(err))
		return nil, err
	}

	var out models.GeneratedContent
	if err := decodeAIJSON(raw, &out); err != nil {
		log.Error("Невалидный JSON в ответе модели", zap.Error(err), zap.Int("raw_len", len(raw)))
		return nil, err
	}

	log.Info("Статья сгенерирована", zap.String("title", out.Title), zap.Int("tags", len(out.Tags)))
	return &out, nil
}

// OptimizeSEO анализирует готовый текст под целевые ключевые слова.
func (s *AIService) OptimizeSEO(ctx context.Context, req models.OptimizeSEORequest) (*models.SEOOptimization, error) {
	log := logger.WithCtx(ctx)
	log.Info("SEO-оптимизация (service)",
		zap.Int("content_len", len(req.Content)),
		zap.Int("keywords", len(req.TargetKeywords)),
	)

	prompt := fmt.Sprintf(`
Analyze this content for SEO optimization:

Content: "%s"

Target keywords: %s

Please provide the response in this exact JSON format:
{
  "optimizedTitle": "SEO-optimized title (50-60 characters)",
  "optimizedDescription": "SEO meta description (150-160 characters)",
  "suggestions": ["suggestion1", "suggestion2", "suggestion3"],
  "keywordDensity": {"keyword1": 0.02, "keyword2": 0.015}
}
`, req.Content, strings.Join(req.TargetKeywords, ", "))

	raw, err := s.complete(ctx, completionParams{
		system:      "You are an SEO expert. Analyze content and provide optimization suggestions. Always respond with valid JSON.",
		user:        prompt,
		temperature: 0.3,
		maxTokens:   1000,
	})
	if err != nil {
		log.Error("Ошибка SEO-оптимизации", zap.Error(err))
		return nil, err
	}

	var out models.SEOOptimization
	if err := decodeAIJSON(raw, &out); err != nil {
		log.Error("Невалидный JSON в ответе модели", zap.Error(err))
		return nil, err
	}
	return &out, nil
}

// GenerateIdeas возвращает список тем. Длина ответа модели против count
// не проверяется.
func (s *AIService) GenerateIdeas(ctx context.Context, topic string, count int) ([]string, error) {
	log := logger.WithCtx(ctx)
	log.Info("Генерация идей (service)", zap.String("topic", topic), zap.Int("count", count))

	prompt := fmt.Sprintf(`
Generate %d engaging blog post ideas about "%s".

Requirements:
- Make them specific and actionable
- Focus on trending or evergreen topics
- Consider different angles and perspectives
- Make titles compelling and click-worthy

Return as a JSON array of strings:
["idea1", "idea2", "idea3", "idea4", "idea5"]
`, count, topic)

	raw, err := s.complete(ctx, completionParams{
		system:      "You are a creative content strategist. Always respond with valid JSON.",
		user:        prompt,
		temperature: 0.8,
		maxTokens:   500,
	})
	if err != nil {
		log.Error("Ошибка генерации идей", zap.Error(err))
		return nil, err
	}

	var ideas []string
	if err := decodeAIJSON(raw, &ideas); err != nil {
		log.Error("Невалидный JSON в ответе модели", zap.Error(err))
		return nil, err
	}

	log.Info("Идеи сгенерированы", zap.Int("got", len(ideas)))
	return ideas, nil
}

// ImproveContent переписывает текст: читабельность, вовлечение, SEO.
func (s *AIService) ImproveContent(ctx context.Context, content string) (*models.ImprovedContent, error) {
	log := logger.WithCtx(ctx)
	log.Info("Улучшение текста (service)", zap.Int("content_len", len(content)))

	prompt := fmt.Sprintf(`
Improve this blog post content for better readability, engagement, and SEO:

Content: "%s"

Please provide the response in this exact JSON format:
{
  "improvedContent": "Enhanced version of the content",
  "improvements": ["improvement1", "improvement2", "improvement3"]
}
`, content)

	raw, err := s.complete(ctx, completionParams{
		system:      "You are an expert editor and content strategist. Always respond with valid JSON.",
		user:        prompt,
		temperature: 0.5,
		maxTokens:   2000,
	})
	if err != nil {
		log.Error("Ошибка улучшения текста", zap.Error(err))
		return nil, err
	}

	var out models.ImprovedContent
	if err := decodeAIJSON(raw, &out); err != nil {
		log.Error("Невалидный JSON в ответе модели", zap.Error(err))
		return nil, err
	}
	return &out, nil
}

type completionParams struct {
	system      string
	user        string
	temperature float32
	maxTokens   int
}

// complete — один запрос/ответ, без ретраев и стриминга.
func (s *AIService) complete(ctx context.Context, p completionParams) (string, error) {
	if s.client == nil {
		return "", apperrors.New(apperrors.KindConfig, "OpenAI API key is not configured")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.system},
			{Role: openai.ChatMessageRoleUser, Content: p.user},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindProvider, "completion request failed", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperrors.New(apperrors.KindBadResponse, "no response from AI")
	}
	return resp.Choices[0].Message.Content, nil
}

// decodeAIJSON — единая стратегия разбора текстового ответа модели:
// прямой парс, затем вырезание JSON из обрамляющего текста
// (markdown-ограждения и т.п.), затем ошибка bad_response.
func decodeAIJSON(raw string, v interface{}) error {
	if json.Unmarshal([]byte(raw), v) == nil {
		return nil
	}

	if span := extractJSONSpan(raw); span != "" {
		if json.Unmarshal([]byte(span), v) == nil {
			return nil
		}
	}

	return apperrors.New(apperrors.KindBadResponse, "invalid JSON response from AI")
}

// extractJSONSpan вырезает из текста участок от первой открывающей до
// последней закрывающей скобки — объект или массив, смотря что встретится
// раньше.
func extractJSONSpan(raw string) string {
	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")

	start, closer := objStart, "}"
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start, closer = arrStart, "]"
	}
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(raw, closer)
	if end <= start {
		return ""
	}
	return raw[start : end+1]
}
