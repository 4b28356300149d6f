package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pressa/internal/logger"
	"pressa/internal/models"
	"pressa/internal/services"
	helpers "pressa/internal/utils/helpers"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// GenerateContent godoc
// @Summary Сгенерировать статью по теме
// @Tags ai
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.GenerateContentRequest true "Тема, тон, длина, ключевые слова"
// @Success 200 {object} models.GeneratedContent
// @Failure 400 {string} string "Не указана тема"
// @Failure 503 {string} string "AI-провайдер не настроен"
// @Router /api/ai/generate-content [post]
func (h *AIHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON в generate-content", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		helpers.Error(w, http.StatusBadRequest, "Тема обязательна")
		return
	}

	// Дефолты, как их ждёт UI
	if req.Tone == "" {
		req.Tone = models.ToneProfessional
	}
	if req.Length == "" {
		req.Length = models.LengthMedium
	}
	if req.Keywords == nil {
		req.Keywords = []string{}
	}

	result, err := h.aiService.GenerateContent(r.Context(), req)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка генерации статьи", zap.Error(err))
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, result)
}

// GenerateIdeas godoc
// @Summary Сгенерировать список тем для постов
// @Tags ai
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.GenerateIdeasRequest true "Тема и количество идей"
// @Success 200 {object} models.IdeasResponse
// @Failure 400 {string} string "Не указана тема"
// @Router /api/ai/generate-ideas [post]
func (h *AIHandler) GenerateIdeas(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateIdeasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON в generate-ideas", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		helpers.Error(w, http.StatusBadRequest, "Тема обязательна")
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}

	ideas, err := h.aiService.GenerateIdeas(r.Context(), req.Topic, req.Count)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка генерации идей", zap.Error(err))
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, models.IdeasResponse{Ideas: ideas})
}

// OptimizeSEO godoc
// @Summary Оптимизировать текст под целевые ключевые слова
// @Tags ai
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.OptimizeSEORequest true "Текст и ключевые слова"
// @Success 200 {object} models.SEOOptimization
// @Failure 400 {string} string "Не указан контент"
// @Router /api/ai/optimize-seo [post]
func (h *AIHandler) OptimizeSEO(w http.ResponseWriter, r *http.Request) {
	var req models.OptimizeSEORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON в optimize-seo", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		helpers.Error(w, http.StatusBadRequest, "Контент обязателен")
		return
	}
	if req.TargetKeywords == nil {
		req.TargetKeywords = []string{}
	}

	result, err := h.aiService.OptimizeSEO(r.Context(), req)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка SEO-оптимизации", zap.Error(err))
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, result)
}

// ImproveContent godoc
// @Summary Улучшить готовый текст
// @Tags ai
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.ImproveContentRequest true "Текст"
// @Success 200 {object} models.ImprovedContent
// @Failure 400 {string} string "Не указан контент"
// @Router /api/ai/improve-content [post]
func (h *AIHandler) ImproveContent(w http.ResponseWriter, r *http.Request) {
	var req models.ImproveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON в improve-content", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		helpers.Error(w, http.StatusBadRequest, "Контент обязателен")
		return
	}

	result, err := h.aiService.ImproveContent(r.Context(), req.Content)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка улучшения текста", zap.Error(err))
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, result)
}
