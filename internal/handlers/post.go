package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"pressa/internal/logger"
	"pressa/internal/middleware"
	"pressa/internal/models"
	"pressa/internal/services"
	helpers "pressa/internal/utils/helpers"
)

type PostHandler struct {
	service services.PostService
}

func NewPostHandler(service services.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// actor достаёт идентичность из контекста, выставленного JWT-middleware.
func actor(r *http.Request) (userID, role string, ok bool) {
	userID, ok1 := r.Context().Value(middleware.ContextUserID).(string)
	role, ok2 := r.Context().Value(middleware.ContextRole).(string)
	return userID, role, ok1 && ok2 && userID != ""
}

func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Create godoc
// @Summary Создать пост
// @Tags posts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreatePostRequest true "Данные поста"
// @Success 201 {object} models.Post
// @Failure 400 {string} string "Невалидные данные"
// @Router /api/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при создании поста", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	post, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		helpers.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("Пост создан", zap.String("post_id", post.ID))
	helpers.JSON(w, http.StatusCreated, post)
}

// Update godoc
// @Summary Обновить пост
// @Description Частичное обновление: переданные поля перезаписывают текущие,
// @Description побеждает последняя запись.
// @Tags posts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID поста"
// @Param input body models.UpdatePostRequest true "Изменяемые поля"
// @Success 200 {object} models.Post
// @Failure 403 {string} string "Нет прав"
// @Failure 404 {string} string "Пост не найден"
// @Router /api/posts/{id} [patch]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}
	id := mux.Vars(r)["id"]

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при обновлении поста", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	post, err := h.service.Update(r.Context(), id, userID, role, req)
	if err != nil {
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, post)
}

// Delete godoc
// @Summary Удалить пост
// @Tags posts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID поста"
// @Success 200 {string} string "Пост удалён"
// @Failure 403 {string} string "Нет прав"
// @Failure 404 {string} string "Пост не найден"
// @Router /api/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id, userID, role); err != nil {
		helpers.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("Пост удалён", zap.String("post_id", id))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Пост удалён"})
}

// GetByID godoc
// @Summary Получить пост по ID
// @Tags posts
// @Produce json
// @Param id path string true "ID поста"
// @Success 200 {object} models.Post
// @Failure 404 {string} string "Пост не найден"
// @Router /api/posts/{id} [get]
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	if post == nil {
		helpers.Error(w, http.StatusNotFound, "Пост не найден")
		return
	}

	helpers.JSON(w, http.StatusOK, post)
}

// GetBySlug godoc
// @Summary Получить пост по slug
// @Tags posts
// @Produce json
// @Param slug path string true "Slug поста"
// @Success 200 {object} models.Post
// @Failure 404 {string} string "Пост не найден"
// @Router /api/posts/slug/{slug} [get]
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		helpers.AppError(w, err)
		return
	}
	if post == nil {
		helpers.Error(w, http.StatusNotFound, "Пост не найден")
		return
	}

	helpers.JSON(w, http.StatusOK, post)
}

// ListPublished godoc
// @Summary Опубликованные посты
// @Description Публичная лента. Параметр q включает поиск по заголовку и тегам.
// @Tags posts
// @Produce json
// @Param limit query int false "Максимум постов" default(50)
// @Param q query string false "Поисковая строка"
// @Success 200 {array} models.Post
// @Router /api/posts [get]
func (h *PostHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r, 50)

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		helpers.JSON(w, http.StatusOK, h.service.Search(r.Context(), q, limit, true))
		return
	}

	helpers.JSON(w, http.StatusOK, h.service.ListPublished(r.Context(), limit))
}

// ListAll godoc
// @Summary Все посты (панель управления)
// @Tags posts
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "Фильтр по статусу" Enums(draft, published, archived)
// @Param limit query int false "Максимум постов" default(50)
// @Param q query string false "Поисковая строка"
// @Success 200 {array} models.Post
// @Router /api/posts/all [get]
func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r, 50)

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		helpers.JSON(w, http.StatusOK, h.service.Search(r.Context(), q, limit, false))
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !models.IsValidStatus(status) {
		helpers.Error(w, http.StatusBadRequest, "Недопустимый статус")
		return
	}

	helpers.JSON(w, http.StatusOK, h.service.List(r.Context(), status, limit))
}

// ListMine godoc
// @Summary Посты текущего автора
// @Tags posts
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Post
// @Router /api/posts/mine [get]
func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}

	helpers.JSON(w, http.StatusOK, h.service.ListByAuthor(r.Context(), userID))
}

type publishRequest struct {
	Publish bool `json:"publish"`
}

// SetPublish godoc
// @Summary Опубликовать или снять с публикации
// @Tags posts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID поста"
// @Param input body publishRequest true "Новое состояние"
// @Success 200 {object} models.Post
// @Failure 403 {string} string "Нет прав"
// @Router /api/posts/{id}/publish [patch]
func (h *PostHandler) SetPublish(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}
	id := mux.Vars(r)["id"]

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	post, err := h.service.SetPublish(r.Context(), id, userID, role, req.Publish)
	if err != nil {
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, post)
}

// Stats godoc
// @Summary Сводная статистика по контенту
// @Tags stats
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.SystemStats
// @Router /api/stats [get]
func (h *PostHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения статистики", zap.Error(err))
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, stats)
}
