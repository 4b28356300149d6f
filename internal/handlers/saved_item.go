package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"pressa/internal/logger"
	"pressa/internal/models"
	"pressa/internal/services"
	helpers "pressa/internal/utils/helpers"
)

type SavedItemHandler struct {
	service *services.SavedItemService
}

func NewSavedItemHandler(service *services.SavedItemService) *SavedItemHandler {
	return &SavedItemHandler{service: service}
}

// Save godoc
// @Summary Сохранить результат генерации
// @Tags ai
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.SaveAIItemRequest true "Тип, заголовок и результат"
// @Success 201 {object} models.SavedAIItem
// @Failure 400 {string} string "Ошибка валидации"
// @Router /api/ai/saved [post]
func (h *SavedItemHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}

	var req models.SaveAIItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при сохранении результата", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	item, err := h.service.Save(r.Context(), userID, req)
	if err != nil {
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, item)
}

// List godoc
// @Summary Сохранённые результаты текущего пользователя
// @Tags ai
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.SavedAIItem
// @Router /api/ai/saved [get]
func (h *SavedItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}

	helpers.JSON(w, http.StatusOK, h.service.List(r.Context(), userID))
}

// Delete godoc
// @Summary Удалить сохранённый результат
// @Tags ai
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID записи"
// @Success 200 {string} string "Запись удалена"
// @Failure 404 {string} string "Запись не найдена"
// @Router /api/ai/saved/{id} [delete]
func (h *SavedItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		helpers.AppError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Запись удалена"})
}

// DeleteAll godoc
// @Summary Удалить все сохранённые результаты пользователя
// @Tags ai
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /api/ai/saved [delete]
func (h *SavedItemHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}

	deleted, err := h.service.DeleteAll(r.Context(), userID)
	if err != nil {
		helpers.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("Сохранённые результаты очищены", zap.Int64("deleted", deleted))
	helpers.JSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
