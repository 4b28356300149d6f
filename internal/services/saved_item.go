package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"pressa/internal/apperrors"
	"pressa/internal/logger"
	"pressa/internal/models"
	"pressa/internal/repository"
)

type SavedItemService struct {
	repo repository.SavedItemRepo
}

func NewSavedItemService(repo repository.SavedItemRepo) *SavedItemService {
	return &SavedItemService{repo: repo}
}

func (s *SavedItemService) Save(ctx context.Context, userID string, req models.SaveAIItemRequest) (*models.SavedAIItem, error) {
	log := logger.WithCtx(ctx)
	log.Info("Сохранение AI-результата (service)", zap.String("user_id", userID), zap.String("type", req.Type))

	if !models.IsValidSavedType(req.Type) {
		return nil, apperrors.New(apperrors.KindValidation, "недопустимый тип: "+req.Type)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "заголовок обязателен")
	}
	if len(req.Result) == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "result обязателен")
	}

	item := &models.SavedAIItem{
		UserID: userID,
		Type:   req.Type,
		Title:  strings.TrimSpace(req.Title),
		Result: req.Result,
		Topic:  strings.TrimSpace(req.Topic),
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		log.Error("Ошибка сохранения AI-результата (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("AI-результат сохранён", zap.String("id", created.ID))
	return created, nil
}

// List деградирует до пустого списка при ошибке чтения.
func (s *SavedItemService) List(ctx context.Context, userID string) []*models.SavedAIItem {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения сохранённых результатов (repo)",
			zap.String("user_id", userID), zap.Error(err))
		return []*models.SavedAIItem{}
	}
	if list == nil {
		list = []*models.SavedAIItem{}
	}
	return list
}

func (s *SavedItemService) Delete(ctx context.Context, userID, id string) error {
	log := logger.WithCtx(ctx)
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		log.Error("Ошибка удаления сохранённого результата (repo)", zap.String("id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return apperrors.New(apperrors.KindNotFound, "запись не найдена")
	}
	log.Info("Сохранённый результат удалён", zap.String("id", id))
	return nil
}

func (s *SavedItemService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	log := logger.WithCtx(ctx)
	n, err := s.repo.DeleteAllByUser(ctx, userID)
	if err != nil {
		log.Error("Ошибка массового удаления сохранённых результатов (repo)", zap.Error(err))
		return 0, err
	}
	log.Info("Сохранённые результаты удалены", zap.Int64("count", n))
	return n, nil
}
