package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"pressa/internal/apperrors"
	"pressa/internal/logger"
	"pressa/internal/models"
	"pressa/internal/repository"
	"pressa/internal/utils"
)

type PostService interface {
	Create(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, id string, actorID, actorRole string, req models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, id string, actorID, actorRole string) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, status string, limit int) []*models.Post
	ListPublished(ctx context.Context, limit int) []*models.Post
	ListByAuthor(ctx context.Context, authorID string) []*models.Post
	Search(ctx context.Context, query string, limit int, onlyPublished bool) []*models.Post
	SetPublish(ctx context.Context, id string, actorID, actorRole string, publish bool) (*models.Post, error)
	Stats(ctx context.Context) (*models.SystemStats, error)
}

type postService struct {
	repo   repository.PostRepo
	policy *bluemonday.Policy
}

func NewPostService(repo repository.PostRepo) PostService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &postService{repo: repo, policy: p}
}

func (s *postService) Create(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание поста",
		zap.String("author_id", authorID),
		zap.String("title", strings.TrimSpace(req.Title)),
		zap.String("status", req.Status),
		zap.Int("tags_count", len(req.Tags)),
	)

	title := strings.TrimSpace(req.Title)
	if l := utf8.RuneCountInString(title); l < 3 || l > 255 {
		err := apperrors.New(apperrors.KindValidation, "длина заголовка должна быть от 3 до 255 символов")
		log.Warn("Валидация не пройдена: заголовок", zap.Int("runes", l))
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		log.Warn("Валидация не пройдена: контент пуст")
		return nil, apperrors.New(apperrors.KindValidation, "контент не может быть пустым")
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !models.IsValidStatus(status) {
		log.Warn("Валидация не пройдена: статус", zap.String("status", status))
		return nil, apperrors.New(apperrors.KindValidation, "недопустимый статус: "+status)
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.Slugify(title)
	} else {
		slug = utils.Slugify(slug)
	}
	if slug == "" {
		return nil, apperrors.New(apperrors.KindValidation, "не удалось построить slug из заголовка")
	}

	p := &models.Post{
		Title:          title,
		Slug:           slug,
		Content:        s.policy.Sanitize(req.Content),
		Excerpt:        strPtr(req.Excerpt),
		FeaturedImage:  strPtr(req.FeaturedImage),
		Status:         status,
		AuthorID:       authorID,
		SEOTitle:       strPtr(req.SEOTitle),
		SEODescription: strPtr(req.SEODescription),
		Tags:           normalizeTags(req.Tags),
		Category:       strPtr(req.Category),
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("Slug уже занят", zap.String("slug", slug))
			return nil, apperrors.New(apperrors.KindValidation, "slug уже занят: "+slug)
		}
		log.Error("Ошибка создания поста (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Пост создан",
		zap.String("id", created.ID),
		zap.String("slug", created.Slug),
		zap.String("status", created.Status),
	)
	return created, nil
}

func (s *postService) Update(ctx context.Context, id string, actorID, actorRole string, req models.UpdatePostRequest) (*models.Post, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление поста", zap.String("id", id))

	if _, err := s.authorize(ctx, id, actorID, actorRole); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if l := utf8.RuneCountInString(title); l < 3 || l > 255 {
			return nil, apperrors.New(apperrors.KindValidation, "длина заголовка должна быть от 3 до 255 символов")
		}
		req.Title = &title
	}
	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		return nil, apperrors.New(apperrors.KindValidation, "недопустимый статус: "+*req.Status)
	}
	if req.Slug != nil {
		slug := utils.Slugify(*req.Slug)
		if slug == "" {
			return nil, apperrors.New(apperrors.KindValidation, "невалидный slug")
		}
		req.Slug = &slug
	}
	if req.Content != nil {
		clean := s.policy.Sanitize(*req.Content)
		req.Content = &clean
	}
	if req.Tags != nil {
		tags := normalizeTags(*req.Tags)
		req.Tags = &tags
	}

	if err := s.repo.Update(ctx, id, &req); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.New(apperrors.KindValidation, "slug уже занят")
		}
		log.Error("Ошибка обновления поста (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error("Ошибка чтения поста после обновления (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Пост обновлён", zap.String("id", id))
	return updated, nil
}

func (s *postService) Delete(ctx context.Context, id string, actorID, actorRole string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление поста", zap.String("id", id))

	if _, err := s.authorize(ctx, id, actorID, actorRole); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления поста (repo)", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("Пост удалён", zap.String("id", id))
	return nil
}

func (s *postService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения поста по ID (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// GetBySlug не пробрасывает ошибку хранилища: публичная страница статьи
// должна отрисовать «не найдено», а не упасть.
func (s *postService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения поста по slug (repo)", zap.String("slug", slug), zap.Error(err))
		return nil, nil
	}
	return p, nil
}

// List деградирует до пустого списка: лучше пустая лента, чем упавшая
// страница. Причина остаётся в логе.
func (s *postService) List(ctx context.Context, status string, limit int) []*models.Post {
	log := logger.WithCtx(ctx)
	list, err := s.repo.List(ctx, status, limit)
	if err != nil {
		log.Error("Ошибка получения списка постов (repo)",
			zap.String("status", status), zap.Int("limit", limit), zap.Error(err))
		return []*models.Post{}
	}
	if list == nil {
		list = []*models.Post{}
	}
	return list
}

func (s *postService) ListPublished(ctx context.Context, limit int) []*models.Post {
	return s.List(ctx, models.StatusPublished, limit)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID string) []*models.Post {
	log := logger.WithCtx(ctx)
	list, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		log.Error("Ошибка получения постов автора (repo)", zap.String("author_id", authorID), zap.Error(err))
		return []*models.Post{}
	}
	if list == nil {
		list = []*models.Post{}
	}
	return list
}

func (s *postService) Search(ctx context.Context, query string, limit int, onlyPublished bool) []*models.Post {
	log := logger.WithCtx(ctx)
	list, err := s.repo.Search(ctx, query, limit, onlyPublished)
	if err != nil {
		log.Error("Ошибка поиска постов (repo)", zap.String("query", query), zap.Error(err))
		return []*models.Post{}
	}
	if list == nil {
		list = []*models.Post{}
	}
	return list
}

func (s *postService) SetPublish(ctx context.Context, id string, actorID, actorRole string, publish bool) (*models.Post, error) {
	log := logger.WithCtx(ctx)
	log.Info("Изменение статуса публикации", zap.String("id", id), zap.Bool("publish", publish))

	if _, err := s.authorize(ctx, id, actorID, actorRole); err != nil {
		return nil, err
	}

	if err := s.repo.SetPublish(ctx, id, publish); err != nil {
		log.Error("Ошибка обновления статуса публикации (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error("Ошибка получения поста после публикации (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Статус публикации изменён", zap.String("id", id), zap.String("status", p.Status))
	return p, nil
}

func (s *postService) Stats(ctx context.Context) (*models.SystemStats, error) {
	stats, err := s.repo.GetSystemStats(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения статистики (repo)", zap.Error(err))
		return nil, err
	}
	return stats, nil
}

// authorize проверяет, что пост существует и актор — его автор либо админ.
func (s *postService) authorize(ctx context.Context, id, actorID, actorRole string) (*models.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка проверки поста (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if p == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "пост не найден")
	}
	if actorRole != "admin" && p.AuthorID != actorID {
		logger.WithCtx(ctx).Warn("Попытка изменить чужой пост",
			zap.String("id", id), zap.String("actor_id", actorID), zap.String("author_id", p.AuthorID))
		return nil, apperrors.New(apperrors.KindForbidden, "можно изменять только свои посты")
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func normalizeTags(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
