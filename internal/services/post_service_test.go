package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pressa/internal/apperrors"
	"pressa/internal/models"
)

// Мок-репозиторий постов
type mockPostRepo struct {
	posts      map[string]*models.Post
	lastCreate *models.Post
	lastUpdate *models.UpdatePostRequest
	listStatus string
	listLimit  int
	failList   bool
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*models.Post)}
}

func (m *mockPostRepo) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	cp := *p
	cp.ID = "11111111-1111-1111-1111-111111111111"
	m.lastCreate = &cp
	m.posts[cp.ID] = &cp
	return &cp, nil
}

func (m *mockPostRepo) Update(_ context.Context, id string, input *models.UpdatePostRequest) error {
	m.lastUpdate = input
	if _, ok := m.posts[id]; !ok {
		return errors.New("нет такого поста")
	}
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	return m.posts[id], nil
}

func (m *mockPostRepo) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPostRepo) List(_ context.Context, status string, limit int) ([]*models.Post, error) {
	if m.failList {
		return nil, errors.New("база недоступна")
	}
	m.listStatus = status
	m.listLimit = limit
	out := []*models.Post{}
	for _, p := range m.posts {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) ListByAuthor(_ context.Context, authorID string) ([]*models.Post, error) {
	out := []*models.Post{}
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) Search(_ context.Context, query string, limit int, onlyPublished bool) ([]*models.Post, error) {
	out := []*models.Post{}
	for _, p := range m.posts {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			if onlyPublished && p.Status != models.StatusPublished {
				continue
			}
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) SetPublish(_ context.Context, id string, publish bool) error {
	p, ok := m.posts[id]
	if !ok {
		return errors.New("нет такого поста")
	}
	if publish {
		p.Status = models.StatusPublished
	} else {
		p.Status = models.StatusDraft
	}
	return nil
}

func (m *mockPostRepo) GetSystemStats(_ context.Context) (*models.SystemStats, error) {
	return &models.SystemStats{TotalPosts: len(m.posts)}, nil
}

func TestCreatePost_Defaults(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	p, err := service.Create(context.Background(), "author-1", models.CreatePostRequest{
		Title:   "Моя первая статья",
		Content: "<p>Текст</p>",
		Tags:    []string{"Go", "go", " web "},
	})
	if err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}
	if p.Status != models.StatusDraft {
		t.Errorf("пустой статус должен стать draft, получен %q", p.Status)
	}
	if p.Slug != "moya-pervaya-statya" {
		t.Errorf("slug не построен из заголовка: %q", p.Slug)
	}
	if len(p.Tags) != 2 {
		t.Errorf("теги должны нормализоваться и дедуплицироваться: %v", p.Tags)
	}
}

func TestCreatePost_TitleValidation(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	_, err := service.Create(context.Background(), "author-1", models.CreatePostRequest{
		Title:   "ab",
		Content: "текст",
	})
	if err == nil {
		t.Fatal("короткий заголовок должен отклоняться")
	}
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("ожидался kind validation, получен %v", apperrors.KindOf(err))
	}
}

func TestCreatePost_SanitizesContent(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	p, err := service.Create(context.Background(), "author-1", models.CreatePostRequest{
		Title:   "Статья со скриптом",
		Content: `<p>ok</p><script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}
	if strings.Contains(p.Content, "<script") {
		t.Errorf("script должен вырезаться: %q", p.Content)
	}
	if !strings.Contains(p.Content, "<p>ok</p>") {
		t.Errorf("разрешённая разметка должна остаться: %q", p.Content)
	}
}

func TestUpdatePost_ForbiddenForStranger(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	created, _ := service.Create(context.Background(), "author-1", models.CreatePostRequest{
		Title:   "Чужая статья",
		Content: "текст",
	})

	title := "Новый заголовок"
	_, err := service.Update(context.Background(), created.ID, "author-2", "user", models.UpdatePostRequest{Title: &title})
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Errorf("чужой пост: ожидался kind forbidden, получен %v", err)
	}

	// Админу можно
	_, err = service.Update(context.Background(), created.ID, "author-2", "admin", models.UpdatePostRequest{Title: &title})
	if err != nil {
		t.Errorf("админ должен иметь доступ: %v", err)
	}
}

func TestUpdatePost_NotFound(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	title := "Заголовок"
	_, err := service.Update(context.Background(), "нет-такого", "author-1", "user", models.UpdatePostRequest{Title: &title})
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("ожидался kind not_found, получен %v", err)
	}
}

func TestListPosts_DegradesToEmpty(t *testing.T) {
	repo := newMockPostRepo()
	repo.failList = true
	service := NewPostService(repo)

	list := service.List(context.Background(), "", 10)
	if list == nil || len(list) != 0 {
		t.Errorf("при ошибке репозитория ожидается пустой список, получено %v", list)
	}
}

func TestListPublished_PassesFilter(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	service.ListPublished(context.Background(), 7)
	if repo.listStatus != models.StatusPublished || repo.listLimit != 7 {
		t.Errorf("фильтр не дошёл до репозитория: status=%q limit=%d", repo.listStatus, repo.listLimit)
	}
}

func TestSetPublish(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	created, _ := service.Create(context.Background(), "author-1", models.CreatePostRequest{
		Title:   "Черновик",
		Content: "текст",
	})

	p, err := service.SetPublish(context.Background(), created.ID, "author-1", "user", true)
	if err != nil {
		t.Fatalf("ошибка публикации: %v", err)
	}
	if p.Status != models.StatusPublished {
		t.Errorf("пост должен стать published, статус %q", p.Status)
	}

	p, err = service.SetPublish(context.Background(), created.ID, "author-1", "user", false)
	if err != nil {
		t.Fatalf("ошибка снятия с публикации: %v", err)
	}
	if p.Status != models.StatusDraft {
		t.Errorf("пост должен вернуться в draft, статус %q", p.Status)
	}
}
