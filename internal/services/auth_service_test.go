package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pressa/internal/models"
	"pressa/internal/utils"
)

// Мок-репозиторий (заглушка)
type mockUserRepo struct {
	users    map[string]*models.User
	tokens   map[string]string
	lastUser *models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]*models.User),
		tokens: make(map[string]string),
	}
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	_, exists := m.users[username]
	return exists, nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = "22222222-2222-2222-2222-222222222222"
	m.users[user.Username] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID string, token string) error {
	m.tokens[token] = userID
	return nil
}

func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID string, token string) (bool, error) {
	owner, ok := m.tokens[token]
	return ok && owner == userID, nil
}

func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID string, token string) error {
	delete(m.tokens, token)
	return nil
}

func TestRegisterUser(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		FullName: "Тестовый Пользователь",
	}

	err := service.RegisterUser(context.Background(), user, "secret123")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if repo.lastUser == nil || repo.lastUser.PasswordHash == "" {
		t.Fatal("пароль не захеширован или пользователь не сохранён")
	}
	if repo.lastUser.Role != "user" {
		t.Errorf("роль по умолчанию должна быть user, получена %q", repo.lastUser.Role)
	}
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	first := &models.User{Username: "dup", Email: "a@example.com"}
	if err := service.RegisterUser(context.Background(), first, "secret123"); err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	second := &models.User{Username: "dup", Email: "b@example.com"}
	if err := service.RegisterUser(context.Background(), second, "secret123"); err == nil {
		t.Fatal("повторный username должен отклоняться")
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	hash, _ := utils.HashPassword("secret123")
	repo.users["testuser"] = &models.User{
		ID:           "22222222-2222-2222-2222-222222222222",
		Username:     "testuser",
		PasswordHash: hash,
		Role:         "user",
	}

	access, refresh, user, err := service.LoginUser(
		context.Background(), "testuser", "secret123", "test-secret", 15*time.Minute, 720*time.Hour)
	if err != nil {
		t.Fatalf("ошибка входа: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("токены не выданы")
	}
	if user.Username != "testuser" {
		t.Errorf("неверный пользователь: %q", user.Username)
	}
	if _, ok := repo.tokens[refresh]; !ok {
		t.Error("refresh-токен не сохранён")
	}
}

func TestLoginUser_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	hash, _ := utils.HashPassword("secret123")
	repo.users["testuser"] = &models.User{ID: "id-1", Username: "testuser", PasswordHash: hash}

	_, _, _, err := service.LoginUser(
		context.Background(), "testuser", "wrong", "test-secret", 15*time.Minute, 720*time.Hour)
	if err == nil {
		t.Fatal("неверный пароль должен отклоняться")
	}
}

func TestRotateTokens(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo)

	userID := "22222222-2222-2222-2222-222222222222"
	old, _ := utils.GenerateToken("test-secret", userID, "user", time.Hour, "refresh")
	repo.tokens[old] = userID

	access, refresh, err := service.RotateTokens(
		context.Background(), userID, "user", old, "test-secret", 15*time.Minute, 720*time.Hour)
	if err != nil {
		t.Fatalf("ошибка ротации: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("новая пара не выдана")
	}
	if _, ok := repo.tokens[old]; ok {
		t.Error("старый refresh-токен должен отзываться")
	}
	if _, ok := repo.tokens[refresh]; !ok {
		t.Error("новый refresh-токен не сохранён")
	}

	// Повторное использование старого токена
	_, _, err = service.RotateTokens(
		context.Background(), userID, "user", old, "test-secret", 15*time.Minute, 720*time.Hour)
	if err == nil {
		t.Fatal("отозванный токен не должен приниматься")
	}
}
