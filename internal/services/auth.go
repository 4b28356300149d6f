package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"pressa/internal/logger"
	"pressa/internal/models"
	"pressa/internal/utils"
)

type AuthService struct {
	repo UserRepo
}

func NewAuthService(repo UserRepo) *AuthService {
	return &AuthService{repo: repo}
}

type UserRepo interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SaveRefreshToken(ctx context.Context, userID string, token string) error
	IsRefreshTokenValid(ctx context.Context, userID string, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID string, token string) error
}

func (s *AuthService) RegisterUser(ctx context.Context, input *models.User, plainPassword string) error {
	log := logger.WithCtx(ctx)
	log.Info("Регистрация пользователя (service)", zap.String("username", input.Username), zap.String("email", input.Email))

	if strings.TrimSpace(input.Username) == "" || strings.TrimSpace(input.Email) == "" {
		return errors.New("имя пользователя и email обязательны")
	}
	if len(plainPassword) < 6 {
		return errors.New("пароль должен быть не короче 6 символов")
	}

	if exists, err := s.repo.IsUsernameTaken(ctx, input.Username); exists || err != nil {
		if err != nil {
			log.Error("Ошибка проверки username", zap.Error(err))
		}
		return errors.New("имя пользователя уже занято")
	}
	if exists, err := s.repo.IsEmailTaken(ctx, input.Email); exists || err != nil {
		if err != nil {
			log.Error("Ошибка проверки email", zap.Error(err))
		}
		return errors.New("адрес электронной почты уже зарегистрирован")
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return err
	}

	input.PasswordHash = hashed
	input.Role = "user"

	if err := s.repo.CreateUser(ctx, input); err != nil {
		log.Error("Ошибка создания пользователя", zap.Error(err))
		return err
	}
	log.Info("Пользователь зарегистрирован (service)", zap.String("username", input.Username))
	return nil
}

func (s *AuthService) LoginUser(
	ctx context.Context,
	username, password, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, *models.User, error) {
	log := logger.WithCtx(ctx)
	log.Info("Попытка входа (service)", zap.String("username", username))

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		log.Warn("Пользователь не найден (service)", zap.String("username", username), zap.Error(err))
		return "", "", nil, errors.New("пользователь не найден")
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.Warn("Неверный пароль (service)", zap.String("username", username))
		return "", "", nil, errors.New("неверный пароль")
	}

	accessToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, accessTTL, "access")
	if err != nil {
		log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", "", nil, err
	}

	refreshToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, refreshTTL, "refresh")
	if err != nil {
		log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return "", "", nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		log.Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return "", "", nil, err
	}

	log.Info("Вход выполнен (service)", zap.String("username", username))
	return accessToken, refreshToken, user, nil
}

func (s *AuthService) ValidateRefreshToken(ctx context.Context, userID string, token string) (bool, error) {
	return s.repo.IsRefreshTokenValid(ctx, userID, token)
}

func (s *AuthService) Logout(ctx context.Context, userID string, token string) error {
	logger.WithCtx(ctx).Info("Выход пользователя (service)", zap.String("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, token)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// RotateTokens выдаёт новую пару по валидному refresh-токену,
// старый при этом отзывается.
func (s *AuthService) RotateTokens(
	ctx context.Context,
	userID, role, oldRefresh, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, error) {
	log := logger.WithCtx(ctx)

	valid, err := s.repo.IsRefreshTokenValid(ctx, userID, oldRefresh)
	if err != nil {
		log.Error("Ошибка проверки refresh-токена", zap.Error(err))
		return "", "", err
	}
	if !valid {
		log.Warn("Refresh-токен не найден или отозван", zap.String("user_id", userID))
		return "", "", errors.New("refresh-токен недействителен")
	}

	access, err := utils.GenerateToken(jwtSecret, userID, role, accessTTL, "access")
	if err != nil {
		return "", "", err
	}
	refresh, err := utils.GenerateToken(jwtSecret, userID, role, refreshTTL, "refresh")
	if err != nil {
		return "", "", err
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, oldRefresh); err != nil {
		log.Error("Ошибка отзыва старого refresh-токена", zap.Error(err))
		return "", "", err
	}
	if err := s.repo.SaveRefreshToken(ctx, userID, refresh); err != nil {
		log.Error("Ошибка сохранения нового refresh-токена", zap.Error(err))
		return "", "", err
	}

	return access, refresh, nil
}
