package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"pressa/internal/config"
	"pressa/internal/logger"
	"pressa/internal/models"
	"pressa/internal/services"
	helpers "pressa/internal/utils/helpers"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerRequest true "Данные регистрации"
// @Success 201 {string} string "Пользователь успешно зарегистрирован"
// @Failure 400 {string} string "Ошибка валидации"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Ошибка декодирования JSON в Register", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	logger.Log.Info("Регистрация пользователя", zap.String("username", req.Username), zap.String("email", req.Email))

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
	}

	if err := h.authService.RegisterUser(r.Context(), user, req.Password); err != nil {
		logger.Log.Error("Ошибка регистрации пользователя", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	helpers.JSON(w, http.StatusCreated, "Пользователь успешно зарегистрирован")
}

// Login godoc
// @Summary Авторизация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "Неверный логин или пароль"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	logger.Log.Info("Попытка входа", zap.String("username", req.Username))

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, user, err := h.authService.LoginUser(
		r.Context(),
		req.Username,
		req.Password,
		cfg.JWTSecret,
		accessTTL,
		refreshTTL,
	)
	if err != nil {
		logger.Log.Warn("Ошибка входа пользователя", zap.String("username", req.Username), zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Неверный логин или пароль")
		return
	}

	logger.Log.Info("Вход выполнен", zap.String("username", req.Username), zap.String("role", user.Role))
	helpers.JSON(w, http.StatusOK, loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Username:     user.Username,
		FullName:     user.FullName,
		Role:         user.Role,
	})
}

// refreshClaims разбирает refresh-токен из заголовка Authorization.
func refreshClaims(r *http.Request, jwtSecret string) (userID, role, tokenString string, err error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "", "", jwt.ErrTokenMalformed
	}
	tokenString = strings.TrimPrefix(authHeader, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", "", jwt.ErrTokenInvalidClaims
	}

	userID, ok1 := claims["user_id"].(string)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 {
		return "", "", "", jwt.ErrTokenInvalidClaims
	}
	return userID, role, tokenString, nil
}

// Refresh godoc
// @Summary Обновление пары токенов
// @Description Выдаёт новую пару access/refresh, старый refresh отзывается.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "Недействительный refresh токен"
// @Router /refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cfg, _ := config.LoadConfig()

	userID, role, tokenString, err := refreshClaims(r, cfg.JWTSecret)
	if err != nil {
		logger.Log.Warn("Неверный или просроченный refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Неверный или просроченный refresh token")
		return
	}

	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, err := h.authService.RotateTokens(
		r.Context(),
		userID,
		role,
		tokenString,
		cfg.JWTSecret,
		accessTTL,
		refreshTTL,
	)
	if err != nil {
		logger.Log.Warn("Недействительный refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Недействительный refresh token")
		return
	}

	logger.Log.Info("Токены обновлены", zap.String("user_id", userID))
	helpers.JSON(w, http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout godoc
// @Summary Выход (удаление refresh токена)
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {string} string "Выход выполнен"
// @Failure 401 {string} string "Невалидный токен"
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cfg, _ := config.LoadConfig()

	userID, _, tokenString, err := refreshClaims(r, cfg.JWTSecret)
	if err != nil {
		logger.Log.Warn("Невалидный refresh token при выходе", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Невалидный refresh token")
		return
	}

	if err := h.authService.Logout(r.Context(), userID, tokenString); err != nil {
		logger.Log.Error("Ошибка при удалении токена", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка при удалении токена")
		return
	}

	logger.Log.Info("Пользователь вышел", zap.String("user_id", userID))
	helpers.JSON(w, http.StatusOK, "Выход выполнен")
}

// Profile godoc
// @Summary Получить данные профиля
// @Tags profile
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {string} string "Нет доступа"
// @Router /api/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Не авторизован")
		return
	}

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Пользователь не найден", zap.String("user_id", userID), zap.Error(err))
		helpers.Error(w, http.StatusNotFound, "Пользователь не найден")
		return
	}

	helpers.JSON(w, http.StatusOK, user)
}
