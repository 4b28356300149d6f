package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"pressa/internal/logger"
	"pressa/internal/reqctx"
)

// JWTAuth проверяет Bearer-токен и кладёт user_id/role в контекст.
// Мутации постов и все AI-маршруты ходят только через него —
// авторизация выполняется на сервере, а не редиректом в UI.
func JWTAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
				http.Error(w, "Отсутствует access token", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})

			if err != nil || !token.Valid {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен",
					zap.Error(err))
				http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
				return
			}

			userID, ok1 := claims["user_id"].(string)
			role, ok2 := claims["role"].(string)
			if !ok1 || !ok2 || userID == "" {
				logger.WithCtx(r.Context()).Warn("JWTAuth: недопустимый payload",
					zap.Any("claims", claims))
				http.Error(w, "Недопустимый payload", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserID, userID)
			ctx = context.WithValue(ctx, ContextRole, role)
			ctx = reqctx.WithUserID(ctx, userID)
			ctx = reqctx.WithRole(ctx, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
