package app

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"pressa/internal/config"
	"pressa/internal/db"
	"pressa/internal/handlers"
	"pressa/internal/logger"
	"pressa/internal/repository"
	"pressa/internal/routes"
	"pressa/internal/services"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Подключение к БД установлено", zap.String("dsn", cfg.GetDSNSafe()))

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	postRepo := repository.NewPostRepo(conn)
	savedRepo := repository.NewSavedItemRepo(conn)

	// Сервисы
	authService := services.NewAuthService(userRepo)
	postService := services.NewPostService(postRepo)
	aiService := services.NewAIService(cfg)
	savedService := services.NewSavedItemService(savedRepo)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService)
	aiHandler := handlers.NewAIHandler(aiService)
	savedHandler := handlers.NewSavedItemHandler(savedService)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg, authHandler, postHandler, aiHandler, savedHandler)

	return router, nil
}
