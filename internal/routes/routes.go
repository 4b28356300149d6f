package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"pressa/internal/config"
	"pressa/internal/handlers"
	"pressa/internal/middleware"
)

// uuidPattern ограничивает {id}, чтобы /posts/all и /posts/mine
// не перехватывались маршрутом поста.
const uuidPattern = "{id:[0-9a-fA-F-]{36}}"

func InitRoutes(
	router *mux.Router,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	aiHandler *handlers.AIHandler,
	savedHandler *handlers.SavedItemHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	api.HandleFunc("/posts", postHandler.ListPublished).Methods("GET")
	api.HandleFunc("/posts/slug/{slug}", postHandler.GetBySlug).Methods("GET")
	api.HandleFunc("/posts/"+uuidPattern, postHandler.GetByID).Methods("GET")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))

	protected.HandleFunc("/profile", authHandler.Profile).Methods("GET")

	protected.HandleFunc("/posts/all", postHandler.ListAll).Methods("GET")
	protected.HandleFunc("/posts/mine", postHandler.ListMine).Methods("GET")
	protected.HandleFunc("/posts", postHandler.Create).Methods("POST")
	protected.HandleFunc("/posts/"+uuidPattern, postHandler.Update).Methods("PATCH")
	protected.HandleFunc("/posts/"+uuidPattern, postHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/posts/"+uuidPattern+"/publish", postHandler.SetPublish).Methods(http.MethodPatch, http.MethodOptions)

	protected.HandleFunc("/stats", postHandler.Stats).Methods("GET")

	ai := protected.PathPrefix("/ai").Subrouter()
	ai.HandleFunc("/generate-content", aiHandler.GenerateContent).Methods("POST")
	ai.HandleFunc("/generate-ideas", aiHandler.GenerateIdeas).Methods("POST")
	ai.HandleFunc("/optimize-seo", aiHandler.OptimizeSEO).Methods("POST")
	ai.HandleFunc("/improve-content", aiHandler.ImproveContent).Methods("POST")
	ai.HandleFunc("/saved", savedHandler.Save).Methods("POST")
	ai.HandleFunc("/saved", savedHandler.List).Methods("GET")
	ai.HandleFunc("/saved", savedHandler.DeleteAll).Methods("DELETE")
	ai.HandleFunc("/saved/{id}", savedHandler.Delete).Methods("DELETE")
}
