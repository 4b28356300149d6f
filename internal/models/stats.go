package models

// SystemStats — сводка для дашборда автора/админа.
type SystemStats struct {
	TotalPosts     int `json:"total_posts"`
	PublishedPosts int `json:"published_posts"`
	DraftPosts     int `json:"draft_posts"`
	ArchivedPosts  int `json:"archived_posts"`
	TotalUsers     int `json:"total_users"`
	SavedAIItems   int `json:"saved_ai_items"`
}
