package models

import (
	"encoding/json"
	"time"
)

// Типы сохранённых AI-результатов.
const (
	SavedTypeGenerate = "generate"
	SavedTypeOptimize = "optimize"
	SavedTypeIdeas    = "ideas"
)

func IsValidSavedType(t string) bool {
	switch t {
	case SavedTypeGenerate, SavedTypeOptimize, SavedTypeIdeas:
		return true
	}
	return false
}

// SavedAIItem — закладка пользователя на прошлый результат генерации.
// Создаётся и удаляется, никогда не изменяется.
type SavedAIItem struct {
	ID        string          `db:"id"         json:"id"`
	UserID    string          `db:"user_id"    json:"user_id"`
	Type      string          `db:"type"       json:"type"`
	Title     string          `db:"title"      json:"title"`
	Result    json.RawMessage `db:"result"     json:"result"`
	Topic     string          `db:"topic"      json:"topic"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// swagger:model SaveAIItemRequest
type SaveAIItemRequest struct {
	Type   string          `json:"type"  example:"generate"`
	Title  string          `json:"title" example:"Как писать middleware в Go"`
	Result json.RawMessage `json:"result"`
	Topic  string          `json:"topic" example:"middleware в Go"`
}
