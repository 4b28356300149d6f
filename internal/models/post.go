package models

import "time"

// Статусы поста.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type Post struct {
	ID             string     `db:"id"              json:"id"`
	Title          string     `db:"title"           json:"title"`
	Slug           string     `db:"slug"            json:"slug"`
	Content        string     `db:"content"         json:"content"`
	Excerpt        *string    `db:"excerpt"         json:"excerpt,omitempty"`
	FeaturedImage  *string    `db:"featured_image"  json:"featured_image,omitempty"`
	Status         string     `db:"status"          json:"status"`
	AuthorID       string     `db:"author_id"       json:"author_id"`
	SEOTitle       *string    `db:"seo_title"       json:"seo_title,omitempty"`
	SEODescription *string    `db:"seo_description" json:"seo_description,omitempty"`
	Tags           []string   `db:"-"               json:"tags"`
	Category       *string    `db:"category"        json:"category,omitempty"`
	PublishedAt    *time.Time `db:"published_at"    json:"published_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"      json:"updated_at"`
}

// swagger:model CreatePostRequest
type CreatePostRequest struct {
	Title          string   `json:"title"   example:"Как писать middleware в Go"`
	Slug           string   `json:"slug"    example:"kak-pisat-middleware-v-go"`
	Content        string   `json:"content" example:"<p>Контент</p>"`
	Excerpt        string   `json:"excerpt" example:"Короткое описание для превью"`
	FeaturedImage  string   `json:"featured_image"`
	Status         string   `json:"status"  example:"draft"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
	Tags           []string `json:"tags"    example:"go,backend,middleware"`
	Category       string   `json:"category"`
}

// UpdatePostRequest — частичное обновление: nil-поле не трогаем.
type UpdatePostRequest struct {
	Title          *string   `json:"title,omitempty"`
	Slug           *string   `json:"slug,omitempty"`
	Content        *string   `json:"content,omitempty"`
	Excerpt        *string   `json:"excerpt,omitempty"`
	FeaturedImage  *string   `json:"featured_image,omitempty"`
	Status         *string   `json:"status,omitempty"`
	SEOTitle       *string   `json:"seo_title,omitempty"`
	SEODescription *string   `json:"seo_description,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	Category       *string   `json:"category,omitempty"`
}
