package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pressa/internal/models"
)

type PostRepo interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, id string, input *models.UpdatePostRequest) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, status string, limit int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit int, onlyPublished bool) ([]*models.Post, error)
	SetPublish(ctx context.Context, id string, publish bool) error
	GetSystemStats(ctx context.Context) (*models.SystemStats, error)
}

type postRepo struct{ db *pgxpool.Pool }

func NewPostRepo(db *pgxpool.Pool) PostRepo { return &postRepo{db: db} }

const postColumns = `id, title, slug, content, excerpt, featured_image, status, author_id,
	seo_title, seo_description, tags, category, published_at, created_at, updated_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	var tagsRaw []byte
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.Status, &p.AuthorID, &p.SEOTitle, &p.SEODescription, &tagsRaw,
		&p.Category, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	_ = json.Unmarshal(tagsRaw, &p.Tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func (r *postRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	tagsJSON, _ := json.Marshal(p.Tags)

	// created_at/updated_at проставляет серверное время БД (DEFAULT NOW()),
	// published_at появляется только у опубликованных.
	const q = `
		INSERT INTO posts (title, slug, content, excerpt, featured_image, status, author_id,
			seo_title, seo_description, tags, category, published_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::jsonb,$11,
			CASE WHEN $6 = 'published' THEN NOW() ELSE NULL END)
		RETURNING ` + postColumns

	return scanPost(r.db.QueryRow(ctx, q,
		p.Title,
		p.Slug,
		p.Content,
		p.Excerpt,
		p.FeaturedImage,
		p.Status,
		p.AuthorID,
		p.SEOTitle,
		p.SEODescription,
		tagsJSON,
		p.Category,
	))
}

// Update обновляет только переданные поля и всегда освежает updated_at.
func (r *postRepo) Update(ctx context.Context, id string, input *models.UpdatePostRequest) error {
	query := `UPDATE posts SET`
	var args []interface{}
	argNum := 1

	set := func(col string, val interface{}) {
		query += fmt.Sprintf(" %s = $%d,", col, argNum)
		args = append(args, val)
		argNum++
	}

	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.Slug != nil {
		set("slug", *input.Slug)
	}
	if input.Content != nil {
		set("content", *input.Content)
	}
	if input.Excerpt != nil {
		set("excerpt", *input.Excerpt)
	}
	if input.FeaturedImage != nil {
		set("featured_image", *input.FeaturedImage)
	}
	if input.SEOTitle != nil {
		set("seo_title", *input.SEOTitle)
	}
	if input.SEODescription != nil {
		set("seo_description", *input.SEODescription)
	}
	if input.Category != nil {
		set("category", *input.Category)
	}
	if input.Tags != nil {
		tagsJSON, _ := json.Marshal(*input.Tags)
		query += fmt.Sprintf(" tags = $%d::jsonb,", argNum)
		args = append(args, tagsJSON)
		argNum++
	}
	if input.Status != nil {
		query += fmt.Sprintf(` status = $%d,
			published_at = CASE WHEN $%d = 'published' THEN COALESCE(published_at, NOW()) ELSE NULL END,`,
			argNum, argNum)
		args = append(args, *input.Status)
		argNum++
	}

	query += fmt.Sprintf(" updated_at = NOW() WHERE id = $%d", argNum)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	p, err := scanPost(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *postRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	p, err := scanPost(r.db.QueryRow(ctx, q, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// List отдаёт посты, свежие по updated_at сверху. Фильтр по статусу и LIMIT
// выполняет планировщик БД по индексу (status, updated_at DESC) — ничего не
// фильтруем в памяти процесса.
func (r *postRepo) List(ctx context.Context, status string, limit int) ([]*models.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts`
	var args []interface{}
	i := 1

	if status != "" {
		q += fmt.Sprintf(" WHERE status = $%d", i)
		args = append(args, status)
		i++
	}
	q += " ORDER BY updated_at DESC"
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", i)
		args = append(args, limit)
	}

	return r.queryPosts(ctx, q, args...)
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1 ORDER BY updated_at DESC`
	return r.queryPosts(ctx, q, authorID)
}

// Search ищет по заголовку и тегам (ILIKE). Для небольшой коллекции
// полнотекстовый движок не нужен.
func (r *postRepo) Search(ctx context.Context, query string, limit int, onlyPublished bool) ([]*models.Post, error) {
	where := []string{`(title ILIKE '%' || $1 || '%' OR EXISTS (
		SELECT 1 FROM jsonb_array_elements_text(tags) AS t(val)
		WHERE t.val ILIKE '%' || $1 || '%'
	))`}
	args := []interface{}{query}
	i := 2

	if onlyPublished {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, models.StatusPublished)
		i++
	}

	q := `SELECT ` + postColumns + ` FROM posts WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", i)
	args = append(args, limit)

	return r.queryPosts(ctx, q, args...)
}

func (r *postRepo) SetPublish(ctx context.Context, id string, publish bool) error {
	const q = `
		UPDATE posts
		SET status = CASE WHEN $2 THEN 'published' ELSE 'draft' END,
		    published_at = CASE WHEN $2 THEN COALESCE(published_at, NOW()) ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, q, id, publish)
	return err
}

func (r *postRepo) GetSystemStats(ctx context.Context) (*models.SystemStats, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM posts WHERE status = 'published'),
			(SELECT COUNT(*) FROM posts WHERE status = 'draft'),
			(SELECT COUNT(*) FROM posts WHERE status = 'archived'),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM ai_saved_items)
	`
	var s models.SystemStats
	if err := r.db.QueryRow(ctx, q).Scan(
		&s.TotalPosts, &s.PublishedPosts, &s.DraftPosts,
		&s.ArchivedPosts, &s.TotalUsers, &s.SavedAIItems,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postRepo) queryPosts(ctx context.Context, q string, args ...interface{}) ([]*models.Post, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
