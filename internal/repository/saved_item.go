package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pressa/internal/models"
)

type SavedItemRepo interface {
	Create(ctx context.Context, item *models.SavedAIItem) (*models.SavedAIItem, error)
	ListByUser(ctx context.Context, userID string) ([]*models.SavedAIItem, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

type savedItemRepo struct{ db *pgxpool.Pool }

func NewSavedItemRepo(db *pgxpool.Pool) SavedItemRepo { return &savedItemRepo{db: db} }

func (r *savedItemRepo) Create(ctx context.Context, item *models.SavedAIItem) (*models.SavedAIItem, error) {
	const q = `
		INSERT INTO ai_saved_items (user_id, type, title, result, topic)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING id, user_id, type, title, result, topic, created_at
	`
	var out models.SavedAIItem
	err := r.db.QueryRow(ctx, q,
		item.UserID,
		item.Type,
		item.Title,
		[]byte(item.Result),
		item.Topic,
	).Scan(&out.ID, &out.UserID, &out.Type, &out.Title, &out.Result, &out.Topic, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *savedItemRepo) ListByUser(ctx context.Context, userID string) ([]*models.SavedAIItem, error) {
	const q = `
		SELECT id, user_id, type, title, result, topic, created_at
		FROM ai_saved_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.SavedAIItem
	for rows.Next() {
		var it models.SavedAIItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.Type, &it.Title, &it.Result, &it.Topic, &it.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete удаляет закладку, только если она принадлежит пользователю.
func (r *savedItemRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM ai_saved_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *savedItemRepo) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM ai_saved_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
