package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"pressa/internal/logger"
	"pressa/internal/models"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.WithCtx(ctx).Info("Создание пользователя (repo)", zap.String("username", user.Username), zap.String("email", user.Email))
	query := `
	INSERT INTO users (username, email, full_name, password_hash, role)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id`
	return r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID)
}

func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка проверки username (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

const userColumns = `id, username, email, full_name, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.WithCtx(ctx).Error("Ошибка получения пользователя по username (repo)", zap.String("username", username), zap.Error(err))
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logger.WithCtx(ctx).Error("Ошибка получения пользователя по ID (repo)", zap.String("user_id", id), zap.Error(err))
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) SaveRefreshToken(ctx context.Context, userID string, token string) error {
	query := `INSERT INTO refresh_tokens (user_id, token) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка сохранения refresh токена (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) IsRefreshTokenValid(ctx context.Context, userID string, token string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&exists)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка проверки refresh токена (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) DeleteRefreshToken(ctx context.Context, userID string, token string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка удаления refresh токена (repo)", zap.Error(err))
	}
	return err
}
