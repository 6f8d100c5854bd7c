package repository

import (
	"context"

	"sparksound/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository 用户存储库
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository 创建用户存储库实例
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, email, password, token, preferred_language, is_admin, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.Password, user.Token, user.PreferredLanguage, user.IsAdmin, user.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetByID 根据ID获取用户
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	query := "SELECT * FROM users WHERE id = ?"
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	query := "SELECT * FROM users WHERE username = ?"
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := "SELECT * FROM users WHERE email = ?"
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByToken 根据Token获取用户
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	query := "SELECT * FROM users WHERE token = ?"
	err := r.db.GetContext(ctx, &user, query, token)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateToken 更新用户Token
func (r *UserRepository) UpdateToken(ctx context.Context, id int64, token string) error {
	query := "UPDATE users SET token = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, token, id)
	return err
}

// UpdatePreferredLanguage 更新用户首选语言
func (r *UserRepository) UpdatePreferredLanguage(ctx context.Context, id int64, language string) error {
	query := "UPDATE users SET preferred_language = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, language, id)
	return err
}

// List 获取用户列表（分页）
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	var users []model.User
	query := "SELECT * FROM users ORDER BY id LIMIT ? OFFSET ?"
	err := r.db.SelectContext(ctx, &users, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Count 获取用户总数
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM users"
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}
	return count, nil
}
