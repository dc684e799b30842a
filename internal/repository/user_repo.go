package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"verbclash/internal/database"
	"verbclash/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a user repository over a connection or transaction
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user
func (r *UserRepository) CreateUser(ctx context.Context, name string) (*models.User, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO users (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// GetUserByName retrieves a user by name; nil when there is none
func (r *UserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return r.getUser(ctx, "SELECT id, name, created_at FROM users WHERE name = ?", name)
}

// GetUserByID retrieves a user by ID; nil when there is none
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, "SELECT id, name, created_at FROM users WHERE id = ?", id)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user ordered by id
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
