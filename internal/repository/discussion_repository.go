package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

// DiscussionRepository persists class forum messages.
type DiscussionRepository struct {
	db *sqlx.DB
}

// NewDiscussionRepository creates the repository.
func NewDiscussionRepository(db *sqlx.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// Create inserts a message.
func (r *DiscussionRepository) Create(ctx context.Context, msg *models.DiscussionMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO discussions (id, code, email, message, created_at) VALUES (:id, :code, :email, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create discussion message: %w", err)
	}
	return nil
}

// ListByCode returns the class thread in chronological order.
func (r *DiscussionRepository) ListByCode(ctx context.Context, code string) ([]models.DiscussionView, error) {
	const query = `SELECT d.id, d.code, d.email, d.message, d.created_at, u.name, u.profile, u.role
        FROM discussions d
        LEFT JOIN users u ON u.email = d.email
        WHERE d.code = $1
        ORDER BY d.created_at ASC`
	var messages []models.DiscussionView
	if err := r.db.SelectContext(ctx, &messages, query, code); err != nil {
		return nil, fmt.Errorf("list discussion: %w", err)
	}
	return messages, nil
}
