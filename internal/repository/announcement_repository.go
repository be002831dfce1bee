package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

// AnnouncementRepository provides persistence for class announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Create inserts an announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO announcements (id, code, body, owner, role, created_at, edited_at)
        VALUES (:id, :code, :body, :owner, :role, :created_at, :edited_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// ListByCodes returns announcements of the given classes, newest first.
func (r *AnnouncementRepository) ListByCodes(ctx context.Context, codes []string) ([]models.AnnouncementView, error) {
	if len(codes) == 0 {
		return []models.AnnouncementView{}, nil
	}
	const query = `SELECT p.id, p.code, p.body, p.owner, p.role, p.created_at, p.edited_at,
        k.name AS class_name, u.name AS owner_name, u.profile
        FROM announcements p
        LEFT JOIN classes k ON k.code = p.code
        LEFT JOIN users u ON u.email = p.owner
        WHERE p.code = ANY($1)
        ORDER BY p.created_at DESC`
	var announcements []models.AnnouncementView
	if err := r.db.SelectContext(ctx, &announcements, query, pq.Array(codes)); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// FeedByCode returns the class announcements shaped as feed items.
func (r *AnnouncementRepository) FeedByCode(ctx context.Context, code string) ([]models.FeedItem, error) {
	const query = `SELECT 'pengumuman' AS type, p.id, p.code, k.name AS class_name, p.body, p.created_at, p.edited_at,
        p.owner, u.name AS owner_name, p.role, u.profile
        FROM announcements p
        LEFT JOIN classes k ON k.code = p.code
        LEFT JOIN users u ON u.email = p.owner
        WHERE p.code = $1
        ORDER BY p.created_at DESC`
	var items []models.FeedItem
	if err := r.db.SelectContext(ctx, &items, query, code); err != nil {
		return nil, fmt.Errorf("feed announcements: %w", err)
	}
	return items, nil
}
