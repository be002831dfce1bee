package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

// ContentRepository persists assignments, materials and quizzes.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates the repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// CreateAssignment inserts an assignment whose ID was issued by the code generator.
func (r *ContentRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (id, code, owner, title, description, deadline, link, created_at)
        VALUES (:id, :code, :owner, :title, :description, :deadline, :link, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// CreateMaterial inserts learning material or a quiz depending on kind.
func (r *ContentRepository) CreateMaterial(ctx context.Context, kind models.IDKind, material *models.Material) error {
	var table string
	switch kind {
	case models.KindMaterial:
		table = "materials"
	case models.KindQuiz:
		table = "quizzes"
	default:
		return fmt.Errorf("unsupported material kind %q", kind)
	}
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO ` + table + ` (id, code, owner, title, type, link, created_at)
        VALUES (:id, :code, :owner, :title, :type, :link, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("create %s: %w", kind, err)
	}
	return nil
}

// ListAssignmentsByCodes returns assignments of the given classes, newest first.
func (r *ContentRepository) ListAssignmentsByCodes(ctx context.Context, codes []string) ([]models.AssignmentView, error) {
	if len(codes) == 0 {
		return []models.AssignmentView{}, nil
	}
	const query = `SELECT t.id, t.code, t.owner, t.title, t.description, t.deadline, t.link, t.created_at, k.name AS class_name
        FROM assignments t
        LEFT JOIN classes k ON k.code = t.code
        WHERE t.code = ANY($1)
        ORDER BY t.created_at DESC`
	var assignments []models.AssignmentView
	if err := r.db.SelectContext(ctx, &assignments, query, pq.Array(codes)); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FeedAssignments returns the class assignments shaped as feed items.
func (r *ContentRepository) FeedAssignments(ctx context.Context, code string) ([]models.FeedItem, error) {
	const query = `SELECT 'tugas' AS type, t.id, t.code, k.name AS class_name, t.title, t.description, t.created_at,
        t.deadline, t.owner, u.name AS owner_name, u.profile
        FROM assignments t
        LEFT JOIN classes k ON k.code = t.code
        LEFT JOIN users u ON u.email = t.owner
        WHERE t.code = $1
        ORDER BY t.created_at DESC`
	var items []models.FeedItem
	if err := r.db.SelectContext(ctx, &items, query, code); err != nil {
		return nil, fmt.Errorf("feed assignments: %w", err)
	}
	return items, nil
}

// FeedMaterials returns the class materials shaped as feed items.
func (r *ContentRepository) FeedMaterials(ctx context.Context, code string) ([]models.FeedItem, error) {
	const query = `SELECT 'materi' AS type, m.id, m.code, m.created_at, m.owner, m.title, m.type AS kind, m.link AS data,
        u.name AS owner_name, u.profile
        FROM materials m
        LEFT JOIN users u ON u.email = m.owner
        WHERE m.code = $1
        ORDER BY m.created_at DESC`
	var items []models.FeedItem
	if err := r.db.SelectContext(ctx, &items, query, code); err != nil {
		return nil, fmt.Errorf("feed materials: %w", err)
	}
	return items, nil
}
