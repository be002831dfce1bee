package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

// identifierQueries maps each identifier kind to the lookup against its owning table.
var identifierQueries = map[models.IDKind]string{
	models.KindClass:      `SELECT EXISTS(SELECT 1 FROM classes WHERE code = $1)`,
	models.KindAssignment: `SELECT EXISTS(SELECT 1 FROM assignments WHERE id = $1)`,
	models.KindMaterial:   `SELECT EXISTS(SELECT 1 FROM materials WHERE id = $1)`,
	models.KindQuiz:       `SELECT EXISTS(SELECT 1 FROM quizzes WHERE id = $1)`,
}

// CodeRepository checks generated identifiers against their owning tables.
type CodeRepository struct {
	db *sqlx.DB
}

// NewCodeRepository constructs the repository.
func NewCodeRepository(db *sqlx.DB) *CodeRepository {
	return &CodeRepository{db: db}
}

// Exists reports whether id is already taken for kind.
func (r *CodeRepository) Exists(ctx context.Context, kind models.IDKind, id string) (bool, error) {
	query, ok := identifierQueries[kind]
	if !ok {
		return false, fmt.Errorf("unknown identifier kind %q", kind)
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check %s identifier: %w", kind, err)
	}
	return exists, nil
}
