package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

const classColumns = `code, owner, name, description, advisors, institution, created_at`

// classCascade lists the dependent tables purged before the class row, in order.
var classCascade = []string{
	`DELETE FROM class_members WHERE code = $1`,
	`DELETE FROM announcements WHERE code = $1`,
	`DELETE FROM discussions WHERE code = $1`,
	`DELETE FROM assignments WHERE code = $1`,
	`DELETE FROM materials WHERE code = $1`,
	`DELETE FROM quizzes WHERE code = $1`,
}

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByCode returns the class with the exact code.
func (r *ClassRepository) FindByCode(ctx context.Context, code string) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE code = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by code: %w", err)
	}
	return &class, nil
}

// FindByCodeForUpdate reads the class row and locks it until tx ends.
func (r *ClassRepository) FindByCodeForUpdate(ctx context.Context, tx *sqlx.Tx, code string) (*models.Class, error) {
	if tx == nil {
		return nil, fmt.Errorf("nil transaction provided")
	}
	query := `SELECT ` + classColumns + ` FROM classes WHERE code = $1 FOR UPDATE`
	var class models.Class
	if err := tx.GetContext(ctx, &class, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock class: %w", err)
	}
	return &class, nil
}

// ExistsByOwnerAndName reports whether owner already has a class called name.
func (r *ClassRepository) ExistsByOwnerAndName(ctx context.Context, owner, name string) (bool, error) {
	const query = `SELECT 1 FROM classes WHERE owner = $1 AND name = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, owner, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class name: %w", err)
	}
	return true, nil
}

// CreateWithTx inserts the class inside an existing transaction.
func (r *ClassRepository) CreateWithTx(ctx context.Context, tx *sqlx.Tx, class *models.Class) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO classes (code, owner, name, description, advisors, institution, created_at)
        VALUES (:code, :owner, :name, :description, :advisors, :institution, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// UpdateDetailsWithTx updates name and description.
func (r *ClassRepository) UpdateDetailsWithTx(ctx context.Context, tx *sqlx.Tx, code, name, description string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE classes SET name = $2, description = $3 WHERE code = $1`
	if _, err := tx.ExecContext(ctx, query, code, name, description); err != nil {
		return fmt.Errorf("update class details: %w", err)
	}
	return nil
}

// UpdateAdvisorsWithTx stores the advisor list on the class row.
func (r *ClassRepository) UpdateAdvisorsWithTx(ctx context.Context, tx *sqlx.Tx, code string, advisors models.AdvisorList) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE classes SET advisors = $2 WHERE code = $1`
	if _, err := tx.ExecContext(ctx, query, code, advisors); err != nil {
		return fmt.Errorf("update class advisors: %w", err)
	}
	return nil
}

// PurgeWithTx deletes the class and everything attached to it.
func (r *ClassRepository) PurgeWithTx(ctx context.Context, tx *sqlx.Tx, code string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	for _, stmt := range classCascade {
		if _, err := tx.ExecContext(ctx, stmt, code); err != nil {
			return fmt.Errorf("purge class dependents: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
