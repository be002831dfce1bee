package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

const membershipColumns = `code, email, class_name, description, member_name, advisors, institution, role, archived, joined_at`

// MembershipRepository persists class memberships.
type MembershipRepository struct {
	db *sqlx.DB
}

// NewMembershipRepository constructs the repository.
func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Find returns the membership for (code, email).
func (r *MembershipRepository) Find(ctx context.Context, code, email string) (*models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM class_members WHERE code = $1 AND email = $2`
	var membership models.Membership
	if err := r.db.GetContext(ctx, &membership, query, code, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return &membership, nil
}

// Exists reports whether email already belongs to the class.
func (r *MembershipRepository) Exists(ctx context.Context, code, email string) (bool, error) {
	const query = `SELECT 1 FROM class_members WHERE code = $1 AND email = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check membership: %w", err)
	}
	return true, nil
}

// Create inserts a membership.
func (r *MembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	return r.insert(ctx, r.db, membership)
}

// CreateWithTx inserts a membership using an existing transaction.
func (r *MembershipRepository) CreateWithTx(ctx context.Context, tx *sqlx.Tx, membership *models.Membership) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return r.insert(ctx, tx, membership)
}

func (r *MembershipRepository) insert(ctx context.Context, exec sqlx.ExtContext, membership *models.Membership) error {
	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = time.Now().UTC()
	}
	if membership.Advisors == nil {
		membership.Advisors = models.AdvisorList{}
	}
	const query = `INSERT INTO class_members (code, email, class_name, description, member_name, advisors, institution, role, archived, joined_at)
        VALUES (:code, :email, :class_name, :description, :member_name, :advisors, :institution, :role, :archived, :joined_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, membership); err != nil {
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

// SetArchived updates the archive flag and returns the number of matched rows.
func (r *MembershipRepository) SetArchived(ctx context.Context, code, email string, archived bool) (int64, error) {
	const query = `UPDATE class_members SET archived = $3 WHERE code = $1 AND email = $2`
	res, err := r.db.ExecContext(ctx, query, code, email, archived)
	if err != nil {
		return 0, fmt.Errorf("set membership archived: %w", err)
	}
	return rowsAffected(res, "set membership archived")
}

// Delete removes a membership and returns the number of deleted rows.
func (r *MembershipRepository) Delete(ctx context.Context, code, email string) (int64, error) {
	return r.delete(ctx, r.db, code, email)
}

// DeleteWithTx removes a membership inside a transaction.
func (r *MembershipRepository) DeleteWithTx(ctx context.Context, tx *sqlx.Tx, code, email string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	return r.delete(ctx, tx, code, email)
}

func (r *MembershipRepository) delete(ctx context.Context, exec sqlx.ExecerContext, code, email string) (int64, error) {
	res, err := exec.ExecContext(ctx, `DELETE FROM class_members WHERE code = $1 AND email = $2`, code, email)
	if err != nil {
		return 0, fmt.Errorf("delete membership: %w", err)
	}
	return rowsAffected(res, "delete membership")
}

// UpdateRoleWithTx changes the member's role and returns the number of matched rows.
func (r *MembershipRepository) UpdateRoleWithTx(ctx context.Context, tx *sqlx.Tx, code, email string, role models.UserRole) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("nil transaction provided")
	}
	res, err := tx.ExecContext(ctx, `UPDATE class_members SET role = $3 WHERE code = $1 AND email = $2`, code, email, role)
	if err != nil {
		return 0, fmt.Errorf("update membership role: %w", err)
	}
	return rowsAffected(res, "update membership role")
}

// UpdateSnapshotWithTx propagates class name and description to every member row.
func (r *MembershipRepository) UpdateSnapshotWithTx(ctx context.Context, tx *sqlx.Tx, code, name, description string) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	const query = `UPDATE class_members SET class_name = $2, description = $3 WHERE code = $1`
	if _, err := tx.ExecContext(ctx, query, code, name, description); err != nil {
		return fmt.Errorf("propagate class snapshot: %w", err)
	}
	return nil
}

// UpdateAdvisorsWithTx propagates the advisor list to every member row of the class.
func (r *MembershipRepository) UpdateAdvisorsWithTx(ctx context.Context, tx *sqlx.Tx, code string, advisors models.AdvisorList) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if _, err := tx.ExecContext(ctx, `UPDATE class_members SET advisors = $2 WHERE code = $1`, code, advisors); err != nil {
		return fmt.Errorf("propagate advisors: %w", err)
	}
	return nil
}

// ListByMember returns the member's classes in the given archive state.
func (r *MembershipRepository) ListByMember(ctx context.Context, email string, archived bool) ([]models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM class_members WHERE email = $1 AND archived = $2 ORDER BY joined_at DESC`
	var memberships []models.Membership
	if err := r.db.SelectContext(ctx, &memberships, query, email, archived); err != nil {
		return nil, fmt.Errorf("list memberships by member: %w", err)
	}
	return memberships, nil
}

// ListByCode returns the roster of a class, advisors first.
func (r *MembershipRepository) ListByCode(ctx context.Context, code string) ([]models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM class_members WHERE code = $1 ORDER BY role ASC, member_name ASC`
	var memberships []models.Membership
	if err := r.db.SelectContext(ctx, &memberships, query, code); err != nil {
		return nil, fmt.Errorf("list class roster: %w", err)
	}
	return memberships, nil
}

// ListClassesByMember returns (class name, code) pairs for every class of the member.
func (r *MembershipRepository) ListClassesByMember(ctx context.Context, email string) ([]models.ClassSummary, error) {
	const query = `SELECT class_name, code FROM class_members WHERE email = $1 ORDER BY joined_at ASC`
	var summaries []models.ClassSummary
	if err := r.db.SelectContext(ctx, &summaries, query, email); err != nil {
		return nil, fmt.Errorf("list classes by member: %w", err)
	}
	return summaries, nil
}

// CountByCode returns the number of members of every class.
func (r *MembershipRepository) CountByCode(ctx context.Context) ([]models.CodeCount, error) {
	const query = `SELECT code, COUNT(*) AS total FROM class_members GROUP BY code`
	var counts []models.CodeCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count memberships: %w", err)
	}
	return counts, nil
}

func rowsAffected(res sql.Result, op string) (int64, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return affected, nil
}
