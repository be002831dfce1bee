package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

const (
	msgClassNotFound      = "Kelas tidak ditemukan."
	msgAlreadyMember      = "Anda sudah bergabung dengan kelas ini."
	msgMembershipNotFound = "Tidak ada kelas ditemukan dengan kode dan owner yang diberikan."
	msgLoginToJoin        = "Silahkan login terlebih dahulu untuk bergabung dengan kelas."
)

type membershipStore interface {
	Find(ctx context.Context, code, email string) (*models.Membership, error)
	Exists(ctx context.Context, code, email string) (bool, error)
	Create(ctx context.Context, membership *models.Membership) error
	SetArchived(ctx context.Context, code, email string, archived bool) (int64, error)
	Delete(ctx context.Context, code, email string) (int64, error)
	ListByMember(ctx context.Context, email string, archived bool) ([]models.Membership, error)
	ListClassesByMember(ctx context.Context, email string) ([]models.ClassSummary, error)
	CountByCode(ctx context.Context) ([]models.CodeCount, error)
}

type classFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Class, error)
}

// MembershipService manages the user-in-class records.
type MembershipService struct {
	repo    membershipStore
	classes classFinder
	cache   *CacheService
	logger  *zap.Logger
}

// NewMembershipService constructs MembershipService. cache may be nil.
func NewMembershipService(repo membershipStore, classes classFinder, cache *CacheService, logger *zap.Logger) *MembershipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipService{repo: repo, classes: classes, cache: cache, logger: logger}
}

// Enroll inserts a membership of email in class code with the given role.
func (s *MembershipService) Enroll(ctx context.Context, code, email string, role models.UserRole, snapshot models.MembershipSnapshot) (*models.Membership, error) {
	code = strings.TrimSpace(code)
	email = strings.TrimSpace(email)
	if code == "" || email == "" || !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "")
	}

	if _, err := s.classes.FindByCode(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	exists, err := s.repo.Exists(ctx, code, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, msgAlreadyMember)
	}

	membership := &models.Membership{
		Code:        code,
		Email:       email,
		ClassName:   snapshot.ClassName,
		Description: snapshot.Description,
		MemberName:  snapshot.MemberName,
		Advisors:    snapshot.Advisors,
		Institution: snapshot.Institution,
		Role:        role,
	}
	if err := s.repo.Create(ctx, membership); err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, msgAlreadyMember)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create membership")
	}

	s.invalidateCounts(ctx)
	return membership, nil
}

// SetArchived toggles the archive flag of a membership. Repeating the same value succeeds.
func (s *MembershipService) SetArchived(ctx context.Context, code, email string, archived bool) error {
	affected, err := s.repo.SetArchived(ctx, code, email, archived)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Kelas gagal diperbarui, silahkan coba lagi.")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, msgMembershipNotFound)
	}
	return nil
}

// Remove deletes a membership.
func (s *MembershipService) Remove(ctx context.Context, code, email string) error {
	affected, err := s.repo.Delete(ctx, code, email)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Gagal menghapus anggota kelas.")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, msgMembershipNotFound)
	}
	s.invalidateCounts(ctx)
	return nil
}

// ListByMember returns the memberships of email in the requested archive state.
func (s *MembershipService) ListByMember(ctx context.Context, email string, archived bool) ([]models.Membership, error) {
	memberships, err := s.repo.ListByMember(ctx, email, archived)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list memberships")
	}
	if memberships == nil {
		memberships = []models.Membership{}
	}
	return memberships, nil
}

// CountByCode returns the member count of every class, served from cache when possible.
func (s *MembershipService) CountByCode(ctx context.Context) (map[string]int, error) {
	return s.cache.MemberCounts(ctx, s.loadCounts)
}

func (s *MembershipService) loadCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.repo.CountByCode(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count members")
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Code] = row.Total
	}
	return counts, nil
}

// Summary lists the classes of email with their member totals. When email is not
// the actor, only classes the actor advises are listed.
func (s *MembershipService) Summary(ctx context.Context, actor models.Identity, email string) ([]models.ClassSummary, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Email harus disediakan.")
	}
	summaries, err := s.repo.ListClassesByMember(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	if !strings.EqualFold(email, actor.Email) {
		if summaries, err = s.advisedBy(ctx, actor.Email, summaries); err != nil {
			return nil, err
		}
	}
	counts, err := s.CountByCode(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.ClassSummary, 0, len(summaries))
	for _, summary := range summaries {
		summary.Total = counts[summary.Code]
		result = append(result, summary)
	}
	return result, nil
}

// advisedBy keeps the classes in which email is a GURU member.
func (s *MembershipService) advisedBy(ctx context.Context, email string, summaries []models.ClassSummary) ([]models.ClassSummary, error) {
	kept := summaries[:0]
	for _, summary := range summaries {
		membership, err := s.repo.Find(ctx, summary.Code, email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
		}
		if membership.Role == models.RoleGuru {
			kept = append(kept, summary)
		}
	}
	return kept, nil
}

func (s *MembershipService) invalidateCounts(ctx context.Context) {
	if err := s.cache.InvalidateMemberCounts(ctx); err != nil {
		s.logger.Warn("member count cache not invalidated", zap.Error(err))
	}
}
