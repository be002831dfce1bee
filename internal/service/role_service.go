package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

const (
	msgMemberNotFound  = "Tidak ada siswa ditemukan dengan kode dan owner yang diberikan."
	msgNotAdvisor      = "Hanya pembimbing kelas yang dapat mengubah status anggota."
	msgOwnerProtected  = "Pemilik kelas tidak dapat diubah atau dihapus."
	msgRoleParamsValid = "Harap memberikan kode, owner dan action yang valid."
)

type roleClassStore interface {
	FindByCodeForUpdate(ctx context.Context, tx *sqlx.Tx, code string) (*models.Class, error)
	UpdateAdvisorsWithTx(ctx context.Context, tx *sqlx.Tx, code string, advisors models.AdvisorList) error
}

type roleMemberStore interface {
	UpdateRoleWithTx(ctx context.Context, tx *sqlx.Tx, code, email string, role models.UserRole) (int64, error)
	DeleteWithTx(ctx context.Context, tx *sqlx.Tx, code, email string) (int64, error)
	UpdateAdvisorsWithTx(ctx context.Context, tx *sqlx.Tx, code string, advisors models.AdvisorList) error
}

// RoleService moves members between the SISWA and GURU roles of a class and keeps
// the class advisor list in step with the GURU memberships.
type RoleService struct {
	classes   roleClassStore
	members   roleMemberStore
	cache     *CacheService
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoleService constructs RoleService.
func NewRoleService(classes roleClassStore, members roleMemberStore, cache *CacheService, tx txProvider, validate *validator.Validate, logger *zap.Logger) *RoleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{classes: classes, members: members, cache: cache, tx: tx, validator: validate, logger: logger}
}

// Apply dispatches a member status change and returns the confirmation message.
func (s *RoleService) Apply(ctx context.Context, actor models.Identity, req models.RoleChangeRequest) (string, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgRoleParamsValid)
	}

	switch req.Action {
	case models.RoleActionUpgrade:
		if err := s.Promote(ctx, actor, req.Code, req.Email); err != nil {
			return "", err
		}
		return "Anggota berhasil diubah sebagai pembimbing.", nil
	case models.RoleActionDowngrade:
		if err := s.Demote(ctx, actor, req.Code, req.Email); err != nil {
			return "", err
		}
		return "Anggota berhasil diubah sebagai siswa.", nil
	default:
		if err := s.Expel(ctx, actor, req.Code, req.Email); err != nil {
			return "", err
		}
		return "Anggota berhasil dihapus.", nil
	}
}

// Promote makes email a GURU of the class and adds it to the advisor list.
func (s *RoleService) Promote(ctx context.Context, actor models.Identity, code, email string) error {
	return s.transition(ctx, actor, code, email, transitionGuard{requireAdvisor: true}, func(tx *sqlx.Tx, advisors models.AdvisorList) (models.AdvisorList, int64, error) {
		affected, err := s.members.UpdateRoleWithTx(ctx, tx, code, email, models.RoleGuru)
		return advisors.With(email), affected, err
	})
}

// Demote makes email a SISWA of the class and drops it from the advisor list.
func (s *RoleService) Demote(ctx context.Context, actor models.Identity, code, email string) error {
	return s.transition(ctx, actor, code, email, transitionGuard{requireAdvisor: true, protectOwner: true}, func(tx *sqlx.Tx, advisors models.AdvisorList) (models.AdvisorList, int64, error) {
		affected, err := s.members.UpdateRoleWithTx(ctx, tx, code, email, models.RoleSiswa)
		return advisors.Without(email), affected, err
	})
}

// Expel removes email from the class regardless of its role.
func (s *RoleService) Expel(ctx context.Context, actor models.Identity, code, email string) error {
	if err := s.transition(ctx, actor, code, email, transitionGuard{requireAdvisor: true, protectOwner: true}, s.remove(ctx, code, email)); err != nil {
		return err
	}
	s.invalidateCounts(ctx)
	return nil
}

// Leave removes the actor's own membership.
func (s *RoleService) Leave(ctx context.Context, actor models.Identity, code string) error {
	if err := s.transition(ctx, actor, code, actor.Email, transitionGuard{protectOwner: true}, s.remove(ctx, code, actor.Email)); err != nil {
		return err
	}
	s.invalidateCounts(ctx)
	return nil
}

func (s *RoleService) remove(ctx context.Context, code, email string) func(tx *sqlx.Tx, advisors models.AdvisorList) (models.AdvisorList, int64, error) {
	return func(tx *sqlx.Tx, advisors models.AdvisorList) (models.AdvisorList, int64, error) {
		affected, err := s.members.DeleteWithTx(ctx, tx, code, email)
		return advisors.Without(email), affected, err
	}
}

type roleMutation func(tx *sqlx.Tx, advisors models.AdvisorList) (models.AdvisorList, int64, error)

// transitionGuard lists the checks run against the locked class row.
type transitionGuard struct {
	requireAdvisor bool
	protectOwner   bool
}

func (s *RoleService) transition(ctx context.Context, actor models.Identity, code, email string, guard transitionGuard, mutate roleMutation) error {
	return withTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		class, err := s.classes.FindByCodeForUpdate(ctx, tx, code)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound)
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock class")
		}
		if guard.requireAdvisor && !class.Advisors.Contains(actor.Email) {
			return appErrors.Clone(appErrors.ErrForbidden, msgNotAdvisor)
		}
		if guard.protectOwner && email == class.Owner {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, msgOwnerProtected)
		}

		advisors, affected, err := mutate(tx, class.Advisors)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		if affected == 0 {
			return appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, msgMemberNotFound), appErrors.ResultError)
		}

		if err := s.classes.UpdateAdvisorsWithTx(ctx, tx, code, advisors); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		if err := s.members.UpdateAdvisorsWithTx(ctx, tx, code, advisors); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		s.logger.Info("class advisors updated", zap.String("code", code), zap.String("member", email), zap.String("actor", actor.Email), zap.Int("advisors", len(advisors)))
		return nil
	})
}

func (s *RoleService) invalidateCounts(ctx context.Context) {
	if err := s.cache.InvalidateMemberCounts(ctx); err != nil {
		s.logger.Warn("member count cache not invalidated", zap.Error(err))
	}
}
