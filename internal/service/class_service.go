package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

const (
	msgDuplicateClassName = "Nama Kelas sudah ada."
	msgClassCreateFailed  = "Kelas gagal dibuat, Silahkan coba lagi."
	msgClassUpdateFailed  = "Kelas gagal diperbarui, silahkan coba lagi."
	msgOwnerOnly          = "Hanya pemilik kelas yang dapat melakukan aksi ini."
)

type classStore interface {
	FindByCode(ctx context.Context, code string) (*models.Class, error)
	ExistsByOwnerAndName(ctx context.Context, owner, name string) (bool, error)
	CreateWithTx(ctx context.Context, tx *sqlx.Tx, class *models.Class) error
	UpdateDetailsWithTx(ctx context.Context, tx *sqlx.Tx, code, name, description string) error
	PurgeWithTx(ctx context.Context, tx *sqlx.Tx, code string) error
}

type classMemberStore interface {
	CreateWithTx(ctx context.Context, tx *sqlx.Tx, membership *models.Membership) error
	UpdateSnapshotWithTx(ctx context.Context, tx *sqlx.Tx, code, name, description string) error
}

type membershipArchiver interface {
	SetArchived(ctx context.Context, code, email string, archived bool) error
}

type classLeaver interface {
	Leave(ctx context.Context, actor models.Identity, code string) error
}

// ClassService coordinates class lifecycle operations.
type ClassService struct {
	classes   classStore
	members   classMemberStore
	archiver  membershipArchiver
	leaver    classLeaver
	cache     *CacheService
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(classes classStore, members classMemberStore, archiver membershipArchiver, leaver classLeaver, cache *CacheService, tx txProvider, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{
		classes:   classes,
		members:   members,
		archiver:  archiver,
		leaver:    leaver,
		cache:     cache,
		tx:        tx,
		validator: validate,
		logger:    logger,
	}
}

// Create registers a class owned by actor and enrolls the owner as GURU in the same transaction.
func (s *ClassService) Create(ctx context.Context, actor models.Identity, req models.CreateClassRequest) (*models.ClassCreated, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	if actor.Role != models.RoleGuru {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Hanya guru yang dapat membuat kelas.")
	}

	exists, err := s.classes.ExistsByOwnerAndName(ctx, actor.Email, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgClassCreateFailed)
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, msgDuplicateClassName)
	}

	class := &models.Class{
		Code:        req.Code,
		Owner:       actor.Email,
		Name:        req.Name,
		Description: req.Description,
		Advisors:    models.AdvisorList{actor.Email},
		Institution: actor.Institution,
	}
	snapshot := models.SnapshotOf(class, actor.Name)
	owner := &models.Membership{
		Code:        class.Code,
		Email:       actor.Email,
		ClassName:   snapshot.ClassName,
		Description: snapshot.Description,
		MemberName:  snapshot.MemberName,
		Advisors:    snapshot.Advisors,
		Institution: snapshot.Institution,
		Role:        models.RoleGuru,
	}

	err = withTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.classes.CreateWithTx(ctx, tx, class); err != nil {
			return err
		}
		return s.members.CreateWithTx(ctx, tx, owner)
	})
	if err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "Kode atau nama kelas sudah digunakan, silahkan buat kode baru.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgClassCreateFailed)
	}

	s.invalidateCounts(ctx)
	s.logger.Info("class created", zap.String("code", class.Code), zap.String("owner", class.Owner))
	return &models.ClassCreated{Code: class.Code, Owner: class.Owner, Name: class.Name, Institution: class.Institution}, nil
}

// Edit renames a class and propagates the new snapshot to every membership.
func (s *ClassService) Edit(ctx context.Context, actor models.Identity, req models.EditClassRequest) (*models.Class, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	class, err := s.ownedClass(ctx, actor, req.Code)
	if err != nil {
		return nil, err
	}

	if req.Name != class.Name {
		exists, err := s.classes.ExistsByOwnerAndName(ctx, class.Owner, req.Name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgClassUpdateFailed)
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, msgDuplicateClassName)
		}
	}

	err = withTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.classes.UpdateDetailsWithTx(ctx, tx, class.Code, req.Name, req.Description); err != nil {
			return err
		}
		return s.members.UpdateSnapshotWithTx(ctx, tx, class.Code, req.Name, req.Description)
	})
	if err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, msgDuplicateClassName)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgClassUpdateFailed)
	}

	class.Name = req.Name
	class.Description = req.Description
	return class, nil
}

// Delete removes a class with its memberships and content in one transaction.
func (s *ClassService) Delete(ctx context.Context, actor models.Identity, code string) (*models.Class, error) {
	class, err := s.ownedClass(ctx, actor, code)
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		return s.classes.PurgeWithTx(ctx, tx, class.Code)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound), appErrors.ResultError)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Gagal menghapus kelas.")
	}

	s.invalidateCounts(ctx)
	s.logger.Info("class deleted", zap.String("code", class.Code), zap.String("actor", actor.Email))
	return class, nil
}

// Lookup returns the class identified by code.
func (s *ClassService) Lookup(ctx context.Context, code string) (*models.Class, error) {
	class, err := s.classes.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Search looks a class up by code for the public search endpoint.
func (s *ClassService) Search(ctx context.Context, code string) ([]models.Class, error) {
	if strings.TrimSpace(code) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Harap memberikan kode yang valid.")
	}
	class, err := s.Lookup(ctx, code)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, "Tidak ada kelas ditemukan dengan kode yang diberikan."), appErrors.ResultError)
		}
		return nil, appErrors.Clone(appErrors.FromError(err), "Terjadi kesalahan saat mencari kelas.")
	}
	return []models.Class{*class}, nil
}

// Action performs one of the class management actions and returns its confirmation.
func (s *ClassService) Action(ctx context.Context, actor models.Identity, req models.ClassActionRequest) (*models.ClassActionResult, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Owner = strings.TrimSpace(req.Owner)
	if req.Code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Kode wajib diisi!")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	class, err := s.classes.FindByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound), appErrors.ResultError)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}

	if req.Action == models.ClassActionEdit {
		updated, err := s.Edit(ctx, actor, models.EditClassRequest{Code: class.Code, Name: req.Name, Description: req.Description})
		if err != nil {
			return nil, err
		}
		return &models.ClassActionResult{
			Message: "Kelas berhasil diperbarui.",
			Data: map[string]interface{}{
				"kode":      updated.Code,
				"owner":     updated.Owner,
				"nama":      updated.Name,
				"deskripsi": updated.Description,
				"instansi":  updated.Institution,
			},
		}, nil
	}

	if req.Owner == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "")
	}
	data := map[string]interface{}{"kode": class.Code, "nama": class.Name, "owner": actor.Email}

	switch req.Action {
	case models.ClassActionArchive, models.ClassActionRestore:
		if req.Owner != actor.Email {
			return nil, appErrors.Clone(appErrors.ErrForbidden, msgOwnerOnly)
		}
		archived := req.Action == models.ClassActionArchive
		if err := s.archiver.SetArchived(ctx, class.Code, req.Owner, archived); err != nil {
			return nil, err
		}
		data["arsip"] = archived
		message := fmt.Sprintf(`Kelas "%s" ditambahkan kedalam daftar arsip.`, class.Name)
		if !archived {
			message = fmt.Sprintf(`Kelas "%s" telah dipulihkan.`, class.Name)
		}
		return &models.ClassActionResult{Message: message, Data: data}, nil
	case models.ClassActionDeleteGuru:
		if _, err := s.Delete(ctx, actor, class.Code); err != nil {
			return nil, err
		}
	default:
		if req.Owner != actor.Email {
			return nil, appErrors.Clone(appErrors.ErrForbidden, msgOwnerOnly)
		}
		if err := s.leaver.Leave(ctx, actor, class.Code); err != nil {
			return nil, err
		}
	}
	return &models.ClassActionResult{Message: fmt.Sprintf(`Kelas "%s" telah dihapus.`, class.Name), Data: data}, nil
}

func (s *ClassService) ownedClass(ctx context.Context, actor models.Identity, code string) (*models.Class, error) {
	class, err := s.classes.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound), appErrors.ResultError)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if class.Owner != actor.Email {
		return nil, appErrors.Clone(appErrors.ErrForbidden, msgOwnerOnly)
	}
	return class, nil
}

func (s *ClassService) invalidateCounts(ctx context.Context) {
	if err := s.cache.InvalidateMemberCounts(ctx); err != nil {
		s.logger.Warn("member count cache not invalidated", zap.Error(err))
	}
}
