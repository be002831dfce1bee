package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/pkg/config"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type membershipChecker interface {
	Exists(ctx context.Context, code, email string) (bool, error)
}

type membershipEnroller interface {
	Enroll(ctx context.Context, code, email string, role models.UserRole, snapshot models.MembershipSnapshot) (*models.Membership, error)
}

// JoinService admits students into classes by code or through an invitation link.
type JoinService struct {
	classes   classFinder
	users     userFinder
	members   membershipChecker
	enroller  membershipEnroller
	redirects config.RedirectConfig
	logger    *zap.Logger
}

// NewJoinService constructs JoinService.
func NewJoinService(classes classFinder, users userFinder, members membershipChecker, enroller membershipEnroller, redirects config.RedirectConfig, logger *zap.Logger) *JoinService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JoinService{classes: classes, users: users, members: members, enroller: enroller, redirects: redirects, logger: logger}
}

// JoinByCode enrolls actor as SISWA in the class with exactly this code.
func (s *JoinService) JoinByCode(ctx context.Context, actor models.Identity, code string) (*models.JoinResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Kode kelas wajib diisi!")
	}

	class, err := s.classes.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Gagal memeriksa kelas, Silahkan coba lagi.")
	}

	if _, err := s.enroller.Enroll(ctx, class.Code, actor.Email, models.RoleSiswa, models.SnapshotOf(class, actor.Name)); err != nil {
		if appErrors.Is(err, appErrors.ErrInternal) {
			return nil, appErrors.Clone(appErrors.FromError(err), "Gagal bergabung dengan kelas, Silahkan coba lagi.")
		}
		return nil, err
	}

	s.logger.Info("member joined by code", zap.String("code", class.Code), zap.String("email", actor.Email))
	return &models.JoinResult{Code: class.Code, ClassName: class.Name, Institution: class.Institution}, nil
}

// JoinByInvite resolves an invitation link for caller, the identity attached by an
// optional session. The link never signs anyone in: only a caller already signed in
// as the invited email is enrolled. Business refusals are reported through the
// outcome alert; only store failures are returned as errors.
func (s *JoinService) JoinByInvite(ctx context.Context, caller *models.Identity, code, email string) (*models.JoinOutcome, error) {
	code = strings.TrimSpace(code)
	email = strings.TrimSpace(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.JoinOutcome{
				Redirect: s.redirects.RegisterURL,
				Alert:    models.Alert{Type: models.AlertError, Icon: "error", Message: "Akun kamu belum terdaftar.", Email: email},
			}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if caller == nil || !strings.EqualFold(caller.Email, user.Email) {
		return &models.JoinOutcome{
			Redirect: s.redirects.LoginURL,
			Alert:    models.Alert{Type: models.AlertInfo, Icon: "info", Message: msgLoginToJoin, Email: user.Email},
		}, nil
	}
	refuse := func(icon, message string) *models.JoinOutcome {
		return &models.JoinOutcome{
			Redirect: s.redirects.ClassManagementURL,
			Alert:    models.Alert{Type: models.AlertError, Icon: icon, Message: message},
		}
	}

	class, err := s.classes.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return refuse("error", msgClassNotFound), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	exists, err := s.members.Exists(ctx, code, user.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	if exists {
		return refuse("info", msgAlreadyMember), nil
	}
	if user.Role != models.RoleSiswa {
		return refuse("info", "Hanya siswa yang dapat bergabung dalam kelas."), nil
	}

	if _, err := s.enroller.Enroll(ctx, class.Code, user.Email, models.RoleSiswa, models.SnapshotOf(class, user.Name)); err != nil {
		switch {
		case appErrors.Is(err, appErrors.ErrDuplicate):
			return refuse("info", msgAlreadyMember), nil
		case appErrors.Is(err, appErrors.ErrNotFound):
			return refuse("error", msgClassNotFound), nil
		default:
			return nil, err
		}
	}

	s.logger.Info("member joined by invite", zap.String("code", class.Code), zap.String("email", user.Email))
	return &models.JoinOutcome{
		Redirect: s.redirects.ClassManagementURL,
		Alert:    models.Alert{Type: models.AlertSuccess, Icon: "success", Message: "Berhasil bergabung dengan kelas."},
	}, nil
}
