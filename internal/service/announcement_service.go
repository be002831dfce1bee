package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type announcementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	ListByCodes(ctx context.Context, codes []string) ([]models.AnnouncementView, error)
}

// AnnouncementService publishes and lists class announcements.
type AnnouncementService struct {
	repo      announcementRepository
	classes   classFinder
	members   membershipChecker
	policy    *bluemonday.Policy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs AnnouncementService.
func NewAnnouncementService(repo announcementRepository, classes classFinder, members membershipChecker, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &AnnouncementService{repo: repo, classes: classes, members: members, policy: policy, validator: validate, logger: logger}
}

// Create posts an announcement to a class the actor belongs to.
func (s *AnnouncementService) Create(ctx context.Context, actor models.Identity, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Body = strings.TrimSpace(s.policy.Sanitize(req.Body))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Pengumuman dan kode kelas wajib diisi!")
	}

	if _, err := s.classes.FindByCode(ctx, req.Code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound), appErrors.ResultError)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	if err := requireMember(ctx, s.members, req.Code, actor.Email); err != nil {
		return nil, err
	}

	announcement := &models.Announcement{Code: req.Code, Body: req.Body, Owner: actor.Email, Role: actor.Role}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Pengumuman gagal dibuat, silahkan coba lagi.")
	}
	return announcement, nil
}

// List returns the announcements of the comma separated class codes, newest first.
func (s *AnnouncementService) List(ctx context.Context, rawCodes string) ([]models.AnnouncementView, error) {
	codes := splitList(rawCodes)
	if len(codes) == 0 {
		return []models.AnnouncementView{}, nil
	}
	items, err := s.repo.ListByCodes(ctx, codes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Kesalahan server.")
	}
	if items == nil {
		items = []models.AnnouncementView{}
	}
	return items, nil
}

func requireMember(ctx context.Context, members membershipChecker, code, email string) error {
	ok, err := members.Exists(ctx, code, email)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, "Anda bukan anggota kelas ini.")
	}
	return nil
}
