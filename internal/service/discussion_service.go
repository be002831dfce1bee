package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type discussionRepository interface {
	Create(ctx context.Context, msg *models.DiscussionMessage) error
	ListByCode(ctx context.Context, code string) ([]models.DiscussionView, error)
}

// DiscussionService runs the per-class message thread.
type DiscussionService struct {
	repo      discussionRepository
	members   membershipChecker
	sanitizer *bluemonday.Policy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDiscussionService constructs DiscussionService.
func NewDiscussionService(repo discussionRepository, members membershipChecker, validate *validator.Validate, logger *zap.Logger) *DiscussionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")
	return &DiscussionService{repo: repo, members: members, sanitizer: policy, validator: validate, logger: logger}
}

// Send posts a message from actor into the thread of class code.
func (s *DiscussionService) Send(ctx context.Context, actor models.Identity, req models.SendMessageRequest) (*models.DiscussionMessage, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Message = strings.TrimSpace(s.sanitizer.Sanitize(req.Message))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	if err := requireMember(ctx, s.members, req.Code, actor.Email); err != nil {
		return nil, err
	}

	msg := &models.DiscussionMessage{Code: req.Code, Email: actor.Email, Message: req.Message}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Pesan gagal dibuat, Silahkan coba lagi.")
	}
	return msg, nil
}

// Thread returns the messages of class code oldest first.
func (s *DiscussionService) Thread(ctx context.Context, code string) ([]models.DiscussionView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	messages, err := s.repo.ListByCode(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discussion")
	}
	if messages == nil {
		messages = []models.DiscussionView{}
	}
	return messages, nil
}
