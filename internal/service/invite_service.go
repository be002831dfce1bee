package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/pkg/config"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
	"github.com/noah-isme/eduplatform-api/pkg/jobs"
	"github.com/noah-isme/eduplatform-api/pkg/mail"
)

const (
	inviteJobType = "class_invite"
	inviteSubject = "Undangan Kelas - EduPlatform"
)

// InviteService emails class invitation links through a background queue.
type InviteService struct {
	classes   classFinder
	members   membershipChecker
	sender    mail.Sender
	metrics   *MetricsService
	queue     *jobs.Queue
	cfg       config.InviteConfig
	policy    *bluemonday.Policy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInviteService constructs InviteService and its dispatch queue. Call Start before use.
func NewInviteService(classes classFinder, members membershipChecker, sender mail.Sender, metrics *MetricsService, cfg config.InviteConfig, validate *validator.Validate, logger *zap.Logger) *InviteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &InviteService{
		classes:   classes,
		members:   members,
		sender:    sender,
		metrics:   metrics,
		cfg:       cfg,
		policy:    bluemonday.StrictPolicy(),
		validator: validate,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("invites", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.QueueBacklog,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		DeadLetter: s.deadLetter,
	})
	return s
}

// Start launches the dispatch workers.
func (s *InviteService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts the dispatch workers.
func (s *InviteService) Stop() {
	s.queue.Stop()
}

// Invite queues an invitation email for req.Email to join class req.Code.
func (s *InviteService) Invite(ctx context.Context, actor models.Identity, req models.InviteRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Email dan nama kelas harus disediakan")
	}

	exists, err := s.members.Exists(ctx, req.Code, req.Email)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicate, "Anggota sudah bergabung dalam kelas.")
	}

	class, err := s.classes.FindByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if !class.Advisors.Contains(actor.Email) {
		return appErrors.Clone(appErrors.ErrForbidden, "Hanya pembimbing kelas yang dapat mengundang anggota.")
	}

	msg := s.compose(class, req.Email)
	if err := msg.Validate(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Email dan nama kelas harus disediakan")
	}
	if err := s.queue.Enqueue(jobs.Job{Type: inviteJobType, Payload: msg}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Gagal mengirim email")
	}
	s.logger.Info("invite queued", zap.String("code", class.Code), zap.String("to", req.Email), zap.String("by", actor.Email))
	return nil
}

// InviteLink returns the join link embedded in invitation emails.
func (s *InviteService) InviteLink(code, email string) string {
	return fmt.Sprintf("%s/join/%s/%s", s.cfg.BaseURL, url.PathEscape(code), url.PathEscape(email))
}

func (s *InviteService) compose(class *models.Class, to string) mail.Message {
	body := fmt.Sprintf(
		"Halo, Anda diundang untuk bergabung ke kelas <b>%s</b>.<br>Silakan klik link berikut untuk bergabung:<br><br>%s<br><br>Terima kasih!",
		s.policy.Sanitize(class.Name),
		s.InviteLink(class.Code, to),
	)
	return mail.Message{From: s.cfg.From, To: to, Subject: inviteSubject, HTML: body}
}

func (s *InviteService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mail.Message)
	if !ok {
		s.logger.Error("invite job payload invalid", zap.String("job_id", job.ID))
		return nil
	}
	err := s.sender.Send(ctx, msg)
	if errors.Is(err, mail.ErrInvalidMessage) {
		return jobs.Permanent(err)
	}
	return err
}

func (s *InviteService) deadLetter(job jobs.Job, err error) {
	s.metrics.RecordInviteDeadLetter()
	to := ""
	if msg, ok := job.Payload.(mail.Message); ok {
		to = msg.To
	}
	s.logger.Error("invite undeliverable", zap.String("job_id", job.ID), zap.String("to", to), zap.Error(err))
}
