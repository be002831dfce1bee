package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

const (
	contentInsertAttempts = 3
	msgContentAdvisorOnly = "Hanya pembimbing kelas yang dapat mengunggah konten."
)

type contentRepository interface {
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	CreateMaterial(ctx context.Context, kind models.IDKind, material *models.Material) error
	ListAssignmentsByCodes(ctx context.Context, codes []string) ([]models.AssignmentView, error)
}

type idGenerator interface {
	Generate(ctx context.Context, kind models.IDKind) (string, error)
}

// contentMessages holds the legacy response texts of one content kind.
type contentMessages struct {
	success string
	failed  string
	invalid string
}

var materialMessages = map[models.IDKind]contentMessages{
	models.KindMaterial: {success: "Materi berhasil diupload", failed: "Materi gagal diupload", invalid: "Materi tidak valid atau data kosong"},
	models.KindQuiz:     {success: "Quiz berhasil diupload", failed: "Quiz gagal diupload", invalid: "Kuis tidak valid atau data kosong"},
}

// ContentService posts assignments, materials and quizzes to classes.
type ContentService struct {
	repo      contentRepository
	classes   classFinder
	ids       idGenerator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContentService constructs ContentService.
func NewContentService(repo contentRepository, classes classFinder, ids idGenerator, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{repo: repo, classes: classes, ids: ids, validator: validate, logger: logger}
}

// CreateAssignment stores a task for a class advised by actor and returns the success message.
func (s *ContentService) CreateAssignment(ctx context.Context, actor models.Identity, req models.CreateAssignmentRequest) (*models.Assignment, string, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Title = strings.TrimSpace(req.Title)
	req.Link = strings.TrimSpace(req.Link)
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Tugas tidak valid atau data kosong")
	}
	if err := s.requireAdvisor(ctx, actor, req.Code); err != nil {
		return nil, "", err
	}

	assignment := &models.Assignment{
		Code:        req.Code,
		Owner:       actor.Email,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if req.Link != "" {
		link := req.Link
		assignment.Link = &link
	}

	err := s.insertWithFreshID(ctx, models.KindAssignment, func(id string) error {
		assignment.ID = id
		return s.repo.CreateAssignment(ctx, assignment)
	})
	if err != nil {
		return nil, "", s.contentError(err, "Gagal membuat tugas")
	}
	return assignment, "Tugas berhasil diunggah", nil
}

// CreateMaterial stores a material or quiz link for a class advised by actor.
func (s *ContentService) CreateMaterial(ctx context.Context, actor models.Identity, kind models.IDKind, req models.CreateMaterialRequest) (*models.Material, string, error) {
	messages, ok := materialMessages[kind]
	if !ok {
		return nil, "", appErrors.Clone(appErrors.ErrUnknownKind, "unsupported content kind")
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Title = strings.TrimSpace(req.Title)
	req.Link = strings.TrimSpace(req.Link)
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, messages.invalid)
	}
	if err := s.requireAdvisor(ctx, actor, req.Code); err != nil {
		return nil, "", err
	}

	material := &models.Material{
		Code:  req.Code,
		Owner: actor.Email,
		Title: req.Title,
		Type:  req.Type,
		Link:  req.Link,
	}
	err := s.insertWithFreshID(ctx, kind, func(id string) error {
		material.ID = id
		return s.repo.CreateMaterial(ctx, kind, material)
	})
	if err != nil {
		return nil, "", s.contentError(err, messages.failed)
	}
	return material, messages.success, nil
}

// ListAssignments returns the assignments of the comma separated class codes, newest first.
func (s *ContentService) ListAssignments(ctx context.Context, rawCodes string) ([]models.AssignmentView, error) {
	codes := splitList(rawCodes)
	if len(codes) == 0 {
		return []models.AssignmentView{}, nil
	}
	items, err := s.repo.ListAssignmentsByCodes(ctx, codes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Kesalahan server.")
	}
	if items == nil {
		items = []models.AssignmentView{}
	}
	return items, nil
}

// insertWithFreshID draws an identifier and runs insert, drawing again when
// the insert loses a race on the primary key.
func (s *ContentService) insertWithFreshID(ctx context.Context, kind models.IDKind, insert func(id string) error) error {
	var err error
	for attempt := 1; attempt <= contentInsertAttempts; attempt++ {
		var id string
		id, err = s.ids.Generate(ctx, kind)
		if err != nil {
			return err
		}
		err = insert(id)
		if err == nil || !appErrors.IsUniqueViolation(err) {
			return err
		}
		s.logger.Debug("content id taken at insert, regenerating", zap.String("kind", string(kind)), zap.String("id", id), zap.Int("attempt", attempt))
	}
	return err
}

func (s *ContentService) requireAdvisor(ctx context.Context, actor models.Identity, code string) error {
	class, err := s.classes.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound), appErrors.ResultError)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if !class.Advisors.Contains(actor.Email) {
		return appErrors.Clone(appErrors.ErrForbidden, msgContentAdvisorOnly)
	}
	return nil
}

func (s *ContentService) contentError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	s.logger.Error("content insert failed", zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
