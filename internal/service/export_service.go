package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
	"github.com/noah-isme/eduplatform-api/pkg/export"
)

var (
	rosterHeaders = []string{"Nama", "Email", "Peran", "Arsip", "Bergabung"}
	rosterWidths  = []float64{3, 4, 1.2, 1, 1.6}
)

type rosterMemberLister interface {
	ListByCode(ctx context.Context, code string) ([]models.Membership, error)
}

// RosterFile is a rendered roster ready to be served as an attachment.
type RosterFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders class rosters for advisors.
type ExportService struct {
	classes   classFinder
	members   rosterMemberLister
	renderers map[models.RosterFormat]export.Renderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// CSV and PDF exporters.
func NewExportService(classes classFinder, members rosterMemberLister, csv, pdf export.Renderer, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		classes: classes,
		members: members,
		renderers: map[models.RosterFormat]export.Renderer{
			models.RosterFormatCSV: csv,
			models.RosterFormatPDF: pdf,
		},
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Roster renders the member list of a class advised by actor.
func (s *ExportService) Roster(ctx context.Context, actor models.Identity, req models.RosterExportRequest) (*RosterFile, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Format = models.RosterFormat(strings.ToLower(strings.TrimSpace(string(req.Format))))
	if req.Format == "" {
		req.Format = models.RosterFormatCSV
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "kode and format csv|pdf are required")
	}

	class, err := s.classes.FindByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, msgClassNotFound), appErrors.ResultError)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if !class.Advisors.Contains(actor.Email) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Hanya pembimbing kelas yang dapat mengunduh daftar anggota.")
	}

	members, err := s.members.ListByCode(ctx, class.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}

	renderer := s.renderers[req.Format]
	payload, err := renderer.Render(buildRosterDataset(class, members))
	if err != nil {
		s.logger.Error("render roster", zap.String("code", class.Code), zap.String("format", string(req.Format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}

	return &RosterFile{
		Filename:    s.buildFilename(class, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        payload,
	}, nil
}

func buildRosterDataset(class *models.Class, members []models.Membership) export.Dataset {
	rows := make([]map[string]string, 0, len(members))
	for _, m := range members {
		archived := "Tidak"
		if m.Archived {
			archived = "Ya"
		}
		rows = append(rows, map[string]string{
			"Nama":      m.MemberName,
			"Email":     m.Email,
			"Peran":     string(m.Role),
			"Arsip":     archived,
			"Bergabung": m.JoinedAt.Format("2006-01-02"),
		})
	}
	return export.Dataset{
		Title:    fmt.Sprintf("Daftar Anggota %s (%s)", class.Name, class.Code),
		Subtitle: fmt.Sprintf("%s - %d anggota", class.Institution, len(members)),
		Headers:  rosterHeaders,
		Widths:   rosterWidths,
		Rows:     rows,
	}
}

func (s *ExportService) buildFilename(class *models.Class, ext string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("roster_%s_%s_%s.%s", class.Code, sanitizeFilename(class.Name), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
