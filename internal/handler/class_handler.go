package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/internal/service"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

type codeGenerator interface {
	Generate(ctx context.Context, kind models.IDKind) (string, error)
}

type classService interface {
	Create(ctx context.Context, actor models.Identity, req models.CreateClassRequest) (*models.ClassCreated, error)
	Search(ctx context.Context, code string) ([]models.Class, error)
	Action(ctx context.Context, actor models.Identity, req models.ClassActionRequest) (*models.ClassActionResult, error)
}

type rosterExporter interface {
	Roster(ctx context.Context, actor models.Identity, req models.RosterExportRequest) (*service.RosterFile, error)
}

// ClassHandler serves class registry endpoints.
type ClassHandler struct {
	codes   codeGenerator
	classes classService
	exports rosterExporter
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(codes codeGenerator, classes classService, exports rosterExporter) *ClassHandler {
	return &ClassHandler{codes: codes, classes: classes, exports: exports}
}

// GenerateCode godoc
// @Summary Generate an unused class or content code
// @Tags Classes
// @Produce json
// @Param kind query string false "kelas (default), tugas, materi or quiz"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /generate-kode-kelas [get]
func (h *ClassHandler) GenerateCode(c *gin.Context) {
	kind, err := service.ParseKind(c.DefaultQuery("kind", string(models.KindClass)))
	if err != nil {
		response.Error(c, err)
		return
	}
	code, err := h.codes.Generate(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Kode berhasil dibuat."
	if kind == models.KindClass {
		message = "Kode kelas berhasil dibuat."
	}
	response.Raw(c, http.StatusOK, gin.H{"status": "success", "kode": code, "message": message})
}

// Create godoc
// @Summary Create a class
// @Tags Classes
// @Produce json
// @Param kode query string true "Class code"
// @Param nama query string true "Class name"
// @Param desk query string true "Description"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /kelas/create [get]
func (h *ClassHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateClassRequest
	if !bindQuery(c, &req) {
		return
	}
	created, err := h.classes.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Kelas berhasil dibuat.", created)
}

// Action godoc
// @Summary Edit, archive, restore or delete a class
// @Tags Classes
// @Produce json
// @Param kode query string true "Class code"
// @Param action query string true "edit, arsip, pulihkan, delete_guru or delete_siswa"
// @Param owner query string false "Member email"
// @Param nama query string false "New name"
// @Param desk query string false "New description"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /kelas/action [get]
func (h *ClassHandler) Action(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.ClassActionRequest
	if !bindQuery(c, &req) {
		return
	}
	result, err := h.classes.Action(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result.Message, result.Data)
}

// Search godoc
// @Summary Find a class by code
// @Tags Classes
// @Produce json
// @Param kode query string true "Class code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /kelas/search [get]
func (h *ClassHandler) Search(c *gin.Context) {
	classes, err := h.classes.Search(c.Request.Context(), c.Query("kode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", classes)
}

// Export godoc
// @Summary Download the class roster
// @Tags Classes
// @Produce text/csv
// @Produce application/pdf
// @Param kode query string true "Class code"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /kelas/export [get]
func (h *ClassHandler) Export(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.RosterExportRequest
	if !bindQuery(c, &req) {
		return
	}
	file, err := h.exports.Roster(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
