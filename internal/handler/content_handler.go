package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

type contentService interface {
	CreateAssignment(ctx context.Context, actor models.Identity, req models.CreateAssignmentRequest) (*models.Assignment, string, error)
	CreateMaterial(ctx context.Context, actor models.Identity, kind models.IDKind, req models.CreateMaterialRequest) (*models.Material, string, error)
	ListAssignments(ctx context.Context, rawCodes string) ([]models.AssignmentView, error)
}

type feedService interface {
	ClassFeed(ctx context.Context, code string) ([]models.FeedItem, error)
}

// ContentHandler serves assignments, materials, quizzes and the class feed.
type ContentHandler struct {
	content contentService
	feed    feedService
}

// NewContentHandler constructs ContentHandler.
func NewContentHandler(content contentService, feed feedService) *ContentHandler {
	return &ContentHandler{content: content, feed: feed}
}

// CreateAssignment godoc
// @Summary Post an assignment
// @Tags Content
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param payload body models.CreateAssignmentRequest true "Assignment"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /tugas/create [post]
func (h *ContentHandler) CreateAssignment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateAssignmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Tugas tidak valid atau data kosong"))
		return
	}
	assignment, message, err := h.content.CreateAssignment(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, assignment)
}

// CreateMaterial returns the handler posting material of kind (materi or quiz).
//
// @Summary Post a material or quiz link
// @Tags Content
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param payload body models.CreateMaterialRequest true "Material"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /materi/create [post]
// @Router /quiz/create [post]
func (h *ContentHandler) CreateMaterial(kind models.IDKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		var req models.CreateMaterialRequest
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message))
			return
		}
		material, message, err := h.content.CreateMaterial(c.Request.Context(), actor, kind, req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, message, material)
	}
}

// ListAssignments godoc
// @Summary List assignments of classes
// @Tags Content
// @Produce json
// @Param kelas query string false "Comma separated class codes"
// @Success 200 {array} models.AssignmentView
// @Security BearerAuth
// @Router /tugas [get]
func (h *ContentHandler) ListAssignments(c *gin.Context) {
	items, err := h.content.ListAssignments(c.Request.Context(), c.Query("kelas"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, items)
}

// ClassFeed godoc
// @Summary Merged class stream
// @Description Announcements, assignments and materials of one class, newest first.
// @Tags Content
// @Produce json
// @Param kodeKelas query string true "Class code"
// @Success 200 {array} models.FeedItem
// @Security BearerAuth
// @Router /data-kelas [get]
func (h *ContentHandler) ClassFeed(c *gin.Context) {
	items, err := h.feed.ClassFeed(c.Request.Context(), c.Query("kodeKelas"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, items)
}
