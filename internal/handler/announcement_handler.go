package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

type announcementService interface {
	Create(ctx context.Context, actor models.Identity, req models.CreateAnnouncementRequest) (*models.Announcement, error)
	List(ctx context.Context, rawCodes string) ([]models.AnnouncementView, error)
}

type discussionService interface {
	Send(ctx context.Context, actor models.Identity, req models.SendMessageRequest) (*models.DiscussionMessage, error)
	Thread(ctx context.Context, code string) ([]models.DiscussionView, error)
}

// StreamHandler serves class announcements and discussion threads.
type StreamHandler struct {
	announcements announcementService
	discussions   discussionService
}

// NewStreamHandler constructs StreamHandler.
func NewStreamHandler(announcements announcementService, discussions discussionService) *StreamHandler {
	return &StreamHandler{announcements: announcements, discussions: discussions}
}

// CreateAnnouncement godoc
// @Summary Post an announcement
// @Tags Stream
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param payload body models.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /pengumuman/create [post]
func (h *StreamHandler) CreateAnnouncement(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.CreateAnnouncementRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Pengumuman dan kode kelas wajib diisi!"))
		return
	}
	announcement, err := h.announcements.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Pengumuman berhasil dibuat.", announcement)
}

// ListAnnouncements godoc
// @Summary List announcements of classes
// @Tags Stream
// @Produce json
// @Param kelas query string false "Comma separated class codes"
// @Success 200 {array} models.AnnouncementView
// @Security BearerAuth
// @Router /pengumuman [get]
func (h *StreamHandler) ListAnnouncements(c *gin.Context) {
	items, err := h.announcements.List(c.Request.Context(), c.Query("kelas"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, items)
}

// Thread godoc
// @Summary Read a class discussion thread
// @Tags Stream
// @Produce json
// @Param id query string true "Class code"
// @Success 200 {array} models.DiscussionView
// @Security BearerAuth
// @Router /diskusi [get]
func (h *StreamHandler) Thread(c *gin.Context) {
	items, err := h.discussions.Thread(c.Request.Context(), c.Query("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, items)
}

// Send godoc
// @Summary Post a discussion message
// @Tags Stream
// @Produce json
// @Param kode query string true "Class code"
// @Param pesan query string true "Message"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /diskusi/send [get]
func (h *StreamHandler) Send(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !bindQuery(c, &req) {
		return
	}
	message, err := h.discussions.Send(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Pesan berhasil dibuat.", message)
}
