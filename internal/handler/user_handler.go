package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

type userService interface {
	Search(ctx context.Context, raw string) ([]models.User, error)
}

// UserHandler serves user lookups.
type UserHandler struct {
	service userService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// Search godoc
// @Summary Look users up by email
// @Tags Users
// @Produce json
// @Param email query string true "Comma separated emails"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.service.Search(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "", users)
}
