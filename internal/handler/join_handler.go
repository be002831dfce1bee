package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/middleware"
	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/pkg/config"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

// AlertCookieName carries the flash alert shown after an invite redirect.
const AlertCookieName = "alert"

type joinByInviteService interface {
	JoinByInvite(ctx context.Context, caller *models.Identity, code, email string) (*models.JoinOutcome, error)
}

// JoinHandler resolves emailed invitation links.
type JoinHandler struct {
	joins        joinByInviteService
	redirects    config.RedirectConfig
	secureCookie bool
	logger       *zap.Logger
}

// NewJoinHandler constructs JoinHandler.
func NewJoinHandler(joins joinByInviteService, redirects config.RedirectConfig, secureCookie bool, logger *zap.Logger) *JoinHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if redirects.AlertCookieTTL <= 0 {
		redirects.AlertCookieTTL = time.Minute
	}
	return &JoinHandler{joins: joins, redirects: redirects, secureCookie: secureCookie, logger: logger}
}

// InviteLink godoc
// @Summary Accept an emailed class invitation
// @Description Enrolls the invited student when the session belongs to the invited email, otherwise redirects to login or register. Always answers with a flash alert cookie.
// @Tags Membership
// @Param kode path string true "Class code"
// @Param email path string true "Invited email"
// @Success 302
// @Router /join/{kode}/{email} [get]
func (h *JoinHandler) InviteLink(c *gin.Context) {
	var caller *models.Identity
	if identity, ok := middleware.CurrentIdentity(c); ok {
		caller = &identity
	}

	outcome, err := h.joins.JoinByInvite(c.Request.Context(), caller, c.Param("kode"), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	if encoded, err := encodeAlert(outcome.Alert); err != nil {
		h.logger.Warn("encode alert cookie", zap.Error(err))
	} else {
		c.SetCookie(AlertCookieName, encoded, int(h.redirects.AlertCookieTTL.Seconds()), "/", "", h.secureCookie, false)
	}
	c.Redirect(http.StatusFound, outcome.Redirect)
}

// encodeAlert packs the alert as base64url JSON so it survives cookie value rules.
func encodeAlert(alert models.Alert) (string, error) {
	payload, err := json.Marshal(alert)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}
