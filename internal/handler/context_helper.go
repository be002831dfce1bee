package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduplatform-api/internal/middleware"
	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

// actorFromContext returns the authenticated caller, writing a 401 when the
// route was reached without identity.
func actorFromContext(c *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Identity{}, false
	}
	return identity, true
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message))
		return false
	}
	return true
}
