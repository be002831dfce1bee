package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduplatform-api/internal/middleware"
	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserInfo, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service      authService
	secureCookie bool
}

// NewAuthHandler creates a new handler. secureCookie marks the token cookie Secure.
func NewAuthHandler(svc authService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, secureCookie: secureCookie}
}

// Register godoc
// @Summary Register an account
// @Tags Users
// @Produce json
// @Param nama query string true "Full name"
// @Param email query string true "Email"
// @Param password query string true "Password"
// @Param peran query string true "GURU or SISWA"
// @Param jenjang query string true "Education level"
// @Param instansi query string true "Institution"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/register [get]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindQuery(c, &req) {
		return
	}
	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Registrasi akun berhasil.", user)
}

// Login godoc
// @Summary Authenticate user
// @Description Returns a signed access token and sets it as the token cookie.
// @Tags Users
// @Produce json
// @Param email query string true "Email"
// @Param password query string true "Password"
// @Param remember query bool false "Keep the session for three days"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindQuery(c, &req) {
		return
	}
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, res.AccessToken, int(res.ExpiresIn), "/", "", h.secureCookie, true)
	response.OK(c, "Login berhasil.", res)
}
