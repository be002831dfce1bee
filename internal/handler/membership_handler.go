package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

type membershipService interface {
	ListByMember(ctx context.Context, email string, archived bool) ([]models.Membership, error)
	Summary(ctx context.Context, actor models.Identity, email string) ([]models.ClassSummary, error)
}

type roleService interface {
	Apply(ctx context.Context, actor models.Identity, req models.RoleChangeRequest) (string, error)
}

type joinByCodeService interface {
	JoinByCode(ctx context.Context, actor models.Identity, code string) (*models.JoinResult, error)
}

type inviteService interface {
	Invite(ctx context.Context, actor models.Identity, req models.InviteRequest) error
}

// MembershipHandler serves enrollment, roster and role endpoints.
type MembershipHandler struct {
	memberships membershipService
	roles       roleService
	joins       joinByCodeService
	invites     inviteService
}

// NewMembershipHandler constructs MembershipHandler.
func NewMembershipHandler(memberships membershipService, roles roleService, joins joinByCodeService, invites inviteService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, roles: roles, joins: joins, invites: invites}
}

// Join godoc
// @Summary Join a class by code
// @Tags Membership
// @Produce json
// @Param kode query string true "Class code"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /kelas/join [get]
func (h *MembershipHandler) Join(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	result, err := h.joins.JoinByCode(c.Request.Context(), actor, c.Query("kode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Anda berhasil bergabung dengan kelas.", result)
}

// List godoc
// @Summary List the caller's classes
// @Tags Membership
// @Produce json
// @Param arsip query bool false "Archived classes instead of active ones"
// @Success 200 {array} models.Membership
// @Security BearerAuth
// @Router /kelas/list [get]
func (h *MembershipHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	archived := false
	if raw := c.Query("arsip"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "arsip harus bernilai true atau false."))
			return
		}
		archived = parsed
	}
	items, err := h.memberships.ListByMember(c.Request.Context(), actor.Email, archived)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, items)
}

// Summary godoc
// @Summary List classes of a member with headcounts
// @Tags Membership
// @Produce json
// @Param email query string false "Member email, defaults to the caller; other members only show classes the caller advises"
// @Success 200 {array} models.ClassSummary
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /daftar-kelas [get]
func (h *MembershipHandler) Summary(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	email := c.DefaultQuery("email", actor.Email)
	items, err := h.memberships.Summary(c.Request.Context(), actor, email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, items)
}

// ChangeStatus godoc
// @Summary Promote, demote or expel a member
// @Tags Membership
// @Produce json
// @Param kode query string true "Class code"
// @Param owner query string true "Member email"
// @Param action query string true "upgrade, downgrade or delete"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /anggota/status [get]
func (h *MembershipHandler) ChangeStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.RoleChangeRequest
	if !bindQuery(c, &req) {
		return
	}
	message, err := h.roles.Apply(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, nil)
}

// Invite godoc
// @Summary Email a class invitation
// @Tags Membership
// @Produce json
// @Param email query string true "Invitee email"
// @Param kode query string true "Class code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /kelas/invite [get]
func (h *MembershipHandler) Invite(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req models.InviteRequest
	if !bindQuery(c, &req) {
		return
	}
	if err := h.invites.Invite(c.Request.Context(), actor, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Undangan berhasil dikirim", nil)
}
