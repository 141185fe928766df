package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/request"
	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type ModerationService interface {
	ListPendingUsers(ctx context.Context, actor domain.User) ([]domain.User, error)
	ApproveUser(ctx context.Context, actor domain.User, id uint) error
	RejectUser(ctx context.Context, actor domain.User, id uint, reason string) error
	ListPendingChanges(ctx context.Context, actor domain.User) ([]domain.User, error)
	ApproveChanges(ctx context.Context, actor domain.User, id uint) error
	RejectChanges(ctx context.Context, actor domain.User, id uint, reason string) error
}

type ModerationHandler struct {
	svc  ModerationService
	uSvc UserService
}

func NewModerationHandler(svc ModerationService, uSvc UserService) *ModerationHandler {
	return &ModerationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListPendingUsers godoc
// @Summary      Registrations waiting for approval
// @Tags         moderation
// @Produce      json
// @Success      200      {array}    domain.User
// @Failure      403      {object}   response.Err
// @Router       /moderation/users [get]
// @Security     BearerAuth
func (h *ModerationHandler) HandleListPendingUsers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	users, err := h.svc.ListPendingUsers(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPendingUsers -> h.svc.ListPendingUsers", err)

		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleApproveUser godoc
// @Summary      Approve a registration
// @Tags         moderation
// @Param        id   path      int  true  "user id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /moderation/users/{id}/approve [post]
// @Security     BearerAuth
func (h *ModerationHandler) HandleApproveUser(ctx *gin.Context) {
	h.act(ctx, "v1.HandleApproveUser -> h.svc.ApproveUser", h.svc.ApproveUser)
}

// HandleRejectUser godoc
// @Summary      Reject a registration
// @Description  The account is deleted.
// @Tags         moderation
// @Accept       json
// @Param        id        path      int                    true   "user id"
// @Param        request   body      request.RejectRequest  false  "request body"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /moderation/users/{id}/reject [post]
// @Security     BearerAuth
func (h *ModerationHandler) HandleRejectUser(ctx *gin.Context) {
	h.reject(ctx, "v1.HandleRejectUser -> h.svc.RejectUser", h.svc.RejectUser)
}

// HandleListPendingChanges godoc
// @Summary      Profile edits waiting for review
// @Tags         moderation
// @Produce      json
// @Success      200      {array}    response.PendingChange
// @Failure      403      {object}   response.Err
// @Router       /moderation/changes [get]
// @Security     BearerAuth
func (h *ModerationHandler) HandleListPendingChanges(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	users, err := h.svc.ListPendingChanges(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPendingChanges -> h.svc.ListPendingChanges", err)

		return
	}

	ctx.JSON(http.StatusOK, response.NewPendingChanges(users))
}

// HandleApproveChanges godoc
// @Summary      Apply a user's pending profile edit
// @Tags         moderation
// @Param        id   path      int  true  "user id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /moderation/changes/{id}/approve [post]
// @Security     BearerAuth
func (h *ModerationHandler) HandleApproveChanges(ctx *gin.Context) {
	h.act(ctx, "v1.HandleApproveChanges -> h.svc.ApproveChanges", h.svc.ApproveChanges)
}

// HandleRejectChanges godoc
// @Summary      Discard a user's pending profile edit
// @Tags         moderation
// @Accept       json
// @Param        id        path      int                    true   "user id"
// @Param        request   body      request.RejectRequest  false  "request body"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /moderation/changes/{id}/reject [post]
// @Security     BearerAuth
func (h *ModerationHandler) HandleRejectChanges(ctx *gin.Context) {
	h.reject(ctx, "v1.HandleRejectChanges -> h.svc.RejectChanges", h.svc.RejectChanges)
}

func (h *ModerationHandler) act(ctx *gin.Context, op string, fn func(context.Context, domain.User, uint) error) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	id, respErr := parseID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := fn(ctx.Request.Context(), user, id); err != nil {
		renderServiceErr(ctx, op, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ModerationHandler) reject(ctx *gin.Context, op string, fn func(context.Context, domain.User, uint, string) error) {
	var req request.RejectRequest
	if err := bindOptionalJSON(ctx, &req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	h.act(ctx, op, func(c context.Context, actor domain.User, id uint) error {
		return fn(c, actor, id, req.Reason)
	})
}
