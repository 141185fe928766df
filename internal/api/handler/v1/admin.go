package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/request"
	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/service"
)

type AdminService interface {
	ListUsers(ctx context.Context, actor domain.User) ([]domain.User, error)
	Dashboard(ctx context.Context, actor domain.User) (service.Dashboard, error)
	UpdateRole(ctx context.Context, actor domain.User, id uint, role domain.Role) error
	ToggleActiveVolunteer(ctx context.Context, actor domain.User, id uint) (bool, error)
	EditUser(ctx context.Context, actor domain.User, id uint, edit service.AccountEdit) (domain.User, error)
	AddActivityPeriod(ctx context.Context, actor domain.User, userID uint, period domain.ActivityPeriod) (domain.ActivityPeriod, error)
	DeleteActivityPeriod(ctx context.Context, actor domain.User, id uint) error
}

type AuditService interface {
	List(ctx context.Context, actor domain.User, page domain.Page) ([]domain.AuditLog, int64, error)
}

type AdminHandler struct {
	svc      AdminService
	auditSvc AuditService
	uSvc     UserService
}

func NewAdminHandler(svc AdminService, auditSvc AuditService, uSvc UserService) *AdminHandler {
	return &AdminHandler{
		svc:      svc,
		auditSvc: auditSvc,
		uSvc:     uSvc,
	}
}

// HandleListUsers godoc
// @Summary      Every user by id
// @Tags         admin
// @Produce      json
// @Success      200      {array}    domain.User
// @Failure      403      {object}   response.Err
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListUsers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	users, err := h.svc.ListUsers(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListUsers -> h.svc.ListUsers", err)

		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleDashboard godoc
// @Summary      Counters for the staff dashboard
// @Tags         admin
// @Produce      json
// @Success      200      {object}   service.Dashboard
// @Failure      403      {object}   response.Err
// @Router       /admin/dashboard [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleDashboard(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	dashboard, err := h.svc.Dashboard(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleDashboard -> h.svc.Dashboard", err)

		return
	}

	ctx.JSON(http.StatusOK, dashboard)
}

// HandleUpdateRole godoc
// @Summary      Change a user's role
// @Description  Naming a new head administrator demotes the previous one to worker.
// @Tags         admin
// @Accept       json
// @Param        id        path      int                  true  "user id"
// @Param        request   body      request.RoleRequest  true  "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /admin/users/{id}/role [put]
// @Security     BearerAuth
func (h *AdminHandler) HandleUpdateRole(ctx *gin.Context) {
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

	var req request.RoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.UpdateRole(ctx.Request.Context(), user, id, domain.Role(req.Role)); err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateRole -> h.svc.UpdateRole", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleToggleActiveVolunteer godoc
// @Summary      Grant or revoke the active volunteer title
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "user id"
// @Success      200      {object}   response.ActiveVolunteerResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /admin/users/{id}/active-volunteer [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleToggleActiveVolunteer(ctx *gin.Context) {
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

	active, err := h.svc.ToggleActiveVolunteer(ctx.Request.Context(), user, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleToggleActiveVolunteer -> h.svc.ToggleActiveVolunteer", err)

		return
	}

	ctx.JSON(http.StatusOK, response.ActiveVolunteerResponse{IsActiveVolunteer: active})
}

// HandleEditUser godoc
// @Summary      Edit a user directly
// @Description  Bypasses moderation. A "photo" file in a multipart body replaces the profile photo.
// @Tags         admin
// @Accept       json,mpfd
// @Produce      json
// @Param        id        path      int                       true  "user id"
// @Param        request   body      request.AdminEditRequest  true  "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /admin/users/{id} [put]
// @Security     BearerAuth
func (h *AdminHandler) HandleEditUser(ctx *gin.Context) {
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

	var req request.AdminEditRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	photo, closePhoto, respErr := formImage(ctx, "photo")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	defer closePhoto()

	updated, err := h.svc.EditUser(ctx.Request.Context(), user, id, service.AccountEdit{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Profile:      req.Profile(),
		DirectionIDs: req.DirectionIDs,
		Photo:        photo,
	})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleEditUser -> h.svc.EditUser", err)

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleAddActivityPeriod godoc
// @Summary      Record a period of activity for a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id        path      int                            true  "user id"
// @Param        request   body      request.ActivityPeriodRequest  true  "request body"
// @Success      201      {object}   domain.ActivityPeriod
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /admin/users/{id}/activity-periods [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleAddActivityPeriod(ctx *gin.Context) {
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

	var req request.ActivityPeriodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	period, err := h.svc.AddActivityPeriod(ctx.Request.Context(), user, id, req.Period(id))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleAddActivityPeriod -> h.svc.AddActivityPeriod", err)

		return
	}

	ctx.JSON(http.StatusCreated, period)
}

// HandleDeleteActivityPeriod godoc
// @Summary      Delete an activity period
// @Tags         admin
// @Param        id   path      int  true  "activity period id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /admin/activity-periods/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) HandleDeleteActivityPeriod(ctx *gin.Context) {
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

	if err := h.svc.DeleteActivityPeriod(ctx.Request.Context(), user, id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteActivityPeriod -> h.svc.DeleteActivityPeriod", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListAuditLog godoc
// @Summary      Audit log, newest first
// @Tags         admin
// @Produce      json
// @Param        page    query     int  false  "page, from 1"
// @Param        limit   query     int  false  "entries per page, at most 100"
// @Success      200      {object}   response.AuditPage
// @Failure      403      {object}   response.Err
// @Router       /admin/audit-log [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListAuditLog(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var q request.PageQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	page := q.Page()

	entries, total, err := h.auditSvc.List(ctx.Request.Context(), user, page)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListAuditLog -> h.auditSvc.List", err)

		return
	}

	ctx.JSON(http.StatusOK, response.AuditPage{
		Entries: entries,
		Total:   total,
		Page:    page.Number,
		Limit:   page.Limit,
	})
}
