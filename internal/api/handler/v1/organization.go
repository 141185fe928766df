package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/request"
	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type OrganizationService interface {
	ListDirections(ctx context.Context) ([]domain.Direction, error)
	CreateDirection(ctx context.Context, actor domain.User, name string) (domain.Direction, error)
	DeleteDirection(ctx context.Context, actor domain.User, id uint) error
	SetDirectionLeader(ctx context.Context, actor domain.User, id uint, leaderID *uint) error
	ListSchools(ctx context.Context) ([]domain.School, error)
	CreateSchool(ctx context.Context, actor domain.User, name string) (domain.School, error)
	DeleteSchool(ctx context.Context, actor domain.User, id uint) error
	ToggleSchoolLeader(ctx context.Context, actor domain.User, schoolID, userID uint) (bool, error)
}

type OrganizationHandler struct {
	svc  OrganizationService
	uSvc UserService
}

func NewOrganizationHandler(svc OrganizationService, uSvc UserService) *OrganizationHandler {
	return &OrganizationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListDirections godoc
// @Summary      Directions of volunteer work with their leaders
// @Tags         organization
// @Produce      json
// @Success      200      {array}    domain.Direction
// @Router       /directions [get]
func (h *OrganizationHandler) HandleListDirections(ctx *gin.Context) {
	directions, err := h.svc.ListDirections(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListDirections -> h.svc.ListDirections", err)

		return
	}

	ctx.JSON(http.StatusOK, directions)
}

// HandleCreateDirection godoc
// @Summary      Create a direction
// @Tags         organization
// @Accept       json
// @Produce      json
// @Param        request   body      request.NameRequest  true  "request body"
// @Success      201      {object}   domain.Direction
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /directions [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleCreateDirection(ctx *gin.Context) {
	user, name, ok := h.bindName(ctx)
	if !ok {
		return
	}

	direction, err := h.svc.CreateDirection(ctx.Request.Context(), user, name)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateDirection -> h.svc.CreateDirection", err)

		return
	}

	ctx.JSON(http.StatusCreated, direction)
}

// HandleDeleteDirection godoc
// @Summary      Delete a direction
// @Description  Its leader loses the leader role unless they lead something else.
// @Tags         organization
// @Param        id   path      int  true  "direction id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /directions/{id} [delete]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleDeleteDirection(ctx *gin.Context) {
	h.deleteByID(ctx, "v1.HandleDeleteDirection -> h.svc.DeleteDirection", h.svc.DeleteDirection)
}

// HandleSetDirectionLeader godoc
// @Summary      Assign or clear the leader of a direction
// @Tags         organization
// @Accept       json
// @Param        id        path      int                             true  "direction id"
// @Param        request   body      request.DirectionLeaderRequest  true  "request body"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /directions/{id}/leader [put]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleSetDirectionLeader(ctx *gin.Context) {
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

	var req request.DirectionLeaderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.SetDirectionLeader(ctx.Request.Context(), user, id, req.UserID); err != nil {
		renderServiceErr(ctx, "v1.HandleSetDirectionLeader -> h.svc.SetDirectionLeader", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListSchools godoc
// @Summary      Schools with their leaders
// @Tags         organization
// @Produce      json
// @Success      200      {array}    domain.School
// @Router       /schools [get]
func (h *OrganizationHandler) HandleListSchools(ctx *gin.Context) {
	schools, err := h.svc.ListSchools(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListSchools -> h.svc.ListSchools", err)

		return
	}

	ctx.JSON(http.StatusOK, schools)
}

// HandleCreateSchool godoc
// @Summary      Create a school
// @Tags         organization
// @Accept       json
// @Produce      json
// @Param        request   body      request.NameRequest  true  "request body"
// @Success      201      {object}   domain.School
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /schools [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleCreateSchool(ctx *gin.Context) {
	user, name, ok := h.bindName(ctx)
	if !ok {
		return
	}

	school, err := h.svc.CreateSchool(ctx.Request.Context(), user, name)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateSchool -> h.svc.CreateSchool", err)

		return
	}

	ctx.JSON(http.StatusCreated, school)
}

// HandleDeleteSchool godoc
// @Summary      Delete a school
// @Tags         organization
// @Param        id   path      int  true  "school id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /schools/{id} [delete]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleDeleteSchool(ctx *gin.Context) {
	h.deleteByID(ctx, "v1.HandleDeleteSchool -> h.svc.DeleteSchool", h.svc.DeleteSchool)
}

// HandleToggleSchoolLeader godoc
// @Summary      Add or remove a school leader
// @Tags         organization
// @Accept       json
// @Produce      json
// @Param        id        path      int                          true  "school id"
// @Param        request   body      request.SchoolLeaderRequest  true  "request body"
// @Success      200      {object}   response.SchoolLeaderResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /schools/{id}/leaders [post]
// @Security     BearerAuth
func (h *OrganizationHandler) HandleToggleSchoolLeader(ctx *gin.Context) {
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

	var req request.SchoolLeaderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	isLeader, err := h.svc.ToggleSchoolLeader(ctx.Request.Context(), user, id, req.UserID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleToggleSchoolLeader -> h.svc.ToggleSchoolLeader", err)

		return
	}

	ctx.JSON(http.StatusOK, response.SchoolLeaderResponse{IsLeader: isLeader})
}

func (h *OrganizationHandler) bindName(ctx *gin.Context) (domain.User, string, bool) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return domain.User{}, "", false
	}

	var req request.NameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return domain.User{}, "", false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return domain.User{}, "", false
	}

	return user, req.Name, true
}

func (h *OrganizationHandler) deleteByID(ctx *gin.Context, op string, fn func(context.Context, domain.User, uint) error) {
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
