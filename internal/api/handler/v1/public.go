package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/request"
	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/service"
)

type DirectoryService interface {
	Home(ctx context.Context, viewer *domain.User) (service.Home, error)
	Administration(ctx context.Context, viewer *domain.User) (service.Administration, error)
	Volunteers(ctx context.Context, viewer *domain.User, f domain.DirectoryFilter) (service.Directory, error)
}

type AboutService interface {
	Get(ctx context.Context) (domain.AboutPage, error)
	Update(ctx context.Context, actor domain.User, page domain.AboutPage) (domain.AboutPage, error)
}

// PublicHandler serves the pages open to anonymous visitors.
type PublicHandler struct {
	svc      DirectoryService
	aboutSvc AboutService
	uSvc     UserService
}

func NewPublicHandler(svc DirectoryService, aboutSvc AboutService, uSvc UserService) *PublicHandler {
	return &PublicHandler{
		svc:      svc,
		aboutSvc: aboutSvc,
		uSvc:     uSvc,
	}
}

// HandleHome godoc
// @Summary      President and the nearest upcoming events
// @Tags         public
// @Produce      json
// @Success      200      {object}   service.Home
// @Router       /home [get]
func (h *PublicHandler) HandleHome(ctx *gin.Context) {
	viewer, respErr := getViewerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	home, err := h.svc.Home(ctx.Request.Context(), viewer)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleHome -> h.svc.Home", err)

		return
	}

	ctx.JSON(http.StatusOK, home)
}

// HandleAdministration godoc
// @Summary      Head administrator and workers
// @Tags         public
// @Produce      json
// @Success      200      {object}   service.Administration
// @Router       /administration [get]
func (h *PublicHandler) HandleAdministration(ctx *gin.Context) {
	viewer, respErr := getViewerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	administration, err := h.svc.Administration(ctx.Request.Context(), viewer)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleAdministration -> h.svc.Administration", err)

		return
	}

	ctx.JSON(http.StatusOK, administration)
}

// HandleVolunteers godoc
// @Summary      Volunteer directory
// @Tags         public
// @Produce      json
// @Param        q           query     string  false  "name search"
// @Param        faculty     query     string  false  "faculty"
// @Param        course      query     int     false  "course"
// @Param        city        query     string  false  "city"
// @Param        gender      query     string  false  "M or F"
// @Param        direction   query     int     false  "direction id"
// @Param        status      query     string  false  "active, leader, school_leader or president"
// @Success      200      {object}   service.Directory
// @Failure      400      {object}   response.Err
// @Router       /volunteers [get]
func (h *PublicHandler) HandleVolunteers(ctx *gin.Context) {
	viewer, respErr := getViewerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var q request.DirectoryQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := q.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	directory, err := h.svc.Volunteers(ctx.Request.Context(), viewer, q.Filter())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleVolunteers -> h.svc.Volunteers", err)

		return
	}

	ctx.JSON(http.StatusOK, directory)
}

// HandleGetAbout godoc
// @Summary      About page
// @Tags         public
// @Produce      json
// @Success      200      {object}   domain.AboutPage
// @Router       /about [get]
func (h *PublicHandler) HandleGetAbout(ctx *gin.Context) {
	page, err := h.aboutSvc.Get(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetAbout -> h.aboutSvc.Get", err)

		return
	}

	ctx.JSON(http.StatusOK, page)
}

// HandleUpdateAbout godoc
// @Summary      Edit the about page
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        request   body      request.AboutRequest  true  "request body"
// @Success      200      {object}   domain.AboutPage
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Router       /about [put]
// @Security     BearerAuth
func (h *PublicHandler) HandleUpdateAbout(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.AboutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	page, err := h.aboutSvc.Update(ctx.Request.Context(), user, req.Page())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateAbout -> h.aboutSvc.Update", err)

		return
	}

	ctx.JSON(http.StatusOK, page)
}
