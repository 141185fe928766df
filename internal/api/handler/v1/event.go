package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/request"
	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/service"
)

type EventService interface {
	List(ctx context.Context) (upcoming, past []domain.Event, err error)
	Get(ctx context.Context, viewer *domain.User, id uint) (service.EventView, error)
	ListPending(ctx context.Context, actor domain.User) ([]domain.Event, error)
	Create(ctx context.Context, actor domain.User, in service.EventInput, cover *service.Upload) (domain.Event, error)
	Update(ctx context.Context, actor domain.User, id uint, in service.EventInput, cover *service.Upload) (domain.Event, error)
	Approve(ctx context.Context, actor domain.User, id uint) error
	Finish(ctx context.Context, actor domain.User, id uint) error
	UpdateReport(ctx context.Context, actor domain.User, id uint, in service.ReportInput) (domain.Event, error)
	DeletePhoto(ctx context.Context, actor domain.User, photoID uint) error
	Delete(ctx context.Context, actor domain.User, id uint) error
	ToggleParticipation(ctx context.Context, actor domain.User, id uint) (bool, error)
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func eventInput(req request.EventRequest) service.EventInput {
	return service.EventInput{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        strings.TrimSpace(req.Location),
		MaxParticipants: req.MaxParticipants.Value,
	}
}

// HandleListEvents godoc
// @Summary      Upcoming and past events
// @Tags         events
// @Produce      json
// @Success      200      {object}   response.EventsResponse
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	upcoming, past, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEvents -> h.svc.List", err)

		return
	}

	ctx.JSON(http.StatusOK, response.EventsResponse{
		Upcoming: upcoming,
		Past:     past,
	})
}

// HandleGetEvent godoc
// @Summary      Event details
// @Description  Unapproved events and unpublished reports are visible to their managers only.
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "event id"
// @Success      200      {object}   service.EventView
// @Failure      404      {object}   response.Err
// @Router       /events/{id} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	id, respErr := parseID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	viewer, respErr := getViewerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	view, err := h.svc.Get(ctx.Request.Context(), viewer, id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", id))

			return
		}
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.Get", err)

		return
	}

	ctx.JSON(http.StatusOK, view)
}

// HandleListPendingEvents godoc
// @Summary      Events waiting for approval
// @Tags         events
// @Produce      json
// @Success      200      {array}    domain.Event
// @Failure      403      {object}   response.Err
// @Router       /events/pending [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListPendingEvents(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	events, err := h.svc.ListPending(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPendingEvents -> h.svc.ListPending", err)

		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Events of leaders and staff are published at once; others wait for a moderator. A "cover" file in a multipart body sets the cover image.
// @Tags         events
// @Accept       json,mpfd
// @Produce      json
// @Param        request   body      request.EventRequest  true  "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.EventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	cover, closeCover, respErr := formImage(ctx, "cover")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	defer closeCover()

	event, err := h.svc.Create(ctx.Request.Context(), user, eventInput(req), cover)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEvent -> h.svc.Create", err)

		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleUpdateEvent godoc
// @Summary      Edit an event
// @Tags         events
// @Accept       json,mpfd
// @Produce      json
// @Param        id        path      int                   true  "event id"
// @Param        request   body      request.EventRequest  true  "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /events/{id} [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
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

	var req request.EventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	cover, closeCover, respErr := formImage(ctx, "cover")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	defer closeCover()

	event, err := h.svc.Update(ctx.Request.Context(), user, id, eventInput(req), cover)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.Update", err)

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleApproveEvent godoc
// @Summary      Approve a pending event
// @Tags         events
// @Param        id   path      int  true  "event id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /events/{id}/approve [post]
// @Security     BearerAuth
func (h *EventHandler) HandleApproveEvent(ctx *gin.Context) {
	h.act(ctx, "v1.HandleApproveEvent -> h.svc.Approve", h.svc.Approve)
}

// HandleFinishEvent godoc
// @Summary      Mark an event as completed
// @Description  Participation is frozen afterwards and the report can be written.
// @Tags         events
// @Param        id   path      int  true  "event id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /events/{id}/finish [post]
// @Security     BearerAuth
func (h *EventHandler) HandleFinishEvent(ctx *gin.Context) {
	h.act(ctx, "v1.HandleFinishEvent -> h.svc.Finish", h.svc.Finish)
}

// HandleUpdateReport godoc
// @Summary      Write the report of a completed event
// @Description  Every part is optional: text, publish flag, gallery images ("photos" files with one caption), a video link and a credited hero.
// @Tags         events
// @Accept       mpfd,json
// @Produce      json
// @Param        id        path      int                    true   "event id"
// @Param        request   body      request.ReportRequest  false  "request body"
// @Param        photos    formData  file                   false  "gallery images"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /events/{id}/report [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateReport(ctx *gin.Context) {
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

	var req request.ReportRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	photos, closePhotos, respErr := formImages(ctx, "photos")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	defer closePhotos()

	event, err := h.svc.UpdateReport(ctx.Request.Context(), user, id, service.ReportInput{
		Text:      req.ReportText,
		Published: req.Published,
		Photos:    photos,
		Caption:   strings.TrimSpace(req.Caption),
		VideoURL:  strings.TrimSpace(req.VideoURL),
		HeroID:    req.HeroID,
		HeroRole:  strings.TrimSpace(req.HeroRole),
	})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateReport -> h.svc.UpdateReport", err)

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEventPhoto godoc
// @Summary      Remove an image from a report gallery
// @Tags         events
// @Param        id   path      int  true  "photo id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /events/photos/{id} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEventPhoto(ctx *gin.Context) {
	h.act(ctx, "v1.HandleDeleteEventPhoto -> h.svc.DeletePhoto", h.svc.DeletePhoto)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Param        id   path      int  true  "event id"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /events/{id} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	h.act(ctx, "v1.HandleDeleteEvent -> h.svc.Delete", h.svc.Delete)
}

// HandleToggleParticipation godoc
// @Summary      Join or leave an event
// @Tags         events
// @Produce      json
// @Param        id   path      int  true  "event id"
// @Success      200      {object}   response.ParticipationResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /events/{id}/participation [post]
// @Security     BearerAuth
func (h *EventHandler) HandleToggleParticipation(ctx *gin.Context) {
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

	joined, err := h.svc.ToggleParticipation(ctx.Request.Context(), user, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleToggleParticipation -> h.svc.ToggleParticipation", err)

		return
	}

	ctx.JSON(http.StatusOK, response.ParticipationResponse{Participating: joined})
}

func (h *EventHandler) act(ctx *gin.Context, op string, fn func(context.Context, domain.User, uint) error) {
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
