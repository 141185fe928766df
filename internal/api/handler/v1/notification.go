package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/domain"
)

type NotificationService interface {
	List(ctx context.Context, user domain.User) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, user domain.User) (int64, error)
	MarkRead(ctx context.Context, user domain.User, id uint) (string, error)
	MarkAllRead(ctx context.Context, user domain.User) (int64, error)
}

type NotificationHandler struct {
	svc  NotificationService
	uSvc UserService
}

func NewNotificationHandler(svc NotificationService, uSvc UserService) *NotificationHandler {
	return &NotificationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListNotifications godoc
// @Summary      Latest notifications and the unread count
// @Tags         notifications
// @Produce      json
// @Success      200      {object}   response.NotificationsResponse
// @Failure      401      {object}   response.Err
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleListNotifications(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	notifications, err := h.svc.List(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListNotifications -> h.svc.List", err)

		return
	}

	unread, err := h.svc.UnreadCount(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListNotifications -> h.svc.UnreadCount", err)

		return
	}

	ctx.JSON(http.StatusOK, response.NotificationsResponse{
		Notifications: notifications,
		Unread:        unread,
	})
}

// HandleMarkRead godoc
// @Summary      Mark a notification as read
// @Description  Returns the link the notification points to.
// @Tags         notifications
// @Produce      json
// @Param        id   path      int  true  "notification id"
// @Success      200      {object}   response.MarkReadResponse
// @Failure      404      {object}   response.Err
// @Router       /notifications/{id}/read [post]
// @Security     BearerAuth
func (h *NotificationHandler) HandleMarkRead(ctx *gin.Context) {
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

	link, err := h.svc.MarkRead(ctx.Request.Context(), user, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleMarkRead -> h.svc.MarkRead", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MarkReadResponse{Link: link})
}

// HandleMarkAllRead godoc
// @Summary      Mark every notification as read
// @Tags         notifications
// @Produce      json
// @Success      200      {object}   response.MarkAllReadResponse
// @Router       /notifications/read-all [post]
// @Security     BearerAuth
func (h *NotificationHandler) HandleMarkAllRead(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	marked, err := h.svc.MarkAllRead(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleMarkAllRead -> h.svc.MarkAllRead", err)

		return
	}

	ctx.JSON(http.StatusOK, response.MarkAllReadResponse{Marked: marked})
}
