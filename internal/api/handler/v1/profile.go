package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/request"
	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/service"
)

type ProfileService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetPublic(ctx context.Context, viewer *domain.User, id uint) (service.ProfileView, error)
	SubmitOwnChanges(ctx context.Context, actor domain.User, proposed domain.Profile, photo *service.Upload) (domain.User, error)
	DismissModerationComment(ctx context.Context, actor domain.User) error
}

type ProfileHandler struct {
	svc ProfileService
}

func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Current user with pending changes and moderation comment
// @Tags         profile
// @Produce      json
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Router       /me [get]
// @Security     BearerAuth
func (h *ProfileHandler) HandleGetMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateMe godoc
// @Summary      Submit profile changes for moderation
// @Description  Changed fields are stored as a diff until a moderator reviews them. A "photo" file in a multipart body is applied at once.
// @Tags         profile
// @Accept       json,mpfd
// @Produce      json
// @Param        request   body      request.ProfileRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /me [put]
// @Security     BearerAuth
func (h *ProfileHandler) HandleUpdateMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ProfileRequest
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

	updated, err := h.svc.SubmitOwnChanges(ctx.Request.Context(), user, req.Profile(), photo)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateMe -> h.svc.SubmitOwnChanges", err)

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleUploadPhoto godoc
// @Summary      Replace the profile photo
// @Description  Photos are not moderated.
// @Tags         profile
// @Accept       mpfd
// @Produce      json
// @Param        photo     formData  file   true  "image"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Router       /me/photo [post]
// @Security     BearerAuth
func (h *ProfileHandler) HandleUploadPhoto(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	photo, closePhoto, respErr := formImage(ctx, "photo")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	defer closePhoto()

	if photo == nil {
		response.RenderErr(ctx, response.ErrBadRequest(http.ErrMissingFile))

		return
	}

	updated, err := h.svc.SubmitOwnChanges(ctx.Request.Context(), user, user.Profile, photo)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUploadPhoto -> h.svc.SubmitOwnChanges", err)

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDismissComment godoc
// @Summary      Dismiss the last moderation comment
// @Tags         profile
// @Success      204
// @Failure      401      {object}   response.Err
// @Router       /me/moderation-comment [delete]
// @Security     BearerAuth
func (h *ProfileHandler) HandleDismissComment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DismissModerationComment(ctx.Request.Context(), user); err != nil {
		renderServiceErr(ctx, "v1.HandleDismissComment -> h.svc.DismissModerationComment", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetProfile godoc
// @Summary      Public profile
// @Description  Contacts are filtered by their privacy setting. Unapproved profiles are visible to their owner and moderators only.
// @Tags         profile
// @Produce      json
// @Param        id   path      int  true  "user id"
// @Success      200      {object}   service.ProfileView
// @Failure      404      {object}   response.Err
// @Router       /profiles/{id} [get]
func (h *ProfileHandler) HandleGetProfile(ctx *gin.Context) {
	id, respErr := parseID(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	viewer, respErr := getViewerFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	view, err := h.svc.GetPublic(ctx.Request.Context(), viewer, id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", id))

			return
		}
		renderServiceErr(ctx, "v1.HandleGetProfile -> h.svc.GetPublic", err)

		return
	}

	ctx.JSON(http.StatusOK, view)
}
