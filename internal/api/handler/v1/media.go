package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/storage"
)

const presignExpiry = 15 * time.Minute

type MediaStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
}

// Presigner is implemented by stores that can hand out direct download
// links.
type Presigner interface {
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type MediaHandler struct {
	store MediaStore
}

func NewMediaHandler(store MediaStore) *MediaHandler {
	return &MediaHandler{
		store: store,
	}
}

// HandleMedia godoc
// @Summary      Uploaded media
// @Description  Redirects to a short-lived presigned URL when the store supports it, otherwise streams the object.
// @Tags         media
// @Param        key   path      string  true  "object key"
// @Success      200
// @Success      307
// @Failure      404      {object}   response.Err
// @Router       /media/{key} [get]
func (h *MediaHandler) HandleMedia(ctx *gin.Context) {
	key := strings.TrimPrefix(ctx.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		response.RenderErr(ctx, response.ErrNotFound("media", "key", key))

		return
	}

	if p, ok := h.store.(Presigner); ok {
		u, err := p.PresignedURL(ctx.Request.Context(), key, presignExpiry)
		if err != nil {
			err = fmt.Errorf("v1.HandleMedia -> p.PresignedURL -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))

			return
		}
		ctx.Redirect(http.StatusTemporaryRedirect, u)

		return
	}

	body, info, err := h.store.Get(ctx.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("media", "key", key))

			return
		}
		err = fmt.Errorf("v1.HandleMedia -> h.store.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}
	defer body.Close()

	ctx.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
