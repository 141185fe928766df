package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/api/middleware"
	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/service"
)

const maxUploadSize = 10 << 20

var (
	errNoUserInContext = errors.New("no authenticated user")
	errNotAnImage      = errors.New("only image uploads are accepted")
	errUploadTooLarge  = errors.New("uploads are limited to 10 MB")
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// getUserFromContext loads the user authenticated by the JWT middleware. A
// token of a deleted user is treated as no token.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	id, ok := middleware.UserID(ctx)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNoUserInContext)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(err)
		}
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("uSvc.GetUser -> %w", err))
	}

	return user, nil
}

// getViewerFromContext is getUserFromContext for routes open to anonymous
// visitors. It returns nil for them.
func getViewerFromContext(ctx *gin.Context, uSvc UserService) (*domain.User, *response.Err) {
	if _, ok := middleware.UserID(ctx); !ok {
		return nil, nil
	}

	user, respErr := getUserFromContext(ctx, uSvc)
	if respErr != nil {
		if respErr.HTTPStatusCode == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, respErr
	}

	return &user, nil
}

func parseID(ctx *gin.Context, param string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("%s: must be a positive integer", param))
	}

	return uint(id), nil
}

func isMultipart(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.ContentType(), "multipart/")
}

// openImage opens an uploaded file and sniffs its type. The caller closes
// the returned file.
func openImage(fh *multipart.FileHeader) (*service.Upload, multipart.File, error) {
	if fh.Size > maxUploadSize {
		return nil, nil, errUploadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("fh.Open -> %w", err)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, nil, fmt.Errorf("f.Read -> %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		_ = f.Close()
		return nil, nil, errNotAnImage
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("f.Seek -> %w", err)
	}

	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Reader:      f,
	}, f, nil
}

// formImage returns the image in the given multipart field, or nil when the
// request has none.
func formImage(ctx *gin.Context, field string) (*service.Upload, func(), *response.Err) {
	noop := func() {}
	if !isMultipart(ctx) {
		return nil, noop, nil
	}

	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, response.ErrBadRequest(err)
	}

	upload, f, err := openImage(fh)
	if err != nil {
		return nil, noop, response.ErrBadRequest(err)
	}

	return upload, func() { _ = f.Close() }, nil
}

// formImages returns every image in the given multipart field.
func formImages(ctx *gin.Context, field string) ([]service.Upload, func(), *response.Err) {
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	if !isMultipart(ctx) {
		return nil, closeAll, nil
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, closeAll, response.ErrBadRequest(err)
	}

	uploads := make([]service.Upload, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		upload, f, err := openImage(fh)
		if err != nil {
			closeAll()
			return nil, func() {}, response.ErrBadRequest(fmt.Errorf("%s: %w", fh.Filename, err))
		}
		files = append(files, f)
		uploads = append(uploads, *upload)
	}

	return uploads, closeAll, nil
}

// bindOptionalJSON binds a JSON body that may be absent.
func bindOptionalJSON(ctx *gin.Context, obj any) error {
	if err := ctx.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
