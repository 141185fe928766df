package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/service"
)

var (
	forbiddenErrs = []error{
		service.ErrPermissionDenied,
		service.ErrInsufficientRank,
		service.ErrHeadAdminAssignment,
		service.ErrUserNotApproved,
	}
	notFoundErrs = []error{
		service.ErrUserNotFound,
		service.ErrActivityPeriodNotFound,
		service.ErrDirectionNotFound,
		service.ErrSchoolNotFound,
		service.ErrEventNotFound,
		service.ErrEventPhotoNotFound,
		service.ErrNotificationNotFound,
	}
	conflictErrs = []error{
		service.ErrUserEmailExists,
		service.ErrUsernameExists,
		service.ErrDirectionNameExists,
		service.ErrSchoolNameExists,
		service.ErrUserAlreadyApproved,
		service.ErrNoPendingChanges,
		service.ErrEventAlreadyCompleted,
		service.ErrEventNotApproved,
		service.ErrEventNotCompleted,
		service.ErrEventFull,
	}
	badRequestErrs = []error{
		service.ErrInvalidRole,
	}
)

func matchErr(err error, candidates []error) (error, bool) {
	for _, c := range candidates {
		if errors.Is(err, c) {
			return c, true
		}
	}

	return nil, false
}

// renderServiceErr maps a service error onto the response envelope. The
// client sees the sentinel message and never the wrapping chain.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	if e, ok := matchErr(err, forbiddenErrs); ok {
		response.RenderErr(ctx, response.ErrPermissionDenied(e))
		return
	}
	if e, ok := matchErr(err, notFoundErrs); ok {
		response.RenderErr(ctx, response.ErrMissing(e))
		return
	}
	if e, ok := matchErr(err, conflictErrs); ok {
		response.RenderErr(ctx, response.ErrConflict(e))
		return
	}
	if e, ok := matchErr(err, badRequestErrs); ok {
		response.RenderErr(ctx, response.ErrBadRequest(e))
		return
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}
