package service

import (
	"errors"

	"github.com/aya-platform/volunteer-hub/internal/repository"
)

var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInsufficientRank    = errors.New("you can only act on users ranked below you")
	ErrHeadAdminAssignment = errors.New("only the current head administrator can hand over the role")
	ErrInvalidRole         = errors.New("unknown role")
	ErrWrongPassword       = errors.New("wrong password")
	ErrUserNotApproved     = errors.New("user is not approved")
	ErrUserAlreadyApproved = errors.New("user is already approved")
	ErrNoPendingChanges    = errors.New("no pending changes")
	ErrEventNotApproved    = errors.New("event is not approved")
	ErrEventNotCompleted   = errors.New("event is not completed")
	ErrEventFull           = errors.New("event is full")

	ErrUserNotFound           = repository.ErrUserNotFound
	ErrUserEmailExists        = repository.ErrUserEmailExists
	ErrUsernameExists         = repository.ErrUsernameExists
	ErrActivityPeriodNotFound = repository.ErrActivityPeriodNotFound
	ErrDirectionNotFound      = repository.ErrDirectionNotFound
	ErrDirectionNameExists    = repository.ErrDirectionNameExists
	ErrSchoolNotFound         = repository.ErrSchoolNotFound
	ErrSchoolNameExists       = repository.ErrSchoolNameExists
	ErrEventNotFound          = repository.ErrEventNotFound
	ErrEventAlreadyCompleted  = repository.ErrEventAlreadyCompleted
	ErrEventPhotoNotFound     = repository.ErrEventPhotoNotFound
	ErrNotificationNotFound   = repository.ErrNotificationNotFound
)
