package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/aya-platform/volunteer-hub/internal/domain"
)

// Notifier delivers in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, recipientID uint, message, link string) error
	NotifyStaff(ctx context.Context, message, link string) error
}

// Auditor records privileged actions. It never fails the caller.
type Auditor interface {
	Record(ctx context.Context, actor domain.User, action string, target *domain.User)
}

// ObjectStore keeps uploaded files.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func requireCapability(actor domain.User, c domain.Capability) error {
	if !domain.Can(actor, c) {
		return ErrPermissionDenied
	}
	return nil
}

func requireOutranks(actor, target domain.User) error {
	if !domain.Outranks(actor, target) {
		return ErrInsufficientRank
	}
	return nil
}

// notify sends a notification and only logs a failure.
func notify(ctx context.Context, n Notifier, recipientID uint, message, link string) {
	if err := n.Notify(ctx, recipientID, message, link); err != nil {
		zap.L().Warn("notification not delivered",
			zap.Uint("recipient_id", recipientID),
			zap.Error(err))
	}
}

func notifyStaff(ctx context.Context, n Notifier, message, link string) {
	if err := n.NotifyStaff(ctx, message, link); err != nil {
		zap.L().Warn("staff notification not delivered", zap.Error(err))
	}
}

func putUpload(ctx context.Context, store ObjectStore, key string, u *Upload) error {
	return store.Put(ctx, key, u.Reader, u.Size, u.ContentType)
}

// removeObject deletes a stored file; a missing or failing object is logged.
func removeObject(ctx context.Context, store ObjectStore, key string) {
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		zap.L().Warn("object not removed", zap.String("key", key), zap.Error(err))
	}
}
