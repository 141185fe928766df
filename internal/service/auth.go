package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/pkg/qrcode"
	"github.com/aya-platform/volunteer-hub/internal/repository"
	"github.com/aya-platform/volunteer-hub/internal/storage"
)

const qrCodeSize = 300

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	UpdateQRCode(ctx context.Context, id uint, key string) error
}

type AuthService struct {
	repo      AuthUserRepository
	store     ObjectStore
	notifier  Notifier
	publicURL string
}

func NewAuthService(repo AuthUserRepository, store ObjectStore, notifier Notifier, publicURL string) *AuthService {
	return &AuthService{
		repo:      repo,
		store:     store,
		notifier:  notifier,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Signup registers an unapproved volunteer and asks staff to review them.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hashedPassword, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}

	user.Password = hashedPassword
	user.Role = domain.RoleVolunteer
	user.IsApproved = false
	user.IsSuperuser = false
	user.IsActiveVolunteer = false

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if key, ok := s.generateQRCode(ctx, created.ID); ok {
		created.QRCodeKey = key
	}

	notifyStaff(ctx, s.notifier,
		fmt.Sprintf("New registration: %s is waiting for approval.", created.DisplayName()),
		"/moderation/users")

	return created, nil
}

// CreateSuperuser registers an approved superuser. Used by the command line.
func (s *AuthService) CreateSuperuser(ctx context.Context, user domain.User) (domain.User, error) {
	hashedPassword, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}

	user.Password = hashedPassword
	user.Role = domain.RoleVolunteer
	user.IsApproved = true
	user.IsSuperuser = true

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if key, ok := s.generateQRCode(ctx, created.ID); ok {
		created.QRCodeKey = key
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// ProfileURL is the public address encoded in a user's QR code.
func (s *AuthService) ProfileURL(id uint) string {
	return fmt.Sprintf("%s/profiles/%d", s.publicURL, id)
}

// generateQRCode stores the profile QR code once. Failures are logged and
// leave the user without a code.
func (s *AuthService) generateQRCode(ctx context.Context, id uint) (string, bool) {
	png, err := qrcode.PNG(s.ProfileURL(id), qrCodeSize)
	if err != nil {
		zap.L().Warn("qr code not generated", zap.Uint("user_id", id), zap.Error(err))
		return "", false
	}

	key := storage.Key("qrcodes", fmt.Sprintf("user_%d.png", id))
	if err := s.store.Put(ctx, key, bytes.NewReader(png), int64(len(png)), "image/png"); err != nil {
		zap.L().Warn("qr code not stored", zap.Uint("user_id", id), zap.Error(err))
		return "", false
	}

	if err := s.repo.UpdateQRCode(ctx, id, key); err != nil {
		zap.L().Warn("qr code not saved", zap.Uint("user_id", id), zap.Error(err))
		removeObject(ctx, s.store, key)
		return "", false
	}

	return key, true
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
