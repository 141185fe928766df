package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aya-platform/volunteer-hub/internal/api/handler/v1/response"
	"github.com/aya-platform/volunteer-hub/internal/pkg/jwthelper"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}

func (a *Authenticator) authenticate(ctx *gin.Context) error {
	token := bearerToken(ctx)
	if token == "" {
		return errMissingToken
	}

	userID, err := jwthelper.ParseToken(a.signingKey, token, ctx.Request.UserAgent())
	if err != nil {
		return err
	}
	ctx.Set(UserIDKey, userID)

	return nil
}

// VerifyJWT rejects requests without a valid bearer token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := a.authenticate(ctx); err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Next()
	}
}

// OptionalJWT identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		_ = a.authenticate(ctx)
		ctx.Next()
	}
}

// UserID returns the id stored by VerifyJWT or OptionalJWT.
func UserID(ctx *gin.Context) (uint, bool) {
	id, ok := ctx.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := id.(uint)

	return userID, ok
}
