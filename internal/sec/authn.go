package sec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onwaystudy/onwaystudy/internal/storage"
	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

// The authentication gate's rejection kinds. ErrNotAuthenticated means no
// credentials were supplied at all; ErrAuthenticationFailed means credentials
// were supplied but did not check out. Callers branch on the distinction:
// the first prompts a login, the second reports invalid credentials.
const (
	ErrNotAuthenticated     Error = "authentication credentials were not provided"
	ErrAuthenticationFailed Error = "invalid nickname or password"
)

// ErrIncorrectPassword is the wrapped cause when the nickname resolved but
// the password hash did not match. Like an unknown nickname, it surfaces to
// clients as [ErrAuthenticationFailed] so responses do not reveal which
// nicknames are registered.
const ErrIncorrectPassword Error = "incorrect password"

// Authenticate resolves the user identified by the Authorization header value
// against the user directory. The error is nil only for a fully verified
// user; otherwise it wraps [ErrNotAuthenticated] (no Basic credentials) or
// [ErrAuthenticationFailed] (credentials present but malformed, unknown, or
// wrong).
func Authenticate(ctx context.Context, header string, users storage.Users) (db.User, error) {
	creds, isBasic, err := ParseBasicAuth(header)
	if err != nil {
		return db.User{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	if !isBasic {
		return db.User{}, ErrNotAuthenticated
	}

	user, err := users.GetUserByNickname(ctx, creds.Nickname)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return db.User{}, fmt.Errorf("%w: nickname %q not found", ErrAuthenticationFailed, creds.Nickname)
	case err != nil:
		return db.User{}, err
	}

	if err := ComparePassword(creds.Password, user.PasswordHash); err != nil {
		return db.User{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, ErrIncorrectPassword)
	}
	return user, nil
}

// Authn returns the authentication gate middleware. Requests with verified
// credentials proceed with the user attached to the request context. Requests
// without credentials are allowed through anonymously only for the user
// creation action; everything else is rejected with a 401.
func Authn(logger *slog.Logger, users storage.Users) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			user, err := Authenticate(req.Context(), req.Header.Get(echo.HeaderAuthorization), users)
			switch {
			case errors.Is(err, ErrNotAuthenticated):
				if exemptFromAuth(req) {
					return next(c)
				}
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="api"`)
				return echo.NewHTTPError(http.StatusUnauthorized, ErrNotAuthenticated.Error())
			case err != nil:
				logger.LogAttrs(req.Context(), slog.LevelInfo, "authentication rejected",
					slog.Any("error", err),
				)
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="api"`)
				return echo.NewHTTPError(http.StatusUnauthorized, ErrAuthenticationFailed.Error())
			}

			ctx := SetAuthenticatedUser(req.Context(), user)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// exemptFromAuth reports whether the request is the single action allowed
// without credentials: account creation.
func exemptFromAuth(req *http.Request) bool {
	path := req.URL.Path
	return req.Method == http.MethodPost && (path == "/users" || path == "/users/")
}

type userKey struct{}

// GetAuthenticatedUser returns the user information for the authenticated
// user. Returns a zero-value User if the context has no authenticated user
// (anonymous account creation, or misconfigured middleware).
func GetAuthenticatedUser(ctx context.Context) db.User {
	if user, ok := ctx.Value(userKey{}).(db.User); ok {
		return user
	}
	return db.User{}
}

// SetAuthenticatedUser sets the user information for an authenticated user.
// The Authn middleware injects this automatically; this function is exported
// as a convenience for testing.
func SetAuthenticatedUser(ctx context.Context, user db.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}
