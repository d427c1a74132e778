package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onwaystudy/onwaystudy/internal/sec"
	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

type userRequest struct {
	Nickname *string `json:"nickname"`
	Password *string `json:"password"`
}

// userResponse never carries the password hash; the password field is
// write-only.
type userResponse struct {
	ID        uint64    `json:"id,string"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(user db.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Nickname:  user.Nickname,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// createUser is the single action reachable without credentials.
func (h handler) createUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Nickname == nil || *req.Nickname == "" {
		return badRequest(c, echo.Map{"nickname": "The field 'nickname' cannot be empty."})
	}
	if req.Password == nil || *req.Password == "" {
		return badRequest(c, echo.Map{"password": "The field 'password' cannot be empty."})
	}

	ctx := c.Request().Context()
	if taken, err := h.store.NicknameExists(ctx, *req.Nickname); err != nil {
		return err
	} else if taken {
		return badRequest(c, echo.Map{
			"nickname":    "This nickname already exists. Try one of these:",
			"suggestions": h.suggestNicknames(ctx, *req.Nickname),
		})
	}

	hash, err := sec.HashPassword(*req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	user, err := h.store.CreateUser(ctx, *req.Nickname, hash)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, newUserResponse(user))
}

func (h handler) getUser(c echo.Context) error {
	user, err := h.ownUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

func (h handler) updateUser(c echo.Context) error {
	user, err := h.ownUser(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if c.Request().Method == http.MethodPut && (req.Nickname == nil || req.Password == nil) {
		return badRequest(c, echo.Map{"detail": "PUT requires both 'nickname' and 'password'."})
	}
	if req.Nickname != nil {
		if *req.Nickname == "" {
			return badRequest(c, echo.Map{"nickname": "The field 'nickname' cannot be empty."})
		}
		user.Nickname = *req.Nickname
	}
	if req.Password != nil {
		if *req.Password == "" {
			return badRequest(c, echo.Map{"password": "The field 'password' cannot be empty."})
		}
		hash, err := sec.HashPassword(*req.Password)
		if err != nil {
			return toHTTPError(err)
		}
		user.PasswordHash = hash
	}

	user, err = h.store.UpdateUser(c.Request().Context(), user)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

func (h handler) deleteUser(c echo.Context) error {
	user, err := h.ownUser(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteUser(c.Request().Context(), user.ID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ownUser resolves the :nickname route parameter and applies the ownership
// policy: only the account holder may act on the record. An unknown nickname
// is a 404 before the ownership check, matching lookup-then-authorize order.
func (h handler) ownUser(c echo.Context) (db.User, error) {
	user, err := h.store.GetUserByNickname(c.Request().Context(), c.Param("nickname"))
	if err != nil {
		return db.User{}, toHTTPError(err)
	}
	principal := sec.GetAuthenticatedUser(c.Request().Context())
	if !sec.IsOwner(principal, user.ID) {
		return db.User{}, echo.NewHTTPError(http.StatusForbidden, permissionDenied)
	}
	return user, nil
}
