package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/onwaystudy/onwaystudy/internal/storage"
)

// permissionDenied is the body of ownership rejections.
const permissionDenied = "You do not have permission to perform this action."

// toHTTPError maps storage errors onto HTTP responses. Records the caller
// does not own surface as not-found, so foreign records are never revealed
// as existing.
func toHTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusBadRequest, "already exists")
	case errors.Is(err, storage.ErrInvalidNickname):
		return echo.NewHTTPError(http.StatusBadRequest, storage.ErrInvalidNickname.Error())
	default:
		return err
	}
}

// badRequest responds with validation messages keyed by field name.
func badRequest(c echo.Context, fields echo.Map) error {
	return c.JSON(http.StatusBadRequest, fields)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}
