package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onwaystudy/onwaystudy/internal/sec"
	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

const maxActivityNameLen = 255

type activityRequest struct {
	Name       *string  `json:"name"`
	Status     *string  `json:"status"`
	Weight     *float64 `json:"weight"`
	Result     *float64 `json:"result"`
	Discipline *uint64  `json:"discipline,string"`
}

type activityResponse struct {
	ID         uint64    `json:"id,string"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Weight     *float64  `json:"weight"`
	Result     *float64  `json:"result"`
	Date       time.Time `json:"date"`
	Discipline uint64    `json:"discipline,string"`
}

func newActivityResponse(act db.Activity) activityResponse {
	resp := activityResponse{
		ID:         act.ID,
		Name:       act.Name,
		Status:     act.Status,
		Date:       act.Date,
		Discipline: act.DisciplineID,
	}
	if act.Weight.Valid {
		resp.Weight = &act.Weight.Float64
	}
	if act.Result.Valid {
		resp.Result = &act.Result.Float64
	}
	return resp
}

func (h handler) listActivities(c echo.Context) error {
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	acts, err := h.store.ListActivities(c.Request().Context(), owner.ID)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]activityResponse, 0, len(acts))
	for _, act := range acts {
		resp = append(resp, newActivityResponse(act))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h handler) createActivity(c echo.Context) error {
	var req activityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	act := db.Activity{}
	if fields := applyActivityRequest(&act, req, true); len(fields) > 0 {
		return badRequest(c, fields)
	}

	owner := sec.GetAuthenticatedUser(c.Request().Context())
	act, err := h.store.CreateActivity(c.Request().Context(), owner.ID, act)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, newActivityResponse(act))
}

func (h handler) getActivity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	act, err := h.store.GetActivity(c.Request().Context(), owner.ID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newActivityResponse(act))
}

func (h handler) updateActivity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	owner := sec.GetAuthenticatedUser(ctx)
	act, err := h.store.GetActivity(ctx, owner.ID, id)
	if err != nil {
		return toHTTPError(err)
	}

	var req activityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if fields := applyActivityRequest(&act, req, c.Request().Method == http.MethodPut); len(fields) > 0 {
		return badRequest(c, fields)
	}

	act, err = h.store.UpdateActivity(ctx, owner.ID, act)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newActivityResponse(act))
}

func (h handler) deleteActivity(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	if err := h.store.DeleteActivity(c.Request().Context(), owner.ID, id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func applyActivityRequest(act *db.Activity, req activityRequest, full bool) echo.Map {
	fields := echo.Map{}
	switch {
	case req.Name != nil && (*req.Name == "" || len(*req.Name) > maxActivityNameLen):
		fields["name"] = "The field 'name' must be 1-255 characters."
	case req.Name != nil:
		act.Name = *req.Name
	case full:
		fields["name"] = "The field 'name' is required."
	}
	if req.Status != nil {
		if !db.ValidStatus(*req.Status) {
			fields["status"] = "The field 'status' must be one of PENDING, IN_PROGRESS, COMPLETED."
		} else {
			act.Status = *req.Status
		}
	}
	if req.Weight != nil {
		act.Weight = sql.NullFloat64{Float64: *req.Weight, Valid: true}
	} else if full {
		act.Weight = sql.NullFloat64{}
	}
	if req.Result != nil {
		act.Result = sql.NullFloat64{Float64: *req.Result, Valid: true}
	} else if full {
		act.Result = sql.NullFloat64{}
	}
	switch {
	case req.Discipline != nil:
		act.DisciplineID = *req.Discipline
	case full:
		fields["discipline"] = "The field 'discipline' is required."
	}
	return fields
}
