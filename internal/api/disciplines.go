package api

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onwaystudy/onwaystudy/internal/sec"
	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

const maxDisciplineNameLen = 200

type disciplineRequest struct {
	Name             *string `json:"name"`
	ExtraInformation *string `json:"extra_information"`
	Course           *uint64 `json:"course,string"`
}

type disciplineResponse struct {
	ID               uint64  `json:"id,string"`
	Name             string  `json:"name"`
	ExtraInformation *string `json:"extra_information"`
	Course           uint64  `json:"course,string"`
}

func newDisciplineResponse(disc db.Discipline) disciplineResponse {
	resp := disciplineResponse{
		ID:     disc.ID,
		Name:   disc.Name,
		Course: disc.CourseID,
	}
	if disc.ExtraInformation.Valid {
		resp.ExtraInformation = &disc.ExtraInformation.String
	}
	return resp
}

func (h handler) listDisciplines(c echo.Context) error {
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	discs, err := h.store.ListDisciplines(c.Request().Context(), owner.ID)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]disciplineResponse, 0, len(discs))
	for _, disc := range discs {
		resp = append(resp, newDisciplineResponse(disc))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h handler) createDiscipline(c echo.Context) error {
	var req disciplineRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	disc := db.Discipline{}
	if fields := applyDisciplineRequest(&disc, req, true); len(fields) > 0 {
		return badRequest(c, fields)
	}

	owner := sec.GetAuthenticatedUser(c.Request().Context())
	disc, err := h.store.CreateDiscipline(c.Request().Context(), owner.ID, disc)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, newDisciplineResponse(disc))
}

func (h handler) getDiscipline(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	disc, err := h.store.GetDiscipline(c.Request().Context(), owner.ID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newDisciplineResponse(disc))
}

func (h handler) updateDiscipline(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	owner := sec.GetAuthenticatedUser(ctx)
	disc, err := h.store.GetDiscipline(ctx, owner.ID, id)
	if err != nil {
		return toHTTPError(err)
	}

	var req disciplineRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if fields := applyDisciplineRequest(&disc, req, c.Request().Method == http.MethodPut); len(fields) > 0 {
		return badRequest(c, fields)
	}

	disc, err = h.store.UpdateDiscipline(ctx, owner.ID, disc)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newDisciplineResponse(disc))
}

func (h handler) deleteDiscipline(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	if err := h.store.DeleteDiscipline(c.Request().Context(), owner.ID, id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func applyDisciplineRequest(disc *db.Discipline, req disciplineRequest, full bool) echo.Map {
	fields := echo.Map{}
	switch {
	case req.Name != nil && (*req.Name == "" || len(*req.Name) > maxDisciplineNameLen):
		fields["name"] = "The field 'name' must be 1-200 characters."
	case req.Name != nil:
		disc.Name = *req.Name
	case full:
		fields["name"] = "The field 'name' is required."
	}
	if req.ExtraInformation != nil {
		disc.ExtraInformation = sql.NullString{String: *req.ExtraInformation, Valid: true}
	} else if full {
		disc.ExtraInformation = sql.NullString{}
	}
	switch {
	case req.Course != nil:
		disc.CourseID = *req.Course
	case full:
		fields["course"] = "The field 'course' is required."
	}
	return fields
}
