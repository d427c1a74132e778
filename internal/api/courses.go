package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onwaystudy/onwaystudy/internal/sec"
	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

const (
	maxCourseNameLen    = 200
	maxCourseAcronymLen = 10
)

type courseRequest struct {
	Name        *string `json:"name"`
	Acronym     *string `json:"acronym"`
	Semesters   *int64  `json:"semesters"`
	Institution *uint64 `json:"institution,string"`
}

type courseResponse struct {
	ID          uint64 `json:"id,string"`
	Name        string `json:"name"`
	Acronym     string `json:"acronym"`
	Semesters   int64  `json:"semesters"`
	Institution uint64 `json:"institution,string"`
}

func newCourseResponse(course db.Course) courseResponse {
	return courseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Acronym:     course.Acronym,
		Semesters:   course.Semesters,
		Institution: course.InstitutionID,
	}
}

func (h handler) listCourses(c echo.Context) error {
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	courses, err := h.store.ListCourses(c.Request().Context(), owner.ID)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, newCourseResponse(course))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h handler) createCourse(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	course := db.Course{}
	if fields := applyCourseRequest(&course, req, true); len(fields) > 0 {
		return badRequest(c, fields)
	}

	owner := sec.GetAuthenticatedUser(c.Request().Context())
	course, err := h.store.CreateCourse(c.Request().Context(), owner.ID, course)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, newCourseResponse(course))
}

func (h handler) getCourse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	course, err := h.store.GetCourse(c.Request().Context(), owner.ID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newCourseResponse(course))
}

func (h handler) updateCourse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	owner := sec.GetAuthenticatedUser(ctx)
	course, err := h.store.GetCourse(ctx, owner.ID, id)
	if err != nil {
		return toHTTPError(err)
	}

	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if fields := applyCourseRequest(&course, req, c.Request().Method == http.MethodPut); len(fields) > 0 {
		return badRequest(c, fields)
	}

	course, err = h.store.UpdateCourse(ctx, owner.ID, course)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newCourseResponse(course))
}

func (h handler) deleteCourse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	if err := h.store.DeleteCourse(c.Request().Context(), owner.ID, id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// applyCourseRequest copies the provided fields onto course and returns
// field-keyed validation messages. When full is true every field is required,
// matching PUT semantics; otherwise absent fields are left unchanged.
func applyCourseRequest(course *db.Course, req courseRequest, full bool) echo.Map {
	fields := echo.Map{}
	switch {
	case req.Name != nil && (*req.Name == "" || len(*req.Name) > maxCourseNameLen):
		fields["name"] = "The field 'name' must be 1-200 characters."
	case req.Name != nil:
		course.Name = *req.Name
	case full:
		fields["name"] = "The field 'name' is required."
	}
	switch {
	case req.Acronym != nil && (*req.Acronym == "" || len(*req.Acronym) > maxCourseAcronymLen):
		fields["acronym"] = "The field 'acronym' must be 1-10 characters."
	case req.Acronym != nil:
		course.Acronym = *req.Acronym
	case full:
		fields["acronym"] = "The field 'acronym' is required."
	}
	switch {
	case req.Semesters != nil && *req.Semesters <= 0:
		fields["semesters"] = "The field 'semesters' must be a positive integer."
	case req.Semesters != nil:
		course.Semesters = *req.Semesters
	case full:
		fields["semesters"] = "The field 'semesters' is required."
	}
	switch {
	case req.Institution != nil:
		course.InstitutionID = *req.Institution
	case full:
		fields["institution"] = "The field 'institution' is required."
	}
	return fields
}
