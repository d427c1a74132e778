package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onwaystudy/onwaystudy/internal/sec"
	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

const maxInstitutionNameLen = 200

type institutionRequest struct {
	Name *string `json:"name"`
}

type institutionResponse struct {
	ID   uint64    `json:"id,string"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
	User uint64    `json:"user,string"`
}

func newInstitutionResponse(inst db.Institution) institutionResponse {
	return institutionResponse{
		ID:   inst.ID,
		Name: inst.Name,
		Date: inst.Date,
		User: inst.UserID,
	}
}

func (h handler) listInstitutions(c echo.Context) error {
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	insts, err := h.store.ListInstitutions(c.Request().Context(), owner.ID)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]institutionResponse, 0, len(insts))
	for _, inst := range insts {
		resp = append(resp, newInstitutionResponse(inst))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h handler) createInstitution(c echo.Context) error {
	var req institutionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if msg, ok := validInstitutionName(req.Name); !ok {
		return badRequest(c, echo.Map{"name": msg})
	}

	owner := sec.GetAuthenticatedUser(c.Request().Context())
	inst, err := h.store.CreateInstitution(c.Request().Context(), owner.ID, *req.Name)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, newInstitutionResponse(inst))
}

func (h handler) getInstitution(c echo.Context) error {
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	inst, err := h.store.GetInstitutionByName(c.Request().Context(), owner.ID, c.Param("name"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newInstitutionResponse(inst))
}

func (h handler) updateInstitution(c echo.Context) error {
	ctx := c.Request().Context()
	owner := sec.GetAuthenticatedUser(ctx)
	inst, err := h.store.GetInstitutionByName(ctx, owner.ID, c.Param("name"))
	if err != nil {
		return toHTTPError(err)
	}

	var req institutionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if c.Request().Method == http.MethodPut || req.Name != nil {
		if msg, ok := validInstitutionName(req.Name); !ok {
			return badRequest(c, echo.Map{"name": msg})
		}
		inst.Name = *req.Name
	}

	inst, err = h.store.UpdateInstitution(ctx, inst)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, newInstitutionResponse(inst))
}

func (h handler) deleteInstitution(c echo.Context) error {
	owner := sec.GetAuthenticatedUser(c.Request().Context())
	if err := h.store.DeleteInstitution(c.Request().Context(), owner.ID, c.Param("name")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func validInstitutionName(name *string) (string, bool) {
	switch {
	case name == nil || *name == "":
		return "The field 'name' cannot be empty.", false
	case len(*name) > maxInstitutionNameLen:
		return "The field 'name' must be at most 200 characters.", false
	}
	return "", true
}
