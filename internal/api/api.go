// Package api contains the REST surface of the On Way Study backend.
package api

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/onwaystudy/onwaystudy/internal/config"
	"github.com/onwaystudy/onwaystudy/internal/sec"
	"github.com/onwaystudy/onwaystudy/internal/storage"
)

// New creates the API server. The signature gate runs before routing; the
// authentication gate runs on every matched request.
func New(cfg *config.Config, logger *slog.Logger, store storage.Store) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)

	srv.Pre(sec.RequireSignature(cfg.APISignature))

	srv.Use(
		middleware.Recover(),
		middleware.RequestID(),
		sec.Authn(logger, store),
	)
	if cfg.DevMode {
		srv.Debug = true
		srv.Use(logRequests(logger))
	}

	handler{store: store, logger: logger}.register(srv)
	return srv
}

type handler struct {
	store  storage.Store
	logger *slog.Logger
}

func (h handler) register(e *echo.Echo) {
	e.POST("/users", h.createUser)
	user := e.Group("/users/:nickname")
	user.GET("", h.getUser)
	user.PUT("", h.updateUser)
	user.PATCH("", h.updateUser)
	user.DELETE("", h.deleteUser)

	e.GET("/institutions", h.listInstitutions)
	e.POST("/institutions", h.createInstitution)
	inst := e.Group("/institutions/:name")
	inst.GET("", h.getInstitution)
	inst.PUT("", h.updateInstitution)
	inst.PATCH("", h.updateInstitution)
	inst.DELETE("", h.deleteInstitution)

	e.GET("/courses", h.listCourses)
	e.POST("/courses", h.createCourse)
	course := e.Group("/courses/:id")
	course.GET("", h.getCourse)
	course.PUT("", h.updateCourse)
	course.PATCH("", h.updateCourse)
	course.DELETE("", h.deleteCourse)

	e.GET("/disciplines", h.listDisciplines)
	e.POST("/disciplines", h.createDiscipline)
	disc := e.Group("/disciplines/:id")
	disc.GET("", h.getDiscipline)
	disc.PUT("", h.updateDiscipline)
	disc.PATCH("", h.updateDiscipline)
	disc.DELETE("", h.deleteDiscipline)

	e.GET("/activities", h.listActivities)
	e.POST("/activities", h.createActivity)
	act := e.Group("/activities/:id")
	act.GET("", h.getActivity)
	act.PUT("", h.updateActivity)
	act.PATCH("", h.updateActivity)
	act.DELETE("", h.deleteActivity)
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
