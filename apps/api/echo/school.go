package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/school"
)

type schoolApi struct {
	opts *Options
}

func registerSchoolAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := schoolApi{opts: opts}

	sg := g.Group("/school", session)
	sg.GET("/stats", api.stats)
	sg.GET("/attendance", api.attendance)
	sg.GET("/classes/performance", api.classesPerformance)
	sg.GET("/teachers/stats", api.teachersPerformance)
}

// Handlers

func (api *schoolApi) stats(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceSchool, authz.Target{}); err != nil {
		return err
	}

	stats, err := api.opts.SchoolSvc.SchoolStats()
	if err != nil {
		return errors.Wrap(err, "computing school stats")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"stats": stats})
}

func (api *schoolApi) attendance(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceSchool, authz.Target{}); err != nil {
		return err
	}

	records, err := api.opts.SchoolSvc.AttendanceBetween(ctx.QueryParam("startDate"), ctx.QueryParam("endDate"))
	if err != nil {
		return errors.Wrap(err, "querying school attendance")
	}
	if records == nil {
		records = []school.Attendance{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": records})
}

func (api *schoolApi) classesPerformance(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceSchool, authz.Target{}); err != nil {
		return err
	}

	perf, err := api.opts.SchoolSvc.ClassesPerformance()
	if err != nil {
		return errors.Wrap(err, "computing class performance")
	}
	if perf == nil {
		perf = []school.ClassPerformance{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"classes": perf})
}

func (api *schoolApi) teachersPerformance(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceSchool, authz.Target{}); err != nil {
		return err
	}

	perf, err := api.opts.SchoolSvc.TeachersPerformance()
	if err != nil {
		return errors.Wrap(err, "computing teacher performance")
	}
	if perf == nil {
		perf = []school.TeacherPerformance{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"teachers": perf})
}
