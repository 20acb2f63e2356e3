package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/school"
)

type attendanceApi struct {
	opts *Options
}

func registerAttendanceAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := attendanceApi{opts: opts}

	ag := g.Group("/attendance", session)
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/student/:id", api.studentAttendance)
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionList, authz.ResourceAttendance, authz.Target{}); err != nil {
		return err
	}

	records, err := api.opts.SchoolSvc.Attendance(
		ctx.QueryParam("studentId"),
		ctx.QueryParam("classId"),
		ctx.QueryParam("date"),
	)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []school.Attendance{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": records})
}

func (api *attendanceApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data school.NewAttendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionCreate, authz.ResourceAttendance, authz.Target{ClassID: data.ClassID}); err != nil {
		return err
	}

	record, err := api.opts.SchoolSvc.CreateAttendance(data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"attendance": record})
}

func (api *attendanceApi) studentAttendance(ctx echo.Context) error {
	studentID := ctx.Param("id")
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceStudent, authz.Target{StudentID: studentID}); err != nil {
		return err
	}

	records, err := api.opts.SchoolSvc.StudentAttendance(
		studentID,
		ctx.QueryParam("classId"),
		ctx.QueryParam("date"),
	)
	if err != nil {
		return errors.Wrap(err, "querying student attendance")
	}
	if records == nil {
		records = []school.Attendance{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": records})
}
