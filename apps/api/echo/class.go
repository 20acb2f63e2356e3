package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/school"
)

type classApi struct {
	opts *Options
}

func registerClassAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := classApi{opts: opts}

	cg := g.Group("/classes", session)
	cg.GET("", api.query)
	cg.GET("/mine", api.mine)

	// class-scoped endpoints
	dg := cg.Group("/:id")
	dg.GET("/students", api.students)
	dg.GET("/assignments", api.assignments)
	dg.POST("/assignments", api.createAssignment)
	dg.GET("/grades", api.grades)
	dg.GET("/attendance", api.attendance)
	dg.POST("/attendance", api.recordAttendance)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var classes []school.Class
	switch {
	case ctx.QueryParam("teacherId") != "":
		classes, err = api.opts.SchoolSvc.ClassesByTeacherID(ctx.QueryParam("teacherId"))
	case ctx.QueryParam("studentId") != "":
		classes, err = api.opts.SchoolSvc.ClassesByStudentID(ctx.QueryParam("studentId"))
	default:
		// the full catalog is principal-only
		if err = api.opts.Authz.Authorize(&usr, authz.ActionList, authz.ResourceClass, authz.Target{}); err != nil {
			return err
		}
		classes, err = api.opts.SchoolSvc.Classes()
	}
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []school.Class{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"classes": classes})
}

func (api *classApi) mine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	classes, err := api.opts.SchoolSvc.ClassesFor(usr)
	if err != nil {
		return errors.Wrap(err, "querying user's classes")
	}
	if classes == nil {
		classes = []school.Class{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"classes": classes})
}

func (api *classApi) students(ctx echo.Context) error {
	classID := ctx.Param("id")
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceClass, authz.Target{ClassID: classID}); err != nil {
		return err
	}

	students, err := api.opts.SchoolSvc.StudentsByClass(classID)
	if err != nil {
		return errors.Wrap(err, "querying class roster")
	}
	if students == nil {
		students = []school.StudentView{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"students": students})
}

func (api *classApi) assignments(ctx echo.Context) error {
	classID := ctx.Param("id")
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceClass, authz.Target{ClassID: classID}); err != nil {
		return err
	}

	assignments, err := api.opts.SchoolSvc.ClassAssignments(classID)
	if err != nil {
		return errors.Wrap(err, "querying class assignments")
	}
	if assignments == nil {
		assignments = []school.AssignmentView{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"assignments": assignments})
}

func (api *classApi) createAssignment(ctx echo.Context) error {
	classID := ctx.Param("id")
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionCreate, authz.ResourceAssignment, authz.Target{ClassID: classID}); err != nil {
		return err
	}

	var data school.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	data.ClassID = classID
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}

	assignment, err := api.opts.SchoolSvc.CreateAssignment(data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"assignment": assignment})
}

func (api *classApi) grades(ctx echo.Context) error {
	classID := ctx.Param("id")
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceClass, authz.Target{ClassID: classID}); err != nil {
		return err
	}

	grades, err := api.opts.SchoolSvc.ClassGrades(classID)
	if err != nil {
		return errors.Wrap(err, "querying class grades")
	}
	if grades == nil {
		grades = []school.Grade{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"grades": grades})
}

func (api *classApi) attendance(ctx echo.Context) error {
	classID := ctx.Param("id")
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceClass, authz.Target{ClassID: classID}); err != nil {
		return err
	}

	records, err := api.opts.SchoolSvc.Attendance("", classID, ctx.QueryParam("date"))
	if err != nil {
		return errors.Wrap(err, "querying class attendance")
	}
	if records == nil {
		records = []school.Attendance{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": records})
}

func (api *classApi) recordAttendance(ctx echo.Context) error {
	classID := ctx.Param("id")
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionCreate, authz.ResourceAttendance, authz.Target{ClassID: classID}); err != nil {
		return err
	}

	var data school.AttendanceSheet
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceSheet")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}

	records, err := api.opts.SchoolSvc.RecordClassAttendance(classID, data)
	if err != nil {
		return errors.Wrap(err, "recording class attendance")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"attendance": records})
}
