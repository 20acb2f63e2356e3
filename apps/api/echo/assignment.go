package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/school"
)

type assignmentApi struct {
	opts *Options
}

func registerAssignmentAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := assignmentApi{opts: opts}

	ag := g.Group("/assignments", session)
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/mine", api.mine)
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionList, authz.ResourceAssignment, authz.Target{}); err != nil {
		return err
	}

	assignments, err := api.opts.SchoolSvc.Assignments(ctx.QueryParam("classId"))
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []school.Assignment{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"assignments": assignments})
}

func (api *assignmentApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data school.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionCreate, authz.ResourceAssignment, authz.Target{ClassID: data.ClassID}); err != nil {
		return err
	}

	assignment, err := api.opts.SchoolSvc.CreateAssignment(data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"assignment": assignment})
}

// mine returns the calling student's assignments across all their
// classes, with a status computed from their own grades.
func (api *assignmentApi) mine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !usr.IsStudent() {
		return &authz.DeniedError{Reason: "Unauthorized"}
	}

	student, err := api.opts.SchoolSvc.StudentByUserID(usr.ID)
	if err != nil {
		return err
	}
	assignments, err := api.opts.SchoolSvc.StudentAssignments(student.Student)
	if err != nil {
		return errors.Wrap(err, "querying student assignments")
	}
	if assignments == nil {
		assignments = []school.AssignmentView{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"assignments": assignments})
}
