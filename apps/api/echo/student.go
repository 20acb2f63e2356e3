package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/school"
)

type studentApi struct {
	opts *Options
}

func registerStudentAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := studentApi{opts: opts}

	sg := g.Group("/students", session)
	sg.GET("", api.query)
	sg.GET("/children", api.children)
	sg.GET("/profile", api.profile)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionList, authz.ResourceStudent, authz.Target{}); err != nil {
		return err
	}

	var students []school.StudentView
	if classID := ctx.QueryParam("classId"); classID != "" {
		students, err = api.opts.SchoolSvc.StudentsByClass(classID)
	} else {
		students, err = api.opts.SchoolSvc.Students()
	}
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []school.StudentView{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"students": students})
}

func (api *studentApi) children(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !usr.IsParent() {
		return &authz.DeniedError{Reason: "Unauthorized"}
	}

	parent, err := api.opts.SchoolSvc.ParentByUserID(usr.ID)
	if err != nil {
		return err
	}
	children, err := api.opts.SchoolSvc.ChildrenOf(parent)
	if err != nil {
		return errors.Wrap(err, "querying children")
	}
	if children == nil {
		children = []school.StudentView{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"students": children})
}

func (api *studentApi) profile(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !usr.IsStudent() {
		return &authz.DeniedError{Reason: "Not a student account"}
	}

	student, err := api.opts.SchoolSvc.StudentByUserID(usr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"student": student})
}
