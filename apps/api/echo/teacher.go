package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core/authz"
)

type teacherApi struct {
	opts *Options
}

func registerTeacherAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := teacherApi{opts: opts}

	tg := g.Group("/teachers", session)
	tg.GET("/profile", api.profile)
}

// Handlers

func (api *teacherApi) profile(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !usr.IsTeacher() {
		return &authz.DeniedError{Reason: "Not a teacher account"}
	}

	teacher, err := api.opts.SchoolSvc.TeacherByUserID(usr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"teacher": teacher})
}
