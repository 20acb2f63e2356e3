package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/school"
)

type gradeApi struct {
	opts *Options
}

func registerGradeAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := gradeApi{opts: opts}

	gg := g.Group("/grades", session)
	gg.GET("", api.query)
	gg.POST("", api.create)
	gg.GET("/mine", api.mine)
	gg.GET("/student/:id", api.studentGrades)
}

// Handlers

func (api *gradeApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionList, authz.ResourceGrade, authz.Target{}); err != nil {
		return err
	}

	grades, err := api.opts.SchoolSvc.Grades(ctx.QueryParam("studentId"), ctx.QueryParam("assignmentId"))
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []school.Grade{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"grades": grades})
}

func (api *gradeApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data school.NewGrade
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionCreate, authz.ResourceGrade, authz.Target{AssignmentID: data.AssignmentID}); err != nil {
		return err
	}

	grade, err := api.opts.SchoolSvc.CreateGrade(data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"grade": grade})
}

func (api *gradeApi) mine(ctx echo.Context) error {
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
	grades, err := api.opts.SchoolSvc.StudentGrades(student.ID)
	if err != nil {
		return errors.Wrap(err, "querying student grades")
	}
	if grades == nil {
		grades = []school.GradeView{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"grades": grades})
}

func (api *gradeApi) studentGrades(ctx echo.Context) error {
	studentID := ctx.Param("id")
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionRead, authz.ResourceStudent, authz.Target{StudentID: studentID}); err != nil {
		return err
	}

	grades, err := api.opts.SchoolSvc.StudentGrades(studentID)
	if err != nil {
		return errors.Wrap(err, "querying student grades")
	}
	if grades == nil {
		grades = []school.GradeView{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"grades": grades})
}
