package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core"
	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/user"
)

type userApi struct {
	opts *Options
}

func registerAuthAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := userApi{opts: opts}

	// un-authed endpoints
	g.POST("/auth", api.login)
	g.DELETE("/auth", api.logout)

	ag := g.Group("", session)
	ag.GET("/users/current", api.current)
}

func registerUserAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := userApi{opts: opts}

	ug := g.Group("/users", session)
	ug.GET("", api.query)
	ug.POST("", api.create)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	usr, err := authenticate(data.Email, data.Password, api.opts.UserSvc)
	if err != nil {
		return err
	}

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	setSessionCookie(ctx, token)

	return ctx.JSON(http.StatusOK, echo.Map{"user": usr})
}

func (api *userApi) logout(ctx echo.Context) error {
	clearSessionCookie(ctx)
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

func (api *userApi) current(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"user": usr})
}

func (api *userApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionList, authz.ResourceUser, authz.Target{}); err != nil {
		return err
	}

	var users []user.User
	if role := user.Role(ctx.QueryParam("role")); role != "" {
		if !role.IsValid() {
			return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
		}
		users, err = api.opts.UserSvc.QueryByRole(role)
	} else {
		users, err = api.opts.UserSvc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"users": users})
}

func (api *userApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.opts.Authz.Authorize(&usr, authz.ActionCreate, authz.ResourceUser, authz.Target{}); err != nil {
		return err
	}

	var data user.NewUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err = data.Validate(api.opts.Validate, api.opts.UserSvc); err != nil {
		return err
	}

	newUsr, err := api.opts.UserSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"user": newUsr})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
