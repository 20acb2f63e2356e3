package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core/message"
)

type messageApi struct {
	opts *Options
}

func registerMessageAPI(g *echo.Group, session echo.MiddlewareFunc, opts *Options) {
	api := messageApi{opts: opts}

	mg := g.Group("/messages", session)
	mg.GET("", api.query)
	mg.POST("", api.send)
	mg.PUT("/:id/read", api.markRead)
}

// Handlers

func (api *messageApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	unreadOnly := ctx.QueryParam("unreadOnly") == "true"
	messages, err := api.opts.MessageSvc.Query(usr.ID, unreadOnly)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	if messages == nil {
		messages = []message.Message{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"messages": messages})
}

func (api *messageApi) send(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data message.NewMessage
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}

	msg, err := api.opts.MessageSvc.Send(usr, data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"sentMessage": msg})
}

func (api *messageApi) markRead(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	msg, err := api.opts.MessageSvc.MarkRead(ctx.Param("id"), usr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": msg})
}
