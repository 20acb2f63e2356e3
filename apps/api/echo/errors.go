package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/darasoft/shule/core"
	"github.com/darasoft/shule/core/authz"
	"github.com/darasoft/shule/core/message"
	"github.com/darasoft/shule/core/school"
	"github.com/darasoft/shule/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
)

// notFoundErrs are domain errors served as 404s with their own message.
var notFoundErrs = map[error]struct{}{
	user.ErrNotFound:             {},
	message.ErrNotFound:          {},
	school.ErrStudentNotFound:    {},
	school.ErrParentNotFound:     {},
	school.ErrTeacherNotFound:    {},
	school.ErrPrincipalNotFound:  {},
	school.ErrClassNotFound:      {},
	school.ErrAssignmentNotFound: {},
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var msg interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				// no session cookie
				code = http.StatusUnauthorized
				msg = "Unauthorized"
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			msg = origErr.Message
			if s, ok := msg.(string); ok && s == "invalid or expired jwt" {
				// expired or tampered session cookie
				code = http.StatusUnauthorized
				msg = "Unauthorized"
			}
		case *authz.DeniedError:
			code = http.StatusUnauthorized
			msg = origErr.Reason
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			msg = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				msg = fldErrs
			} else {
				msg = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			cause := errors.Cause(err)
			switch {
			case cause == authz.ErrUnauthenticated:
				code = http.StatusUnauthorized
				msg = "Unauthorized"
			case cause == user.ErrEmailExists:
				code = http.StatusConflict
				msg = cause.Error()
			case cause == message.ErrNotRecipient:
				code = http.StatusUnauthorized
				msg = "Unauthorized"
			case isNotFound(cause):
				code = http.StatusNotFound
				msg = cause.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				m := http.StatusText(http.StatusInternalServerError)
				msg = m

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Name = claims.Name
					usr.Email = claims.Email
				}
				logger.Error(m, errors.Wrap(err, m), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		var payload interface{}
		switch m := msg.(type) {
		case string:
			payload = echo.Map{"message": m}
		default:
			payload = echo.Map{"errors": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, payload)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func isNotFound(err error) bool {
	_, ok := notFoundErrs[err]
	return ok
}
