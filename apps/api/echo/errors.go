package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/draft"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
	"github.com/ArbeitTechnology/tausif-lms-sub000/services/remote"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed bearer token")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case *core.ValidationError:
			code = http.StatusBadRequest
			if fields := origErr.FieldsMap(); fields != nil {
				message = echo.Map{"error": origErr.Error(), "fields": fields}
			} else {
				message = origErr.Error()
			}
		case *remote.Error:
			code = origErr.Status
			message = origErr.Message
		default:
			switch origErr {
			case draft.ErrNotFound, qbank.ErrNotFound:
				code = http.StatusNotFound
				message = errHttpNotFound.Message
			case session.ErrNoToken, session.ErrMalformedToken, session.ErrInvalidToken:
				code = http.StatusUnauthorized
				message = errUnauthorized.Message
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				if ctx.Echo().Debug {
					message = err.Error()
				}

				sess, _ := contextSession(ctx)
				logger.Error(msg, errors.Wrap(err, msg), sess.Actor, map[string]interface{}{
					"method": ctx.Request().Method,
					"path":   ctx.Path(),
				})

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
