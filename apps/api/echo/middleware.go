package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

// authorMiddleware builds the session from the bearer token of the request, once its signature is
// verified with key. Only authors (teachers and admins) get through.
func authorMiddleware(key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := session.FromBearer(ctx.Request().Header.Get(echo.HeaderAuthorization), key)
			if err != nil {
				return errUnauthorized
			}
			if !sess.Role.IsAuthor() {
				return errHttpForbidden
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}
