package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

var contextSessionKey = "session"

// contextSession returns the session authenticated by authorMiddleware.
func contextSession(ctx echo.Context) (session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(session.Session); ok {
		return sess, nil
	}
	return session.Session{}, errUnauthorized
}

// contextActor is a shortcut for handlers running behind authorMiddleware.
func contextActor(ctx echo.Context) session.Actor {
	sess, _ := contextSession(ctx)
	return sess.Actor
}
