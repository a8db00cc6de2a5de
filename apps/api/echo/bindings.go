package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.Ordering
}

// Bind reads the `ordering` query param, eg: ?ordering=-updated_at,title
func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Orderings = core.ParseOrderings(ctx.QueryParam(orderingParam))
}
