package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core/timetable"
)

const contextObjectKey = "object"

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// entryMiddleware loads the entry identified by the `:id` path param into the context.
func entryMiddleware(svc *timetable.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
			if err != nil || id <= 0 {
				return timetable.ErrNotFound
			}
			e, err := svc.Get(ctx.Request().Context(), id)
			if err != nil {
				return errors.Wrap(err, "getting entry")
			}
			ctx.Set(contextObjectKey, e)
			return next(ctx)
		}
	}
}
