package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/bhavyajain7773/ATF-Design/core/state"
)

// sessionMiddleware rejects requests made while nobody is logged in.
func sessionMiddleware(app *state.AppState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, ok := app.Session(); !ok {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}

func adminMiddleware(app *state.AppState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, ok := app.Session()
			if !ok {
				return errUnauthorized
			}
			if usr.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
