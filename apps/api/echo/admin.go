package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core/state"
)

type adminApi struct {
	app *state.AppState
}

func registerAdminAPI(g *echo.Group, admin echo.MiddlewareFunc, app *state.AppState) {
	api := adminApi{app: app}

	ag := g.Group("/admin", admin)
	ag.GET("/users", api.users)
	ag.POST("/users/password", api.resetPassword)
	ag.GET("/orders", api.orders)
	ag.GET("/stats", api.stats)
	ag.POST("/purge", api.purge)
}

// Handlers

// users lists the registered users, passwords included.
func (api *adminApi) users(ctx echo.Context) error {
	users, err := api.app.Users()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) resetPassword(ctx echo.Context) error {
	var data ResetPasswordRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPasswordRequest")
	}

	res, err := api.app.ResetPassword(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) orders(ctx echo.Context) error {
	orders, err := api.app.Orders()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, orders)
}

func (api *adminApi) stats(ctx echo.Context) error {
	st, err := api.app.Stats()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *adminApi) purge(ctx echo.Context) error {
	var data PurgeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PurgeRequest")
	}

	res, err := api.app.Purge(ctx.Request().Context(), data.Confirm)
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.NoContent(http.StatusNoContent)
}

type (
	ResetPasswordRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	PurgeRequest struct {
		Confirm bool `json:"confirm"`
	}
)
