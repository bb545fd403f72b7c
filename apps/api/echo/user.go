package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core/state"
	"github.com/bhavyajain7773/ATF-Design/core/user"
)

type userApi struct {
	app *state.AppState
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, app *state.AppState) {
	api := userApi{app: app}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.POST("/admin-login", api.adminLogin)
	ag.POST("/logout", api.logout)
	ag.GET("/session", api.session, authed)

	g.GET("/account/orders", api.orders, authed)
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	usr, res, err := api.app.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.JSON(http.StatusCreated, usr.Public())
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	usr, res, err := api.app.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.JSON(http.StatusOK, usr.Public())
}

func (api *userApi) adminLogin(ctx echo.Context) error {
	var data AdminLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminLoginRequest")
	}

	usr, res, err := api.app.AdminLogin(ctx.Request().Context(), data.ID, data.Password)
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.JSON(http.StatusOK, usr.Public())
}

func (api *userApi) logout(ctx echo.Context) error {
	res, err := api.app.Logout(ctx.Request().Context())
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) session(ctx echo.Context) error {
	usr, ok := api.app.Session()
	if !ok {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, usr.Public())
}

func (api *userApi) orders(ctx echo.Context) error {
	orders, err := api.app.OrdersFor()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, orders)
}

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	AdminLoginRequest struct {
		ID       string `json:"id"`
		Password string `json:"password"`
	}
)
