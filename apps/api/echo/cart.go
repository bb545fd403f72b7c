package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core/cart"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/order"
	"github.com/bhavyajain7773/ATF-Design/core/state"
)

type cartApi struct {
	app *state.AppState
}

func registerCartAPI(g *echo.Group, authed echo.MiddlewareFunc, app *state.AppState) {
	api := cartApi{app: app}

	cg := g.Group("/cart", authed)
	cg.GET("", api.retrieve)
	cg.POST("/items", api.addItem)
	cg.DELETE("/items/:id", api.removeItem)
	cg.POST("/coupon", api.applyCoupon)

	kg := g.Group("/checkout", authed)
	kg.GET("", api.checkoutForm)
	kg.POST("", api.checkout)
}

func (api *cartApi) cart() CartResponse {
	return CartResponse{Items: api.app.Cart(), Quote: api.app.Quote()}
}

// Handlers

func (api *cartApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.cart())
}

func (api *cartApi) addItem(ctx echo.Context) error {
	var data AddItemRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddItemRequest")
	}

	res, err := api.app.AddToCart(ctx.Request().Context(), data.CourseID)
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.JSON(http.StatusOK, api.cart())
}

func (api *cartApi) removeItem(ctx echo.Context) error {
	res, err := api.app.RemoveFromCart(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.JSON(http.StatusOK, api.cart())
}

func (api *cartApi) applyCoupon(ctx echo.Context) error {
	var data CouponRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CouponRequest")
	}
	if _, err := api.app.ApplyCoupon(data.Code); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.cart())
}

func (api *cartApi) checkoutForm(ctx echo.Context) error {
	usr, ok := api.app.Session()
	if !ok {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, CheckoutFormResponse{
		Phase:          api.app.CheckoutPhase(),
		Form:           order.RequestFor(usr),
		PaymentMethods: order.PaymentMethods,
		Cart:           api.cart(),
	})
}

func (api *cartApi) checkout(ctx echo.Context) error {
	var data order.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to order.Request")
	}

	o, res, err := api.app.Checkout(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	setWarnings(ctx, res...)
	return ctx.JSON(http.StatusCreated, o)
}

type (
	CartResponse struct {
		Items []course.Course `json:"items"`
		Quote cart.Quote      `json:"quote"`
	}

	AddItemRequest struct {
		CourseID string `json:"courseId"`
	}

	CouponRequest struct {
		Code string `json:"code"`
	}

	CheckoutFormResponse struct {
		Phase          order.Phase   `json:"phase"`
		Form           order.Request `json:"form"`
		PaymentMethods []string      `json:"paymentMethods"`
		Cart           CartResponse  `json:"cart"`
	}
)
