package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
	"github.com/bhavyajain7773/ATF-Design/core/course"
	"github.com/bhavyajain7773/ATF-Design/core/order"
	"github.com/bhavyajain7773/ATF-Design/core/state"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, state.ErrLoginRequired.Error())
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, state.ErrForbidden.Error())
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
	errNotEnrolled   = echo.NewHTTPError(http.StatusForbidden, "enroll in this course to access its material")

	// status codes of the domain errors that are not validation errors
	errorCodes = []struct {
		err  error
		code int
	}{
		{state.ErrLoginRequired, http.StatusUnauthorized},
		{state.ErrForbidden, http.StatusForbidden},
		{state.ErrNotConfirmed, http.StatusBadRequest},
		{course.ErrNotFound, http.StatusNotFound},
		{course.ErrVideoNotFound, http.StatusNotFound},
		{course.ErrQuizNotFound, http.StatusNotFound},
		{course.ErrUploadInProgress, http.StatusConflict},
		{course.ErrUploadCanceled, http.StatusConflict},
		{order.ErrCheckoutInProgress, http.StatusConflict},
		{order.ErrEmptyCart, http.StatusBadRequest},
		{order.ErrPaymentFailed, http.StatusPaymentRequired},
	}
)

func domainErrorCode(err error) (int, bool) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code, true
		}
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, app *state.AppState, signalShutdown func()) echo.HTTPErrorHandler {
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
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if c, ok := domainErrorCode(err); ok {
				code = c
				message = errors.Cause(err).Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			args := []interface{}{errors.Wrap(err, msg)}
			if usr, ok := app.Session(); ok {
				args = append(args, usr)
			}
			logger.Error(msg, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				message = err.Error()
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
