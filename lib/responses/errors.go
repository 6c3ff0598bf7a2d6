package responses

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var InvalidCredentialsError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "Invalid credentials.",
	HttpStatusCode: 401,
}

var InvoiceNotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "Invoice not found.",
	HttpStatusCode: 404,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		c.JSON(he.Code, he.Message)
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}

// bad auth responses are expected noise and are not reported
func isErrAllowedForSentry(err error) bool {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return true
	}
	if m, ok := he.Message.(echo.Map); ok {
		if code, ok := m["code"].(int); ok && code == BadAuthError.Code {
			return false
		}
	}
	if resp, ok := he.Message.(ErrorResponse); ok && resp.Code == BadAuthError.Code {
		return false
	}
	return true
}
