package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/lib/middlewares"
	"github.com/invoicehub/invoicehub.go/lib/responses"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/invoicehub/invoicehub.go/lib/tokens"
	"github.com/labstack/echo/v4"
)

// AuthController : AuthController struct
type AuthController struct {
	svc *service.InvoicehubService
}

func NewAuthController(svc *service.InvoicehubService) *AuthController {
	return &AuthController{
		svc: svc,
	}
}

type LoginRequestBody struct {
	Email       string `form:"email" json:"email" validate:"required,email"`
	Password    string `form:"password" json:"password" validate:"required,min=6"`
	CallbackURL string `form:"callbackUrl" json:"callbackUrl"`
}

type LoginPageResponseBody struct {
	Title       string `json:"title"`
	CallbackURL string `json:"callbackUrl,omitempty"`
}

func (controller *AuthController) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, &LoginPageResponseBody{
		Title:       "Please log in to continue.",
		CallbackURL: c.QueryParam(middlewares.CallbackURLParam),
	})
}

// Login : Login Controller
func (controller *AuthController) Login(c echo.Context) error {
	var body LoginRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load login request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusUnauthorized, responses.InvalidCredentialsError)
	}

	token, user, err := controller.svc.Login(c.Request().Context(), body.Email, body.Password)
	if errors.Is(err, service.ErrBadCredentials) {
		return c.JSON(http.StatusUnauthorized, responses.InvalidCredentialsError)
	}
	if err != nil {
		return err
	}
	c.Logger().Infof("User %s logged in", user.ID)

	c.SetCookie(tokens.SessionCookie(token, controller.svc.Config.JWTSessionExpiry, controller.svc.Config.SecureCookies))
	return c.Redirect(http.StatusSeeOther, safeCallbackURL(body.CallbackURL))
}

func (controller *AuthController) Logout(c echo.Context) error {
	c.SetCookie(tokens.ExpiredSessionCookie(controller.svc.Config.SecureCookies))
	return c.Redirect(http.StatusSeeOther, common.LoginPath)
}

// safeCallbackURL only follows local dashboard paths.
func safeCallbackURL(callbackURL string) string {
	if strings.HasPrefix(callbackURL, common.DashboardPath) && !strings.Contains(callbackURL, "//") {
		return callbackURL
	}
	return common.DashboardPath
}
