package middlewares

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/lib/tokens"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const CallbackURLParam = "callbackUrl"

// Decision is the outcome of Authorize: either the request proceeds or it is sent to Redirect.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Authorize decides where a request for path may go. Logged in users are kept inside
// the dashboard, everyone else is sent to the login page.
func Authorize(isLoggedIn bool, path string) Decision {
	if !isLoggedIn {
		return Decision{Redirect: common.LoginPath}
	}
	if !strings.HasPrefix(path, common.DashboardPath) {
		return Decision{Redirect: common.DashboardPath}
	}
	return Decision{Allowed: true}
}

// SkipGate reports whether a request bypasses the gate: api routes, static assets and images.
func SkipGate(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/static/") ||
		strings.HasSuffix(path, ".png")
}

type GateConfig struct {
	Skipper middleware.Skipper
	Secret  []byte
}

func Gate(secret []byte) echo.MiddlewareFunc {
	return GateWithConfig(GateConfig{Skipper: SkipGate, Secret: secret})
}

// GateWithConfig applies Authorize to every request using the session cookie.
// The user id and email of a valid session are stored on the context as "UserID" and "UserEmail".
func GateWithConfig(config GateConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			claims := sessionClaims(c, config.Secret)
			if claims != nil {
				c.Set("UserID", claims.ID)
				c.Set("UserEmail", claims.Email)
			}

			path := c.Request().URL.Path
			decision := Authorize(claims != nil, path)
			// the login page answers its own redirect
			if decision.Allowed || decision.Redirect == path {
				return next(c)
			}

			target := decision.Redirect
			if target == common.LoginPath {
				target += "?" + url.Values{CallbackURLParam: {c.Request().URL.RequestURI()}}.Encode()
			}
			return c.Redirect(http.StatusFound, target)
		}
	}
}

func sessionClaims(c echo.Context, secret []byte) *tokens.SessionClaims {
	cookie, err := c.Cookie(common.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := tokens.ParseSessionToken(secret, cookie.Value)
	if err != nil {
		c.Logger().Debugf("Ignoring invalid session cookie: %v", err)
		return nil
	}
	return claims
}
