package controllers

import (
	"net/http"

	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// HomeController : Dashboard overview controller
type HomeController struct {
	svc *service.InvoicehubService
}

func NewHomeController(svc *service.InvoicehubService) *HomeController {
	return &HomeController{svc: svc}
}

// Home : overview cards of the dashboard
func (controller *HomeController) Home(c echo.Context) error {
	cards, err := controller.svc.FetchCardData(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}
