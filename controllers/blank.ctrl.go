package controllers

import (
	"net/http"

	"github.com/invoicehub/invoicehub.go/lib/responses"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// BlankController : controller for endpoints that need no data
type BlankController struct {
	svc *service.InvoicehubService
}

func NewBlankController(svc *service.InvoicehubService) *BlankController {
	return &BlankController{svc: svc}
}

// Health : liveness probe
func (controller *BlankController) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"result": "OK"})
}

type RevalidateRequestBody struct {
	Path string `json:"path" validate:"required"`
}

// Revalidate : drop the cached rendering of a path
func (controller *BlankController) Revalidate(c echo.Context) error {
	var body RevalidateRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	controller.svc.Revalidate(body.Path)
	return c.JSON(http.StatusOK, echo.Map{"revalidated": body.Path})
}
