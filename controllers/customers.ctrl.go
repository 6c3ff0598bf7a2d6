package controllers

import (
	"net/http"

	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// CustomersController : CustomersController struct
type CustomersController struct {
	svc *service.InvoicehubService
}

func NewCustomersController(svc *service.InvoicehubService) *CustomersController {
	return &CustomersController{svc: svc}
}

// Customers : customers table with invoice totals, filtered by the query param
func (controller *CustomersController) Customers(c echo.Context) error {
	customers, err := controller.svc.FetchFilteredCustomers(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &customers)
}
