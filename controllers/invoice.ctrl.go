package controllers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/db/models"
	"github.com/invoicehub/invoicehub.go/lib/responses"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"
)

const (
	CreateInvoiceFailedMessage = "Failed to create invoice"
	UpdateInvoiceFailedMessage = "Failed to update invoice"
	DeleteInvoiceFailedMessage = "Failed to delete invoice"
	InvoiceDeletedMessage      = "Invoice deleted successfully"
)

// InvoiceController : InvoiceController struct
type InvoiceController struct {
	svc *service.InvoicehubService
}

func NewInvoiceController(svc *service.InvoicehubService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type InvoicesResponseBody struct {
	Invoices   []models.InvoiceRow `json:"invoices"`
	Query      string              `json:"query"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
}

type EditInvoiceResponseBody struct {
	Invoice   *models.Invoice   `json:"invoice"`
	Customers []models.Customer `json:"customers"`
}

// CreateInvoice : Create invoice action
func (controller *InvoiceController) CreateInvoice(c echo.Context) error {
	values, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	input, state := service.ParseInvoiceForm(values, service.FormActionCreate)
	if state != nil {
		return c.JSON(http.StatusUnprocessableEntity, state)
	}

	invoice, err := controller.svc.CreateInvoice(c.Request().Context(), input)
	if err != nil {
		c.Logger().Errorf("Failed to create invoice: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.MessageResponse{Message: CreateInvoiceFailedMessage})
	}
	c.Logger().Infof("Created invoice %s", invoice.ID)

	controller.svc.Revalidate(common.InvoicesPath)
	return c.Redirect(http.StatusSeeOther, common.InvoicesPath)
}

// UpdateInvoice : Update invoice action
func (controller *InvoiceController) UpdateInvoice(c echo.Context) error {
	id := c.Param("id")
	values, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	input, state := service.ParseInvoiceForm(values, service.FormActionUpdate)
	if state != nil {
		return c.JSON(http.StatusUnprocessableEntity, state)
	}

	err = controller.svc.UpdateInvoice(c.Request().Context(), id, input)
	if err != nil {
		c.Logger().Errorf("Failed to update invoice %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, responses.MessageResponse{Message: UpdateInvoiceFailedMessage})
	}

	controller.svc.Revalidate(common.InvoicesPath)
	return c.Redirect(http.StatusSeeOther, common.InvoicesPath)
}

// DeleteInvoice : Delete invoice action. Deleting is done from the list itself, so there is no redirect.
func (controller *InvoiceController) DeleteInvoice(c echo.Context) error {
	id := c.Param("id")

	err := controller.svc.DeleteInvoice(c.Request().Context(), id)
	if err != nil {
		c.Logger().Errorf("Failed to delete invoice %s: %v", id, err)
		return c.JSON(http.StatusInternalServerError, responses.MessageResponse{Message: DeleteInvoiceFailedMessage})
	}

	controller.svc.Revalidate(common.InvoicesPath)
	return c.JSON(http.StatusOK, responses.MessageResponse{Message: InvoiceDeletedMessage})
}

// ListInvoices : Filtered and paginated invoices table
func (controller *InvoiceController) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	query := c.QueryParam("query")
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	invoices, err := controller.svc.FetchFilteredInvoices(ctx, query, page)
	if err != nil {
		return err
	}
	totalPages, err := controller.svc.FetchInvoicesPages(ctx, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &InvoicesResponseBody{
		Invoices:   invoices,
		Query:      query,
		Page:       page,
		TotalPages: totalPages,
	})
}

// EditInvoice : Data for the edit invoice form
func (controller *InvoiceController) EditInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	invoice, err := controller.svc.FindInvoice(ctx, c.Param("id"))
	if isNotFound(err) {
		return c.JSON(http.StatusNotFound, responses.InvoiceNotFoundError)
	}
	if err != nil {
		return err
	}

	customers, err := controller.svc.FetchCustomers(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &EditInvoiceResponseBody{Invoice: invoice, Customers: customers})
}

// QR : PNG QR code linking to the edit form of an invoice
func (controller *InvoiceController) QR(c echo.Context) error {
	invoice, err := controller.svc.FindInvoice(c.Request().Context(), c.Param("id"))
	if isNotFound(err) {
		return c.JSON(http.StatusNotFound, responses.InvoiceNotFoundError)
	}
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s://%s%s/%s/edit", c.Scheme(), c.Request().Host, common.InvoicesPath, invoice.ID)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, service.ErrInvalidInvoiceID)
}
