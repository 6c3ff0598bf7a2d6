package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/db/models"
	"github.com/uptrace/bun"
)

var ErrInvalidInvoiceID = errors.New("invalid invoice id")

// CreateInvoice stores a new invoice dated today (UTC). The amount is stored in cents.
func (svc *InvoicehubService) CreateInvoice(ctx context.Context, input *InvoiceInput) (*models.Invoice, error) {
	invoice := &models.Invoice{
		ID:         uuid.New(),
		CustomerID: input.CustomerID,
		Amount:     input.AmountInCents(),
		Status:     input.Status,
		Date:       models.NewDate(svc.now().UTC()),
	}

	_, err := svc.DB.NewInsert().Model(invoice).Returning("NULL").Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	svc.publishInvoiceEvent(common.InvoiceActionCreated, *invoice)
	return invoice, nil
}

// UpdateInvoice overwrites customer, amount and status of the invoice with the given id.
// The date is never changed. An id that matches no row is not an error.
func (svc *InvoicehubService) UpdateInvoice(ctx context.Context, id string, input *InvoiceInput) error {
	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return err
	}
	amount := input.AmountInCents()

	_, err = svc.DB.NewUpdate().
		Model((*models.Invoice)(nil)).
		Set("customer_id = ?", input.CustomerID).
		Set("amount = ?", amount).
		Set("status = ?", input.Status).
		Where("id = ?", invoiceID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update invoice %s: %w", id, err)
	}

	svc.publishInvoiceEvent(common.InvoiceActionUpdated, models.Invoice{
		ID:         invoiceID,
		CustomerID: input.CustomerID,
		Amount:     amount,
		Status:     input.Status,
	})
	return nil
}

// DeleteInvoice removes the invoice with the given id. An id that matches no row is not an error.
func (svc *InvoicehubService) DeleteInvoice(ctx context.Context, id string) error {
	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return err
	}

	_, err = svc.DB.NewDelete().
		Model((*models.Invoice)(nil)).
		Where("id = ?", invoiceID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}

	svc.publishInvoiceEvent(common.InvoiceActionDeleted, models.Invoice{ID: invoiceID})
	return nil
}

func (svc *InvoicehubService) FindInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return nil, err
	}

	var invoice models.Invoice
	err = svc.DB.NewSelect().Model(&invoice).Where("id = ?", invoiceID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FetchFilteredInvoices returns one page (1-based) of invoices matching query, newest first.
func (svc *InvoicehubService) FetchFilteredInvoices(ctx context.Context, query string, page int) ([]models.InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	perPage := svc.invoicesPerPage()

	rows := []models.InvoiceRow{}
	err := svc.filteredInvoicesQuery(query).
		ColumnExpr("i.id, i.amount, i.date, i.status").
		ColumnExpr("c.name, c.email, c.image_url").
		OrderExpr("i.date DESC").
		Limit(perPage).
		Offset((page-1)*perPage).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetch invoices: %w", err)
	}
	return rows, nil
}

// FetchInvoicesPages returns the number of pages FetchFilteredInvoices has for query.
func (svc *InvoicehubService) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	count, err := svc.filteredInvoicesQuery(query).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	perPage := svc.invoicesPerPage()
	return (count + perPage - 1) / perPage, nil
}

func (svc *InvoicehubService) filteredInvoicesQuery(query string) *bun.SelectQuery {
	q := svc.DB.NewSelect().
		TableExpr("invoices AS i").
		Join("JOIN customers AS c ON i.customer_id = c.id")
	if query == "" {
		return q
	}
	like := "%" + query + "%"
	return q.Where(
		"c.name ILIKE ? OR c.email ILIKE ? OR i.amount::text ILIKE ? OR i.date::text ILIKE ? OR i.status ILIKE ?",
		like, like, like, like, like,
	)
}

func parseInvoiceID(id string) (uuid.UUID, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w %q", ErrInvalidInvoiceID, id)
	}
	return invoiceID, nil
}
