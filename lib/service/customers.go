package service

import (
	"context"
	"fmt"

	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/db/models"
)

// FetchCustomers lists every customer by name, for the customer select of the invoice forms.
func (svc *InvoicehubService) FetchCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := svc.DB.NewSelect().Model(&customers).Order("name ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}
	return customers, nil
}

func (svc *InvoicehubService) FindCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := svc.DB.NewSelect().Model(&customer).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FetchFilteredCustomers returns the customers whose name or email matches query,
// together with their invoice count and pending and paid totals in cents.
func (svc *InvoicehubService) FetchFilteredCustomers(ctx context.Context, query string) ([]models.CustomerSummary, error) {
	like := "%" + query + "%"
	customers := []models.CustomerSummary{}
	err := svc.DB.NewSelect().
		TableExpr("customers AS c").
		Join("LEFT JOIN invoices AS i ON c.id = i.customer_id").
		ColumnExpr("c.id, c.name, c.email, c.image_url").
		ColumnExpr("COUNT(i.id) AS total_invoices").
		ColumnExpr("COALESCE(SUM(CASE WHEN i.status = ? THEN i.amount ELSE 0 END), 0) AS total_pending", common.InvoiceStatusPending).
		ColumnExpr("COALESCE(SUM(CASE WHEN i.status = ? THEN i.amount ELSE 0 END), 0) AS total_paid", common.InvoiceStatusPaid).
		Where("c.name ILIKE ? OR c.email ILIKE ?", like, like).
		GroupExpr("c.id, c.name, c.email, c.image_url").
		OrderExpr("c.name ASC").
		Scan(ctx, &customers)
	if err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}
	return customers, nil
}
