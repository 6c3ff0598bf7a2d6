package service

import (
	"context"
	"fmt"

	"github.com/invoicehub/invoicehub.go/common"
	"golang.org/x/sync/errgroup"
)

type CardData struct {
	NumberOfInvoices  int   `json:"number_of_invoices"`
	NumberOfCustomers int   `json:"number_of_customers"`
	TotalPaid         int64 `json:"total_paid"`
	TotalPending      int64 `json:"total_pending"`
}

// FetchCardData runs the overview queries concurrently. Totals are in cents.
func (svc *InvoicehubService) FetchCardData(ctx context.Context) (*CardData, error) {
	data := &CardData{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		data.NumberOfInvoices, err = svc.DB.NewSelect().Table("invoices").Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.NumberOfCustomers, err = svc.DB.NewSelect().Table("customers").Count(ctx)
		return err
	})
	g.Go(func() error {
		return svc.DB.NewSelect().
			Table("invoices").
			ColumnExpr("COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0)", common.InvoiceStatusPaid).
			ColumnExpr("COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0)", common.InvoiceStatusPending).
			Scan(ctx, &data.TotalPaid, &data.TotalPending)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch card data: %w", err)
	}
	return data, nil
}
