package models

import "github.com/google/uuid"

// Customer : Customer Model
type Customer struct {
	ID       uuid.UUID `json:"id" bun:",pk,type:uuid,default:gen_random_uuid()"`
	Name     string    `json:"name" bun:",notnull"`
	Email    string    `json:"email" bun:",notnull"`
	ImageURL string    `json:"image_url" bun:"image_url,notnull"`
}

// CustomerSummary aggregates a customer's invoices for the customers table.
type CustomerSummary struct {
	ID            uuid.UUID `json:"id" bun:"id"`
	Name          string    `json:"name" bun:"name"`
	Email         string    `json:"email" bun:"email"`
	ImageURL      string    `json:"image_url" bun:"image_url"`
	TotalInvoices int64     `json:"total_invoices" bun:"total_invoices"`
	TotalPending  int64     `json:"total_pending" bun:"total_pending"`
	TotalPaid     int64     `json:"total_paid" bun:"total_paid"`
}
