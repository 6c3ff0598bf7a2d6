package models

import (
	"github.com/google/uuid"
)

// Invoice : Invoice Model
type Invoice struct {
	ID         uuid.UUID `json:"id" bun:",pk,type:uuid,default:gen_random_uuid()"`
	CustomerID string    `json:"customer_id" bun:",type:uuid,notnull"`
	Customer   *Customer `json:"-" bun:"rel:belongs-to,join:customer_id=id"`
	// in cents
	Amount int64  `json:"amount" bun:",notnull"`
	Status string `json:"status" bun:",notnull"`
	Date   Date   `json:"date" bun:",type:date,notnull"`
}

// InvoiceRow is an invoice joined with the customer it bills, as shown in the invoices table.
type InvoiceRow struct {
	ID       uuid.UUID `json:"id" bun:"id"`
	Amount   int64     `json:"amount" bun:"amount"`
	Status   string    `json:"status" bun:"status"`
	Date     Date      `json:"date" bun:"date"`
	Name     string    `json:"name" bun:"name"`
	Email    string    `json:"email" bun:"email"`
	ImageURL string    `json:"image_url" bun:"image_url"`
}
