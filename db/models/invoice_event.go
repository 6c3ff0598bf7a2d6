package models

// InvoiceEvent is published after every successful write to the invoices table.
// For deletions only Invoice.ID is set.
type InvoiceEvent struct {
	Action  string  `json:"action"`
	Invoice Invoice `json:"invoice"`
}
