package common

const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"

	InvoiceActionCreated = "created"
	InvoiceActionUpdated = "updated"
	InvoiceActionDeleted = "deleted"

	DashboardPath = "/dashboard"
	InvoicesPath  = "/dashboard/invoices"
	LoginPath     = "/login"

	SessionCookieName = "session"

	// minor units per major currency unit
	CentsPerUnit = 100
)
