package service

import (
	"time"

	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

// Revalidator marks the cached rendering of a path stale.
type Revalidator interface {
	Revalidate(path string)
}

type InvoicehubService struct {
	Config        *Config
	DB            *bun.DB
	Logger        *lecho.Logger
	Revalidator   Revalidator
	InvoicePubSub *Pubsub
	// Clock used to date new invoices; time.Now when nil.
	Clock func() time.Time
}

func (svc *InvoicehubService) now() time.Time {
	if svc.Clock != nil {
		return svc.Clock()
	}
	return time.Now()
}

// Revalidate forwards to the configured Revalidator, if any.
func (svc *InvoicehubService) Revalidate(path string) {
	if svc.Revalidator == nil {
		return
	}
	svc.Revalidator.Revalidate(path)
}

func (svc *InvoicehubService) invoicesPerPage() int {
	if svc.Config == nil || svc.Config.InvoicesPerPage <= 0 {
		return 6
	}
	return svc.Config.InvoicesPerPage
}
