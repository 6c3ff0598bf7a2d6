package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/db/models"
)

func (svc *InvoicehubService) StartWebhookSubscription(ctx context.Context, url string) {
	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	events, subId := svc.SubscribeInvoiceEvents()
	defer svc.InvoicePubSub.Unsubscribe(subId, InvoiceEventsTopic)

	client := &http.Client{Timeout: 10 * time.Second}
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			svc.postToWebhook(ctx, client, url, event)
		}
	}
}

func (svc *InvoicehubService) postToWebhook(ctx context.Context, client *http.Client, url string, event models.InvoiceEvent) {
	payload := new(bytes.Buffer)
	err := svc.EncodeInvoiceEvent(ctx, payload, event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}

type InvoiceEventPayload struct {
	Action        string       `json:"action"`
	ID            string       `json:"id"`
	CustomerID    string       `json:"customer_id,omitempty"`
	CustomerName  string       `json:"customer_name,omitempty"`
	CustomerEmail string       `json:"customer_email,omitempty"`
	Amount        int64        `json:"amount"`
	Status        string       `json:"status,omitempty"`
	Date          *models.Date `json:"date,omitempty"`
}

// EncodeInvoiceEvent writes the JSON payload sent to webhooks and RabbitMQ.
// Customer details are looked up for every event except deletions.
func (svc *InvoicehubService) EncodeInvoiceEvent(ctx context.Context, w io.Writer, event models.InvoiceEvent) error {
	payload := InvoiceEventPayload{
		Action: event.Action,
		ID:     event.Invoice.ID.String(),
	}
	if event.Action != common.InvoiceActionDeleted {
		payload.CustomerID = event.Invoice.CustomerID
		payload.Amount = event.Invoice.Amount
		payload.Status = event.Invoice.Status
		// updates never touch the date, so it is only known for new invoices
		if !event.Invoice.Date.IsZero() {
			date := event.Invoice.Date
			payload.Date = &date
		}

		customer, err := svc.FindCustomer(ctx, event.Invoice.CustomerID)
		if err != nil {
			svc.Logger.Warnf("Failed to load customer %s for invoice event: %v", event.Invoice.CustomerID, err)
		} else {
			payload.CustomerName = customer.Name
			payload.CustomerEmail = customer.Email
		}
	}
	return json.NewEncoder(w).Encode(payload)
}
