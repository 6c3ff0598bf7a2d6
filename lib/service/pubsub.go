package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/invoicehub/invoicehub.go/db/models"
)

const InvoiceEventsTopic = "invoices"

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan models.InvoiceEvent
	// called with the topic when a subscriber is too slow to take a message
	OnDrop func(topic string, msg models.InvoiceEvent)
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan models.InvoiceEvent)
	return ps
}

func (ps *Pubsub) Subscribe(topic string, ch chan models.InvoiceEvent) (subId string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan models.InvoiceEvent)
	}
	subId = uuid.NewString()
	ps.subs[topic][subId] = ch
	return subId
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

// Publish hands msg to every subscriber of topic without blocking the publisher.
func (ps *Pubsub) Publish(topic string, msg models.InvoiceEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, ch := range ps.subs[topic] {
		select {
		case ch <- msg:
		default:
			if ps.OnDrop != nil {
				ps.OnDrop(topic, msg)
			}
		}
	}
}

func (svc *InvoicehubService) publishInvoiceEvent(action string, invoice models.Invoice) {
	if svc.InvoicePubSub == nil {
		return
	}
	svc.InvoicePubSub.Publish(InvoiceEventsTopic, models.InvoiceEvent{Action: action, Invoice: invoice})
}

// SubscribeInvoiceEvents returns a buffered channel receiving every invoice event.
func (svc *InvoicehubService) SubscribeInvoiceEvents() (chan models.InvoiceEvent, string) {
	events := make(chan models.InvoiceEvent, 64)
	subId := svc.InvoicePubSub.Subscribe(InvoiceEventsTopic, events)
	return events, subId
}
