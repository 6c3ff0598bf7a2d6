package rabbitmq

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/invoicehub/invoicehub.go/db/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool lets concurrent publishers reuse encoding buffers.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON        = "application/json"
	defaultInvoiceExchange = "invoicehub_invoice"
)

type (
	SubscribeToInvoiceEventsFunc = func() (events chan models.InvoiceEvent, unsubscribe func())
	EncodeInvoiceEventFunc       = func(ctx context.Context, w io.Writer, event models.InvoiceEvent) error
)

type Client interface {
	StartPublishInvoiceEvents(context.Context, SubscribeToInvoiceEventsFunc, EncodeInvoiceEventFunc) error
	PublishInvoiceEvent(context.Context, models.InvoiceEvent, EncodeInvoiceEventFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient
	logger     *lecho.Logger

	invoiceExchange string
	declareOnce     sync.Once
	declareErr      error
}

type ClientOption = func(client *DefaultClient)

func WithInvoiceExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.invoiceExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	if amqpClient == nil {
		return nil, errors.New("rabbitmq: amqp client is required")
	}
	client := &DefaultClient{
		amqpClient:      amqpClient,
		logger:          lecho.New(io.Discard),
		invoiceExchange: defaultInvoiceExchange,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

func (client *DefaultClient) declareInvoiceExchange() error {
	client.declareOnce.Do(func() {
		client.declareErr = client.amqpClient.ExchangeDeclare(
			client.invoiceExchange,
			// topic exchanges route on the invoice.<action> key
			"topic",
			// durable and not auto-deleted, survives broker restarts
			true,
			false,
			// not internal, accepts direct publishing
			false,
			// wait for the server to confirm the declaration
			false,
			nil,
		)
	})
	return client.declareErr
}

// StartPublishInvoiceEvents publishes every invoice event until ctx is done.
// Publishing failures are reported and do not stop the loop.
func (client *DefaultClient) StartPublishInvoiceEvents(ctx context.Context, subscribeFunc SubscribeToInvoiceEventsFunc, encodeFunc EncodeInvoiceEventFunc) error {
	if err := client.declareInvoiceExchange(); err != nil {
		return err
	}

	client.logger.Info("Starting rabbitmq invoice event publisher")
	events, unsubscribe := subscribeFunc()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := client.PublishInvoiceEvent(ctx, event, encodeFunc); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) PublishInvoiceEvent(ctx context.Context, event models.InvoiceEvent, encodeFunc EncodeInvoiceEventFunc) error {
	if err := client.declareInvoiceExchange(); err != nil {
		return err
	}

	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if err := encodeFunc(ctx, buf, event); err != nil {
		return err
	}

	key := RoutingKey(event)
	err := client.amqpClient.PublishWithContext(ctx,
		client.invoiceExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        buf.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Successfully published invoice event %s for invoice %s", key, event.Invoice.ID)
	return nil
}

func RoutingKey(event models.InvoiceEvent) string {
	return "invoice." + event.Action
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
