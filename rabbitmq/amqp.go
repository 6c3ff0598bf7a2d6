package rabbitmq

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

const (
	defaultHeartbeat = 10 * time.Second
	defaultLocale    = "en_US"
)

var ErrReconnecting = errors.New("amqp: trying to publish during reconnect")

type AMQPClient interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Close() error
}

type defaultAMQPClient struct {
	uri string

	mu             sync.RWMutex
	conn           *amqp.Connection
	publishChannel *amqp.Channel

	notifyCloseChan chan *amqp.Error
	reconnecting    atomic.Bool
	closed          atomic.Bool

	logger *lecho.Logger
}

type AMQPOption = func(client *defaultAMQPClient)

func WithAmqpLogger(logger *lecho.Logger) AMQPOption {
	return func(client *defaultAMQPClient) {
		client.logger = logger
	}
}

// DialAMQP connects to the broker and keeps reconnecting in the background when the connection drops.
func DialAMQP(uri string, options ...AMQPOption) (AMQPClient, error) {
	client := &defaultAMQPClient{
		uri: uri,
		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),
	}
	for _, opt := range options {
		opt(client)
	}

	if err := client.connect(); err != nil {
		return nil, err
	}
	go client.reconnectionLoop()

	return client, nil
}

func (c *defaultAMQPClient) connect() error {
	conn, err := amqp.DialConfig(c.uri, amqp.Config{
		Heartbeat: defaultHeartbeat,
		Locale:    defaultLocale,
		Dial:      amqp.DefaultDial(time.Second * 3),
	})
	if err != nil {
		return err
	}

	publishChannel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	notifyCloseChan := make(chan *amqp.Error, 1)
	conn.NotifyClose(notifyCloseChan)

	c.mu.Lock()
	c.conn = conn
	c.publishChannel = publishChannel
	c.notifyCloseChan = notifyCloseChan
	c.mu.Unlock()

	return nil
}

func newBackoff() *backoff.ExponentialBackOff {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.MaxInterval = time.Second * 10
	exponentialBackoff.MaxElapsedTime = time.Minute
	return exponentialBackoff
}

func (c *defaultAMQPClient) reconnectionLoop() {
	for {
		c.mu.RLock()
		notifyCloseChan := c.notifyCloseChan
		c.mu.RUnlock()

		amqpError, ok := <-notifyCloseChan
		// a graceful Close closes the channel without an error
		if !ok || amqpError == nil || c.closed.Load() {
			return
		}
		c.logger.Error(amqpError)

		c.reconnecting.Store(true)
		c.logger.Info("amqp: trying to reconnect...")
		if err := backoff.Retry(c.connect, newBackoff()); err != nil {
			c.logger.Errorf("amqp: giving up reconnecting: %v", err)
			return
		}
		c.reconnecting.Store(false)
		c.logger.Info("amqp: successfully reconnected")
	}
}

func (c *defaultAMQPClient) Close() error {
	c.closed.Store(true)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn.Close()
}

func (c *defaultAMQPClient) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.publishChannel.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

// PublishWithContext waits for a running reconnect to finish before publishing.
func (c *defaultAMQPClient) PublishWithContext(ctx context.Context, exchange string, key string, mandatory bool, immediate bool, msg amqp.Publishing) error {
	if c.reconnecting.Load() {
		err := backoff.Retry(func() error {
			if c.reconnecting.Load() {
				return ErrReconnecting
			}
			return nil
		}, backoff.WithContext(newBackoff(), ctx))
		if err != nil {
			return err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.publishChannel.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}
