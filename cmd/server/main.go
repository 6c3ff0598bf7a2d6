package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/db"
	"github.com/invoicehub/invoicehub.go/db/migrations"
	"github.com/invoicehub/invoicehub.go/db/models"
	"github.com/invoicehub/invoicehub.go/lib/cache"
	"github.com/invoicehub/invoicehub.go/lib/logging"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/invoicehub/invoicehub.go/lib/transport"
	"github.com/invoicehub/invoicehub.go/rabbitmq"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun/migrate"
	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func main() {
	c := &service.Config{}

	// Load configuration from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configured log file
	logger := logging.Logger(c.LogFilePath, c.LogLevel)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	// Migrate the DB
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(startupCtx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	group, err := migrator.Migrate(startupCtx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
	cancelStartup()
	if !group.IsZero() {
		logger.Infof("Migrated database to %s", group)
	}

	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// No rabbitmq features will be available in this case.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, rabbitmq.WithAmqpLogger(logger))
		if err != nil {
			logger.Fatal(err)
		}

		rabbitmqClient, err = rabbitmq.NewClient(amqpClient,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithInvoiceExchange(c.RabbitMQInvoiceExchange),
		)
		if err != nil {
			logger.Fatal(err)
		}

		// close the connection gently at the end of the runtime
		defer rabbitmqClient.Close()
	}

	// the invoices list is cached until an invoice action revalidates it
	views := cache.NewRegistry()
	invoicesView, err := cache.NewViewCache(common.InvoicesPath, time.Duration(c.CacheTTL)*time.Second, c.CacheCapacity)
	if err != nil {
		logger.Fatalf("Error creating view cache: %v", err)
	}
	views.Register(invoicesView)

	invoicePubSub := service.NewPubsub()
	invoicePubSub.OnDrop = func(topic string, msg models.InvoiceEvent) {
		logger.Warnf("Dropped %s event for invoice %s on topic %s", msg.Action, msg.Invoice.ID, topic)
	}

	svc := &service.InvoicehubService{
		Config:        c,
		DB:            dbConn,
		Logger:        logger,
		Revalidator:   views,
		InvoicePubSub: invoicePubSub,
	}

	//init echo server
	e := transport.InitEcho(c, logger)
	//if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("invoicehub.go")))
	}

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for login attempts
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)

	transport.RegisterEndpoints(svc, e, invoicesView, strictRateLimitMiddleware, logMw)

	var backgroundWg sync.WaitGroup
	backGroundCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	//Start webhook subscription
	if svc.Config.WebhookUrl != "" {
		backgroundWg.Add(1)
		go func() {
			svc.StartWebhookSubscription(backGroundCtx, svc.Config.WebhookUrl)
			svc.Logger.Info("Webhook routine done")
			backgroundWg.Done()
		}()
	}
	//Start rabbit publisher
	if rabbitmqClient != nil {
		backgroundWg.Add(1)
		go func() {
			err := rabbitmqClient.StartPublishInvoiceEvents(backGroundCtx,
				func() (chan models.InvoiceEvent, func()) {
					events, subId := svc.SubscribeInvoiceEvents()
					return events, func() { svc.InvoicePubSub.Unsubscribe(subId, service.InvoiceEventsTopic) }
				},
				svc.EncodeInvoiceEvent,
			)
			if err != nil && err != context.Canceled {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}

			svc.Logger.Info("Rabbit invoice publisher done")
			backgroundWg.Done()
		}()
	}

	//Start Prometheus server if necessary
	var echoPrometheus *echo.Echo
	if svc.Config.EnablePrometheus {
		echoPrometheus = transport.StartPrometheusEcho(logger, svc, e)
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	if echoPrometheus != nil {
		if err := echoPrometheus.Shutdown(ctx); err != nil {
			e.Logger.Fatal(err)
		}
	}
	//Wait for graceful shutdown of background routines
	backgroundWg.Wait()
	svc.Logger.Info("invoicehub exiting gracefully. Goodbye.")
}
