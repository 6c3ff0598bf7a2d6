package main

import (
	"context"
	"fmt"
	"os"

	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/db"
	"github.com/invoicehub/invoicehub.go/db/models"
	"github.com/invoicehub/invoicehub.go/lib/logging"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/invoicehub/invoicehub.go/rabbitmq"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Republishes an invoice "created" event for every invoice dated between START_DATE and END_DATE
// (YYYY-MM-DD, inclusive). Set DRY_RUN=true to only list them.
func main() {
	c := &service.Config{}
	// Load configuration from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	startDate, endDate, err := loadStartAndEndDateFromEnv()
	if err != nil {
		logrus.Fatalf("Could not load start and end date from env %v", err)
	}
	err = envconfig.Process("", c)
	if err != nil {
		logrus.Fatalf("Error loading environment variables: %v", err)
	}
	if c.RabbitMQUri == "" {
		logrus.Fatal("RABBITMQ_URI is required")
	}
	logger := logging.Logger(c.LogFilePath, c.LogLevel)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logrus.Fatalf("Error initializing db connection: %v", err)
	}
	defer dbConn.Close()

	amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, rabbitmq.WithAmqpLogger(logger))
	if err != nil {
		logrus.Fatal(err)
	}
	rabbitmqClient, err := rabbitmq.NewClient(amqpClient,
		rabbitmq.WithLogger(logger),
		rabbitmq.WithInvoiceExchange(c.RabbitMQInvoiceExchange),
	)
	if err != nil {
		logrus.Fatal(err)
	}
	// close the connection gently at the end of the runtime
	defer rabbitmqClient.Close()

	ctx := context.Background()
	result := []models.Invoice{}
	err = dbConn.NewSelect().
		Model(&result).
		Where("date >= ?", startDate).
		Where("date <= ?", endDate).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Infof("Found %d invoices", len(result))

	svc := &service.InvoicehubService{
		Config: c,
		DB:     dbConn,
		Logger: logger,
	}
	dryRun := os.Getenv("DRY_RUN") == "true"
	errCount := 0
	for _, inv := range result {
		logrus.Infof("Publishing invoice %s dated %s", inv.ID, inv.Date)
		if dryRun {
			continue
		}
		event := models.InvoiceEvent{Action: common.InvoiceActionCreated, Invoice: inv}
		if err := rabbitmqClient.PublishInvoiceEvent(ctx, event, svc.EncodeInvoiceEvent); err != nil {
			errCount += 1
			logrus.Error(err)
		}
	}
	logrus.Infof("Published %d invoices, # errors %d", len(result), errCount)
}

func loadStartAndEndDateFromEnv() (start, end models.Date, err error) {
	start, err = models.ParseDate(os.Getenv("START_DATE"))
	if err != nil {
		return
	}
	end, err = models.ParseDate(os.Getenv("END_DATE"))
	if err != nil {
		return
	}
	if end.Before(start.Time) {
		err = fmt.Errorf("END_DATE %s is before START_DATE %s", end, start)
	}
	return
}

