package main

import (
	"context"
	"fmt"
	"os"

	"github.com/invoicehub/invoicehub.go/db"
	"github.com/invoicehub/invoicehub.go/db/migrations"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun/migrate"
)

// Creates a dashboard login from USER_NAME, USER_EMAIL and USER_PASSWORD.
func main() {
	c := &service.Config{}
	// Load configuration from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		logrus.Fatalf("Error loading environment variables: %v", err)
	}

	dbConn, err := db.Open(c)
	if err != nil {
		logrus.Fatalf("Error initializing db connection: %v", err)
	}
	defer dbConn.Close()

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	if err = migrator.Init(ctx); err != nil {
		logrus.Fatalf("Error initializing db migrator: %v", err)
	}
	if _, err = migrator.Migrate(ctx); err != nil {
		logrus.Fatalf("Error migrating database: %v", err)
	}

	svc := &service.InvoicehubService{Config: c, DB: dbConn}
	user, err := svc.CreateUser(ctx, os.Getenv("USER_NAME"), os.Getenv("USER_EMAIL"), os.Getenv("USER_PASSWORD"))
	if err != nil {
		logrus.Fatalf("Error creating user: %v", err)
	}
	logrus.WithFields(logrus.Fields{"id": user.ID, "email": user.Email}).Info("Created user")
}
