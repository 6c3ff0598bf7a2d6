package integration_tests

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/db"
	"github.com/invoicehub/invoicehub.go/db/migrations"
	"github.com/invoicehub/invoicehub.go/db/models"
	"github.com/invoicehub/invoicehub.go/lib"
	"github.com/invoicehub/invoicehub.go/lib/cache"
	"github.com/invoicehub/invoicehub.go/lib/logging"
	"github.com/invoicehub/invoicehub.go/lib/responses"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/invoicehub/invoicehub.go/lib/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun/migrate"
)

const (
	testUserEmail    = "user@nextmail.com"
	testUserPassword = "123456"
)

// InvoicehubTestServiceInit connects to the database named by DATABASE_URI and migrates it.
// Tests are skipped when it is not set.
func InvoicehubTestServiceInit(t *testing.T) *service.InvoicehubService {
	dbUri, ok := os.LookupEnv("DATABASE_URI")
	if !ok {
		t.Skip("DATABASE_URI not set, skipping integration tests")
	}
	c := &service.Config{
		DatabaseUri:             dbUri,
		DatabaseMaxConns:        1,
		DatabaseMaxIdleConns:    1,
		DatabaseConnMaxLifetime: 10,
		JWTSecret:               []byte("SECRET"),
		JWTSessionExpiry:        3600,
		InvoicesPerPage:         6,
		StrictRateLimit:         100,
		BurstRateLimit:          100,
		CacheTTL:                600,
		CacheCapacity:           100,
	}

	dbConn, err := db.Open(c)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("failed to init migrations: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return &service.InvoicehubService{
		Config:        c,
		DB:            dbConn,
		Logger:        logging.Logger(c.LogFilePath, "error"),
		InvoicePubSub: service.NewPubsub(),
	}
}

func clearTable(svc *service.InvoicehubService, tableName string) error {
	_, err := svc.DB.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	return err
}

func createCustomer(svc *service.InvoicehubService, name, email string) (*models.Customer, error) {
	customer := &models.Customer{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		ImageURL: "/customers/" + strings.ToLower(strings.ReplaceAll(name, " ", "-")) + ".png",
	}
	_, err := svc.DB.NewInsert().Model(customer).Exec(context.Background())
	return customer, err
}

type TestSuite struct {
	suite.Suite
	echo    *echo.Echo
	service *service.InvoicehubService
	session *http.Cookie
}

// setupEcho wires the full route table the way the server does.
func (suite *TestSuite) setupEcho() {
	svc := suite.service
	views := cache.NewRegistry()
	invoicesView, err := cache.NewViewCache(common.InvoicesPath, time.Duration(svc.Config.CacheTTL)*time.Second, svc.Config.CacheCapacity)
	suite.Require().NoError(err)
	views.Register(invoicesView)
	svc.Revalidator = views

	e := echo.New()
	e.Logger = svc.Logger
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	noop := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	transport.RegisterEndpoints(svc, e, invoicesView, noop, noop)
	suite.echo = e
}

func (suite *TestSuite) login(email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	return suite.do(http.MethodPost, common.LoginPath, form)
}

func (suite *TestSuite) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if suite.session != nil {
		req.AddCookie(suite.session)
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == common.SessionCookieName {
			return cookie
		}
	}
	return nil
}
