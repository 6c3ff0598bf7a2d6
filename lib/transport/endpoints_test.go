package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicehub/invoicehub.go/db/models"
	"github.com/invoicehub/invoicehub.go/lib/cache"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/invoicehub/invoicehub.go/lib/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/ziflex/lecho/v3"
)

const invoiceID = "cc27c14a-0acf-4f4a-a6c9-d45682c144b9"

type EndpointsTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	mock    sqlmock.Sqlmock
	db      *bun.DB
	session *http.Cookie
}

func (suite *EndpointsTestSuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.db = bun.NewDB(sqlDB, pgdialect.New())

	config := &service.Config{
		JWTSecret:        []byte("endpoints-secret"),
		JWTSessionExpiry: 3600,
		DefaultRateLimit: 1000,
		InvoicesPerPage:  6,
	}
	logger := lecho.New(io.Discard)
	registry := cache.NewRegistry()
	invoicesView, err := cache.NewViewCache("/dashboard/invoices", time.Minute, 100)
	require.NoError(suite.T(), err)
	registry.Register(invoicesView)

	svc := &service.InvoicehubService{
		Config:        config,
		DB:            suite.db,
		Logger:        logger,
		Revalidator:   registry,
		InvoicePubSub: service.NewPubsub(),
	}
	suite.echo = InitEcho(config, logger)
	noop := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterEndpoints(svc, suite.echo, invoicesView, noop, CreateLoggingMiddleware(logger))

	token, err := tokens.GenerateSessionToken(config.JWTSecret, 3600, &models.User{ID: uuid.New(), Email: "user@nextmail.com"})
	require.NoError(suite.T(), err)
	suite.session = tokens.SessionCookie(token, 3600, false)
}

func (suite *EndpointsTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *EndpointsTestSuite) request(method, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *EndpointsTestSuite) expectInvoicesList() {
	suite.mock.ExpectQuery(`FROM invoices AS i JOIN customers AS c`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "date", "status", "name", "email", "image_url"}).
			AddRow(invoiceID, int64(5025), time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), "pending", "Lee Robinson", "lee@robinson.com", "/customers/lee-robinson.png"))
	suite.mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
}

func (suite *EndpointsTestSuite) TestHealthIsPublic() {
	rec := suite.request(http.MethodGet, "/api/health", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.JSONEq(suite.T(), `{"result":"OK"}`, rec.Body.String())
}

func (suite *EndpointsTestSuite) TestDashboardRequiresSession() {
	rec := suite.request(http.MethodGet, "/dashboard/invoices", nil)
	assert.Equal(suite.T(), http.StatusFound, rec.Code)
	assert.Equal(suite.T(), "/login?callbackUrl=%2Fdashboard%2Finvoices", rec.Header().Get(echo.HeaderLocation))
}

func (suite *EndpointsTestSuite) TestLoginRedirectsSessionToDashboard() {
	rec := suite.request(http.MethodGet, "/login", suite.session)
	assert.Equal(suite.T(), http.StatusFound, rec.Code)
	assert.Equal(suite.T(), "/dashboard", rec.Header().Get(echo.HeaderLocation))
}

func (suite *EndpointsTestSuite) TestDeleteRevalidatesInvoicesList() {
	suite.expectInvoicesList()
	first := suite.request(http.MethodGet, "/dashboard/invoices", suite.session)
	assert.Equal(suite.T(), http.StatusOK, first.Code)

	// served from the view cache, no queries expected
	cached := suite.request(http.MethodGet, "/dashboard/invoices", suite.session)
	assert.Equal(suite.T(), http.StatusOK, cached.Code)
	assert.Equal(suite.T(), first.Body.String(), cached.Body.String())
	require.NoError(suite.T(), suite.mock.ExpectationsWereMet())

	suite.mock.ExpectExec(`DELETE FROM "invoices"`).WillReturnResult(sqlmock.NewResult(0, 1))
	deleted := suite.request(http.MethodDelete, "/dashboard/invoices/"+invoiceID, suite.session)
	assert.Equal(suite.T(), http.StatusOK, deleted.Code)

	suite.expectInvoicesList()
	fresh := suite.request(http.MethodGet, "/dashboard/invoices", suite.session)
	assert.Equal(suite.T(), http.StatusOK, fresh.Code)
	require.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func TestEndpointsTestSuite(t *testing.T) {
	suite.Run(t, new(EndpointsTestSuite))
}
