package integration_tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/controllers"
	"github.com/invoicehub/invoicehub.go/db/models"
	"github.com/invoicehub/invoicehub.go/lib/responses"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type DashboardTestSuite struct {
	TestSuite
	customer *models.Customer
}

func (suite *DashboardTestSuite) SetupSuite() {
	suite.service = InvoicehubTestServiceInit(suite.T())
	for _, table := range []string{"invoices", "customers", "users"} {
		suite.Require().NoError(clearTable(suite.service, table))
	}
	_, err := suite.service.CreateUser(context.Background(), "User", testUserEmail, testUserPassword)
	suite.Require().NoError(err)
	suite.customer, err = createCustomer(suite.service, "Evil Rabbit", "evil@rabbit.com")
	suite.Require().NoError(err)
	suite.setupEcho()
}

func (suite *DashboardTestSuite) SetupTest() {
	suite.session = nil
	rec := suite.login(testUserEmail, testUserPassword)
	suite.Require().Equal(http.StatusSeeOther, rec.Code)
	suite.session = sessionCookie(rec)
	suite.Require().NotNil(suite.session)
}

func (suite *DashboardTestSuite) TearDownTest() {
	suite.Require().NoError(clearTable(suite.service, "invoices"))
}

func (suite *DashboardTestSuite) TearDownSuite() {
	if suite.service == nil {
		return
	}
	for _, table := range []string{"invoices", "customers", "users"} {
		clearTable(suite.service, table)
	}
}

func (suite *DashboardTestSuite) listInvoices(query string) *controllers.InvoicesResponseBody {
	target := common.InvoicesPath
	if query != "" {
		target += "?" + url.Values{"query": {query}}.Encode()
	}
	rec := suite.do(http.MethodGet, target, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	body := &controllers.InvoicesResponseBody{}
	suite.Require().NoError(json.NewDecoder(rec.Body).Decode(body))
	return body
}

func (suite *DashboardTestSuite) TestDashboardRequiresSession() {
	suite.session = nil
	rec := suite.do(http.MethodGet, common.InvoicesPath, nil)
	assert.Equal(suite.T(), http.StatusFound, rec.Code)
	assert.Contains(suite.T(), rec.Header().Get(echo.HeaderLocation), common.LoginPath)
}

func (suite *DashboardTestSuite) TestWrongPassword() {
	suite.session = nil
	rec := suite.login(testUserEmail, "not-the-password")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.Nil(suite.T(), sessionCookie(rec))
}

func (suite *DashboardTestSuite) TestInvoiceLifecycle() {
	// warm the list cache so the writes below have something to revalidate
	assert.Empty(suite.T(), suite.listInvoices("").Invoices)

	rec := suite.do(http.MethodPost, common.InvoicesPath, url.Values{
		"customerId": {suite.customer.ID.String()},
		"amount":     {"19.99"},
		"status":     {common.InvoiceStatusPending},
	})
	assert.Equal(suite.T(), http.StatusSeeOther, rec.Code)
	assert.Equal(suite.T(), common.InvoicesPath, rec.Header().Get(echo.HeaderLocation))

	list := suite.listInvoices("")
	suite.Require().Len(list.Invoices, 1)
	created := list.Invoices[0]
	assert.Equal(suite.T(), int64(1999), created.Amount)
	assert.Equal(suite.T(), common.InvoiceStatusPending, created.Status)
	assert.Equal(suite.T(), suite.customer.Name, created.Name)

	rec = suite.do(http.MethodPost, common.InvoicesPath+"/"+created.ID.String(), url.Values{
		"customerId": {suite.customer.ID.String()},
		"amount":     {"250"},
		"status":     {common.InvoiceStatusPaid},
	})
	assert.Equal(suite.T(), http.StatusSeeOther, rec.Code)

	invoice, err := suite.service.FindInvoice(context.Background(), created.ID.String())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(25000), invoice.Amount)
	assert.Equal(suite.T(), common.InvoiceStatusPaid, invoice.Status)
	assert.Equal(suite.T(), created.Date.String(), invoice.Date.String())

	paid := suite.listInvoices(common.InvoiceStatusPaid)
	assert.Len(suite.T(), paid.Invoices, 1)

	rec = suite.do(http.MethodDelete, common.InvoicesPath+"/"+created.ID.String(), nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Empty(suite.T(), suite.listInvoices("").Invoices)
}

func (suite *DashboardTestSuite) TestCreateInvoiceMissingFields() {
	rec := suite.do(http.MethodPost, common.InvoicesPath, url.Values{})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, rec.Code)
	state := &responses.FormState{}
	suite.Require().NoError(json.NewDecoder(rec.Body).Decode(state))
	assert.Equal(suite.T(), "Missing Fields. Failed to Create Invoice.", state.Message)
	assert.Len(suite.T(), state.Errors, 3)

	count, err := suite.service.DB.NewSelect().Model((*models.Invoice)(nil)).Count(context.Background())
	suite.Require().NoError(err)
	assert.Zero(suite.T(), count)
}

func (suite *DashboardTestSuite) TestUpdateUnknownInvoiceSucceeds() {
	rec := suite.do(http.MethodPost, common.InvoicesPath+"/2a5b3c1e-6a4d-4d5e-9f7a-0c2d1b3e4f50", url.Values{
		"customerId": {suite.customer.ID.String()},
		"amount":     {"10"},
		"status":     {common.InvoiceStatusPaid},
	})
	assert.Equal(suite.T(), http.StatusSeeOther, rec.Code)
}

func TestDashboardTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardTestSuite))
}
