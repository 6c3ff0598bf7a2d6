package controllers

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/invoicehub/invoicehub.go/lib"
	"github.com/invoicehub/invoicehub.go/lib/responses"
	"github.com/invoicehub/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/ziflex/lecho/v3"
)

type recordingRevalidator struct {
	paths []string
}

func (r *recordingRevalidator) Revalidate(path string) {
	r.paths = append(r.paths, path)
}

type testEnv struct {
	e           *echo.Echo
	svc         *service.InvoicehubService
	mock        sqlmock.Sqlmock
	revalidator *recordingRevalidator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqlDB, pgdialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	revalidator := &recordingRevalidator{}
	svc := &service.InvoicehubService{
		Config: &service.Config{
			InvoicesPerPage:  6,
			JWTSecret:        []byte("controller-secret"),
			JWTSessionExpiry: 3600,
		},
		DB:            db,
		Logger:        lecho.New(io.Discard),
		Revalidator:   revalidator,
		InvoicePubSub: service.NewPubsub(),
		Clock: func() time.Time {
			return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
		},
	}

	e := echo.New()
	e.Logger = svc.Logger
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}

	return &testEnv{e: e, svc: svc, mock: mock, revalidator: revalidator}
}

func (env *testEnv) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}
