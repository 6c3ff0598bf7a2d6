package service

import (
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/ziflex/lecho/v3"
)

// 23:30 in New York is already the next day in UTC
var testNow = time.Date(2026, 10, 17, 23, 30, 0, 0, time.FixedZone("EDT", -4*60*60))

func newTestService(t *testing.T) (*InvoicehubService, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := bun.NewDB(sqlDB, pgdialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	svc := &InvoicehubService{
		Config:        &Config{InvoicesPerPage: 6, JWTSecret: []byte("test-secret"), JWTSessionExpiry: 3600},
		DB:            db,
		Logger:        lecho.New(io.Discard),
		InvoicePubSub: NewPubsub(),
		Clock:         func() time.Time { return testNow },
	}
	return svc, mock
}
