package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/invoicehub/invoicehub.go/lib/security"
	"github.com/invoicehub/invoicehub.go/lib/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "410544b2-4001-4271-9855-fec4b6a6442a"

func expectUserLookup(t *testing.T, mock sqlmock.Sqlmock, password string) {
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	mock.ExpectQuery(`FROM "users" AS "user" WHERE \(email = 'user@nextmail.com'\) LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(testUserID, "User", "user@nextmail.com", hash))
}

func TestLogin(t *testing.T) {
	svc, mock := newTestService(t)
	expectUserLookup(t, mock, "123456")

	token, user, err := svc.Login(context.Background(), " User@NextMail.com ", "123456")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, testUserID, user.ID.String())

	claims, err := tokens.ParseSessionToken(svc.Config.JWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.ID)
	assert.Equal(t, "user@nextmail.com", claims.Email)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, mock := newTestService(t)
	expectUserLookup(t, mock, "123456")

	user, err := svc.Authenticate(context.Background(), "user@nextmail.com", "654321")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectQuery(`FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}))

	_, err := svc.Authenticate(context.Background(), "nobody@nextmail.com", "123456")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestCreateUserRejectsShortPassword(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.CreateUser(context.Background(), "User", "user@nextmail.com", "123")
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
