package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/invoicehub/invoicehub.go/db/models"
	"github.com/invoicehub/invoicehub.go/lib/security"
	"github.com/invoicehub/invoicehub.go/lib/tokens"
)

var ErrBadCredentials = errors.New("bad credentials")

func (svc *InvoicehubService) CreateUser(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	// we only store the hashed password
	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, Password: hashedPassword}
	if _, err := svc.DB.NewInsert().Model(user).Returning("id").Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert user %s: %w", email, err)
	}
	return user, nil
}

func (svc *InvoicehubService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := svc.DB.NewSelect().Model(&user).Where("email = ?", normalizeEmail(email)).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate returns the user owning the credentials. Unknown emails and wrong
// passwords both yield ErrBadCredentials.
func (svc *InvoicehubService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := svc.FindUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !security.CheckPassword(user.Password, password) {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// Login authenticates the user and issues a session token for the access gate.
func (svc *InvoicehubService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := svc.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := tokens.GenerateSessionToken(svc.Config.JWTSecret, svc.Config.JWTSessionExpiry, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
