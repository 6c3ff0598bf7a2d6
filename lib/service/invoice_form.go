package service

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invoicehub/invoicehub.go/common"
	"github.com/invoicehub/invoicehub.go/lib/responses"
	"github.com/shopspring/decimal"
)

type FormAction string

const (
	FormActionCreate FormAction = "Create"
	FormActionUpdate FormAction = "Update"
)

const (
	CustomerIDErrorMessage = "Please select a customer."
	AmountErrorMessage     = "Please enter an amount greater than $0."
	StatusErrorMessage     = "Please select an invoice status."
)

var invoiceFieldMessages = map[string]string{
	"customerId": CustomerIDErrorMessage,
	"amount":     AmountErrorMessage,
	"status":     StatusErrorMessage,
}

// InvoiceInput holds the user supplied fields of an invoice after validation.
type InvoiceInput struct {
	CustomerID string
	// in major currency units
	Amount decimal.Decimal
	Status string
}

func (in *InvoiceInput) AmountInCents() int64 {
	cents, _ := toCents(in.Amount)
	return cents
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// toCents converts an amount in major units to cents. It fails when the amount has
// fractions of a cent or the cents do not fit a bigint column.
func toCents(amount decimal.Decimal) (int64, bool) {
	cents := amount.Mul(decimal.NewFromInt(common.CentsPerUnit))
	if !cents.IsInteger() || cents.GreaterThan(maxCents) || cents.LessThan(decimal.Zero) {
		return 0, false
	}
	return cents.IntPart(), true
}

type invoiceForm struct {
	CustomerID string `form:"customerId" validate:"required"`
	// amount in cents, zero when the input cannot be stored exactly
	Amount int64  `form:"amount" validate:"gt=0"`
	Status string `form:"status" validate:"oneof=pending paid"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	// report errors under the form field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseInvoiceForm coerces and validates the customerId, amount and status form fields.
// Exactly one of the results is non-nil: the validated input, or the state to re-display
// the form with, carrying one message per violated field.
func ParseInvoiceForm(values url.Values, action FormAction) (*InvoiceInput, *responses.FormState) {
	amount := coerceAmount(values.Get("amount"))
	cents, _ := toCents(amount)
	form := invoiceForm{
		CustomerID: strings.TrimSpace(values.Get("customerId")),
		Amount:     cents,
		Status:     values.Get("status"),
	}

	err := formValidator.Struct(&form)
	if err == nil {
		return &InvoiceInput{
			CustomerID: form.CustomerID,
			Amount:     amount,
			Status:     form.Status,
		}, nil
	}

	state := &responses.FormState{
		Message: fmt.Sprintf("Missing Fields. Failed to %s Invoice.", action),
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, state
	}
	for _, fieldErr := range validationErrors {
		state.AddError(fieldErr.Field(), invoiceFieldMessages[fieldErr.Field()])
	}
	return nil, state
}

// coerceAmount parses a decimal number; blank or unparseable input yields zero.
func coerceAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return amount
}
