package service

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceValues(customerID, amount, status string) url.Values {
	return url.Values{
		"customerId": {customerID},
		"amount":     {amount},
		"status":     {status},
	}
}

func TestParseInvoiceFormValid(t *testing.T) {
	input, state := ParseInvoiceForm(invoiceValues("3958dc9e-712f-4377-85e9-fec4b6a6442a", "50.25", "pending"), FormActionCreate)
	require.Nil(t, state)
	require.NotNil(t, input)

	assert.Equal(t, "3958dc9e-712f-4377-85e9-fec4b6a6442a", input.CustomerID)
	assert.Equal(t, "50.25", input.Amount.String())
	assert.Equal(t, "pending", input.Status)
	assert.Equal(t, int64(5025), input.AmountInCents())
}

func TestParseInvoiceFormAmountInCents(t *testing.T) {
	cases := map[string]int64{
		"19.99":   1999,
		"0.29":    29,
		" 100 ":   10000,
		"1.50":    150,
		"2e1":     2000,
		"0.01":    1,
		"1000000": 100000000,
	}
	for amount, cents := range cases {
		input, state := ParseInvoiceForm(invoiceValues("c1", amount, "paid"), FormActionCreate)
		require.Nil(t, state, amount)
		assert.Equal(t, cents, input.AmountInCents(), amount)
	}

	// largest amount a bigint column can hold
	input, state := ParseInvoiceForm(invoiceValues("c1", "92233720368547758.07", "paid"), FormActionCreate)
	require.Nil(t, state)
	assert.Equal(t, int64(math.MaxInt64), input.AmountInCents())
}

func TestParseInvoiceFormAllFieldsMissing(t *testing.T) {
	input, state := ParseInvoiceForm(url.Values{}, FormActionCreate)
	assert.Nil(t, input)
	require.NotNil(t, state)

	assert.Equal(t, "Missing Fields. Failed to Create Invoice.", state.Message)
	assert.Equal(t, map[string][]string{
		"customerId": {CustomerIDErrorMessage},
		"amount":     {AmountErrorMessage},
		"status":     {StatusErrorMessage},
	}, state.Errors)
}

func TestParseInvoiceFormUpdateMessage(t *testing.T) {
	_, state := ParseInvoiceForm(invoiceValues("c1", "10", "overdue"), FormActionUpdate)
	require.NotNil(t, state)

	assert.Equal(t, "Missing Fields. Failed to Update Invoice.", state.Message)
	assert.Equal(t, []string{StatusErrorMessage}, state.Errors["status"])
	assert.NotContains(t, state.Errors, "customerId")
	assert.NotContains(t, state.Errors, "amount")
}

func TestParseInvoiceFormRejectsAmounts(t *testing.T) {
	for _, amount := range []string{
		"", "0", "-5", "abc", "12,50", "0.00",
		// fractions of a cent
		"0.001", "12.345", "0.005",
		// cents beyond a bigint
		"1e20", "92233720368547758.08", "1e400",
	} {
		input, state := ParseInvoiceForm(invoiceValues("c1", amount, "pending"), FormActionCreate)
		assert.Nil(t, input, amount)
		require.NotNil(t, state, amount)
		assert.Equal(t, map[string][]string{"amount": {AmountErrorMessage}}, state.Errors, amount)
	}
}

func TestParseInvoiceFormBlankCustomer(t *testing.T) {
	_, state := ParseInvoiceForm(invoiceValues("   ", "5", "paid"), FormActionCreate)
	require.NotNil(t, state)
	assert.Equal(t, map[string][]string{"customerId": {CustomerIDErrorMessage}}, state.Errors)
}

func TestParseInvoiceFormStatusIsCaseSensitive(t *testing.T) {
	_, state := ParseInvoiceForm(invoiceValues("c1", "5", "Paid"), FormActionCreate)
	require.NotNil(t, state)
	assert.Equal(t, []string{StatusErrorMessage}, state.Errors["status"])
}
