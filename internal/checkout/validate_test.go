package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamart/storefront/internal/domain"
)

func validShippingInfo() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName: "Jane",
		LastName:  "O'Neil",
		Email:     "jane@example.com",
		Phone:     "+12025550123",
		Address:   "42 Elm Street",
		City:      "Springfield",
		State:     "Illinois",
		ZipCode:   "62701",
		Country:   "United States",
	}
}

func TestValidateShippingInfo_Valid(t *testing.T) {
	errs := ValidateShippingInfo(validShippingInfo())
	assert.Empty(t, errs)
}

func TestValidateShippingInfo_SingleInvalidField(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.ShippingInfo)
		badField string
	}{
		{name: "empty_first_name", mutate: func(i *domain.ShippingInfo) { i.FirstName = "" }, badField: "firstName"},
		{name: "short_first_name", mutate: func(i *domain.ShippingInfo) { i.FirstName = "J" }, badField: "firstName"},
		{name: "digits_in_last_name", mutate: func(i *domain.ShippingInfo) { i.LastName = "Sm1th" }, badField: "lastName"},
		{name: "email_missing_at", mutate: func(i *domain.ShippingInfo) { i.Email = "jane.example.com" }, badField: "email"},
		{name: "email_missing_domain_dot", mutate: func(i *domain.ShippingInfo) { i.Email = "jane@example" }, badField: "email"},
		{name: "phone_leading_zero", mutate: func(i *domain.ShippingInfo) { i.Phone = "0123456" }, badField: "phone"},
		{name: "phone_too_short", mutate: func(i *domain.ShippingInfo) { i.Phone = "+1" }, badField: "phone"},
		{name: "short_address", mutate: func(i *domain.ShippingInfo) { i.Address = "42" }, badField: "address"},
		{name: "short_city", mutate: func(i *domain.ShippingInfo) { i.City = "A" }, badField: "city"},
		{name: "digits_in_state", mutate: func(i *domain.ShippingInfo) { i.State = "IL2" }, badField: "state"},
		{name: "short_zip", mutate: func(i *domain.ShippingInfo) { i.ZipCode = "9999" }, badField: "zipCode"},
		{name: "bad_plus_four", mutate: func(i *domain.ShippingInfo) { i.ZipCode = "62701-12" }, badField: "zipCode"},
		{name: "empty_country", mutate: func(i *domain.ShippingInfo) { i.Country = "" }, badField: "country"},
		{name: "unknown_country", mutate: func(i *domain.ShippingInfo) { i.Country = "Atlantis" }, badField: "country"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := validShippingInfo()
			tt.mutate(&info)

			errs := ValidateShippingInfo(info)
			require.Len(t, errs, 1, "only the invalid field should carry an error: %v", errs)
			assert.Contains(t, errs, tt.badField)
		})
	}
}

func TestValidateShippingInfo_InvalidZipLeavesOthersUntouched(t *testing.T) {
	info := validShippingInfo()
	info.ZipCode = "9999"

	errs := ValidateShippingInfo(info)
	assert.Contains(t, errs, "zipCode")
	assert.NotContains(t, errs, "firstName")
	assert.NotContains(t, errs, "lastName")
	assert.NotContains(t, errs, "email")
}

func TestValidateShippingInfo_CollectsAllErrors(t *testing.T) {
	errs := ValidateShippingInfo(domain.ShippingInfo{})
	// Every required field reports, none is masked by another.
	assert.Len(t, errs, 9)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "formatted_us_number", input: "+1 (202) 555-0123", expected: "+12025550123"},
		{name: "dots_and_spaces", input: "202.555.0123", expected: "2025550123"},
		{name: "plus_not_leading_is_dropped", input: "12+345", expected: "12345"},
		{name: "truncated_to_15", input: "+123456789012345678", expected: "+12345678901234"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"+1 (202) 555-0123", "202-555-0123", "+123456789012345678"}
	for _, input := range inputs {
		once := NormalizePhone(input)
		assert.Equal(t, once, NormalizePhone(once))
	}
}

func TestNormalizeZip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "62701", expected: "62701"},
		{name: "plus_four", input: "62701-1234", expected: "62701-1234"},
		{name: "lowercase_uppercased", input: "sw1a 1aa", expected: "SW1A1AA"},
		{name: "truncated_to_10", input: "62701-123456", expected: "62701-1234"},
		{name: "punctuation_stripped", input: " 62701 ", expected: "62701"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeZip(tt.input))
		})
	}
}

func TestNormalizeZip_Idempotent(t *testing.T) {
	inputs := []string{"62701-1234", "sw1a 1aa", "62701-123456"}
	for _, input := range inputs {
		once := NormalizeZip(input)
		assert.Equal(t, once, NormalizeZip(once))
	}
}
