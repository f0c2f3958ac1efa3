package checkout

import (
	"regexp"
	"strings"

	"github.com/novamart/storefront/internal/domain"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Countries is the fixed list the address form's country selector offers.
var Countries = []string{
	"United States",
	"Canada",
	"United Kingdom",
	"Australia",
	"Germany",
	"France",
	"Japan",
	"Mexico",
}

// NormalizePhone strips everything but digits and a leading plus sign, then
// truncates to 15 characters. It is idempotent.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if len(normalized) > 15 {
		normalized = normalized[:15]
	}
	return normalized
}

// NormalizeZip uppercases, drops characters outside [A-Z0-9-], and truncates
// to 10 characters. It is idempotent.
func NormalizeZip(zip string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(zip) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if len(normalized) > 10 {
		normalized = normalized[:10]
	}
	return normalized
}

// ValidateShippingInfo checks every field and collects per-field error
// messages. An empty map means the form may be submitted. Phone and ZIP are
// normalized before validation.
func ValidateShippingInfo(info domain.ShippingInfo) map[string]string {
	errs := make(map[string]string)

	validateName(errs, "firstName", "First name", info.FirstName)
	validateName(errs, "lastName", "Last name", info.LastName)

	switch {
	case strings.TrimSpace(info.Email) == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(info.Email):
		errs["email"] = "Email is invalid"
	}

	phone := NormalizePhone(info.Phone)
	switch {
	case strings.TrimSpace(info.Phone) == "":
		errs["phone"] = "Phone number is required"
	case !phoneRe.MatchString(phone):
		errs["phone"] = "Phone number is invalid"
	}

	switch {
	case strings.TrimSpace(info.Address) == "":
		errs["address"] = "Address is required"
	case len(strings.TrimSpace(info.Address)) < 5:
		errs["address"] = "Address must be at least 5 characters"
	}

	validateName(errs, "city", "City", info.City)
	validateName(errs, "state", "State", info.State)

	zip := NormalizeZip(info.ZipCode)
	switch {
	case strings.TrimSpace(info.ZipCode) == "":
		errs["zipCode"] = "ZIP code is required"
	case !zipRe.MatchString(zip):
		errs["zipCode"] = "ZIP code is invalid"
	}

	if strings.TrimSpace(info.Country) == "" {
		errs["country"] = "Country is required"
	} else if !validCountry(info.Country) {
		errs["country"] = "Country is not supported"
	}

	return errs
}

func validateName(errs map[string]string, field, label, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		errs[field] = label + " is required"
	case len(strings.TrimSpace(value)) < 2:
		errs[field] = label + " must be at least 2 characters"
	case !nameRe.MatchString(value):
		errs[field] = label + " contains invalid characters"
	}
}

func validCountry(country string) bool {
	for _, c := range Countries {
		if c == country {
			return true
		}
	}
	return false
}
