// Package contact validates submissions of the site's contact form.
package contact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/identify-labs/marquee/pkg/domain"
)

// NotApplicable is the select value offered to non-investor enquiries.
const NotApplicable = "not-applicable"

// Investment interests require a concrete range and timeline.
var investmentInterests = map[string]bool{
	"pre-seed-investment":  true,
	"seed-round-lead":      true,
	"strategic-investment": true,
	"follow-on-investment": true,
}

const msgFieldRequired = "is required"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is a contact submission. Field names follow the HTML form.
type Form struct {
	Name            string `json:"name" mapstructure:"name"`
	Email           string `json:"email" mapstructure:"email"`
	Company         string `json:"company,omitempty" mapstructure:"company"`
	Interest        string `json:"interest" mapstructure:"interest"`
	InvestmentRange string `json:"investment-range,omitempty" mapstructure:"investment-range"`
	Timeline        string `json:"timeline,omitempty" mapstructure:"timeline"`
	PortfolioFocus  string `json:"portfolio-focus,omitempty" mapstructure:"portfolio-focus"`
	Message         string `json:"message" mapstructure:"message"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field. It wraps domain.ErrInvalidForm.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", domain.ErrInvalidForm, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidForm
}

// IsInvestment reports whether interest is one of the investor enquiries.
func IsInvestment(interest string) bool {
	return investmentInterests[interest]
}

// AllowedOptions reports whether the "not applicable" choices of the
// investment-range and timeline selects are offered for interest.
func AllowedOptions(interest string) (notApplicable bool) {
	return !IsInvestment(interest)
}

// Normalize trims whitespace and clears "not applicable" selections that
// the interest does not allow.
func (f Form) Normalize() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Company = strings.TrimSpace(f.Company)
	f.Interest = strings.TrimSpace(f.Interest)
	f.InvestmentRange = strings.TrimSpace(f.InvestmentRange)
	f.Timeline = strings.TrimSpace(f.Timeline)
	f.PortfolioFocus = strings.TrimSpace(f.PortfolioFocus)
	f.Message = strings.TrimSpace(f.Message)

	if IsInvestment(f.Interest) {
		if f.InvestmentRange == NotApplicable {
			f.InvestmentRange = ""
		}
		if f.Timeline == NotApplicable {
			f.Timeline = ""
		}
	}
	return f
}

// Validate checks the submission and returns a *ValidationError listing every
// problem, or nil.
func (f Form) Validate() error {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	required := []struct {
		name, value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"interest", f.Interest},
		{"message", f.Message},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			add(r.name, msgFieldRequired)
		}
	}

	if email := strings.TrimSpace(f.Email); email != "" && !emailPattern.MatchString(email) {
		add("email", "is not a valid address")
	}

	if IsInvestment(f.Interest) {
		if v := strings.TrimSpace(f.InvestmentRange); v == "" || v == NotApplicable {
			add("investment-range", "select a valid investment range")
		}
		if v := strings.TrimSpace(f.Timeline); v == "" || v == NotApplicable {
			add("timeline", "select a valid timeline")
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
