// Package proposal handles user-submitted proposals for new laboratory
// errors and forwards them to a hosted form-handling endpoint.
package proposal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Form field names expected by the hosted endpoint.
const (
	FieldLabErrorType      = "lab_error_type"
	FieldEffectTestResults = "effect_test_results"
	FieldAffectedAnalyte   = "affected_analyte"
	FieldReference         = "reference"
	FieldSubject           = "_subject"
)

// DefaultSubject is the email subject the endpoint uses for forwarded proposals.
const DefaultSubject = "New Laboratory Error Proposal"

var (
	// ErrDisabled is returned when no endpoint is configured.
	ErrDisabled = errors.New("proposals are disabled")

	// ErrEndpointUnavailable is returned while the circuit breaker is open.
	ErrEndpointUnavailable = errors.New("proposal endpoint unavailable")
)

// Proposal is a suggested new catalog entry. All four fields are required.
type Proposal struct {
	LabErrorType      string `json:"lab_error_type"`
	EffectTestResults string `json:"effect_test_results"`
	AffectedAnalyte   string `json:"affected_analyte"`
	Reference         string `json:"reference"`
}

// FromForm reads a Proposal from submitted form values.
func FromForm(v url.Values) Proposal {
	return Proposal{
		LabErrorType:      v.Get(FieldLabErrorType),
		EffectTestResults: v.Get(FieldEffectTestResults),
		AffectedAnalyte:   v.Get(FieldAffectedAnalyte),
		Reference:         v.Get(FieldReference),
	}
}

// Normalize returns a copy with surrounding whitespace removed.
func (p Proposal) Normalize() Proposal {
	return Proposal{
		LabErrorType:      strings.TrimSpace(p.LabErrorType),
		EffectTestResults: strings.TrimSpace(p.EffectTestResults),
		AffectedAnalyte:   strings.TrimSpace(p.AffectedAnalyte),
		Reference:         strings.TrimSpace(p.Reference),
	}
}

// ValidationError lists the required fields that were blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("proposal is missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Validate checks that every field is non-blank.
func (p Proposal) Validate() error {
	p = p.Normalize()

	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{FieldLabErrorType, p.LabErrorType},
		{FieldEffectTestResults, p.EffectTestResults},
		{FieldAffectedAnalyte, p.AffectedAnalyte},
		{FieldReference, p.Reference},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Values encodes the proposal as the endpoint's form fields.
func (p Proposal) Values(subject string) url.Values {
	p = p.Normalize()
	if subject == "" {
		subject = DefaultSubject
	}

	v := url.Values{}
	v.Set(FieldLabErrorType, p.LabErrorType)
	v.Set(FieldEffectTestResults, p.EffectTestResults)
	v.Set(FieldAffectedAnalyte, p.AffectedAnalyte)
	v.Set(FieldReference, p.Reference)
	v.Set(FieldSubject, subject)
	return v
}
