// Package templates contains the templ components that render the lookup UI.
//
// Components live in the .templ files; the *_templ.go files are produced
// from them by `templ generate` and are committed alongside.
package templates

import "github.com/JonMunkholm/laberr/internal/core"

// Alert kinds map to CSS classes.
const (
	AlertError   = "error"
	AlertWarning = "warning"
	AlertSuccess = "success"
	AlertInfo    = "info"
)

// Alert is a message box shown above or in place of content.
type Alert struct {
	Kind    string
	Message string
	Action  string
	Code    string
}

// CardData is one search result: the selected value and, per matching
// record, the fields to display.
type CardData struct {
	Title   string
	Records [][]core.Field
}

// SearchForm holds the state of the two select inputs.
type SearchForm struct {
	Dimensions []core.Column
	Dimension  core.Column
	Values     []string
	Value      string

	// OptionsError replaces the value select when the dimension has no values.
	OptionsError *Alert
}

// ProposalForm holds previously entered proposal values, so a rejected
// submission can be corrected without retyping.
type ProposalForm struct {
	LabErrorType      string
	EffectTestResults string
	AffectedAnalyte   string
	Reference         string
}

// PageData is everything the lookup page can show.
type PageData struct {
	// LoadError is set when the catalog is unavailable. The search
	// controls are then omitted entirely.
	LoadError *Alert

	Search      SearchForm
	Result      *CardData
	ResultAlert *Alert

	ProposalEnabled bool
	ShowProposal    bool
	Proposal        ProposalForm
	ProposalAlert   *Alert
}

type proposalInput struct {
	Name  string
	Label string
	Value string
}

// proposalInputs lists the form inputs in display order. Names match the
// form fields the proposal endpoint expects.
func proposalInputs(values ProposalForm) []proposalInput {
	return []proposalInput{
		{"lab_error_type", "Laboratory Error", values.LabErrorType},
		{"effect_test_results", "Impact on Test Results", values.EffectTestResults},
		{"affected_analyte", "Affected Analyte", values.AffectedAnalyte},
		{"reference", "Reference", values.Reference},
	}
}

func alertClass(kind string) string {
	return "alert alert-" + kind
}
