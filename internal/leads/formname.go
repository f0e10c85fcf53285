package leads

import (
	"regexp"
	"strings"
)

// FormNameMissing is the sentinel derived for leads whose notes carry no form
// marker. It is excluded from the available-form-names list.
const FormNameMissing = "-"

var formNameRe = regexp.MustCompile(`(?:Form Name|Form):[ \t]*([^\n\r]+)`)

// DeriveFormName extracts the lead form name embedded in notes via the
// "Form Name: <text>" or "Form: <text>" marker. First match wins; the value is
// trimmed. Absent or empty markers derive to the "-" sentinel. Pure and
// idempotent with respect to the notes value.
func DeriveFormName(notes *string) string {
	if notes == nil {
		return FormNameMissing
	}
	m := formNameRe.FindStringSubmatch(*notes)
	if m == nil {
		return FormNameMissing
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return FormNameMissing
	}
	return name
}
