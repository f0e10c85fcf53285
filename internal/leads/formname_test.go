package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDeriveFormName(t *testing.T) {
	cases := []struct {
		name  string
		notes *string
		want  string
	}{
		{"nil notes", nil, FormNameMissing},
		{"empty notes", strPtr(""), FormNameMissing},
		{"no marker", strPtr("called twice, no answer"), FormNameMissing},
		{"form marker", strPtr("Form: Downtown Open House"), "Downtown Open House"},
		{"form name marker", strPtr("Form Name: Spring Campaign"), "Spring Campaign"},
		{"marker mid-notes", strPtr("imported\nForm: Villa Launch\nPage ID: 123"), "Villa Launch"},
		{"first match wins", strPtr("Form: First\nForm: Second"), "First"},
		{"trims whitespace", strPtr("Form:   Padded   "), "Padded"},
		{"empty value", strPtr("Form:   \nmore text"), FormNameMissing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveFormName(tc.notes))
		})
	}
}

func TestDeriveFormNameIdempotent(t *testing.T) {
	notes := strPtr("Form Name: Repeatable")
	first := DeriveFormName(notes)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DeriveFormName(notes))
	}
}
