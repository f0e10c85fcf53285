package enums

import "fmt"

// LeadSource identifies the acquisition channel of a lead.
type LeadSource string

const (
	LeadSourceWalkin    LeadSource = "walkin"
	LeadSourceCall      LeadSource = "call"
	LeadSourceReferral  LeadSource = "referral"
	LeadSourceWebsite   LeadSource = "website"
	LeadSourceFacebook  LeadSource = "facebook"
	LeadSourceInstagram LeadSource = "instagram"
	LeadSourceWhatsapp  LeadSource = "whatsapp"
)

var validLeadSources = []LeadSource{
	LeadSourceWalkin,
	LeadSourceCall,
	LeadSourceReferral,
	LeadSourceWebsite,
	LeadSourceFacebook,
	LeadSourceInstagram,
	LeadSourceWhatsapp,
}

// String implements fmt.Stringer.
func (s LeadSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LeadSource.
func (s LeadSource) IsValid() bool {
	for _, candidate := range validLeadSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLeadSource converts raw input into a LeadSource.
func ParseLeadSource(value string) (LeadSource, error) {
	for _, candidate := range validLeadSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead source %q", value)
}
