package enums

import "fmt"

// LeadStatus represents the pipeline stage of a lead.
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusScreening   LeadStatus = "screening"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusProposal    LeadStatus = "proposal"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusSiteVisit   LeadStatus = "site_visit"
	LeadStatusAgreement   LeadStatus = "agreement"
	LeadStatusPayment     LeadStatus = "payment"
	LeadStatusClosedWon   LeadStatus = "closed_won"
	LeadStatusLost        LeadStatus = "lost"
)

var validLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusScreening,
	LeadStatusQualified,
	LeadStatusProposal,
	LeadStatusNegotiation,
	LeadStatusSiteVisit,
	LeadStatusAgreement,
	LeadStatusPayment,
	LeadStatusClosedWon,
	LeadStatusLost,
}

// leadStatusRank orders statuses by pipeline progression. Lost ranks after
// every active stage so terminal leads collate at the end of a status sort.
var leadStatusRank = map[LeadStatus]int{
	LeadStatusNew:         0,
	LeadStatusContacted:   1,
	LeadStatusScreening:   2,
	LeadStatusQualified:   3,
	LeadStatusProposal:    4,
	LeadStatusNegotiation: 5,
	LeadStatusSiteVisit:   6,
	LeadStatusAgreement:   7,
	LeadStatusPayment:     8,
	LeadStatusClosedWon:   9,
	LeadStatusLost:        10,
}

// String implements fmt.Stringer.
func (s LeadStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LeadStatus.
func (s LeadStatus) IsValid() bool {
	for _, candidate := range validLeadStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the pipeline.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusClosedWon || s == LeadStatusLost
}

// Rank returns the pipeline position of the status. Unknown statuses rank
// before every known stage.
func (s LeadStatus) Rank() int {
	if rank, ok := leadStatusRank[s]; ok {
		return rank
	}
	return -1
}

// Label returns the human-readable form used in activity messages.
func (s LeadStatus) Label() string {
	switch s {
	case LeadStatusNew:
		return "New"
	case LeadStatusContacted:
		return "Contacted"
	case LeadStatusScreening:
		return "Screening"
	case LeadStatusQualified:
		return "Qualified"
	case LeadStatusProposal:
		return "Proposal"
	case LeadStatusNegotiation:
		return "Negotiation"
	case LeadStatusSiteVisit:
		return "Site Visit"
	case LeadStatusAgreement:
		return "Agreement"
	case LeadStatusPayment:
		return "Payment"
	case LeadStatusClosedWon:
		return "Closed Won"
	case LeadStatusLost:
		return "Lost"
	default:
		return string(s)
	}
}

// ParseLeadStatus converts raw input into a LeadStatus.
func ParseLeadStatus(value string) (LeadStatus, error) {
	for _, candidate := range validLeadStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead status %q", value)
}
