package enums

import "testing"

func TestLeadStatusRankFollowsPipelineOrder(t *testing.T) {
	ordered := []LeadStatus{
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
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Fatalf("expected %s to rank before %s", ordered[i-1], ordered[i])
		}
	}
}

func TestLeadStatusRankUnknown(t *testing.T) {
	if got := LeadStatus("bogus").Rank(); got != -1 {
		t.Fatalf("expected unknown status to rank -1, got %d", got)
	}
}

func TestLeadStatusTerminal(t *testing.T) {
	if !LeadStatusClosedWon.IsTerminal() || !LeadStatusLost.IsTerminal() {
		t.Fatal("closed_won and lost must be terminal")
	}
	if LeadStatusNegotiation.IsTerminal() {
		t.Fatal("negotiation must not be terminal")
	}
}

func TestParseLeadStatus(t *testing.T) {
	status, err := ParseLeadStatus("site_visit")
	if err != nil {
		t.Fatalf("parse site_visit: %v", err)
	}
	if status != LeadStatusSiteVisit {
		t.Fatalf("unexpected status %s", status)
	}
	if _, err := ParseLeadStatus("unknown"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseEnumsRejectUnknown(t *testing.T) {
	if _, err := ParseContactStatus("nope"); err == nil {
		t.Fatal("expected contact status error")
	}
	if _, err := ParseLeadSource("nope"); err == nil {
		t.Fatal("expected lead source error")
	}
	if _, err := ParseAssignmentMode("nope"); err == nil {
		t.Fatal("expected assignment mode error")
	}
	if _, err := ParseDateRange("nope"); err == nil {
		t.Fatal("expected date range error")
	}
	if _, err := ParseCapability("nope"); err == nil {
		t.Fatal("expected capability error")
	}
}
