package leads

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
	"github.com/angelmondragon/leadflow-backend/pkg/enums"
)

// FilterAll is the sentinel that disables a single-value filter. An empty
// string is treated the same way so absent query params bypass cleanly.
const FilterAll = "all"

// FilterContext carries the full filter surface for one list evaluation.
// Multi-value lists follow the empty-means-unconstrained convention.
type FilterContext struct {
	ViewerEmail   string
	ViewerIsAdmin bool

	// Advanced filters (saved-filter shape).
	Stages     []string
	Sources    []string
	AssignedTo []string

	Query         string
	Source        string
	Assignment    enums.AssignmentMode
	Member        string
	Status        string
	ContactStatus string

	DateFilter enums.DateRange
	DateFrom   *time.Time
	DateTo     *time.Time
	// Now anchors the named date ranges; zero means time.Now().
	Now time.Time

	FBPage   string
	FBForm   string
	FormName string
}

func filterBypassed(value string) bool {
	return value == "" || strings.EqualFold(value, FilterAll)
}

// Visible reports whether the lead passes every active predicate. Predicates
// are conjunctive; each inactive filter passes unconditionally.
func Visible(lead models.Lead, ctx FilterContext) bool {
	if !matchesAdvanced(lead, ctx) {
		return false
	}
	if !matchesRoleVisibility(lead, ctx) {
		return false
	}
	if !matchesQuery(lead, ctx.Query) {
		return false
	}
	if !filterBypassed(ctx.Source) && !strings.EqualFold(string(lead.Source), ctx.Source) {
		return false
	}
	if !matchesAssignment(lead, ctx) {
		return false
	}
	if !filterBypassed(ctx.Member) && !lead.IsAssignedTo(ctx.Member) {
		return false
	}
	if !filterBypassed(ctx.Status) && !strings.EqualFold(string(lead.Status), ctx.Status) {
		return false
	}
	if !filterBypassed(ctx.ContactStatus) && !strings.EqualFold(string(lead.ContactStatus), ctx.ContactStatus) {
		return false
	}
	if !matchesDateRange(lead, ctx) {
		return false
	}
	if !matchesFBPage(lead, ctx.FBPage) {
		return false
	}
	if !matchesFBForm(lead, ctx.FBForm) {
		return false
	}
	if !filterBypassed(ctx.FormName) && DeriveFormName(lead.Notes) != ctx.FormName {
		return false
	}
	return true
}

// FilterLeads applies Visible across the slice, preserving input order.
func FilterLeads(leads []models.Lead, ctx FilterContext) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if Visible(lead, ctx) {
			out = append(out, lead)
		}
	}
	return out
}

// AvailableFormNames returns the distinct derived form names across the
// leads, excluding the "-" sentinel, sorted ascending.
func AvailableFormNames(leads []models.Lead) []string {
	seen := map[string]struct{}{}
	for _, lead := range leads {
		name := DeriveFormName(lead.Notes)
		if name == FormNameMissing {
			continue
		}
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func matchesAdvanced(lead models.Lead, ctx FilterContext) bool {
	if len(ctx.Stages) > 0 && !containsFold(ctx.Stages, string(lead.Status)) {
		return false
	}
	if len(ctx.Sources) > 0 && !containsFold(ctx.Sources, string(lead.Source)) {
		return false
	}
	if len(ctx.AssignedTo) > 0 {
		if lead.AssignedTo == nil || !containsFold(ctx.AssignedTo, *lead.AssignedTo) {
			return false
		}
	}
	return true
}

func matchesRoleVisibility(lead models.Lead, ctx FilterContext) bool {
	if ctx.ViewerIsAdmin {
		return true
	}
	return lead.IsAssignedTo(ctx.ViewerEmail)
}

func matchesQuery(lead models.Lead, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	folded := strings.ToLower(q)
	if strings.Contains(strings.ToLower(lead.LeadName), folded) {
		return true
	}
	if lead.Phone != nil && strings.Contains(*lead.Phone, q) {
		return true
	}
	if lead.Email != nil && strings.Contains(strings.ToLower(*lead.Email), folded) {
		return true
	}
	return false
}

func matchesAssignment(lead models.Lead, ctx FilterContext) bool {
	switch ctx.Assignment {
	case "", enums.AssignmentModeAll:
		return true
	case enums.AssignmentModeMyLeads:
		return lead.IsAssignedTo(ctx.ViewerEmail)
	case enums.AssignmentModeAssigned:
		return lead.AssignedTo != nil && strings.TrimSpace(*lead.AssignedTo) != ""
	case enums.AssignmentModeUnassigned:
		return lead.AssignedTo == nil || strings.TrimSpace(*lead.AssignedTo) == ""
	default:
		return true
	}
}

func matchesDateRange(lead models.Lead, ctx FilterContext) bool {
	if ctx.DateFilter == "" || ctx.DateFilter == enums.DateRangeAll {
		return true
	}

	start, end, active := resolveDateRange(ctx)
	if !active {
		// Custom range with a missing bound matches everything. Permissive
		// on purpose; see the filter tests.
		return true
	}

	when := lead.EffectiveCreatedAt()
	if when.IsZero() {
		// Missing date field matches while a range is active.
		return true
	}
	return !when.Before(start) && when.Before(end)
}

func resolveDateRange(ctx FilterContext) (time.Time, time.Time, bool) {
	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch ctx.DateFilter {
	case enums.DateRangeToday:
		return dayStart, dayStart.AddDate(0, 0, 1), true
	case enums.DateRangeYesterday:
		return dayStart.AddDate(0, 0, -1), dayStart, true
	case enums.DateRangeLast7Days:
		return dayStart.AddDate(0, 0, -6), dayStart.AddDate(0, 0, 1), true
	case enums.DateRangeLast30Days:
		return dayStart.AddDate(0, 0, -29), dayStart.AddDate(0, 0, 1), true
	case enums.DateRangeThisMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return monthStart, monthStart.AddDate(0, 1, 0), true
	case enums.DateRangeCustom:
		if ctx.DateFrom == nil || ctx.DateTo == nil {
			return time.Time{}, time.Time{}, false
		}
		return *ctx.DateFrom, ctx.DateTo.AddDate(0, 0, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func matchesFBPage(lead models.Lead, pageID string) bool {
	if filterBypassed(pageID) {
		return true
	}
	if lead.Source != enums.LeadSourceFacebook {
		return true
	}
	if lead.FBPageID != nil && *lead.FBPageID == pageID {
		return true
	}
	if lead.Notes != nil && strings.Contains(*lead.Notes, "Page ID: "+pageID) {
		return true
	}
	return false
}

func matchesFBForm(lead models.Lead, formID string) bool {
	if filterBypassed(formID) {
		return true
	}
	if lead.Source != enums.LeadSourceFacebook {
		return true
	}
	return lead.FBFormID != nil && *lead.FBFormID == formID
}

func containsFold(values []string, candidate string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(candidate)) {
			return true
		}
	}
	return false
}
