package leads

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
)

// SortDirection orders a sorted lead list.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sortable field names accepted by SortLeads.
const (
	SortByName            = "name"
	SortByFormName        = "form_name"
	SortByStatus          = "status"
	SortByContactStatus   = "contact_status"
	SortBySource          = "source"
	SortByAssignedTo      = "assigned_to"
	SortByPhone           = "phone"
	SortByEmail           = "email"
	SortByLocation        = "location"
	SortByBudget          = "budget"
	SortByCreatedDate     = "created_date"
	SortByNextFollowUp    = "next_follow_up"
	SortByLastContactDate = "last_contact_date"
)

// SortLeads returns a new slice ordered by the given field and direction.
// The sort is stable; ties preserve the incoming order. Unknown fields fall
// back to name. Missing string values normalize to "" and collate first
// ascending; the status field orders by pipeline rank rather than lexically.
func SortLeads(leads []models.Lead, field string, dir SortDirection) []models.Lead {
	out := make([]models.Lead, len(leads))
	copy(out, leads)

	cmp := comparatorFor(field)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if dir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Toggle implements the header-click rule: clicking the active field flips
// direction, clicking a new field resets to ascending.
func Toggle(currentField string, currentDir SortDirection, clicked string) (string, SortDirection) {
	if clicked == currentField {
		if currentDir == SortAsc {
			return clicked, SortDesc
		}
		return clicked, SortAsc
	}
	return clicked, SortAsc
}

func comparatorFor(field string) func(a, b models.Lead) int {
	switch field {
	case SortByFormName:
		return func(a, b models.Lead) int {
			return compareFold(DeriveFormName(a.Notes), DeriveFormName(b.Notes))
		}
	case SortByStatus:
		return func(a, b models.Lead) int {
			return compareInt(a.Status.Rank(), b.Status.Rank())
		}
	case SortByContactStatus:
		return func(a, b models.Lead) int {
			return compareFold(string(a.ContactStatus), string(b.ContactStatus))
		}
	case SortBySource:
		return func(a, b models.Lead) int {
			return compareFold(string(a.Source), string(b.Source))
		}
	case SortByAssignedTo:
		return func(a, b models.Lead) int {
			return compareFold(deref(a.AssignedTo), deref(b.AssignedTo))
		}
	case SortByPhone:
		return func(a, b models.Lead) int {
			return strings.Compare(deref(a.Phone), deref(b.Phone))
		}
	case SortByEmail:
		return func(a, b models.Lead) int {
			return compareFold(deref(a.Email), deref(b.Email))
		}
	case SortByLocation:
		return func(a, b models.Lead) int {
			return compareFold(deref(a.Location), deref(b.Location))
		}
	case SortByBudget:
		return func(a, b models.Lead) int {
			switch {
			case a.Budget == nil && b.Budget == nil:
				return 0
			case a.Budget == nil:
				return -1
			case b.Budget == nil:
				return 1
			default:
				return a.Budget.Cmp(*b.Budget)
			}
		}
	case SortByCreatedDate:
		return func(a, b models.Lead) int {
			return compareTime(a.EffectiveCreatedAt(), b.EffectiveCreatedAt())
		}
	case SortByNextFollowUp:
		return func(a, b models.Lead) int {
			return compareTime(derefTime(a.NextFollowUp), derefTime(b.NextFollowUp))
		}
	case SortByLastContactDate:
		return func(a, b models.Lead) int {
			return compareTime(derefTime(a.LastContactDate), derefTime(b.LastContactDate))
		}
	default:
		return func(a, b models.Lead) int {
			return compareFold(a.LeadName, b.LeadName)
		}
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
