package leads

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
)

var exportHeader = []string{
	"Name", "Phone", "Email", "Status", "Source", "Location",
	"Budget", "Requirements", "Timeline", "Assigned To", "Created Date",
}

// ExportCSV renders the filtered+sorted (not paginated) leads as CSV. Every
// field is double-quoted and the header row is always present, even for an
// empty collection.
func ExportCSV(leads []models.Lead) []byte {
	var b strings.Builder
	writeCSVRow(&b, exportHeader)
	for _, lead := range leads {
		writeCSVRow(&b, []string{
			lead.LeadName,
			deref(lead.Phone),
			deref(lead.Email),
			string(lead.Status),
			string(lead.Source),
			deref(lead.Location),
			budgetString(lead),
			deref(lead.Requirements),
			deref(lead.Timeline),
			deref(lead.AssignedTo),
			lead.EffectiveCreatedAt().Format("2006-01-02"),
		})
	}
	return []byte(b.String())
}

// ExportFilename builds the download name for the given day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("leads-export-%s.csv", now.Format("2006-01-02"))
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

func budgetString(lead models.Lead) string {
	if lead.Budget == nil {
		return ""
	}
	return lead.Budget.String()
}
