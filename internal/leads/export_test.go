package leads

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/leadflow-backend/pkg/db/models"
)

const exportHeaderLine = `"Name","Phone","Email","Status","Source","Location","Budget","Requirements","Timeline","Assigned To","Created Date"`

func TestExportCSVHeaderAlwaysPresent(t *testing.T) {
	out := string(ExportCSV(nil))
	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\r\n")
	require.Len(t, lines, 1)
	assert.Equal(t, exportHeaderLine, lines[0])
}

func TestExportCSVRowCountMatchesCollection(t *testing.T) {
	budget := decimal.NewFromInt(750000)
	leads := []models.Lead{
		testLead(func(l *models.Lead) {
			l.LeadName = "Jane Walker"
			l.Phone = strPtr("+1 555 0100")
			l.Email = strPtr("jane@example.com")
			l.Location = strPtr("Riverside")
			l.Budget = &budget
			l.AssignedTo = strPtr("agent@x.com")
			l.CreatedAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		}),
		testLead(nil),
	}

	out := string(ExportCSV(leads))
	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\r\n")
	require.Len(t, lines, 3)

	assert.Equal(t, exportHeaderLine, lines[0])
	assert.Equal(t, `"Jane Walker","+1 555 0100","jane@example.com","new","website","Riverside","750000","","","agent@x.com","2026-03-10"`, lines[1])
}

func TestExportCSVQuotesEmbeddedQuotes(t *testing.T) {
	leads := []models.Lead{
		testLead(func(l *models.Lead) { l.LeadName = `Jane "JJ" Walker` }),
	}

	out := string(ExportCSV(leads))
	assert.Contains(t, out, `"Jane ""JJ"" Walker"`)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	assert.Equal(t, "leads-export-2026-03-10.csv", ExportFilename(now))
}
