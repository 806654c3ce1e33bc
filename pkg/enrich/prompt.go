package enrich

import (
	"fmt"
	"strings"

	"github.com/confsync/confsync/pkg/conferences"
)

// Prompt builds the natural-language search query for one candidate. The
// response contract (exact field names, MM/DD dates, `false` for nothing
// found) is what ParseResponse and Apply expect.
func Prompt(cand conferences.Candidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are tasked with finding information about the conference %q for %d.\n\n", cand.Name, cand.Year)
	fmt.Fprintf(&b, "Conference details:\n- Name: %s\n", cand.Name)
	if cand.Category != "" {
		fmt.Fprintf(&b, "- Category: %s\n", cand.Category)
	}
	if cand.Region != "" {
		fmt.Fprintf(&b, "- Region: %s\n", cand.Region)
	}

	fmt.Fprintf(&b, "\nSearch the web and find the following missing information for this conference in %d:\n%s\n",
		cand.Year, strings.Join(cand.Missing, ", "))

	b.WriteString(`
Return ONLY a JSON object with the found information. Use these exact field names:
- "Start Date": "MM/DD" format
- "End Date": "MM/DD" format
- "Location": "Venue Name, City"
- "Speaker": "Key speaker names"
- "Attendees": "Number or description"
- "Status": one of "confirmed", "tentative", "cancelled"

If you cannot find information for a specific field, use null for that field.
If you cannot find ANY information about this conference for the given year, return false.

Example response:
{
    "Start Date": "05/15",
    "End Date": "05/17",
    "Location": "Convention Center, Miami",
    "Speaker": "Vitalik Buterin",
    "Attendees": "5000+",
    "Status": "confirmed"
}
`)

	return b.String()
}
