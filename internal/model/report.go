package model

import (
	"fmt"
	"strings"
	"time"
)

const reportSeparator = "------------------------"

// BuildReport renders the booked hours as a plain-text report, one block
// per entry with resolved client, project and station names, followed by
// the total. Entries whose references no longer resolve are still listed
// with an "unknown" placeholder rather than dropped.
func BuildReport(c Collections) string {
	var b strings.Builder

	b.WriteString("WORK HOURS REPORT\n")
	b.WriteString("========================\n\n")

	for _, e := range c.Entries {
		clientName := "unknown"
		if cl, ok := c.ClientForEntry(e); ok {
			clientName = cl.Name
		}

		projectName := "unknown"
		if p, ok := c.ProjectByID(e.ProjectID); ok {
			projectName = p.Name
		}

		stationName := "unknown"
		if s, ok := c.StationByID(e.WorkStationID); ok {
			stationName = s.Name
		}

		fmt.Fprintf(&b, "Client: %s\n", clientName)
		fmt.Fprintf(&b, "Project: %s\n", projectName)
		fmt.Fprintf(&b, "Station: %s\n", stationName)
		fmt.Fprintf(&b, "Hours: %gh\n", e.Hours)
		if !e.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "Date: %s\n", e.CreatedAt.Format(time.DateOnly))
		}
		b.WriteString(reportSeparator + "\n")
	}

	fmt.Fprintf(&b, "\nTOTAL: %g hours\n", c.TotalHours())

	return b.String()
}
