package resolve

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yardpilot/yardpilot/internal/match"
	"github.com/yardpilot/yardpilot/internal/store"
)

// searchFleet resolves a query against the vehicle roster. Returns "" for no
// match or on any store failure.
func (o *Orchestrator) searchFleet(ctx context.Context, query string) string {
	return o.cached(ctx, "trucks", query, func() string {
		records, err := o.store.ListFleet(ctx)
		if err != nil {
			return ""
		}
		return formatFleetAnswer(query, records)
	})
}

func formatFleetAnswer(query string, records []*store.FleetRecord) string {
	searchable := make([]match.Record, len(records))
	for i, r := range records {
		searchable[i] = match.Record{
			Primary: r.Name,
			Extra:   []string{r.Model, strconv.Itoa(r.Year), r.Plate, r.Status, r.Notes},
		}
	}

	ranked := match.Rank(query, searchable, recordThreshold, match.Options{})
	if len(ranked) == 0 {
		return ""
	}

	lines := make([]string, 0, len(ranked)+1)
	for _, r := range ranked {
		lines = append(lines, formatFleetLine(records[r.Index]))
	}
	if len(ranked) > 1 {
		lines = append(lines, fleetStatusSummary(ranked, records))
	}
	return strings.Join(lines, "\n")
}

func formatFleetLine(r *store.FleetRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", r.Name)
	if r.Model != "" || r.Year > 0 {
		b.WriteString(" (")
		if r.Year > 0 {
			fmt.Fprintf(&b, "%d ", r.Year)
		}
		b.WriteString(r.Model)
		b.WriteString(")")
	}
	if r.Plate != "" {
		fmt.Fprintf(&b, ", plate %s", r.Plate)
	}
	if r.Status != "" {
		fmt.Fprintf(&b, " - status: %s", r.Status)
	}
	if r.LastMaint != "" {
		fmt.Fprintf(&b, "; last maintenance %s", r.LastMaint)
	}
	if r.NextMaint != "" {
		fmt.Fprintf(&b, ", next due %s", r.NextMaint)
	}
	return b.String()
}

// fleetStatusSummary appends an active/maintenance tally when a query
// matched several vehicles. Status is free text interpreted by substring.
func fleetStatusSummary(ranked []match.Scored, records []*store.FleetRecord) string {
	active, maint := 0, 0
	for _, r := range ranked {
		status := strings.ToLower(records[r.Index].Status)
		switch {
		case strings.Contains(status, "maintenance"):
			maint++
		case strings.Contains(status, "active"):
			active++
		}
	}
	return fmt.Sprintf("Fleet summary: %d active, %d in maintenance of %d matched", active, maint, len(ranked))
}
