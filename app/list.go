package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hako/durafmt"

	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/ui"
	"github.com/ayoisaiah/dayplan/ledger"
	"github.com/ayoisaiah/dayplan/reconcile"
	"github.com/ayoisaiah/dayplan/stats"
)

// dayView is the JSON form of a day.
type dayView struct {
	Date    string         `json:"date"`
	Source  string         `json:"source,omitempty"`
	Tasks   []models.Task  `json:"tasks"`
	Summary models.Summary `json:"summary"`
}

func newDayView(l ledger.Ledger, src reconcile.Source) dayView {
	tasks := l.Tasks()

	return dayView{
		Date:    l.Date(),
		Source:  string(src),
		Tasks:   tasks,
		Summary: stats.Summarize(tasks),
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

// printLedgerTable prints one row per interval, numbered from 1.
func printLedgerTable(w io.Writer, l ledger.Ledger) {
	tasks := l.Tasks()

	tableBody := make([][]string, 0, len(tasks)+1)
	tableBody = append(tableBody, []string{"#", "START", "END", "DURATION", "CATEGORY", "PLAN", "ACTUAL"})

	for i := range tasks {
		t := tasks[i]

		tableBody = append(tableBody, []string{
			strconv.Itoa(i + 1),
			t.StartTime.String(),
			t.EndTime.String(),
			formatMinutes(t.Duration),
			ui.Category(t.Category),
			t.PlanTask,
			t.ActualTask,
		})
	}

	ui.PrintTable(tableBody, w)
}

// formatMinutes spells out a minute total, e.g. "2 hours 5 minutes".
func formatMinutes(mins int) string {
	if mins == 0 {
		return "0 minutes"
	}

	return durafmt.Parse(time.Duration(mins) * time.Minute).LimitFirstN(2).String()
}

// printSummary prints the category totals and the day's totals.
func printSummary(w io.Writer, date string, s models.Summary) {
	fmt.Fprintf(w, "%s %s\n\n", ui.Highlight("Summary for"), ui.Highlight(date))

	tableBody := [][]string{{"CATEGORY", "TIME"}}

	for _, c := range models.Categories {
		mins, ok := s.CategoryTimes[c]
		if !ok {
			continue
		}

		tableBody = append(tableBody, []string{ui.Category(c), formatMinutes(mins)})
	}

	ui.PrintTable(tableBody, w)

	fmt.Fprintf(w, "%s %s\n", ui.Cyan("Planned:"), formatMinutes(s.TotalPlannedTime))
	fmt.Fprintf(w, "%s %s\n", ui.Cyan("Actual: "), formatMinutes(s.TotalActualTime))
	fmt.Fprintf(w, "%s %s\n", ui.Cyan("Tracked:"), formatMinutes(s.TotalTrackedTime))
	fmt.Fprintf(w, "%s %d%%\n", ui.Cyan("Efficiency:"), s.Efficiency)
}
