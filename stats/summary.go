// Package stats reduces a day's intervals into category totals and an
// efficiency ratio
package stats

import (
	"math"
	"strings"

	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/timeutil"
)

// Summarize computes the totals for tasks in a single pass. Planned and actual
// time count intervals whose text is not blank. Default intervals are left
// out of the category totals, and the tracked total is capped at one day.
func Summarize(tasks []models.Task) models.Summary {
	s := models.Summary{
		CategoryTimes: make(map[models.Category]int, len(models.Categories)-1),
	}

	for _, c := range models.Categories {
		if c != models.Default {
			s.CategoryTimes[c] = 0
		}
	}

	for i := range tasks {
		t := tasks[i]

		s.TotalTrackedTime += t.Duration

		if strings.TrimSpace(t.PlanTask) != "" {
			s.TotalPlannedTime += t.Duration
		}

		if strings.TrimSpace(t.ActualTask) != "" {
			s.TotalActualTime += t.Duration
		}

		if t.Category != models.Default {
			s.CategoryTimes[t.Category] += t.Duration
		}
	}

	s.TotalTrackedTime = min(s.TotalTrackedTime, timeutil.MinutesInADay)

	if s.TotalPlannedTime > 0 {
		ratio := float64(s.TotalActualTime) / float64(s.TotalPlannedTime) * 100
		s.Efficiency = int(math.Round(ratio))
	}

	return s
}
