package models

import (
	"encoding/json"
	"strings"

	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/internal/timeutil"
)

// Category labels what an interval was spent on.
type Category string

const (
	Work     Category = "Work"
	Personal Category = "Personal"
	Sleep    Category = "Sleep"
	Exercise Category = "Exercise"
	Meal     Category = "Meal"
	Learning Category = "Learning"
	Break    Category = "Break"
	Default  Category = "Default"
)

// Categories lists every category in display order.
var Categories = []Category{
	Work,
	Personal,
	Sleep,
	Exercise,
	Meal,
	Learning,
	Break,
	Default,
}

var errUnknownCategory = &apperr.Error{
	Kind:    apperr.Validation,
	Message: "unknown category %q",
}

// ParseCategory returns the category named s. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)

	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}

	return "", errUnknownCategory.Fmt(s)
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string

	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	v, err := ParseCategory(s)
	if err != nil {
		return err
	}

	*c = v

	return nil
}

// Task is one interval of a day.
type Task struct {
	ID         string         `json:"id"`
	PlanTask   string         `json:"planTask"`
	ActualTask string         `json:"actualTask"`
	Category   Category       `json:"category"`
	StartTime  timeutil.Clock `json:"startTime"`
	EndTime    timeutil.Clock `json:"endTime"`
	Duration   int            `json:"duration"` // minutes
}

// Summary holds the totals derived from a day's tasks.
type Summary struct {
	CategoryTimes    map[Category]int `json:"categoryTimes"`
	TotalPlannedTime int              `json:"totalPlannedTime"`
	TotalActualTime  int              `json:"totalActualTime"`
	TotalTrackedTime int              `json:"totalTrackedTime"`
	Efficiency       int              `json:"efficiency"`
}
