// Package ledger keeps the intervals of a single day contiguous under
// insertion, deletion, and boundary edits.
//
// A Ledger is a value. Every mutation returns a new Ledger and leaves the
// receiver untouched, so callers may hold on to older versions (for example a
// snapshot being pushed to the remote store) while the day keeps changing.
package ledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/timeutil"
)

// MinTasks is the floor below which intervals cannot be deleted.
const MinTasks = 24

// Boundary names the editable edge of an interval.
type Boundary string

const (
	StartTime Boundary = "startTime"
	EndTime   Boundary = "endTime"
)

// Edit holds optional changes to an interval's text and category.
type Edit struct {
	PlanTask   *string
	ActualTask *string
	Category   *models.Category
}

// Ledger is the ordered sequence of intervals for one date.
type Ledger struct {
	date  string
	tasks []models.Task
}

// Initialize returns the default ledger for date: 24 one-hour intervals from
// 00:00 to 24:00, all in the Default category with empty text.
func Initialize(date string) Ledger {
	tasks := make([]models.Task, timeutil.HoursInADay)
	ids := make(map[string]bool, len(tasks))

	for i := range tasks {
		start := timeutil.NewClock(i, 0)
		end := timeutil.NewClock(i+1, 0)

		tasks[i] = models.Task{
			ID:        newID(ids),
			StartTime: start,
			EndTime:   end,
			Category:  models.Default,
			Duration:  timeutil.Duration(start, end),
		}
	}

	return Ledger{date: date, tasks: tasks}
}

// FromTasks builds a ledger from stored or fetched intervals. Durations are
// recomputed from the boundaries, and missing or duplicate ids are replaced.
// Existing ids are kept as-is. The result is not validated; use Validate for
// that.
func FromTasks(date string, tasks []models.Task) Ledger {
	out := make([]models.Task, len(tasks))
	ids := make(map[string]bool, len(tasks))

	for i := range tasks {
		t := tasks[i]

		id := strings.TrimSpace(t.ID)
		if id == "" || ids[id] {
			id = newID(ids)
		}

		ids[id] = true
		t.ID = id
		t.Duration = timeutil.Duration(t.StartTime, t.EndTime)
		out[i] = t
	}

	return Ledger{date: date, tasks: out}
}

// newID returns an id that is not yet in use and records it in used.
func newID(used map[string]bool) string {
	for {
		id := uuid.NewString()
		if !used[id] {
			used[id] = true
			return id
		}
	}
}

func (l Ledger) Date() string {
	return l.date
}

func (l Ledger) Len() int {
	return len(l.tasks)
}

// Tasks returns a copy of the intervals.
func (l Ledger) Tasks() []models.Task {
	out := make([]models.Task, len(l.tasks))
	copy(out, l.tasks)

	return out
}

// Task returns the interval at index i.
func (l Ledger) Task(i int) (models.Task, error) {
	if i < 0 || i >= len(l.tasks) {
		return models.Task{}, ErrIndexRange.Fmt(i, len(l.tasks))
	}

	return l.tasks[i], nil
}

// Index returns the position of the interval with the given id, or -1.
func (l Ledger) Index(id string) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}

	return -1
}

// TotalMinutes sums the durations of all intervals.
func (l Ledger) TotalMinutes() int {
	var total int
	for i := range l.tasks {
		total += l.tasks[i].Duration
	}

	return total
}

func (l Ledger) clone() Ledger {
	return Ledger{date: l.date, tasks: l.Tasks()}
}

func (l Ledger) ids() map[string]bool {
	ids := make(map[string]bool, len(l.tasks))
	for i := range l.tasks {
		ids[l.tasks[i].ID] = true
	}

	return ids
}

// InsertAfter creates an empty interval between index and index+1. The new
// interval starts where index ends and, when a successor exists, ends where
// the successor starts, pushing the successor's start forward. Its minutes are
// taken from the successor, so insertion fails with a capacity error when the
// successor has no room to give or the day would run past 24:00.
func (l Ledger) InsertAfter(index int) (Ledger, error) {
	if index < 0 || index >= len(l.tasks) {
		return l, ErrIndexRange.Fmt(index, len(l.tasks))
	}

	start := l.tasks[index].EndTime
	if start.ValidateStart() != nil {
		return l, ErrNoRoom.Fmt(index)
	}

	next := l.clone()
	hasSuccessor := index+1 < len(next.tasks)

	end := timeutil.NextSlot(start)
	if hasSuccessor {
		end = next.tasks[index+1].StartTime
	}

	if timeutil.Compare(end, start) <= 0 {
		end = timeutil.NextSlot(start)
	}

	task := models.Task{
		ID:        newID(next.ids()),
		StartTime: start,
		EndTime:   end,
		Category:  models.Default,
		Duration:  timeutil.Duration(start, end),
	}

	next.tasks = append(next.tasks[:index+1], append([]models.Task{task}, next.tasks[index+1:]...)...)

	if hasSuccessor {
		succ := &next.tasks[index+2]
		succ.StartTime = end
		succ.Duration = timeutil.Duration(succ.StartTime, succ.EndTime)
	}

	if err := next.Validate(); err != nil {
		return l, ErrNoRoom.Fmt(index).Wrap(err)
	}

	return next, nil
}

// UpdateBoundary sets the start or end time of the interval with the given
// id. A new end time is cascaded into the successor's start. Only the first
// interval's start time may be edited; when it is moved to or past the end
// time, the end time is pushed to the next slot and cascaded as well.
func (l Ledger) UpdateBoundary(id string, field Boundary, value string) (Ledger, error) {
	idx := l.Index(id)
	if idx < 0 {
		return l, ErrTaskNotFound.Fmt(id)
	}

	if field != StartTime && field != EndTime {
		return l, ErrUnknownBoundary.Fmt(field)
	}

	v, err := timeutil.ParseClock(value)
	if err != nil {
		return l, err
	}

	if field == StartTime && idx != 0 {
		return l, ErrStartNotEditable.Fmt(idx + 1)
	}

	next := l.clone()
	task := &next.tasks[idx]

	switch field {
	case EndTime:
		if err := v.ValidateEnd(); err != nil {
			return l, err
		}

		task.EndTime = v
	case StartTime:
		if err := v.ValidateStart(); err != nil {
			return l, err
		}

		task.StartTime = v

		if timeutil.Compare(v, task.EndTime) >= 0 {
			task.EndTime = timeutil.NextSlot(v)
		}
	}

	if timeutil.Compare(task.EndTime, task.StartTime) <= 0 {
		return l, ErrEndBeforeStart.Fmt(task.EndTime, task.StartTime)
	}

	task.Duration = timeutil.Duration(task.StartTime, task.EndTime)

	if idx+1 < len(next.tasks) {
		succ := &next.tasks[idx+1]

		if timeutil.Compare(task.EndTime, succ.EndTime) >= 0 {
			return l, ErrEndPastNext.Fmt(task.EndTime, succ.EndTime)
		}

		succ.StartTime = task.EndTime
		succ.Duration = timeutil.Duration(succ.StartTime, succ.EndTime)
	}

	if err := next.Validate(); err != nil {
		return l, err
	}

	return next, nil
}

// Edit changes the text and category of the interval with the given id.
func (l Ledger) Edit(id string, e Edit) (Ledger, error) {
	idx := l.Index(id)
	if idx < 0 {
		return l, ErrTaskNotFound.Fmt(id)
	}

	next := l.clone()
	task := &next.tasks[idx]

	if e.Category != nil {
		c, err := models.ParseCategory(string(*e.Category))
		if err != nil {
			return l, err
		}

		task.Category = c
	}

	if e.PlanTask != nil {
		task.PlanTask = *e.PlanTask
	}

	if e.ActualTask != nil {
		task.ActualTask = *e.ActualTask
	}

	return next, nil
}

// Delete removes the interval with the given id. The following interval, if
// any, is stretched back to start where the preceding interval ends.
func (l Ledger) Delete(id string) (Ledger, error) {
	if len(l.tasks) <= MinTasks {
		return l, ErrFloor.Fmt(MinTasks)
	}

	idx := l.Index(id)
	if idx < 0 {
		return l, ErrTaskNotFound.Fmt(id)
	}

	next := l.clone()
	next.tasks = append(next.tasks[:idx], next.tasks[idx+1:]...)

	if idx > 0 && idx < len(next.tasks) {
		succ := &next.tasks[idx]
		succ.StartTime = next.tasks[idx-1].EndTime
		succ.Duration = timeutil.Duration(succ.StartTime, succ.EndTime)
	}

	if err := next.Validate(); err != nil {
		return l, err
	}

	return next, nil
}

// Validate checks that the intervals are sorted, contiguous, individually
// well-formed, and fit within a day.
func (l Ledger) Validate() error {
	if len(l.tasks) == 0 {
		return ErrEmpty
	}

	for i := range l.tasks {
		t := l.tasks[i]

		if err := t.StartTime.ValidateStart(); err != nil {
			return err
		}

		if err := t.EndTime.ValidateEnd(); err != nil {
			return err
		}

		if timeutil.Compare(t.EndTime, t.StartTime) <= 0 {
			return ErrEndBeforeStart.Fmt(t.EndTime, t.StartTime)
		}

		if want := timeutil.Duration(t.StartTime, t.EndTime); t.Duration != want {
			return ErrDuration.Fmt(i+1, t.Duration, want)
		}

		if i == 0 {
			continue
		}

		prev := l.tasks[i-1]

		if timeutil.Compare(t.StartTime, prev.StartTime) <= 0 {
			return ErrNotSorted.Fmt(i+1, t.StartTime, i)
		}

		if prev.EndTime != t.StartTime {
			return ErrGap.Fmt(i, prev.EndTime, i+1, t.StartTime)
		}
	}

	if l.TotalMinutes() > timeutil.MinutesInADay {
		return ErrDayFull.Fmt(timeutil.MinutesInADay)
	}

	return nil
}
