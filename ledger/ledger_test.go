package ledger

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/timeutil"
)

const testDate = "2024-01-01"

func clock(s string) timeutil.Clock {
	return timeutil.MustParseClock(s)
}

func assertContiguous(t *testing.T, l Ledger) {
	t.Helper()

	tasks := l.Tasks()
	for i := 0; i < len(tasks)-1; i++ {
		assert.Equal(
			t,
			tasks[i].EndTime,
			tasks[i+1].StartTime,
			"interval %d should end where interval %d starts",
			i,
			i+1,
		)
	}

	assert.LessOrEqual(t, l.TotalMinutes(), timeutil.MinutesInADay)
	assert.NoError(t, l.Validate())
}

// grow inserts intervals after index 0 until the ledger has n intervals.
func grow(t *testing.T, l Ledger, n int) Ledger {
	t.Helper()

	for l.Len() < n {
		var err error

		l, err = l.InsertAfter(l.Len() - 2)
		require.NoError(t, err)
	}

	return l
}

func TestInitialize(t *testing.T) {
	l := Initialize(testDate)

	require.Equal(t, 24, l.Len())
	assert.Equal(t, testDate, l.Date())
	assert.Equal(t, timeutil.MinutesInADay, l.TotalMinutes())

	first, err := l.Task(0)
	require.NoError(t, err)

	assert.Equal(t, clock("00:00"), first.StartTime)
	assert.Equal(t, clock("01:00"), first.EndTime)
	assert.Equal(t, models.Default, first.Category)
	assert.Empty(t, first.PlanTask)
	assert.Empty(t, first.ActualTask)

	last, err := l.Task(23)
	require.NoError(t, err)

	assert.Equal(t, clock("23:00"), last.StartTime)
	assert.Equal(t, timeutil.EndOfDay, last.EndTime)

	ids := map[string]bool{}

	for _, task := range l.Tasks() {
		assert.Equal(t, 60, task.Duration)
		assert.NotEmpty(t, task.ID)
		assert.False(t, ids[task.ID], "duplicate id %s", task.ID)
		ids[task.ID] = true
	}

	assertContiguous(t, l)
}

func TestInsertAfterFirst(t *testing.T) {
	l := Initialize(testDate)
	before := l.Tasks()

	got, err := l.InsertAfter(0)
	require.NoError(t, err)
	require.Equal(t, 25, got.Len())

	inserted, _ := got.Task(1)
	assert.Equal(t, clock("01:00"), inserted.StartTime)
	assert.Equal(t, clock("01:05"), inserted.EndTime)
	assert.Equal(t, 5, inserted.Duration)
	assert.Equal(t, models.Default, inserted.Category)
	assert.Equal(t, -1, l.Index(inserted.ID))

	succ, _ := got.Task(2)
	assert.Equal(t, before[1].ID, succ.ID)
	assert.Equal(t, clock("01:05"), succ.StartTime)
	assert.Equal(t, clock("02:00"), succ.EndTime)
	assert.Equal(t, 55, succ.Duration)

	// only the immediate successor is touched
	if diff := cmp.Diff(before[2:], got.Tasks()[3:]); diff != "" {
		t.Errorf("intervals after the successor changed (-want +got):\n%s", diff)
	}

	assert.Equal(t, before, l.Tasks(), "receiver must not be modified")
	assertContiguous(t, got)
}

func TestInsertAfterEditedBoundary(t *testing.T) {
	l := Initialize(testDate)

	l, err := l.UpdateBoundary(l.Tasks()[0].ID, EndTime, "00:30")
	require.NoError(t, err)

	got, err := l.InsertAfter(0)
	require.NoError(t, err)

	inserted, _ := got.Task(1)
	assert.Equal(t, clock("00:30"), inserted.StartTime)
	assert.Equal(t, clock("00:35"), inserted.EndTime)

	succ, _ := got.Task(2)
	assert.Equal(t, clock("00:35"), succ.StartTime)
	assert.Equal(t, clock("02:00"), succ.EndTime)
	assertContiguous(t, got)
}

func TestInsertAfterLastFullDay(t *testing.T) {
	l := Initialize(testDate)

	got, err := l.InsertAfter(23)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Capacity))
	assert.Equal(t, l, got)
}

func TestInsertAfterLastWithRoom(t *testing.T) {
	l := Initialize(testDate)
	last := l.Tasks()[23]

	l, err := l.UpdateBoundary(last.ID, EndTime, "23:30")
	require.NoError(t, err)

	got, err := l.InsertAfter(23)
	require.NoError(t, err)
	require.Equal(t, 25, got.Len())

	inserted, _ := got.Task(24)
	assert.Equal(t, clock("23:30"), inserted.StartTime)
	assert.Equal(t, clock("23:35"), inserted.EndTime)
	assertContiguous(t, got)
}

func TestInsertAfterCollapsedSuccessor(t *testing.T) {
	l, err := Initialize(testDate).InsertAfter(0)
	require.NoError(t, err)

	// interval 1 is now 01:00-01:05; inserting after 0 again would leave it
	// with no minutes
	got, err := l.InsertAfter(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRoom)
	assert.Equal(t, l, got)
}

func TestInsertAfterOutOfRange(t *testing.T) {
	l := Initialize(testDate)

	_, err := l.InsertAfter(24)
	assert.ErrorIs(t, err, ErrIndexRange)

	_, err = l.InsertAfter(-1)
	assert.ErrorIs(t, err, ErrIndexRange)
}

func TestUpdateEndCascades(t *testing.T) {
	l := Initialize(testDate)
	tasks := l.Tasks()

	got, err := l.UpdateBoundary(tasks[5].ID, EndTime, "06:45")
	require.NoError(t, err)

	updated, _ := got.Task(5)
	assert.Equal(t, clock("06:45"), updated.EndTime)
	assert.Equal(t, 105, updated.Duration)

	succ, _ := got.Task(6)
	assert.Equal(t, clock("06:45"), succ.StartTime)
	assert.Equal(t, clock("07:00"), succ.EndTime)
	assert.Equal(t, 15, succ.Duration)

	if diff := cmp.Diff(tasks[7:], got.Tasks()[7:]); diff != "" {
		t.Errorf("unrelated intervals changed (-want +got):\n%s", diff)
	}

	assertContiguous(t, got)
}

func TestUpdateEndRejectsOverrun(t *testing.T) {
	l := Initialize(testDate)
	tasks := l.Tasks()

	cases := []struct {
		name  string
		id    string
		value string
	}{
		{name: "swallows successor", id: tasks[5].ID, value: "07:00"},
		{name: "before start", id: tasks[5].ID, value: "05:00"},
		{name: "misaligned", id: tasks[5].ID, value: "05:33"},
		{name: "not a time", id: tasks[5].ID, value: "noon"},
		{name: "past midnight", id: tasks[23].ID, value: "24:05"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := l.UpdateBoundary(tc.id, EndTime, tc.value)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.Validation))
			assert.Equal(t, l, got)
		})
	}
}

func TestUpdateStartFirstInterval(t *testing.T) {
	l := Initialize(testDate)
	id := l.Tasks()[0].ID

	got, err := l.UpdateBoundary(id, StartTime, "00:15")
	require.NoError(t, err)

	first, _ := got.Task(0)
	assert.Equal(t, clock("00:15"), first.StartTime)
	assert.Equal(t, clock("01:00"), first.EndTime)
	assert.Equal(t, 45, first.Duration)
	assertContiguous(t, got)
}

func TestUpdateStartForcesEnd(t *testing.T) {
	l := Initialize(testDate)
	id := l.Tasks()[0].ID

	got, err := l.UpdateBoundary(id, StartTime, "01:00")
	require.NoError(t, err)

	first, _ := got.Task(0)
	assert.Equal(t, clock("01:00"), first.StartTime)
	assert.Equal(t, clock("01:05"), first.EndTime)
	assert.Equal(t, 5, first.Duration)

	succ, _ := got.Task(1)
	assert.Equal(t, clock("01:05"), succ.StartTime)
	assert.Equal(t, 55, succ.Duration)
	assertContiguous(t, got)
}

func TestUpdateStartRejected(t *testing.T) {
	l := Initialize(testDate)

	got, err := l.UpdateBoundary(l.Tasks()[3].ID, StartTime, "03:30")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStartNotEditable)
	assert.True(t, apperr.IsKind(err, apperr.Policy))
	assert.Equal(t, l, got)

	_, err = l.UpdateBoundary(l.Tasks()[0].ID, StartTime, "02:00")
	assert.ErrorIs(t, err, ErrEndPastNext)

	_, err = l.UpdateBoundary(l.Tasks()[0].ID, "duration", "02:00")
	assert.ErrorIs(t, err, ErrUnknownBoundary)

	_, err = l.UpdateBoundary("missing", EndTime, "02:00")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestEdit(t *testing.T) {
	l := Initialize(testDate)
	id := l.Tasks()[9].ID

	plan, actual, cat := "Write report", "Wrote half", models.Work

	got, err := l.Edit(id, Edit{PlanTask: &plan, ActualTask: &actual, Category: &cat})
	require.NoError(t, err)

	task, _ := got.Task(9)
	assert.Equal(t, plan, task.PlanTask)
	assert.Equal(t, actual, task.ActualTask)
	assert.Equal(t, models.Work, task.Category)
	assert.Empty(t, l.Tasks()[9].PlanTask)

	bad := models.Category("Chores")

	_, err = l.Edit(id, Edit{Category: &bad})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestDeleteAtFloor(t *testing.T) {
	l := Initialize(testDate)

	got, err := l.Delete(l.Tasks()[4].ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFloor)
	assert.True(t, apperr.IsKind(err, apperr.Floor))
	assert.Equal(t, l, got)
	assert.Equal(t, 24, got.Len())
}

func TestDeleteCascades(t *testing.T) {
	l := grow(t, Initialize(testDate), 25)
	tasks := l.Tasks()

	// grow inserted 23:00-23:05 at index 23
	victim := tasks[23]
	got, err := l.Delete(victim.ID)
	require.NoError(t, err)
	require.Equal(t, 24, got.Len())
	assert.Equal(t, -1, got.Index(victim.ID))

	succ, _ := got.Task(23)
	assert.Equal(t, tasks[24].ID, succ.ID)
	assert.Equal(t, tasks[22].EndTime, succ.StartTime)
	assertContiguous(t, got)
}

func TestDeleteFirstAndLast(t *testing.T) {
	l := grow(t, Initialize(testDate), 26)
	tasks := l.Tasks()

	got, err := l.Delete(tasks[0].ID)
	require.NoError(t, err)

	first, _ := got.Task(0)
	assert.Equal(t, tasks[1], first)

	got, err = got.Delete(tasks[len(tasks)-1].ID)
	require.NoError(t, err)
	assert.Equal(t, 24, got.Len())
	assertContiguous(t, got)
}

func TestFromTasks(t *testing.T) {
	src := Initialize(testDate).Tasks()
	src[0].ID = ""
	src[2].ID = src[1].ID
	src[3].Duration = 0

	l := FromTasks(testDate, src)
	tasks := l.Tasks()

	assert.NotEmpty(t, tasks[0].ID)
	assert.Equal(t, src[1].ID, tasks[1].ID)
	assert.NotEqual(t, tasks[1].ID, tasks[2].ID)
	assert.Equal(t, src[4].ID, tasks[4].ID)
	assert.Equal(t, 60, tasks[3].Duration)
	assert.NoError(t, l.Validate())

	if diff := cmp.Diff(src, tasks, cmpopts.IgnoreFields(models.Task{}, "ID", "Duration")); diff != "" {
		t.Errorf("FromTasks changed boundaries (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tasks := Initialize(testDate).Tasks()

	gap := append([]models.Task(nil), tasks...)
	gap[4].EndTime = clock("04:30")
	gap[4].Duration = 30
	assert.ErrorIs(t, FromTasks(testDate, gap).Validate(), ErrGap)

	unsorted := append([]models.Task(nil), tasks...)
	unsorted[3], unsorted[4] = unsorted[4], unsorted[3]
	assert.Error(t, FromTasks(testDate, unsorted).Validate())

	assert.ErrorIs(t, FromTasks(testDate, nil).Validate(), ErrEmpty)
}

func TestRandomMutationsKeepInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	l := Initialize(testDate)

	plan := "x"

	for i := 0; i < 2000; i++ {
		tasks := l.Tasks()
		pick := tasks[r.IntN(len(tasks))]
		value := timeutil.Clock(r.IntN(timeutil.MinutesInADay/timeutil.SlotMinutes+1) * timeutil.SlotMinutes).String()

		var (
			next Ledger
			err  error
		)

		switch r.IntN(5) {
		case 0:
			next, err = l.InsertAfter(r.IntN(len(tasks)))
		case 1:
			next, err = l.Delete(pick.ID)
		case 2:
			next, err = l.UpdateBoundary(pick.ID, EndTime, value)
		case 3:
			next, err = l.UpdateBoundary(tasks[0].ID, StartTime, value)
		default:
			next, err = l.Edit(pick.ID, Edit{PlanTask: &plan})
		}

		if err != nil {
			assert.Equal(t, l, next, "failed mutation must return the original ledger")
			continue
		}

		assertContiguous(t, next)
		assert.GreaterOrEqual(t, next.Len(), MinTasks)

		l = next
	}
}
