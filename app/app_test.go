package app

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/pathutil"
	"github.com/ayoisaiah/dayplan/internal/timeutil"
	"github.com/ayoisaiah/dayplan/ledger"
	"github.com/ayoisaiah/dayplan/store"
)

func contextWithArgs(t *testing.T, args ...string) *cli.Context {
	t.Helper()

	f := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, f.Parse(args))

	return cli.NewContext(&cli.App{}, f, nil)
}

func TestRowArg(t *testing.T) {
	l := ledger.Initialize("2024-05-01")

	task, err := rowArg(contextWithArgs(t, "3"), l)
	require.NoError(t, err)
	assert.Equal(t, timeutil.NewClock(2, 0), task.StartTime)

	for _, arg := range []string{"0", "25", "x", ""} {
		_, err := rowArg(contextWithArgs(t, arg), l)
		assert.ErrorIs(t, err, errRowArg, "arg %q", arg)
	}
}

func TestValidDays(t *testing.T) {
	good := ledger.Initialize("2024-05-01").Tasks()
	good[0].Duration = 0 // recomputed on import

	bad := ledger.Initialize("2024-05-02").Tasks()
	bad[3].StartTime = timeutil.NewClock(3, 30)

	days, skipped := validDays(map[string][]models.Task{
		"2024-05-01": good,
		"2024-05-02": bad,
		"May 3":      good,
	})

	require.Len(t, days, 1)
	assert.Equal(t, 60, days["2024-05-01"][0].Duration)

	require.Len(t, skipped, 2)
	assert.Equal(t, "2024-05-02", skipped[0].date)
	assert.Equal(t, apperr.Validation, apperr.KindOf(skipped[0].err))
	assert.Equal(t, "May 3", skipped[1].date)
}

func TestSyncCmd(t *testing.T) {
	cmd := syncCmd(`notify-send "day synced"`, "2024-05-01")
	require.NotNil(t, cmd)

	assert.Equal(t, []string{"notify-send", "day synced"}, cmd.Args)
	assert.Contains(t, cmd.Env, "DAYPLAN_DATE=2024-05-01")

	assert.Nil(t, syncCmd(`echo "unterminated`, "2024-05-01"))
	assert.Nil(t, syncCmd("", "2024-05-01"))
}

func TestPrintLedgerTable(t *testing.T) {
	disableStyling()

	var buf bytes.Buffer

	printLedgerTable(&buf, ledger.Initialize("2024-05-01"))

	out := buf.String()
	assert.Contains(t, out, "START")
	assert.Contains(t, out, "23:00")
	assert.Contains(t, out, "24:00")
	assert.Contains(t, out, "Default")
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0 minutes", formatMinutes(0))
	assert.Equal(t, "2 hours 5 minutes", formatMinutes(125))
}

func TestPrintSummary(t *testing.T) {
	disableStyling()

	var buf bytes.Buffer

	printSummary(&buf, "2024-05-01", models.Summary{
		CategoryTimes:    map[models.Category]int{models.Work: 125, models.Sleep: 0},
		TotalPlannedTime: 125,
		TotalTrackedTime: 1440,
	})

	out := buf.String()
	assert.Contains(t, out, "2 hours 5 minutes")
	assert.Contains(t, out, "0 minutes")
	assert.Contains(t, out, "1 day")
	assert.NotContains(t, out, "2h 5m")
}

func TestCommands(t *testing.T) {
	var names []string

	for _, c := range Get().Commands {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{
		"show", "summary", "insert", "set", "delete", "clear",
		"sync", "watch", "import", "serve", "edit-config",
	}, names)
}

func TestOfflineWorkflow(t *testing.T) {
	tmp := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("DAYPLAN_ENV", "test")
	t.Setenv("NO_COLOR", "1")
	xdg.Reload()

	require.NoError(t, pathutil.Initialize())

	configPath := pathutil.ConfigFilePath()
	require.True(t, strings.HasPrefix(configPath, tmp))
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
	require.NoError(t, os.WriteFile(configPath, []byte("user:\n  id: tester\n"), 0o600))

	run := func(args ...string) error {
		return Get().Run(append([]string{"dayplan", "--offline", "--date", "2024-05-01"}, args...))
	}

	require.NoError(t, run("insert", "--after", "1"))
	require.NoError(t, run("set", "--end", "01:30", "--plan", "stretch", "--category", "exercise", "2"))

	err := run("delete", "99")
	assert.ErrorIs(t, err, errRowArg)

	err = run("set", "--start", "01:10", "2")
	assert.Equal(t, apperr.Policy, apperr.KindOf(err))

	readCache := func() []models.Task {
		db, err := store.NewClient(pathutil.DBFilePath(), nil)
		require.NoError(t, err)

		defer db.Close()

		tasks, ok := db.Get("tester", "2024-05-01")
		require.True(t, ok)

		return tasks
	}

	tasks := readCache()
	require.Len(t, tasks, 25)
	assert.Equal(t, "stretch", tasks[1].PlanTask)
	assert.Equal(t, models.Exercise, tasks[1].Category)
	assert.Equal(t, timeutil.NewClock(1, 30), tasks[1].EndTime)
	assert.Equal(t, timeutil.NewClock(1, 30), tasks[2].StartTime)

	require.NoError(t, run("delete", "2"))
	assert.Len(t, readCache(), 24)

	require.NoError(t, run("clear", "--yes"))

	tasks = readCache()
	require.Len(t, tasks, 24)
	assert.Empty(t, tasks[0].PlanTask)
}
