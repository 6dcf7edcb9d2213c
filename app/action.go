package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/dayplan/internal/apperr"
	"github.com/ayoisaiah/dayplan/internal/models"
	"github.com/ayoisaiah/dayplan/internal/pathutil"
	"github.com/ayoisaiah/dayplan/internal/timeutil"
	"github.com/ayoisaiah/dayplan/ledger"
	"github.com/ayoisaiah/dayplan/planner"
	"github.com/ayoisaiah/dayplan/reconcile"
	"github.com/ayoisaiah/dayplan/remote"
	"github.com/ayoisaiah/dayplan/report"
	"github.com/ayoisaiah/dayplan/store"
)

const (
	envNoColor        = "NO_COLOR"
	envDayplanNoColor = "DAYPLAN_NO_COLOR"
)

var (
	errNothingToSet = errors.New(
		"nothing to change: pass at least one of --start, --end, --plan, --actual, --category",
	)

	errImportEmpty = &apperr.Error{
		Kind:    apperr.Validation,
		Message: "no valid days found in %s",
	}
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// render prints the day as a table, or as JSON with --json.
func render(rt *workspace, l ledger.Ledger, src reconcile.Source) error {
	if rt.cfg.CLI.JSON {
		return printJSON(os.Stdout, newDayView(l, src))
	}

	label := l.Date()
	if src != "" {
		label = fmt.Sprintf("%s (loaded from %s)", label, src)
	}

	pterm.Info.Println(label)
	printLedgerTable(os.Stdout, l)

	return nil
}

// mutate opens the day, applies fn, saves, and prints the result.
func mutate(ctx *cli.Context, fn func(*planner.Planner) (ledger.Ledger, error)) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	defer rt.Close()

	p := rt.open(ctx.Context)

	l, err := fn(p)
	if err != nil {
		return err
	}

	status, saveErr := p.Save(ctx.Context)

	if err := render(rt, l, ""); err != nil {
		return err
	}

	if rt.cfg.CLI.JSON {
		return saveErr
	}

	report.SaveOutcome(status, saveErr)

	return report.Reported(saveErr)
}

// showAction prints the timeline for the selected day.
func showAction(ctx *cli.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	defer rt.Close()

	p := rt.open(ctx.Context)

	return render(rt, p.Ledger(), p.Source())
}

// summaryAction prints the totals for the selected day.
func summaryAction(ctx *cli.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	defer rt.Close()

	p := rt.open(ctx.Context)

	s := p.Summary()

	if rt.cfg.CLI.JSON {
		return printJSON(os.Stdout, s)
	}

	printSummary(os.Stdout, p.Ledger().Date(), s)

	return nil
}

// insertAction handles the insert command.
func insertAction(ctx *cli.Context) error {
	return mutate(ctx, func(p *planner.Planner) (ledger.Ledger, error) {
		after := int(ctx.Uint("after"))
		if after < 1 || after > p.Ledger().Len() {
			return p.Ledger(), errRowArg.Fmt(p.Ledger().Len(), fmt.Sprint(after))
		}

		return p.InsertAfter(after - 1)
	})
}

// setAction handles the set command. All changes to the row are committed
// together, so a rejected time or category leaves the day untouched.
func setAction(ctx *cli.Context) error {
	var (
		edit    ledger.Edit
		changed bool
	)

	if ctx.IsSet("plan") {
		v := ctx.String("plan")
		edit.PlanTask = &v
		changed = true
	}

	if ctx.IsSet("actual") {
		v := ctx.String("actual")
		edit.ActualTask = &v
		changed = true
	}

	if ctx.IsSet("category") {
		c, err := models.ParseCategory(ctx.String("category"))
		if err != nil {
			return err
		}

		edit.Category = &c
		changed = true
	}

	type boundaryChange struct {
		field ledger.Boundary
		value string
	}

	var boundaries []boundaryChange

	for _, b := range []struct {
		field ledger.Boundary
		flag  string
	}{
		{ledger.StartTime, "start"},
		{ledger.EndTime, "end"},
	} {
		if !ctx.IsSet(b.flag) {
			continue
		}

		if _, err := timeutil.ParseClock(ctx.String(b.flag)); err != nil {
			return err
		}

		boundaries = append(boundaries, boundaryChange{b.field, ctx.String(b.flag)})
	}

	if !changed && len(boundaries) == 0 {
		return errNothingToSet
	}

	return mutate(ctx, func(p *planner.Planner) (ledger.Ledger, error) {
		task, err := rowArg(ctx, p.Ledger())
		if err != nil {
			return p.Ledger(), err
		}

		return p.Apply(func(l ledger.Ledger) (ledger.Ledger, error) {
			for _, b := range boundaries {
				l, err = l.UpdateBoundary(task.ID, b.field, b.value)
				if err != nil {
					return l, err
				}
			}

			if changed {
				return l.Edit(task.ID, edit)
			}

			return l, nil
		})
	})
}

// deleteAction handles the delete command.
func deleteAction(ctx *cli.Context) error {
	return mutate(ctx, func(p *planner.Planner) (ledger.Ledger, error) {
		task, err := rowArg(ctx, p.Ledger())
		if err != nil {
			return p.Ledger(), err
		}

		return p.Delete(task.ID)
	})
}

// clearAction resets the selected day after confirmation.
func clearAction(ctx *cli.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	defer rt.Close()

	ok, err := confirmClear(ctx, rt.cfg.CLI.Date)
	if err != nil || !ok {
		return err
	}

	p := rt.open(ctx.Context)

	status, err := p.Clear(ctx.Context)

	report.SaveOutcome(status, err)

	return report.Reported(err)
}

// syncAction pushes the locally saved ledger for the selected day.
func syncAction(ctx *cli.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	defer rt.Close()

	date := rt.cfg.CLI.Date

	if _, ok := rt.rec.Cached(date); !ok {
		report.Info("Nothing saved locally for " + date)
		return nil
	}

	if !rt.signal.Online() {
		pterm.Warning.Println("The remote task store is unreachable. Try again later")
		return nil
	}

	status, err := rt.rec.Replay(ctx.Context, date)

	report.SaveOutcome(status, err)

	return report.Reported(err)
}

// watchAction keeps the selected day synced until interrupted.
func watchAction(ctx *cli.Context) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	defer rt.Close()

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := rt.open(sigCtx)

	unsubscribe := rt.signal.Subscribe(func(online bool) {
		if online {
			pterm.Success.Println("Remote task store is reachable")
			return
		}

		pterm.Warning.Println("Remote task store is unreachable, saving locally")
	})
	defer unsubscribe()

	if rt.probe != nil {
		go rt.probe.Run(sigCtx, rt.cfg.Remote.ProbeInterval)
	}

	pterm.Info.Printfln(
		"Watching %s (loaded from %s). Saving every %s. Press Ctrl-C to stop",
		p.Ledger().Date(),
		p.Source(),
		rt.cfg.Sync.AutosaveInterval,
	)

	p.Run(sigCtx, rt.cfg.Sync.AutosaveInterval, func(status reconcile.Status, err error) {
		report.SaveOutcome(status, err)
	})

	p.Refresh()

	status, err := p.Save(context.WithoutCancel(ctx.Context))

	report.SaveOutcome(status, err)

	return report.Reported(err)
}

// importAction loads a {date: intervals} JSON export into the local store.
// Days that are not valid ledgers are skipped.
func importAction(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return errors.New("usage: dayplan import FILE")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string][]models.Task
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	defer rt.Close()

	days, skipped := validDays(raw)

	for _, d := range skipped {
		pterm.Warning.Printfln("Skipping %s: %v", d.date, d.err)
	}

	if len(days) == 0 {
		return errImportEmpty.Fmt(path)
	}

	if err := rt.cache.Import(rt.sess.Key(), days); err != nil {
		return err
	}

	pterm.Success.Printfln("Imported %d day(s). Run 'dayplan --date DATE sync' to push them", len(days))

	return nil
}

type skippedDay struct {
	err  error
	date string
}

// validDays normalizes each imported day and drops the ones that do not form
// a valid ledger.
func validDays(raw map[string][]models.Task) (map[string][]models.Task, []skippedDay) {
	days := make(map[string][]models.Task, len(raw))

	var skipped []skippedDay

	for date, tasks := range raw {
		if _, err := time.Parse(timeutil.DateFormat, date); err != nil {
			skipped = append(skipped, skippedDay{date: date, err: err})
			continue
		}

		l := ledger.FromTasks(date, tasks)
		if err := l.Validate(); err != nil {
			skipped = append(skipped, skippedDay{date: date, err: err})
			continue
		}

		days[date] = l.Tasks()
	}

	sort.Slice(skipped, func(i, j int) bool {
		return skipped[i].date < skipped[j].date
	})

	return days, skipped
}

// serveAction runs the reference remote task store.
func serveAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}

	defer closeLog()

	db, err := store.NewClient(cfg.System.ServerDBPath, log)
	if err != nil {
		return err
	}

	defer db.Close()

	gin.SetMode(gin.ReleaseMode)

	addr := firstNonEmptyString(ctx.String("addr"), cfg.Server.Addr)

	tokens := cfg.ServerTokens()
	if len(tokens) == 0 {
		pterm.Warning.Println("No server.tokens configured: every request is served as the anonymous user")
	}

	pterm.Info.Printfln("Serving the task store at http://%s/api", addr)

	log.Info("starting task store", slog.String("addr", addr), slog.Int("users", len(tokens)))

	return remote.NewServer(db, tokens, log).Run(addr)
}

// editConfigAction handles the edit-config command which opens the dayplan
// config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	// Writes the default config on first use.
	if _, err := loadConfig(ctx); err != nil {
		return err
	}

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if DAYPLAN_NO_COLOR is set
	if _, exists := os.LookupEnv(envDayplanNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting dayplan", slog.String("command", ctx.Args().First()))

	return nil
}
