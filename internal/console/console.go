// Package console is a line-oriented workout session client. It drives a
// session.Store and session.Saver and reads history through the remote data
// gateway.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/claude/ironlog/internal/format"
	"github.com/claude/ironlog/internal/guidance"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))
)

// Remote is the read side of the data gateway used by the console.
type Remote interface {
	FetchCatalog(ctx context.Context, query string) ([]models.CatalogExercise, error)
	FetchWorkoutHistory(ctx context.Context, userID string) ([]models.WorkoutRecord, error)
	FetchProfileStats(ctx context.Context, userID string) (*models.ProfileStats, error)
	DeleteWorkout(ctx context.Context, id string) error
}

// Console reads commands from in and writes results to out.
type Console struct {
	store     *session.Store
	saver     *session.Saver
	remote    Remote
	guide     guidance.Generator
	stopwatch *session.Stopwatch
	userID    string
	log       *slog.Logger

	in  io.Reader
	out io.Writer
	now func() time.Time
}

// New creates a Console. guide may be nil.
func New(store *session.Store, saver *session.Saver, remote Remote, guide guidance.Generator,
	stopwatch *session.Stopwatch, userID string, in io.Reader, out io.Writer, log *slog.Logger) *Console {
	return &Console{
		store:     store,
		saver:     saver,
		remote:    remote,
		guide:     guide,
		stopwatch: stopwatch,
		userID:    userID,
		log:       log,
		in:        in,
		out:       out,
		now:       time.Now,
	}
}

// Run processes commands until EOF, "quit", or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	if len(c.store.Exercises()) == 0 {
		c.stopwatch.Restart()
	}

	fmt.Fprintln(c.out, titleStyle.Render("IronLog")+dimStyle.Render(" type 'help' for commands"))

	scanner := bufio.NewScanner(c.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := c.Exec(ctx, line); err != nil {
			fmt.Fprintln(c.out, errorStyle.Render(err.Error()))
		}
	}
}

// Exec runs a single command line.
func (c *Console) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		c.help()
		return nil
	case "catalog":
		return c.catalog(ctx, strings.Join(args, " "))
	case "add":
		return c.add(ctx, strings.Join(args, " "))
	case "list", "ls":
		c.list()
		return nil
	case "set":
		return c.addSet(args)
	case "reps":
		return c.updateSet(args, session.FieldReps)
	case "weight":
		return c.updateSet(args, session.FieldWeight)
	case "done":
		return c.toggle(args)
	case "rm":
		return c.remove(args)
	case "unit":
		return c.unit(args)
	case "save":
		return c.save(ctx)
	case "cancel":
		c.store.Reset()
		c.stopwatch.Restart()
		fmt.Fprintln(c.out, "Workout discarded.")
		return nil
	case "history":
		return c.history(ctx)
	case "stats":
		return c.stats(ctx)
	case "guide":
		return c.guidance(ctx, strings.Join(args, " "))
	case "delete":
		return c.delete(ctx, args)
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func (c *Console) help() {
	lines := [][2]string{
		{"catalog [query]", "browse exercises"},
		{"add <name>", "add an exercise to the workout"},
		{"list", "show the current workout"},
		{"set <ex>", "add a set to exercise number <ex>"},
		{"reps <ex> <set> <n>", "set reps"},
		{"weight <ex> <set> <n>", "set weight"},
		{"done <ex> <set>", "toggle a set's completion"},
		{"rm <ex> [set]", "remove an exercise or a set"},
		{"unit lbs|kg", "change the weight unit"},
		{"save", "save the workout"},
		{"cancel", "discard the workout"},
		{"history", "list saved workouts"},
		{"stats", "show profile totals"},
		{"guide <name>", "AI instructions for an exercise"},
		{"delete <id>", "delete a saved workout"},
		{"quit", "exit"},
	}
	for _, l := range lines {
		fmt.Fprintf(c.out, "  %-22s %s\n", l[0], dimStyle.Render(l[1]))
	}
}

func (c *Console) catalog(ctx context.Context, query string) error {
	list, err := c.remote.FetchCatalog(ctx, query)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No exercises found.")
		return nil
	}
	for _, ex := range list {
		fmt.Fprintf(c.out, "  %s %s\n", ex.Name, dimStyle.Render("("+ex.Difficulty.Label()+")"))
	}
	return nil
}

// add looks the name up in the catalog so the session carries the catalog id
// and canonical spelling. Unknown names are still added; saving will report
// them.
func (c *Console) add(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("usage: add <name>")
	}

	catalogID := ""
	list, err := c.remote.FetchCatalog(ctx, name)
	if err != nil {
		c.log.Warn("catalog lookup failed", "name", name, "error", err)
	}
	for _, ex := range list {
		if strings.EqualFold(ex.Name, name) {
			name, catalogID = ex.Name, ex.ID
			break
		}
	}
	if catalogID == "" {
		fmt.Fprintln(c.out, dimStyle.Render(name+" is not in the catalog"))
	}

	c.store.AddExercise(name, catalogID)
	fmt.Fprintf(c.out, "Added %s as exercise %d.\n", name, len(c.store.Exercises()))
	return nil
}

func (c *Console) list() {
	snap := c.store.Snapshot()
	fmt.Fprintf(c.out, "%s %s %s\n",
		titleStyle.Render("Workout"),
		dimStyle.Render(format.Clock(c.stopwatch.ElapsedSeconds())),
		dimStyle.Render("["+string(snap.WeightUnit)+"]"))
	if len(snap.Exercises) == 0 {
		fmt.Fprintln(c.out, "  No exercises yet. Use 'add <name>'.")
		return
	}
	for i, ex := range snap.Exercises {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, ex.Name)
		for j, s := range ex.Sets {
			mark := "[ ]"
			if s.IsCompleted {
				mark = doneStyle.Render("[x]")
			}
			fmt.Fprintf(c.out, "     %s %d: %s reps x %s %s\n", mark, j+1, orDash(s.Reps), orDash(s.Weight), s.WeightUnit)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (c *Console) addSet(args []string) error {
	ex, err := c.exerciseAt(args, "usage: set <ex>")
	if err != nil {
		return err
	}
	c.store.AddSet(ex.ID)
	fmt.Fprintf(c.out, "Added set %d to %s.\n", len(ex.Sets)+1, ex.Name)
	return nil
}

func (c *Console) updateSet(args []string, field session.Field) error {
	usage := fmt.Sprintf("usage: %s <ex> <set> <value>", field)
	if len(args) < 3 {
		return errors.New(usage)
	}
	ex, set, err := c.setAt(args[:2], usage)
	if err != nil {
		return err
	}
	if set.IsCompleted {
		return errors.New("set is completed; use 'done' to reopen it")
	}
	return c.store.UpdateSet(ex.ID, set.ID, field, strings.Join(args[2:], " "))
}

func (c *Console) toggle(args []string) error {
	ex, set, err := c.setAt(args, "usage: done <ex> <set>")
	if err != nil {
		return err
	}
	c.store.ToggleSetCompletion(ex.ID, set.ID)
	return nil
}

func (c *Console) remove(args []string) error {
	if len(args) >= 2 {
		ex, set, err := c.setAt(args, "usage: rm <ex> [set]")
		if err != nil {
			return err
		}
		c.store.RemoveSet(ex.ID, set.ID)
		return nil
	}
	ex, err := c.exerciseAt(args, "usage: rm <ex> [set]")
	if err != nil {
		return err
	}
	c.store.RemoveExercise(ex.ID)
	return nil
}

func (c *Console) unit(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: unit lbs|kg")
	}
	unit, err := models.ParseWeightUnit(args[0])
	if err != nil {
		return err
	}
	if err := c.store.SetWeightUnit(unit); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Weight unit set to %s.\n", unit)
	return nil
}

func (c *Console) save(ctx context.Context) error {
	id, err := c.saver.Save(ctx)
	if err != nil {
		return errors.New(session.UserMessage(err))
	}
	c.store.Reset()
	c.stopwatch.Restart()
	fmt.Fprintln(c.out, doneStyle.Render(session.UserMessage(nil))+dimStyle.Render(" ("+id+")"))
	return nil
}

func (c *Console) history(ctx context.Context) error {
	workouts, err := c.remote.FetchWorkoutHistory(ctx, c.userID)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(workouts) == 0 {
		fmt.Fprintln(c.out, "No workouts yet.")
		return nil
	}
	now := c.now()
	for i := range workouts {
		w := &workouts[i]
		vol, unit := w.Volume()
		fmt.Fprintf(c.out, "%s %s\n", titleStyle.Render(format.DateOf(w.Date, now)), dimStyle.Render(w.ID))
		fmt.Fprintf(c.out, "  %s · %d sets · %s %s\n",
			format.Duration(w.DurationSec), w.TotalSets(), strconv.FormatFloat(vol, 'f', -1, 64), unit)
		if names := w.ExerciseNames(); len(names) > 0 {
			fmt.Fprintf(c.out, "  %s\n", strings.Join(names, ", "))
		}
	}
	return nil
}

func (c *Console) stats(ctx context.Context) error {
	st, err := c.remote.FetchProfileStats(ctx, c.userID)
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}
	fmt.Fprintf(c.out, "Total workouts:   %d\n", st.TotalWorkouts)
	fmt.Fprintf(c.out, "Total duration:   %s\n", format.Duration(st.TotalDurationSec))
	fmt.Fprintf(c.out, "Average duration: %s\n", format.Duration(st.AverageDurationSec))
	return nil
}

func (c *Console) guidance(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("usage: guide <name>")
	}
	if c.guide == nil {
		return errors.New("AI guidance is not available")
	}
	fmt.Fprintln(c.out, dimStyle.Render("Asking the coach about "+name+"..."))
	text, err := c.guide.Generate(ctx, name)
	if err != nil {
		return fmt.Errorf("fetching guidance: %w", err)
	}
	fmt.Fprintln(c.out, text)
	return nil
}

func (c *Console) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <id>")
	}
	if err := c.remote.DeleteWorkout(ctx, args[0]); err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	fmt.Fprintln(c.out, "Workout deleted.")
	return nil
}

// exerciseAt resolves a 1-based exercise number.
func (c *Console) exerciseAt(args []string, usage string) (session.Exercise, error) {
	if len(args) < 1 {
		return session.Exercise{}, errors.New(usage)
	}
	n, err := strconv.Atoi(args[0])
	exercises := c.store.Exercises()
	if err != nil || n < 1 || n > len(exercises) {
		return session.Exercise{}, fmt.Errorf("no exercise %s", args[0])
	}
	return exercises[n-1], nil
}

// setAt resolves a 1-based exercise and set number pair.
func (c *Console) setAt(args []string, usage string) (session.Exercise, session.Set, error) {
	if len(args) < 2 {
		return session.Exercise{}, session.Set{}, errors.New(usage)
	}
	ex, err := c.exerciseAt(args[:1], usage)
	if err != nil {
		return session.Exercise{}, session.Set{}, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 || n > len(ex.Sets) {
		return session.Exercise{}, session.Set{}, fmt.Errorf("no set %s in %s", args[1], ex.Name)
	}
	return ex, ex.Sets[n-1], nil
}
