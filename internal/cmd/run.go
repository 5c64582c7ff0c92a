package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/elitectl/internal/errors"
	"github.com/Iron-Ham/elitectl/internal/event"
	"github.com/Iron-Ham/elitectl/internal/session"
	"github.com/Iron-Ham/elitectl/internal/target"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run <target>",
	Short: "Run the progress task without the panel",
	Long: `Start the progress task against target and tick it to 100% in the
foreground. Progress resumes from the stored value. The session must be
logged in first (see 'elitectl login').

Interrupting with Ctrl+C stops ticking and keeps the progress reached.`,
	Example: `  elitectl run +6281234567890`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("quiet", "q", false, "only print the completion message")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if !rt.ctrl.State().Authenticated {
		return fmt.Errorf("not logged in: run 'elitectl login' first")
	}

	lock, err := rt.acquireLock()
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	quiet, _ := cmd.Flags().GetBool("quiet")
	out := cmd.OutOrStdout()
	printer := newProgressPrinter(out)
	detach := func() {}
	if !quiet {
		detach = printer.attach(rt.bus)
	}
	defer detach()

	if _, err := rt.ctrl.StartTask(args[0]); err != nil {
		var verr *errors.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s", verr.Message())
		}
		return err
	}

	res, err := session.RunTask(ctx, rt.ctrl, session.ClockScheduler{})
	detach()
	printer.finish()
	if err != nil {
		rt.logger.LogError("task stopped", err, "progress", res.Progress)
	}
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(cmd.ErrOrStderr(), "Interrupted at %d%%\n", res.Progress)
		return nil
	case err != nil:
		return err
	}

	if res.Completed {
		fmt.Fprintln(out, target.CompletionMessage(rt.ctrl.Target()))
	}
	return nil
}

// progressPrinter draws a bar in place on a terminal and prints one line per
// tick anywhere else.
type progressPrinter struct {
	out     io.Writer
	bar     progress.Model
	inPlace bool
	drawn   bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	p := &progressPrinter{
		out: out,
		bar: progress.New(progress.WithGradient("#7f0000", "#ff1a1a"), progress.WithWidth(40)),
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.inPlace = true
	}
	return p
}

// attach prints every progress event published on bus and returns the
// function that detaches the printer again.
func (p *progressPrinter) attach(bus *event.Bus) func() {
	id := bus.Subscribe(event.TypeTaskProgress, func(e event.Event) {
		if pe, ok := e.(event.TaskProgressEvent); ok {
			p.print(pe.Progress)
		}
	})
	return func() { bus.Unsubscribe(id) }
}

func (p *progressPrinter) print(value int) {
	if p.inPlace {
		fmt.Fprintf(p.out, "\r%s", p.bar.ViewAs(float64(value)/100))
		p.drawn = true
		return
	}
	fmt.Fprintf(p.out, "progress %d%%\n", value)
}

func (p *progressPrinter) finish() {
	if p.drawn {
		fmt.Fprintln(p.out)
	}
}
