package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"txinstall/internal/audit"
	"txinstall/internal/config"
	"txinstall/internal/logging"
	"txinstall/internal/manifest"
	"txinstall/internal/pipeline"
	"txinstall/internal/progressui"
	"txinstall/internal/workflow"
)

var installPath string

var installCmd = &cobra.Command{
	Use:   "install <manifest.yaml>",
	Short: "Validate and execute every step in a manifest",
	Long: `install loads a manifest, validates every step up front, then executes
them in order. If a step fails, already-executed steps are rolled back in
reverse unless the manifest disables rollbackOnFailure.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflow(args[0], func(e *workflow.Engine) (workflow.WorkflowSummary, error) {
			return e.Install(context.Background())
		})
	},
}

func init() {
	installCmd.Flags().StringVar(&installPath, "installation-path", "", "installation root passed to every step's Context")
	rootCmd.AddCommand(installCmd)
}

// runWorkflow is the shared scaffolding behind install/uninstall/repair:
// load the manifest, wire up a progress sink appropriate to the terminal,
// run the given engine call, print the result and record it to the audit
// journal.
func runWorkflow(manifestPath string, call func(*workflow.Engine) (workflow.WorkflowSummary, error)) error {
	base := workflow.DefaultWorkflowOptions()
	base.RequireAdministrator = config.Current.RequireAdministrator
	base.RollbackOnFailure = config.Current.SafeMode
	if config.Current.GlobalDeadline > 0 {
		base.Deadline = config.Current.GlobalDeadline
	}

	m, err := manifest.LoadFile(manifestPath, manifest.Builtins(), base)
	if err != nil {
		return fmt.Errorf("load manifest %q: %w", manifestPath, err)
	}

	logger := logging.New("txinstall")
	bus := pipeline.NewEventBus()
	bus.SubscribeAll(func(ev pipeline.Event) {
		logger.Debug("event", "type", ev.Type, "source", ev.Source)
	})

	interactive := isatty.IsTerminal(os.Stdout.Fd())

	var sink workflow.ProgressSink
	var spinnerSink *progressui.SpinnerSink
	var tuiSink *progressui.TUISink
	if interactive {
		tuiSink = progressui.NewTUISink(bus)
		sink = tuiSink
	} else {
		spinnerSink = progressui.NewSpinnerSink(bus)
		sink = spinnerSink
	}

	engine, err := workflow.NewEngine(m.Steps, m.Options,
		workflow.WithLogger(logger),
		workflow.WithProgressSink(sink),
		workflow.WithInstallationPath(installPath),
	)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	var summary workflow.WorkflowSummary
	var callErr error
	if tuiSink != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			summary, callErr = call(engine)
			tuiSink.Finish(summary.Success, summary.Message)
		}()
		if err := tuiSink.Run(); err != nil {
			return fmt.Errorf("progress UI: %w", err)
		}
		<-done
	} else {
		summary, callErr = call(engine)
		if spinnerSink != nil {
			spinnerSink.Done(summary.Success)
		}
	}

	if callErr != nil {
		return callErr
	}

	store, err := audit.Open(audit.DefaultPath())
	if err == nil {
		defer store.Close()
		if recErr := store.Record(summary); recErr != nil {
			logger.Warn("failed to record run to audit journal", "run_id", summary.RunID, "error", recErr)
		}
	} else {
		logger.Warn("failed to open audit journal", "error", err)
	}

	fmt.Println(summary.Message)
	if !summary.Success {
		os.Exit(1)
	}
	return nil
}
