// Package progressui supplies the two workflow.ProgressSink implementations
// a CLI run can attach: a full-screen bubbletea program for an interactive
// terminal, and a one-line briandowns/spinner fallback otherwise. Both
// publish onto an internal/pipeline.EventBus rather than rendering directly
// from Context.ReportStepProgress, so the audit recorder can subscribe to
// the same stream without the engine knowing the UI exists.
package progressui

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"

	"txinstall/internal/pipeline"
	"txinstall/internal/workflow"
)

// SpinnerSink renders one line per step via github.com/briandowns/spinner.
// It is the right choice when stdout isn't a TTY capable of a full-screen
// bubbletea program, or when the caller just wants plain progress lines.
type SpinnerSink struct {
	bus *pipeline.EventBus
	s   *spinner.Spinner

	lastStep string
}

// NewSpinnerSink constructs a sink that publishes to bus as a side effect
// of rendering. bus may be nil, in which case only the terminal spinner
// runs.
func NewSpinnerSink(bus *pipeline.EventBus) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	return &SpinnerSink{bus: bus, s: s}
}

// Publish implements workflow.ProgressSink.
func (p *SpinnerSink) Publish(progress workflow.Progress) {
	stepChanged := progress.CurrentStepName != p.lastStep
	if stepChanged {
		if p.s.Active() {
			p.s.Stop()
			fmt.Printf("\033[32m✓\033[0m %s\n", p.lastStep)
		}
		p.s.Suffix = fmt.Sprintf(" [%d/%d] %s", progress.StepNumber, progress.TotalSteps, progress.CurrentStepName)
		p.s.Start()
		p.lastStep = progress.CurrentStepName
	}
	if p.bus != nil {
		if stepChanged {
			p.bus.Publish(pipeline.Event{
				Type:      pipeline.EventStepStart,
				Timestamp: time.Now(),
				Source:    progress.CurrentStepName,
			})
		}
		p.bus.Publish(pipeline.Event{
			Type:      pipeline.EventStepProgress,
			Timestamp: time.Now(),
			Source:    progress.CurrentStepName,
			Data:      progress,
		})
	}
}

// Done stops the spinner and prints a final mark for the last step shown,
// if any. Call it once after the engine call returns.
func (p *SpinnerSink) Done(success bool) {
	if !p.s.Active() {
		return
	}
	p.s.Stop()
	mark := "\033[32m✓\033[0m"
	if !success {
		mark = "\033[31m✗\033[0m"
	}
	fmt.Printf("%s %s\n", mark, p.lastStep)
}
