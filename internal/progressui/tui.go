package progressui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"txinstall/internal/pipeline"
	"txinstall/internal/textutil"
	"txinstall/internal/tui/theme"
	"txinstall/internal/workflow"
)

// progressMsg carries a workflow.Progress update into the bubbletea model.
type progressMsg workflow.Progress

// doneMsg ends the program, successfully or not.
type doneMsg struct {
	success bool
	message string
}

// tuiModel is a single-screen bubbletea program showing the active step
// name and an overall progress bar, styled with internal/tui/theme. An
// installer has one thing to show at a time, not a set of monitoring
// panels, so the model stays to one screen rather than a tabbed dashboard.
type tuiModel struct {
	bar      progress.Model
	current  workflow.Progress
	done     bool
	success  bool
	message  string
	width    int
	progress chan workflow.Progress
	finished chan doneMsg
}

func newTUIModel(updates chan workflow.Progress, finished chan doneMsg) tuiModel {
	bar := progress.New(progress.WithDefaultGradient())
	return tuiModel{bar: bar, progress: updates, finished: finished}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(waitForProgress(m.progress), waitForDone(m.finished))
}

func waitForProgress(ch chan workflow.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func waitForDone(ch chan doneMsg) tea.Cmd {
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return d
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case progressMsg:
		m.current = workflow.Progress(msg)
		return m, waitForProgress(m.progress)
	case doneMsg:
		m.done = true
		m.success = msg.success
		m.message = msg.message
		return m, tea.Quit
	default:
		return m, nil
	}
}

// lineWidth is the fallback wrap/truncate width used before the program
// has received its first tea.WindowSizeMsg.
const lineWidth = 80

func (m tuiModel) View() string {
	width := m.width
	if width <= 0 {
		width = lineWidth
	}
	if m.done {
		mark := theme.Running.Render("done")
		if !m.success {
			mark = theme.Stopped.Render("failed")
		}
		msg := textutil.WrapText(m.message, width-len(mark)-1)
		return fmt.Sprintf("%s %s\n", mark, msg)
	}
	title := theme.Title.Render("txinstall")
	stepName := textutil.TruncateWithEllipsis(m.current.CurrentStepName, width-10)
	step := theme.Header.Render(stepName)
	counter := theme.Dim.Render(fmt.Sprintf("step %d/%d", m.current.StepNumber, m.current.TotalSteps))
	bar := m.bar.ViewAs(float64(m.current.OverallPercent) / 100)
	return fmt.Sprintf("%s\n\n%s  %s\n%s\n", title, step, counter, bar)
}

// TUISink drives a full-screen bubbletea program from workflow.Progress
// updates. It must be started with Run in its own goroutine before the
// engine call begins, and stopped with Finish once the call returns.
type TUISink struct {
	bus      *pipeline.EventBus
	updates  chan workflow.Progress
	finished chan doneMsg
	program  *tea.Program
}

// NewTUISink constructs a sink. bus may be nil.
func NewTUISink(bus *pipeline.EventBus) *TUISink {
	updates := make(chan workflow.Progress, 16)
	finished := make(chan doneMsg, 1)
	model := newTUIModel(updates, finished)
	return &TUISink{
		bus:      bus,
		updates:  updates,
		finished: finished,
		program:  tea.NewProgram(model, tea.WithAltScreen()),
	}
}

// Publish implements workflow.ProgressSink.
func (t *TUISink) Publish(progress workflow.Progress) {
	select {
	case t.updates <- progress:
	default:
	}
	if t.bus != nil {
		t.bus.Publish(pipeline.Event{
			Type:      pipeline.EventStepProgress,
			Timestamp: time.Now(),
			Source:    progress.CurrentStepName,
			Data:      progress,
		})
	}
}

// Run starts the bubbletea program and blocks until it exits. Call it in
// its own goroutine; pair with Finish from the goroutine driving the
// engine call.
func (t *TUISink) Run() error {
	_, err := t.program.Run()
	return err
}

// Finish signals the program to show its terminal state and exit.
func (t *TUISink) Finish(success bool, message string) {
	t.finished <- doneMsg{success: success, message: message}
}
