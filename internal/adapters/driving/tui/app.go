package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

const maxBarWidth = 60

// App is the batch progress view following the Elm architecture.
// It runs one batch and quits when the batch finishes.
type App struct {
	ports *Ports
	root  string
	opts  domain.BatchOptions

	ctx    context.Context
	cancel context.CancelFunc

	styles *styles.Styles
	keys   *keymap.KeyMap
	help   help.Model
	bar    progress.Model

	// updates carries progress from the batch workers to the model.
	// It is closed when the run returns.
	updates chan domain.BatchProgress

	last     domain.BatchProgress
	report   *domain.BatchReport
	err      error
	done     bool
	stopping bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a progress view that will run a batch over root.
func NewApp(ports *Ports, root string, opts domain.BatchOptions) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ports:   ports,
		root:    root,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		styles:  styles.DefaultStyles(),
		keys:    keymap.DefaultKeyMap(),
		help:    help.New(),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth/2)),
		updates: make(chan domain.BatchProgress),
	}, nil
}

// WithContext derives the batch context from ctx. Call it before the
// program starts.
func (a *App) WithContext(ctx context.Context) *App {
	a.cancel()
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// Init implements tea.Model. It starts the batch and the progress listener.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.run(), a.waitForProgress())
}

func (a *App) run() tea.Cmd {
	return func() tea.Msg {
		opts := a.opts
		next := opts.Progress
		opts.Progress = func(p domain.BatchProgress) {
			if next != nil {
				next(p)
			}
			select {
			case a.updates <- p:
			case <-a.ctx.Done():
			}
		}

		report, err := a.ports.Batch.Run(a.ctx, a.root, opts)
		close(a.updates)
		return messages.BatchFinished{Report: report, Err: err}
	}
}

func (a *App) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-a.updates
		if !ok {
			return nil
		}
		return messages.BatchProgressed{Progress: p}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.bar.Width = min(msg.Width-4, maxBarWidth)
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.BatchProgressed:
		a.last = msg.Progress
		return a, a.waitForProgress()

	case messages.BatchFinished:
		a.report = msg.Report
		a.err = msg.Err
		a.done = true
		a.cancel()
		return a, tea.Quit

	case messages.Quit:
		a.cancel()
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), a.keys.Quit):
		if a.done {
			return a, tea.Quit
		}
		// The batch returns promptly once cancelled; BatchFinished quits.
		a.stopping = true
		a.cancel()
	case keymap.Matches(msg.String(), a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("fatura batch"))
	b.WriteString(" ")
	b.WriteString(a.styles.Muted.Render(a.root))
	b.WriteString("\n\n")

	b.WriteString(a.bar.ViewAs(a.last.Percent()))
	b.WriteString("\n\n")

	counts := fmt.Sprintf("%d/%d bills", a.last.Done, a.last.Total)
	b.WriteString(a.styles.Value.Render(counts))
	if a.last.Failed > 0 {
		b.WriteString("  ")
		b.WriteString(a.styles.Error.Render(fmt.Sprintf("%d failed", a.last.Failed)))
	}
	b.WriteString("\n")

	if a.last.Last != "" {
		b.WriteString(a.styles.Muted.Render(a.last.Last))
		b.WriteString("\n")
	}

	switch {
	case a.done && a.err != nil:
		b.WriteString(a.styles.Error.Render("Stopped: " + a.err.Error()))
		b.WriteString("\n")
	case a.stopping:
		b.WriteString(a.styles.Warning.Render("Stopping..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	b.WriteString("\n")
	return b.String()
}

// Progress returns the last progress update received.
func (a *App) Progress() domain.BatchProgress {
	return a.last
}

// Report returns the finished batch report and the run error.
func (a *App) Report() (*domain.BatchReport, error) {
	if !a.done {
		return nil, ErrNotFinished
	}
	return a.report, a.err
}
