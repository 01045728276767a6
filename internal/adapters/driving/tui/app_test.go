package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

func newTestApp(t *testing.T, svc *MockBatchService) *App {
	t.Helper()
	app, err := NewApp(&Ports{Batch: svc}, "/bills", domain.BatchOptions{Workers: 1})
	require.NoError(t, err)
	return app
}

// drain collects progress messages until the updates channel closes.
func drain(app *App) []messages.BatchProgressed {
	var out []messages.BatchProgressed
	for {
		msg := app.waitForProgress()()
		if msg == nil {
			return out
		}
		out = append(out, msg.(messages.BatchProgressed))
	}
}

func TestNewApp_Success(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})

	assert.NotNil(t, app)
	assert.Equal(t, domain.BatchProgress{}, app.Progress())
}

func TestNewApp_MissingBatchService(t *testing.T) {
	app, err := NewApp(&Ports{}, "/bills", domain.BatchOptions{})

	assert.ErrorIs(t, err, ErrMissingBatchService)
	assert.Nil(t, app)
}

func TestNewApp_NilPorts(t *testing.T) {
	_, err := NewApp(nil, "/bills", domain.BatchOptions{})

	assert.ErrorIs(t, err, ErrMissingBatchService)
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})

	assert.NotNil(t, app.Init())
}

func TestApp_RunStreamsProgressAndFinishes(t *testing.T) {
	svc := &MockBatchService{
		Paths: []string{"/bills/a.pdf", "/bills/b.pdf"},
		Fail:  map[string]string{"/bills/b.pdf": "failed to parse PDF"},
	}
	app := newTestApp(t, svc)

	done := make(chan tea.Msg, 1)
	go func() { done <- app.run()() }()

	updates := drain(app)
	require.Len(t, updates, 2)
	assert.Equal(t, 1, updates[1].Progress.Failed)

	finished, ok := (<-done).(messages.BatchFinished)
	require.True(t, ok)
	require.NoError(t, finished.Err)
	assert.Len(t, finished.Report.Items, 2)
}

func TestApp_RunCallsCallerProgress(t *testing.T) {
	svc := &MockBatchService{Paths: []string{"/bills/a.pdf"}}
	var seen []domain.BatchProgress
	app, err := NewApp(&Ports{Batch: svc}, "/bills", domain.BatchOptions{
		Progress: func(p domain.BatchProgress) { seen = append(seen, p) },
	})
	require.NoError(t, err)

	done := make(chan tea.Msg, 1)
	go func() { done <- app.run()() }()
	drain(app)
	<-done

	require.Len(t, seen, 1)
	assert.Equal(t, "/bills/a.pdf", seen[0].Last)
}

func TestApp_Update_Progress(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})

	model, cmd := app.Update(messages.BatchProgressed{
		Progress: domain.BatchProgress{Done: 1, Total: 4, Failed: 1, Last: "/bills/a.pdf"},
	})

	assert.Equal(t, app, model)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, app.Progress().Done)

	view := app.View()
	assert.Contains(t, view, "1/4 bills")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "/bills/a.pdf")
}

func TestApp_Update_Finished(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})
	report := &domain.BatchReport{RunID: "run-1"}

	_, cmd := app.Update(messages.BatchFinished{Report: report})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	got, err := app.Report()
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestApp_Report_BeforeFinish(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})

	_, err := app.Report()

	assert.ErrorIs(t, err, ErrNotFinished)
}

func TestApp_QuitKeyCancelsRunningBatch(t *testing.T) {
	svc := &MockBatchService{Block: true}
	app := newTestApp(t, svc)

	done := make(chan tea.Msg, 1)
	go func() { done <- app.run()() }()

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd)
	assert.Contains(t, app.View(), "Stopping")

	finished := (<-done).(messages.BatchFinished)
	assert.ErrorIs(t, finished.Err, context.Canceled)

	app.Update(finished)
	_, err := app.Report()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, app.View(), "Stopped")
}

func TestApp_QuitKeyAfterFinish(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})
	app.Update(messages.BatchFinished{Report: &domain.BatchReport{}})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, app.help.ShowAll)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.False(t, app.help.ShowAll)
}

func TestApp_WindowSizeBoundsBar(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})

	app.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, maxBarWidth, app.bar.Width)

	app.Update(tea.WindowSizeMsg{Width: 30, Height: 40})
	assert.Equal(t, 26, app.bar.Width)
}

func TestApp_WithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	app := newTestApp(t, &MockBatchService{Block: true}).WithContext(ctx)

	done := make(chan tea.Msg, 1)
	go func() { done <- app.run()() }()
	cancel()

	finished := (<-done).(messages.BatchFinished)
	assert.True(t, errors.Is(finished.Err, context.Canceled))
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, &MockBatchService{})

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
