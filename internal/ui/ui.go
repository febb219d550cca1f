package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlanView ViewState = iota
	ConfirmView
	ExecuteView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.SyncEngine
	targets      []models.ArtistTarget
	opts         tasks.SyncOptions
	width        int
	height       int
	actionList   list.Model
	plan         []models.SyncAction
	planStarted  time.Time
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *models.SyncResult
	err          error
	help         help.Model
	keys         keyMap
}

type planBuiltMsg struct {
	plan []models.SyncAction
	err  error
}

type progressUpdateMsg tasks.ProgressUpdate

type executeCompleteMsg struct {
	result *models.SyncResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.SyncEngine, targets []models.ArtistTarget, opts tasks.SyncOptions) *Model {
	return &Model{
		ctx:     ctx,
		view:    PlanView,
		engine:  engine,
		targets: targets,
		opts:    opts,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the finished run, nil when execution never started.
func (m *Model) Result() *models.SyncResult {
	return m.result
}

// Err returns the terminal error, if any.
func (m *Model) Err() error {
	return m.err
}

// Init builds the plan in the background.
func (m *Model) Init() tea.Cmd {
	return m.buildPlan()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.actionList.Width() == 0 {
			m.actionList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlanView:
			return m.handlePlanKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case planBuiltMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.plan = msg.plan
		items := make([]list.Item, len(msg.plan))
		for i, action := range msg.plan {
			items[i] = actionItem{action: action}
		}
		m.actionList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.actionList.Title = planTitle(msg.plan, m.opts.DryRun)
		m.actionList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case executeCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == PlanView {
		var cmd tea.Cmd
		m.actionList, cmd = m.actionList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlanView:
		return m.renderPlan()
	case ConfirmView:
		return m.renderConfirm()
	case ExecuteView:
		return m.renderExecute()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlanKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if len(m.plan) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.actionList, cmd = m.actionList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = PlanView
		return m, nil
	case "y", "enter":
		m.view = ExecuteView
		return m, m.startExecution()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) buildPlan() tea.Cmd {
	m.planStarted = time.Now().UTC()
	return func() tea.Msg {
		plan, err := m.engine.Plan(m.ctx, m.targets, m.opts.ForceRefresh, nil)
		return planBuiltMsg{plan: plan, err: err}
	}
}

func (m *Model) startExecution() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.ExecutePlan(m.ctx, m.plan, m.opts, m.planStarted, progressChan)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return executeCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return executeCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func planTitle(plan []models.SyncAction, dryRun bool) string {
	subscribe := 0
	for _, action := range plan {
		if action.Type == models.ActionSubscribe {
			subscribe++
		}
	}
	mode := "live"
	if dryRun {
		mode = "dry-run"
	}
	return fmt.Sprintf("Sync plan (%s): %d targets, %d to subscribe", mode, len(plan), subscribe)
}

func (m *Model) renderPlan() string {
	if m.plan == nil {
		return styles.help.Render("Building plan...")
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.actionList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	subscribe := 0
	for _, action := range m.plan {
		if action.Type == models.ActionSubscribe {
			subscribe++
		}
	}

	var title string
	if m.opts.DryRun {
		title = styles.title.Render(fmt.Sprintf("Dry run: report %d subscriptions without applying?", subscribe))
	} else {
		title = styles.title.Render(fmt.Sprintf("Subscribe to %d channels?", subscribe))
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s", title, helpView)
}

func (m *Model) renderExecute() string {
	title := styles.title.Render("Executing plan")

	var phase string
	switch m.progress.Phase {
	case tasks.Execute:
		phase = fmt.Sprintf("Processing actions (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	var title string
	if m.result.Succeeded() {
		title = styles.ok.Render("✓ Sync complete")
	} else {
		title = styles.warn.Render("Sync completed with failures")
	}

	subscribed := m.result.Subscribed
	verb := "Subscribed"
	if m.result.DryRun {
		subscribed = m.result.WouldSubscribe
		verb = "Would subscribe"
	}

	info := fmt.Sprintf(
		"\n%s: %d\nAlready subscribed: %d\nUnresolved: %d\nFailed: %d",
		verb, subscribed, m.result.AlreadySubscribed, m.result.Unresolved, m.result.Failed,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = "\n"
		for _, outcome := range m.result.Outcomes {
			if outcome.Failed() {
				failed += styles.err.Render(fmt.Sprintf("\n  ✗ %s: %v", outcome.Action.Target.Name, outcome.Err))
			}
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s%s%s\n\n%s", title, info, failed, helpView)
}
