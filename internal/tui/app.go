// Package tui provides the block-oriented terminal UI.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/blockshell/internal/engine"
	"github.com/fentz26/blockshell/internal/event"
)

// engineEventMsg wraps one terminal event from the bus.
type engineEventMsg struct {
	ev event.Event
}

// eventsClosedMsg signals that the bus has shut down.
type eventsClosedMsg struct{}

// App is the main TUI application model. It is the single consumer of
// the engine's event bus.
type App struct {
	engine *engine.Engine
	bus    *event.Bus

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool

	// searchMode shows the history search overlay.
	searchMode    bool
	searchQuery   string
	searchResults []string

	message string
}

// New creates the application model.
func New(eng *engine.Engine, bus *event.Bus) *App {
	input := textinput.New()
	input.Placeholder = "Type a command..."
	input.Prompt = "❯ "
	input.Focus()

	return &App{
		engine: eng,
		bus:    bus,
		input:  input,
	}
}

// Init subscribes to the event stream.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.waitForEvent())
}

// waitForEvent blocks on the bus and resurfaces the next event as a
// message. It is re-issued after every delivery.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.bus.Events()
		if !ok {
			return eventsClosedMsg{}
		}
		return engineEventMsg{ev: ev}
	}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		chromeHeight := 6 // title + status + input box
		if !a.ready {
			a.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = msg.Height - chromeHeight
		}
		a.refreshBlocks()
		return a, nil

	case engineEventMsg:
		a.applyEvent(msg.ev)
		a.refreshBlocks()
		return a, a.waitForEvent()

	case eventsClosedMsg:
		return a, tea.Quit

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// applyEvent routes one terminal event into engine bookkeeping.
func (a *App) applyEvent(ev event.Event) {
	switch typed := ev.(type) {
	case event.CommandOutput:
		a.engine.HandleCommandOutput(typed.ID, typed.Output, typed.IsStderr)
	case event.CommandFinished:
		a.engine.HandleCommandFinished(typed.ID, typed.ExitCode)
	case event.Error:
		a.message = typed.Message
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searchMode {
		return a.handleSearchKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		a.engine.Shutdown()
		return a, tea.Quit

	case tea.KeyCtrlR:
		a.searchMode = true
		a.searchQuery = ""
		a.searchResults = nil
		return a, nil

	case tea.KeyUp:
		if e := a.engine.History().Previous(); e != nil {
			a.input.SetValue(e.Command)
			a.input.CursorEnd()
		}
		return a, nil

	case tea.KeyDown:
		if e := a.engine.History().Next(); e != nil {
			a.input.SetValue(e.Command)
			a.input.CursorEnd()
		} else {
			a.input.SetValue("")
		}
		return a, nil

	case tea.KeyEnter:
		command := strings.TrimSpace(a.input.Value())
		a.input.SetValue("")
		if command == "" {
			return a, nil
		}
		a.message = ""
		if _, err := a.engine.Execute(command); err != nil {
			a.message = err.Error()
		}
		if !a.engine.IsRunning() {
			a.bus.Close()
		}
		a.refreshBlocks()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		a.searchMode = false
		return a, nil

	case tea.KeyEnter:
		if len(a.searchResults) > 0 {
			a.input.SetValue(a.searchResults[0])
			a.input.CursorEnd()
		}
		a.searchMode = false
		return a, nil

	case tea.KeyBackspace:
		if len(a.searchQuery) > 0 {
			a.searchQuery = a.searchQuery[:len(a.searchQuery)-1]
		}

	case tea.KeyRunes:
		a.searchQuery += string(msg.Runes)
	}

	a.searchResults = a.searchResults[:0]
	for _, m := range a.engine.History().SearchFuzzy(a.searchQuery) {
		a.searchResults = append(a.searchResults, m.Entry.Command)
		if len(a.searchResults) >= 8 {
			break
		}
	}
	return a, nil
}

// refreshBlocks re-renders the active session into the viewport.
func (a *App) refreshBlocks() {
	if !a.ready {
		return
	}
	id := a.engine.ActiveSessionID()
	blocks, err := a.engine.SessionBlocks(id)
	if err != nil {
		a.viewport.SetContent("")
		return
	}

	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(renderBlock(b))
	}
	a.viewport.SetContent(sb.String())
	a.viewport.GotoBottom()
}

// View renders the application.
func (a *App) View() string {
	if !a.ready {
		return "Starting blockshell..."
	}

	title := titleStyle.Render("blockshell")

	cwd := ""
	if s := a.engine.ActiveSession(); s != nil {
		cwd = s.CurrentDirectory
	}
	status := statusBarStyle.Width(a.width).Render(
		fmt.Sprintf("%s  |  history: %d", cwd, a.engine.History().Len()))

	var overlay string
	if a.searchMode {
		var sb strings.Builder
		sb.WriteString(metaStyle.Render("search: ") + a.searchQuery + "\n")
		for _, r := range a.searchResults {
			sb.WriteString("  " + commandStyle.Render(r) + "\n")
		}
		overlay = inputBoxStyle.Width(a.width - 2).Render(sb.String())
	}

	inputBox := inputBoxStyle.Width(a.width - 2).Render(a.input.View())

	help := helpStyle.Render("enter run · ↑/↓ recall · ctrl+r search · ctrl+c quit")
	if a.message != "" {
		help = errorStyle.Render(a.message)
	}

	sections := []string{title, a.viewport.View(), status}
	if overlay != "" {
		sections = append(sections, overlay)
	}
	sections = append(sections, inputBox, help)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
