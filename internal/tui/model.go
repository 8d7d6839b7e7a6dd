// Package tui is the interactive front-end. It owns the terminal and feeds
// key presses and request outcomes through todo.Reduce on the UI goroutine.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/todo"
)

// eventMsg carries a todo.Event back into Update.
type eventMsg struct{ ev todo.Event }

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirm
)

const (
	fieldTitle = iota
	fieldDescription
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item    model.Item
	editing bool
}

func (i listItem) Title() string       { return i.item.Title }
func (i listItem) Description() string { return i.item.Description }
func (i listItem) FilterValue() string { return i.item.Title + " " + i.item.Description }

// Single-line delegate: "> title  description"
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	title := it.item.Title
	if it.editing {
		title = editingStyle.Render(symEditing + " " + title)
	}
	line := title
	if it.item.Description != "" {
		line += "  " + mutedStyle.Render(it.item.Description)
	}
	if !it.item.Persisted() {
		line += "  " + pendingStyle.Render(symUnsaved)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Model is the Bubble Tea model wrapping a todo.State.
type Model struct {
	ctx   context.Context
	api   todo.API
	log   zerolog.Logger
	state todo.State
	keys  keyMap

	list    list.Model
	inputs  [2]textinput.Model
	focus   int
	mode    mode
	prompt  string
	pending string // id awaiting confirmation
	spinner spinner.Model
	width   int
	height  int

	init    tea.Cmd
	animate bool
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// New builds the model and queues the initial load.
func New(ctx context.Context, api todo.API, log zerolog.Logger) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 76, 20)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.browse
	l.AdditionalFullHelpKeys = keys.browse

	m := Model{
		ctx:     ctx,
		api:     api,
		log:     log,
		keys:    keys,
		list:    l,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		width:   80,
		height:  24,
		animate: true,
		tick:    tea.Tick,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 200
		m.inputs[i] = ti
	}
	m.inputs[fieldTitle].Placeholder = "Title"
	m.inputs[fieldDescription].Placeholder = "Description"

	m, m.init = m.dispatch(todo.Load{})
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, api todo.API, log zerolog.Logger) error {
	p := tea.NewProgram(New(ctx, api, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// State exposes the controller state, mostly for tests.
func (m Model) State() todo.State { return m.state }

func (m Model) Init() tea.Cmd { return m.init }

// dispatch reduces ev and turns the resulting effects into commands.
func (m Model) dispatch(ev todo.Event) (Model, tea.Cmd) {
	wasBusy := m.state.InFlight > 0

	var effects []todo.Effect
	m.state, effects = todo.Reduce(m.state, ev)
	m.log.Debug().Type("event", ev).Int("in_flight", m.state.InFlight).Msg("reduced")

	cmds := make([]tea.Cmd, 0, len(effects)+2)
	for _, eff := range effects {
		switch e := eff.(type) {
		case todo.Confirm:
			m.mode = modeConfirm
			m.pending = e.ID
			m.prompt = e.Prompt
		case todo.ExpireNotice:
			seq := e.Seq
			cmds = append(cmds, m.tick(e.After, func(time.Time) tea.Msg {
				return eventMsg{todo.NoticeExpired{Seq: seq}}
			}))
		default:
			cmds = append(cmds, m.exec(eff))
		}
	}

	m = m.afterReduce(ev)
	cmds = append(cmds, m.list.SetItems(m.listItems()))
	if m.animate && !wasBusy && m.state.InFlight > 0 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) exec(eff todo.Effect) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		ev, ok := todo.Exec(ctx, api, eff)
		if !ok {
			return nil
		}
		return eventMsg{ev}
	}
}

// afterReduce keeps the form in step with the controller state.
func (m Model) afterReduce(ev todo.Event) Model {
	switch ev := ev.(type) {
	case todo.Created:
		// keep the form if the user typed on after pressing enter
		title, desc := m.formValues()
		typed := todo.Draft{Title: strings.TrimSpace(title), Description: strings.TrimSpace(desc)}
		if ev.Err == nil && m.mode == modeAdd && typed == ev.Draft {
			m = m.closeForm()
		}
	case todo.BeginEdit:
		if m.state.Edit.Active() {
			m = m.openForm(modeEdit, m.state.Edit.Title, m.state.Edit.Description)
		}
	}
	if m.mode == modeEdit && !m.state.Edit.Active() {
		m = m.closeForm()
	}
	return m
}

func (m Model) listItems() []list.Item {
	items := make([]list.Item, 0, len(m.state.Items))
	for _, it := range m.state.Items {
		items = append(items, listItem{item: it, editing: it.Persisted() && it.ID == m.state.Edit.TargetID})
	}
	return items
}

func (m Model) openForm(md mode, title, description string) Model {
	m.mode = md
	m.inputs[fieldTitle].SetValue(title)
	m.inputs[fieldDescription].SetValue(description)
	m.inputs[fieldTitle].CursorEnd()
	m.inputs[fieldDescription].CursorEnd()
	return m.focusField(fieldTitle)
}

func (m Model) closeForm() Model {
	m.mode = modeBrowse
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	return m
}

func (m Model) focusField(f int) Model {
	m.focus = f
	for i := range m.inputs {
		if i == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m Model) formValues() (string, string) {
	return m.inputs[fieldTitle].Value(), m.inputs[fieldDescription].Value()
}

func (m Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m.dispatch(msg.ev)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.width-4, max(m.height-4, 3))
		return m, nil

	case spinner.TickMsg:
		if m.state.InFlight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Abort) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// keys belong to the filter input while it is open
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add):
		m = m.openForm(modeAdd, m.state.Draft.Title, m.state.Draft.Description)
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.dispatch(todo.BeginEdit{Item: it})
	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.dispatch(todo.Delete{ID: it.ID})
	case key.Matches(msg, m.keys.Reload):
		return m.dispatch(todo.Load{})
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		title, desc := m.formValues()
		if m.mode == modeAdd {
			return m.dispatch(todo.Submit{Draft: todo.Draft{Title: title, Description: desc}})
		}
		var inputCmd, saveCmd tea.Cmd
		m, inputCmd = m.dispatch(todo.EditInput{Title: title, Description: desc})
		m, saveCmd = m.dispatch(todo.SaveEdit{})
		return m, tea.Batch(inputCmd, saveCmd)
	case key.Matches(msg, m.keys.Next):
		return m.focusField((m.focus + 1) % len(m.inputs)), nil
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeEdit {
			return m.dispatch(todo.CancelEdit{})
		}
		return m.closeForm(), nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var ok bool
	switch {
	case key.Matches(msg, m.keys.Confirm):
		ok = true
	case key.Matches(msg, m.keys.Decline):
	default:
		return m, nil
	}
	id := m.pending
	m.mode, m.pending, m.prompt = modeBrowse, "", ""
	if m.state.Edit.Active() {
		m.mode = modeEdit
	}
	return m.dispatch(todo.DeleteConfirmed{ID: id, OK: ok})
}

func (m Model) header() string {
	unsaved := 0
	for _, it := range m.state.Items {
		if !it.Persisted() {
			unsaved++
		}
	}
	h := fmt.Sprintf("%s   %s %d", titleStyle.Render("Todos"), accentStyle.Render("Total"), len(m.state.Items))
	if unsaved > 0 {
		h += fmt.Sprintf("  %s %d", pendingStyle.Render(symUnsaved+" unsaved"), unsaved)
	}
	if m.state.InFlight > 0 {
		h += "  " + m.spinner.View()
	}
	return h
}

func (m Model) notice() string {
	if s := m.state.Notice.Success(); s != "" {
		return successStyle.Render("✔ " + s)
	}
	if s := m.state.Notice.Error(); s != "" {
		return errorStyle.Render("✖ " + s)
	}
	return ""
}

func (m Model) View() string {
	extra := 0
	var bottom []string

	switch m.mode {
	case modeAdd, modeEdit:
		label := "Add new item"
		if m.mode == modeEdit {
			label = "Edit item"
		}
		help := make([]string, 0, 3)
		for _, b := range m.keys.form() {
			help = append(help, b.Help().Key+" "+b.Help().Desc)
		}
		form := label + "\n" + m.inputs[fieldTitle].View() + "\n" + m.inputs[fieldDescription].View() +
			"\n" + helpStyle.Render(strings.Join(help, " • "))
		bottom = append(bottom, panelStyle.Render(form))
		extra += 6
	case modeConfirm:
		bottom = append(bottom, errorStyle.Render(m.prompt)+" "+helpStyle.Render("[y/n]"))
		extra++
	}
	if n := m.notice(); n != "" {
		bottom = append(bottom, n)
		extra++
	}

	m.list.Title = m.header()
	m.list.SetSize(m.width-4, max(m.height-4-extra, 3))

	content := m.list.View()
	if len(bottom) > 0 {
		content += "\n" + strings.Join(bottom, "\n")
	}
	return panelStyle.Render(content)
}
