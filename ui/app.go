package ui

import (
	"context"
	"fmt"
	"strings"

	"cmdsaver/model"
	"cmdsaver/runner"
	"cmdsaver/snippets"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeDelete
	modeParam
)

const (
	fieldCommand = iota
	fieldDescription
	fieldTags
)

// App is the full-screen browser over the saved commands.
type App struct {
	ctx      context.Context
	svc      *snippets.Service
	shell    string
	records  []model.Record
	filtered []model.Record

	mode   mode
	cursor int
	width  int
	height int
	err    string
	status string

	searchInput textinput.Model

	output      viewport.Model
	outputLines []string
	running     bool
	outputChan  chan runner.OutputMsg

	formInputs []textinput.Model
	formFocus  int
	editing    *model.Record

	paramNames  []string
	paramValues map[string]string
	lastParams  map[string]string
	paramIndex  int
	paramInput  textinput.Model
	pending     *model.Record
}

func NewApp(ctx context.Context, svc *snippets.Service, shell string) (*App, error) {
	records, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}

	search := textinput.New()
	search.Placeholder = "Search commands..."
	search.Focus()

	return &App{
		ctx:         ctx,
		svc:         svc,
		shell:       shell,
		records:     records,
		filtered:    records,
		searchInput: search,
		output:      viewport.New(80, 10),
		paramValues: make(map[string]string),
	}, nil
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

type outputMsg runner.OutputMsg

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width - 4
		a.height = msg.Height - 2
		a.output.Width = a.width - 4
		a.output.Height = a.height / 3
		return a, nil

	case outputMsg:
		if msg.Done {
			a.running = false
			a.outputChan = nil
			if msg.ErrMsg != "" {
				a.outputLines = append(a.outputLines, errorStyle.Render("Error: "+msg.ErrMsg))
			}
			a.showOutput()
			return a, nil
		}
		line := msg.Line
		if msg.IsErr {
			line = errorStyle.Render(line)
		}
		a.outputLines = append(a.outputLines, line)
		a.showOutput()
		return a, waitForOutput(a.outputChan)

	case tea.KeyMsg:
		a.err = ""
		a.status = ""

		switch a.mode {
		case modeNormal:
			return a.updateNormal(msg)
		case modeAdd, modeEdit:
			return a.updateForm(msg)
		case modeDelete:
			return a.updateDelete(msg)
		case modeParam:
			return a.updateParam(msg)
		}
	}

	return a, nil
}

func (a *App) showOutput() {
	a.output.SetContent(strings.Join(a.outputLines, "\n"))
	a.output.GotoBottom()
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "up", "ctrl+k":
		if a.cursor > 0 {
			a.cursor--
		}

	case "down", "ctrl+j":
		if a.cursor < len(a.filtered)-1 {
			a.cursor++
		}

	case "enter":
		if len(a.filtered) > 0 && !a.running {
			return a.runSelected()
		}

	case "ctrl+a":
		a.mode = modeAdd
		a.editing = nil
		a.initForm(nil)
		return a, nil

	case "ctrl+e":
		if len(a.filtered) > 0 {
			a.mode = modeEdit
			rec := a.filtered[a.cursor]
			a.editing = &rec
			a.initForm(&rec)
		}
		return a, nil

	case "ctrl+d":
		if len(a.filtered) > 0 {
			a.mode = modeDelete
		}
		return a, nil

	case "esc":
		if a.searchInput.Value() == "" {
			return a, tea.Quit
		}
		a.searchInput.SetValue("")
		a.filter()

	default:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		a.filter()
		return a, cmd
	}

	return a, nil
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = modeNormal
		a.searchInput.Focus()
		return a, nil

	case "tab", "down":
		a.formFocus = (a.formFocus + 1) % len(a.formInputs)
		return a, a.focusFormInput()

	case "shift+tab", "up":
		a.formFocus--
		if a.formFocus < 0 {
			a.formFocus = len(a.formInputs) - 1
		}
		return a, a.focusFormInput()

	case "enter":
		return a.submitForm()

	default:
		var cmd tea.Cmd
		a.formInputs[a.formFocus], cmd = a.formInputs[a.formFocus].Update(msg)
		return a, cmd
	}
}

func (a *App) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if len(a.filtered) > 0 {
			rec := a.filtered[a.cursor]
			// The full id matches exactly this record.
			if _, err := a.svc.Delete(a.ctx, rec.ID); err != nil {
				a.err = err.Error()
			} else {
				a.status = "Deleted!"
				a.refresh()
			}
		}
		a.mode = modeNormal
		return a, nil

	case "n", "N", "esc":
		a.mode = modeNormal
		return a, nil
	}

	return a, nil
}

func (a *App) updateParam(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = modeNormal
		a.searchInput.Focus()
		return a, nil

	case "enter":
		a.paramValues[a.paramNames[a.paramIndex]] = a.paramInput.Value()
		a.paramIndex++

		if a.paramIndex >= len(a.paramNames) {
			return a.execute()
		}
		a.promptParam()
		return a, nil

	default:
		var cmd tea.Cmd
		a.paramInput, cmd = a.paramInput.Update(msg)
		return a, cmd
	}
}

func (a *App) runSelected() (tea.Model, tea.Cmd) {
	rec := a.filtered[a.cursor]
	a.pending = &rec
	a.paramValues = make(map[string]string)

	params := runner.ExtractParams(rec.Command)
	if len(params) == 0 {
		return a.execute()
	}

	a.lastParams = nil
	if u, ok, err := a.svc.Usage(rec.ID); err == nil && ok {
		a.lastParams = u.LastParams
	}

	a.mode = modeParam
	a.paramNames = params
	a.paramIndex = 0
	a.paramInput = textinput.New()
	a.paramInput.Focus()
	a.promptParam()
	return a, nil
}

// promptParam readies the input for the current parameter, prefilled with
// the value from the last run.
func (a *App) promptParam() {
	name := a.paramNames[a.paramIndex]
	a.paramInput.Placeholder = name
	a.paramInput.SetValue(a.lastParams[name])
	a.paramInput.CursorEnd()
}

func (a *App) execute() (tea.Model, tea.Cmd) {
	rec := a.pending
	final := runner.SubstituteParams(rec.Command, a.paramValues)

	if err := a.svc.MarkUsed(rec.ID, a.paramValues); err != nil {
		a.err = err.Error()
	}
	a.running = true
	a.outputLines = []string{cmdPreviewStyle.Render("$ " + final), ""}
	a.showOutput()

	a.mode = modeNormal
	a.searchInput.Focus()

	a.outputChan = make(chan runner.OutputMsg)
	go runner.Run(a.ctx, a.shell, final, a.outputChan)

	return a, waitForOutput(a.outputChan)
}

func waitForOutput(ch chan runner.OutputMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return outputMsg{Done: true}
		}
		return outputMsg(msg)
	}
}

func (a *App) initForm(rec *model.Record) {
	a.formInputs = make([]textinput.Model, 3)

	cmdInput := textinput.New()
	cmdInput.Placeholder = "Command (use {{param}} for dynamic values)"
	cmdInput.Focus()

	descInput := textinput.New()
	descInput.Placeholder = "Description"

	tagsInput := textinput.New()
	tagsInput.Placeholder = "Tags, comma-separated (optional)"

	if rec != nil {
		cmdInput.SetValue(rec.Command)
		descInput.SetValue(rec.Description)
		tagsInput.SetValue(strings.Join(rec.Tags, ", "))
	}

	a.formInputs[fieldCommand] = cmdInput
	a.formInputs[fieldDescription] = descInput
	a.formInputs[fieldTags] = tagsInput
	a.formFocus = 0
}

func (a *App) focusFormInput() tea.Cmd {
	for i := range a.formInputs {
		a.formInputs[i].Blur()
	}
	return a.formInputs[a.formFocus].Focus()
}

func (a *App) submitForm() (tea.Model, tea.Cmd) {
	command := strings.TrimSpace(a.formInputs[fieldCommand].Value())
	desc := strings.TrimSpace(a.formInputs[fieldDescription].Value())
	tags := model.ParseTags(a.formInputs[fieldTags].Value())

	if command == "" {
		a.err = "Command is required"
		return a, nil
	}

	if a.mode == modeAdd {
		if _, err := a.svc.Add(a.ctx, command, desc, tags); err != nil {
			a.err = err.Error()
			return a, nil
		}
		a.status = "Added!"
	} else {
		edit := snippets.Edit{Command: &command, Description: &desc, Tags: &tags}
		if _, err := a.svc.Edit(a.ctx, a.editing.ID, edit); err != nil {
			a.err = err.Error()
			return a, nil
		}
		a.status = "Updated!"
	}

	a.refresh()
	a.mode = modeNormal
	a.searchInput.Focus()
	return a, nil
}

func (a *App) refresh() {
	records, err := a.svc.List(a.ctx)
	if err != nil {
		a.err = err.Error()
		return
	}
	a.records = records
	a.filter()
}

func (a *App) filter() {
	a.filtered = FilterRecords(a.searchInput.Value(), a.records)
	if a.cursor >= len(a.filtered) {
		a.cursor = max(0, len(a.filtered)-1)
	}
}

// FilterRecords ranks records against an interactive query, best first.
// An empty query keeps every record in stored order.
func FilterRecords(query string, records []model.Record) []model.Record {
	if query == "" {
		return records
	}

	targets := make([]string, len(records))
	for i, r := range records {
		targets[i] = r.Description + " " + strings.Join(r.Tags, " ") + " " + r.Command
	}

	matches := fuzzy.Find(query, targets)
	filtered := make([]model.Record, len(matches))
	for i, m := range matches {
		filtered[i] = records[m.Index]
	}
	return filtered
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("cmdsaver"))
	b.WriteString("\n\n")

	b.WriteString(a.searchInput.View())
	b.WriteString("\n\n")

	listHeight := (a.height - a.output.Height - 10) / 2
	if listHeight < 3 {
		listHeight = 3
	}

	if a.mode == modeAdd || a.mode == modeEdit {
		b.WriteString(a.renderForm())
	} else {
		b.WriteString(a.renderList(listHeight))
	}

	if a.mode == modeDelete && len(a.filtered) > 0 {
		rec := a.filtered[a.cursor]
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("Delete '%s' (%s)? (y/n)", rec.Command, rec.ShortID())))
		b.WriteString("\n")
	}

	if a.mode == modeParam {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("Enter value for {{%s}}: ", a.paramNames[a.paramIndex])))
		b.WriteString(a.paramInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(outputTitleStyle.Render("OUTPUT"))
	b.WriteString("\n")
	b.WriteString(borderStyle.Width(a.width - 4).Render(a.output.View()))
	b.WriteString("\n")

	if a.err != "" {
		b.WriteString(errorStyle.Render("Error: " + a.err))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(successStyle.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString(a.renderHelp())

	return appStyle.Render(b.String())
}

func (a *App) renderList(height int) string {
	if len(a.filtered) == 0 {
		return mutedStyle.Render("No commands found. Press ctrl+a to add one.\n")
	}

	var lines []string
	start := 0
	if a.cursor >= height {
		start = a.cursor - height + 1
	}
	end := min(start+height, len(a.filtered))

	for i := start; i < end; i++ {
		rec := a.filtered[i]
		prefix := "  "
		style := normalStyle
		if i == a.cursor {
			prefix = "▸ "
			style = selectedStyle
		}

		title := style.Render(prefix+rec.Description) + " " + tagStyle.Render("["+rec.TagList()+"]")
		preview := cmdPreviewStyle.Render("  " + truncate(rec.Command, a.width-10))
		lines = append(lines, title, preview)
	}

	return strings.Join(lines, "\n") + "\n"
}

func (a *App) renderForm() string {
	var b strings.Builder

	title := "Add Command"
	if a.mode == modeEdit {
		title = "Edit Command"
	}
	b.WriteString(labelStyle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"Command", "Description", "Tags"}
	for i, input := range a.formInputs {
		b.WriteString(labelStyle.Render(labels[i] + ": "))
		style := inputStyle
		if i == a.formFocus {
			style = focusedInputStyle
		}
		b.WriteString(style.Width(a.width - 20).Render(input.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("tab: next field • enter: save • esc: cancel"))
	b.WriteString("\n")

	return b.String()
}

func (a *App) renderHelp() string {
	if a.mode != modeNormal {
		return ""
	}

	keys := []struct{ key, desc string }{
		{"enter", "run"},
		{"ctrl+a", "add"},
		{"ctrl+e", "edit"},
		{"ctrl+d", "delete"},
		{"esc", "clear/quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+helpStyle.Render(k.desc))
	}

	return strings.Join(parts, "  ")
}

// truncate shortens s to n terminal cells, ending in "...".
func truncate(s string, n int) string {
	if n < 4 {
		return s
	}
	return ansi.Truncate(s, n, "...")
}
