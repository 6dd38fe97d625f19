package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetgrid/pkg/core/grid"
	"github.com/matzehuels/magnetgrid/pkg/core/interact"
	"github.com/matzehuels/magnetgrid/pkg/core/resize"
	"github.com/matzehuels/magnetgrid/pkg/document"
	"github.com/matzehuels/magnetgrid/pkg/errors"
	"github.com/matzehuels/magnetgrid/pkg/store"
)

const (
	defaultPlayKey   = "playground"
	defaultPlayWidth = 600.0 // virtual container width in pixels
	maxUndo          = 50
)

// playOpts holds the command-line flags for the play command.
type playOpts struct {
	key            string
	watch          bool
	noSave         bool
	containerWidth float64
	chars          int
	logFile        string
}

func (c *CLI) playCommand() *cobra.Command {
	opts := playOpts{
		containerWidth: defaultPlayWidth,
		chars:          defaultGridChars,
	}

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Edit a layout interactively in the terminal",
		Long: `Open a layout in an interactive terminal grid.

Fields are moved with the keyboard the way a pointer would drag them: pick
a field up, move it over a row and drop it. Rows make room, resize and
compact exactly as they do in the engine. Every committed layout is saved
to the store under --key.

With a file argument the layout starts from that file; --watch reloads it
whenever the file changes on disk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) > 0 {
				file = args[0]
			}
			if opts.watch && file == "" {
				return errors.New(errors.ErrCodeInvalidInput, "--watch needs a layout file")
			}
			return c.runPlay(cmd.Context(), file, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "layout key to load and save (default: the file's key or "+defaultPlayKey+")")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the layout file when it changes")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not save committed layouts")
	cmd.Flags().Float64Var(&opts.containerWidth, "container-width", opts.containerWidth, "virtual container width in pixels")
	cmd.Flags().IntVar(&opts.chars, "chars", opts.chars, "characters per row")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write engine logs to this file")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, file string, opts playOpts) error {
	runner, err := c.newRunner(ctx, opts.noSave)
	if err != nil {
		return err
	}
	defer runner.Close()

	key := opts.key
	var initial grid.Layout
	if file != "" {
		l, docKey, err := readLayout(file)
		if err != nil {
			return err
		}
		initial = l
		if key == "" {
			key = docKey
		}
	}
	if key == "" {
		key = defaultPlayKey
	}
	if err := errors.ValidateLayoutKey(key); err != nil {
		return err
	}
	if file == "" {
		initial = runner.Store.LoadOrDefault(ctx, key, grid.Layout{})
	}

	// The terminal belongs to the TUI; engine logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, c.Logger.GetLevel())

	saver := store.NewAsyncSaver(runner.Store, 0)
	defer saver.Close()

	o, err := interact.New(c.Config.Grid, initial,
		interact.WithKey(key),
		interact.WithSaver(saver),
		interact.WithLogger(logger),
		interact.WithProfiles(c.Config.Profiles()),
		interact.WithContainerWidth(opts.containerWidth),
		interact.WithContext(ctx),
	)
	if err != nil {
		return err
	}

	m := newPlayModel(o, key, c.Config.FrameInterval(), opts.chars, logger)
	m.persist = func(l grid.Layout) { _ = saver.Save(ctx, key, l) }

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := document.Watch(watchCtx, file, func(doc document.Layout, err error) {
				p.Send(reloadMsg{doc: doc, err: err})
			})
			if err != nil && watchCtx.Err() == nil {
				p.Send(reloadMsg{err: err})
			}
		}()
	}

	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	saver.Flush()
	if !opts.noSave {
		printSuccess(c.out, "Saved %s", StyleHighlight.Render(key))
	}
	return nil
}

// =============================================================================
// playModel - Interactive grid editor
// =============================================================================

type (
	frameMsg  time.Time
	reloadMsg struct {
		doc document.Layout
		err error
	}
)

type playModel struct {
	o      *interact.Orchestrator
	cfg    grid.Config
	key    string
	frame  time.Duration
	chars  int
	logger *log.Logger

	// persist writes a layout that did not come from a commit (undo).
	persist func(grid.Layout)

	order   []string // every field, selection cycles through it
	cursor  int
	pointer interact.Point
	history []grid.Layout // committed layouts, oldest first
	undoing bool

	status    string
	statusErr bool
}

func newPlayModel(o *interact.Orchestrator, key string, frame time.Duration, chars int, logger *log.Logger) *playModel {
	m := &playModel{
		o:       o,
		cfg:     o.Config(),
		key:     key,
		frame:   frame,
		chars:   chars,
		logger:  logger,
		persist: func(grid.Layout) {},
		history: []grid.Layout{o.Layout()},
		status:  "tab selects a field, enter picks it up",
	}
	o.OnLayoutChanged(func(l grid.Layout) {
		if !m.undoing {
			m.history = append(m.history, l)
			if len(m.history) > maxUndo {
				m.history = m.history[len(m.history)-maxUndo:]
			}
		}
		m.refreshOrder()
	})
	m.refreshOrder()
	return m
}

func (m *playModel) Init() tea.Cmd {
	return m.tick()
}

func (m *playModel) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.o.Tick(time.Time(msg))
		return m, m.tick()
	case reloadMsg:
		m.reload(msg)
	case tea.KeyMsg:
		if m.handleKey(msg.String()) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleKey applies one key press and reports whether to quit.
func (m *playModel) handleKey(key string) bool {
	dragging := m.o.State() == interact.StateDragging || m.o.State() == interact.StatePreviewActive

	if dragging {
		colPx := m.o.ContainerWidth() / float64(m.cfg.Columns)
		switch key {
		case "left", "h":
			m.movePointer(-colPx, 0)
		case "right", "l":
			m.movePointer(colPx, 0)
		case "up", "k":
			m.movePointer(0, -m.cfg.RowHeight)
		case "down", "j":
			m.movePointer(0, m.cfg.RowHeight)
		case "enter", " ":
			m.report(m.o.DragEnd(m.selected()), "dropped "+m.selected())
		case "esc":
			m.report(m.o.DragCancel(m.selected()), "cancelled")
		case "ctrl+c", "q":
			_ = m.o.DragCancel(m.selected())
			return true
		}
		return false
	}

	switch key {
	case "ctrl+c", "q":
		m.o.Settle()
		return true
	case "tab", "down", "j":
		m.moveCursor(1)
	case "shift+tab", "up", "k":
		m.moveCursor(-1)
	case "enter", " ":
		m.pickUp()
	case "<":
		m.resize(resize.EdgeRight, -1)
	case ">":
		m.resize(resize.EdgeRight, 1)
	case "{":
		m.resize(resize.EdgeLeft, -1)
	case "}":
		m.resize(resize.EdgeLeft, 1)
	case "v":
		m.toggle()
	case "a":
		p, err := m.o.AddField("", 0)
		if m.report(err, "added "+p.ID) {
			m.selectID(p.ID)
		}
	case "u":
		m.undo()
	}
	return false
}

func (m *playModel) selected() string {
	if len(m.order) == 0 {
		return ""
	}
	return m.order[m.cursor]
}

func (m *playModel) moveCursor(delta int) {
	if len(m.order) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.order)) % len(m.order)
	_ = m.o.Tap(m.selected())
}

func (m *playModel) selectID(id string) {
	for i, candidate := range m.order {
		if candidate == id {
			m.cursor = i
			return
		}
	}
}

// refreshOrder rebuilds the selection order (rows top to bottom, then
// hidden fields) and keeps the cursor on the same field.
func (m *playModel) refreshOrder() {
	current := m.selected()
	l := m.o.Layout()
	m.order = m.order[:0]
	for _, p := range l.Ordered(m.cfg) {
		m.order = append(m.order, p.ID)
	}
	for _, id := range l.IDs() {
		if l[id].Hidden() {
			m.order = append(m.order, id)
		}
	}
	m.cursor = 0
	m.selectID(current)
}

func (m *playModel) pickUp() {
	id := m.selected()
	if id == "" {
		m.setStatus("no fields; press a to add one", true)
		return
	}
	p := m.o.Layout()[id]
	if p.Hidden() {
		m.setStatus(id+" is hidden; press v to show it", true)
		return
	}
	m.pointer = interact.Point{
		X: p.Position.X*m.o.ContainerWidth() + 1,
		Y: p.Position.Y + 1,
	}
	m.report(m.o.DragStart(id, m.pointer), "dragging "+id+"; arrows move, enter drops, esc cancels")
}

func (m *playModel) movePointer(dx, dy float64) {
	m.pointer.X += dx
	m.pointer.Y = max(m.pointer.Y+dy, 0)
	if err := m.o.DragMove(m.selected(), m.pointer); err != nil {
		m.setStatus(errors.UserMessage(err), true)
		return
	}
	if pv, ok := m.o.Preview(); ok {
		m.setStatus(fmt.Sprintf("row %d · %s", pv.TargetRow, pv.Strategy), false)
	}
}

// resize drags one edge a single width step in direction dir.
func (m *playModel) resize(edge resize.Edge, dir float64) {
	id := m.selected()
	if id == "" {
		return
	}
	delta := dir * (m.o.ContainerWidth()*m.cfg.ResizeStepFraction + 1)
	err := m.o.ResizeStart(id, edge)
	if err == nil {
		err = m.o.ResizeMove(id, edge, delta)
		if endErr := m.o.ResizeEnd(id, edge); err == nil {
			err = endErr
		}
	}
	m.report(err, fmt.Sprintf("resized %s (%s edge)", id, edge))
}

func (m *playModel) toggle() {
	id := m.selected()
	if id == "" {
		return
	}
	visible := m.o.Layout()[id].Hidden()
	verb := "hid "
	if visible {
		verb = "showed "
	}
	m.report(m.o.ToggleField(id, visible), verb+id)
}

// undo restores the previous committed layout and saves it.
func (m *playModel) undo() {
	if len(m.history) < 2 {
		m.setStatus("nothing to undo", true)
		return
	}
	m.history = m.history[:len(m.history)-1]
	prev := m.history[len(m.history)-1]

	m.undoing = true
	m.o.Reset(prev)
	m.undoing = false
	m.persist(prev)
	m.setStatus("undone", false)
}

func (m *playModel) reload(msg reloadMsg) {
	if msg.err != nil {
		m.setStatus("reload: "+errors.UserMessage(msg.err), true)
		return
	}
	l, err := grid.Parse(msg.doc)
	if err != nil {
		m.setStatus("reload: "+errors.UserMessage(err), true)
		return
	}
	m.o.Reset(l)
	m.persist(m.o.Layout())
	m.logger.Info("layout reloaded from disk", "fields", len(l))
	m.setStatus("reloaded from disk", false)
}

// report shows err, or ok when err is nil, and returns err == nil.
func (m *playModel) report(err error, ok string) bool {
	if err != nil {
		m.setStatus(errors.UserMessage(err), true)
		return false
	}
	m.setStatus(ok, false)
	return true
}

func (m *playModel) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("magnetgrid"))
	b.WriteString(StyleDim.Render(" · "))
	b.WriteString(StyleHighlight.Render(m.key))
	b.WriteString(StyleDim.Render(" · " + m.o.State().String()))
	b.WriteString("\n\n")

	view := gridView{cfg: m.cfg, width: m.chars, selected: m.selected()}
	if pv, ok := m.o.Preview(); ok {
		view.previewing = true
		view.selected = pv.FieldID
	}
	if g, ok := m.o.Ghost(); ok {
		view.ghost = &g
	}
	b.WriteString(view.render(m.o.Display()))

	var hidden []string
	for _, id := range m.order {
		if p, ok := m.o.Layout()[id]; ok && p.Hidden() {
			hidden = append(hidden, id)
		}
	}
	if len(hidden) > 0 {
		b.WriteString(StyleDim.Render("   hidden: " + strings.Join(hidden, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(styleIconError.Render(iconError) + " " + StyleWarning.Render(m.status))
	} else {
		b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.status)
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("tab select · enter drag/drop · </> right edge · {/} left edge · v show/hide · a add · u undo · q quit"))
	b.WriteString("\n")
	return b.String()
}
