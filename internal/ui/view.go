package ui

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"carousel/internal/deck"
	"carousel/internal/layout"
	"carousel/internal/motion"
	"carousel/internal/session"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

const (
	// Points a single scroll key or wheel notch moves a card.
	scrollStep = 48
	// Release velocity, in points per second, of a key or wheel scroll.
	scrollVelocity = 200
	// A pull is a long downward drag, far enough to cross the dismiss
	// threshold in one step.
	pullStep = 80

	closeKey = "close"
)

type applyMsg struct {
	fn func(*Root)
}

type animateMsg time.Time

type carouselKeyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Down    key.Binding
	Up      key.Binding
	Pull    key.Binding
	Open    key.Binding
	Close   key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k carouselKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Down, k.Up, k.Open, k.Dismiss, k.Help}
}

func (k carouselKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Down, k.Up}, {k.Pull, k.Open, k.Close}, {k.Dismiss, k.Help, k.Quit}}
}

type Root struct {
	theme       Theme
	ascii       bool
	debug       bool
	ctrl        Controller
	motionLevel string
	mouseScope  string
	grid        Grid
	deck        deck.Deck

	session *session.Session
	cards   []*CardView

	layout    LayoutMode
	cols      int
	rows      int
	sized     bool
	help      help.Model
	keymap    carouselKeyMap
	expansion progress.Model
	logger    *clog.Logger

	closer    *motion.Animator
	closeDrop float64
	dismissed bool
	ticking   bool

	statusFlash    string
	lastInputEvent string

	mu      sync.Mutex
	program *tea.Program
	running bool
}

type Options struct {
	ASCIIOnly   bool
	Debug       bool
	MotionLevel string
	MouseScope  string
	Deck        deck.Deck
	Layout      layout.Parameters
	Grid        Grid
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "carousel-ui", Level: clog.WarnLevel})
	sessionLogger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "carousel-session", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
		sessionLogger.SetLevel(clog.DebugLevel)
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := motion.NormalizeLevel(opts.MotionLevel)
	mouseScope := normalizeMouseScope(opts.MouseScope)
	expansion := progress.New(
		progress.WithWidth(16),
		progress.WithColors(lipgloss.Color("#5EC2FF"), lipgloss.Color("#79E6A6")),
		progress.WithScaled(true),
	)

	d := opts.Deck
	if len(d.Cards) == 0 {
		d = deck.Builtin()
	}
	grid := opts.Grid.normalized()
	params := opts.Layout
	if params == (layout.Parameters{}) {
		params = layout.DefaultParameters()
	}

	r := &Root{
		theme:       DefaultTheme(),
		ascii:       opts.ASCIIOnly,
		debug:       opts.Debug,
		motionLevel: motionLevel,
		mouseScope:  mouseScope,
		grid:        grid,
		deck:        d,
		layout:      LayoutWide,
		cols:        120,
		rows:        30,
		help:        h,
		expansion:   expansion,
		logger:      logger,
		closer:      motion.NewAnimator(motionLevel),
	}
	r.session = session.New(params, session.Options{
		Logger:      sessionLogger,
		MotionLevel: motionLevel,
		OnDismiss:   r.onDismiss,
	})
	for i, c := range d.Cards {
		view := NewCardView(i, c, grid)
		r.cards = append(r.cards, view)
		r.session.RegisterCard(i, session.NewCard(view))
	}
	r.keymap = carouselKeyMap{
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "back")),
		Pull:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "pull to close")),
		Open:    key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "open")),
		Close:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "close button")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	r.resize(r.cols, r.rows)
	return r
}

// Session exposes the presentation driven by this view.
func (r *Root) Session() *session.Session { return r.session }

func (r *Root) Init() tea.Cmd {
	return nil
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.resize(msg.Width, msg.Height)
		r.dispatchController(func(c Controller) { c.OnResize(msg.Width, msg.Height) })
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case animateMsg:
		r.ticking = false
		r.session.Tick()
		if r.dismissed {
			for _, f := range r.closer.Step() {
				r.closeDrop = f.Pos
			}
			if !r.closer.Active() {
				return r, tea.Quit
			}
		}
		return r, r.animateIfNeeded()
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.MouseWheelMsg:
		return r.handleMouseWheel(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	var base string
	if r.layout == LayoutTooSmall {
		base = r.renderTooSmall()
	} else {
		lines := make([]string, 0, r.rows)
		lines = append(lines, r.theme.Header.Width(r.cols).Render(trimForWidth(r.headerText(), max(1, r.cols-2))))
		lines = append(lines, r.renderCards().lines()...)
		lines = append(lines, r.theme.Status.Width(r.cols).Render(r.statusText(max(1, r.cols-2))))
		base = strings.Join(lines, "\n")
	}
	v := tea.NewView(base)
	v.AltScreen = true
	v.MouseMode = r.currentMouseMode()
	v.WindowTitle = r.deck.Title
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

// Do runs fn against the session on the UI goroutine.
func (r *Root) Do(fn func(*session.Session)) {
	if fn == nil {
		return
	}
	r.apply(func(m *Root) { fn(m.session) })
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

// dispatchController calls the controller on the UI goroutine. The session
// is single-threaded, so controller callbacks run inline and must not block.
func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	fn(r.ctrl)
}

func (r *Root) resize(cols, rows int) {
	r.cols = max(1, cols)
	r.rows = max(1, rows)
	r.layout = DetermineLayoutMode(r.cols, r.rows)
	focused := r.deck.InitialIndex
	if r.sized {
		focused = r.session.FocusedCard()
	}
	r.session.SetViewport(r.grid.Viewport(r.cols, r.rows-chromeRows))
	r.sized = true
	r.session.ScrollToItem(focused, false)
}

func (r *Root) onDismiss() {
	r.dismissed = true
	r.closer.Start(closeKey, 0, r.session.Viewport().H)
	reason := r.session.DismissReason()
	r.statusFlash = "closing (" + reason + ")"
	r.dispatchController(func(c Controller) { c.OnDismissed(reason) })
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keymap.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, tea.Quit
	}
	if key.Matches(msg, r.keymap.Help) {
		r.help.ShowAll = !r.help.ShowAll
		return r, nil
	}
	if r.dismissed {
		return r, nil
	}
	r.statusFlash = ""

	card := r.session.FocusedCard()
	switch {
	case key.Matches(msg, r.keymap.Prev):
		if !r.session.Page(-1) {
			r.statusFlash = r.pageRefusal()
		}
	case key.Matches(msg, r.keymap.Next):
		if !r.session.Page(1) {
			r.statusFlash = r.pageRefusal()
		}
	case key.Matches(msg, r.keymap.Down):
		r.scroll(card, scrollStep)
	case key.Matches(msg, r.keymap.Up):
		r.scroll(card, -scrollStep)
	case key.Matches(msg, r.keymap.Pull):
		r.pull(card)
	case key.Matches(msg, r.keymap.Open):
		r.session.Expand(card)
	case key.Matches(msg, r.keymap.Close):
		if card < len(r.cards) {
			r.cards[card].Close()
		}
	case key.Matches(msg, r.keymap.Dismiss):
		r.session.RequestDismiss()
	}
	return r, r.animateIfNeeded()
}

// scroll drags card by delta and releases it in the same direction, the
// way a short flick would.
func (r *Root) scroll(card int, delta float64) {
	if !r.session.Drag(card, delta) {
		return
	}
	if r.session.Closing() {
		return
	}
	velocity := 0.0
	if offset := r.session.Card(card).Offset(); offset > 0 {
		velocity = math.Copysign(scrollVelocity, delta)
	}
	r.session.Release(card, velocity)
}

func (r *Root) pull(card int) {
	if !r.session.Drag(card, -pullStep) {
		return
	}
	if r.session.Closing() {
		return
	}
	r.session.Release(card, 0)
}

func (r *Root) pageRefusal() string {
	if !r.session.Engine().ScrollEnabled() {
		return "collapse the card to page"
	}
	return ""
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_click:%d,%d button:%v", mouse.X, mouse.Y, mouse.Button))

	if r.mouseScope == "off" || mouse.Button != tea.MouseLeft || r.dismissed {
		return r, nil
	}
	row := mouse.Y - 1
	if row < 0 || row >= r.rows-chromeRows {
		return r, nil
	}
	r.session.Tap(r.grid.PointAt(mouse.X, row))
	return r, r.animateIfNeeded()
}

func (r *Root) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_wheel:%d,%d button:%v", mouse.X, mouse.Y, mouse.Button))

	if r.mouseScope == "off" || r.dismissed {
		return r, nil
	}
	card := r.session.FocusedCard()
	switch mouse.Button {
	case tea.MouseWheelDown:
		r.scroll(card, scrollStep)
	case tea.MouseWheelUp:
		r.scroll(card, -scrollStep)
	case tea.MouseWheelLeft:
		r.session.Page(-1)
	case tea.MouseWheelRight:
		r.session.Page(1)
	default:
		return r, nil
	}
	return r, r.animateIfNeeded()
}

func (r *Root) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small (%dx%d). Resize to at least 40x12.", r.cols, r.rows)
	return r.theme.Fail.Width(r.cols).Render(trimForWidth(msg, max(1, r.cols-1)))
}

// renderCards paints the visible items back to front so the focused card
// ends up on top of its neighbours.
func (r *Root) renderCards() *canvas {
	rows := max(0, r.rows-chromeRows)
	cv := newCanvas(r.cols, rows, r.theme.Backdrop)
	items := r.session.Visible()
	sort.SliceStable(items, func(i, j int) bool { return items[i].Scale < items[j].Scale })

	shiftX := r.session.Parameters().OffscreenMargin() + r.session.PageOffset()
	drop := r.closeDrop
	for _, a := range items {
		f := a.Frame()
		f.X -= shiftX
		f.Y += drop
		r.drawCard(cv, a, f)
	}
	return cv
}

func (r *Root) drawCard(cv *canvas, a layout.ItemAttributes, f layout.Rect) {
	if a.Index < 0 || a.Index >= len(r.cards) {
		return
	}
	view := r.cards[a.Index]
	card := r.session.Card(a.Index)
	bg := view.Card().Color
	ink := r.theme.inkFor(bg)
	c0, r0, c1, r1 := r.grid.Cells(f)
	cv.fill(c0, r0, c1, r1, bg)

	textLeft := c0 + cardPadCols
	textRight := c1 - cardPadCols
	lineH := r.grid.CellH * a.Scale
	top := f.Y - card.Offset()*a.Scale
	rowOf := func(line int) int {
		return r.grid.Row(top + float64(line)*lineH + lineH/2)
	}
	visible := func(row int) bool { return row >= r0 && row < r1 }

	cols := view.textCols(a.Size.W)
	heading := view.Heading(cols)
	for i, line := range heading {
		if row := rowOf(i); visible(row) {
			cv.text(textLeft, row, textRight, line, ink, true)
		}
	}
	bodyTop := len(heading) + cardTitleGap
	for i, line := range view.Lines(cols) {
		row := rowOf(bodyTop + i)
		if row >= r1 {
			break
		}
		if visible(row) {
			cv.text(textLeft, row, textRight, line, ink, false)
		}
	}
	if card.ShowsScrollIndicator() {
		r.drawIndicator(cv, view, card, a, c1-1, r0, r1, ink)
	}
}

func (r *Root) drawIndicator(cv *canvas, view *CardView, card *session.Card, a layout.ItemAttributes, col, r0, r1 int, ink string) {
	span := view.HeightFor(a.Size.W) - a.Size.H
	identity := r.session.Parameters().IdentityDistance
	if span < identity {
		span = identity
	}
	frac := math.Max(0, math.Min(1, card.Offset()/span))
	row := r0 + int(math.Round(frac*float64(max(0, r1-r0-1))))
	glyph := '┃'
	if r.ascii {
		glyph = '|'
	}
	cv.put(col, row, glyph, ink)
}

func (r *Root) headerText() string {
	s := r.session
	title := r.deck.Title
	if title == "" {
		title = "carousel"
	}
	focus := s.Focus()
	text := fmt.Sprintf("%s  card %d/%d  %s", title, s.FocusedCard()+1, s.ItemCount(), s.Phase())
	if r.debug {
		text += fmt.Sprintf("  focus=%d offset=%.0f decel=%t page=%.0f passes=%d",
			focus.Index, focus.Offset, focus.Decelerating, s.PageOffset(), s.Engine().Passes())
	}
	return text
}

func (r *Root) statusText(width int) string {
	left := r.help.View(r.keymap)
	if r.statusFlash != "" {
		left = r.theme.Accent.Render(r.statusFlash) + "  " + left
	}
	if r.layout != LayoutWide {
		return trimForWidth(left, width)
	}
	bar := r.expansionBar(16)
	room := width - ansi.StringWidth(bar) - 1
	if room < 8 {
		return trimForWidth(left, width)
	}
	return padRune(trimForWidth(left, room), room) + " " + bar
}

// expansionBar shows how far the focused card is from its expanded detent.
func (r *Root) expansionBar(width int) string {
	m := r.expansion
	m.SetWidth(max(8, width))
	return m.ViewAs(r.session.Engine().Progress())
}

func (r *Root) animateIfNeeded() tea.Cmd {
	if r.ticking {
		return nil
	}
	if !r.session.Animating() && !r.dismissed {
		return nil
	}
	if r.dismissed && r.motionLevel == "off" {
		r.closeDrop = r.session.Viewport().H
		return tea.Quit
	}
	r.ticking = true
	return animateTickCmd()
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func (r *Root) currentMouseMode() tea.MouseMode {
	if r.mouseScope == "off" {
		return tea.MouseModeNone
	}
	return tea.MouseModeCellMotion
}

func normalizeMouseScope(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}

	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"messageType", msgType,
		"layout", r.layout,
		"cols", r.cols,
		"rows", r.rows,
		"phase", r.session.Phase(),
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
