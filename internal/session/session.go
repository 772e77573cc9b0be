package session

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"carousel/internal/interaction"
	"carousel/internal/layout"
	"carousel/internal/motion"

	"github.com/charmbracelet/log"
)

const (
	pageKey    = "page"
	cardPrefix = "card:"

	// Seconds of travel used to project a release velocity onto a
	// proposed resting offset.
	flingProjection = 0.25
	// Fraction of a page a keyboard page step proposes before snapping.
	pageStepFraction = 0.75
)

type Options struct {
	Logger      *log.Logger
	MotionLevel string
	// OnDismiss runs once, when the presentation enters the closing phase.
	OnDismiss func()
}

// Session is one carousel presentation. It owns the layout engine, the
// interaction coordinator and the card scroll surfaces, and translates host
// events into focus updates. Not safe for concurrent use.
type Session struct {
	params    layout.Parameters
	engine    *layout.Engine
	coord     *interaction.Coordinator
	anim      *motion.Animator
	logger    *log.Logger
	onDismiss func()

	viewport   layout.Size
	cards      []*Card
	pageOffset float64
	reason     string
}

func New(p layout.Parameters, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Session{
		params:    p,
		coord:     interaction.NewCoordinator(p),
		anim:      motion.NewAnimator(opts.MotionLevel),
		logger:    logger,
		onDismiss: opts.OnDismiss,
	}
	s.engine = layout.NewEngine(p, s)
	return s
}

func (s *Session) Bounds() layout.Size {
	m := s.params.OffscreenMargin()
	return layout.Size{W: s.viewport.W + 2*m, H: s.viewport.H}
}

func (s *Session) ItemCount() int { return len(s.cards) }

func (s *Session) ContentOffset() layout.Point { return layout.Point{X: s.pageOffset} }

func (s *Session) ContentInset() float64 { return 0 }

func (s *Session) Parameters() layout.Parameters { return s.params }

func (s *Session) Geometry() layout.Geometry { return s.engine }

func (s *Session) Engine() *layout.Engine { return s.engine }

func (s *Session) Phase() interaction.Phase { return s.coord.Phase() }

func (s *Session) Closing() bool { return s.coord.Closing() }

// DismissReason names what closed the presentation, empty while open.
func (s *Session) DismissReason() string { return s.reason }

func (s *Session) Viewport() layout.Size { return s.viewport }

// SetViewport sets the visible size. The engine lays out on a surface
// widened by the offscreen margin on both sides.
func (s *Session) SetViewport(size layout.Size) {
	if size == s.viewport {
		return
	}
	s.viewport = size
	s.engine.Invalidate()
	s.pageOffset = s.clampPage(s.pageOffset)
}

// RegisterCard installs c at index i, growing the item list as needed.
func (s *Session) RegisterCard(i int, c *Card) {
	c.mustInit()
	if i < 0 {
		panic(fmt.Sprintf("session: negative card index %d", i))
	}
	for len(s.cards) <= i {
		s.cards = append(s.cards, nil)
	}
	s.cards[i] = c
	c.content.SetCloseAction(func() { s.dismiss("close_action") })
	s.engine.Invalidate()
}

// Card returns the card at i. Every index below ItemCount must have been
// registered.
func (s *Session) Card(i int) *Card {
	if i < 0 || i >= len(s.cards) {
		panic(fmt.Sprintf("session: card index %d out of range [0,%d)", i, len(s.cards)))
	}
	c := s.cards[i]
	c.mustInit()
	return c
}

func (s *Session) PageOffset() float64 { return s.pageOffset }

func (s *Session) Focus() layout.FocusState { return s.engine.Focus() }

// FocusedCard is the card currently centered in the viewport.
func (s *Session) FocusedCard() int {
	if len(s.cards) == 0 {
		return 0
	}
	pitch := s.params.Pitch(s.Bounds())
	i := int(math.Round(s.pageOffset / pitch))
	if i < 0 {
		return 0
	}
	if i >= len(s.cards) {
		return len(s.cards) - 1
	}
	return i
}

// ScrollToItem centers item i horizontally.
func (s *Session) ScrollToItem(i int, animated bool) {
	if len(s.cards) == 0 {
		return
	}
	a := s.engine.At(clamp(i, 0, len(s.cards)-1))
	target := s.clampPage(a.Center.X - s.Bounds().W/2)
	if animated {
		s.anim.Start(pageKey, s.pageOffset, target)
		return
	}
	s.anim.Cancel(pageKey)
	s.pageOffset = target
}

// VisibleRect is the viewport in content coordinates.
func (s *Session) VisibleRect() layout.Rect {
	b := s.Bounds()
	return layout.Rect{X: s.pageOffset, Y: 0, W: b.W, H: b.H}
}

// Visible lists the items intersecting the viewport.
func (s *Session) Visible() []layout.ItemAttributes {
	return s.engine.Visible(s.VisibleRect())
}

// ContentScrolled is called whenever a card's vertical offset changes.
func (s *Session) ContentScrolled(card int, offset float64, decelerating bool) {
	c := s.Card(card)
	c.offset = offset
	c.indicator = s.coord.CanShowScrollIndicator(offset)

	before := s.coord.Phase()
	intent := s.coord.OffsetChanged(card, offset, decelerating)
	switch intent.Kind {
	case interaction.IntentDismiss:
		s.closeWith("interactive_close")
	case interaction.IntentUpdateFocus:
		s.engine.SetFocus(intent.Focus)
	}
	if after := s.coord.Phase(); after != before {
		s.logger.Debug("phase changed", "from", before, "to", after, "card", card, "offset", offset)
	}
}

// WillEndDragging returns where a released card scroll will rest: the
// coordinator's detent, then the scroll surface's own bounds.
func (s *Session) WillEndDragging(card int, proposed, velocity float64) float64 {
	target := s.coord.WillSettle(proposed, velocity, s.coord.InteractiveClose())
	return s.restingOffset(card, target)
}

// WillEndPaging returns where a released horizontal scroll will rest.
func (s *Session) WillEndPaging(proposed, velocity layout.Point) layout.Point {
	target := s.engine.SnapTarget(proposed, velocity)
	target.X = s.clampPage(target.X)
	return target
}

// FocusChanged is called when a different card starts receiving vertical
// scroll. Other cards snap back to their collapsed offset without
// reporting, so they never steal focus, and the layout follows card.
func (s *Session) FocusChanged(card int) {
	for i, c := range s.cards {
		if i == card || c == nil {
			continue
		}
		s.anim.Cancel(cardKey(i))
		c.offset = 0
		c.indicator = false
	}
	if s.coord.Closing() {
		return
	}
	s.engine.SetFocus(layout.FocusState{Index: card, Offset: s.Card(card).offset})
}

// RequestDismiss closes the presentation from outside a gesture, e.g. a
// close button inside card content.
func (s *Session) RequestDismiss() {
	s.dismiss("request")
}

func (s *Session) dismiss(reason string) {
	if s.coord.Closing() {
		return
	}
	s.coord.Dismiss()
	s.closeWith(reason)
}

func (s *Session) closeWith(reason string) {
	if s.reason != "" {
		return
	}
	s.reason = reason
	s.anim.CancelAll()
	s.logger.Info("carousel dismissed", "reason", reason, "focus", s.engine.Focus().Index)
	if s.onDismiss != nil {
		s.onDismiss()
	}
}

// CanInteract reports whether card i currently accepts gestures.
func (s *Session) CanInteract(i int) bool {
	if i < 0 || i >= len(s.cards) || s.coord.Closing() {
		return false
	}
	a := s.engine.At(i)
	return s.coord.CanInteract(i, a.Center.X, s.pageOffset, s.Bounds().W)
}

// Drag moves card i's content by delta while a finger is down. It reports
// false when the card may not be interacted with.
func (s *Session) Drag(card int, delta float64) bool {
	if !s.CanInteract(card) {
		return false
	}
	if s.engine.Focus().Index != card {
		s.FocusChanged(card)
	}
	s.anim.Cancel(cardKey(card))
	s.ContentScrolled(card, s.Card(card).offset+delta, false)
	return true
}

// Release ends a drag on card i with the given velocity in points per
// second and starts the deceleration toward its resting offset.
func (s *Session) Release(card int, velocity float64) float64 {
	c := s.Card(card)
	if s.coord.Closing() {
		return c.offset
	}
	proposed := c.offset + velocity*flingProjection
	target := s.WillEndDragging(card, proposed, velocity)
	if target != c.offset {
		s.anim.Start(cardKey(card), c.offset, target)
	}
	return target
}

// Expand animates card i to its expanded detent.
func (s *Session) Expand(card int) {
	if s.coord.Closing() {
		return
	}
	c := s.Card(card)
	if s.engine.Focus().Index != card {
		s.FocusChanged(card)
	}
	s.anim.Start(cardKey(card), c.offset, s.params.IdentityDistance)
}

// Page flings the carousel one item left (dir < 0) or right (dir > 0).
// Paging is refused while a card is expanded, while a card is held away
// from rest, or while the carousel is closing.
func (s *Session) Page(dir int) bool {
	if dir == 0 || s.coord.Closing() || !s.engine.ScrollEnabled() || len(s.cards) == 0 {
		return false
	}
	if s.held() {
		return false
	}
	sign := 1.0
	if dir < 0 {
		sign = -1
	}
	pitch := s.params.Pitch(s.Bounds())
	proposed := layout.Point{X: s.pageOffset + sign*pitch*pageStepFraction}
	target := s.WillEndPaging(proposed, layout.Point{X: sign})
	if target.X == s.pageOffset {
		return false
	}
	s.anim.Start(pageKey, s.pageOffset, target.X)
	return true
}

// held reports a card sitting off its rest offset with nothing moving it
// back, i.e. still under a finger.
func (s *Session) held() bool {
	for i, c := range s.cards {
		if c != nil && c.offset != 0 && !s.anim.Running(cardKey(i)) {
			return true
		}
	}
	return false
}

// ScreenToContent converts a viewport point into content coordinates.
func (s *Session) ScreenToContent(p layout.Point) layout.Point {
	return layout.Point{X: p.X + s.params.OffscreenMargin() + s.pageOffset, Y: p.Y}
}

// HitTest finds the interactive card under a viewport point. The focused
// card is tested first since it draws on top of its neighbours.
func (s *Session) HitTest(p layout.Point) (int, bool) {
	cp := s.ScreenToContent(p)
	attrs := s.engine.Snapshot()
	focus := s.engine.Focus().Index
	order := make([]int, 0, len(attrs))
	if focus >= 0 && focus < len(attrs) {
		order = append(order, focus)
	}
	for i := range attrs {
		if i != focus {
			order = append(order, i)
		}
	}
	for _, i := range order {
		if attrs[i].Frame().Contains(cp) && s.CanInteract(i) {
			return i, true
		}
	}
	return 0, false
}

// Tap resolves a tap at a viewport point and performs the resulting action.
func (s *Session) Tap(p layout.Point) interaction.TapAction {
	card, ok := s.HitTest(p)
	if !ok {
		return interaction.TapIgnore
	}
	tap := interaction.Tap{
		Card:          card,
		InsideContent: s.insideContent(card, s.ScreenToContent(p)),
		Offset:        s.Card(card).offset,
	}
	action := s.coord.ResolveTap(tap)
	switch action {
	case interaction.TapExpand:
		s.Expand(card)
	case interaction.TapDismiss:
		s.dismiss("tap_outside")
	}
	s.logger.Debug("tap", "card", card, "inside", tap.InsideContent, "action", action)
	return action
}

// insideContent maps a content-space point into the card's scroll surface
// and checks it against the content view.
func (s *Session) insideContent(card int, cp layout.Point) bool {
	a := s.engine.At(card)
	local, ok := a.Local(cp)
	if !ok {
		return false
	}
	localX := local.X + a.Size.W/2
	localY := local.Y + a.Size.H/2 + s.Card(card).offset
	h := s.Card(card).contentHeight(a.Size.W)
	return localX >= 0 && localX < a.Size.W && localY >= 0 && localY < h
}

// Animating reports whether any offset is still moving.
func (s *Session) Animating() bool { return s.anim.Active() }

// Tick advances running animations by one frame. Card frames are reported
// through ContentScrolled as decelerating scrolls.
func (s *Session) Tick() {
	for _, f := range s.anim.Step() {
		if f.Key == pageKey {
			s.pageOffset = f.Pos
			s.engine.Invalidate()
			continue
		}
		i, ok := parseCardKey(f.Key)
		if !ok || i >= len(s.cards) {
			continue
		}
		s.ContentScrolled(i, f.Pos, true)
		if s.coord.Closing() {
			return
		}
	}
}

// Settle runs Tick until all motion stops or limit frames have passed.
func (s *Session) Settle(limit int) int {
	n := 0
	for n < limit && s.anim.Active() {
		s.Tick()
		n++
	}
	return n
}

func (s *Session) restingOffset(card int, target float64) float64 {
	maxOffset := s.maxOffset(card)
	if target > maxOffset {
		return maxOffset
	}
	if target < 0 {
		if s.coord.InteractiveClose() && target <= s.params.DismissThreshold {
			return s.params.DismissThreshold
		}
		return 0
	}
	return target
}

func (s *Session) maxOffset(card int) float64 {
	size := s.params.ItemSize(s.Bounds())
	content := s.Card(card).contentHeight(size.W)
	return math.Max(s.params.IdentityDistance, content-size.H)
}

func (s *Session) clampPage(x float64) float64 {
	limit := math.Max(0, s.engine.ContentExtent().W-s.Bounds().W)
	return math.Max(0, math.Min(x, limit))
}

func cardKey(i int) string { return cardPrefix + strconv.Itoa(i) }

func parseCardKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, cardPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ layout.FrameSource = (*Session)(nil)
