package devtools

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"carousel/internal/layout"
	"carousel/internal/session"
)

type StepKind int

const (
	StepDrag StepKind = iota
	StepRelease
	StepPage
	StepTap
	StepSettle
)

type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTop
)

// Step is one scripted gesture against the card centered in the viewport.
type Step struct {
	Kind     StepKind
	Delta    float64
	Velocity float64
	Dir      int
	Anchor   Anchor
}

type Scenario struct {
	Name  string
	Steps []Step
}

type Result struct {
	Scenario   string                  `json:"scenario"`
	Phase      string                  `json:"phase"`
	Focus      layout.FocusState       `json:"focus"`
	Card       int                     `json:"card"`
	CardOffset float64                 `json:"card_offset"`
	PageOffset float64                 `json:"page_offset"`
	Closed     bool                    `json:"closed"`
	Reason     string                  `json:"reason,omitempty"`
	Frames     int                     `json:"frames"`
	Items      []layout.ItemAttributes `json:"items"`
}

const settleLimit = 2000

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

var scenarios = map[string][]Step{
	"expand": {
		{Kind: StepDrag, Delta: 60},
		{Kind: StepRelease, Velocity: 100},
		{Kind: StepSettle},
	},
	"collapse": {
		{Kind: StepDrag, Delta: 60},
		{Kind: StepRelease, Velocity: 100},
		{Kind: StepSettle},
		{Kind: StepDrag, Delta: -30},
		{Kind: StepRelease, Velocity: -400},
		{Kind: StepSettle},
	},
	"page_right": {
		{Kind: StepPage, Dir: 1},
		{Kind: StepSettle},
	},
	"page_left": {
		{Kind: StepPage, Dir: -1},
		{Kind: StepSettle},
	},
	"overscroll": {
		{Kind: StepDrag, Delta: -30},
		{Kind: StepRelease},
		{Kind: StepSettle},
	},
	"dismiss": {
		{Kind: StepDrag, Delta: -40},
		{Kind: StepDrag, Delta: -40},
	},
	"tap_expand": {
		{Kind: StepTap, Anchor: AnchorCenter},
		{Kind: StepSettle},
	},
	"tap_outside": {
		{Kind: StepDrag, Delta: -40},
		{Kind: StepTap, Anchor: AnchorTop},
	},
}

func (m *Manager) Names() []string {
	out := make([]string, 0, len(scenarios))
	for name := range scenarios {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the named scenario, falling back to "expand".
func (m *Manager) Resolve(name string) Scenario {
	steps, ok := scenarios[name]
	if !ok {
		name = "expand"
		steps = scenarios[name]
	}
	return Scenario{Name: name, Steps: append([]Step(nil), steps...)}
}

// Run replays sc against s. Steps after the session starts closing are
// skipped.
func (m *Manager) Run(s *session.Session, sc Scenario) Result {
	frames := 0
	card := s.FocusedCard()
	for _, st := range sc.Steps {
		if s.Closing() {
			break
		}
		switch st.Kind {
		case StepDrag:
			s.Drag(card, st.Delta)
		case StepRelease:
			s.Release(card, st.Velocity)
		case StepPage:
			s.Page(st.Dir)
		case StepTap:
			s.Tap(tapPoint(s, card, st.Anchor))
		case StepSettle:
			frames += s.Settle(settleLimit)
			card = s.FocusedCard()
		}
	}

	res := Result{
		Scenario:   sc.Name,
		Phase:      s.Phase().String(),
		Focus:      s.Focus(),
		Card:       s.FocusedCard(),
		PageOffset: s.PageOffset(),
		Closed:     s.Closing(),
		Reason:     s.DismissReason(),
		Frames:     frames,
		Items:      s.Engine().Snapshot(),
	}
	if s.ItemCount() > 0 {
		res.CardOffset = s.Card(res.Card).Offset()
	}
	return res
}

// tapPoint converts an anchor on the card's frame into viewport space.
func tapPoint(s *session.Session, card int, anchor Anchor) layout.Point {
	f := s.Engine().At(card).Frame()
	p := f.Center()
	if anchor == AnchorTop {
		p.Y = f.Y + 2
	}
	p.X -= s.Parameters().OffscreenMargin() + s.PageOffset()
	return p
}

// WriteState records a run result for external harnesses.
func (m *Manager) WriteState(dir string, r Result) error {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, ".cache", "carousel")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "devstate.json"), append(b, '\n'), 0o644)
}

var _ Demo = (*Manager)(nil)
