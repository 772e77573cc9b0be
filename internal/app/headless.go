package app

import (
	"fmt"

	"carousel/internal/deck"
	"carousel/internal/devtools"
	"carousel/internal/export"
	"carousel/internal/layout"
	"carousel/internal/session"
	"carousel/internal/ui"
)

// NewHeadlessSession builds a session over d with a fixed viewport and no
// terminal, for snapshots and scripted demos.
func NewHeadlessSession(cfg Config, d deck.Deck, viewport layout.Size) *session.Session {
	s := session.New(cfg.Layout, session.Options{MotionLevel: cfg.UI.MotionLevel})
	grid := ui.Grid{CellW: cfg.UI.CellWidth, CellH: cfg.UI.CellHeight}
	for i, c := range d.Cards {
		s.RegisterCard(i, session.NewCard(ui.NewCardView(i, c, grid)))
	}
	s.SetViewport(viewport)
	s.ScrollToItem(d.InitialIndex, false)
	return s
}

// Snapshot renders one layout pass to a PNG file.
func Snapshot(cfg Config, opts SnapshotOptions) error {
	if opts.Out == "" {
		return fmt.Errorf("snapshot: output path is required")
	}
	s, d, err := snapshotSession(cfg, opts)
	if err != nil {
		return err
	}
	if err := export.PNG(opts.Out, frameOf(s, d)); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// snapshotSession poses a headless session for a snapshot. The focus is
// set on the layout directly, so a pulled offset past the dismiss
// threshold is drawn as requested instead of closing the session.
func snapshotSession(cfg Config, opts SnapshotOptions) (*session.Session, deck.Deck, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, deck.Deck{}, fmt.Errorf("snapshot: viewport must be positive, got %vx%v", opts.Width, opts.Height)
	}
	d, err := deck.NewLoader().Load(cfg.DeckPath)
	if err != nil {
		return nil, deck.Deck{}, fmt.Errorf("load deck: %w", err)
	}
	if opts.Focus < 0 || opts.Focus >= len(d.Cards) {
		return nil, deck.Deck{}, fmt.Errorf("snapshot: focus %d out of range [0,%d)", opts.Focus, len(d.Cards))
	}
	s := NewHeadlessSession(cfg, d, layout.Size{W: opts.Width, H: opts.Height})
	s.ScrollToItem(opts.Page, false)
	s.Engine().SetFocus(layout.FocusState{Index: opts.Focus, Offset: opts.Offset})
	return s, d, nil
}

// RunDemo replays a named scenario on a headless session. When out is set
// the final layout is also written as a PNG.
func RunDemo(cfg Config, name, out string) (devtools.Result, error) {
	d, err := deck.NewLoader().Load(cfg.DeckPath)
	if err != nil {
		return devtools.Result{}, fmt.Errorf("load deck: %w", err)
	}
	opts := DefaultSnapshotOptions()
	s := NewHeadlessSession(cfg, d, layout.Size{W: opts.Width, H: opts.Height})
	m := devtools.NewManager()
	res := m.Run(s, m.Resolve(name))
	if out != "" {
		if err := export.PNG(out, frameOf(s, d)); err != nil {
			return res, fmt.Errorf("demo %s: %w", res.Scenario, err)
		}
	}
	return res, nil
}

func frameOf(s *session.Session, d deck.Deck) export.Frame {
	return export.Frame{
		Container: s.Bounds(),
		Offset:    layout.Point{X: s.PageOffset()},
		Items:     s.Visible(),
		Colors:    d.Colors(),
	}
}
