package ui

// Controller receives presentation-level events from the terminal host.
// Calls arrive on the UI goroutine and must not block.
type Controller interface {
	OnResize(cols, rows int)
	OnDismissed(reason string)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	FlashStatus(msg string)
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutWide:
		return "wide"
	case LayoutCompact:
		return "compact"
	default:
		return "too_small"
	}
}
