package interaction

import "carousel/internal/layout"

type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentDismiss
	IntentUpdateFocus
)

func (k IntentKind) String() string {
	switch k {
	case IntentDismiss:
		return "dismiss"
	case IntentUpdateFocus:
		return "update_focus"
	default:
		return "none"
	}
}

// Intent is the coordinator's answer to a card scroll event. Focus is only
// meaningful for IntentUpdateFocus.
type Intent struct {
	Kind  IntentKind
	Focus layout.FocusState
}

type TapAction int

const (
	TapIgnore TapAction = iota
	TapExpand
	TapDismiss
)

func (a TapAction) String() string {
	switch a {
	case TapExpand:
		return "expand"
	case TapDismiss:
		return "dismiss"
	default:
		return "ignore"
	}
}

// Tap describes where a tap landed on a card. InsideContent is false when
// the tap hit the card through the outer layout but missed its content.
type Tap struct {
	Card          int
	InsideContent bool
	Offset        float64
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFocused
	PhaseExpanding
	PhaseCollapsing
	PhaseClosing
)

func (p Phase) String() string {
	switch p {
	case PhaseFocused:
		return "focused"
	case PhaseExpanding:
		return "expanding"
	case PhaseCollapsing:
		return "collapsing"
	case PhaseClosing:
		return "closing"
	default:
		return "idle"
	}
}

type EventKind int

const (
	EventScrolled EventKind = iota
	EventDismissed
)

type Event struct {
	Kind EventKind
	Card int
	From float64
	To   float64
}
