package interaction

import "carousel/internal/layout"

const zeroVelocity = 1e-9

// Coordinator turns card scroll and tap events into settle targets,
// focus updates and dismiss intents. One coordinator serves one
// presentation; once it enters PhaseClosing it stays there.
type Coordinator struct {
	identity         float64
	dismissThreshold float64
	interactiveClose bool

	phase Phase
	card  int
	last  float64
}

func NewCoordinator(p layout.Parameters) *Coordinator {
	return &Coordinator{
		identity:         p.IdentityDistance,
		dismissThreshold: p.DismissThreshold,
		interactiveClose: p.InteractiveClose,
	}
}

func (c *Coordinator) Phase() Phase { return c.phase }

func (c *Coordinator) Closing() bool { return c.phase == PhaseClosing }

func (c *Coordinator) InteractiveClose() bool { return c.interactiveClose }

// WillSettle snaps a released offset to a detent. Inside the expansion
// range the release velocity picks the detent; past the dismiss threshold
// the offset rests on the threshold; anywhere else the scroll is free.
func (c *Coordinator) WillSettle(proposed, velocity float64, interactiveClose bool) float64 {
	if proposed >= 0 && proposed <= c.identity {
		switch {
		case velocity < -zeroVelocity:
			return 0
		case velocity > zeroVelocity:
			return c.identity
		case proposed > c.identity/2:
			return c.identity
		default:
			return 0
		}
	}
	if proposed <= c.dismissThreshold && interactiveClose {
		return c.dismissThreshold
	}
	return proposed
}

// OnOffsetChanged decides what a card scroll means for the carousel.
func (c *Coordinator) OnOffsetChanged(card int, offset float64, decelerating, interactiveClose, alreadyClosing bool) Intent {
	if alreadyClosing {
		return Intent{Kind: IntentNone}
	}
	if offset <= c.dismissThreshold && interactiveClose && !decelerating {
		return Intent{Kind: IntentDismiss}
	}
	return Intent{
		Kind:  IntentUpdateFocus,
		Focus: layout.FocusState{Index: card, Offset: offset, Decelerating: decelerating},
	}
}

// OffsetChanged is OnOffsetChanged fed with the coordinator's own
// configuration and closing state; it also advances the phase.
func (c *Coordinator) OffsetChanged(card int, offset float64, decelerating bool) Intent {
	intent := c.OnOffsetChanged(card, offset, decelerating, c.interactiveClose, c.Closing())
	switch intent.Kind {
	case IntentDismiss:
		c.phase = c.Transition(c.phase, Event{Kind: EventDismissed, Card: card})
	case IntentUpdateFocus:
		from := c.last
		if card != c.card {
			from = 0
		}
		c.phase = c.Transition(c.phase, Event{Kind: EventScrolled, Card: card, From: from, To: offset})
		c.card = card
		c.last = offset
	}
	return intent
}

// Dismiss moves the coordinator into PhaseClosing. It reports false when
// the presentation was already closing.
func (c *Coordinator) Dismiss() bool {
	if c.Closing() {
		return false
	}
	c.phase = c.Transition(c.phase, Event{Kind: EventDismissed, Card: c.card})
	return true
}

// Transition is the presentation state machine.
func (c *Coordinator) Transition(from Phase, ev Event) Phase {
	if from == PhaseClosing {
		return PhaseClosing
	}
	switch ev.Kind {
	case EventDismissed:
		return PhaseClosing
	case EventScrolled:
		if ev.To > 0 && ev.To < c.identity {
			switch {
			case ev.To > ev.From:
				return PhaseExpanding
			case ev.To < ev.From:
				return PhaseCollapsing
			case from == PhaseCollapsing:
				return PhaseCollapsing
			default:
				return PhaseExpanding
			}
		}
		return PhaseFocused
	}
	return from
}

func (c *Coordinator) CanShowScrollIndicator(offset float64) bool {
	return offset > c.identity
}

// CanInteract keeps peeking cards from stealing gestures: only a card whose
// center lies inside the visible viewport span accepts input.
func (c *Coordinator) CanInteract(card int, centerX, viewportX, viewportW float64) bool {
	return centerX >= viewportX && centerX <= viewportX+viewportW
}

// ResolveTap applies the tap-location policy: inside the content a
// collapsed card expands and an expanded one ignores the tap; outside the
// content the carousel is dismissed.
func (c *Coordinator) ResolveTap(t Tap) TapAction {
	if c.Closing() {
		return TapIgnore
	}
	if !t.InsideContent {
		return TapDismiss
	}
	if t.Offset < c.identity {
		return TapExpand
	}
	return TapIgnore
}

// Expanded reports whether offset is at or past the expanded detent.
func (c *Coordinator) Expanded(offset float64) bool {
	return offset >= c.identity
}

// NearestDetent is used when an offset must rest without a velocity hint.
func (c *Coordinator) NearestDetent(offset float64) float64 {
	return c.WillSettle(offset, 0, c.interactiveClose)
}

var (
	_ Settler    = (*Coordinator)(nil)
	_ Gatekeeper = (*Coordinator)(nil)
)
