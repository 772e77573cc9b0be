package interaction

// Settler decides where a released card scroll comes to rest.
type Settler interface {
	WillSettle(proposed, velocity float64, interactiveClose bool) float64
}

// Gatekeeper decides whether a card may receive gestures and show its
// scroll indicator.
type Gatekeeper interface {
	CanShowScrollIndicator(offset float64) bool
	CanInteract(card int, centerX, viewportX, viewportW float64) bool
}
