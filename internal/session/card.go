package session

import "math"

// CardContent is the host-provided content of one card. The session only
// relies on its height for a given width and installs the close action.
type CardContent interface {
	HeightFor(width float64) float64
	SetCloseAction(func())
}

// Card is one card's vertical scroll surface. Cards must be created with
// NewCard; a zero Card panics on first use.
type Card struct {
	content   CardContent
	offset    float64
	indicator bool
}

func NewCard(content CardContent) *Card {
	if content == nil {
		panic("session: NewCard requires content")
	}
	return &Card{content: content}
}

func (c *Card) mustInit() {
	if c == nil || c.content == nil {
		panic("session: Card used without NewCard")
	}
}

func (c *Card) Content() CardContent {
	c.mustInit()
	return c.content
}

// Offset is the card's vertical content offset. Negative values mean the
// card is pulled down past its top.
func (c *Card) Offset() float64 {
	c.mustInit()
	return c.offset
}

func (c *Card) ShowsScrollIndicator() bool {
	c.mustInit()
	return c.indicator
}

func (c *Card) contentHeight(width float64) float64 {
	c.mustInit()
	return math.Max(0, c.content.HeightFor(width))
}
