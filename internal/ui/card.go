package ui

import (
	"fmt"
	"strings"

	"carousel/internal/deck"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
)

const (
	cardPadCols = 2
	// blank rows between the heading and the body
	cardTitleGap = 1
)

// CardView is the terminal content of one deck card. It is what the
// session scrolls: its height follows the markdown body wrapped to the
// card width.
type CardView struct {
	index   int
	card    deck.Card
	grid    Grid
	cache   map[int][]string
	onClose func()
}

// NewCardView builds the view for the card at position i in the deck.
func NewCardView(i int, c deck.Card, g Grid) *CardView {
	return &CardView{index: i, card: c, grid: g.normalized(), cache: map[int][]string{}}
}

func (v *CardView) Card() deck.Card { return v.card }

// HeightFor is the content height in points when laid out width points wide.
func (v *CardView) HeightFor(width float64) float64 {
	cols := v.textCols(width)
	return float64(v.headingRows(cols)+len(v.Lines(cols))) * v.grid.CellH
}

// Heading is the numbered title wrapped on word boundaries to cols.
func (v *CardView) Heading(cols int) []string {
	title := fmt.Sprintf("%d  %s", v.index+1, v.card.Title)
	return strings.Split(wordwrap.String(title, max(1, cols)), "\n")
}

func (v *CardView) headingRows(cols int) int {
	return len(v.Heading(cols)) + cardTitleGap
}

func (v *CardView) SetCloseAction(fn func()) { v.onClose = fn }

// Close runs the close action installed by the session, the way the close
// button inside the card content does.
func (v *CardView) Close() bool {
	if v.onClose == nil {
		return false
	}
	v.onClose()
	return true
}

// Lines is the body rendered for a text column count. Results are cached
// per width.
func (v *CardView) Lines(cols int) []string {
	cols = max(1, cols)
	if lines, ok := v.cache[cols]; ok {
		return lines
	}
	lines := renderMarkdown(v.card.BodyMD, cols)
	v.cache[cols] = lines
	return lines
}

func (v *CardView) textCols(width float64) int {
	return v.grid.Cols(width) - 2*cardPadCols
}

func renderMarkdown(md string, cols int) []string {
	out := md
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(cols),
	)
	if err == nil {
		if rendered, err := renderer.Render(md); err == nil {
			out = rendered
		}
	}
	out = strings.Trim(ansi.Strip(out), "\n")
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.ReplaceAll(line, "\t", "    "), " ")
	}
	return lines
}
