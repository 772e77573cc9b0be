package ui

import (
	"image/color"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	Header   lipgloss.Style
	Status   lipgloss.Style
	Accent   lipgloss.Style
	Muted    lipgloss.Style
	Fail     lipgloss.Style
	Backdrop string
	InkDark  string
	InkLight string
}

func DefaultTheme() Theme {
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	blue := lipgloss.Color("#5EEBFF")
	brick := lipgloss.Color("#FF6F91")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(powder).
			Padding(0, 1),
		Accent: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CAAC6")),
		Fail: lipgloss.NewStyle().
			Foreground(brick).
			Bold(true),
		Backdrop: "#101418",
		InkDark:  "#11151C",
		InkLight: "#F4F6FA",
	}
}

// inkFor picks a readable text colour for a card background.
func (t Theme) inkFor(bg string) string {
	r, g, b, ok := parseHex(bg)
	if !ok {
		return t.InkLight
	}
	// ITU-R BT.601 luma.
	if 0.299*float64(r)+0.587*float64(g)+0.114*float64(b) > 150 {
		return t.InkDark
	}
	return t.InkLight
}

func parseHex(s string) (uint8, uint8, uint8, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func hexColor(s string) color.Color {
	return lipgloss.Color(s)
}
