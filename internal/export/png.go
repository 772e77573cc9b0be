package export

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strconv"

	"carousel/internal/layout"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	background   = "#101418"
	fallbackFill = "#8B8D98"
	cornerRadius = 16.0
	labelSize    = 18.0
)

// Frame is everything needed to draw one layout pass.
type Frame struct {
	Container layout.Size
	Offset    layout.Point
	Items     []layout.ItemAttributes
	Colors    []string
}

// Render draws the frame as seen through the container, scrolled by Offset.
// Items are painted smallest scale first so the expanding card ends on top.
func Render(f Frame) (image.Image, error) {
	w := int(math.Max(1, math.Ceil(f.Container.W)))
	h := int(math.Max(1, math.Ceil(f.Container.H)))
	dc := gg.NewContext(w, h)
	dc.SetHexColor(background)
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    labelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	items := append([]layout.ItemAttributes(nil), f.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Scale < items[j].Scale })

	for _, a := range items {
		drawItem(dc, f, a)
	}
	return dc.Image(), nil
}

func drawItem(dc *gg.Context, f Frame, a layout.ItemAttributes) {
	m := a.Transform().Multiply(gg.Translate(-f.Offset.X, -f.Offset.Y))
	hw, hh := a.Size.W/2, a.Size.H/2
	x0, y0 := m.TransformPoint(-hw, -hh)
	x1, y1 := m.TransformPoint(hw, hh)
	radius, _ := m.TransformVector(cornerRadius, 0)

	dc.DrawRoundedRectangle(x0, y0, x1-x0, y1-y0, radius)
	dc.SetHexColor(colorFor(f.Colors, a.Index))
	dc.FillPreserve()
	dc.SetHexColor("#000000")
	dc.SetLineWidth(2)
	dc.Stroke()

	lx, ly := m.TransformPoint(-hw+cornerRadius, -hh+cornerRadius)
	dc.DrawString("#"+strconv.Itoa(a.Index), lx, ly+labelSize)
}

func colorFor(colors []string, i int) string {
	if i >= 0 && i < len(colors) && colors[i] != "" {
		return colors[i]
	}
	return fallbackFill
}

// PNG renders the frame and writes it to path.
func PNG(path string, f Frame) error {
	img, err := Render(f)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}
