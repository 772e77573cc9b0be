package export

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"carousel/internal/layout"
)

func testFrame() Frame {
	p := layout.DefaultParameters()
	p.ItemHeight = 0
	container := layout.Size{W: 400, H: 800}
	items := layout.Prepare(p, container, 8, layout.FocusState{Index: 3, Offset: 73}, nil)
	colors := make([]string, 8)
	for i := range colors {
		colors[i] = "#0090FF"
	}
	colors[3] = "#EEEEEE"
	return Frame{
		Container: container,
		Offset:    layout.Point{X: 3 * p.Pitch(container)},
		Items:     items,
		Colors:    colors,
	}
}

func TestRenderPaintsFocusedCard(t *testing.T) {
	f := testFrame()
	img, err := Render(f)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 800 {
		t.Fatalf("unexpected bounds %v", b)
	}
	center := f.Items[3].Frame().Center()
	r, g, b, _ := img.At(int(center.X-f.Offset.X), int(center.Y)).RGBA()
	if r>>8 != 0xEE || g>>8 != 0xEE || b>>8 != 0xEE {
		t.Fatalf("expected focused card colour at its center, got %02x%02x%02x", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(2, 2).RGBA()
	if r>>8 != 0x10 || g>>8 != 0x14 || b>>8 != 0x18 {
		t.Fatalf("expected background in the corner, got %02x%02x%02x", r>>8, g>>8, b>>8)
	}
}

func TestPNGWritesDecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := PNG(path, testFrame()); err != nil {
		t.Fatalf("png: %v", err)
	}
	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	cfg, err := png.DecodeConfig(fh)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 800 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestColorFallback(t *testing.T) {
	if colorFor(nil, 2) != fallbackFill || colorFor([]string{""}, 0) != fallbackFill {
		t.Fatalf("expected fallback fill")
	}
}

func TestRenderPlacesItemThroughTransform(t *testing.T) {
	f := Frame{
		Container: layout.Size{W: 400, H: 800},
		Offset:    layout.Point{X: 100},
		Items: []layout.ItemAttributes{{
			Center:      layout.Point{X: 200, Y: 400},
			Size:        layout.Size{W: 200, H: 300},
			Scale:       0.5,
			Translation: layout.Point{X: 10, Y: -20},
		}},
		Colors: []string{"#EEEEEE"},
	}
	img, err := Render(f)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// frame spans x 160..260, y 305..455 in content space; offset shifts it left by 100
	cases := []struct {
		x, y int
		card bool
	}{
		{110, 380, true},
		{70, 380, true},
		{50, 380, false},
		{165, 380, false},
		{110, 300, false},
		{110, 445, true},
	}
	for _, tc := range cases {
		r, g, b, _ := img.At(tc.x, tc.y).RGBA()
		isCard := r>>8 == 0xEE && g>>8 == 0xEE && b>>8 == 0xEE
		if isCard != tc.card {
			t.Fatalf("pixel (%d,%d) = %02x%02x%02x, card=%v want %v", tc.x, tc.y, r>>8, g>>8, b>>8, isCard, tc.card)
		}
	}
}
