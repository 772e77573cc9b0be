package app

import "carousel/internal/devtools"

// DevState is what the dev HTTP endpoint reports about the running app.
type DevState struct {
	State     string           `json:"state"`
	Demo      string           `json:"demo"`
	RenderSeq int              `json:"render_seq"`
	Pending   bool             `json:"pending"`
	Error     string           `json:"error,omitempty"`
	Last      *devtools.Result `json:"last,omitempty"`
}

// SnapshotOptions describe one headless layout pass rendered to PNG.
type SnapshotOptions struct {
	Out    string
	Width  float64
	Height float64
	// Page is the item centered horizontally.
	Page int
	// Focus and Offset set the vertical scroll of one card.
	Focus  int
	Offset float64
}

func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{Width: 386, Height: 800, Page: 3, Focus: 3, Offset: 73}
}
