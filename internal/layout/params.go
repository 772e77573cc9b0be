package layout

import (
	"fmt"
	"math"
)

// Parameters configure the carousel geometry. They are set once before the
// engine is created and treated as read-only afterwards.
type Parameters struct {
	InterItemGap     float64 `yaml:"inter_item_gap" env:"INTER_ITEM_GAP"`
	SideInset        float64 `yaml:"side_inset" env:"SIDE_INSET"`
	ShiftX           float64 `yaml:"shift_x" env:"SHIFT_X"`
	ShiftY           float64 `yaml:"shift_y" env:"SHIFT_Y"`
	IdentityDistance float64 `yaml:"identity_distance" env:"IDENTITY_DISTANCE"`
	DismissThreshold float64 `yaml:"dismiss_threshold" env:"DISMISS_THRESHOLD"`
	// ItemHeight of zero derives the height from the container.
	ItemHeight       float64 `yaml:"item_height" env:"ITEM_HEIGHT"`
	InteractiveClose bool    `yaml:"interactive_close" env:"INTERACTIVE_CLOSE"`
}

const derivedHeightInset = 44

func DefaultParameters() Parameters {
	return Parameters{
		InterItemGap:     4,
		SideInset:        16,
		ShiftX:           18,
		ShiftY:           30,
		IdentityDistance: 146,
		DismissThreshold: -64,
		ItemHeight:       560,
	}
}

func (p Parameters) Validate() error {
	if p.IdentityDistance <= 0 {
		return fmt.Errorf("identity_distance must be positive, got %v", p.IdentityDistance)
	}
	if p.DismissThreshold >= 0 {
		return fmt.Errorf("dismiss_threshold must be negative, got %v", p.DismissThreshold)
	}
	if p.InterItemGap < 0 || p.SideInset < 0 || p.ShiftX < 0 || p.ShiftY < 0 {
		return fmt.Errorf("gap, inset and shift values must not be negative")
	}
	if p.ItemHeight < 0 {
		return fmt.Errorf("item_height must not be negative, got %v", p.ItemHeight)
	}
	return nil
}

// OffscreenMargin is how far the host must widen its rendering surface on
// each side so horizontally shifted edge items are never clipped.
func (p Parameters) OffscreenMargin() float64 {
	return math.Ceil(p.ShiftX + 1 - p.SideInset + p.InterItemGap)
}

func (p Parameters) unscaledWidth(bounds Size) float64 {
	return math.Max(1, bounds.W-2*p.OffscreenMargin())
}

func (p Parameters) scaledWidth(bounds Size) float64 {
	return math.Max(1, p.unscaledWidth(bounds)-2*p.SideInset)
}

// CollapsedRatio is the scale applied to every item that is not expanding.
func (p Parameters) CollapsedRatio(bounds Size) float64 {
	return p.scaledWidth(bounds) / p.unscaledWidth(bounds)
}

func (p Parameters) itemHeight(bounds Size) float64 {
	if p.ItemHeight > 0 {
		return p.ItemHeight
	}
	return math.Max(1, bounds.H-derivedHeightInset)
}

// ItemSize is the untransformed size shared by every item.
func (p Parameters) ItemSize(bounds Size) Size {
	return Size{W: p.unscaledWidth(bounds), H: p.itemHeight(bounds)}
}

// Pitch is the horizontal distance between neighbouring item centers.
func (p Parameters) Pitch(bounds Size) float64 {
	return p.scaledWidth(bounds) + p.InterItemGap
}
