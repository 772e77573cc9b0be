package app

import "strings"

type MotionLevel string

const (
	MotionFull    MotionLevel = "full"
	MotionReduced MotionLevel = "reduced"
	MotionOff     MotionLevel = "off"
)

type MouseScope string

const (
	MouseFull MouseScope = "full"
	MouseOff  MouseScope = "off"
)

// normalizeMotionLevel maps an empty value to the default and rejects
// unknown ones.
func normalizeMotionLevel(raw string) (MotionLevel, bool) {
	switch MotionLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MotionFull:
		return MotionFull, true
	case MotionReduced:
		return MotionReduced, true
	case MotionOff:
		return MotionOff, true
	default:
		return "", false
	}
}

func normalizeMouseScope(raw string) (MouseScope, bool) {
	switch MouseScope(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MouseFull:
		return MouseFull, true
	case MouseOff:
		return MouseOff, true
	default:
		return "", false
	}
}
