package motion

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/harmonica"
)

const settleEpsilon = 0.5

type channel struct {
	pos    float64
	vel    float64
	target float64
}

// Animator drives named offsets toward targets with a damped spring. One
// Step advances every active channel by one frame.
type Animator struct {
	spring   harmonica.Spring
	instant  bool
	channels map[string]*channel
}

func NewAnimator(level string) *Animator {
	a := &Animator{channels: map[string]*channel{}}
	switch NormalizeLevel(level) {
	case "reduced":
		a.spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	case "off":
		a.spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
		a.instant = true
	default:
		a.spring = harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	}
	return a
}

func NormalizeLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

// Start animates key from its current value to target. Restarting a
// running channel keeps its velocity so retargeting stays smooth.
func (a *Animator) Start(key string, from, to float64) {
	if ch, ok := a.channels[key]; ok {
		ch.target = to
		return
	}
	a.channels[key] = &channel{pos: from, target: to}
}

func (a *Animator) Cancel(key string) {
	delete(a.channels, key)
}

func (a *Animator) CancelAll() {
	for k := range a.channels {
		delete(a.channels, k)
	}
}

func (a *Animator) Active() bool { return len(a.channels) > 0 }

func (a *Animator) Running(key string) bool {
	_, ok := a.channels[key]
	return ok
}

func (a *Animator) Target(key string) (float64, bool) {
	ch, ok := a.channels[key]
	if !ok {
		return 0, false
	}
	return ch.target, true
}

// Frame is one channel's position after a Step. Done is set on the frame
// where the channel reached its target; the channel is then removed.
type Frame struct {
	Key  string
	Pos  float64
	Done bool
}

// Step advances all channels by one frame, in key order.
func (a *Animator) Step() []Frame {
	keys := make([]string, 0, len(a.channels))
	for k := range a.channels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	frames := make([]Frame, 0, len(keys))
	for _, k := range keys {
		ch := a.channels[k]
		if a.instant {
			ch.pos, ch.vel = ch.target, 0
		} else {
			ch.pos, ch.vel = a.spring.Update(ch.pos, ch.vel, ch.target)
		}
		done := math.Abs(ch.pos-ch.target) < settleEpsilon && math.Abs(ch.vel) < settleEpsilon
		if done {
			ch.pos = ch.target
			delete(a.channels, k)
		}
		frames = append(frames, Frame{Key: k, Pos: ch.pos, Done: done})
	}
	return frames
}
