package motion

import "testing"

func runUntilSettled(t *testing.T, a *Animator, limit int) []Frame {
	t.Helper()
	var all []Frame
	for i := 0; i < limit && a.Active(); i++ {
		all = append(all, a.Step()...)
	}
	if a.Active() {
		t.Fatalf("animation did not settle within %d frames", limit)
	}
	return all
}

func TestAnimatorSettlesOnTarget(t *testing.T) {
	a := NewAnimator("full")
	a.Start("card:0", 0, 146)
	frames := runUntilSettled(t, a, 600)
	last := frames[len(frames)-1]
	if !last.Done || last.Pos != 146 {
		t.Fatalf("expected exact settle on target, got %+v", last)
	}
	if len(frames) < 2 {
		t.Fatalf("full motion should take more than one frame")
	}
}

func TestAnimatorOffSettlesImmediately(t *testing.T) {
	a := NewAnimator("off")
	a.Start("page", 10, 400)
	frames := a.Step()
	if len(frames) != 1 || !frames[0].Done || frames[0].Pos != 400 {
		t.Fatalf("expected single-frame settle, got %+v", frames)
	}
	if a.Active() {
		t.Fatalf("expected no active channels")
	}
}

func TestAnimatorRetargetKeepsChannel(t *testing.T) {
	a := NewAnimator("reduced")
	a.Start("card:1", 0, 100)
	a.Step()
	a.Start("card:1", 999, 0)
	if got, _ := a.Target("card:1"); got != 0 {
		t.Fatalf("expected retarget to 0, got %v", got)
	}
	frames := runUntilSettled(t, a, 1200)
	if frames[len(frames)-1].Pos != 0 {
		t.Fatalf("expected settle at 0")
	}
}

func TestAnimatorCancel(t *testing.T) {
	a := NewAnimator("full")
	a.Start("a", 0, 1)
	a.Start("b", 0, 1)
	a.Cancel("a")
	if a.Running("a") || !a.Running("b") {
		t.Fatalf("unexpected channels after cancel")
	}
	a.CancelAll()
	if a.Active() {
		t.Fatalf("expected no channels")
	}
}

func TestNormalizeLevel(t *testing.T) {
	if NormalizeLevel(" reduced ") != "reduced" || NormalizeLevel("bogus") != "full" {
		t.Fatalf("unexpected normalization")
	}
}
