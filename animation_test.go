package aspen

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	a := NewActor()
	a.SetPosition(0, 0)
	g := TweenPosition(a, 100, 50, 1.0, ease.Linear)

	g.Update(0.5)
	x, y := a.Position()
	if x < 49 || x > 51 || y < 24 || y > 26 {
		t.Errorf("midpoint = (%g,%g), want about (50,25)", x, y)
	}
	if g.Done {
		t.Error("tween finished early")
	}

	g.Update(0.5)
	x, y = a.Position()
	if x != 100 || y != 50 {
		t.Errorf("endpoint = (%g,%g), want (100,50)", x, y)
	}
	if !g.Done {
		t.Error("tween did not finish")
	}
}

func TestTweenOpacityClampsAndRounds(t *testing.T) {
	a := NewActor()
	a.SetOpacity(0)
	g := TweenOpacity(a, 255, 1.0, ease.Linear)

	g.Update(0.5)
	if got := a.Opacity(); got < 126 || got > 129 {
		t.Errorf("mid opacity = %d, want about 128", got)
	}
	g.Update(10)
	if got := a.Opacity(); got != 255 {
		t.Errorf("final opacity = %d, want 255", got)
	}
}

func TestTweenScale(t *testing.T) {
	a := NewActor()
	g := TweenScale(a, 3, 3, 1.0, ease.Linear)
	g.Update(1.0)
	sx, sy := a.Scale()
	if sx != 3 || sy != 3 {
		t.Errorf("scale = (%g,%g), want (3,3)", sx, sy)
	}
}

func TestTweenRotationKeepsCenter(t *testing.T) {
	a := NewActor()
	a.Allocate(BoxFromSize(0, 0, 100, 100), AllocNone)
	a.SetRotation(ZAxis, 0, 50, 50)

	g := TweenRotation(a, ZAxis, 90, 1.0, ease.Linear)
	g.Update(1.0)
	if got := a.Rotation(ZAxis); got != 90 {
		t.Errorf("angle = %g, want 90", got)
	}
	if cx, cy := a.rotationCenters[ZAxis].resolve(100, 100); cx != 50 || cy != 50 {
		t.Errorf("center = (%g,%g), want (50,50)", cx, cy)
	}
}

func TestTweenRotationKeepsGravityCenter(t *testing.T) {
	a := NewActor()
	a.Allocate(BoxFromSize(0, 0, 100, 100), AllocNone)
	a.SetRotationWithGravity(ZAxis, 0, GravityCenter)

	g := TweenRotation(a, ZAxis, 45, 1.0, ease.Linear)
	g.Update(0.5)
	if got := a.rotationCenters[ZAxis].gravity; got != GravityCenter {
		t.Errorf("gravity center = %v, want GravityCenter", got)
	}
}

func TestTweenDepth(t *testing.T) {
	a := NewActor()
	g := TweenDepth(a, -40, 2.0, ease.Linear)
	g.Update(1.0)
	if got := a.Depth(); got < -21 || got > -19 {
		t.Errorf("mid depth = %g, want about -20", got)
	}
}

func TestTweenStopsOnDestroyedTarget(t *testing.T) {
	a := NewActor()
	g := TweenPosition(a, 100, 0, 1.0, ease.Linear)
	g.Update(0.25)

	a.Destroy()
	x, _ := a.Position()
	g.Update(0.25)
	if !g.Done {
		t.Error("tween must stop when its target is destroyed")
	}
	if gotX, _ := a.Position(); gotX != x {
		t.Error("tween wrote to a destroyed actor")
	}
}

func TestTweenUpdateAfterDoneIsNoop(t *testing.T) {
	a := NewActor()
	g := TweenOpacity(a, 100, 0.5, ease.Linear)
	g.Update(1.0)
	if !g.Done {
		t.Fatal("tween should be done")
	}
	a.SetOpacity(7)
	g.Update(1.0)
	if got := a.Opacity(); got != 7 {
		t.Errorf("opacity = %d; a done tween must not write", got)
	}
}
