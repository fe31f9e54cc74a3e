package aspen

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values on an actor simultaneously. Create one
// via the convenience constructors (TweenPosition, TweenOpacity, TweenScale,
// TweenRotation, TweenDepth) and call Update(dt) each frame. Values are
// written through the actor's setters, so redraws and relayouts queue as
// they would for any other change. If the target actor is destroyed, the
// group stops immediately.
//
// There is no global animation manager. Users call Update themselves, or
// let Run drive groups registered on its config.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	target *Actor
	apply  func(a *Actor, v [4]float32)
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values to the
// target actor. If the target has been destroyed, Done is set to true and
// no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && (g.target.IsDisposed() || g.target.InDestruction()) {
		g.Done = true
		return
	}

	var vals [4]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.apply != nil {
		g.apply(g.target, vals)
	}
}

// TweenPosition animates the actor's fixed position to the given target
// coordinates over the specified duration using the easing function.
func TweenPosition(a *Actor, toX, toY float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	x, y := a.Position()
	g := &TweenGroup{count: 2, target: a}
	g.tweens[0] = gween.New(x, toX, duration, fn)
	g.tweens[1] = gween.New(y, toY, duration, fn)
	g.apply = func(a *Actor, v [4]float32) { a.SetPosition(v[0], v[1]) }
	return g
}

// TweenOpacity animates the actor's opacity to the target value.
func TweenOpacity(a *Actor, to uint8, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: a}
	g.tweens[0] = gween.New(float32(a.Opacity()), float32(to), duration, fn)
	g.apply = func(a *Actor, v [4]float32) {
		o := v[0]
		if o < 0 {
			o = 0
		} else if o > 255 {
			o = 255
		}
		a.SetOpacity(uint8(o + 0.5))
	}
	return g
}

// TweenScale animates the actor's scale factors to the given targets.
func TweenScale(a *Actor, toX, toY float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	sx, sy := a.Scale()
	g := &TweenGroup{count: 2, target: a}
	g.tweens[0] = gween.New(sx, toX, duration, fn)
	g.tweens[1] = gween.New(sy, toY, duration, fn)
	g.apply = func(a *Actor, v [4]float32) { a.SetScale(v[0], v[1]) }
	return g
}

// TweenRotation animates the actor's rotation around the given axis,
// keeping the current rotation center.
func TweenRotation(a *Actor, axis RotateAxis, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	center := a.rotationCenters[axis]
	g := &TweenGroup{count: 1, target: a}
	g.tweens[0] = gween.New(a.Rotation(axis), to, duration, fn)
	g.apply = func(a *Actor, v [4]float32) {
		if center.gravity != GravityNone {
			a.SetRotationWithGravity(axis, v[0], center.gravity)
			return
		}
		a.SetRotation(axis, v[0], center.x, center.y)
	}
	return g
}

// TweenDepth animates the actor's Z position.
func TweenDepth(a *Actor, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: a}
	g.tweens[0] = gween.New(a.Depth(), to, duration, fn)
	g.apply = func(a *Actor, v [4]float32) { a.SetDepth(v[0]) }
	return g
}
