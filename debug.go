package aspen

import (
	"fmt"
	"os"
)

// warn prints a misuse diagnostic to stderr. Warnings flag API misuse that
// is recoverable; structural corruption (nil children, cycles) panics
// instead.
func warn(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[aspen] warning: "+format+"\n", args...)
}

// debugEnabled reports whether invariant diagnostics are on for the
// actor's stage. Actors with no stage fall back to off.
func debugEnabled(a *Actor) bool {
	s := a.Stage()
	return s != nil && s.context.debug
}

// warnInvariant reports a lifecycle invariant violation for an actor.
// Callers gate on debugEnabled when the check itself is expensive.
func warnInvariant(a *Actor, msg string) {
	name := a.name
	if name == "" {
		name = fmt.Sprintf("#%d", a.id)
	}
	_, _ = fmt.Fprintf(os.Stderr, "[aspen] invariant: actor %s: %s\n", name, msg)
}

var debugVolumeColor = Color{R: 1, G: 0, B: 0.5, A: 1}

// debugPaintVolumeOutline draws the actor's paint volume bounds as a thin
// frame, for eyeballing culling and damage extents. Runs only when the
// stage context has debug on.
func (a *Actor) debugPaintVolumeOutline(ctx *PaintContext) {
	vol := a.PaintVolume()
	if vol == nil {
		return
	}
	box := vol.BoundingBox()
	const t = 1
	edges := [4]ActorBox{
		{X1: box.X1, Y1: box.Y1, X2: box.X2, Y2: box.Y1 + t},
		{X1: box.X1, Y1: box.Y2 - t, X2: box.X2, Y2: box.Y2},
		{X1: box.X1, Y1: box.Y1, X2: box.X1 + t, Y2: box.Y2},
		{X1: box.X2 - t, Y1: box.Y1, X2: box.X2, Y2: box.Y2},
	}
	for _, e := range edges {
		ctx.Renderer.FillQuad(ctx.Target, ctx.projectBox(e), debugVolumeColor)
	}
}
