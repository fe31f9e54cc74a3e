// Package aspen is a retained-mode 2.5D scene graph for [Ebitengine].
//
// Aspen provides the actor tree, lifecycle management, two-pass size
// negotiation, 3D transform hierarchy, paint volume culling, and a clipped
// redraw pipeline that a structured UI or game scene needs.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	stage := aspen.NewStage(aspen.StageConfig{Width: 640, Height: 480})
//	rect := aspen.NewRectangle(aspen.Color{R: 0.8, G: 0.2, B: 0.2, A: 1})
//	rect.SetSize(120, 80)
//	rect.SetPosition(40, 40)
//	stage.Actor().AddChild(rect.Actor)
//	aspen.Run(stage, aspen.RunConfig{Title: "Aspen"})
//
// For full control, implement [ebiten.Game] yourself and call
// [Stage.FrameDamage] and [Stage.Paint] directly.
//
// # Actors
//
// Every element on the stage is an [Actor]. Actors form a tree rooted at
// [Stage.Actor]. Children inherit their parent's transform and opacity.
// Visibility, realization, and mapping are managed per subtree: an actor
// paints only while mapped, and mapping follows from being visible inside
// a mapped parent.
//
// Concrete kinds are built from class slots: [NewRectangle] and
// [NewTexture] cover solid fills and images, and [ActorClass] lets callers
// define their own kinds without subclassing.
//
// # Layout
//
// Sizing is negotiated in two passes: parents query preferred sizes with
// [Actor.GetPreferredWidth] and [Actor.GetPreferredHeight], then assign
// geometry with [Actor.Allocate]. Results are cached until something
// invalidates them, and [Actor.QueueRelayout] schedules a fresh pass for
// the next frame.
//
// # Redraws
//
// Changes queue damage through [Actor.QueueRedraw] rather than painting
// eagerly. Each frame, [Stage.FrameDamage] collapses the queue into a
// screen-space region, and [Stage.Paint] repaints the tree, culling
// subtrees whose last painted volume lies outside the view frustum.
//
// [Ebitengine]: https://ebitengine.org
package aspen
