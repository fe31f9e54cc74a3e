package aspen

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PaintContext carries the per-traversal state threaded through Paint: the
// render target, the projection setup for that target, and the accumulated
// eye-space modelview of the actor currently being painted.
type PaintContext struct {
	Stage    *Stage
	Context  *Context
	Renderer Renderer
	Target   Framebuffer

	modelview  mgl32.Mat4
	projection mgl32.Mat4
	viewport   [4]float32

	// cullPlanes is non-nil only when a valid frustum exists for the
	// current target. Offscreen passes paint without culling.
	cullPlanes *[4]Plane

	// offscreen marks a redirected subtree pass; eye-space bookkeeping
	// (lastPaintVolume) is only updated during the onscreen pass.
	offscreen bool

	// runFlags describe the repaint currently flowing through an effect
	// chain. Valid only between an effect's PrePaint and PostPaint.
	runFlags EffectRunFlags
}

// EffectRunFlags reports why the effect chain currently painting is being
// run. Effects call this from PrePaint to decide whether cached output can
// be reused.
func (ctx *PaintContext) EffectRunFlags() EffectRunFlags { return ctx.runFlags }

// projectBox projects an actor-space box through the current modelview,
// projection, and viewport into a screen-space quad.
func (ctx *PaintContext) projectBox(box ActorBox) Quad {
	corners := [4]Vertex{
		{box.X1, box.Y1, 0},
		{box.X2, box.Y1, 0},
		{box.X1, box.Y2, 0},
		{box.X2, box.Y2, 0},
	}
	var quad Quad
	for i, c := range corners {
		v := fullyTransformVertex(ctx.modelview, ctx.projection, ctx.viewport, c)
		quad[i] = mgl32.Vec2{v.X, v.Y}
	}
	return quad
}

// projectBoxBounds projects a box and returns the screen-space bounding
// rectangle of the result, for clip rectangles.
func (ctx *PaintContext) projectBoxBounds(box ActorBox) Geometry {
	quad := ctx.projectBox(box)
	minX, minY := quad[0].X(), quad[0].Y()
	maxX, maxY := minX, minY
	for _, p := range quad[1:] {
		minX = math32.Min(minX, p.X())
		minY = math32.Min(minY, p.Y())
		maxX = math32.Max(maxX, p.X())
		maxY = math32.Max(maxY, p.Y())
	}
	return Geometry{
		X:      int(math32.Floor(minX)),
		Y:      int(math32.Floor(minY)),
		Width:  int(math32.Ceil(maxX)) - int(math32.Floor(minX)),
		Height: int(math32.Ceil(maxY)) - int(math32.Floor(minY)),
	}
}

// Paint renders the stage tree onto fb. Call FrameDamage first to run
// layout and collect the damage region for this frame.
func (s *Stage) Paint(renderer Renderer, fb Framebuffer) {
	s.context.frameCount++

	ctx := &PaintContext{
		Stage:      s,
		Context:    s.context,
		Renderer:   renderer,
		Target:     fb,
		modelview:  s.viewMatrix(),
		projection: s.projection,
		viewport:   s.viewport,
	}
	if s.cullingEnabled && s.clipPlanesValid {
		ctx.cullPlanes = &s.clipPlanes
	}
	s.actor.Paint(ctx)
}

// Paint renders this actor and its subtree. Unmapped actors are skipped
// unless flagged to paint unmapped.
func (a *Actor) Paint(ctx *PaintContext) {
	if a.InDestruction() {
		return
	}
	if !a.IsMapped() && !a.paintUnmapped {
		return
	}

	pickMode := ctx.Context.pickMode
	opacity := float32(a.paintOpacity()) / 255
	if opacity == 0 && !pickMode {
		return
	}

	a.setFlag(flagInPaint)
	defer a.clearFlag(flagInPaint)

	prevMV := ctx.modelview
	ctx.modelview = prevMV.Mul4(a.transformMatrix())
	defer func() { ctx.modelview = prevMV }()

	// Cull against the frustum using where the actor was last frame. The
	// one frame of staleness is harmless: any actual movement queued a
	// redraw covering both positions.
	if !pickMode && !ctx.offscreen && ctx.cullPlanes != nil &&
		a.lastPaintVolumeValid && !a.isStage() {
		if a.lastPaintVolume.cull(ctx.cullPlanes) == CullResultOut {
			return
		}
	}

	clipped := a.pushPaintClip(ctx)

	if pickMode {
		a.classPick(ctx)
	} else if a.shouldRedirectOffscreen(opacity) {
		a.paintRedirected(ctx, opacity)
	} else {
		a.paintThroughEffects(ctx, a.effectToRedraw, func() { a.paintBody(ctx) })
	}
	if !pickMode {
		a.effectToRedraw = nil
	}

	if clipped {
		ctx.Renderer.PopClip(ctx.Target)
	}

	if !pickMode && ctx.Context.debug && !a.isStage() {
		a.debugPaintVolumeOutline(ctx)
	}

	if !pickMode && !ctx.offscreen {
		a.updateLastPaintVolume()
	}
}

// paintBody runs the actor's own drawing, inside any effects.
func (a *Actor) paintBody(ctx *PaintContext) {
	if a.OnPaint != nil {
		a.OnPaint(a, ctx)
		return
	}
	a.classPaint(ctx)
}

// pushPaintClip applies the actor's clip, if any, and reports whether a
// matching PopClip is needed.
func (a *Actor) pushPaintClip(ctx *PaintContext) bool {
	var box ActorBox
	switch {
	case a.hasClip:
		box = a.clip
	case a.clipToAllocation && !a.needsAllocation:
		box = BoxFromSize(0, 0, a.allocation.Width(), a.allocation.Height())
	default:
		return false
	}
	ctx.Renderer.PushClip(ctx.Target, ctx.projectBoxBounds(box))
	return true
}

func (a *Actor) shouldRedirectOffscreen(opacity float32) bool {
	switch a.offscreenRedirect {
	case RedirectAlways:
		return true
	case RedirectAlwaysForOpacity:
		return opacity < 1
	case RedirectAutomaticForOpacity:
		return opacity < 1 && a.classHasOverlaps()
	default:
		return false
	}
}

// paintRedirected paints the subtree at full opacity into an offscreen
// buffer, then composites that buffer once with the group opacity, so
// overlapping children do not double-blend.
func (a *Actor) paintRedirected(ctx *PaintContext, opacity float32) {
	vol := a.PaintVolume()
	if vol == nil {
		a.paintThroughEffects(ctx, a.effectToRedraw, func() { a.paintBody(ctx) })
		return
	}
	box := vol.BoundingBox()
	w := int(math32.Ceil(box.Width()))
	h := int(math32.Ceil(box.Height()))
	if w <= 0 || h <= 0 {
		return
	}

	fb := ctx.Renderer.AcquireOffscreen(w, h)
	defer ctx.Renderer.ReleaseOffscreen(fb)

	sub := &PaintContext{
		Stage:      ctx.Stage,
		Context:    ctx.Context,
		Renderer:   ctx.Renderer,
		Target:     fb,
		modelview:  mgl32.Translate3D(-box.X1, -box.Y1, 0),
		projection: mgl32.Ortho(0, float32(w), float32(h), 0, -1, 1),
		viewport:   [4]float32{0, 0, float32(w), float32(h)},
		offscreen:  true,
	}

	a.setOpacityOverride(255)
	a.paintThroughEffects(sub, a.effectToRedraw, func() { a.paintBody(sub) })
	a.setOpacityOverride(-1)

	// Only the top-left w by h of the buffer was painted; a pooled buffer
	// may well be larger.
	ctx.Renderer.DrawTexture(ctx.Target, fb, Geometry{Width: w, Height: h},
		ctx.projectBox(box), opacity)
}

// updateLastPaintVolume records the actor's current paint volume in eye
// coordinates, for culling and old-position damage next frame.
func (a *Actor) updateLastPaintVolume() {
	vol := a.PaintVolume()
	if vol == nil {
		a.lastPaintVolumeValid = false
		return
	}
	a.lastPaintVolume = *vol
	a.lastPaintVolume.transformRelative(nil)
	a.lastPaintVolumeValid = true
}

// paintChildren paints the children in insertion order, back to front.
func (a *Actor) paintChildren(ctx *PaintContext) {
	for _, child := range a.children {
		child.Paint(ctx)
	}
}

// defaultPick draws the actor's allocation as a flat silhouette in its
// pick color, then picks the children on top.
func (a *Actor) defaultPick(ctx *PaintContext) {
	if a.IsReactive() && !a.needsAllocation {
		id := ctx.Context.registerPick(a)
		r, g, b := pickColorFromID(id)
		box := BoxFromSize(0, 0, a.allocation.Width(), a.allocation.Height())
		ctx.Renderer.FillQuad(ctx.Target, ctx.projectBox(box), Color{
			R: float32(r) / 255,
			G: float32(g) / 255,
			B: float32(b) / 255,
			A: 1,
		})
	}
	a.paintChildren(ctx)
}
