package aspen

// EffectRunFlags tells an effect why the chain it sits in is repainting.
// Available through [PaintContext.EffectRunFlags] while the chain runs.
type EffectRunFlags uint8

const (
	// EffectRunActorDirty means the underlying actor changed, so any cached
	// output the effect holds is stale and must be rebuilt.
	EffectRunActorDirty EffectRunFlags = 1 << iota
)

// Effect wraps the painting of an actor. Effects run in attachment order:
// the first effect is closest to the raw actor, the last closest to final
// composition.
type Effect interface {
	ActorMeta

	// PrePaint runs before the actor (and any earlier effect output) is
	// painted. Returning false skips the actor paint and PostPaint.
	PrePaint(a *Actor, ctx *PaintContext) bool

	// PostPaint runs after the actor painted, in reverse attachment order.
	PostPaint(a *Actor, ctx *PaintContext)

	// ModifyPaintVolume lets the effect grow or reshape the actor's paint
	// volume (a blur expands bounds, for instance). Returning false means
	// the effect cannot reason about the volume and the actor must be
	// treated as unbounded.
	ModifyPaintVolume(a *Actor, volume *PaintVolume) bool
}

// EffectBase is a ready-made Effect to embed: paints through unchanged and
// leaves the volume alone.
type EffectBase struct {
	Meta
}

// PrePaint always continues the paint.
func (e *EffectBase) PrePaint(a *Actor, ctx *PaintContext) bool { return true }

// PostPaint does nothing.
func (e *EffectBase) PostPaint(a *Actor, ctx *PaintContext) {}

// ModifyPaintVolume leaves the volume untouched.
func (e *EffectBase) ModifyPaintVolume(a *Actor, volume *PaintVolume) bool { return true }

// AddEffect attaches an effect at the end of the chain.
func (a *Actor) AddEffect(effect Effect) {
	if a.effects == nil {
		a.effects = &metaGroup{}
	}
	a.effects.add(a, effect)
	a.invalidatePaintVolume()
	a.QueueRedraw()
}

// RemoveEffect detaches the named effect.
func (a *Actor) RemoveEffect(name string) {
	if a.effects == nil {
		return
	}
	if a.effects.remove(name) != nil {
		a.invalidatePaintVolume()
		a.QueueRedraw()
	}
}

// Effect returns the named effect, or nil.
func (a *Actor) Effect(name string) Effect {
	if a.effects == nil {
		return nil
	}
	e, _ := a.effects.lookup(name).(Effect)
	return e
}

// effectList returns the enabled effects in attachment order.
func (a *Actor) effectList() []Effect {
	if a.effects == nil {
		return nil
	}
	out := make([]Effect, 0, len(a.effects.items))
	for _, m := range a.effects.items {
		if e, ok := m.(Effect); ok && e.Enabled() {
			out = append(out, e)
		}
	}
	return out
}

// effectIndex returns the chain position of effect among enabled effects,
// or -1 when detached. Position defines redraw precedence: a later effect
// is closer to final composition.
func (a *Actor) effectIndex(effect Effect) int {
	for i, e := range a.effectList() {
		if e == effect {
			return i
		}
	}
	return -1
}

// QueueEffectRerun queues a repaint of only the given effect's slice of the
// chain: the actor and effects before it are assumed still valid. Queueing
// any plain redraw afterwards overrides this and forces a full repaint.
func (a *Actor) QueueEffectRerun(effect Effect) {
	if a.effectIndex(effect) < 0 {
		warn("queueing rerun for an effect not attached to actor %q", a.name)
		return
	}
	a.queueRedrawWithEffect(nil, effect)
}

// paintThroughEffects runs the effect chain around paintBody: PrePaint in
// attachment order, the actor's own paint, then PostPaint in reverse. While
// an effect-scoped repaint is in flight, currentEffectIdx marks how far the
// chain has actually composited, for paint volume queries mid-flight.
func (a *Actor) paintThroughEffects(ctx *PaintContext, entryEffect Effect, paintBody func()) {
	effects := a.effectList()
	if len(effects) == 0 {
		paintBody()
		return
	}

	entry := 0
	prevFlags := ctx.runFlags
	ctx.runFlags = EffectRunActorDirty
	if entryEffect != nil {
		if i := a.effectIndex(entryEffect); i >= 0 {
			entry = i
			// An effect-scoped rerun: the actor itself did not change, so
			// effects may serve cached output.
			ctx.runFlags = 0
		}
	}

	var run func(i int)
	run = func(i int) {
		if i >= len(effects) {
			paintBody()
			return
		}
		a.currentEffectIdx = i
		if !effects[i].PrePaint(a, ctx) {
			return
		}
		run(i + 1)
		a.currentEffectIdx = i
		effects[i].PostPaint(a, ctx)
	}

	run(entry)
	a.currentEffectIdx = -1
	ctx.runFlags = prevFlags
}
