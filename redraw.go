package aspen

// redrawEntry is one pending "this actor changed" record in a stage's
// per-frame queue. Each actor owns at most one entry; repeat notifications
// merge into it. An entry whose actor has been cleared was invalidated and
// is skipped at drain time.
type redrawEntry struct {
	actor   *Actor
	hasClip bool
	clip    PaintVolume
	effect  Effect
}

// QueueRedraw records that the actor's appearance changed. With no explicit
// clip, the actor's previous on-screen volume is queued (so the vacated
// area is repainted) along with an unclipped entry for the actor itself,
// resolved to its then-current volume when the queue drains after layout.
func (a *Actor) QueueRedraw() {
	a.queueRedrawWithEffect(nil, nil)
}

// QueueRedrawWithClip records an appearance change bounded to an explicit
// actor-space rectangle.
func (a *Actor) QueueRedrawWithClip(clip ActorBox) {
	pv := NewPaintVolume()
	pv.refActor = a
	pv.SetOrigin(Vertex{X: clip.X1, Y: clip.Y1})
	pv.SetWidth(clip.Width())
	pv.SetHeight(clip.Height())
	a.queueRedrawWithEffect(pv, nil)
}

// queueRedrawWithEffect is the single entry point for appearance damage.
// effect, when non-nil, scopes the repaint to that effect's slice of the
// chain.
func (a *Actor) queueRedrawWithEffect(clip *PaintVolume, effect Effect) {
	if a.InDestruction() || a.IsDisposed() {
		return
	}
	stage := a.Stage()
	if stage == nil || stage.actor.InDestruction() {
		return
	}

	if clip != nil {
		stage.queueActorRedraw(a, clip, effect)
		return
	}

	// The old stage-space volume covers where the actor used to be; it is
	// routed as a stage-level clip because the actor's own coordinates no
	// longer describe that area.
	if a.lastPaintVolumeValid {
		old := a.lastPaintVolume
		stage.queueActorRedraw(stage.actor, &old, nil)
	}

	// The actor's own entry stays clipless here: its paint volume cannot be
	// trusted until the relayout that this change may also have queued has
	// run, so drain time resolves it.
	stage.queueActorRedraw(a, nil, effect)
}

// queueActorRedraw merges the notification into the actor's pending entry
// (creating it if needed) and bubbles a one-per-frame "a descendant
// changed" notification up the tree.
func (s *Stage) queueActorRedraw(a *Actor, clip *PaintVolume, effect Effect) {
	entry := a.queueRedrawEntry
	if entry == nil {
		entry = &redrawEntry{actor: a}
		if clip != nil {
			entry.hasClip = true
			entry.clip = *clip
		}
		entry.effect = effect
		a.queueRedrawEntry = entry
		s.pendingRedraws = append(s.pendingRedraws, entry)
	} else {
		s.mergeRedrawEntry(entry, clip, effect)
	}

	// Bubble at most once per actor per frame: containers tracking "did any
	// child change" only need the edge, not every repeat notification.
	if a.propagatedOneRedraw {
		return
	}
	a.propagatedOneRedraw = true
	for p := a.parent; p != nil; p = p.parent {
		if p.OnQueueRedraw != nil && !p.OnQueueRedraw(p, a) {
			return
		}
	}
}

// mergeRedrawEntry folds a new notification into an existing one.
func (s *Stage) mergeRedrawEntry(entry *redrawEntry, clip *PaintVolume, effect Effect) {
	a := entry.actor

	// Effect precedence is positional: the effect later in the chain is
	// closer to final composition and wins. A redraw with no effect forces
	// a full actor repaint and clears the association.
	if effect == nil {
		entry.effect = nil
	} else if entry.effect != nil {
		if a.effectIndex(effect) > a.effectIndex(entry.effect) {
			entry.effect = effect
		}
	}
	// entry.effect == nil with a non-nil effect: the entry already demands
	// a full, effectless repaint of the node (clipped or not) and subsumes
	// the effect-scoped one.

	if !entry.hasClip {
		return
	}
	if clip == nil {
		entry.hasClip = false
		return
	}
	if entry.clip.refActor == clip.refActor {
		union := entry.clip
		union.axisAlign()
		aligned := *clip
		aligned.axisAlign()
		union.Union(&aligned)
		entry.clip = union
		return
	}
	// Clips in different coordinate spaces: give up on clipping rather
	// than mis-translate one of them.
	entry.hasClip = false
}

// invalidateQueuedRedrawsDeep abandons pending redraw entries for the actor
// and all descendants. Called when a subtree leaves the stage and can no
// longer be reached for painting.
func (a *Actor) invalidateQueuedRedrawsDeep() {
	a.traverseDepthFirst(func(x *Actor) traverseVisit {
		if entry := x.queueRedrawEntry; entry != nil {
			entry.actor = nil
			x.queueRedrawEntry = nil
		}
		x.propagatedOneRedraw = false
		x.effectToRedraw = nil
		return traverseContinue
	}, nil)
}

// drainRedrawQueue converts every pending entry into window-space damage.
// Processing an entry may queue more (a clone reacting to its source), so
// the loop runs until the queue is empty.
func (s *Stage) drainRedrawQueue() {
	for len(s.pendingRedraws) > 0 {
		entries := s.pendingRedraws
		s.pendingRedraws = nil

		for _, entry := range entries {
			if entry.actor == nil {
				continue
			}
			a := entry.actor
			a.queueRedrawEntry = nil
			a.propagatedOneRedraw = false

			// The merged effect scope survives the drain: the next paint of
			// this actor enters the chain at that effect. Actor.Paint clears
			// it once consumed.
			a.effectToRedraw = entry.effect

			clip := entry.clip
			if !entry.hasClip {
				// Clipless entry: the actor's volume is resolved now,
				// post-layout. No volume means the painted extent is
				// unknowable and everything must be repainted.
				pv := a.PaintVolume()
				if pv == nil {
					s.damageFull = true
					continue
				}
				clip = *pv
			}

			if clip.refActor != nil {
				// Actor-space clip: run it through the full pipeline.
				ref := clip.refActor
				clip.refActor = nil
				modelview := s.viewMatrix().Mul4(ref.relativeModelview(s.actor))
				clip.Project(modelview, s.projection, s.viewport)
			} else {
				// Already in eye coordinates (an old painted volume).
				clip.Project(identityMatrix, s.projection, s.viewport)
			}
			s.addDamage(GeometryFromBox(clip.BoundingBox()))
		}
	}
}

// addDamage grows the frame's damage region.
func (s *Stage) addDamage(g Geometry) {
	if g.IsEmpty() {
		return
	}
	if !s.damageValid {
		s.damage = g
		s.damageValid = true
		return
	}
	s.damage = s.damage.Union(g)
}
