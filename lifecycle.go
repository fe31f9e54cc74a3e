package aspen

// mapStateChange is the hint given to updateMapState: either a plain
// invariant reconciliation, or a forced transition.
type mapStateChange uint8

const (
	mapStateCheck mapStateChange = iota
	mapStateMakeMapped
	mapStateMakeUnmapped
	mapStateMakeUnrealized
)

// --- Show / hide ---

// Show makes the actor eligible for painting. Idempotent; a second call in
// a row still records the show-on-parent preference but produces no further
// state change or notification.
func (a *Actor) Show() {
	if a.IsVisible() {
		if a.parent == nil {
			a.showOnSetParent = true
		}
		return
	}

	a.showOnSetParent = true
	a.setFlag(flagVisible)

	if a.OnShow != nil {
		a.OnShow(a)
	}

	a.updateMapState(mapStateCheck)
	a.QueueRelayout()
}

// Hide withdraws the actor from painting. Idempotent like Show.
func (a *Actor) Hide() {
	if !a.IsVisible() {
		if a.parent == nil {
			a.showOnSetParent = false
		}
		return
	}

	a.showOnSetParent = false
	a.clearFlag(flagVisible)

	if a.OnHide != nil {
		a.OnHide(a)
	}

	a.updateMapState(mapStateCheck)

	// The parent reflows around the missing actor; the vacated area is
	// repainted through the parent's relayout-implied redraw.
	if a.parent != nil {
		a.parent.QueueRelayout()
	}
}

// ShowAll shows the actor and all descendants, bottom-up.
func (a *Actor) ShowAll() {
	for _, child := range a.children {
		child.ShowAll()
	}
	a.Show()
}

// HideAll hides the actor and all descendants, top-down.
func (a *Actor) HideAll() {
	a.Hide()
	for _, child := range a.children {
		child.HideAll()
	}
}

// SetPaintUnmapped forces the actor to realize and map even while its
// parent is unmapped. Offscreen painters (clones, live thumbnails) use it
// to traverse sources that are not on screen themselves.
func (a *Actor) SetPaintUnmapped(paint bool) {
	if a.paintUnmapped == paint {
		return
	}
	a.paintUnmapped = paint
	a.updateMapState(mapStateCheck)
	a.QueueRedraw()
}

// --- Map state reconciliation ---

// updateMapState is the single funnel for every VISIBLE/REALIZED/MAPPED
// transition. Given a change hint it computes what the flags should be and
// enforces them in the fixed order unmap → realize → unrealize → map, so
// the cross-edge invariants hold at every intermediate step.
func (a *Actor) updateMapState(change mapStateChange) {
	wasMapped := a.IsMapped()

	if a.isStage() {
		// Stages are mapped and unmapped by the windowing collaborator:
		// whether a root is on screen depends on window-manager state this
		// core cannot see. The only invariant enforced here is that a
		// mapped stage is visible.
		if a.IsVisible() && !a.IsRealized() {
			// Stages realize eagerly whenever visible, and always before
			// any map transition.
			a.realize()
		}

		switch change {
		case mapStateCheck:
			// nothing to do
		case mapStateMakeMapped:
			if !wasMapped {
				a.setMappedState(true)
			}
		case mapStateMakeUnmapped:
			if wasMapped {
				a.setMappedState(false)
			}
		case mapStateMakeUnrealized:
			// Unrealizing a stage by force is structurally impossible; it
			// owns the backend resources everything else realizes against.
			warn("cannot force-unrealize a stage")
		}

		if a.IsMapped() && !a.IsVisible() && !a.InDestruction() {
			warnInvariant(a, "stage is mapped but not visible")
		}
		return
	}

	parent := a.parent
	shouldBeMapped := false
	mayBeRealized := true
	mustBeRealized := false

	if parent == nil || change == mapStateMakeUnrealized {
		mayBeRealized = false
	} else {
		// An actor should be mapped while it is visible and its parent is
		// mapped, or the parent is a stage that is itself visible and
		// realized, since stage mapping is externally driven.
		parentMappedLike := parent.IsMapped() ||
			(parent.isStage() && parent.IsVisible() && parent.IsRealized())

		if change != mapStateMakeUnmapped {
			if a.IsVisible() && parentMappedLike {
				shouldBeMapped = true
			}
			if change == mapStateMakeMapped {
				shouldBeMapped = true
			}
			if a.paintUnmapped {
				// Painted-through-unmapped actors must realize and map no
				// matter what the parent's map state says.
				shouldBeMapped = true
				mustBeRealized = true
			}
		}

		if shouldBeMapped && !parent.IsRealized() && !parent.isStage() {
			warnInvariant(a, "cannot map: parent is not realized")
			shouldBeMapped = false
		}
	}

	// 1. Unmap before any realize/unrealize decision.
	if wasMapped && !shouldBeMapped {
		a.setMappedState(false)
	}

	// 2. Realize before map.
	if (shouldBeMapped || mustBeRealized) && !a.IsRealized() && mayBeRealized {
		a.realize()
	}

	// 3. Unrealize once unmapped, when being realized is no longer
	// permitted (parent gone or force-unrealize).
	if !mayBeRealized && a.IsRealized() {
		a.unrealizeNotHiding()
	}

	// 4. Map last, gated on a successful realize.
	if shouldBeMapped && !wasMapped {
		if !a.IsRealized() {
			// Realization did not happen (backend refusal); stay unmapped
			// rather than violating MAPPED ⇒ REALIZED.
			warn("actor %q could not be realized; leaving it unmapped", a.name)
			return
		}
		a.setMappedState(true)
	}

	a.verifyMapState()
}

// setMappedState flips the MAPPED flag through the class map/unmap slots.
func (a *Actor) setMappedState(mapped bool) {
	if a.IsMapped() == mapped {
		return
	}
	if mapped {
		a.classMap()
	} else {
		a.classUnmap()
	}
}

// defaultMap sets the flag, then reconciles children top-down so a child is
// never mapped before its parent.
func (a *Actor) defaultMap() {
	a.setMappedFlag(true)
	for _, child := range a.children {
		child.updateMapState(mapStateCheck)
	}
}

// defaultUnmap unmaps children first, bottom-up, then clears the flag, so a
// mapped child never has an unmapped parent mid-transition.
func (a *Actor) defaultUnmap() {
	for _, child := range a.children {
		child.updateMapState(mapStateMakeUnmapped)
	}
	a.setMappedFlag(false)
}

// setMappedFlag is the primitive flag mutation for Map/Unmap overrides to
// chain to.
func (a *Actor) setMappedFlag(mapped bool) {
	if mapped {
		if !a.IsRealized() {
			warnInvariant(a, "mapping an unrealized actor")
		}
		a.setFlag(flagMapped)
	} else {
		a.clearFlag(flagMapped)
		a.lastPaintVolumeValid = false
	}
}

// Map is the external entry point for stage implementations reacting to
// native window state. For non-stage actors the map state is inferred; use
// Show instead.
func (a *Actor) Map() {
	a.updateMapState(mapStateMakeMapped)
}

// Unmap is the external entry point mirroring Map.
func (a *Actor) Unmap() {
	a.updateMapState(mapStateMakeUnmapped)
}

// --- Realize / unrealize ---

// Realize creates backend resources for the actor, realizing unrealized
// ancestors first. Calling it on an actor outside any stage is refused.
func (a *Actor) Realize() {
	a.realize()
}

func (a *Actor) realize() {
	if a.IsRealized() {
		return
	}

	if a.parent == nil && !a.isStage() {
		warnInvariant(a, "cannot realize an actor with no stage")
		return
	}

	if a.parent != nil && !a.parent.IsRealized() {
		a.parent.realize()
		if !a.parent.IsRealized() {
			return
		}
	}

	if !a.classRealize() {
		// Backend refusal: realization did not happen. The actor stays
		// correctly unmapped.
		return
	}
	a.setFlag(flagRealized)
}

// Unrealize releases backend resources. The actor must not be mapped; hide
// it first.
func (a *Actor) Unrealize() {
	if a.IsMapped() {
		warnInvariant(a, "cannot unrealize a mapped actor")
		return
	}
	a.unrealizeNotHiding()
}

// unrealizeNotHiding unrealizes the whole subtree without touching
// visibility: a depth-first traversal where the before-children visit
// invokes the class unrealize hook top-down (skipping already-unrealized
// subtrees) and the after-children visit clears the flag bottom-up, so
// children always lose REALIZED before their parent does.
func (a *Actor) unrealizeNotHiding() {
	a.traverseDepthFirst(
		func(actor *Actor) traverseVisit {
			if !actor.IsRealized() {
				return traverseSkipChildren
			}
			actor.classUnrealize()
			return traverseContinue
		},
		func(actor *Actor) {
			if actor.IsRealized() {
				actor.clearFlag(flagRealized)
			}
		},
	)
}

// traverseVisit controls a depth-first traversal.
type traverseVisit uint8

const (
	traverseContinue traverseVisit = iota
	traverseSkipChildren
)

// traverseDepthFirst walks the subtree rooted at a, calling before on the
// way down and after on the way back up. Either callback may be nil.
func (a *Actor) traverseDepthFirst(before func(*Actor) traverseVisit, after func(*Actor)) {
	if before != nil {
		if before(a) == traverseSkipChildren {
			return
		}
	}
	for _, child := range a.children {
		child.traverseDepthFirst(before, after)
	}
	if after != nil {
		after(a)
	}
}

// --- Parenting ---

// setParent wires the child under parent. emitNotify is false while a
// reparent is in flight, so the parent-set notification fires exactly once.
func (a *Actor) setParent(parent *Actor, emitNotify bool) {
	a.parent = parent
	parent.children = append(parent.children, a)

	if a.showOnSetParent && !a.IsVisible() {
		a.Show()
	}

	if emitNotify && !a.hasFlag(flagInReparent) {
		a.notifyParentSet(nil)
	}

	a.updateMapState(mapStateCheck)

	// A new child invalidates the parent's layout and enclosing volume.
	// The child itself may already be fully dirty (fresh actors are), so
	// the mark must start at the parent to propagate toward the stage.
	a.needsWidthRequest = true
	a.needsHeightRequest = true
	a.needsAllocation = true
	a.invalidatePaintVolume()
	parent.QueueRelayout()
}

// Unparent detaches the actor from its parent. Unless a reparent is in
// flight, the subtree is unmapped and unrealized first, and any pending
// redraw entries for it are invalidated since it can no longer be reached
// for painting.
func (a *Actor) Unparent() {
	oldParent := a.parent
	if oldParent == nil {
		return
	}

	inReparent := a.hasFlag(flagInReparent)

	if !inReparent {
		a.updateMapState(mapStateMakeUnrealized)
		a.invalidateQueuedRedrawsDeep()
	}

	oldParent.removeChildPtr(a)
	a.parent = nil

	if !inReparent {
		a.notifyParentSet(oldParent)
	}

	if !oldParent.InDestruction() {
		oldParent.invalidatePaintVolume()
		oldParent.QueueRelayout()
	}
}

// Reparent atomically moves the actor under a new parent. It behaves as one
// unparent plus one set-parent, but the parent-set notification fires
// exactly once and the subtree is never transiently unmapped or unrealized
// just because the actor is briefly parentless.
func (a *Actor) Reparent(newParent *Actor) {
	if newParent == nil {
		panic("aspen: cannot reparent to nil; use Unparent")
	}
	if a.InDestruction() {
		return
	}
	if a.parent == newParent {
		return
	}
	if a == newParent || a.isAncestorOf(newParent) {
		panic("aspen: reparenting would create a cycle")
	}

	oldParent := a.parent
	if oldParent == nil {
		newParent.AddChild(a)
		return
	}

	a.setFlag(flagInReparent)
	a.Unparent()
	a.setParent(newParent, false)
	a.clearFlag(flagInReparent)

	a.notifyParentSet(oldParent)
	a.updateMapState(mapStateCheck)
}

func (a *Actor) notifyParentSet(oldParent *Actor) {
	if a.class.ParentSet != nil {
		a.class.ParentSet(a, oldParent)
	}
	if a.OnParentSet != nil {
		a.OnParentSet(a, oldParent)
	}
}

// --- Destruction ---

// Destroy tears the actor down: unrealizes the subtree bottom-up without
// hiding, destroys children (a parent owns its children's existence),
// detaches from the parent, invalidates pending redraw entries, and
// releases attached behaviors. Re-entrant calls are no-ops.
func (a *Actor) Destroy() {
	if a.InDestruction() || a.IsDisposed() {
		return
	}
	a.setFlag(flagInDestruction)

	if a.OnDestroy != nil {
		a.OnDestroy(a)
	}

	if a.IsMapped() {
		a.updateMapState(mapStateMakeUnmapped)
	}
	if a.IsRealized() {
		a.unrealizeNotHiding()
	}

	a.invalidateQueuedRedrawsDeep()

	for _, child := range a.Children() {
		child.Destroy()
	}

	if a.parent != nil {
		a.Unparent()
	}

	a.releaseMetas()
	a.paintVolumeValid = false
	a.lastPaintVolumeValid = false

	a.setFlag(flagDisposed)
}

// --- Invariant checks ---

// verifyMapState asserts the cross-edge invariants. Violations are reported
// and tolerated: a visual glitch beats a crash.
func (a *Actor) verifyMapState() {
	if !debugEnabled(a) {
		return
	}

	if a.IsMapped() {
		if !a.IsRealized() {
			warnInvariant(a, "mapped but not realized")
		}
		if !a.IsVisible() && !a.InDestruction() {
			warnInvariant(a, "mapped but not visible")
		}
		if !a.isStage() {
			p := a.parent
			switch {
			case p == nil:
				warnInvariant(a, "mapped without a parent")
			case p.isStage():
				if !(p.IsVisible() && p.IsRealized()) {
					warnInvariant(a, "mapped on a stage that is not visible and realized")
				}
			case !p.IsMapped() && !a.paintUnmapped:
				warnInvariant(a, "mapped but parent is not mapped")
			}
		}
	}

	if a.IsRealized() && !a.isStage() {
		if a.parent == nil {
			warnInvariant(a, "realized without a parent")
		} else if !a.parent.IsRealized() {
			warnInvariant(a, "realized but parent is not realized")
		}
	}
}
