package aspen

import (
	"github.com/go-gl/mathgl/mgl32"
)

// actorIDCounter is a plain counter; aspen is single-threaded.
var actorIDCounter uint32

func nextActorID() uint32 {
	actorIDCounter++
	return actorIDCounter
}

// actorFlags is the packed lifecycle and re-entrancy state of an actor.
type actorFlags uint16

const (
	// flagVisible records user intent: the actor wants to be painted.
	flagVisible actorFlags = 1 << iota
	// flagRealized means backend-side resources may exist.
	flagRealized
	// flagMapped means the actor will actually be painted next frame.
	flagMapped
	// flagReactive means the actor takes part in picking.
	flagReactive

	// Transient flags suspending invariant enforcement during re-entrant
	// operations.
	flagInDestruction
	flagInReparent
	flagInPaint
	flagInRelayout
	flagInPrefSize

	flagDisposed
)

// OffscreenRedirect selects when an actor's subtree is flattened into an
// offscreen buffer before compositing, so group opacity blends as one layer.
type OffscreenRedirect uint8

const (
	// RedirectNever paints directly, letting translucent children blend
	// against each other.
	RedirectNever OffscreenRedirect = iota
	// RedirectAutomaticForOpacity redirects only while the paint opacity is
	// below full and the actor reports overlapping visuals.
	RedirectAutomaticForOpacity
	// RedirectAlwaysForOpacity redirects whenever the paint opacity is
	// below full.
	RedirectAlwaysForOpacity
	// RedirectAlways redirects unconditionally.
	RedirectAlways
)

// Actor is a node in the scene graph. A single flat struct carries all state
// for every actor kind; behavior that genuinely differs per kind lives in
// the ActorClass function table.
type Actor struct {
	// Identity
	id   uint32
	name string

	class *ActorClass

	// kindData points back at the wrapper for class-specific actors such
	// as Rectangle and Texture, for use inside class slots.
	kindData any

	// Hierarchy
	parent   *Actor
	children []*Actor

	flags actorFlags

	// showOnSetParent records that Show was called while parentless, so the
	// actor shows itself when it gains a parent.
	showOnSetParent bool

	// paintUnmapped forces realize+map decisions regardless of the parent's
	// map state. Used by offscreen painters such as clones.
	paintUnmapped bool

	// stageData is non-nil only on a stage's root actor.
	stageData *Stage

	// Size negotiation
	requestMode        RequestMode
	fixedPositionSet   bool
	fixedX, fixedY     float32
	minWidth           float32
	minWidthSet        bool
	naturalWidth       float32
	naturalWidthSet    bool
	minHeight          float32
	minHeightSet       bool
	naturalHeight      float32
	naturalHeightSet   bool
	needsWidthRequest  bool
	needsHeightRequest bool
	needsAllocation    bool
	allocation         ActorBox
	allocationFlags    AllocationFlags
	widthRequests      [sizeRequestCacheSize]sizeRequest
	heightRequests     [sizeRequestCacheSize]sizeRequest
	cacheAge           uint32

	// Transform
	depth           float32
	scaleX, scaleY  float32
	scaleCenter     point
	rotationAngles  [3]float32
	rotationCenters [3]point
	anchor          point
	transformCache  mgl32.Mat4
	transformValid  bool

	// Visual state
	opacity           uint8
	opacityOverride   int16 // -1 when unset
	hasClip           bool
	clip              ActorBox
	clipToAllocation  bool
	offscreenRedirect OffscreenRedirect

	// Paint volume caches. paintVolumeStore is in actor coordinates;
	// lastPaintVolume is kept in eye coordinates across frames so damage
	// and culling can reason about where the actor used to be on screen.
	paintVolumeStore     PaintVolume
	paintVolumeValid     bool
	lastPaintVolume      PaintVolume
	lastPaintVolumeValid bool

	// Redraw bookkeeping
	queueRedrawEntry    *redrawEntry
	propagatedOneRedraw bool

	// effectToRedraw is the entry effect the drained redraw queue scoped
	// the next repaint to, or nil for a full repaint. Consumed and cleared
	// by Paint.
	effectToRedraw Effect

	// currentEffectIdx is the index of the effect currently re-running the
	// paint, or -1 outside an effect-driven repaint. Paint volume queries
	// mid-flight only let effects up to this index contribute.
	currentEffectIdx int

	// Attached behaviors, created lazily.
	actions     *metaGroup
	constraints *metaGroup
	effects     *metaGroup

	// Explicit hooks replacing signal emission. All are optional.
	OnShow              func(a *Actor)
	OnHide              func(a *Actor)
	OnParentSet         func(a *Actor, oldParent *Actor)
	OnAllocationChanged func(a *Actor, box ActorBox, flags AllocationFlags)
	OnDestroy           func(a *Actor)

	// OnPaint is an external paint hook that may draw anywhere; while set,
	// the engine refuses to reason about the actor's paint volume.
	OnPaint func(a *Actor, ctx *PaintContext)

	// OnQueueRedraw and OnQueueRelayout intercept upward propagation.
	// Returning false stops the walk.
	OnQueueRedraw   func(a *Actor, origin *Actor) bool
	OnQueueRelayout func(a *Actor) bool
}

// NewActor creates a plain actor: visible, unrealized, unmapped, needing
// allocation.
func NewActor() *Actor {
	return newActorWithClass(baseClass)
}

func newActorWithClass(class *ActorClass) *Actor {
	a := &Actor{
		id:    nextActorID(),
		class: class,
	}
	actorDefaults(a)
	return a
}

// actorDefaults sets the common default field values shared by all
// constructors.
func actorDefaults(a *Actor) {
	a.flags = flagVisible
	a.showOnSetParent = true
	a.scaleX = 1
	a.scaleY = 1
	a.opacity = 255
	a.opacityOverride = -1
	a.needsWidthRequest = true
	a.needsHeightRequest = true
	a.needsAllocation = true
	a.currentEffectIdx = -1
	a.paintVolumeStore.init()
	a.lastPaintVolume.init()
}

// --- Flag helpers ---

func (a *Actor) hasFlag(f actorFlags) bool { return a.flags&f != 0 }
func (a *Actor) setFlag(f actorFlags)      { a.flags |= f }
func (a *Actor) clearFlag(f actorFlags)    { a.flags &^= f }

// IsVisible reports whether the actor has been shown.
func (a *Actor) IsVisible() bool { return a.hasFlag(flagVisible) }

// IsRealized reports whether backend resources may exist for the actor.
func (a *Actor) IsRealized() bool { return a.hasFlag(flagRealized) }

// IsMapped reports whether the actor will be painted.
func (a *Actor) IsMapped() bool { return a.hasFlag(flagMapped) }

// IsDisposed reports whether Destroy has completed for the actor.
func (a *Actor) IsDisposed() bool { return a.hasFlag(flagDisposed) }

// InDestruction reports whether the actor is mid-teardown.
func (a *Actor) InDestruction() bool { return a.hasFlag(flagInDestruction) }

// isStage reports whether this actor is a stage root.
func (a *Actor) isStage() bool { return a.stageData != nil }

// SetReactive toggles participation in picking.
func (a *Actor) SetReactive(reactive bool) {
	if reactive {
		a.setFlag(flagReactive)
	} else {
		a.clearFlag(flagReactive)
	}
}

// IsReactive reports whether the actor takes part in picking.
func (a *Actor) IsReactive() bool { return a.hasFlag(flagReactive) }

// --- Identity ---

// ID returns the actor's process-unique id.
func (a *Actor) ID() uint32 { return a.id }

// Name returns the actor's optional name.
func (a *Actor) Name() string { return a.name }

// SetName sets the actor's name, used in diagnostics.
func (a *Actor) SetName(name string) { a.name = name }

// --- Tree access ---

// Parent returns the owning parent, or nil for roots and detached actors.
func (a *Actor) Parent() *Actor { return a.parent }

// ChildCount returns the number of children.
func (a *Actor) ChildCount() int { return len(a.children) }

// ChildAt returns the child at the given index.
func (a *Actor) ChildAt(i int) *Actor { return a.children[i] }

// Children returns a copy of the child list in paint order.
func (a *Actor) Children() []*Actor {
	out := make([]*Actor, len(a.children))
	copy(out, a.children)
	return out
}

// Stage returns the stage the actor sits on, or nil when detached.
func (a *Actor) Stage() *Stage {
	for p := a; p != nil; p = p.parent {
		if p.stageData != nil {
			return p.stageData
		}
	}
	return nil
}

// isAncestorOf reports whether a is on the parent chain of descendant.
func (a *Actor) isAncestorOf(descendant *Actor) bool {
	for p := descendant.parent; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

// AddChild appends child to this actor's children and parents it.
// Panics if child is nil or adding it would create a cycle.
func (a *Actor) AddChild(child *Actor) {
	if child == nil {
		panic("aspen: cannot add nil child")
	}
	if child == a || child.isAncestorOf(a) {
		panic("aspen: adding child would create a cycle")
	}
	if child.parent != nil {
		warn("actor %q already has a parent; use Reparent", child.name)
		return
	}
	child.setParent(a, true)
}

// InsertChildAt parents child at the given position in paint order.
func (a *Actor) InsertChildAt(child *Actor, index int) {
	if child == nil {
		panic("aspen: cannot add nil child")
	}
	if index < 0 || index > len(a.children) {
		panic("aspen: child index out of range")
	}
	if child.parent != nil {
		warn("actor %q already has a parent; use Reparent", child.name)
		return
	}
	a.AddChild(child)
	// AddChild appended; rotate into place.
	copy(a.children[index+1:], a.children[index:len(a.children)-1])
	a.children[index] = child
}

// RemoveChild unparents child. The child keeps its own state and can be
// re-added elsewhere.
func (a *Actor) RemoveChild(child *Actor) {
	if child == nil || child.parent != a {
		warn("RemoveChild: actor is not a child of this actor")
		return
	}
	child.Unparent()
}

func (a *Actor) removeChildPtr(child *Actor) {
	for i, c := range a.children {
		if c == child {
			a.children = append(a.children[:i], a.children[i+1:]...)
			return
		}
	}
}

// --- Visual state ---

// SetOpacity sets the actor's opacity (0 transparent, 255 opaque).
func (a *Actor) SetOpacity(opacity uint8) {
	if a.opacity == opacity {
		return
	}
	a.opacity = opacity
	a.QueueRedraw()
}

// Opacity returns the actor's own opacity.
func (a *Actor) Opacity() uint8 { return a.opacity }

// setOpacityOverride forces the paint opacity to a fixed value, used by
// effects and clones while repainting a source actor. Pass -1 to unset.
func (a *Actor) setOpacityOverride(opacity int16) {
	a.opacityOverride = opacity
}

// paintOpacity returns the composited opacity used while painting: the
// override when set, otherwise the product of the actor's own opacity with
// its parent chain.
func (a *Actor) paintOpacity() uint8 {
	if a.opacityOverride >= 0 {
		return uint8(a.opacityOverride)
	}
	if a.parent == nil || a.isStage() {
		return a.opacity
	}
	parentOpacity := a.parent.paintOpacity()
	return uint8(uint16(a.opacity) * uint16(parentOpacity) / 255)
}

// SetClip sets an explicit clip rectangle in actor coordinates.
func (a *Actor) SetClip(x, y, width, height float32) {
	a.hasClip = true
	a.clip = BoxFromSize(x, y, width, height)
	a.QueueRedraw()
}

// RemoveClip removes the explicit clip rectangle.
func (a *Actor) RemoveClip() {
	if !a.hasClip {
		return
	}
	a.hasClip = false
	a.QueueRedraw()
}

// SetClipToAllocation clips painting to the allocation box without tracking
// an explicit rectangle.
func (a *Actor) SetClipToAllocation(clip bool) {
	if a.clipToAllocation == clip {
		return
	}
	a.clipToAllocation = clip
	a.QueueRedraw()
}

// SetOffscreenRedirect selects the offscreen compositing policy.
func (a *Actor) SetOffscreenRedirect(redirect OffscreenRedirect) {
	if a.offscreenRedirect == redirect {
		return
	}
	a.offscreenRedirect = redirect
	a.QueueRedraw()
}

// --- Paint volume ---

// PaintVolume returns the actor's paint volume in actor coordinates, or nil
// when no volume can be determined: no valid allocation, an external paint
// hook is attached, or the actor's own implementation declines.
func (a *Actor) PaintVolume() *PaintVolume {
	if !a.paintVolumeValid {
		a.paintVolumeValid = a.computePaintVolume(&a.paintVolumeStore)
	}
	if !a.paintVolumeValid {
		return nil
	}
	return &a.paintVolumeStore
}

func (a *Actor) computePaintVolume(pv *PaintVolume) bool {
	pv.init()
	pv.refActor = a

	// An external paint hook may draw outside the declared box; nothing can
	// be assumed about the painted extents.
	if a.OnPaint != nil {
		return false
	}

	if !a.classGetPaintVolume(pv) {
		return false
	}

	// Containers enclose their children: union each child's volume,
	// rebased into this actor's coordinates.
	for _, child := range a.children {
		if !child.IsVisible() {
			continue
		}
		cv := child.PaintVolume()
		if cv == nil {
			return false
		}
		rebased := *cv
		rebased.Transform(child.transformMatrix())
		rebased.axisAlign()
		pv.Union(&rebased)
	}

	// Attached effects may grow the volume. Mid-repaint, only effects up to
	// the one currently running have composited output on screen, so later
	// ones must not contribute.
	for i, e := range a.effectList() {
		if a.currentEffectIdx >= 0 && i > a.currentEffectIdx {
			break
		}
		if !e.ModifyPaintVolume(a, pv) {
			return false
		}
	}

	return true
}

// invalidatePaintVolume drops the cached object-space volume.
func (a *Actor) invalidatePaintVolume() {
	// Container volumes enclose their children, so a stale child volume
	// makes every ancestor volume stale too.
	for p := a; p != nil; p = p.parent {
		if !p.paintVolumeValid && p != a {
			break
		}
		p.paintVolumeValid = false
	}
}
