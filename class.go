package aspen

import "github.com/go-gl/mathgl/mgl32"

// ActorClass is the capability table for an actor: a fixed set of function
// slots covering sizing, allocation, painting, picking, and lifecycle.
// A nil slot means "use the default behavior"; actors sharing behavior share
// one ActorClass value. This replaces subclass virtual dispatch with plain
// function pointers on a per-kind struct.
type ActorClass struct {
	// GetPreferredWidth reports the minimum and natural width, given a
	// height constraint (Unconstrained when unknown).
	GetPreferredWidth func(a *Actor, forHeight float32) (minWidth, naturalWidth float32)

	// GetPreferredHeight reports the minimum and natural height, given a
	// width constraint.
	GetPreferredHeight func(a *Actor, forWidth float32) (minHeight, naturalHeight float32)

	// Allocate stores the box assigned by the parent. Implementations must
	// call a.SetAllocation and then lay out any children.
	Allocate func(a *Actor, box ActorBox, flags AllocationFlags)

	// ApplyTransform, when set, replaces the default local transform
	// composition entirely.
	ApplyTransform func(a *Actor, m *mgl32.Mat4)

	// Paint draws the actor. The default paints children in insertion order.
	Paint func(a *Actor, ctx *PaintContext)

	// Pick draws the actor in pick mode. The default draws the allocation
	// as a flat quad in the actor's pick color, then picks children.
	Pick func(a *Actor, ctx *PaintContext)

	// GetPaintVolume fills in the actor's paint volume, in actor
	// coordinates. Returning false means the volume cannot be determined
	// and the actor must be painted (and damaged) conservatively.
	GetPaintVolume func(a *Actor, volume *PaintVolume) bool

	// HasOverlaps reports whether the actor may have overlapping visuals,
	// which matters for offscreen-redirected group opacity. The default
	// assumes true.
	HasOverlaps func(a *Actor) bool

	// Map and Unmap adjust the MAPPED flag. Overrides must chain the
	// default behavior via a.setMappedFlag and reconcile children.
	Map   func(a *Actor)
	Unmap func(a *Actor)

	// Realize creates backend-side resources. Returning false reports that
	// realization did not happen; the actor is left unmapped.
	Realize func(a *Actor) bool

	// Unrealize releases backend-side resources. Children are always
	// unrealized before their parent.
	Unrealize func(a *Actor)

	// ParentSet is invoked after the actor's parent changed, exactly once
	// per reparent.
	ParentSet func(a *Actor, oldParent *Actor)
}

// baseClass is the shared class for plain actors.
var baseClass = &ActorClass{}

// classGetPreferredWidth dispatches the width request, defaulting to the
// explicit overrides (zero when none are set).
func (a *Actor) classGetPreferredWidth(forHeight float32) (minWidth, naturalWidth float32) {
	if a.class.GetPreferredWidth != nil {
		return a.class.GetPreferredWidth(a, forHeight)
	}
	return 0, 0
}

func (a *Actor) classGetPreferredHeight(forWidth float32) (minHeight, naturalHeight float32) {
	if a.class.GetPreferredHeight != nil {
		return a.class.GetPreferredHeight(a, forWidth)
	}
	return 0, 0
}

// classAllocate dispatches the allocate step. The default just stores the
// box; container classes override to also allocate children.
func (a *Actor) classAllocate(box ActorBox, flags AllocationFlags) {
	if a.class.Allocate != nil {
		a.class.Allocate(a, box, flags)
		return
	}
	a.SetAllocation(box, flags)
}

func (a *Actor) classPaint(ctx *PaintContext) {
	if a.class.Paint != nil {
		a.class.Paint(a, ctx)
		return
	}
	a.paintChildren(ctx)
}

func (a *Actor) classPick(ctx *PaintContext) {
	if a.class.Pick != nil {
		a.class.Pick(a, ctx)
		return
	}
	a.defaultPick(ctx)
}

// classGetPaintVolume dispatches the paint volume computation. The default
// assumes the actor paints within its allocation.
func (a *Actor) classGetPaintVolume(volume *PaintVolume) bool {
	if a.class.GetPaintVolume != nil {
		return a.class.GetPaintVolume(a, volume)
	}
	return a.setVolumeFromAllocation(volume)
}

func (a *Actor) classHasOverlaps() bool {
	if a.class.HasOverlaps != nil {
		return a.class.HasOverlaps(a)
	}
	return true
}

func (a *Actor) classMap() {
	if a.class.Map != nil {
		a.class.Map(a)
		return
	}
	a.defaultMap()
}

func (a *Actor) classUnmap() {
	if a.class.Unmap != nil {
		a.class.Unmap(a)
		return
	}
	a.defaultUnmap()
}

func (a *Actor) classRealize() bool {
	if a.class.Realize != nil {
		return a.class.Realize(a)
	}
	return true
}

func (a *Actor) classUnrealize() {
	if a.class.Unrealize != nil {
		a.class.Unrealize(a)
	}
}

// setVolumeFromAllocation is the stock paint volume implementation for
// actors that never paint outside their allocation.
func (a *Actor) setVolumeFromAllocation(volume *PaintVolume) bool {
	if a.needsAllocation {
		return false
	}
	width, height := a.allocation.Size()
	if width == 0 || height == 0 {
		return false
	}
	volume.SetWidth(width)
	volume.SetHeight(height)
	return true
}
