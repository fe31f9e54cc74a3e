package aspen

// RequestMode declares which dimension an actor negotiates first.
type RequestMode uint8

const (
	// RequestHeightForWidth queries the width first (with an unconstrained
	// height), then the height for that width. The default.
	RequestHeightForWidth RequestMode = iota
	// RequestWidthForHeight is the transposed order.
	RequestWidthForHeight
)

// Unconstrained is the sentinel for-size meaning "no constraint on the
// complementary dimension".
const Unconstrained float32 = -1

// sizeRequestCacheSize bounds the per-dimension cache of recent preferred
// size queries. Three slots cover the common pattern of a parent probing an
// actor at unconstrained, minimum, and final sizes within one layout pass.
const sizeRequestCacheSize = 3

// sizeRequest is one cached (input size → min, natural) result. age orders
// the slots for least-recently-computed eviction; zero means unused.
type sizeRequest struct {
	age     uint32
	forSize float32
	min     float32
	natural float32
}

// SetRequestMode changes the negotiation order and invalidates layout.
func (a *Actor) SetRequestMode(mode RequestMode) {
	if a.requestMode == mode {
		return
	}
	a.requestMode = mode
	a.QueueRelayout()
}

// RequestMode returns the negotiation order.
func (a *Actor) RequestMode() RequestMode { return a.requestMode }

// --- Preferred size ---

// GetPreferredWidth returns the minimum and natural width for the given
// height constraint (Unconstrained when unknown). Results are cached until
// the next relayout.
func (a *Actor) GetPreferredWidth(forHeight float32) (minWidth, naturalWidth float32) {
	return a.getPreferredSize(&a.widthRequests, &a.needsWidthRequest, forHeight,
		a.classGetPreferredWidth, a.minWidthSet, a.minWidth, a.naturalWidthSet, a.naturalWidth)
}

// GetPreferredHeight returns the minimum and natural height for the given
// width constraint.
func (a *Actor) GetPreferredHeight(forWidth float32) (minHeight, naturalHeight float32) {
	return a.getPreferredSize(&a.heightRequests, &a.needsHeightRequest, forWidth,
		a.classGetPreferredHeight, a.minHeightSet, a.minHeight, a.naturalHeightSet, a.naturalHeight)
}

// GetPreferredSize returns the preferred size, negotiating the dimensions in
// the actor's request-mode order.
func (a *Actor) GetPreferredSize() (minWidth, minHeight, naturalWidth, naturalHeight float32) {
	if a.requestMode == RequestHeightForWidth {
		minWidth, naturalWidth = a.GetPreferredWidth(Unconstrained)
		minHeight, naturalHeight = a.GetPreferredHeight(naturalWidth)
	} else {
		minHeight, naturalHeight = a.GetPreferredHeight(Unconstrained)
		minWidth, naturalWidth = a.GetPreferredWidth(naturalHeight)
	}
	return minWidth, minHeight, naturalWidth, naturalHeight
}

// getPreferredSize is the shared cache machinery for both dimensions.
func (a *Actor) getPreferredSize(cache *[sizeRequestCacheSize]sizeRequest, needsRequest *bool,
	forSize float32, compute func(float32) (float32, float32),
	minSet bool, minOverride float32, naturalSet bool, naturalOverride float32) (minOut, naturalOut float32) {

	if a.hasFlag(flagInRelayout) && debugEnabled(a) {
		// Recursive queries during an active relayout are tolerated but
		// suspicious: a sizing implementation is probably asking about
		// itself through a cycle.
		warn("preferred size of %q queried during its own relayout", a.name)
	}

	// A cache entry is valid only while the request flag is clear.
	if !*needsRequest {
		for i := range cache {
			if cache[i].age > 0 && cache[i].forSize == forSize {
				return cache[i].min, cache[i].natural
			}
		}
	} else {
		for i := range cache {
			cache[i].age = 0
		}
		*needsRequest = false
	}

	min, natural := compute(forSize)
	if minSet {
		min = minOverride
	}
	if naturalSet {
		natural = naturalOverride
	}
	if natural < min {
		natural = min
	}

	// Store in the least-recently-computed slot.
	slot := 0
	for i := 1; i < len(cache); i++ {
		if cache[i].age < cache[slot].age {
			slot = i
		}
	}
	a.cacheAge++
	cache[slot] = sizeRequest{age: a.cacheAge, forSize: forSize, min: min, natural: natural}

	return min, natural
}

// --- Explicit size overrides ---

// SetMinWidth overrides the computed minimum width.
func (a *Actor) SetMinWidth(width float32) {
	a.minWidth = width
	a.minWidthSet = true
	a.QueueRelayout()
}

// SetNaturalWidth overrides the computed natural width.
func (a *Actor) SetNaturalWidth(width float32) {
	a.naturalWidth = width
	a.naturalWidthSet = true
	a.QueueRelayout()
}

// SetMinHeight overrides the computed minimum height.
func (a *Actor) SetMinHeight(height float32) {
	a.minHeight = height
	a.minHeightSet = true
	a.QueueRelayout()
}

// SetNaturalHeight overrides the computed natural height.
func (a *Actor) SetNaturalHeight(height float32) {
	a.naturalHeight = height
	a.naturalHeightSet = true
	a.QueueRelayout()
}

// SetSize overrides both natural dimensions at once. Negative values clear
// the overrides.
func (a *Actor) SetSize(width, height float32) {
	if width >= 0 {
		a.naturalWidth = width
		a.naturalWidthSet = true
	} else {
		a.naturalWidthSet = false
	}
	if height >= 0 {
		a.naturalHeight = height
		a.naturalHeightSet = true
	} else {
		a.naturalHeightSet = false
	}
	a.QueueRelayout()
}

// ClearSizeOverrides removes all explicit min/natural overrides.
func (a *Actor) ClearSizeOverrides() {
	a.minWidthSet = false
	a.naturalWidthSet = false
	a.minHeightSet = false
	a.naturalHeightSet = false
	a.QueueRelayout()
}

// SetPosition fixes the actor's position in its parent, bypassing any
// layout-driven placement.
func (a *Actor) SetPosition(x, y float32) {
	a.fixedPositionSet = true
	a.fixedX = x
	a.fixedY = y
	a.QueueRelayout()
}

// Position returns the fixed position if set, else the allocated origin.
func (a *Actor) Position() (x, y float32) {
	if a.fixedPositionSet {
		return a.fixedX, a.fixedY
	}
	return a.allocation.Origin()
}

// MoveBy shifts the fixed position by a delta.
func (a *Actor) MoveBy(dx, dy float32) {
	x, y := a.Position()
	a.SetPosition(x+dx, y+dy)
}

// --- Allocation ---

// Allocate assigns the actor its final box, in parent coordinates. Only the
// parent (or the stage driver for top-level actors) calls this. Attached
// constraints adjust the box in place first; the per-actor allocate step is
// skipped entirely when nothing material changed.
func (a *Actor) Allocate(box ActorBox, flags AllocationFlags) {
	if a.InDestruction() {
		return
	}

	for _, c := range a.constraintList() {
		c.UpdateAllocation(a, &box)
	}

	old := a.allocation
	originChanged := flags&AllocAbsoluteOriginChanged != 0
	stageChanged := box != old

	if !a.needsAllocation && !stageChanged && !originChanged && flags == a.allocationFlags {
		// Pure optimization: nothing moved, nothing to do.
		return
	}

	// "Did I move relative to my parent" and "did my absolute origin move"
	// are different facts; a changed relative origin implies the absolute
	// one moved too, so it is folded into the flags passed down.
	childMoved := box.X1 != old.X1 || box.Y1 != old.Y1
	passFlags := flags
	if childMoved {
		passFlags |= AllocAbsoluteOriginChanged
	}

	a.classAllocate(box, passFlags)
}

// SetAllocation is the primitive every Allocate implementation calls to
// store the assigned box. It clears needs-allocation, invalidates the
// cached transform and paint volume, and notifies observers when the box or
// absolute origin actually changed.
func (a *Actor) SetAllocation(box ActorBox, flags AllocationFlags) {
	old := a.allocation
	originChanged := flags&AllocAbsoluteOriginChanged != 0
	changed := box != old

	a.allocation = box
	a.allocationFlags = flags
	a.needsAllocation = false

	if changed || originChanged {
		a.transformInvalidate()
		a.invalidatePaintVolume()

		if a.OnAllocationChanged != nil {
			a.OnAllocationChanged(a, box, flags)
		}
		a.QueueRedraw()
	}
}

// Allocation returns the currently assigned box. Valid only while the actor
// does not need a new allocation.
func (a *Actor) Allocation() ActorBox { return a.allocation }

// NeedsAllocation reports whether the stored allocation is stale.
func (a *Actor) NeedsAllocation() bool { return a.needsAllocation }

// AllocatePreferredSize allocates the actor its own preferred size at its
// fixed position. A helper for simple containers that do not impose sizes.
func (a *Actor) AllocatePreferredSize(flags AllocationFlags) {
	x, y := a.Position()
	_, _, naturalWidth, naturalHeight := a.GetPreferredSize()
	a.Allocate(BoxFromSize(x, y, naturalWidth, naturalHeight), flags)
}

// AllocateAvailableSize allocates the actor its preferred size, clamped to
// the available extent the parent can offer.
func (a *Actor) AllocateAvailableSize(x, y, availableWidth, availableHeight float32, flags AllocationFlags) {
	width := float32(0)
	height := float32(0)

	switch a.requestMode {
	case RequestHeightForWidth:
		_, width = a.GetPreferredWidth(availableHeight)
		if width > availableWidth {
			width = availableWidth
		}
		_, height = a.GetPreferredHeight(width)
		if height > availableHeight {
			height = availableHeight
		}
	case RequestWidthForHeight:
		_, height = a.GetPreferredHeight(availableWidth)
		if height > availableHeight {
			height = availableHeight
		}
		_, width = a.GetPreferredWidth(height)
		if width > availableWidth {
			width = availableWidth
		}
	}

	a.Allocate(BoxFromSize(x, y, width, height), flags)
}

// --- Relayout ---

// QueueRelayout marks the actor's size requests and allocation stale,
// propagates the mark up to the root, and queues a redraw. Relayout implies
// redraw, but they stay distinct notifications so a parent-only layout
// change does not double a full-subtree repaint.
func (a *Actor) QueueRelayout() {
	a.queueOnlyRelayout()
	a.QueueRedraw()
}

func (a *Actor) queueOnlyRelayout() {
	if a.InDestruction() {
		return
	}

	if a.needsWidthRequest && a.needsHeightRequest && a.needsAllocation {
		// Already fully dirty; the mark has propagated before.
		return
	}

	a.needsWidthRequest = true
	a.needsHeightRequest = true
	a.needsAllocation = true
	// Cached preferred sizes are invalidated en masse by the request flags;
	// the slots themselves are reaped lazily on the next query.

	if a.OnQueueRelayout != nil && !a.OnQueueRelayout(a) {
		return
	}

	if a.parent != nil {
		a.parent.queueOnlyRelayout()
	} else if a.isStage() {
		a.stageData.scheduleRelayout()
	}
}
