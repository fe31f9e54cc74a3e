package aspen

import "testing"

// settledChild adds a fixed-size child to the stage and runs one frame so
// its allocation and initial damage are behind us.
func settledChild(t *testing.T, s *Stage, x, y, w, h float32) *Actor {
	t.Helper()
	child := NewActor()
	child.SetPosition(x, y)
	child.SetSize(w, h)
	s.Actor().AddChild(child)
	s.FrameDamage()
	if child.NeedsAllocation() {
		t.Fatal("child was not allocated by the settle frame")
	}
	return child
}

// clipVolume builds an actor-space volume the way QueueRedrawWithClip does.
func clipVolume(a *Actor, box ActorBox) *PaintVolume {
	pv := NewPaintVolume()
	pv.refActor = a
	pv.SetOrigin(Vertex{X: box.X1, Y: box.Y1})
	pv.SetWidth(box.Width())
	pv.SetHeight(box.Height())
	return pv
}

type markerEffect struct {
	EffectBase
}

func newMarkerEffect(name string) *markerEffect {
	return &markerEffect{EffectBase{Meta: NewMeta(name)}}
}

func TestQueueRedrawMergesPerActor(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 10, 20, 100, 50)

	child.QueueRedraw()
	child.QueueRedraw()
	child.QueueRedraw()
	if got := len(s.pendingRedraws); got != 1 {
		t.Errorf("pending entries = %d, want 1", got)
	}
}

func TestRedrawDamageCoversActor(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 10, 20, 100, 50)

	child.QueueRedraw()
	damage, full := s.FrameDamage()
	if full {
		t.Fatal("a bounded redraw must not force a full repaint")
	}
	assertCovers(t, damage, 10, 20, 110, 70)
	assertWithin(t, damage, 8, 18, 112, 72)
}

func TestMoveDamagesOldAndNewAreas(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 10, 20, 100, 50)

	// Record the painted extent the way a frame's paint pass would.
	child.updateLastPaintVolume()
	if !child.lastPaintVolumeValid {
		t.Fatal("settled child has no recorded paint volume")
	}

	child.MoveBy(200, 0)
	damage, full := s.FrameDamage()
	if full {
		t.Fatal("a move must not force a full repaint")
	}
	// Vacated area and destination area are both inside the damage.
	assertCovers(t, damage, 10, 20, 110, 70)
	assertCovers(t, damage, 210, 20, 310, 70)
}

func TestUnknownPaintVolumeForcesFullRedraw(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 10, 20, 100, 50)

	// An external paint hook can draw anywhere, so the painted extent is
	// unknowable.
	child.OnPaint = func(*Actor, *PaintContext) {}
	child.invalidatePaintVolume()

	child.QueueRedraw()
	damage, full := s.FrameDamage()
	if !full {
		t.Fatal("unbounded actor must damage the whole stage")
	}
	w, h := s.Size()
	if damage.Width != w || damage.Height != h {
		t.Errorf("full damage = %+v, want %dx%d", damage, w, h)
	}
}

func TestRemoveChildInvalidatesPendingRedraw(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 10, 20, 100, 50)

	child.QueueRedraw()
	s.Actor().RemoveChild(child)

	if child.queueRedrawEntry != nil {
		t.Error("removed child still holds a redraw entry")
	}
	if child.propagatedOneRedraw {
		t.Error("removed child still marked as propagated")
	}
	// The abandoned entry must be skipped without touching the dead actor.
	s.FrameDamage()
}

func TestEffectRedrawLaterInChainWins(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 0, 0, 50, 50)
	e1 := newMarkerEffect("first")
	e2 := newMarkerEffect("second")
	child.AddEffect(e1)
	child.AddEffect(e2)
	s.FrameDamage()

	box := BoxFromSize(0, 0, 10, 10)
	child.queueRedrawWithEffect(clipVolume(child, box), e1)
	child.queueRedrawWithEffect(clipVolume(child, box), e2)
	if got := child.queueRedrawEntry.effect; got != Effect(e2) {
		t.Errorf("merged effect = %v, want the later effect", got)
	}

	s.FrameDamage()
	child.queueRedrawWithEffect(clipVolume(child, box), e2)
	child.queueRedrawWithEffect(clipVolume(child, box), e1)
	if got := child.queueRedrawEntry.effect; got != Effect(e2) {
		t.Errorf("merged effect = %v, want the later effect regardless of order", got)
	}
}

func TestPlainRedrawClearsEffectScope(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 0, 0, 50, 50)
	e := newMarkerEffect("blur")
	child.AddEffect(e)
	s.FrameDamage()

	child.queueRedrawWithEffect(clipVolume(child, BoxFromSize(0, 0, 10, 10)), e)
	child.QueueRedraw()

	entry := child.queueRedrawEntry
	if entry.effect != nil {
		t.Error("a plain redraw must clear the effect association")
	}
	if entry.hasClip {
		t.Error("a plain redraw must widen a clipped entry to the whole actor")
	}
}

func TestClippedPlainRedrawSubsumesEffectRerun(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 0, 0, 50, 50)
	e := newMarkerEffect("blur")
	child.AddEffect(e)
	s.FrameDamage()

	// The pending entry is clipped but effectless, so it already demands a
	// repaint of the whole node. A later effect rerun must not narrow it.
	child.QueueRedrawWithClip(BoxFromSize(0, 0, 10, 10))
	child.QueueEffectRerun(e)

	if got := child.queueRedrawEntry.effect; got != nil {
		t.Errorf("merged effect = %v, want nil: the effectless entry wins", got)
	}
}

func TestDrainCarriesEffectScopeToNextPaint(t *testing.T) {
	s, rr, fb, rects := paintScene(t)
	var log []string
	inner := &traceEffect{EffectBase: EffectBase{Meta: NewMeta("inner")}, log: &log}
	outer := &traceEffect{EffectBase: EffectBase{Meta: NewMeta("outer")}, log: &log}
	rects[0].AddEffect(inner)
	rects[0].AddEffect(outer)
	s.FrameDamage()
	s.Paint(rr, fb)

	rects[0].QueueEffectRerun(outer)
	s.FrameDamage()
	if got := rects[0].effectToRedraw; got != Effect(outer) {
		t.Fatalf("entry effect after drain = %v, want the rerun effect", got)
	}

	log = nil
	s.Paint(rr, fb)
	want := []string{"pre:outer", "post:outer"}
	if len(log) != len(want) || log[0] != want[0] || log[1] != want[1] {
		t.Fatalf("log = %v, want %v: the chain must start at the rerun effect", log, want)
	}
	if rects[0].effectToRedraw != nil {
		t.Error("the entry effect must be cleared once the paint consumed it")
	}

	// A plain redraw afterwards runs the whole chain again.
	rects[0].QueueRedraw()
	s.FrameDamage()
	log = nil
	s.Paint(rr, fb)
	want = []string{"pre:inner", "pre:outer", "post:outer", "post:inner"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

func TestClipRedrawsUnionInSameSpace(t *testing.T) {
	s := newMappedStage(t)
	child := settledChild(t, s, 0, 0, 100, 100)

	child.QueueRedrawWithClip(BoxFromSize(0, 0, 10, 10))
	child.QueueRedrawWithClip(BoxFromSize(50, 50, 10, 10))

	entry := child.queueRedrawEntry
	if !entry.hasClip {
		t.Fatal("same-space clips must stay clipped")
	}
	box := entry.clip.BoundingBox()
	if box.X1 > 0 || box.Y1 > 0 || box.X2 < 60 || box.Y2 < 60 {
		t.Errorf("union clip = %+v, want at least 0,0..60,60", box)
	}
}

func TestMixedSpaceClipsDropTheClip(t *testing.T) {
	s := newMappedStage(t)
	parent := settledChild(t, s, 0, 0, 200, 200)
	child := NewActor()
	child.SetSize(50, 50)
	parent.AddChild(child)
	s.FrameDamage()

	child.QueueRedrawWithClip(BoxFromSize(0, 0, 10, 10))
	s.mergeRedrawEntry(child.queueRedrawEntry, clipVolume(parent, BoxFromSize(0, 0, 10, 10)), nil)
	if child.queueRedrawEntry.hasClip {
		t.Error("clips in different coordinate spaces cannot be unioned")
	}
}

// assertCovers fails unless the damage contains the pixel rectangle
// x1,y1..x2,y2.
func assertCovers(t *testing.T, g Geometry, x1, y1, x2, y2 int) {
	t.Helper()
	if g.X > x1 || g.Y > y1 || g.X+g.Width < x2 || g.Y+g.Height < y2 {
		t.Errorf("damage %+v does not cover %d,%d..%d,%d", g, x1, y1, x2, y2)
	}
}

// assertWithin fails unless the damage stays inside the pixel rectangle
// x1,y1..x2,y2 (a slack band around the expected area).
func assertWithin(t *testing.T, g Geometry, x1, y1, x2, y2 int) {
	t.Helper()
	if g.X < x1 || g.Y < y1 || g.X+g.Width > x2 || g.Y+g.Height > y2 {
		t.Errorf("damage %+v leaks outside %d,%d..%d,%d", g, x1, y1, x2, y2)
	}
}
