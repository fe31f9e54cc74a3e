package aspen

import "testing"

// newMappedStage returns a stage that is visible, realized, and mapped, as
// it would be with a native window on screen.
func newMappedStage(t *testing.T) *Stage {
	t.Helper()
	s := NewStage(StageConfig{Width: 640, Height: 480})
	s.Show()
	s.Map()
	if !s.actor.IsRealized() || !s.actor.IsMapped() {
		t.Fatal("stage did not realize and map")
	}
	return s
}

// --- Show / hide ---

func TestShowHideIdempotent(t *testing.T) {
	a := NewActor()
	shows, hides := 0, 0
	a.OnShow = func(*Actor) { shows++ }
	a.OnHide = func(*Actor) { hides++ }

	a.Hide()
	a.Hide()
	if hides != 1 {
		t.Errorf("hides = %d, want 1", hides)
	}
	a.Show()
	a.Show()
	if shows != 1 {
		t.Errorf("shows = %d, want 1", shows)
	}
}

func TestChildOnMappedStageMapsOnAdd(t *testing.T) {
	s := newMappedStage(t)
	child := NewActor()
	s.Actor().AddChild(child)

	if !child.IsRealized() {
		t.Error("child of a mapped stage should be realized")
	}
	if !child.IsMapped() {
		t.Error("child of a mapped stage should be mapped")
	}
}

func TestMapPropagatesWhenStageMaps(t *testing.T) {
	s := NewStage(StageConfig{Width: 320, Height: 240})
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)
	s.Actor().AddChild(parent)

	if child.IsMapped() {
		t.Fatal("child mapped before the stage is shown")
	}

	s.Show()
	s.Map()

	if !parent.IsMapped() || !child.IsMapped() {
		t.Error("mapping the stage should map the visible subtree")
	}
}

func TestHiddenChildDoesNotMap(t *testing.T) {
	s := newMappedStage(t)
	child := NewActor()
	child.Hide()
	s.Actor().AddChild(child)

	if child.IsMapped() {
		t.Error("hidden child must not map")
	}

	child.Show()
	if !child.IsMapped() {
		t.Error("showing the child under a mapped stage should map it")
	}
}

func TestHideUnmapsSubtreeButKeepsRealized(t *testing.T) {
	s := newMappedStage(t)
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)
	s.Actor().AddChild(parent)

	parent.Hide()

	if parent.IsMapped() || child.IsMapped() {
		t.Error("hiding should unmap the subtree")
	}
	if !parent.IsRealized() || !child.IsRealized() {
		t.Error("hiding should not unrealize")
	}

	parent.Show()
	if !parent.IsMapped() || !child.IsMapped() {
		t.Error("re-showing should map the subtree again")
	}
}

func TestStageUnmapUnmapsChildren(t *testing.T) {
	s := newMappedStage(t)
	child := NewActor()
	s.Actor().AddChild(child)

	s.Unmap()

	if s.actor.IsMapped() || child.IsMapped() {
		t.Error("unmapping the stage should unmap everything")
	}
	if !child.IsRealized() {
		t.Error("unmapping must not unrealize")
	}
}

func TestShowAllHideAll(t *testing.T) {
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)

	parent.HideAll()
	if parent.IsVisible() || child.IsVisible() {
		t.Error("HideAll should hide the whole subtree")
	}

	parent.ShowAll()
	if !parent.IsVisible() || !child.IsVisible() {
		t.Error("ShowAll should show the whole subtree")
	}
}

// --- Realize / unrealize ---

func TestRealizeRequiresStage(t *testing.T) {
	a := NewActor()
	a.Realize()
	if a.IsRealized() {
		t.Error("an actor outside any stage must not realize")
	}
}

func TestRealizeRealizesAncestors(t *testing.T) {
	s := NewStage(StageConfig{Width: 320, Height: 240})
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)
	s.Actor().AddChild(parent)

	// Showing the stage realizes only the stage itself; descendants are
	// reconciled lazily.
	s.Show()
	if parent.IsRealized() {
		t.Fatal("descendants should not realize on stage show alone")
	}

	child.Realize()

	if !parent.IsRealized() {
		t.Error("realizing a child should realize its ancestors first")
	}
	if !child.IsRealized() {
		t.Error("child should be realized")
	}
}

func TestUnrealizeRefusedWhileMapped(t *testing.T) {
	s := newMappedStage(t)
	child := NewActor()
	s.Actor().AddChild(child)

	child.Unrealize()
	if !child.IsRealized() {
		t.Error("a mapped actor must not unrealize")
	}
}

func TestUnrealizeOrderBottomUp(t *testing.T) {
	s := newMappedStage(t)

	var order []string
	track := func(name string) *Actor {
		a := newActorWithClass(&ActorClass{
			Unrealize: func(x *Actor) { order = append(order, x.Name()) },
		})
		a.SetName(name)
		return a
	}
	parent := track("parent")
	child := track("child")
	parent.AddChild(child)
	s.Actor().AddChild(parent)

	parent.Hide()
	parent.Unrealize()

	// The class hook fires top-down, but the REALIZED flag clears
	// bottom-up; verify the hook order and the final flags.
	if len(order) != 2 || order[0] != "parent" || order[1] != "child" {
		t.Errorf("unrealize hook order = %v", order)
	}
	if parent.IsRealized() || child.IsRealized() {
		t.Error("subtree should be unrealized")
	}
}

func TestFailedRealizeLeavesUnmapped(t *testing.T) {
	s := newMappedStage(t)
	stubborn := newActorWithClass(&ActorClass{
		Realize: func(*Actor) bool { return false },
	})
	s.Actor().AddChild(stubborn)

	if stubborn.IsRealized() {
		t.Error("refused realize should leave the flag clear")
	}
	if stubborn.IsMapped() {
		t.Error("an unrealized actor must never be mapped")
	}
}

// --- Parenting ---

func TestShowOnSetParent(t *testing.T) {
	s := newMappedStage(t)

	a := NewActor()
	a.Hide()
	a.Show() // parentless: records the preference
	s.Actor().AddChild(a)
	if !a.IsVisible() || !a.IsMapped() {
		t.Error("show-on-set-parent should show the actor when parented")
	}

	b := NewActor()
	b.Hide() // parentless hide clears the preference
	s.Actor().AddChild(b)
	if b.IsVisible() || b.IsMapped() {
		t.Error("hidden preference should survive parenting")
	}
}

func TestUnparentUnrealizes(t *testing.T) {
	s := newMappedStage(t)
	child := NewActor()
	s.Actor().AddChild(child)

	child.Unparent()

	if child.IsMapped() || child.IsRealized() {
		t.Error("unparenting should unmap and unrealize")
	}
	if child.Parent() != nil {
		t.Error("parent pointer should be nil")
	}
}

func TestReparentSingleNotification(t *testing.T) {
	s := newMappedStage(t)
	p1 := NewActor()
	p2 := NewActor()
	s.Actor().AddChild(p1)
	s.Actor().AddChild(p2)

	child := NewActor()
	p1.AddChild(child)

	notifies := 0
	var from *Actor
	child.OnParentSet = func(_ *Actor, oldParent *Actor) {
		notifies++
		from = oldParent
	}

	child.Reparent(p2)

	if notifies != 1 {
		t.Errorf("parent-set notifications = %d, want 1", notifies)
	}
	if from != p1 {
		t.Error("notification should carry the old parent")
	}
	if child.Parent() != p2 {
		t.Error("child should hang under the new parent")
	}
	if !child.IsMapped() {
		t.Error("reparenting between mapped parents should keep the child mapped")
	}
}

func TestReparentToUnmappedParentUnmaps(t *testing.T) {
	s := newMappedStage(t)
	p1 := NewActor()
	p2 := NewActor()
	p2.Hide()
	s.Actor().AddChild(p1)
	s.Actor().AddChild(p2)

	child := NewActor()
	grandchild := NewActor()
	child.AddChild(grandchild)
	p1.AddChild(child)
	if !child.IsMapped() || !grandchild.IsMapped() {
		t.Fatal("subtree should start mapped under p1")
	}

	child.Reparent(p2)

	if child.IsMapped() || grandchild.IsMapped() {
		t.Error("a subtree under an unmapped parent must be unmapped")
	}
	if !child.IsRealized() || !grandchild.IsRealized() {
		t.Error("reparenting must not unrealize the subtree")
	}
}

func TestPaintUnmappedMapsUnderHiddenParent(t *testing.T) {
	s := newMappedStage(t)
	parent := NewActor()
	s.Actor().AddChild(parent)
	child := NewActor()
	parent.AddChild(child)

	parent.Hide()
	if child.IsMapped() {
		t.Fatal("child of a hidden parent should be unmapped")
	}

	child.SetPaintUnmapped(true)
	if !child.IsRealized() {
		t.Error("a paint-unmapped child must realize despite its parent")
	}
	if !child.IsMapped() {
		t.Error("a paint-unmapped child must map despite its parent")
	}
	if parent.IsMapped() {
		t.Error("forcing the child must not map the hidden parent")
	}

	child.SetPaintUnmapped(false)
	if child.IsMapped() {
		t.Error("clearing paint-unmapped must return the child to parent rules")
	}
}

func TestReparentCyclePanics(t *testing.T) {
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)

	defer func() {
		if recover() == nil {
			t.Error("reparenting an ancestor under its descendant should panic")
		}
	}()
	parent.Reparent(child)
}

// --- Destroy ---

func TestDestroyTearsDownSubtree(t *testing.T) {
	s := newMappedStage(t)
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)
	s.Actor().AddChild(parent)

	destroys := 0
	child.OnDestroy = func(*Actor) { destroys++ }

	parent.Destroy()

	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("destroy should dispose the whole subtree")
	}
	if destroys != 1 {
		t.Errorf("child OnDestroy fired %d times, want 1", destroys)
	}
	if parent.IsMapped() || parent.IsRealized() {
		t.Error("destroyed actor should be unmapped and unrealized")
	}
	if s.Actor().ChildCount() != 0 {
		t.Error("destroyed actor should be detached from the stage")
	}
}

func TestDestroyIdempotent(t *testing.T) {
	a := NewActor()
	count := 0
	a.OnDestroy = func(*Actor) { count++ }
	a.Destroy()
	a.Destroy()
	if count != 1 {
		t.Errorf("OnDestroy fired %d times, want 1", count)
	}
}
