package aspen

import "testing"

// --- Constructor defaults ---

func TestNewActorDefaults(t *testing.T) {
	a := NewActor()
	if a.id == 0 {
		t.Error("id should be non-zero")
	}
	if !a.IsVisible() {
		t.Error("new actor should be visible")
	}
	if a.IsRealized() || a.IsMapped() {
		t.Error("new actor should be neither realized nor mapped")
	}
	if a.Opacity() != 255 {
		t.Errorf("Opacity = %d, want 255", a.Opacity())
	}
	sx, sy := a.Scale()
	if sx != 1 || sy != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", sx, sy)
	}
	if !a.NeedsAllocation() {
		t.Error("new actor should need an allocation")
	}
	if a.RequestMode() != RequestHeightForWidth {
		t.Error("default request mode should be height-for-width")
	}
}

func TestActorIDsAreUnique(t *testing.T) {
	a := NewActor()
	b := NewActor()
	if a.id == b.id {
		t.Errorf("two actors share id %d", a.id)
	}
}

// --- Tree operations ---

func TestAddChildSetsParent(t *testing.T) {
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)

	if child.Parent() != parent {
		t.Error("child parent not set")
	}
	if parent.ChildCount() != 1 || parent.ChildAt(0) != child {
		t.Error("child not in parent's list")
	}
}

func TestInsertChildAtOrder(t *testing.T) {
	parent := NewActor()
	a := NewActor()
	b := NewActor()
	c := NewActor()
	parent.AddChild(a)
	parent.AddChild(c)
	parent.InsertChildAt(b, 1)

	got := parent.Children()
	if got[0] != a || got[1] != b || got[2] != c {
		t.Error("InsertChildAt did not preserve sibling order")
	}
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AddChild(nil) should panic")
		}
	}()
	NewActor().AddChild(nil)
}

func TestAddChildCyclePanics(t *testing.T) {
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)

	defer func() {
		if recover() == nil {
			t.Error("creating a cycle should panic")
		}
	}()
	child.AddChild(parent)
}

func TestRemoveChild(t *testing.T) {
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)
	parent.RemoveChild(child)

	if child.Parent() != nil {
		t.Error("removed child still has a parent")
	}
	if parent.ChildCount() != 0 {
		t.Error("parent still lists removed child")
	}
}

// --- Opacity ---

func TestPaintOpacityComposes(t *testing.T) {
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)

	parent.SetOpacity(128)
	child.SetOpacity(128)

	got := child.paintOpacity()
	want := uint8(uint16(128) * 128 / 255)
	if got != want {
		t.Errorf("paintOpacity = %d, want %d", got, want)
	}
}

func TestOpacityOverrideWins(t *testing.T) {
	parent := NewActor()
	child := NewActor()
	parent.AddChild(child)
	parent.SetOpacity(0)

	child.setOpacityOverride(255)
	if child.paintOpacity() != 255 {
		t.Error("override should bypass the parent chain")
	}
	child.setOpacityOverride(-1)
	if child.paintOpacity() != 0 {
		t.Error("cleared override should restore composition")
	}
}

// --- Name ---

func TestSetName(t *testing.T) {
	a := NewActor()
	a.SetName("hero")
	if a.Name() != "hero" {
		t.Errorf("Name = %q, want %q", a.Name(), "hero")
	}
}
