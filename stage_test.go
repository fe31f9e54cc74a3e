package aspen

import "testing"

func TestNewStageDefaults(t *testing.T) {
	s := NewStage(StageConfig{})
	if w, h := s.Size(); w != 640 || h != 480 {
		t.Errorf("default size = %dx%d, want 640x480", w, h)
	}
	if s.perspective != defaultPerspective {
		t.Errorf("perspective = %+v, want %+v", s.perspective, defaultPerspective)
	}
	if !s.cullingEnabled {
		t.Error("culling must default to enabled")
	}
	if !s.clipPlanesValid {
		t.Error("frustum planes must be derived at construction")
	}
}

func TestNewStageStartsWithdrawn(t *testing.T) {
	s := NewStage(StageConfig{})
	a := s.Actor()
	if a.IsVisible() || a.IsRealized() || a.IsMapped() {
		t.Error("a new stage must be withdrawn until Show and Map")
	}
	if !a.isStage() {
		t.Error("the stage root must identify as a stage")
	}
}

func TestStagePlaneFillsViewport(t *testing.T) {
	s := NewStage(StageConfig{Width: 800, Height: 600})

	// The Z = 0 stage plane must project one to one onto the window.
	corners := []Vertex{
		{X: 0, Y: 0},
		{X: 800, Y: 0},
		{X: 0, Y: 600},
		{X: 800, Y: 600},
		{X: 400, Y: 300},
	}
	for _, c := range corners {
		got := fullyTransformVertex(s.viewMatrix(), s.projection, s.viewport, c)
		if !nearlyEqual(got.X, c.X, 0.05) || !nearlyEqual(got.Y, c.Y, 0.05) {
			t.Errorf("stage point (%g,%g) projected to (%g,%g)", c.X, c.Y, got.X, got.Y)
		}
	}
}

func TestViewMatrixRebuiltOnResize(t *testing.T) {
	s := NewStage(StageConfig{Width: 640, Height: 480})
	before := s.viewMatrix()
	s.SetSize(800, 600)
	after := s.viewMatrix()
	if before == after {
		t.Error("resizing must rebuild the view matrix")
	}

	got := fullyTransformVertex(after, s.projection, s.viewport, Vertex{X: 800, Y: 600})
	if !nearlyEqual(got.X, 800, 0.05) || !nearlyEqual(got.Y, 600, 0.05) {
		t.Errorf("corner projected to (%g,%g) after resize", got.X, got.Y)
	}
}

func TestSetSizeSchedulesRelayout(t *testing.T) {
	s := newMappedStage(t)
	child := NewActor()
	child.SetSize(100, 100)
	s.Actor().AddChild(child)
	s.FrameDamage()

	s.SetSize(800, 600)
	if !s.relayoutPending {
		t.Fatal("resize must schedule a relayout")
	}
	s.FrameDamage()
	if got := s.Actor().Allocation(); got != BoxFromSize(0, 0, 800, 600) {
		t.Errorf("stage allocation = %+v after resize", got)
	}
}

func TestSetSizeSameIsNoop(t *testing.T) {
	s := newMappedStage(t)
	s.FrameDamage()
	s.SetSize(640, 480)
	if s.relayoutPending {
		t.Error("resizing to the current size must not schedule work")
	}
}

func TestRelayoutAllocatesChildren(t *testing.T) {
	s := newMappedStage(t)
	child := NewActor()
	child.SetPosition(30, 40)
	child.SetSize(120, 80)
	s.Actor().AddChild(child)

	s.FrameDamage()
	if got := child.Allocation(); got != BoxFromSize(30, 40, 120, 80) {
		t.Errorf("child allocation = %+v", got)
	}
	if child.NeedsAllocation() {
		t.Error("child still flagged as needing allocation")
	}
}

func TestStagePreferredSizeIsViewport(t *testing.T) {
	s := NewStage(StageConfig{Width: 320, Height: 200})
	_, natW := s.Actor().GetPreferredWidth(-1)
	_, natH := s.Actor().GetPreferredHeight(-1)
	if natW != 320 || natH != 200 {
		t.Errorf("preferred size = %gx%g, want 320x200", natW, natH)
	}
}

func TestFrustumPlanesContainStagePlane(t *testing.T) {
	s := NewStage(StageConfig{Width: 640, Height: 480})

	// A small on-stage volume, taken to eye coordinates, is inside all four
	// side planes.
	pv := NewPaintVolume()
	pv.SetOrigin(Vertex{X: 300, Y: 220})
	pv.SetWidth(40)
	pv.SetHeight(40)
	pv.Transform(s.viewMatrix())
	if got := pv.cull(&s.clipPlanes); got != CullResultIn {
		t.Errorf("centered volume culled as %v, want in", got)
	}

	// Far off to the left is fully outside.
	out := NewPaintVolume()
	out.SetOrigin(Vertex{X: -5000, Y: 220})
	out.SetWidth(40)
	out.SetHeight(40)
	out.Transform(s.viewMatrix())
	if got := out.cull(&s.clipPlanes); got != CullResultOut {
		t.Errorf("far-off volume culled as %v, want out", got)
	}
}

func TestDestroyTearsDownTree(t *testing.T) {
	s := newMappedStage(t)
	child := NewActor()
	s.Actor().AddChild(child)
	s.FrameDamage()

	s.Destroy()
	if !s.Actor().IsDisposed() || !child.IsDisposed() {
		t.Error("destroying the stage must dispose the whole tree")
	}
	if len(s.pendingRedraws) != 0 {
		t.Error("pending redraws must be dropped on destroy")
	}
}

func TestStageWindowCallbacks(t *testing.T) {
	s := NewStage(StageConfig{})
	win := &recordingWindow{realizeOK: true}
	s.SetWindow(win)

	s.Show()
	if win.realized != 1 {
		t.Errorf("realize calls = %d, want 1", win.realized)
	}
	s.SetSize(800, 600)
	if win.resizedTo != [2]int{800, 600} {
		t.Errorf("resize forwarded %v", win.resizedTo)
	}
	s.Map()
	s.Unmap()
	s.Hide()
	s.Actor().Unrealize()
	if win.unrealized != 1 {
		t.Errorf("unrealize calls = %d, want 1", win.unrealized)
	}
}

type recordingWindow struct {
	realizeOK  bool
	realized   int
	unrealized int
	resizedTo  [2]int
}

func (w *recordingWindow) Realize() bool {
	w.realized++
	return w.realizeOK
}

func (w *recordingWindow) Unrealize() { w.unrealized++ }

func (w *recordingWindow) Resize(width, height int) { w.resizedTo = [2]int{width, height} }

func nearlyEqual(a, b, tol float32) bool {
	d := a - b
	return d >= -tol && d <= tol
}
