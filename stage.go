package aspen

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var identityMatrix = mgl32.Ident4()

// Perspective describes the projection used to put the 2D stage plane into
// a 3D frustum.
type Perspective struct {
	FovY  float32 // vertical field of view, degrees
	ZNear float32
	ZFar  float32
}

// defaultPerspective mirrors the classic 60-degree stage camera.
var defaultPerspective = Perspective{FovY: 60, ZNear: 0.1, ZFar: 100}

// StageConfig configures a new stage.
type StageConfig struct {
	Width, Height int
	// Perspective overrides the default camera when non-zero.
	Perspective Perspective
	// DisableCulling turns off frustum culling of off-screen subtrees.
	DisableCulling bool
	// Debug enables invariant diagnostics on stderr.
	Debug bool
}

// StageWindow is the windowing collaborator owning the native surface. All
// methods are optional behaviors a backend can provide; Realize reports
// whether backend resources could actually be created.
type StageWindow interface {
	Realize() bool
	Unrealize()
	Resize(width, height int)
}

// Stage is a root of the actor tree plus the per-root state everything else
// funnels through: projection, viewport, frustum planes, and the per-frame
// redraw accumulator.
type Stage struct {
	actor   *Actor
	context *Context
	window  StageWindow

	perspective Perspective
	projection  mgl32.Mat4
	view        mgl32.Mat4
	viewValid   bool
	viewport    [4]float32

	clipPlanes      [4]Plane
	clipPlanesValid bool
	cullingEnabled  bool

	pendingRedraws  []*redrawEntry
	relayoutPending bool

	damage      Geometry
	damageValid bool
	damageFull  bool
}

// stageClass gives the root actor its stage-specific behavior.
var stageClass = &ActorClass{
	GetPreferredWidth: func(a *Actor, forHeight float32) (float32, float32) {
		w := a.stageData.viewport[2]
		return w, w
	},
	GetPreferredHeight: func(a *Actor, forWidth float32) (float32, float32) {
		h := a.stageData.viewport[3]
		return h, h
	},
	Allocate: func(a *Actor, box ActorBox, flags AllocationFlags) {
		a.SetAllocation(box, flags)
		// The stage lays out top-level actors with their preferred size at
		// their fixed position.
		for _, child := range a.children {
			child.AllocatePreferredSize(AllocNone)
		}
	},
	ApplyTransform: func(a *Actor, m *mgl32.Mat4) {
		// The stage-to-eye transform is owned by the rendering side
		// (viewMatrix); the stage contributes nothing to the actor-space
		// modelview chain.
	},
	Realize: func(a *Actor) bool {
		s := a.stageData
		if s.window != nil {
			return s.window.Realize()
		}
		return true
	},
	Unrealize: func(a *Actor) {
		s := a.stageData
		if s.window != nil {
			s.window.Unrealize()
		}
	},
	HasOverlaps: func(a *Actor) bool { return false },
}

// NewStage creates a stage of the given size with its own context. The
// stage starts withdrawn; Show puts it on screen and the windowing side
// maps it once the native window is up.
func NewStage(cfg StageConfig) *Stage {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	persp := cfg.Perspective
	if persp == (Perspective{}) {
		persp = defaultPerspective
	}

	s := &Stage{
		context:        newContext(cfg.Debug),
		perspective:    persp,
		cullingEnabled: !cfg.DisableCulling,
	}

	s.actor = newActorWithClass(stageClass)
	s.actor.stageData = s
	s.actor.name = "stage"
	// Stages start withdrawn; Show puts them on screen and realizes the
	// backend.
	s.actor.clearFlag(flagVisible)
	s.actor.showOnSetParent = false

	s.setViewport(cfg.Width, cfg.Height)
	return s
}

// Actor returns the stage's root actor, the parent for top-level actors.
func (s *Stage) Actor() *Actor { return s.actor }

// Context returns the process-wide context owned by this stage.
func (s *Stage) Context() *Context { return s.context }

// SetWindow attaches the windowing collaborator.
func (s *Stage) SetWindow(w StageWindow) { s.window = w }

// Size returns the stage size in pixels.
func (s *Stage) Size() (width, height int) {
	return int(s.viewport[2]), int(s.viewport[3])
}

// SetSize resizes the stage, updating viewport, projection, and layout.
func (s *Stage) SetSize(width, height int) {
	if width == int(s.viewport[2]) && height == int(s.viewport[3]) {
		return
	}
	s.setViewport(width, height)
	if s.window != nil {
		s.window.Resize(width, height)
	}
	s.actor.QueueRelayout()
}

func (s *Stage) setViewport(width, height int) {
	s.viewport = [4]float32{0, 0, float32(width), float32(height)}
	s.updateProjection()
	s.viewValid = false
	s.relayoutPending = true
}

func (s *Stage) updateProjection() {
	aspect := s.viewport[2] / s.viewport[3]
	s.projection = mgl32.Perspective(mgl32.DegToRad(s.perspective.FovY),
		aspect, s.perspective.ZNear, s.perspective.ZFar)
	s.updateClipPlanes()
}

// viewMatrix maps stage coordinates (pixels, origin top-left, Y down) into
// eye coordinates so the stage plane at Z = 0 exactly fills the viewport.
func (s *Stage) viewMatrix() mgl32.Mat4 {
	if !s.viewValid {
		w := s.viewport[2]
		h := s.viewport[3]
		z2d := (h / 2) / math32.Tan(mgl32.DegToRad(s.perspective.FovY)/2)
		s.view = mgl32.Translate3D(0, 0, -z2d).
			Mul4(mgl32.Scale3D(1, -1, 1)).
			Mul4(mgl32.Translate3D(-w/2, -h/2, 0))
		s.viewValid = true
	}
	return s.view
}

// updateClipPlanes derives the four frustum side planes in eye coordinates
// from the projection matrix, normals pointing inward.
func (s *Stage) updateClipPlanes() {
	p := s.projection
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{p[0*4+i], p[1*4+i], p[2*4+i], p[3*4+i]}
	}
	r0 := row(0)
	r1 := row(1)
	r3 := row(3)

	set := func(idx int, v mgl32.Vec4) bool {
		n := mgl32.Vec3{v.X(), v.Y(), v.Z()}
		length := n.Len()
		if length == 0 {
			return false
		}
		n = n.Mul(1 / length)
		d := v.W() / length
		// A point on the plane: the normal scaled back by the offset. For
		// a perspective projection the side planes pass through the eye.
		s.clipPlanes[idx] = Plane{V0: n.Mul(-d), N: n}
		return true
	}

	ok := set(0, r3.Add(r0)) && // left
		set(1, r3.Sub(r0)) && // right
		set(2, r3.Add(r1)) && // bottom
		set(3, r3.Sub(r1)) // top
	s.clipPlanesValid = ok
}

// Projection returns the stage's projection matrix.
func (s *Stage) Projection() mgl32.Mat4 { return s.projection }

// Viewport returns the viewport rectangle as (x, y, width, height).
func (s *Stage) Viewport() [4]float32 { return s.viewport }

// SetCullingEnabled toggles frustum culling during paint.
func (s *Stage) SetCullingEnabled(enabled bool) { s.cullingEnabled = enabled }

// --- Lifecycle entry points for the windowing side ---

// Show makes the stage visible, eagerly realizing it.
func (s *Stage) Show() { s.actor.Show() }

// Hide withdraws the stage.
func (s *Stage) Hide() { s.actor.Hide() }

// Map is called by the windowing side once the native window is on screen.
func (s *Stage) Map() { s.actor.Map() }

// Unmap is called when the native window leaves the screen.
func (s *Stage) Unmap() { s.actor.Unmap() }

// Destroy tears down the whole tree and the context with it.
func (s *Stage) Destroy() {
	s.actor.Destroy()
	s.pendingRedraws = nil
	s.context.teardown()
}

// --- Frame driving ---

// scheduleRelayout marks that an allocation pass is needed before the next
// paint. Called from queueOnlyRelayout when the mark reaches the root.
func (s *Stage) scheduleRelayout() {
	s.relayoutPending = true
}

// maybeRelayout re-allocates the tree top-down if anything queued a
// relayout since the last frame.
func (s *Stage) maybeRelayout() {
	if !s.relayoutPending {
		return
	}
	s.relayoutPending = false

	a := s.actor
	if a.hasFlag(flagInRelayout) {
		return
	}
	a.setFlag(flagInRelayout)
	a.Allocate(BoxFromSize(0, 0, s.viewport[2], s.viewport[3]), AllocNone)
	a.clearFlag(flagInRelayout)
}

// FrameDamage runs the pre-paint bookkeeping for one frame: layout, then
// draining the redraw queue into a damage region. It returns the region to
// repaint and whether the whole stage must be redrawn.
func (s *Stage) FrameDamage() (Geometry, bool) {
	s.maybeRelayout()

	s.damage = Geometry{}
	s.damageValid = false
	s.damageFull = false
	s.drainRedrawQueue()

	if s.damageFull {
		w, h := s.Size()
		return Geometry{Width: w, Height: h}, true
	}
	return s.damage, false
}
