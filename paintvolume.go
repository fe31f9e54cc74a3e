package aspen

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PaintVolume is a 3D bounding volume for the space an actor occupies when
// painted. It starts out axis-aligned in the actor's local coordinates and
// stays cheap for the common case: flat 2D actors only ever touch the front
// four vertices.
//
// The eight corners are stored in this order:
//
//	   4━━━━━━━━━5
//	  ┃\          \
//	  ┃ 0━━━━━━━━━1
//	  7 ┃         ┃
//	   \┃         ┃
//	    3━━━━━━━━━2
//
// Only the key vertices 0 (origin), 1 (origin + width), 3 (origin + height)
// and 4 (origin + depth) are kept up to date by the setters; the remaining
// four are derived lazily by complete when something actually needs all
// eight (transforming, projecting, culling).
type PaintVolume struct {
	vertices [8]Vertex

	// refActor is the actor whose coordinate space the vertices are in.
	// nil means the volume has been transformed into eye coordinates.
	refActor *Actor

	isEmpty       bool
	is2D          bool
	isComplete    bool
	isAxisAligned bool
}

// keyVertices are the indices the setters and union maintain directly.
var keyVertices = [4]int{0, 1, 3, 4}

// initPaintVolume resets pv to the canonical empty volume.
func (pv *PaintVolume) init() {
	*pv = PaintVolume{
		isEmpty:       true,
		is2D:          true,
		isComplete:    true,
		isAxisAligned: true,
	}
}

// NewPaintVolume returns an empty axis-aligned volume.
func NewPaintVolume() *PaintVolume {
	pv := &PaintVolume{}
	pv.init()
	return pv
}

// IsEmpty reports whether the volume encloses no space at all. An empty
// volume acts as "no constraint yet" in unions.
func (pv *PaintVolume) IsEmpty() bool { return pv.isEmpty }

// Origin returns the volume's origin (vertex 0).
func (pv *PaintVolume) Origin() Vertex { return pv.vertices[0] }

// SetOrigin moves the volume so its origin sits at the given vertex,
// shifting all key vertices by the same delta.
func (pv *PaintVolume) SetOrigin(origin Vertex) {
	dx := origin.X - pv.vertices[0].X
	dy := origin.Y - pv.vertices[0].Y
	dz := origin.Z - pv.vertices[0].Z

	for _, i := range keyVertices {
		pv.vertices[i].X += dx
		pv.vertices[i].Y += dy
		pv.vertices[i].Z += dz
	}

	pv.isComplete = false
}

// SetWidth sets the extent along X. A previously empty volume becomes a
// degenerate box at its origin before growing.
func (pv *PaintVolume) SetWidth(width float32) {
	if width < 0 {
		warn("paint volume width must be >= 0")
		return
	}
	if pv.isEmpty {
		pv.vertices[1] = pv.vertices[0]
		pv.vertices[3] = pv.vertices[0]
		pv.vertices[4] = pv.vertices[0]
		pv.isEmpty = false
	}
	pv.vertices[1].X = pv.vertices[0].X + width
	pv.isComplete = false
}

// Width returns the extent along X. Non-axis-aligned volumes report the
// width of their axis-aligned bounds.
func (pv *PaintVolume) Width() float32 {
	if pv.isEmpty {
		return 0
	}
	if !pv.isAxisAligned {
		aligned := *pv
		aligned.axisAlign()
		return aligned.vertices[1].X - aligned.vertices[0].X
	}
	return pv.vertices[1].X - pv.vertices[0].X
}

// SetHeight sets the extent along Y.
func (pv *PaintVolume) SetHeight(height float32) {
	if height < 0 {
		warn("paint volume height must be >= 0")
		return
	}
	if pv.isEmpty {
		pv.vertices[1] = pv.vertices[0]
		pv.vertices[3] = pv.vertices[0]
		pv.vertices[4] = pv.vertices[0]
		pv.isEmpty = false
	}
	pv.vertices[3].Y = pv.vertices[0].Y + height
	pv.isComplete = false
}

// Height returns the extent along Y.
func (pv *PaintVolume) Height() float32 {
	if pv.isEmpty {
		return 0
	}
	if !pv.isAxisAligned {
		aligned := *pv
		aligned.axisAlign()
		return aligned.vertices[3].Y - aligned.vertices[0].Y
	}
	return pv.vertices[3].Y - pv.vertices[0].Y
}

// SetDepth sets the extent along Z. A non-zero depth marks the volume 3D,
// enabling the back four vertices.
func (pv *PaintVolume) SetDepth(depth float32) {
	if depth < 0 {
		warn("paint volume depth must be >= 0")
		return
	}
	if pv.isEmpty {
		pv.vertices[1] = pv.vertices[0]
		pv.vertices[3] = pv.vertices[0]
		pv.vertices[4] = pv.vertices[0]
		pv.isEmpty = false
	}
	pv.vertices[4].Z = pv.vertices[0].Z + depth
	pv.isComplete = false
	pv.is2D = depth == 0
}

// Depth returns the extent along Z.
func (pv *PaintVolume) Depth() float32 {
	if pv.isEmpty {
		return 0
	}
	if !pv.isAxisAligned {
		aligned := *pv
		aligned.axisAlign()
		return aligned.vertices[4].Z - aligned.vertices[0].Z
	}
	return pv.vertices[4].Z - pv.vertices[0].Z
}

// Union grows pv to the bounding box enclosing both pv and other. An empty
// operand contributes nothing; a non-axis-aligned other is axis-aligned
// first. Only the key vertices are updated; the rest are re-derived on the
// next complete.
func (pv *PaintVolume) Union(other *PaintVolume) {
	if !pv.isAxisAligned {
		warn("paint volume union requires an axis-aligned destination")
		return
	}

	if other.isEmpty {
		return
	}

	if pv.isEmpty {
		for _, i := range keyVertices {
			pv.vertices[i] = other.vertices[i]
		}
		pv.is2D = other.is2D
		pv.isEmpty = false
		pv.isComplete = false
		return
	}

	if !other.isAxisAligned {
		aligned := *other
		aligned.axisAlign()
		other = &aligned
	}

	// grow left: vertices 0, 3, 4 share the min X
	if other.vertices[0].X < pv.vertices[0].X {
		minX := other.vertices[0].X
		pv.vertices[0].X = minX
		pv.vertices[3].X = minX
		pv.vertices[4].X = minX
	}
	// grow right
	if other.vertices[1].X > pv.vertices[1].X {
		pv.vertices[1].X = other.vertices[1].X
	}
	// grow up: vertices 0, 1, 4 share the min Y
	if other.vertices[0].Y < pv.vertices[0].Y {
		minY := other.vertices[0].Y
		pv.vertices[0].Y = minY
		pv.vertices[1].Y = minY
		pv.vertices[4].Y = minY
	}
	// grow down
	if other.vertices[3].Y > pv.vertices[3].Y {
		pv.vertices[3].Y = other.vertices[3].Y
	}
	// grow forward: vertices 0, 1, 3 share the min Z
	if other.vertices[0].Z < pv.vertices[0].Z {
		minZ := other.vertices[0].Z
		pv.vertices[0].Z = minZ
		pv.vertices[1].Z = minZ
		pv.vertices[3].Z = minZ
	}
	// grow backward
	if other.vertices[4].Z > pv.vertices[4].Z {
		pv.vertices[4].Z = other.vertices[4].Z
	}

	pv.is2D = pv.vertices[4].Z == pv.vertices[0].Z
	pv.isComplete = false
}

// complete derives the four lazily-maintained vertices from the key
// vertices. 2D volumes only need vertex 2 (front-bottom-right).
func (pv *PaintVolume) complete() {
	if pv.isComplete || pv.isEmpty {
		return
	}
	if !pv.isAxisAligned {
		warn("cannot complete a non-axis-aligned paint volume")
		return
	}

	// front-bottom-right
	pv.vertices[2].X = pv.vertices[1].X
	pv.vertices[2].Y = pv.vertices[3].Y
	pv.vertices[2].Z = pv.vertices[0].Z

	if !pv.is2D {
		// back-top-right
		pv.vertices[5].X = pv.vertices[1].X
		pv.vertices[5].Y = pv.vertices[0].Y
		pv.vertices[5].Z = pv.vertices[4].Z

		// back-bottom-right
		pv.vertices[6].X = pv.vertices[1].X
		pv.vertices[6].Y = pv.vertices[3].Y
		pv.vertices[6].Z = pv.vertices[4].Z

		// back-bottom-left
		pv.vertices[7].X = pv.vertices[0].X
		pv.vertices[7].Y = pv.vertices[3].Y
		pv.vertices[7].Z = pv.vertices[4].Z
	}

	pv.isComplete = true
}

// vertexCount returns the number of meaningful vertices: 2D volumes only
// carry their front face.
func (pv *PaintVolume) vertexCount() int {
	if pv.is2D {
		return 4
	}
	return 8
}

// BoundingBox collapses the volume to a 2D box in the same coordinate space.
// For a projected volume this is the actor's on-screen paint box.
func (pv *PaintVolume) BoundingBox() ActorBox {
	if pv.isEmpty {
		return ActorBox{
			X1: pv.vertices[0].X, Y1: pv.vertices[0].Y,
			X2: pv.vertices[0].X, Y2: pv.vertices[0].Y,
		}
	}

	pv.complete()

	box := ActorBox{
		X1: pv.vertices[0].X, Y1: pv.vertices[0].Y,
		X2: pv.vertices[0].X, Y2: pv.vertices[0].Y,
	}
	for i := 1; i < pv.vertexCount(); i++ {
		v := pv.vertices[i]
		if v.X < box.X1 {
			box.X1 = v.X
		} else if v.X > box.X2 {
			box.X2 = v.X
		}
		if v.Y < box.Y1 {
			box.Y1 = v.Y
		} else if v.Y > box.Y2 {
			box.Y2 = v.Y
		}
	}
	return box
}

// Transform applies an arbitrary matrix to all vertices. The volume is no
// longer axis-aligned afterwards.
func (pv *PaintVolume) Transform(m mgl32.Mat4) {
	if pv.isEmpty {
		// Just move the origin.
		pv.vertices[0] = transformVertex(m, pv.vertices[0])
		return
	}

	// All vertices must be up to date: after the transform the lazy ones
	// can no longer be derived from the key vertices.
	pv.complete()

	for i := 0; i < pv.vertexCount(); i++ {
		pv.vertices[i] = transformVertex(m, pv.vertices[i])
	}
	pv.isAxisAligned = false
}

// Project maps the volume through the full modelview, projection, and
// viewport transforms into window coordinates.
func (pv *PaintVolume) Project(modelview, projection mgl32.Mat4, viewport [4]float32) {
	if pv.isEmpty {
		pv.vertices[0] = fullyTransformVertex(modelview, projection, viewport, pv.vertices[0])
		return
	}

	pv.complete()

	for i := 0; i < pv.vertexCount(); i++ {
		pv.vertices[i] = fullyTransformVertex(modelview, projection, viewport, pv.vertices[i])
	}
	pv.isAxisAligned = false
}

// axisAlign replaces a transformed, no-longer-axis-aligned volume with its
// axis-aligned bounds.
func (pv *PaintVolume) axisAlign() {
	if pv.isEmpty || pv.isAxisAligned {
		return
	}

	origin := pv.vertices[0]
	maxX := origin.X
	maxY := origin.Y
	maxZ := origin.Z

	for i := 1; i < pv.vertexCount(); i++ {
		v := pv.vertices[i]
		if v.X < origin.X {
			origin.X = v.X
		} else if v.X > maxX {
			maxX = v.X
		}
		if v.Y < origin.Y {
			origin.Y = v.Y
		} else if v.Y > maxY {
			maxY = v.Y
		}
		if v.Z < origin.Z {
			origin.Z = v.Z
		} else if v.Z > maxZ {
			maxZ = v.Z
		}
	}

	pv.vertices[0] = origin
	pv.vertices[1] = Vertex{X: maxX, Y: origin.Y, Z: origin.Z}
	pv.vertices[3] = Vertex{X: origin.X, Y: maxY, Z: origin.Z}
	pv.vertices[4] = Vertex{X: origin.X, Y: origin.Y, Z: maxZ}

	pv.isComplete = false
	pv.isAxisAligned = true
	pv.is2D = maxZ == origin.Z
}

// CullResult classifies a volume against a set of clip planes.
type CullResult uint8

const (
	// CullResultUnknown means no classification could be made; the caller
	// must paint conservatively.
	CullResultUnknown CullResult = iota
	// CullResultIn means the volume is entirely inside the planes.
	CullResultIn
	// CullResultOut means the volume is entirely outside at least one plane
	// and need not be painted.
	CullResultOut
	// CullResultPartial means the volume straddles a plane.
	CullResultPartial
)

// Plane is an oriented plane given by a point V0 on the plane and an inward
// normal N. Points with a negative signed distance lie outside.
type Plane struct {
	V0 mgl32.Vec3
	N  mgl32.Vec3
}

// cull classifies the volume against four frustum side planes. The volume
// must already be completed and transformed into eye coordinates.
func (pv *PaintVolume) cull(planes *[4]Plane) CullResult {
	if pv.isEmpty {
		return CullResultOut
	}
	if !pv.isComplete || pv.refActor != nil {
		warn("culling requires a completed eye-coordinate paint volume")
		return CullResultIn
	}

	vertexCount := pv.vertexCount()
	partial := false

	for i := range planes {
		out := 0
		for j := 0; j < vertexCount; j++ {
			p := pv.vertices[j].Vec3().Sub(planes[i].V0)
			if planes[i].N.Dot(p) < 0 {
				out++
			}
		}
		if out == vertexCount {
			return CullResultOut
		}
		if out != 0 {
			partial = true
		}
	}

	if partial {
		return CullResultPartial
	}
	return CullResultIn
}

// transformRelative rebases the volume from its reference actor's coordinate
// space to an ancestor's space, or all the way into eye coordinates when
// ancestor is nil.
func (pv *PaintVolume) transformRelative(ancestor *Actor) {
	actor := pv.refActor
	if actor == nil {
		warn("paint volume has no reference actor to transform from")
		return
	}
	pv.refActor = ancestor

	m := mgl32.Ident4()
	if ancestor == nil {
		stage := actor.Stage()
		if stage == nil {
			// Nothing meaningful can be done without a stage.
			return
		}
		m = stage.viewMatrix()
		ancestor = stage.actor
	}

	m = m.Mul4(actor.relativeModelview(ancestor))
	pv.Transform(m)
}

// transformVertex applies m to v as a point, with perspective divide.
func transformVertex(m mgl32.Mat4, v Vertex) Vertex {
	out := m.Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, 1})
	w := out.W()
	if w != 0 && w != 1 {
		return Vertex{X: out.X() / w, Y: out.Y() / w, Z: out.Z() / w}
	}
	return Vertex{X: out.X(), Y: out.Y(), Z: out.Z()}
}

// fullyTransformVertex runs v through modelview, projection, perspective
// divide, and the viewport mapping, yielding window coordinates.
func fullyTransformVertex(modelview, projection mgl32.Mat4, viewport [4]float32, v Vertex) Vertex {
	clip := projection.Mul4(modelview).Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, 1})
	w := clip.W()
	if w == 0 {
		return Vertex{X: clip.X(), Y: clip.Y(), Z: clip.Z()}
	}
	ndcX := clip.X() / w
	ndcY := clip.Y() / w
	ndcZ := clip.Z() / w
	return Vertex{
		X: viewport[0] + (1+ndcX)*viewport[2]/2,
		Y: viewport[1] + (1-ndcY)*viewport[3]/2,
		Z: ndcZ,
	}
}
