package aspen

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// RotateAxis selects the axis for SetRotation.
type RotateAxis uint8

const (
	XAxis RotateAxis = iota
	YAxis
	ZAxis
)

// transformMatrix returns the actor's local transform, rebuilding the cache
// when a transform parameter or the allocation changed since the last read.
func (a *Actor) transformMatrix() mgl32.Mat4 {
	if !a.transformValid {
		if a.class.ApplyTransform != nil {
			m := mgl32.Ident4()
			a.class.ApplyTransform(a, &m)
			a.transformCache = m
		} else {
			a.transformCache = a.computeLocalTransform()
		}
		a.transformValid = true
	}
	return a.transformCache
}

// computeLocalTransform composes the actor's transform parameters in fixed
// order: allocation origin, depth, scale about its center, the three
// rotations about their centers, and finally the anchor point. Each "about a
// center" step is translate(+C) * op * translate(-C).
func (a *Actor) computeLocalTransform() mgl32.Mat4 {
	width, height := a.allocation.Size()

	m := mgl32.Translate3D(a.allocation.X1, a.allocation.Y1, 0)

	if a.depth != 0 {
		m = m.Mul4(mgl32.Translate3D(0, 0, a.depth))
	}

	if a.scaleX != 1 || a.scaleY != 1 {
		cx, cy := a.scaleCenter.resolve(width, height)
		m = aboutCenter(m, cx, cy, mgl32.Scale3D(a.scaleX, a.scaleY, 1))
	}

	if a.rotationAngles[ZAxis] != 0 {
		cx, cy := a.rotationCenters[ZAxis].resolve(width, height)
		rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(a.rotationAngles[ZAxis]))
		m = aboutCenter(m, cx, cy, rot)
	}
	if a.rotationAngles[YAxis] != 0 {
		cx, cy := a.rotationCenters[YAxis].resolve(width, height)
		rot := mgl32.HomogRotate3DY(mgl32.DegToRad(a.rotationAngles[YAxis]))
		m = aboutCenter(m, cx, cy, rot)
	}
	if a.rotationAngles[XAxis] != 0 {
		cx, cy := a.rotationCenters[XAxis].resolve(width, height)
		rot := mgl32.HomogRotate3DX(mgl32.DegToRad(a.rotationAngles[XAxis]))
		m = aboutCenter(m, cx, cy, rot)
	}

	if !a.anchor.isZero() {
		ax, ay := a.anchor.resolve(width, height)
		m = m.Mul4(mgl32.Translate3D(-ax, -ay, 0))
	}

	return m
}

// aboutCenter applies op about the point (cx, cy).
func aboutCenter(m mgl32.Mat4, cx, cy float32, op mgl32.Mat4) mgl32.Mat4 {
	if cx != 0 || cy != 0 {
		m = m.Mul4(mgl32.Translate3D(cx, cy, 0))
		m = m.Mul4(op)
		return m.Mul4(mgl32.Translate3D(-cx, -cy, 0))
	}
	return m.Mul4(op)
}

// transformInvalidate drops the cached local matrix. Called on any transform
// parameter change and on reallocation.
func (a *Actor) transformInvalidate() {
	a.transformValid = false
}

// relativeModelview composes the local transforms from (but not including)
// ancestor down to a, in ancestor-to-descendant order. A nil ancestor means
// the actor's stage; the stage-to-eye transform is deliberately excluded
// because it belongs to the rendering side.
func (a *Actor) relativeModelview(ancestor *Actor) mgl32.Mat4 {
	if ancestor == nil {
		if stage := a.Stage(); stage != nil {
			ancestor = stage.actor
		}
	}

	m := mgl32.Ident4()
	a.applyRelativeTransform(ancestor, &m)
	return m
}

// applyRelativeTransform walks up to ancestor and multiplies local
// transforms back down. Terminates at ancestor without including it.
func (a *Actor) applyRelativeTransform(ancestor *Actor, m *mgl32.Mat4) {
	if a == ancestor {
		return
	}
	if a.parent != nil {
		a.parent.applyRelativeTransform(ancestor, m)
	}
	*m = m.Mul4(a.transformMatrix())
}

// ApplyTransformTo transforms a point in the actor's local coordinates to
// stage coordinates.
func (a *Actor) ApplyTransformTo(x, y float32) (sx, sy float32, ok bool) {
	stage := a.Stage()
	if stage == nil {
		return 0, 0, false
	}
	modelview := stage.viewMatrix().Mul4(a.relativeModelview(stage.actor))
	v := fullyTransformVertex(modelview, stage.projection, stage.viewport, Vertex{X: x, Y: y})
	return v.X, v.Y, true
}

// stageVertices projects the four corners of the actor's allocation into
// stage coordinates: top-left, top-right, bottom-left, bottom-right.
func (a *Actor) stageVertices() ([4]Vertex, bool) {
	var out [4]Vertex
	stage := a.Stage()
	if stage == nil {
		return out, false
	}

	width, height := a.allocation.Size()
	modelview := stage.viewMatrix().Mul4(a.relativeModelview(stage.actor))

	corners := [4]Vertex{
		{},
		{X: width},
		{Y: height},
		{X: width, Y: height},
	}
	for i, c := range corners {
		out[i] = fullyTransformVertex(modelview, stage.projection, stage.viewport, c)
	}
	return out, true
}

// TransformStagePoint maps a stage-space point back into the actor's local
// coordinates by inverting the projective mapping of the actor's four
// on-screen corners. It reports false when the actor is not on a stage or
// its screen-space quad is degenerate (near-zero area or singular system),
// in which case no meaningful inverse exists.
func (a *Actor) TransformStagePoint(x, y float32) (lx, ly float32, ok bool) {
	verts, ok := a.stageVertices()
	if !ok {
		return 0, 0, false
	}

	width, height := a.allocation.Size()
	if width == 0 || height == 0 {
		return 0, 0, false
	}

	// Corners in perimeter order: the quad is the image of the unit square
	// under a projective map; build that map and invert it.
	q0 := mgl64.Vec2{float64(verts[0].X), float64(verts[0].Y)} // (0,0)
	q1 := mgl64.Vec2{float64(verts[1].X), float64(verts[1].Y)} // (1,0)
	q2 := mgl64.Vec2{float64(verts[3].X), float64(verts[3].Y)} // (1,1)
	q3 := mgl64.Vec2{float64(verts[2].X), float64(verts[2].Y)} // (0,1)

	sx := q0.X() - q1.X() + q2.X() - q3.X()
	sy := q0.Y() - q1.Y() + q2.Y() - q3.Y()

	dx1 := q1.X() - q2.X()
	dx2 := q3.X() - q2.X()
	dy1 := q1.Y() - q2.Y()
	dy2 := q3.Y() - q2.Y()

	det := dx1*dy2 - dx2*dy1
	if !invertible(det) {
		return 0, 0, false
	}
	g := (sx*dy2 - dx2*sy) / det
	h := (dx1*sy - sx*dy1) / det

	fwd := mgl64.Mat3FromRows(
		mgl64.Vec3{q1.X() - q0.X() + g*q1.X(), q3.X() - q0.X() + h*q3.X(), q0.X()},
		mgl64.Vec3{q1.Y() - q0.Y() + g*q1.Y(), q3.Y() - q0.Y() + h*q3.Y(), q0.Y()},
		mgl64.Vec3{g, h, 1},
	)
	if !invertible(fwd.Det()) {
		return 0, 0, false
	}

	u := fwd.Inv().Mul3x1(mgl64.Vec3{float64(x), float64(y), 1})
	if !invertible(u.Z()) {
		return 0, 0, false
	}

	lx = float32(u.X()/u.Z()) * width
	ly = float32(u.Y()/u.Z()) * height
	return lx, ly, true
}

// invertible reports whether a determinant-like value is usefully far
// from zero.
func invertible(v float64) bool {
	return v > 1e-9 || v < -1e-9
}

// --- Transform property setters ---

// SetDepth sets the actor's position on the Z axis.
func (a *Actor) SetDepth(depth float32) {
	if a.depth == depth {
		return
	}
	a.depth = depth
	a.transformInvalidate()
	a.QueueRedraw()
}

// Depth returns the actor's position on the Z axis.
func (a *Actor) Depth() float32 { return a.depth }

// SetScale sets the scale factors, keeping the current scale center.
func (a *Actor) SetScale(scaleX, scaleY float32) {
	a.scaleX = scaleX
	a.scaleY = scaleY
	a.transformInvalidate()
	a.QueueRedraw()
}

// SetScaleFull sets the scale factors and an absolute scale center.
func (a *Actor) SetScaleFull(scaleX, scaleY, centerX, centerY float32) {
	a.scaleCenter = point{x: centerX, y: centerY}
	a.SetScale(scaleX, scaleY)
}

// SetScaleWithGravity sets the scale factors with a gravity-resolved center,
// so the center tracks the actor's size.
func (a *Actor) SetScaleWithGravity(scaleX, scaleY float32, gravity Gravity) {
	a.scaleCenter = point{gravity: gravity}
	a.SetScale(scaleX, scaleY)
}

// Scale returns the scale factors.
func (a *Actor) Scale() (scaleX, scaleY float32) { return a.scaleX, a.scaleY }

// SetRotation sets the rotation angle in degrees about the given axis, with
// an absolute center.
func (a *Actor) SetRotation(axis RotateAxis, angle, centerX, centerY float32) {
	a.rotationAngles[axis] = angle
	a.rotationCenters[axis] = point{x: centerX, y: centerY}
	a.transformInvalidate()
	a.QueueRedraw()
}

// SetRotationWithGravity sets the rotation about a gravity-resolved center.
func (a *Actor) SetRotationWithGravity(axis RotateAxis, angle float32, gravity Gravity) {
	a.rotationAngles[axis] = angle
	a.rotationCenters[axis] = point{gravity: gravity}
	a.transformInvalidate()
	a.QueueRedraw()
}

// Rotation returns the angle for the given axis in degrees.
func (a *Actor) Rotation(axis RotateAxis) float32 { return a.rotationAngles[axis] }

// SetAnchorPoint sets an absolute anchor: the point of the actor placed at
// its allocated position, and the pivot the whole local transform hangs off.
func (a *Actor) SetAnchorPoint(x, y float32) {
	a.anchor = point{x: x, y: y}
	a.transformInvalidate()
	a.QueueRedraw()
}

// SetAnchorPointFromGravity sets a gravity-resolved anchor.
func (a *Actor) SetAnchorPointFromGravity(gravity Gravity) {
	a.anchor = point{gravity: gravity}
	a.transformInvalidate()
	a.QueueRedraw()
}

// AnchorPoint returns the anchor resolved against the current size.
func (a *Actor) AnchorPoint() (x, y float32) {
	w, h := a.allocation.Size()
	return a.anchor.resolve(w, h)
}
