package aspen

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a point in 3D space. Actors live in a 2.5D world: most of them
// are flat (Z == 0), but depth, rotation, and perspective can move their
// painted geometry anywhere in 3D.
type Vertex struct {
	X, Y, Z float32
}

// Vec3 returns the vertex as an mgl32 vector.
func (v Vertex) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// ActorBox is an axis-aligned rectangle in an actor's parent coordinate
// space: (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right.
// It is the unit of allocation: parents assign one to each child during
// layout.
type ActorBox struct {
	X1, Y1, X2, Y2 float32
}

// BoxFromSize returns an ActorBox with the given origin and size.
func BoxFromSize(x, y, width, height float32) ActorBox {
	return ActorBox{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// Width returns the box width. Negative if the box is inverted.
func (b ActorBox) Width() float32 { return b.X2 - b.X1 }

// Height returns the box height. Negative if the box is inverted.
func (b ActorBox) Height() float32 { return b.Y2 - b.Y1 }

// Origin returns the top-left corner.
func (b ActorBox) Origin() (x, y float32) { return b.X1, b.Y1 }

// Size returns the box dimensions.
func (b ActorBox) Size() (width, height float32) { return b.X2 - b.X1, b.Y2 - b.Y1 }

// Contains reports whether the point (x, y) lies inside the box.
// Points on the edge are considered inside.
func (b ActorBox) Contains(x, y float32) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// Union returns the smallest box enclosing both b and other.
func (b ActorBox) Union(other ActorBox) ActorBox {
	return ActorBox{
		X1: math32.Min(b.X1, other.X1),
		Y1: math32.Min(b.Y1, other.Y1),
		X2: math32.Max(b.X2, other.X2),
		Y2: math32.Max(b.Y2, other.Y2),
	}
}

// ClampToPixel expands the box to the nearest enclosing integer pixel
// boundaries. Used when converting painted geometry into damage clips, where
// fractional coverage must round outward.
func (b ActorBox) ClampToPixel() ActorBox {
	return ActorBox{
		X1: math32.Floor(b.X1),
		Y1: math32.Floor(b.Y1),
		X2: math32.Ceil(b.X2),
		Y2: math32.Ceil(b.Y2),
	}
}

// Geometry is an integer rectangle, used for window-space damage regions.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// GeometryFromBox converts a pixel-clamped ActorBox into a Geometry.
func GeometryFromBox(b ActorBox) Geometry {
	b = b.ClampToPixel()
	return Geometry{
		X:      int(b.X1),
		Y:      int(b.Y1),
		Width:  int(b.X2 - b.X1),
		Height: int(b.Y2 - b.Y1),
	}
}

// Union returns the smallest geometry enclosing both g and other.
func (g Geometry) Union(other Geometry) Geometry {
	x1 := min(g.X, other.X)
	y1 := min(g.Y, other.Y)
	x2 := max(g.X+g.Width, other.X+other.Width)
	y2 := max(g.Y+g.Height, other.Y+other.Height)
	return Geometry{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// IsEmpty reports whether the geometry has no area.
func (g Geometry) IsEmpty() bool { return g.Width <= 0 || g.Height <= 0 }

// AllocationFlags qualifies an Allocate call.
type AllocationFlags uint8

const (
	// AllocNone is the default: nothing special about this allocation.
	AllocNone AllocationFlags = 0

	// AllocAbsoluteOriginChanged signals that the actor's on-screen origin
	// moved, even if its box relative to the parent is unchanged (because an
	// ancestor moved). Observers caring about absolute position, such as the
	// transform cache, key off this rather than the box delta.
	AllocAbsoluteOriginChanged AllocationFlags = 1 << 1
)

// Gravity names a reference point on an actor's bounding box, resolved
// against the current size. It is used for transform centers and anchors
// that should track the actor as it resizes.
type Gravity uint8

const (
	GravityNone Gravity = iota
	GravityNorth
	GravityNorthEast
	GravityEast
	GravitySouthEast
	GravitySouth
	GravitySouthWest
	GravityWest
	GravityNorthWest
	GravityCenter
)

// gravityFraction returns the fractional position of a gravity point within
// a unit box. GravityNone anchors at the origin.
func gravityFraction(g Gravity) (fx, fy float32) {
	switch g {
	case GravityNorth:
		return 0.5, 0
	case GravityNorthEast:
		return 1, 0
	case GravityEast:
		return 1, 0.5
	case GravitySouthEast:
		return 1, 1
	case GravitySouth:
		return 0.5, 1
	case GravitySouthWest:
		return 0, 1
	case GravityWest:
		return 0, 0.5
	case GravityNorthWest:
		return 0, 0
	case GravityCenter:
		return 0.5, 0.5
	default:
		return 0, 0
	}
}

// point is a transform center or anchor: either an absolute offset in actor
// coordinates, or a gravity resolved against the actor's current size.
type point struct {
	x, y    float32
	gravity Gravity
}

// resolve returns the point in actor coordinates for the given size.
func (p point) resolve(width, height float32) (x, y float32) {
	if p.gravity == GravityNone {
		return p.x, p.y
	}
	fx, fy := gravityFraction(p.gravity)
	return fx * width, fy * height
}

// isZero reports whether the point resolves to the origin for any size.
func (p point) isZero() bool {
	return p.gravity == GravityNone && p.x == 0 && p.y == 0
}
