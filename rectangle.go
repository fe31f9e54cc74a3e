package aspen

// Rectangle is a solid-color actor. It paints its allocation as a filled
// quad, with an optional border inset.
type Rectangle struct {
	*Actor

	color       Color
	borderColor Color
	borderWidth float32
}

var rectangleClass = &ActorClass{
	Paint: func(a *Actor, ctx *PaintContext) {
		r := a.kindData.(*Rectangle)
		width, height := a.allocation.Size()
		alpha := float32(a.paintOpacity()) / 255

		if r.borderWidth > 0 {
			ctx.Renderer.FillQuad(ctx.Target,
				ctx.projectBox(BoxFromSize(0, 0, width, height)),
				r.borderColor.withAlpha(alpha))
			bw := r.borderWidth
			ctx.Renderer.FillQuad(ctx.Target,
				ctx.projectBox(BoxFromSize(bw, bw, width-2*bw, height-2*bw)),
				r.color.withAlpha(alpha))
		} else {
			ctx.Renderer.FillQuad(ctx.Target,
				ctx.projectBox(BoxFromSize(0, 0, width, height)),
				r.color.withAlpha(alpha))
		}
		a.paintChildren(ctx)
	},
	HasOverlaps: func(a *Actor) bool {
		// A lone quad cannot overlap itself; only children overlap it.
		return a.ChildCount() > 0
	},
}

// NewRectangle creates a rectangle actor with the given fill color.
func NewRectangle(color Color) *Rectangle {
	r := &Rectangle{color: color}
	r.Actor = newActorWithClass(rectangleClass)
	r.Actor.kindData = r
	return r
}

// SetColor changes the fill color.
func (r *Rectangle) SetColor(color Color) {
	r.color = color
	r.QueueRedraw()
}

// Color returns the fill color.
func (r *Rectangle) Color() Color { return r.color }

// SetBorder sets a border drawn inside the allocation edge.
func (r *Rectangle) SetBorder(color Color, width float32) {
	r.borderColor = color
	r.borderWidth = width
	r.QueueRedraw()
}
