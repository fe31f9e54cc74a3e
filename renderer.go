package aspen

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Color is a normalized RGBA color.
type Color struct {
	R, G, B, A float32
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// withAlpha premultiplies the color by an extra opacity factor.
func (c Color) withAlpha(alpha float32) Color {
	return Color{c.R, c.G, c.B, c.A * alpha}
}

// Quad is four screen-space corners in the order top-left, top-right,
// bottom-left, bottom-right. Projection happens before the renderer sees
// anything, so a renderer only ever deals in final screen coordinates.
type Quad [4]mgl32.Vec2

// QuadFromGeometry builds an axis-aligned quad from a pixel rectangle.
func QuadFromGeometry(g Geometry) Quad {
	x1 := float32(g.X)
	y1 := float32(g.Y)
	x2 := float32(g.X + g.Width)
	y2 := float32(g.Y + g.Height)
	return Quad{{x1, y1}, {x2, y1}, {x1, y2}, {x2, y2}}
}

// Framebuffer is a render target.
type Framebuffer interface {
	Size() (width, height int)
}

// Renderer executes the draw operations emitted during paint traversal.
// Implementations other than the ebiten one exist only for tests.
type Renderer interface {
	// FillQuad fills a projected quad with a solid color.
	FillQuad(fb Framebuffer, quad Quad, color Color)
	// DrawTexture draws the srcRegion rectangle of a source framebuffer
	// onto a projected quad, modulated by opacity. Pooled offscreen
	// buffers can be larger than their painted content, so the region
	// matters even when a caller painted the whole logical area.
	DrawTexture(fb Framebuffer, src Framebuffer, srcRegion Geometry, quad Quad, opacity float32)
	// PushClip restricts subsequent draws on fb to the given rectangle.
	// Clips nest; PopClip restores the previous one.
	PushClip(fb Framebuffer, clip Geometry)
	PopClip(fb Framebuffer)
	// AcquireOffscreen returns a cleared offscreen target of at least the
	// given size; ReleaseOffscreen returns it to the pool.
	AcquireOffscreen(width, height int) Framebuffer
	ReleaseOffscreen(fb Framebuffer)
}

// --- Ebiten implementation ---

// EbitenFramebuffer wraps an ebiten image as a render target.
type EbitenFramebuffer struct {
	img *ebiten.Image
	// clipStack tracks nested clip rectangles as subimage bounds.
	clipStack []image.Rectangle
}

// NewEbitenFramebuffer wraps an existing ebiten image.
func NewEbitenFramebuffer(img *ebiten.Image) *EbitenFramebuffer {
	return &EbitenFramebuffer{img: img}
}

// Image returns the wrapped ebiten image.
func (fb *EbitenFramebuffer) Image() *ebiten.Image { return fb.img }

func (fb *EbitenFramebuffer) Size() (int, int) {
	b := fb.img.Bounds()
	return b.Dx(), b.Dy()
}

// target returns the draw destination honoring the current clip.
func (fb *EbitenFramebuffer) target() *ebiten.Image {
	if len(fb.clipStack) == 0 {
		return fb.img
	}
	return fb.img.SubImage(fb.clipStack[len(fb.clipStack)-1]).(*ebiten.Image)
}

// ReadPixel returns the color at (x, y). Only used by the pick path; this
// forces a GPU readback and must not be called per frame.
func (fb *EbitenFramebuffer) ReadPixel(x, y int) (r, g, b, a uint8) {
	c := fb.img.At(x, y)
	cr, cg, cb, ca := c.RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)
}

// EbitenRenderer draws quads with DrawTriangles. Fills use a shared 1x1
// white image as the texture source.
type EbitenRenderer struct {
	white     *ebiten.Image
	offscreen []*EbitenFramebuffer
}

// NewEbitenRenderer creates a renderer with an empty offscreen pool.
func NewEbitenRenderer() *EbitenRenderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &EbitenRenderer{white: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)}
}

// quadVertices maps a quad onto the two triangles ebiten expects.
var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

func quadVertices(quad Quad, srcW, srcH float32, color Color) []ebiten.Vertex {
	// Texture coordinates follow the corner order: TL, TR, BL, BR.
	us := [4]float32{0, srcW, 0, srcW}
	vs := [4]float32{0, 0, srcH, srcH}
	verts := make([]ebiten.Vertex, 4)
	for i := range verts {
		verts[i] = ebiten.Vertex{
			DstX:   quad[i].X(),
			DstY:   quad[i].Y(),
			SrcX:   us[i],
			SrcY:   vs[i],
			ColorR: color.R,
			ColorG: color.G,
			ColorB: color.B,
			ColorA: color.A,
		}
	}
	return verts
}

func (r *EbitenRenderer) FillQuad(fb Framebuffer, quad Quad, color Color) {
	ef := fb.(*EbitenFramebuffer)
	src := r.white
	min := src.Bounds().Min
	verts := quadVertices(quad, 0, 0, color)
	for i := range verts {
		verts[i].SrcX += float32(min.X)
		verts[i].SrcY += float32(min.Y)
	}
	ef.target().DrawTriangles(verts, quadIndices, src, nil)
}

func (r *EbitenRenderer) DrawTexture(fb Framebuffer, src Framebuffer, srcRegion Geometry, quad Quad, opacity float32) {
	ef := fb.(*EbitenFramebuffer)
	sf := src.(*EbitenFramebuffer)
	verts := quadVertices(quad, float32(srcRegion.Width), float32(srcRegion.Height),
		Color{opacity, opacity, opacity, opacity})
	min := sf.img.Bounds().Min
	for i := range verts {
		verts[i].SrcX += float32(min.X + srcRegion.X)
		verts[i].SrcY += float32(min.Y + srcRegion.Y)
	}
	ef.target().DrawTriangles(verts, quadIndices, sf.img, nil)
}

func (r *EbitenRenderer) PushClip(fb Framebuffer, clip Geometry) {
	ef := fb.(*EbitenFramebuffer)
	rect := image.Rect(clip.X, clip.Y, clip.X+clip.Width, clip.Y+clip.Height)
	if len(ef.clipStack) > 0 {
		rect = rect.Intersect(ef.clipStack[len(ef.clipStack)-1])
	} else {
		rect = rect.Intersect(ef.img.Bounds())
	}
	ef.clipStack = append(ef.clipStack, rect)
}

func (r *EbitenRenderer) PopClip(fb Framebuffer) {
	ef := fb.(*EbitenFramebuffer)
	if len(ef.clipStack) == 0 {
		warn("PopClip without matching PushClip")
		return
	}
	ef.clipStack = ef.clipStack[:len(ef.clipStack)-1]
}

func (r *EbitenRenderer) AcquireOffscreen(width, height int) Framebuffer {
	for i, fb := range r.offscreen {
		w, h := fb.Size()
		if w >= width && h >= height {
			r.offscreen = append(r.offscreen[:i], r.offscreen[i+1:]...)
			fb.img.Clear()
			fb.clipStack = fb.clipStack[:0]
			return fb
		}
	}
	return &EbitenFramebuffer{img: ebiten.NewImage(width, height)}
}

func (r *EbitenRenderer) ReleaseOffscreen(fb Framebuffer) {
	ef, ok := fb.(*EbitenFramebuffer)
	if !ok {
		return
	}
	if len(r.offscreen) >= 8 {
		ef.img.Deallocate()
		return
	}
	r.offscreen = append(r.offscreen, ef)
}
