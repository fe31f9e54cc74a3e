package aspen

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is an actor displaying an ebiten image, stretched to its
// allocation.
type Texture struct {
	*Actor

	image *ebiten.Image
	fb    *EbitenFramebuffer

	// syncSize makes the preferred size track the image size.
	syncSize bool
}

var textureClass = &ActorClass{
	GetPreferredWidth: func(a *Actor, forHeight float32) (float32, float32) {
		t := a.kindData.(*Texture)
		if !t.syncSize || t.image == nil {
			return 0, 0
		}
		w := float32(t.image.Bounds().Dx())
		if forHeight >= 0 && t.image.Bounds().Dy() > 0 {
			// Keep the aspect ratio when a height constraint is given.
			w = forHeight * w / float32(t.image.Bounds().Dy())
		}
		return 0, w
	},
	GetPreferredHeight: func(a *Actor, forWidth float32) (float32, float32) {
		t := a.kindData.(*Texture)
		if !t.syncSize || t.image == nil {
			return 0, 0
		}
		h := float32(t.image.Bounds().Dy())
		if forWidth >= 0 && t.image.Bounds().Dx() > 0 {
			h = forWidth * h / float32(t.image.Bounds().Dx())
		}
		return 0, h
	},
	Paint: func(a *Actor, ctx *PaintContext) {
		t := a.kindData.(*Texture)
		if t.image == nil {
			a.paintChildren(ctx)
			return
		}
		width, height := a.allocation.Size()
		alpha := float32(a.paintOpacity()) / 255
		iw, ih := t.fb.Size()
		ctx.Renderer.DrawTexture(ctx.Target, t.fb, Geometry{Width: iw, Height: ih},
			ctx.projectBox(BoxFromSize(0, 0, width, height)), alpha)
		a.paintChildren(ctx)
	},
	HasOverlaps: func(a *Actor) bool {
		// Image alpha can overlap with children but a lone opaque quad is
		// treated like a rectangle.
		return a.ChildCount() > 0
	},
}

// NewTexture creates a texture actor. The image may be nil and set later.
func NewTexture(img *ebiten.Image) *Texture {
	t := &Texture{syncSize: true}
	t.Actor = newActorWithClass(textureClass)
	t.Actor.kindData = t
	t.SetImage(img)
	return t
}

// SetImage swaps the displayed image.
func (t *Texture) SetImage(img *ebiten.Image) {
	t.image = img
	if img != nil {
		t.fb = NewEbitenFramebuffer(img)
	} else {
		t.fb = nil
	}
	if t.syncSize {
		t.QueueRelayout()
	}
	t.QueueRedraw()
}

// Image returns the displayed image, or nil.
func (t *Texture) Image() *ebiten.Image { return t.image }

// SetSyncSize controls whether the preferred size follows the image size.
func (t *Texture) SetSyncSize(sync bool) {
	if t.syncSize == sync {
		return
	}
	t.syncSize = sync
	t.QueueRelayout()
}
