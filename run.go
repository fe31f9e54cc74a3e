package aspen

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Resizable     bool

	// OnUpdate, if set, runs every tick before layout with the frame delta
	// in seconds. Drive tween groups and game logic from here.
	OnUpdate func(dt float32)
}

// game adapts a stage to the ebiten game loop: Update runs animations and
// layout, Draw drains the redraw queue and paints.
type game struct {
	stage    *Stage
	renderer Renderer
	onUpdate func(dt float32)
	mapped   bool
}

func (g *game) Update() error {
	if !g.mapped {
		// The native window exists once the loop is running.
		g.stage.Show()
		g.stage.Map()
		g.mapped = true
	}

	if g.onUpdate != nil {
		g.onUpdate(float32(1.0 / float64(ebiten.TPS())))
	}

	g.stage.maybeRelayout()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	damage, full := g.stage.FrameDamage()
	g.paintDamage(NewEbitenFramebuffer(screen), damage, full)
}

// paintDamage repaints the stage into fb, clipped to the damage region
// when it is partial. Run disables ebiten's per-frame screen clear, so an
// empty region means the previous frame's backbuffer is still correct and
// nothing is painted at all.
func (g *game) paintDamage(fb Framebuffer, damage Geometry, full bool) {
	if full {
		g.stage.Paint(g.renderer, fb)
		return
	}
	if damage.IsEmpty() {
		return
	}
	g.renderer.PushClip(fb, damage)
	g.stage.Paint(g.renderer, fb)
	g.renderer.PopClip(fb)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.stage.SetSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run creates a window sized to the stage and drives it with the ebiten
// game loop until the window closes. For full control, implement
// [ebiten.Game] yourself and call [Stage.FrameDamage] and [Stage.Paint]
// directly.
func Run(stage *Stage, cfg RunConfig) error {
	w, h := stage.Size()
	if cfg.Width > 0 && cfg.Height > 0 {
		w, h = cfg.Width, cfg.Height
		stage.SetSize(w, h)
	}

	ebiten.SetWindowSize(w, h)
	// The damage pipeline only pays off if the backbuffer survives between
	// frames.
	ebiten.SetScreenClearedEveryFrame(false)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := &game{
		stage:    stage,
		renderer: NewEbitenRenderer(),
		onUpdate: cfg.OnUpdate,
	}
	return ebiten.RunGame(g)
}
