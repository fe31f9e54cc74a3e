package aspen

// Context holds state shared across a stage's lifetime: the frame counter,
// the pick-id registry, and debug toggles. It is created with its stage and
// torn down when the stage is destroyed.
type Context struct {
	debug      bool
	frameCount uint64

	pickMode   bool
	nextPickID uint32
	pickActors map[uint32]*Actor
}

func newContext(debug bool) *Context {
	return &Context{
		debug:      debug,
		pickActors: make(map[uint32]*Actor),
	}
}

func (c *Context) teardown() {
	c.pickActors = nil
}

// Debug reports whether invariant diagnostics are enabled.
func (c *Context) Debug() bool { return c.debug }

// SetDebug toggles invariant diagnostics.
func (c *Context) SetDebug(debug bool) { c.debug = debug }

// FrameCount returns the number of frames painted so far.
func (c *Context) FrameCount() uint64 { return c.frameCount }

// PickMode reports whether the current traversal is a pick pass rather
// than a paint pass.
func (c *Context) PickMode() bool { return c.pickMode }

// beginPick resets the pick-id registry for a fresh pick render. Ids are
// assigned sequentially as reactive actors are encountered.
func (c *Context) beginPick() {
	c.pickMode = true
	c.nextPickID = 0
	for id := range c.pickActors {
		delete(c.pickActors, id)
	}
}

func (c *Context) endPick() {
	c.pickMode = false
}

// registerPick assigns the next pick id to the actor and returns it.
func (c *Context) registerPick(a *Actor) uint32 {
	id := c.nextPickID
	c.nextPickID++
	c.pickActors[id] = a
	return id
}

func (c *Context) actorForPickID(id uint32) *Actor {
	return c.pickActors[id]
}

// pickColorFromID packs a pick id into an opaque RGB color. Ids above 24
// bits would alias, far beyond any realistic actor count.
func pickColorFromID(id uint32) (r, g, b uint8) {
	return uint8(id >> 16), uint8(id >> 8), uint8(id)
}

func pickIDFromColor(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
