package aspen

// GetActorAtPos finds the topmost reactive actor whose on-screen shape
// contains the stage-space point (x, y). It walks the tree in paint order,
// so actors painted later win, and it never touches the GPU.
func (s *Stage) GetActorAtPos(x, y float32) *Actor {
	return hitTest(s.actor, x, y)
}

func hitTest(a *Actor, x, y float32) *Actor {
	if !a.IsMapped() || a.InDestruction() {
		return nil
	}

	inside := a.containsStagePoint(x, y)

	// A clip confines the children too: a point outside the clipped shape
	// cannot hit anything in this subtree.
	if (a.hasClip || a.clipToAllocation) && !inside {
		return nil
	}

	// Children paint on top, so search them front to back.
	for i := len(a.children) - 1; i >= 0; i-- {
		if hit := hitTest(a.children[i], x, y); hit != nil {
			return hit
		}
	}

	if a.IsReactive() && inside {
		return a
	}
	return nil
}

// containsStagePoint maps the stage point into local coordinates and tests
// it against the actor's allocation, honoring any clip.
func (a *Actor) containsStagePoint(x, y float32) bool {
	if a.needsAllocation {
		return false
	}
	lx, ly, ok := a.TransformStagePoint(x, y)
	if !ok {
		return false
	}
	width, height := a.allocation.Size()
	if lx < 0 || ly < 0 || lx > width || ly > height {
		return false
	}
	if a.hasClip {
		return a.clip.Contains(lx, ly)
	}
	return true
}

// PickActor resolves the actor at (x, y) by rendering the tree in pick
// mode, where every reactive actor draws its allocation in a unique flat
// color, and reading the pixel back. Unlike GetActorAtPos this sees the
// exact painted shape, at the cost of a GPU readback.
func (s *Stage) PickActor(renderer Renderer, x, y int) *Actor {
	w, h := s.Size()
	fb := renderer.AcquireOffscreen(w, h)
	defer renderer.ReleaseOffscreen(fb)

	s.context.beginPick()
	defer s.context.endPick()

	ctx := &PaintContext{
		Stage:      s,
		Context:    s.context,
		Renderer:   renderer,
		Target:     fb,
		modelview:  s.viewMatrix(),
		projection: s.projection,
		viewport:   s.viewport,
	}
	s.actor.Paint(ctx)

	reader, ok := fb.(interface{ ReadPixel(x, y int) (r, g, b, a uint8) })
	if !ok {
		return nil
	}
	r, g, b, alpha := reader.ReadPixel(x, y)
	if alpha == 0 {
		return nil
	}
	return s.context.actorForPickID(pickIDFromColor(r, g, b))
}
