package aspen

// ActorMeta is the common contract for behaviors attached to an actor:
// actions, constraints, and effects. Each attachment is named within its
// group and can be toggled without detaching.
type ActorMeta interface {
	// Name identifies the attachment within its group.
	Name() string
	// SetActor tells the meta which actor it is attached to; nil on detach.
	SetActor(a *Actor)
	// Enabled reports whether the meta currently participates.
	Enabled() bool
}

// Meta is a ready-made ActorMeta implementation to embed.
type Meta struct {
	name    string
	actor   *Actor
	enabled bool
}

// NewMeta returns an enabled Meta with the given name.
func NewMeta(name string) Meta {
	return Meta{name: name, enabled: true}
}

// Name returns the attachment name.
func (m *Meta) Name() string { return m.name }

// SetActor records the owning actor.
func (m *Meta) SetActor(a *Actor) { m.actor = a }

// Actor returns the actor this meta is attached to, or nil.
func (m *Meta) Actor() *Actor { return m.actor }

// Enabled reports whether the meta participates.
func (m *Meta) Enabled() bool { return m.enabled }

// SetEnabled toggles participation without detaching.
func (m *Meta) SetEnabled(enabled bool) { m.enabled = enabled }

// Action is a pluggable input behavior. The core only manages attachment;
// event routing lives with the input collaborator.
type Action interface {
	ActorMeta
}

// Constraint adjusts an actor's allocation in place before it is stored.
// Constraints run in attachment order during Allocate.
type Constraint interface {
	ActorMeta
	UpdateAllocation(a *Actor, box *ActorBox)
}

// metaGroup is an ordered, named set of attachments. Order is attachment
// order and is meaningful: constraints apply in order, and effect redraw
// precedence is defined by list position.
type metaGroup struct {
	items []ActorMeta
}

func (g *metaGroup) add(a *Actor, meta ActorMeta) {
	if g.lookup(meta.Name()) != nil {
		warn("actor %q already has an attachment named %q", a.name, meta.Name())
		return
	}
	meta.SetActor(a)
	g.items = append(g.items, meta)
}

func (g *metaGroup) remove(name string) ActorMeta {
	for i, m := range g.items {
		if m.Name() == name {
			g.items = append(g.items[:i], g.items[i+1:]...)
			m.SetActor(nil)
			return m
		}
	}
	return nil
}

func (g *metaGroup) lookup(name string) ActorMeta {
	for _, m := range g.items {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

func (g *metaGroup) clear() {
	for _, m := range g.items {
		m.SetActor(nil)
	}
	g.items = nil
}

// indexOf returns the list position of meta, or -1.
func (g *metaGroup) indexOf(meta ActorMeta) int {
	for i, m := range g.items {
		if m == meta {
			return i
		}
	}
	return -1
}

// --- Actor attachment API ---

// AddAction attaches an action.
func (a *Actor) AddAction(action Action) {
	if a.actions == nil {
		a.actions = &metaGroup{}
	}
	a.actions.add(a, action)
}

// RemoveAction detaches the named action.
func (a *Actor) RemoveAction(name string) {
	if a.actions != nil {
		a.actions.remove(name)
	}
}

// Action returns the named action, or nil.
func (a *Actor) Action(name string) Action {
	if a.actions == nil {
		return nil
	}
	action, _ := a.actions.lookup(name).(Action)
	return action
}

// AddConstraint attaches a constraint; it adjusts every later allocation.
func (a *Actor) AddConstraint(constraint Constraint) {
	if a.constraints == nil {
		a.constraints = &metaGroup{}
	}
	a.constraints.add(a, constraint)
	a.QueueRelayout()
}

// RemoveConstraint detaches the named constraint.
func (a *Actor) RemoveConstraint(name string) {
	if a.constraints == nil {
		return
	}
	if a.constraints.remove(name) != nil {
		a.QueueRelayout()
	}
}

// Constraint returns the named constraint, or nil.
func (a *Actor) Constraint(name string) Constraint {
	if a.constraints == nil {
		return nil
	}
	c, _ := a.constraints.lookup(name).(Constraint)
	return c
}

// constraintList returns the enabled constraints in attachment order.
func (a *Actor) constraintList() []Constraint {
	if a.constraints == nil {
		return nil
	}
	out := make([]Constraint, 0, len(a.constraints.items))
	for _, m := range a.constraints.items {
		if c, ok := m.(Constraint); ok && c.Enabled() {
			out = append(out, c)
		}
	}
	return out
}

// releaseMetas detaches every attachment during destruction.
func (a *Actor) releaseMetas() {
	if a.actions != nil {
		a.actions.clear()
		a.actions = nil
	}
	if a.constraints != nil {
		a.constraints.clear()
		a.constraints = nil
	}
	if a.effects != nil {
		a.effects.clear()
		a.effects = nil
	}
}

// MetaByPath resolves an attachment by category ("actions", "constraints",
// "effects") and name. This is the typed replacement for reflective
// property-path lookups.
func (a *Actor) MetaByPath(category, name string) ActorMeta {
	var g *metaGroup
	switch category {
	case "actions":
		g = a.actions
	case "constraints":
		g = a.constraints
	case "effects":
		g = a.effects
	default:
		return nil
	}
	if g == nil {
		return nil
	}
	return g.lookup(name)
}
