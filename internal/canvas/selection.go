package canvas

// Selection is the set of selected node ids plus an optional primary used
// for the detail panel. The primary, when set, is always a member.
type Selection struct {
	order   []string
	members map[string]struct{}
	primary string
}

func NewSelection() *Selection {
	return &Selection{members: make(map[string]struct{})}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.members[id]
	return ok
}

func (s *Selection) Len() int { return len(s.order) }

// IDs returns members in the order they were selected.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.order...)
}

// Primary returns the primary selection or "".
func (s *Selection) Primary() string { return s.primary }

func (s *Selection) Clear() {
	s.order = nil
	s.members = make(map[string]struct{})
	s.primary = ""
}

// Select makes id the only member and the primary.
func (s *Selection) Select(id string) {
	s.Clear()
	s.add(id)
	s.primary = id
}

// Toggle flips membership of id. Removing the primary clears it.
func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		s.remove(id)
		return
	}
	s.add(id)
}

// Replace swaps the member set for ids. The primary survives only if it is
// still a member.
func (s *Selection) Replace(ids []string) {
	primary := s.primary
	s.Clear()
	for _, id := range ids {
		s.add(id)
	}
	if s.Has(primary) {
		s.primary = primary
	}
}

// Prune drops members for which keep returns false.
func (s *Selection) Prune(keep func(id string) bool) int {
	var dropped []string
	for _, id := range s.order {
		if !keep(id) {
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		s.remove(id)
	}
	return len(dropped)
}

func (s *Selection) add(id string) {
	if s.Has(id) {
		return
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Selection) remove(id string) {
	delete(s.members, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.primary == id {
		s.primary = ""
	}
}

// BandSelect is the rubber-band gesture. The rectangle is tracked in screen
// space and converted to world space once, on release.
type BandSelect struct {
	active  bool
	start   Point
	current Point
}

func (b *BandSelect) Active() bool { return b.active }

func (b *BandSelect) Begin(screen Point) {
	b.active = true
	b.start = screen
	b.current = screen
}

func (b *BandSelect) Update(screen Point) {
	if b.active {
		b.current = screen
	}
}

// Rect is the current band in screen space.
func (b *BandSelect) Rect() Rect {
	return RectFromPoints(b.start, b.current)
}

// End finishes the gesture and returns the ids whose world boxes overlap
// the band. The result may be empty.
func (b *BandSelect) End(m *Model, cam Camera) []string {
	if !b.active {
		return nil
	}
	b.active = false
	return m.Intersecting(cam.RectToWorld(b.Rect()))
}

// Cancel abandons the gesture without touching the selection.
func (b *BandSelect) Cancel() {
	b.active = false
}
