package stack

// PositionList is the ordered registry of visible positions.
// Entries are compared by identity. It is not safe for concurrent use;
// callers serialise access on their host loop.
type PositionList struct {
	items []*Position
}

// NewPositionList returns an empty list.
func NewPositionList() *PositionList {
	return &PositionList{}
}

func newFrom(items []*Position) *PositionList {
	return &PositionList{items: items}
}

// Push appends p.
func (l *PositionList) Push(p *Position) {
	l.items = append(l.items, p)
}

// Len returns the number of entries.
func (l *PositionList) Len() int { return len(l.items) }

// Positions returns a copy of the entries in order.
func (l *PositionList) Positions() []*Position {
	out := make([]*Position, len(l.items))
	copy(out, l.items)
	return out
}

// Contains reports whether p is registered.
func (l *PositionList) Contains(p *Position) bool {
	for _, item := range l.items {
		if item == p {
			return true
		}
	}
	return false
}

// Each calls fn for every entry in order.
func (l *PositionList) Each(fn func(p *Position)) {
	for _, item := range l.items {
		fn(item)
	}
}

// FindByOrientation returns the entries with orientation o, order preserved.
func (l *PositionList) FindByOrientation(o Orientation) *PositionList {
	var out []*Position
	for _, item := range l.items {
		if item.Orientation().Equals(o) {
			out = append(out, item)
		}
	}
	return newFrom(out)
}

// Without returns the entries other than p, order preserved.
func (l *PositionList) Without(p *Position) *PositionList {
	var out []*Position
	for _, item := range l.items {
		if item != p {
			out = append(out, item)
		}
	}
	return newFrom(out)
}

// MoveToTop places p above every other registered position of its
// orientation: one slot of p's own height per such position.
func (l *PositionList) MoveToTop(p *Position) {
	count := l.Without(p).FindByOrientation(p.Orientation()).Len()
	p.MoveTo(0, count*p.Height())
}

// Remove unregisters p and compacts the alerts stacked above it.
// It reports false and changes nothing when p is not registered.
func (l *PositionList) Remove(p *Position) bool {
	idx := -1
	for i, item := range l.items {
		if item == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	l.MoveDownFrom(p)
	return true
}

// MoveDownFrom moves every registered position of p's orientation that
// sits above p down by one slot.
func (l *PositionList) MoveDownFrom(p *Position) {
	l.FindByOrientation(p.Orientation()).Each(func(item *Position) {
		if item.IsOnTop(p) {
			item.MoveDown()
		}
	})
}
