package fabric

import "fmt"

// ID is a generational handle into an arena. The zero ID never refers to a
// live element, and a handle whose slot has been reused no longer resolves.
type ID struct {
	index uint32
	gen   uint32
}

func (id ID) IsZero() bool { return id.gen == 0 }

func (id ID) String() string {
	if id.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%d.%d", id.index, id.gen)
}

// Less orders handles by slot, then generation.
func (id ID) Less(other ID) bool {
	if id.index != other.index {
		return id.index < other.index
	}
	return id.gen < other.gen
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

func (a *arena[T]) insert(value T) ID {
	a.live++
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.value = value
		s.live = true
		return ID{index: index, gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{value: value, gen: 1, live: true})
	return ID{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena[T]) get(id ID) *T {
	if id.IsZero() || int(id.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return &s.value
}

func (a *arena[T]) remove(id ID) bool {
	if a.get(id) == nil {
		return false
	}
	s := &a.slots[id.index]
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	a.free = append(a.free, id.index)
	a.live--
	return true
}

func (a *arena[T]) len() int { return a.live }

// each visits live elements in slot order.
func (a *arena[T]) each(fn func(ID, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(ID{index: uint32(i), gen: s.gen}, &s.value)
		}
	}
}

func (a *arena[T]) ids() []ID {
	ids := make([]ID, 0, a.live)
	a.each(func(id ID, _ *T) { ids = append(ids, id) })
	return ids
}

func (a *arena[T]) clone() arena[T] {
	c := arena[T]{
		slots: make([]slot[T], len(a.slots)),
		free:  make([]uint32, len(a.free)),
		live:  a.live,
	}
	copy(c.slots, a.slots)
	copy(c.free, a.free)
	return c
}
