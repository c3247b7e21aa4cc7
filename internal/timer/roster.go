package timer

// roster stores players in a stable arena and keeps turn order as a separate
// list of arena slots, so reordering never moves a Player.
//
// Invariant: every slot in order refers to a non-nil arena entry; free slots are nil.
type roster struct {
	arena []*Player
	order []int
	free  []int
}

func (r *roster) len() int { return len(r.order) }

// at returns the player in turn position pos.
func (r *roster) at(pos int) *Player { return r.arena[r.order[pos]] }

// players returns the players in turn order.
func (r *roster) players() []*Player {
	out := make([]*Player, len(r.order))
	for pos, slot := range r.order {
		out[pos] = r.arena[slot]
	}
	return out
}

// add appends p to the end of turn order, reusing a released slot if any.
func (r *roster) add(p *Player) {
	if n := len(r.free); n > 0 {
		slot := r.free[n-1]
		r.free = r.free[:n-1]
		r.arena[slot] = p
		r.order = append(r.order, slot)
		return
	}
	r.arena = append(r.arena, p)
	r.order = append(r.order, len(r.arena)-1)
}

// removeLast drops the last player in turn order and releases its slot.
//
// Precondition: r.len() > 0.
func (r *roster) removeLast() *Player {
	pos := len(r.order) - 1
	slot := r.order[pos]
	p := r.arena[slot]
	r.arena[slot] = nil
	r.free = append(r.free, slot)
	r.order = r.order[:pos]
	return p
}

// slotOf returns the arena slot holding the player with the given id.
func (r *roster) slotOf(id int) (int, bool) {
	for _, slot := range r.order {
		if r.arena[slot].ID == id {
			return slot, true
		}
	}
	return 0, false
}

// reorder replaces turn order with slots and renumbers ids to match positions.
//
// Precondition: slots is a permutation of the current order.
func (r *roster) reorder(slots []int) {
	r.order = slots
	for pos, slot := range r.order {
		r.arena[slot].ID = pos
	}
}
