package charts

// HoverState tracks the single hovered point or bar of a chart.
type HoverState struct {
	index  int
	active bool
}

// Enter marks index as hovered.
func (h *HoverState) Enter(index int) {
	if index < 0 {
		h.Leave()
		return
	}
	h.index = index
	h.active = true
}

// Leave clears the hover when the pointer leaves the plotting surface.
func (h *HoverState) Leave() {
	h.index = 0
	h.active = false
}

// Index returns the hovered index, if any.
func (h HoverState) Index() (int, bool) {
	return h.index, h.active
}

// Is reports whether index is the hovered one.
func (h HoverState) Is(index int) bool {
	return h.active && h.index == index
}
