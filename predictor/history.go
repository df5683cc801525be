package predictor

// HistoryRegister is a fixed-width shift register of past branch outcomes.
// The most recent outcome is the least-significant bit.
type HistoryRegister struct {
	value uint64
	width uint
	mask  uint64
}

// NewHistoryRegister creates an all-not-taken history of the given width.
func NewHistoryRegister(width uint) (*HistoryRegister, error) {
	if err := checkWidth("history width", width); err != nil {
		return nil, err
	}

	return &HistoryRegister{
		width: width,
		mask:  Mask(width),
	}, nil
}

// Value returns the current history.
func (h *HistoryRegister) Value() uint64 {
	return h.value
}

// Width returns the number of outcomes the register remembers.
func (h *HistoryRegister) Width() uint {
	return h.width
}

// Mask returns the mask applied after every shift.
func (h *HistoryRegister) Mask() uint64 {
	return h.mask
}

// Push shifts in one outcome. Bits older than the width fall off.
func (h *HistoryRegister) Push(taken bool) {
	h.value = (h.value<<1 | bit(taken)) & h.mask
}

// Reset clears the history to all not-taken.
func (h *HistoryRegister) Reset() {
	h.value = 0
}

func bit(taken bool) uint64 {
	if taken {
		return 1
	}
	return 0
}
