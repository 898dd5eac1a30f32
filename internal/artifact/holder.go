package artifact

import "sync/atomic"

// Holder publishes the pair served to requests. Readers always observe either the
// previous or the new pair, never a partially built one.
type Holder struct {
	current atomic.Pointer[Pair]
}

// NewHolder returns a holder already serving pair
func NewHolder(pair *Pair) *Holder {
	h := &Holder{}
	h.current.Store(pair)
	return h
}

// Load returns the pair currently served, or nil before the first Swap
func (h *Holder) Load() *Pair {
	return h.current.Load()
}

// Swap publishes a fully validated pair and returns the one it replaced
func (h *Holder) Swap(pair *Pair) *Pair {
	return h.current.Swap(pair)
}
