package mmio

// Poll calls ready until it returns true or limit calls have been made.
// It reports whether ready was observed true. A zero limit still polls once.
func Poll(limit uint32, ready func() bool) bool {
	if limit == 0 {
		limit = 1
	}
	for i := uint32(0); i < limit; i++ {
		if ready() {
			return true
		}
	}
	return false
}

// WaitMasked polls r until r&mask == want.
func WaitMasked(r Reg32, mask, want, limit uint32) bool {
	return Poll(limit, func() bool { return r.Get()&mask == want })
}

// WaitSet polls r until every bit in mask is set.
func WaitSet(r Reg32, mask, limit uint32) bool { return WaitMasked(r, mask, mask, limit) }

// WaitClear polls r until every bit in mask is clear.
func WaitClear(r Reg32, mask, limit uint32) bool { return WaitMasked(r, mask, 0, limit) }
