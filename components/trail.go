package components

// MaxTrail is the hard upper bound on trail history per particle.
const MaxTrail = 32

// TrailPoint is one remembered position with the color drawn there.
type TrailPoint struct {
	X, Y    float32
	R, G, B uint8
}

// Trail is a fixed-size FIFO of recent positions. The zero value is empty.
type Trail struct {
	points [MaxTrail]TrailPoint
	start  uint8
	n      uint8
}

// Push appends p, dropping the oldest points so the length never exceeds
// limit. limit is capped at MaxTrail; limit <= 0 keeps the trail empty.
func (t *Trail) Push(p TrailPoint, limit int) {
	if limit <= 0 {
		t.Clear()
		return
	}
	if limit > MaxTrail {
		limit = MaxTrail
	}
	for int(t.n) >= limit {
		t.start = (t.start + 1) % MaxTrail
		t.n--
	}
	t.points[(int(t.start)+int(t.n))%MaxTrail] = p
	t.n++
}

// Clear drops every point.
func (t *Trail) Clear() {
	t.start = 0
	t.n = 0
}

// Len returns the number of stored points.
func (t *Trail) Len() int {
	return int(t.n)
}

// At returns the i-th point, oldest first.
func (t *Trail) At(i int) TrailPoint {
	return t.points[(int(t.start)+i)%MaxTrail]
}
