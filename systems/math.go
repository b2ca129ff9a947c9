package systems

import "math"

// Vec2 is a 2D force or velocity vector.
type Vec2 struct {
	X, Y float32
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// finite maps NaN to zero.
func finite(v float32) float32 {
	if v != v {
		return 0
	}
	return v
}

// abs32 returns |v|.
func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// randRange returns a uniform value in [lo, hi).
func randRange(rng interface{ Float32() float32 }, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// velocityMagnitude returns the magnitude of a velocity vector.
func velocityMagnitude(vx, vy float32) float32 {
	return float32(math.Sqrt(float64(vx*vx + vy*vy)))
}
