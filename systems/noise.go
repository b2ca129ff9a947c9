package systems

import (
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// NoiseSource is any 2D coherent noise generator returning values in [-1, 1].
type NoiseSource interface {
	Noise2D(x, y float64) float64
}

// grad2 holds the 12 gradient directions (edge midpoints of a cube, projected
// onto the xy plane).
var grad2 = [12][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

// Skew factors for the 2D simplex grid.
var (
	skew2   = 0.5 * (math.Sqrt(3) - 1)
	unskew2 = (3 - math.Sqrt(3)) / 6
)

// GradientNoise generates coherent 2D gradient noise over a simplex grid.
type GradientNoise struct {
	perm      [512]uint8
	permMod12 [512]uint8
}

// NewGradientNoise creates a gradient noise generator. The same seed always
// yields the same permutation table and therefore the same output.
func NewGradientNoise(seed int64) *GradientNoise {
	n := &GradientNoise{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]uint8
	for i := range perm {
		perm[i] = uint8(i)
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate so lookups can skip the wraparound
	for i := 0; i < 512; i++ {
		n.perm[i] = perm[i&255]
		n.permMod12[i] = n.perm[i] % 12
	}

	return n
}

// Noise2D returns a noise value in [-1, 1] for 2D coordinates.
func (n *GradientNoise) Noise2D(x, y float64) float64 {
	// Skew input space to find the simplex cell
	s := (x + y) * skew2
	i := math.Floor(x + s)
	j := math.Floor(y + s)

	t := (i + j) * unskew2
	x0 := x - (i - t)
	y0 := y - (j - t)

	// Which of the two triangles of the cell are we in
	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + unskew2
	y1 := y0 - float64(j1) + unskew2
	x2 := x0 - 1 + 2*unskew2
	y2 := y0 - 1 + 2*unskew2

	ii := int(i) & 255
	jj := int(j) & 255
	gi0 := n.permMod12[ii+int(n.perm[jj])]
	gi1 := n.permMod12[ii+i1+int(n.perm[jj+j1])]
	gi2 := n.permMod12[ii+1+int(n.perm[jj+1])]

	return 70 * (corner(gi0, x0, y0) + corner(gi1, x1, y1) + corner(gi2, x2, y2))
}

// corner returns the contribution of one simplex corner.
func corner(gi uint8, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	g := grad2[gi]
	return t * t * (g[0]*x + g[1]*y)
}

// OctaveNoise sums octaves of src, doubling frequency and scaling amplitude by
// persistence each octave. The result is normalized by the total amplitude so
// it stays within the range of a single octave.
func OctaveNoise(src NoiseSource, x, y float64, octaves int, persistence float64) float64 {
	if octaves <= 0 || src == nil {
		return 0
	}

	var total, amplitude, maxAmp float64
	frequency := 1.0
	amplitude = 1.0
	for o := 0; o < octaves; o++ {
		total += src.Noise2D(x*frequency, y*frequency) * amplitude
		maxAmp += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if maxAmp == 0 {
		return 0
	}
	return total / maxAmp
}

// SimplexNoise adapts OpenSimplex noise to NoiseSource.
type SimplexNoise struct {
	noise opensimplex.Noise
}

// NewSimplexNoise creates an OpenSimplex-backed noise source.
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{noise: opensimplex.New(seed)}
}

// Noise2D returns a noise value in [-1, 1] for 2D coordinates.
func (s *SimplexNoise) Noise2D(x, y float64) float64 {
	return s.noise.Eval2(x, y)
}

// NewNoiseSource builds the generator named by kind. Unknown kinds fall back
// to gradient noise.
func NewNoiseSource(kind string, seed int64) NoiseSource {
	if kind == "opensimplex" {
		return NewSimplexNoise(seed)
	}
	return NewGradientNoise(seed)
}
