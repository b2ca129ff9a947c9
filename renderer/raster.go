package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

// Raster is a software Canvas backed by an image.RGBA. Shapes are rasterized
// with golang.org/x/image/vector into a coverage mask sized to the shape's
// bounding box, then composited pixel by pixel. Used for headless runs and
// tests.
type Raster struct {
	img   *image.RGBA
	blend BlendMode

	z    vector.Rasterizer
	mask []uint8
}

// NewRaster creates an opaque black raster.
func NewRaster(width, height int) *Raster {
	r := &Raster{}
	r.img = newBlack(width, height)
	return r
}

func newBlack(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Point{}, draw.Src)
	return img
}

// Size returns the raster dimensions.
func (r *Raster) Size() (int, int) {
	if r.img == nil {
		return 0, 0
	}
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the image, copying the overlapping region.
func (r *Raster) Resize(width, height int) {
	if r.img == nil {
		return
	}
	w, h := r.Size()
	if w == width && h == height {
		return
	}
	next := newBlack(width, height)
	draw.Draw(next, next.Bounds(), r.img, image.Point{}, draw.Src)
	r.img = next
}

// SetBlend sets the blend mode for subsequent draws.
func (r *Raster) SetBlend(mode BlendMode) {
	r.blend = mode
}

// Image returns the backing image. Nil after Release.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// At returns the pixel at (x, y).
func (r *Raster) At(x, y int) color.RGBA {
	if r.img == nil {
		return color.RGBA{}
	}
	return r.img.RGBAAt(x, y)
}

// WritePNG encodes the current image as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	if r.img == nil {
		return fmt.Errorf("raster released")
	}
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Release drops the image and mask buffers.
func (r *Raster) Release() {
	r.img = nil
	r.mask = nil
}

// Fill composites c over every pixel.
func (r *Raster) Fill(c color.NRGBA) {
	if r.img == nil || c.A == 0 {
		return
	}
	b := r.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.blendPixel(x, y, c, 255)
		}
	}
}

// Line draws a thick segment as a quad. Segments shorter than their width
// become a square dot.
func (r *Raster) Line(x0, y0, x1, y1, width float32, c color.NRGBA) {
	if r.img == nil || c.A == 0 || width <= 0 {
		return
	}
	half := width / 2
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))

	var nx, ny, ex, ey float32
	if length < 1e-3 {
		nx, ny = 0, half
		ex, ey = half, 0
	} else {
		nx, ny = -dy/length*half, dx/length*half
	}

	pts := [4][2]float32{
		{x0 - ex + nx, y0 - ey + ny},
		{x1 + ex + nx, y1 + ey + ny},
		{x1 + ex - nx, y1 + ey - ny},
		{x0 - ex - nx, y0 - ey - ny},
	}
	r.fillPath(c, pts[:], nil)
}

// Ring strokes a circle outline centered on radius.
func (r *Raster) Ring(cx, cy, radius, thickness float32, c color.NRGBA) {
	if r.img == nil || c.A == 0 || radius <= 0 || thickness <= 0 {
		return
	}
	outer := circlePath(cx, cy, radius+thickness/2, false)
	var inner [][2]float32
	if in := radius - thickness/2; in > 0 {
		inner = circlePath(cx, cy, in, true)
	}
	r.fillPath(c, outer, inner)
}

// RadialGradient blends per pixel from inner at the center to outer at the rim.
func (r *Raster) RadialGradient(cx, cy, radius float32, inner, outer color.NRGBA) {
	if r.img == nil || radius <= 0 {
		return
	}
	rect := image.Rect(
		int(math.Floor(float64(cx-radius))), int(math.Floor(float64(cy-radius))),
		int(math.Ceil(float64(cx+radius))), int(math.Ceil(float64(cy+radius))),
	).Intersect(r.img.Bounds())

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dx := float32(x) + 0.5 - cx
			dy := float32(y) + 0.5 - cy
			d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			if d > radius {
				continue
			}
			t := d / radius
			c := color.NRGBA{
				R: lerp8(inner.R, outer.R, t),
				G: lerp8(inner.G, outer.G, t),
				B: lerp8(inner.B, outer.B, t),
				A: lerp8(inner.A, outer.A, t),
			}
			if c.A > 0 {
				r.blendPixel(x, y, c, 255)
			}
		}
	}
}

// circlePath approximates a circle with a polygon. Reversed paths wind the
// other way so they cut holes out of the accumulated coverage.
func circlePath(cx, cy, radius float32, reversed bool) [][2]float32 {
	n := int(radius / 2)
	if n < 16 {
		n = 16
	} else if n > 128 {
		n = 128
	}
	pts := make([][2]float32, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		if reversed {
			a = -a
		}
		pts[i] = [2]float32{
			cx + radius*float32(math.Cos(a)),
			cy + radius*float32(math.Sin(a)),
		}
	}
	return pts
}

// fillPath rasterizes the polygon (minus an optional hole) inside its
// bounding box and composites c through the coverage mask.
func (r *Raster) fillPath(c color.NRGBA, path, hole [][2]float32) {
	minX, minY := path[0][0], path[0][1]
	maxX, maxY := minX, minY
	for _, p := range path[1:] {
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minY, maxY = min(minY, p[1]), max(maxY, p[1])
	}

	box := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	)
	clip := box.Intersect(r.img.Bounds())
	if clip.Empty() {
		return
	}
	bw, bh := box.Dx(), box.Dy()
	ox, oy := float32(box.Min.X), float32(box.Min.Y)

	r.z.Reset(bw, bh)
	r.z.DrawOp = draw.Src
	addPolygon(&r.z, path, ox, oy)
	if hole != nil {
		addPolygon(&r.z, hole, ox, oy)
	}

	if cap(r.mask) < bw*bh {
		r.mask = make([]uint8, bw*bh)
	}
	mask := &image.Alpha{Pix: r.mask[:bw*bh], Stride: bw, Rect: image.Rect(0, 0, bw, bh)}
	r.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		row := (y - box.Min.Y) * bw
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if cov := mask.Pix[row+x-box.Min.X]; cov > 0 {
				r.blendPixel(x, y, c, cov)
			}
		}
	}
}

func addPolygon(z *vector.Rasterizer, pts [][2]float32, ox, oy float32) {
	z.MoveTo(pts[0][0]-ox, pts[0][1]-oy)
	for _, p := range pts[1:] {
		z.LineTo(p[0]-ox, p[1]-oy)
	}
	z.ClosePath()
}

// blendPixel composites c with the given coverage. The image stays opaque.
func (r *Raster) blendPixel(x, y int, c color.NRGBA, coverage uint8) {
	a := uint32(c.A) * uint32(coverage) / 255
	if a == 0 {
		return
	}
	i := r.img.PixOffset(x, y)
	p := r.img.Pix[i : i+4 : i+4]

	switch r.blend {
	case BlendAdditive:
		p[0] = addSat(p[0], uint32(c.R)*a/255)
		p[1] = addSat(p[1], uint32(c.G)*a/255)
		p[2] = addSat(p[2], uint32(c.B)*a/255)
	default:
		inv := 255 - a
		p[0] = uint8((uint32(p[0])*inv + uint32(c.R)*a) / 255)
		p[1] = uint8((uint32(p[1])*inv + uint32(c.G)*a) / 255)
		p[2] = uint8((uint32(p[2])*inv + uint32(c.B)*a) / 255)
	}
	p[3] = 255
}

func addSat(dst uint8, v uint32) uint8 {
	s := uint32(dst) + v
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func lerp8(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}
