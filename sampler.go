package murmur

import (
	"fmt"
	"image"
	_ "image/jpeg" // registered for LoadTargetReader
	_ "image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
)

// TargetSample is one morph destination: a world-space position with the
// color and brightness of the source pixel it came from. Immutable once
// computed.
type TargetSample struct {
	Position   Vec3
	Color      Color
	Brightness float64
}

// maxDecodeDim bounds the pixel count inspected during sampling. Larger
// images are downscaled first so thresholding cost stays fixed regardless
// of source size.
const maxDecodeDim = 256

// SampleImage converts a decoded image into target samples on the world
// plane. Transparent and near-white background pixels are discarded, the
// survivors are stride-sampled down to cfg.MaxSamples, and positions are
// mapped into area preserving the image's aspect ratio. The result may be
// empty for an image with no usable pixels; callers fall back to
// FallbackSamples in that case (Sim.LoadTargetImage does this automatically).
func SampleImage(img image.Image, area Rect, cfg *Config) []TargetSample {
	if img == nil {
		return nil
	}
	img = boundImage(img)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	type candidate struct {
		px, py int
		col    Color
		luma   float64
	}
	candidates := make([]candidate, 0, w*h/4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, al := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			a := float64(al) / 0xffff
			if a <= cfg.AlphaThreshold {
				continue
			}
			// RGBA returns premultiplied components; un-premultiply so the
			// particle color matches the source pixel.
			col := Color{
				R: float64(r) / float64(al),
				G: float64(g) / float64(al),
				B: float64(bl) / float64(al),
				A: 1,
			}
			luma := luminance(col)
			if luma >= cfg.WhiteThreshold {
				continue
			}
			candidates = append(candidates, candidate{px: x, py: y, col: col, luma: luma})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	stride := 1
	if cfg.MaxSamples > 0 && len(candidates) > cfg.MaxSamples {
		stride = (len(candidates) + cfg.MaxSamples - 1) / cfg.MaxSamples
	}

	// Aspect-preserving fit of the image into the display area, centered.
	scale := math.Min(area.Width/float64(w), area.Height/float64(h))
	imgW := float64(w) * scale
	imgH := float64(h) * scale
	originX := area.X + (area.Width-imgW)/2
	originY := area.Y + (area.Height-imgH)/2

	samples := make([]TargetSample, 0, len(candidates)/stride+1)
	for i := 0; i < len(candidates); i += stride {
		c := candidates[i]
		samples = append(samples, TargetSample{
			Position: Vec3{
				X: originX + (float64(c.px)+0.5)*scale,
				// Image rows grow downward, world Y grows upward.
				Y: originY + imgH - (float64(c.py)+0.5)*scale,
			},
			Color:      c.col,
			Brightness: c.luma,
		})
	}
	return samples
}

// boundImage downscales img so neither dimension exceeds maxDecodeDim.
func boundImage(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDecodeDim && h <= maxDecodeDim {
		return img
	}
	scale := float64(maxDecodeDim) / float64(max(w, h))
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// luminance is the Rec. 601 luma of a color, in [0, 1].
func luminance(c Color) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// FallbackSamples produces the deterministic procedural sample set used
// when no image is available or decoding fails: a golden-angle spiral
// filling the display area with a soft two-tone gradient. Never empty for
// count > 0, and every sample lies inside area.
func FallbackSamples(area Rect, count int, seed uint64) []TargetSample {
	if count <= 0 {
		count = 1
	}
	const golden = 2.39996322972865332 // golden angle in radians
	cx := area.X + area.Width/2
	cy := area.Y + area.Height/2
	maxR := math.Min(area.Width, area.Height) / 2

	inner := Color{R: 0.95, G: 0.62, B: 0.25, A: 1}
	outer := Color{R: 0.25, G: 0.3, B: 0.55, A: 1}

	salt := float64(seed%977) * 0.013
	samples := make([]TargetSample, count)
	for i := range samples {
		t := float64(i) / float64(count)
		r := maxR * math.Sqrt(t)
		ang := float64(i)*golden + salt
		col := inner.Lerp(outer, t)
		samples[i] = TargetSample{
			Position: Vec3{
				X: cx + r*math.Cos(ang),
				Y: cy + r*math.Sin(ang),
			},
			Color:      col,
			Brightness: luminance(col),
		}
	}
	return samples
}

// LoadTargetSamples decodes an image stream and samples it. On decode
// failure it returns the fallback set along with the wrapped error, so the
// caller can log the degradation but never stalls on it.
func LoadTargetSamples(r io.Reader, area Rect, cfg *Config) ([]TargetSample, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return FallbackSamples(area, cfg.FallbackSamples, cfg.Seed),
			fmt.Errorf("decode target image: %w", err)
	}
	samples := SampleImage(img, area, cfg)
	if len(samples) == 0 {
		return FallbackSamples(area, cfg.FallbackSamples, cfg.Seed), nil
	}
	return samples, nil
}
