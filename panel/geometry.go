package panel

import (
	"math"

	"github.com/mossvale/scrollwall/rect"
)

// Mat4 is a column-major 4x4 matrix, matching the layout GPU uniform
// buffers expect.
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func mul(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

func translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

func scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// PosMatrix computes the geometry→clip-space matrix (spec §4.4.3):
// translate(-1+sx+2ox, 1-sy-2oy, 0) · scale(sx, -sy, 1), where (sx,sy)
// is the geometry size over the surface size and (ox,oy) its position
// over the surface size. Y is flipped to match a top-left pixel
// origin.
func PosMatrix(geom rect.Rect, surfaceW, surfaceH uint32) Mat4 {
	sx := float32(geom.Width) / float32(surfaceW)
	sy := float32(geom.Height) / float32(surfaceH)
	ox := float32(geom.X) / float32(surfaceW)
	oy := float32(geom.Y) / float32(surfaceH)

	t := translate(-1+sx+2*ox, 1-sy-2*oy, 0)
	s := scale(sx, -sy, 1)
	return mul(t, s)
}

// ImageRatio returns the (x, y) scale factors that preserve an image's
// aspect ratio inside a geometry, choosing the larger axis to extend:
// when the image is wider than the panel, x slides; when taller, y
// slides.
func ImageRatio(imgW, imgH, geomW, geomH uint32) (float64, float64) {
	imgAspect := float64(imgW) / float64(imgH)
	geomAspect := float64(geomW) / float64(geomH)

	if imgAspect > geomAspect {
		return geomAspect / imgAspect, 1
	}
	return 1, imgAspect / geomAspect
}

// SlidingAxisRatio returns whichever of the two ImageRatio components
// is less than 1 — the axis that slides during scroll — or 1 if the
// aspect ratios match exactly (no sliding).
func SlidingAxisRatio(rx, ry float64) float64 {
	if rx < ry {
		return rx
	}
	return ry
}

// ScrollOffset returns progress·(1-ratioAxis), optionally negated when
// swapDir is set (spec §4.4.3).
func ScrollOffset(progress, ratioAxis float64, swapDir bool) float64 {
	offset := progress * (1 - ratioAxis)
	if swapDir {
		return -offset
	}
	return offset
}

// ParallaxScaleOffset computes the parallax scale and cursor-relative
// offset described in spec §4.4.3: the image is first scaled down by
// parallaxRatio about the geometry center (the returned scale), then
// the cursor's position relative to the geometry center is normalized,
// given a signed-exponent falloff (so the effect is weaker near the
// center), stretched to match the image's aspect ratio, clamped to
// ±0.5 on each axis, optionally reversed, and finally scaled by
// (1 - parallaxRatio).
func ParallaxScaleOffset(cursorX, cursorY, centerX, centerY, geomW, geomH, ratioX, ratioY, parallaxRatio, parallaxExp float64, reverse bool) (scaleX, scaleY, offsetX, offsetY float64) {
	dx := 2 * (cursorX - centerX) / geomW
	dy := 2 * (cursorY - centerY) / geomH

	dx = signedPow(dx, parallaxExp)
	dy = signedPow(dy, parallaxExp)

	dx = clampSigned(dx*ratioX, 0.5)
	dy = clampSigned(dy*ratioY, 0.5)

	if reverse {
		dx, dy = -dx, -dy
	}

	return parallaxRatio, parallaxRatio, dx * (1 - parallaxRatio), dy * (1 - parallaxRatio)
}

// signedPow raises the magnitude of x to exp while preserving its
// sign, so the parallax falloff is symmetric around zero.
func signedPow(x, exp float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	return sign * math.Pow(math.Abs(x), exp)
}

func clampSigned(x, limit float64) float64 {
	if x > limit {
		return limit
	}
	if x < -limit {
		return -limit
	}
	return x
}
