package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	restColor       = colorful.Color{R: 0.92, G: 0.92, B: 0.88}
	stretchedColor  = mustHex("#e4572e")
	compressedColor = mustHex("#3a86ff")
)

// StrainLimit is the strain mapped to the saturated end of the colour ramp.
const StrainLimit = 0.05

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Strain of a link currently length long with rest length rest.
func Strain(length, rest float64) float64 {
	if rest == 0 {
		return 0
	}
	return (length - rest) / rest
}

// StrainColor blends from the rest colour towards red for stretched links and
// towards blue for compressed ones, saturating at StrainLimit.
func StrainColor(strain float64) colorful.Color {
	t := math.Min(math.Abs(strain)/StrainLimit, 1)
	if strain < 0 {
		return restColor.BlendLab(compressedColor, t).Clamped()
	}
	return restColor.BlendLab(stretchedColor, t).Clamped()
}

// Shade darkens c by depth so nearer proxies stand out. near and far bound
// the depth range of the scene.
func Shade(c colorful.Color, depth, near, far float64) colorful.Color {
	if far <= near {
		return c
	}
	t := (depth - near) / (far - near)
	t = math.Max(0, math.Min(1, t))

	h, s, v := c.Hsv()
	return colorful.Hsv(h, s, v*(1-0.45*t))
}
