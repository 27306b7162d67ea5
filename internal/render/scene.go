package render

import (
	"math"
	"sort"

	cloth "github.com/Alexander-r/cloth.go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// ProxyRadius is the world-space radius of the sphere drawn for each vertex.
const ProxyRadius = 0.25

// Source is the read-only view a viewer needs from a cloth.
type Source interface {
	GetPositions(dst []mgl64.Vec3) []mgl64.Vec3
	GetStretchConstraints() []cloth.PbdStretchConstraint
}

// Proxy is one projected vertex. Index is the vertex's arena index and never
// changes between frames.
type Proxy struct {
	Index  int
	X, Y   float64
	Depth  float64
	Radius float64
	Color  colorful.Color
}

// Link is one projected stretch constraint.
type Link struct {
	X1, Y1 float64
	X2, Y2 float64
	Depth  float64
	Strain float64
	Color  colorful.Color
}

// Scene is rebuilt every frame. Proxies and Links are sorted far to near so
// they can be painted in order.
type Scene struct {
	Proxies []Proxy
	Links   []Link

	MaxStrain float64

	positions []mgl64.Vec3
	visible   []bool
	proxyAt   []int
}

// Build projects src through cam into a width x height viewport, reusing the
// scene's storage. Vertices behind the camera are dropped along with their
// links.
func (s *Scene) Build(src Source, cam Camera, width, height float64) {
	s.positions = src.GetPositions(s.positions)
	s.Proxies = s.Proxies[:0]
	s.Links = s.Links[:0]
	s.MaxStrain = 0

	n := len(s.positions)
	if cap(s.visible) < n {
		s.visible = make([]bool, n)
		s.proxyAt = make([]int, n)
	}
	s.visible = s.visible[:n]
	s.proxyAt = s.proxyAt[:n]

	near, far := math.Inf(1), math.Inf(-1)
	for i, p := range s.positions {
		x, y, depth, ok := cam.Project(p, width, height)
		s.visible[i] = ok
		s.proxyAt[i] = -1
		if !ok {
			continue
		}

		s.proxyAt[i] = len(s.Proxies)
		s.Proxies = append(s.Proxies, Proxy{
			Index:  i,
			X:      x,
			Y:      y,
			Depth:  depth,
			Radius: ProxyRadius * cam.ScaleAt(depth),
		})
		near = math.Min(near, depth)
		far = math.Max(far, depth)
	}

	// A proxy takes the colour of its most strained link.
	vertexStrain := make([]float64, len(s.Proxies))
	for _, c := range src.GetStretchConstraints() {
		if !s.visible[c.I1] || !s.visible[c.I2] {
			continue
		}

		a := &s.Proxies[s.proxyAt[c.I1]]
		b := &s.Proxies[s.proxyAt[c.I2]]

		strain := Strain(s.positions[c.I1].Sub(s.positions[c.I2]).Len(), c.RestLength)
		s.MaxStrain = math.Max(s.MaxStrain, math.Abs(strain))

		for _, k := range []int{s.proxyAt[c.I1], s.proxyAt[c.I2]} {
			if math.Abs(strain) > math.Abs(vertexStrain[k]) {
				vertexStrain[k] = strain
			}
		}

		depth := (a.Depth + b.Depth) / 2
		s.Links = append(s.Links, Link{
			X1: a.X, Y1: a.Y,
			X2: b.X, Y2: b.Y,
			Depth:  depth,
			Strain: strain,
			Color:  Shade(StrainColor(strain), depth, near, far),
		})
	}

	for k := range s.Proxies {
		s.Proxies[k].Color = Shade(StrainColor(vertexStrain[k]), s.Proxies[k].Depth, near, far)
	}

	sort.SliceStable(s.Proxies, func(i, j int) bool { return s.Proxies[i].Depth > s.Proxies[j].Depth })
	sort.SliceStable(s.Links, func(i, j int) bool { return s.Links[i].Depth > s.Links[j].Depth })
}
