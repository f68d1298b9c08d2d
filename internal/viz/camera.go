package viz

import (
	"math"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// Camera projects a box of particles onto a canvas with a simple
// perspective. Rotations are applied about the box center.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 3, RotX: 0.4, RotY: -0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps a point given in box-normalized coordinates (the box spans
// [-0.5, 0.5] on each axis) to sub-pixel coordinates of a sw by sh canvas.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := float64(min(sw, sh))
	sx := int(rot.X*scale*minDim*0.8) + sw/2
	sy := int(-rot.Y*scale*minDim*0.8) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

var cubeCorners = []dynamo.Vec3{
	{X: -0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: -0.5, Z: -0.5}, {X: 0.5, Y: 0.5, Z: -0.5}, {X: -0.5, Y: 0.5, Z: -0.5},
	{X: -0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: -0.5, Z: 0.5}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5},
}

var cubeEdges = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}

// RenderParticles clears c and draws the box outline and every particle.
// Particles are placed relative to the box [0, box) on each axis; a
// non-positive box fits the view to the particles instead.
func RenderParticles(c *Canvas, p dynamo.Particles, box float64, cam *Camera) {
	c.Clear()
	sw, sh := c.Width*2, c.Height*4

	for _, e := range cubeEdges {
		x1, y1, ok1 := cam.Project(cubeCorners[e[0]], sw, sh)
		x2, y2, ok2 := cam.Project(cubeCorners[e[1]], sw, sh)
		if ok1 || ok2 {
			c.DrawLine(x1, y1, x2, y2)
		}
	}

	if len(p) == 0 {
		return
	}
	origin, size := fitBox(p, box)
	for _, v := range p {
		n := v.Sub(origin).Scale(1 / size).Sub(dynamo.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
		if x, y, ok := cam.Project(n, sw, sh); ok {
			c.Set(x, y)
		}
	}
}

func fitBox(p dynamo.Particles, box float64) (dynamo.Vec3, float64) {
	if box > 0 {
		return dynamo.Vec3{}, box
	}
	lo, hi := p[0], p[0]
	for _, v := range p {
		lo = dynamo.Vec3{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = dynamo.Vec3{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	size := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))
	if size == 0 {
		size = 1
	}
	return lo, size
}
