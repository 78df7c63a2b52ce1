package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/tensegrity/internal/fabric"
)

// Camera orbits a target point and projects fabric coordinates onto a
// screen with a simple perspective divide.
type Camera struct {
	Target     mgl64.Vec3
	Yaw, Pitch float64
	Zoom       float64
	Distance   float64
	// Radius is the extent of what should fill the screen at zoom 1.
	Radius float64
}

func NewCamera() *Camera {
	return &Camera{Pitch: -0.3, Zoom: 1.0, Distance: 12, Radius: 3}
}

func (c *Camera) Orbit(yaw, pitch float64) {
	c.Yaw += yaw
	c.Pitch = mgl64.Clamp(c.Pitch+pitch, -math.Pi/2, math.Pi/2)
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Frame aims the camera at the centroid of the snapshot and sizes the
// view to its furthest joint.
func (c *Camera) Frame(snap *fabric.Snapshot) {
	if snap == nil || len(snap.Joints) == 0 {
		return
	}
	var sum mgl64.Vec3
	for _, p := range snap.Joints {
		sum = sum.Add(p)
	}
	c.Target = sum.Mul(1 / float64(len(snap.Joints)))
	radius := 0.0
	for _, p := range snap.Joints {
		radius = math.Max(radius, p.Sub(c.Target).Len())
	}
	if radius > 0 {
		c.Radius = radius
		c.Distance = radius * 4
	}
}

func (c *Camera) view() mgl64.Mat4 {
	rotation := mgl64.HomogRotate3DX(c.Pitch).Mul4(mgl64.HomogRotate3DY(c.Yaw))
	return rotation.Mul4(mgl64.Translate3D(-c.Target.X(), -c.Target.Y(), -c.Target.Z()))
}

// Project maps a world point to screen coordinates on a sw by sh surface.
// Depth grows away from the viewer; points behind the camera are not
// visible.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	return c.project(c.view(), p, sw, sh)
}

func (c *Camera) project(view mgl64.Mat4, p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	v := mgl64.TransformCoordinate(p, view)
	depth := c.Distance - v.Z()
	if depth <= 0.01 {
		return 0, 0, 0, false
	}
	perspective := c.Distance / depth
	pScale := float64(min(sw, sh)) / (2.2 * c.Radius) * c.Zoom
	sx := int(v.X()*perspective*pScale) + sw/2
	sy := int(-v.Y()*perspective*pScale) + sh/2
	return sx, sy, depth, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Segment is a projected interval.
type Segment struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Role           string
	Strain         float64
}

// ProjectSnapshot projects every interval of the snapshot, furthest first
// so a painter drawing in order leaves near intervals on top.
func ProjectSnapshot(snap *fabric.Snapshot, cam *Camera, sw, sh int) []Segment {
	if snap == nil || cam == nil {
		return nil
	}
	view := cam.view()
	segments := make([]Segment, 0, len(snap.Intervals))
	for _, in := range snap.Intervals {
		x1, y1, d1, v1 := cam.project(view, snap.Joints[in.Alpha], sw, sh)
		x2, y2, d2, v2 := cam.project(view, snap.Joints[in.Omega], sw, sh)
		if !v1 && !v2 {
			continue
		}
		segments = append(segments, Segment{x1, y1, x2, y2, (d1 + d2) / 2, in.Role, in.Strain})
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].Depth > segments[j].Depth })
	return segments
}

// RenderSnapshot draws the fabric onto the canvas. With pushesOnly set
// only the compression members are drawn.
func RenderSnapshot(c *Canvas, snap *fabric.Snapshot, cam *Camera, pushesOnly bool) {
	if c == nil {
		return
	}
	w, h := c.Dots()
	for _, s := range ProjectSnapshot(snap, cam, w, h) {
		if pushesOnly && s.Role != fabric.Push.String() {
			continue
		}
		c.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
	}
}
