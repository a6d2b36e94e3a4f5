package preview

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"
)

// Canvas size of the schematic, matching the desktop preview pane.
const (
	CanvasWidth  = 900
	CanvasHeight = 320
)

const canvasBG = "#060f1a"

// viewport converts world coordinates to pixel coordinates, flipping the
// y axis so positive height points up.
type viewport struct {
	scene  *Scene
	w, h   int
	scaleX float64
	scaleY float64
}

func newViewport(s *Scene, w, h int) viewport {
	return viewport{
		scene:  s,
		w:      w,
		h:      h,
		scaleX: float64(w) / (s.MaxX - s.MinX),
		scaleY: float64(h) / (s.MaxY - s.MinY),
	}
}

func (v viewport) x(wx float64) int {
	return int((wx - v.scene.MinX) * v.scaleX)
}

func (v viewport) y(wy float64) int {
	return v.h - int((wy-v.scene.MinY)*v.scaleY)
}

// RenderSVG draws the scene as a standalone SVG document.
func RenderSVG(s *Scene) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(CanvasWidth, CanvasHeight)
	canvas.Rect(0, 0, CanvasWidth, CanvasHeight, "fill:"+canvasBG)

	vp := newViewport(s, CanvasWidth, CanvasHeight)

	// Ground line under the bearings.
	gy := vp.y(s.MinY * 0.8)
	canvas.Line(0, gy, CanvasWidth, gy, fmt.Sprintf("stroke:%s;stroke-width:1.5", groundColor))

	for _, l := range s.Lines {
		canvas.Line(vp.x(l.X1), vp.y(l.Y1), vp.x(l.X2), vp.y(l.Y2),
			fmt.Sprintf("stroke:%s;stroke-width:%.1f;stroke-linecap:round", l.Style.Color, l.Style.Width))
	}

	for _, n := range s.Nodes {
		canvas.Circle(vp.x(n.X), vp.y(n.Y), 4,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", nodeFill, nodeStroke))
	}

	// Support iconography: triangle on the left bearing, square on the
	// right, so the two end conditions read differently at a glance.
	lx, ly := vp.x(s.Left.X), vp.y(s.Left.Y)
	canvas.Polygon(
		[]int{lx, lx - 8, lx + 8},
		[]int{ly, ly + 14, ly + 14},
		"fill:"+leftSupport)
	rx, ry := vp.x(s.Right.X), vp.y(s.Right.Y)
	canvas.Rect(rx-7, ry+2, 14, 12, "fill:"+rightSupport)

	// Legend, top right.
	legendX := CanvasWidth - 130
	for i, entry := range s.Legend {
		y := 18 + i*18
		canvas.Rect(legendX, y-8, 12, 10, "fill:"+entry.Color)
		canvas.Text(legendX+18, y, entry.Label, "fill:#c9d8f0;font-size:11px;font-family:monospace")
	}

	canvas.Text(CanvasWidth/2, 18, s.Title,
		"fill:#f59e0b;font-size:13px;font-family:monospace;text-anchor:middle")

	canvas.End()
	return buf.String()
}
