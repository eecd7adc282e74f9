package tui

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws particle positions onto a plain ANSI canvas,
// projecting the x-z plane. Frames are rate-limited so the render cost
// stays negligible next to the solver.
type LiveRenderer struct {
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	trail     []struct{ x, y int }

	// view window, grown to fit but never shrunk so the view stays calm
	xMin, xMax float64
	zMin, zMax float64
}

func NewLiveRenderer(frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		frameRate: frameRate,
		canvas:    canvas,
		trail:     make([]struct{ x, y int }, 0, 50),
		xMin:      -1, xMax: 1,
		zMin: -1, zMax: 1,
	}
}

func (r *LiveRenderer) OnStep(pos, radii []float64, t float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.grow(pos, radii)
	r.clear()

	n := len(radii)
	maxR := 0.0
	for _, a := range radii {
		if a > maxR {
			maxR = a
		}
	}

	for p := 0; p < n; p++ {
		cx, cy := r.project(pos[3*p], pos[3*p+2])
		c := 'o'
		if maxR > 0 && radii[p] >= 0.75*maxR {
			c = 'O'
		}
		if p == 0 {
			r.trail = append(r.trail, struct{ x, y int }{cx, cy})
			if len(r.trail) > 40 {
				r.trail = r.trail[1:]
			}
		}
		r.set(cx, cy, c)
	}

	for i, pt := range r.trail {
		if i < len(r.trail)/2 {
			r.set(pt.x, pt.y, '.')
		} else if r.canvas[clampY(pt.y)][clampX(pt.x)] == ' ' {
			r.set(pt.x, pt.y, '·')
		}
	}

	r.render(pos, t)
}

func (r *LiveRenderer) grow(pos, radii []float64) {
	for p := range radii {
		x, z := pos[3*p], pos[3*p+2]
		a := radii[p]
		r.xMin = math.Min(r.xMin, x-2*a)
		r.xMax = math.Max(r.xMax, x+2*a)
		r.zMin = math.Min(r.zMin, z-2*a)
		r.zMax = math.Max(r.zMax, z+2*a)
	}
}

func (r *LiveRenderer) project(x, z float64) (int, int) {
	px := int(float64(width-1) * (x - r.xMin) / (r.xMax - r.xMin))
	// screen y grows downward
	py := int(float64(height-1) * (r.zMax - z) / (r.zMax - r.zMin))
	return px, py
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func clampX(x int) int {
	if x < 0 {
		return 0
	}
	if x >= width {
		return width - 1
	}
	return x
}

func clampY(y int) int {
	if y < 0 {
		return 0
	}
	if y >= height {
		return height - 1
	}
	return y
}

func (r *LiveRenderer) render(pos []float64, t float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  x-z plane  t=%.3fs\n", t))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	posStr := "  "
	for p := 0; p < len(pos)/3 && p < 3; p++ {
		posStr += fmt.Sprintf("p%d=(%.2f %.2f %.2f) ", p, pos[3*p], pos[3*p+1], pos[3*p+2])
	}
	b.WriteString(posStr + "\n")

	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }
