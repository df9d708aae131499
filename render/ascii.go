package render

import (
	"strings"
	"time"

	"github.com/TFMV/graphwork/viewer"
)

// Node symbols by highlight role.
const (
	symbolNode     = 'o'
	symbolSelected = '@'
	symbolInbound  = '<'
	symbolOutbound = '>'
	symbolHovered  = '*'
	symbolEdge     = '.'
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the frame as ASCII art for terminal output"
}

// Render rasterizes screen positions onto a character grid. Nodes outside
// the visible canvas are not drawn.
func (r *ASCIIRenderer) Render(frame *viewer.Frame, options *OutputOptions) ([]byte, error) {
	w, h := dimensions(frame, options)
	width := max(int(w/10), 40)
	height := max(int(h/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for x := 0; x < width; x++ {
		grid[0][x], grid[height-1][x] = '-', '-'
	}
	for y := 0; y < height; y++ {
		grid[y][0], grid[y][width-1] = '|', '|'
	}
	grid[0][0], grid[0][width-1] = '+', '+'
	grid[height-1][0], grid[height-1][width-1] = '+', '+'

	cell := func(x, y float64) (int, int, bool) {
		cx := int(x*float64(width-2)/w) + 1
		cy := int(y*float64(height-2)/h) + 1
		return cx, cy, cx >= 1 && cx <= width-2 && cy >= 1 && cy <= height-2
	}

	for _, e := range frame.Edges {
		x1, y1, _ := cell(e.From.X, e.From.Y)
		x2, y2, _ := cell(e.To.X, e.To.Y)
		drawLine(grid, x1, y1, x2, y2)
	}

	roles := symbols(frame)
	for _, n := range frame.Nodes {
		x, y, ok := cell(n.Screen.X, n.Screen.Y)
		if !ok {
			continue
		}
		grid[y][x] = roles[n.ID]
		if options.ShowLabels && y+1 < height-1 {
			for i, c := range []rune(n.Label) {
				if x+i >= width-1 {
					break
				}
				grid[y+1][x+i] = c
			}
		}
	}

	if options.Timestamp && height > 4 {
		for i, c := range time.Now().Format("2006-01-02 15:04") {
			if i+2 >= width-1 {
				break
			}
			grid[height-2][i+2] = c
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// symbols assigns each node its highlight symbol with the same precedence
// as the fill colours.
func symbols(frame *viewer.Frame) map[string]rune {
	out := make(map[string]rune, len(frame.Nodes))
	for _, n := range frame.Nodes {
		out[n.ID] = symbolNode
	}
	sel := frame.State.Selected
	if sel != "" {
		for _, e := range frame.Edges {
			if e.Source == sel {
				out[e.Target] = symbolOutbound
			}
		}
		for _, e := range frame.Edges {
			if e.Target == sel {
				out[e.Source] = symbolInbound
			}
		}
	}
	if h := frame.State.Hovered; h != "" && h != sel {
		if _, ok := out[h]; ok {
			out[h] = symbolHovered
		}
	}
	if _, ok := out[sel]; ok {
		out[sel] = symbolSelected
	}
	return out
}

func isNodeSymbol(r rune) bool {
	switch r {
	case symbolNode, symbolSelected, symbolInbound, symbolOutbound, symbolHovered:
		return true
	}
	return false
}

// drawLine plots a clipped Bresenham line without overwriting nodes.
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 >= x2 {
		sx = -1
	}
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 1 && y1 < len(grid)-1 && x1 >= 1 && x1 < len(grid[0])-1 && !isNodeSymbol(grid[y1][x1]) {
			grid[y1][x1] = symbolEdge
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
