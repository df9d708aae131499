package physics

import "math"

// maxQuadDepth bounds subdivision for points that are nearly coincident.
const maxQuadDepth = 32

type quad struct {
	x0, y0, x1, y1 float64
	children       [4]*quad
	points         []int

	count  int
	cx, cy float64
}

func (q *quad) isLeaf() bool {
	return q.children == [4]*quad{}
}

func (q *quad) contains(x, y float64) bool {
	return x >= q.x0 && x < q.x1 && y >= q.y0 && y < q.y1
}

type quadtree struct {
	root  *quad
	nodes []KinematicState
}

// build rebuilds the tree over the current node positions and accumulates
// each quad's body count and centroid.
func (t *quadtree) build(nodes []KinematicState) {
	t.nodes = nodes
	t.root = nil
	if len(nodes) == 0 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range nodes {
		minX = math.Min(minX, nodes[i].X)
		minY = math.Min(minY, nodes[i].Y)
		maxX = math.Max(maxX, nodes[i].X)
		maxY = math.Max(maxY, nodes[i].Y)
	}
	size := math.Max(maxX-minX, maxY-minY) + 1

	t.root = &quad{x0: minX, y0: minY, x1: minX + size, y1: minY + size}
	for i := range nodes {
		t.insert(t.root, i, 0)
	}
	t.accumulate(t.root)
}

func (t *quadtree) insert(q *quad, i, depth int) {
	if q.isLeaf() {
		if len(q.points) == 0 || depth >= maxQuadDepth || t.coincident(q.points[0], i) {
			q.points = append(q.points, i)
			return
		}
		existing := q.points
		q.points = nil
		for _, j := range existing {
			t.insert(q.child(t.nodes[j].X, t.nodes[j].Y), j, depth+1)
		}
	}
	t.insert(q.child(t.nodes[i].X, t.nodes[i].Y), i, depth+1)
}

func (t *quadtree) coincident(a, b int) bool {
	return t.nodes[a].X == t.nodes[b].X && t.nodes[a].Y == t.nodes[b].Y
}

// child returns the quadrant containing (x, y), creating it on demand.
func (q *quad) child(x, y float64) *quad {
	mx, my := (q.x0+q.x1)/2, (q.y0+q.y1)/2
	idx := 0
	if x >= mx {
		idx |= 1
	}
	if y >= my {
		idx |= 2
	}
	if q.children[idx] == nil {
		c := &quad{x0: q.x0, y0: q.y0, x1: mx, y1: my}
		if idx&1 != 0 {
			c.x0, c.x1 = mx, q.x1
		}
		if idx&2 != 0 {
			c.y0, c.y1 = my, q.y1
		}
		q.children[idx] = c
	}
	return q.children[idx]
}

func (t *quadtree) accumulate(q *quad) {
	if q.isLeaf() {
		q.count = len(q.points)
		var sx, sy float64
		for _, j := range q.points {
			sx += t.nodes[j].X
			sy += t.nodes[j].Y
		}
		if q.count > 0 {
			q.cx, q.cy = sx/float64(q.count), sy/float64(q.count)
		}
		return
	}

	var sx, sy float64
	q.count = 0
	for _, c := range q.children {
		if c == nil {
			continue
		}
		t.accumulate(c)
		q.count += c.count
		sx += c.cx * float64(c.count)
		sy += c.cy * float64(c.count)
	}
	if q.count > 0 {
		q.cx, q.cy = sx/float64(q.count), sy/float64(q.count)
	}
}
