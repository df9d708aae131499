package physics

import "math"

// applyLinks pulls the endpoints of every link toward LinkDistance. Each
// endpoint moves in proportion to the other endpoint's share of the degree
// so that hubs move less than leaves.
func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		src := &s.nodes[l.source]
		dst := &s.nodes[l.target]

		dx := dst.X + dst.VX - src.X - src.VX
		dy := dst.Y + dst.VY - src.Y - src.VY
		if dx == 0 {
			dx = s.nextJiggle()
		}
		if dy == 0 {
			dy = s.nextJiggle()
		}

		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			continue
		}
		k := (dist - s.cfg.LinkDistance) / dist * s.alpha * l.strength
		dx *= k
		dy *= k

		dst.VX -= dx * l.bias
		dst.VY -= dy * l.bias
		src.VX += dx * (1 - l.bias)
		src.VY += dy * (1 - l.bias)
	}
}

// applyManyBody applies pairwise repulsion using a Barnes-Hut quadtree.
func (s *Simulation) applyManyBody() {
	if len(s.nodes) < 2 || s.cfg.ManyBodyStrength == 0 {
		return
	}
	s.tree.build(s.nodes)

	theta2 := s.cfg.Theta * s.cfg.Theta
	for i := range s.nodes {
		s.visit(s.tree.root, i, theta2)
	}
}

func (s *Simulation) visit(q *quad, i int, theta2 float64) {
	if q == nil || q.count == 0 {
		return
	}
	n := &s.nodes[i]
	strength := s.cfg.ManyBodyStrength * s.alpha

	if !q.isLeaf() {
		dx := q.cx - n.X
		dy := q.cy - n.Y
		l := dx*dx + dy*dy
		w := q.x1 - q.x0
		if w*w/theta2 < l && !q.contains(n.X, n.Y) {
			l = math.Max(l, s.cfg.DistanceMin2)
			f := strength * float64(q.count) / l
			n.VX += dx * f
			n.VY += dy * f
			return
		}
		for _, c := range q.children {
			s.visit(c, i, theta2)
		}
		return
	}

	for _, j := range q.points {
		if j == i {
			continue
		}
		dx := s.nodes[j].X - n.X
		dy := s.nodes[j].Y - n.Y
		if dx == 0 {
			dx = s.nextJiggle()
		}
		if dy == 0 {
			dy = s.nextJiggle()
		}
		l := math.Max(dx*dx+dy*dy, s.cfg.DistanceMin2)
		f := strength / l
		n.VX += dx * f
		n.VY += dy * f
	}
}

// applyCenter translates every node so the centroid moves toward the canvas
// centre.
func (s *Simulation) applyCenter() {
	if len(s.nodes) == 0 || s.cfg.CenterStrength == 0 {
		return
	}
	var sx, sy float64
	for i := range s.nodes {
		sx += s.nodes[i].X
		sy += s.nodes[i].Y
	}
	count := float64(len(s.nodes))
	sx = (sx/count - s.cfg.Width/2) * s.cfg.CenterStrength
	sy = (sy/count - s.cfg.Height/2) * s.cfg.CenterStrength
	for i := range s.nodes {
		s.nodes[i].X -= sx
		s.nodes[i].Y -= sy
	}
}
