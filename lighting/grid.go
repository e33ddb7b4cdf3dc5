package lighting

// Edge orientations used while tracing a grid outline. Merging only joins
// edges of the same orientation, so opposite faces of a one-cell-thick wall
// never collapse into each other.
const (
	edgeTop = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// gridEdge is one exposed cell edge, tagged with its orientation so the
// merge pass knows which axis it can grow along.
type gridEdge struct {
	orient int
	a, b   Point
}

type gridCoord struct {
	col, row int
}

// SegmentsFromGrid traces the occluding outline of a cell grid. blocked
// reports whether the cell at (col, row) blocks light; cells outside the
// grid are open. The returned segments follow the perimeter of each
// connected blocked region, with runs of adjacent colinear edges merged, so
// a wall of many cells casts from a few long segments instead of one per
// cell.
func SegmentsFromGrid(cols, rows int, cellSize float64, blocked func(col, row int) bool) []Segment {
	if cols <= 0 || rows <= 0 || cellSize <= 0 || blocked == nil {
		return nil
	}

	var segments []Segment
	for _, region := range blockedRegions(cols, rows, blocked) {
		edges := regionPerimeter(region, cellSize)
		edges = mergeColinearEdges(edges)
		for _, e := range edges {
			segments = append(segments, Segment{A: e.a, B: e.b})
		}
	}
	return segments
}

// blockedRegions finds every 4-connected region of blocked cells.
func blockedRegions(cols, rows int, blocked func(col, row int) bool) [][]gridCoord {
	visited := make(map[gridCoord]bool)
	var regions [][]gridCoord

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			start := gridCoord{col: col, row: row}
			if visited[start] || !blocked(col, row) {
				continue
			}
			regions = append(regions, floodFill(start, cols, rows, blocked, visited))
		}
	}
	return regions
}

// floodFill collects the connected blocked region containing start with a
// breadth-first walk over the 4-connected neighbors.
func floodFill(start gridCoord, cols, rows int, blocked func(col, row int) bool, visited map[gridCoord]bool) []gridCoord {
	var region []gridCoord
	queue := []gridCoord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		neighbors := [4]gridCoord{
			{col: current.col, row: current.row - 1},
			{col: current.col + 1, row: current.row},
			{col: current.col, row: current.row + 1},
			{col: current.col - 1, row: current.row},
		}
		for _, n := range neighbors {
			if n.col < 0 || n.col >= cols || n.row < 0 || n.row >= rows {
				continue
			}
			if visited[n] || !blocked(n.col, n.row) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return region
}

// regionPerimeter emits one edge for every cell face that borders an open
// cell. Edges run clockwise around the region so each face keeps a
// consistent direction for the merge pass.
func regionPerimeter(region []gridCoord, cellSize float64) []gridEdge {
	inRegion := make(map[gridCoord]bool, len(region))
	for _, c := range region {
		inRegion[c] = true
	}

	var edges []gridEdge
	for _, c := range region {
		left := float64(c.col) * cellSize
		top := float64(c.row) * cellSize
		right := left + cellSize
		bottom := top + cellSize

		if !inRegion[gridCoord{col: c.col, row: c.row - 1}] {
			edges = append(edges, gridEdge{
				orient: edgeTop,
				a:      Point{X: left, Y: top},
				b:      Point{X: right, Y: top},
			})
		}
		if !inRegion[gridCoord{col: c.col + 1, row: c.row}] {
			edges = append(edges, gridEdge{
				orient: edgeRight,
				a:      Point{X: right, Y: top},
				b:      Point{X: right, Y: bottom},
			})
		}
		if !inRegion[gridCoord{col: c.col, row: c.row + 1}] {
			edges = append(edges, gridEdge{
				orient: edgeBottom,
				a:      Point{X: right, Y: bottom},
				b:      Point{X: left, Y: bottom},
			})
		}
		if !inRegion[gridCoord{col: c.col - 1, row: c.row}] {
			edges = append(edges, gridEdge{
				orient: edgeLeft,
				a:      Point{X: left, Y: bottom},
				b:      Point{X: left, Y: top},
			})
		}
	}
	return edges
}

// mergeColinearEdges repeatedly joins edges that share an orientation, lie
// on the same grid line, and touch end to end, until no pair can grow any
// further.
func mergeColinearEdges(edges []gridEdge) []gridEdge {
	if len(edges) == 0 {
		return edges
	}

	merged := make([]bool, len(edges))
	var result []gridEdge

	for i := 0; i < len(edges); i++ {
		if merged[i] {
			continue
		}
		current := edges[i]
		merged[i] = true

		extended := true
		for extended {
			extended = false
			for j := 0; j < len(edges); j++ {
				if merged[j] {
					continue
				}
				if !canMergeEdges(current, edges[j]) {
					continue
				}
				current = mergeEdges(current, edges[j])
				merged[j] = true
				extended = true
				break
			}
		}
		result = append(result, current)
	}
	return result
}

// gridEpsilon absorbs float error when comparing edge coordinates that
// should land on the same grid line.
const gridEpsilon = 1e-9

// canMergeEdges reports whether two edges are colinear and adjacent.
func canMergeEdges(e1, e2 gridEdge) bool {
	if e1.orient != e2.orient {
		return false
	}
	switch e1.orient {
	case edgeTop, edgeBottom:
		if absFloat(e1.a.Y-e2.a.Y) > gridEpsilon {
			return false
		}
		return absFloat(e1.b.X-e2.a.X) < gridEpsilon || absFloat(e1.a.X-e2.b.X) < gridEpsilon
	default:
		if absFloat(e1.a.X-e2.a.X) > gridEpsilon {
			return false
		}
		return absFloat(e1.b.Y-e2.a.Y) < gridEpsilon || absFloat(e1.a.Y-e2.b.Y) < gridEpsilon
	}
}

// mergeEdges extends e1 to span e2 along the shared axis, keeping e1's
// direction.
func mergeEdges(e1, e2 gridEdge) gridEdge {
	result := e1
	switch e1.orient {
	case edgeTop, edgeBottom:
		lo := minFloat(e1.a.X, e1.b.X, e2.a.X, e2.b.X)
		hi := maxFloat(e1.a.X, e1.b.X, e2.a.X, e2.b.X)
		if e1.a.X <= e1.b.X {
			result.a.X, result.b.X = lo, hi
		} else {
			result.a.X, result.b.X = hi, lo
		}
	default:
		lo := minFloat(e1.a.Y, e1.b.Y, e2.a.Y, e2.b.Y)
		hi := maxFloat(e1.a.Y, e1.b.Y, e2.a.Y, e2.b.Y)
		if e1.a.Y <= e1.b.Y {
			result.a.Y, result.b.Y = lo, hi
		} else {
			result.a.Y, result.b.Y = hi, lo
		}
	}
	return result
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func minFloat(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxFloat(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
