package lighting

// EdgePool is a shared, ordered collection of occluding segments. Several
// lights can reference the same pool, and a pool can be edited while lights
// reference it; edits are picked up the next time a light casts.
//
// An empty pool is valid and lights referencing only empty pools cast to
// full range in every direction.
type EdgePool struct {
	segments []Segment
}

// NewEdgePool creates an empty edge pool.
func NewEdgePool() *EdgePool {
	return &EdgePool{}
}

// Add appends segments to the pool.
func (p *EdgePool) Add(segments ...Segment) {
	p.segments = append(p.segments, segments...)
}

// AddRect appends the four edges of an axis-aligned rectangle.
func (p *EdgePool) AddRect(x, y, width, height float64) {
	p.segments = append(p.segments, SegmentsFromRect(x, y, width, height)...)
}

// RemoveAt deletes the segment at index i, preserving the order of the
// rest. It panics if i is out of range.
func (p *EdgePool) RemoveAt(i int) {
	p.segments = append(p.segments[:i], p.segments[i+1:]...)
}

// Clear removes all segments.
func (p *EdgePool) Clear() {
	p.segments = p.segments[:0]
}

// Len returns the number of segments in the pool.
func (p *EdgePool) Len() int {
	return len(p.segments)
}

// Segments returns the pool's segments. The returned slice is the pool's
// backing store and must not be mutated by the caller.
func (p *EdgePool) Segments() []Segment {
	return p.segments
}
