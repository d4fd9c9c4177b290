package planner

import (
	"math/bits"

	"penarm/arm"
)

// Segment walks the integer points of a straight move without allocating.
//
// A move from A to B with step size s has n = floor(max(|Δx|,|Δy|)/s)
// interior points spaced evenly between the endpoints (truncated toward
// zero). A is produced only when includeStart is set, B is always
// produced, and a point equal to the one before it is skipped.
type Segment struct {
	from, to arm.Point
	steps    int64
	index    int64 // next position: 0 start, 1..steps interior, steps+1 end
	last     arm.Point
	hasLast  bool
}

// NewSegment prepares the points from one position to the next
func NewSegment(from, to arm.Point, stepSize int64, includeStart bool) Segment {
	s := Segment{from: from, to: to}
	if stepSize > 0 {
		s.steps = max(abs(to.X-from.X), abs(to.Y-from.Y)) / stepSize
	}
	if !includeStart {
		s.index = 1
		s.last = from
		s.hasLast = true
	}
	return s
}

// Next returns the following point, or false when the segment is done
func (s *Segment) Next() (arm.Point, bool) {
	for s.index <= s.steps+1 {
		p := s.at(s.index)
		s.index++
		if s.hasLast && p == s.last {
			continue
		}
		s.last = p
		s.hasLast = true
		return p, true
	}
	return arm.Point{}, false
}

// Done reports whether every point has been produced
func (s *Segment) Done() bool {
	return s.index > s.steps+1
}

// Steps returns the number of interior points
func (s *Segment) Steps() int64 {
	return s.steps
}

func (s *Segment) at(i int64) arm.Point {
	switch {
	case i == 0:
		return s.from
	case i > s.steps:
		return s.to
	}
	n := s.steps + 1
	return arm.Point{
		X: lerp(s.from.X, s.to.X, i, n),
		Y: lerp(s.from.Y, s.to.Y, i, n),
	}
}

// lerp returns from + (to-from)·i/n truncated toward zero. The product is
// taken in 128 bits so long moves with a small step cannot overflow.
func lerp(from, to, i, n int64) int64 {
	d := to - from
	hi, lo := bits.Mul64(uint64(abs(d)), uint64(i))
	q, _ := bits.Div64(hi, lo, uint64(n))
	if d < 0 {
		return from - int64(q)
	}
	return from + int64(q)
}

// Interpolate returns every point of the move from one position to the next
func Interpolate(from, to arm.Point, stepSize int64, includeStart bool) []arm.Point {
	seg := NewSegment(from, to, stepSize, includeStart)
	points := make([]arm.Point, 0, seg.Steps()+2)
	for {
		p, ok := seg.Next()
		if !ok {
			return points
		}
		points = append(points, p)
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
