// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Contains reports whether p lies inside or on the circle
func (c Circle) Contains(p Vector2D) bool {
	return PointInCircle(p, c.Center, c.Radius)
}

// AABB returns the circle's axis-aligned bounding box
func (c Circle) AABB() AABB {
	return CircleAABB(c.Center, c.Radius)
}

// AABB is an axis-aligned bounding box given by its min and max corners
type AABB struct {
	Min Vector2D
	Max Vector2D
}

// Intersects reports whether two boxes overlap; touching edges count
func (b AABB) Intersects(other AABB) bool {
	return AABBIntersect(b.Min, b.Max, other.Min, other.Max)
}

// Contains reports whether p lies inside the box or on its boundary
func (b AABB) Contains(p Vector2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Width returns the extent of the box along the x axis
func (b AABB) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the extent of the box along the y axis
func (b AABB) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// PointInCircle reports whether distance(p, center) <= radius.
func PointInCircle(p, center Vector2D, radius float64) bool {
	return p.DistanceSquared(center) <= radius*radius
}

// SegmentIntersectsCircle reports whether the segment p1-p2 touches the circle.
// Either endpoint inside is enough; otherwise the foot of the perpendicular
// from center onto the line must fall within the segment and lie within radius.
func SegmentIntersectsCircle(p1, p2, center Vector2D, radius float64) bool {
	if PointInCircle(p1, center, radius) || PointInCircle(p2, center, radius) {
		return true
	}

	seg := p2.Sub(p1)
	lenSq := seg.LengthSquared()
	if lenSq == 0 {
		return false
	}

	t := center.Sub(p1).Dot(seg) / lenSq
	foot := p1.Add(seg.Scale(t))

	// the foot is on the segment iff its squared distances to both ends
	// do not exceed the squared segment length in sum
	if foot.DistanceSquared(p1)+foot.DistanceSquared(p2) > lenSq {
		return false
	}
	return foot.DistanceSquared(center) <= radius*radius
}

// CircleAABB returns the bounding box of a circle.
func CircleAABB(center Vector2D, radius float64) AABB {
	return AABB{
		Min: Vector2D{X: center.X - radius, Y: center.Y - radius},
		Max: Vector2D{X: center.X + radius, Y: center.Y + radius},
	}
}

// TriangleAABB returns the bounding box of a triangle.
func TriangleAABB(p1, p2, p3 Vector2D) AABB {
	return AABB{
		Min: Vector2D{X: min(p1.X, p2.X, p3.X), Y: min(p1.Y, p2.Y, p3.Y)},
		Max: Vector2D{X: max(p1.X, p2.X, p3.X), Y: max(p1.Y, p2.Y, p3.Y)},
	}
}

// AABBIntersect is the separating-axis test for two boxes on both axes.
func AABBIntersect(aMin, aMax, bMin, bMax Vector2D) bool {
	return !(aMax.X < bMin.X || bMax.X < aMin.X ||
		aMax.Y < bMin.Y || bMax.Y < aMin.Y)
}
