package geom

import "math"

// epsilon is the tolerance used when comparing floating point geometry
// values across a translate/inverse-translate round trip.
const epsilon = 1e-9

// Point is a 2-D coordinate. Y grows downward, matching SVG's coordinate
// system.
type Point struct {
	X, Y float64
}

// Add returns p translated by the given delta.
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Size is a non-negative width/height pair.
type Size struct {
	W, H float64
}

// Valid reports whether both dimensions are non-negative.
func (s Size) Valid() bool {
	return s.W >= 0 && s.H >= 0
}

// Insets describes padding on each side of a rectangle. All fields are
// expected to be non-negative; callers that build one from user input
// should check with Valid.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns an Insets with the same value on all four sides.
func Uniform(v float64) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

// Valid reports whether all four sides are non-negative.
func (i Insets) Valid() bool {
	return i.Top >= 0 && i.Right >= 0 && i.Bottom >= 0 && i.Left >= 0
}

// HorizontalSum returns Left + Right.
func (i Insets) HorizontalSum() float64 {
	return i.Left + i.Right
}

// VerticalSum returns Top + Bottom.
func (i Insets) VerticalSum() float64 {
	return i.Top + i.Bottom
}

// Bounds is an axis-aligned bounding box. Min is always componentwise
// less than or equal to Max; width and height are always derivable as
// Max-Min and are therefore never negative for a validly constructed
// Bounds.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewBounds builds a Bounds from two corner points, normalizing the
// corners so Min <= Max on each axis.
func NewBounds(a, b Point) Bounds {
	return Bounds{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}

// FromCenterSize builds a Bounds centered at c with the given size.
func FromCenterSize(c Point, s Size) Bounds {
	return Bounds{
		MinX: c.X - s.W/2,
		MinY: c.Y - s.H/2,
		MaxX: c.X + s.W/2,
		MaxY: c.Y + s.H/2,
	}
}

// FromTopLeftSize builds a Bounds with its top-left corner at tl and the
// given size.
func FromTopLeftSize(tl Point, s Size) Bounds {
	return Bounds{
		MinX: tl.X,
		MinY: tl.Y,
		MaxX: tl.X + s.W,
		MaxY: tl.Y + s.H,
	}
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Size returns the Bounds' width and height as a Size.
func (b Bounds) Size() Size { return Size{W: b.Width(), H: b.Height()} }

// Center returns the midpoint of the Bounds.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// TopLeft returns the Bounds' minimum corner.
func (b Bounds) TopLeft() Point { return Point{X: b.MinX, Y: b.MinY} }

// Valid reports whether Min <= Max on both axes.
func (b Bounds) Valid() bool {
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

// Merge returns the smallest Bounds containing both b and o. Merge is
// commutative and associative: Merge(a, b) == Merge(b, a) and
// Merge(Merge(a, b), c) == Merge(a, Merge(b, c)).
func (b Bounds) Merge(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Contains reports whether o lies entirely within b.
func (b Bounds) Contains(o Bounds) bool {
	return b.MinX <= o.MinX && b.MinY <= o.MinY && b.MaxX >= o.MaxX && b.MaxY >= o.MaxY
}

// Translate shifts the Bounds by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{MinX: b.MinX + dx, MinY: b.MinY + dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// InverseTranslate shifts the Bounds by (-dx, -dy). For any Bounds b,
// b.Translate(dx, dy).InverseTranslate(dx, dy) equals b within epsilon.
func (b Bounds) InverseTranslate(dx, dy float64) Bounds {
	return b.Translate(-dx, -dy)
}

// Equal reports whether b and o are equal within the package's float
// tolerance.
func (b Bounds) Equal(o Bounds) bool {
	return math.Abs(b.MinX-o.MinX) < epsilon &&
		math.Abs(b.MinY-o.MinY) < epsilon &&
		math.Abs(b.MaxX-o.MaxX) < epsilon &&
		math.Abs(b.MaxY-o.MaxY) < epsilon
}

// AddPadding expands the Bounds outward by insets on each side.
func (b Bounds) AddPadding(i Insets) Bounds {
	return Bounds{
		MinX: b.MinX - i.Left,
		MinY: b.MinY - i.Top,
		MaxX: b.MaxX + i.Right,
		MaxY: b.MaxY + i.Bottom,
	}
}
