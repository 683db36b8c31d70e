// Package transform provides geometric transformation utilities for barcode detection.
package transform

// PerspectiveTransform maps homogeneous 2-D points through a 3x3 matrix:
// row 0 produces the transformed x, row 1 the transformed y, row 2 the
// homogeneous divisor, each as a dot product with (x, y, 1).
type PerspectiveTransform struct {
	m [3][3]float64
}

func newPerspectiveTransform(row0, row1, row2 [3]float64) *PerspectiveTransform {
	return &PerspectiveTransform{m: [3][3]float64{row0, row1, row2}}
}

// QuadrilateralToQuadrilateral computes the transform from one quadrilateral to another.
func QuadrilateralToQuadrilateral(
	x0, y0, x1, y1, x2, y2, x3, y3 float64,
	x0p, y0p, x1p, y1p, x2p, y2p, x3p, y3p float64,
) *PerspectiveTransform {
	qToS := QuadrilateralToSquare(x0, y0, x1, y1, x2, y2, x3, y3)
	sToQ := SquareToQuadrilateral(x0p, y0p, x1p, y1p, x2p, y2p, x3p, y3p)
	return sToQ.Times(qToS)
}

// TransformPoints transforms pairs of (x, y) coordinates in-place.
// points must have even length: [x0, y0, x1, y1, ...].
func (pt *PerspectiveTransform) TransformPoints(points []float64) {
	maxI := len(points) - 1
	for i := 0; i < maxI; i += 2 {
		x, y := points[i], points[i+1]
		px, py := pt.apply(x, y)
		points[i], points[i+1] = px, py
	}
}

// TransformPointsSeparate transforms separate x and y coordinate arrays.
func (pt *PerspectiveTransform) TransformPointsSeparate(xValues, yValues []float64) {
	for i := range xValues {
		xValues[i], yValues[i] = pt.apply(xValues[i], yValues[i])
	}
}

func (pt *PerspectiveTransform) apply(x, y float64) (float64, float64) {
	row := pt.m
	denominator := row[2][0]*x + row[2][1]*y + row[2][2]
	return (row[0][0]*x + row[0][1]*y + row[0][2]) / denominator,
		(row[1][0]*x + row[1][1]*y + row[1][2]) / denominator
}

// SquareToQuadrilateral computes the transform from the unit square to a quadrilateral.
func SquareToQuadrilateral(x0, y0, x1, y1, x2, y2, x3, y3 float64) *PerspectiveTransform {
	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		return newPerspectiveTransform(
			[3]float64{x1 - x0, x2 - x1, x0},
			[3]float64{y1 - y0, y2 - y1, y0},
			[3]float64{0, 0, 1},
		)
	}
	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	denominator := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / denominator
	a23 := (dx1*dy3 - dx3*dy1) / denominator
	return newPerspectiveTransform(
		[3]float64{x1 - x0 + a13*x1, x3 - x0 + a23*x3, x0},
		[3]float64{y1 - y0 + a13*y1, y3 - y0 + a23*y3, y0},
		[3]float64{a13, a23, 1},
	)
}

// QuadrilateralToSquare computes the transform from a quadrilateral to the unit square.
func QuadrilateralToSquare(x0, y0, x1, y1, x2, y2, x3, y3 float64) *PerspectiveTransform {
	return SquareToQuadrilateral(x0, y0, x1, y1, x2, y2, x3, y3).BuildAdjoint()
}

// BuildAdjoint returns the adjugate of pt's matrix: for a homogeneous
// transform, the adjugate is itself a valid homogeneous transform for the
// inverse mapping, cheaper to compute than a true inverse since the common
// determinant divisor cancels out of every downstream ratio.
func (pt *PerspectiveTransform) BuildAdjoint() *PerspectiveTransform {
	m := pt.m
	return newPerspectiveTransform(
		[3]float64{
			m[1][1]*m[2][2] - m[2][1]*m[1][2],
			m[2][1]*m[0][2] - m[0][1]*m[2][2],
			m[0][1]*m[1][2] - m[1][1]*m[0][2],
		},
		[3]float64{
			m[2][0]*m[1][2] - m[1][0]*m[2][2],
			m[0][0]*m[2][2] - m[2][0]*m[0][2],
			m[1][0]*m[0][2] - m[0][0]*m[1][2],
		},
		[3]float64{
			m[1][0]*m[2][1] - m[2][0]*m[1][1],
			m[2][0]*m[0][1] - m[0][0]*m[2][1],
			m[0][0]*m[1][1] - m[1][0]*m[0][1],
		},
	)
}

// Times returns the matrix product pt*other, the transform equivalent to
// applying other first and then pt.
func (pt *PerspectiveTransform) Times(other *PerspectiveTransform) *PerspectiveTransform {
	a, b := pt.m, other.m
	var row [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			row[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return newPerspectiveTransform(row[0], row[1], row[2])
}
