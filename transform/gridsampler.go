package transform

import (
	"errors"

	"github.com/rxing-core/rxing-sub004/bitutil"
)

// ErrNotFound is returned when sampling fails.
var ErrNotFound = errors.New("gridsampler: not found")

// GridSampler samples an image to reconstruct a barcode, accounting for
// perspective distortion.
type GridSampler interface {
	SampleGrid(image *bitutil.BitMatrix, dimensionX, dimensionY int,
		p1ToX, p1ToY, p2ToX, p2ToY, p3ToX, p3ToY, p4ToX, p4ToY float64,
		p1FromX, p1FromY, p2FromX, p2FromY, p3FromX, p3FromY, p4FromX, p4FromY float64,
	) (*bitutil.BitMatrix, error)

	SampleGridTransform(image *bitutil.BitMatrix, dimensionX, dimensionY int,
		transform *PerspectiveTransform,
	) (*bitutil.BitMatrix, error)
}

// DefaultGridSampler is the standard GridSampler implementation.
type DefaultGridSampler struct{}

// SampleGrid samples with explicit corner points.
func (s *DefaultGridSampler) SampleGrid(image *bitutil.BitMatrix, dimensionX, dimensionY int,
	p1ToX, p1ToY, p2ToX, p2ToY, p3ToX, p3ToY, p4ToX, p4ToY float64,
	p1FromX, p1FromY, p2FromX, p2FromY, p3FromX, p3FromY, p4FromX, p4FromY float64,
) (*bitutil.BitMatrix, error) {
	transform := QuadrilateralToQuadrilateral(
		p1ToX, p1ToY, p2ToX, p2ToY, p3ToX, p3ToY, p4ToX, p4ToY,
		p1FromX, p1FromY, p2FromX, p2FromY, p3FromX, p3FromY, p4FromX, p4FromY)
	return s.SampleGridTransform(image, dimensionX, dimensionY, transform)
}

// SampleGridTransform samples using a pre-computed transform: for each
// output cell it maps the cell center back through transform into image
// space and tests whether that source pixel is dark.
func (s *DefaultGridSampler) SampleGridTransform(image *bitutil.BitMatrix, dimensionX, dimensionY int,
	transform *PerspectiveTransform,
) (*bitutil.BitMatrix, error) {
	if dimensionX <= 0 || dimensionY <= 0 {
		return nil, ErrNotFound
	}
	bits := bitutil.NewBitMatrixWithSize(dimensionX, dimensionY)
	points := make([]float64, 2*dimensionX)
	for y := 0; y < dimensionY; y++ {
		rowCenterY := float64(y) + 0.5
		for x := 0; x < len(points); x += 2 {
			points[x] = float64(x/2) + 0.5
			points[x+1] = rowCenterY
		}
		transform.TransformPoints(points)
		if err := CheckAndNudgePoints(image, points); err != nil {
			return nil, err
		}
		for x := 0; x < len(points); x += 2 {
			ix, iy := int(points[x]), int(points[x+1])
			if ix < 0 || ix >= image.Width() || iy < 0 || iy >= image.Height() {
				return nil, ErrNotFound
			}
			if image.Get(ix, iy) {
				bits.Set(x/2, y)
			}
		}
	}
	return bits, nil
}

// CheckAndNudgePoints verifies every (x,y) pair in points lies within
// [-1,width] x [-1,height] and snaps any point sitting exactly on the
// outer -1/width/height boundary back onto the image (transform roundoff
// can place an otherwise-valid corner one unit outside). Anything further
// out is treated as a sampling failure. Scanned from both ends inward,
// stopping a direction's scan as soon as a pass finds nothing left to nudge,
// since a true out-of-range point beyond the nudged ones would already have
// failed the bounds check.
func CheckAndNudgePoints(image *bitutil.BitMatrix, points []float64) error {
	width, height := image.Width(), image.Height()

	for offset := 0; offset < len(points)-1; offset += 2 {
		ok, nudged := nudgePoint(points, offset, width, height)
		if !ok {
			return ErrNotFound
		}
		if !nudged {
			break
		}
	}
	for offset := len(points) - 2; offset >= 0; offset -= 2 {
		ok, nudged := nudgePoint(points, offset, width, height)
		if !ok {
			return ErrNotFound
		}
		if !nudged {
			break
		}
	}
	return nil
}

// nudgePoint checks the point at points[offset:offset+2] and snaps it onto
// the image if it sits exactly one unit outside on either axis. ok is false
// if the point is out of range even after nudging; nudged reports whether
// either coordinate needed adjustment.
func nudgePoint(points []float64, offset, width, height int) (ok, nudged bool) {
	x, y := int(points[offset]), int(points[offset+1])
	if x < -1 || x > width || y < -1 || y > height {
		return false, false
	}
	switch x {
	case -1:
		points[offset] = 0
		nudged = true
	case width:
		points[offset] = float64(width - 1)
		nudged = true
	}
	switch y {
	case -1:
		points[offset+1] = 0
		nudged = true
	case height:
		points[offset+1] = float64(height - 1)
		nudged = true
	}
	return true, nudged
}
