package decoder

import (
	"math"

	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
)

// BoundingBox is the quadrilateral enclosing a detected PDF417 symbol within
// the source image, along with the axis-aligned extent it implies.
type BoundingBox struct {
	image       *bitutil.BitMatrix
	topLeft     rxing.ResultPoint
	bottomLeft  rxing.ResultPoint
	topRight    rxing.ResultPoint
	bottomRight rxing.ResultPoint
	minX        int
	maxX        int
	minY        int
	maxY        int
}

// NewBoundingBox builds a BoundingBox from its four corners. The
// topLeft/bottomLeft pair or the topRight/bottomRight pair (or both) must be
// non-nil; a missing side is inferred from the other side and the image's
// width.
func NewBoundingBox(image *bitutil.BitMatrix, topLeft, bottomLeft, topRight, bottomRight *rxing.ResultPoint) (*BoundingBox, error) {
	leftUnspecified := topLeft == nil || bottomLeft == nil
	rightUnspecified := topRight == nil || bottomRight == nil
	if leftUnspecified && rightUnspecified {
		return nil, rxing.ErrNotFound
	}

	var tl, bl, tr, br rxing.ResultPoint
	switch {
	case leftUnspecified:
		tl = rxing.ResultPoint{X: 0, Y: topRight.Y}
		bl = rxing.ResultPoint{X: 0, Y: bottomRight.Y}
		tr, br = *topRight, *bottomRight
	case rightUnspecified:
		tl, bl = *topLeft, *bottomLeft
		rightEdge := float64(image.Width() - 1)
		tr = rxing.ResultPoint{X: rightEdge, Y: topLeft.Y}
		br = rxing.ResultPoint{X: rightEdge, Y: bottomLeft.Y}
	default:
		tl, bl, tr, br = *topLeft, *bottomLeft, *topRight, *bottomRight
	}

	return &BoundingBox{
		image:       image,
		topLeft:     tl,
		bottomLeft:  bl,
		topRight:    tr,
		bottomRight: br,
		minX:        int(math.Min(tl.X, bl.X)),
		maxX:        int(math.Max(tr.X, br.X)),
		minY:        int(math.Min(tl.Y, tr.Y)),
		maxY:        int(math.Max(bl.Y, br.Y)),
	}, nil
}

// CopyBoundingBox returns a shallow copy of bb.
func CopyBoundingBox(bb *BoundingBox) *BoundingBox {
	cp := *bb
	return &cp
}

// MergeBoundingBoxes joins a left and right detection into one box spanning
// the left box's left edge and the right box's right edge. A nil side
// returns the other box unchanged.
func MergeBoundingBoxes(leftBox, rightBox *BoundingBox) (*BoundingBox, error) {
	if leftBox == nil {
		return rightBox, nil
	}
	if rightBox == nil {
		return leftBox, nil
	}
	return NewBoundingBox(leftBox.image, &leftBox.topLeft, &leftBox.bottomLeft, &rightBox.topRight, &rightBox.bottomRight)
}

// AddMissingRows extends the bounding box by missingStartRows at the top and
// missingEndRows at the bottom, on whichever side isLeft selects, clamped to
// the source image's height.
func (bb *BoundingBox) AddMissingRows(missingStartRows, missingEndRows int, isLeft bool) (*BoundingBox, error) {
	newTopLeft, newBottomLeft := bb.topLeft, bb.bottomLeft
	newTopRight, newBottomRight := bb.topRight, bb.bottomRight

	if missingStartRows > 0 {
		top := bb.topRight
		if isLeft {
			top = bb.topLeft
		}
		newMinY := int(top.Y) - missingStartRows
		if newMinY < 0 {
			newMinY = 0
		}
		newTop := rxing.ResultPoint{X: top.X, Y: float64(newMinY)}
		if isLeft {
			newTopLeft = newTop
		} else {
			newTopRight = newTop
		}
	}

	if missingEndRows > 0 {
		bottom := bb.bottomRight
		if isLeft {
			bottom = bb.bottomLeft
		}
		newMaxY := int(bottom.Y) + missingEndRows
		if newMaxY >= bb.image.Height() {
			newMaxY = bb.image.Height() - 1
		}
		newBottom := rxing.ResultPoint{X: bottom.X, Y: float64(newMaxY)}
		if isLeft {
			newBottomLeft = newBottom
		} else {
			newBottomRight = newBottom
		}
	}

	return NewBoundingBox(bb.image, &newTopLeft, &newBottomLeft, &newTopRight, &newBottomRight)
}

func (bb *BoundingBox) MinX() int { return bb.minX }
func (bb *BoundingBox) MaxX() int { return bb.maxX }
func (bb *BoundingBox) MinY() int { return bb.minY }
func (bb *BoundingBox) MaxY() int { return bb.maxY }

func (bb *BoundingBox) TopLeft() rxing.ResultPoint     { return bb.topLeft }
func (bb *BoundingBox) TopRight() rxing.ResultPoint    { return bb.topRight }
func (bb *BoundingBox) BottomLeft() rxing.ResultPoint  { return bb.bottomLeft }
func (bb *BoundingBox) BottomRight() rxing.ResultPoint { return bb.bottomRight }
