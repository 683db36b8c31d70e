package decoder

import (
	"fmt"
	"strings"
)

const maxNearbyDistance = 5

// DetectionResultColumn holds one column's worth of codewords, indexed by
// image row within the column's bounding box.
type DetectionResultColumn struct {
	boundingBox *BoundingBox
	codewords   []*Codeword
}

// NewDetectionResultColumn creates a new DetectionResultColumn sized to span
// the full height of boundingBox.
func NewDetectionResultColumn(boundingBox *BoundingBox) *DetectionResultColumn {
	return &DetectionResultColumn{
		boundingBox: CopyBoundingBox(boundingBox),
		codewords:   make([]*Codeword, boundingBox.MaxY()-boundingBox.MinY()+1),
	}
}

// ImageRowToCodewordIndex converts an image row to a codeword index in this column.
func (col *DetectionResultColumn) ImageRowToCodewordIndex(imageRow int) int {
	return imageRow - col.boundingBox.MinY()
}

// SetCodeword sets the codeword at the given image row.
func (col *DetectionResultColumn) SetCodeword(imageRow int, codeword *Codeword) {
	col.codewords[col.ImageRowToCodewordIndex(imageRow)] = codeword
}

// Codeword returns the codeword at the given image row, or nil if none was read there.
func (col *DetectionResultColumn) Codeword(imageRow int) *Codeword {
	return col.codewords[col.ImageRowToCodewordIndex(imageRow)]
}

// CodewordNearby returns the codeword at imageRow, or the nearest codeword
// fewer than maxNearbyDistance rows above or below when that row itself is blank
// (a gap the detector could not resolve directly).
func (col *DetectionResultColumn) CodewordNearby(imageRow int) *Codeword {
	if codeword := col.Codeword(imageRow); codeword != nil {
		return codeword
	}
	center := col.ImageRowToCodewordIndex(imageRow)
	for i := 1; i < maxNearbyDistance; i++ {
		if idx := center - i; idx >= 0 {
			if codeword := col.codewords[idx]; codeword != nil {
				return codeword
			}
		}
		if idx := center + i; idx < len(col.codewords) {
			if codeword := col.codewords[idx]; codeword != nil {
				return codeword
			}
		}
	}
	return nil
}

// GetBoundingBox returns the bounding box of this column.
func (col *DetectionResultColumn) GetBoundingBox() *BoundingBox {
	return col.boundingBox
}

// Codewords returns the codeword array for this column.
func (col *DetectionResultColumn) Codewords() []*Codeword {
	return col.codewords
}

func (col *DetectionResultColumn) String() string {
	var sb strings.Builder
	for row, codeword := range col.codewords {
		if codeword == nil {
			fmt.Fprintf(&sb, "%3d:    |   \n", row)
		} else {
			fmt.Fprintf(&sb, "%3d: %3d|%3d\n", row, codeword.RowNumber(), codeword.Value())
		}
	}
	return sb.String()
}
