package decoder

import "fmt"

const barcodeRowUnknown = -1

// Codeword is a single decoded PDF417 symbol column entry: its pixel span,
// cluster bucket (0, 3, or 6, the sub-cluster within a row triple), raw
// decoded value, and the row it's been assigned to once known.
type Codeword struct {
	startX    int
	endX      int
	bucket    int
	value     int
	rowNumber int
}

// NewCodeword creates a new Codeword with no row number assigned yet.
func NewCodeword(startX, endX, bucket, value int) *Codeword {
	return &Codeword{startX: startX, endX: endX, bucket: bucket, value: value, rowNumber: barcodeRowUnknown}
}

func (c *Codeword) StartX() int { return c.startX }
func (c *Codeword) EndX() int   { return c.endX }
func (c *Codeword) Bucket() int { return c.bucket }
func (c *Codeword) Value() int  { return c.value }
func (c *Codeword) Width() int  { return c.endX - c.startX }

// RowNumber returns the assigned row number, or barcodeRowUnknown if none
// has been assigned.
func (c *Codeword) RowNumber() int { return c.rowNumber }

// SetRowNumber directly assigns this codeword's row number.
func (c *Codeword) SetRowNumber(rowNumber int) { c.rowNumber = rowNumber }

// SetRowNumberAsRowIndicatorColumn derives the row number from this
// codeword's value and bucket, the formula row indicator columns (rather
// than data columns) use to self-identify their row.
func (c *Codeword) SetRowNumberAsRowIndicatorColumn() {
	c.rowNumber = (c.value/30)*3 + c.bucket/3
}

// HasValidRowNumber reports whether the currently assigned row number is
// consistent with this codeword's bucket.
func (c *Codeword) HasValidRowNumber() bool {
	return c.IsValidRowNumber(c.rowNumber)
}

// IsValidRowNumber reports whether rowNumber is consistent with this
// codeword's bucket: a row's bucket cycles through 0, 3, 6 every three rows.
func (c *Codeword) IsValidRowNumber(rowNumber int) bool {
	return rowNumber != barcodeRowUnknown && c.bucket == (rowNumber%3)*3
}

func (c *Codeword) String() string {
	return fmt.Sprintf("%d|%d", c.rowNumber, c.value)
}
