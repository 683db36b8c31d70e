package decoder

import (
	"fmt"
	"strings"
)

const adjustRowNumberSkip = 2

// DetectionResultColumnI lets regular columns and row indicator columns be
// stored together in DetectionResult's column slice.
type DetectionResultColumnI interface {
	CodewordNearby(imageRow int) *Codeword
	ImageRowToCodewordIndex(imageRow int) int
	SetCodeword(imageRow int, codeword *Codeword)
	Codeword(imageRow int) *Codeword
	GetBoundingBox() *BoundingBox
	Codewords() []*Codeword
	String() string
}

// DetectionResult accumulates one barcode's worth of column scans — two row
// indicator columns flanking barcodeColumnCount data columns — and resolves
// each codeword's row number once every column has been read.
type DetectionResult struct {
	barcodeMetadata        *BarcodeMetadata
	detectionResultColumns []DetectionResultColumnI
	boundingBox            *BoundingBox
	barcodeColumnCount     int
}

// NewDetectionResult creates a new DetectionResult with room for the left
// and right row indicator columns plus the data columns barcodeMetadata reports.
func NewDetectionResult(barcodeMetadata *BarcodeMetadata, boundingBox *BoundingBox) *DetectionResult {
	return &DetectionResult{
		barcodeMetadata:        barcodeMetadata,
		barcodeColumnCount:     barcodeMetadata.ColumnCount(),
		boundingBox:            boundingBox,
		detectionResultColumns: make([]DetectionResultColumnI, barcodeMetadata.ColumnCount()+2),
	}
}

// GetDetectionResultColumns resolves row numbers across all columns,
// repeating the adjustment pass while it keeps reducing the count of
// codewords still missing a valid row number.
func (dr *DetectionResult) GetDetectionResultColumns() []DetectionResultColumnI {
	dr.adjustIndicatorColumnRowNumbers(dr.detectionResultColumns[0])
	dr.adjustIndicatorColumnRowNumbers(dr.detectionResultColumns[dr.barcodeColumnCount+1])

	unadjustedCodewordCount := maxCodewordsInBarcode
	for {
		previousUnadjustedCount := unadjustedCodewordCount
		unadjustedCodewordCount = dr.adjustRowNumbers()
		if unadjustedCodewordCount <= 0 || unadjustedCodewordCount >= previousUnadjustedCount {
			break
		}
	}
	return dr.detectionResultColumns
}

func (dr *DetectionResult) adjustIndicatorColumnRowNumbers(col DetectionResultColumnI) {
	if col == nil {
		return
	}
	if ric, ok := col.(*DetectionResultRowIndicatorColumn); ok && ric != nil {
		ric.AdjustCompleteIndicatorColumnRowNumbers(dr.barcodeMetadata)
	}
}

func (dr *DetectionResult) adjustRowNumbers() int {
	unadjustedCount := dr.adjustRowNumbersByRow()
	if unadjustedCount == 0 {
		return 0
	}
	for barcodeColumn := 1; barcodeColumn < dr.barcodeColumnCount+1; barcodeColumn++ {
		codewords := dr.detectionResultColumns[barcodeColumn].Codewords()
		for codewordsRow, codeword := range codewords {
			if codeword != nil && !codeword.HasValidRowNumber() {
				dr.adjustRowNumbersSingle(barcodeColumn, codewordsRow, codewords)
			}
		}
	}
	return unadjustedCount
}

func (dr *DetectionResult) adjustRowNumbersByRow() int {
	dr.adjustRowNumbersFromBothRI()
	return dr.adjustRowNumbersFromLRI() + dr.adjustRowNumbersFromRRI()
}

// adjustRowNumbersFromBothRI trusts a data row only when both row indicator
// columns already agree on its row number, clearing any codeword in that row
// whose own decode contradicts the agreed number.
func (dr *DetectionResult) adjustRowNumbersFromBothRI() {
	left := dr.detectionResultColumns[0]
	right := dr.detectionResultColumns[dr.barcodeColumnCount+1]
	if left == nil || right == nil {
		return
	}
	lriCodewords := left.Codewords()
	rriCodewords := right.Codewords()
	for row := range lriCodewords {
		l, r := lriCodewords[row], rriCodewords[row]
		if l == nil || r == nil || l.RowNumber() != r.RowNumber() {
			continue
		}
		for barcodeColumn := 1; barcodeColumn <= dr.barcodeColumnCount; barcodeColumn++ {
			codeword := dr.detectionResultColumns[barcodeColumn].Codewords()[row]
			if codeword == nil {
				continue
			}
			codeword.SetRowNumber(l.RowNumber())
			if !codeword.HasValidRowNumber() {
				dr.detectionResultColumns[barcodeColumn].Codewords()[row] = nil
			}
		}
	}
}

func (dr *DetectionResult) adjustRowNumbersFromRRI() int {
	if dr.detectionResultColumns[dr.barcodeColumnCount+1] == nil {
		return 0
	}
	// Walks from the right row indicator column itself back through every
	// data column down to (but excluding) the left row indicator column.
	columns := make([]int, 0, dr.barcodeColumnCount+1)
	for col := dr.barcodeColumnCount + 1; col > 0; col-- {
		columns = append(columns, col)
	}
	return dr.adjustRowNumbersFromIndicator(dr.detectionResultColumns[dr.barcodeColumnCount+1].Codewords(), columns)
}

func (dr *DetectionResult) adjustRowNumbersFromLRI() int {
	if dr.detectionResultColumns[0] == nil {
		return 0
	}
	// Walks through every data column, excluding both row indicator columns.
	columns := make([]int, 0, dr.barcodeColumnCount)
	for col := 1; col < dr.barcodeColumnCount+1; col++ {
		columns = append(columns, col)
	}
	return dr.adjustRowNumbersFromIndicator(dr.detectionResultColumns[0].Codewords(), columns)
}

// adjustRowNumbersFromIndicator propagates one row indicator column's row
// numbers across columns in the given order, stopping early once
// adjustRowNumberSkip consecutive columns fail to adopt the indicated row
// number.
func (dr *DetectionResult) adjustRowNumbersFromIndicator(indicatorCodewords []*Codeword, columns []int) int {
	unadjustedCount := 0
	for row, indicator := range indicatorCodewords {
		if indicator == nil {
			continue
		}
		rowIndicatorRowNumber := indicator.RowNumber()
		invalidRowCounts := 0
		for _, col := range columns {
			if invalidRowCounts >= adjustRowNumberSkip {
				break
			}
			codeword := dr.detectionResultColumns[col].Codewords()[row]
			if codeword == nil {
				continue
			}
			invalidRowCounts = adjustRowNumberIfValid(rowIndicatorRowNumber, invalidRowCounts, codeword)
			if !codeword.HasValidRowNumber() {
				unadjustedCount++
			}
		}
	}
	return unadjustedCount
}

func adjustRowNumberIfValid(rowIndicatorRowNumber, invalidRowCounts int, codeword *Codeword) int {
	if codeword == nil {
		return invalidRowCounts
	}
	if !codeword.HasValidRowNumber() {
		if codeword.IsValidRowNumber(rowIndicatorRowNumber) {
			codeword.SetRowNumber(rowIndicatorRowNumber)
			return 0
		}
		return invalidRowCounts + 1
	}
	return invalidRowCounts
}

// nearbyCodeword reads col[row] if row is a valid index, or nil otherwise.
func nearbyCodeword(col []*Codeword, row int) *Codeword {
	if row < 0 || row >= len(col) {
		return nil
	}
	return col[row]
}

// adjustRowNumbersSingle resolves one still-ambiguous codeword by copying
// the row number from the first neighbor (checked in a fixed priority order:
// same column first, then immediate columns, then two rows away) that
// already has a valid row number in the same bucket.
func (dr *DetectionResult) adjustRowNumbersSingle(barcodeColumn, codewordsRow int, codewords []*Codeword) {
	codeword := codewords[codewordsRow]
	previousColumnCodewords := dr.detectionResultColumns[barcodeColumn-1].Codewords()
	nextColumnCodewords := previousColumnCodewords
	if dr.detectionResultColumns[barcodeColumn+1] != nil {
		nextColumnCodewords = dr.detectionResultColumns[barcodeColumn+1].Codewords()
	}

	neighbors := [14]*Codeword{
		nearbyCodeword(codewords, codewordsRow-1),
		nearbyCodeword(codewords, codewordsRow+1),
		nearbyCodeword(previousColumnCodewords, codewordsRow),
		nearbyCodeword(nextColumnCodewords, codewordsRow),
		nearbyCodeword(previousColumnCodewords, codewordsRow-1),
		nearbyCodeword(nextColumnCodewords, codewordsRow-1),
		nearbyCodeword(previousColumnCodewords, codewordsRow+1),
		nearbyCodeword(nextColumnCodewords, codewordsRow+1),
		nearbyCodeword(codewords, codewordsRow-2),
		nearbyCodeword(codewords, codewordsRow+2),
		nearbyCodeword(previousColumnCodewords, codewordsRow-2),
		nearbyCodeword(nextColumnCodewords, codewordsRow-2),
		nearbyCodeword(previousColumnCodewords, codewordsRow+2),
		nearbyCodeword(nextColumnCodewords, codewordsRow+2),
	}
	for _, other := range neighbors {
		if adjustRowNumber(codeword, other) {
			return
		}
	}
}

func adjustRowNumber(codeword, otherCodeword *Codeword) bool {
	if otherCodeword == nil || !otherCodeword.HasValidRowNumber() || otherCodeword.Bucket() != codeword.Bucket() {
		return false
	}
	codeword.SetRowNumber(otherCodeword.RowNumber())
	return true
}

// BarcodeColumnCount returns the number of data columns.
func (dr *DetectionResult) BarcodeColumnCount() int { return dr.barcodeColumnCount }

// BarcodeRowCount returns the total number of rows.
func (dr *DetectionResult) BarcodeRowCount() int { return dr.barcodeMetadata.RowCount() }

// BarcodeECLevel returns the error correction level.
func (dr *DetectionResult) BarcodeECLevel() int { return dr.barcodeMetadata.ErrorCorrectionLevel() }

// SetBoundingBox sets the bounding box.
func (dr *DetectionResult) SetBoundingBox(boundingBox *BoundingBox) { dr.boundingBox = boundingBox }

// GetBoundingBox returns the bounding box.
func (dr *DetectionResult) GetBoundingBox() *BoundingBox { return dr.boundingBox }

// SetDetectionResultColumn sets the detection result column at the given index.
func (dr *DetectionResult) SetDetectionResultColumn(barcodeColumn int, col DetectionResultColumnI) {
	dr.detectionResultColumns[barcodeColumn] = col
}

// GetDetectionResultColumn returns the detection result column at the given index.
func (dr *DetectionResult) GetDetectionResultColumn(barcodeColumn int) DetectionResultColumnI {
	return dr.detectionResultColumns[barcodeColumn]
}

func (dr *DetectionResult) String() string {
	rowIndicatorColumn := dr.detectionResultColumns[0]
	if rowIndicatorColumn == nil {
		rowIndicatorColumn = dr.detectionResultColumns[dr.barcodeColumnCount+1]
	}

	var sb strings.Builder
	for codewordsRow := 0; codewordsRow < len(rowIndicatorColumn.Codewords()); codewordsRow++ {
		fmt.Fprintf(&sb, "CW %3d:", codewordsRow)
		for barcodeColumn := 0; barcodeColumn < dr.barcodeColumnCount+2; barcodeColumn++ {
			col := dr.detectionResultColumns[barcodeColumn]
			var codeword *Codeword
			if col != nil {
				codeword = col.Codewords()[codewordsRow]
			}
			if codeword == nil {
				sb.WriteString("    |   ")
				continue
			}
			fmt.Fprintf(&sb, " %3d|%3d", codeword.RowNumber(), codeword.Value())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
