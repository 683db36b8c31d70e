package decoder

import (
	"fmt"

	"github.com/rxing-core/rxing-sub004/bitutil"
)

// ReadCodewords reads codewords from a Data Matrix bit matrix using the
// standard ECC-200 module placement algorithm.
//
// The input matrix must contain the full symbol, finder pattern and all; it
// is re-tiled from per-region data modules into one logical mapping matrix
// before the codeword extraction walk runs.
func ReadCodewords(matrix *bitutil.BitMatrix) ([]byte, *Version, error) {
	numRows := matrix.Height()
	numColumns := matrix.Width()

	version, err := GetVersionForDimensions(numRows, numColumns)
	if err != nil {
		return nil, nil, err
	}

	mapping := extractDataRegion(matrix, version)
	codewords, err := readMappingMatrix(mapping, version)
	if err != nil {
		return nil, nil, err
	}
	return codewords, version, nil
}

// extractDataRegion strips the finder pattern and alignment modules from
// every data region and tiles the remaining data modules together into one
// logical mapping matrix.
func extractDataRegion(bitMatrix *bitutil.BitMatrix, version *Version) *bitutil.BitMatrix {
	symbolSizeRows := version.SymbolSizeRows()
	symbolSizeColumns := version.SymbolSizeColumns()
	dataRegionSizeRows := version.DataRegionSizeRows()
	dataRegionSizeColumns := version.DataRegionSizeColumns()

	numDataRegionsRow := symbolSizeRows / (dataRegionSizeRows + 2)
	numDataRegionsColumn := symbolSizeColumns / (dataRegionSizeColumns + 2)

	mapping := bitutil.NewBitMatrixWithSize(
		numDataRegionsColumn*dataRegionSizeColumns,
		numDataRegionsRow*dataRegionSizeRows,
	)

	for dataRegionRow := 0; dataRegionRow < numDataRegionsRow; dataRegionRow++ {
		writeRowBase := dataRegionRow * dataRegionSizeRows
		for dataRegionColumn := 0; dataRegionColumn < numDataRegionsColumn; dataRegionColumn++ {
			writeColBase := dataRegionColumn * dataRegionSizeColumns
			for i := 0; i < dataRegionSizeRows; i++ {
				// +1 skips the finder pattern row bordering each region.
				readRow := dataRegionRow*(dataRegionSizeRows+2) + 1 + i
				for j := 0; j < dataRegionSizeColumns; j++ {
					readCol := dataRegionColumn*(dataRegionSizeColumns+2) + 1 + j
					if bitMatrix.Get(readCol, readRow) {
						mapping.Set(writeColBase+j, writeRowBase+i)
					}
				}
			}
		}
	}
	return mapping
}

// codewordMapper walks the mapping matrix's diagonal "Utah" placement
// pattern, tracking which modules have already contributed to a codeword.
type codewordMapper struct {
	matrix             *bitutil.BitMatrix
	numRows, numColumns int
	read               [][]bool
}

// module reads the module at (row, column), wrapping coordinates that spill
// past an edge back around according to the ECC-200 placement rules.
func (m *codewordMapper) module(row, column int) bool {
	if row < 0 {
		row += m.numRows
		column += 4 - ((m.numRows+4)%8)
	}
	if column < 0 {
		column += m.numColumns
		row += 4 - ((m.numColumns+4)%8)
	}
	if row >= m.numRows {
		row -= m.numRows
	}
	if column >= m.numColumns {
		column -= m.numColumns
	}
	m.read[row][column] = true
	return m.matrix.Get(column, row)
}

// packBits folds eight module reads into one byte, MSB first.
func (m *codewordMapper) packBits(coords [8][2]int) byte {
	var b byte
	for _, c := range coords {
		b <<= 1
		if m.module(c[0], c[1]) {
			b |= 1
		}
	}
	return b
}

var utahOffsets = [8][2]int{
	{-2, -2}, {-2, -1}, {-1, -2}, {-1, -1}, {-1, 0}, {0, -2}, {0, -1}, {0, 0},
}

// utah reads the 8-module "Utah" shaped codeword anchored at (row, column),
// the standard Data Matrix codeword shape.
func (m *codewordMapper) utah(row, column int) byte {
	coords := utahOffsets
	for i := range coords {
		coords[i][0] += row
		coords[i][1] += column
	}
	return m.packBits(coords)
}

// The four corner codewords sit at fixed coordinates relative to the matrix
// edges rather than following the Utah shape.
func (m *codewordMapper) corner1() byte {
	nr, nc := m.numRows, m.numColumns
	return m.packBits([8][2]int{
		{nr - 1, 0}, {nr - 1, 1}, {nr - 1, 2},
		{0, nc - 2}, {0, nc - 1}, {1, nc - 1}, {2, nc - 1}, {3, nc - 1},
	})
}

func (m *codewordMapper) corner2() byte {
	nr, nc := m.numRows, m.numColumns
	return m.packBits([8][2]int{
		{nr - 3, 0}, {nr - 2, 0}, {nr - 1, 0},
		{0, nc - 4}, {0, nc - 3}, {0, nc - 2}, {0, nc - 1}, {1, nc - 1},
	})
}

func (m *codewordMapper) corner3() byte {
	nr, nc := m.numRows, m.numColumns
	return m.packBits([8][2]int{
		{nr - 1, 0}, {nr - 1, nc - 1},
		{0, nc - 3}, {0, nc - 2}, {0, nc - 1}, {1, nc - 3}, {1, nc - 2}, {1, nc - 1},
	})
}

func (m *codewordMapper) corner4() byte {
	nr, nc := m.numRows, m.numColumns
	return m.packBits([8][2]int{
		{nr - 3, 0}, {nr - 2, 0}, {nr - 1, 0},
		{0, nc - 2}, {0, nc - 1}, {1, nc - 1}, {2, nc - 1}, {3, nc - 1},
	})
}

// readMappingMatrix walks the mapping matrix in the Data Matrix diagonal
// sweep pattern and extracts codewords in symbol order.
func readMappingMatrix(mappingBitMatrix *bitutil.BitMatrix, version *Version) ([]byte, error) {
	numRows := mappingBitMatrix.Height()
	numColumns := mappingBitMatrix.Width()
	totalCodewords := version.TotalCodewords()
	result := make([]byte, totalCodewords)

	read := make([][]bool, numRows)
	for i := range read {
		read[i] = make([]bool, numColumns)
	}
	m := &codewordMapper{matrix: mappingBitMatrix, numRows: numRows, numColumns: numColumns, read: read}

	codewordIndex := 0
	emit := func(b byte) {
		if codewordIndex < totalCodewords {
			result[codewordIndex] = b
			codewordIndex++
		}
	}

	row := 4
	column := 0

	for {
		// Four corner cases, checked before each diagonal sweep.
		if row == numRows && column == 0 {
			emit(m.corner1())
			row -= 2
			column += 2
		}
		if row == numRows-2 && column == 0 && numColumns%4 != 0 {
			emit(m.corner2())
			row -= 2
			column += 2
		}
		if row == numRows+4 && column == 2 && numColumns%8 == 0 {
			emit(m.corner3())
			row -= 2
			column += 2
		}
		if row == numRows-2 && column == 0 && numColumns%8 == 4 {
			emit(m.corner4())
			row -= 2
			column += 2
		}

		// Sweep upward-right (do-while: body runs first, bounds checked after step).
		for {
			if row >= 0 && row < numRows && column >= 0 && column < numColumns && !read[row][column] {
				emit(m.utah(row, column))
			}
			row -= 2
			column += 2
			if !(row >= 0 && column < numColumns) {
				break
			}
		}
		row++
		column += 3

		// Sweep downward-left (do-while: body runs first, bounds checked after step).
		for {
			if row >= 0 && row < numRows && column >= 0 && column < numColumns && !read[row][column] {
				emit(m.utah(row, column))
			}
			row += 2
			column -= 2
			if !(row < numRows && column >= 0) {
				break
			}
		}
		row += 3
		column++

		if row >= numRows && column >= numColumns {
			break
		}
	}

	if codewordIndex != totalCodewords {
		return nil, fmt.Errorf("datamatrix/decoder: expected %d codewords but got %d", totalCodewords, codewordIndex)
	}
	return result, nil
}
