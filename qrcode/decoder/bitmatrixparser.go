package decoder

import (
	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
)

// BitMatrixParser extracts version, format, and codeword data from a QR
// code's sampled BitMatrix.
type BitMatrixParser struct {
	bitMatrix        *bitutil.BitMatrix
	parsedVersion    *Version
	parsedFormatInfo *FormatInformation
	mirror           bool
}

// NewBitMatrixParser creates a new parser for the given BitMatrix.
func NewBitMatrixParser(bitMatrix *bitutil.BitMatrix) (*BitMatrixParser, error) {
	dimension := bitMatrix.Height()
	if dimension < 21 || dimension&0x03 != 1 {
		return nil, rxing.ErrFormat
	}
	return &BitMatrixParser{bitMatrix: bitMatrix}, nil
}

// bit reads the module at (i, j), transposed if the parser is in mirrored
// mode, and folds it onto the low end of an accumulator read MSB-first.
func (p *BitMatrixParser) bit(i, j int, acc int) int {
	row, col := i, j
	if p.mirror {
		row, col = j, i
	}
	acc <<= 1
	if p.bitMatrix.Get(row, col) {
		acc |= 1
	}
	return acc
}

// ReadFormatInformation reads format info, trying both of its redundant
// locations (top-left, and the split top-right/bottom-left pair), and
// caches the result.
func (p *BitMatrixParser) ReadFormatInformation() (*FormatInformation, error) {
	if p.parsedFormatInfo != nil {
		return p.parsedFormatInfo, nil
	}

	bits1 := 0
	for i := 0; i < 6; i++ {
		bits1 = p.bit(i, 8, bits1)
	}
	bits1 = p.bit(7, 8, bits1)
	bits1 = p.bit(8, 8, bits1)
	bits1 = p.bit(8, 7, bits1)
	for j := 5; j >= 0; j-- {
		bits1 = p.bit(8, j, bits1)
	}

	dimension := p.bitMatrix.Height()
	bits2 := 0
	for j := dimension - 1; j >= dimension-7; j-- {
		bits2 = p.bit(8, j, bits2)
	}
	for i := dimension - 8; i < dimension; i++ {
		bits2 = p.bit(i, 8, bits2)
	}

	p.parsedFormatInfo = DecodeFormatInformation(bits1, bits2)
	if p.parsedFormatInfo == nil {
		return nil, rxing.ErrFormat
	}
	return p.parsedFormatInfo, nil
}

// ReadVersion reads the symbol version, either from its dimension directly
// (versions 1-6 carry no explicit version block) or from one of the two
// redundant 18-bit version blocks.
func (p *BitMatrixParser) ReadVersion() (*Version, error) {
	if p.parsedVersion != nil {
		return p.parsedVersion, nil
	}

	dimension := p.bitMatrix.Height()
	if provisional := (dimension - 17) / 4; provisional <= 6 {
		return GetVersionForNumber(provisional)
	}

	ijMin := dimension - 11
	readBlock := func(rowMajor bool) int {
		bits := 0
		for a := 5; a >= 0; a-- {
			for b := dimension - 9; b >= ijMin; b-- {
				if rowMajor {
					bits = p.bit(b, a, bits)
				} else {
					bits = p.bit(a, b, bits)
				}
			}
		}
		return bits
	}

	if v := p.acceptVersion(DecodeVersionInformation(readBlock(true)), dimension); v != nil {
		return v, nil
	}
	if v := p.acceptVersion(DecodeVersionInformation(readBlock(false)), dimension); v != nil {
		return v, nil
	}
	return nil, rxing.ErrFormat
}

func (p *BitMatrixParser) acceptVersion(v *Version, dimension int) *Version {
	if v != nil && v.DimensionForVersion() == dimension {
		p.parsedVersion = v
		return v
	}
	return nil
}

// ReadCodewords reads the data+EC codeword stream, zigzagging up and down
// through the two-column-wide lanes and skipping the function-pattern
// modules and the permanently-reserved timing column.
func (p *BitMatrixParser) ReadCodewords() ([]byte, error) {
	formatInfo, err := p.ReadFormatInformation()
	if err != nil {
		return nil, err
	}
	version, err := p.ReadVersion()
	if err != nil {
		return nil, err
	}

	UnmaskBitMatrix(p.bitMatrix, p.bitMatrix.Height(), int(formatInfo.DataMask))
	functionPattern := version.BuildFunctionPattern()

	dimension := p.bitMatrix.Height()
	result := make([]byte, version.TotalCodewords)
	resultOffset := 0
	currentByte := 0
	bitsRead := 0
	readingUp := true

	for j := dimension - 1; j > 0; j -= 2 {
		if j == 6 {
			j--
		}
		for count := 0; count < dimension; count++ {
			i := count
			if readingUp {
				i = dimension - 1 - count
			}
			for col := 0; col < 2; col++ {
				if functionPattern.Get(j-col, i) {
					continue
				}
				bitsRead++
				currentByte <<= 1
				if p.bitMatrix.Get(j-col, i) {
					currentByte |= 1
				}
				if bitsRead == 8 {
					result[resultOffset] = byte(currentByte)
					resultOffset++
					bitsRead = 0
					currentByte = 0
				}
			}
		}
		readingUp = !readingUp
	}

	if resultOffset != version.TotalCodewords {
		return nil, rxing.ErrFormat
	}
	return result, nil
}

// Remask re-applies the cached data mask, reversing a prior unmask.
func (p *BitMatrixParser) Remask() {
	if p.parsedFormatInfo != nil {
		UnmaskBitMatrix(p.bitMatrix, p.bitMatrix.Height(), int(p.parsedFormatInfo.DataMask))
	}
}

// SetMirror resets cached version/format state and selects mirrored reads.
func (p *BitMatrixParser) SetMirror(mirror bool) {
	p.parsedVersion = nil
	p.parsedFormatInfo = nil
	p.mirror = mirror
}

// Mirror transposes the bit matrix in place for a second reading attempt.
func (p *BitMatrixParser) Mirror() {
	for x := 0; x < p.bitMatrix.Width(); x++ {
		for y := x + 1; y < p.bitMatrix.Height(); y++ {
			if p.bitMatrix.Get(x, y) != p.bitMatrix.Get(y, x) {
				p.bitMatrix.Flip(y, x)
				p.bitMatrix.Flip(x, y)
			}
		}
	}
}
