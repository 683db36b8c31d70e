package decoder

import "github.com/rxing-core/rxing-sub004/bitutil"

// DataMaskFunc evaluates one of the 8 QR data mask formulas for module
// (i, j) (i = row, j = column), returning true where the module should be
// flipped.
type DataMaskFunc func(i, j int) bool

// DataMasks holds the 8 QR code data mask patterns, indexed by their 3-bit
// selector.
var DataMasks = [8]DataMaskFunc{
	0b000: func(i, j int) bool { return (i+j)&1 == 0 },
	0b001: func(i, j int) bool { return i&1 == 0 },
	0b010: func(i, j int) bool { return j%3 == 0 },
	0b011: func(i, j int) bool { return (i+j)%3 == 0 },
	0b100: func(i, j int) bool { return (i/2+j/3)&1 == 0 },
	0b101: func(i, j int) bool { return (i*j)%6 == 0 },
	0b110: func(i, j int) bool { return (i*j)%6 < 3 },
	0b111: func(i, j int) bool { return (i+j+(i*j)%3)&1 == 0 },
}

// UnmaskBitMatrix applies data mask unmasking to a BitMatrix. Unmasking is
// its own inverse, so the same call re-masks the matrix.
func UnmaskBitMatrix(bits *bitutil.BitMatrix, dimension int, maskIndex int) {
	mask := DataMasks[maskIndex]
	for i := 0; i < dimension; i++ {
		for j := 0; j < dimension; j++ {
			if mask(i, j) {
				bits.Flip(j, i)
			}
		}
	}
}
