package decoder

import (
	"fmt"
	"math/bits"

	"github.com/rxing-core/rxing-sub004/bitutil"
)

// ECB represents a single error-correction block specification.
type ECB struct {
	Count         int
	DataCodewords int
}

// ECBlocks represents a set of error-correction blocks for one EC level.
type ECBlocks struct {
	ECCodewordsPerBlock int
	Blocks              []ECB
}

// NumBlocks returns the total number of blocks.
func (ecb *ECBlocks) NumBlocks() int {
	total := 0
	for _, b := range ecb.Blocks {
		total += b.Count
	}
	return total
}

// TotalECCodewords returns the total number of error-correction codewords.
func (ecb *ECBlocks) TotalECCodewords() int {
	return ecb.ECCodewordsPerBlock * ecb.NumBlocks()
}

// Version represents a QR code version (1-40).
type Version struct {
	Number                  int
	AlignmentPatternCenters []int
	ECBlocksArray           [4]ECBlocks // L, M, Q, H
	TotalCodewords          int
}

// DimensionForVersion returns the module dimension for this version.
func (v *Version) DimensionForVersion() int {
	return 17 + 4*v.Number
}

// ECBlocksForLevel returns the ECBlocks for the given error correction level.
func (v *Version) ECBlocksForLevel(ecLevel ErrorCorrectionLevel) *ECBlocks {
	return &v.ECBlocksArray[ecLevel.Ordinal()]
}

// BuildFunctionPattern builds a BitMatrix marking every module position this
// version reserves for finder/separator/format/timing/alignment/version
// data rather than payload, so the parser knows which modules to skip.
func (v *Version) BuildFunctionPattern() *bitutil.BitMatrix {
	dimension := v.DimensionForVersion()
	bm := bitutil.NewBitMatrix(dimension)

	bm.SetRegion(0, 0, 9, 9)            // top-left finder + separator + format
	bm.SetRegion(dimension-8, 0, 8, 9)   // top-right finder + separator + format
	bm.SetRegion(0, dimension-8, 9, 8)   // bottom-left finder + separator + format

	v.markAlignmentPatterns(bm)

	bm.SetRegion(6, 9, 1, dimension-17) // vertical timing pattern
	bm.SetRegion(9, 6, dimension-17, 1) // horizontal timing pattern

	if v.Number > 6 {
		bm.SetRegion(dimension-11, 0, 3, 6) // version info, top right
		bm.SetRegion(0, dimension-11, 6, 3) // version info, bottom left
	}

	return bm
}

// markAlignmentPatterns reserves every alignment pattern's 5x5 footprint,
// skipping the three positions that overlap a finder pattern instead (the
// corners of the center grid adjacent to the top-left, top-right, and
// bottom-left finders).
func (v *Version) markAlignmentPatterns(bm *bitutil.BitMatrix) {
	centers := v.AlignmentPatternCenters
	n := len(centers)
	for row := 0; row < n; row++ {
		top := centers[row] - 2
		for col := 0; col < n; col++ {
			overlapsFinder := (row == 0 && (col == 0 || col == n-1)) || (row == n-1 && col == 0)
			if overlapsFinder {
				continue
			}
			bm.SetRegion(centers[col]-2, top, 5, 5)
		}
	}
}

// versionDecodeInfo maps version bits to versions 7+.
var versionDecodeInfo = []int{
	0x07C94, 0x085BC, 0x09A99, 0x0A4D3, 0x0BBF6,
	0x0C762, 0x0D847, 0x0E60D, 0x0F928, 0x10B78,
	0x1145D, 0x12A17, 0x13532, 0x149A6, 0x15683,
	0x168C9, 0x177EC, 0x18EC4, 0x191E1, 0x1AFAB,
	0x1B08E, 0x1CC1A, 0x1D33F, 0x1ED75, 0x1F250,
	0x209D5, 0x216F0, 0x228BA, 0x2379F, 0x24B0B,
	0x2542E, 0x26A64, 0x27541, 0x28C69,
}

// GetVersionForNumber returns the Version for the given version number (1-40).
func GetVersionForNumber(number int) (*Version, error) {
	if number < 1 || number > 40 {
		return nil, errInvalidVersion
	}
	return &versions[number-1], nil
}

// GetProvisionalVersionForDimension returns the Version for a QR code of the given dimension.
func GetProvisionalVersionForDimension(dimension int) (*Version, error) {
	if dimension%4 != 1 {
		return nil, fmt.Errorf("qrcode/decoder: invalid dimension %d", dimension)
	}
	return GetVersionForNumber((dimension - 17) / 4)
}

// DecodeVersionInformation decodes version information bits.
func DecodeVersionInformation(versionBits int) *Version {
	bestDifference := 32
	bestVersion := 0
	for i, target := range versionDecodeInfo {
		if target == versionBits {
			v := &versions[i+6]
			return v
		}
		bitsDiff := bits.OnesCount(uint(versionBits ^ target))
		if bitsDiff < bestDifference {
			bestVersion = i + 7
			bestDifference = bitsDiff
		}
	}
	if bestDifference <= 3 {
		v := &versions[bestVersion-1]
		return v
	}
	return nil
}

// buildVersion assembles a Version from its alignment centers and its four
// per-level EC block specs. TotalCodewords is derived from the L-level spec
// since every level of a given version packs the same total data+EC payload,
// just split differently between error correction and data codewords.
func buildVersion(number int, align []int, l, m, q, h ECBlocks) Version {
	total := 0
	for _, block := range l.Blocks {
		total += block.Count * (block.DataCodewords + l.ECCodewordsPerBlock)
	}
	return Version{
		Number:                  number,
		AlignmentPatternCenters: align,
		ECBlocksArray:           [4]ECBlocks{l, m, q, h},
		TotalCodewords:          total,
	}
}

func ecBlockSet(ecCodewordsPerBlock int, blocks ...ECB) ECBlocks {
	return ECBlocks{ECCodewordsPerBlock: ecCodewordsPerBlock, Blocks: blocks}
}

func ecBlock(count, dataCodewords int) ECB {
	return ECB{Count: count, DataCodewords: dataCodewords}
}

// versions contains all 40 QR code versions.
var versions = [40]Version{
	buildVersion(1, nil, ecBlockSet(7, ecBlock(1, 19)), ecBlockSet(10, ecBlock(1, 16)), ecBlockSet(13, ecBlock(1, 13)), ecBlockSet(17, ecBlock(1, 9))),
	buildVersion(2, []int{6, 18}, ecBlockSet(10, ecBlock(1, 34)), ecBlockSet(16, ecBlock(1, 28)), ecBlockSet(22, ecBlock(1, 22)), ecBlockSet(28, ecBlock(1, 16))),
	buildVersion(3, []int{6, 22}, ecBlockSet(15, ecBlock(1, 55)), ecBlockSet(26, ecBlock(1, 44)), ecBlockSet(18, ecBlock(2, 17)), ecBlockSet(22, ecBlock(2, 13))),
	buildVersion(4, []int{6, 26}, ecBlockSet(20, ecBlock(1, 80)), ecBlockSet(18, ecBlock(2, 32)), ecBlockSet(26, ecBlock(2, 24)), ecBlockSet(16, ecBlock(4, 9))),
	buildVersion(5, []int{6, 30}, ecBlockSet(26, ecBlock(1, 108)), ecBlockSet(24, ecBlock(2, 43)), ecBlockSet(18, ecBlock(2, 15), ecBlock(2, 16)), ecBlockSet(22, ecBlock(2, 11), ecBlock(2, 12))),
	buildVersion(6, []int{6, 34}, ecBlockSet(18, ecBlock(2, 68)), ecBlockSet(16, ecBlock(4, 27)), ecBlockSet(24, ecBlock(4, 19)), ecBlockSet(28, ecBlock(4, 15))),
	buildVersion(7, []int{6, 22, 38}, ecBlockSet(20, ecBlock(2, 78)), ecBlockSet(18, ecBlock(4, 31)), ecBlockSet(18, ecBlock(2, 14), ecBlock(4, 15)), ecBlockSet(26, ecBlock(4, 13), ecBlock(1, 14))),
	buildVersion(8, []int{6, 24, 42}, ecBlockSet(24, ecBlock(2, 97)), ecBlockSet(22, ecBlock(2, 38), ecBlock(2, 39)), ecBlockSet(22, ecBlock(4, 18), ecBlock(2, 19)), ecBlockSet(26, ecBlock(4, 14), ecBlock(2, 15))),
	buildVersion(9, []int{6, 26, 46}, ecBlockSet(30, ecBlock(2, 116)), ecBlockSet(22, ecBlock(3, 36), ecBlock(2, 37)), ecBlockSet(20, ecBlock(4, 16), ecBlock(4, 17)), ecBlockSet(24, ecBlock(4, 12), ecBlock(4, 13))),
	buildVersion(10, []int{6, 28, 50}, ecBlockSet(18, ecBlock(2, 68), ecBlock(2, 69)), ecBlockSet(26, ecBlock(4, 43), ecBlock(1, 44)), ecBlockSet(24, ecBlock(6, 19), ecBlock(2, 20)), ecBlockSet(28, ecBlock(6, 15), ecBlock(2, 16))),
	buildVersion(11, []int{6, 30, 54}, ecBlockSet(20, ecBlock(4, 81)), ecBlockSet(30, ecBlock(1, 50), ecBlock(4, 51)), ecBlockSet(28, ecBlock(4, 22), ecBlock(4, 23)), ecBlockSet(24, ecBlock(3, 12), ecBlock(8, 13))),
	buildVersion(12, []int{6, 32, 58}, ecBlockSet(24, ecBlock(2, 92), ecBlock(2, 93)), ecBlockSet(22, ecBlock(6, 36), ecBlock(2, 37)), ecBlockSet(26, ecBlock(4, 20), ecBlock(6, 21)), ecBlockSet(28, ecBlock(7, 14), ecBlock(4, 15))),
	buildVersion(13, []int{6, 34, 62}, ecBlockSet(26, ecBlock(4, 107)), ecBlockSet(22, ecBlock(8, 37), ecBlock(1, 38)), ecBlockSet(24, ecBlock(8, 20), ecBlock(4, 21)), ecBlockSet(22, ecBlock(12, 11), ecBlock(4, 12))),
	buildVersion(14, []int{6, 26, 46, 66}, ecBlockSet(30, ecBlock(3, 115), ecBlock(1, 116)), ecBlockSet(24, ecBlock(4, 40), ecBlock(5, 41)), ecBlockSet(20, ecBlock(11, 16), ecBlock(5, 17)), ecBlockSet(24, ecBlock(11, 12), ecBlock(5, 13))),
	buildVersion(15, []int{6, 26, 48, 70}, ecBlockSet(22, ecBlock(5, 87), ecBlock(1, 88)), ecBlockSet(24, ecBlock(5, 41), ecBlock(5, 42)), ecBlockSet(30, ecBlock(5, 24), ecBlock(7, 25)), ecBlockSet(24, ecBlock(11, 12), ecBlock(7, 13))),
	buildVersion(16, []int{6, 26, 50, 74}, ecBlockSet(24, ecBlock(5, 98), ecBlock(1, 99)), ecBlockSet(28, ecBlock(7, 45), ecBlock(3, 46)), ecBlockSet(24, ecBlock(15, 19), ecBlock(2, 20)), ecBlockSet(30, ecBlock(3, 15), ecBlock(13, 16))),
	buildVersion(17, []int{6, 30, 54, 78}, ecBlockSet(28, ecBlock(1, 107), ecBlock(5, 108)), ecBlockSet(28, ecBlock(10, 46), ecBlock(1, 47)), ecBlockSet(28, ecBlock(1, 22), ecBlock(15, 23)), ecBlockSet(28, ecBlock(2, 14), ecBlock(17, 15))),
	buildVersion(18, []int{6, 30, 56, 82}, ecBlockSet(30, ecBlock(5, 120), ecBlock(1, 121)), ecBlockSet(26, ecBlock(9, 43), ecBlock(4, 44)), ecBlockSet(28, ecBlock(17, 22), ecBlock(1, 23)), ecBlockSet(28, ecBlock(2, 14), ecBlock(19, 15))),
	buildVersion(19, []int{6, 30, 58, 86}, ecBlockSet(28, ecBlock(3, 113), ecBlock(4, 114)), ecBlockSet(26, ecBlock(3, 44), ecBlock(11, 45)), ecBlockSet(26, ecBlock(17, 21), ecBlock(4, 22)), ecBlockSet(26, ecBlock(9, 13), ecBlock(16, 14))),
	buildVersion(20, []int{6, 34, 62, 90}, ecBlockSet(28, ecBlock(3, 107), ecBlock(5, 108)), ecBlockSet(26, ecBlock(3, 41), ecBlock(13, 42)), ecBlockSet(30, ecBlock(15, 24), ecBlock(5, 25)), ecBlockSet(28, ecBlock(15, 15), ecBlock(10, 16))),
	buildVersion(21, []int{6, 28, 50, 72, 94}, ecBlockSet(28, ecBlock(4, 116), ecBlock(4, 117)), ecBlockSet(26, ecBlock(17, 42)), ecBlockSet(28, ecBlock(17, 22), ecBlock(6, 23)), ecBlockSet(30, ecBlock(19, 16), ecBlock(6, 17))),
	buildVersion(22, []int{6, 26, 50, 74, 98}, ecBlockSet(28, ecBlock(2, 111), ecBlock(7, 112)), ecBlockSet(28, ecBlock(17, 46)), ecBlockSet(30, ecBlock(7, 24), ecBlock(16, 25)), ecBlockSet(24, ecBlock(34, 13))),
	buildVersion(23, []int{6, 30, 54, 78, 102}, ecBlockSet(30, ecBlock(4, 121), ecBlock(5, 122)), ecBlockSet(28, ecBlock(4, 47), ecBlock(14, 48)), ecBlockSet(30, ecBlock(11, 24), ecBlock(14, 25)), ecBlockSet(30, ecBlock(16, 15), ecBlock(14, 16))),
	buildVersion(24, []int{6, 28, 54, 80, 106}, ecBlockSet(30, ecBlock(6, 117), ecBlock(4, 118)), ecBlockSet(28, ecBlock(6, 45), ecBlock(14, 46)), ecBlockSet(30, ecBlock(11, 24), ecBlock(16, 25)), ecBlockSet(30, ecBlock(30, 16), ecBlock(2, 17))),
	buildVersion(25, []int{6, 32, 58, 84, 110}, ecBlockSet(26, ecBlock(8, 106), ecBlock(4, 107)), ecBlockSet(28, ecBlock(8, 47), ecBlock(13, 48)), ecBlockSet(30, ecBlock(7, 24), ecBlock(22, 25)), ecBlockSet(30, ecBlock(22, 15), ecBlock(13, 16))),
	buildVersion(26, []int{6, 30, 58, 86, 114}, ecBlockSet(28, ecBlock(10, 114), ecBlock(2, 115)), ecBlockSet(28, ecBlock(19, 46), ecBlock(4, 47)), ecBlockSet(28, ecBlock(28, 22), ecBlock(6, 23)), ecBlockSet(30, ecBlock(33, 16), ecBlock(4, 17))),
	buildVersion(27, []int{6, 34, 62, 90, 118}, ecBlockSet(30, ecBlock(8, 122), ecBlock(4, 123)), ecBlockSet(28, ecBlock(22, 45), ecBlock(3, 46)), ecBlockSet(30, ecBlock(8, 23), ecBlock(26, 24)), ecBlockSet(30, ecBlock(12, 15), ecBlock(28, 16))),
	buildVersion(28, []int{6, 26, 50, 74, 98, 122}, ecBlockSet(30, ecBlock(3, 117), ecBlock(10, 118)), ecBlockSet(28, ecBlock(3, 45), ecBlock(23, 46)), ecBlockSet(30, ecBlock(4, 24), ecBlock(31, 25)), ecBlockSet(30, ecBlock(11, 15), ecBlock(31, 16))),
	buildVersion(29, []int{6, 30, 54, 78, 102, 126}, ecBlockSet(30, ecBlock(7, 116), ecBlock(7, 117)), ecBlockSet(28, ecBlock(21, 45), ecBlock(7, 46)), ecBlockSet(30, ecBlock(1, 23), ecBlock(37, 24)), ecBlockSet(30, ecBlock(19, 15), ecBlock(26, 16))),
	buildVersion(30, []int{6, 26, 52, 78, 104, 130}, ecBlockSet(30, ecBlock(5, 115), ecBlock(10, 116)), ecBlockSet(28, ecBlock(19, 47), ecBlock(10, 48)), ecBlockSet(30, ecBlock(15, 24), ecBlock(25, 25)), ecBlockSet(30, ecBlock(23, 15), ecBlock(25, 16))),
	buildVersion(31, []int{6, 30, 56, 82, 108, 134}, ecBlockSet(30, ecBlock(13, 115), ecBlock(3, 116)), ecBlockSet(28, ecBlock(2, 46), ecBlock(29, 47)), ecBlockSet(30, ecBlock(42, 24), ecBlock(1, 25)), ecBlockSet(30, ecBlock(23, 15), ecBlock(28, 16))),
	buildVersion(32, []int{6, 34, 60, 86, 112, 138}, ecBlockSet(30, ecBlock(17, 115)), ecBlockSet(28, ecBlock(10, 46), ecBlock(23, 47)), ecBlockSet(30, ecBlock(10, 24), ecBlock(35, 25)), ecBlockSet(30, ecBlock(19, 15), ecBlock(35, 16))),
	buildVersion(33, []int{6, 30, 58, 86, 114, 142}, ecBlockSet(30, ecBlock(17, 115), ecBlock(1, 116)), ecBlockSet(28, ecBlock(14, 46), ecBlock(21, 47)), ecBlockSet(30, ecBlock(29, 24), ecBlock(19, 25)), ecBlockSet(30, ecBlock(11, 15), ecBlock(46, 16))),
	buildVersion(34, []int{6, 34, 62, 90, 118, 146}, ecBlockSet(30, ecBlock(13, 115), ecBlock(6, 116)), ecBlockSet(28, ecBlock(14, 46), ecBlock(23, 47)), ecBlockSet(30, ecBlock(44, 24), ecBlock(7, 25)), ecBlockSet(30, ecBlock(59, 16), ecBlock(1, 17))),
	buildVersion(35, []int{6, 30, 54, 78, 102, 126, 150}, ecBlockSet(30, ecBlock(12, 121), ecBlock(7, 122)), ecBlockSet(28, ecBlock(12, 47), ecBlock(26, 48)), ecBlockSet(30, ecBlock(39, 24), ecBlock(14, 25)), ecBlockSet(30, ecBlock(22, 15), ecBlock(41, 16))),
	buildVersion(36, []int{6, 24, 50, 76, 102, 128, 154}, ecBlockSet(30, ecBlock(6, 121), ecBlock(14, 122)), ecBlockSet(28, ecBlock(6, 47), ecBlock(34, 48)), ecBlockSet(30, ecBlock(46, 24), ecBlock(10, 25)), ecBlockSet(30, ecBlock(2, 15), ecBlock(64, 16))),
	buildVersion(37, []int{6, 28, 54, 80, 106, 132, 158}, ecBlockSet(30, ecBlock(17, 122), ecBlock(4, 123)), ecBlockSet(28, ecBlock(29, 46), ecBlock(14, 47)), ecBlockSet(30, ecBlock(49, 24), ecBlock(10, 25)), ecBlockSet(30, ecBlock(24, 15), ecBlock(46, 16))),
	buildVersion(38, []int{6, 32, 58, 84, 110, 136, 162}, ecBlockSet(30, ecBlock(4, 122), ecBlock(18, 123)), ecBlockSet(28, ecBlock(13, 46), ecBlock(32, 47)), ecBlockSet(30, ecBlock(48, 24), ecBlock(14, 25)), ecBlockSet(30, ecBlock(42, 15), ecBlock(32, 16))),
	buildVersion(39, []int{6, 26, 54, 82, 110, 138, 166}, ecBlockSet(30, ecBlock(20, 117), ecBlock(4, 118)), ecBlockSet(28, ecBlock(40, 47), ecBlock(7, 48)), ecBlockSet(30, ecBlock(43, 24), ecBlock(22, 25)), ecBlockSet(30, ecBlock(10, 15), ecBlock(67, 16))),
	buildVersion(40, []int{6, 30, 58, 86, 114, 142, 170}, ecBlockSet(30, ecBlock(19, 118), ecBlock(6, 119)), ecBlockSet(28, ecBlock(18, 47), ecBlock(31, 48)), ecBlockSet(30, ecBlock(34, 24), ecBlock(34, 25)), ecBlockSet(30, ecBlock(20, 15), ecBlock(61, 16))),
}
