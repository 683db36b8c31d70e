package decoder

import "fmt"

// DataBlock represents a block of data and error-correction codewords.
type DataBlock struct {
	NumDataCodewords int
	Codewords        []byte
}

// GetDataBlocks separates interleaved Data Matrix codewords into their
// constituent data/EC blocks. Data Matrix interleaves all data codewords
// across blocks first, then all EC codewords, unlike QR's column-major
// short/long split.
func GetDataBlocks(rawCodewords []byte, version *Version) ([]DataBlock, error) {
	ecBlocks := version.GetECBlocks()

	totalBlocks := 0
	for _, block := range ecBlocks.Blocks {
		totalBlocks += block.Count
	}
	if totalBlocks == 0 {
		return nil, fmt.Errorf("datamatrix/decoder: no EC blocks defined")
	}

	ecCodewordsPerBlock := ecBlocks.ECCodewords
	result := allocateBlocks(&ecBlocks, ecCodewordsPerBlock)

	shorterBlocksNumDataCodewords := result[0].NumDataCodewords
	longerBlocksStartAt := totalBlocks
	for i := 0; i < totalBlocks; i++ {
		if result[i].NumDataCodewords > shorterBlocksNumDataCodewords {
			longerBlocksStartAt = i
			break
		}
	}

	src := &codewordCursor{raw: rawCodewords}

	for i := 0; i < shorterBlocksNumDataCodewords; i++ {
		for j := 0; j < totalBlocks; j++ {
			b, err := src.next()
			if err != nil {
				return nil, err
			}
			result[j].Codewords[i] = b
		}
	}
	for j := longerBlocksStartAt; j < totalBlocks; j++ {
		b, err := src.next()
		if err != nil {
			return nil, err
		}
		result[j].Codewords[shorterBlocksNumDataCodewords] = b
	}
	for i := 0; i < ecCodewordsPerBlock; i++ {
		for j := 0; j < totalBlocks; j++ {
			b, err := src.next()
			if err != nil {
				return nil, err
			}
			result[j].Codewords[result[j].NumDataCodewords+i] = b
		}
	}

	if src.offset != len(rawCodewords) {
		return nil, fmt.Errorf("datamatrix/decoder: raw codewords count mismatch: used %d of %d", src.offset, len(rawCodewords))
	}
	return result, nil
}

// allocateBlocks expands an ECBlocks group spec into one DataBlock per
// physical block, each sized for its data codewords plus the shared EC
// codeword count.
func allocateBlocks(ecBlocks *ECBlocks, ecCodewordsPerBlock int) []DataBlock {
	result := make([]DataBlock, 0, ecBlocks.NumBlocks())
	for _, block := range ecBlocks.Blocks {
		for i := 0; i < block.Count; i++ {
			result = append(result, DataBlock{
				NumDataCodewords: block.DataCodewords,
				Codewords:        make([]byte, block.DataCodewords+ecCodewordsPerBlock),
			})
		}
	}
	return result
}

// codewordCursor walks rawCodewords one byte at a time, reporting an error
// instead of panicking when the de-interleaving loops overrun the input.
type codewordCursor struct {
	raw    []byte
	offset int
}

func (c *codewordCursor) next() (byte, error) {
	if c.offset >= len(c.raw) {
		return 0, fmt.Errorf("datamatrix/decoder: not enough raw codewords")
	}
	b := c.raw[c.offset]
	c.offset++
	return b, nil
}
