package decoder

// DataBlock represents a block of data and error-correction codewords.
type DataBlock struct {
	NumDataCodewords int
	Codewords        []byte
}

// GetDataBlocks separates interleaved QR code data into original blocks: QR
// codewords are read data-byte-by-data-byte across all blocks of a group
// before EC-byte-by-EC-byte, so reconstructing each block means walking the
// raw stream in that same column-major order.
func GetDataBlocks(rawCodewords []byte, version *Version, ecLevel ErrorCorrectionLevel) []DataBlock {
	ecBlocks := version.ECBlocksForLevel(ecLevel)
	blocks := allocateBlocks(ecBlocks)

	shorterBlockCodewords := len(blocks[0].Codewords)
	// Blocks are ordered shorter-group-first, so the boundary is the last
	// run of longer blocks trailing off the end.
	longerBlocksStartAt := len(blocks)
	for longerBlocksStartAt > 0 && len(blocks[longerBlocksStartAt-1].Codewords) != shorterBlockCodewords {
		longerBlocksStartAt--
	}
	shorterBlockDataCodewords := shorterBlockCodewords - ecBlocks.ECCodewordsPerBlock

	offset := 0
	for i := 0; i < shorterBlockDataCodewords; i++ {
		for j := range blocks {
			blocks[j].Codewords[i] = rawCodewords[offset]
			offset++
		}
	}
	for j := longerBlocksStartAt; j < len(blocks); j++ {
		blocks[j].Codewords[shorterBlockDataCodewords] = rawCodewords[offset]
		offset++
	}
	blockLen := len(blocks[0].Codewords)
	for i := shorterBlockDataCodewords; i < blockLen; i++ {
		for j := range blocks {
			iOffset := i
			if j >= longerBlocksStartAt {
				iOffset++
			}
			blocks[j].Codewords[iOffset] = rawCodewords[offset]
			offset++
		}
	}
	return blocks
}

// allocateBlocks expands an ECBlocks group spec into one DataBlock per
// physical block, each sized for its data codewords plus the group's shared
// EC codeword count.
func allocateBlocks(ecBlocks *ECBlocks) []DataBlock {
	blocks := make([]DataBlock, 0, ecBlocks.NumBlocks())
	for _, spec := range ecBlocks.Blocks {
		for i := 0; i < spec.Count; i++ {
			blocks = append(blocks, DataBlock{
				NumDataCodewords: spec.DataCodewords,
				Codewords:        make([]byte, ecBlocks.ECCodewordsPerBlock+spec.DataCodewords),
			})
		}
	}
	return blocks
}
