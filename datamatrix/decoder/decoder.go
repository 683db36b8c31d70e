package decoder

import (
	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
	"github.com/rxing-core/rxing-sub004/reedsolomon"
)

// Decoder decodes Data Matrix ECC-200 barcodes.
type Decoder struct {
	rsDecoder *reedsolomon.Decoder
}

// NewDecoder creates a new Data Matrix Decoder.
func NewDecoder() *Decoder {
	return &Decoder{rsDecoder: reedsolomon.NewDecoder(reedsolomon.DataMatrixField256)}
}

// Decode decodes a Data Matrix bit matrix, including its finder pattern and
// timing border, into a DecoderResult.
func (d *Decoder) Decode(bits *bitutil.BitMatrix) (*DecoderResult, error) {
	rawCodewords, version, err := ReadCodewords(bits)
	if err != nil {
		return nil, err
	}
	dataBlocks, err := GetDataBlocks(rawCodewords, version)
	if err != nil {
		return nil, err
	}

	resultBytes, errorsCorrected, err := d.correctBlocks(dataBlocks)
	if err != nil {
		return nil, err
	}

	dr, err := DecodeBitStream(resultBytes)
	if err != nil {
		return nil, err
	}
	dr.ErrorsCorrected = errorsCorrected
	dr.SymbologyModifier = 1
	return dr, nil
}

// correctBlocks error-corrects each interleaved block and weaves the
// corrected data codewords back together. Unlike QR's straight block-by-block
// concatenation, Data Matrix spreads block j's i-th codeword to result
// position i*dataBlocksCount+j.
func (d *Decoder) correctBlocks(dataBlocks []DataBlock) ([]byte, int, error) {
	totalDataBytes := 0
	for _, db := range dataBlocks {
		totalDataBytes += db.NumDataCodewords
	}

	resultBytes := make([]byte, totalDataBytes)
	dataBlocksCount := len(dataBlocks)
	totalErrorsCorrected := 0

	for j, db := range dataBlocks {
		corrected, err := d.correctErrors(db.Codewords, db.NumDataCodewords)
		if err != nil {
			return nil, 0, err
		}
		totalErrorsCorrected += corrected

		for i := 0; i < db.NumDataCodewords; i++ {
			resultBytes[i*dataBlocksCount+j] = db.Codewords[i]
		}
	}
	return resultBytes, totalErrorsCorrected, nil
}

// correctErrors runs Reed-Solomon error correction over a single block,
// writing corrected data codewords back into codewordBytes.
func (d *Decoder) correctErrors(codewordBytes []byte, numDataCodewords int) (int, error) {
	numCodewords := len(codewordBytes)
	codewordsInts := make([]int, numCodewords)
	for i, b := range codewordBytes {
		codewordsInts[i] = int(b) & 0xFF
	}

	errorsCorrected, err := d.rsDecoder.Decode(codewordsInts, numCodewords-numDataCodewords)
	if err != nil {
		return 0, rxing.ErrChecksum
	}
	for i := 0; i < numDataCodewords; i++ {
		codewordBytes[i] = byte(codewordsInts[i])
	}
	return errorsCorrected, nil
}
