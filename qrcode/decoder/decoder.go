package decoder

import (
	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
	"github.com/rxing-core/rxing-sub004/internal"
	"github.com/rxing-core/rxing-sub004/reedsolomon"
)

// Decoder decodes QR codes.
type Decoder struct {
	rsDecoder *reedsolomon.Decoder
}

// NewDecoder creates a new QR code Decoder.
func NewDecoder() *Decoder {
	return &Decoder{rsDecoder: reedsolomon.NewDecoder(reedsolomon.QRCodeField256)}
}

// Decode decodes a BitMatrix into a DecoderResult. If a straight read fails,
// it retries assuming the symbol was sampled mirror-imaged (a real failure
// mode when the detector can't tell which way a damaged finder pattern
// triangle faces).
func (d *Decoder) Decode(bits *bitutil.BitMatrix, characterSet string) (*internal.DecoderResult, error) {
	parser, err := NewBitMatrixParser(bits)
	if err != nil {
		return nil, err
	}
	if result, err := d.decodeParser(parser, characterSet); err == nil {
		return result, nil
	} else if mirrored, mErr := d.decodeMirrored(parser, characterSet); mErr == nil {
		return mirrored, nil
	} else {
		return nil, err
	}
}

func (d *Decoder) decodeMirrored(parser *BitMatrixParser, characterSet string) (*internal.DecoderResult, error) {
	parser.Remask()
	parser.SetMirror(true)
	if _, err := parser.ReadVersion(); err != nil {
		return nil, err
	}
	if _, err := parser.ReadFormatInformation(); err != nil {
		return nil, err
	}
	parser.Mirror()
	return d.decodeParser(parser, characterSet)
}

func (d *Decoder) decodeParser(parser *BitMatrixParser, characterSet string) (*internal.DecoderResult, error) {
	version, err := parser.ReadVersion()
	if err != nil {
		return nil, err
	}
	formatInfo, err := parser.ReadFormatInformation()
	if err != nil {
		return nil, err
	}

	codewords, err := parser.ReadCodewords()
	if err != nil {
		return nil, err
	}
	dataBlocks := GetDataBlocks(codewords, version, formatInfo.ECLevel)

	resultBytes, errorsCorrected, err := d.correctBlocks(dataBlocks)
	if err != nil {
		return nil, err
	}

	result, err := DecodeBitStream(resultBytes, version, formatInfo.ECLevel, characterSet)
	if err != nil {
		return nil, err
	}
	result.ErrorsCorrected = errorsCorrected
	return result, nil
}

// correctBlocks runs error correction over every data block and
// concatenates their corrected data codewords back into one stream.
func (d *Decoder) correctBlocks(dataBlocks []DataBlock) ([]byte, int, error) {
	totalBytes := 0
	for _, db := range dataBlocks {
		totalBytes += db.NumDataCodewords
	}
	resultBytes := make([]byte, totalBytes)
	resultOffset := 0
	errorsCorrected := 0

	for _, db := range dataBlocks {
		corrected, err := d.correctErrors(db.Codewords, db.NumDataCodewords)
		if err != nil {
			return nil, 0, err
		}
		errorsCorrected += corrected
		resultOffset += copy(resultBytes[resultOffset:], db.Codewords[:db.NumDataCodewords])
	}
	return resultBytes, errorsCorrected, nil
}

func (d *Decoder) correctErrors(codewordBytes []byte, numDataCodewords int) (int, error) {
	numCodewords := len(codewordBytes)
	codewordsInts := make([]int, numCodewords)
	for i, b := range codewordBytes {
		codewordsInts[i] = int(b)
	}
	corrected, err := d.rsDecoder.Decode(codewordsInts, numCodewords-numDataCodewords)
	if err != nil {
		return 0, rxing.ErrChecksum
	}
	for i := 0; i < numDataCodewords; i++ {
		codewordBytes[i] = byte(codewordsInts[i])
	}
	return corrected, nil
}
