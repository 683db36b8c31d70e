// Package internal provides shared result types used across barcode format packages.
package internal

// DecoderResult encapsulates the result of decoding a matrix of bits.
type DecoderResult struct {
	RawBytes                      []byte
	NumBits                       int
	Text                          string
	ByteSegments                  [][]byte
	ECLevel                       string
	ErrorsCorrected               int
	Erasures                      int
	Other                         interface{}
	StructuredAppendParity        int
	StructuredAppendSequenceNumber int
	SymbologyModifier             int
}

// NewDecoderResult creates a DecoderResult with the basic fields and no
// structured-append info.
func NewDecoderResult(rawBytes []byte, text string, byteSegments [][]byte, ecLevel string) *DecoderResult {
	return NewDecoderResultFull(rawBytes, text, byteSegments, ecLevel, -1, -1, 0)
}

// NewDecoderResultFull creates a DecoderResult with structured append info.
// saSequence and saParity of -1 mean "not present", matching HasStructuredAppend.
func NewDecoderResultFull(rawBytes []byte, text string, byteSegments [][]byte,
	ecLevel string, saSequence, saParity, symbologyModifier int) *DecoderResult {
	return &DecoderResult{
		RawBytes:                       rawBytes,
		NumBits:                        bitLength(rawBytes),
		Text:                           text,
		ByteSegments:                   byteSegments,
		ECLevel:                        ecLevel,
		StructuredAppendParity:         saParity,
		StructuredAppendSequenceNumber: saSequence,
		SymbologyModifier:              symbologyModifier,
	}
}

func bitLength(rawBytes []byte) int {
	if rawBytes == nil {
		return 0
	}
	return 8 * len(rawBytes)
}

// HasStructuredAppend returns true if this result has structured append info.
func (d *DecoderResult) HasStructuredAppend() bool {
	return d.StructuredAppendParity >= 0 && d.StructuredAppendSequenceNumber >= 0
}
