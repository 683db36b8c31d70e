// Package qrcode provides multi-QR code detection and structured append support.
package qrcode

import (
	"fmt"
	"sort"

	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/qrcode/decoder"
	"github.com/rxing-core/rxing-sub004/qrcode/detector"
)

// QRCodeMultiReader can detect and decode multiple QR codes in an image,
// and also combines structured append results.
type QRCodeMultiReader struct {
	dec *decoder.Decoder
}

// NewQRCodeMultiReader creates a new QRCodeMultiReader.
func NewQRCodeMultiReader() *QRCodeMultiReader {
	return &QRCodeMultiReader{dec: decoder.NewDecoder()}
}

// DecodeMultiple detects and decodes all QR codes in the image.
func (r *QRCodeMultiReader) DecodeMultiple(image *rxing.BinaryBitmap, opts *rxing.DecodeOptions) ([]*rxing.Result, error) {
	if opts == nil {
		opts = &rxing.DecodeOptions{}
	}

	matrix, err := image.BlackMatrix()
	if err != nil {
		return nil, err
	}

	detectorResults, err := detector.DetectMulti(matrix, opts.TryHarder)
	if err != nil {
		return nil, err
	}

	var results []*rxing.Result
	for _, detResult := range detectorResults {
		dr, err := r.dec.Decode(detResult.Bits, opts.CharacterSet)
		if err != nil {
			continue
		}

		points := make([]rxing.ResultPoint, len(detResult.Points))
		for i, p := range detResult.Points {
			points[i] = rxing.ResultPoint{X: p.X, Y: p.Y}
		}

		result := rxing.NewResult(dr.Text, dr.RawBytes, points, rxing.FormatQRCode)
		if dr.ByteSegments != nil {
			result.PutMetadata(rxing.MetadataByteSegments, dr.ByteSegments)
		}
		if dr.ECLevel != "" {
			result.PutMetadata(rxing.MetadataErrorCorrectionLevel, dr.ECLevel)
		}
		if dr.HasStructuredAppend() {
			result.PutMetadata(rxing.MetadataStructuredAppendSequence, dr.StructuredAppendSequenceNumber)
			result.PutMetadata(rxing.MetadataStructuredAppendParity, dr.StructuredAppendParity)
		}
		result.PutMetadata(rxing.MetadataErrorsCorrected, dr.ErrorsCorrected)
		result.PutMetadata(rxing.MetadataSymbologyIdentifier, fmt.Sprintf("]Q%d", dr.SymbologyModifier))

		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, rxing.ErrNotFound
	}

	results = processStructuredAppend(results)
	return results, nil
}

// Decode decodes a single QR code (delegate to standard reader behavior).
func (r *QRCodeMultiReader) Decode(image *rxing.BinaryBitmap, opts *rxing.DecodeOptions) (*rxing.Result, error) {
	results, err := r.DecodeMultiple(image, opts)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Reset is a no-op.
func (r *QRCodeMultiReader) Reset() {}

func processStructuredAppend(results []*rxing.Result) []*rxing.Result {
	var newResults []*rxing.Result
	var saResults []*rxing.Result

	for _, result := range results {
		if _, ok := result.Metadata[rxing.MetadataStructuredAppendSequence]; ok {
			saResults = append(saResults, result)
		} else {
			newResults = append(newResults, result)
		}
	}

	if len(saResults) == 0 {
		return results
	}

	// Sort by sequence number
	sort.Slice(saResults, func(i, j int) bool {
		seqI, _ := saResults[i].Metadata[rxing.MetadataStructuredAppendSequence].(int)
		seqJ, _ := saResults[j].Metadata[rxing.MetadataStructuredAppendSequence].(int)
		return seqI < seqJ
	})

	// Concatenate text and raw bytes
	var combinedText string
	var combinedRawBytes []byte
	var combinedByteSegment []byte
	for _, sa := range saResults {
		combinedText += sa.Text
		if sa.RawBytes != nil {
			combinedRawBytes = append(combinedRawBytes, sa.RawBytes...)
		}
		if segs, ok := sa.Metadata[rxing.MetadataByteSegments].([][]byte); ok {
			for _, seg := range segs {
				combinedByteSegment = append(combinedByteSegment, seg...)
			}
		}
	}

	combined := rxing.NewResult(combinedText, combinedRawBytes, nil, rxing.FormatQRCode)
	if len(combinedByteSegment) > 0 {
		combined.PutMetadata(rxing.MetadataByteSegments, [][]byte{combinedByteSegment})
	}
	newResults = append(newResults, combined)
	return newResults
}

// DecodeMultipleFromResults is a convenience for combining results that may
// have been decoded separately but share structured append metadata.
func DecodeMultipleFromResults(results []*rxing.Result) []*rxing.Result {
	return processStructuredAppend(results)
}

// ensure interface compliance
var _ rxing.MultipleBarcodeReader = (*QRCodeMultiReader)(nil)
var _ rxing.Reader = (*QRCodeMultiReader)(nil)
