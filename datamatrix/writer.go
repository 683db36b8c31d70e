package datamatrix

import (
	"fmt"

	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
	"github.com/rxing-core/rxing-sub004/datamatrix/encoder"
)

const defaultQuietZoneSize = 1

// Writer encodes Data Matrix (ECC-200) barcodes.
type Writer struct{}

// NewWriter creates a new Data Matrix Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Encode encodes the given contents into a Data Matrix BitMatrix.
func (w *Writer) Encode(contents string, format rxing.Format, width, height int, opts *rxing.EncodeOptions) (*bitutil.BitMatrix, error) {
	if contents == "" {
		return nil, fmt.Errorf("found empty contents")
	}
	if format != rxing.FormatDataMatrix {
		return nil, fmt.Errorf("can only encode DATA_MATRIX, but got %s", format)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("requested dimensions are too small: %dx%d", width, height)
	}

	shape := encoder.ShapeHintForceNone
	quietZone := defaultQuietZoneSize
	forceC40 := false

	if opts != nil {
		if opts.Margin != nil {
			quietZone = *opts.Margin
		}
		switch opts.DataMatrixShape {
		case rxing.DataMatrixShapeForceSquare:
			shape = encoder.ShapeHintForceSquare
		case rxing.DataMatrixShapeForceRectangle:
			shape = encoder.ShapeHintForceRectangle
		}
		if opts.ForceC40 {
			forceC40 = true
		}
	}

	matrix, err := encoder.EncodeWithShapeAndMode(contents, shape, forceC40)
	if err != nil {
		return nil, err
	}

	return renderMatrix(matrix, width, height, quietZone), nil
}

// renderMatrix scales the encoded symbol to the requested dimensions,
// centering it within a quiet zone of the requested number of modules.
func renderMatrix(code *bitutil.BitMatrix, width, height, quietZone int) *bitutil.BitMatrix {
	inputWidth := code.Width()
	inputHeight := code.Height()

	qz := quietZone
	if qz < 0 {
		qz = 0
	}
	outputWidth := inputWidth + 2*qz
	outputHeight := inputHeight + 2*qz

	if width < outputWidth {
		width = outputWidth
	}
	if height < outputHeight {
		height = outputHeight
	}

	multiple := width / outputWidth
	if h := height / outputHeight; h < multiple {
		multiple = h
	}
	if multiple < 1 {
		multiple = 1
	}

	leftPadding := (width - inputWidth*multiple) / 2
	topPadding := (height - inputHeight*multiple) / 2

	result := bitutil.NewBitMatrixWithSize(width, height)
	for inputY := 0; inputY < inputHeight; inputY++ {
		outputY := topPadding + inputY*multiple
		for inputX := 0; inputX < inputWidth; inputX++ {
			if code.Get(inputX, inputY) {
				outputX := leftPadding + inputX*multiple
				for y := 0; y < multiple; y++ {
					for x := 0; x < multiple; x++ {
						result.Set(outputX+x, outputY+y)
					}
				}
			}
		}
	}
	return result
}

// Compile-time check.
var _ rxing.Writer = (*Writer)(nil)
