package aztec

import (
	"fmt"
	"strconv"

	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/aztec/encoder"
	"github.com/rxing-core/rxing-sub004/bitutil"
)

// Writer encodes Aztec barcodes.
type Writer struct{}

// NewWriter creates a new Aztec Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Encode encodes the given contents into an Aztec BitMatrix.
func (w *Writer) Encode(contents string, format rxing.Format, width, height int, opts *rxing.EncodeOptions) (*bitutil.BitMatrix, error) {
	if contents == "" {
		return nil, fmt.Errorf("found empty contents")
	}
	if format != rxing.FormatAztec {
		return nil, fmt.Errorf("can only encode AZTEC, but got %s", format)
	}

	minECCPercent := 33
	layers := 0
	if opts != nil {
		if opts.ErrorCorrection != "" {
			percent, err := strconv.Atoi(opts.ErrorCorrection)
			if err != nil || percent < 0 {
				return nil, fmt.Errorf("invalid Aztec error correction percent: %s", opts.ErrorCorrection)
			}
			minECCPercent = percent
		}
		if opts.AztecLayers != 0 {
			if opts.AztecLayers < -4 || opts.AztecLayers > 32 {
				return nil, fmt.Errorf("aztec layers must be in [-4,32], got %d", opts.AztecLayers)
			}
			layers = opts.AztecLayers
		}
	}

	code, err := encoder.Encode([]byte(contents), minECCPercent, layers)
	if err != nil {
		return nil, err
	}

	quietZone := 1
	if opts != nil && opts.Margin != nil {
		quietZone = *opts.Margin
	}
	return renderMatrixWithQuietZone(code.Matrix, width, height, quietZone), nil
}

// renderMatrixWithQuietZone scales the encoded Aztec symbol to fit the
// requested width and height, preserving the module aspect ratio and
// surrounding it with the requested quiet zone.
func renderMatrixWithQuietZone(code *bitutil.BitMatrix, width, height, quietZone int) *bitutil.BitMatrix {
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
