package rxing

import "github.com/rxing-core/rxing-sub004/bitutil"

// EncodeOptions configures barcode encoding behavior.
type EncodeOptions struct {
	// ErrorCorrection specifies the error correction level.
	ErrorCorrection string

	// CharacterSet specifies the character set to use when encoding.
	CharacterSet string

	// Margin specifies the margin (quiet zone) in modules around the barcode.
	Margin *int

	// QRVersion forces a specific QR version (1-40).
	QRVersion int

	// QRMaskPattern forces a specific QR mask pattern (0-7).
	QRMaskPattern int

	// QRCompact enables compact QR mode.
	QRCompact bool

	// PDF417Compact enables compact PDF417 mode.
	PDF417Compact bool

	// PDF417Compaction specifies the PDF417 compaction mode.
	PDF417Compaction int

	// PDF417Dimensions specifies min/max rows/cols for PDF417.
	PDF417Dimensions *PDF417DimensionConfig

	// PDF417AutoECI enables automatic ECI selection in PDF417.
	PDF417AutoECI bool

	// GS1Format encodes in GS1 format.
	GS1Format bool

	// ForceCodeSet forces a specific code set (e.g., for Code 128).
	ForceCodeSet string

	// Code128Compact enables compact Code 128 encoding, selecting the
	// charset sequence by memoized dynamic-programming cost minimization
	// instead of the greedy lookahead encoder.
	Code128Compact bool

	// AztecLayers forces the Aztec layer count. Negative values in
	// [-4,-1] force a compact symbol with -layers layers; 0 means auto;
	// positive values in [1,32] force a full-range symbol.
	AztecLayers int

	// DataMatrixCompact is not read by the Data Matrix writer, which always
	// uses the ASCII/C40 encoder; no minimal-cost C40/Text/X12/EDIFACT/
	// Base256 encoder is implemented.
	DataMatrixCompact bool

	// DataMatrixShape constrains the symbol to a square or rectangular
	// layout, or leaves the choice to the encoder.
	DataMatrixShape DataMatrixShapeHint

	// ForceC40 makes the Data Matrix high-level encoder use its C40 encoding
	// (C40 for runs of six or more space/digit/upper-case characters, ASCII
	// elsewhere) without comparing it against the plain ASCII encoding.
	// Mutually exclusive with DataMatrixCompact.
	ForceC40 bool
}

// DataMatrixShapeHint constrains Data Matrix symbol geometry.
type DataMatrixShapeHint int

const (
	// DataMatrixShapeForceNone allows either square or rectangular symbols.
	DataMatrixShapeForceNone DataMatrixShapeHint = iota
	// DataMatrixShapeForceSquare forces a square symbol.
	DataMatrixShapeForceSquare
	// DataMatrixShapeForceRectangle forces a rectangular symbol.
	DataMatrixShapeForceRectangle
)

// PDF417DimensionConfig specifies min/max rows/cols for PDF417.
type PDF417DimensionConfig struct {
	MinRows, MaxRows int
	MinCols, MaxCols int
}

// Writer encodes data into a barcode.
type Writer interface {
	// Encode encodes the given contents into a barcode.
	Encode(contents string, format Format, width, height int, opts *EncodeOptions) (*bitutil.BitMatrix, error)
}
