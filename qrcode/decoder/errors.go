package decoder

import "errors"

// Sentinel errors surfaced while parsing QR metadata; callers compare against
// these with errors.Is.
var (
	errInvalidECLevel = errors.New("qrcode/decoder: invalid error correction level")
	errInvalidMode    = errors.New("qrcode/decoder: invalid mode")
	errInvalidVersion = errors.New("qrcode/decoder: invalid version number")
)
