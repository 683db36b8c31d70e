package decoder

import (
	"strings"

	rxing "github.com/rxing-core/rxing-sub004"
)

// DecoderResult holds the decoded text and raw bytes from a Data Matrix barcode.
type DecoderResult struct {
	Text              string
	RawBytes          []byte
	ErrorsCorrected   int
	SymbologyModifier int
}

// encoding mode a Data Matrix codeword stream can be latched into.
type streamMode int

const (
	modeASCII   streamMode = iota // default start mode
	modeC40                       // C40 encoding
	modeText                      // Text encoding
	modeX12                       // ANSI X12 encoding
	modeEDIFACT                   // EDIFACT encoding
	modeBase256                   // Base 256 encoding
	modePad                       // padding reached — stop
)

// c40TextShift2 is the C40/Text shift-2 lookup table. Index 0-26 map to
// printable characters, 27 is FNC1, 28-29 are reserved, 30 is Upper Shift.
var c40TextShift2 = [32]byte{
	'!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	':', ';', '<', '=', '>', '?', '@', '[', '\\', ']', '^', '_',
	0x1D, // 27: FNC1 (GS)
	0,    // 28: reserved (Structured Append)
	0,    // 29: reserved (Upper Shift latch — handled separately for C40/Text)
	0,    // 30: Upper Shift — handled in code
	0,    // 31: padding placeholder
}

// decodeStream dispatches a single latched-mode run starting at *pos and
// reports the mode to continue with.
type decodeStream func(result *strings.Builder, bytes []byte, pos *int) (streamMode, error)

// DecodeBitStream decodes the data codewords of a Data Matrix symbol into text.
func DecodeBitStream(bytes []byte) (*DecoderResult, error) {
	var result strings.Builder
	mode := modeASCII
	pos := 0

	streams := map[streamMode]decodeStream{
		modeASCII:   decodeASCII,
		modeC40:     func(r *strings.Builder, b []byte, p *int) (streamMode, error) { return decodeC40Text(r, b, p, false) },
		modeText:    func(r *strings.Builder, b []byte, p *int) (streamMode, error) { return decodeC40Text(r, b, p, true) },
		modeX12:     decodeAnsiX12,
		modeEDIFACT: decodeEdifact,
		modeBase256: decodeBase256,
	}

	for pos < len(bytes) {
		next, err := streams[mode](&result, bytes, &pos)
		if err != nil {
			return nil, err
		}
		mode = next
		if mode == modePad {
			break
		}
	}

	return &DecoderResult{
		Text:     result.String(),
		RawBytes: bytes,
	}, nil
}

// decodeASCII processes codewords in ASCII mode until a mode latch is hit or
// the data runs out.
func decodeASCII(result *strings.Builder, bytes []byte, pos *int) (streamMode, error) {
	for *pos < len(bytes) {
		b := int(bytes[*pos]) & 0xFF
		*pos++

		switch {
		case b == 0:
			return 0, rxing.ErrFormat
		case b <= 128:
			result.WriteByte(byte(b - 1))
		case b == 129:
			return modePad, nil
		case b <= 229:
			pair := b - 130
			result.WriteByte(byte('0' + pair/10))
			result.WriteByte(byte('0' + pair%10))
		case b == 230:
			return modeC40, nil
		case b == 231:
			return modeBase256, nil
		case b == 232:
			result.WriteByte(0x1D) // FNC1
		case b == 233:
			*pos += 2 // Structured Append identifier, ignored
		case b == 234:
			// Reader Programming — ignored
		case b == 235:
			if *pos >= len(bytes) {
				return 0, rxing.ErrFormat
			}
			next := int(bytes[*pos]) & 0xFF
			*pos++
			result.WriteByte(byte(next - 1 + 128))
		case b == 236:
			result.WriteString("[)>\x1E05\x1D")
		case b == 237:
			result.WriteString("[)>\x1E06\x1D")
		case b == 238:
			return modeX12, nil
		case b == 239:
			return modeText, nil
		case b == 240:
			return modeEDIFACT, nil
		case b == 241:
			// ECI — not fully supported; skip
		default:
			// 242-255: not used, treated as pad
		}
	}
	return modeASCII, nil
}

// readTriplet consumes two codewords and splits them into the three base-40
// values C40, Text, and X12 mode all pack the same way. ok is false when c1
// is the 254 unlatch codeword, in which case no value triplet is produced.
func readTriplet(bytes []byte, pos *int) (values [3]int, ok bool) {
	c1 := int(bytes[*pos]) & 0xFF
	*pos++
	if c1 == 254 {
		return values, false
	}
	c2 := int(bytes[*pos]) & 0xFF
	*pos++

	v := c1*256 + c2 - 1
	return [3]int{v / 1600, (v / 40) % 40, v % 40}, true
}

// decodeC40Text decodes C40 or Text mode encoded data. In C40 mode the basic
// set encodes space, 0-9, A-Z; in Text mode it encodes space, 0-9, a-z.
func decodeC40Text(result *strings.Builder, bytes []byte, pos *int, textMode bool) (streamMode, error) {
	shift := 0
	upperShift := false

	for *pos < len(bytes)-1 {
		triplet, ok := readTriplet(bytes, pos)
		if !ok {
			return modeASCII, nil
		}

		for _, cVal := range triplet {
			switch shift {
			case 0: // Basic set
				switch {
				case cVal < 3:
					shift = cVal + 1
					continue
				case cVal == 3:
					appendWithShift(result, ' ', upperShift)
				case cVal <= 13:
					appendWithShift(result, byte('0'+cVal-4), upperShift)
				case textMode:
					appendWithShift(result, byte('a'+cVal-14), upperShift)
				default:
					appendWithShift(result, byte('A'+cVal-14), upperShift)
				}
				upperShift = false

			case 1: // Shift 1 set: ASCII 0-31
				appendWithShift(result, byte(cVal), upperShift)
				upperShift = false
				shift = 0

			case 2: // Shift 2 set
				switch {
				case cVal < 27:
					appendWithShift(result, c40TextShift2[cVal], upperShift)
					upperShift = false
				case cVal == 27:
					appendWithShift(result, 0x1D, upperShift) // FNC1
					upperShift = false
				case cVal == 30:
					upperShift = true // next character gets +128
				}
				// 28, 29, 31 are reserved/ignored
				shift = 0

			case 3: // Shift 3 set: ` <letters> { | } ~ DEL
				appendWithShift(result, shift3Char(cVal, textMode), upperShift)
				upperShift = false
				shift = 0
			}
		}
	}

	// A trailing single byte is treated as an ASCII codeword after an
	// implicit unlatch.
	return modeASCII, nil
}

// shift3Char maps a Shift-3 value to its character. Text mode uses uppercase
// A-Z where C40 mode uses lowercase a-z; the punctuation tail is shared.
func shift3Char(cVal int, textMode bool) byte {
	switch {
	case cVal == 0:
		return '`'
	case cVal <= 26:
		if textMode {
			return byte('A' + cVal - 1)
		}
		return byte('a' + cVal - 1)
	}
	switch cVal {
	case 27:
		return '{'
	case 28:
		return '|'
	case 29:
		return '}'
	case 30:
		return '~'
	case 31:
		return 127
	}
	return 0
}

func appendWithShift(result *strings.Builder, ch byte, upperShift bool) {
	if upperShift {
		result.WriteByte(ch + 128)
	} else {
		result.WriteByte(ch)
	}
}

// decodeAnsiX12 decodes ANSI X12 encoded data. Its basic set is CR, *, >,
// space, 0-9, A-Z.
func decodeAnsiX12(result *strings.Builder, bytes []byte, pos *int) (streamMode, error) {
	for *pos < len(bytes)-1 {
		triplet, ok := readTriplet(bytes, pos)
		if !ok {
			return modeASCII, nil
		}
		for _, cVal := range triplet {
			switch {
			case cVal == 0:
				result.WriteByte('\r')
			case cVal == 1:
				result.WriteByte('*')
			case cVal == 2:
				result.WriteByte('>')
			case cVal == 3:
				result.WriteByte(' ')
			case cVal >= 4 && cVal <= 13:
				result.WriteByte(byte('0' + cVal - 4))
			case cVal >= 14 && cVal <= 39:
				result.WriteByte(byte('A' + cVal - 14))
			}
		}
	}
	return modeASCII, nil
}

// decodeEdifact decodes EDIFACT encoded data, which packs four 6-bit values
// into three codewords (24 bits).
func decodeEdifact(result *strings.Builder, bytes []byte, pos *int) (streamMode, error) {
	for *pos < len(bytes) {
		if *pos+3 > len(bytes) {
			break
		}

		b1 := int(bytes[*pos]) & 0xFF
		b2 := int(bytes[*pos+1]) & 0xFF
		b3 := int(bytes[*pos+2]) & 0xFF
		*pos += 3

		vals := [4]int{
			(b1 >> 2) & 0x3F,
			((b1 & 0x03) << 4) | ((b2 >> 4) & 0x0F),
			((b2 & 0x0F) << 2) | ((b3 >> 6) & 0x03),
			b3 & 0x3F,
		}
		for _, ev := range vals {
			if ev == 31 {
				return modeASCII, nil
			}
			// EDIFACT values are ASCII 64-127 with the top bit folded down.
			ch := ev
			if ch&0x20 == 0 {
				ch |= 0x40
			}
			result.WriteByte(byte(ch))
		}
	}
	return modeASCII, nil
}

// decodeBase256 decodes Base 256 encoded data: a pseudo-randomized length
// field followed by that many pseudo-randomized raw bytes.
func decodeBase256(result *strings.Builder, bytes []byte, pos *int) (streamMode, error) {
	count, err := readBase256Length(bytes, pos)
	if err != nil {
		return 0, err
	}
	if count < 0 || *pos+count > len(bytes) {
		return 0, rxing.ErrFormat
	}

	for i := 0; i < count; i++ {
		ch := unRandomize255State(int(bytes[*pos])&0xFF, *pos+1)
		*pos++
		result.WriteByte(byte(ch))
	}
	return modeASCII, nil
}

// readBase256Length reads the one- or two-byte Base 256 length field. A
// first byte of 0 means "rest of symbol"; values 250-255 introduce a second
// length byte.
func readBase256Length(bytes []byte, pos *int) (int, error) {
	if *pos >= len(bytes) {
		return 0, rxing.ErrFormat
	}
	d1 := unRandomize255State(int(bytes[*pos])&0xFF, *pos+1)
	*pos++

	switch {
	case d1 == 0:
		return len(bytes) - *pos, nil
	case d1 < 250:
		return d1, nil
	default:
		if *pos >= len(bytes) {
			return 0, rxing.ErrFormat
		}
		d2 := unRandomize255State(int(bytes[*pos])&0xFF, *pos+1)
		*pos++
		return 250*(d1-249) + d2, nil
	}
}

// unRandomize255State removes the 255-state pseudo-random masking used in
// Base 256 mode. codewordPosition is the 1-based position of the codeword
// in the data stream (including the length field).
func unRandomize255State(randomizedBase256Codeword, codewordPosition int) int {
	pseudoRandomNumber := ((149 * codewordPosition) % 255) + 1
	tempVariable := randomizedBase256Codeword - pseudoRandomNumber
	if tempVariable >= 0 {
		return tempVariable
	}
	return tempVariable + 256
}
