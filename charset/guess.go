package charset

import (
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// byteDecoder converts data in some non-UTF-8 encoding to UTF-8, returning
// ok=false if the conversion failed (leaving the caller to fall back to the
// raw bytes).
type byteDecoder func(data []byte) (string, bool)

var byteDecoders = map[string]byteDecoder{
	"Shift_JIS": decodeVia(japanese.ShiftJIS.NewDecoder()),
	"SJIS":      decodeVia(japanese.ShiftJIS.NewDecoder()),
	"GB18030":   decodeVia(simplifiedchinese.GB18030.NewDecoder()),
	"GB2312":    decodeVia(simplifiedchinese.GB18030.NewDecoder()),
	"GBK":       decodeVia(simplifiedchinese.GB18030.NewDecoder()),
	"EUC_CN":    decodeVia(simplifiedchinese.GB18030.NewDecoder()),
}

func decodeVia(t transform.Transformer) byteDecoder {
	return func(data []byte) (string, bool) {
		decoded, _, err := transform.Bytes(t, data)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	}
}

// DecodeBytes converts data from the named encoding to UTF-8. Encodings this
// package has no decoder for (including UTF-8/ASCII/ISO-8859-1, which need
// no conversion) pass the bytes through unchanged, as does a conversion
// failure.
func DecodeBytes(data []byte, encoding string) string {
	if decode, ok := byteDecoders[encoding]; ok {
		if s, ok := decode(data); ok {
			return s
		}
	}
	return string(data)
}

// charsetScan accumulates the running state of three candidate-encoding
// scanners (UTF-8, ISO-8859-1, Shift_JIS) over a byte sequence, each
// disqualified independently the moment a byte violates its encoding.
type charsetScan struct {
	canUTF8, canISO88591, canShiftJIS bool

	utf8BytesLeft                                   int
	utf2ByteChars, utf3ByteChars, utf4ByteChars     int
	isoHighOther                                    int
	sjisBytesLeft                                   int
	sjisKatakanaChars                               int
	sjisCurKatakanaRun, sjisMaxKatakanaRun           int
	sjisCurDoubleByteRun, sjisMaxDoubleByteRun       int
}

func newCharsetScan() *charsetScan {
	return &charsetScan{canUTF8: true, canISO88591: true, canShiftJIS: true}
}

func (s *charsetScan) active() bool {
	return s.canUTF8 || s.canISO88591 || s.canShiftJIS
}

func (s *charsetScan) step(value int) {
	if s.canUTF8 {
		s.stepUTF8(value)
	}
	if s.canISO88591 {
		s.stepISO88591(value)
	}
	if s.canShiftJIS {
		s.stepShiftJIS(value)
	}
}

func (s *charsetScan) stepUTF8(value int) {
	if s.utf8BytesLeft > 0 {
		if value&0x80 == 0 {
			s.canUTF8 = false
		} else {
			s.utf8BytesLeft--
		}
		return
	}
	if value&0x80 == 0 {
		return
	}
	if value&0x40 == 0 {
		s.canUTF8 = false
		return
	}
	s.utf8BytesLeft++
	if value&0x20 == 0 {
		s.utf2ByteChars++
		return
	}
	s.utf8BytesLeft++
	if value&0x10 == 0 {
		s.utf3ByteChars++
		return
	}
	s.utf8BytesLeft++
	if value&0x08 == 0 {
		s.utf4ByteChars++
		return
	}
	s.canUTF8 = false
}

func (s *charsetScan) stepISO88591(value int) {
	if value > 0x7F && value < 0xA0 {
		s.canISO88591 = false
	} else if value > 0x9F && (value < 0xC0 || value == 0xD7 || value == 0xF7) {
		s.isoHighOther++
	}
}

func (s *charsetScan) stepShiftJIS(value int) {
	switch {
	case s.sjisBytesLeft > 0:
		if value < 0x40 || value == 0x7F || value > 0xFC {
			s.canShiftJIS = false
			return
		}
		s.sjisBytesLeft--
	case value == 0x80 || value == 0xA0 || value > 0xEF:
		s.canShiftJIS = false
	case value > 0xA0 && value < 0xE0:
		s.sjisKatakanaChars++
		s.sjisCurDoubleByteRun = 0
		s.sjisCurKatakanaRun++
		if s.sjisCurKatakanaRun > s.sjisMaxKatakanaRun {
			s.sjisMaxKatakanaRun = s.sjisCurKatakanaRun
		}
	case value > 0x7F:
		s.sjisBytesLeft++
		s.sjisCurKatakanaRun = 0
		s.sjisCurDoubleByteRun++
		if s.sjisCurDoubleByteRun > s.sjisMaxDoubleByteRun {
			s.sjisMaxDoubleByteRun = s.sjisCurDoubleByteRun
		}
	default:
		s.sjisCurKatakanaRun = 0
		s.sjisCurDoubleByteRun = 0
	}
}

// decide applies the end-of-scan tie-breaking rules and returns the guessed
// encoding name.
func (s *charsetScan) decide(length int, utf8bom bool) string {
	if s.canUTF8 && s.utf8BytesLeft > 0 {
		s.canUTF8 = false
	}
	if s.canShiftJIS && s.sjisBytesLeft > 0 {
		s.canShiftJIS = false
	}

	switch {
	case s.canUTF8 && (utf8bom || s.utf2ByteChars+s.utf3ByteChars+s.utf4ByteChars > 0):
		return "UTF-8"
	case s.canShiftJIS && (s.sjisMaxKatakanaRun >= 3 || s.sjisMaxDoubleByteRun >= 3):
		return "Shift_JIS"
	case s.canISO88591 && s.canShiftJIS:
		if (s.sjisMaxKatakanaRun == 2 && s.sjisKatakanaChars == 2) || s.isoHighOther*10 >= length {
			return "Shift_JIS"
		}
		return "ISO-8859-1"
	case s.canISO88591:
		return "ISO-8859-1"
	case s.canShiftJIS:
		return "Shift_JIS"
	default:
		return "UTF-8"
	}
}

// GuessEncoding attempts to guess the encoding of a byte sequence by running
// three candidate scanners (UTF-8, ISO-8859-1, Shift_JIS) in parallel over
// every byte, each disqualifying itself on the first byte that couldn't
// belong to it, then resolving ties by preferring UTF-8, then the encoding
// with the longest run of characteristic double-byte sequences.
func GuessEncoding(data []byte, characterSet string) string {
	if characterSet != "" {
		return characterSet
	}

	if len(data) > 2 &&
		((data[0] == 0xFE && data[1] == 0xFF) || (data[0] == 0xFF && data[1] == 0xFE)) {
		return "UTF-16"
	}

	utf8bom := len(data) > 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF

	scan := newCharsetScan()
	for i := 0; i < len(data) && scan.active(); i++ {
		scan.step(int(data[i]) & 0xFF)
	}
	return scan.decide(len(data), utf8bom)
}
