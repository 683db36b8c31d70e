package decoder

import (
	"fmt"
	"strings"

	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
	"github.com/rxing-core/rxing-sub004/charset"
	"github.com/rxing-core/rxing-sub004/internal"
)

const alphanumericChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// gb2312Subset is the only Hanzi mode subset this decoder understands; any
// other subset value is skipped rather than decoded as garbage.
const gb2312Subset = 1

// segmentState threads the running decode state across a symbol's mode
// segments: the text built so far, any byte segments collected for the
// caller, ECI/FNC1 bookkeeping, and structured-append fields.
type segmentState struct {
	text             strings.Builder
	byteSegments     [][]byte
	currentECI       *charset.ECI
	fc1InEffect      bool
	hasFNC1First     bool
	hasFNC1Second    bool
	symbolSequence   int
	parityData       int
}

// DecodeBitStream decodes data bytes into a DecoderResult.
func DecodeBitStream(bytes []byte, version *Version, ecLevel ErrorCorrectionLevel, characterSet string) (*internal.DecoderResult, error) {
	bs := bitutil.NewBitSource(bytes)
	state := &segmentState{symbolSequence: -1, parityData: -1}
	state.text.Grow(50)

	for {
		mode, err := readMode(bs)
		if err != nil {
			return nil, err
		}
		if mode == ModeTerminator {
			break
		}
		if err := decodeSegment(bs, mode, version, characterSet, state); err != nil {
			return nil, err
		}
	}

	return internal.NewDecoderResultFull(bytes, state.text.String(), state.byteSegments, ecLevel.String(),
		state.symbolSequence, state.parityData, state.symbologyModifier()), nil
}

func readMode(bs *bitutil.BitSource) (Mode, error) {
	if bs.Available() < 4 {
		return ModeTerminator, nil
	}
	modeBits, err := bs.ReadBits(4)
	if err != nil {
		return 0, rxing.ErrFormat
	}
	mode, err := ModeForBits(modeBits)
	if err != nil {
		return 0, rxing.ErrFormat
	}
	return mode, nil
}

func decodeSegment(bs *bitutil.BitSource, mode Mode, version *Version, characterSet string, state *segmentState) error {
	switch mode {
	case ModeFNC1FirstPosition:
		state.hasFNC1First = true
		state.fc1InEffect = true
		return nil
	case ModeFNC1SecondPosition:
		state.hasFNC1Second = true
		state.fc1InEffect = true
		return nil
	case ModeStructuredAppend:
		if bs.Available() < 16 {
			return rxing.ErrFormat
		}
		seq, _ := bs.ReadBits(8)
		par, _ := bs.ReadBits(8)
		state.symbolSequence, state.parityData = seq, par
		return nil
	case ModeECI:
		value, err := parseECIValue(bs)
		if err != nil {
			return err
		}
		eci, err := charset.GetECIByValue(value)
		if err != nil {
			return rxing.ErrFormat
		}
		state.currentECI = eci
		return nil
	case ModeHanzi:
		subsetBits, _ := bs.ReadBits(4)
		count, _ := bs.ReadBits(mode.CharacterCountBits(version))
		if subsetBits != gb2312Subset {
			return nil
		}
		return decodeHanziSegment(bs, &state.text, count)
	}

	count, err := bs.ReadBits(mode.CharacterCountBits(version))
	if err != nil {
		return rxing.ErrFormat
	}
	switch mode {
	case ModeNumeric:
		return decodeNumericSegment(bs, &state.text, count)
	case ModeAlphanumeric:
		return decodeAlphanumericSegment(bs, &state.text, count, state.fc1InEffect)
	case ModeByte:
		seg, err := decodeByteSegment(bs, &state.text, count, state.currentECI, characterSet)
		if err != nil {
			return err
		}
		state.byteSegments = append(state.byteSegments, seg)
		return nil
	case ModeKanji:
		return decodeKanjiSegment(bs, &state.text, count)
	default:
		return rxing.ErrFormat
	}
}

// symbologyModifier reports which AIM symbology-identifier modifier digit
// applies, distinguishing plain/ECI-tagged and FNC1-first/FNC1-second
// variants the way a barcode scanner's "]Qn" prefix would.
func (s *segmentState) symbologyModifier() int {
	switch {
	case s.currentECI != nil && s.hasFNC1First:
		return 4
	case s.currentECI != nil && s.hasFNC1Second:
		return 6
	case s.currentECI != nil:
		return 2
	case s.hasFNC1First:
		return 3
	case s.hasFNC1Second:
		return 5
	default:
		return 1
	}
}

func decodeHanziSegment(bs *bitutil.BitSource, result *strings.Builder, count int) error {
	if count*13 > bs.Available() {
		return rxing.ErrFormat
	}
	buf := make([]byte, 2*count)
	offset := 0
	for count > 0 {
		twoBytes, _ := bs.ReadBits(13)
		assembled := ((twoBytes / 0x060) << 8) | (twoBytes % 0x060)
		if assembled < 0x00A00 {
			assembled += 0x0A1A1
		} else {
			assembled += 0x0A6A1
		}
		buf[offset] = byte((assembled >> 8) & 0xFF)
		buf[offset+1] = byte(assembled & 0xFF)
		offset += 2
		count--
	}
	result.WriteString(charset.DecodeBytes(buf[:offset], "GB18030"))
	return nil
}

func decodeKanjiSegment(bs *bitutil.BitSource, result *strings.Builder, count int) error {
	if count*13 > bs.Available() {
		return rxing.ErrFormat
	}
	buf := make([]byte, 2*count)
	offset := 0
	for count > 0 {
		twoBytes, _ := bs.ReadBits(13)
		assembled := ((twoBytes / 0x0C0) << 8) | (twoBytes % 0x0C0)
		if assembled < 0x01F00 {
			assembled += 0x08140
		} else {
			assembled += 0x0C140
		}
		buf[offset] = byte(assembled >> 8)
		buf[offset+1] = byte(assembled)
		offset += 2
		count--
	}
	result.WriteString(charset.DecodeBytes(buf[:offset], "Shift_JIS"))
	return nil
}

func decodeByteSegment(bs *bitutil.BitSource, result *strings.Builder, count int,
	currentECI *charset.ECI, characterSet string) ([]byte, error) {
	if 8*count > bs.Available() {
		return nil, rxing.ErrFormat
	}
	readBytes := make([]byte, count)
	for i := range readBytes {
		val, _ := bs.ReadBits(8)
		readBytes[i] = byte(val)
	}

	encoding := charset.GuessEncoding(readBytes, characterSet)
	if currentECI != nil {
		encoding = currentECI.GoName
	}
	result.WriteString(charset.DecodeBytes(readBytes, encoding))
	return readBytes, nil
}

func toAlphaNumericChar(value int) (byte, error) {
	if value >= len(alphanumericChars) {
		return 0, rxing.ErrFormat
	}
	return alphanumericChars[value], nil
}

func decodeAlphanumericSegment(bs *bitutil.BitSource, result *strings.Builder, count int, fc1InEffect bool) error {
	start := result.Len()
	for count > 1 {
		if bs.Available() < 11 {
			return rxing.ErrFormat
		}
		nextTwo, _ := bs.ReadBits(11)
		c1, err := toAlphaNumericChar(nextTwo / 45)
		if err != nil {
			return err
		}
		c2, err := toAlphaNumericChar(nextTwo % 45)
		if err != nil {
			return err
		}
		result.WriteByte(c1)
		result.WriteByte(c2)
		count -= 2
	}
	if count == 1 {
		if bs.Available() < 6 {
			return rxing.ErrFormat
		}
		val, _ := bs.ReadBits(6)
		c, err := toAlphaNumericChar(val)
		if err != nil {
			return err
		}
		result.WriteByte(c)
	}
	if fc1InEffect {
		unescapeFNC1(result, start)
	}
	return nil
}

// unescapeFNC1 rewrites the alphanumeric segment written since start,
// turning a doubled '%' back into a literal '%' and a lone '%' into the
// FNC1-in-alphanumeric placeholder byte 0x1D.
func unescapeFNC1(result *strings.Builder, start int) {
	s := result.String()
	var rewritten strings.Builder
	rewritten.WriteString(s[:start])
	for i := start; i < len(s); i++ {
		if s[i] != '%' {
			rewritten.WriteByte(s[i])
			continue
		}
		if i < len(s)-1 && s[i+1] == '%' {
			rewritten.WriteByte('%')
			i++
		} else {
			rewritten.WriteByte(0x1D)
		}
	}
	result.Reset()
	result.WriteString(rewritten.String())
}

func decodeNumericSegment(bs *bitutil.BitSource, result *strings.Builder, count int) error {
	for count >= 3 {
		if bs.Available() < 10 {
			return rxing.ErrFormat
		}
		threeDigits, _ := bs.ReadBits(10)
		if threeDigits >= 1000 {
			return rxing.ErrFormat
		}
		fmt.Fprintf(result, "%03d", threeDigits)
		count -= 3
	}
	switch count {
	case 2:
		if bs.Available() < 7 {
			return rxing.ErrFormat
		}
		twoDigits, _ := bs.ReadBits(7)
		if twoDigits >= 100 {
			return rxing.ErrFormat
		}
		fmt.Fprintf(result, "%02d", twoDigits)
	case 1:
		if bs.Available() < 4 {
			return rxing.ErrFormat
		}
		digit, _ := bs.ReadBits(4)
		if digit >= 10 {
			return rxing.ErrFormat
		}
		fmt.Fprintf(result, "%d", digit)
	}
	return nil
}

func parseECIValue(bs *bitutil.BitSource) (int, error) {
	firstByte, err := bs.ReadBits(8)
	if err != nil {
		return 0, rxing.ErrFormat
	}
	switch {
	case firstByte&0x80 == 0:
		return firstByte & 0x7F, nil
	case firstByte&0xC0 == 0x80:
		secondByte, _ := bs.ReadBits(8)
		return (firstByte&0x3F)<<8 | secondByte, nil
	case firstByte&0xE0 == 0xC0:
		secondThirdBytes, _ := bs.ReadBits(16)
		return (firstByte&0x1F)<<16 | secondThirdBytes, nil
	default:
		return 0, rxing.ErrFormat
	}
}
