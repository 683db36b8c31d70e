package decoder

// Mode represents a QR code data encoding mode. The numeric value is the
// mode's own 4-bit wire encoding.
type Mode int

const (
	ModeTerminator         Mode = 0x00
	ModeNumeric            Mode = 0x01
	ModeAlphanumeric       Mode = 0x02
	ModeStructuredAppend   Mode = 0x03
	ModeByte               Mode = 0x04
	ModeFNC1FirstPosition  Mode = 0x05
	ModeECI                Mode = 0x07
	ModeKanji              Mode = 0x08
	ModeFNC1SecondPosition Mode = 0x09
	ModeHanzi              Mode = 0x0D
)

// characterCountBits holds the [v1-9, v10-26, v27-40] character-count field
// widths for every mode that carries one; modes absent from this map (or
// present with all-zero widths) don't carry a count field at all.
var characterCountBits = map[Mode][3]int{
	ModeNumeric:      {10, 12, 14},
	ModeAlphanumeric: {9, 11, 13},
	ModeByte:         {8, 16, 16},
	ModeKanji:        {8, 10, 12},
	ModeHanzi:        {8, 10, 12},
}

// validModes is the set of 4-bit values that decode to a known Mode.
var validModes = map[Mode]bool{
	ModeTerminator: true, ModeNumeric: true, ModeAlphanumeric: true,
	ModeStructuredAppend: true, ModeByte: true, ModeFNC1FirstPosition: true,
	ModeECI: true, ModeKanji: true, ModeFNC1SecondPosition: true, ModeHanzi: true,
}

// ModeForBits returns the Mode for the given 4-bit value.
func ModeForBits(bits int) (Mode, error) {
	m := Mode(bits)
	if !validModes[m] {
		return 0, errInvalidMode
	}
	return m, nil
}

// CharacterCountBits returns the number of bits used to encode the character
// count for this mode in the given version.
func (m Mode) CharacterCountBits(version *Version) int {
	var offset int
	switch number := version.Number; {
	case number <= 9:
		offset = 0
	case number <= 26:
		offset = 1
	default:
		offset = 2
	}
	return characterCountBits[m][offset]
}

// Bits returns the 4-bit encoding of this mode.
func (m Mode) Bits() int {
	return int(m)
}
