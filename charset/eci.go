// Package charset provides character set ECI mappings and encoding detection.
package charset

import "errors"

// ErrFormatECI indicates an invalid ECI value.
var ErrFormatECI = errors.New("charset: invalid ECI value")

// ECI represents a Character Set Extended Channel Interpretation: a
// numbered encoding (per AIM ECI) paired with the Go standard library /
// golang.org/x/text encoding name used to decode bytes tagged with it.
type ECI struct {
	Value   int
	Name    string
	GoName  string
	Aliases []string
}

// eciEntry is a table row: the canonical ECI plus any value numbers beyond
// Value itself that should also resolve to it (some encodings were assigned
// more than one ECI number over the life of the standard).
type eciEntry struct {
	eci        *ECI
	extraValues []int
}

var (
	ECICp437      = &ECI{Value: 0, Name: "Cp437", GoName: "IBM437"}
	ECIISO8859_1  = &ECI{Value: 1, Name: "ISO8859_1", GoName: "ISO8859_1", Aliases: []string{"ISO-8859-1"}}
	ECIISO8859_2  = &ECI{Value: 4, Name: "ISO8859_2", GoName: "ISO8859_2", Aliases: []string{"ISO-8859-2"}}
	ECIISO8859_3  = &ECI{Value: 5, Name: "ISO8859_3", GoName: "ISO8859_3", Aliases: []string{"ISO-8859-3"}}
	ECIISO8859_4  = &ECI{Value: 6, Name: "ISO8859_4", GoName: "ISO8859_4", Aliases: []string{"ISO-8859-4"}}
	ECIISO8859_5  = &ECI{Value: 7, Name: "ISO8859_5", GoName: "ISO8859_5", Aliases: []string{"ISO-8859-5"}}
	ECIISO8859_6  = &ECI{Value: 8, Name: "ISO8859_6", GoName: "ISO8859_6", Aliases: []string{"ISO-8859-6"}}
	ECIISO8859_7  = &ECI{Value: 9, Name: "ISO8859_7", GoName: "ISO8859_7", Aliases: []string{"ISO-8859-7"}}
	ECIISO8859_8  = &ECI{Value: 10, Name: "ISO8859_8", GoName: "ISO8859_8", Aliases: []string{"ISO-8859-8"}}
	ECIISO8859_9  = &ECI{Value: 11, Name: "ISO8859_9", GoName: "ISO8859_9", Aliases: []string{"ISO-8859-9"}}
	ECIISO8859_10 = &ECI{Value: 12, Name: "ISO8859_10", GoName: "ISO8859_10", Aliases: []string{"ISO-8859-10"}}
	ECIISO8859_11 = &ECI{Value: 13, Name: "ISO8859_11", GoName: "ISO8859_11", Aliases: []string{"ISO-8859-11"}}
	ECIISO8859_13 = &ECI{Value: 15, Name: "ISO8859_13", GoName: "ISO8859_13", Aliases: []string{"ISO-8859-13"}}
	ECIISO8859_14 = &ECI{Value: 16, Name: "ISO8859_14", GoName: "ISO8859_14", Aliases: []string{"ISO-8859-14"}}
	ECIISO8859_15 = &ECI{Value: 17, Name: "ISO8859_15", GoName: "ISO8859_15", Aliases: []string{"ISO-8859-15"}}
	ECIISO8859_16 = &ECI{Value: 18, Name: "ISO8859_16", GoName: "ISO8859_16", Aliases: []string{"ISO-8859-16"}}
	ECISJIS       = &ECI{Value: 20, Name: "SJIS", GoName: "Shift_JIS", Aliases: []string{"Shift_JIS"}}
	ECICp1250     = &ECI{Value: 21, Name: "Cp1250", GoName: "Windows1250", Aliases: []string{"windows-1250"}}
	ECICp1251     = &ECI{Value: 22, Name: "Cp1251", GoName: "Windows1251", Aliases: []string{"windows-1251"}}
	ECICp1252     = &ECI{Value: 23, Name: "Cp1252", GoName: "Windows1252", Aliases: []string{"windows-1252"}}
	ECICp1256     = &ECI{Value: 24, Name: "Cp1256", GoName: "Windows1256", Aliases: []string{"windows-1256"}}
	ECIUTF16BE    = &ECI{Value: 25, Name: "UnicodeBigUnmarked", GoName: "UTF-16BE", Aliases: []string{"UTF-16BE", "UnicodeBig"}}
	ECIUTF8       = &ECI{Value: 26, Name: "UTF8", GoName: "UTF-8", Aliases: []string{"UTF-8"}}
	ECIASCII      = &ECI{Value: 27, Name: "ASCII", GoName: "US-ASCII", Aliases: []string{"US-ASCII"}}
	ECIBig5       = &ECI{Value: 28, Name: "Big5", GoName: "Big5"}
	ECIGB18030    = &ECI{Value: 29, Name: "GB18030", GoName: "GB18030", Aliases: []string{"GB2312", "EUC_CN", "GBK"}}
	ECIEUC_KR     = &ECI{Value: 30, Name: "EUC_KR", GoName: "EUC-KR", Aliases: []string{"EUC-KR"}}
)

// eciTable lists every ECI this package knows about along with the extra
// legacy value numbers (beyond the canonical Value field) that also
// identify it. Cp437, ISO-8859-1 and ASCII each picked up more than one ECI
// number over time; everything else has exactly one.
var eciTable = []eciEntry{
	{ECICp437, []int{2}},
	{ECIISO8859_1, []int{3}},
	{ECIISO8859_2, nil},
	{ECIISO8859_3, nil},
	{ECIISO8859_4, nil},
	{ECIISO8859_5, nil},
	{ECIISO8859_6, nil},
	{ECIISO8859_7, nil},
	{ECIISO8859_8, nil},
	{ECIISO8859_9, nil},
	{ECIISO8859_10, nil},
	{ECIISO8859_11, nil},
	{ECIISO8859_13, nil},
	{ECIISO8859_14, nil},
	{ECIISO8859_15, nil},
	{ECIISO8859_16, nil},
	{ECISJIS, nil},
	{ECICp1250, nil},
	{ECICp1251, nil},
	{ECICp1252, nil},
	{ECICp1256, nil},
	{ECIUTF16BE, nil},
	{ECIUTF8, nil},
	{ECIASCII, []int{170}},
	{ECIBig5, nil},
	{ECIGB18030, nil},
	{ECIEUC_KR, nil},
}

var valueToECI = buildValueIndex(eciTable)
var nameToECI = buildNameIndex(eciTable)

func buildValueIndex(table []eciEntry) map[int]*ECI {
	index := make(map[int]*ECI, len(table)*2)
	for _, row := range table {
		index[row.eci.Value] = row.eci
		for _, extra := range row.extraValues {
			index[extra] = row.eci
		}
	}
	return index
}

func buildNameIndex(table []eciEntry) map[string]*ECI {
	index := make(map[string]*ECI, len(table)*3)
	for _, row := range table {
		index[row.eci.Name] = row.eci
		index[row.eci.GoName] = row.eci
		for _, alias := range row.eci.Aliases {
			index[alias] = row.eci
		}
	}
	return index
}

// GetECIByValue returns the ECI for the given value, or an error if the
// value is outside the valid ECI range.
func GetECIByValue(value int) (*ECI, error) {
	if value < 0 || value >= 900 {
		return nil, ErrFormatECI
	}
	return valueToECI[value], nil
}

// GetECIByName returns the ECI matching name (a canonical name, Go encoding
// name, or alias), or nil if none match.
func GetECIByName(name string) *ECI {
	return nameToECI[name]
}
