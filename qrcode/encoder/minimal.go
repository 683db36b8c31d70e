// Copyright 2008 ZXing authors in part.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package encoder

import (
	"fmt"

	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
	"github.com/rxing-core/rxing-sub004/qrcode/decoder"
)

// segment describes one contiguous run of the input encoded in a single
// mode, as chosen by the minimal-cost encoder.
type segment struct {
	mode  decoder.Mode
	start int
	end   int // exclusive
}

// edge is a DP predecessor link: reaching position `end` via a segment of
// mode `mode` starting at `start`, with `bits` total bits for content[0:end].
type edge struct {
	mode  decoder.Mode
	start int
	bits  int
	prev  *edge
}

// EncodeMinimal runs a dynamic-programming search over mode-switch
// boundaries to find the bitstring-minimal segmentation of content into
// NUMERIC/ALPHANUMERIC/BYTE runs, then emits the QR symbol for that
// segmentation. Each input position is a vertex; an edge from i to j
// represents one contiguous segment of a single mode covering content[i:j],
// weighted by that segment's mode-switch header plus its payload bits.
// KANJI and per-run ECI charset switches are not modeled: BYTE runs always
// use the default 8-bit encoding, matching EncodeGS1's ChooseMode fallback.
func EncodeMinimal(content string, ecLevel decoder.ErrorCorrectionLevel, qrVersion int, maskPattern int, gs1 bool) (*QRCode, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty contents", rxing.ErrWriter)
	}

	fnc1Bits := 0
	if gs1 {
		fnc1Bits = 4
	}

	if qrVersion > 0 {
		version, err := decoder.GetVersionForNumber(qrVersion)
		if err != nil {
			return nil, err
		}
		segments, _ := minimalSegmentation(content, version, fnc1Bits)
		return buildFromSegments(content, segments, version, ecLevel, maskPattern, gs1)
	}

	// The character-count field width depends on the version band. Walk
	// versions in increasing order, re-running the DP whenever the band
	// changes, and accept the first version whose capacity fits.
	for vn := 1; vn <= 40; vn++ {
		version, _ := decoder.GetVersionForNumber(vn)
		segments, totalBits := minimalSegmentation(content, version, fnc1Bits)
		ecBlocks := version.ECBlocksForLevel(ecLevel)
		numDataBytes := version.TotalCodewords - ecBlocks.TotalECCodewords()
		if totalBits <= numDataBytes*8 {
			return buildFromSegments(content, segments, version, ecLevel, maskPattern, gs1)
		}
	}
	return nil, fmt.Errorf("%w: data too large for any version", rxing.ErrWriter)
}

// minimalSegmentation runs the core DP: dp[i] holds the cheapest way
// to encode content[0:i], reachable from any valid mode run ending at i.
func minimalSegmentation(content string, version *decoder.Version, fnc1Bits int) ([]segment, int) {
	n := len(content)
	dp := make([]*edge, n+1)
	dp[0] = &edge{bits: fnc1Bits}

	modes := []decoder.Mode{decoder.ModeNumeric, decoder.ModeAlphanumeric, decoder.ModeByte}

	for i := 0; i < n; i++ {
		if dp[i] == nil {
			continue
		}
		for _, m := range modes {
			if !charFitsMode(content[i], m) {
				continue
			}
			// Extend the run for mode m as far as possible from i, adding
			// one DP edge per reachable endpoint so shorter runs remain
			// available as cheaper alternatives when a mode switch pays off.
			j := i
			for j < n && charFitsMode(content[j], m) {
				j++
				header := 4 + m.CharacterCountBits(version)
				payload := segmentPayloadBits(m, j-i)
				total := dp[i].bits + header + payload
				if dp[j] == nil || total < dp[j].bits {
					dp[j] = &edge{mode: m, start: i, bits: total, prev: dp[i]}
				}
			}
		}
	}

	if dp[n] == nil {
		return nil, 1 << 30
	}

	var segs []segment
	cur := dp[n]
	end := n
	for cur != nil && cur.prev != nil {
		segs = append([]segment{{mode: cur.mode, start: cur.start, end: end}}, segs...)
		end = cur.start
		cur = cur.prev
	}
	return segs, dp[n].bits
}

func charFitsMode(c byte, m decoder.Mode) bool {
	switch m {
	case decoder.ModeNumeric:
		return c >= '0' && c <= '9'
	case decoder.ModeAlphanumeric:
		return GetAlphanumericCode(int(c)) >= 0
	case decoder.ModeByte:
		return true
	}
	return false
}

// segmentPayloadBits returns the number of payload bits (excluding the mode
// indicator and character count field) needed to encode `length` characters
// in the given mode.
func segmentPayloadBits(m decoder.Mode, length int) int {
	switch m {
	case decoder.ModeNumeric:
		bits := (length / 3) * 10
		switch length % 3 {
		case 1:
			bits += 4
		case 2:
			bits += 7
		}
		return bits
	case decoder.ModeAlphanumeric:
		bits := (length / 2) * 11
		if length%2 == 1 {
			bits += 6
		}
		return bits
	case decoder.ModeByte:
		return length * 8
	}
	return 0
}

// buildFromSegments emits the final QRCode for a chosen segmentation,
// mirroring Encode's single-mode path but writing one header+payload per
// segment instead of one for the whole message.
func buildFromSegments(content string, segments []segment, version *decoder.Version, ecLevel decoder.ErrorCorrectionLevel, maskPattern int, gs1 bool) (*QRCode, error) {
	bits := bitutil.NewBitArray(0)
	if gs1 {
		bits.AppendBits(uint32(decoder.ModeFNC1FirstPosition.Bits()), 4)
	}

	overallMode := decoder.ModeByte
	if len(segments) == 1 {
		overallMode = segments[0].mode
	}

	for _, seg := range segments {
		bits.AppendBits(uint32(seg.mode.Bits()), 4)
		bits.AppendBits(uint32(seg.end-seg.start), seg.mode.CharacterCountBits(version))
		switch seg.mode {
		case decoder.ModeNumeric:
			if err := appendNumericBytes(content[seg.start:seg.end], bits); err != nil {
				return nil, err
			}
		case decoder.ModeAlphanumeric:
			if err := appendAlphanumericBytes(content[seg.start:seg.end], bits); err != nil {
				return nil, err
			}
		case decoder.ModeByte:
			if err := append8BitBytes(content[seg.start:seg.end], bits); err != nil {
				return nil, err
			}
		}
	}

	ecBlocks := version.ECBlocksForLevel(ecLevel)
	totalBytes := version.TotalCodewords
	numDataBytes := totalBytes - ecBlocks.TotalECCodewords()

	if err := terminateBits(numDataBytes, bits); err != nil {
		return nil, err
	}

	numRSBlocks := ecBlocks.NumBlocks()
	finalBits, err := interleaveWithECBytes(bits, totalBytes, numDataBytes, numRSBlocks)
	if err != nil {
		return nil, err
	}

	qr := &QRCode{
		Mode:        overallMode,
		ECLevel:     ecLevel,
		Version:     version,
		MaskPattern: -1,
	}

	dimension := version.DimensionForVersion()
	matrix := NewByteMatrix(dimension, dimension)

	if maskPattern >= 0 && maskPattern < numMaskPatterns {
		qr.MaskPattern = maskPattern
	} else {
		qr.MaskPattern = chooseMaskPattern(finalBits, ecLevel, version, matrix)
	}

	qr.Matrix = matrix
	buildMatrix(finalBits, ecLevel, version, qr.MaskPattern, matrix)

	return qr, nil
}
