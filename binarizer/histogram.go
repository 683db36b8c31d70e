// Package binarizer provides implementations for converting luminance data to binary.
package binarizer

import (
	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// GlobalHistogram binarizes luminance data against a single black point
// estimated from a histogram of the whole image (or, for BlackRow, a
// sharpened single row). Cheaper than a locally-adaptive binarizer, at the
// cost of being less robust to uneven lighting.
type GlobalHistogram struct {
	source     rxing.LuminanceSource
	luminances []byte
	buckets    [luminanceBuckets]int
}

// NewGlobalHistogram creates a new GlobalHistogram binarizer.
func NewGlobalHistogram(source rxing.LuminanceSource) *GlobalHistogram {
	return &GlobalHistogram{source: source}
}

// LuminanceSource returns the underlying source.
func (g *GlobalHistogram) LuminanceSource() rxing.LuminanceSource { return g.source }

// Width returns the image width.
func (g *GlobalHistogram) Width() int { return g.source.Width() }

// Height returns the image height.
func (g *GlobalHistogram) Height() int { return g.source.Height() }

func (g *GlobalHistogram) initArrays(luminanceSize int) {
	if len(g.luminances) < luminanceSize {
		g.luminances = make([]byte, luminanceSize)
	}
	g.buckets = [luminanceBuckets]int{}
}

func (g *GlobalHistogram) bucketOf(luminance byte) int {
	return int(luminance&0xff) >> luminanceShift
}

// BlackRow binarizes a single row using a -1 4 -1 sharpening kernel (with a
// weight of 2) against a black point estimated from that row's own histogram.
func (g *GlobalHistogram) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width := g.source.Width()
	if row == nil || row.Size() < width {
		row = bitutil.NewBitArray(width)
	} else {
		row.Clear()
	}

	g.initArrays(width)
	localLuminances := g.source.Row(y, g.luminances)
	for x := 0; x < width; x++ {
		g.buckets[g.bucketOf(localLuminances[x])]++
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	if width < 3 {
		for x := 0; x < width; x++ {
			if int(localLuminances[x]&0xff) < blackPoint {
				row.Set(x)
			}
		}
		return row, nil
	}

	left := int(localLuminances[0] & 0xff)
	center := int(localLuminances[1] & 0xff)
	for x := 1; x < width-1; x++ {
		right := int(localLuminances[x+1] & 0xff)
		if (center*4-left-right)/2 < blackPoint {
			row.Set(x)
		}
		left, center = center, right
	}
	return row, nil
}

// BlackMatrix binarizes the whole image against a black point estimated
// from a histogram sampled over the image's middle three-fifths, at four
// evenly spaced rows.
func (g *GlobalHistogram) BlackMatrix() (*bitutil.BitMatrix, error) {
	width := g.source.Width()
	height := g.source.Height()
	matrix := bitutil.NewBitMatrixWithSize(width, height)

	g.initArrays(width)
	left, right := width/5, width*4/5
	for sample := 1; sample < 5; sample++ {
		localLuminances := g.source.Row(height*sample/5, g.luminances)
		for x := left; x < right; x++ {
			g.buckets[g.bucketOf(localLuminances[x])]++
		}
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	localLuminances := g.source.Matrix()
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if int(localLuminances[offset+x]&0xff) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

// estimateBlackPoint finds the luminance histogram's two dominant peaks
// (the assumed background and foreground populations) and returns the
// deepest valley between them as the black/white threshold. Fails if the
// peaks are too close together to represent distinct populations.
func estimateBlackPoint(buckets []int) (int, error) {
	firstPeak, firstPeakSize, maxBucketCount := 0, 0, 0
	for x, count := range buckets {
		if count > firstPeakSize {
			firstPeak, firstPeakSize = x, count
		}
		if count > maxBucketCount {
			maxBucketCount = count
		}
	}

	secondPeak, secondPeakScore := 0, 0
	for x, count := range buckets {
		dist := x - firstPeak
		if score := count * dist * dist; score > secondPeakScore {
			secondPeak, secondPeakScore = x, score
		}
	}

	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}
	if secondPeak-firstPeak <= len(buckets)/16 {
		return 0, rxing.ErrNotFound
	}

	bestValley, bestValleyScore := secondPeak-1, -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley, bestValleyScore = x, score
		}
	}

	return bestValley << luminanceShift, nil
}
