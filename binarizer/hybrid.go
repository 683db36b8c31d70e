package binarizer

import (
	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/bitutil"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	blockSizeMask    = blockSize - 1
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid implements a local thresholding algorithm: the image is divided
// into blockSize x blockSize cells, a black point is estimated per cell,
// and each pixel is thresholded against the 5x5-cell neighborhood average
// of its cell's black point. More robust than GlobalHistogram against
// shadows and lighting gradients, at the cost of more work per image.
type Hybrid struct {
	GlobalHistogram
	matrix *bitutil.BitMatrix
}

// NewHybrid creates a new Hybrid binarizer.
func NewHybrid(source rxing.LuminanceSource) *Hybrid {
	return &Hybrid{GlobalHistogram: *NewGlobalHistogram(source)}
}

// BlackMatrix returns the binarized matrix, computing and caching it on
// first call. Images too small to tile fall back to GlobalHistogram.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	if h.matrix != nil {
		return h.matrix, nil
	}
	source := h.LuminanceSource()
	width, height := source.Width(), source.Height()

	if width < minimumDimension || height < minimumDimension {
		m, err := h.GlobalHistogram.BlackMatrix()
		if err != nil {
			return nil, err
		}
		h.matrix = m
		return h.matrix, nil
	}

	luminances := source.Matrix()
	grid := newCellGrid(width, height)
	blackPoints := grid.estimateBlackPoints(luminances)

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	grid.threshold(luminances, blackPoints, matrix)
	h.matrix = matrix
	return h.matrix, nil
}

// cellGrid describes how an image is tiled into blockSize-square cells: the
// cell counts, and the pixel offset each cell's top-left corner is capped
// to so the last row/column of cells still fits inside the image.
type cellGrid struct {
	width, height         int
	subWidth, subHeight   int
	maxXOffset, maxYOffset int
}

func newCellGrid(width, height int) *cellGrid {
	subWidth := width >> blockSizePower
	if width&blockSizeMask != 0 {
		subWidth++
	}
	subHeight := height >> blockSizePower
	if height&blockSizeMask != 0 {
		subHeight++
	}
	return &cellGrid{
		width: width, height: height,
		subWidth: subWidth, subHeight: subHeight,
		maxXOffset: width - blockSize, maxYOffset: height - blockSize,
	}
}

func (g *cellGrid) cellOffset(cell, maxOffset int) int {
	offset := cell << blockSizePower
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

// estimateBlackPoints computes one black-point estimate per cell. A cell
// whose pixel range is wide enough (mx-mn > minDynamicRange) uses its own
// mean; a flatter cell (likely a solid background or foreground run) falls
// back to roughly half its minimum, pulled up to the neighboring cells'
// average black point when that average exceeds the cell's minimum — this
// keeps near-uniform cells from drifting to a threshold that clips real
// content at the cell boundary.
func (g *cellGrid) estimateBlackPoints(luminances []byte) [][]int {
	blackPoints := make([][]int, g.subHeight)
	for i := range blackPoints {
		blackPoints[i] = make([]int, g.subWidth)
	}

	for y := 0; y < g.subHeight; y++ {
		yoffset := g.cellOffset(y, g.maxYOffset)
		for x := 0; x < g.subWidth; x++ {
			xoffset := g.cellOffset(x, g.maxXOffset)
			sum, mn, mx := sumCellPixels(luminances, xoffset, yoffset, g.width)

			average := sum >> (blockSizePower * 2)
			if mx-mn <= minDynamicRange {
				average = mn / 2
				if y > 0 && x > 0 {
					neighborAverage :=
						(blackPoints[y-1][x] + 2*blackPoints[y][x-1] + blackPoints[y-1][x-1]) / 4
					if mn < neighborAverage {
						average = neighborAverage
					}
				}
			}
			blackPoints[y][x] = average
		}
	}
	return blackPoints
}

// sumCellPixels sums one blockSize-square cell's pixels and tracks its
// min/max, but stops tracking min/max (while still summing) as soon as the
// range exceeds minDynamicRange — the exact value no longer matters once
// the cell has already qualified for its own per-cell average.
func sumCellPixels(luminances []byte, xoffset, yoffset, stride int) (sum, mn, mx int) {
	mn = 0xFF
	for row, offset := 0, yoffset*stride+xoffset; row < blockSize; row, offset = row+1, offset+stride {
		for col := 0; col < blockSize; col++ {
			pixel := int(luminances[offset+col] & 0xFF)
			sum += pixel
			if pixel < mn {
				mn = pixel
			}
			if pixel > mx {
				mx = pixel
			}
		}
		if mx-mn > minDynamicRange {
			for row, offset = row+1, offset+stride; row < blockSize; row, offset = row+1, offset+stride {
				for col := 0; col < blockSize; col++ {
					sum += int(luminances[offset+col] & 0xFF)
				}
			}
		}
	}
	return sum, mn, mx
}

// threshold sets every dark pixel in matrix, comparing each pixel to the
// average black point of the 5x5 cells centered on (clamped to stay inside
// the grid) its own cell.
func (g *cellGrid) threshold(luminances []byte, blackPoints [][]int, matrix *bitutil.BitMatrix) {
	for y := 0; y < g.subHeight; y++ {
		yoffset := g.cellOffset(y, g.maxYOffset)
		top := clampCenter(y, g.subHeight-3)
		for x := 0; x < g.subWidth; x++ {
			xoffset := g.cellOffset(x, g.maxXOffset)
			left := clampCenter(x, g.subWidth-3)

			sum := 0
			for z := -2; z <= 2; z++ {
				row := blackPoints[top+z]
				sum += row[left-2] + row[left-1] + row[left] + row[left+1] + row[left+2]
			}
			thresholdBlock(luminances, xoffset, yoffset, sum/25, g.width, matrix)
		}
	}
}

// clampCenter clamps value to [2,max], the valid center index for a 5-wide
// window into a 1-D range of cells.
func clampCenter(value, max int) int {
	if value < 2 {
		return 2
	}
	if value > max {
		return max
	}
	return value
}

func thresholdBlock(luminances []byte, xoffset, yoffset, threshold, stride int, matrix *bitutil.BitMatrix) {
	for y, offset := 0, yoffset*stride+xoffset; y < blockSize; y, offset = y+1, offset+stride {
		for x := 0; x < blockSize; x++ {
			if int(luminances[offset+x]&0xFF) <= threshold {
				matrix.Set(xoffset+x, yoffset+y)
			}
		}
	}
}
