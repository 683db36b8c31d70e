package oned

import (
	"fmt"
	"strconv"
)

// code128dpEdge is a predecessor link in the Code 128 minimal-cost DP: reaching
// position `pos` with the symbol currently latched to code set `state` via a
// segment that started at `prevPos` in code set `prevState`.
type code128dpEdge struct {
	pos       int
	state     int
	prevPos   int
	prevState int
	cost      int
	isFirst   bool
}

// encodeCode128Compact finds the codeword-minimal encoding of contents across
// the three Code 128 code sets using dynamic programming: each position/code-set
// pair is a vertex, and an edge consumes either one character (code set A or B)
// or a digit pair or FNC1 (code set C), weighted by the number of codewords it
// adds: one, plus one more when it changes code set. This replaces the greedy lookahead in encodeCode128Fast
// with a search that can trade an extra switch for a shorter run elsewhere.
func encodeCode128Compact(contents string, forcedCodeSet int) ([]bool, error) {
	n := len(contents)
	if n == 0 {
		return nil, fmt.Errorf("oned: empty Code 128 contents")
	}

	const (
		stateA = 0
		stateB = 1
		stateC = 2
	)
	states := []int{stateA, stateB, stateC}
	if forcedCodeSet != -1 {
		switch forcedCodeSet {
		case code128CodeA:
			states = []int{stateA}
		case code128CodeB:
			states = []int{stateB}
		case code128CodeC:
			states = []int{stateC}
		}
	}

	const inf = 1 << 30
	// best[pos][state] = cheapest codeword count to reach pos with current
	// latch == state; pred[pos][state] records how we got there.
	best := make([][3]int, n+1)
	pred := make([][3]code128dpEdge, n+1)
	for i := range best {
		best[i] = [3]int{inf, inf, inf}
	}
	for _, s := range states {
		best[0][s] = 0
		pred[0][s] = code128dpEdge{isFirst: true}
	}

	relax := func(pos, state, newPos, newState, addedCost int) {
		total := best[pos][state] + addedCost
		if total < best[newPos][newState] {
			best[newPos][newState] = total
			pred[newPos][newState] = code128dpEdge{pos: newPos, state: newState, prevPos: pos, prevState: state, cost: total}
		}
	}

	for pos := 0; pos <= n; pos++ {
		for _, state := range states {
			if best[pos][state] >= inf {
				continue
			}
			if pos == n {
				continue
			}
			for _, target := range states {
				switchCost := 0
				if target != state && pos != 0 {
					switchCost = 1
				}
				switch target {
				case stateA, stateB:
					if !code128CharCodable(contents[pos], target) {
						continue
					}
					relax(pos, state, pos+1, target, switchCost+1)
				case stateC:
					if isCode128FNC1(contents[pos]) {
						relax(pos, state, pos+1, target, switchCost+1)
						continue
					}
					if pos+1 < n && isCode128Digit(contents[pos]) && isCode128Digit(contents[pos+1]) {
						relax(pos, state, pos+2, target, switchCost+1)
					}
				}
			}
		}
	}

	bestState := -1
	for _, s := range states {
		if bestState == -1 || best[n][s] < best[n][bestState] {
			bestState = s
		}
	}
	if bestState == -1 || best[n][bestState] >= inf {
		return nil, fmt.Errorf("oned: contents not codable in requested Code 128 code set")
	}

	// Walk predecessors back to front, then replay forward emitting patterns.
	type step struct {
		pos, state int
	}
	var path []step
	pos, state := n, bestState
	for {
		e := pred[pos][state]
		path = append([]step{{pos, state}}, path...)
		if e.isFirst {
			break
		}
		pos, state = e.prevPos, e.prevState
	}

	var patterns [][]int
	checkSum := 0
	checkWeight := 1
	curState := -1
	curPos := 0

	stateToCodeSet := func(s int) int {
		switch s {
		case stateA:
			return code128CodeA
		case stateB:
			return code128CodeB
		default:
			return code128CodeC
		}
	}

	for i := 1; i < len(path); i++ {
		target := path[i].state
		if target != curState {
			var patternIndex int
			if curState == -1 {
				switch target {
				case stateA:
					patternIndex = code128StartA
				case stateB:
					patternIndex = code128StartB
				default:
					patternIndex = code128StartC
				}
			} else {
				patternIndex = stateToCodeSet(target)
			}
			patterns = append(patterns, Code128Patterns[patternIndex])
			checkSum += patternIndex * checkWeight
			if curPos != 0 {
				checkWeight++
			}
			curState = target
		}

		switch target {
		case stateA, stateB:
			c := rune(contents[curPos])
			patternIndex, err := code128CharPattern(c, target)
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, Code128Patterns[patternIndex])
			checkSum += patternIndex * checkWeight
			checkWeight++
		case stateC:
			var patternIndex int
			if isCode128FNC1(contents[curPos]) {
				patternIndex = code128FNC1
			} else {
				val, err := strconv.Atoi(contents[curPos : curPos+2])
				if err != nil {
					return nil, err
				}
				patternIndex = val
			}
			patterns = append(patterns, Code128Patterns[patternIndex])
			checkSum += patternIndex * checkWeight
			checkWeight++
		}
		curPos = path[i].pos
	}

	return produceCode128Result(patterns, checkSum), nil
}

func isCode128Digit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isCode128FNC1(c byte) bool {
	return rune(c) == Code128EscapeFNC1
}

func code128CharCodable(c byte, state int) bool {
	r := rune(c)
	switch r {
	case Code128EscapeFNC1, Code128EscapeFNC2, Code128EscapeFNC3, Code128EscapeFNC4:
		return true
	}
	if state == 0 { // stateA
		return r <= 95
	}
	return r >= 32
}

// code128CharPattern returns the Code128Patterns index for a single character
// in code set A or B (state 0 or 1 respectively), mirroring the per-character
// switch in encodeCode128Fast.
func code128CharPattern(c rune, state int) (int, error) {
	switch c {
	case Code128EscapeFNC1:
		return code128FNC1, nil
	case Code128EscapeFNC2:
		return code128FNC2, nil
	case Code128EscapeFNC3:
		return code128FNC3, nil
	case Code128EscapeFNC4:
		if state == 0 {
			return code128FNC4A, nil
		}
		return code128FNC4B, nil
	}
	if state == 0 { // A
		idx := int(c) - ' '
		if idx < 0 {
			idx += '`'
		}
		return idx, nil
	}
	return int(c) - ' ', nil // B
}
