package main

import "sync"

// stone is the engine-internal cell convention: 0 empty, 1 black, 2 white.
// Board cells are mapped into it by normalizeCell and nothing else in the
// engine ever sees a Cell.
type stone uint8

const (
	stoneEmpty stone = iota
	stoneBlack
	stoneWhite
)

const (
	windowRadius    = 4
	maxWindowLen    = 2*windowRadius + 1
	windowTableRows = maxWindowLen + 1
	windowStates    = 59049 // 3^10, fixed bound on any window code
	winWindowLen    = 5
	fiveValue       = 10_000_000
	maxEngineSize   = 19
)

// shapeValues is indexed by the number of same-colored stones in a 5-cell
// window holding no opposing stone.
var shapeValues = [winWindowLen + 1]int32{0, 1, 3, 9, 27, fiveValue}

func (s stone) opponent() stone {
	if s == stoneBlack {
		return stoneWhite
	}
	return stoneBlack
}

// windowScore holds the points a window is worth for black and white.
type windowScore [2]int32

func (w windowScore) of(s stone) int {
	if s == stoneWhite {
		return int(w[1])
	}
	return int(w[0])
}

type scoreTables struct {
	pow3    [maxEngineSize + 1]int
	windows [windowTableRows][windowStates]windowScore
}

var (
	sharedTablesOnce sync.Once
	sharedTables     *scoreTables
)

// engineTables returns the process-wide lookup tables, building them on
// first use. They are read-only afterwards.
func engineTables() *scoreTables {
	sharedTablesOnce.Do(func() {
		sharedTables = buildScoreTables()
	})
	return sharedTables
}

func buildScoreTables() *scoreTables {
	t := &scoreTables{}
	t.pow3[0] = 1
	for i := 1; i < len(t.pow3); i++ {
		t.pow3[i] = t.pow3[i-1] * 3
	}
	b := windowBuilder{tables: t}
	b.walk(0, 0, 0, 0)
	return t
}

// windowBuilder enumerates every ternary string of length 0..9. The trailing
// five symbols are tracked in counts so each completed 5-window can be
// scored as it is appended.
type windowBuilder struct {
	tables  *scoreTables
	symbols [maxWindowLen]stone
	counts  [3]int
}

func (b *windowBuilder) walk(length, code int, black, white int32) {
	b.tables.windows[length][code] = windowScore{black, white}
	if length == maxWindowLen {
		return
	}
	for sym := stoneEmpty; sym <= stoneWhite; sym++ {
		b.symbols[length] = sym
		b.counts[sym]++
		nextBlack, nextWhite := black, white
		full := length >= winWindowLen-1
		if full {
			if b.counts[stoneBlack] == 0 {
				nextWhite += shapeValues[b.counts[stoneWhite]]
			}
			if b.counts[stoneWhite] == 0 {
				nextBlack += shapeValues[b.counts[stoneBlack]]
			}
			b.counts[b.symbols[length-(winWindowLen-1)]]--
		}
		b.walk(length+1, code*3+int(sym), nextBlack, nextWhite)
		if full {
			b.counts[b.symbols[length-(winWindowLen-1)]]++
		}
		b.counts[sym]--
	}
}

// lookup returns the table entry for a window of length d holding code,
// and false when either index falls outside the table.
func (t *scoreTables) lookup(d, code int) (windowScore, bool) {
	if d <= 0 || d >= windowTableRows || code < 0 || code >= windowStates {
		return windowScore{}, false
	}
	return t.windows[d][code], true
}
