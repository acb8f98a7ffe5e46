package main

type lineFamily int

const (
	familyRow lineFamily = iota
	familyColumn
	familyDiagonal     // indexed by row+col
	familyAntiDiagonal // indexed by row-col+size-1
	lineFamilies
)

// defensePenalty scales the opponent's total in every static score.
const defensePenalty = 3

// lineEvaluator mirrors a board as packed base-3 lines and keeps the black
// and white totals consistent with them after every cell change.
//
// The clamped 9-cell window around a cell holds exactly the 5-cell windows
// that pass through it, so the table delta for that window is the full
// change a single cell can make. Totals therefore always equal the sum of
// every uncontested 5-window on the board, whatever order cells were set in.
type lineEvaluator struct {
	tables *scoreTables
	size   int
	cells  []stone
	lines  [lineFamilies][]int
	totals [2]int
}

// lineSpan locates one family's line through a cell and the clamped window
// around it. scored is false when the window cannot be looked up, in which
// case the digit is still rewritten but the totals are left alone.
type lineSpan struct {
	line   int
	digit  int
	left   int
	length int
	scored bool
}

func newLineEvaluator(tables *scoreTables, size int) *lineEvaluator {
	e := &lineEvaluator{tables: tables}
	e.resize(size)
	return e
}

func (e *lineEvaluator) resize(size int) {
	e.size = size
	e.cells = make([]stone, size*size)
	for f := range e.lines {
		e.lines[f] = make([]int, 2*size-1)
	}
	e.totals = [2]int{}
}

func (e *lineEvaluator) reset() {
	clear(e.cells)
	for f := range e.lines {
		clear(e.lines[f])
	}
	e.totals = [2]int{}
}

func (e *lineEvaluator) inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < e.size && col < e.size
}

func (e *lineEvaluator) at(row, col int) stone {
	return e.cells[row*e.size+col]
}

func (e *lineEvaluator) total(s stone) int {
	if s == stoneWhite {
		return e.totals[1]
	}
	return e.totals[0]
}

// scoreFor is the static evaluation from s's point of view.
func (e *lineEvaluator) scoreFor(s stone) int {
	return e.total(s) - defensePenalty*e.total(s.opponent())
}

func (e *lineEvaluator) span(f lineFamily, row, col int) lineSpan {
	last := e.size - 1
	var s lineSpan
	var right int
	switch f {
	case familyRow:
		s.line, s.digit = row, col
		s.left = max(col-windowRadius, 0)
		right = min(col+windowRadius, last)
	case familyColumn:
		s.line, s.digit = col, row
		s.left = max(row-windowRadius, 0)
		right = min(row+windowRadius, last)
	case familyDiagonal:
		k := row + col
		s.line, s.digit = k, row
		s.left = max(row-windowRadius, 0, k-last)
		right = min(row+windowRadius, last, k)
	case familyAntiDiagonal:
		m := row - col
		s.line, s.digit = m+last, row
		s.left = max(row-windowRadius, 0, m)
		right = min(row+windowRadius, last, last+m)
	}
	s.length = right - s.left + 1
	s.scored = s.length > 0 && s.length < windowTableRows && s.left+s.length < len(e.tables.pow3)
	return s
}

func (e *lineEvaluator) windowCode(f lineFamily, s lineSpan) int {
	pow3 := &e.tables.pow3
	return e.lines[f][s.line] / pow3[s.left] % pow3[s.length]
}

func (e *lineEvaluator) account(f lineFamily, s lineSpan, sign int) {
	if !s.scored {
		return
	}
	w, ok := e.tables.lookup(s.length, e.windowCode(f, s))
	if !ok {
		return
	}
	e.totals[0] += sign * int(w[0])
	e.totals[1] += sign * int(w[1])
}

// applyCell writes value at (row, col) and updates the totals. For each
// family the old window score is removed before the digit changes and the
// new one added after.
func (e *lineEvaluator) applyCell(row, col int, value stone) {
	if !e.inBounds(row, col) {
		return
	}
	var spans [lineFamilies]lineSpan
	for f := range spans {
		spans[f] = e.span(lineFamily(f), row, col)
		e.account(lineFamily(f), spans[f], -1)
	}
	e.cells[row*e.size+col] = value
	pow3 := &e.tables.pow3
	for f, s := range spans {
		line := e.lines[f][s.line]
		old := line / pow3[s.digit] % 3
		e.lines[f][s.line] = line + (int(value)-old)*pow3[s.digit]
	}
	for f, s := range spans {
		e.account(lineFamily(f), s, 1)
	}
}

// rescanTotals recomputes both totals from the mirrored cells alone by
// scoring every 5-cell window in the four directions once.
func (e *lineEvaluator) rescanTotals() [2]int {
	var totals [2]int
	directions := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for row := 0; row < e.size; row++ {
		for col := 0; col < e.size; col++ {
			for _, d := range directions {
				endRow := row + (winWindowLen-1)*d[0]
				endCol := col + (winWindowLen-1)*d[1]
				if !e.inBounds(endRow, endCol) {
					continue
				}
				var counts [3]int
				for k := 0; k < winWindowLen; k++ {
					counts[e.at(row+k*d[0], col+k*d[1])]++
				}
				if counts[stoneWhite] == 0 {
					totals[0] += int(shapeValues[counts[stoneBlack]])
				}
				if counts[stoneBlack] == 0 {
					totals[1] += int(shapeValues[counts[stoneWhite]])
				}
			}
		}
	}
	return totals
}
