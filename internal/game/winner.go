package game

// Line is a triple of board indices that wins when uniformly marked.
type Line [3]int

// Contains reports whether index is one of the line's cells.
func (l Line) Contains(index int) bool {
	return l[0] == index || l[1] == index || l[2] == index
}

// Lines lists every winning line in priority order: rows top to bottom,
// columns left to right, main diagonal, anti-diagonal.
var Lines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// WinResult names the winning mark and the line that completed.
type WinResult struct {
	Mark Mark `json:"mark"`
	Line Line `json:"line"`
}

// CheckWinner returns the first complete line in Lines order. A draw is not
// reported here: a full board with no winner is simply (WinResult{}, false).
func CheckWinner(board Board) (WinResult, bool) {
	for _, line := range Lines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != Empty && a == b && b == c {
			return WinResult{Mark: a, Line: line}, true
		}
	}
	return WinResult{}, false
}
