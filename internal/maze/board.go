// Package maze holds the static board geometry: the wall bitmap and the
// precomputed all-pairs corridor distance table, both read-only.
package maze

const (
	Rows = 31
	Cols = 28
)

// wallRows is the static wall bitmap, one word per row, bit `col` of word
// `row` set when that cell is a wall. The classic Pac-Man maze layout.
var wallRows = [Rows]uint32{
	0b0000_1111111111111111111111111111, // row 0
	0b0000_1000000000000110000000000001, // row 1
	0b0000_1011110111110110111110111101, // row 2
	0b0000_1011110111110110111110111101, // row 3
	0b0000_1011110111110110111110111101, // row 4
	0b0000_1000000000000000000000000001, // row 5
	0b0000_1011110110111111110110111101, // row 6
	0b0000_1011110110111111110110111101, // row 7
	0b0000_1000000110000110000110000001, // row 8
	0b0000_1111110111110110111110111111, // row 9
	0b0000_1111110111110110111110111111, // row 10
	0b0000_1111110110000000000110111111, // row 11
	0b0000_1111110110111111110110111111, // row 12
	0b0000_1111110110111111110110111111, // row 13
	0b0000_1111110000111111110000111111, // row 14
	0b0000_1111110110111111110110111111, // row 15
	0b0000_1111110110111111110110111111, // row 16
	0b0000_1111110110000000000110111111, // row 17
	0b0000_1111110110111111110110111111, // row 18
	0b0000_1111110110111111110110111111, // row 19
	0b0000_1000000000000110000000000001, // row 20
	0b0000_1011110111110110111110111101, // row 21
	0b0000_1011110111110110111110111101, // row 22
	0b0000_1000110000000000000000110001, // row 23
	0b0000_1110110110111111110110110111, // row 24
	0b0000_1110110110111111110110110111, // row 25
	0b0000_1000000110000110000110000001, // row 26
	0b0000_1011111111110110111111111101, // row 27
	0b0000_1011111111110110111111111101, // row 28
	0b0000_1000000000000000000000000001, // row 29
	0b0000_1111111111111111111111111111, // row 30
}

// WallAt reports whether (row,col) is a wall. Out-of-range coordinates
// (including the off-board sentinel) count as walls.
func WallAt(row, col int) bool {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return true
	}
	return wallRows[row]&(1<<uint(col)) != 0
}

// Valid reports whether (row,col) is on the board and not a wall.
func Valid(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols && !WallAt(row, col)
}

// SuperPelletCells lists the four cells that may hold a super-pellet
// (spec.md §3 invariant).
var SuperPelletCells = [4][2]int{{3, 1}, {3, 26}, {23, 1}, {23, 26}}

// IsSuperPelletCell reports whether (row,col) is one of the four cells
// super-pellets can occupy.
func IsSuperPelletCell(row, col int) bool {
	return (row == 3 || row == 23) && (col == 1 || col == 26)
}
