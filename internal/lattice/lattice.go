package lattice

import (
	"fmt"
	"math/rand"
	"strings"
)

type Lattice struct {
	rows  int
	cols  int
	spins []int8
}

// New allocates a rows x cols lattice initialized according to mode.
// rng is only consumed for Hot initialization and may be nil for Cold.
func New(rows, cols int, mode InitMode, rng *rand.Rand) (*Lattice, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrDimensions, rows, cols)
	}

	l := &Lattice{
		rows:  rows,
		cols:  cols,
		spins: make([]int8, rows*cols),
	}

	switch mode {
	case Cold:
		for i := range l.spins {
			l.spins[i] = 1
		}
	case Hot:
		if rng == nil {
			return nil, ErrNilRand
		}
		// Row-major draw order: a seed fixes the configuration.
		for i := range l.spins {
			l.spins[i] = int8(rng.Intn(2)*2 - 1)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrInitMode, int(mode))
	}

	return l, nil
}

func (l *Lattice) Rows() int { return l.rows }
func (l *Lattice) Cols() int { return l.cols }
func (l *Lattice) Len() int  { return len(l.spins) }

// Index returns the linear index of (row, col).
func (l *Lattice) Index(row, col int) int {
	l.mustContain(row, col)
	return row*l.cols + col
}

// Coords is the inverse of Index.
func (l *Lattice) Coords(i int) (row, col int) {
	return i / l.cols, i % l.cols
}

// At returns the spin at (row, col). It panics on out-of-range coordinates
// rather than reading a neighboring row.
func (l *Lattice) At(row, col int) int {
	l.mustContain(row, col)
	return int(l.spins[row*l.cols+col])
}

func (l *Lattice) AtIndex(i int) int {
	return int(l.spins[i])
}

// Flip negates the spin at (row, col).
func (l *Lattice) Flip(row, col int) {
	l.mustContain(row, col)
	l.spins[row*l.cols+col] *= -1
}

func (l *Lattice) FlipIndex(i int) {
	l.spins[i] *= -1
}

// FlipAll negates every listed site. Callers pass each site at most once;
// a repeated index would flip back.
func (l *Lattice) FlipAll(indices []int) {
	for _, i := range indices {
		l.spins[i] *= -1
	}
}

// Wrap maps any integer coordinate pair onto the torus.
func (l *Lattice) Wrap(row, col int) (int, int) {
	row = (row%l.rows + l.rows) % l.rows
	col = (col%l.cols + l.cols) % l.cols
	return row, col
}

func (l *Lattice) Up(row, col int) (int, int)    { return l.Wrap(row-1, col) }
func (l *Lattice) Down(row, col int) (int, int)  { return l.Wrap(row+1, col) }
func (l *Lattice) Left(row, col int) (int, int)  { return l.Wrap(row, col-1) }
func (l *Lattice) Right(row, col int) (int, int) { return l.Wrap(row, col+1) }

// Neighbors returns the linear indices of the four periodic neighbors of
// site i in the order right, down, left, up.
func (l *Lattice) Neighbors(i int) [4]int {
	row, col := l.Coords(i)
	rr, rc := l.Right(row, col)
	dr, dc := l.Down(row, col)
	lr, lc := l.Left(row, col)
	ur, uc := l.Up(row, col)
	return [4]int{
		rr*l.cols + rc,
		dr*l.cols + dc,
		lr*l.cols + lc,
		ur*l.cols + uc,
	}
}

// NeighborSum is the sum of the four periodic neighbors of site i.
func (l *Lattice) NeighborSum(i int) int {
	sum := 0
	for _, n := range l.Neighbors(i) {
		sum += int(l.spins[n])
	}
	return sum
}

// Snapshot copies the grid into a freshly allocated rows x cols matrix.
func (l *Lattice) Snapshot() [][]int {
	out := make([][]int, l.rows)
	for r := range out {
		row := make([]int, l.cols)
		base := r * l.cols
		for c := range row {
			row[c] = int(l.spins[base+c])
		}
		out[r] = row
	}
	return out
}

func (l *Lattice) Clone() *Lattice {
	spins := make([]int8, len(l.spins))
	copy(spins, l.spins)
	return &Lattice{rows: l.rows, cols: l.cols, spins: spins}
}

// Equal reports whether both lattices have the same shape and spins.
func (l *Lattice) Equal(other *Lattice) bool {
	if other == nil || l.rows != other.rows || l.cols != other.cols {
		return false
	}
	for i, s := range l.spins {
		if other.spins[i] != s {
			return false
		}
	}
	return true
}

// String renders the grid with right-aligned columns, one row per line.
func (l *Lattice) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for r := 0; r < l.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < l.cols; c++ {
			if r == 0 && c == 0 {
				fmt.Fprintf(&sb, "%2d", l.spins[0])
				continue
			}
			fmt.Fprintf(&sb, "%3d", l.spins[r*l.cols+c])
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *Lattice) mustContain(row, col int) {
	if row < 0 || row >= l.rows || col < 0 || col >= l.cols {
		panic(fmt.Sprintf("lattice: site (%d, %d) outside %dx%d grid", row, col, l.rows, l.cols))
	}
}
