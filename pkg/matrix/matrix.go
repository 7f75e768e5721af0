// Package matrix implements dense matrices over a gf2.Field: creation,
// identity fill, row/column swaps, dot product, multiplication and
// Gauss-Jordan inversion (carried out on a working copy; the input matrix
// is left unmodified).
//
// This generalizes the [][]poly matrices of the teacher's GaloisField
// methods (mtx_identity, dotMtxVec, invertMtx) into a standalone type
// backed by one contiguous row-major buffer, as called for by the
// erasure coder's generator-matrix and decode-matrix bookkeeping.
package matrix

import (
	"github.com/pkg/errors"

	"github.com/shermanyin/erasure-code/pkg/ecerr"
	"github.com/shermanyin/erasure-code/pkg/gf2"
)

// Matrix is a dense rows x cols matrix of field elements stored row-major.
type Matrix struct {
	field *gf2.Field
	rows  int
	cols  int
	data  []byte
}

// New creates a zero-filled rows x cols matrix over field.
func New(field *gf2.Field, rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ecerr.InvalidParameter, "invalid matrix shape %dx%d", rows, cols)
	}
	return &Matrix{
		field: field,
		rows:  rows,
		cols:  cols,
		data:  make([]byte, rows*cols),
	}, nil
}

// Copy returns a new matrix with the same shape and contents as m.
func (m *Matrix) Copy() *Matrix {
	data := make([]byte, len(m.data))
	copy(data, m.data)
	return &Matrix{field: m.field, rows: m.rows, cols: m.cols, data: data}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) index(r, c int) int { return r*m.cols + c }

// At returns the element at (r, c).
func (m *Matrix) At(r, c int) byte { return m.data[m.index(r, c)] }

// Set assigns the element at (r, c).
func (m *Matrix) Set(r, c int, v byte) { m.data[m.index(r, c)] = v }

// Identity fills m with the identity matrix: 1 on the diagonal, 0
// elsewhere. Non-square matrices get a partial diagonal of
// min(rows, cols) ones.
func (m *Matrix) Identity() {
	for i := range m.data {
		m.data[i] = 0
	}
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
}

// SwapRows exchanges rows i and j in place. No-op if i == j.
func (m *Matrix) SwapRows(i, j int) {
	if i == j {
		return
	}
	for c := 0; c < m.cols; c++ {
		ii, jj := m.index(i, c), m.index(j, c)
		m.data[ii], m.data[jj] = m.data[jj], m.data[ii]
	}
}

// SwapCols exchanges columns i and j in place. No-op if i == j.
func (m *Matrix) SwapCols(i, j int) {
	if i == j {
		return
	}
	for r := 0; r < m.rows; r++ {
		ii, jj := m.index(r, i), m.index(r, j)
		m.data[ii], m.data[jj] = m.data[jj], m.data[ii]
	}
}

// Dot computes the (i, j) entry of the product of m and other: the field
// dot-product of row i of m with column j of other. m.Cols() must equal
// other.Rows().
func (m *Matrix) Dot(other *Matrix, i, j int) (byte, error) {
	if m.cols != other.rows {
		return 0, errors.Wrapf(ecerr.ShapeMismatch, "dot: %dx%d . %dx%d", m.rows, m.cols, other.rows, other.cols)
	}
	sum := byte(0)
	for k := 0; k < m.cols; k++ {
		sum = m.field.Add(sum, m.field.Mul(m.At(i, k), other.At(k, j)))
	}
	return sum, nil
}

// Multiply computes out = x * y. out must be x.Rows() x y.Cols() and must
// not alias x or y.
func Multiply(x, y, out *Matrix) error {
	if x.cols != y.rows {
		return errors.Wrapf(ecerr.ShapeMismatch, "multiply: %dx%d . %dx%d", x.rows, x.cols, y.rows, y.cols)
	}
	if out.rows != x.rows || out.cols != y.cols {
		return errors.Wrapf(ecerr.ShapeMismatch, "multiply: output shape %dx%d, want %dx%d", out.rows, out.cols, x.rows, y.cols)
	}
	for i := 0; i < x.rows; i++ {
		for j := 0; j < y.cols; j++ {
			v, err := x.Dot(y, i, j)
			if err != nil {
				return err
			}
			out.Set(i, j, v)
		}
	}
	return nil
}

// Invert computes the inverse of x via Gauss-Jordan elimination. x itself
// is left unmodified; the returned matrix satisfies x * Invert(x) ==
// Identity. Fails with ecerr.NonSquare if x is not square, or
// ecerr.Singular if no pivot can be found for some row.
func Invert(x *Matrix) (*Matrix, error) {
	if x.rows != x.cols {
		return nil, errors.Wrapf(ecerr.NonSquare, "invert: %dx%d", x.rows, x.cols)
	}
	n := x.rows
	field := x.field

	work := x.Copy()
	inv, err := New(field, n, n)
	if err != nil {
		return nil, err
	}
	inv.Identity()

	for row := 0; row < n; row++ {
		if work.At(row, row) == 0 {
			found := false
			for r2 := row + 1; r2 < n; r2++ {
				if work.At(r2, row) != 0 {
					work.SwapRows(row, r2)
					inv.SwapRows(row, r2)
					found = true
					break
				}
			}
			if !found {
				return nil, errors.Wrapf(ecerr.Singular, "invert: no pivot in row %d", row)
			}
		}

		if pivot := work.At(row, row); pivot != 1 {
			s := field.MulInv(pivot)
			for c := 0; c < n; c++ {
				work.Set(row, c, field.Mul(s, work.At(row, c)))
				inv.Set(row, c, field.Mul(s, inv.At(row, c)))
			}
		}

		for r2 := 0; r2 < n; r2++ {
			if r2 == row {
				continue
			}
			c := work.At(r2, row)
			if c == 0 {
				continue
			}
			for col := 0; col < n; col++ {
				work.Set(r2, col, field.Add(work.At(r2, col), field.Mul(c, work.At(row, col))))
				inv.Set(r2, col, field.Add(inv.At(r2, col), field.Mul(c, inv.At(row, col))))
			}
		}
	}

	return inv, nil
}
