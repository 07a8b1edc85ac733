/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package matrix wraps gonum's dense matrix type behind a small row-major API, used
// wherever the core needs a general NxN linear-system inversion rather than the
// closed-form 2x2 formula pkg/transform applies inline (the WCS layer's
// inverse focal-plane maps are consumed, not derived, but the affine stand-ins this
// workspace ships for testing still need an actual inverse to round-trip).
package matrix

/*****************************************************************************************************************/

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

/*****************************************************************************************************************/

// Matrix is a row-major matrix backed by a gonum dense matrix.
type Matrix struct {
	rows    int
	columns int
	dense   *mat.Dense
}

/*****************************************************************************************************************/

// New creates a zero-valued matrix of the given shape.
func New(rows, columns int) (*Matrix, error) {
	if rows <= 0 || columns <= 0 {
		return nil, errors.New("matrix dimensions must be positive")
	}

	return &Matrix{rows: rows, columns: columns, dense: mat.NewDense(rows, columns, nil)}, nil
}

/*****************************************************************************************************************/

// NewFromSlice creates a matrix from a row-major slice of exactly rows*columns values.
func NewFromSlice(value []float64, rows, columns int) (*Matrix, error) {
	if rows <= 0 || columns <= 0 {
		return nil, errors.New("matrix dimensions must be positive")
	}

	if len(value) != rows*columns {
		return nil, fmt.Errorf("length %d does not match matrix dimensions %dx%d", len(value), rows, columns)
	}

	v := make([]float64, len(value))
	copy(v, value)

	return &Matrix{rows: rows, columns: columns, dense: mat.NewDense(rows, columns, v)}, nil
}

/*****************************************************************************************************************/

// Rows returns the number of rows in the matrix.
func (m *Matrix) Rows() int {
	return m.rows
}

/*****************************************************************************************************************/

// Columns returns the number of columns in the matrix.
func (m *Matrix) Columns() int {
	return m.columns
}

/*****************************************************************************************************************/

// Value returns a copy of the matrix's contents in row-major order.
func (m *Matrix) Value() []float64 {
	out := make([]float64, m.rows*m.columns)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.columns; c++ {
			out[r*m.columns+c] = m.dense.At(r, c)
		}
	}
	return out
}

/*****************************************************************************************************************/

// At returns the element at the specified, zero-indexed row and column.
func (m *Matrix) At(row, col int) (float64, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.columns {
		return 0, fmt.Errorf("index out of bounds: row=%d, col=%d", row, col)
	}
	return m.dense.At(row, col), nil
}

/*****************************************************************************************************************/

// Set assigns the element at the specified, zero-indexed row and column.
func (m *Matrix) Set(row, col int, value float64) error {
	if row < 0 || row >= m.rows || col < 0 || col >= m.columns {
		return fmt.Errorf("index out of bounds: row=%d, col=%d", row, col)
	}
	m.dense.Set(row, col, value)
	return nil
}

/*****************************************************************************************************************/

// Transpose returns a new matrix that is the transpose of m.
func (m *Matrix) Transpose() (*Matrix, error) {
	result, err := New(m.columns, m.rows)
	if err != nil {
		return nil, err
	}
	result.dense.Copy(m.dense.T())
	return result, nil
}

/*****************************************************************************************************************/

// Multiply returns the matrix product m * other. Requires m.Columns() == other.Rows().
func (m *Matrix) Multiply(other *Matrix) (*Matrix, error) {
	if m.columns != other.rows {
		return nil, fmt.Errorf("cannot multiply: %dx%d with %dx%d", m.rows, m.columns, other.rows, other.columns)
	}

	result, err := New(m.rows, other.columns)
	if err != nil {
		return nil, err
	}
	result.dense.Mul(m.dense, other.dense)
	return result, nil
}

/*****************************************************************************************************************/

// Invert returns the inverse of m. Only square, non-singular matrices can be inverted.
func (m *Matrix) Invert() (*Matrix, error) {
	if m.rows != m.columns {
		return nil, errors.New("only square matrices can be inverted")
	}

	var inv mat.Dense
	if err := inv.Inverse(m.dense); err != nil {
		return nil, fmt.Errorf("matrix is singular and cannot be inverted: %w", err)
	}

	return &Matrix{rows: m.rows, columns: m.columns, dense: &inv}, nil
}

/*****************************************************************************************************************/
