// Package gf2 implements arithmetic over GF(2^m), m <= 8.
//
// A Field precomputes a full multiplication table and a multiplicative
// inverse table at construction time, so every operation after New is a
// table lookup. Field is read-only once built and safe for concurrent use
// by multiple goroutines, which is what lets pkg/reedsolomon and
// pkg/harness share a single *Field across the worker pool.
package gf2

import (
	"github.com/pkg/errors"

	"github.com/shermanyin/erasure-code/pkg/ecerr"
)

// Field is GF(2^m) defined by the irreducible polynomial g of degree m.
type Field struct {
	m     uint
	g     uint
	order int

	mulTbl [][]byte
	invTbl []byte
}

// New builds the field GF(2^m) with generating polynomial g. m must be in
// [1, 8] and g must have degree exactly m (g>>m == 1).
func New(m, g uint) (*Field, error) {
	if m < 1 || m > 8 {
		return nil, errors.Wrapf(ecerr.InvalidParameter, "degree %d out of range [1,8]", m)
	}
	if g>>m != 1 {
		return nil, errors.Wrapf(ecerr.InvalidParameter, "polynomial %#x does not have degree %d", g, m)
	}

	f := &Field{
		m:     m,
		g:     g,
		order: 1 << m,
	}

	f.mulTbl = make([][]byte, f.order)
	for x := 0; x < f.order; x++ {
		f.mulTbl[x] = make([]byte, f.order)
		for y := 0; y < f.order; y++ {
			f.mulTbl[x][y] = f.longMul(byte(x), byte(y))
		}
	}

	f.invTbl = make([]byte, f.order)
	for a := 1; a < f.order; a++ {
		for b := 0; b < f.order; b++ {
			if f.mulTbl[a][b] == 1 {
				f.invTbl[a] = byte(b)
				break
			}
		}
	}

	return f, nil
}

// longMul multiplies x and y as GF(2) polynomials and reduces modulo g,
// producing a value in [0, order).
func (f *Field) longMul(x, y byte) byte {
	prod := uint32(0)
	gMSB := uint32(1) << f.m

	v1, v2 := uint32(x), uint32(y)
	for v1 != 0 {
		if v1&1 != 0 {
			prod ^= v2
		}
		v1 >>= 1
		v2 <<= 1
	}

	for i := int(f.m) - 2; i >= 0; i-- {
		if prod&(gMSB<<uint(i)) != 0 {
			prod ^= uint32(f.g) << uint(i)
		}
	}

	return byte(prod)
}

// Order returns 2^m, the number of elements in the field.
func (f *Field) Order() int { return f.order }

// Degree returns m.
func (f *Field) Degree() uint { return f.m }

// Add returns a XOR b.
func (f *Field) Add(a, b byte) byte { return a ^ b }

// AddInv returns the additive inverse of a. In characteristic 2 that is a
// itself.
func (f *Field) AddInv(a byte) byte { return a }

// Mul returns a * b using the precomputed multiplication table.
func (f *Field) Mul(a, b byte) byte { return f.mulTbl[a][b] }

// MulInv returns the multiplicative inverse of a. Calling with a == 0 is a
// contract violation: the inverse table entry for 0 is never populated.
func (f *Field) MulInv(a byte) byte { return f.invTbl[a] }

// Pow returns a raised to the e-th power. Pow(a, 0) == 1 for all a,
// including Pow(0, 0) == 1 by convention.
func (f *Field) Pow(a byte, e int) byte {
	res := byte(1)
	for i := 0; i < e; i++ {
		res = f.Mul(res, a)
	}
	return res
}
