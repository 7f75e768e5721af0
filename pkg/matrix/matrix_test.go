package matrix

import (
	"errors"
	"testing"

	"github.com/shermanyin/erasure-code/pkg/ecerr"
	"github.com/shermanyin/erasure-code/pkg/gf2"
)

func mustField(t *testing.T) *gf2.Field {
	t.Helper()
	f, err := gf2.New(8, 283)
	if err != nil {
		t.Fatalf("gf2.New: %v", err)
	}
	return f
}

func TestIdentityMultiplyIsNoop(t *testing.T) {
	f := mustField(t)

	id, err := New(f, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id.Identity()

	y, err := New(f, 3, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			y.Set(i, j, byte(i*2+j+1))
		}
	}

	out, err := New(f, 3, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Multiply(id, y, out); err != nil {
		t.Fatalf("Multiply: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if out.At(i, j) != y.At(i, j) {
				t.Fatalf("identity*y[%d][%d] = %d, want %d", i, j, out.At(i, j), y.At(i, j))
			}
		}
	}
}

func TestInvertZeroMatrixIsSingular(t *testing.T) {
	f := mustField(t)
	z, err := New(f, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := Invert(z); !errors.Is(err, ecerr.Singular) {
		t.Fatalf("expected ecerr.Singular, got %v", err)
	}
}

func TestInvertIdentityIsIdentity(t *testing.T) {
	f := mustField(t)
	id, err := New(f, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id.Identity()

	inv, err := Invert(id)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if inv.At(i, j) != id.At(i, j) {
				t.Fatalf("inv(I)[%d][%d] = %d, want %d", i, j, inv.At(i, j), id.At(i, j))
			}
		}
	}
}

func TestInvertNonSquareFails(t *testing.T) {
	f := mustField(t)
	m, err := New(f, 2, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := Invert(m); !errors.Is(err, ecerr.NonSquare) {
		t.Fatalf("expected ecerr.NonSquare, got %v", err)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	f := mustField(t)

	x, err := New(f, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	vals := [][]byte{
		{1, 2, 3},
		{4, 5, 7},
		{8, 6, 1},
	}
	for i := range vals {
		for j := range vals[i] {
			x.Set(i, j, vals[i][j])
		}
	}

	before := x.Copy()

	inv, err := Invert(x)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if x.At(i, j) != before.At(i, j) {
				t.Fatalf("Invert mutated its input at (%d,%d)", i, j)
			}
		}
	}

	product, err := New(f, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Multiply(x, inv, product); err != nil {
		t.Fatalf("Multiply: %v", err)
	}

	want, err := New(f, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want.Identity()

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if product.At(i, j) != want.At(i, j) {
				t.Fatalf("x*inv(x)[%d][%d] = %d, want %d", i, j, product.At(i, j), want.At(i, j))
			}
		}
	}

	product2, err := New(f, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Multiply(inv, x, product2); err != nil {
		t.Fatalf("Multiply: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if product2.At(i, j) != want.At(i, j) {
				t.Fatalf("inv(x)*x[%d][%d] = %d, want %d", i, j, product2.At(i, j), want.At(i, j))
			}
		}
	}
}

func TestSwapRowsSelfInverse(t *testing.T) {
	f := mustField(t)
	m, err := New(f, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, byte(i*3+j))
		}
	}
	before := m.Copy()
	m.SwapRows(0, 2)
	m.SwapRows(0, 2)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if m.At(i, j) != before.At(i, j) {
				t.Fatalf("double swap did not restore matrix at (%d,%d)", i, j)
			}
		}
	}
}
