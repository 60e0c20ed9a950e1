package untex

import "testing"

func TestMatrixAtSet(t *testing.T) {
	m := NewMatrix(2, 3)
	m.Set(1, 2, 5)
	if got := m.At(1, 2); got != 5 {
		t.Errorf("At(1,2) = %d, want 5", got)
	}
	if got := m.At(0, 0); got != 0 {
		t.Errorf("At(0,0) = %d, want 0", got)
	}
}

func TestMatrixFill(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Fill(7)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if got := m.At(r, c); got != 7 {
				t.Errorf("At(%d,%d) = %d, want 7", r, c, got)
			}
		}
	}
}

func TestMatrixEqual(t *testing.T) {
	a := NewMatrix(2, 2)
	a.Set(0, 1, 1)
	b := a.Clone()
	if !a.Equal(b) {
		t.Error("clone should equal original")
	}
	b.Set(1, 1, 1)
	if a.Equal(b) {
		t.Error("mutated clone should not equal original")
	}
	if a.Equal(NewMatrix(3, 2)) {
		t.Error("matrices of different shape should not be equal")
	}
}

func TestMatrixResized(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Fill(1)
	grown := m.Resized(3, 3)
	if grown.Rows() != 3 || grown.Cols() != 3 {
		t.Fatalf("got %dx%d, want 3x3", grown.Rows(), grown.Cols())
	}
	if grown.At(0, 0) != 1 || grown.At(2, 2) != 0 {
		t.Errorf("resize did not preserve overlap / zero-fill new area")
	}

	shrunk := m.Resized(1, 1)
	if shrunk.Rows() != 1 || shrunk.Cols() != 1 || shrunk.At(0, 0) != 1 {
		t.Errorf("shrink resize wrong: %v", shrunk.data)
	}
}

func TestMatrixArithmetic(t *testing.T) {
	a := NewMatrix(1, 3)
	b := NewMatrix(1, 3)
	for i := 0; i < 3; i++ {
		a.Set(0, i, i+1)
		b.Set(0, i, 1)
	}

	sum := a.Add(b)
	for i := 0; i < 3; i++ {
		if got, want := sum.At(0, i), i+2; got != want {
			t.Errorf("Add[%d] = %d, want %d", i, got, want)
		}
	}

	diff := a.Sub(b)
	for i := 0; i < 3; i++ {
		if got, want := diff.At(0, i), i; got != want {
			t.Errorf("Sub[%d] = %d, want %d", i, got, want)
		}
	}

	scaled := a.MulScalar(2)
	for i := 0; i < 3; i++ {
		if got, want := scaled.At(0, i), (i+1)*2; got != want {
			t.Errorf("MulScalar[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestMatrixBitwise(t *testing.T) {
	a := NewMatrix(1, 2)
	a.Set(0, 0, 1)
	a.Set(0, 1, 0)
	b := NewMatrix(1, 2)
	b.Set(0, 0, 1)
	b.Set(0, 1, 1)

	and := a.And(b)
	if and.At(0, 0) != 1 || and.At(0, 1) != 0 {
		t.Errorf("And = %v, want [1 0]", and.data)
	}
	or := a.Or(b)
	if or.At(0, 0) != 1 || or.At(0, 1) != 1 {
		t.Errorf("Or = %v, want [1 1]", or.data)
	}
	xor := a.Xor(b)
	if xor.At(0, 0) != 0 || xor.At(0, 1) != 1 {
		t.Errorf("Xor = %v, want [0 1]", xor.data)
	}
}

func TestSubmatrixViewAt(t *testing.T) {
	m := NewMatrix(4, 4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, r*4+c)
		}
	}
	view := NewSubmatrixView(m).Sub(1, 1, 2, 2)
	if view.Rows() != 2 || view.Cols() != 2 {
		t.Fatalf("view shape = %dx%d, want 2x2", view.Rows(), view.Cols())
	}
	if got, want := view.At(0, 0), m.At(1, 1); got != want {
		t.Errorf("view.At(0,0) = %d, want %d", got, want)
	}
	if got, want := view.At(1, 1), m.At(2, 2); got != want {
		t.Errorf("view.At(1,1) = %d, want %d", got, want)
	}
}

func TestSubmatrixViewComposition(t *testing.T) {
	m := NewMatrix(5, 5)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			m.Set(r, c, r*5+c)
		}
	}
	outer := NewSubmatrixView(m).Sub(1, 1, 3, 3)
	inner := outer.Sub(1, 1, 1, 1)
	if got, want := inner.At(0, 0), m.At(2, 2); got != want {
		t.Errorf("nested view.At(0,0) = %d, want %d", got, want)
	}
}

func TestSubmatrixViewToMatrix(t *testing.T) {
	m := NewMatrix(3, 3)
	m.Fill(1)
	view := NewSubmatrixView(m).Sub(0, 0, 2, 2)
	mat := view.ToMatrix()
	if mat.Rows() != 2 || mat.Cols() != 2 {
		t.Fatalf("got %dx%d, want 2x2", mat.Rows(), mat.Cols())
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if mat.At(r, c) != 1 {
				t.Errorf("At(%d,%d) = %d, want 1", r, c, mat.At(r, c))
			}
		}
	}
}

func TestSubmatrixViewResizedGrowsAndZeroFills(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Fill(9)
	view := NewSubmatrixView(m)
	grown := view.Resized(3, 3)
	if grown.At(0, 0) != 9 || grown.At(2, 2) != 0 {
		t.Errorf("grown resize wrong: %v", grown.data)
	}
}
