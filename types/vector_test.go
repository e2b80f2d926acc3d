package types

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	v1 := XYZ(1, 2, 3)
	v2 := XYZ(4, 5, 6)

	if got := v1.Add(v2); got != XYZ(5, 7, 9) {
		t.Fatalf("expected sum (5, 7, 9); got %v", got)
	}
	if got := v2.Sub(v1); got != XYZ(3, 3, 3) {
		t.Fatalf("expected difference (3, 3, 3); got %v", got)
	}
	if got := v1.Mul(2); got != XYZ(2, 4, 6) {
		t.Fatalf("expected scaled vector (2, 4, 6); got %v", got)
	}
	if got := v1.MulVec(v2); got != XYZ(4, 10, 18) {
		t.Fatalf("expected component product (4, 10, 18); got %v", got)
	}
}

func TestVec3DotCross(t *testing.T) {
	x := XYZ(1, 0, 0)
	y := XYZ(0, 1, 0)

	if got := x.Dot(y); got != 0 {
		t.Fatalf("expected orthogonal dot product 0; got %f", got)
	}
	if got := x.Cross(y); got != XYZ(0, 0, 1) {
		t.Fatalf("expected cross product (0, 0, 1); got %v", got)
	}
	if got := y.Cross(x); got != XYZ(0, 0, -1) {
		t.Fatalf("expected cross product (0, 0, -1); got %v", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := XYZ(3, 0, 4)
	n := v.Normalize()

	if math.Abs(float64(n.Len())-1) > 1e-6 {
		t.Fatalf("expected unit length; got %f", n.Len())
	}
	if got := XYZ(0.6, 0, 0.8); n.Sub(got).Len() > 1e-6 {
		t.Fatalf("expected %v; got %v", got, n)
	}
}

func TestVec3MaxComponent(t *testing.T) {
	if got := XYZ(1, 5, 3).MaxComponent(); got != 5 {
		t.Fatalf("expected max component 5; got %f", got)
	}
	if got := XYZ(-1, -5, -3).MaxComponent(); got != -1 {
		t.Fatalf("expected max component -1; got %f", got)
	}
}

func TestMinMaxVec3(t *testing.T) {
	v1 := XYZ(1, 5, 2)
	v2 := XYZ(3, 0, 2)

	if got := MinVec3(v1, v2); got != XYZ(1, 0, 2) {
		t.Fatalf("expected componentwise min (1, 0, 2); got %v", got)
	}
	if got := MaxVec3(v1, v2); got != XYZ(3, 5, 2) {
		t.Fatalf("expected componentwise max (3, 5, 2); got %v", got)
	}
}
