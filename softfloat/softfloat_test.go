/*
   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package softfloat

import "testing"

func TestAddBasic(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	got := Float32(0x3F800000).Add(Float32(0x3F800000), status)
	if got != 0x40000000 {
		t.Fatalf("1.0+1.0 = %#x, want 0x40000000", uint32(got))
	}
	if status.ExceptionFlags != 0 {
		t.Fatalf("unexpected flags %v", status.ExceptionFlags)
	}
}

func TestMulSubnormalResult(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	got := Float32(0x00800001).Mul(Float32(0x3f000000), status)
	if got != 0x00400000 {
		t.Fatalf("product = %#x, want 0x00400000", uint32(got))
	}
	want := FlagInexact | FlagUnderflow | FlagOutputDenormal
	if status.ExceptionFlags != want {
		t.Fatalf("flags = %v, want %v", status.ExceptionFlags, want)
	}
}

func TestSignalingNaNSilencedUnderARMPolicy(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	got := Float32(0x7FA00000).Add(Float32(0x3F800000), status)
	if got != 0x7FE00000 {
		t.Fatalf("result = %#x, want 0x7FE00000", uint32(got))
	}
	if status.ExceptionFlags&FlagInvalid == 0 {
		t.Fatalf("expected FlagInvalid, got %v", status.ExceptionFlags)
	}
}

func TestIntRoundTrip(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	for _, n := range []int32{0, 1, -1, 12345, -12345, 1 << 20, -(1 << 20)} {
		f := Float32FromInt32(n, status)
		back := f.ToInt32RoundToZero(status)
		if back != n {
			t.Fatalf("round trip %d -> %#x -> %d", n, uint32(f), back)
		}
	}
	if status.ExceptionFlags != 0 {
		t.Fatalf("unexpected flags on exact round trip: %v", status.ExceptionFlags)
	}
}

func TestFloat64ToFloat32RoundTrip(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	for _, n := range []int32{0, 1, -7, 1 << 10, -(1 << 16)} {
		f32 := Float32FromInt32(n, status)
		f64 := f32.ToFloat64(status)
		back := f64.ToFloat32(status)
		if back != f32 {
			t.Fatalf("widen/narrow of %#x produced %#x", uint32(f32), uint32(back))
		}
	}
}

func TestCompareAntisymmetry(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	pairs := [][2]Float32{
		{0x3F800000, 0x40000000}, // 1.0, 2.0
		{0xBF800000, 0x3F800000}, // -1.0, 1.0
		{0x00000000, 0x80000000}, // +0.0, -0.0
		{0x3F800000, 0x3F800000}, // 1.0, 1.0
	}
	for _, p := range pairs {
		a, b := p[0], p[1]
		lt, _, _ := a.CompareQuiet(b, status)
		gt, _, _ := b.CompareQuiet(a, status)
		eqAB := a.Eq(b, status)
		if lt && gt {
			t.Fatalf("both a<b and b<a for %#x, %#x", uint32(a), uint32(b))
		}
		if eqAB && (lt || gt) {
			t.Fatalf("equal operands also compared strictly less for %#x, %#x", uint32(a), uint32(b))
		}
	}
}

func TestDivByZero(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	got := Float32(0x3F800000).Div(Float32(0), status)
	if !got.IsInf() {
		t.Fatalf("1.0/0.0 = %#x, want infinity", uint32(got))
	}
	if status.ExceptionFlags&FlagDivByZero == 0 {
		t.Fatalf("expected FlagDivByZero")
	}
}

func TestSqrtNegativeIsInvalid(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	got := Float32(0xBF800000).Sqrt(status) // sqrt(-1.0)
	if !got.IsNaN() {
		t.Fatalf("sqrt(-1.0) = %#x, want NaN", uint32(got))
	}
	if status.ExceptionFlags&FlagInvalid == 0 {
		t.Fatalf("expected FlagInvalid")
	}
}

func TestMulAddSingleRounding(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	// (1.0 * 1.0) + 1.0 = 2.0, exact either way, sanity check for the
	// fused path producing the same bits as the unfused chain here.
	got := Float32(0x3F800000).MulAdd(Float32(0x3F800000), Float32(0x3F800000), status)
	if got != 0x40000000 {
		t.Fatalf("fma(1,1,1) = %#x, want 0x40000000", uint32(got))
	}
}

func TestMinMaxSignedZero(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	pz, nz := Float32(0x00000000), Float32(0x80000000)
	if got := pz.Min(nz, status); got != nz {
		t.Fatalf("min(+0,-0) = %#x, want -0", uint32(got))
	}
	if got := pz.Max(nz, status); got != pz {
		t.Fatalf("max(+0,-0) = %#x, want +0", uint32(got))
	}
}

func TestRemSignFollowsBorrowedRemainder(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	// remainder(3.0, 2.0): nearest integer to 3/2 is a tie, broken to the
	// even quotient 2, so r = 3 - 2*2 = -1: the sign must flip relative to
	// the dividend's sign, not just take its magnitude.
	a := Float32FromInt32(3, status)
	b := Float32FromInt32(2, status)
	got := a.Rem(b, status)
	want := Float32FromInt32(-1, status)
	if got != want {
		t.Fatalf("rem(3.0,2.0) = %#x, want %#x (-1.0)", uint32(got), uint32(want))
	}
}

func TestRoundToOddSetsLSBOnInexact(t *testing.T) {
	computeStatus := NewStatus(NaNPolicyARM)
	one := Float64FromInt32(1, computeStatus)
	three := Float64FromInt32(3, computeStatus)
	oneThird := one.Div(three, computeStatus)

	status := NewStatus(NaNPolicyARM)
	status.RoundingMode = RoundToOdd
	got := oneThird.ToFloat32(status)
	if got&1 != 1 {
		t.Fatalf("RoundToOdd narrow of an inexact value = %#x, want LSB set", uint32(got))
	}
	if status.ExceptionFlags&FlagInexact == 0 {
		t.Fatalf("expected FlagInexact from a round-to-odd narrowing of 1/3")
	}
}

func TestDefaultNaNModeOverridesOperandPropagation(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	status.DefaultNaNMode = true
	sNaN := Float32(0x7FA00000)
	got := sNaN.Add(Float32(0x3F800000), status)
	want := Float32(0x7FC00000) // the canonical default NaN for binary32
	if got != want {
		t.Fatalf("DefaultNaNMode result = %#x, want default NaN %#x", uint32(got), uint32(want))
	}
	if status.ExceptionFlags&FlagInvalid == 0 {
		t.Fatalf("signaling NaN input must still raise FlagInvalid under DefaultNaNMode")
	}
}

func TestFlushInputsToZeroTreatsSubnormalOperandAsZero(t *testing.T) {
	status := NewStatus(NaNPolicyARM)
	status.FlushInputsToZero = true
	subnormal := Float32(0x00000001) // smallest positive subnormal
	one := Float32FromInt32(1, status)
	got := subnormal.Add(one, status)
	if got != one {
		t.Fatalf("1.0 + flushed-subnormal = %#x, want 1.0 (%#x) unchanged", uint32(got), uint32(one))
	}
	if status.ExceptionFlags&FlagInputDenormal == 0 {
		t.Fatalf("expected FlagInputDenormal when an input is flushed")
	}
}
