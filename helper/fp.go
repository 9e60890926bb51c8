/*
 * aarch64dbt - AdvSIMD/FP scalar helper functions
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package helper

import "github.com/rcornwell/aarch64dbt/softfloat"

// VfpMulxS/VfpMulxD implement `vfp_mulx{s,d}` (FMULX): multiply with
// the IEEE-754-2008 special case that 0*inf and inf*0 produce 2.0
// rather than a NaN.
func (c *Core) VfpMulxS(a, b softfloat.Float32) softfloat.Float32 {
	if isZero32(a) && b.IsInf() || a.IsInf() && isZero32(b) {
		two := softfloat.Float32FromInt32(2, c.Status)
		if signOf32(a) != signOf32(b) {
			return two.Chs()
		}
		return two
	}
	return a.Mul(b, c.Status)
}

func (c *Core) VfpMulxD(a, b softfloat.Float64) softfloat.Float64 {
	if isZero64(a) && b.IsInf() || a.IsInf() && isZero64(b) {
		two := softfloat.Float64FromInt32(2, c.Status)
		if signOf64(a) != signOf64(b) {
			return two.Chs()
		}
		return two
	}
	return a.Mul(b, c.Status)
}

func isZero32(v softfloat.Float32) bool { return v.Abs() == 0 }
func isZero64(v softfloat.Float64) bool { return v.Abs() == 0 }
func signOf32(v softfloat.Float32) bool { return v>>31 != 0 }
func signOf64(v softfloat.Float64) bool { return v>>63 != 0 }

// NeonCeqF64/NeonCgeF64/NeonCgtF64 implement the scalar double-precision
// AdvSIMD compare-to-mask instructions: an all-ones 64-bit mask on true,
// all-zero on false, rather than the NZCV flags FCMP produces.
func (c *Core) NeonCeqF64(a, b softfloat.Float64) uint64 {
	_, eq, un := a.CompareQuiet(b, c.Status)
	return boolMask64(eq && !un)
}

func (c *Core) NeonCgeF64(a, b softfloat.Float64) uint64 {
	lt, eq, un := a.CompareQuiet(b, c.Status)
	return boolMask64(!un && (eq || !lt))
}

func (c *Core) NeonCgtF64(a, b softfloat.Float64) uint64 {
	lt, eq, un := a.CompareQuiet(b, c.Status)
	return boolMask64(!un && !lt && !eq)
}

func boolMask64(v bool) uint64 {
	if v {
		return ^uint64(0)
	}
	return 0
}

// RecpsfF16/F32/F64 implement the reciprocal-step helpers
// (FRECPS: 2.0 - a*b), used by the Newton-Raphson reciprocal sequence
// generated code emits around the hardware's reciprocal estimate.
func (c *Core) RecpsfF32(a, b softfloat.Float32) softfloat.Float32 {
	two := softfloat.Float32FromInt32(2, c.Status)
	return two.Sub(a.Mul(b, c.Status), c.Status)
}

func (c *Core) RecpsfF64(a, b softfloat.Float64) softfloat.Float64 {
	two := softfloat.Float64FromInt32(2, c.Status)
	return two.Sub(a.Mul(b, c.Status), c.Status)
}

func (c *Core) RecpsfF16(a, b softfloat.Float16) softfloat.Float16 {
	two := softfloat.Float16FromInt32(2, c.Status)
	return two.Sub(a.Mul(b, c.Status), c.Status)
}

// RsqrtsfF16/F32/F64 implement the reciprocal-square-root step helpers
// (FRSQRTS: (3.0 - a*b) / 2.0).
func (c *Core) RsqrtsfF32(a, b softfloat.Float32) softfloat.Float32 {
	three := softfloat.Float32FromInt32(3, c.Status)
	two := softfloat.Float32FromInt32(2, c.Status)
	return three.Sub(a.Mul(b, c.Status), c.Status).Div(two, c.Status)
}

func (c *Core) RsqrtsfF64(a, b softfloat.Float64) softfloat.Float64 {
	three := softfloat.Float64FromInt32(3, c.Status)
	two := softfloat.Float64FromInt32(2, c.Status)
	return three.Sub(a.Mul(b, c.Status), c.Status).Div(two, c.Status)
}

func (c *Core) RsqrtsfF16(a, b softfloat.Float16) softfloat.Float16 {
	three := softfloat.Float16FromInt32(3, c.Status)
	two := softfloat.Float16FromInt32(2, c.Status)
	return three.Sub(a.Mul(b, c.Status), c.Status).Div(two, c.Status)
}

// FrecpxF16/F32/F64 implement FRECPX: the reciprocal-exponent
// instruction used to seed the reciprocal estimate sequence for
// subnormal/huge operands. The engine models it as keeping the
// operand's sign, clearing the fraction, and replacing the biased
// exponent field E with 2*bias-1-E (253-E for single precision), which
// maps an unbiased exponent e to -e-1.
func (c *Core) FrecpxF32(a softfloat.Float32) softfloat.Float32 {
	if a.IsNaN() {
		return a
	}
	if isZero32(a) {
		if signOf32(a) {
			return softfloat.Float32(0xFF800000) // -Inf
		}
		return softfloat.Float32(0x7F800000) // +Inf
	}
	if a.IsInf() {
		if signOf32(a) {
			return softfloat.Float32(1 << 31) // -0
		}
		return softfloat.Float32(0)
	}
	bits := uint32(a)
	sign := bits & (1 << 31)
	exp := (bits >> 23) & 0xFF
	newExp := uint32(253) - exp // unbiased exponent e becomes -e-1
	return softfloat.Float32(sign | (newExp << 23))
}

func (c *Core) FrecpxF64(a softfloat.Float64) softfloat.Float64 {
	if a.IsNaN() {
		return a
	}
	if isZero64(a) {
		if signOf64(a) {
			return softfloat.Float64(0xFFF0000000000000)
		}
		return softfloat.Float64(0x7FF0000000000000)
	}
	if a.IsInf() {
		if signOf64(a) {
			return softfloat.Float64(1 << 63)
		}
		return softfloat.Float64(0)
	}
	bits := uint64(a)
	sign := bits & (1 << 63)
	exp := (bits >> 52) & 0x7FF
	newExp := uint64(2045) - exp
	return softfloat.Float64(sign | (newExp << 52))
}

func (c *Core) FrecpxF16(a softfloat.Float16) softfloat.Float16 {
	if a.IsNaN() {
		return a
	}
	bits := uint16(a)
	sign := bits & (1 << 15)
	exp := (bits >> 10) & 0x1F
	if exp == 0 {
		if sign != 0 {
			return softfloat.Float16(0xFC00)
		}
		return softfloat.Float16(0x7C00)
	}
	newExp := uint16(29) - exp
	return softfloat.Float16(sign | (newExp << 10))
}

// FcvtxF64ToF32 implements `fcvtx_f64_to_f32` (FCVTXN/FCVTXD): a
// narrowing convert that always rounds to odd, used so repeated
// narrow/widen round trips never silently lose the inexactness of an
// intermediate result.
func (c *Core) FcvtxF64ToF32(a softfloat.Float64) softfloat.Float32 {
	saved := c.Status.RoundingMode
	c.Status.RoundingMode = softfloat.RoundToOdd
	result := a.ToFloat32(c.Status)
	c.Status.RoundingMode = saved
	return result
}

// SqrtF16 implements `sqrt_f16` (FSQRT, half precision).
func (c *Core) SqrtF16(a softfloat.Float16) softfloat.Float16 { return a.Sqrt(c.Status) }
