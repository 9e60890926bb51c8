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

import "math/big"

// Float64 is a raw IEEE 754 binary64 bit pattern.
type Float64 uint64

func (v Float64) bits() *big.Int   { return new(big.Int).SetUint64(uint64(v)) }
func (v Float64) unpack() unpacked { return unpack(fmt64, v.bits()) }
func packFloat64(u unpacked) Float64 { return Float64(pack(fmt64, u).Uint64()) }

func Float64FromInt32(n int32, status *Status) Float64 {
	return packFloat64(fromSignedInt(fmt64, int64(n), status))
}

func Float64FromUint32(n uint32, status *Status) Float64 {
	return packFloat64(fromUnsignedInt(fmt64, uint64(n), status))
}

func Float64FromInt64(n int64, status *Status) Float64 {
	return packFloat64(fromSignedInt(fmt64, n, status))
}

func Float64FromUint64(n uint64, status *Status) Float64 {
	return packFloat64(fromUnsignedInt(fmt64, n, status))
}

func (v Float64) ToInt32(status *Status) int32 {
	return int32(toSignedInt(v.unpack(), 32, status.RoundingMode, status))
}

func (v Float64) ToInt32RoundToZero(status *Status) int32 {
	return int32(toSignedInt(v.unpack(), 32, RoundToZero, status))
}

func (v Float64) ToUint32(status *Status) uint32 {
	return uint32(toUnsignedInt(v.unpack(), 32, status.RoundingMode, status))
}

func (v Float64) ToInt64(status *Status) int64 {
	return toSignedInt(v.unpack(), 64, status.RoundingMode, status)
}

func (v Float64) ToInt64RoundToZero(status *Status) int64 {
	return toSignedInt(v.unpack(), 64, RoundToZero, status)
}

func (v Float64) ToUint64(status *Status) uint64 {
	return toUnsignedInt(v.unpack(), 64, status.RoundingMode, status)
}

func (v Float64) ToFloat32(status *Status) Float32 {
	return packFloat32(convertFormat(fmt32, v.unpack(), status))
}

func (v Float64) ToFloat16(status *Status) Float16 {
	return packFloat16(convertFormat(fmt16, v.unpack(), status))
}

func (v Float64) Add(w Float64, status *Status) Float64 {
	return packFloat64(opAdd(fmt64, v.unpack(), w.unpack(), status))
}

func (v Float64) Sub(w Float64, status *Status) Float64 {
	return packFloat64(opSub(fmt64, v.unpack(), w.unpack(), status))
}

func (v Float64) Mul(w Float64, status *Status) Float64 {
	return packFloat64(opMul(fmt64, v.unpack(), w.unpack(), status))
}

func (v Float64) Div(w Float64, status *Status) Float64 {
	return packFloat64(opDiv(fmt64, v.unpack(), w.unpack(), status))
}

func (v Float64) Rem(w Float64, status *Status) Float64 {
	return packFloat64(opRem(fmt64, v.unpack(), w.unpack(), status))
}

func (v Float64) Sqrt(status *Status) Float64 {
	return packFloat64(opSqrt(fmt64, v.unpack(), status))
}

func (v Float64) MulAdd(w, x Float64, status *Status) Float64 {
	return packFloat64(opMulAdd(fmt64, v.unpack(), w.unpack(), x.unpack(), status))
}

func (v Float64) CompareSignaling(w Float64, status *Status) (less, equal, unordered bool) {
	return compareOp(fmt64, v.unpack(), w.unpack(), true, status)
}

func (v Float64) CompareQuiet(w Float64, status *Status) (less, equal, unordered bool) {
	return compareOp(fmt64, v.unpack(), w.unpack(), false, status)
}

func (v Float64) Eq(w Float64, status *Status) bool {
	_, equal, unordered := v.CompareQuiet(w, status)
	return equal && !unordered
}

func (v Float64) Le(w Float64, status *Status) bool {
	less, equal, unordered := v.CompareSignaling(w, status)
	return (less || equal) && !unordered
}

func (v Float64) Lt(w Float64, status *Status) bool {
	less, _, unordered := v.CompareSignaling(w, status)
	return less && !unordered
}

func (v Float64) Unordered(w Float64, status *Status) bool {
	_, _, unordered := v.CompareQuiet(w, status)
	return unordered
}

func (v Float64) Min(w Float64, status *Status) Float64 {
	return packFloat64(opMin(fmt64, v.unpack(), w.unpack(), status))
}

func (v Float64) Max(w Float64, status *Status) Float64 {
	return packFloat64(opMax(fmt64, v.unpack(), w.unpack(), status))
}

func (v Float64) MinNum(w Float64, status *Status) Float64 {
	return packFloat64(opMinMaxNum(fmt64, v.unpack(), w.unpack(), true, status))
}

func (v Float64) MaxNum(w Float64, status *Status) Float64 {
	return packFloat64(opMinMaxNum(fmt64, v.unpack(), w.unpack(), false, status))
}

func (v Float64) Scalbn(n int, status *Status) Float64 {
	return packFloat64(opScalbn(fmt64, v.unpack(), int64(n), status))
}

func (v Float64) RoundToInt(status *Status) Float64 {
	return packFloat64(opRoundToInt(fmt64, v.unpack(), status))
}

func (v Float64) IsNaN() bool { return isNaN(v.unpack()) }
func (v Float64) IsInf() bool { return v.unpack().cls == classInfinity }
func (v Float64) IsSignalingNaN() bool {
	return v.unpack().cls == classSignalingNaN
}

func (v Float64) Abs() Float64 { return v &^ (1 << 63) }
func (v Float64) Chs() Float64 { return v ^ (1 << 63) }
