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

// Float32 is a raw IEEE 754 binary32 bit pattern.
type Float32 uint32

func (v Float32) bits() *big.Int { return new(big.Int).SetUint64(uint64(v)) }
func (v Float32) unpack() unpacked { return unpack(fmt32, v.bits()) }
func packFloat32(u unpacked) Float32 { return Float32(pack(fmt32, u).Uint64()) }

func Float32FromInt32(n int32, status *Status) Float32 {
	return packFloat32(fromSignedInt(fmt32, int64(n), status))
}

func Float32FromUint32(n uint32, status *Status) Float32 {
	return packFloat32(fromUnsignedInt(fmt32, uint64(n), status))
}

func Float32FromInt64(n int64, status *Status) Float32 {
	return packFloat32(fromSignedInt(fmt32, n, status))
}

func Float32FromUint64(n uint64, status *Status) Float32 {
	return packFloat32(fromUnsignedInt(fmt32, n, status))
}

func (v Float32) ToInt32(status *Status) int32 {
	return int32(toSignedInt(v.unpack(), 32, status.RoundingMode, status))
}

func (v Float32) ToInt32RoundToZero(status *Status) int32 {
	return int32(toSignedInt(v.unpack(), 32, RoundToZero, status))
}

func (v Float32) ToUint32(status *Status) uint32 {
	return uint32(toUnsignedInt(v.unpack(), 32, status.RoundingMode, status))
}

func (v Float32) ToUint32RoundToZero(status *Status) uint32 {
	return uint32(toUnsignedInt(v.unpack(), 32, RoundToZero, status))
}

func (v Float32) ToInt64(status *Status) int64 {
	return toSignedInt(v.unpack(), 64, status.RoundingMode, status)
}

func (v Float32) ToUint64(status *Status) uint64 {
	return toUnsignedInt(v.unpack(), 64, status.RoundingMode, status)
}

func (v Float32) ToFloat64(status *Status) Float64 {
	return packFloat64(convertFormat(fmt64, v.unpack(), status))
}

func (v Float32) ToFloat16(status *Status) Float16 {
	return packFloat16(convertFormat(fmt16, v.unpack(), status))
}

func (v Float32) Add(w Float32, status *Status) Float32 {
	return packFloat32(opAdd(fmt32, v.unpack(), w.unpack(), status))
}

func (v Float32) Sub(w Float32, status *Status) Float32 {
	return packFloat32(opSub(fmt32, v.unpack(), w.unpack(), status))
}

func (v Float32) Mul(w Float32, status *Status) Float32 {
	return packFloat32(opMul(fmt32, v.unpack(), w.unpack(), status))
}

func (v Float32) Div(w Float32, status *Status) Float32 {
	return packFloat32(opDiv(fmt32, v.unpack(), w.unpack(), status))
}

func (v Float32) Rem(w Float32, status *Status) Float32 {
	return packFloat32(opRem(fmt32, v.unpack(), w.unpack(), status))
}

func (v Float32) Sqrt(status *Status) Float32 {
	return packFloat32(opSqrt(fmt32, v.unpack(), status))
}

func (v Float32) MulAdd(w, x Float32, status *Status) Float32 {
	return packFloat32(opMulAdd(fmt32, v.unpack(), w.unpack(), x.unpack(), status))
}

func (v Float32) CompareSignaling(w Float32, status *Status) (less, equal, unordered bool) {
	return compareOp(fmt32, v.unpack(), w.unpack(), true, status)
}

func (v Float32) CompareQuiet(w Float32, status *Status) (less, equal, unordered bool) {
	return compareOp(fmt32, v.unpack(), w.unpack(), false, status)
}

func (v Float32) Eq(w Float32, status *Status) bool {
	_, equal, unordered := v.CompareQuiet(w, status)
	return equal && !unordered
}

func (v Float32) EqSignaling(w Float32, status *Status) bool {
	_, equal, unordered := v.CompareSignaling(w, status)
	return equal && !unordered
}

func (v Float32) Le(w Float32, status *Status) bool {
	less, equal, unordered := v.CompareSignaling(w, status)
	return (less || equal) && !unordered
}

func (v Float32) LeQuiet(w Float32, status *Status) bool {
	less, equal, unordered := v.CompareQuiet(w, status)
	return (less || equal) && !unordered
}

func (v Float32) Lt(w Float32, status *Status) bool {
	less, _, unordered := v.CompareSignaling(w, status)
	return less && !unordered
}

func (v Float32) LtQuiet(w Float32, status *Status) bool {
	less, _, unordered := v.CompareQuiet(w, status)
	return less && !unordered
}

func (v Float32) Unordered(w Float32, status *Status) bool {
	_, _, unordered := v.CompareQuiet(w, status)
	return unordered
}

func (v Float32) Min(w Float32, status *Status) Float32 {
	return packFloat32(opMin(fmt32, v.unpack(), w.unpack(), status))
}

func (v Float32) Max(w Float32, status *Status) Float32 {
	return packFloat32(opMax(fmt32, v.unpack(), w.unpack(), status))
}

func (v Float32) MinNum(w Float32, status *Status) Float32 {
	return packFloat32(opMinMaxNum(fmt32, v.unpack(), w.unpack(), true, status))
}

func (v Float32) MaxNum(w Float32, status *Status) Float32 {
	return packFloat32(opMinMaxNum(fmt32, v.unpack(), w.unpack(), false, status))
}

func (v Float32) Scalbn(n int, status *Status) Float32 {
	return packFloat32(opScalbn(fmt32, v.unpack(), int64(n), status))
}

func (v Float32) RoundToInt(status *Status) Float32 {
	return packFloat32(opRoundToInt(fmt32, v.unpack(), status))
}

func (v Float32) IsNaN() bool { return isNaN(v.unpack()) }
func (v Float32) IsInf() bool { return v.unpack().cls == classInfinity }
func (v Float32) IsSignalingNaN() bool {
	return v.unpack().cls == classSignalingNaN
}

func (v Float32) Abs() Float32 { return v &^ (1 << 31) }
func (v Float32) Chs() Float32 { return v ^ (1 << 31) }
