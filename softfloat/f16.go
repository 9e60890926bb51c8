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

// Float16 is a raw IEEE 754 binary16 bit pattern, used by the AArch64
// half-precision extension and as Xtensa's narrow intermediate format.
type Float16 uint16

func (v Float16) bits() *big.Int     { return new(big.Int).SetUint64(uint64(v)) }
func (v Float16) unpack() unpacked   { return unpack(fmt16, v.bits()) }
func packFloat16(u unpacked) Float16 { return Float16(pack(fmt16, u).Uint64()) }

func Float16FromInt32(n int32, status *Status) Float16 {
	return packFloat16(fromSignedInt(fmt16, int64(n), status))
}

func (v Float16) ToInt32(status *Status) int32 {
	return int32(toSignedInt(v.unpack(), 32, status.RoundingMode, status))
}

func (v Float16) ToFloat32(status *Status) Float32 {
	return packFloat32(convertFormat(fmt32, v.unpack(), status))
}

func (v Float16) ToFloat64(status *Status) Float64 {
	return packFloat64(convertFormat(fmt64, v.unpack(), status))
}

func (v Float16) Add(w Float16, status *Status) Float16 {
	return packFloat16(opAdd(fmt16, v.unpack(), w.unpack(), status))
}

func (v Float16) Sub(w Float16, status *Status) Float16 {
	return packFloat16(opSub(fmt16, v.unpack(), w.unpack(), status))
}

func (v Float16) Mul(w Float16, status *Status) Float16 {
	return packFloat16(opMul(fmt16, v.unpack(), w.unpack(), status))
}

func (v Float16) Div(w Float16, status *Status) Float16 {
	return packFloat16(opDiv(fmt16, v.unpack(), w.unpack(), status))
}

func (v Float16) Sqrt(status *Status) Float16 {
	return packFloat16(opSqrt(fmt16, v.unpack(), status))
}

func (v Float16) MulAdd(w, x Float16, status *Status) Float16 {
	return packFloat16(opMulAdd(fmt16, v.unpack(), w.unpack(), x.unpack(), status))
}

func (v Float16) CompareQuiet(w Float16, status *Status) (less, equal, unordered bool) {
	return compareOp(fmt16, v.unpack(), w.unpack(), false, status)
}

func (v Float16) IsNaN() bool { return isNaN(v.unpack()) }
func (v Float16) IsInf() bool { return v.unpack().cls == classInfinity }
