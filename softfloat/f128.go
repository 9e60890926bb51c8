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

// Float128 is a raw IEEE 754 binary128 bit pattern, stored as the high
// and low 64-bit halves (Hi holds the sign, exponent and top 48
// fraction bits; Lo holds the low 64 fraction bits).
type Float128 struct {
	Hi, Lo uint64
}

func (v Float128) bits() *big.Int {
	b := new(big.Int).SetUint64(v.Lo)
	b.Or(b, new(big.Int).Lsh(new(big.Int).SetUint64(v.Hi), 64))
	return b
}

func (v Float128) unpack() unpacked { return unpack(fmt128, v.bits()) }

func packFloat128(u unpacked) Float128 {
	raw := pack(fmt128, u)
	mask64 := new(big.Int).Sub(new(big.Int).Lsh(bigOne(), 64), bigOne())
	lo := new(big.Int).And(raw, mask64)
	hi := new(big.Int).Rsh(raw, 64)
	return Float128{Hi: hi.Uint64(), Lo: lo.Uint64()}
}

func (v Float128) Add(w Float128, status *Status) Float128 {
	return packFloat128(opAdd(fmt128, v.unpack(), w.unpack(), status))
}

func (v Float128) Sub(w Float128, status *Status) Float128 {
	return packFloat128(opSub(fmt128, v.unpack(), w.unpack(), status))
}

func (v Float128) Mul(w Float128, status *Status) Float128 {
	return packFloat128(opMul(fmt128, v.unpack(), w.unpack(), status))
}

func (v Float128) Div(w Float128, status *Status) Float128 {
	return packFloat128(opDiv(fmt128, v.unpack(), w.unpack(), status))
}

func (v Float128) Sqrt(status *Status) Float128 {
	return packFloat128(opSqrt(fmt128, v.unpack(), status))
}

func (v Float128) MulAdd(w, x Float128, status *Status) Float128 {
	return packFloat128(opMulAdd(fmt128, v.unpack(), w.unpack(), x.unpack(), status))
}

func (v Float128) CompareQuiet(w Float128, status *Status) (less, equal, unordered bool) {
	return compareOp(fmt128, v.unpack(), w.unpack(), false, status)
}

func (v Float128) ToFloat64(status *Status) Float64 {
	return packFloat64(convertFormat(fmt64, v.unpack(), status))
}

func Float128FromFloat64(w Float64, status *Status) Float128 {
	return packFloat128(convertFormat(fmt128, w.unpack(), status))
}

func (v Float128) IsNaN() bool { return isNaN(v.unpack()) }
