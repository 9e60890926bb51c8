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

// Float80 is an 80-bit x87 extended-precision value, stored as its two
// machine words: Sig holds the 64-bit significand (with the explicit
// integer bit), Signexp holds the sign in bit 15 and the 15-bit biased
// exponent in bits 14:0.
type Float80 struct {
	Sig     uint64
	Signexp uint16
}

func (v Float80) bits() *big.Int {
	b := new(big.Int).SetUint64(v.Sig)
	b.Or(b, new(big.Int).Lsh(big.NewInt(int64(v.Signexp)), 64))
	return b
}

func (v Float80) unpack() unpacked { return unpack(fmt80, v.bits()) }

func packFloat80(u unpacked) Float80 {
	raw := pack(fmt80, u)
	sig := new(big.Int).And(raw, new(big.Int).Sub(new(big.Int).Lsh(bigOne(), 64), bigOne()))
	signexp := new(big.Int).Rsh(raw, 64)
	return Float80{Sig: sig.Uint64(), Signexp: uint16(signexp.Uint64())}
}

// x87's own rounding-precision control narrows the internal rounding to
// single or double width before the result is re-widened to 80 bits, per
// status.FloatX80RoundingPrec.
func narrowedFormat(status *Status) format {
	switch status.FloatX80RoundingPrec {
	case X87Precision32:
		return fmt32
	case X87Precision64:
		return fmt64
	default:
		return fmt80
	}
}

func roundX87(u unpacked, status *Status) unpacked {
	if u.cls != classNormal {
		return u
	}
	narrow := narrowedFormat(status)
	if narrow.name == fmt80.name {
		return u
	}
	rounded := roundAndPack(narrow, u.sign, u.exp, new(big.Int).Set(u.frac), status)
	if rounded.cls != classNormal {
		return rounded
	}
	// widen the narrowed significand back out to the full 64-bit field.
	shift := int(fmt80.precision()) - int(narrow.precision())
	return unpacked{sign: rounded.sign, cls: classNormal, exp: rounded.exp, frac: new(big.Int).Lsh(rounded.frac, uint(shift))}
}

func (v Float80) Add(w Float80, status *Status) Float80 {
	return packFloat80(roundX87(opAdd(fmt80, v.unpack(), w.unpack(), status), status))
}

func (v Float80) Sub(w Float80, status *Status) Float80 {
	return packFloat80(roundX87(opSub(fmt80, v.unpack(), w.unpack(), status), status))
}

func (v Float80) Mul(w Float80, status *Status) Float80 {
	return packFloat80(roundX87(opMul(fmt80, v.unpack(), w.unpack(), status), status))
}

func (v Float80) Div(w Float80, status *Status) Float80 {
	return packFloat80(roundX87(opDiv(fmt80, v.unpack(), w.unpack(), status), status))
}

func (v Float80) Sqrt(status *Status) Float80 {
	return packFloat80(roundX87(opSqrt(fmt80, v.unpack(), status), status))
}

func (v Float80) MulAdd(w, x Float80, status *Status) Float80 {
	return packFloat80(roundX87(opMulAdd(fmt80, v.unpack(), w.unpack(), x.unpack(), status), status))
}

func (v Float80) CompareQuiet(w Float80, status *Status) (less, equal, unordered bool) {
	return compareOp(fmt80, v.unpack(), w.unpack(), false, status)
}

func (v Float80) ToFloat64(status *Status) Float64 {
	return packFloat64(convertFormat(fmt64, v.unpack(), status))
}

func Float80FromFloat64(w Float64, status *Status) Float80 {
	return packFloat80(convertFormat(fmt80, w.unpack(), status))
}

func (v Float80) IsNaN() bool { return isNaN(v.unpack()) }
