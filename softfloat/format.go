/*
   Generic unpack/round/pack core shared by every width.

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

// format describes one of the five binary layouts. expBits/sigBits are
// the field widths; explicitInt marks floatx80, whose stored significand
// carries the integer bit rather than leaving it implicit.
type format struct {
	name       string
	expBits    uint
	sigBits    uint // fraction bits stored, NOT counting an implicit bit
	bias       int64
	explicitInt bool
}

var (
	fmt16  = format{name: "f16", expBits: 5, sigBits: 10, bias: 15}
	fmt32  = format{name: "f32", expBits: 8, sigBits: 23, bias: 127}
	fmt64  = format{name: "f64", expBits: 11, sigBits: 52, bias: 1023}
	fmt80  = format{name: "f80", expBits: 15, sigBits: 64, bias: 16383, explicitInt: true}
	fmt128 = format{name: "f128", expBits: 15, sigBits: 112, bias: 16383}
)

// precision is the number of significant bits retained after rounding:
// the implicit bit (if any) plus the stored fraction bits.
func (f format) precision() uint {
	if f.explicitInt {
		return f.sigBits
	}
	return f.sigBits + 1
}

func (f format) maxBiasedExp() int64 { return (int64(1) << f.expBits) - 1 }

// class is the architectural class of an unpacked value.
type class uint8

const (
	classZero class = iota
	classNormal
	classInfinity
	classQuietNaN
	classSignalingNaN
)

// unpacked is the aligned-significand representation shared by every
// width: true value = (-1)^sign * frac * 2^exp, frac a non-negative
// integer that carries its own guard/round/sticky bits below the
// retained precision until roundAndPack trims it down to a target
// format.
type unpacked struct {
	sign bool
	cls  class
	exp  int64
	frac *big.Int // meaningful for classNormal and the NaN classes (payload)
}

func bigOne() *big.Int { return big.NewInt(1) }

// flushInput implements FlushInputsToZero: a subnormal operand is
// replaced by a signed zero and FlagInputDenormal is raised before any
// operation sees it. Zero, infinity, and NaN operands pass through
// unchanged.
func flushInput(f format, u unpacked, status *Status) unpacked {
	if !status.FlushInputsToZero || u.cls != classNormal {
		return u
	}
	minNormalE := int64(1) - f.bias
	e := u.exp + int64(u.frac.BitLen()) - 1
	if e < minNormalE {
		status.Raise(FlagInputDenormal)
		return unpacked{sign: u.sign, cls: classZero}
	}
	return u
}

// unpack decodes a raw bit pattern (as a big.Int of the format's total
// width) into the aligned representation.
func unpack(f format, bits *big.Int) unpacked {
	width := f.expBits + f.sigBits + 1
	if f.explicitInt {
		width = f.expBits + f.sigBits + 1 // sign(1)+exp(15)+sig(64) for f80
	}
	sign := bits.Bit(int(width-1)) == 1

	var biasedExp int64
	var frac *big.Int

	if f.explicitInt {
		expMask := (int64(1) << f.expBits) - 1
		biasedExp = int64(new(big.Int).Rsh(bits, f.sigBits).Int64() & expMask)
		sigMask := new(big.Int).Sub(new(big.Int).Lsh(bigOne(), f.sigBits), bigOne())
		frac = new(big.Int).And(bits, sigMask)

		integerBit := frac.Bit(int(f.sigBits - 1))
		rest := new(big.Int).And(frac, new(big.Int).Sub(new(big.Int).Lsh(bigOne(), f.sigBits-1), bigOne()))

		switch {
		case biasedExp == f.maxBiasedExp():
			if rest.Sign() == 0 && integerBit == 1 {
				return unpacked{sign: sign, cls: classInfinity}
			}
			return nanUnpacked(sign, rest, f)
		case biasedExp == 0 && integerBit == 0:
			if frac.Sign() == 0 {
				return unpacked{sign: sign, cls: classZero}
			}
			return unpacked{sign: sign, cls: classNormal, exp: 1 - f.bias - int64(f.sigBits), frac: frac}
		default:
			return unpacked{sign: sign, cls: classNormal, exp: biasedExp - f.bias - int64(f.sigBits), frac: frac}
		}
	}

	expMask := (int64(1) << f.expBits) - 1
	biasedExp = new(big.Int).Rsh(bits, f.sigBits).Int64() & expMask
	sigMask := new(big.Int).Sub(new(big.Int).Lsh(bigOne(), f.sigBits), bigOne())
	storedFrac := new(big.Int).And(bits, sigMask)

	switch {
	case biasedExp == f.maxBiasedExp():
		if storedFrac.Sign() == 0 {
			return unpacked{sign: sign, cls: classInfinity}
		}
		return nanUnpacked(sign, storedFrac, f)
	case biasedExp == 0:
		if storedFrac.Sign() == 0 {
			return unpacked{sign: sign, cls: classZero}
		}
		return unpacked{sign: sign, cls: classNormal, exp: 1 - f.bias - int64(f.sigBits), frac: storedFrac}
	default:
		frac = new(big.Int).Or(new(big.Int).Lsh(bigOne(), f.sigBits), storedFrac)
		return unpacked{sign: sign, cls: classNormal, exp: biasedExp - f.bias - int64(f.sigBits), frac: frac}
	}
}

func nanUnpacked(sign bool, storedFrac *big.Int, f format) unpacked {
	quietBit := f.sigBits - 1
	if f.explicitInt {
		quietBit = f.sigBits - 2
	}
	if storedFrac.Bit(int(quietBit)) == 1 {
		return unpacked{sign: sign, cls: classQuietNaN, frac: storedFrac}
	}
	return unpacked{sign: sign, cls: classSignalingNaN, frac: storedFrac}
}

// pack encodes an already-rounded unpacked value (classNormal's frac MUST
// already have exactly f.precision() bits, or be zero) into the format's
// raw bit pattern.
func pack(f format, u unpacked) *big.Int {
	width := f.expBits + f.sigBits + 1
	out := big.NewInt(0)
	if u.sign {
		out.SetBit(out, int(width-1), 1)
	}

	switch u.cls {
	case classZero:
		return out
	case classInfinity:
		out.Or(out, new(big.Int).Lsh(big.NewInt(f.maxBiasedExp()), f.sigBits))
		if f.explicitInt {
			out.SetBit(out, int(f.sigBits-1), 1)
		}
		return out
	case classQuietNaN, classSignalingNaN:
		out.Or(out, new(big.Int).Lsh(big.NewInt(f.maxBiasedExp()), f.sigBits))
		frac := u.frac
		if frac == nil || frac.Sign() == 0 {
			frac = new(big.Int).Lsh(bigOne(), f.sigBits-1)
		}
		out.Or(out, frac)
		if f.explicitInt {
			out.SetBit(out, int(f.sigBits-1), 1)
		}
		if u.cls == classQuietNaN {
			qb := f.sigBits - 1
			if f.explicitInt {
				qb = f.sigBits - 2
			}
			out.SetBit(out, int(qb), 1)
		}
		return out
	}

	// classNormal, possibly subnormal/zero/infinite after rounding.
	if u.frac == nil || u.frac.Sign() == 0 {
		return out
	}
	bitLen := uint(u.frac.BitLen())
	biasedExp := u.exp + int64(bitLen) + f.bias + int64(f.sigBits) - int64(bitLen)
	// unbiased true exponent e = exp + bitLen - 1 (value = frac*2^exp, MSB at bitLen-1)
	e := u.exp + int64(bitLen) - 1
	biasedExp = e + f.bias

	switch {
	case biasedExp <= 0:
		// Subnormal: frac already shifted to the subnormal scale by the
		// caller (roundAndPack handles this before calling pack).
		storedFrac := u.frac
		out.Or(out, storedFrac)
		return out
	case biasedExp >= f.maxBiasedExp():
		// Overflow already resolved to infinity by roundAndPack.
		out.Or(out, new(big.Int).Lsh(big.NewInt(f.maxBiasedExp()), f.sigBits))
		if f.explicitInt {
			out.SetBit(out, int(f.sigBits-1), 1)
		}
		return out
	default:
		var storedFrac *big.Int
		if f.explicitInt {
			storedFrac = u.frac // full precision() bits including integer bit
		} else {
			mask := new(big.Int).Sub(new(big.Int).Lsh(bigOne(), f.sigBits), bigOne())
			storedFrac = new(big.Int).And(u.frac, mask)
		}
		out.Or(out, new(big.Int).Lsh(big.NewInt(biasedExp), f.sigBits))
		out.Or(out, storedFrac)
		return out
	}
}
