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

func maxIntN(bits int) int64 {
	if bits >= 64 {
		return 1<<63 - 1
	}
	return (int64(1) << uint(bits-1)) - 1
}

func minIntN(bits int) int64 {
	if bits >= 64 {
		return -1 << 63
	}
	return -(int64(1) << uint(bits-1))
}

func maxUintN(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}

// integerMagnitude rounds the magnitude of u (ignoring sign) to an
// integer per mode, returning the exact nonnegative result and whether
// any bits were discarded.
func integerMagnitude(u unpacked, mode RoundingMode) (*big.Int, bool) {
	if u.exp >= 0 {
		return new(big.Int).Lsh(u.frac, uint(u.exp)), false
	}
	shiftToInt := int(-u.exp)
	p2 := u.frac.BitLen() - shiftToInt
	if p2 < 0 {
		p2 = 0
	}
	rounded, newExp, inexact := roundToPrecision(u.frac, u.exp, p2, u.sign, mode)
	if newExp > 0 {
		rounded.Lsh(rounded, uint(newExp))
	}
	return rounded, inexact
}

func fromSignedInt(f format, n int64, status *Status) unpacked {
	if n == 0 {
		return unpacked{cls: classZero}
	}
	sign := n < 0
	var mag *big.Int
	if n == minIntN(64) {
		mag = new(big.Int).Lsh(bigOne(), 63)
	} else {
		v := n
		if sign {
			v = -v
		}
		mag = big.NewInt(v)
	}
	return roundAndPack(f, sign, 0, mag, status)
}

func fromUnsignedInt(f format, n uint64, status *Status) unpacked {
	if n == 0 {
		return unpacked{cls: classZero}
	}
	return roundAndPack(f, false, 0, new(big.Int).SetUint64(n), status)
}

func toSignedInt(u unpacked, bits int, mode RoundingMode, status *Status) int64 {
	if isNaN(u) {
		status.Raise(FlagInvalid)
		return maxIntN(bits)
	}
	if u.cls == classInfinity {
		status.Raise(FlagInvalid)
		if u.sign {
			return minIntN(bits)
		}
		return maxIntN(bits)
	}
	if u.cls == classZero {
		return 0
	}
	mag, inexact := integerMagnitude(u, mode)
	signed := new(big.Int).Set(mag)
	if u.sign {
		signed.Neg(signed)
	}
	lo, hi := big.NewInt(minIntN(bits)), big.NewInt(maxIntN(bits))
	if signed.Cmp(lo) < 0 || signed.Cmp(hi) > 0 {
		status.Raise(FlagInvalid)
		if u.sign {
			return minIntN(bits)
		}
		return maxIntN(bits)
	}
	if inexact {
		status.Raise(FlagInexact)
	}
	return signed.Int64()
}

func toUnsignedInt(u unpacked, bits int, mode RoundingMode, status *Status) uint64 {
	if isNaN(u) {
		status.Raise(FlagInvalid)
		return maxUintN(bits)
	}
	if u.cls == classInfinity {
		status.Raise(FlagInvalid)
		if u.sign {
			return 0
		}
		return maxUintN(bits)
	}
	if u.cls == classZero {
		return 0
	}
	if u.sign {
		status.Raise(FlagInvalid)
		return 0
	}
	mag, inexact := integerMagnitude(u, mode)
	maxV := new(big.Int).SetUint64(maxUintN(bits))
	if mag.Cmp(maxV) > 0 {
		status.Raise(FlagInvalid)
		return maxUintN(bits)
	}
	if inexact {
		status.Raise(FlagInexact)
	}
	return mag.Uint64()
}

// convertFormat re-rounds a value decoded in one format's precision into
// another's; NaN payloads are passed through unscaled, since only their
// quiet/signaling class is architecturally significant here.
func convertFormat(f format, u unpacked, status *Status) unpacked {
	if isNaN(u) {
		if u.cls == classSignalingNaN {
			status.Raise(FlagInvalid)
		}
		return silence(u)
	}
	if u.cls == classInfinity || u.cls == classZero {
		return u
	}
	return roundAndPack(f, u.sign, u.exp, new(big.Int).Set(u.frac), status)
}

// opRem is the IEEE remainder: a - n*b, n the integer nearest a/b
// (ties to even), computed exactly since the magnitudes are arbitrary
// precision, then packed into the target format.
func opRem(f format, a, b unpacked, status *Status) unpacked {
	a, b = flushInput(f, a, status), flushInput(f, b, status)
	if isNaN(a) || isNaN(b) {
		return pickNaN(a, b, status)
	}
	if a.cls == classInfinity || b.cls == classZero {
		status.Raise(FlagInvalid)
		return defaultNaNFor(status)
	}
	if b.cls == classInfinity || a.cls == classZero {
		return a
	}

	fa, fb, commonExp := alignPair(a, b)
	q0, r0 := new(big.Int).QuoRem(fa, fb, new(big.Int))
	twice := new(big.Int).Lsh(r0, 1)
	switch twice.Cmp(fb) {
	case 1:
		q0.Add(q0, bigOne())
		r0.Sub(r0, fb)
	case 0:
		if q0.Bit(0) == 1 {
			q0.Add(q0, bigOne())
			r0.Sub(r0, fb)
		}
	}
	if r0.Sign() == 0 {
		return zeroResultForCancellation(status)
	}
	// Subtracting fb in the round-up cases above can push r0 negative,
	// which flips which operand's direction the remainder points in
	// relative to a's sign, not just its magnitude.
	sign, mag := a.sign, r0
	if r0.Sign() < 0 {
		sign, mag = !a.sign, new(big.Int).Neg(r0)
	}
	return roundAndPack(f, sign, commonExp, mag, status)
}
