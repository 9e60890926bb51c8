/*
   Generic arithmetic core: one implementation per operation, shared by
   every width via the aligned-significand representation.

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

func negate(u unpacked) unpacked {
	u.sign = !u.sign
	return u
}

func alignPair(a, b unpacked) (fa, fb *big.Int, commonExp int64) {
	commonExp = a.exp
	if b.exp < commonExp {
		commonExp = b.exp
	}
	fa = new(big.Int).Lsh(a.frac, uint(a.exp-commonExp))
	fb = new(big.Int).Lsh(b.frac, uint(b.exp-commonExp))
	return
}

func zeroResultForCancellation(status *Status) unpacked {
	if status.RoundingMode == RoundDown {
		return unpacked{sign: true, cls: classZero}
	}
	return unpacked{sign: false, cls: classZero}
}

func opAdd(f format, a, b unpacked, status *Status) unpacked {
	a, b = flushInput(f, a, status), flushInput(f, b, status)
	if isNaN(a) || isNaN(b) {
		return pickNaN(a, b, status)
	}
	if a.cls == classInfinity && b.cls == classInfinity {
		if a.sign != b.sign {
			status.Raise(FlagInvalid)
			return defaultNaNFor(status)
		}
		return unpacked{sign: a.sign, cls: classInfinity}
	}
	if a.cls == classInfinity {
		return a
	}
	if b.cls == classInfinity {
		return b
	}
	if a.cls == classZero && b.cls == classZero {
		if a.sign == b.sign {
			return unpacked{sign: a.sign, cls: classZero}
		}
		return zeroResultForCancellation(status)
	}
	if a.cls == classZero {
		return b
	}
	if b.cls == classZero {
		return a
	}

	fa, fb, commonExp := alignPair(a, b)
	if a.sign == b.sign {
		return roundAndPack(f, a.sign, commonExp, new(big.Int).Add(fa, fb), status)
	}
	switch fa.Cmp(fb) {
	case 0:
		return zeroResultForCancellation(status)
	case 1:
		return roundAndPack(f, a.sign, commonExp, new(big.Int).Sub(fa, fb), status)
	default:
		return roundAndPack(f, b.sign, commonExp, new(big.Int).Sub(fb, fa), status)
	}
}

func opSub(f format, a, b unpacked, status *Status) unpacked {
	return opAdd(f, a, negate(b), status)
}

func opMul(f format, a, b unpacked, status *Status) unpacked {
	a, b = flushInput(f, a, status), flushInput(f, b, status)
	signR := a.sign != b.sign
	if (a.cls == classZero && b.cls == classInfinity) || (a.cls == classInfinity && b.cls == classZero) {
		status.Raise(FlagInvalid)
		return defaultNaNFor(status)
	}
	if isNaN(a) || isNaN(b) {
		return pickNaN(a, b, status)
	}
	if a.cls == classInfinity || b.cls == classInfinity {
		return unpacked{sign: signR, cls: classInfinity}
	}
	if a.cls == classZero || b.cls == classZero {
		return unpacked{sign: signR, cls: classZero}
	}
	return roundAndPack(f, signR, a.exp+b.exp, new(big.Int).Mul(a.frac, b.frac), status)
}

func opDiv(f format, a, b unpacked, status *Status) unpacked {
	a, b = flushInput(f, a, status), flushInput(f, b, status)
	signR := a.sign != b.sign
	if isNaN(a) || isNaN(b) {
		return pickNaN(a, b, status)
	}
	if a.cls == classInfinity && b.cls == classInfinity {
		status.Raise(FlagInvalid)
		return defaultNaNFor(status)
	}
	if a.cls == classZero && b.cls == classZero {
		status.Raise(FlagInvalid)
		return defaultNaNFor(status)
	}
	if a.cls == classInfinity {
		return unpacked{sign: signR, cls: classInfinity}
	}
	if b.cls == classZero {
		status.Raise(FlagDivByZero)
		return unpacked{sign: signR, cls: classInfinity}
	}
	if b.cls == classInfinity || a.cls == classZero {
		return unpacked{sign: signR, cls: classZero}
	}

	p := int(f.precision())
	na, nb := a.frac.BitLen(), b.frac.BitLen()
	shift := p + 2 + nb - na
	if shift < 0 {
		shift = 0
	}
	num := new(big.Int).Lsh(a.frac, uint(shift))
	q, r := new(big.Int).QuoRem(num, b.frac, new(big.Int))
	if r.Sign() != 0 && q.Bit(0) == 0 {
		q.SetBit(q, 0, 1)
	}
	return roundAndPack(f, signR, a.exp-b.exp-int64(shift), q, status)
}

func opSqrt(f format, a unpacked, status *Status) unpacked {
	a = flushInput(f, a, status)
	if isNaN(a) {
		return pickNaN(a, a, status)
	}
	if a.cls == classZero {
		return a
	}
	if a.sign {
		status.Raise(FlagInvalid)
		return defaultNaNFor(status)
	}
	if a.cls == classInfinity {
		return a
	}

	p := int64(f.precision())
	l := int64(a.frac.BitLen())
	k0 := 2*(p+2) - l
	if k0 < 0 {
		k0 = 0
	}
	if diff := k0 - a.exp; diff%2 != 0 {
		k0++
	}
	shifted := new(big.Int).Lsh(a.frac, uint(k0))
	root := new(big.Int).Sqrt(shifted)
	remainder := new(big.Int).Sub(shifted, new(big.Int).Mul(root, root))
	if remainder.Sign() != 0 && root.Bit(0) == 0 {
		root.SetBit(root, 0, 1)
	}
	resultExp := (a.exp - k0) / 2
	return roundAndPack(f, false, resultExp, root, status)
}

func opMulAdd(f format, a, b, c unpacked, status *Status) unpacked {
	a, b, c = flushInput(f, a, status), flushInput(f, b, status), flushInput(f, c, status)
	productSign := a.sign != b.sign
	isZeroTimesInf := (a.cls == classZero && b.cls == classInfinity) || (a.cls == classInfinity && b.cls == classZero)

	if isZeroTimesInf || isNaN(a) || isNaN(b) || isNaN(c) {
		if isZeroTimesInf && !isNaN(a) && !isNaN(b) && !isNaN(c) {
			status.Raise(FlagInvalid)
		}
		return pickNaNMulAdd(a, b, c, isZeroTimesInf, status)
	}

	productIsInf := a.cls == classInfinity || b.cls == classInfinity
	if productIsInf {
		if c.cls == classInfinity && c.sign != productSign {
			status.Raise(FlagInvalid)
			return defaultNaNFor(status)
		}
		return unpacked{sign: productSign, cls: classInfinity}
	}
	if c.cls == classInfinity {
		return c
	}

	productIsZero := a.cls == classZero || b.cls == classZero
	var productFrac *big.Int
	var productExp int64
	if productIsZero {
		productFrac = big.NewInt(0)
	} else {
		productFrac = new(big.Int).Mul(a.frac, b.frac)
		productExp = a.exp + b.exp
	}

	if c.cls == classZero {
		if productIsZero {
			if productSign == c.sign {
				return unpacked{sign: productSign, cls: classZero}
			}
			return zeroResultForCancellation(status)
		}
		return roundAndPack(f, productSign, productExp, productFrac, status)
	}
	if productIsZero {
		return c
	}

	commonExp := productExp
	if c.exp < commonExp {
		commonExp = c.exp
	}
	pf := new(big.Int).Lsh(productFrac, uint(productExp-commonExp))
	cf := new(big.Int).Lsh(c.frac, uint(c.exp-commonExp))

	if productSign == c.sign {
		return roundAndPack(f, productSign, commonExp, new(big.Int).Add(pf, cf), status)
	}
	switch pf.Cmp(cf) {
	case 0:
		return zeroResultForCancellation(status)
	case 1:
		return roundAndPack(f, productSign, commonExp, new(big.Int).Sub(pf, cf), status)
	default:
		return roundAndPack(f, c.sign, commonExp, new(big.Int).Sub(cf, pf), status)
	}
}

// orderCompare assumes neither operand is a NaN.
func orderCompare(a, b unpacked) (less, equal bool) {
	rank := func(u unpacked) int {
		switch u.cls {
		case classZero:
			return 0
		case classInfinity:
			return 2
		default:
			return 1
		}
	}
	magCompare := func() int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		if ra != 1 {
			return 0
		}
		ea := a.exp + int64(a.frac.BitLen())
		eb := b.exp + int64(b.frac.BitLen())
		if ea != eb {
			if ea < eb {
				return -1
			}
			return 1
		}
		fa, fb, _ := alignPair(a, b)
		return fa.Cmp(fb)
	}

	if a.cls == classZero && b.cls == classZero {
		return false, true
	}
	switch {
	case a.sign && !b.sign:
		return true, false
	case !a.sign && b.sign:
		return false, false
	case !a.sign && !b.sign:
		cmp := magCompare()
		return cmp < 0, cmp == 0
	default: // both negative
		cmp := magCompare()
		return cmp > 0, cmp == 0
	}
}

func compareOp(f format, a, b unpacked, signaling bool, status *Status) (less, equal, unordered bool) {
	a, b = flushInput(f, a, status), flushInput(f, b, status)
	if isNaN(a) || isNaN(b) {
		if signaling || a.cls == classSignalingNaN || b.cls == classSignalingNaN {
			status.Raise(FlagInvalid)
		}
		return false, false, true
	}
	less, equal = orderCompare(a, b)
	return less, equal, false
}

func minMaxPick(a, b unpacked, wantMin bool) unpacked {
	less, equal := orderCompare(a, b)
	if equal {
		if a.cls == classZero && b.cls == classZero && a.sign != b.sign {
			if wantMin == a.sign {
				return a
			}
			return b
		}
		return a
	}
	if wantMin == less {
		return a
	}
	return b
}

func opMin(f format, a, b unpacked, status *Status) unpacked {
	a, b = flushInput(f, a, status), flushInput(f, b, status)
	if isNaN(a) || isNaN(b) {
		n := pickNaN(a, b, status)
		return n
	}
	return minMaxPick(a, b, true)
}

func opMax(f format, a, b unpacked, status *Status) unpacked {
	a, b = flushInput(f, a, status), flushInput(f, b, status)
	if isNaN(a) || isNaN(b) {
		return pickNaN(a, b, status)
	}
	return minMaxPick(a, b, false)
}

func opMinMaxNum(f format, a, b unpacked, wantMin bool, status *Status) unpacked {
	a, b = flushInput(f, a, status), flushInput(f, b, status)
	aNaN, bNaN := isNaN(a), isNaN(b)
	if aNaN && a.cls == classSignalingNaN {
		status.Raise(FlagInvalid)
	}
	if bNaN && b.cls == classSignalingNaN {
		status.Raise(FlagInvalid)
	}
	switch {
	case aNaN && bNaN:
		return defaultNaNFor(status)
	case aNaN:
		return silence(b)
	case bNaN:
		return silence(a)
	default:
		return minMaxPick(a, b, wantMin)
	}
}

func opScalbn(f format, a unpacked, n int64, status *Status) unpacked {
	a = flushInput(f, a, status)
	if isNaN(a) {
		if a.cls == classSignalingNaN {
			status.Raise(FlagInvalid)
		}
		return silence(a)
	}
	if a.cls == classInfinity || a.cls == classZero {
		return a
	}
	return roundAndPack(f, a.sign, a.exp+n, new(big.Int).Set(a.frac), status)
}

func opRoundToInt(f format, a unpacked, status *Status) unpacked {
	a = flushInput(f, a, status)
	if isNaN(a) {
		if a.cls == classSignalingNaN {
			status.Raise(FlagInvalid)
		}
		return silence(a)
	}
	if a.cls == classInfinity || a.cls == classZero || a.exp >= 0 {
		return a
	}
	shiftToInt := int(-a.exp)
	p2 := a.frac.BitLen() - shiftToInt
	if p2 < 0 {
		p2 = 0
	}
	rounded, newExp, inexact := roundToPrecision(a.frac, a.exp, p2, a.sign, status.RoundingMode)
	if inexact {
		status.Raise(FlagInexact)
	}
	if rounded.Sign() == 0 {
		return unpacked{sign: a.sign, cls: classZero}
	}
	return roundAndPack(f, a.sign, newExp, rounded, status)
}
