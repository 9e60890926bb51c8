/*
   Round-and-pack primitive shared by every width.

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

// roundToPrecision rounds frac (true value frac*2^exp, frac > 0) down to
// exactly `precision` significant bits per status's rounding mode,
// returning the new (frac, exp) pair and whether any bits were discarded.
// precision may be 0 (rounding into the subnormal-to-zero boundary);
// the tie-to-even case naturally resolves to zero there with no special
// casing, since zero's low bit reads as even.
func roundToPrecision(frac *big.Int, exp int64, precision int, sign bool, mode RoundingMode) (*big.Int, int64, bool) {
	l := frac.BitLen()
	shift := l - precision

	if shift <= 0 {
		return new(big.Int).Lsh(frac, uint(-shift)), exp + int64(shift), false
	}

	roundedFrac := new(big.Int).Rsh(frac, uint(shift))
	remainderMask := new(big.Int).Sub(new(big.Int).Lsh(bigOne(), uint(shift)), bigOne())
	remainder := new(big.Int).And(frac, remainderMask)
	inexact := remainder.Sign() != 0
	halfway := new(big.Int).Lsh(bigOne(), uint(shift-1))

	roundUp := false
	switch mode {
	case RoundNearestEven:
		switch remainder.Cmp(halfway) {
		case 1:
			roundUp = true
		case 0:
			roundUp = roundedFrac.Bit(0) == 1
		}
	case RoundTiesAway:
		roundUp = remainder.Cmp(halfway) >= 0
	case RoundToZero:
		roundUp = false
	case RoundDown:
		roundUp = sign && inexact
	case RoundUp:
		roundUp = !sign && inexact
	case RoundToOdd:
		if inexact {
			roundedFrac.SetBit(roundedFrac, 0, 1)
		}
	}

	newExp := exp + int64(shift)
	if roundUp {
		roundedFrac.Add(roundedFrac, bigOne())
		if precision > 0 && roundedFrac.BitLen() > precision {
			roundedFrac.Rsh(roundedFrac, 1)
			newExp++
		}
	}
	return roundedFrac, newExp, inexact
}

func maxNormalExp(f format) int64 {
	return f.maxBiasedExp() - 1 - f.bias - int64(f.precision()) + 1
}

// overflowResult picks the format's infinity or largest-finite value per
// the rounding-mode's overflow rule (round-to-nearest/ties-away overflow
// to infinity; the directed modes overflow to infinity only in the
// direction they round toward, else saturate).
func overflowResult(f format, sign bool, mode RoundingMode) unpacked {
	toInfinity := mode == RoundNearestEven || mode == RoundTiesAway ||
		(mode == RoundUp && !sign) || (mode == RoundDown && sign)
	if toInfinity {
		return unpacked{sign: sign, cls: classInfinity}
	}
	p := int64(f.precision())
	frac := new(big.Int).Sub(new(big.Int).Lsh(bigOne(), uint(p)), bigOne())
	return unpacked{sign: sign, cls: classNormal, exp: maxNormalExp(f), frac: frac}
}

// roundAndPack is the per-width entry point for every arithmetic result:
// a signed, unnormalized (frac, exp) pair in, a correctly-rounded
// unpacked value out, with sticky flags raised on status.
func roundAndPack(f format, sign bool, exp int64, frac *big.Int, status *Status) unpacked {
	if frac == nil || frac.Sign() == 0 {
		return unpacked{sign: sign, cls: classZero}
	}

	p := int(f.precision())
	rounded, newExp, inexact := roundToPrecision(frac, exp, p, sign, status.RoundingMode)

	l := rounded.BitLen()
	e := newExp + int64(l) - 1
	minNormalE := int64(1) - f.bias

	tiny := e < minNormalE
	if status.Tininess == TininessBeforeRounding {
		eBeforeRounding := exp + int64(frac.BitLen()) - 1
		tiny = eBeforeRounding < minNormalE
	}

	if tiny {
		deficiency := minNormalE - e
		subPrec := p - int(deficiency)
		if subPrec < 0 {
			subPrec = 0
		}
		rounded, newExp, inexact = roundToPrecision(frac, exp, subPrec, sign, status.RoundingMode)
		if inexact {
			status.Raise(FlagInexact | FlagUnderflow)
		}
		if rounded.Sign() == 0 {
			return unpacked{sign: sign, cls: classZero}
		}
		l = rounded.BitLen()
		e = newExp + int64(l) - 1
		if e < minNormalE {
			status.Raise(FlagOutputDenormal)
		}
		if status.FlushToZero && e < minNormalE {
			status.Raise(FlagInexact | FlagUnderflow)
			return unpacked{sign: sign, cls: classZero}
		}
		return unpacked{sign: sign, cls: classNormal, exp: newExp, frac: rounded}
	}

	if inexact {
		status.Raise(FlagInexact)
	}

	maxE := f.maxBiasedExp() - 1 - f.bias
	if e > maxE {
		status.Raise(FlagOverflow | FlagInexact)
		return overflowResult(f, sign, status.RoundingMode)
	}

	return unpacked{sign: sign, cls: classNormal, exp: newExp, frac: rounded}
}
