/*
   NaN propagation policies, selected by a policy object passed to the
   float engine.

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

func isNaN(u unpacked) bool {
	return u.cls == classQuietNaN || u.cls == classSignalingNaN
}

func silence(u unpacked) unpacked {
	if u.cls == classSignalingNaN {
		u.cls = classQuietNaN
	}
	return u
}

func defaultNaNFor(*Status) unpacked {
	return unpacked{sign: false, cls: classQuietNaN}
}

// pickX87 implements the x87-default tiebreak: larger significand wins,
// ties broken toward the positive-signed operand.
func pickX87(a, b unpacked) unpacked {
	as, bs := a.frac, b.frac
	if as == nil {
		as = big.NewInt(0)
	}
	if bs == nil {
		bs = big.NewInt(0)
	}
	switch as.Cmp(bs) {
	case 1:
		return silence(a)
	case -1:
		return silence(b)
	default:
		if !a.sign {
			return silence(a)
		}
		return silence(b)
	}
}

// pickNaN dispatches two-operand NaN propagation by the compile-time
// target profile selected on status.NaNPolicy.
func pickNaN(a, b unpacked, status *Status) unpacked {
	if a.cls == classSignalingNaN || b.cls == classSignalingNaN {
		if !status.NoSignalingNaNs {
			status.Raise(FlagInvalid)
		}
	}
	if status.DefaultNaNMode {
		return defaultNaNFor(status)
	}
	switch status.NaNPolicy {
	case NaNPolicyARM:
		if a.cls == classSignalingNaN {
			return silence(a)
		}
		if b.cls == classSignalingNaN {
			return silence(b)
		}
		if a.cls == classQuietNaN {
			return a
		}
		return b
	case NaNPolicyPowerPC:
		if isNaN(a) {
			return silence(a)
		}
		return silence(b)
	case NaNPolicyXtensa:
		if status.UseFirstNaN {
			if isNaN(a) {
				return silence(a)
			}
			return silence(b)
		}
		status.Raise(FlagInvalid)
		return defaultNaNFor(status)
	default: // NaNPolicyX87
		return pickX87(a, b)
	}
}

// pickNaNMulAdd is the three-operand (a*b+c) variant; isZeroTimesInf marks
// the invalid (0*inf) product case so the (inf*0 + qNaN) rule can apply.
func pickNaNMulAdd(a, b, c unpacked, isZeroTimesInf bool, status *Status) unpacked {
	if a.cls == classSignalingNaN || b.cls == classSignalingNaN || c.cls == classSignalingNaN {
		status.Raise(FlagInvalid)
	}
	if status.DefaultNaNMode {
		return defaultNaNFor(status)
	}

	switch status.NaNPolicy {
	case NaNPolicyARM:
		if isZeroTimesInf && c.cls == classQuietNaN {
			status.Raise(FlagInvalid)
			return defaultNaNFor(status)
		}
		for _, u := range [...]unpacked{a, b, c} {
			if u.cls == classSignalingNaN {
				return silence(u)
			}
		}
		for _, u := range [...]unpacked{a, b, c} {
			if u.cls == classQuietNaN {
				return u
			}
		}
		status.Raise(FlagInvalid)
		return defaultNaNFor(status)
	case NaNPolicyPowerPC:
		if isZeroTimesInf && c.cls == classQuietNaN {
			return c
		}
		for _, u := range [...]unpacked{a, b, c} {
			if isNaN(u) {
				return silence(u)
			}
		}
		return defaultNaNFor(status)
	case NaNPolicyXtensa:
		if status.UseFirstNaN {
			for _, u := range [...]unpacked{a, b, c} {
				if isNaN(u) {
					return silence(u)
				}
			}
		}
		status.Raise(FlagInvalid)
		return defaultNaNFor(status)
	default: // NaNPolicyX87
		var result unpacked
		have := false
		for _, u := range [...]unpacked{a, b, c} {
			if !isNaN(u) {
				continue
			}
			if !have {
				result, have = u, true
				continue
			}
			result = pickX87(result, u)
		}
		if !have {
			return defaultNaNFor(status)
		}
		return silence(result)
	}
}
