/*
   Portable IEEE-754 status record.

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

// Package softfloat is a bit-exact, purely functional IEEE-754 engine for
// the 16/32/64/80/128-bit binary formats, in the tradition of Berkeley
// SoftFloat. Every entry point takes a *Status explicitly; there is no
// package-level mutable state.
package softfloat

// RoundingMode selects how a result significand that does not fit exactly
// is rounded to the target precision.
type RoundingMode uint8

const (
	RoundNearestEven RoundingMode = iota
	RoundTiesAway
	RoundToZero
	RoundDown
	RoundUp
	// RoundToOdd ORs any discarded nonzero remainder into the result's LSB
	// instead of rounding up or down. Used by narrowing converts that must
	// avoid double rounding through an intermediate precision (FCVTXN).
	RoundToOdd
)

// ExceptionFlags are sticky; an operation accumulates into the flags
// already present in a Status rather than replacing them.
type ExceptionFlags uint8

const (
	FlagInexact ExceptionFlags = 1 << iota
	FlagUnderflow
	FlagOverflow
	FlagDivByZero
	FlagInvalid
	FlagInputDenormal
	FlagOutputDenormal
)

// Tininess selects when a subnormal result is classified as "tiny" for
// the purpose of the underflow flag: before or after rounding.
type Tininess uint8

const (
	TininessAfterRounding Tininess = iota
	TininessBeforeRounding
)

// X87RoundingPrecision narrows the internal rounding of floatx80 results
// to single or double precision, matching the x87 FPU control-word's
// precision-control field.
type X87RoundingPrecision uint8

const (
	X87Precision80 X87RoundingPrecision = 80
	X87Precision64 X87RoundingPrecision = 64
	X87Precision32 X87RoundingPrecision = 32
)

// NaNPolicy picks which operand NaN (or the default NaN) an operation
// with NaN inputs returns. Chosen once per CPU/engine instance at
// construction time rather than switched on a global.
type NaNPolicy uint8

const (
	NaNPolicyX87 NaNPolicy = iota
	NaNPolicyARM
	NaNPolicyPowerPC
	NaNPolicyXtensa
)

// Status is the per-CPU (or per-precision-class) float status record:
// rounding mode, sticky exception flags, and the policy knobs that vary
// across target architectures.
type Status struct {
	RoundingMode          RoundingMode
	ExceptionFlags        ExceptionFlags
	Tininess              Tininess
	FlushToZero           bool
	FlushInputsToZero     bool
	DefaultNaNMode        bool
	UseFirstNaN           bool // Xtensa toggle, see xtensa package
	NoSignalingNaNs       bool
	FloatX80RoundingPrec  X87RoundingPrecision
	NaNPolicy             NaNPolicy
}

// NewStatus returns a Status with the architecturally sane defaults:
// round to nearest even, no flags raised, tininess after rounding,
// 80-bit x87 intermediate precision.
func NewStatus(policy NaNPolicy) *Status {
	return &Status{
		RoundingMode:         RoundNearestEven,
		Tininess:             TininessAfterRounding,
		FloatX80RoundingPrec: X87Precision80,
		NaNPolicy:            policy,
	}
}

// Raise accumulates flags into the sticky exception-flags field; it never
// clears a flag that was already set, and never causes control transfer
// at this level.
func (s *Status) Raise(flags ExceptionFlags) {
	s.ExceptionFlags |= flags
}

// ClearFlags resets the sticky flags; callers (not this package) decide
// when that is architecturally appropriate.
func (s *Status) ClearFlags() {
	s.ExceptionFlags = 0
}
