/*
 * aarch64dbt - Xtensa FPU control-register glue over softfloat
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package xtensa glues the Xtensa scalar FPU's FCR/FSR control registers
// onto the softfloat engine: FCR's 2-bit rounding-mode field decodes to
// a softfloat.RoundingMode, FSR's 5-bit (I,U,O,Z,V) flag bitmap
// translates to and from softfloat's sticky flags, and the scalar op
// helpers select use_first_nan from a per-core construction-time flag
// before every operation.
package xtensa

import "github.com/rcornwell/aarch64dbt/softfloat"

// FSR bit positions, target bitmap order (I,U,O,Z,V) rather than
// softfloat's own flag bit layout.
const (
	FSRInexact ExceptionFlags = 1 << iota
	FSRUnderflow
	FSROverflow
	FSRDivByZero
	FSRInvalid
)

// ExceptionFlags is the Xtensa-encoded 5-bit FSR flag bitmap.
type ExceptionFlags uint8

// decodeFCRRoundingMode maps FCR's 2-bit rounding-mode field to a
// softfloat.RoundingMode. Xtensa's scalar FPU only exposes the four
// IEEE rounding directions, never ties-away.
func decodeFCRRoundingMode(fcr uint32) softfloat.RoundingMode {
	switch fcr & 0x3 {
	case 0:
		return softfloat.RoundNearestEven
	case 1:
		return softfloat.RoundToZero
	case 2:
		return softfloat.RoundUp
	default:
		return softfloat.RoundDown
	}
}

func encodeFCRRoundingMode(mode softfloat.RoundingMode) uint32 {
	switch mode {
	case softfloat.RoundNearestEven:
		return 0
	case softfloat.RoundToZero:
		return 1
	case softfloat.RoundUp:
		return 2
	default:
		return 3
	}
}

// decodeFSRFlags translates the target's 5-bit (I,U,O,Z,V) bitmap to
// softfloat's sticky-flag encoding.
func decodeFSRFlags(fsr ExceptionFlags) softfloat.ExceptionFlags {
	var f softfloat.ExceptionFlags
	if fsr&FSRInexact != 0 {
		f |= softfloat.FlagInexact
	}
	if fsr&FSRUnderflow != 0 {
		f |= softfloat.FlagUnderflow
	}
	if fsr&FSROverflow != 0 {
		f |= softfloat.FlagOverflow
	}
	if fsr&FSRDivByZero != 0 {
		f |= softfloat.FlagDivByZero
	}
	if fsr&FSRInvalid != 0 {
		f |= softfloat.FlagInvalid
	}
	return f
}

func encodeFSRFlags(f softfloat.ExceptionFlags) ExceptionFlags {
	var fsr ExceptionFlags
	if f&softfloat.FlagInexact != 0 {
		fsr |= FSRInexact
	}
	if f&softfloat.FlagUnderflow != 0 {
		fsr |= FSRUnderflow
	}
	if f&softfloat.FlagOverflow != 0 {
		fsr |= FSROverflow
	}
	if f&softfloat.FlagDivByZero != 0 {
		fsr |= FSRDivByZero
	}
	if f&softfloat.FlagInvalid != 0 {
		fsr |= FSRInvalid
	}
	return fsr
}

// FPUControl holds the Xtensa scalar FPU's architectural control state
// plus the use_first_nan toggle, which is a static per-core
// configuration choice rather than a bit any FCR/FSR write can flip.
type FPUControl struct {
	status      *softfloat.Status
	useFirstNaN bool
}

// NewFPUControl builds an FPUControl bound to a fresh softfloat.Status
// under NaNPolicyXtensa, with useFirstNaN fixed for the life of the
// core per the constructor flag.
func NewFPUControl(useFirstNaN bool) *FPUControl {
	status := softfloat.NewStatus(softfloat.NaNPolicyXtensa)
	status.UseFirstNaN = useFirstNaN
	return &FPUControl{status: status, useFirstNaN: useFirstNaN}
}

// Status returns the underlying softfloat status, with UseFirstNaN
// re-applied before every call so a caller that cloned or reset the
// status elsewhere cannot silently drop the core's fixed policy.
func (c *FPUControl) Status() *softfloat.Status {
	c.status.UseFirstNaN = c.useFirstNaN
	return c.status
}

// WriteFCR decodes reg's rounding-mode field into the softfloat status.
func (c *FPUControl) WriteFCR(reg uint32) { c.status.RoundingMode = decodeFCRRoundingMode(reg) }

// ReadFCR re-encodes the current rounding mode into FCR's bit position.
func (c *FPUControl) ReadFCR() uint32 { return encodeFCRRoundingMode(c.status.RoundingMode) }

// WriteFSR sets the accumulated softfloat flags from a target-encoded
// FSR write (used when guest code explicitly clears/sets FSR).
func (c *FPUControl) WriteFSR(reg ExceptionFlags) { c.status.ExceptionFlags = decodeFSRFlags(reg) }

// ReadFSR re-encodes the accumulated softfloat flags in FSR's bit
// positions.
func (c *FPUControl) ReadFSR() ExceptionFlags { return encodeFSRFlags(c.status.ExceptionFlags) }
