/*
 * aarch64dbt - PSTATE-immediate and exception-return helpers
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

package helper

import "github.com/rcornwell/aarch64dbt/exception"

// MsrISpsel implements `msr_i_spsel`: MSR SPSel, #imm. Bit 0 of imm
// selects SP_ELx over SP_EL0; EL0 has no SP_ELx and silently keeps
// using SP_EL0 regardless of the write.
func (c *Core) MsrISpsel(imm uint64) {
	if c.CPU.State.EL == 0 {
		return
	}
	c.CPU.State.SP = imm&1 != 0
}

// MsrIDaifset/MsrIDaifclear implement `msr_i_daifset`/`msr_i_daifclear`:
// each bit of imm[3:0] maps to F,I,A,D in that order, matching the
// DAIFSet/DAIFClr immediate encoding.
func (c *Core) MsrIDaifset(imm uint64) {
	if imm&1 != 0 {
		c.CPU.DAIF.F = true
	}
	if imm&2 != 0 {
		c.CPU.DAIF.I = true
	}
	if imm&4 != 0 {
		c.CPU.DAIF.A = true
	}
	if imm&8 != 0 {
		c.CPU.DAIF.D = true
	}
}

func (c *Core) MsrIDaifclear(imm uint64) {
	if imm&1 != 0 {
		c.CPU.DAIF.F = false
	}
	if imm&2 != 0 {
		c.CPU.DAIF.I = false
	}
	if imm&4 != 0 {
		c.CPU.DAIF.A = false
	}
	if imm&8 != 0 {
		c.CPU.DAIF.D = false
	}
}

// ExceptionReturn implements `exception_return` (ERET/ERETAA/ERETAB):
// delegates entirely to the exception engine's Return, which restores
// PSTATE/DAIF from the banked SPSR and validates the target EL.
func (c *Core) ExceptionReturn() exception.ReturnOutcome {
	return exception.Return(c.CPU)
}
