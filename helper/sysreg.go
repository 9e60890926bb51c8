/*
 * aarch64dbt - System-register MRS/MSR dispatch helper
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

import "github.com/rcornwell/aarch64dbt/sysreg"

// SysregResult is the outcome of dispatching one MRS/MSR through the
// descriptor table: either a trap (the caller must raise a sync
// exception with Syndrome) or a completed read/write.
type SysregResult struct {
	Trapped  bool
	Syndrome uint32
	Value    uint64 // valid for a read that was not trapped
}

// SysregRead/SysregWrite implement the generic MRS/MSR dispatch every
// system-register access funnels through: look up the descriptor by
// its (coproc,op0,op1,CRn,CRm,op2) encoding, check the current EL
// against its trap mask, and invoke its bound Read/Write closure.
func (c *Core) SysregRead(enc sysreg.Encoding) SysregResult {
	d := c.Sys.Lookup(enc)
	if d == nil {
		return SysregResult{Trapped: true}
	}
	if d.Trapped(c.CPU.State.EL) {
		return SysregResult{Trapped: true, Syndrome: sysregTrapSyndrome(enc)}
	}
	return SysregResult{Value: d.Read(c.CPU)}
}

func (c *Core) SysregWrite(enc sysreg.Encoding, value uint64) SysregResult {
	d := c.Sys.Lookup(enc)
	if d == nil {
		return SysregResult{Trapped: true}
	}
	if d.Trapped(c.CPU.State.EL) {
		return SysregResult{Trapped: true, Syndrome: sysregTrapSyndrome(enc)}
	}
	d.Write(c.CPU, value)
	return SysregResult{}
}

// sysregTrapSyndrome builds the ESR_ELx syndrome for an MRS/MSR trap:
// EC 0x18 (system-instruction trap) in bits [31:26] and an ISS packing the encoding the
// generated decode loop already has on hand rather than re-deriving it
// from the faulting instruction word.
func sysregTrapSyndrome(enc sysreg.Encoding) uint32 {
	var iss uint32
	iss |= uint32(enc.Op0) << 20
	iss |= uint32(enc.Op2) << 17
	iss |= uint32(enc.Op1) << 14
	iss |= uint32(enc.CRn) << 10
	iss |= uint32(enc.CRm) << 1
	const esrECSystemReg = 0x18
	return uint32(esrECSystemReg)<<26 | iss
}
