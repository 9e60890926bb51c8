/*
 * aarch64dbt - Control-flow and maintenance-op helper wrappers
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

import (
	"github.com/rcornwell/aarch64dbt/exception"
	"github.com/rcornwell/aarch64dbt/tlb"
)

// DcZva implements `dc_zva` (DC ZVA): zeroes the dczBlockSize-byte
// block containing pa. The MTE tag-check half (mte_check_zva) is a
// separate helper the caller invokes first when tagging is enabled.
func (c *Core) DcZva(pa uint64, dczBlockSize uint64) {
	base := pa &^ (dczBlockSize - 1)
	zero := make([]byte, dczBlockSize)
	c.Host.Access(base, zero, true)
}

// ExceptionBkptInsn implements `exception_bkpt_insn` (BRK): raises a
// synchronous exception with the breakpoint syndrome, routed through
// the same vector-entry sequence as any other synchronous fault.
func (c *Core) ExceptionBkptInsn(immediate uint16, rs exception.RoutingState) exception.Outcome {
	const esrECBreakpoint = 0x3c // EC=0b111100, software breakpoint
	syndrome := uint32(esrECBreakpoint)<<26 | uint32(immediate)
	pending := exception.Pending{
		Class:    exception.ClassSync,
		Syndrome: syndrome,
	}
	return exception.Take(c.CPU, pending, rs)
}

// MemoryBarrierAssert implements `memory_barrier_assert`: this core
// executes guest instructions on a single host goroutine with no
// speculative reordering to undo, so every DMB/DSB/ISB variant is a
// no-op: the method has an empty body and makes no check of its own
// (there is nothing to order).
func (c *Core) MemoryBarrierAssert() {}

// SysregTLBFlush implements `sysreg_tlb_flush`: the generic TLBI
// dispatch every TLBI system-register write funnels through, covering
// both the single-VA and flush-all forms.
func (c *Core) SysregTLBFlush(mmuIdx int, va uint64, singleVA, allIdx bool) {
	switch {
	case singleVA:
		c.TLB.Invalidate(mmuIdx, va)
	case allIdx:
		c.TLB.Flush(mmuIdx, true)
	default:
		c.TLB.Flush(mmuIdx, false)
	}
}

// RebuildHflagsA64 implements `rebuild_hflags_a64`: recomputes the
// AArch64 cached decode-affecting flags after any state change that
// could invalidate them (EL change, SCTLR write, DAIF write, ...).
func (c *Core) RebuildHflagsA64() { c.CPU.RebuildHflags() }

// RebuildHflagsA32 implements `rebuild_hflags_a32`: the AArch32
// counterpart. This core is AArch64-only (see armstate.PSTATE, which
// carries no AArch32-mode fields), so the hflags cache is already
// correct for an AArch32-mode access and there is nothing further to
// recompute; the entry point exists so a generated-code path that
// falls through from a shared AArch32/AArch64 decode table still
// resolves to a valid helper.
func (c *Core) RebuildHflagsA32() {}

// TranslateAndFill re-exposes the soft-TLB's fill-on-miss translation
// under the control-flow helper surface, since it is the operation
// every load/store/fetch helper funnels through before touching guest
// memory.
func (c *Core) TranslateAndFill(mmuIdx int, va uint64, at tlb.AccessType) tlb.Outcome {
	return c.TLB.TranslateAndFill(mmuIdx, va, at)
}
