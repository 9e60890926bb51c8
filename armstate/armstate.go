/*
   CPU state for the AArch64 core: registers, PSTATE, banked system
   registers, and reset.

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

// Package armstate holds the architectural state of one logical AArch64
// CPU: general/system registers, PSTATE, the exclusive-monitor triple,
// the generic-timer substate, and the cached hflags TB-generation
// summary. Every CPU record is a non-owning reference to one
// *armconfig.ARMCoreConfig shared by every CPU of the same model.
package armstate

import "github.com/rcornwell/aarch64dbt/internal/armconfig"

// Number of exception levels this core models (EL0..EL3).
const NumEL = 4

// Timer identifies one of the generic timer's five comparator/control
// pairs.
type Timer int

const (
	TimerPhys Timer = iota
	TimerVirt
	TimerHyp
	TimerSec
	TimerHypVirt
	numTimers
)

// TimerState is one generic-timer comparator/control pair.
type TimerState struct {
	CVal uint64
	Ctl  uint32
}

// PSTATE is the decoded processor state register. NZCV is split out for
// fast flag tests; the remaining architectural bits (SS, IL, SSBS, TCO,
// PAN, UAO, DIT) are carried individually since each is tested alone far
// more often than the group is read as a unit.
type PSTATE struct {
	N, Z, C, V bool
	EL         int
	SP         bool // true selects SP_ELx over SP_EL0 at the current EL
	AArch64    bool
	Thumb      bool
	SS         bool
	IL         bool
	SSBS       bool
	TCO        bool
	PAN        bool
	UAO        bool
	DIT        bool
}

// DAIF is the interrupt-mask nibble: true means the corresponding class
// is masked.
type DAIF struct {
	D, A, I, F bool
}

// SVCR is SME's streaming-mode/ZA-enabled control (register layout only
// is modeled; streaming semantics are a Non-goal).
type SVCR struct {
	SM, ZA bool
}

// BankedSysRegs holds the AArch64 per-EL system-register arrays. Index 0
// is unused for registers that only exist from EL1 up (kept so EL can
// index directly without an offset).
type BankedSysRegs struct {
	SCTLR [NumEL]uint64
	TTBR0 [NumEL]uint64
	TTBR1 [NumEL]uint64
	TCR   [NumEL]uint64
	ESR   [NumEL]uint64
	FAR   [NumEL]uint64
	VBAR  [NumEL]uint64
	ELR   [NumEL]uint64
	SPSR  [NumEL]uint32
}

// ExceptionScratch is populated by the fault source and consumed exactly
// once by the exception engine's vector-entry sequence.
type ExceptionScratch struct {
	Syndrome            uint32
	FSR                 uint32
	VAddress            uint64
	TargetEL            int
	DabtSyndromePartial uint32
}

// ExclusiveMonitor is the CPU-local load-exclusive/store-exclusive
// triple. The monitor is idle iff Addr == AllOnes.
type ExclusiveMonitor struct {
	Addr uint64
	Val  uint64
	High uint64
}

const AllOnes = ^uint64(0)

// CPU is one logical AArch64 CPU's full architectural state.
type CPU struct {
	Config *armconfig.ARMCoreConfig // non-owning, shared by every CPU of this model

	X  [32]uint64 // general registers; R0..R15 is the low 32 bits of X0..X15
	PC uint64

	SPEL [NumEL]uint64 // banked stack pointers, SP_EL0..SP_EL3

	State PSTATE
	DAIF  DAIF
	BTYPE uint8
	SVCR  SVCR

	Sys BankedSysRegs

	Timers [numTimers]TimerState

	Excp ExceptionScratch

	Exclusive ExclusiveMonitor

	// PMCR_EL0 (named c9_pmcr in the architecture reference, after its
	// CP15 encoding) is reset from Config.ResetPMCR.
	PMCREL0 uint64

	// hflags is the cached, recomputed-on-demand summary of the PSTATE/
	// SCTLR fields that would otherwise need re-deriving on every
	// translation-block lookup.
	hflags uint64
}

// New allocates a CPU bound to cfg and resets it.
func New(cfg *armconfig.ARMCoreConfig) *CPU {
	cpu := &CPU{Config: cfg}
	cpu.Reset()
	return cpu
}

// Reset restores every universal post-reset invariant: PSTATE encodes
// the highest implemented EL in handler mode with DAIF fully masked and
// Z set, the exclusive monitor is idle, PMCR_EL0 and SCTLR_EL1..3 take
// their model's reset values.
func (c *CPU) Reset() {
	for i := range c.X {
		c.X[i] = 0
	}
	c.PC = 0
	for i := range c.SPEL {
		c.SPEL[i] = 0
	}

	c.State = PSTATE{
		Z:       true,
		EL:      c.Config.HighestEL,
		SP:      true,
		AArch64: true,
	}
	c.DAIF = DAIF{D: true, A: true, I: true, F: true}
	c.BTYPE = 0
	c.SVCR = SVCR{}

	c.Sys = BankedSysRegs{}
	for el := 1; el < NumEL; el++ {
		c.Sys.SCTLR[el] = c.Config.ResetSCTLR
	}

	for i := range c.Timers {
		c.Timers[i] = TimerState{}
	}

	c.Excp = ExceptionScratch{}
	c.Exclusive = ExclusiveMonitor{Addr: AllOnes, Val: 0, High: 0}
	c.PMCREL0 = c.Config.ResetPMCR

	c.RebuildHflags()
}

// R32 returns the low 32 bits of Xn, the AArch32-mirror register view.
func (c *CPU) R32(n int) uint32 { return uint32(c.X[n]) }

// SetR32 writes the low 32 bits of Xn and zero-extends, matching the
// architectural rule that a 32-bit register write clears the upper half
// of its 64-bit parent.
func (c *CPU) SetR32(n int, v uint32) { c.X[n] = uint64(v) }

// SP returns the currently-selected stack pointer: SP_EL0 unless
// PSTATE.SP selects the banked SP_ELx of the current EL.
func (c *CPU) SP() uint64 {
	if c.State.SP && c.State.EL > 0 {
		return c.SPEL[c.State.EL]
	}
	return c.SPEL[0]
}

func (c *CPU) SetSP(v uint64) {
	if c.State.SP && c.State.EL > 0 {
		c.SPEL[c.State.EL] = v
		return
	}
	c.SPEL[0] = v
}

// NZCV packs the four condition flags into the architectural bit
// positions [31:28] of a 32-bit value.
func (c *CPU) NZCV() uint32 {
	var v uint32
	if c.State.N {
		v |= 1 << 31
	}
	if c.State.Z {
		v |= 1 << 30
	}
	if c.State.C {
		v |= 1 << 29
	}
	if c.State.V {
		v |= 1 << 28
	}
	return v
}

func (c *CPU) SetNZCV(v uint32) {
	c.State.N = v&(1<<31) != 0
	c.State.Z = v&(1<<30) != 0
	c.State.C = v&(1<<29) != 0
	c.State.V = v&(1<<28) != 0
}

// Hflags returns the cached TB-generation flag summary; callers must not
// rely on it being fresh across a state change without a RebuildHflags.
func (c *CPU) Hflags() uint64 { return c.hflags }

// hflags bit layout: low 2 bits EL, bit 2 AArch64, bit 3 SP-selects-ELx,
// bit 4 PAN, bit 5 UAO, bit 6 TCO, bit 7 MTE feature present, bits 8-9
// DAIF.I/F cache for the fast masked-interrupt check. Not architectural;
// purely this core's own derived summary.
const (
	hflagELShift    = 0
	hflagAArch64Bit = 1 << 2
	hflagSPELxBit   = 1 << 3
	hflagPANBit     = 1 << 4
	hflagUAOBit     = 1 << 5
	hflagTCOBit     = 1 << 6
	hflagMTEBit     = 1 << 7
	hflagIBit       = 1 << 8
	hflagFBit       = 1 << 9
)

// RebuildHflags recomputes the cached summary from PSTATE/SCTLR/DAIF.
// Must be called after any state change that affects translation-block
// generation: EL change, PAN/UAO/TCO flips, DAIF writes, or an MTE
// feature toggle.
func (c *CPU) RebuildHflags() {
	h := uint64(c.State.EL) << hflagELShift
	if c.State.AArch64 {
		h |= hflagAArch64Bit
	}
	if c.State.SP {
		h |= hflagSPELxBit
	}
	if c.State.PAN {
		h |= hflagPANBit
	}
	if c.State.UAO {
		h |= hflagUAOBit
	}
	if c.State.TCO {
		h |= hflagTCOBit
	}
	if c.Config.Features.Has(armconfig.FeatMTE) {
		h |= hflagMTEBit
	}
	if c.DAIF.I {
		h |= hflagIBit
	}
	if c.DAIF.F {
		h |= hflagFBit
	}
	c.hflags = h
}
