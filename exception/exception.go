/*
 * aarch64dbt - AArch64 exception engine
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

// Package exception selects a target exception level for a pending
// exception class, applies the masking rules, and performs AArch64
// vector entry. AArch32 entry is detected and refused, never emulated.
package exception

import "github.com/rcornwell/aarch64dbt/armstate"

// Class identifies the kind of pending exception being taken.
type Class int

const (
	ClassSync Class = iota
	ClassIRQ
	ClassFIQ
	ClassSError
)

// RoutingState is the subset of SCR_EL3/HCR_EL2 fields the target-EL
// cascade reads. Named after the architectural field names so the
// predicates below read the same as the reference pseudocode.
type RoutingState struct {
	// SCR_EL3
	NS, EEL2, EA, IRQ, FIQ, RW bool
	// HCR_EL2
	TGE, AMO, IMO, FMO, E2H, HCRRW bool

	SCTLRSPAN  bool // SCTLR_EL1.SPAN
	SCTLRNMI   bool // SCTLR_ELx.NMI, any EL that implements it
	SCTLRDSSBS bool // SCTLR_ELx.DSSBS
	ALLINT     bool // PSTATE.ALLINT
}

// Pending describes one exception ready to be taken.
type Pending struct {
	Class          Class
	Syndrome       uint32
	FaultAddress   uint64
	Superpriority  bool // IRQ/FIQ only: this interrupt has NMI superpriority
	AArch32Target  bool // true if the routing rules would pick an AArch32 target
}

// OutcomeKind distinguishes the three ways Take can resolve.
type OutcomeKind int

const (
	OutcomeTaken OutcomeKind = iota
	OutcomeIgnored
	OutcomeAArch32Unsupported
)

// Outcome is the sum-type result of Take, inspected by the dispatcher
// instead of unwinding through a panic.
type Outcome struct {
	Kind      OutcomeKind
	TargetEL  int
	VectorPC  uint64
}

// targetIRQIgnored is returned by selectTargetEL when the routing rules
// resolve to "stays masked at the current EL", distinct from any real
// EL (0-3 are all legitimate targets).
const targetIRQIgnored = -1

// selectTargetEL runs the per-source-EL branch cascade and returns the
// chosen target EL, or targetIRQIgnored. An exception can never target
// an EL lower than sourceEL; such a result collapses to ignored.
func selectTargetEL(sourceEL int, cls Class, rs RoutingState) int {
	target := sourceEL

	switch {
	case sourceEL <= 1 && rs.TGE:
		target = 2
	case rs.NS && sourceEL < 3 && routesToEL3(cls, rs):
		target = 3
	case sourceEL < 2 && routesToEL2(cls, rs):
		target = 2
	default:
		if sourceEL < 1 {
			target = 1
		}
	}

	if target < sourceEL {
		return targetIRQIgnored
	}
	return target
}

func routesToEL3(cls Class, rs RoutingState) bool {
	switch cls {
	case ClassIRQ:
		return rs.IRQ
	case ClassFIQ:
		return rs.FIQ
	case ClassSError:
		return rs.EA
	default:
		return false
	}
}

func routesToEL2(cls Class, rs RoutingState) bool {
	switch cls {
	case ClassIRQ:
		return rs.IMO
	case ClassFIQ:
		return rs.FMO
	case ClassSError:
		return rs.AMO
	default:
		return false
	}
}

// irqMasked implements irq_masked(env, target, superpriority,
// ignore_pstate_aif).
func irqMasked(cpu *armstate.CPU, rs RoutingState, superpriority, ignorePstateAIF bool) bool {
	if ignorePstateAIF {
		return rs.SCTLRNMI && rs.ALLINT
	}
	if cpu.DAIF.I {
		return !(rs.SCTLRNMI && !rs.ALLINT && superpriority)
	}
	return rs.SCTLRNMI && rs.ALLINT
}

func fiqMasked(cpu *armstate.CPU, rs RoutingState, superpriority, ignorePstateAIF bool) bool {
	if ignorePstateAIF {
		return rs.SCTLRNMI && rs.ALLINT
	}
	if cpu.DAIF.F {
		return !(rs.SCTLRNMI && !rs.ALLINT && superpriority)
	}
	return rs.SCTLRNMI && rs.ALLINT
}

// seriorMasked (SError masking) reads PSTATE.A: an SError is masked
// when PSTATE.A is set and its target EL is not higher than the
// current EL. SError has no PSTATE.A-independent unmask path in this
// core's scope; the SCR_EL3.EA/HCR_EL2.AMO routing is applied earlier,
// when selectTargetEL picks targetEL.
func seriorMasked(cpu *armstate.CPU, targetEL int) bool {
	return cpu.DAIF.A && targetEL <= cpu.State.EL
}

// ignorePstateAIF is true whenever the target EL is strictly higher
// than the current one. It does not consult any HCR_EL2/SCR_EL3 routing
// field: a higher target EL alone makes the PSTATE masks not apply.
func ignorePstateAIF(sourceEL, targetEL int) bool {
	return targetEL > sourceEL
}

// bankedSPSRIndex maps a target EL to its SPSR bank slot. AArch64-only
// operation means this degenerates to the target EL itself; there is no
// separate IRQ/FIQ/ABT/UND banking to fold in.
func bankedSPSRIndex(targetEL int) int { return targetEL }

// applyPAN implements PSTATE.PAN inheritance on exception entry: set
// when entering EL1 unless SCTLR_EL1.SPAN is set, left unchanged when
// entering EL2 or EL3.
func applyPAN(cpu *armstate.CPU, targetEL int, rs RoutingState) {
	if targetEL == 1 && !rs.SCTLRSPAN {
		cpu.State.PAN = true
	}
}

// vectorBase computes VBAR_ELn + base per the same-EL/lower-EL/width
// table, then the class offset.
func vectorBase(vbar uint64, sourceEL, targetEL int, sourceWasAArch64, sourceSPSelectsELx bool, cls Class) uint64 {
	var base uint64
	switch {
	case sourceEL == targetEL && !sourceSPSelectsELx:
		base = 0x000
	case sourceEL == targetEL && sourceSPSelectsELx:
		base = 0x200
	case sourceEL < targetEL && sourceWasAArch64:
		base = 0x400
	default:
		base = 0x600
	}
	switch cls {
	case ClassIRQ:
		base += 0x80
	case ClassFIQ:
		base += 0x100
	case ClassSError:
		base += 0x180
	}
	return vbar + base
}

// aarch64PstateMode computes the PSTATE encoding for entry to targetEL
// in handler mode (SP selects SP_ELx, the architecturally mandated
// choice for every exception entry).
func aarch64PstateMode(targetEL int) armstate.PSTATE {
	return armstate.PSTATE{
		EL:      targetEL,
		SP:      true,
		AArch64: true,
	}
}

// Take runs the full entry sequence for pending against cpu, given the
// routing state computed by the caller from the live SCR_EL3/HCR_EL2
// system registers.
func Take(cpu *armstate.CPU, pending Pending, rs RoutingState) Outcome {
	if pending.AArch32Target {
		return Outcome{Kind: OutcomeAArch32Unsupported}
	}

	targetEL := selectTargetEL(cpu.State.EL, pending.Class, rs)
	if targetEL == targetIRQIgnored {
		return Outcome{Kind: OutcomeIgnored}
	}

	ignoreAIF := ignorePstateAIF(cpu.State.EL, targetEL)
	switch pending.Class {
	case ClassIRQ:
		if irqMasked(cpu, rs, pending.Superpriority, ignoreAIF) {
			return Outcome{Kind: OutcomeIgnored}
		}
	case ClassFIQ:
		if fiqMasked(cpu, rs, pending.Superpriority, ignoreAIF) {
			return Outcome{Kind: OutcomeIgnored}
		}
	case ClassSError:
		if seriorMasked(cpu, targetEL) {
			return Outcome{Kind: OutcomeIgnored}
		}
	}

	sourceEL := cpu.State.EL
	sourceWasAArch64 := cpu.State.AArch64
	sourceSPSelectsELx := cpu.State.SP

	newPstate := aarch64PstateMode(targetEL)
	newPstate.TCO = false
	newPstate.SSBS = rs.SCTLRDSSBS

	applyPAN(cpu, targetEL, rs)
	newPstate.PAN = cpu.State.PAN

	cpu.Sys.SPSR[bankedSPSRIndex(targetEL)] = packSPSR(cpu.State, cpu.DAIF)

	vbar := cpu.Sys.VBAR[targetEL]
	vectorPC := vectorBase(vbar, sourceEL, targetEL, sourceWasAArch64, sourceSPSelectsELx, pending.Class)

	cpu.Sys.ELR[targetEL] = cpu.PC
	if pending.Class == ClassSync {
		cpu.Sys.ESR[targetEL] = pending.Syndrome
		cpu.Sys.FAR[targetEL] = pending.FaultAddress
	}

	cpu.State = newPstate
	cpu.DAIF = armstate.DAIF{D: true, A: true, I: true, F: true}
	cpu.PC = vectorPC
	cpu.RebuildHflags()

	return Outcome{Kind: OutcomeTaken, TargetEL: targetEL, VectorPC: vectorPC}
}

// packSPSR folds PSTATE and DAIF into the 32-bit SPSR encoding saved on
// exception entry.
func packSPSR(p armstate.PSTATE, daif armstate.DAIF) uint32 {
	var v uint32
	if p.N {
		v |= 1 << 31
	}
	if p.Z {
		v |= 1 << 30
	}
	if p.C {
		v |= 1 << 29
	}
	if p.V {
		v |= 1 << 28
	}
	if p.TCO {
		v |= 1 << 25
	}
	if p.DIT {
		v |= 1 << 24
	}
	if p.UAO {
		v |= 1 << 23
	}
	if p.PAN {
		v |= 1 << 22
	}
	if p.SS {
		v |= 1 << 21
	}
	if p.IL {
		v |= 1 << 20
	}
	if p.SSBS {
		v |= 1 << 12
	}
	if daif.D {
		v |= 1 << 9
	}
	if daif.A {
		v |= 1 << 8
	}
	if daif.I {
		v |= 1 << 7
	}
	if daif.F {
		v |= 1 << 6
	}
	v |= uint32(p.EL) << 2
	if p.SP {
		v |= 1 << 0
	}
	return v
}

// unpackSPSR is the inverse of packSPSR, used by exception return.
func unpackSPSR(v uint32) (armstate.PSTATE, armstate.DAIF) {
	p := armstate.PSTATE{
		N:       v&(1<<31) != 0,
		Z:       v&(1<<30) != 0,
		C:       v&(1<<29) != 0,
		V:       v&(1<<28) != 0,
		TCO:     v&(1<<25) != 0,
		DIT:     v&(1<<24) != 0,
		UAO:     v&(1<<23) != 0,
		PAN:     v&(1<<22) != 0,
		SS:      v&(1<<21) != 0,
		IL:      v&(1<<20) != 0,
		SSBS:    v&(1<<12) != 0,
		EL:      int(v>>2) & 0x3,
		SP:      v&1 != 0,
		AArch64: true,
	}
	d := armstate.DAIF{
		D: v&(1<<9) != 0,
		A: v&(1<<8) != 0,
		I: v&(1<<7) != 0,
		F: v&(1<<6) != 0,
	}
	return p, d
}

// ReturnOutcome is the result of Return: either the CPU resumed
// normally, or the attempted return was illegal and PSTATE.IL was set
// per the architectural "illegal exception return" rule.
type ReturnOutcome struct {
	Illegal bool
	Reason  string
}

// Return performs ERET: restores PSTATE from the banked SPSR of the
// current EL and resumes at ELR. An illegal return (unsupported mode,
// a target EL higher than the one returning, or an AArch64/AArch32
// width mismatch) sets PSTATE.IL and resumes at ELR rather than raising
// a new exception.
func Return(cpu *armstate.CPU) ReturnOutcome {
	spsr := cpu.Sys.SPSR[bankedSPSRIndex(cpu.State.EL)]
	newPstate, newDAIF := unpackSPSR(spsr)

	if spsr&(1<<4) != 0 {
		cpu.State.IL = true
		cpu.PC = cpu.Sys.ELR[bankedSPSRIndex(cpu.State.EL)]
		return ReturnOutcome{Illegal: true, Reason: "return to AArch32 state is not supported"}
	}
	if newPstate.EL > cpu.State.EL {
		cpu.State.IL = true
		cpu.PC = cpu.Sys.ELR[bankedSPSRIndex(cpu.State.EL)]
		return ReturnOutcome{Illegal: true, Reason: "return target EL exceeds current EL"}
	}
	if newPstate.EL == 0 && newPstate.SP {
		cpu.State.IL = true
		cpu.PC = cpu.Sys.ELR[bankedSPSRIndex(cpu.State.EL)]
		return ReturnOutcome{Illegal: true, Reason: "EL0 cannot select SP_ELx"}
	}

	elr := cpu.Sys.ELR[bankedSPSRIndex(cpu.State.EL)]
	cpu.State = newPstate
	cpu.DAIF = newDAIF
	cpu.PC = elr
	cpu.RebuildHflags()
	return ReturnOutcome{}
}
