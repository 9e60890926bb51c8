/*
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
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package exception

import (
	"testing"

	"github.com/rcornwell/aarch64dbt/armstate"
	"github.com/rcornwell/aarch64dbt/internal/armconfig"
)

func newCPU() *armstate.CPU {
	cfg := armconfig.New(
		armconfig.WithFeatures(armconfig.FeatEL2|armconfig.FeatEL3),
	)
	cpu := armstate.New(cfg)
	cpu.State.EL = 1
	cpu.Sys.VBAR[1] = 0x8000_0000
	cpu.PC = 0x1000
	cpu.RebuildHflags()
	return cpu
}

func TestSyncExceptionSameELWritesELRESRFAR(t *testing.T) {
	cpu := newCPU()
	out := Take(cpu, Pending{Class: ClassSync, Syndrome: 0x96000010, FaultAddress: 0xdead0000}, RoutingState{})

	if out.Kind != OutcomeTaken {
		t.Fatalf("Kind = %v, want OutcomeTaken", out.Kind)
	}
	if out.TargetEL != 1 {
		t.Fatalf("TargetEL = %d, want 1 (same-EL sync exception)", out.TargetEL)
	}
	if cpu.Sys.ELR[1] != 0x1000 {
		t.Fatalf("ELR_EL1 = %#x, want 0x1000", cpu.Sys.ELR[1])
	}
	if cpu.Sys.ESR[1] != 0x96000010 {
		t.Fatalf("ESR_EL1 = %#x, want 0x96000010", cpu.Sys.ESR[1])
	}
	if cpu.Sys.FAR[1] != 0xdead0000 {
		t.Fatalf("FAR_EL1 = %#x, want 0xdead0000", cpu.Sys.FAR[1])
	}
	if cpu.PC != 0x8000_0200 {
		t.Fatalf("PC = %#x, want vector 0x80000200 (same EL, SP_ELx)", cpu.PC)
	}
	if !cpu.DAIF.D || !cpu.DAIF.A || !cpu.DAIF.I || !cpu.DAIF.F {
		t.Fatalf("DAIF not fully masked after entry: %+v", cpu.DAIF)
	}
}

func TestIRQMaskedWhenDAIFISet(t *testing.T) {
	cpu := newCPU()
	cpu.DAIF.I = true
	out := Take(cpu, Pending{Class: ClassIRQ}, RoutingState{})
	if out.Kind != OutcomeIgnored {
		t.Fatalf("Kind = %v, want OutcomeIgnored when PSTATE.I set and no NMI/superpriority", out.Kind)
	}
}

func TestIRQTakenWhenUnmasked(t *testing.T) {
	cpu := newCPU()
	cpu.DAIF.I = false
	out := Take(cpu, Pending{Class: ClassIRQ}, RoutingState{})
	if out.Kind != OutcomeTaken {
		t.Fatalf("Kind = %v, want OutcomeTaken", out.Kind)
	}
	if out.VectorPC != 0x8000_0280 {
		t.Fatalf("VectorPC = %#x, want 0x80000280 (same EL, SP_ELx, +IRQ offset)", out.VectorPC)
	}
}

func TestAArch32TargetRefused(t *testing.T) {
	cpu := newCPU()
	out := Take(cpu, Pending{Class: ClassSync, AArch32Target: true}, RoutingState{})
	if out.Kind != OutcomeAArch32Unsupported {
		t.Fatalf("Kind = %v, want OutcomeAArch32Unsupported", out.Kind)
	}
}

func TestPANSetOnEL1EntryUnlessSPAN(t *testing.T) {
	cpu := newCPU()
	cpu.State.PAN = false
	Take(cpu, Pending{Class: ClassSync}, RoutingState{SCTLRSPAN: false})
	if !cpu.State.PAN {
		t.Fatalf("PAN not set entering EL1 without SCTLR.SPAN")
	}

	cpu2 := newCPU()
	cpu2.State.PAN = false
	Take(cpu2, Pending{Class: ClassSync}, RoutingState{SCTLRSPAN: true})
	if cpu2.State.PAN {
		t.Fatalf("PAN set entering EL1 despite SCTLR.SPAN")
	}
}

func TestReturnRestoresPstateAndPC(t *testing.T) {
	cpu := newCPU()
	Take(cpu, Pending{Class: ClassSync}, RoutingState{})

	out := Return(cpu)
	if out.Illegal {
		t.Fatalf("Return reported illegal: %s", out.Reason)
	}
	if cpu.PC != 0x1000 {
		t.Fatalf("PC after return = %#x, want 0x1000", cpu.PC)
	}
	if cpu.State.EL != 1 {
		t.Fatalf("EL after return = %d, want 1", cpu.State.EL)
	}
}

func TestIllegalReturnSetsIL(t *testing.T) {
	cpu := newCPU()
	cpu.State.EL = 1
	// Forge an SPSR claiming a return to EL2 while actually at EL1.
	cpu.Sys.SPSR[1] = packSPSR(armstate.PSTATE{EL: 2, SP: true, AArch64: true}, armstate.DAIF{})

	out := Return(cpu)
	if !out.Illegal {
		t.Fatalf("expected illegal return to be detected")
	}
	if !cpu.State.IL {
		t.Fatalf("PSTATE.IL not set after illegal return")
	}
}
