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

package sysreg

import (
	"testing"

	"github.com/rcornwell/aarch64dbt/armstate"
	"github.com/rcornwell/aarch64dbt/internal/armconfig"
)

func TestSCTLRRoundTrip(t *testing.T) {
	table := NewStandardTable()
	cpu := armstate.New(armconfig.New(armconfig.WithFeatures(armconfig.FeatEL2 | armconfig.FeatEL3)))

	d := table.Lookup(Encoding{Op0: 3, Op1: 0, CRn: 1, AArch64: true, Is64: true})
	if d == nil {
		t.Fatalf("sctlr_el1 descriptor not found")
	}
	d.Write(cpu, 0x12345678)
	if got := d.Read(cpu); got != 0x12345678 {
		t.Fatalf("read back %#x, want 0x12345678", got)
	}
	if cpu.Sys.SCTLR[1] != 0x12345678 {
		t.Fatalf("descriptor did not write through to armstate: %#x", cpu.Sys.SCTLR[1])
	}
}

func TestTrapMaskEscalatesWithEL(t *testing.T) {
	table := NewStandardTable()
	el1 := table.Lookup(Encoding{Op0: 3, Op1: 0, CRn: 1, AArch64: true, Is64: true})
	el3 := table.Lookup(Encoding{Op0: 3, Op1: 2, CRn: 1, AArch64: true, Is64: true})

	if !el1.Trapped(0) {
		t.Fatalf("sctlr_el1 should trap from EL0")
	}
	if el1.Trapped(1) {
		t.Fatalf("sctlr_el1 should not trap from EL1 itself")
	}
	if !el3.Trapped(2) {
		t.Fatalf("sctlr_el3 should trap from EL2")
	}
}

func TestBankedRegGetSecureVsNonSecure(t *testing.T) {
	bank := SecureBank{Secure: 0xAAAA, NonSecure: 0xBBBB}

	if got := BankedRegGet(bank, false, false); got != 0xAAAA {
		t.Fatalf("EL3 AArch32, SCR.NS=0: got %#x, want secure slot", got)
	}
	if got := BankedRegGet(bank, false, true); got != 0xBBBB {
		t.Fatalf("EL3 AArch32, SCR.NS=1: got %#x, want non-secure slot", got)
	}
	if got := BankedRegGet(bank, true, false); got != 0xBBBB {
		t.Fatalf("EL3 AArch64: got %#x, want non-secure slot regardless of SCR.NS", got)
	}
}
