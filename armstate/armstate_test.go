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
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package armstate

import (
	"testing"

	"github.com/rcornwell/aarch64dbt/internal/armconfig"
)

func testConfig() *armconfig.ARMCoreConfig {
	return armconfig.New(
		armconfig.WithName("test-a72"),
		armconfig.WithFeatures(armconfig.FeatEL2|armconfig.FeatEL3|armconfig.FeatPMU),
		armconfig.WithResetValues(0x30d00800, 0x41013000),
	)
}

func TestResetInvariants(t *testing.T) {
	cpu := New(testConfig())

	if cpu.State.EL != cpu.Config.HighestEL {
		t.Fatalf("EL = %d, want highest implemented EL %d", cpu.State.EL, cpu.Config.HighestEL)
	}
	if !cpu.DAIF.D || !cpu.DAIF.A || !cpu.DAIF.I || !cpu.DAIF.F {
		t.Fatalf("DAIF not fully masked after reset: %+v", cpu.DAIF)
	}
	if !cpu.State.Z {
		t.Fatalf("PSTATE.Z not set after reset")
	}
	if cpu.Exclusive.Addr != AllOnes {
		t.Fatalf("exclusive monitor not idle after reset: addr=%#x", cpu.Exclusive.Addr)
	}
	if cpu.PMCREL0 != cpu.Config.ResetPMCR {
		t.Fatalf("PMCR_EL0 = %#x, want reset value %#x", cpu.PMCREL0, cpu.Config.ResetPMCR)
	}
	for el := 1; el < NumEL; el++ {
		if cpu.Sys.SCTLR[el] != cpu.Config.ResetSCTLR {
			t.Fatalf("SCTLR_EL%d = %#x, want reset value %#x", el, cpu.Sys.SCTLR[el], cpu.Config.ResetSCTLR)
		}
	}
}

func TestSPBanking(t *testing.T) {
	cpu := New(testConfig())
	cpu.State.EL = 1
	cpu.State.SP = true
	cpu.SetSP(0x1000)
	if cpu.SPEL[1] != 0x1000 {
		t.Fatalf("SetSP did not bank to SP_EL1: %#x", cpu.SPEL[1])
	}
	cpu.State.SP = false
	cpu.SetSP(0x2000)
	if cpu.SPEL[0] != 0x2000 {
		t.Fatalf("SetSP did not write SP_EL0 when PSTATE.SP clear: %#x", cpu.SPEL[0])
	}
	if cpu.SP() != 0x2000 {
		t.Fatalf("SP() = %#x, want 0x2000", cpu.SP())
	}
}

func TestHflagsTracksEL(t *testing.T) {
	cpu := New(testConfig())
	cpu.State.EL = 2
	cpu.RebuildHflags()
	if cpu.Hflags()&0x3 != 2 {
		t.Fatalf("hflags EL field = %d, want 2", cpu.Hflags()&0x3)
	}
}
