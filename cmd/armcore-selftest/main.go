/*
 * aarch64dbt - Smoke-test runner
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

// Command armcore-selftest wires one CPU end to end against a NullHost
// and exercises reset -> translate -> fault -> float-op. There is no
// console here: this is a sanity runner, not an interactive harness.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rcornwell/aarch64dbt/armstate"
	"github.com/rcornwell/aarch64dbt/exception"
	"github.com/rcornwell/aarch64dbt/helper"
	"github.com/rcornwell/aarch64dbt/hostabi"
	"github.com/rcornwell/aarch64dbt/internal/armconfig"
	"github.com/rcornwell/aarch64dbt/internal/logger"
	"github.com/rcornwell/aarch64dbt/softfloat"
	"github.com/rcornwell/aarch64dbt/sysreg"
	"github.com/rcornwell/aarch64dbt/tlb"
)

// flatFiller is the simplest possible Filler: it installs an identity
// mapping (VA == PA) for any address below ramTop, and reports an abort
// for anything past it, the way a real walker would raise a
// translation fault for an unmapped page.
type flatFiller struct{ ramTop uint64 }

func (f flatFiller) TLBFill(table *tlb.Table, mmuIdx int, va uint64, at tlb.AccessType) bool {
	if va >= f.ramTop {
		return false
	}
	table.Fill(mmuIdx, va, 0, false, tlb.IOTLBEntry{}, false)
	return true
}

func main() {
	log := slog.New(logger.New(os.Stdout, logger.LevelInfo, false))

	cfg := armconfig.New(
		armconfig.WithName("selftest"),
		armconfig.WithFeatures(armconfig.FeatEL2|armconfig.FeatEL3|armconfig.FeatMTE),
	)
	cpu := armstate.New(cfg)
	log.Info("cpu reset", "highest_el", cfg.HighestEL, "pc", cpu.PC)

	host := hostabi.NewNullHost(1<<20, log)
	const ramTop = 1 << 16
	tlbTable := tlb.NewTable(1, flatFiller{ramTop: ramTop})
	sysTable := sysreg.NewStandardTable()
	core := helper.NewCore(cpu, host, tlbTable, sysTable, nil)

	hit := core.TranslateAndFill(0, 0x1000, tlb.AccessCode)
	if hit.Kind != tlb.KindHit {
		fmt.Println("FAIL: expected translation hit for mapped VA")
		os.Exit(1)
	}
	log.Info("translate ok", "va", fmt.Sprintf("%#x", uint64(0x1000)), "host_addr", fmt.Sprintf("%#x", hit.HostAddr))

	fault := core.TranslateAndFill(0, ramTop+0x1000, tlb.AccessCode)
	if fault.Kind != tlb.KindFault {
		fmt.Println("FAIL: expected translation fault past ramTop")
		os.Exit(1)
	}
	log.Info("translate fault as expected", "reason", fault.FaultReason)

	cpu.Sys.VBAR[1] = 0x8000_0000
	cpu.State.EL = 1
	outcome := exception.Take(cpu, exception.Pending{
		Class:    exception.ClassSync,
		Syndrome: 0x9600_0000,
	}, exception.RoutingState{})
	if outcome.Kind != exception.OutcomeTaken {
		fmt.Println("FAIL: expected the synchronous exception to be taken")
		os.Exit(1)
	}
	log.Info("exception taken", "target_el", outcome.TargetEL, "vector_pc", fmt.Sprintf("%#x", outcome.VectorPC))

	status := softfloat.NewStatus(softfloat.NaNPolicyARM)
	a := softfloat.Float32FromInt32(2, status)
	b := softfloat.Float32FromInt32(3, status)
	sum := a.Add(b, status)
	want := softfloat.Float32FromInt32(5, status)
	if sum != want {
		fmt.Println("FAIL: soft-float 2.0+3.0 != 5.0")
		os.Exit(1)
	}
	log.Info("softfloat ok", "result_bits", fmt.Sprintf("%#x", uint32(sum)))

	fmt.Println("armcore-selftest: all checks passed")
}
