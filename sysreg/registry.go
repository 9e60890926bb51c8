/*
 * aarch64dbt - Built-in EL1/EL2/EL3 register descriptors
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

package sysreg

import "github.com/rcornwell/aarch64dbt/armstate"

// perELReg builds the Read/Write pair for one of the indexed-by-EL
// AArch64 register arrays (SCTLR_ELn, TTBR0_ELn, ...), closing over
// which array field it targets.
func perELReg(el int, get func(*armstate.CPU) *uint64) (ReadFunc, WriteFunc) {
	return func(cpu *armstate.CPU) uint64 {
			return *get(cpu)
		}, func(cpu *armstate.CPU, v uint64) {
			*get(cpu) = v
		}
}

// NewStandardTable registers the EL1/EL2/EL3 indexed-by-EL registers
// (SCTLR, TTBR0, TTBR1, TCR, ESR, FAR, VBAR, ELR), one descriptor per EL
// each. SPSR is excluded here since it is owned and written by the
// exception engine's vector-entry sequence, not by an MSR/MRS-style
// access path.
func NewStandardTable() *Table {
	t := NewTable()

	type field struct {
		name string
		crn  uint8
		crm  uint8
		op2  uint8
		op0  uint8
		get  func(el int) func(*armstate.CPU) *uint64
	}

	fields := []field{
		{"sctlr", 1, 0, 0, 3, func(el int) func(*armstate.CPU) *uint64 {
			return func(cpu *armstate.CPU) *uint64 { return &cpu.Sys.SCTLR[el] }
		}},
		{"ttbr0", 2, 0, 0, 3, func(el int) func(*armstate.CPU) *uint64 {
			return func(cpu *armstate.CPU) *uint64 { return &cpu.Sys.TTBR0[el] }
		}},
		{"ttbr1", 2, 0, 1, 3, func(el int) func(*armstate.CPU) *uint64 {
			return func(cpu *armstate.CPU) *uint64 { return &cpu.Sys.TTBR1[el] }
		}},
		{"tcr", 2, 0, 2, 3, func(el int) func(*armstate.CPU) *uint64 {
			return func(cpu *armstate.CPU) *uint64 { return &cpu.Sys.TCR[el] }
		}},
		{"esr", 5, 1, 0, 3, func(el int) func(*armstate.CPU) *uint64 {
			return func(cpu *armstate.CPU) *uint64 { return &cpu.Sys.ESR[el] }
		}},
		{"far", 6, 0, 0, 3, func(el int) func(*armstate.CPU) *uint64 {
			return func(cpu *armstate.CPU) *uint64 { return &cpu.Sys.FAR[el] }
		}},
		{"vbar", 12, 0, 0, 3, func(el int) func(*armstate.CPU) *uint64 {
			return func(cpu *armstate.CPU) *uint64 { return &cpu.Sys.VBAR[el] }
		}},
		{"elr", 4, 0, 1, 3, func(el int) func(*armstate.CPU) *uint64 {
			return func(cpu *armstate.CPU) *uint64 { return &cpu.Sys.ELR[el] }
		}},
	}

	for _, f := range fields {
		for el := 1; el < armstate.NumEL; el++ {
			read, write := perELReg(el, f.get(el))
			t.Register(Descriptor{
				Name:     f.name + "_el" + string(rune('0'+el)),
				Encoding: Encoding{Op0: f.op0, Op1: uint8(el - 1), CRn: f.crn, CRm: f.crm, Op2: f.op2, AArch64: true, Is64: true},
				Width:    64,
				Read:     read,
				Write:    write,
				Trap:     elevatedTrapMask(el),
				Bank:     BankNone,
			})
		}
	}

	t.Register(Descriptor{
		Name:     "pmcr_el0",
		Encoding: Encoding{Op0: 3, Op1: 3, CRn: 9, CRm: 12, Op2: 0, AArch64: true, Is64: false},
		Width:    64,
		Read:     func(cpu *armstate.CPU) uint64 { return cpu.PMCREL0 },
		Write:    func(cpu *armstate.CPU, v uint64) { cpu.PMCREL0 = v },
		Trap:     TrapNone,
		Bank:     BankNone,
	})

	return t
}

// elevatedTrapMask returns the mask for "traps from every EL strictly
// below el" — the common case for an EL1/EL2/EL3-owned control
// register accessed from a lower, unprivileged EL.
func elevatedTrapMask(el int) TrapMask {
	var m TrapMask
	if el >= 1 {
		m |= TrapEL0
	}
	if el >= 2 {
		m |= TrapEL1
	}
	if el >= 3 {
		m |= TrapEL2
	}
	return m
}
