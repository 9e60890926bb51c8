/*
 * aarch64dbt - System register descriptor table
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

// Package sysreg describes coprocessor/system registers by the encoding
// tuple the instruction set uses to address them, stored in a table
// keyed by that integer, each carrying its own read/write functions,
// trap mask, and banking policy.
package sysreg

import "github.com/rcornwell/aarch64dbt/armstate"

// Encoding packs (coproc, op0, op1, CRn, CRm, op2, is64, ns, aarch64)
// into a single comparable key, the same shape the instruction decoder
// already extracts those fields into.
type Encoding struct {
	Coproc  uint8
	Op0     uint8
	Op1     uint8
	CRn     uint8
	CRm     uint8
	Op2     uint8
	Is64    bool
	NS      bool
	AArch64 bool
}

// key folds Encoding into a single integer for map lookup.
func (e Encoding) key() uint32 {
	var v uint32
	v |= uint32(e.Coproc) << 24
	v |= uint32(e.Op0) << 20
	v |= uint32(e.Op1) << 17
	v |= uint32(e.CRn) << 13
	v |= uint32(e.CRm) << 9
	v |= uint32(e.Op2) << 6
	if e.Is64 {
		v |= 1 << 2
	}
	if e.NS {
		v |= 1 << 1
	}
	if e.AArch64 {
		v |= 1 << 0
	}
	return v
}

// TrapMask selects which exception levels trap on access, one bit per
// level, OR-ed together so a descriptor can say "traps below EL2" with
// one value.
type TrapMask uint8

const (
	TrapNone TrapMask = 0
	TrapEL0  TrapMask = 1 << 0
	TrapEL1  TrapMask = 1 << 1
	TrapEL2  TrapMask = 1 << 2
)

// ReadFunc/WriteFunc implement a register's access semantics against
// live CPU state.
type ReadFunc func(cpu *armstate.CPU) uint64
type WriteFunc func(cpu *armstate.CPU, value uint64)

// BankPolicy selects which of a banked AArch32 register's two slots
// (secure/non-secure) an access resolves to.
type BankPolicy int

const (
	BankNone BankPolicy = iota // AArch64 register, indexed by EL, no _s/_ns split
	BankSecureAware
)

// Descriptor is one system register's full access contract.
type Descriptor struct {
	Name     string
	Encoding Encoding
	Width    int // 32 or 64
	Read     ReadFunc
	Write    WriteFunc
	Trap     TrapMask
	Bank     BankPolicy
}

// Table is the descriptor set for one CPU model, keyed by encoding.
type Table struct {
	byKey map[uint32]*Descriptor
}

// NewTable builds an empty table; callers register descriptors with
// Register.
func NewTable() *Table {
	return &Table{byKey: make(map[uint32]*Descriptor)}
}

// Register adds d to the table, keyed by its Encoding.
func (t *Table) Register(d Descriptor) {
	cp := d
	t.byKey[d.Encoding.key()] = &cp
}

// Lookup returns the descriptor for enc, or nil if unknown.
func (t *Table) Lookup(enc Encoding) *Descriptor {
	return t.byKey[enc.key()]
}

// Trapped reports whether a descriptor's trap mask fires for currentEL.
func (d *Descriptor) Trapped(currentEL int) bool {
	switch currentEL {
	case 0:
		return d.Trap&TrapEL0 != 0
	case 1:
		return d.Trap&TrapEL1 != 0
	case 2:
		return d.Trap&TrapEL2 != 0
	default:
		return false
	}
}

// SecureBank holds the two slots of a banked AArch32 register.
type SecureBank struct {
	Secure, NonSecure uint64
}

// BankedRegGet implements the A32_BANKED_REG_GET access-secure-reg rule:
// when EL3 is AArch32 and SCR.NS is clear, a banked register's secure
// slot is read; otherwise the non-secure slot. When EL3 is AArch64,
// only the non-secure slot is ever observable (el3IsAArch64 forces
// that branch regardless of scrNS).
func BankedRegGet(bank SecureBank, el3IsAArch64, scrNS bool) uint64 {
	if !el3IsAArch64 && !scrNS {
		return bank.Secure
	}
	return bank.NonSecure
}

// BankedRegSet is BankedRegGet's write-side counterpart.
func BankedRegSet(bank *SecureBank, el3IsAArch64, scrNS bool, value uint64) {
	if !el3IsAArch64 && !scrNS {
		bank.Secure = value
		return
	}
	bank.NonSecure = value
}
