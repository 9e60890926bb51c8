/*
   Soft-TLB: VA-to-host-addend translation with fill-on-miss, adapted
   from the direct-mapped page-table-walk cache of the 370 MMU to an
   AArch64-shaped comparator/addend/iotlb entry.

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

// Package tlb is a fixed-capacity, direct-mapped soft-TLB: one array of
// CPU_TLB_SIZE entries per MMU index, filled lazily by an
// architecture-supplied Filler and invalidated in bulk or by index.
package tlb

import "github.com/rcornwell/aarch64dbt/internal/armconfig"

const (
	// PageBits is the log2 of the translation granule this TLB indexes
	// by; 12 for a 4KiB page.
	PageBits = 12
	PageSize = 1 << PageBits
	PageMask = PageSize - 1

	// Size is the number of direct-mapped entries per MMU index.
	Size     = 256
	indexMask = Size - 1
)

// AccessType selects which of an entry's three comparator tags a lookup
// checks.
type AccessType int

const (
	AccessRead AccessType = iota
	AccessWrite
	AccessCode
)

// Entry flag bits, OR'd into the low bits of a comparator tag below the
// page-aligned address it stores.
const (
	FlagInvalid  uint64 = 1 << 0
	FlagMMIO     uint64 = 1 << 1
	FlagOneShot  uint64 = 1 << 2
	flagMask            = FlagInvalid | FlagMMIO | FlagOneShot
)

// IOTLBEntry carries the MMIO/watchpoint/MTE attributes a resident
// translation needs beyond a plain host addend.
type IOTLBEntry struct {
	MMIOSlot  uint64
	Watchpoint bool
	MTETagged  bool
}

// entry is one direct-mapped slot. A slot with AddrRead/Write/Code all
// carrying FlagInvalid has never been filled or was explicitly
// invalidated.
type entry struct {
	addrRead  uint64
	addrWrite uint64
	addrCode  uint64
	addend    uint64
	iotlb     IOTLBEntry
	hasIOTLB  bool
}

func emptyEntry() entry {
	return entry{addrRead: FlagInvalid, addrWrite: FlagInvalid, addrCode: FlagInvalid}
}

func (e *entry) tag(at AccessType) uint64 {
	switch at {
	case AccessWrite:
		return e.addrWrite
	case AccessCode:
		return e.addrCode
	default:
		return e.addrRead
	}
}

// Outcome is the sum-type result of a translation: exactly one of Hit,
// MMIO or Fault is meaningful, selected by Kind.
type Kind int

const (
	KindHit Kind = iota
	KindMMIO
	KindFault
)

type Outcome struct {
	Kind        Kind
	HostAddr    uint64 // KindHit: va + addend
	MMIOSlot    uint64 // KindMMIO
	FaultReason string // KindFault
}

// Filler performs the architecture-specific page-table walk for a miss
// and installs the resulting translation via Table.Fill. It returns
// false if the walk itself raised an abort (the exception engine is
// assumed to already have recorded the fault) and the caller must not
// retry.
type Filler interface {
	TLBFill(table *Table, mmuIdx int, va uint64, at AccessType) bool
}

// Table is the set of per-MMU-index direct-mapped arrays for one CPU.
type Table struct {
	entries [][]entry
	filler  Filler
}

// NewTable allocates numMMUIdx independent direct-mapped tables, all
// initially empty (every slot FlagInvalid).
func NewTable(numMMUIdx int, filler Filler) *Table {
	t := &Table{entries: make([][]entry, numMMUIdx), filler: filler}
	for i := range t.entries {
		t.entries[i] = make([]entry, Size)
		for j := range t.entries[i] {
			t.entries[i][j] = emptyEntry()
		}
	}
	return t
}

func pageIndex(va uint64) uint64 { return (va >> PageBits) & indexMask }
func pageFrame(va uint64) uint64 { return va &^ PageMask }

// TranslateAndFill resolves va under mmuIdx for at, filling the entry on
// miss by invoking the Filler exactly once and retrying the same index.
func (t *Table) TranslateAndFill(mmuIdx int, va uint64, at AccessType) Outcome {
	idx := pageIndex(va)
	e := &t.entries[mmuIdx][idx]
	if hit, outcome := t.lookup(e, va, at); hit {
		return outcome
	}

	if !t.filler.TLBFill(t, mmuIdx, va, at) {
		return Outcome{Kind: KindFault, FaultReason: "tlb_fill raised an abort"}
	}

	// Retry once; Fill is expected to have installed an entry covering
	// this page, but a racing invalidation (or a filler that chose a
	// one-shot entry) means a second miss here is not a bug.
	e = &t.entries[mmuIdx][idx]
	if hit, outcome := t.lookup(e, va, at); hit {
		return outcome
	}
	return Outcome{Kind: KindFault, FaultReason: "translation still absent after fill"}
}

func (t *Table) lookup(e *entry, va uint64, at AccessType) (bool, Outcome) {
	tag := e.tag(at)
	if tag&FlagInvalid != 0 {
		return false, Outcome{}
	}
	if (tag^pageFrame(va))&^flagMask != 0 {
		return false, Outcome{}
	}
	if tag&FlagMMIO != 0 {
		slot := uint64(0)
		if e.hasIOTLB {
			slot = e.iotlb.MMIOSlot
		}
		return true, Outcome{Kind: KindMMIO, MMIOSlot: slot}
	}
	return true, Outcome{Kind: KindHit, HostAddr: va + e.addend}
}

// Fill installs a translation for va's page under mmuIdx, covering all
// three access types with the comparator tags and addend the caller
// computed from its page-table walk. mmio marks the slot as MMIO, in
// which case addend must be zero per the soft-TLB's addend/MMIO
// invariant.
func (t *Table) Fill(mmuIdx int, va, addend uint64, mmio bool, iotlb IOTLBEntry, oneShot bool) {
	var flags uint64
	if mmio {
		flags |= FlagMMIO
	}
	if oneShot {
		flags |= FlagOneShot
	}
	armconfig.Assert(!mmio || addend == 0, "tlb: MMIO entry filled with nonzero addend")

	frame := pageFrame(va) | flags
	e := entry{addrRead: frame, addrWrite: frame, addrCode: frame, addend: addend}
	if mmio {
		e.iotlb = iotlb
		e.hasIOTLB = true
	}
	t.entries[mmuIdx][pageIndex(va)] = e
}

// Invalidate forces a refill on the next access to va's page under
// mmuIdx, moving that single entry from Resident to Invalid.
func (t *Table) Invalidate(mmuIdx int, va uint64) {
	t.entries[mmuIdx][pageIndex(va)] = emptyEntry()
}

// Flush invalidates every entry under mmuIdx, or every MMU index if all
// is true.
func (t *Table) Flush(mmuIdx int, all bool) {
	if all {
		for i := range t.entries {
			t.flushIndex(i)
		}
		return
	}
	t.flushIndex(mmuIdx)
}

func (t *Table) flushIndex(mmuIdx int) {
	for j := range t.entries[mmuIdx] {
		t.entries[mmuIdx][j] = emptyEntry()
	}
}
