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

package tlb

import "testing"

// countingFiller installs one fixed addend on every miss and counts how
// many times it was invoked, so tests can assert fill-on-miss happens
// exactly once per genuine miss.
type countingFiller struct {
	addend uint64
	calls  int
}

func (f *countingFiller) TLBFill(table *Table, mmuIdx int, va uint64, at AccessType) bool {
	f.calls++
	table.Fill(mmuIdx, va, f.addend, false, IOTLBEntry{}, false)
	return true
}

func TestFillThenHitUsesAddend(t *testing.T) {
	filler := &countingFiller{addend: 0x1000}
	table := NewTable(1, filler)

	va := uint64(0x4000)
	out := table.TranslateAndFill(0, va, AccessRead)
	if out.Kind != KindHit {
		t.Fatalf("first access: Kind = %v, want KindHit", out.Kind)
	}
	if out.HostAddr != va+filler.addend {
		t.Fatalf("HostAddr = %#x, want %#x", out.HostAddr, va+filler.addend)
	}
	if filler.calls != 1 {
		t.Fatalf("filler called %d times on miss, want 1", filler.calls)
	}

	out = table.TranslateAndFill(0, va, AccessRead)
	if out.Kind != KindHit || out.HostAddr != va+filler.addend {
		t.Fatalf("second access did not hit the installed entry: %+v", out)
	}
	if filler.calls != 1 {
		t.Fatalf("filler called %d times total, want 1 (second access should have hit)", filler.calls)
	}
}

func TestFlushForcesRefill(t *testing.T) {
	filler := &countingFiller{addend: 0x2000}
	table := NewTable(1, filler)
	va := uint64(0x8000)

	table.TranslateAndFill(0, va, AccessRead)
	if filler.calls != 1 {
		t.Fatalf("filler calls = %d, want 1", filler.calls)
	}

	table.Flush(0, true)

	out := table.TranslateAndFill(0, va, AccessRead)
	if out.Kind != KindHit {
		t.Fatalf("post-flush access: Kind = %v, want KindHit", out.Kind)
	}
	if filler.calls != 2 {
		t.Fatalf("filler calls after flush+access = %d, want 2", filler.calls)
	}
}

func TestInvalidateSingleEntry(t *testing.T) {
	filler := &countingFiller{addend: 0x3000}
	table := NewTable(1, filler)
	vaA, vaB := uint64(0x10000), uint64(0x20000)

	table.TranslateAndFill(0, vaA, AccessRead)
	table.TranslateAndFill(0, vaB, AccessRead)
	if filler.calls != 2 {
		t.Fatalf("filler calls = %d, want 2", filler.calls)
	}

	table.Invalidate(0, vaA)

	table.TranslateAndFill(0, vaA, AccessRead)
	if filler.calls != 3 {
		t.Fatalf("invalidated entry did not force a refill: calls = %d", filler.calls)
	}

	table.TranslateAndFill(0, vaB, AccessRead)
	if filler.calls != 3 {
		t.Fatalf("untouched entry was refilled unnecessarily: calls = %d", filler.calls)
	}
}

func TestDifferentPagesDoNotAlias(t *testing.T) {
	filler := &countingFiller{addend: 0x100}
	table := NewTable(1, filler)

	va1 := uint64(0x1000)
	va2 := va1 + uint64(Size)*PageSize // same direct-mapped index, different frame

	out1 := table.TranslateAndFill(0, va1, AccessRead)
	out2 := table.TranslateAndFill(0, va2, AccessRead)

	if out1.HostAddr != va1+filler.addend || out2.HostAddr != va2+filler.addend {
		t.Fatalf("aliasing entries returned wrong host addresses: %+v, %+v", out1, out2)
	}
	if filler.calls != 2 {
		t.Fatalf("colliding indices should each miss once: calls = %d", filler.calls)
	}
}

type abortingFiller struct{}

func (abortingFiller) TLBFill(table *Table, mmuIdx int, va uint64, at AccessType) bool {
	return false
}

func TestFillerAbortProducesFault(t *testing.T) {
	table := NewTable(1, abortingFiller{})
	out := table.TranslateAndFill(0, 0x1000, AccessCode)
	if out.Kind != KindFault {
		t.Fatalf("Kind = %v, want KindFault when the filler aborts", out.Kind)
	}
}

type mmioFiller struct{ slot uint64 }

func (f mmioFiller) TLBFill(table *Table, mmuIdx int, va uint64, at AccessType) bool {
	table.Fill(mmuIdx, va, 0, true, IOTLBEntry{MMIOSlot: f.slot}, false)
	return true
}

func TestMMIOEntryReturnsSlotNotAddress(t *testing.T) {
	table := NewTable(1, mmioFiller{slot: 7})
	out := table.TranslateAndFill(0, 0x5000, AccessWrite)
	if out.Kind != KindMMIO {
		t.Fatalf("Kind = %v, want KindMMIO", out.Kind)
	}
	if out.MMIOSlot != 7 {
		t.Fatalf("MMIOSlot = %d, want 7", out.MMIOSlot)
	}
}
