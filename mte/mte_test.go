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

package mte

import "testing"

type fakeTagMemory struct {
	bytes map[uint64]uint8
}

func newFakeTagMemory() *fakeTagMemory {
	return &fakeTagMemory{bytes: make(map[uint64]uint8)}
}

func (m *fakeTagMemory) ReadTagByte(addr uint64) uint8  { return m.bytes[addr] }
func (m *fakeTagMemory) WriteTagByte(addr uint64, v uint8) { m.bytes[addr] = v }

func TestProbePassesWhenTagsMatch(t *testing.T) {
	mem := newFakeTagMemory()
	pa := uint64(0x1000)
	setTagNibble(mem, pa, 5)

	va := uint64(5) << 56 // logical tag 5, same as stored
	cfg := Config{TBIEnabled: true}
	out := Probe(mem, cfg, va, pa, TagGranule)
	if out.Kind != KindPass {
		t.Fatalf("Kind = %v, want KindPass", out.Kind)
	}
}

func TestProbeFailsOnMismatch(t *testing.T) {
	mem := newFakeTagMemory()
	pa := uint64(0x2000)
	setTagNibble(mem, pa, 5)

	va := uint64(3) << 56 // logical tag 3, mismatched
	cfg := Config{TBIEnabled: true}
	out := Probe(mem, cfg, va, pa, TagGranule)
	if out.Kind != KindFail {
		t.Fatalf("Kind = %v, want KindFail", out.Kind)
	}
	if out.FirstFailPA != pa {
		t.Fatalf("FirstFailPA = %#x, want %#x", out.FirstFailPA, pa)
	}
}

func TestProbeUncheckedWithoutTBI(t *testing.T) {
	mem := newFakeTagMemory()
	out := Probe(mem, Config{TBIEnabled: false}, 0, 0, TagGranule)
	if out.Kind != KindUnchecked {
		t.Fatalf("Kind = %v, want KindUnchecked", out.Kind)
	}
}

func TestTCMASkipsCheckForUntaggedPointerInRange(t *testing.T) {
	mem := newFakeTagMemory()
	pa := uint64(0x3000)
	setTagNibble(mem, pa, 9) // deliberately wrong, should never be consulted

	va := uint64(0x0000_1000_0000_0000) // logical tag 0
	cfg := Config{
		TBIEnabled:  true,
		TCMAEnabled: true,
		LowerRange:  Range{Lo: 0, Hi: 0x0000_ffff_ffff_ffff},
	}
	out := Probe(mem, cfg, va, pa, TagGranule)
	if out.Kind != KindPass {
		t.Fatalf("TCMA should pass an untagged pointer without reading tag memory, got %v", out.Kind)
	}
}

func TestCheckFailDisciplines(t *testing.T) {
	if r := CheckFail(FailSyncAbort, true); !r.RaiseSyncAbort {
		t.Fatalf("FailSyncAbort should raise a sync abort")
	}
	if r := CheckFail(FailAsyncFlag, true); !r.SetAsyncFlag {
		t.Fatalf("FailAsyncFlag should set the async flag")
	}
	if r := CheckFail(FailAsymmetric, true); !r.RaiseSyncAbort {
		t.Fatalf("FailAsymmetric store should raise a sync abort")
	}
	if r := CheckFail(FailAsymmetric, false); !r.SetAsyncFlag {
		t.Fatalf("FailAsymmetric load should set the async flag")
	}
}

func TestTFSRBitSingleVsMultiRange(t *testing.T) {
	if got := TFSRBit(0, false); got != 1<<55 {
		t.Fatalf("single-range bit = %#x, want bit 55", got)
	}
	if got := TFSRBit(1<<55, true); got != 1<<1 {
		t.Fatalf("multi-range VA[55]=1 bit = %#x, want bit 1", got)
	}
	if got := TFSRBit(0, true); got != 1<<0 {
		t.Fatalf("multi-range VA[55]=0 bit = %#x, want bit 0", got)
	}
}

func TestCheckZVAFindsFirstMismatch(t *testing.T) {
	mem := newFakeTagMemory()
	base := uint64(0x4000)
	for i := uint64(0); i < 16; i++ {
		setTagNibble(mem, base+i*TagGranule, 7)
	}
	setTagNibble(mem, base+3*TagGranule, 2) // mismatch at granule 3

	out := CheckZVA(mem, base, 7, 16*TagGranule)
	if out.Kind != KindFail {
		t.Fatalf("Kind = %v, want KindFail", out.Kind)
	}
	if out.FirstFailPA != base+3*TagGranule {
		t.Fatalf("FirstFailPA = %#x, want granule 3", out.FirstFailPA)
	}
}

func TestLDGMSTGMRoundTrip(t *testing.T) {
	mem := newFakeTagMemory()
	base := uint64(0x5000)
	var want uint64
	for i := uint64(0); i < TagsPerGranuleSet; i++ {
		want |= (i & 0xf) << (4 * i)
	}
	STGM(mem, base, want)
	got := LDGM(mem, base)
	if got != want {
		t.Fatalf("LDGM after STGM = %#x, want %#x", got, want)
	}
}

func TestSTZGMTagsZeroesAndTags(t *testing.T) {
	mem := newFakeTagMemory()
	base := uint64(0x6000)
	var zeroedSize uint64
	zero := func(pa uint64, size uint64) { zeroedSize = size }

	STZGMTags(mem, zero, base, 0xa)
	if zeroedSize != TagsPerGranuleSet*TagGranule {
		t.Fatalf("zeroed size = %d, want %d", zeroedSize, TagsPerGranuleSet*TagGranule)
	}
	for i := uint64(0); i < TagsPerGranuleSet; i++ {
		if got := tagNibble(mem, base+i*TagGranule); got != 0xa {
			t.Fatalf("granule %d tag = %#x, want 0xa", i, got)
		}
	}
}

type fixedEntropy struct{ v uint64 }

func (f fixedEntropy) RandomUint64() uint64 { return f.v }

func TestIRGAvoidsExcludedTags(t *testing.T) {
	// Exclude every tag except 6.
	var exclude uint16
	for tg := 0; tg < 16; tg++ {
		if tg != 6 {
			exclude |= 1 << tg
		}
	}
	tag, _ := IRG(0x1234, 0, exclude, false, nil)
	if tag != 6 {
		t.Fatalf("IRG produced tag %d, want 6 (only unexcluded tag)", tag)
	}
}

func TestIRGRetriesOnZeroSeedWhenRRND(t *testing.T) {
	tag, seed := IRG(0, 0, 0, true, fixedEntropy{v: 0xBEEF})
	if seed == 0 {
		t.Fatalf("IRG did not reseed from entropy when seed was zero and rrnd set")
	}
	_ = tag
}
