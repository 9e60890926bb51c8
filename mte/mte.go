/*
 * aarch64dbt - Memory-tagging check engine
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

// Package mte checks that the logical tag carried in a tagged pointer
// matches the allocation tag stored in tag memory for the granule(s) an
// access touches, generates new tags for IRG, and implements the bulk
// tag operations (DC GVA/GZVA, LDGM/STGM/STZGM) alongside the
// single-tag ones.
package mte

import "math/bits"

const (
	LogTagGranule = 4 // 16-byte granule
	TagGranule    = 1 << LogTagGranule
)

// TagMemory is the host callback surface for reading/writing the
// nibble-packed tag stream: byte tagMem[pa>>(LogTagGranule+1)] holds
// two tags, [3:0] for the lower granule and [7:4] for the higher.
type TagMemory interface {
	ReadTagByte(pa uint64) uint8
	WriteTagByte(pa uint64, v uint8)
}

func tagByteAddr(pa uint64) uint64 { return pa >> (LogTagGranule + 1) }
func tagNibble(mem TagMemory, pa uint64) uint8 {
	b := mem.ReadTagByte(tagByteAddr(pa))
	if pa&TagGranule != 0 {
		return b >> 4
	}
	return b & 0xf
}

func setTagNibble(mem TagMemory, pa uint64, tag uint8) {
	addr := tagByteAddr(pa)
	b := mem.ReadTagByte(addr)
	if pa&TagGranule != 0 {
		b = (b & 0x0f) | (tag << 4)
	} else {
		b = (b & 0xf0) | (tag & 0xf)
	}
	mem.WriteTagByte(addr, b)
}

// Range is a canonical-address range, used by the TCMA check to decide
// whether an address falls in the TTBR0 ("lower") or TTBR1 ("upper")
// half of the address space.
type Range struct {
	Lo, Hi uint64
}

func (r Range) contains(va uint64) bool { return va >= r.Lo && va <= r.Hi }

// Config carries the per-access parameters Probe needs beyond the raw
// address: whether TBI/TCMA apply to this half of the address space,
// and the canonical ranges TCMA0/TCMA1 cover.
type Config struct {
	TBIEnabled   bool
	TCMAEnabled  bool
	LowerRange   Range // TTBR0-selected range, gated by TCMA0
	UpperRange   Range // TTBR1-selected range, gated by TCMA1
}

func logicalTag(va uint64) uint8 { return uint8((va >> 56) & 0xf) }

// GetTag/SetTag read and write a single granule's allocation tag,
// backing the scalar `ldg`/`stg` instructions (LDGM/STGM operate on a
// whole 256-byte block at once; see bulk.go).
func GetTag(mem TagMemory, pa uint64) uint8       { return tagNibble(mem, pa) }
func SetTag(mem TagMemory, pa uint64, tag uint8) { setTagNibble(mem, pa, tag) }

// Outcome is Probe's sum-type result.
type Kind int

const (
	KindUnchecked Kind = iota
	KindPass
	KindFail
)

type Outcome struct {
	Kind        Kind
	FirstFailPA uint64
}

// Probe implements mte_probe_int: checks size bytes starting at va
// (already translated to pa) against tag memory, honoring TCMA's
// no-check fast path for an untagged (tag-zero) pointer in the
// TCMA-covered range.
func Probe(mem TagMemory, cfg Config, va, pa uint64, size uint64) Outcome {
	if !cfg.TBIEnabled {
		return Outcome{Kind: KindUnchecked}
	}

	tag := logicalTag(va)
	if tag == 0 && cfg.TCMAEnabled && (cfg.LowerRange.contains(va) || cfg.UpperRange.contains(va)) {
		return Outcome{Kind: KindPass}
	}

	firstGranule := pa &^ (TagGranule - 1)
	lastGranule := (pa + size - 1) &^ (TagGranule - 1)
	count := (lastGranule-firstGranule)/TagGranule + 1

	if ok, failPA := checkN(mem, firstGranule, tag, count); !ok {
		return Outcome{Kind: KindFail, FirstFailPA: failPA}
	}
	return Outcome{Kind: KindPass}
}

// checkN walks count consecutive granules starting at firstGranule,
// comparing each stored tag against ptrTag, stopping at the first
// mismatch. Tags are compared nibble by nibble rather than XOR-folding
// a full byte at a time, since firstGranule need not be tag-pair
// aligned (an access can start on the odd granule of a tag byte).
func checkN(mem TagMemory, firstGranule uint64, ptrTag uint8, count uint64) (ok bool, failPA uint64) {
	for i := uint64(0); i < count; i++ {
		pa := firstGranule + i*TagGranule
		if tagNibble(mem, pa) != ptrTag {
			return false, pa
		}
	}
	return true, 0
}

// FailDiscipline is the SCTLR.TCF-selected response to a tag mismatch.
type FailDiscipline int

const (
	FailSyncAbort FailDiscipline = iota
	FailAsyncFlag
	FailAsymmetric // store: sync; load: async (or the reverse, per caller)
)

// FailResult tells the caller what to do about a failed Probe: raise a
// synchronous data abort, or just set the TFSR_ELn async flag and
// continue.
type FailResult struct {
	RaiseSyncAbort bool
	SetAsyncFlag   bool
}

// CheckFail implements mte_check_fail: given the access's fail
// discipline and whether it was a load or a store, decides the
// response.
func CheckFail(discipline FailDiscipline, isStore bool) FailResult {
	switch discipline {
	case FailSyncAbort:
		return FailResult{RaiseSyncAbort: true}
	case FailAsyncFlag:
		return FailResult{SetAsyncFlag: true}
	case FailAsymmetric:
		if isStore {
			return FailResult{RaiseSyncAbort: true}
		}
		return FailResult{SetAsyncFlag: true}
	default:
		return FailResult{RaiseSyncAbort: true}
	}
}

// TFSRBit computes the bit to set in TFSR_ELn for an async tag-check
// failure. The single-range regime always sets bit 55; the multi-range
// regime (gated by ARMCoreConfig.MTEMultiRange) selects bit 0 or 1 by
// VA[55], per the architecture reference's two-range encoding.
func TFSRBit(va uint64, multiRange bool) uint64 {
	if !multiRange {
		return 1 << 55
	}
	if va&(1<<55) != 0 {
		return 1 << 1
	}
	return 1 << 0
}

// CheckZVA implements mte_check_zva/DC ZVA's tag-checking half: the
// zeroed block must be fully tagged with ptrTag. blockSize is
// 4 << dczBlocksize bytes. On mismatch it returns KindFail with
// FirstFailPA set to the first granule whose tag differs, found via a
// trailing-zero count on the XOR'd tag word,
// matching the reference implementation's bit trick for locating the
// first failing granule without a byte-by-byte scan.
func CheckZVA(mem TagMemory, firstGranule uint64, ptrTag uint8, blockSize uint64) Outcome {
	return checkBlock(mem, firstGranule, ptrTag, blockSize)
}

// CheckGZVA is DC GZVA's tag-checking half: identical to CheckZVA, the
// variant distinction (zero-and-tag vs tag-only) lives in the caller
// that also performs the memory zeroing, not here.
func CheckGZVA(mem TagMemory, firstGranule uint64, ptrTag uint8, blockSize uint64) Outcome {
	return checkBlock(mem, firstGranule, ptrTag, blockSize)
}

func checkBlock(mem TagMemory, firstGranule uint64, ptrTag uint8, blockSize uint64) Outcome {
	granules := blockSize / TagGranule
	replicated := uint8(ptrTag * 0x11 & 0xff)
	for i := uint64(0); i < granules; i += 16 {
		word := tagWord(mem, firstGranule+i*TagGranule, min64(16, granules-i))
		xored := word ^ repeatNibbles(replicated, min64(16, granules-i))
		if xored != 0 {
			idx := bits.TrailingZeros64(xored) / 4
			return Outcome{Kind: KindFail, FirstFailPA: firstGranule + (i+uint64(idx))*TagGranule}
		}
	}
	return Outcome{Kind: KindPass}
}

// tagWord reads up to 16 consecutive tag nibbles (one 64-bit word's
// worth) packed little-endian, the unit CheckZVA compares in one shot.
func tagWord(mem TagMemory, firstGranule uint64, count uint64) uint64 {
	var w uint64
	for i := uint64(0); i < count; i++ {
		w |= uint64(tagNibble(mem, firstGranule+i*TagGranule)) << (4 * i)
	}
	return w
}

func repeatNibbles(tag uint8, count uint64) uint64 {
	var w uint64
	for i := uint64(0); i < count; i++ {
		w |= uint64(tag&0xf) << (4 * i)
	}
	return w
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// Entropy is the host random-byte source IRG falls back to when the
// architectural LFSR seed is zero and RRND is implemented.
type Entropy interface {
	RandomUint64() uint64
}

// IRG implements the tag-generation instruction: a 16-bit LFSR reseeded
// from RGSR_EL1[23:8] produces a 4-bit offset; the next tag is the
// first tag above currentTag+offset (modulo 16) whose bit is clear in
// exclude, or 0 when exclude covers all 16 tags. When seed is zero
// and rrnd is set, the engine requests host entropy and retries until a
// nonzero seed is obtained, so the result stays architecturally
// non-deterministic only in that one configuration.
func IRG(seed uint16, currentTag uint8, exclude uint16, rrnd bool, ent Entropy) (nextTag uint8, newSeed uint16) {
	for seed == 0 && rrnd {
		seed = uint16(ent.RandomUint64())
	}
	lfsr := lfsrNext(seed)
	offset := uint8(lfsr & 0xf)

	if exclude == 0xffff {
		return 0, lfsr
	}
	tag := (currentTag + offset) & 0xf
	for {
		tag = (tag + 1) & 0xf
		if exclude&(1<<tag) == 0 {
			break
		}
	}
	return tag, lfsr
}

// lfsrNext advances the 16-bit Fibonacci LFSR with the x^16+x^14+x^13+x^11+1
// tap set the architecture's IRG pseudocode uses.
func lfsrNext(seed uint16) uint16 {
	bit := ((seed >> 0) ^ (seed >> 2) ^ (seed >> 3) ^ (seed >> 5)) & 1
	return (seed >> 1) | (bit << 15)
}
