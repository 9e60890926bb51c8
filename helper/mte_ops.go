/*
 * aarch64dbt - MTE generated-code helper wrappers
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

package helper

import "github.com/rcornwell/aarch64dbt/mte"

// Irg implements `irg`: generates the next allocation tag from the
// current RGSR_EL1 seed, reseeding from host entropy when the seed is
// zero and RRND applies. newSeed must be written back to RGSR_EL1 by
// the caller.
func (c *Core) Irg(seed uint16, currentTag uint8, exclude uint16, rrnd bool) (nextTag uint8, newSeed uint16) {
	return mte.IRG(seed, currentTag, exclude, rrnd, c.Host)
}

// Addsubg implements `addsubg` (ADDG/SUBG): offsets a tagged pointer's
// logical tag field by a signed 4-bit tag delta, wrapping modulo 16,
// leaving the rest of the address untouched.
func (c *Core) Addsubg(ptr uint64, tagDelta int8) uint64 {
	tag := uint8((ptr >> 56) & 0xf)
	tag = uint8((int8(tag) + tagDelta) & 0xf)
	return (ptr &^ (uint64(0xf) << 56)) | (uint64(tag) << 56)
}

// Ldg implements `ldg` (LDG): reads the single-granule allocation tag
// at pa and splices it into the logical-tag field of ptr.
func (c *Core) Ldg(pa, ptr uint64) uint64 {
	tag := mte.GetTag(c.MTE, pa)
	return (ptr &^ (uint64(0xf) << 56)) | (uint64(tag) << 56)
}

// Stg/StgParallel/StgStub implement `stg`/`stg_parallel`/`stg_stub`
// (STG and its tag-check-bypassing/no-op variants): Stg is the normal
// single-granule tag store; StgParallel is identical since this core's
// tag memory has no cross-CPU contention to order against; StgStub
// has an empty body, with no alignment or address check and no tag write, for
// the case where the generated code path has already determined
// tagging is disabled.
func (c *Core) Stg(pa uint64, tag uint8)         { mte.SetTag(c.MTE, pa, tag) }
func (c *Core) StgParallel(pa uint64, tag uint8) { mte.SetTag(c.MTE, pa, tag) }
func (c *Core) StgStub(pa uint64)                {}

// St2g/St2gParallel/St2gStub implement `st2g`/`st2g_parallel`/
// `st2g_stub` (ST2G): the two-granule form of STG, tagging the granule
// at pa and the one immediately following it.
func (c *Core) St2g(pa uint64, tag uint8) {
	mte.SetTag(c.MTE, pa, tag)
	mte.SetTag(c.MTE, pa+mte.TagGranule, tag)
}

func (c *Core) St2gParallel(pa uint64, tag uint8) { c.St2g(pa, tag) }
func (c *Core) St2gStub(pa uint64)                {}

// Ldgm/Stgm/StzgmTags implement the bulk 256-byte-block tag helpers.
func (c *Core) Ldgm(pa uint64) uint64                 { return mte.LDGM(c.MTE, pa) }
func (c *Core) Stgm(pa uint64, tags uint64)           { mte.STGM(c.MTE, pa, tags) }
func (c *Core) StzgmTags(pa uint64, tag uint8) {
	mte.STZGMTags(c.MTE, func(zpa, size uint64) {
		var zero [256]byte
		c.Host.Access(zpa, zero[:size], true)
	}, pa, tag)
}

// MteCheck implements `mte_check`: probes the tag-check engine for a
// size-byte access at va/pa and applies the configured fail
// discipline, returning whatever response the caller should act on.
func (c *Core) MteCheck(cfg mte.Config, va, pa, size uint64, discipline mte.FailDiscipline, isStore bool) mte.FailResult {
	out := mte.Probe(c.MTE, cfg, va, pa, size)
	if out.Kind != mte.KindFail {
		return mte.FailResult{}
	}
	return mte.CheckFail(discipline, isStore)
}

// MteCheckZVA implements `mte_check_zva`: the tag-checking half of
// DC ZVA, verifying every granule of the about-to-be-zeroed block
// already carries the pointer's logical tag.
func (c *Core) MteCheckZVA(ptrTag uint8, firstGranule, blockSize uint64, discipline mte.FailDiscipline) mte.FailResult {
	out := mte.CheckZVA(c.MTE, firstGranule, ptrTag, blockSize)
	if out.Kind != mte.KindFail {
		return mte.FailResult{}
	}
	return mte.CheckFail(discipline, true)
}
