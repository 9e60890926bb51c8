/*
 * aarch64dbt - Bulk tag operations (LDGM/STGM/STZGM)
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

package mte

// TagsPerGranuleSet is the number of tags a full "tag granule" bulk
// operation covers: 16 tags (one per 16-byte memory granule), matching
// the 256-byte memory span LDGM/STGM/STZGM operate on.
const TagsPerGranuleSet = 16

// granuleSetBase rounds pa down to the 256-byte boundary the bulk
// operations are specified against.
func granuleSetBase(pa uint64) uint64 {
	return pa &^ (TagsPerGranuleSet*TagGranule - 1)
}

// LDGM reads all 16 tags covering the 256-byte block containing pa,
// packed one nibble per granule, lowest granule in the low nibble.
func LDGM(mem TagMemory, pa uint64) uint64 {
	base := granuleSetBase(pa)
	return tagWord(mem, base, TagsPerGranuleSet)
}

// STGM writes all 16 tags covering the 256-byte block containing pa
// from a packed nibble-per-granule value, the inverse of LDGM.
func STGM(mem TagMemory, pa uint64, tags uint64) {
	base := granuleSetBase(pa)
	for i := uint64(0); i < TagsPerGranuleSet; i++ {
		setTagNibble(mem, base+i*TagGranule, uint8((tags>>(4*i))&0xf))
	}
}

// STZGMTags zeroes the full 256-byte block at pa (via zero, the host
// memory-zeroing callback) and sets every one of its 16 tags to tag,
// the combined store-zero-and-tag bulk operation.
func STZGMTags(mem TagMemory, zero func(pa uint64, size uint64), pa uint64, tag uint8) {
	base := granuleSetBase(pa)
	zero(base, TagsPerGranuleSet*TagGranule)
	for i := uint64(0); i < TagsPerGranuleSet; i++ {
		setTagNibble(mem, base+i*TagGranule, tag)
	}
}
