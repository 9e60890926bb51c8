/*
 * aarch64dbt - Exclusive-access and LSE compare-and-swap-pair helpers
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

import (
	"encoding/binary"

	"github.com/rcornwell/aarch64dbt/armstate"
)

// PairedCmpxchg64LE/BE implement `paired_cmpxchg64_{le,be}`: the
// 128-bit LDXP/STXP pair path, gated by the CPU's single-reservation
// exclusive monitor. STXP only commits if the monitor still holds the
// address the matching LDXP opened.
func (c *Core) PairedCmpxchg64LE(pa uint64, newLo, newHi uint64) (success bool) {
	return c.pairedCmpxchg64(pa, newLo, newHi, binary.LittleEndian)
}

func (c *Core) PairedCmpxchg64BE(pa uint64, newLo, newHi uint64) (success bool) {
	return c.pairedCmpxchg64(pa, newLo, newHi, binary.BigEndian)
}

type byteOrder interface {
	Uint64([]byte) uint64
	PutUint64([]byte, uint64)
}

func (c *Core) pairedCmpxchg64(pa uint64, newLo, newHi uint64, order byteOrder) bool {
	if c.CPU.Exclusive.Addr != pa {
		return false
	}
	var buf [16]byte
	c.Host.Access(pa, buf[:], false)
	curLo := order.Uint64(buf[0:8])
	curHi := order.Uint64(buf[8:16])
	if curLo != c.CPU.Exclusive.Val || curHi != c.CPU.Exclusive.High {
		c.CPU.Exclusive.Addr = armstate.AllOnes
		return false
	}
	order.PutUint64(buf[0:8], newLo)
	order.PutUint64(buf[8:16], newHi)
	c.Host.Access(pa, buf[:], true)
	c.CPU.Exclusive.Addr = armstate.AllOnes
	return true
}

// PairedCmpxchg64LEParallel/BEParallel implement the `_parallel`
// variants: used when both doublewords of the pair are known to fall
// in the same host page, so the compare-and-swap is done directly
// against guest memory without going through the single-reservation
// monitor at all (the host is the only writer in this emulation, so a
// direct read-compare-write is equivalent to a hardware-atomic CASP).
func (c *Core) PairedCmpxchg64LEParallel(pa uint64, expectLo, expectHi, newLo, newHi uint64) bool {
	return c.pairedCmpxchg64Parallel(pa, expectLo, expectHi, newLo, newHi, binary.LittleEndian)
}

func (c *Core) PairedCmpxchg64BEParallel(pa uint64, expectLo, expectHi, newLo, newHi uint64) bool {
	return c.pairedCmpxchg64Parallel(pa, expectLo, expectHi, newLo, newHi, binary.BigEndian)
}

func (c *Core) pairedCmpxchg64Parallel(pa uint64, expectLo, expectHi, newLo, newHi uint64, order byteOrder) bool {
	var buf [16]byte
	c.Host.Access(pa, buf[:], false)
	if order.Uint64(buf[0:8]) != expectLo || order.Uint64(buf[8:16]) != expectHi {
		return false
	}
	order.PutUint64(buf[0:8], newLo)
	order.PutUint64(buf[8:16], newHi)
	c.Host.Access(pa, buf[:], true)
	return true
}

// CaspLEParallel/CaspBEParallel implement `casp_{le,be}_parallel`
// (CASP/CASPA/CASPL/CASPAL): the LSE register-pair compare-and-swap,
// which is always a direct memory CAS (no exclusive monitor involved
// at all, unlike LDXP/STXP).
func (c *Core) CaspLEParallel(pa uint64, expectLo, expectHi, newLo, newHi uint64) (oldLo, oldHi uint64) {
	return c.casp(pa, expectLo, expectHi, newLo, newHi, binary.LittleEndian)
}

func (c *Core) CaspBEParallel(pa uint64, expectLo, expectHi, newLo, newHi uint64) (oldLo, oldHi uint64) {
	return c.casp(pa, expectLo, expectHi, newLo, newHi, binary.BigEndian)
}

func (c *Core) casp(pa uint64, expectLo, expectHi, newLo, newHi uint64, order byteOrder) (oldLo, oldHi uint64) {
	var buf [16]byte
	c.Host.Access(pa, buf[:], false)
	oldLo = order.Uint64(buf[0:8])
	oldHi = order.Uint64(buf[8:16])
	if oldLo != expectLo || oldHi != expectHi {
		return oldLo, oldHi
	}
	order.PutUint64(buf[0:8], newLo)
	order.PutUint64(buf[8:16], newHi)
	c.Host.Access(pa, buf[:], true)
	return oldLo, oldHi
}
