/*
 * aarch64dbt - Generated-code-facing helper functions
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

// Package helper is the stable-named surface the generated translation
// exposes to, bound as methods on a Core rather than free functions so
// each call carries its CPU and host without a global. Every method
// name below matches the generated-code entry point it stands in for.
package helper

import (
	"math/bits"

	"github.com/rcornwell/aarch64dbt/armstate"
	"github.com/rcornwell/aarch64dbt/hostabi"
	"github.com/rcornwell/aarch64dbt/mte"
	"github.com/rcornwell/aarch64dbt/softfloat"
	"github.com/rcornwell/aarch64dbt/sysreg"
	"github.com/rcornwell/aarch64dbt/tlb"
)

// Core bundles everything a helper call needs: the CPU state it
// operates on, the host callbacks it may call out to, and the
// supporting engines (TLB, system-register table, MTE tag memory).
type Core struct {
	CPU    *armstate.CPU
	Host   hostabi.Host
	TLB    *tlb.Table
	Sys    *sysreg.Table
	MTE    mte.TagMemory
	Status *softfloat.Status

	MTEMultiRange bool
}

// NewCore wires a Core from its constituent pieces; Status defaults to
// NaNPolicyARM, the AArch64 scalar FPU's policy.
func NewCore(cpu *armstate.CPU, host hostabi.Host, tlbTable *tlb.Table, sysTable *sysreg.Table, tagMem mte.TagMemory) *Core {
	return &Core{
		CPU:           cpu,
		Host:          host,
		TLB:           tlbTable,
		Sys:           sysTable,
		MTE:           tagMem,
		Status:        softfloat.NewStatus(softfloat.NaNPolicyARM),
		MTEMultiRange: cpu.Config.MTEMultiRange,
	}
}

// Udiv64 implements `udiv64`: unsigned 64-bit divide, architecturally
// defined to return 0 for a divide by zero rather than trapping.
func (c *Core) Udiv64(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Sdiv64 implements `sdiv64`: signed 64-bit divide. Divide by zero
// returns 0; INT64_MIN/-1 returns INT64_MIN (the only overflowing
// signed divide case, masked rather than trapped per the architecture).
func (c *Core) Sdiv64(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	if a == -1<<63 && b == -1 {
		return -1 << 63
	}
	return a / b
}

// Rbit64 implements `rbit64`: reverse the bit order of a 64-bit value.
func (c *Core) Rbit64(v uint64) uint64 { return bits.Reverse64(v) }

// Crc32_64/Crc32c64 delegate to the host's CRC accelerator, the only
// way this core touches a CRC table.
func (c *Core) Crc32_64(seed uint32, buf []byte) uint32  { return c.Host.CRC32(seed, buf) }
func (c *Core) Crc32c64(seed uint32, buf []byte) uint32 { return c.Host.CRC32C(seed, buf) }
