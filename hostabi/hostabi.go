/*
 * aarch64dbt - Host callback interfaces
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

// Package hostabi declares the thin callback surface the core consumes
// from its embedder, in the same spirit as a device-model interface:
// a small set of host capabilities (allocation, logging, entropy,
// physical memory, timers, interrupt controller) the core calls out to
// without depending on any concrete implementation. None of these are
// implemented here except NullHost, a no-op/assert stand-in used by
// tests.
package hostabi

import "log/slog"

// Allocator is the host's memory-allocation callback set.
type Allocator interface {
	Alloc(size int) []byte
	Realloc(buf []byte, size int) []byte
}

// Logger receives the five-level host log callback. Implementations
// typically wrap an *slog.Logger via internal/logger.
type Logger interface {
	Log(level slog.Level, msg string, args ...any)
}

// Aborter is called on an unrecoverable host-ABI violation; the core
// assumes the call never returns.
type Aborter interface {
	Abort(format string, args ...any)
}

// Entropy supplies host random bytes, used by MTE's IRG tag generator
// when the architectural LFSR seed is zero and RRND is implemented.
type Entropy interface {
	RandomUint64() uint64
}

// CRC accelerates CRC-32 and CRC-32C over host buffers for the `crc32_64`
// / `crc32c_64` generated-code helpers.
type CRC interface {
	CRC32(seed uint32, buf []byte) uint32
	CRC32C(seed uint32, buf []byte) uint32
}

// PhysicalMemory is the guest-memory access callback
// (`cpu_physical_memory_rw`); it is the ONLY way the core touches
// guest-addressable RAM once the soft-TLB has resolved a host addend.
type PhysicalMemory interface {
	Access(pa uint64, buf []byte, isWrite bool)
}

// GenericTimer reads/writes a timer's CVAL/CTL pair via the host's GIC
// timer register model.
type GenericTimer interface {
	ReadTimer32(offset uint32) uint32
	ReadTimer64(offset uint32) uint64
	WriteTimer32(offset uint32, value uint32)
	WriteTimer64(offset uint32, value uint64)
}

// GICInterface reads/writes the GIC CPU interface registers.
type GICInterface interface {
	ReadGIC32(offset uint32) uint32
	WriteGIC32(offset uint32, value uint32)
}

// ExecModeNotifier is invoked whenever PSTATE.M[3:2] changes (current EL
// or security state transition).
type ExecModeNotifier interface {
	OnExecutionModeChanged(el int, isSecure bool)
}

// PSCI is invoked to service a PSCI conduit call (SMC/HVC with a PSCI
// function id).
type PSCI interface {
	HandlePSCICall()
}

// TCMNotifier is invoked whenever a TCM mapping's enable/address changes.
type TCMNotifier interface {
	OnTCMMappingUpdate(index int, address uint64, el01Enabled, el2Enabled bool)
}

// StackProfiler is invoked on function-call-like control flow the host
// wants to attribute a profiling stack frame to; the core only ever
// calls out through this, it never hosts its own profiler.
type StackProfiler interface {
	AnnounceStackChange(pc uint64, addFrame bool)
}

// Host bundles every callback the core may need; a caller that does not
// use a given surface (e.g. no GIC, no TCM) may embed NullHost and
// override only what it needs.
type Host interface {
	Allocator
	Logger
	Aborter
	Entropy
	CRC
	PhysicalMemory
	GenericTimer
	GICInterface
	ExecModeNotifier
	PSCI
	TCMNotifier
	StackProfiler
}
