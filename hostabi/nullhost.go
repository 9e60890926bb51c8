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

package hostabi

import (
	"fmt"
	"hash/crc32"
	"log/slog"
	"math/rand"
	"sync"
)

// NullHost is a minimal, in-process Host used by package tests: real
// guest RAM backed by a flat buffer, slog for logging, stdlib CRC
// tables. Production embedders supply their own Host wired to real
// devices; this one exists so core packages can be tested without one.
type NullHost struct {
	mu  sync.Mutex
	ram []byte
	log *slog.Logger
	rng *rand.Rand
}

// NewNullHost allocates a flat RAM buffer of the given size in bytes.
func NewNullHost(ramSize int, log *slog.Logger) *NullHost {
	return &NullHost{
		ram: make([]byte, ramSize),
		log: log,
		rng: rand.New(rand.NewSource(1)),
	}
}

func (h *NullHost) Alloc(size int) []byte { return make([]byte, size) }

func (h *NullHost) Realloc(buf []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, buf)
	return out
}

func (h *NullHost) Log(level slog.Level, msg string, args ...any) {
	if h.log == nil {
		return
	}
	h.log.Log(nil, level, msg, args...) //nolint:staticcheck // host callback, no request context
}

func (h *NullHost) Abort(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}

func (h *NullHost) RandomUint64() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.Uint64()
}

func (h *NullHost) CRC32(seed uint32, buf []byte) uint32 {
	return crc32.Update(seed, crc32.IEEETable, buf)
}

func (h *NullHost) CRC32C(seed uint32, buf []byte) uint32 {
	return crc32.Update(seed, crc32.MakeTable(crc32.Castagnoli), buf)
}

// Access implements PhysicalMemory over the flat RAM buffer, clipping the
// access at the buffer's end: where a real backing store would report a
// bus error for anything past the end, the part past the end is
// silently dropped here, since NullHost is test-only.
func (h *NullHost) Access(pa uint64, buf []byte, isWrite bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	end := pa + uint64(len(buf))
	if end > uint64(len(h.ram)) {
		end = uint64(len(h.ram))
	}
	if pa >= end {
		return
	}
	n := int(end - pa)
	if isWrite {
		copy(h.ram[pa:end], buf[:n])
	} else {
		copy(buf[:n], h.ram[pa:end])
	}
}

func (h *NullHost) ReadTimer32(uint32) uint32          { return 0 }
func (h *NullHost) ReadTimer64(uint32) uint64           { return 0 }
func (h *NullHost) WriteTimer32(uint32, uint32)         {}
func (h *NullHost) WriteTimer64(uint32, uint64)         {}
func (h *NullHost) ReadGIC32(uint32) uint32             { return 0 }
func (h *NullHost) WriteGIC32(uint32, uint32)           {}
func (h *NullHost) OnExecutionModeChanged(int, bool)    {}
func (h *NullHost) HandlePSCICall()                     {}
func (h *NullHost) OnTCMMappingUpdate(int, uint64, bool, bool) {}
func (h *NullHost) AnnounceStackChange(uint64, bool)    {}

var _ Host = (*NullHost)(nil)
