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

package helper

import (
	"testing"

	"github.com/rcornwell/aarch64dbt/armstate"
	"github.com/rcornwell/aarch64dbt/hostabi"
	"github.com/rcornwell/aarch64dbt/internal/armconfig"
	"github.com/rcornwell/aarch64dbt/mte"
	"github.com/rcornwell/aarch64dbt/sysreg"
	"github.com/rcornwell/aarch64dbt/tlb"
)

type identityFiller struct{ addend uint64 }

func (f identityFiller) TLBFill(table *tlb.Table, mmuIdx int, va uint64, at tlb.AccessType) bool {
	table.Fill(mmuIdx, va, f.addend, false, tlb.IOTLBEntry{}, false)
	return true
}

type fakeTagMemory struct{ bytes map[uint64]uint8 }

func newFakeTagMemory() *fakeTagMemory { return &fakeTagMemory{bytes: make(map[uint64]uint8)} }
func (m *fakeTagMemory) ReadTagByte(pa uint64) uint8    { return m.bytes[pa] }
func (m *fakeTagMemory) WriteTagByte(pa uint64, v uint8) { m.bytes[pa] = v }

func newTestCore() *Core {
	cfg := armconfig.New(armconfig.WithName("test"))
	cpu := armstate.New(cfg)
	host := hostabi.NewNullHost(1<<20, nil)
	tlbTable := tlb.NewTable(1, identityFiller{addend: 0})
	sysTable := sysreg.NewTable()
	return NewCore(cpu, host, tlbTable, sysTable, newFakeTagMemory())
}

func TestUdiv64DivideByZeroIsZero(t *testing.T) {
	c := newTestCore()
	if got := c.Udiv64(42, 0); got != 0 {
		t.Fatalf("Udiv64(42,0) = %d, want 0", got)
	}
	if got := c.Udiv64(10, 2); got != 5 {
		t.Fatalf("Udiv64(10,2) = %d, want 5", got)
	}
}

func TestSdiv64OverflowCaseMasked(t *testing.T) {
	c := newTestCore()
	const minInt64 = -1 << 63
	if got := c.Sdiv64(minInt64, -1); got != minInt64 {
		t.Fatalf("Sdiv64(MIN,-1) = %d, want %d", got, minInt64)
	}
	if got := c.Sdiv64(7, 0); got != 0 {
		t.Fatalf("Sdiv64(7,0) = %d, want 0", got)
	}
}

func TestRbit64ReversesBitOrder(t *testing.T) {
	c := newTestCore()
	if got := c.Rbit64(1); got != 1<<63 {
		t.Fatalf("Rbit64(1) = %#x, want bit 63 set", got)
	}
}

func TestDaifSetAndClearIndividualBits(t *testing.T) {
	c := newTestCore()
	c.MsrIDaifset(0xF)
	if !(c.CPU.DAIF.D && c.CPU.DAIF.A && c.CPU.DAIF.I && c.CPU.DAIF.F) {
		t.Fatalf("DAIFSet #15 should set all four bits, got %+v", c.CPU.DAIF)
	}
	c.MsrIDaifclear(0x2) // clear I only
	if c.CPU.DAIF.I {
		t.Fatalf("DAIFClr #2 should clear I")
	}
	if !c.CPU.DAIF.D || !c.CPU.DAIF.A || !c.CPU.DAIF.F {
		t.Fatalf("DAIFClr #2 should not touch D/A/F, got %+v", c.CPU.DAIF)
	}
}

func TestTranslateAndFillUsesFillerAddend(t *testing.T) {
	cfg := armconfig.New(armconfig.WithName("test"))
	cpu := armstate.New(cfg)
	host := hostabi.NewNullHost(1<<20, nil)
	tlbTable := tlb.NewTable(1, identityFiller{addend: 0x1000})
	c := NewCore(cpu, host, tlbTable, sysreg.NewTable(), newFakeTagMemory())

	out := c.TranslateAndFill(0, 0x4000, tlb.AccessRead)
	if out.Kind != tlb.KindHit {
		t.Fatalf("Kind = %v, want KindHit", out.Kind)
	}
	if out.HostAddr != 0x4000+0x1000 {
		t.Fatalf("HostAddr = %#x, want %#x", out.HostAddr, 0x5000)
	}
}

func TestMteStgLdgRoundTrip(t *testing.T) {
	c := newTestCore()
	c.Stg(0x8000, 0x7)
	ptr := c.Ldg(0x8000, 0x0000_1234_0000_0000)
	if got := uint8((ptr >> 56) & 0xf); got != 0x7 {
		t.Fatalf("Ldg spliced tag = %#x, want 0x7", got)
	}
}

func TestMteAddsubgWrapsModulo16(t *testing.T) {
	c := newTestCore()
	ptr := uint64(0xF) << 56 // tag 15
	got := c.Addsubg(ptr, 2)
	if tag := uint8((got >> 56) & 0xf); tag != 1 {
		t.Fatalf("Addsubg(tag=15,+2) tag = %d, want 1 (wraps)", tag)
	}
}

func TestMteLdgmStgmRoundTrip(t *testing.T) {
	c := newTestCore()
	c.Stgm(0x9000, 0x123456789ABCDEF0)
	if got := c.Ldgm(0x9000); got != 0x123456789ABCDEF0 {
		t.Fatalf("Ldgm after Stgm = %#x", got)
	}
}

func TestIrgReseedsOnZeroSeedWhenRRND(t *testing.T) {
	c := newTestCore()
	_, seed := c.Irg(0, 0, 0, true)
	if seed == 0 {
		t.Fatalf("Irg did not reseed from host entropy")
	}
}

func TestSysregReadWriteRoundTrip(t *testing.T) {
	c := newTestCore()
	enc := sysreg.Encoding{Op0: 3, Op1: 0, CRn: 1, CRm: 5, Op2: 9, AArch64: true, Is64: true}
	c.Sys.Register(sysreg.Descriptor{
		Name:     "test_reg",
		Encoding: enc,
		Width:    64,
		Read:     func(cpu *armstate.CPU) uint64 { return cpu.X[3] },
		Write:    func(cpu *armstate.CPU, v uint64) { cpu.X[3] = v },
	})
	if res := c.SysregWrite(enc, 0xDEAD); res.Trapped {
		t.Fatalf("unexpected trap on write")
	}
	res := c.SysregRead(enc)
	if res.Trapped || res.Value != 0xDEAD {
		t.Fatalf("SysregRead = %+v, want Value=0xDEAD", res)
	}
}

func TestSysregUnknownEncodingTraps(t *testing.T) {
	c := newTestCore()
	res := c.SysregRead(sysreg.Encoding{Op0: 3, CRn: 99})
	if !res.Trapped {
		t.Fatalf("lookup of an unregistered encoding should report Trapped")
	}
}

func TestExceptionReturnDelegatesToExceptionEngine(t *testing.T) {
	c := newTestCore()
	c.CPU.State.EL = 1
	c.CPU.Sys.ELR[1] = 0x2000
	c.CPU.Sys.SPSR[1] = 0 // EL0t
	out := c.ExceptionReturn()
	if out.Illegal {
		t.Fatalf("ExceptionReturn reported illegal for a plain EL1->EL0 return")
	}
	if c.CPU.PC != 0x2000 {
		t.Fatalf("PC after ERET = %#x, want %#x", c.CPU.PC, 0x2000)
	}
}

func TestPairedCmpxchg64LESucceedsWhenMonitorMatches(t *testing.T) {
	c := newTestCore()
	pa := uint64(0x10000)
	var buf [16]byte
	buf[0] = 0x11
	buf[8] = 0x22
	c.Host.Access(pa, buf[:], true)

	c.CPU.Exclusive.Addr = pa
	c.CPU.Exclusive.Val = 0x11
	c.CPU.Exclusive.High = 0x22

	if ok := c.PairedCmpxchg64LE(pa, 0x33, 0x44); !ok {
		t.Fatalf("PairedCmpxchg64LE should succeed when monitor matches stored value")
	}

	var readBack [16]byte
	c.Host.Access(pa, readBack[:], false)
	if readBack[0] != 0x33 || readBack[8] != 0x44 {
		t.Fatalf("memory not updated after successful cmpxchg: %v", readBack)
	}
}

func TestPairedCmpxchg64LEFailsWhenMonitorStale(t *testing.T) {
	c := newTestCore()
	c.CPU.Exclusive.Addr = armstate.AllOnes
	if ok := c.PairedCmpxchg64LE(0x20000, 1, 2); ok {
		t.Fatalf("PairedCmpxchg64LE should fail when the monitor holds no reservation for pa")
	}
}

func TestCaspLEParallelReturnsOldValueOnMismatch(t *testing.T) {
	c := newTestCore()
	pa := uint64(0x30000)
	var buf [16]byte
	buf[0] = 0x9
	c.Host.Access(pa, buf[:], true)

	oldLo, _ := c.CaspLEParallel(pa, 0x1, 0, 0x2, 0)
	if oldLo != 0x9 {
		t.Fatalf("CaspLEParallel old value = %#x, want 0x9", oldLo)
	}
	var after [16]byte
	c.Host.Access(pa, after[:], false)
	if after[0] != 0x9 {
		t.Fatalf("CaspLEParallel should not write on mismatch")
	}
}

func TestDcZvaZeroesBlock(t *testing.T) {
	c := newTestCore()
	pa := uint64(0x40000)
	fill := make([]byte, 64)
	for i := range fill {
		fill[i] = 0xFF
	}
	c.Host.Access(pa, fill, true)

	c.DcZva(pa+3, 64) // unaligned pa within the block still zeroes the whole aligned block

	var check [64]byte
	c.Host.Access(pa, check[:], false)
	for i, b := range check {
		if b != 0 {
			t.Fatalf("byte %d = %#x after DcZva, want 0", i, b)
		}
	}
}
