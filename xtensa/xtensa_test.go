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

package xtensa

import (
	"testing"

	"github.com/rcornwell/aarch64dbt/softfloat"
)

func TestFCRRoundTrip(t *testing.T) {
	c := NewFPUControl(false)
	for _, reg := range []uint32{0, 1, 2, 3} {
		c.WriteFCR(reg)
		if got := c.ReadFCR(); got != reg {
			t.Fatalf("FCR round trip %d -> %d", reg, got)
		}
	}
}

func TestFSRRoundTrip(t *testing.T) {
	c := NewFPUControl(false)
	all := FSRInexact | FSRUnderflow | FSROverflow | FSRDivByZero | FSRInvalid
	c.WriteFSR(all)
	if got := c.ReadFSR(); got != all {
		t.Fatalf("FSR round trip = %#x, want %#x", got, all)
	}
}

func TestAddSBasic(t *testing.T) {
	c := NewFPUControl(false)
	got := c.AddS(softfloat.Float32FromInt32(1, c.Status()), softfloat.Float32FromInt32(1, c.Status()))
	want := softfloat.Float32FromInt32(2, c.Status())
	if got != want {
		t.Fatalf("1.0+1.0 = %v, want %v", got, want)
	}
}

func TestMAddSSingleRounding(t *testing.T) {
	c := NewFPUControl(false)
	one := softfloat.Float32FromInt32(1, c.Status())
	got := c.MAddS(one, one, one) // acc + a*b = 1 + 1*1 = 2
	want := softfloat.Float32FromInt32(2, c.Status())
	if got != want {
		t.Fatalf("fma(acc=1,a=1,b=1) = %v, want %v", got, want)
	}
}

func TestCompareSOrderedLessThan(t *testing.T) {
	c := NewFPUControl(false)
	one := softfloat.Float32FromInt32(1, c.Status())
	two := softfloat.Float32FromInt32(2, c.Status())
	if !c.CompareS(one, two, PredicateOLT, false) {
		t.Fatalf("1.0 < 2.0 should be true")
	}
	if c.CompareS(two, one, PredicateOLT, false) {
		t.Fatalf("2.0 < 1.0 should be false")
	}
}

func TestUseFirstNaNSurvivesStatusReassignment(t *testing.T) {
	c := NewFPUControl(true)
	c.status.UseFirstNaN = false // simulate external tampering
	if !c.Status().UseFirstNaN {
		t.Fatalf("Status() did not reassert the fixed use_first_nan policy")
	}
}
