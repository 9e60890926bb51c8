/*
 * aarch64dbt - AdvSIMD integer lane helpers
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

// NeonAddlpS8/U8/S16/U16 implement the `neon_addlp_{s8,u8,s16,u16}`
// pairwise-widening-add lane helpers (SADDLP/UADDLP): each pairs up
// adjacent narrow lanes of the input vector and sums them into the
// next wider signed/unsigned lane, one vector register's worth at a
// time. The vector is passed/returned as its raw lane bytes; the
// decoder is responsible for lane-count/element-size selection.

func (c *Core) NeonAddlpS8(in []int8) []int16 {
	out := make([]int16, len(in)/2)
	for i := range out {
		out[i] = int16(in[2*i]) + int16(in[2*i+1])
	}
	return out
}

func (c *Core) NeonAddlpU8(in []uint8) []uint16 {
	out := make([]uint16, len(in)/2)
	for i := range out {
		out[i] = uint16(in[2*i]) + uint16(in[2*i+1])
	}
	return out
}

func (c *Core) NeonAddlpS16(in []int16) []int32 {
	out := make([]int32, len(in)/2)
	for i := range out {
		out[i] = int32(in[2*i]) + int32(in[2*i+1])
	}
	return out
}

func (c *Core) NeonAddlpU16(in []uint16) []uint32 {
	out := make([]uint32, len(in)/2)
	for i := range out {
		out[i] = uint32(in[2*i]) + uint32(in[2*i+1])
	}
	return out
}

// AdvSIMDOp identifies one of the remaining AdvSIMD lane instructions
// this core dispatches without a dedicated helper method: the
// element-wise integer and bitwise lane ops generated code otherwise
// calls `advsimd_*` for by name.
type AdvSIMDOp int

const (
	AdvSIMDAdd AdvSIMDOp = iota
	AdvSIMDSub
	AdvSIMDAnd
	AdvSIMDOrr
	AdvSIMDEor
	AdvSIMDNot
)

// AdvSIMD applies op lane-wise over a and b as raw little-endian
// 64-bit halves of a vector register; it is a deliberately narrow
// stand-in for the full AdvSIMD lane-op family (this core models
// vector register layout and the scalar FP/MTE/exclusive paths in
// depth, not the complete SIMD integer ISA surface).
func (c *Core) AdvSIMD(op AdvSIMDOp, a, b uint64) uint64 {
	switch op {
	case AdvSIMDAdd:
		return a + b
	case AdvSIMDSub:
		return a - b
	case AdvSIMDAnd:
		return a & b
	case AdvSIMDOrr:
		return a | b
	case AdvSIMDEor:
		return a ^ b
	case AdvSIMDNot:
		return ^a
	default:
		return 0
	}
}
