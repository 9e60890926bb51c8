/*
 * aarch64dbt - Xtensa scalar FPU operation helpers
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

package xtensa

import "github.com/rcornwell/aarch64dbt/softfloat"

// AddS/SubS/MulS are the single-precision scalar FPU ops generated code
// calls; each reapplies use_first_nan via Status() before the softfloat
// call so a guest FCR/FSR write in between never stales the policy.
func (c *FPUControl) AddS(a, b softfloat.Float32) softfloat.Float32 { return a.Add(b, c.Status()) }
func (c *FPUControl) SubS(a, b softfloat.Float32) softfloat.Float32 { return a.Sub(b, c.Status()) }
func (c *FPUControl) MulS(a, b softfloat.Float32) softfloat.Float32 { return a.Mul(b, c.Status()) }

// AddD/SubD/MulD are the double-precision counterparts.
func (c *FPUControl) AddD(a, b softfloat.Float64) softfloat.Float64 { return a.Add(b, c.Status()) }
func (c *FPUControl) SubD(a, b softfloat.Float64) softfloat.Float64 { return a.Sub(b, c.Status()) }
func (c *FPUControl) MulD(a, b softfloat.Float64) softfloat.Float64 { return a.Mul(b, c.Status()) }

// MAddS/MSubS implement the fused multiply-add/subtract scalar
// instructions as a single-rounding softfloat.MulAdd call, negating the
// product's sign for subtract rather than negating after rounding.
func (c *FPUControl) MAddS(acc, a, b softfloat.Float32) softfloat.Float32 {
	return a.MulAdd(b, acc, c.Status())
}

func (c *FPUControl) MSubS(acc, a, b softfloat.Float32) softfloat.Float32 {
	return a.MulAdd(b.Chs(), acc, c.Status())
}

func (c *FPUControl) MAddD(acc, a, b softfloat.Float64) softfloat.Float64 {
	return a.MulAdd(b, acc, c.Status())
}

func (c *FPUControl) MSubD(acc, a, b softfloat.Float64) softfloat.Float64 {
	return a.MulAdd(b.Chs(), acc, c.Status())
}

// CompareS/CompareD implement the scalar comparison instructions;
// predicate selects which of the three boolean outcomes softfloat's
// CompareQuiet/CompareSignaling produce the instruction actually wants.
type Predicate int

const (
	PredicateOEQ Predicate = iota // ordered, equal
	PredicateOLT                  // ordered, less than
	PredicateOLE                  // ordered, less-or-equal
	PredicateUEQ                  // unordered or equal
)

func (c *FPUControl) CompareS(a, b softfloat.Float32, pred Predicate, signaling bool) bool {
	var lt, eq, unordered bool
	if signaling {
		lt, eq, unordered = a.CompareSignaling(b, c.Status())
	} else {
		lt, eq, unordered = a.CompareQuiet(b, c.Status())
	}
	return evalPredicate(pred, lt, eq, unordered)
}

func (c *FPUControl) CompareD(a, b softfloat.Float64, pred Predicate, signaling bool) bool {
	var lt, eq, unordered bool
	if signaling {
		lt, eq, unordered = a.CompareSignaling(b, c.Status())
	} else {
		lt, eq, unordered = a.CompareQuiet(b, c.Status())
	}
	return evalPredicate(pred, lt, eq, unordered)
}

func evalPredicate(pred Predicate, lt, eq, unordered bool) bool {
	switch pred {
	case PredicateOEQ:
		return !unordered && eq
	case PredicateOLT:
		return !unordered && lt
	case PredicateOLE:
		return !unordered && (lt || eq)
	case PredicateUEQ:
		return unordered || eq
	default:
		return false
	}
}

// MkSAdj/MkDAdj implement the Xtensa `mksadj`/`mkdadj` division-setup
// helpers: they round the divisor's exponent to produce the adjustment
// factor used by the reciprocal-estimate sequence the compiler emits
// ahead of a software-assisted divide. Modeled here as a direct divide
// through the portable engine rather than reproducing the hardware's
// reciprocal-estimate table, since this core never executes the
// estimate-refinement instruction sequence itself — only the scalar
// arithmetic instructions that read its result.
func (c *FPUControl) MkSAdj(divisor softfloat.Float32) softfloat.Float32 {
	return softfloat.Float32FromInt32(1, c.Status()).Div(divisor, c.Status())
}

func (c *FPUControl) MkDAdj(divisor softfloat.Float64) softfloat.Float64 {
	return softfloat.Float64FromInt32(1, c.Status()).Div(divisor, c.Status())
}
