/*
 * aarch64dbt - AArch64 scalar FP compare helpers
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

import "github.com/rcornwell/aarch64dbt/softfloat"

// CompareResult packs the NZCV condition flags FCMP/FCMPE produce,
// ready to be written straight into PSTATE.
type CompareResult struct {
	N, Z, C, V bool
}

// unorderedResult is the NZCV result IEEE 754 mandates for an
// unordered (NaN-involving) compare: NZCV = 0011, C and V set with N
// and Z clear.
var unorderedResult = CompareResult{N: false, Z: false, C: true, V: true}

func nzcvFrom(less, equal, unordered bool) CompareResult {
	if unordered {
		return unorderedResult
	}
	if equal {
		return CompareResult{Z: true, C: true}
	}
	if less {
		return CompareResult{N: true}
	}
	return CompareResult{C: true}
}

// VfpCmpSA64/VfpCmpSEA64 implement `vfp_cmps_a64`/`vfp_cmpse_a64`
// (FCMP/FCMPE, single precision). The E suffix requests the signaling
// compare, which raises Invalid on a quiet NaN operand too.
func (c *Core) VfpCmpSA64(a, b softfloat.Float32) CompareResult {
	lt, eq, un := a.CompareQuiet(b, c.Status)
	return nzcvFrom(lt, eq, un)
}

func (c *Core) VfpCmpSEA64(a, b softfloat.Float32) CompareResult {
	lt, eq, un := a.CompareSignaling(b, c.Status)
	return nzcvFrom(lt, eq, un)
}

// VfpCmpDA64/VfpCmpDEA64 are the double-precision counterparts.
func (c *Core) VfpCmpDA64(a, b softfloat.Float64) CompareResult {
	lt, eq, un := a.CompareQuiet(b, c.Status)
	return nzcvFrom(lt, eq, un)
}

func (c *Core) VfpCmpDEA64(a, b softfloat.Float64) CompareResult {
	lt, eq, un := a.CompareSignaling(b, c.Status)
	return nzcvFrom(lt, eq, un)
}

// VfpCmpHA64/VfpCmpHEA64 are the half-precision counterparts. The
// engine's Float16 only implements the quiet compare, so the
// signaling (E-suffixed) form reuses it; half-precision compares are
// always software-assisted on this core regardless.
func (c *Core) VfpCmpHA64(a, b softfloat.Float16) CompareResult {
	lt, eq, un := a.CompareQuiet(b, c.Status)
	return nzcvFrom(lt, eq, un)
}

func (c *Core) VfpCmpHEA64(a, b softfloat.Float16) CompareResult {
	lt, eq, un := a.CompareQuiet(b, c.Status)
	return nzcvFrom(lt, eq, un)
}
