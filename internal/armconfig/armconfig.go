/*
   Config - Per-model constant-after-reset CPU configuration.

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
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package armconfig builds the immutable, per-model configuration every
// CPU record in an arena refers to by a non-owning pointer. There is no
// file to parse here, only a model name plus a list of Option values
// applied in order, in the same name-plus-value shape the rest of this
// family of simulators uses for device/model options.
package armconfig

// Feature is one bit of the CPU's immutable feature bitmap.
type Feature uint64

const (
	FeatAArch64 Feature = 1 << iota
	FeatEL2
	FeatEL3
	FeatPMU
	FeatNEON
	FeatMPU
	FeatV7
	FeatV8
	FeatMTE
	FeatMTE3
	FeatSVE
	FeatSME
)

func (f Feature) Has(bit Feature) bool { return f&bit != 0 }

// GICConfig carries the GIC CPU-interface parameters a model is wired
// with; zero value means no GIC distributor is attached.
type GICConfig struct {
	Present    bool
	NumIRQs    uint32
	CPUIfBase  uint64
	DistBase   uint64
}

// ARMCoreConfig is constant after construction; every CPU record in the
// arena holds a non-owning pointer to exactly one of these, shared
// read-only across CPUs of the same model.
type ARMCoreConfig struct {
	Name string

	MIDR  uint64
	CTR   uint64
	CLIDR uint64
	MPIDR uint64

	ResetSCTLR uint64
	ResetPMCR  uint64

	IDAA64PFR0  uint64
	IDAA64PFR1  uint64
	IDAA64ISAR0 uint64
	IDAA64ISAR1 uint64
	IDAA64MMFR0 uint64
	IDAA64MMFR1 uint64

	Features Feature
	GIC      GICConfig

	// MTEMultiRange selects the VA[55]-indexed TFSR_ELn bit-layout regime
	// over the default single-range (bit 55) regime. Defaults false; see
	// DESIGN.md before flipping it.
	MTEMultiRange bool

	// HighestEL is the highest implemented exception level, used by
	// reset to pick the initial PSTATE.EL.
	HighestEL int
}

// Option mutates a config under construction. Options apply in the
// order passed to New, so a later option overrides an earlier one that
// touched the same field.
type Option func(*ARMCoreConfig)

func WithName(name string) Option {
	return func(c *ARMCoreConfig) { c.Name = name }
}

func WithIdentificationRegisters(midr, ctr, clidr, mpidr uint64) Option {
	return func(c *ARMCoreConfig) {
		c.MIDR, c.CTR, c.CLIDR, c.MPIDR = midr, ctr, clidr, mpidr
	}
}

func WithResetValues(sctlr, pmcr uint64) Option {
	return func(c *ARMCoreConfig) {
		c.ResetSCTLR, c.ResetPMCR = sctlr, pmcr
	}
}

func WithIDRegisters(pfr0, pfr1, isar0, isar1, mmfr0, mmfr1 uint64) Option {
	return func(c *ARMCoreConfig) {
		c.IDAA64PFR0, c.IDAA64PFR1 = pfr0, pfr1
		c.IDAA64ISAR0, c.IDAA64ISAR1 = isar0, isar1
		c.IDAA64MMFR0, c.IDAA64MMFR1 = mmfr0, mmfr1
	}
}

func WithFeatures(f Feature) Option {
	return func(c *ARMCoreConfig) { c.Features |= f }
}

func WithGIC(g GICConfig) Option {
	return func(c *ARMCoreConfig) { c.GIC = g }
}

func WithMTEMultiRange(enabled bool) Option {
	return func(c *ARMCoreConfig) { c.MTEMultiRange = enabled }
}

// New builds an ARMCoreConfig, deriving HighestEL from the feature bits
// once every option has applied.
func New(opts ...Option) *ARMCoreConfig {
	c := &ARMCoreConfig{
		Name:       "generic",
		ResetSCTLR: 0x30d00800,
		Features:   FeatAArch64 | FeatV8,
	}
	for _, opt := range opts {
		opt(c)
	}
	switch {
	case c.Features.Has(FeatEL3):
		c.HighestEL = 3
	case c.Features.Has(FeatEL2):
		c.HighestEL = 2
	default:
		c.HighestEL = 1
	}
	return c
}

// DebugChecks gates the design-time assertions made through Assert
// (the TLB addend/MMIO invariant checked by tlb's Fill). It is a
// package variable defaulting to true, not a build tag, so no build
// compiles the checks out; setting it false makes Assert a no-op.
var DebugChecks = true

// Assert panics with msg if cond is false and DebugChecks is enabled;
// a no-op otherwise. For invariants that indicate a bug in this core,
// never for guest-triggerable conditions (those go through the
// exception engine or hostabi.Abort instead).
func Assert(cond bool, msg string) {
	if DebugChecks && !cond {
		panic("armconfig: assertion failed: " + msg)
	}
}
