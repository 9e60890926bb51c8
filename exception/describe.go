/*
 * aarch64dbt - Fault diagnostics
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

package exception

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"golang.org/x/arch/arm64/arm64asm"

	"github.com/rcornwell/aarch64dbt/hostabi"
)

// DescribeFault logs an ERROR-level diagnostic naming the faulting
// instruction at pc, decoding exactly the one instruction word at that
// address for the log line. It never branches on the decoded
// instruction's semantics; the decode exists purely to make the log
// message readable, the way a debugger's disassembly pane would.
func DescribeFault(host hostabi.Logger, reader hostabi.PhysicalMemory, pc uint64, class Class, syndrome uint32) {
	var word [4]byte
	reader.Access(pc, word[:], false)
	insn, err := arm64asm.Decode(word[:])

	var asm string
	if err != nil {
		asm = fmt.Sprintf("<undecodable: %v>", err)
	} else {
		asm = arm64asm.GoSyntax(insn, pc, nil, nil)
	}

	host.Log(slog.LevelError, "exception taken",
		"class", classString(class),
		"pc", fmt.Sprintf("%#016x", pc),
		"syndrome", fmt.Sprintf("%#08x", syndrome),
		"instruction", asm,
		"word", fmt.Sprintf("%#08x", binary.LittleEndian.Uint32(word[:])),
	)
}

func classString(c Class) string {
	switch c {
	case ClassSync:
		return "sync"
	case ClassIRQ:
		return "irq"
	case ClassFIQ:
		return "fiq"
	case ClassSError:
		return "serror"
	default:
		return "unknown"
	}
}
