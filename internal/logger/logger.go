/*
 * aarch64dbt - Wrapper for slog
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

// Package logger adapts the host's five-level logging callback onto
// log/slog, wrapping a slog.Handler to add a noisy trace level below
// Debug.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LevelNoisy sits below slog.LevelDebug and the other four alias slog's
// own levels, so the full five-level host taxonomy (NOISY, DEBUG, INFO,
// WARNING, ERROR) round-trips through slog.Level, which is just an int.
const (
	LevelNoisy   slog.Level = -8
	LevelDebug   slog.Level = slog.LevelDebug
	LevelInfo    slog.Level = slog.LevelInfo
	LevelWarning slog.Level = slog.LevelWarn
	LevelError   slog.Level = slog.LevelError
)

// Handler is an slog.Handler that mirrors the host log(level, fmt, ...)
// callback: text-formatted, mutex-guarded, optionally echoed to stderr.
type Handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	debug bool
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, debug: h.debug}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, debug: h.debug}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := levelName(r.Level) + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, level, r.Message}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Value.String())
			return true
		})
	}
	result := strings.Join(strs, " ") + "\n"
	b := []byte(result)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}

	if h.debug || r.Level >= LevelError {
		_, err = os.Stderr.Write(b)
	}
	return err
}

func levelName(l slog.Level) string {
	switch {
	case l <= LevelNoisy:
		return "NOISY"
	case l < LevelInfo:
		return "DEBUG"
	case l < LevelWarning:
		return "INFO"
	case l < LevelError:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// SetDebug toggles whether everything below ERROR also echoes to stderr.
func (h *Handler) SetDebug(debug bool) {
	h.debug = debug
}

// New wraps out in a Handler honoring the given minimum level.
func New(out io.Writer, level slog.Leveler, debug bool) *Handler {
	return &Handler{
		out: out,
		h: slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: level,
		}),
		mu:    &sync.Mutex{},
		debug: debug,
	}
}

// Noisy logs at the finest granularity host log level (below Debug),
// used for per-access soft-TLB and MTE tracing.
func Noisy(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelNoisy, msg, args...)
}
