/*
 * S370 - Wrapper for slog
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

// Package trace is the external printer collaborator: it turns the
// scheduler's emitted diagnostic lines and the arena's memory dump into
// the exact, line-buffered output stream described in the specification's
// §6, routed through log/slog the way the rest of this codebase logs,
// rather than ad hoc fmt.Println calls scattered through the simulation.
package trace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/rcornwell/rrmem/emu/arena"
)

// lineHandler is a minimal slog.Handler that writes only the record's
// formatted message, one per line, with no timestamp or level prefix —
// unlike util/logger's LogHandler, which is for operator-facing diagnostic
// logging and does carry those. The trace stream must be byte-exact and
// reproducible, so it bypasses that formatting entirely while still going
// through the same slog.Logger API used everywhere else in this program.
type lineHandler struct {
	out io.Writer
	mu  *sync.Mutex
}

func newLineHandler(out io.Writer) *lineHandler {
	return &lineHandler{out: out, mu: &sync.Mutex{}}
}

func (h *lineHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, r.Message+"\n")
	return err
}

func (h *lineHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *lineHandler) WithGroup(_ string) slog.Handler      { return h }

// Tracer emits the scheduling/admission trace and the memory dump.
type Tracer struct {
	logger *slog.Logger
}

// New constructs a Tracer that writes every line to out.
func New(out io.Writer) *Tracer {
	return &Tracer{logger: slog.New(newLineHandler(out))}
}

// Emit writes one trace line. It matches the scheduler.Emit signature, so
// a *Tracer can be plugged directly into scheduler.New.
func (t *Tracer) Emit(line string) {
	t.logger.Info(line)
}

// DumpMemory prints "<addr> : <word>" for every word in mem, per §6.2 of
// the specification.
func (t *Tracer) DumpMemory(mem *arena.Arena) {
	for _, line := range mem.Dump() {
		t.logger.Info(line)
	}
}

// Final prints the closing "Total CPU time used" line.
func (t *Tracer) Final(globalClock int) {
	t.logger.Info(fmt.Sprintf("Total CPU time used: %d.", globalClock))
}
