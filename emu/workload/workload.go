/*
 * S370 - Configuration file parser
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

// Package workload reads the whitespace-separated-integer workload stream
// described in the specification and produces the job descriptors the
// scheduler admits. This is the external input collaborator: its exact
// error behaviour on malformed input is not specified, so it fails fast
// with a descriptive error rather than guessing at recovery.
package workload

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rcornwell/rrmem/emu/pcb"
)

// Config is the three global parameters that precede the job list.
type Config struct {
	MaxMemory    int
	CPUAllocated int
	SwitchTime   int
}

// scanner wraps bufio.Scanner configured to split on any whitespace run,
// matching the original's `cin >> x` token-at-a-time reads.
type scanner struct {
	s   *bufio.Scanner
	err error
}

func newScanner(r io.Reader) *scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &scanner{s: sc}
}

func (s *scanner) int() int {
	if s.err != nil {
		return 0
	}
	if !s.s.Scan() {
		if err := s.s.Err(); err != nil {
			s.err = err
		} else {
			s.err = io.ErrUnexpectedEOF
		}
		return 0
	}
	tok := s.s.Text()
	var v int
	var neg bool
	i := 0
	if len(tok) > 0 && tok[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(tok) {
		s.err = fmt.Errorf("workload: expected integer, got %q", tok)
		return 0
	}
	for ; i < len(tok); i++ {
		c := tok[i]
		if c < '0' || c > '9' {
			s.err = fmt.Errorf("workload: expected integer, got %q", tok)
			return 0
		}
		v = v*10 + int(c-'0')
	}
	if neg {
		v = -v
	}
	return v
}

// Parse reads a full workload stream: the global config line, the process
// count, and each process's instruction stream, per §6 of the
// specification.
func Parse(r io.Reader) (Config, []pcb.Job, error) {
	sc := newScanner(r)

	cfg := Config{
		MaxMemory:    sc.int(),
		CPUAllocated: sc.int(),
		SwitchTime:   sc.int(),
	}

	numProcesses := sc.int()
	if sc.err != nil {
		return Config{}, nil, sc.err
	}

	jobs := make([]pcb.Job, 0, numProcesses)
	for p := 0; p < numProcesses; p++ {
		processID := sc.int()
		maxMemoryNeeded := sc.int()
		instructionSize := sc.int()
		if processID < 0 && sc.err == nil {
			sc.err = fmt.Errorf("workload: process %d has a negative process ID", processID)
		}

		instructions := make([]pcb.Instruction, 0, instructionSize)
		for i := 0; i < instructionSize; i++ {
			opcode := sc.int()
			in := pcb.Instruction{Opcode: opcode}
			switch opcode {
			case pcb.Compute, pcb.Store:
				in.A = sc.int()
				in.B = sc.int()
			case pcb.Print, pcb.Load:
				in.A = sc.int()
			default:
				if sc.err == nil {
					sc.err = fmt.Errorf("workload: process %d instruction %d has unknown opcode %d", processID, i, opcode)
				}
			}
			instructions = append(instructions, in)
		}

		jobs = append(jobs, pcb.Job{
			ProcessID:       processID,
			MaxMemoryNeeded: maxMemoryNeeded,
			Instructions:    instructions,
		})
	}

	if sc.err != nil {
		return Config{}, nil, sc.err
	}
	return cfg, jobs, nil
}
